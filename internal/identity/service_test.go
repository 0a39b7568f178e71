package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"homeleads/internal/platform/logger"
	"homeleads/internal/platform/metrics"
	"homeleads/pkg/sentinel"
)

type NormalizerSuite struct {
	suite.Suite
	store      *InMemoryStore
	normalizer *Normalizer
}

func TestNormalizerSuite(t *testing.T) {
	suite.Run(t, new(NormalizerSuite))
}

func (s *NormalizerSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.normalizer = NewNormalizer(s.store, logger.New(), metrics.NewForTest())
}

func (s *NormalizerSuite) submission(phone string) Submission {
	return Submission{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Phone:     phone,
		Source:    "Website",
	}
}

func (s *NormalizerSuite) TestResolveIdempotent() {
	ctx := context.Background()

	first, err := s.normalizer.Resolve(ctx, s.submission("5551234567"))
	s.Require().NoError(err)
	second, err := s.normalizer.Resolve(ctx, s.submission("5551234567"))
	s.Require().NoError(err)

	s.Equal(first, second)
	s.Equal(1, s.store.AttributeCount(KindFirstName))
	s.Equal(1, s.store.AttributeCount(KindEmail))
	s.Equal(1, s.store.AttributeCount(KindPhone))
}

func (s *NormalizerSuite) TestResolveNormalizesVariants() {
	ctx := context.Background()

	first, err := s.normalizer.Resolve(ctx, Submission{
		FirstName: "Jane", LastName: "Doe",
		Email: "Jane@Example.COM", Phone: "(555) 123-4567", Source: "Website",
	})
	s.Require().NoError(err)
	second, err := s.normalizer.Resolve(ctx, Submission{
		FirstName: " Jane ", LastName: "Doe",
		Email: "jane@example.com ", Phone: "555.123.4567", Source: "Website",
	})
	s.Require().NoError(err)

	s.Equal(first.EmailID, second.EmailID)
	s.Equal(first.FirstNameID, second.FirstNameID)
	s.Require().NotNil(first.PhoneID)
	s.Require().NotNil(second.PhoneID)
	s.Equal(*first.PhoneID, *second.PhoneID)
}

func (s *NormalizerSuite) TestResolveOmitsPhoneWhenAbsent() {
	ctx := context.Background()

	ids, err := s.normalizer.Resolve(ctx, s.submission(""))
	s.Require().NoError(err)
	s.Nil(ids.PhoneID)
	s.Equal(0, s.store.AttributeCount(KindPhone))
}

func (s *NormalizerSuite) TestResolveContactSameIdentityMatchesOnce() {
	ctx := context.Background()

	ids, err := s.normalizer.Resolve(ctx, s.submission("5551234567"))
	s.Require().NoError(err)

	firstID, err := s.normalizer.ResolveContact(ctx, ids)
	s.Require().NoError(err)

	// Resubmission with a different source updates attribution, not identity.
	ids.SourceID, err = s.store.ResolveAttribute(ctx, KindSource, "open_house")
	s.Require().NoError(err)
	secondID, err := s.normalizer.ResolveContact(ctx, ids)
	s.Require().NoError(err)

	s.Equal(firstID, secondID)
	s.Equal(1, s.store.ContactCount())

	view, err := s.store.GetContact(ctx, firstID)
	s.Require().NoError(err)
	s.Equal("open_house", view.Source)
}

func (s *NormalizerSuite) TestResolveContactNoPhoneFallback() {
	ctx := context.Background()

	// First submission without a phone.
	noPhone, err := s.normalizer.Resolve(ctx, s.submission(""))
	s.Require().NoError(err)
	firstID, err := s.normalizer.ResolveContact(ctx, noPhone)
	s.Require().NoError(err)

	// Same email, phone now known: must match the existing contact.
	withPhone, err := s.normalizer.Resolve(ctx, s.submission("5551234567"))
	s.Require().NoError(err)
	secondID, err := s.normalizer.ResolveContact(ctx, withPhone)
	s.Require().NoError(err)

	s.Equal(firstID, secondID)
	s.Equal(1, s.store.ContactCount())

	// The matched contact's phone is not backfilled.
	view, err := s.store.GetContact(ctx, firstID)
	s.Require().NoError(err)
	s.Nil(view.Phone)
}

func (s *NormalizerSuite) TestResolveContactDistinctPhonesAreDistinctPeople() {
	ctx := context.Background()

	a, err := s.normalizer.Resolve(ctx, s.submission("5551234567"))
	s.Require().NoError(err)
	aID, err := s.normalizer.ResolveContact(ctx, a)
	s.Require().NoError(err)

	b, err := s.normalizer.Resolve(ctx, s.submission("5559876543"))
	s.Require().NoError(err)
	bID, err := s.normalizer.ResolveContact(ctx, b)
	s.Require().NoError(err)

	s.NotEqual(aID, bID)
	s.Equal(2, s.store.ContactCount())
}

func (s *NormalizerSuite) TestResolveContactNoPhoneThenNoPhone() {
	ctx := context.Background()

	ids, err := s.normalizer.Resolve(ctx, s.submission(""))
	s.Require().NoError(err)

	firstID, err := s.normalizer.ResolveContact(ctx, ids)
	s.Require().NoError(err)
	secondID, err := s.normalizer.ResolveContact(ctx, ids)
	s.Require().NoError(err)

	s.Equal(firstID, secondID)
	s.Equal(1, s.store.ContactCount())
}

// racingStore simulates losing an insert race: the first InsertContact
// commits a concurrent winner's row and reports the uniqueness conflict the
// partial indexes would raise.
type racingStore struct {
	*InMemoryStore
	winnerID uuid.UUID
	raced    bool
}

func (r *racingStore) InsertContact(ctx context.Context, contact *Contact) error {
	if !r.raced {
		r.raced = true
		winner := *contact
		winner.ID = r.winnerID
		if err := r.InMemoryStore.InsertContact(ctx, &winner); err != nil {
			return err
		}
		return sentinel.ErrConflict
	}
	return r.InMemoryStore.InsertContact(ctx, contact)
}

func (s *NormalizerSuite) TestResolveContactLostRaceRecoversAsLookup() {
	ctx := context.Background()
	store := &racingStore{InMemoryStore: s.store, winnerID: uuid.New()}
	normalizer := NewNormalizer(store, logger.New(), metrics.NewForTest())

	ids, err := normalizer.Resolve(ctx, s.submission("5551234567"))
	s.Require().NoError(err)

	contactID, err := normalizer.ResolveContact(ctx, ids)
	s.Require().NoError(err)

	s.True(store.raced)
	s.Equal(store.winnerID, contactID, "loser adopts the winner's contact")
	s.Equal(1, s.store.ContactCount())
}

func (s *NormalizerSuite) TestDeactivateSoftDeletes() {
	ctx := context.Background()

	ids, err := s.normalizer.Resolve(ctx, s.submission(""))
	s.Require().NoError(err)
	contactID, err := s.normalizer.ResolveContact(ctx, ids)
	s.Require().NoError(err)

	s.Require().NoError(s.normalizer.Deactivate(ctx, contactID))

	view, err := s.normalizer.Get(ctx, contactID)
	s.Require().NoError(err)
	s.False(view.IsActive)
	s.Equal(1, s.store.ContactCount(), "row is kept, not deleted")
}
