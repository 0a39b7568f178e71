//go:build integration

package identity_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"homeleads/internal/identity"
	"homeleads/internal/platform/metrics"
	"homeleads/internal/platform/postgres"
	"homeleads/pkg/sentinel"
	"homeleads/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres   *containers.PostgresContainer
	store      *identity.PostgresStore
	normalizer *identity.Normalizer
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(postgres.CreateSchema(s.postgres.DB))
	s.store = identity.NewPostgres(s.postgres.DB)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.normalizer = identity.NewNormalizer(s.store, logger, metrics.NewForTest())
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.Truncate(context.Background(),
		"deals", "lead_events", "contacts",
		"first_names", "last_names", "emails", "phones", "sources")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) resolve(sub identity.Submission) uuid.UUID {
	ctx := context.Background()
	ids, err := s.normalizer.Resolve(ctx, sub)
	s.Require().NoError(err)
	contactID, err := s.normalizer.ResolveContact(ctx, ids)
	s.Require().NoError(err)
	return contactID
}

func (s *PostgresStoreSuite) TestAttributeUpsertReturnsStableID() {
	ctx := context.Background()

	first, err := s.store.ResolveAttribute(ctx, identity.KindEmail, "dana@example.com")
	s.Require().NoError(err)
	again, err := s.store.ResolveAttribute(ctx, identity.KindEmail, "dana@example.com")
	s.Require().NoError(err)
	s.Equal(first, again)

	other, err := s.store.ResolveAttribute(ctx, identity.KindEmail, "lee@example.com")
	s.Require().NoError(err)
	s.NotEqual(first, other)
}

func (s *PostgresStoreSuite) TestRepeatSubmissionResolvesToOneContact() {
	first := s.resolve(identity.Submission{
		FirstName: "Dana",
		LastName:  "Reyes",
		Email:     "dana@example.com",
		Phone:     "(506) 555-0101",
		Source:    "Website",
	})
	second := s.resolve(identity.Submission{
		FirstName: "  dana ",
		LastName:  "Reyes",
		Email:     "DANA@EXAMPLE.COM",
		Phone:     "506.555.0101",
		Source:    "open_house",
	})
	s.Equal(first, second)

	contacts, err := s.store.ListContacts(context.Background())
	s.Require().NoError(err)
	s.Len(contacts, 1)
}

func (s *PostgresStoreSuite) TestNoPhoneMatchesOnlyPhonelessContact() {
	withPhone := s.resolve(identity.Submission{
		FirstName: "Dana", LastName: "Reyes",
		Email: "dana@example.com", Phone: "506-555-0101", Source: "Website",
	})
	noPhone := s.resolve(identity.Submission{
		FirstName: "Dana", LastName: "Reyes",
		Email: "dana@example.com", Source: "Website",
	})
	s.NotEqual(withPhone, noPhone)

	noPhoneAgain := s.resolve(identity.Submission{
		FirstName: "Dana", LastName: "Reyes",
		Email: "dana@example.com", Source: "open_house",
	})
	s.Equal(noPhone, noPhoneAgain)
}

func (s *PostgresStoreSuite) TestDuplicateInsertMapsToConflict() {
	ctx := context.Background()

	ids, err := s.normalizer.Resolve(ctx, identity.Submission{
		FirstName: "Dana", LastName: "Reyes",
		Email: "dana@example.com", Phone: "506-555-0101", Source: "Website",
	})
	s.Require().NoError(err)

	now := time.Now()
	build := func() *identity.Contact {
		return &identity.Contact{
			ID:          uuid.New(),
			FirstNameID: ids.FirstNameID,
			LastNameID:  ids.LastNameID,
			EmailID:     ids.EmailID,
			PhoneID:     ids.PhoneID,
			SourceID:    ids.SourceID,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}
	s.Require().NoError(s.store.InsertContact(ctx, build()))
	s.Require().ErrorIs(s.store.InsertContact(ctx, build()), sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestDeactivateHidesContact() {
	ctx := context.Background()

	contactID := s.resolve(identity.Submission{
		FirstName: "Dana", LastName: "Reyes",
		Email: "dana@example.com", Source: "Website",
	})

	s.Require().NoError(s.normalizer.Deactivate(ctx, contactID))

	contacts, err := s.store.ListContacts(ctx)
	s.Require().NoError(err)
	s.Empty(contacts)

	view, err := s.store.GetContact(ctx, contactID)
	s.Require().NoError(err)
	s.False(view.IsActive)
}
