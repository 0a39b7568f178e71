package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"homeleads/internal/auth"
	"homeleads/internal/dashboard"
	"homeleads/internal/deals"
	"homeleads/internal/identity"
	"homeleads/internal/jwttoken"
	"homeleads/internal/leads"
	"homeleads/internal/notify"
	"homeleads/internal/platform/config"
	"homeleads/internal/platform/metrics"
	"homeleads/internal/ratelimit"
)

type RouterSuite struct {
	suite.Suite
	server *httptest.Server
	token  string
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewForTest()

	idStore := identity.NewInMemoryStore()
	normalizer := identity.NewNormalizer(idStore, logger, m)
	leadSvc := leads.NewService(leads.NewInMemoryStore(idStore), normalizer, notify.NewLogNotifier(logger), logger, m)
	dealSvc := deals.NewService(deals.NewInMemoryStore())

	tokens := jwttoken.NewService("router-test-key", "homeleads", "homeleads-admin")
	authSvc := auth.NewService(auth.NewInMemoryStore(), tokens, time.Hour, logger)
	s.Require().NoError(authSvc.SeedInitialAdmin(context.Background(), config.AdminSeed{
		Email:    "agent@example.com",
		Password: "sellmorehouses",
		Name:     "Pat Agent",
	}))

	dashSvc := dashboard.NewService(dealSvc, normalizer, leadSvc, dashboard.NewCache(nil, 0))

	h := NewHandler(leadSvc, dealSvc, authSvc, normalizer, dashSvc, logger)
	limiter := ratelimit.New(nil, config.RateLimitConfig{}, logger)
	s.server = httptest.NewServer(NewRouter(h, jwttoken.NewMiddlewareAdapter(tokens), limiter, m, logger))

	resp, err := authSvc.Login(context.Background(), auth.LoginRequest{
		Email:    "agent@example.com",
		Password: "sellmorehouses",
	})
	s.Require().NoError(err)
	s.token = resp.Token
}

func (s *RouterSuite) TearDownTest() {
	s.server.Close()
}

func (s *RouterSuite) do(method, path, token string, body any) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.server.URL+path, &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *RouterSuite) decode(resp *http.Response, into any) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(into))
}

func (s *RouterSuite) TestHealth() {
	resp, err := s.server.Client().Get(s.server.URL + "/healthz")
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)
	var body map[string]any
	s.decode(resp, &body)
	s.Equal("ok", body["status"])
}

func (s *RouterSuite) TestHealthDegradedWhenDependencyDown() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(nil, nil, nil, nil, nil, logger,
		HealthCheck{Name: "database", Check: func(context.Context) error { return nil }},
		HealthCheck{Name: "redis", Check: func(context.Context) error { return errors.New("connection refused") }},
	)
	tokens := jwttoken.NewService("health-test-key", "homeleads", "homeleads-admin")
	limiter := ratelimit.New(nil, config.RateLimitConfig{}, logger)
	server := httptest.NewServer(NewRouter(h, jwttoken.NewMiddlewareAdapter(tokens), limiter, metrics.NewForTest(), logger))
	defer server.Close()

	resp, err := server.Client().Get(server.URL + "/healthz")
	s.Require().NoError(err)
	s.Equal(http.StatusServiceUnavailable, resp.StatusCode)

	var body struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
	s.decode(resp, &body)
	s.Equal("degraded", body.Status)
	s.Equal("ok", body.Components["database"])
	s.Equal("unavailable", body.Components["redis"])
}

func (s *RouterSuite) TestContactSubmissionAppearsInInbox() {
	resp := s.do(http.MethodPost, "/api/leads/contact", "", leads.ContactRequest{
		FirstName: "Dana",
		LastName:  "Reyes",
		Email:     "DANA@Example.com",
		Phone:     "(506) 555-0101",
		Message:   "Looking for a three bedroom near downtown.",
	})
	s.Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodGet, "/api/admin/messages", s.token, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	var messages []leads.EventView
	s.decode(resp, &messages)
	s.Require().Len(messages, 1)
	s.Equal("dana@example.com", messages[0].Email)
	s.Require().NotNil(messages[0].Phone)
	s.Equal("506-555-0101", *messages[0].Phone)
	s.False(messages[0].IsRead)

	resp = s.do(http.MethodPost, "/api/admin/messages/"+messages[0].ID.String()+"/read", s.token, nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodGet, "/api/admin/messages?unread=true", s.token, nil)
	var unread []leads.EventView
	s.decode(resp, &unread)
	s.Empty(unread)
}

func (s *RouterSuite) TestContactSubmissionValidation() {
	resp := s.do(http.MethodPost, "/api/leads/contact", "", leads.ContactRequest{
		FirstName: "Dana",
		Email:     "not-an-email",
		Message:   "hi",
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func (s *RouterSuite) TestAdminRoutesRequireToken() {
	for _, path := range []string{"/api/admin/messages", "/api/admin/contacts", "/api/admin/deals", "/api/admin/dashboard"} {
		resp := s.do(http.MethodGet, path, "", nil)
		s.Equal(http.StatusUnauthorized, resp.StatusCode, path)
		resp.Body.Close()
	}
}

func (s *RouterSuite) TestLoginWrongPassword() {
	resp := s.do(http.MethodPost, "/api/admin/login", "", auth.LoginRequest{
		Email:    "agent@example.com",
		Password: "wrong",
	})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func (s *RouterSuite) TestOpenHouseGrouping() {
	for _, name := range []string{"Ana", "Ben"} {
		resp := s.do(http.MethodPost, "/api/leads/open-house", "", leads.OpenHouseRequest{
			Address:   "12 Maple Street",
			FirstName: name,
			LastName:  "Visitor",
			Email:     name + "@example.com",
		})
		s.Equal(http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := s.do(http.MethodGet, "/api/admin/open-house", s.token, nil)
	var groups []leads.SignInGroup
	s.decode(resp, &groups)
	s.Require().Len(groups, 1)
	s.Equal("12 Maple Street", groups[0].Key)
	s.Len(groups[0].SignIns, 2)
}

func (s *RouterSuite) TestDealLifecycle() {
	price := 450000.0
	pct := 3.0
	resp := s.do(http.MethodPost, "/api/admin/deals", s.token, deals.CreateRequest{
		Title:         "Reyes purchase",
		HousePrice:    &price,
		CommissionPct: &pct,
	})
	s.Equal(http.StatusCreated, resp.StatusCode)
	var deal deals.Deal
	s.decode(resp, &deal)
	s.Require().NotNil(deal.Commission)
	s.InDelta(13500, *deal.Commission, 0.001)

	resp = s.do(http.MethodPut, "/api/admin/deals/"+deal.ID.String()+"/stage", s.token, map[string]string{"stage": "closed"})
	s.Equal(http.StatusOK, resp.StatusCode)
	var moved deals.Deal
	s.decode(resp, &moved)
	s.Equal(deals.StageClosed, moved.Stage)

	newPrice := 500000.0
	resp = s.do(http.MethodPatch, "/api/admin/deals/"+deal.ID.String(), s.token, deals.UpdateRequest{HousePrice: &newPrice})
	s.Equal(http.StatusOK, resp.StatusCode)
	var patched deals.Deal
	s.decode(resp, &patched)
	s.Require().NotNil(patched.Commission)
	s.InDelta(15000, *patched.Commission, 0.001)

	resp = s.do(http.MethodDelete, "/api/admin/deals/"+deal.ID.String(), s.token, nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodGet, "/api/admin/deals/"+deal.ID.String(), s.token, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *RouterSuite) TestDashboardSummary() {
	price := 300000.0
	pct := 2.5
	resp := s.do(http.MethodPost, "/api/admin/deals", s.token, deals.CreateRequest{
		Title:         "Closed sale",
		HousePrice:    &price,
		CommissionPct: &pct,
		Stage:         deals.StageClosed,
	})
	s.Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodGet, "/api/admin/dashboard", s.token, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	var summary dashboard.Summary
	s.decode(resp, &summary)
	s.InDelta(7500, summary.TotalRevenue, 0.001)
	s.InDelta(100, summary.ConversionRate, 0.001)
}

func (s *RouterSuite) TestContactFollowUps() {
	resp := s.do(http.MethodPost, "/api/leads/contact", "", leads.ContactRequest{
		FirstName: "Lee",
		LastName:  "Ward",
		Email:     "lee@example.com",
		Message:   "Please call me about listings.",
	})
	s.Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodGet, "/api/admin/contacts", s.token, nil)
	var contacts []identity.ContactView
	s.decode(resp, &contacts)
	s.Require().Len(contacts, 1)

	resp = s.do(http.MethodDelete, "/api/admin/contacts/"+contacts[0].ID.String(), s.token, nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodGet, "/api/admin/contacts", s.token, nil)
	var remaining []identity.ContactView
	s.decode(resp, &remaining)
	s.Empty(remaining)
}
