package rest_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/helpdesk-console/api"
	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/auth"
	"github.com/frahmantamala/helpdesk-console/internal/monitoring"
	"github.com/frahmantamala/helpdesk-console/internal/testhelper"
	"github.com/frahmantamala/helpdesk-console/internal/transport"
	"github.com/frahmantamala/helpdesk-console/internal/transport/middleware"
	"github.com/frahmantamala/helpdesk-console/internal/transport/rest"
)

type stubAuth struct {
	logins atomic.Int32
}

func (s *stubAuth) Authenticate(ctx context.Context, dto auth.LoginDTO) (auth.AuthTokens, error) {
	s.logins.Add(1)
	return auth.AuthTokens{AccessToken: "good", TokenType: "Bearer", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (s *stubAuth) Authorize(ctx context.Context, token string) (*internal.SessionUser, error) {
	if token == "" {
		return nil, internal.ErrMissingSession
	}
	if token != "good" {
		return nil, internal.ErrInvalidToken
	}
	return testhelper.User(1, 2), nil
}

type pinger struct{ err error }

func (p pinger) PingContext(ctx context.Context) error { return p.err }

var _ = Describe("Router", func() {
	var (
		router *chi.Mux
		authz  *stubAuth
		db     *pinger
	)

	BeforeEach(func() {
		lg := testhelper.QuietLogger()
		base := transport.NewBaseHandler(lg)

		doc, err := middleware.LoadContract(context.Background(), api.Contract)
		Expect(err).NotTo(HaveOccurred())
		validator, err := middleware.RequestValidator(doc, lg)
		Expect(err).NotTo(HaveOccurred())

		dashboard, err := monitoring.LoadDashboard()
		Expect(err).NotTo(HaveOccurred())

		authz = &stubAuth{}
		db = &pinger{}
		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, rest.Handlers{
			Health:     rest.NewHealthHandler(db),
			Auth:       auth.NewHandler(base, authz),
			Monitoring: monitoring.NewHandler(base, monitoring.NewService(dashboard, internal.SimulationConfig{MetricJitter: 5}, lg)),
		}, rest.RouterOptions{
			Origins:   []string{"http://console.local"},
			Contract:  api.Contract,
			Validator: validator,
		}, lg)
	})

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("answers liveness and readiness probes", func() {
		Expect(serve(httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)).Code).To(Equal(http.StatusOK))
		Expect(serve(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)).Code).To(Equal(http.StatusOK))

		db.err = errors.New("connection refused")
		rec := serve(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(rec.Body.String()).To(ContainSubstring("unhealthy"))
	})

	It("rejects a login body that breaks the contract before the handler runs", func() {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"agent@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := serve(req)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("password"))
		Expect(authz.logins.Load()).To(BeZero())

		req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"agent@example.com","password":"secret"}`))
		req.Header.Set("Content-Type", "application/json")
		Expect(serve(req).Code).To(Equal(http.StatusOK))
		Expect(authz.logins.Load()).To(Equal(int32(1)))
	})

	It("requires a session on resource routes", func() {
		Expect(serve(httptest.NewRequest(http.MethodGet, "/api/v1/monitoring", nil)).Code).To(Equal(http.StatusUnauthorized))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/monitoring", nil)
		req.Header.Set("Authorization", "Bearer good")
		rec := serve(req)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("X-Trace-ID")).NotTo(BeEmpty())
	})

	It("serves the contract and answers CORS preflights", func() {
		rec := serve(httptest.NewRequest(http.MethodGet, "/openapi.yml", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(HavePrefix("openapi: 3.0.3"))

		req := httptest.NewRequest(http.MethodOptions, "/api/v1/tickets", nil)
		req.Header.Set("Origin", "http://console.local")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec = serve(req)
		Expect(rec.Code).To(Equal(http.StatusNoContent))
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://console.local"))
	})
})
