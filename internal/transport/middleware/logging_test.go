package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/helpdesk-console/internal/transport/middleware"
)

var _ = Describe("LoggingMiddleware", func() {
	var (
		buf     *bytes.Buffer
		handler http.Handler
	)

	records := func() []map[string]any {
		var out []map[string]any
		for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
			var rec map[string]any
			Expect(json.Unmarshal([]byte(line), &rec)).To(Succeed())
			out = append(out, rec)
		}
		return out
	}

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		lg := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		handler = middleware.LoggingMiddleware(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte(`{"confirmation_id":"3f1c","state":"confirm_pending","count":2}`))
		}))
	})

	It("masks the login password and the bearer token", func() {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"agent@acme.test","password":"hunter2"}`))
		req.Header.Set("Authorization", "Bearer abc.def.ghi")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		out := buf.String()
		Expect(out).NotTo(ContainSubstring("hunter2"))
		Expect(out).NotTo(ContainSubstring("abc.def.ghi"))
		Expect(out).To(ContainSubstring("agent@acme.test"))

		req0 := records()[0]
		Expect(req0["msg"]).To(Equal("incoming request"))
		Expect(req0["body"]).To(HaveKeyWithValue("password", "[FILTERED]"))
	})

	It("hides confirmation tokens in paths and response bodies", func() {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/confirmations/3f1c/confirm", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		Expect(buf.String()).NotTo(ContainSubstring("3f1c"))
		recs := records()
		Expect(recs[0]["path"]).To(Equal("/api/v1/confirmations/[FILTERED]/confirm"))
		Expect(recs[1]["msg"]).To(Equal("response"))
		Expect(recs[1]["level"]).To(Equal("INFO"))
		Expect(recs[1]["body"]).To(HaveKeyWithValue("count", BeNumerically("==", 2)))
	})

	It("hides the token query parameter", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/tickets?status=open&token=secret-jwt", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		Expect(buf.String()).NotTo(ContainSubstring("secret-jwt"))
		Expect(records()[0]["query"]).To(ContainSubstring("status=open"))
	})
})
