// Package testhelper holds fixtures shared by the package test suites.
package testhelper

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/go-chi/chi"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
)

// NewSQLite opens a private in-memory database with the given models
// migrated. One connection keeps every query on the same database.
func NewSQLite(models ...any) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(models...); err != nil {
		return nil, err
	}
	return db, nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// Deps builds the shared resource collaborators without an event bus.
func Deps(lg *slog.Logger) resource.Deps {
	cache := resource.NewQueryCache(lg)
	return resource.Deps{
		Cache:         cache,
		Notifier:      resource.NewNotifier(cache, nil, lg),
		Confirmations: resource.NewConfirmations(time.Minute, lg),
		Policies:      resource.DefaultPolicies(),
		DetailTimeout: time.Second,
	}
}

func Int64(v int64) *int64 {
	return &v
}

// User is a session user in organisation org and tenant 1.
func User(id, org int64) *internal.SessionUser {
	return &internal.SessionUser{
		ID:             id,
		Email:          "agent@example.com",
		Name:           "Agent",
		OrganisationID: Int64(org),
		TenantID:       Int64(1),
	}
}

// Request builds a JSON request carrying user and chi URL params. body may
// be nil, a string sent verbatim, or any value to marshal.
func Request(method, target string, body any, user *internal.SessionUser, params map[string]string) *http.Request {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if user != nil {
		ctx = internal.ContextWithUser(ctx, user)
	}
	return req.WithContext(ctx)
}

func Decode(rec *httptest.ResponseRecorder, out any) error {
	return json.Unmarshal(rec.Body.Bytes(), out)
}
