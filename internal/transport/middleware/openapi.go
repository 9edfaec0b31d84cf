package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"

	"github.com/frahmantamala/helpdesk-console/internal"
)

// LoadContract parses and validates an OpenAPI 3 document.
func LoadContract(ctx context.Context, data []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse api contract: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid api contract: %w", err)
	}
	return doc, nil
}

// RequestValidator rejects requests whose parameters or body do not match
// the contract. Paths the contract does not describe pass through.
// Authentication is left to the auth middleware.
func RequestValidator(doc *openapi3.T, logger *slog.Logger) (func(http.Handler) http.Handler, error) {
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build contract router: %w", err)
	}
	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		MultiError:         false,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, params, err := router.FindRoute(r)
			if err != nil {
				if !errors.Is(err, routers.ErrPathNotFound) && !errors.Is(err, routers.ErrMethodNotAllowed) {
					logger.Warn("contract route lookup failed", "path", r.URL.Path, "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: params,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				writeContractError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}

func writeContractError(w http.ResponseWriter, err error) {
	field, reason := "body", "request does not match the api contract"

	var reqErr *openapi3filter.RequestError
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &reqErr) {
		if reqErr.Parameter != nil {
			field = reqErr.Parameter.Name
		}
		if reqErr.Reason != "" {
			reason = reqErr.Reason
		}
	}
	if errors.As(err, &schemaErr) {
		if p := schemaErr.JSONPointer(); len(p) > 0 {
			field = p[len(p)-1]
		}
		reason = schemaErr.Reason
	}

	appErr := internal.NewValidationFieldError(field, field+": "+reason, internal.ErrCodeValidationFailed)
	status, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
