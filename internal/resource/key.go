package resource

import (
	"net/url"
	"strings"

	"github.com/frahmantamala/helpdesk-console/internal"
)

// Key builds the canonical cache key "entity?k1=v1&k2=v2" for a query.
// Parameters are sorted and the scope is always part of the key.
func Key(entity string, scope internal.Scope, params map[string]string) string {
	v := url.Values{}
	for k, val := range params {
		v.Set(k, val)
	}
	v.Set("scope", scope.Key())
	return entity + "?" + v.Encode()
}

// MatchesPrefix reports whether key belongs to the entity named by prefix.
func MatchesPrefix(key, prefix string) bool {
	return key == prefix || strings.HasPrefix(key, prefix+"?")
}
