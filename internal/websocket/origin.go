package websocket

import (
	"net/http"
	"net/url"
	"strings"

	"nutrition-coach/pkg/logger"
)

// newOriginChecker builds the upgrader's origin policy. "*" allows every
// origin. Requests without an Origin header come from non-browser clients
// and are accepted.
func newOriginChecker(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{})
	allowAll := false

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "*" {
			allowAll = true
			continue
		}
		normalized, ok := normalizeOrigin(trimmed)
		if !ok {
			logger.Error("Ignoring invalid origin in configuration: %q", origin)
			continue
		}
		allowed[normalized] = struct{}{}
	}

	return func(r *http.Request) bool {
		header := r.Header.Get("Origin")
		if header == "" || allowAll {
			return true
		}

		normalized, ok := normalizeOrigin(header)
		if ok {
			if _, exists := allowed[normalized]; exists {
				return true
			}
		}

		logger.Info("Blocked WebSocket connection from disallowed origin: %q", header)
		return false
	}
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}
