package contact

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveClientIdentity(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		identifier string
		userAgent  string
	}{
		{
			name:       "no headers",
			identifier: "unknown",
			userAgent:  "unknown",
		},
		{
			name:       "first forwarded entry wins",
			headers:    map[string]string{"X-Forwarded-For": "1.2.3.4, 10.0.0.1", "X-Real-IP": "5.6.7.8"},
			identifier: "1.2.3.4",
			userAgent:  "unknown",
		},
		{
			name:       "forwarded entry is trimmed",
			headers:    map[string]string{"X-Forwarded-For": "  9.9.9.9  ,10.0.0.1"},
			identifier: "9.9.9.9",
			userAgent:  "unknown",
		},
		{
			name:       "empty first forwarded entry falls back to real ip",
			headers:    map[string]string{"X-Forwarded-For": " , 10.0.0.1", "X-Real-IP": "5.6.7.8"},
			identifier: "5.6.7.8",
			userAgent:  "unknown",
		},
		{
			name:       "real ip used without forwarded for",
			headers:    map[string]string{"X-Real-IP": "5.6.7.8", "User-Agent": "curl/8.0"},
			identifier: "5.6.7.8",
			userAgent:  "curl/8.0",
		},
		{
			name:       "ipv6 forwarded",
			headers:    map[string]string{"X-Forwarded-For": "2001:db8::1"},
			identifier: "2001:db8::1",
			userAgent:  "unknown",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			header := http.Header{}
			for k, v := range tc.headers {
				header.Set(k, v)
			}

			got := ResolveClientIdentity(header)

			assert.Equal(t, tc.identifier, got.Identifier)
			assert.Equal(t, tc.userAgent, got.UserAgent)
		})
	}
}
