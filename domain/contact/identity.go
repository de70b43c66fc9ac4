package contact

import (
	"net/http"
	"strings"

	"github.com/akeren/portfolio-api/pkg/constants"
)

// ClientIdentity is how a submission is attributed for rate limiting and storage.
// Headers are taken as sent; the edge proxy is trusted to set them.
type ClientIdentity struct {
	Identifier string
	UserAgent  string
}

// ResolveClientIdentity uses the first X-Forwarded-For entry, then X-Real-IP, then
// "unknown". The user agent falls back to "unknown" as well.
func ResolveClientIdentity(header http.Header) ClientIdentity {
	forwarded, _, _ := strings.Cut(header.Get("X-Forwarded-For"), ",")

	return ClientIdentity{
		Identifier: firstNonEmpty(
			strings.TrimSpace(forwarded),
			strings.TrimSpace(header.Get("X-Real-IP")),
			constants.UnknownClient,
		),
		UserAgent: firstNonEmpty(header.Get("User-Agent"), constants.UnknownClient),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
