package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/timster/go-api/internal/config"
	"github.com/timster/go-api/internal/ratelimit"
	"github.com/timster/go-api/internal/resource"
	"github.com/timster/go-api/internal/user"
	"github.com/timster/go-api/internal/validate"
)

// Handler contains the HTTP handlers for the user endpoints. The public and
// admin surfaces hold separate resources over the same store: the admin one
// serializes private fields, the public one does not.
type Handler struct {
	store   user.Store
	public  *resource.Resource[user.User]
	private *resource.Resource[user.User]
	limiter *ratelimit.Limiter
	rate    config.RateLimitConfig
}

func NewHandler(store user.Store, limiter *ratelimit.Limiter, rate config.RateLimitConfig) *Handler {
	schema := user.Schema()
	return &Handler{
		store:   store,
		public:  resource.New(store, schema, user.New, false),
		private: resource.New(store, schema, user.New, true),
		limiter: limiter,
		rate:    rate,
	}
}

// decodeValues reads the submitted field values from the JSON body.
// An empty body yields an empty submission, which the validators then
// report field by field.
func decodeValues(r *http.Request) (validate.Values, error) {
	var values validate.Values
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		if errors.Is(err, io.EOF) {
			return validate.Values{}, nil
		}
		return nil, err
	}
	if values == nil {
		values = validate.Values{}
	}
	return values, nil
}

// clientIP extracts the client IP address from the request.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// X-Forwarded-For can contain multiple IPs, take the first one
		if ips := strings.Split(xff, ","); len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip := r.RemoteAddr
	// RemoteAddr format is "IP:port", extract just the IP
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
