package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/anikpatel-dev/vyapaar-backend/api/responses"
	pkgerrors "github.com/anikpatel-dev/vyapaar-backend/pkg/errors"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/logger"
)

// windowLimiter is the slice of pkg/redis.Client the throttle needs.
type windowLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// AuthRateLimitPolicy caps how often an unauthenticated surface may be hit,
// counted per source IP and per submitted email.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

// NewAuthRateLimitPolicy builds a policy. A zero window or all-zero limits
// disable it entirely.
func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auth"
	}
	return AuthRateLimitPolicy{
		name:       name,
		window:     window,
		ipLimit:    ipLimit,
		emailLimit: emailLimit,
	}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

// AuthRateLimit throttles registration-style endpoints. Email counters key
// on a sha256 of the normalized address so raw addresses never reach redis
// or the logs.
func AuthRateLimit(policy AuthRateLimitPolicy, limiter windowLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if policy.ipLimit > 0 {
				if ip := clientIP(r); ip != "" {
					scope := policy.name + ":ip:" + ip
					if !throttle(ctx, logg, w, limiter, policy, scope, int64(policy.ipLimit)) {
						return
					}
				}
			}

			if policy.emailLimit > 0 {
				email, restored := peekEmail(r)
				if !restored {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "read request"))
					return
				}
				if email != "" {
					scope := policy.name + ":email:" + hashEmail(email)
					if !throttle(ctx, logg, w, limiter, policy, scope, int64(policy.emailLimit)) {
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// throttle bumps the window counter for scope and writes the 429 when the
// limit is crossed. Returns false when the request must not proceed.
func throttle(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, limiter windowLimiter, policy AuthRateLimitPolicy, scope string, limit int64) bool {
	allowed, count, err := limiter.FixedWindowAllow(ctx, scope, limit, policy.window)
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
		return false
	}
	if allowed {
		return true
	}

	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"scope":          scope,
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(policy.window.Seconds()),
		})
		logg.Warn(logCtx, "auth.rate_limit.blocked")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
	return false
}

// peekEmail reads the email field out of the body and puts the body back so
// the handler can decode it again.
func peekEmail(r *http.Request) (string, bool) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return "", false
	}
	r.Body = io.NopCloser(bytes.NewReader(payload))

	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return "", true
	}
	return strings.ToLower(strings.TrimSpace(body.Email)), true
}

func hashEmail(email string) string {
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}

// clientIP takes the first X-Forwarded-For hop when present, otherwise the
// socket peer.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
