package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anikpatel-dev/vyapaar-backend/api/responses"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/config"
	pkgerrors "github.com/anikpatel-dev/vyapaar-backend/pkg/errors"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/logger"
	pkgredis "github.com/anikpatel-dev/vyapaar-backend/pkg/redis"
)

const (
	// Fallback when the config leaves the record TTL unset.
	defaultIdempotencyTTL = 24 * time.Hour
	// Money-moving endpoints keep their records a full week.
	criticalIdempotencyTTL = 7 * 24 * time.Hour
)

// guardedRoute marks one mutation as replay-protected. Exact match when
// exact is set; otherwise prefix+suffix covers parameterized paths.
type guardedRoute struct {
	method string
	exact  string
	prefix string
	suffix string
	ttl    time.Duration
}

func (g guardedRoute) matches(method, path string) bool {
	if method != g.method {
		return false
	}
	if g.exact != "" {
		return path == g.exact
	}
	return strings.HasPrefix(path, g.prefix) && strings.HasSuffix(path, g.suffix)
}

// A zero ttl means the configured default applies.
var guardedRoutes = []guardedRoute{
	{method: http.MethodPost, exact: "/api/v1/users/register"},
	{method: http.MethodPost, exact: "/api/v1/businesses"},
	{method: http.MethodPost, exact: "/api/v1/orders", ttl: criticalIdempotencyTTL},
	{method: http.MethodPost, prefix: "/api/v1/orders/", suffix: "/cancel", ttl: criticalIdempotencyTTL},
}

// routeTTL reports whether method+path is replay-protected and for how long.
// Matching runs on the concrete URL path: chi's RoutePattern is still
// partial while group middleware executes, so it cannot be trusted here.
func routeTTL(method, path string) (time.Duration, bool) {
	path = strings.TrimRight(path, "/")
	for _, route := range guardedRoutes {
		if route.matches(method, path) {
			return route.ttl, true
		}
	}
	return 0, false
}

// storedResponse is the replay record persisted in redis.
type storedResponse struct {
	Status      int    `json:"status"`
	Body        string `json:"body"`
	ContentType string `json:"content_type,omitempty"`
	RequestHash string `json:"request_hash"`
}

// Idempotency replays the stored response when a client retries a guarded
// mutation with the same Idempotency-Key, and rejects key reuse under a
// different request body. cfg.TTL governs how long records live on routes
// without their own pinned TTL.
func Idempotency(cfg config.IdempotencyConfig, store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	defaultTTL := cfg.TTL
	if defaultTTL <= 0 {
		defaultTTL = defaultIdempotencyTTL
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, guarded := routeTTL(r.Method, r.URL.Path)
			if !guarded || store == nil {
				next.ServeHTTP(w, r)
				return
			}
			if ttl == 0 {
				ttl = defaultTTL
			}

			clientKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
			if clientKey == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			sum := sha256.Sum256(body)
			requestHash := base64.StdEncoding.EncodeToString(sum[:])

			scope := strings.Join([]string{UserIDFromContext(r.Context()), r.Method, r.URL.Path}, "|")
			storeKey := store.IdempotencyKey(scope, clientKey)

			if done := replayIfStored(w, r, logg, store, storeKey, requestHash); done {
				return
			}

			buf := &bufferingWriter{ResponseWriter: w}
			next.ServeHTTP(buf, r)

			persistResponse(r, logg, store, storeKey, requestHash, buf, ttl)
		})
	}
}

// replayIfStored serves the recorded response, or the reuse conflict, when a
// record exists. Returns true when the request was fully handled.
func replayIfStored(w http.ResponseWriter, r *http.Request, logg *logger.Logger, store pkgredis.IdempotencyStore, key, requestHash string) bool {
	raw, err := store.Get(r.Context(), key)
	if err != nil && !errors.Is(err, redis.Nil) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
		return true
	}
	if raw == "" {
		return false
	}

	var record storedResponse
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
		return true
	}
	if record.RequestHash != requestHash {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
		return true
	}

	if record.ContentType != "" {
		w.Header().Set("Content-Type", record.ContentType)
	}
	w.WriteHeader(record.Status)
	if decoded, err := base64.StdEncoding.DecodeString(record.Body); err == nil {
		_, _ = w.Write(decoded)
	}
	return true
}

func persistResponse(r *http.Request, logg *logger.Logger, store pkgredis.IdempotencyStore, key, requestHash string, buf *bufferingWriter, ttl time.Duration) {
	record := storedResponse{
		Status:      buf.statusOrDefault(),
		Body:        base64.StdEncoding.EncodeToString(buf.body.Bytes()),
		ContentType: buf.Header().Get("Content-Type"),
		RequestHash: requestHash,
	}

	payload, err := json.Marshal(record)
	if err != nil {
		if logg != nil {
			logg.Error(r.Context(), "marshal idempotency record", err)
		}
		return
	}
	if _, err := store.SetNX(r.Context(), key, string(payload), ttl); err != nil {
		if logg != nil {
			logg.Error(r.Context(), "persist idempotency record", err)
		}
	}
}

// bufferingWriter tees the response so it can be stored for replay.
type bufferingWriter struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (b *bufferingWriter) WriteHeader(code int) {
	b.status = code
	b.ResponseWriter.WriteHeader(code)
}

func (b *bufferingWriter) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	b.body.Write(p)
	return b.ResponseWriter.Write(p)
}

func (b *bufferingWriter) statusOrDefault() int {
	if b.status == 0 {
		return http.StatusOK
	}
	return b.status
}
