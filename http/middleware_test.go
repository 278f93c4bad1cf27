package http_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ndpahttp "github.com/fwojciec/ndpa/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates id when absent", func(t *testing.T) {
		t.Parallel()

		var seen string
		h := ndpahttp.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = ndpahttp.RequestIDFromContext(r.Context())
		}))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(ndpahttp.RequestIDHeader))
	})

	t.Run("reuses client id", func(t *testing.T) {
		t.Parallel()

		var seen string
		h := ndpahttp.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = ndpahttp.RequestIDFromContext(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(ndpahttp.RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get(ndpahttp.RequestIDHeader))
	})
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	h := ndpahttp.Recovery(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp ndpahttp.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ndpahttp.CodeInternalError, resp.Error.Code)
}

func TestLogging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := ndpahttp.Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/a2a/agent/x", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request", entry["msg"])
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/a2a/agent/x", entry["path"])
	assert.InDelta(t, float64(http.StatusTeapot), entry["status"], 0)
}

func TestIPRateLimiter(t *testing.T) {
	t.Parallel()

	t.Run("rejects requests over burst", func(t *testing.T) {
		t.Parallel()

		limiter := ndpahttp.NewIPRateLimiter(0.001, 2)
		h := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		codes := make([]int, 0, 3)
		for range 3 {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
		}

		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})

	t.Run("limits clients independently", func(t *testing.T) {
		t.Parallel()

		limiter := ndpahttp.NewIPRateLimiter(0.001, 1, ndpahttp.WithTrustForwardedFor())
		h := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		for _, ip := range []string{"10.0.0.1", "10.0.0.2"} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Forwarded-For", ip+", 192.168.0.1")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code, ip)
		}
	})

	t.Run("ignores X-Forwarded-For unless trusted", func(t *testing.T) {
		t.Parallel()

		limiter := ndpahttp.NewIPRateLimiter(0.001, 1)
		h := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		codes := make([]int, 0, 2)
		for _, ip := range []string{"10.0.0.1", "10.0.0.2"} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "203.0.113.7:4000"
			req.Header.Set("X-Forwarded-For", ip)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
		}

		assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
		assert.Equal(t, 1, limiter.Len())
	})

	t.Run("drops idle clients", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		limiter := ndpahttp.NewIPRateLimiter(0.001, 1,
			ndpahttp.WithIdleTimeout(time.Minute),
			ndpahttp.WithClock(func() time.Time { return now }),
		)
		h := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		serve := func(addr string) int {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = addr
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			return rec.Code
		}

		assert.Equal(t, http.StatusOK, serve("10.0.0.1:1"))
		assert.Equal(t, http.StatusTooManyRequests, serve("10.0.0.1:1"))

		now = now.Add(2 * time.Minute)
		assert.Equal(t, http.StatusOK, serve("10.0.0.2:1"))
		assert.Equal(t, 1, limiter.Len())

		assert.Equal(t, http.StatusOK, serve("10.0.0.1:1"))
		assert.Equal(t, 2, limiter.Len())
	})

	t.Run("writes JSON-RPC error body", func(t *testing.T) {
		t.Parallel()

		limiter := ndpahttp.NewIPRateLimiter(0.001, 0)
		h := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.JSONEq(t, `{"jsonrpc":"2.0","id":null,"error":{"code":-32000,"message":"Rate limit exceeded"}}`, rec.Body.String())
	})
}
