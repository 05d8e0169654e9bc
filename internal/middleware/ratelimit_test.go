// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func requestAs(accountID, path string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if accountID != "" {
		req = req.WithContext(WithSession(req.Context(), &Session{AccountID: accountID}))
	}
	return req
}

func TestKeyByAccountAndEndpointNormalizesIDs(t *testing.T) {
	uuidPath := "/v1/admin/accounts/0b7e6a52-3f0c-4d5e-9a8b-1c2d3e4f5a6b/video/sync"
	ulidPath := "/v1/admin/posts/01J9ZQ4Y7M3K8N2P5R6S7T8V9W/video/sync"

	if got := KeyByAccountAndEndpoint(requestAs("acc-1", uuidPath)); got != "ratelimit:account:acc-1:endpoint:/v1/admin/accounts/{id}/video/sync" {
		t.Fatalf("uuid key = %s", got)
	}
	if got := KeyByAccountAndEndpoint(requestAs("acc-1", ulidPath)); got != "ratelimit:account:acc-1:endpoint:/v1/admin/posts/{id}/video/sync" {
		t.Fatalf("ulid key = %s", got)
	}

	anon := requestAs("", "/v1/uploads/video")
	anon.RemoteAddr = "10.0.0.9:5555"
	if got := KeyByAccountAndEndpoint(anon); got != "ratelimit:ip:10.0.0.9:endpoint:/v1/uploads/video" {
		t.Fatalf("anonymous key = %s", got)
	}
}

func TestPerAccountLimiterSeparatesAccounts(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	limited := NewRateLimiter(rdb, RateLimitConfig{
		Limit:   PerHour(1, 1),
		KeyFunc: KeyByAccountAndEndpoint,
	}).Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func(req *http.Request) int {
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := serve(requestAs("acc-1", "/v1/uploads/video")); code != http.StatusNoContent {
		t.Fatalf("first request = %d", code)
	}
	if code := serve(requestAs("acc-1", "/v1/uploads/video")); code != http.StatusTooManyRequests {
		t.Fatalf("second request = %d", code)
	}
	if code := serve(requestAs("acc-1", "/v1/uploads/image-signature")); code != http.StatusNoContent {
		t.Fatalf("other endpoint = %d", code)
	}
	if code := serve(requestAs("acc-2", "/v1/uploads/video")); code != http.StatusNoContent {
		t.Fatalf("other account = %d", code)
	}
}
