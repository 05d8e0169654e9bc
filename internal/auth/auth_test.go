// AngelaMos | 2026
// auth_test.go

package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/talentgrid/internal/config"
	"github.com/carterperez-dev/talentgrid/internal/core"
)

func newTestTokens(t *testing.T) *TokenManager {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	m, err := NewTokenManagerFromKey(key, config.JWTConfig{
		Issuer:   "talentgrid-test",
		Audience: "talentgrid-web",
	})
	if err != nil {
		t.Fatalf("NewTokenManagerFromKey: %v", err)
	}
	return m
}

type fakeAccounts struct {
	byEmail map[string]*AccountInfo
	created []NewAccount
	err     error
}

func (f *fakeAccounts) LookupCredentials(_ context.Context, email string) (*AccountInfo, error) {
	if a, ok := f.byEmail[email]; ok {
		return a, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeAccounts) CreateAccount(_ context.Context, in NewAccount) (*AccountInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, in)
	return &AccountInfo{
		ID:           "acc-new",
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: in.PasswordHash,
		Role:         "unknown",
		RoleCategory: "talent",
		Status:       "pending",
	}, nil
}

func (f *fakeAccounts) UpdatePassword(context.Context, string, string) error {
	return nil
}

func newTestService(t *testing.T, accounts AccountProvider) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewService(newTestTokens(t), accounts, NewRevocationStore(rdb), nil), mr
}

func TestSessionTokenRoundTrip(t *testing.T) {
	m := newTestTokens(t)

	issued, err := m.IssueSession(SessionClaims{
		AccountID:    "acc-1",
		Email:        "a@example.com",
		Role:         "actor",
		RoleCategory: "talent",
		Status:       "pending",
	})
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	session, err := m.VerifySession(context.Background(), issued.Token)
	if err != nil {
		t.Fatalf("VerifySession: %v", err)
	}
	if session.AccountID != "acc-1" || session.Status != "pending" || session.RoleCategory != "talent" {
		t.Fatalf("unexpected session %+v", session)
	}
	if session.TokenID != issued.ID {
		t.Fatalf("jti = %s, want %s", session.TokenID, issued.ID)
	}
	if d := time.Until(session.ExpiresAt); d < 29*24*time.Hour {
		t.Fatalf("session expires too soon: %v", d)
	}
}

func TestSessionTokenRejectsOtherKey(t *testing.T) {
	issued, err := newTestTokens(t).IssueSession(SessionClaims{
		AccountID: "acc-1", Email: "a@example.com", Role: "actor",
		RoleCategory: "talent", Status: "approved",
	})
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	_, err = newTestTokens(t).VerifySession(context.Background(), issued.Token)
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestSessionTokenExpired(t *testing.T) {
	m := newTestTokens(t)
	m.now = func() time.Time { return time.Now().Add(-31 * 24 * time.Hour) }

	issued, err := m.IssueSession(SessionClaims{
		AccountID: "acc-1", Email: "a@example.com", Role: "actor",
		RoleCategory: "talent", Status: "approved",
	})
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	m.now = time.Now
	_, err = m.VerifySession(context.Background(), issued.Token)
	if !errors.Is(err, core.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestLoginUnknownEmailIsGeneric(t *testing.T) {
	svc, _ := newTestService(t, &fakeAccounts{byEmail: map[string]*AccountInfo{}})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := core.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	svc, _ := newTestService(t, &fakeAccounts{byEmail: map[string]*AccountInfo{
		"a@example.com": {ID: "acc-1", Email: "a@example.com", PasswordHash: hash},
	}})

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "a@example.com",
		Password: "battery-staple",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterLowercasesEmailAndIssuesPendingSession(t *testing.T) {
	accounts := &fakeAccounts{}
	svc, _ := newTestService(t, accounts)

	result, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lane",
		Email:     "Ada@Example.COM",
		Password:  "long-enough-1",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if accounts.created[0].Email != "ada@example.com" {
		t.Fatalf("email not normalized: %s", accounts.created[0].Email)
	}
	if result.Response.User.Status != "pending" {
		t.Fatalf("status = %s", result.Response.User.Status)
	}

	session, err := svc.VerifySession(context.Background(), result.Token.Token)
	if err != nil {
		t.Fatalf("VerifySession: %v", err)
	}
	if session.Status != "pending" {
		t.Fatalf("token status = %s", session.Status)
	}
}

func TestRegisterDuplicateIsGeneric(t *testing.T) {
	svc, _ := newTestService(t, &fakeAccounts{err: core.ErrDuplicateKey})

	_, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Ada", LastName: "Lane",
		Email: "ada@example.com", Password: "long-enough-1",
	})
	if !errors.Is(err, ErrRegistrationFailed) {
		t.Fatalf("expected ErrRegistrationFailed, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, mr := newTestService(t, &fakeAccounts{})

	result, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Ada", LastName: "Lane",
		Email: "ada@example.com", Password: "long-enough-1",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	session, err := svc.VerifySession(context.Background(), result.Token.Token)
	if err != nil {
		t.Fatalf("VerifySession: %v", err)
	}
	if err := svc.Logout(context.Background(), session); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	_, err = svc.VerifySession(context.Background(), result.Token.Token)
	if !errors.Is(err, core.ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
	if ttl := mr.TTL(revocationKey(session.TokenID)); ttl <= 0 {
		t.Fatalf("revocation should expire with the token, ttl=%v", ttl)
	}
}

func TestVerifySessionFailsClosedWhenRedisDown(t *testing.T) {
	svc, mr := newTestService(t, &fakeAccounts{})

	result, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Ada", LastName: "Lane",
		Email: "ada@example.com", Password: "long-enough-1",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	mr.Close()

	_, err = svc.VerifySession(context.Background(), result.Token.Token)
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestLoginHandlerSetsHTTPOnlyCookie(t *testing.T) {
	hash, err := core.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	svc, _ := newTestService(t, &fakeAccounts{byEmail: map[string]*AccountInfo{
		"a@example.com": {ID: "acc-1", Email: "a@example.com", PasswordHash: hash, Status: "approved"},
	}})
	h := NewHandler(svc, NewCookieWriter(config.SessionConfig{CookieName: "token"}, false))

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login",
		strings.NewReader(`{"email":"a@example.com","password":"correct-horse"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "token" || !cookies[0].HttpOnly {
		t.Fatalf("unexpected cookies %+v", cookies)
	}
	if strings.Contains(rec.Body.String(), hash) {
		t.Fatal("response leaked the password hash")
	}
}

func TestCheckReportsAnonymousSessions(t *testing.T) {
	svc, _ := newTestService(t, &fakeAccounts{})
	h := NewHandler(svc, NewCookieWriter(config.SessionConfig{CookieName: "token"}, false))

	r := chi.NewRouter()
	h.RegisterRoutes(r, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
	}, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/check", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"authenticated":false`) {
		t.Fatalf("body = %s", rec.Body.String())
	}

	result, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Ada", LastName: "Lane",
		Email: "ada@example.com", Password: "long-enough-1",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/check", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: result.Token.Token})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"authenticated":true`) {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/auth/check", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "not-a-token"})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), `"authenticated":false`) {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
}
