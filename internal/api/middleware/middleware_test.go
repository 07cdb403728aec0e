package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kabaddi-od/backend/config"
	"kabaddi-od/backend/internal/dto"
	"kabaddi-od/backend/internal/model"
	"kabaddi-od/backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testCookie = "admin_session"

func testJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:  "middleware-test-secret-0123456789",
		SessionTTL: 30 * time.Minute,
	})
}

type fakeChecker struct {
	revoked map[string]bool
	err     error
}

func (f *fakeChecker) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[jti], nil
}

type fakeLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (f *fakeLimiter) CheckRateLimit(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allowed, f.err
}

type fakeRecorder struct {
	mu      sync.Mutex
	entries []*dto.AppendLogRequest
}

func (f *fakeRecorder) Append(_ context.Context, req *dto.AppendLogRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, req)
}

func authEngine(mgr *jwt.Manager, checker TokenChecker) *gin.Engine {
	r := gin.New()
	r.GET("/admin", AdminAuth(mgr, testCookie, checker, zap.NewNop()), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextAdminUsername))
	})
	return r
}

// ═══════════════════════════════════════════════════════════
// AdminAuth
// ═══════════════════════════════════════════════════════════

func TestAdminAuth_MissingToken(t *testing.T) {
	w := httptest.NewRecorder()
	authEngine(testJWT(), nil).ServeHTTP(w, httptest.NewRequest("GET", "/admin", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAdminAuth_Cookie(t *testing.T) {
	mgr := testJWT()
	token, _, err := mgr.GenerateSessionToken("admin")
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	w := httptest.NewRecorder()
	authEngine(mgr, nil).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "admin" {
		t.Errorf("expected username admin, got %q", w.Body.String())
	}
}

func TestAdminAuth_Bearer(t *testing.T) {
	mgr := testJWT()
	token, _, _ := mgr.GenerateSessionToken("root")

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	authEngine(mgr, nil).ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Body.String() != "root" {
		t.Errorf("expected 200 root, got %d %q", w.Code, w.Body.String())
	}
}

func TestAdminAuth_InvalidToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	authEngine(testJWT(), nil).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAdminAuth_Blacklisted(t *testing.T) {
	mgr := testJWT()
	token, _, _ := mgr.GenerateSessionToken("admin")
	claims, _ := mgr.ParseToken(token)

	checker := &fakeChecker{revoked: map[string]bool{claims.ID: true}}
	req := httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	w := httptest.NewRecorder()
	authEngine(mgr, checker).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for revoked session, got %d", w.Code)
	}
}

func TestAdminAuth_CheckerErrorDegrades(t *testing.T) {
	mgr := testJWT()
	token, _, _ := mgr.GenerateSessionToken("admin")

	req := httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	w := httptest.NewRecorder()
	authEngine(mgr, &fakeChecker{err: errors.New("redis down")}).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 when blacklist is unavailable, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// RateLimit
// ═══════════════════════════════════════════════════════════

func rateEngine(limiter RateLimiter) *gin.Engine {
	r := gin.New()
	r.POST("/submissions", RateLimit(limiter, 5, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return r
}

func TestRateLimit_NilLimiterPasses(t *testing.T) {
	w := httptest.NewRecorder()
	rateEngine(nil).ServeHTTP(w, httptest.NewRequest("POST", "/submissions", nil))
	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestRateLimit_Rejects(t *testing.T) {
	limiter := &fakeLimiter{allowed: false}
	w := httptest.NewRecorder()
	rateEngine(limiter).ServeHTTP(w, httptest.NewRequest("POST", "/submissions", nil))

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
	if len(limiter.keys) != 1 || !strings.HasSuffix(limiter.keys[0], ":/submissions") {
		t.Errorf("unexpected rate limit keys: %v", limiter.keys)
	}
}

func TestRateLimit_ErrorDegrades(t *testing.T) {
	w := httptest.NewRecorder()
	rateEngine(&fakeLimiter{err: errors.New("redis down")}).ServeHTTP(w, httptest.NewRequest("POST", "/submissions", nil))
	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ErrorLog / RequestID
// ═══════════════════════════════════════════════════════════

func TestErrorLog_RecordsServerErrors(t *testing.T) {
	rec := &fakeRecorder{}
	r := gin.New()
	r.Use(ErrorLog(rec))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("db down"))
		c.Status(http.StatusInternalServerError)
	})

	for _, path := range []string{"/ok", "/bad", "/fail"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	if len(rec.entries) != 1 {
		t.Fatalf("expected 1 error entry, got %d", len(rec.entries))
	}
	e := rec.entries[0]
	if e.Action != model.ActionError {
		t.Errorf("expected action error, got %s", e.Action)
	}
	if !strings.Contains(e.Details, "GET /fail -> 500") || !strings.Contains(e.Details, "db down") {
		t.Errorf("unexpected details: %s", e.Details)
	}
}

func TestErrorLog_RecordsPanic(t *testing.T) {
	rec := &fakeRecorder{}
	r := gin.New()
	r.Use(gin.RecoveryWithWriter(io.Discard), ErrorLog(rec))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	if len(rec.entries) != 1 || !strings.Contains(rec.entries[0].Details, "panic: boom") {
		t.Errorf("expected panic entry, got %+v", rec.entries)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if got := w.Header().Get("X-Request-ID"); got == "" || got != w.Body.String() {
		t.Errorf("expected generated request id echoed, header=%q body=%q", got, w.Body.String())
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("expected incoming request id kept, got %q", got)
	}
}
