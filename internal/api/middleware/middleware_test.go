package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/arkadelo/profilehub/internal/identity"
	"github.com/arkadelo/profilehub/internal/models"
	"github.com/arkadelo/profilehub/internal/session"
	"github.com/arkadelo/profilehub/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type roleStore struct {
	mu    sync.Mutex
	roles map[string]models.UserRole
	gets  int
}

func (s *roleStore) Get(_ context.Context, uid string) (*models.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	role, ok := s.roles[uid]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &models.UserRecord{UID: uid, Role: role}, nil
}

func (s *roleStore) Merge(context.Context, string, models.UserProfileFields) error { return nil }

func (s *roleStore) Init(context.Context, string, string, string, *string) error { return nil }

func (s *roleStore) SetRole(context.Context, string, models.UserRole) error { return nil }

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newIssuer() *identity.TokenIssuer {
	return identity.NewTokenIssuer("test-secret", "profilehub", "profilehub", time.Hour)
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	r := gin.New()
	r.GET("/guarded", JWTAuth(newIssuer()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "missing or invalid token")
}

func TestJWTAuthRejectsBadSignature(t *testing.T) {
	other := identity.NewTokenIssuer("different-secret", "profilehub", "profilehub", time.Hour)
	token, err := other.Issue("u1", "user")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/guarded", JWTAuth(newIssuer()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthAcceptsHeaderAndCookie(t *testing.T) {
	issuer := newIssuer()
	token, err := issuer.Issue("u1", "user")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/guarded", JWTAuth(issuer), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": c.GetString("user_id")})
	})

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "u1")

	req = httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestPageAuthRedirectsToLogin(t *testing.T) {
	r := gin.New()
	r.GET("/dashboard", PageAuth(newIssuer()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/auth/login", w.Header().Get("Location"))
}

func TestResolveRoleOverridesTokenSnapshot(t *testing.T) {
	issuer := newIssuer()
	// token claims admin, but the store has since demoted the account
	token, err := issuer.Issue("u1", "admin")
	require.NoError(t, err)

	store := &roleStore{roles: map[string]models.UserRole{"u1": models.RoleUser}}
	roles := session.NewRoleReader(store, nil, quietLogger())

	r := gin.New()
	r.GET("/whoami", JWTAuth(issuer), ResolveRole(roles), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": c.GetString("role")})
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"role":"user"`)
}

func TestRequireAdminForbidsUser(t *testing.T) {
	issuer := newIssuer()
	token, err := issuer.Issue("u1", "user")
	require.NoError(t, err)

	called := false
	r := gin.New()
	r.GET("/admin/submissions", JWTAuth(issuer), RequireAdmin(), func(c *gin.Context) {
		called = true
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/submissions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
	require.False(t, called, "admin handler must not run for a user role")
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	issuer := newIssuer()
	token, err := issuer.Issue("boss", "admin")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/admin/submissions", JWTAuth(issuer), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/submissions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdminPageRedirectsUserToDashboard(t *testing.T) {
	issuer := newIssuer()
	token, err := issuer.Issue("u1", "admin") // stale snapshot
	require.NoError(t, err)

	store := &roleStore{roles: map[string]models.UserRole{"u1": models.RoleUser}}
	roles := session.NewRoleReader(store, nil, quietLogger())

	listCalls := 0
	r := gin.New()
	r.GET("/admin", PageAuth(issuer), ResolveRole(roles), RequireAdminPage(), func(c *gin.Context) {
		listCalls++
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/dashboard", w.Header().Get("Location"))
	require.Equal(t, 0, listCalls, "nothing behind the guard may execute")
}

func TestRequireAdminPageAllowsAdmin(t *testing.T) {
	issuer := newIssuer()
	token, err := issuer.Issue("boss", "user") // stale snapshot the other way
	require.NoError(t, err)

	store := &roleStore{roles: map[string]models.UserRole{"boss": models.RoleAdmin}}
	roles := session.NewRoleReader(store, nil, quietLogger())

	r := gin.New()
	r.GET("/admin", PageAuth(issuer), ResolveRole(roles), RequireAdminPage(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestResolveRoleUnknownUIDDefaultsToUser(t *testing.T) {
	issuer := newIssuer()
	token, err := issuer.Issue("ghost", "admin")
	require.NoError(t, err)

	store := &roleStore{roles: map[string]models.UserRole{}}
	roles := session.NewRoleReader(store, nil, quietLogger())

	r := gin.New()
	r.GET("/whoami", JWTAuth(issuer), ResolveRole(roles), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"role":     c.GetString("role"),
			"degraded": c.GetBool("role_degraded"),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"role":"user"`)
	require.Contains(t, w.Body.String(), `"degraded":false`)
}
