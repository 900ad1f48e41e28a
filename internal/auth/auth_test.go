package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"kiosk-service/internal/entity"
)

func newManager() *TokenManager {
	return NewTokenManager("test-key", "kiosk-api", "kiosk-client", 2*time.Hour)
}

func TestIssueAndParse(t *testing.T) {
	m := newManager()
	token, err := m.Issue(&entity.User{ID: 7, Username: "lerato", Role: entity.RoleUser})
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "lerato", claims.Username)
	assert.Equal(t, entity.RoleUser, claims.Role)
	assert.False(t, claims.IsSuperUser())
}

func TestParseRejectsForeignTokens(t *testing.T) {
	m := newManager()
	user := &entity.User{ID: 1, Username: "admin", Role: entity.RoleSuperUser}

	otherIssuer := NewTokenManager("test-key", "someone-else", "kiosk-client", time.Hour)
	token, err := otherIssuer.Issue(user)
	require.NoError(t, err)
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	otherAudience := NewTokenManager("test-key", "kiosk-api", "another-app", time.Hour)
	token, err = otherAudience.Issue(user)
	require.NoError(t, err)
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	otherKey := NewTokenManager("wrong-key", "kiosk-api", "kiosk-client", time.Hour)
	token, err = otherKey.Issue(user)
	require.NoError(t, err)
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m := newManager()
	m.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
	token, err := m.Issue(&entity.User{ID: 1, Username: "old", Role: entity.RoleUser})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddlewareAndRequireRole(t *testing.T) {
	m := newManager()
	e := echo.New()
	g := e.Group("/admin", m.Middleware(), RequireRole(entity.RoleSuperUser))
	g.GET("", func(c echo.Context) error {
		claims, ok := ClaimsFrom(c)
		require.True(t, ok)
		return c.String(http.StatusOK, claims.Username)
	})

	do := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if token != "" {
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, do("").Code)
	assert.Equal(t, http.StatusUnauthorized, do("garbage").Code)

	userToken, err := m.Issue(&entity.User{ID: 2, Username: "user", Role: entity.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, do(userToken).Code)

	adminToken, err := m.Issue(&entity.User{ID: 1, Username: "admin", Role: entity.RoleSuperUser})
	require.NoError(t, err)
	rec := do(adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", rec.Body.String())
}
