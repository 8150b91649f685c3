package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/weroambags/weroambags-backend-go/models"
	"github.com/weroambags/weroambags-backend-go/utils"
)

const testSecret = "auth-secret"

type staticLoader struct {
	user *models.User
}

func (l *staticLoader) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if l.user == nil || l.user.ID != id {
		return nil, mongo.ErrNoDocuments
	}
	clone := *l.user
	return &clone, nil
}

func runGuarded(t *testing.T, auth *Auth, authHeader string, extra ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.HTTPErrorHandler = utils.ErrorHandler(log.New(io.Discard))

	handler := func(c echo.Context) error {
		return utils.Success(c, http.StatusOK, "ok", nil)
	}
	wrapped := handler
	for i := len(extra) - 1; i >= 0; i-- {
		wrapped = extra[i](wrapped)
	}
	wrapped = auth.Protect(wrapped)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := wrapped(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func bearerFor(t *testing.T, user *models.User, expiry time.Duration) string {
	t.Helper()
	token, err := utils.GenerateJWT(user.ID.Hex(), testSecret, expiry)
	require.NoError(t, err)
	return "Bearer " + token
}

func seededAuth(role string) (*Auth, *models.User) {
	user := &models.User{ID: primitive.NewObjectID(), Email: "asha@example.com", Role: role}
	return &Auth{Users: &staticLoader{user: user}, Secret: testSecret}, user
}

func TestProtectMissingHeader(t *testing.T) {
	auth, _ := seededAuth(models.RoleUser)

	rec := runGuarded(t, auth, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Forbidden access!!!")
}

func TestProtectMalformedHeader(t *testing.T) {
	auth, _ := seededAuth(models.RoleUser)

	rec := runGuarded(t, auth, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectGarbageToken(t *testing.T) {
	auth, _ := seededAuth(models.RoleUser)

	rec := runGuarded(t, auth, "Bearer not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or expired token")
}

func TestProtectExpiredToken(t *testing.T) {
	auth, user := seededAuth(models.RoleUser)

	rec := runGuarded(t, auth, bearerFor(t, user, -time.Minute))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or expired token")
}

func TestProtectDeletedUser(t *testing.T) {
	auth, user := seededAuth(models.RoleUser)
	token := bearerFor(t, user, time.Hour)
	auth.Users = &staticLoader{}

	rec := runGuarded(t, auth, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "User no longer exists")
}

func TestProtectValidToken(t *testing.T) {
	auth, user := seededAuth(models.RoleUser)

	rec := runGuarded(t, auth, bearerFor(t, user, time.Hour))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRestrictToRejectsWrongRole(t *testing.T) {
	auth, user := seededAuth(models.RoleUser)

	rec := runGuarded(t, auth, bearerFor(t, user, time.Hour), RestrictTo(models.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "You do not have permission")
}

func TestRestrictToAllowsMatchingRole(t *testing.T) {
	auth, admin := seededAuth(models.RoleAdmin)

	rec := runGuarded(t, auth, bearerFor(t, admin, time.Hour), RestrictTo(models.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRestrictToWithoutProtectIsForbidden(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = utils.ErrorHandler(log.New(io.Discard))

	handler := RestrictTo(models.RoleAdmin)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCurrentUser(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, ok := CurrentUser(c)
	assert.False(t, ok)

	want := &models.User{ID: primitive.NewObjectID()}
	c.Set(ContextUserKey, want)

	got, ok := CurrentUser(c)
	require.True(t, ok)
	assert.Equal(t, want.ID, got.ID)
}
