package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/weroambags/weroambags-backend-go/models"
	"github.com/weroambags/weroambags-backend-go/utils"
)

const testJWTSecret = "jwt-secret"

func newUserHandler(store UserStore) *UserHandler {
	return NewUserHandler(store, testJWTSecret, time.Hour, nil, nil,
		"https://weroambags.example", log.New(io.Discard))
}

func TestRegister(t *testing.T) {
	store := newFakeUserStore()
	h := newUserHandler(store)

	rec := postJSON(t, h.Register, "/api/v1/user/register",
		`{"name":"Asha","email":"asha@example.com","password":"correct-horse","phone":"9876543210"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Registration successful")
	require.Len(t, store.users, 1)
	for _, u := range store.users {
		assert.Equal(t, models.RoleUser, u.Role)
		assert.NotEqual(t, "correct-horse", u.Password, "password must be stored hashed")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newFakeUserStore(models.User{Email: "asha@example.com"})
	h := newUserHandler(store)

	rec := postJSON(t, h.Register, "/api/v1/user/register",
		`{"email":"asha@example.com","password":"correct-horse"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "User already exists try to login")
	assert.Len(t, store.users, 1)
}

func TestRegisterValidation(t *testing.T) {
	h := newUserHandler(newFakeUserStore())

	cases := []struct {
		name    string
		payload string
	}{
		{"missing password", `{"email":"asha@example.com"}`},
		{"bad email", `{"email":"not-an-email","password":"correct-horse"}`},
		{"short password", `{"email":"asha@example.com","password":"short"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, h.Register, "/api/v1/user/register", tc.payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	store := newFakeUserStore(models.User{Email: "asha@example.com", Password: string(hashed)})
	h := newUserHandler(store)

	rec := postJSON(t, h.Login, "/api/v1/user/login",
		`{"email":"asha@example.com","password":"correct-horse"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.Token)

	claims, err := utils.ValidateJWT(body.Data.Token, testJWTSecret)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.UserID)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Equal(t, body.Data.Token, cookies[0].Value)
}

func TestLoginWrongPassword(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	store := newFakeUserStore(models.User{Email: "asha@example.com", Password: string(hashed)})
	h := newUserHandler(store)

	rec := postJSON(t, h.Login, "/api/v1/user/login",
		`{"email":"asha@example.com","password":"wrong-horse"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")
}

func TestLoginUnknownEmail(t *testing.T) {
	h := newUserHandler(newFakeUserStore())

	rec := postJSON(t, h.Login, "/api/v1/user/login",
		`{"email":"nobody@example.com","password":"correct-horse"}`)

	// Same message as a wrong password, so the response does not reveal
	// which accounts exist.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")
}
