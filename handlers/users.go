package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"github.com/weroambags/weroambags-backend-go/middleware"
	"github.com/weroambags/weroambags-backend-go/models"
	"github.com/weroambags/weroambags-backend-go/utils"
)

// UserStore is the persistence surface the user handlers need.
type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByProvider(ctx context.Context, field, providerID string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Insert(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// OAuthProvider bundles the oauth2 config with where to fetch the profile
// and which user field links the account.
type OAuthProvider struct {
	Config      *oauth2.Config
	UserInfoURL string
	IDField     string
	CookieName  string
}

type UserHandler struct {
	store       UserStore
	secret      string
	expiry      time.Duration
	google      *OAuthProvider
	facebook    *OAuthProvider
	frontendURL string
	logger      *log.Logger
}

func NewUserHandler(store UserStore, secret string, expiry time.Duration, google, facebook *OAuthProvider, frontendURL string, logger *log.Logger) *UserHandler {
	return &UserHandler{
		store:       store,
		secret:      secret,
		expiry:      expiry,
		google:      google,
		facebook:    facebook,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// Register creates a credential account. Duplicate email is a conflict.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid request format")
	}

	if req.Email == "" || req.Password == "" {
		return utils.NewAppError(http.StatusBadRequest, "Please provide email and password")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid email format")
	}
	if len(req.Password) < 8 {
		return utils.NewAppError(http.StatusBadRequest, "Password must be at least 8 characters")
	}

	ctx := c.Request().Context()
	if _, err := h.store.FindByEmail(ctx, req.Email); err == nil {
		return utils.NewAppError(http.StatusConflict, "User already exists try to login")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return err
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: string(hashed),
		Role:     models.RoleUser,
	}
	if _, err := h.store.Insert(ctx, user); err != nil {
		return err
	}

	return utils.Success(c, http.StatusOK, "Registration successful", nil)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and returns a signed token, also set as a
// cookie.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid request format")
	}

	if req.Email == "" || req.Password == "" {
		return utils.NewAppError(http.StatusBadRequest, "Please provide email and password")
	}

	user, err := h.store.FindByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return utils.NewAppError(http.StatusUnauthorized, "Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return utils.NewAppError(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), h.secret, h.expiry)
	if err != nil {
		return err
	}

	h.setTokenCookie(c, "token", token)
	return utils.Success(c, http.StatusOK, "Login successful", echo.Map{"token": token})
}

// OAuthRedirect sends the browser to the provider's consent page.
func (h *UserHandler) OAuthRedirect(p *OAuthProvider) echo.HandlerFunc {
	return func(c echo.Context) error {
		url := p.Config.AuthCodeURL("state", oauth2.AccessTypeOnline)
		return c.Redirect(http.StatusTemporaryRedirect, url)
	}
}

func (h *UserHandler) GoogleRedirect(c echo.Context) error   { return h.OAuthRedirect(h.google)(c) }
func (h *UserHandler) GoogleCallback(c echo.Context) error   { return h.OAuthCallback(h.google)(c) }
func (h *UserHandler) FacebookRedirect(c echo.Context) error { return h.OAuthRedirect(h.facebook)(c) }
func (h *UserHandler) FacebookCallback(c echo.Context) error { return h.OAuthCallback(h.facebook)(c) }

type oauthProfile struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Picture    string `json:"picture"`
}

// OAuthCallback exchanges the code, loads the provider profile, and logs the
// user in, creating the account on first sight of the provider id.
func (h *UserHandler) OAuthCallback(p *OAuthProvider) echo.HandlerFunc {
	return func(c echo.Context) error {
		code := c.QueryParam("code")
		if code == "" {
			return utils.NewAppError(http.StatusBadRequest, "Missing authorization code")
		}

		ctx := c.Request().Context()
		token, err := p.Config.Exchange(ctx, code)
		if err != nil {
			h.logger.Error("oauth code exchange failed", "provider", p.IDField, "err", err)
			return utils.NewAppError(http.StatusUnauthorized, "OAuth exchange failed")
		}

		profile, err := fetchProfile(ctx, p, token)
		if err != nil {
			h.logger.Error("oauth profile fetch failed", "provider", p.IDField, "err", err)
			return utils.NewAppError(http.StatusUnauthorized, "Failed to load profile")
		}

		user, err := h.store.FindByProvider(ctx, p.IDField, profile.ID)
		if err != nil {
			if !errors.Is(err, mongo.ErrNoDocuments) {
				return err
			}
			user = &models.User{
				Email:       profile.Email,
				DisplayName: profile.Name,
				GivenName:   firstNonEmpty(profile.GivenName, profile.FirstName),
				FamilyName:  firstNonEmpty(profile.FamilyName, profile.LastName),
				Image:       profile.Picture,
				Role:        models.RoleUser,
			}
			switch p.IDField {
			case "googleId":
				user.GoogleID = profile.ID
			case "facebookId":
				user.FacebookID = profile.ID
			}
			if user, err = h.store.Insert(ctx, user); err != nil {
				return err
			}
		}

		jwtToken, err := utils.GenerateJWT(user.ID.Hex(), h.secret, h.expiry)
		if err != nil {
			return err
		}

		h.setTokenCookie(c, p.CookieName, jwtToken)
		return c.Redirect(http.StatusFound, h.frontendURL)
	}
}

// GetMe returns the authenticated user's profile.
func (h *UserHandler) GetMe(c echo.Context) error {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.NewAppError(http.StatusUnauthorized, "You are not logged in")
	}

	user, err := h.store.FindByID(c.Request().Context(), current.ID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.NewAppError(http.StatusNotFound, "User not found")
		}
		return err
	}

	return utils.Success(c, http.StatusOK, "Get me successful", user)
}

func (h *UserHandler) GetUsers(c echo.Context) error {
	users, err := h.store.List(c.Request().Context())
	if err != nil {
		return err
	}
	return utils.Success(c, http.StatusOK, "Get all users successful", echo.Map{"users": users})
}

type updateUserRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (h *UserHandler) UpdateUser(c echo.Context) error {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.NewAppError(http.StatusUnauthorized, "You are not logged in")
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid request format")
	}

	set := bson.M{}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Phone != "" {
		set["phone"] = req.Phone
	}
	if len(set) == 0 {
		return utils.NewAppError(http.StatusBadRequest, "Nothing to update")
	}

	user, err := h.store.Update(c.Request().Context(), current.ID, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.NewAppError(http.StatusNotFound, "User not found")
		}
		return err
	}

	return utils.Success(c, http.StatusOK, "Update user successful", user)
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.NewAppError(http.StatusUnauthorized, "You are not logged in")
	}

	if err := h.store.Delete(c.Request().Context(), current.ID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.NewAppError(http.StatusNotFound, "User not found")
		}
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) setTokenCookie(c echo.Context, name, token string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    token,
		Expires:  time.Now().Add(h.expiry),
		HttpOnly: true,
		Path:     "/",
	})
}

func fetchProfile(ctx context.Context, p *OAuthProvider, token *oauth2.Token) (*oauthProfile, error) {
	client := p.Config.Client(ctx, token)
	resp, err := client.Get(p.UserInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, errors.New("profile endpoint returned " + resp.Status)
	}

	var profile oauthProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
