package handlers

import (
	"net/http"
	"regexp"

	"corkboard/internal/middleware"
	"corkboard/internal/session"
	"corkboard/internal/store"
	"corkboard/internal/utils"

	"github.com/gin-gonic/gin"
)

// Session cookie lifetime: 30 days.
const sessionMaxAge = 30 * 24 * 60 * 60

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9]{4,}$`)

type AuthHandler struct {
	store    *store.Store
	sessions *session.Table
}

func NewAuthHandler(st *store.Store, sessions *session.Table) *AuthHandler {
	return &AuthHandler{store: st, sessions: sessions}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	Render(c, http.StatusOK, "auth/register.html", gin.H{"Title": "Register"})
}

func (h *AuthHandler) Register(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	nickname := c.PostForm("nickname")

	if username == "" || password == "" || nickname == "" {
		Render(c, http.StatusBadRequest, "auth/register.html", gin.H{
			"Title": "Register",
			"Error": "All fields are required",
		})
		return
	}
	if !usernameRe.MatchString(username) {
		Render(c, http.StatusBadRequest, "auth/register.html", gin.H{
			"Title": "Register",
			"Error": "Username must be alphanumeric and at least 4 characters",
		})
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Registration failed")
		return
	}

	if _, err := h.store.CreateUser(username, hash, nickname); err != nil {
		Render(c, http.StatusConflict, "auth/register.html", gin.H{
			"Title": "Register",
			"Error": "Username already taken",
		})
		return
	}

	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "auth/login.html", gin.H{"Title": "Login"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, ok := h.store.FindUserByUsername(username)
	if !ok || !utils.CheckPasswordHash(password, user.Password) {
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{
			"Title": "Login",
			"Error": "Wrong username or password",
		})
		return
	}

	token, err := h.sessions.Create(user.ID)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Login failed")
		return
	}

	c.SetCookie(middleware.SessionCookie, token, sessionMaxAge, "/", "", false, true)
	c.Redirect(http.StatusFound, "/?"+listState(c).Encode())
}

// Logout destroys the session and expires the cookie. Safe to call without
// a session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(middleware.SessionCookie); err == nil {
		h.sessions.Destroy(token)
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/?"+listState(c).Encode())
}
