package auth

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"backoffice/internal/api"
	"backoffice/internal/render"
)

// LoginPath is the fixed login route every authentication gate redirects to.
const LoginPath = "/auth/login"

// DefaultCookieName is the session cookie carrying the bearer token.
const DefaultCookieName = "auth_token"

// Options configures the login flow. In local mode credentials are checked
// against the configured admin user and a locally signed JWT becomes the
// session token; in remote mode the credentials are exchanged with the
// backing service and its token is stored instead.
type Options struct {
	Mode              string // "local" or "remote"
	JWTSecret         string
	AdminEmail        string
	AdminPasswordHash string
	APIBaseURL        string
	CookieName        string
	Home              string // where a signed-in user lands
}

// Handler handles the login and logout endpoints.
type Handler struct {
	opts Options
}

func NewHandler(opts Options) *Handler {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.Home == "" {
		opts.Home = "/admin/articles"
	}
	return &Handler{opts: opts}
}

// CookieName returns the session cookie name in use.
func (h *Handler) CookieName() string { return h.opts.CookieName }

// LoginForm handles GET /auth/login.
func (h *Handler) LoginForm(c *fiber.Ctx) error {
	if c.Cookies(h.opts.CookieName) != "" {
		return c.Redirect(h.opts.Home, fiber.StatusSeeOther)
	}
	c.Set("Content-Type", fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(render.LoginPage(""))
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *fiber.Ctx) error {
	email := c.FormValue("email")
	password := c.FormValue("password")

	if email == "" || password == "" {
		c.Set("Content-Type", fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(render.LoginPage("Email and password are required"))
	}

	token, err := h.authenticate(c, email, password)
	if err != nil {
		log.Printf("login error: %v", err)
		c.Set("Content-Type", fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(render.LoginPage("Login failed. Please check your credentials."))
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.opts.CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Expires:  time.Now().Add(SessionTTL),
	})
	return c.Redirect(h.opts.Home, fiber.StatusSeeOther)
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     h.opts.CookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Expires:  time.Now().Add(-time.Hour),
	})
	return c.Redirect(LoginPath, fiber.StatusSeeOther)
}

func (h *Handler) authenticate(c *fiber.Ctx, email, password string) (string, error) {
	if h.opts.Mode == "local" {
		if email != h.opts.AdminEmail || !CheckPassword(password, h.opts.AdminPasswordHash) {
			return "", fiber.NewError(fiber.StatusUnauthorized, "invalid email or password")
		}
		return GenerateSessionToken(email, 1, h.opts.JWTSecret)
	}

	var out struct {
		Status string `json:"status"`
		Data   struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	client := api.NewClient(h.opts.APIBaseURL, "")
	if err := client.Post(c.Context(), "/auth/login", fiber.Map{
		"email":    email,
		"password": password,
	}, &out); err != nil {
		return "", err
	}
	if out.Data.Token == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "login rejected")
	}
	return out.Data.Token, nil
}

// RegisterAuthRoutes registers the login/logout routes on the given app.
func RegisterAuthRoutes(app *fiber.App, h *Handler) {
	app.Get(LoginPath, h.LoginForm)
	app.Post(LoginPath, h.Login)
	app.Post("/auth/logout", h.Logout)
}
