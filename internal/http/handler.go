package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"auth-portal/internal/auth"
	"auth-portal/internal/domain"
	"auth-portal/internal/repository"
	"auth-portal/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users  service.UserService
	tokens *auth.TokenIssuer
	logger *logrus.Logger
}

func NewHandler(users service.UserService, tokens *auth.TokenIssuer, logger *logrus.Logger) *Handler {
	return &Handler{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	// security headers first so rejected requests carry them too
	router.Use(securityHeaders())
	router.Use(csrfProtection())

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", h.signup)
			authGroup.POST("/login", h.login)
			authGroup.POST("/logout", h.logout)
			authGroup.GET("/me", authRequired(h.tokens), h.me)
		}
	}
}

type signupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func userToResponse(user *domain.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request body",
		})
		return
	}

	// collect every field error, not just the first
	fieldErrors := map[string]string{}
	if req.Email == "" || !auth.IsValidEmail(req.Email) {
		fieldErrors["email"] = "Please enter a valid email address"
	}
	if req.Password == "" || !auth.IsStrongPassword(req.Password) {
		fieldErrors["password"] = "Password must be at least 8 characters and include uppercase, lowercase, number, and special character"
	} else if len(req.Password) > auth.MaxPasswordBytes {
		fieldErrors["password"] = fmt.Sprintf("Password must be %d characters or fewer", auth.MaxPasswordBytes)
	}
	if req.FirstName == "" {
		fieldErrors["firstName"] = "First name is required"
	}
	if req.LastName == "" {
		fieldErrors["lastName"] = "Last name is required"
	}
	if len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"errors":  fieldErrors,
		})
		return
	}

	if _, err := h.users.GetByEmail(c.Request.Context(), req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"errors":  gin.H{"email": "A user with this email already exists"},
		})
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		h.internalError(c, "signup lookup", err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		// the pre-check can lose the race; the unique constraint is
		// the real arbiter
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"errors":  gin.H{"email": "A user with this email already exists"},
			})
			return
		}
		h.internalError(c, "signup", err)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Email, auth.TokenTTL)
	if err != nil {
		h.internalError(c, "signup issue token", err)
		return
	}

	csrfToken := auth.NewCSRFToken()
	setSessionCookies(c, token, csrfToken, auth.TokenTTL)

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"user":      userToResponse(user),
		"csrfToken": csrfToken,
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request body",
		})
		return
	}

	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Email and password are required",
		})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// generic on purpose: never reveal which field was wrong
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid email or password",
			})
			return
		}
		h.internalError(c, "login", err)
		return
	}

	ttl := auth.TokenTTL
	if req.Remember {
		ttl = auth.RememberTokenTTL
	}

	token, err := h.tokens.Issue(user.ID, user.Email, ttl)
	if err != nil {
		h.internalError(c, "login issue token", err)
		return
	}

	csrfToken := auth.NewCSRFToken()
	setSessionCookies(c, token, csrfToken, ttl)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"user":      userToResponse(user),
		"csrfToken": csrfToken,
	})
}

// logout is idempotent: it clears the session cookies whether or not the
// caller was logged in.
func (h *Handler) logout(c *gin.Context) {
	clearSessionCookies(c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}

func (h *Handler) me(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Authentication required",
		})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// token outlived the account, e.g. deleted out-of-band
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "User not found",
			})
			return
		}
		h.internalError(c, "me", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    userToResponse(user),
	})
}

// internalError logs the underlying cause server-side and responds with a
// generic body; detail never reaches the client.
func (h *Handler) internalError(c *gin.Context, op string, err error) {
	if h.logger != nil {
		h.logger.WithError(err).Errorf("%s failed", op)
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": "An internal error occurred",
	})
}
