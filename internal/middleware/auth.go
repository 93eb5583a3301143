package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-site/core/internal/models"
	"github.com/portfolio-site/core/internal/pkg/apperror"
	"github.com/portfolio-site/core/internal/pkg/jwt"
	"github.com/portfolio-site/core/internal/pkg/response"
)

const ContextKeyUser = "user"

const (
	msgInvalidToken   = "Invalid or expired token. Please login again."
	msgUserNotFound   = "User not found"
	msgDeactivated    = "Your account has been deactivated"
	msgNotAuthed      = "Not authenticated. Please login."
	msgEditorRequired = "Access denied. Admin or Editor access required."
)

// UserFinder loads the account a token refers to.
type UserFinder interface {
	FindUserByID(ctx context.Context, id string) (*models.User, error)
}

// Auth rejects requests without a valid bearer token for an active user.
func Auth(signer *jwt.Signer, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "")
			return
		}

		user, err := resolveUser(c.Request.Context(), signer, users, token)
		if err != nil {
			switch {
			case errors.Is(err, apperror.ErrInvalidToken):
				response.Unauthorized(c, msgInvalidToken)
			case errors.Is(err, apperror.ErrNotFound):
				response.Unauthorized(c, msgUserNotFound)
			case errors.Is(err, apperror.ErrUnauthenticated):
				response.Unauthorized(c, msgDeactivated)
			default:
				response.Error(c, err, "Authentication error")
			}
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present, but does not block the request.
func OptionalAuth(signer *jwt.Signer, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if user, err := resolveUser(c.Request.Context(), signer, users, token); err == nil {
				c.Set(ContextKeyUser, user)
			}
		}
		c.Next()
	}
}

// AdminOnly lets only admins through. Must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Unauthorized(c, msgNotAuthed)
			return
		}
		if !user.IsAdmin() {
			response.Forbidden(c, "Access denied. Admin only. Your role: "+user.Role)
			return
		}
		c.Next()
	}
}

// EditorAccess lets admins and editors through. Must run after Auth.
func EditorAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Unauthorized(c, msgNotAuthed)
			return
		}
		if !user.CanEdit() {
			response.Forbidden(c, msgEditorRequired)
			return
		}
		c.Next()
	}
}

func resolveUser(ctx context.Context, signer *jwt.Signer, users UserFinder, token string) (*models.User, error) {
	claims, err := signer.Parse(token)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}
	user, err := users.FindUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperror.ErrUnauthenticated
	}
	return user, nil
}

// CurrentUser returns the authenticated user, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextKeyUser)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// IsEditor reports whether the request carries an admin or editor identity.
func IsEditor(c *gin.Context) bool {
	user := CurrentUser(c)
	return user != nil && user.CanEdit()
}

// HasAuthorizationHeader is the rate-limit bypass test: presence only, not validity.
func HasAuthorizationHeader(c *gin.Context) bool {
	return strings.TrimSpace(c.GetHeader("Authorization")) != ""
}

func extractToken(c *gin.Context) string {
	return NormalizeToken(c.GetHeader("Authorization"))
}

// NormalizeToken trims spaces and strips the Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}

// Guards bundles the auth middleware modules attach to their routes.
type Guards struct {
	Auth     gin.HandlerFunc
	Optional gin.HandlerFunc
}

// NewGuards builds Auth and OptionalAuth over the same signer and user lookup.
func NewGuards(signer *jwt.Signer, users UserFinder) Guards {
	return Guards{
		Auth:     Auth(signer, users),
		Optional: OptionalAuth(signer, users),
	}
}

// Editor is the chain for admin-or-editor routes.
func (g Guards) Editor() []gin.HandlerFunc {
	return []gin.HandlerFunc{g.Auth, EditorAccess()}
}

// Admin is the chain for admin-only routes.
func (g Guards) Admin() []gin.HandlerFunc {
	return []gin.HandlerFunc{g.Auth, AdminOnly()}
}
