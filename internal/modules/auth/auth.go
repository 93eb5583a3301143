package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/portfolio-site/core/internal/middleware"
	"github.com/portfolio-site/core/internal/models"
	"github.com/portfolio-site/core/internal/pkg/apperror"
	jwtpkg "github.com/portfolio-site/core/internal/pkg/jwt"
	"github.com/portfolio-site/core/internal/pkg/response"
	"github.com/portfolio-site/core/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

var (
	errBadCredentials = fmt.Errorf("bad credentials: %w", apperror.ErrUnauthenticated)
	errDeactivated    = fmt.Errorf("account deactivated: %w", apperror.ErrUnauthenticated)
)

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *LoginInput) Validate() error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	return validate.Struct(in,
		validation.Field(&in.Email, validation.Required.Error("Email is required")),
		validation.Field(&in.Password, validation.Required.Error("Password is required")),
	)
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type Service struct {
	users  Users
	signer *jwtpkg.Signer
	now    func() time.Time
}

func NewService(users Users, signer *jwtpkg.Signer) *Service {
	return &Service{users: users, signer: signer, now: time.Now}
}

// Login checks the password and issues a token. Unknown users and wrong
// passwords get the same error.
func (s *Service) Login(ctx context.Context, in *LoginInput) (*loginResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	u, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, errBadCredentials
	}
	if !u.IsActive {
		return nil, errDeactivated
	}

	token, err := s.signer.Sign(u.ID.Hex(), u.Role)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := s.users.TouchLogin(ctx, u.ID, now); err != nil {
		return nil, err
	}
	u.LastLoginAt = &now
	return &loginResponse{Token: token, User: u}, nil
}

// EnsureUser creates or updates the account for email with the given password and role.
func (s *Service) EnsureUser(ctx context.Context, email, name, password, role string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperror.Invalid("email", "email and password are required")
	}
	if !models.IsOneOf(role, models.Roles) {
		return nil, apperror.Invalid("role", "must be one of: "+strings.Join(models.Roles, ", "))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{Email: email, Name: name, PasswordHash: string(hash), Role: role, IsActive: true}
	u.Touch(s.now())
	return s.users.Upsert(ctx, u)
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guards middleware.Guards) {
	g := rg.Group("/auth")
	g.POST("/login", h.login)
	g.GET("/me", guards.Auth, h.me)
}

func (h *Handler) login(c *gin.Context) {
	var in LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadBody(c, err)
		return
	}
	out, err := h.svc.Login(c.Request.Context(), &in)
	if err != nil {
		switch {
		case errors.Is(err, errBadCredentials):
			response.Unauthorized(c, "Invalid email or password")
		case errors.Is(err, errDeactivated):
			response.Unauthorized(c, "Your account has been deactivated")
		default:
			response.Error(c, err, "Error logging in")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": out.Token, "user": out.User})
}

func (h *Handler) me(c *gin.Context) {
	response.OK(c, middleware.CurrentUser(c))
}
