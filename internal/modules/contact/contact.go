package contact

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/portfolio-site/core/internal/middleware"
	"github.com/portfolio-site/core/internal/models"
	"github.com/portfolio-site/core/internal/pkg/htmlsafe"
	"github.com/portfolio-site/core/internal/pkg/mail"
	"github.com/portfolio-site/core/internal/pkg/pagination"
	"github.com/portfolio-site/core/internal/pkg/response"
	"github.com/portfolio-site/core/internal/pkg/validate"
	"go.uber.org/zap"
)

const (
	msgSent       = "Your message has been sent successfully! I'll get back to you soon."
	msgSendFailed = "Failed to send message. Please try again later or contact me directly via email."
	maxListLimit  = 100
)

var emailPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)

type Input struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Validate trims every field, strips markup from the free-text ones and
// lowercases the address before checking lengths.
func (in *Input) Validate() error {
	in.Name = htmlsafe.Text(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Subject = htmlsafe.Text(in.Subject)
	in.Message = htmlsafe.Text(in.Message)
	return validate.Struct(in,
		validation.Field(&in.Name,
			validation.Required.Error("Name must be between 2 and 100 characters"),
			validation.RuneLength(2, 100).Error("Name must be between 2 and 100 characters")),
		validation.Field(&in.Email,
			validation.Required.Error("Please provide a valid email address"),
			validation.Match(emailPattern).Error("Please provide a valid email address")),
		validation.Field(&in.Subject,
			validation.Required.Error("Subject must be between 5 and 200 characters"),
			validation.RuneLength(5, 200).Error("Subject must be between 5 and 200 characters")),
		validation.Field(&in.Message,
			validation.Required.Error("Message must be between 10 and 2000 characters"),
			validation.RuneLength(10, 2000).Error("Message must be between 10 and 2000 characters")),
	)
}

// Mailer delivers the two contact emails.
type Mailer interface {
	SendContactNotify(to string, data mail.ContactData) error
	SendContactAutoReply(data mail.ContactData) error
}

// Owner describes who receives submissions and signs the auto-reply.
type Owner struct {
	Email   string
	Name    string
	SiteURL string
}

type Service struct {
	store  Store
	mailer Mailer
	owner  Owner
	now    func() time.Time
}

func NewService(store Store, mailer Mailer, owner Owner) *Service {
	return &Service{store: store, mailer: mailer, owner: owner, now: time.Now}
}

// Submit validates and stores a submission, then mails the owner and the sender.
// Nothing is stored or sent when validation fails.
func (s *Service) Submit(ctx context.Context, in *Input, ip, userAgent string) (*models.Contact, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	c := &models.Contact{
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		IPAddress: ip,
		UserAgent: userAgent,
		Status:    models.ContactStatusNew,
	}
	c.Touch(s.now())
	if err := s.store.Insert(ctx, c); err != nil {
		return nil, fmt.Errorf("store contact: %w", err)
	}

	data := mail.ContactData{
		Name:       c.Name,
		Email:      c.Email,
		Subject:    c.Subject,
		Message:    c.Message,
		IP:         c.IPAddress,
		ReceivedAt: c.CreatedAt,
		OwnerName:  s.owner.Name,
		SiteURL:    s.owner.SiteURL,
	}
	if err := s.mailer.SendContactNotify(s.owner.Email, data); err != nil {
		return c, fmt.Errorf("notify owner: %w", err)
	}
	if err := s.mailer.SendContactAutoReply(data); err != nil {
		return c, fmt.Errorf("auto reply: %w", err)
	}
	return c, nil
}

func (s *Service) Recent(ctx context.Context, limit int64) ([]models.Contact, error) {
	return s.store.Recent(ctx, limit)
}

type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guards middleware.Guards) {
	g := rg.Group("/contact")
	g.POST("", h.submit)
	g.GET("", append(guards.Admin(), h.list)...)
}

func (h *Handler) submit(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadBody(c, err)
		return
	}
	if _, err := h.svc.Submit(c.Request.Context(), &in, c.ClientIP(), c.Request.UserAgent()); err != nil {
		response.Error(c, err, msgSendFailed)
		return
	}
	response.Message(c, http.StatusOK, msgSent)
}

func (h *Handler) list(c *gin.Context) {
	limit := pagination.ParseIntOr(c.Query("limit"), maxListLimit)
	if limit < 1 || limit > maxListLimit {
		limit = maxListLimit
	}
	items, err := h.svc.Recent(c.Request.Context(), int64(limit))
	if err != nil {
		response.Error(c, err, "Error fetching contact submissions")
		return
	}
	if u := middleware.CurrentUser(c); u != nil {
		h.log.Debug("contact submissions listed",
			zap.String("user", u.Email),
			zap.Int("count", len(items)))
	}
	response.List(c, len(items), items)
}
