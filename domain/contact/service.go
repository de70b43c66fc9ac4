package contact

import (
	"context"
	"errors"
	"time"

	"github.com/akeren/portfolio-api/internal/log"
	"github.com/akeren/portfolio-api/internal/models"
	apperrors "github.com/akeren/portfolio-api/pkg/errors"
	"github.com/akeren/portfolio-api/pkg/ratelimit"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/akeren/portfolio-api/domain/contact"

type ContactService interface {
	// Admit records a submission attempt for identifier and fails with a
	// RATE_LIMIT_EXCEEDED error once the window is exhausted.
	Admit(ctx context.Context, identifier string) error
	// Submit validates req, stores it attributed to client and returns the new id.
	Submit(ctx context.Context, req *SubmitContactRequest, client ClientIdentity) (*SubmitContactResponse, error)
}

type ServiceOption func(*contactService)

// WithNow overrides the clock used for createdAt.
func WithNow(now func() time.Time) ServiceOption {
	return func(s *contactService) {
		s.now = now
	}
}

type contactService struct {
	logger     *log.Logger
	repository MessageRepository
	limiter    ratelimit.RateLimiter
	validator  *ContactValidator
	tracer     trace.Tracer
	now        func() time.Time
}

func NewContactService(logger *log.Logger, repository MessageRepository, limiter ratelimit.RateLimiter, opts ...ServiceOption) ContactService {
	s := &contactService{
		logger:     logger,
		repository: repository,
		limiter:    limiter,
		validator:  NewContactValidator(),
		tracer:     otel.Tracer(tracerName),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *contactService) Admit(ctx context.Context, identifier string) error {
	ctx, span := s.tracer.Start(ctx, "contact.admit")
	defer span.End()

	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if ratelimit.IsUnlimited(s.limiter) {
		return nil
	}

	limited, err := s.limiter.IsLimited(identifier)
	if err != nil {
		// Limiting is best-effort; a broken backend admits the request.
		logger.Error("Contact rate limiter failed; admitting request", "error", err, "client", identifier)
		span.RecordError(err)
		return nil
	}

	span.SetAttributes(attribute.Bool("contact.rate_limited", limited))

	if limited {
		logger.Warn("Contact submission rate limited", "client", identifier)
		return NewRateLimitedError()
	}

	return nil
}

func (s *contactService) Submit(ctx context.Context, req *SubmitContactRequest, client ClientIdentity) (*SubmitContactResponse, error) {
	ctx, span := s.tracer.Start(ctx, "contact.submit")
	defer span.End()

	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	valid, details, err := s.validator.Validate(req)
	if err != nil {
		logger.Info("Contact submission rejected", "reason", errors.Unwrap(err), "details", details)
		span.SetStatus(codes.Error, "invalid submission")
		return nil, err
	}

	msg := &models.ContactMessage{
		Name:      valid.Name,
		Email:     valid.Email,
		Message:   valid.Message,
		IP:        client.Identifier,
		UserAgent: client.UserAgent,
		CreatedAt: s.now().UTC(),
		Read:      false,
	}

	id, err := s.repository.InsertMessage(ctx, msg)
	if err != nil {
		logger.Error("Failed to store contact message", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "store failed")
		if !apperrors.IsType(err, apperrors.ErrorTypeDatabaseError) {
			err = NewPersistenceError(err)
		}
		return nil, err
	}

	if id == "" {
		logger.Error("Contact message store returned an empty id")
		span.SetStatus(codes.Error, "missing id")
		return nil, NewPersistenceError(ErrMissingInsertedID)
	}

	span.SetAttributes(attribute.String("contact.message_id", id))
	logger.Info("Contact message stored", "id", id, "client", client.Identifier)

	return &SubmitContactResponse{ID: id, Message: MessageSent}, nil
}
