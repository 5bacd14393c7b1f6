package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ucu-wifi/guest-portal-go/internal/database"
	apperrors "github.com/ucu-wifi/guest-portal-go/internal/errors"
	"github.com/ucu-wifi/guest-portal-go/internal/metrics"
	"github.com/ucu-wifi/guest-portal-go/internal/model"
	"github.com/ucu-wifi/guest-portal-go/internal/notify"
	"github.com/ucu-wifi/guest-portal-go/internal/repository"
	"github.com/ucu-wifi/guest-portal-go/internal/util"
)

const (
	usernameDigits      = 4
	maxUsernameAttempts = 10
	defaultGuestDomain  = "ucu.ac.ug"
)

type CreateGuestUserResult struct {
	User          model.GuestUser `json:"user"`
	PlainPassword string          `json:"plainPassword"`
	EmailSent     bool            `json:"emailSent"`
	EmailMessage  string          `json:"emailMessage"`
}

type GuestUserService struct {
	guestRepo     repository.GuestUserRepository
	hasher        PasswordHasher
	notifier      notify.Notifier
	notifyTimeout time.Duration
	debug         bool
	now           func() time.Time
}

func NewGuestUserService(
	guestRepo repository.GuestUserRepository,
	hasher PasswordHasher,
	notifier notify.Notifier,
	notifyTimeout time.Duration,
	debug bool,
) *GuestUserService {
	return &GuestUserService{
		guestRepo:     guestRepo,
		hasher:        hasher,
		notifier:      notifier,
		notifyTimeout: notifyTimeout,
		debug:         debug,
		now:           time.Now,
	}
}

// GenerateUsername derives a fresh login name of the form
// G<4 digits>@<base>.<admin email domain>, retrying on collisions.
func (s *GuestUserService) GenerateUsername(ctx context.Context, adminEmail, base string) (string, error) {
	domain := strings.ToLower(util.EmailDomain(adminEmail))
	if domain == "" {
		domain = defaultGuestDomain
	}
	base = strings.ToLower(base)

	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		digits, err := util.RandomDigits(usernameDigits)
		if err != nil {
			return "", apperrors.Internal("Failed to generate username").WithCause(err)
		}
		candidate := fmt.Sprintf("G%s@%s.%s", digits, base, domain)

		exists, err := s.guestRepo.ExistsByUsername(ctx, candidate)
		if err != nil {
			return "", apperrors.Database(err)
		}
		if !exists {
			return candidate, nil
		}
		log.Debug().Str("username", candidate).Int("attempt", attempt+1).Msg("generated username collided")
	}

	return "", apperrors.DuplicateUsername()
}

func (s *GuestUserService) Create(ctx context.Context, admin model.AdminSummary, in CreateGuestUserInput) (*CreateGuestUserResult, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	username, err := s.GenerateUsername(ctx, admin.Email, in.BaseUsername)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, hashError(err)
	}

	user, err := s.guestRepo.Create(ctx, model.CreateGuestUserParams{
		Username:     username,
		PasswordHash: hash,
		FullName:     in.FullName,
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		ExpiresAt:    expiresAfter(s.now(), in.ExpirationDays),
		CreatedBy:    admin.ID,
	})
	if database.IsUniqueViolation(err, "") {
		return nil, apperrors.DuplicateUsername()
	}
	if err != nil {
		return nil, apperrors.Database(err)
	}
	metrics.GuestAccountsCreated.Inc()

	sent, message := s.dispatch(ctx, notify.Credentials{
		FullName:  user.FullName,
		Email:     user.Email,
		Username:  user.Username,
		Password:  in.Password,
		ExpiresAt: user.ExpiresAt,
	})

	return &CreateGuestUserResult{
		User:          user.WithStatus(s.now()),
		PlainPassword: in.Password,
		EmailSent:     sent,
		EmailMessage:  message,
	}, nil
}

// dispatch runs the notifier on a context detached from the request so a
// client disconnect cannot abort delivery, and waits at most notifyTimeout
// for the outcome.
func (s *GuestUserService) dispatch(ctx context.Context, c notify.Credentials) (bool, string) {
	done := make(chan error, 1)
	go func() {
		done <- s.notifier.Send(context.WithoutCancel(ctx), c)
	}()

	timer := time.NewTimer(s.notifyTimeout)
	defer timer.Stop()

	var err error
	select {
	case err = <-done:
	case <-timer.C:
		err = context.DeadlineExceeded
	}

	switch {
	case err == nil:
		metrics.NotificationsTotal.WithLabelValues("sent").Inc()
		return true, "Credentials sent to " + c.Email
	case errors.Is(err, notify.ErrNotConfigured):
		metrics.NotificationsTotal.WithLabelValues("skipped").Inc()
		return false, "Email delivery not configured"
	default:
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		log.Warn().Err(err).Str("username", c.Username).Msg("failed to send guest credentials")
		if s.debug {
			return false, "Failed to send email: " + err.Error()
		}
		return false, "Failed to send email"
	}
}

// List returns the admin's accounts newest first. A non-empty status keeps
// only accounts whose derived status matches.
func (s *GuestUserService) List(ctx context.Context, adminID string, status model.GuestStatus) ([]model.GuestUser, error) {
	if status != "" && !status.Valid() {
		return nil, apperrors.Validation([]apperrors.FieldError{
			{Field: "status", Message: "Status must be one of active, inactive, expired"},
		})
	}

	users, err := s.guestRepo.ListByOwner(ctx, adminID)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	now := s.now()
	out := make([]model.GuestUser, 0, len(users))
	for _, u := range users {
		u = u.WithStatus(now)
		if status != "" && u.Status != status {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (s *GuestUserService) Update(ctx context.Context, adminID, id string, in UpdateGuestUserInput) (*model.GuestUser, error) {
	if !util.IsValidUUID(id) {
		return nil, apperrors.NotFound("Guest user")
	}

	existing, err := s.guestRepo.FindByIDForOwner(ctx, adminID, id)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if existing == nil {
		return nil, apperrors.NotFound("Guest user")
	}

	params := model.UpdateGuestUserParams{IsActive: in.IsActive, ExpiresAt: in.ExpiresAt}
	if params.IsEmpty() {
		return nil, apperrors.ValidationError("No valid fields to update")
	}

	user, err := s.guestRepo.Update(ctx, adminID, id, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if user == nil {
		return nil, apperrors.NotFound("Guest user")
	}

	updated := user.WithStatus(s.now())
	return &updated, nil
}

func (s *GuestUserService) Delete(ctx context.Context, adminID, id string) error {
	if !util.IsValidUUID(id) {
		return apperrors.NotFound("Guest user")
	}

	deleted, err := s.guestRepo.DeleteForOwner(ctx, adminID, id)
	if err != nil {
		return apperrors.Database(err)
	}
	if !deleted {
		return apperrors.NotFound("Guest user")
	}
	return nil
}

// ToggleStatus flips the active flag regardless of expiry.
func (s *GuestUserService) ToggleStatus(ctx context.Context, adminID, id string) (bool, error) {
	if !util.IsValidUUID(id) {
		return false, apperrors.NotFound("Guest user")
	}

	active, err := s.guestRepo.ToggleActive(ctx, adminID, id)
	if err != nil {
		return false, apperrors.Database(err)
	}
	if active == nil {
		return false, apperrors.NotFound("Guest user")
	}
	return *active, nil
}
