package service

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/ucu-wifi/guest-portal-go/internal/auth"
	"github.com/ucu-wifi/guest-portal-go/internal/database"
	apperrors "github.com/ucu-wifi/guest-portal-go/internal/errors"
	"github.com/ucu-wifi/guest-portal-go/internal/model"
	"github.com/ucu-wifi/guest-portal-go/internal/repository"
	"github.com/ucu-wifi/guest-portal-go/internal/util"
)

type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, hash string) (bool, error)
	DummyHash() string
}

type TokenCodec interface {
	Issue(subjectID string, ttl time.Duration) (string, time.Time, error)
	Verify(token string) (string, error)
}

type LoginResult struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expiresAt"`
	Admin     model.AdminSummary `json:"admin"`
}

// AuthService owns admin registration and the sessions table.
type AuthService struct {
	db          *sqlx.DB
	adminRepo   repository.AdminRepository
	sessionRepo repository.SessionRepository
	hasher      PasswordHasher
	tokens      TokenCodec
	sessionTTL  time.Duration
}

func NewAuthService(
	db *sqlx.DB,
	adminRepo repository.AdminRepository,
	sessionRepo repository.SessionRepository,
	hasher PasswordHasher,
	tokens TokenCodec,
	sessionTTL time.Duration,
) *AuthService {
	return &AuthService{
		db:          db,
		adminRepo:   adminRepo,
		sessionRepo: sessionRepo,
		hasher:      hasher,
		tokens:      tokens,
		sessionTTL:  sessionTTL,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.AdminSummary, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, hashError(err)
	}

	var admin *model.Admin
	err = database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := s.adminRepo.WithTx(tx)

		existing, err := repo.FindByEmail(ctx, in.Email)
		if err != nil {
			return apperrors.Database(err)
		}
		if existing != nil {
			return apperrors.DuplicateEmail()
		}

		admin, err = repo.Create(ctx, model.CreateAdminParams{Email: in.Email, PasswordHash: hash})
		if database.IsUniqueViolation(err, "") {
			return apperrors.DuplicateEmail()
		}
		if err != nil {
			return apperrors.Database(err)
		}
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Database(err)
	}

	summary := admin.Summary()
	return &summary, nil
}

// Login fails with the same InvalidCredentials error for an unknown email and
// a wrong password. Unknown emails still pay for one bcrypt comparison.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	admin, err := s.adminRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if admin == nil {
		if _, err := s.hasher.Verify(ctx, in.Password, s.hasher.DummyHash()); errors.Is(err, auth.ErrHasherUnavailable) {
			return nil, apperrors.Internal("Password verification unavailable").WithCause(err)
		}
		return nil, apperrors.InvalidCredentials()
	}

	ok, err := s.hasher.Verify(ctx, in.Password, admin.PasswordHash)
	if errors.Is(err, auth.ErrMalformedHash) {
		log.Error().Err(err).Str("admin_id", admin.ID).Msg("stored password hash could not be verified")
		return nil, apperrors.InvalidCredentials()
	}
	if err != nil {
		return nil, apperrors.Internal("Password verification unavailable").WithCause(err)
	}
	if !ok {
		return nil, apperrors.InvalidCredentials()
	}

	token, expiresAt, err := s.tokens.Issue(admin.ID, s.sessionTTL)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token").WithCause(err)
	}

	_, err = s.sessionRepo.Create(ctx, model.CreateSessionParams{
		AdminID:   admin.ID,
		TokenHash: util.HashToken(token),
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, Admin: admin.Summary()}, nil
}

// Authenticate requires both a verifiable token and a live session row, so a
// logged-out token is rejected before its own exp.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.AdminSummary, error) {
	adminID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, apperrors.InvalidToken("Invalid or expired token")
	}

	session, err := s.sessionRepo.FindValid(ctx, adminID, util.HashToken(token))
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if session == nil {
		return nil, apperrors.Unauthorized("Session expired or revoked")
	}

	admin, err := s.adminRepo.FindByID(ctx, adminID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if admin == nil {
		return nil, apperrors.Unauthorized("Admin not found")
	}

	summary := admin.Summary()
	return &summary, nil
}

// Logout revokes every session of the admin, not only the calling one.
func (s *AuthService) Logout(ctx context.Context, adminID string) error {
	n, err := s.sessionRepo.DeleteByAdminID(ctx, adminID)
	if err != nil {
		return apperrors.Database(err)
	}
	log.Debug().Str("admin_id", adminID).Int64("sessions", n).Msg("sessions revoked")
	return nil
}

func hashError(err error) error {
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return apperrors.Validation([]apperrors.FieldError{
			{Field: "password", Message: "Password must be at most 72 bytes long"},
		})
	}
	return apperrors.Internal("Failed to hash password").WithCause(err)
}
