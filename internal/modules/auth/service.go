package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"dogsalon/internal/domain"
	"dogsalon/internal/pkg/validator"
	"dogsalon/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Service contains all business logic for authentication
type Service struct {
	users    UserRepository
	tokens   TokenIssuer
	notifier Notifier
	cfg      Settings
	log      *zap.Logger
}

func NewService(users UserRepository, tokens TokenIssuer, notifier Notifier, cfg Settings, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		users:    users,
		tokens:   tokens,
		notifier: notifier,
		cfg:      cfg,
		log:      log.Named("auth"),
	}
}

// Register creates a client account. When activation is required the
// account stays inactive until the e-mailed link is opened.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	if fields := validator.Validate(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	if err := s.ensureUnique(ctx, req.Username, req.Email, 0); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        req.Phone,
		Role:         domain.RoleClient,
		IsActive:     !s.cfg.RequireActivation,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user registered", zap.Int64("user_id", u.ID), zap.Bool("active", u.IsActive))

	if s.cfg.RequireActivation {
		token, err := s.tokens.GenerateActivationToken(u.ID)
		if err != nil {
			return nil, fmt.Errorf("activation token: %w", err)
		}
		s.notifier.ActivationRequested(ctx, u, activationLink(s.cfg.ActivationURL, token))
	}
	return u, nil
}

// Activate enables the account named by an activation token. Activating an
// already active account is a no-op.
func (s *Service) Activate(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.tokens.ValidateActivationToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.IsActive {
		return u, nil
	}
	u.IsActive = true
	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("activate user: %w", err)
	}
	s.log.Info("user activated", zap.Int64("user_id", u.ID))
	return u, nil
}

// Login checks username and password. Unknown users, wrong passwords and
// inactive accounts all yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &LoginResult{Token: token, User: u}, nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return s.getUser(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	trim(req.FirstName, req.LastName, req.Phone)
	if req.Email != nil {
		*req.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if fields := validator.Validate(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != u.Email {
		if err := s.ensureUnique(ctx, "", *req.Email, u.ID); err != nil {
			return nil, err
		}
		u.Email = *req.Email
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}

	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error {
	if fields := validator.Validate(req); fields != nil {
		return &ValidationError{Fields: fields}
	}

	u, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.OldPassword)) != nil {
		return ErrWrongPassword
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	if err := s.users.Update(ctx, u); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	s.log.Info("password changed", zap.Int64("user_id", u.ID))
	return nil
}

func (s *Service) getUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// ensureUnique checks username and e-mail against other accounts. Empty
// values are skipped; selfID is ignored when matched.
func (s *Service) ensureUnique(ctx context.Context, username, email string, selfID int64) error {
	if username != "" {
		u, err := s.users.GetByUsername(ctx, username)
		switch {
		case err == nil && u.ID != selfID:
			return ErrUsernameTaken
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return err
		}
	}
	if email != "" {
		u, err := s.users.GetByEmail(ctx, email)
		switch {
		case err == nil && u.ID != selfID:
			return ErrEmailTaken
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return err
		}
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func activationLink(base, token string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "token=" + url.QueryEscape(token)
}

func trim(values ...*string) {
	for _, v := range values {
		if v != nil {
			*v = strings.TrimSpace(*v)
		}
	}
}
