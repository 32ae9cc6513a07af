package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/dmitrijs2005/controlpanel/internal/common"
	"github.com/dmitrijs2005/controlpanel/internal/dbx"
	"github.com/dmitrijs2005/controlpanel/internal/logging"
	"github.com/dmitrijs2005/controlpanel/internal/server/auth"
	"github.com/dmitrijs2005/controlpanel/internal/server/models"
	"github.com/dmitrijs2005/controlpanel/internal/server/repositories/repomanager"
)

// Token is an issued session token as returned to clients.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresIn   time.Duration
}

// AuthService runs signup, login and bearer-token authentication.
type AuthService struct {
	repomanager repomanager.RepositoryManager
	accounts    *AccountDirectory
	hasher      PasswordHasher
	codec       *auth.TokenCodec
	policy      auth.Policy
	logger      logging.Logger
}

func NewAuthService(m repomanager.RepositoryManager, h PasswordHasher, codec *auth.TokenCodec,
	policy auth.Policy, l logging.Logger) *AuthService {
	return &AuthService{
		repomanager: m,
		accounts:    NewAccountDirectory(m, h),
		hasher:      h,
		codec:       codec,
		policy:      policy,
		logger:      l.With("module", "auth"),
	}
}

func (s *AuthService) Accounts() *AccountDirectory {
	return s.accounts
}

// Signup creates the account with its default widget layout and returns a
// token for it. Rejections are a *common.ValidationError (bad email or weak
// password, all violations listed) or common.ErrorAlreadyExists.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*Token, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if violations := s.policy.Validate(password); len(violations) > 0 {
		return nil, common.NewValidationError(common.CodeWeakPassword, violations...)
	}

	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", common.ErrorAlreadyExists)
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error looking up account: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	var account *models.Account
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		account, err = s.accounts.insert(ctx, tx, email, hash)
		if err != nil {
			return err
		}
		_, err = s.repomanager.Layouts(tx).GetOrCreate(ctx, account.ID, models.DefaultWidgets())
		if err != nil {
			return fmt.Errorf("error creating default layout: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.From(ctx, s.logger).Info(ctx, "account created", "account_id", account.ID)
	return s.issue(account.Email)
}

// Login returns common.ErrorInvalidCredentials for an unknown email and for
// a wrong password alike.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Token, error) {
	account, err := s.accounts.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidCredentials) {
			logging.From(ctx, s.logger).Debug(ctx, "login rejected")
		}
		return nil, err
	}
	return s.issue(account.Email)
}

// Authenticate resolves a bearer token to its account. Every failure wraps
// common.ErrorUnauthorized; the cause is kept for logs.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Account, error) {
	email, err := s.codec.Decode(token)
	if err != nil {
		logging.From(ctx, s.logger).Debug(ctx, "token rejected", "reason", err.Error())
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			logging.From(ctx, s.logger).Debug(ctx, "token subject has no account")
			return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
		}
		return nil, fmt.Errorf("error looking up account: %w", err)
	}
	return account, nil
}

func (s *AuthService) issue(subject string) (*Token, error) {
	signed, err := s.codec.Issue(subject)
	if err != nil {
		return nil, err
	}
	return &Token{AccessToken: signed, TokenType: common.TokenType, ExpiresIn: s.codec.TTL()}, nil
}

// validateEmail accepts a bare address such as a@example.com. Display names
// and surrounding whitespace are rejected.
func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return common.NewValidationError(common.CodeInvalidRequest, "invalid email address")
	}
	return nil
}
