// Package services implements the control panel use cases on top of the
// repositories: account lookup and credentials, signup and login, token
// authentication, widget layouts and health summaries.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/controlpanel/internal/common"
	"github.com/dmitrijs2005/controlpanel/internal/dbx"
	"github.com/dmitrijs2005/controlpanel/internal/server/models"
	"github.com/dmitrijs2005/controlpanel/internal/server/repositories/repomanager"
)

// PasswordHasher is satisfied by *auth.Hasher.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, storedHash string) bool
}

// AccountDirectory maps emails to stored accounts.
type AccountDirectory struct {
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
}

// NewAccountDirectory reads and writes accounts through m, hashing with h.
func NewAccountDirectory(m repomanager.RepositoryManager, h PasswordHasher) *AccountDirectory {
	return &AccountDirectory{repomanager: m, hasher: h}
}

// FindByEmail returns common.ErrorNotFound when no account has email.
func (d *AccountDirectory) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return d.repomanager.Users(d.repomanager.DB()).GetByEmail(ctx, email)
}

// FindByID returns common.ErrorNotFound when no account has id.
func (d *AccountDirectory) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	return d.repomanager.Users(d.repomanager.DB()).GetByID(ctx, id)
}

// Create hashes plaintext and stores a new account. It returns
// common.ErrorAlreadyExists when the email is taken.
func (d *AccountDirectory) Create(ctx context.Context, email, plaintext string) (*models.Account, error) {
	hash, err := d.hasher.Hash(plaintext)
	if err != nil {
		return nil, err
	}
	return d.insert(ctx, d.repomanager.DB(), email, hash)
}

func (d *AccountDirectory) insert(ctx context.Context, db dbx.DBTX, email, hash string) (*models.Account, error) {
	account, err := d.repomanager.Users(db).Create(ctx, &models.Account{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fmt.Errorf("%w: email already registered", common.ErrorAlreadyExists)
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}
	return account, nil
}

// Authenticate returns the account only when the password matches. An
// unknown email and a wrong password both yield common.ErrorInvalidCredentials.
// Unknown emails skip hashing, so response timing can reveal which emails exist.
func (d *AccountDirectory) Authenticate(ctx context.Context, email, plaintext string) (*models.Account, error) {
	account, err := d.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up account: %w", err)
	}

	if !d.hasher.Verify(plaintext, account.PasswordHash) {
		return nil, common.ErrorInvalidCredentials
	}
	return account, nil
}
