package services

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/casalist/backend/internal/domain/entities"
	"github.com/casalist/backend/internal/domain/repositories"
	"github.com/casalist/backend/internal/security"
	apperrors "github.com/casalist/backend/pkg/errors"
)

// AccountService enforces account invariants in front of the repository:
// email uniqueness, required fields, and the credential hashing boundary.
// Plaintext passwords never reach the repository.
type AccountService struct {
	repo   repositories.AccountRepository
	hasher security.Hasher
}

// NewAccountService creates a new account service.
func NewAccountService(repo repositories.AccountRepository, hasher security.Hasher) *AccountService {
	return &AccountService{repo: repo, hasher: hasher}
}

// CreateAccountInput carries the fields a caller may set on creation.
type CreateAccountInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	IsAdmin   bool   `json:"is_admin"`
}

// AccountPatch lists the fields eligible for a generic update. Credentials
// and the admin flag are deliberately absent; they have dedicated
// operations.
type AccountPatch struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// Create validates the input, hashes the credential and persists the
// account. A duplicate email is a conflict.
func (s *AccountService) Create(ctx context.Context, in CreateAccountInput) (*entities.Account, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, apperrors.NewValidationError("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.NewValidationError("email is malformed")
	}
	if in.Password == "" {
		return nil, apperrors.NewValidationError("password is required")
	}

	existing, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("email already in use")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	now := time.Now().UTC()
	account := &entities.Account{
		ID:           uuid.New().String(),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      in.IsAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.repo.Save(ctx, account)
}

// Get returns the account or nil when absent.
func (s *AccountService) Get(ctx context.Context, id string) (*entities.Account, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all accounts.
func (s *AccountService) List(ctx context.Context) ([]*entities.Account, error) {
	return s.repo.List(ctx)
}

// GetByEmail returns the account with the given email, or nil.
func (s *AccountService) GetByEmail(ctx context.Context, email string) (*entities.Account, error) {
	return s.findByEmail(ctx, strings.TrimSpace(email))
}

// Update applies a patch to an existing account. It returns nil when no
// account has the given id, so callers can distinguish not-found from a
// validation failure. Changing the email re-runs the uniqueness check
// against every other account.
func (s *AccountService) Update(ctx context.Context, id string, patch AccountPatch) (*entities.Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}

	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if email == "" {
			return nil, apperrors.NewValidationError("email cannot be empty")
		}
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, apperrors.NewValidationError("email is malformed")
		}
		if email != account.Email {
			existing, err := s.findByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != account.ID {
				return nil, apperrors.NewConflictError("email already in use")
			}
		}
		account.Email = email
	}
	if patch.FirstName != nil {
		account.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		account.LastName = strings.TrimSpace(*patch.LastName)
	}

	account.UpdatedAt = time.Now().UTC()
	return s.repo.Save(ctx, account)
}

// ChangePassword re-hashes and stores a new credential for the account.
// Returns nil when the account does not exist.
func (s *AccountService) ChangePassword(ctx context.Context, id, password string) (*entities.Account, error) {
	if password == "" {
		return nil, apperrors.NewValidationError("password is required")
	}

	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	account.PasswordHash = hash
	account.UpdatedAt = time.Now().UTC()
	return s.repo.Save(ctx, account)
}

// SetAdmin flips the admin flag. Returns nil when the account is absent.
func (s *AccountService) SetAdmin(ctx context.Context, id string, isAdmin bool) (*entities.Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}

	account.IsAdmin = isAdmin
	account.UpdatedAt = time.Now().UTC()
	return s.repo.Save(ctx, account)
}

// VerifyPassword reports whether plaintext matches the account's stored
// credential. It never exposes the hash.
func (s *AccountService) VerifyPassword(account *entities.Account, plaintext string) bool {
	if account == nil {
		return false
	}
	return s.hasher.Verify(account.PasswordHash, plaintext)
}

// Delete removes the account, reporting whether a record was removed.
// Listings and reviews referencing the account are left in place; readers
// treat the dangling reference as absent.
func (s *AccountService) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}

// findByEmail prefers the repository's indexed lookup capability and falls
// back to a full scan when the backend does not offer one.
func (s *AccountService) findByEmail(ctx context.Context, email string) (*entities.Account, error) {
	if finder, ok := s.repo.(repositories.AccountFieldFinder); ok {
		return finder.FindByField(ctx, "email", email)
	}

	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, account := range accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return nil, nil
}
