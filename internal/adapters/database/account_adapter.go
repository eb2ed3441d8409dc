package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/casalist/backend/internal/domain/entities"
	"github.com/casalist/backend/internal/domain/repositories"
	"github.com/casalist/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/casalist/backend/pkg/errors"
)

// AccountAdapter implements account persistence in Postgres.
type AccountAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAccountAdapter creates a new account adapter.
func NewAccountAdapter(client *postgres.Client) repositories.AccountRepository {
	return &AccountAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

const accountColumns = `id, first_name, last_name, email, password_hash, is_admin, created_at, updated_at`

// Save upserts an account keyed by id. The whole record is replaced.
func (a *AccountAdapter) Save(ctx context.Context, account *entities.Account) (*entities.Account, error) {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	record := goqu.Record{
		"id":            account.ID,
		"first_name":    account.FirstName,
		"last_name":     account.LastName,
		"email":         account.Email,
		"password_hash": account.PasswordHash,
		"is_admin":      account.IsAdmin,
		"created_at":    account.CreatedAt,
		"updated_at":    account.UpdatedAt,
	}

	query, args, err := a.db.Insert("accounts").
		Rows(record).
		OnConflict(goqu.DoUpdate("id", record)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build account upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to save account", err)
	}

	return account, nil
}

// GetByID retrieves an account by id, returning (nil, nil) when absent.
func (a *AccountAdapter) GetByID(ctx context.Context, id string) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(a.client.DB().QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get account", err)
	}
	return account, nil
}

// List returns all accounts.
func (a *AccountAdapter) List(ctx context.Context) ([]*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts`

	rows, err := a.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list accounts", err)
	}
	defer rows.Close()

	var accounts []*entities.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan account", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate accounts", err)
	}
	return accounts, nil
}

// Delete removes an account, reporting whether a row was deleted.
func (a *AccountAdapter) Delete(ctx context.Context, id string) (bool, error) {
	result, err := a.client.DB().ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return false, apperrors.NewInternalError("failed to delete account", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewInternalError("failed to read delete result", err)
	}
	return affected > 0, nil
}

// accountLookupColumns are the columns FindByField may query; anything else
// is rejected before it reaches the SQL layer.
var accountLookupColumns = map[string]struct{}{
	"email":      {},
	"first_name": {},
	"last_name":  {},
}

// FindByField implements the indexed unique-field lookup capability.
func (a *AccountAdapter) FindByField(ctx context.Context, field, value string) (*entities.Account, error) {
	if _, ok := accountLookupColumns[field]; !ok {
		return nil, apperrors.NewInternalError(fmt.Sprintf("account lookup by %q is not supported", field), nil)
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + field + ` = $1 LIMIT 1`

	account, err := scanAccount(a.client.DB().QueryRowContext(ctx, query, value))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to find account", err)
	}
	return account, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*entities.Account, error) {
	account := &entities.Account{}
	err := row.Scan(
		&account.ID,
		&account.FirstName,
		&account.LastName,
		&account.Email,
		&account.PasswordHash,
		&account.IsAdmin,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}
