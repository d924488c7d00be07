package userrepo

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nduongg04/live-docs/internal/domain/auth"
	"github.com/nduongg04/live-docs/internal/domain/user"
)

const uniqueViolation = "23505"

// PostgresRepository persists users and external accounts in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new user row.
func (r *PostgresRepository) Create(ctx context.Context, email, displayName, passwordHash, avatarURL string) (auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, display_name, password_hash, avatar)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, display_name, password_hash, avatar, created_at
	`, email, displayName, passwordHash, avatarURL)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return auth.User{}, auth.ErrEmailExists
		}
		return auth.User{}, err
	}
	return created, nil
}

// GetByEmail fetches a user by email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (auth.User, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, display_name, password_hash, avatar, created_at
		FROM users
		WHERE email = $1
		LIMIT 1
	`, email)
	return scanOptionalUser(row)
}

// GetByID fetches by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (auth.User, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, display_name, password_hash, avatar, created_at
		FROM users
		WHERE id = $1
		LIMIT 1
	`, id)
	return scanOptionalUser(row)
}

// GetAccount fetches an external account by its provider pair.
func (r *PostgresRepository) GetAccount(ctx context.Context, provider, providerAccountID string) (auth.ExternalAccount, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, provider, provider_account_id, type, created_at
		FROM accounts
		WHERE provider = $1 AND provider_account_id = $2
		LIMIT 1
	`, provider, providerAccountID)
	var account auth.ExternalAccount
	err := row.Scan(&account.ID, &account.UserID, &account.Provider, &account.ProviderAccountID, &account.Type, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.ExternalAccount{}, false, nil
		}
		return auth.ExternalAccount{}, false, err
	}
	return account, true, nil
}

// LinkAccount inserts a new external account. The (provider,
// provider_account_id) pair is unique; a duplicate maps to ErrAccountExists.
func (r *PostgresRepository) LinkAccount(ctx context.Context, account auth.ExternalAccount) (auth.ExternalAccount, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (user_id, provider, provider_account_id, type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, provider, provider_account_id, type, created_at
	`, account.UserID, account.Provider, account.ProviderAccountID, account.Type)
	var created auth.ExternalAccount
	err := row.Scan(&created.ID, &created.UserID, &created.Provider, &created.ProviderAccountID, &created.Type, &created.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return auth.ExternalAccount{}, auth.ErrAccountExists
		}
		return auth.ExternalAccount{}, err
	}
	return created, nil
}

// Update applies the non-nil profile fields and returns the updated row.
func (r *PostgresRepository) Update(ctx context.Context, id int64, fields user.UpdateFields) (auth.User, error) {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	args = append(args, id)
	if fields.DisplayName != nil {
		args = append(args, *fields.DisplayName)
		sets = append(sets, "display_name = $"+strconv.Itoa(len(args)))
	}
	if fields.PasswordHash != nil {
		args = append(args, *fields.PasswordHash)
		sets = append(sets, "password_hash = $"+strconv.Itoa(len(args)))
	}
	if fields.AvatarURL != nil {
		args = append(args, *fields.AvatarURL)
		sets = append(sets, "avatar = $"+strconv.Itoa(len(args)))
	}
	if len(sets) == 0 {
		u, _, err := r.GetByID(ctx, id)
		return u, err
	}
	query := `
		UPDATE users SET ` + strings.Join(sets, ", ") + `
		WHERE id = $1
		RETURNING id, email, display_name, password_hash, avatar, created_at
	`
	return scanUser(r.pool.QueryRow(ctx, query, args...))
}

// FindByEmails fetches users matching any of the given emails.
func (r *PostgresRepository) FindByEmails(ctx context.Context, emails []string) ([]auth.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, display_name, password_hash, avatar, created_at
		FROM users
		WHERE email = ANY($1)
	`, emails)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

// FindByIDs fetches users matching any of the given ids.
func (r *PostgresRepository) FindByIDs(ctx context.Context, ids []int64) ([]auth.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, display_name, password_hash, avatar, created_at
		FROM users
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

// List returns all users.
func (r *PostgresRepository) List(ctx context.Context) ([]auth.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, display_name, password_hash, avatar, created_at
		FROM users
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

// DeleteAll removes every user row. Administrative use only.
func (r *PostgresRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (auth.User, error) {
	var u auth.User
	var created time.Time
	if err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.Avatar, &created); err != nil {
		return auth.User{}, err
	}
	u.CreatedAt = created.UTC()
	return u, nil
}

func scanOptionalUser(row rowScanner) (auth.User, bool, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.User{}, false, nil
		}
		return auth.User{}, false, err
	}
	return u, true, nil
}

func collectUsers(rows pgx.Rows) ([]auth.User, error) {
	var out []auth.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var (
	_ auth.Repository = (*PostgresRepository)(nil)
	_ user.Repository = (*PostgresRepository)(nil)
)
