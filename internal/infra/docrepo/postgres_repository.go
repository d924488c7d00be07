package docrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nduongg04/live-docs/internal/domain/document"
)

// PostgresRepository persists document metadata in Postgres. The access
// list is stored as jsonb keyed by collaborator email.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new document row.
func (r *PostgresRepository) Create(ctx context.Context, doc document.Document) (document.Document, error) {
	accesses, err := json.Marshal(doc.Accesses)
	if err != nil {
		return document.Document{}, err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO documents (id, title, creator_id, creator_email, accesses, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, title, creator_id, creator_email, accesses, created_at, updated_at
	`, doc.ID, doc.Title, doc.CreatorID, doc.CreatorEmail, accesses, doc.CreatedAt, doc.UpdatedAt)
	return scanDocument(row)
}

// Get fetches a document by id.
func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (document.Document, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, creator_id, creator_email, accesses, created_at, updated_at
		FROM documents
		WHERE id = $1
		LIMIT 1
	`, id)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.Document{}, false, nil
		}
		return document.Document{}, false, err
	}
	return doc, true, nil
}

// ListByEmail lists documents whose access list contains the email, newest
// first.
func (r *PostgresRepository) ListByEmail(ctx context.Context, email string) ([]document.Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, creator_id, creator_email, accesses, created_at, updated_at
		FROM documents
		WHERE accesses ? $1
		ORDER BY updated_at DESC
	`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []document.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// Update rewrites title and access list.
func (r *PostgresRepository) Update(ctx context.Context, doc document.Document) (document.Document, error) {
	accesses, err := json.Marshal(doc.Accesses)
	if err != nil {
		return document.Document{}, err
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE documents
		SET title = $2, accesses = $3, updated_at = $4
		WHERE id = $1
		RETURNING id, title, creator_id, creator_email, accesses, created_at, updated_at
	`, doc.ID, doc.Title, accesses, doc.UpdatedAt)
	return scanDocument(row)
}

// Delete removes a document row.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (document.Document, error) {
	var (
		doc      document.Document
		accesses []byte
		created  time.Time
		updated  time.Time
	)
	if err := row.Scan(&doc.ID, &doc.Title, &doc.CreatorID, &doc.CreatorEmail, &accesses, &created, &updated); err != nil {
		return document.Document{}, err
	}
	if err := json.Unmarshal(accesses, &doc.Accesses); err != nil {
		return document.Document{}, err
	}
	doc.CreatedAt = created.UTC()
	doc.UpdatedAt = updated.UTC()
	return doc, nil
}

var _ document.Repository = (*PostgresRepository)(nil)
