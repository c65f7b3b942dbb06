package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore keeps every document as one JSONB row keyed by its parent
// collection path and id.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			data JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (collection, id)
		)`,
		"CREATE INDEX IF NOT EXISTS documents_data_idx ON documents USING GIN (data jsonb_path_ops)",
	}
	for _, stmt := range statements {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, ref Ref) (Document, error) {
	return pgOps{q: s.DB}.get(ctx, ref)
}

func (s *PostgresStore) List(ctx context.Context, collection string) ([]Document, error) {
	return pgOps{q: s.DB}.list(ctx, collection)
}

func (s *PostgresStore) Where(ctx context.Context, collection, field string, value any) ([]Document, error) {
	return pgOps{q: s.DB}.where(ctx, collection, field, value)
}

func (s *PostgresStore) Set(ctx context.Context, ref Ref, v any) error {
	return pgOps{q: s.DB}.set(ctx, ref, v)
}

func (s *PostgresStore) Create(ctx context.Context, ref Ref, v any) error {
	return pgOps{q: s.DB}.create(ctx, ref, v)
}

func (s *PostgresStore) Add(ctx context.Context, collection string, v any) (string, error) {
	return pgOps{q: s.DB}.add(ctx, collection, v)
}

func (s *PostgresStore) Update(ctx context.Context, ref Ref, fields map[string]any) error {
	return pgOps{q: s.DB}.update(ctx, ref, fields)
}

func (s *PostgresStore) Delete(ctx context.Context, ref Ref) error {
	return pgOps{q: s.DB}.delete(ctx, ref)
}

func (s *PostgresStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, pgOps{q: tx, forUpdate: true}); err != nil {
		return err
	}
	return tx.Commit()
}

type pgOps struct {
	q         querier
	forUpdate bool
}

func (o pgOps) Get(ctx context.Context, ref Ref) (Document, error) { return o.get(ctx, ref) }
func (o pgOps) List(ctx context.Context, collection string) ([]Document, error) {
	return o.list(ctx, collection)
}
func (o pgOps) Where(ctx context.Context, collection, field string, value any) ([]Document, error) {
	return o.where(ctx, collection, field, value)
}
func (o pgOps) Set(ctx context.Context, ref Ref, v any) error    { return o.set(ctx, ref, v) }
func (o pgOps) Create(ctx context.Context, ref Ref, v any) error { return o.create(ctx, ref, v) }
func (o pgOps) Add(ctx context.Context, collection string, v any) (string, error) {
	return o.add(ctx, collection, v)
}
func (o pgOps) Update(ctx context.Context, ref Ref, fields map[string]any) error {
	return o.update(ctx, ref, fields)
}
func (o pgOps) Delete(ctx context.Context, ref Ref) error { return o.delete(ctx, ref) }

func (o pgOps) get(ctx context.Context, ref Ref) (Document, error) {
	query := "SELECT data FROM documents WHERE collection = $1 AND id = $2"
	if o.forUpdate {
		query += " FOR UPDATE"
	}

	var data []byte
	err := o.q.QueryRowContext(ctx, query, ref.Collection, ref.ID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get %s: %w", ref.Path(), err)
	}
	return Document{ID: ref.ID, Data: data}, nil
}

func (o pgOps) list(ctx context.Context, collection string) ([]Document, error) {
	rows, err := o.q.QueryContext(ctx, `
		SELECT id, data FROM documents
		WHERE collection = $1
		ORDER BY created_at, id`, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return scanDocuments(rows)
}

func (o pgOps) where(ctx context.Context, collection, field string, value any) ([]Document, error) {
	filter, err := json.Marshal(map[string]any{field: value})
	if err != nil {
		return nil, err
	}
	rows, err := o.q.QueryContext(ctx, `
		SELECT id, data FROM documents
		WHERE collection = $1 AND data @> $2::jsonb
		ORDER BY created_at, id`, collection, string(filter))
	if err != nil {
		return nil, fmt.Errorf("query %s where %s: %w", collection, field, err)
	}
	return scanDocuments(rows)
}

func (o pgOps) set(ctx context.Context, ref Ref, v any) error {
	data, err := encode(v)
	if err != nil {
		return err
	}
	_, err = o.q.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		ref.Collection, ref.ID, string(data))
	if err != nil {
		return fmt.Errorf("set %s: %w", ref.Path(), err)
	}
	return nil
}

// create relies on ON CONFLICT DO NOTHING rather than a unique violation so a
// lost race does not abort the surrounding transaction.
func (o pgOps) create(ctx context.Context, ref Ref, v any) error {
	data, err := encode(v)
	if err != nil {
		return err
	}
	result, err := o.q.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO NOTHING`,
		ref.Collection, ref.ID, string(data))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("create %s: %w", ref.Path(), err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (o pgOps) add(ctx context.Context, collection string, v any) (string, error) {
	id := uuid.NewString()
	if err := o.create(ctx, Doc(collection, id), v); err != nil {
		return "", err
	}
	return id, nil
}

func (o pgOps) update(ctx context.Context, ref Ref, fields map[string]any) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	result, err := o.q.ExecContext(ctx, `
		UPDATE documents SET data = data || $3::jsonb, updated_at = now()
		WHERE collection = $1 AND id = $2`,
		ref.Collection, ref.ID, string(patch))
	if err != nil {
		return fmt.Errorf("update %s: %w", ref.Path(), err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (o pgOps) delete(ctx context.Context, ref Ref) error {
	_, err := o.q.ExecContext(ctx, "DELETE FROM documents WHERE collection = $1 AND id = $2", ref.Collection, ref.ID)
	if err != nil {
		return fmt.Errorf("delete %s: %w", ref.Path(), err)
	}
	return nil
}

func scanDocuments(rows *sql.Rows) ([]Document, error) {
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var doc Document
		var data []byte
		if err := rows.Scan(&doc.ID, &data); err != nil {
			return nil, err
		}
		doc.Data = data
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

var (
	_ Store = (*PostgresStore)(nil)
	_ Tx    = pgOps{}
)
