// Package store implements the uniform CRUD contract for users and tokens on
// top of the dynamic query engine in pkg/query.
//
// Stores hold only immutable configuration and are safe for concurrent use.
// Every operation takes the connection handle to run on and issues exactly
// one statement.
package store

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/Rsaliu/store-lib/pkg/core"
	"github.com/Rsaliu/store-lib/pkg/query"
	"github.com/Rsaliu/store-lib/pkg/schema"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// refreshUpdatedAt is appended to every patch and update.
const refreshUpdatedAt = "updated_at = (now() at time zone 'utc')"

// Querier is the connection handle an operation runs on. *sql.DB, *sql.Conn
// and *sql.Tx all satisfy it.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Conn)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// Store is the CRUD contract shared by every entity.
type Store interface {
	Insert(ctx context.Context, q Querier, doc *core.Document) (uuid.UUID, error)
	Get(ctx context.Context, q Querier, id uuid.UUID) ([]*core.Document, error)
	GetAllPaginate(ctx context.Context, q Querier, limit, offset int64) ([]*core.Document, error)
	GetBySlug(ctx context.Context, q Querier, filter *core.Document) ([]*core.Document, error)
	Patch(ctx context.Context, q Querier, id uuid.UUID, changes *core.Document) error
	Update(ctx context.Context, q Querier, id uuid.UUID, doc *core.Document) error
	Delete(ctx context.Context, q Querier, id uuid.UUID) error
	Count(ctx context.Context, q Querier) (int64, error)
}

// Codec converts a caller's write document into the values of an entity's
// mutable columns.
type Codec interface {
	// Entity names the entity in errors and logs.
	Entity() string
	// Columns validates doc and returns one field per mutable column. insert
	// is false for full updates.
	Columns(doc *core.Document, insert bool) (*core.Document, error)
}

// EntityStore implements Store for one table.
type EntityStore struct {
	reg    *schema.Registry
	codec  Codec
	logger *slog.Logger
}

var _ Store = (*EntityStore)(nil)

// NewEntityStore creates a store for the table described by reg.
// If logger is nil, a discard logger is used.
func NewEntityStore(reg *schema.Registry, codec Codec, logger *slog.Logger) *EntityStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &EntityStore{
		reg:    reg,
		codec:  codec,
		logger: logger.With(slog.String("table", reg.Table())),
	}
}

// Registry returns the column registry of the store's table.
func (s *EntityStore) Registry() *schema.Registry {
	return s.reg
}

// Insert validates doc, writes a new row and returns its generated id.
func (s *EntityStore) Insert(ctx context.Context, q Querier, doc *core.Document) (uuid.UUID, error) {
	values, err := s.codec.Columns(doc, true)
	if err != nil {
		return uuid.Nil, err
	}
	b, err := query.Insert(s.reg, values)
	if err != nil {
		return uuid.Nil, err
	}

	op := "insert " + s.codec.Entity()
	if err := s.trace(op, b); err != nil {
		return uuid.Nil, err
	}
	var id uuid.UUID
	if err := q.QueryRowContext(ctx, b.SQL, b.Args...).Scan(&id); err != nil {
		return uuid.Nil, s.classify(op, err)
	}
	return id, nil
}

// Get returns the row with the given id as a one-element slice, or an empty
// slice when there is none.
func (s *EntityStore) Get(ctx context.Context, q Querier, id uuid.UUID) ([]*core.Document, error) {
	return s.GetBySlug(ctx, q, core.NewDocument(core.F("id", id)))
}

// GetAllPaginate returns at most limit rows ordered by id, skipping offset.
func (s *EntityStore) GetAllPaginate(ctx context.Context, q Querier, limit, offset int64) ([]*core.Document, error) {
	b, err := query.Page(s.reg, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.selectRows(ctx, q, "list "+s.reg.Table(), b)
}

// GetBySlug returns every row whose columns equal the fields of filter.
func (s *EntityStore) GetBySlug(ctx context.Context, q Querier, filter *core.Document) ([]*core.Document, error) {
	b, err := query.Select(s.reg, filter)
	if err != nil {
		return nil, err
	}
	return s.selectRows(ctx, q, "get "+s.codec.Entity(), b)
}

// Patch updates only the columns named in changes and refreshes updated_at.
func (s *EntityStore) Patch(ctx context.Context, q Querier, id uuid.UUID, changes *core.Document) error {
	b, err := query.Patch(s.reg, id, changes, refreshUpdatedAt)
	if err != nil {
		return err
	}
	return s.exec(ctx, q, "patch "+s.codec.Entity(), b)
}

// Update replaces every mutable column with the values from doc and
// refreshes updated_at.
func (s *EntityStore) Update(ctx context.Context, q Querier, id uuid.UUID, doc *core.Document) error {
	values, err := s.codec.Columns(doc, false)
	if err != nil {
		return err
	}
	b, err := query.Patch(s.reg, id, values, refreshUpdatedAt)
	if err != nil {
		return err
	}
	return s.exec(ctx, q, "update "+s.codec.Entity(), b)
}

// Delete removes the row with the given id. Deleting a missing row is not
// an error.
func (s *EntityStore) Delete(ctx context.Context, q Querier, id uuid.UUID) error {
	return s.DeleteWhere(ctx, q, core.NewDocument(core.F("id", id)))
}

// DeleteWhere removes every row whose columns equal the fields of filter.
func (s *EntityStore) DeleteWhere(ctx context.Context, q Querier, filter *core.Document) error {
	b, err := query.Delete(s.reg, filter)
	if err != nil {
		return err
	}
	return s.exec(ctx, q, "delete "+s.codec.Entity(), b)
}

// Count returns the number of rows in the table.
func (s *EntityStore) Count(ctx context.Context, q Querier) (int64, error) {
	b := query.Count(s.reg)
	op := "count " + s.reg.Table()
	if err := s.trace(op, b); err != nil {
		return 0, err
	}

	var n int64
	if err := q.QueryRowContext(ctx, b.SQL).Scan(&n); err != nil {
		return 0, s.classify(op, err)
	}
	return n, nil
}

func (s *EntityStore) selectRows(ctx context.Context, q Querier, op string, b query.Bound) ([]*core.Document, error) {
	if err := s.trace(op, b); err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx, b.SQL, b.Args...)
	if err != nil {
		return nil, s.classify(op, err)
	}
	defer func() { _ = rows.Close() }()

	docs, err := query.Materialize(s.reg, rows)
	if err != nil {
		var de *core.DecodeError
		if errors.As(err, &de) && de.Column == "" {
			// row iteration failed in the driver
			return nil, s.classify(op, de.Err)
		}
		return nil, err
	}
	return docs, nil
}

func (s *EntityStore) exec(ctx context.Context, q Querier, op string, b query.Bound) error {
	if err := s.trace(op, b); err != nil {
		return err
	}
	res, err := q.ExecContext(ctx, b.SQL, b.Args...)
	if err != nil {
		return s.classify(op, err)
	}
	if n, err := res.RowsAffected(); err == nil {
		s.logger.Debug("statement done", slog.String("op", op), slog.Int64("rows", n))
	}
	return nil
}

// trace logs the statement text and argument count and refuses statements
// whose placeholders do not line up with their arguments. Argument values
// are never logged.
func (s *EntityStore) trace(op string, b query.Bound) error {
	s.logger.Debug("executing", slog.String("op", op), slog.String("sql", b.SQL), slog.Int("args", len(b.Args)))
	if err := b.Check(); err != nil {
		return &core.StoreError{Op: op, Err: err}
	}
	return nil
}

// classify maps a driver error to UniqueConstraintError or StoreError.
func (s *EntityStore) classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		field, _ := s.reg.UniqueField(pgErr.ConstraintName)
		return &core.UniqueConstraintError{
			Table:      s.codec.Entity(),
			Constraint: pgErr.ConstraintName,
			Field:      field,
			Err:        err,
		}
	}
	return &core.StoreError{Op: op, Err: err}
}
