package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"mooagg/codec"
	"mooagg/engine"
)

// DefaultCollection is the table used when none is named
const DefaultCollection = "documents"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLite is a collection persisted in one SQLite table. The data column
// holds canonical CBOR; body holds the same document as JSON.
type SQLite struct {
	db     *sql.DB
	table  string
	engine *engine.Engine
}

// OpenSQLite opens (creating if needed) the database at path
func OpenSQLite(ctx context.Context, path, collection string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("sqlite store needs a path")
	}
	if collection == "" {
		collection = DefaultCollection
	}
	if !tableName.MatchString(collection) {
		return nil, fmt.Errorf("invalid collection name %q", collection)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer keeps the read-apply-write transaction serialized
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	create := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		body TEXT NOT NULL
	)`, collection)
	if _, err := db.ExecContext(ctx, create); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", collection, err)
	}

	return &SQLite{db: db, table: collection, engine: engine.New()}, nil
}

func encodeRow(doc map[string]any) ([]byte, string, error) {
	data, err := codec.Marshal(codec.CBOR, doc, "")
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode document: %w", err)
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render document: %w", err)
	}
	return data, string(body), nil
}

func (s *SQLite) InsertOne(ctx context.Context, doc map[string]any) (string, error) {
	id, stored, err := documentID(doc)
	if err != nil {
		return "", err
	}
	data, body, err := encodeRow(stored)
	if err != nil {
		return "", err
	}

	q := fmt.Sprintf("INSERT INTO %s (id, data, body) VALUES (?, ?, ?)", s.table)
	if _, err := s.db.ExecContext(ctx, q, id, data, body); err != nil {
		return "", fmt.Errorf("failed to insert %s: %w", id, err)
	}
	return id, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLite) load(ctx context.Context, q queryer, id string) (map[string]any, error) {
	var data []byte
	query := fmt.Sprintf("SELECT data FROM %s WHERE id = ?", s.table)
	if err := q.QueryRowContext(ctx, query, id).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load %s: %w", id, err)
	}
	doc, err := codec.DecodeDocument(codec.CBOR, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", id, err)
	}
	return doc, nil
}

func (s *SQLite) FindOne(ctx context.Context, id string) (map[string]any, error) {
	return s.load(ctx, s.db, id)
}

func (s *SQLite) UpdateOne(ctx context.Context, id string, pipeline []map[string]any) (map[string]any, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	doc, err := s.load(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	out, err := applyUpdate(s.engine, doc, pipeline)
	if err != nil {
		return nil, err
	}
	data, body, err := encodeRow(out)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf("UPDATE %s SET data = ?, body = ? WHERE id = ?", s.table)
	if _, err := tx.ExecContext(ctx, q, data, body, id); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit %s: %w", id, err)
	}
	log.Debugf("updated %s in %s with %d stages", id, s.table, len(pipeline))
	return out, nil
}

// Field reads one top-level field through SQLite's JSON functions,
// rendered as text. A missing field reads as nil.
func (s *SQLite) Field(ctx context.Context, id, field string) (any, error) {
	var raw sql.NullString
	q := fmt.Sprintf("SELECT json_extract(body, ?) FROM %s WHERE id = ?", s.table)
	if err := s.db.QueryRowContext(ctx, q, "$."+field, id).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s.%s: %w", id, field, err)
	}
	if !raw.Valid {
		return nil, nil
	}
	return raw.String, nil
}

func (s *SQLite) Drop(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", s.table)); err != nil {
		return fmt.Errorf("failed to drop %s: %w", s.table, err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
