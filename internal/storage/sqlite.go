package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"styledoc/internal/styleguide"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS guides (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			title TEXT,
			saved_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS sections (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			position TEXT NOT NULL,
			title TEXT,
			description TEXT,
			template TEXT,
			source TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS modifiers (
			section_id INTEGER NOT NULL REFERENCES sections(id) ON DELETE CASCADE,
			idx INTEGER NOT NULL,
			selector TEXT,
			description TEXT,
			template TEXT,
			PRIMARY KEY (section_id, idx)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sections_position ON sections(position);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveDocument replaces the whole snapshot in one transaction.
func (s *SQLiteStore) SaveDocument(ctx context.Context, doc *styleguide.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{"DELETE FROM modifiers", "DELETE FROM sections", "DELETE FROM guides"} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to clear snapshot: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO guides (id, title, saved_at) VALUES (1, ?, ?)`,
		doc.Title, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("failed to save guide: %w", err)
	}

	sectionStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sections (position, title, description, template, source)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer sectionStmt.Close()

	modifierStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO modifiers (section_id, idx, selector, description, template)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer modifierStmt.Close()

	for _, sec := range doc.Sections("") {
		res, err := sectionStmt.ExecContext(ctx, sec.Position, sec.Title, sec.Description, sec.Template, sec.Source)
		if err != nil {
			return fmt.Errorf("failed to save section %s: %w", sec.Position, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for i, m := range sec.Modifiers {
			if _, err := modifierStmt.ExecContext(ctx, id, i, m.Selector, m.Description, m.Template); err != nil {
				return fmt.Errorf("failed to save modifier %s of %s: %w", m.Selector, sec.Position, err)
			}
		}
	}

	return tx.Commit()
}

// LoadDocument rebuilds the stored document.
func (s *SQLiteStore) LoadDocument(ctx context.Context) (*styleguide.Document, error) {
	var title string
	err := s.db.QueryRowContext(ctx, "SELECT title FROM guides WHERE id = 1").Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query guide: %w", err)
	}

	sections, err := s.querySections(ctx, "")
	if err != nil {
		return nil, err
	}
	return styleguide.NewDocument(title, sections), nil
}

// FindSections filters by position prefix in SQL. Positions match
// case-sensitively, as Document.Sections does.
func (s *SQLiteStore) FindSections(ctx context.Context, position string) ([]styleguide.Section, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM guides WHERE id = 1").Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query guide: %w", err)
	}

	sections, err := s.querySections(ctx, styleguide.CleanPosition(position))
	if err != nil {
		return nil, err
	}
	styleguide.SortSections(sections)
	return sections, nil
}

func (s *SQLiteStore) querySections(ctx context.Context, prefix string) ([]styleguide.Section, error) {
	query := "SELECT id, position, title, description, template, source FROM sections"
	var args []any
	if prefix != "" {
		query += " WHERE position = ? OR substr(position, 1, length(?) + 1) = ? || '.'"
		args = append(args, prefix, prefix, prefix)
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sections: %w", err)
	}
	defer rows.Close()

	var (
		ids      []int64
		sections []styleguide.Section
	)
	for rows.Next() {
		var (
			id  int64
			sec styleguide.Section
		)
		if err := rows.Scan(&id, &sec.Position, &sec.Title, &sec.Description, &sec.Template, &sec.Source); err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		ids = append(ids, id)
		sections = append(sections, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		mods, err := s.modifiers(ctx, id)
		if err != nil {
			return nil, err
		}
		sections[i].Modifiers = mods
	}
	return sections, nil
}

func (s *SQLiteStore) modifiers(ctx context.Context, sectionID int64) ([]styleguide.Modifier, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT selector, description, template FROM modifiers WHERE section_id = ? ORDER BY idx", sectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query modifiers: %w", err)
	}
	defer rows.Close()

	var mods []styleguide.Modifier
	for rows.Next() {
		var m styleguide.Modifier
		if err := rows.Scan(&m.Selector, &m.Description, &m.Template); err != nil {
			return nil, fmt.Errorf("failed to scan modifier: %w", err)
		}
		mods = append(mods, m)
	}
	return mods, rows.Err()
}
