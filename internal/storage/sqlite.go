package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hyperjump/kondate/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open(driverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS foods (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		serving_size TEXT,
		calories INTEGER NOT NULL DEFAULT 0,
		content TEXT NOT NULL,
		source TEXT,
		metadata TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_foods_category ON foods(category);
	CREATE INDEX IF NOT EXISTS idx_foods_source ON foods(source);
	`
	_, err := db.Exec(schema)
	return err
}

const foodColumns = `id, name, category, serving_size, calories, content, source, metadata, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFood(row rowScanner) (*models.FoodDocument, error) {
	var (
		doc          models.FoodDocument
		serving      sql.NullString
		source       sql.NullString
		metadataJSON sql.NullString
	)
	if err := row.Scan(&doc.ID, &doc.Name, &doc.Category, &serving, &doc.Calories,
		&doc.Content, &source, &metadataJSON, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, err
	}
	doc.ServingSize = serving.String
	doc.Source = source.String
	if metadataJSON.String != "" && metadataJSON.String != "null" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}
	return &doc, nil
}

// CreateFood inserts a food document.
func (s *SQLiteStorage) CreateFood(ctx context.Context, doc *models.FoodDocument) error {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO foods (`+foodColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Name, doc.Category, doc.ServingSize, doc.Calories, doc.Content,
		doc.Source, string(metadataJSON), doc.CreatedAt, doc.UpdatedAt,
	)
	return err
}

// GetFood returns a food document by ID.
func (s *SQLiteStorage) GetFood(ctx context.Context, id string) (*models.FoodDocument, error) {
	doc, err := scanFood(s.db.QueryRowContext(ctx,
		`SELECT `+foodColumns+` FROM foods WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("food %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// UpdateFood updates an existing food document.
func (s *SQLiteStorage) UpdateFood(ctx context.Context, doc *models.FoodDocument) error {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	doc.UpdatedAt = time.Now()

	result, err := s.db.ExecContext(ctx,
		`UPDATE foods SET name = ?, category = ?, serving_size = ?, calories = ?,
		 content = ?, source = ?, metadata = ?, updated_at = ?
		 WHERE id = ?`,
		doc.Name, doc.Category, doc.ServingSize, doc.Calories, doc.Content,
		doc.Source, string(metadataJSON), doc.UpdatedAt, doc.ID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("food %s: %w", doc.ID, models.ErrNotFound)
	}
	return nil
}

// DeleteFood removes a food document by ID.
func (s *SQLiteStorage) DeleteFood(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM foods WHERE id = ?`, id)
	return err
}

// ListFoods returns food documents by name with offset and limit.
func (s *SQLiteStorage) ListFoods(ctx context.Context, offset, limit int) ([]*models.FoodDocument, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+foodColumns+` FROM foods ORDER BY category, name LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.FoodDocument
	for rows.Next() {
		doc, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// ListFoodIDsBySource returns the IDs of foods ingested from source.
func (s *SQLiteStorage) ListFoodIDsBySource(ctx context.Context, source string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM foods WHERE source = ? ORDER BY id`, source)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountFoods returns the total number of food documents.
func (s *SQLiteStorage) CountFoods(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM foods`).Scan(&count)
	return count, err
}

// CountFoodsByCategory returns the number of food documents per category.
func (s *SQLiteStorage) CountFoodsByCategory(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM foods GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			category string
			n        int64
		)
		if err := rows.Scan(&category, &n); err != nil {
			return nil, err
		}
		counts[category] = n
	}
	return counts, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
