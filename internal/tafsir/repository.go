package tafsir

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides read access to seeded tafsir entries.
type Repository interface {
	ListForVerse(ctx context.Context, surah, ayah int, source string) ([]Entry, error)
	CountBySource(ctx context.Context) ([]SourceCount, error)
	CountAll(ctx context.Context) (int, error)
	CountUniqueVerses(ctx context.Context) (int, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a tafsir repository backed by PostgreSQL.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) ListForVerse(ctx context.Context, surah, ayah int, source string) ([]Entry, error) {
	query := `SELECT id, surah, ayah, source, text, created_at FROM tafsirs
		WHERE surah = $1 AND ayah = $2 AND ($3 = '' OR source = $3)
		ORDER BY source ASC`

	rows, err := r.pool.Query(ctx, query, surah, ayah, source)
	if err != nil {
		return nil, fmt.Errorf("failed to list tafsirs for %d:%d: %w", surah, ayah, err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

func (r *postgresRepository) CountBySource(ctx context.Context) ([]SourceCount, error) {
	rows, err := r.pool.Query(ctx, `SELECT source, COUNT(*) FROM tafsirs GROUP BY source ORDER BY source ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to count tafsirs by source: %w", err)
	}
	defer rows.Close()

	var counts []SourceCount
	for rows.Next() {
		var c SourceCount
		if err := rows.Scan(&c.Source, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan source count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read source counts: %w", err)
	}
	return counts, nil
}

func (r *postgresRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tafsirs`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tafsirs: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) CountUniqueVerses(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(DISTINCT (surah, ayah)) FROM tafsirs`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tafsir verses: %w", err)
	}
	return count, nil
}

func collectEntries(rows pgx.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Surah, &e.Ayah, &e.Source, &e.Text, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tafsir: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tafsirs: %w", err)
	}
	return entries, nil
}
