package quran

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides read access to the seeded verse corpus.
type Repository interface {
	GetVerse(ctx context.Context, surah, ayah int) (*Verse, error)
	ListBySurah(ctx context.Context, surah int) ([]Verse, error)
	Search(ctx context.Context, query string, limit int) ([]Verse, error)
	CountAll(ctx context.Context) (int, error)
	CountBySurah(ctx context.Context) (map[int]int, error)
	VerseAtOffset(ctx context.Context, offset int) (*Verse, error)
	Sample(ctx context.Context, limit, offset int) ([]Verse, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a verse repository backed by PostgreSQL.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const verseColumns = `id, surah, ayah, surah_name, text_ar, text_tr, created_at`

func scanVerse(row pgx.Row) (*Verse, error) {
	var v Verse
	err := row.Scan(&v.ID, &v.Surah, &v.Ayah, &v.SurahName, &v.TextAr, &v.TextTr, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	if v.SurahName == "" {
		v.SurahName = SurahName(v.Surah)
	}
	return &v, nil
}

func (r *postgresRepository) GetVerse(ctx context.Context, surah, ayah int) (*Verse, error) {
	query := `SELECT ` + verseColumns + ` FROM quran_verses WHERE surah = $1 AND ayah = $2`

	v, err := scanVerse(r.pool.QueryRow(ctx, query, surah, ayah))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get verse %d:%d: %w", surah, ayah, err)
	}
	return v, nil
}

func (r *postgresRepository) ListBySurah(ctx context.Context, surah int) ([]Verse, error) {
	query := `SELECT ` + verseColumns + ` FROM quran_verses WHERE surah = $1 ORDER BY ayah ASC`

	rows, err := r.pool.Query(ctx, query, surah)
	if err != nil {
		return nil, fmt.Errorf("failed to list verses for surah %d: %w", surah, err)
	}
	defer rows.Close()

	return collectVerses(rows)
}

func (r *postgresRepository) Search(ctx context.Context, query string, limit int) ([]Verse, error) {
	sql := `SELECT ` + verseColumns + ` FROM quran_verses
		WHERE text_tr ILIKE '%' || $1 || '%' OR surah_name ILIKE '%' || $1 || '%'
		ORDER BY surah ASC, ayah ASC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, sql, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search verses: %w", err)
	}
	defer rows.Close()

	return collectVerses(rows)
}

func (r *postgresRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM quran_verses`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count verses: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) CountBySurah(ctx context.Context) (map[int]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT surah, COUNT(*) FROM quran_verses GROUP BY surah`)
	if err != nil {
		return nil, fmt.Errorf("failed to count verses by surah: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var surah, count int
		if err := rows.Scan(&surah, &count); err != nil {
			return nil, fmt.Errorf("failed to scan surah count: %w", err)
		}
		counts[surah] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read surah counts: %w", err)
	}
	return counts, nil
}

// VerseAtOffset returns the verse at a stable position in canonical
// order. The daily rotation uses it to pick a deterministic verse.
func (r *postgresRepository) VerseAtOffset(ctx context.Context, offset int) (*Verse, error) {
	query := `SELECT ` + verseColumns + ` FROM quran_verses ORDER BY surah ASC, ayah ASC OFFSET $1 LIMIT 1`

	v, err := scanVerse(r.pool.QueryRow(ctx, query, offset))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get verse at offset %d: %w", offset, err)
	}
	return v, nil
}

// Sample returns a small run of verses starting at an offset, used to
// show example verses when a cited reference is not seeded yet.
func (r *postgresRepository) Sample(ctx context.Context, limit, offset int) ([]Verse, error) {
	query := `SELECT ` + verseColumns + ` FROM quran_verses ORDER BY surah ASC, ayah ASC OFFSET $1 LIMIT $2`

	rows, err := r.pool.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to sample verses: %w", err)
	}
	defer rows.Close()

	return collectVerses(rows)
}

func collectVerses(rows pgx.Rows) ([]Verse, error) {
	var verses []Verse
	for rows.Next() {
		v, err := scanVerse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan verse: %w", err)
		}
		verses = append(verses, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read verses: %w", err)
	}
	return verses, nil
}
