package quran

import (
	"context"
	"fmt"
)

// Service assembles the surah index, stats, and featured selections on
// top of the verse repository.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListSurahs returns the full 114-surah index with per-surah seeding
// counts taken from the database.
func (s *Service) ListSurahs(ctx context.Context) ([]SurahSummary, error) {
	counts, err := s.repo.CountBySurah(ctx)
	if err != nil {
		return nil, err
	}

	surahs := make([]SurahSummary, 0, 114)
	for i := 1; i <= 114; i++ {
		meta := MetaFor(i)
		surahs = append(surahs, SurahSummary{
			Number:          i,
			Name:            SurahName(i),
			TotalVerses:     meta.Verses,
			AvailableVerses: counts[i],
			RevelationType:  meta.Revelation,
		})
	}
	return surahs, nil
}

func (s *Service) GetSurah(ctx context.Context, number int) (*SurahDetail, error) {
	verses, err := s.repo.ListBySurah(ctx, number)
	if err != nil {
		return nil, err
	}

	meta := MetaFor(number)
	return &SurahDetail{
		Surah:           number,
		Name:            SurahName(number),
		TotalVerses:     meta.Verses,
		AvailableVerses: len(verses),
		RevelationType:  meta.Revelation,
		Verses:          verses,
	}, nil
}

func (s *Service) GetVerse(ctx context.Context, surah, ayah int) (*Verse, error) {
	return s.repo.GetVerse(ctx, surah, ayah)
}

func (s *Service) Search(ctx context.Context, query string, limit int) ([]Verse, error) {
	return s.repo.Search(ctx, query, limit)
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CountBySurah(ctx)
	if err != nil {
		return nil, err
	}

	complete := 0
	for surah, count := range counts {
		if meta, ok := surahInfo[surah]; ok && count >= meta.Verses {
			complete++
		}
	}

	return &Stats{
		TotalVersesInDB:    total,
		TotalVersesInQuran: TotalVersesInQuran,
		Coverage:           fmt.Sprintf("%.1f%%", float64(total)/float64(TotalVersesInQuran)*100),
		SurahsWithVerses:   len(counts),
		CompleteSurahs:     complete,
		TotalSurahs:        114,
	}, nil
}

// featuredRefs are well-known verses surfaced on the home screen.
var featuredRefs = []struct{ Surah, Ayah int }{
	{2, 255}, // Ayetel Kürsi
	{2, 286}, // Bakara'nın son ayeti
	{94, 5},  // Zorlukla beraber kolaylık
	{94, 6},
	{13, 28}, // Kalpler Allah'ı anmakla huzur bulur
	{3, 173}, // Hasbunallah
	{21, 87}, // Yunus duası
	{112, 1},
	{112, 2},
	{112, 3},
	{112, 4},
}

// Featured returns the seeded subset of the featured verse references.
func (s *Service) Featured(ctx context.Context) ([]Verse, error) {
	verses := make([]Verse, 0, len(featuredRefs))
	for _, ref := range featuredRefs {
		v, err := s.repo.GetVerse(ctx, ref.Surah, ref.Ayah)
		if err != nil {
			return nil, err
		}
		if v != nil {
			verses = append(verses, *v)
		}
	}
	return verses, nil
}
