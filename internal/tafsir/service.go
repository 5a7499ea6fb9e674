package tafsir

import (
	"context"
	"fmt"

	"github.com/rahle-app/rahle/internal/quran"
)

const comingSoonNote = "Detaylı tefsir yakında eklenecektir."

// Service resolves per-verse commentary, generating a keyword summary
// when no scholar tafsir is seeded yet.
type Service struct {
	repo   Repository
	verses quran.Repository
}

func NewService(repo Repository, verses quran.Repository) *Service {
	return &Service{repo: repo, verses: verses}
}

// Commentary returns all tafsirs for a verse, optionally filtered to a
// single source. Verses without seeded tafsir get a generated summary
// entry instead of an empty list.
func (s *Service) Commentary(ctx context.Context, surah, ayah int, source string) (*Commentary, error) {
	entries, err := s.repo.ListForVerse(ctx, surah, ayah, source)
	if err != nil {
		return nil, err
	}

	verse, err := s.verses.GetVerse(ctx, surah, ayah)
	if err != nil {
		return nil, err
	}

	c := &Commentary{
		Surah:     surah,
		Ayah:      ayah,
		SurahName: quran.SurahName(surah),
	}
	if verse != nil {
		c.SurahName = verse.SurahName
		c.Verse = &VerseText{Arabic: verse.TextAr, Turkish: verse.TextTr}
	}

	if len(entries) == 0 {
		verseText := ""
		if verse != nil {
			verseText = verse.TextTr
		}
		c.Tafsirs = []SourcedText{{Source: "Özet", Text: PlaceholderFor(verseText)}}
		c.Note = comingSoonNote
		return c, nil
	}

	c.Tafsirs = make([]SourcedText, 0, len(entries))
	for _, e := range entries {
		c.Tafsirs = append(c.Tafsirs, SourcedText{Source: e.Source, Text: e.Text})
	}
	return c, nil
}

func (s *Service) Sources(ctx context.Context) ([]SourceCount, error) {
	return s.repo.CountBySource(ctx)
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	unique, err := s.repo.CountUniqueVerses(ctx)
	if err != nil {
		return nil, err
	}
	bySource, err := s.repo.CountBySource(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalTafsirs:           total,
		UniqueVersesWithTafsir: unique,
		TotalVersesInQuran:     quran.TotalVersesInQuran,
		Coverage:               fmt.Sprintf("%.1f%%", float64(unique)/float64(quran.TotalVersesInQuran)*100),
		BySource:               bySource,
	}, nil
}
