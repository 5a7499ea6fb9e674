package tafsir

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahle-app/rahle/internal/quran"
)

func TestPlaceholderFor(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "empty text",
			text: "",
			want: fallbackEmpty,
		},
		{
			name: "matches Allah",
			text: "Allah, O'ndan başka ilah yoktur.",
			want: "Bu ayette Allah'ın yüceliği ve kudreti vurgulanmaktadır.",
		},
		{
			name: "matches sabır",
			text: "Onlar sabır edenlerdir.",
			want: "Sabır ve tevekkülün önemi bu ayette işlenmektedir.",
		},
		{
			name: "first matching rule wins",
			text: "Allah sabredenlerle beraberdir, namaz kılın.",
			want: "Bu ayette Allah'ın yüceliği ve kudreti vurgulanmaktadır.",
		},
		{
			name: "no keyword",
			text: "Elif, Lâm, Mîm.",
			want: fallbackGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlaceholderFor(tt.text))
		})
	}
}

type fakeTafsirRepo struct {
	entries []Entry
}

func (f *fakeTafsirRepo) ListForVerse(_ context.Context, surah, ayah int, source string) ([]Entry, error) {
	var out []Entry
	for _, e := range f.entries {
		if e.Surah == surah && e.Ayah == ayah && (source == "" || e.Source == source) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeTafsirRepo) CountBySource(_ context.Context) ([]SourceCount, error) { return nil, nil }
func (f *fakeTafsirRepo) CountAll(_ context.Context) (int, error)                { return len(f.entries), nil }
func (f *fakeTafsirRepo) CountUniqueVerses(_ context.Context) (int, error)       { return 0, nil }

type fakeVerseRepo struct {
	verse *quran.Verse
}

func (f *fakeVerseRepo) GetVerse(_ context.Context, _, _ int) (*quran.Verse, error) {
	return f.verse, nil
}
func (f *fakeVerseRepo) ListBySurah(_ context.Context, _ int) ([]quran.Verse, error) {
	return nil, nil
}
func (f *fakeVerseRepo) Search(_ context.Context, _ string, _ int) ([]quran.Verse, error) {
	return nil, nil
}
func (f *fakeVerseRepo) CountAll(_ context.Context) (int, error)             { return 0, nil }
func (f *fakeVerseRepo) CountBySurah(_ context.Context) (map[int]int, error) { return nil, nil }
func (f *fakeVerseRepo) VerseAtOffset(_ context.Context, _ int) (*quran.Verse, error) {
	return nil, nil
}
func (f *fakeVerseRepo) Sample(_ context.Context, _, _ int) ([]quran.Verse, error) {
	return nil, nil
}

func TestCommentaryFallsBackToPlaceholder(t *testing.T) {
	svc := NewService(&fakeTafsirRepo{}, &fakeVerseRepo{verse: &quran.Verse{
		Surah: 1, Ayah: 2, SurahName: "Fatiha", TextTr: "Hamd, âlemlerin Rabbi Allah'a mahsustur.",
	}})

	c, err := svc.Commentary(context.Background(), 1, 2, "")
	require.NoError(t, err)

	assert.Equal(t, "Fatiha", c.SurahName)
	require.Len(t, c.Tafsirs, 1)
	assert.Equal(t, "Özet", c.Tafsirs[0].Source)
	assert.Contains(t, c.Tafsirs[0].Text, "Allah")
	assert.Equal(t, comingSoonNote, c.Note)
}

func TestCommentaryUsesSeededEntries(t *testing.T) {
	repo := &fakeTafsirRepo{entries: []Entry{
		{Surah: 1, Ayah: 1, Source: "Diyanet", Text: "Besmele açıklaması."},
		{Surah: 1, Ayah: 1, Source: "Elmalılı", Text: "Rahman ve Rahim üzerine."},
	}}
	svc := NewService(repo, &fakeVerseRepo{verse: &quran.Verse{Surah: 1, Ayah: 1, SurahName: "Fatiha"}})

	c, err := svc.Commentary(context.Background(), 1, 1, "")
	require.NoError(t, err)

	require.Len(t, c.Tafsirs, 2)
	assert.Equal(t, "Diyanet", c.Tafsirs[0].Source)
	assert.Empty(t, c.Note)

	filtered, err := svc.Commentary(context.Background(), 1, 1, "Elmalılı")
	require.NoError(t, err)
	require.Len(t, filtered.Tafsirs, 1)
	assert.Equal(t, "Elmalılı", filtered.Tafsirs[0].Source)
}
