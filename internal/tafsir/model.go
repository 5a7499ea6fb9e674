package tafsir

import "time"

// Entry is one scholar's commentary on a single verse.
type Entry struct {
	ID        string    `json:"id"`
	Surah     int       `json:"surah"`
	Ayah      int       `json:"ayah"`
	Source    string    `json:"source"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"-"`
}

// Commentary is the per-verse tafsir response: the verse text plus all
// commentaries on it, or a generated summary when none are seeded.
type Commentary struct {
	Surah     int           `json:"surah"`
	Ayah      int           `json:"ayah"`
	SurahName string        `json:"surah_name"`
	Verse     *VerseText    `json:"verse"`
	Tafsirs   []SourcedText `json:"tafsirs"`
	Note      string        `json:"note,omitempty"`
}

type VerseText struct {
	Arabic  string `json:"arabic"`
	Turkish string `json:"turkish"`
}

type SourcedText struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}

// SourceCount reports how many entries a tafsir source contributes.
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// Stats summarizes tafsir coverage over the whole text.
type Stats struct {
	TotalTafsirs           int           `json:"total_tafsirs"`
	UniqueVersesWithTafsir int           `json:"unique_verses_with_tafsir"`
	TotalVersesInQuran     int           `json:"total_verses_in_quran"`
	Coverage               string        `json:"coverage"`
	BySource               []SourceCount `json:"by_source"`
}
