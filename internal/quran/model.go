package quran

import "time"

// Verse is a single ayah with its Arabic text and Turkish translation.
type Verse struct {
	ID        string    `json:"id"`
	Surah     int       `json:"surah"`
	Ayah      int       `json:"ayah"`
	SurahName string    `json:"surah_name"`
	TextAr    string    `json:"arabic"`
	TextTr    string    `json:"turkish"`
	CreatedAt time.Time `json:"-"`
}

// SurahSummary is one row of the surah index.
type SurahSummary struct {
	Number          int    `json:"number"`
	Name            string `json:"name"`
	TotalVerses     int    `json:"total_verses"`
	AvailableVerses int    `json:"available_verses"`
	RevelationType  string `json:"revelation_type"`
}

// SurahDetail is a surah together with its seeded verses.
type SurahDetail struct {
	Surah           int     `json:"surah"`
	Name            string  `json:"name"`
	TotalVerses     int     `json:"total_verses"`
	AvailableVerses int     `json:"available_verses"`
	RevelationType  string  `json:"revelation_type"`
	Verses          []Verse `json:"verses"`
}

// Stats describes how much of the text the database currently holds.
type Stats struct {
	TotalVersesInDB    int    `json:"total_verses_in_db"`
	TotalVersesInQuran int    `json:"total_verses_in_quran"`
	Coverage           string `json:"coverage"`
	SurahsWithVerses   int    `json:"surahs_with_verses"`
	CompleteSurahs     int    `json:"complete_surahs"`
	TotalSurahs        int    `json:"total_surahs"`
}
