package tafsir

import "strings"

// keywordRule pairs a Turkish keyword with a one-line summary used when
// no real tafsir is seeded for a verse. Rules are checked in order and
// the first match wins.
type keywordRule struct {
	keyword string
	summary string
}

var keywordRules = []keywordRule{
	{"Allah", "Bu ayette Allah'ın yüceliği ve kudreti vurgulanmaktadır."},
	{"iman", "Bu ayet iman esaslarını ve müminin özelliklerini açıklamaktadır."},
	{"sabır", "Sabır ve tevekkülün önemi bu ayette işlenmektedir."},
	{"namaz", "Namaz ibadeti ve önemi bu ayette anlatılmaktadır."},
	{"zekât", "Zekât ve infakın fazileti bu ayette belirtilmektedir."},
	{"cennet", "Cennet nimetleri ve mükâfatlar bu ayette tasvir edilmektedir."},
	{"cehennem", "Ahiret azabı ve kötülerin akıbeti bu ayette uyarı olarak verilmektedir."},
	{"peygamber", "Peygamberlerin kıssası ve örnekliği bu ayette anlatılmaktadır."},
	{"dua", "Dua adabı ve önemi bu ayette öğretilmektedir."},
	{"şükür", "Şükrün önemi ve nimete karşılık bu ayette vurgulanmaktadır."},
	{"tövbe", "Tövbenin fazileti ve Allah'ın affediciliği bu ayette işlenmektedir."},
}

const (
	fallbackEmpty   = "Bu ayet hakkında tefsir bilgisi henüz eklenmemiştir."
	fallbackGeneric = "Bu ayet, Kur'an-ı Kerim'in derin hikmetlerinden birini içermektedir. Detaylı tefsir için İslam alimlerinin eserlerine başvurabilirsiniz."
)

// PlaceholderFor derives a short commentary from the verse's Turkish
// text when no seeded tafsir exists.
func PlaceholderFor(verseText string) string {
	if verseText == "" {
		return fallbackEmpty
	}

	lower := strings.ToLower(verseText)
	for _, rule := range keywordRules {
		if strings.Contains(lower, strings.ToLower(rule.keyword)) {
			return rule.summary
		}
	}
	return fallbackGeneric
}
