package daily

// Prayer is a short supplication with its verse source.
type Prayer struct {
	Arabic  string `json:"arabic"`
	Turkish string `json:"turkish"`
	Source  string `json:"source"`
}

// prayers is the curated rotation shown on the daily screen. The first
// six rotate by day of year; random-prayer draws from the full list.
var prayers = []Prayer{
	{
		Arabic:  "رَبَّنَا آتِنَا فِي الدُّنْيَا حَسَنَةً وَفِي الْآخِرَةِ حَسَنَةً وَقِنَا عَذَابَ النَّارِ",
		Turkish: "Rabbimiz! Bize dünyada iyilik ver, ahirette de iyilik ver ve bizi ateş azabından koru.",
		Source:  "Bakara 201",
	},
	{
		Arabic:  "رَبِّ اشْرَحْ لِي صَدْرِي وَيَسِّرْ لِي أَمْرِي",
		Turkish: "Rabbim! Göğsümü aç, işimi kolaylaştır.",
		Source:  "Tâ-Hâ 25-26",
	},
	{
		Arabic:  "رَبَّنَا لَا تُزِغْ قُلُوبَنَا بَعْدَ إِذْ هَدَيْتَنَا وَهَبْ لَنَا مِن لَّدُنكَ رَحْمَةً",
		Turkish: "Rabbimiz! Bizi doğru yola ilettikten sonra kalplerimizi eğriltme.",
		Source:  "Âl-i İmrân 8",
	},
	{
		Arabic:  "حَسْبُنَا اللَّهُ وَنِعْمَ الْوَكِيلُ",
		Turkish: "Allah bize yeter. O ne güzel vekildir!",
		Source:  "Âl-i İmrân 173",
	},
	{
		Arabic:  "رَبِّ زِدْنِي عِلْمًا",
		Turkish: "Rabbim! İlmimi artır.",
		Source:  "Tâ-Hâ 114",
	},
	{
		Arabic:  "لَّا إِلَٰهَ إِلَّا أَنتَ سُبْحَانَكَ إِنِّي كُنتُ مِنَ الظَّالِمِينَ",
		Turkish: "Senden başka ilâh yoktur. Seni tenzih ederim. Gerçekten ben zalimlerden oldum.",
		Source:  "Enbiyâ 87",
	},
	{
		Arabic:  "رَبِّ اجْعَلْنِي مُقِيمَ الصَّلَاةِ وَمِن ذُرِّيَّتِي",
		Turkish: "Rabbim! Beni ve soyumdan gelecekleri namazı dosdoğru kılanlardan eyle.",
		Source:  "İbrâhîm 40",
	},
	{
		Arabic:  "رَبَّنَا هَبْ لَنَا مِنْ أَزْوَاجِنَا وَذُرِّيَّاتِنَا قُرَّةَ أَعْيُنٍ",
		Turkish: "Rabbimiz! Bize eşlerimizden ve çocuklarımızdan göz aydınlığı olacak kimseler bağışla.",
		Source:  "Furkân 74",
	},
}

// dailyPrayerCount limits the day-of-year rotation to the original six
// prayers so the rotation cycle stays stable as the list grows.
const dailyPrayerCount = 6
