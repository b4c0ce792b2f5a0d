package models

// SuggestionItem is a known health issue with hidden match keywords.
type SuggestionItem struct {
	Text     string   `json:"text"`
	Keywords []string `json:"-"`
}

// DefaultSuggestionCount is how many entries are offered for empty input.
const DefaultSuggestionCount = 6

var HealthSuggestions = []SuggestionItem{
	// Stomach & digestion
	{Text: "पेट दर्द (Stomach Pain)", Keywords: []string{"pet", "stomach", "pain", "dard", "abdomen", "digest"}},
	{Text: "गैस और एसिडिटी (Gas & Acidity)", Keywords: []string{"gas", "acidity", "jalan", "bloating", "pet", "stomach", "afara"}},
	{Text: "कब्ज (Constipation)", Keywords: []string{"kabz", "constipation", "pet", "stomach", "toilet", "fresh"}},
	{Text: "दस्त (Loose Motion)", Keywords: []string{"dast", "loose", "motion", "pet", "stomach", "diarrhea"}},

	// Head, fever, cold
	{Text: "सिरदर्द (Headache)", Keywords: []string{"head", "sir", "sar", "pain", "dard", "migraine", "matha"}},
	{Text: "बुखार (Fever)", Keywords: []string{"bukhar", "fever", "tapman", "garam", "temperature"}},
	{Text: "सर्दी-जुकाम (Cold & Cough)", Keywords: []string{"sardi", "jukam", "khansi", "cold", "cough", "flu", "gala", "naak"}},
	{Text: "गले में खराश (Sore Throat)", Keywords: []string{"gala", "throat", "kharash", "pain", "khansi"}},

	// Joints & body pain
	{Text: "कमर दर्द (Back Pain)", Keywords: []string{"kamar", "back", "pain", "dard", "slip disc", "spine"}},
	{Text: "घुटनों का दर्द (Knee Pain)", Keywords: []string{"ghutna", "knee", "pain", "dard", "joint", "gathiya", "pair"}},
	{Text: "जोड़ों का दर्द (Joint Pain)", Keywords: []string{"jod", "joint", "pain", "dard", "arthritis", "body pain"}},
	{Text: "दांत दर्द (Toothache)", Keywords: []string{"dant", "tooth", "pain", "dard", "teeth", "musauda"}},
	{Text: "आंखों में जलन/दर्द (Eye Strain)", Keywords: []string{"aankh", "eye", "jalan", "strain", "pain", "vision", "najar"}},

	// Skin & hair
	{Text: "बाल झड़ना (Hair Fall)", Keywords: []string{"baal", "hair", "fall", "jhadna", "ganjapan", "tutna"}},
	{Text: "डैंड्रफ (Dandruff)", Keywords: []string{"dandruff", "rusi", "baal", "hair", "scalp"}},
	{Text: "पिम्पल्स/मुंहासे (Acne & Pimples)", Keywords: []string{"pimple", "acne", "muhase", "skin", "chehra", "face", "daane"}},
	{Text: "चेहरे पर चमक (Glowing Skin)", Keywords: []string{"glow", "skin", "chamian", "face", "chehra", "fair", "rang"}},
	{Text: "काले घेरे (Dark Circles)", Keywords: []string{"dark", "circle", "aankh", "eye", "kale", "ghere"}},

	// Weight & energy
	{Text: "वजन कम करना (Weight Loss)", Keywords: []string{"wajan", "weight", "loss", "motapa", "fat", "kam", "pet kam"}},
	{Text: "वजन बढ़ाना (Weight Gain)", Keywords: []string{"wajan", "weight", "gain", "mota", "dubla", "thin", "kamjor"}},
	{Text: "थकान और कमजोरी (Fatigue & Weakness)", Keywords: []string{"thakan", "kamjori", "weakness", "energy", "fatigue", "taqat"}},

	// Mind & sleep
	{Text: "नींद न आना (Insomnia)", Keywords: []string{"neend", "sleep", "insomnia", "sona", "rest", "jagran"}},
	{Text: "तनाव और चिंता (Stress & Anxiety)", Keywords: []string{"stress", "anxiety", "tension", "chinta", "dimag", "depression"}},
}
