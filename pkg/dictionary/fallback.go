package dictionary

// FallbackEntries returns the static built-in substitution list used when the
// remote dictionary table is unreachable or empty. It covers frequent Hindi
// spelling mistakes (missing chandrabindu, short/long vowel confusion,
// conjunct simplifications) so the dictionary pass stays useful offline.
//
// The returned slice is a fresh copy on every call; callers may modify it.
func FallbackEntries() []Entry {
	return []Entry{
		{Original: "जाउंगा", Replacement: "जाऊँगा"},
		{Original: "आउंगा", Replacement: "आऊँगा"},
		{Original: "करुंगा", Replacement: "करूँगा"},
		{Original: "कृप्या", Replacement: "कृपया"},
		{Original: "आशिर्वाद", Replacement: "आशीर्वाद"},
		{Original: "परिक्षा", Replacement: "परीक्षा"},
		{Original: "पुरूष", Replacement: "पुरुष"},
		{Original: "उज्वल", Replacement: "उज्ज्वल"},
		{Original: "दुसरा", Replacement: "दूसरा"},
		{Original: "पिछे", Replacement: "पीछे"},
		{Original: "निचे", Replacement: "नीचे"},
		{Original: "नुक्सान", Replacement: "नुकसान"},
		{Original: "सुरज", Replacement: "सूरज"},
		{Original: "बिमारी", Replacement: "बीमारी"},
		{Original: "तुम्हे", Replacement: "तुम्हें"},
		{Original: "उन्हे", Replacement: "उन्हें"},
		{Original: "इसलिये", Replacement: "इसलिए"},
		{Original: "चाहिये", Replacement: "चाहिए"},
	}
}
