package domain

import (
	"strings"
	"unicode"
)

// arabicRanges are the Unicode blocks counted as Arabic script.
var arabicRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0600, Hi: 0x06FF, Stride: 1},
		{Lo: 0x0750, Hi: 0x077F, Stride: 1},
		{Lo: 0x08A0, Hi: 0x08FF, Stride: 1},
		{Lo: 0xFB50, Hi: 0xFDFF, Stride: 1},
		{Lo: 0xFE70, Hi: 0xFEFF, Stride: 1},
	},
}

func isArabic(r rune) bool {
	return unicode.Is(arabicRanges, r)
}

func isLatin(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// DetectLanguage picks Arabic or English for text by counting script letters.
// Arabic wins above 60% of the letters, above 40% when it also beats Latin,
// or above 30% when the first word is Arabic. Everything else is English.
func DetectLanguage(text string) Language {
	text = strings.TrimSpace(text)
	if text == "" {
		return LangEnglish
	}

	var ar, en int
	for _, r := range text {
		switch {
		case isArabic(r):
			ar++
		case isLatin(r):
			en++
		}
	}
	total := ar + en
	if total == 0 {
		return LangEnglish
	}

	arPct := float64(ar) * 100 / float64(total)
	enPct := float64(en) * 100 / float64(total)

	firstArabic := false
	if fields := strings.Fields(text); len(fields) > 0 {
		for _, r := range fields[0] {
			if isArabic(r) {
				firstArabic = true
				break
			}
		}
	}

	switch {
	case arPct > 60:
		return LangArabic
	case arPct > 40 && arPct > enPct:
		return LangArabic
	case firstArabic && arPct > 30:
		return LangArabic
	}
	return LangEnglish
}

// DetectLanguageOf detects the language of the joined texts.
func DetectLanguageOf(texts ...string) Language {
	return DetectLanguage(strings.Join(texts, " "))
}
