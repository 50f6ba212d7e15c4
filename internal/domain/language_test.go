package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Language
	}{
		{"empty", "", LangEnglish},
		{"digits only", "12345 !!", LangEnglish},
		{"english", "Finish the quarterly report", LangEnglish},
		{"arabic", "مراجعة التقرير الشهري", LangArabic},
		{"mostly arabic with a latin word", "تعلم البرمجة بلغة Go", LangArabic},
		{"first word arabic, minority overall", "اكتب التقرير now quickly please", LangArabic},
		{"latin first, little arabic", "Write the full report today نعم", LangEnglish},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLanguage(tt.text))
		})
	}
}

func TestDetectLanguageOf(t *testing.T) {
	assert.Equal(t, LangArabic, DetectLanguageOf("مهمة", "أخرى"))
	assert.Equal(t, LangEnglish, DetectLanguageOf())
}

func TestLanguage_Name(t *testing.T) {
	assert.Equal(t, "Arabic", LangArabic.Name())
	assert.Equal(t, "English", LangEnglish.Name())
}
