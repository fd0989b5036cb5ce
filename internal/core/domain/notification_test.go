package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAdMessage(t *testing.T) {
	area := 54.5
	floor := 3
	total := 9
	desc := "Простора квартира біля метро"
	ad := testAd()
	ad.SquareFeet = &area
	ad.Floor = &floor
	ad.TotalFloors = &total
	ad.Description = &desc

	text := FormatAdMessage(ad)
	assert.Contains(t, text, "Ціна: 15000 грн.")
	assert.Contains(t, text, "Місто: Київ")
	assert.Contains(t, text, "Кіл-сть кімнат: 2")
	assert.Contains(t, text, "Площа: 54.5 кв.м.")
	assert.Contains(t, text, "Поверх: 3 из 9")
	assert.Contains(t, text, "Опис: Простора квартира біля метро")
	assert.NotContains(t, text, "...")
}

func TestFormatAdMessage_DescriptionExcerpt(t *testing.T) {
	long := strings.Repeat("дуже довгий опис ", 20)
	ad := testAd()
	ad.Description = &long

	text := FormatAdMessage(ad)
	assert.Contains(t, text, "...")
	// Обрезается по рунам, не байтам
	assert.True(t, len([]rune(text)) < len([]rune(long)))
}

func TestAd_Validate(t *testing.T) {
	ad := testAd()
	assert.NoError(t, ad.Validate())

	bad := &Ad{ResourceURL: "https://example.com"}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidAd)

	neg := testAd()
	neg.Price = -5
	assert.ErrorIs(t, neg.Validate(), ErrInvalidAd)
}
