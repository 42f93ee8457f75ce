package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocaleResolver_Resolve_KnownTag(t *testing.T) {
	resolver := NewLocaleResolver("en-US")

	bundle, fellBack := resolver.Resolve("de-DE")

	require.NotNil(t, bundle)
	assert.False(t, fellBack)
	assert.Equal(t, "de-DE", bundle.Tag)
	assert.Equal(t, "€", bundle.CurrencySymbol)
	assert.Equal(t, ",", bundle.DecimalSep)
	assert.Equal(t, DayMonthYear, bundle.DateOrder)
}

func TestLocaleResolver_Resolve_CaseAndUnderscoreInsensitive(t *testing.T) {
	resolver := NewLocaleResolver("en-US")

	bundle, fellBack := resolver.Resolve("PT_br")

	assert.False(t, fellBack)
	assert.Equal(t, "pt-BR", bundle.Tag)
}

func TestLocaleResolver_Resolve_BareLanguage(t *testing.T) {
	resolver := NewLocaleResolver("en-US")

	bundle, fellBack := resolver.Resolve("fr")

	assert.False(t, fellBack)
	assert.Equal(t, "fr-FR", bundle.Tag)
}

func TestLocaleResolver_Resolve_UnknownFallsBackToDefault(t *testing.T) {
	resolver := NewLocaleResolver("en-GB")

	bundle, fellBack := resolver.Resolve("xx-XX")

	assert.True(t, fellBack)
	assert.Equal(t, "en-GB", bundle.Tag)
}

func TestLocaleResolver_UnknownDefaultFallsBackToEnUS(t *testing.T) {
	resolver := NewLocaleResolver("zz-ZZ")

	assert.Equal(t, "en-US", resolver.Default().Tag)
}

func TestFormatAmount_EnUS(t *testing.T) {
	resolver := NewLocaleResolver("en-US")
	bundle, _ := resolver.Resolve("en-US")

	assert.Equal(t, "$1,234.50", bundle.FormatAmount(decimal.NewFromFloat(1234.5)))
	assert.Equal(t, "$0.99", bundle.FormatAmount(decimal.NewFromFloat(0.99)))
	assert.Equal(t, "-$45.00", bundle.FormatAmount(decimal.NewFromInt(-45)))
}

func TestFormatAmount_DeDE(t *testing.T) {
	resolver := NewLocaleResolver("en-US")
	bundle, _ := resolver.Resolve("de-DE")

	assert.Equal(t, "1.234,50 €", bundle.FormatAmount(decimal.NewFromFloat(1234.5)))
}
