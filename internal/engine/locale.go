package engine

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DateOrder is the order of day/month/year fields in a locale's numeric
// dates.
type DateOrder int

const (
	DayMonthYear DateOrder = iota
	MonthDayYear
	YearMonthDay
)

// LocaleBundle holds the formatting conventions for one locale. Bundles are
// immutable; the resolver hands out shared pointers.
type LocaleBundle struct {
	Tag            string
	Language       string
	CurrencySymbol string
	// SymbolAfter places the currency symbol behind the amount (e.g.
	// "12,50 €" instead of "€12.50").
	SymbolAfter   bool
	DecimalSep    string
	ThousandsSep  string
	DateOrder     DateOrder
	MonthNames    []string
}

// FormatAmount renders a monetary amount using the bundle's separators and
// currency symbol, with two decimal places.
func (b *LocaleBundle) FormatAmount(amount decimal.Decimal) string {
	s := amount.StringFixed(2)

	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	intPart := s[:len(s)-3]
	fracPart := s[len(s)-2:]

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteString(b.ThousandsSep)
		}
		grouped.WriteRune(digit)
	}

	var out strings.Builder
	if negative {
		out.WriteString("-")
	}
	if !b.SymbolAfter {
		out.WriteString(b.CurrencySymbol)
	}
	out.WriteString(grouped.String())
	out.WriteString(b.DecimalSep)
	out.WriteString(fracPart)
	if b.SymbolAfter {
		out.WriteString(" ")
		out.WriteString(b.CurrencySymbol)
	}
	return out.String()
}

// bundles is the static locale table, built once at process start.
var bundles = map[string]*LocaleBundle{
	"en-us": {
		Tag: "en-US", Language: "en", CurrencySymbol: "$",
		DecimalSep: ".", ThousandsSep: ",", DateOrder: MonthDayYear,
		MonthNames: []string{"january", "february", "march", "april", "may", "june", "july", "august", "september", "october", "november", "december"},
	},
	"en-gb": {
		Tag: "en-GB", Language: "en", CurrencySymbol: "£",
		DecimalSep: ".", ThousandsSep: ",", DateOrder: DayMonthYear,
		MonthNames: []string{"january", "february", "march", "april", "may", "june", "july", "august", "september", "october", "november", "december"},
	},
	"de-de": {
		Tag: "de-DE", Language: "de", CurrencySymbol: "€", SymbolAfter: true,
		DecimalSep: ",", ThousandsSep: ".", DateOrder: DayMonthYear,
		MonthNames: []string{"januar", "februar", "märz", "april", "mai", "juni", "juli", "august", "september", "oktober", "november", "dezember"},
	},
	"fr-fr": {
		Tag: "fr-FR", Language: "fr", CurrencySymbol: "€", SymbolAfter: true,
		DecimalSep: ",", ThousandsSep: " ", DateOrder: DayMonthYear,
		MonthNames: []string{"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"},
	},
	"es-es": {
		Tag: "es-ES", Language: "es", CurrencySymbol: "€", SymbolAfter: true,
		DecimalSep: ",", ThousandsSep: ".", DateOrder: DayMonthYear,
		MonthNames: []string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
	},
	"pt-br": {
		Tag: "pt-BR", Language: "pt", CurrencySymbol: "R$",
		DecimalSep: ",", ThousandsSep: ".", DateOrder: DayMonthYear,
		MonthNames: []string{"janeiro", "fevereiro", "março", "abril", "maio", "junho", "julho", "agosto", "setembro", "outubro", "novembro", "dezembro"},
	},
	"ru-ru": {
		Tag: "ru-RU", Language: "ru", CurrencySymbol: "₽", SymbolAfter: true,
		DecimalSep: ",", ThousandsSep: " ", DateOrder: DayMonthYear,
		MonthNames: []string{"января", "февраля", "марта", "апреля", "мая", "июня", "июля", "августа", "сентября", "октября", "ноября", "декабря"},
	},
}

// languageDefaults maps a bare language code to its default region bundle.
var languageDefaults = map[string]string{
	"en": "en-us",
	"de": "de-de",
	"fr": "fr-fr",
	"es": "es-es",
	"pt": "pt-br",
	"ru": "ru-ru",
}

// LocaleResolver maps locale tags to bundles. Unknown tags fall back to the
// configured default locale; the fallback is reported, not fatal.
type LocaleResolver struct {
	defaultBundle *LocaleBundle
}

// NewLocaleResolver creates a resolver with the given default locale tag.
// An unknown default falls back to en-US.
func NewLocaleResolver(defaultTag string) *LocaleResolver {
	def, ok := bundles[normalizeTag(defaultTag)]
	if !ok {
		def = bundles["en-us"]
	}
	return &LocaleResolver{defaultBundle: def}
}

// Resolve returns the bundle for a locale tag. The second return value is
// true when the tag was unknown and the default bundle was substituted.
func (r *LocaleResolver) Resolve(tag string) (*LocaleBundle, bool) {
	norm := normalizeTag(tag)
	if b, ok := bundles[norm]; ok {
		return b, false
	}
	// A bare language code resolves to its default region.
	if lang, _, found := strings.Cut(norm, "-"); found || lang != "" {
		if key, ok := languageDefaults[lang]; ok {
			return bundles[key], false
		}
	}
	return r.defaultBundle, true
}

// Default returns the resolver's default bundle.
func (r *LocaleResolver) Default() *LocaleBundle {
	return r.defaultBundle
}

// Bundles returns every known bundle. Used to precompile per-locale
// matchers.
func (r *LocaleResolver) Bundles() []*LocaleBundle {
	out := make([]*LocaleBundle, 0, len(bundles))
	for _, b := range bundles {
		out = append(out, b)
	}
	return out
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(tag), "_", "-"))
}
