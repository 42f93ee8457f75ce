package engine

import (
	"regexp"
	"strings"
	"time"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Stage confidences applied when a stage has to guess.
const (
	directionGuessConfidence      = 0.7
	descriptionFallbackConfidence = 0.8
)

// PlaceholderDescription is used when nothing remains after extraction.
const PlaceholderDescription = "Uncategorized transaction"

// DraftTransaction is a parsed-but-not-yet-confirmed transaction.
type DraftTransaction struct {
	Description string                      `json:"description"`
	Amount      decimal.Decimal             `json:"amount"`
	Direction   domain.TransactionDirection `json:"direction"`
	Date        time.Time                   `json:"date"`
	Locale      string                      `json:"locale"`
	// Confidence is the product of per-stage confidences, in [0,1].
	Confidence float64 `json:"confidence"`
	// NeedsReview is set when confidence falls below the review threshold;
	// callers must confirm the draft with the user before persisting it.
	NeedsReview bool `json:"needsReview"`
	// LocaleFallback reports that the requested locale was unknown and the
	// default locale was used instead.
	LocaleFallback bool `json:"localeFallback"`
}

// Parser extracts a draft transaction from free text. It is stateless and
// safe for concurrent use; all per-locale matchers are compiled once at
// construction.
type Parser struct {
	resolver        *LocaleResolver
	reviewThreshold float64
	now             func() time.Time
	amounts         map[string]*regexp.Regexp
	monthDatesA     map[string]*regexp.Regexp
	monthDatesB     map[string]*regexp.Regexp
}

// NewParser builds a parser on top of a locale resolver. Drafts scoring
// below reviewThreshold are flagged NeedsReview.
func NewParser(resolver *LocaleResolver, reviewThreshold float64) *Parser {
	p := &Parser{
		resolver:        resolver,
		reviewThreshold: reviewThreshold,
		now:             time.Now,
		amounts:         make(map[string]*regexp.Regexp),
		monthDatesA:     make(map[string]*regexp.Regexp),
		monthDatesB:     make(map[string]*regexp.Regexp),
	}
	for _, b := range resolver.Bundles() {
		p.amounts[b.Tag] = compileAmountPattern(b)
		months := strings.Join(b.MonthNames, "|")
		// "5 march 2024" / "5th of march"
		p.monthDatesA[b.Tag] = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\.?\s+(?:of\s+)?(` + months + `)\b\.?(?:\s+(\d{4}))?`)
		// "march 5, 2024" / "march 5th"
		p.monthDatesB[b.Tag] = regexp.MustCompile(`(?i)\b(` + months + `)\b\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?`)
	}
	return p
}

func compileAmountPattern(b *LocaleBundle) *regexp.Regexp {
	sym := regexp.QuoteMeta(b.CurrencySymbol)
	tsep := sepClass(b.ThousandsSep)
	dsep := regexp.QuoteMeta(b.DecimalSep)
	num := `\d+(?:` + tsep + `\d{3})*(?:` + dsep + `\d{1,2})?`
	return regexp.MustCompile(`(?i)(?:` + sym + `\s?)?` + num + `(?:[km]\b)?(?:\s?` + sym + `)?`)
}

// sepClass widens a no-break-space separator so that a plain space typed by
// the user still groups thousands.
func sepClass(sep string) string {
	if sep == " " {
		return `[\x{00a0}\x{202f} ]`
	}
	return regexp.QuoteMeta(sep)
}

// Parse converts free text plus a locale into a draft transaction.
// It fails only with domain.ErrAmbiguousInput, when no amount token exists;
// every other ambiguity lowers confidence instead of aborting.
func (p *Parser) Parse(text, locale string) (*DraftTransaction, error) {
	bundle, fellBack := p.resolver.Resolve(locale)

	rest := strings.TrimSpace(text)

	amount, rest, ok := p.extractAmount(rest, bundle)
	if !ok {
		return nil, domain.ErrAmbiguousInput
	}
	confidence := 1.0

	direction, rest, directionConfidence := extractDirection(rest, bundle.Language)
	confidence *= directionConfidence

	date, rest := p.extractDate(rest, bundle)

	description := cleanDescription(rest, bundle)
	if description == "" {
		description = PlaceholderDescription
		confidence *= descriptionFallbackConfidence
	}

	return &DraftTransaction{
		Description:    description,
		Amount:         amount,
		Direction:      direction,
		Date:           date,
		Locale:         bundle.Tag,
		Confidence:     confidence,
		NeedsReview:    confidence < p.reviewThreshold,
		LocaleFallback: fellBack,
	}, nil
}

// extractAmount locates the most plausible monetary token. Candidates with a
// currency symbol win over candidates with a fractional part or k/m suffix,
// which win over bare integers; ties go to the earliest match. Tokens glued
// to date punctuation are skipped.
func (p *Parser) extractAmount(text string, b *LocaleBundle) (decimal.Decimal, string, bool) {
	re := p.amounts[b.Tag]
	if re == nil {
		re = compileAmountPattern(b)
	}

	type candidate struct {
		start, end int
		value      decimal.Decimal
		score      int
	}
	var best *candidate

	for _, loc := range re.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		token := text[start:end]
		if looksLikeDateFragment(text, start, end) {
			continue
		}

		value, ok := parseAmountToken(token, b)
		if !ok || !value.IsPositive() {
			continue
		}

		score := 1
		lower := strings.ToLower(token)
		if strings.Contains(lower, strings.ToLower(b.CurrencySymbol)) {
			score = 3
		} else if strings.Contains(token, b.DecimalSep) || strings.HasSuffix(lower, "k") || strings.HasSuffix(lower, "m") {
			score = 2
		}

		if best == nil || score > best.score {
			best = &candidate{start: start, end: end, value: value, score: score}
		}
	}

	if best == nil {
		return decimal.Zero, text, false
	}
	return best.value, cutSpan(text, best.start, best.end), true
}

// looksLikeDateFragment reports whether the matched digits are glued to date
// punctuation like 12/05/2024 or 12.05.2024.
func looksLikeDateFragment(text string, start, end int) bool {
	if start > 0 {
		prev := text[start-1]
		if (prev == '/' || prev == '-') && start > 1 && isDigit(text[start-2]) {
			return true
		}
	}
	if end < len(text)-1 {
		next := text[end]
		if (next == '/' || next == '-' || next == '.') && isDigit(text[end+1]) {
			return true
		}
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func parseAmountToken(token string, b *LocaleBundle) (decimal.Decimal, bool) {
	s := strings.TrimSpace(token)
	s = strings.ReplaceAll(s, b.CurrencySymbol, "")
	s = strings.TrimSpace(s)

	multiplier := decimal.NewFromInt(1)
	lower := strings.ToLower(s)
	if strings.HasSuffix(lower, "k") {
		multiplier = decimal.NewFromInt(1000)
		s = s[:len(s)-1]
	} else if strings.HasSuffix(lower, "m") {
		multiplier = decimal.NewFromInt(1000000)
		s = s[:len(s)-1]
	}

	s = strings.ReplaceAll(s, b.ThousandsSep, "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if b.DecimalSep != "." {
		s = strings.ReplaceAll(s, b.DecimalSep, ".")
	}

	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return value.Mul(multiplier), true
}

// directionLexicon holds the per-language keyword sets for direction
// inference. Multi-word entries are listed before their single-word
// prefixes so the longest phrase wins.
type directionLexicon struct {
	transfer []string
	income   []string
	expense  []string
}

var lexicons = map[string]directionLexicon{
	"en": {
		transfer: []string{"transferred to", "transferred from", "transfer to", "transfer from", "moved to", "moved from", "transfer"},
		income:   []string{"received", "refunded", "refund", "salary", "paycheck", "deposited", "deposit", "earned", "income", "bonus", "cashback", "reimbursed", "sold"},
		expense:  []string{"spent", "paid", "bought", "purchased", "purchase", "ordered"},
	},
	"de": {
		transfer: []string{"überwiesen an", "überwiesen von", "überweisung", "überwiesen"},
		income:   []string{"erhalten", "gehalt", "einkommen", "bonus", "erstattung", "verkauft"},
		expense:  []string{"ausgegeben", "bezahlt", "gekauft", "bestellt"},
	},
	"fr": {
		transfer: []string{"virement vers", "virement de", "virement"},
		income:   []string{"reçu", "salaire", "remboursement", "prime", "vendu"},
		expense:  []string{"dépensé", "payé", "acheté", "commandé"},
	},
	"es": {
		transfer: []string{"transferencia a", "transferencia de", "transferencia", "transferido"},
		income:   []string{"recibido", "recibí", "salario", "sueldo", "reembolso", "vendido"},
		expense:  []string{"gastado", "gasté", "pagado", "pagué", "comprado", "compré"},
	},
	"pt": {
		transfer: []string{"transferência para", "transferência de", "transferência", "transferido"},
		income:   []string{"recebido", "recebi", "salário", "reembolso", "vendido"},
		expense:  []string{"gastei", "gasto", "paguei", "pago", "comprei", "comprado"},
	},
	"ru": {
		transfer: []string{"перевод на", "перевод от", "перевод", "перевёл", "перевел"},
		income:   []string{"получил", "получила", "зарплата", "возврат", "премия", "продал"},
		expense:  []string{"потратил", "потратила", "купил", "купила", "оплатил", "оплатила", "заплатил"},
	},
}

// extractDirection infers the transaction direction from the keyword
// lexicon for the bundle's language. Without any keyword the direction
// defaults to expense with reduced confidence.
func extractDirection(text, language string) (domain.TransactionDirection, string, float64) {
	lex, ok := lexicons[language]
	if !ok {
		lex = lexicons["en"]
	}
	lower := strings.ToLower(text)

	if rest, found := removeFirstKeyword(text, lower, lex.transfer); found {
		return domain.DirectionTransfer, rest, 1.0
	}
	if rest, found := removeFirstKeyword(text, lower, lex.income); found {
		return domain.DirectionIncome, rest, 1.0
	}
	if rest, found := removeFirstKeyword(text, lower, lex.expense); found {
		return domain.DirectionExpense, rest, 1.0
	}
	return domain.DirectionExpense, text, directionGuessConfidence
}

// removeFirstKeyword cuts the earliest whole-word occurrence of any keyword
// out of text. lower must be the lowercased copy of text.
func removeFirstKeyword(text, lower string, keywords []string) (string, bool) {
	bestStart := -1
	bestEnd := -1
	for _, kw := range keywords {
		idx := indexWord(lower, kw)
		if idx < 0 {
			continue
		}
		if bestStart == -1 || idx < bestStart {
			bestStart = idx
			bestEnd = idx + len(kw)
		}
	}
	if bestStart < 0 {
		return text, false
	}
	return cutSpan(text, bestStart, bestEnd), true
}

// indexWord finds kw in s at word boundaries.
func indexWord(s, kw string) int {
	from := 0
	for {
		idx := strings.Index(s[from:], kw)
		if idx < 0 {
			return -1
		}
		idx += from
		end := idx + len(kw)
		beforeOK := idx == 0 || !isWordByte(s[idx-1])
		afterOK := end >= len(s) || !isWordByte(s[end])
		if beforeOK && afterOK {
			return idx
		}
		from = idx + 1
	}
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// relativeDates maps per-language relative day terms to day offsets.
var relativeDates = map[string]map[string]int{
	"en": {"today": 0, "yesterday": -1, "tomorrow": 1},
	"de": {"heute": 0, "gestern": -1, "morgen": 1},
	"fr": {"aujourd'hui": 0, "hier": -1, "demain": 1},
	"es": {"hoy": 0, "ayer": -1, "mañana": 1},
	"pt": {"hoje": 0, "ontem": -1, "amanhã": 1},
	"ru": {"сегодня": 0, "вчера": -1, "завтра": 1},
}

var numericDate = regexp.MustCompile(`\b(\d{1,4})[/.\-](\d{1,2})[/.\-](\d{1,4})\b`)

// extractDate recognizes relative terms and absolute dates in the locale's
// date order. Absence of a date defaults to the current date with no
// confidence penalty.
func (p *Parser) extractDate(text string, b *LocaleBundle) (time.Time, string) {
	now := p.now().UTC().Truncate(24 * time.Hour)
	lower := strings.ToLower(text)

	terms, ok := relativeDates[b.Language]
	if !ok {
		terms = relativeDates["en"]
	}
	// Earliest occurrence in the text wins when several terms are present.
	bestIdx, bestEnd, bestOffset := -1, 0, 0
	for term, offset := range terms {
		idx := indexWord(lower, term)
		if idx < 0 {
			continue
		}
		if bestIdx == -1 || idx < bestIdx {
			bestIdx, bestEnd, bestOffset = idx, idx+len(term), offset
		}
	}
	if bestIdx >= 0 {
		return now.AddDate(0, 0, bestOffset), cutSpan(text, bestIdx, bestEnd)
	}

	if loc := numericDate.FindStringSubmatchIndex(text); loc != nil {
		first := atoi(text[loc[2]:loc[3]])
		second := atoi(text[loc[4]:loc[5]])
		third := atoi(text[loc[6]:loc[7]])
		if date, ok := composeDate(first, second, third, b.DateOrder); ok {
			return date, cutSpan(text, loc[0], loc[1])
		}
	}

	if re := p.monthDatesA[b.Tag]; re != nil {
		if loc := re.FindStringSubmatchIndex(text); loc != nil {
			day := atoi(text[loc[2]:loc[3]])
			month := monthIndex(b, text[loc[4]:loc[5]])
			year := now.Year()
			if loc[6] >= 0 {
				year = atoi(text[loc[6]:loc[7]])
			}
			if month > 0 && day >= 1 && day <= 31 {
				return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), cutSpan(text, loc[0], loc[1])
			}
		}
	}
	if re := p.monthDatesB[b.Tag]; re != nil {
		if loc := re.FindStringSubmatchIndex(text); loc != nil {
			month := monthIndex(b, text[loc[2]:loc[3]])
			day := atoi(text[loc[4]:loc[5]])
			year := now.Year()
			if loc[6] >= 0 {
				year = atoi(text[loc[6]:loc[7]])
			}
			if month > 0 && day >= 1 && day <= 31 {
				return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), cutSpan(text, loc[0], loc[1])
			}
		}
	}

	return now, text
}

// composeDate builds a date from three numeric fields according to the
// locale's date order. A four-digit leading field always means
// year-month-day.
func composeDate(first, second, third int, order DateOrder) (time.Time, bool) {
	var year, month, day int
	switch {
	case first > 999:
		year, month, day = first, second, third
	case order == MonthDayYear:
		month, day, year = first, second, third
	default:
		day, month, year = first, second, third
	}
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

func monthIndex(b *LocaleBundle, name string) int {
	lower := strings.ToLower(name)
	for i, m := range b.MonthNames {
		if m == lower {
			return i + 1
		}
	}
	return 0
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

func cutSpan(text string, start, end int) string {
	return strings.TrimSpace(text[:start] + " " + text[end:])
}

// fillerWords are prepositions stripped from the edges of the description
// residual, per language.
var fillerWords = map[string]map[string]bool{
	"en": {"on": true, "for": true, "at": true, "in": true, "to": true, "from": true, "the": true, "a": true, "an": true},
	"de": {"für": true, "auf": true, "bei": true, "im": true, "am": true},
	"fr": {"pour": true, "sur": true, "chez": true, "au": true, "à": true},
	"es": {"en": true, "por": true, "para": true, "de": true},
	"pt": {"em": true, "por": true, "para": true, "de": true, "no": true, "na": true},
	"ru": {"на": true, "за": true, "в": true},
}

// cleanDescription normalizes the residual text after extraction: currency
// symbols and dangling punctuation go away, edge filler words are trimmed,
// and the result is lowercased for downstream rule matching.
func cleanDescription(text string, b *LocaleBundle) string {
	s := strings.ReplaceAll(text, b.CurrencySymbol, " ")
	s = strings.ToLower(strings.TrimSpace(s))

	filler, ok := fillerWords[b.Language]
	if !ok {
		filler = fillerWords["en"]
	}

	words := strings.Fields(s)
	cleaned := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Trim(w, ".,;:!?()[]\"'")
		if w == "" {
			continue
		}
		cleaned = append(cleaned, w)
	}
	for len(cleaned) > 0 && filler[cleaned[0]] {
		cleaned = cleaned[1:]
	}
	for len(cleaned) > 0 && filler[cleaned[len(cleaned)-1]] {
		cleaned = cleaned[:len(cleaned)-1]
	}
	return strings.Join(cleaned, " ")
}

// NormalizeDescription lowercases and trims a description the same way the
// parser does, so rule matching sees identical input regardless of entry
// path.
func NormalizeDescription(description string) string {
	return strings.ToLower(strings.TrimSpace(description))
}
