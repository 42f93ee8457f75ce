package engine

import (
	"testing"
	"time"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	p := NewParser(NewLocaleResolver("en-US"), 0.6)
	p.now = func() time.Time {
		return time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC)
	}
	return p
}

func TestParse_ExpenseWithRelativeDate(t *testing.T) {
	p := newTestParser(t)

	draft, err := p.Parse("Spent 45.50 on groceries yesterday", "en-US")

	require.NoError(t, err)
	assert.True(t, draft.Amount.Equal(decimal.NewFromFloat(45.50)), "amount = %s", draft.Amount)
	assert.Equal(t, domain.DirectionExpense, draft.Direction)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), draft.Date)
	assert.Contains(t, draft.Description, "groceries")
	assert.GreaterOrEqual(t, draft.Confidence, 0.6)
	assert.False(t, draft.NeedsReview)
	assert.False(t, draft.LocaleFallback)
}

func TestParse_EarliestRelativeDateTermWins(t *testing.T) {
	p := newTestParser(t)

	// Two relative terms in one input; the one appearing first in the text
	// must win on every call.
	for i := 0; i < 50; i++ {
		draft, err := p.Parse("spent 45 today and yesterday", "en-US")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), draft.Date)
	}

	for i := 0; i < 50; i++ {
		draft, err := p.Parse("spent 45 yesterday, not today", "en-US")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), draft.Date)
	}
}

func TestParse_NoAmountFailsWithAmbiguousInput(t *testing.T) {
	p := newTestParser(t)

	for _, text := range []string{"", "lunch with friends", "no numbers here"} {
		_, err := p.Parse(text, "en-US")
		assert.ErrorIs(t, err, domain.ErrAmbiguousInput, "text %q", text)
	}
}

func TestParse_IncomeKeywordAndShorthandSuffix(t *testing.T) {
	p := newTestParser(t)

	draft, err := p.Parse("Received salary 3k", "en-US")

	require.NoError(t, err)
	assert.Equal(t, domain.DirectionIncome, draft.Direction)
	assert.True(t, draft.Amount.Equal(decimal.NewFromInt(3000)), "amount = %s", draft.Amount)
	assert.Contains(t, draft.Description, "salary")
}

func TestParse_TransferKeyword(t *testing.T) {
	p := newTestParser(t)

	draft, err := p.Parse("transfer 200 to savings", "en-US")

	require.NoError(t, err)
	assert.Equal(t, domain.DirectionTransfer, draft.Direction)
	assert.True(t, draft.Amount.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, "savings", draft.Description)
}

func TestParse_NoKeywordDefaultsToExpenseWithReducedConfidence(t *testing.T) {
	p := newTestParser(t)

	draft, err := p.Parse("dinner 25", "en-US")

	require.NoError(t, err)
	assert.Equal(t, domain.DirectionExpense, draft.Direction)
	assert.InDelta(t, directionGuessConfidence, draft.Confidence, 1e-9)
	assert.False(t, draft.NeedsReview)
	assert.Equal(t, "dinner", draft.Description)
}

func TestParse_BareAmountNeedsReview(t *testing.T) {
	p := newTestParser(t)

	draft, err := p.Parse("100", "en-US")

	require.NoError(t, err)
	assert.Equal(t, PlaceholderDescription, draft.Description)
	// No direction keyword and no description residual.
	assert.InDelta(t, directionGuessConfidence*descriptionFallbackConfidence, draft.Confidence, 1e-9)
	assert.True(t, draft.NeedsReview)
}

func TestParse_AbsoluteDateFollowsLocaleOrder(t *testing.T) {
	p := newTestParser(t)

	us, err := p.Parse("paid $30 for parking on 12/05/2024", "en-US")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC), us.Date)

	gb, err := p.Parse("paid £30 for parking on 12/05/2024", "en-GB")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC), gb.Date)

	assert.True(t, us.Amount.Equal(decimal.NewFromInt(30)))
	assert.True(t, gb.Amount.Equal(decimal.NewFromInt(30)))
}

func TestParse_MonthNameDate(t *testing.T) {
	p := newTestParser(t)

	draft, err := p.Parse("spent 12.99 on books march 5", "en-US")

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), draft.Date)
	assert.Contains(t, draft.Description, "books")
}

func TestParse_NoDateDefaultsToToday(t *testing.T) {
	p := newTestParser(t)

	draft, err := p.Parse("spent 9.99 on coffee", "en-US")

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), draft.Date)
	// A missing date is not an ambiguity; confidence stays full.
	assert.InDelta(t, 1.0, draft.Confidence, 1e-9)
}

func TestParse_GermanLocale(t *testing.T) {
	p := newTestParser(t)

	draft, err := p.Parse("50,25 für Lebensmittel bezahlt gestern", "de-DE")

	require.NoError(t, err)
	assert.True(t, draft.Amount.Equal(decimal.NewFromFloat(50.25)), "amount = %s", draft.Amount)
	assert.Equal(t, domain.DirectionExpense, draft.Direction)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), draft.Date)
	assert.Equal(t, "lebensmittel", draft.Description)
	assert.Equal(t, "de-DE", draft.Locale)
}

func TestParse_GermanThousandsSeparator(t *testing.T) {
	p := newTestParser(t)

	draft, err := p.Parse("1.250,75 € Miete bezahlt", "de-DE")

	require.NoError(t, err)
	assert.True(t, draft.Amount.Equal(decimal.NewFromFloat(1250.75)), "amount = %s", draft.Amount)
}

func TestParse_CurrencySymbolPreferredOverBareNumber(t *testing.T) {
	p := newTestParser(t)

	draft, err := p.Parse("got 2 coffees for $8.40", "en-US")

	require.NoError(t, err)
	assert.True(t, draft.Amount.Equal(decimal.NewFromFloat(8.40)), "amount = %s", draft.Amount)
}

func TestParse_UnknownLocaleFallsBack(t *testing.T) {
	p := newTestParser(t)

	draft, err := p.Parse("spent 10 on snacks", "xx-XX")

	require.NoError(t, err)
	assert.True(t, draft.LocaleFallback)
	assert.Equal(t, "en-US", draft.Locale)
}

func TestParse_AmountIsAlwaysPositive(t *testing.T) {
	p := newTestParser(t)

	texts := []string{
		"spent 45.50 on groceries",
		"received 3k salary",
		"transfer 200 to savings",
		"$12 lunch",
	}
	for _, text := range texts {
		draft, err := p.Parse(text, "en-US")
		require.NoError(t, err, "text %q", text)
		assert.True(t, draft.Amount.IsPositive(), "text %q", text)
		assert.True(t, draft.Direction.Valid(), "text %q", text)
	}
}
