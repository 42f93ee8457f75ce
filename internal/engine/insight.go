package engine

import (
	"fmt"
	"sort"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// MessageKind identifies a parameterized insight message translated by the
// localization provider.
type MessageKind string

const (
	MsgTrendUp   MessageKind = "trend_up"
	MsgTrendDown MessageKind = "trend_down"
	MsgOverspend MessageKind = "category_overspend"
	MsgAnomaly   MessageKind = "anomaly"
	MsgMilestone MessageKind = "milestone"
)

// MessageParams carries pre-formatted values substituted into a message
// template.
type MessageParams map[string]string

// Renderer is the localization collaborator that turns a message kind plus
// params into user-facing text.
type Renderer interface {
	Render(kind MessageKind, params MessageParams, locale string) string
}

// InsightConfig holds the detection thresholds. The defaults live in
// internal/config; treat these as tunables, not fixed law.
type InsightConfig struct {
	// TrendThreshold is the minimum absolute percentage change that emits a
	// trend insight.
	TrendThreshold float64
	// TrendWarning upgrades a trend to WARNING severity at this absolute
	// percentage change.
	TrendWarning float64
	// OverspendCritical upgrades an overspend to CRITICAL when spending
	// reaches this multiple of the budget amount.
	OverspendCritical float64
	// AnomalyMultiple flags a transaction whose amount exceeds this
	// multiple of the category's historical average.
	AnomalyMultiple float64
}

// InsightInput is everything the generator needs for one run. Budgets and
// goal snapshots are supplied by the caller; the generator reads nothing
// else.
type InsightInput struct {
	Current  []*domain.Transaction
	Previous []*domain.Transaction
	Budgets  []*domain.Budget
	Goals    []*domain.GoalSnapshot
	// CategoryNames maps category ids to display names for message
	// rendering.
	CategoryNames map[int32]string
	Locale        string
}

// Generator produces ordered insight records from two periods of
// transactions. It is pure and stateless: identical inputs yield identical,
// identically ordered output.
type Generator struct {
	resolver *LocaleResolver
	renderer Renderer
	cfg      InsightConfig
}

// NewGenerator builds an insight generator.
func NewGenerator(resolver *LocaleResolver, renderer Renderer, cfg InsightConfig) *Generator {
	return &Generator{
		resolver: resolver,
		renderer: renderer,
		cfg:      cfg,
	}
}

// milestoneThresholds are the round goal percentages that emit a MILESTONE.
var milestoneThresholds = []float64{25, 50, 75, 100}

// Generate runs every detector and returns insights sorted by severity,
// then by absolute metric magnitude descending.
func (g *Generator) Generate(in InsightInput) []*domain.Insight {
	bundle, _ := g.resolver.Resolve(in.Locale)

	insights := make([]*domain.Insight, 0, 8)
	insights = append(insights, g.detectTrends(in, bundle)...)
	insights = append(insights, g.detectOverspends(in, bundle)...)
	insights = append(insights, g.detectAnomalies(in, bundle)...)
	insights = append(insights, g.detectMilestones(in, bundle)...)

	sortInsights(insights)
	return insights
}

// categoryTotals sums expense amounts per category id for budget
// comparison. Transactions without a category are ignored; they cannot
// anchor a per-category signal.
func categoryTotals(txs []*domain.Transaction) map[int32]decimal.Decimal {
	totals := make(map[int32]decimal.Decimal)
	for _, tx := range txs {
		if tx.Direction != domain.DirectionExpense || tx.CategoryID == nil {
			continue
		}
		totals[*tx.CategoryID] = totals[*tx.CategoryID].Add(tx.Amount)
	}
	return totals
}

// trendTotals sums income and expense amounts per category id. A category's
// type matches its transactions' direction, so each total stays
// single-direction. Transfers carry no category signal and are skipped.
func trendTotals(txs []*domain.Transaction) map[int32]decimal.Decimal {
	totals := make(map[int32]decimal.Decimal)
	for _, tx := range txs {
		if tx.Direction == domain.DirectionTransfer || tx.CategoryID == nil {
			continue
		}
		totals[*tx.CategoryID] = totals[*tx.CategoryID].Add(tx.Amount)
	}
	return totals
}

func (g *Generator) detectTrends(in InsightInput, bundle *LocaleBundle) []*domain.Insight {
	current := trendTotals(in.Current)
	previous := trendTotals(in.Previous)

	var out []*domain.Insight
	for categoryID, cur := range current {
		prev, ok := previous[categoryID]
		if !ok || !prev.IsPositive() {
			continue
		}
		change := cur.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100))
		magnitude := change.Abs().InexactFloat64()
		if magnitude < g.cfg.TrendThreshold {
			continue
		}

		kind := domain.InsightTrendUp
		msgKind := MsgTrendUp
		if change.IsNegative() {
			kind = domain.InsightTrendDown
			msgKind = MsgTrendDown
		}
		severity := domain.SeverityInfo
		if magnitude >= g.cfg.TrendWarning {
			severity = domain.SeverityWarning
		}

		id := categoryID
		out = append(out, &domain.Insight{
			Kind:       kind,
			Severity:   severity,
			CategoryID: &id,
			Metric:     change.Round(1),
			Message: g.renderer.Render(msgKind, MessageParams{
				"category": g.categoryName(in, categoryID),
				"change":   fmt.Sprintf("%.0f%%", magnitude),
				"amount":   bundle.FormatAmount(cur),
			}, in.Locale),
		})
	}
	return out
}

func (g *Generator) detectOverspends(in InsightInput, bundle *LocaleBundle) []*domain.Insight {
	current := categoryTotals(in.Current)

	var out []*domain.Insight
	for _, budget := range in.Budgets {
		if !budget.Amount.IsPositive() {
			continue
		}
		spent, ok := current[budget.CategoryID]
		if !ok || spent.LessThanOrEqual(budget.Amount) {
			continue
		}

		ratio := spent.Div(budget.Amount).Mul(decimal.NewFromInt(100))
		severity := domain.SeverityWarning
		if ratio.InexactFloat64() >= g.cfg.OverspendCritical {
			severity = domain.SeverityCritical
		}

		id := budget.CategoryID
		out = append(out, &domain.Insight{
			Kind:       domain.InsightCategoryOverspend,
			Severity:   severity,
			CategoryID: &id,
			Metric:     ratio.Round(1),
			Message: g.renderer.Render(MsgOverspend, MessageParams{
				"category": g.categoryName(in, budget.CategoryID),
				"spent":    bundle.FormatAmount(spent),
				"budget":   bundle.FormatAmount(budget.Amount),
			}, in.Locale),
		})
	}
	return out
}

// detectAnomalies flags single current-period transactions whose amount
// exceeds AnomalyMultiple times the category's previous-period average.
func (g *Generator) detectAnomalies(in InsightInput, bundle *LocaleBundle) []*domain.Insight {
	sums := make(map[int32]decimal.Decimal)
	counts := make(map[int32]int64)
	for _, tx := range in.Previous {
		if tx.Direction != domain.DirectionExpense || tx.CategoryID == nil {
			continue
		}
		sums[*tx.CategoryID] = sums[*tx.CategoryID].Add(tx.Amount)
		counts[*tx.CategoryID]++
	}

	multiple := decimal.NewFromFloat(g.cfg.AnomalyMultiple)

	var out []*domain.Insight
	for _, tx := range in.Current {
		if tx.Direction != domain.DirectionExpense || tx.CategoryID == nil {
			continue
		}
		count := counts[*tx.CategoryID]
		if count == 0 {
			continue
		}
		average := sums[*tx.CategoryID].Div(decimal.NewFromInt(count))
		if !average.IsPositive() || tx.Amount.LessThanOrEqual(average.Mul(multiple)) {
			continue
		}

		id := *tx.CategoryID
		out = append(out, &domain.Insight{
			Kind:       domain.InsightAnomaly,
			Severity:   domain.SeverityWarning,
			CategoryID: &id,
			Metric:     tx.Amount,
			Message: g.renderer.Render(MsgAnomaly, MessageParams{
				"category": g.categoryName(in, id),
				"amount":   bundle.FormatAmount(tx.Amount),
				"average":  bundle.FormatAmount(average),
			}, in.Locale),
		})
	}
	return out
}

// detectMilestones emits a MILESTONE when a goal crossed a round percentage
// threshold within the current period. Only the highest crossed threshold
// is reported.
func (g *Generator) detectMilestones(in InsightInput, bundle *LocaleBundle) []*domain.Insight {
	var out []*domain.Insight
	for _, snapshot := range in.Goals {
		goal := snapshot.Goal
		if goal == nil || !goal.TargetAmount.IsPositive() {
			continue
		}
		before := goalPercent(snapshot.PreviousAmount, goal.TargetAmount)
		after := goalPercent(goal.CurrentAmount, goal.TargetAmount)

		crossed := 0.0
		for _, threshold := range milestoneThresholds {
			if before < threshold && after >= threshold {
				crossed = threshold
			}
		}
		if crossed == 0 {
			continue
		}

		id := goal.ID
		out = append(out, &domain.Insight{
			Kind:     domain.InsightMilestone,
			Severity: domain.SeverityInfo,
			GoalID:   &id,
			Metric:   decimal.NewFromFloat(crossed),
			Message: g.renderer.Render(MsgMilestone, MessageParams{
				"goal":    goal.Name,
				"percent": fmt.Sprintf("%.0f%%", crossed),
				"target":  bundle.FormatAmount(goal.TargetAmount),
			}, in.Locale),
		})
	}
	return out
}

func goalPercent(current, target decimal.Decimal) float64 {
	if !target.IsPositive() {
		return 0
	}
	pct := current.Div(target).Mul(decimal.NewFromInt(100)).InexactFloat64()
	if pct > 100 {
		return 100
	}
	return pct
}

func (g *Generator) categoryName(in InsightInput, id int32) string {
	if name, ok := in.CategoryNames[id]; ok {
		return name
	}
	return domain.UncategorizedName
}

var severityRank = map[domain.InsightSeverity]int{
	domain.SeverityCritical: 0,
	domain.SeverityWarning:  1,
	domain.SeverityInfo:     2,
}

// sortInsights orders most actionable first: severity, then absolute metric
// descending, with kind and category/goal id as deterministic tiebreaks.
func sortInsights(insights []*domain.Insight) {
	sort.SliceStable(insights, func(i, j int) bool {
		a, b := insights[i], insights[j]
		if severityRank[a.Severity] != severityRank[b.Severity] {
			return severityRank[a.Severity] < severityRank[b.Severity]
		}
		am, bm := a.Metric.Abs(), b.Metric.Abs()
		if !am.Equal(bm) {
			return am.GreaterThan(bm)
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return refID(a) < refID(b)
	})
}

func refID(in *domain.Insight) int32 {
	if in.CategoryID != nil {
		return *in.CategoryID
	}
	if in.GoalID != nil {
		return *in.GoalID
	}
	return 0
}
