package domain

import "github.com/shopspring/decimal"

type InsightKind string

const (
	InsightTrendUp           InsightKind = "trend_up"
	InsightTrendDown         InsightKind = "trend_down"
	InsightCategoryOverspend InsightKind = "category_overspend"
	InsightAnomaly           InsightKind = "anomaly"
	InsightMilestone         InsightKind = "milestone"
)

type InsightSeverity string

const (
	SeverityInfo     InsightSeverity = "info"
	SeverityWarning  InsightSeverity = "warning"
	SeverityCritical InsightSeverity = "critical"
)

// Insight is a generated observation about spending behavior. Insights are
// ephemeral: computed on demand, never persisted.
type Insight struct {
	Kind       InsightKind     `json:"kind"`
	Severity   InsightSeverity `json:"severity"`
	Message    string          `json:"message"`
	CategoryID *int32          `json:"categoryId,omitempty"`
	GoalID     *int32          `json:"goalId,omitempty"`
	// Metric is the magnitude behind the insight: percent change for
	// trends, percent of budget for overspends, the transaction amount for
	// anomalies, the crossed threshold for milestones.
	Metric decimal.Decimal `json:"metric"`
}
