package domain

// ClassificationSource identifies which tier produced a classification.
type ClassificationSource string

const (
	SourceRule     ClassificationSource = "rule"
	SourceExternal ClassificationSource = "external"
	SourceDefault  ClassificationSource = "default"
)

// ClassificationResult is the outcome of categorizing a transaction
// description. CategoryID is nil only when even the default category could
// not be resolved.
type ClassificationResult struct {
	CategoryID *int32               `json:"categoryId,omitempty"`
	Confidence float64              `json:"confidence"`
	Source     ClassificationSource `json:"source"`
}

// CategorySuggestion is what an external classifier returns. CategoryID is
// nil when the classifier could not decide.
type CategorySuggestion struct {
	CategoryID *int32
	Confidence float64
}
