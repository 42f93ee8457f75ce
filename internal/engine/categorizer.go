package engine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// RuleConfidence is the fixed confidence of a rule-tier match. Rules encode
// exact user intent.
const RuleConfidence = 0.9

// Classifier is the external classification capability. Implementations may
// fail or time out; the categorizer absorbs both.
type Classifier interface {
	Classify(ctx context.Context, description string, amount decimal.Decimal, locale string) (*domain.CategorySuggestion, error)
}

// CategorizerConfig holds the tunables of the fallback chain.
type CategorizerConfig struct {
	// ConfidenceFloor is the minimum confidence a tier must reach for its
	// answer to be accepted.
	ConfidenceFloor float64
	// ExternalTimeout bounds the external-tier call. Zero disables the
	// external tier entirely.
	ExternalTimeout time.Duration
	// DefaultCategoryID is the Uncategorized category assigned by the
	// default tier. Zero leaves the result's category unresolved.
	DefaultCategoryID int32
}

// Categorizer resolves a category for a (description, amount, locale)
// triple through three tiers: rules, external classifier, default. It never
// fails; the worst case is the default tier. Safe for concurrent use.
type Categorizer struct {
	rules      domain.CategoryRuleRepository
	classifier Classifier
	cfg        CategorizerConfig
}

// NewCategorizer builds a categorizer. classifier may be nil, which skips
// the external tier.
func NewCategorizer(rules domain.CategoryRuleRepository, classifier Classifier, cfg CategorizerConfig) *Categorizer {
	return &Categorizer{
		rules:      rules,
		classifier: classifier,
		cfg:        cfg,
	}
}

// Categorize runs the fallback chain and always returns an answer. Rule and
// external failures degrade to the next tier, never to an error.
func (c *Categorizer) Categorize(ctx context.Context, userID uuid.UUID, description string, amount decimal.Decimal, locale string) domain.ClassificationResult {
	normalized := NormalizeDescription(description)

	if result, ok := c.ruleTier(ctx, userID, normalized, locale); ok {
		return result
	}
	if result, ok := c.externalTier(ctx, normalized, amount, locale); ok {
		return result
	}
	return c.defaultResult()
}

// ruleTier matches the normalized description against the active rule set.
// Rules arrive ordered (user before system, then priority); the first
// keyword contained in the description wins.
func (c *Categorizer) ruleTier(ctx context.Context, userID uuid.UUID, normalized, locale string) (domain.ClassificationResult, bool) {
	if c.rules == nil || normalized == "" {
		return domain.ClassificationResult{}, false
	}
	rules, err := c.rules.GetActive(ctx, userID, locale)
	if err != nil {
		// A broken rule source is not fatal; fall through to the next tier.
		log.Warn().Err(err).Msg("categorizer: rule lookup failed")
		return domain.ClassificationResult{}, false
	}
	for _, rule := range rules {
		keyword := strings.ToLower(strings.TrimSpace(rule.Keyword))
		if keyword == "" {
			continue
		}
		if strings.Contains(normalized, keyword) {
			id := rule.CategoryID
			return domain.ClassificationResult{
				CategoryID: &id,
				Confidence: RuleConfidence,
				Source:     domain.SourceRule,
			}, true
		}
	}
	return domain.ClassificationResult{}, false
}

// externalTier delegates to the injected classifier under a bounded
// timeout. Any error, timeout, or sub-floor suggestion counts as "no
// suggestion".
func (c *Categorizer) externalTier(ctx context.Context, normalized string, amount decimal.Decimal, locale string) (domain.ClassificationResult, bool) {
	if c.classifier == nil || c.cfg.ExternalTimeout <= 0 {
		return domain.ClassificationResult{}, false
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.ExternalTimeout)
	defer cancel()

	suggestion, err := c.classifier.Classify(callCtx, normalized, amount, locale)
	if err != nil {
		log.Debug().Err(err).Msg("categorizer: external classification unavailable")
		return domain.ClassificationResult{}, false
	}
	if suggestion == nil || suggestion.CategoryID == nil || suggestion.Confidence < c.cfg.ConfidenceFloor {
		return domain.ClassificationResult{}, false
	}
	return domain.ClassificationResult{
		CategoryID: suggestion.CategoryID,
		Confidence: suggestion.Confidence,
		Source:     domain.SourceExternal,
	}, true
}

func (c *Categorizer) defaultResult() domain.ClassificationResult {
	result := domain.ClassificationResult{
		Confidence: 0,
		Source:     domain.SourceDefault,
	}
	if c.cfg.DefaultCategoryID != 0 {
		id := c.cfg.DefaultCategoryID
		result.CategoryID = &id
	}
	return result
}
