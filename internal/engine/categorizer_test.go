package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCategorizerConfig() CategorizerConfig {
	return CategorizerConfig{
		ConfidenceFloor:   0.5,
		ExternalTimeout:   time.Second,
		DefaultCategoryID: 99,
	}
}

func TestCategorize_RuleTierWins(t *testing.T) {
	rules := testutil.NewMockCategoryRuleRepository()
	rules.AddRule(&domain.CategoryRule{Keyword: "grocer", CategoryID: 5, Priority: 10, Scope: domain.ScopeSystem})
	classifier := &testutil.StubClassifier{}
	c := NewCategorizer(rules, classifier, testCategorizerConfig())

	result := c.Categorize(context.Background(), uuid.New(), "Grocery Store 123", decimal.NewFromInt(40), "en-US")

	require.NotNil(t, result.CategoryID)
	assert.Equal(t, int32(5), *result.CategoryID)
	assert.Equal(t, domain.SourceRule, result.Source)
	assert.InDelta(t, RuleConfidence, result.Confidence, 1e-9)
	assert.Equal(t, 0, classifier.Calls, "rule match must short-circuit the external tier")
}

func TestCategorize_UserRulesBeforeSystemRules(t *testing.T) {
	userID := uuid.New()
	rules := testutil.NewMockCategoryRuleRepository()
	rules.AddRule(&domain.CategoryRule{Keyword: "coffee", CategoryID: 1, Priority: 1, Scope: domain.ScopeSystem})
	rules.AddRule(&domain.CategoryRule{Keyword: "coffee", CategoryID: 2, Priority: 50, Scope: domain.ScopeUser, OwnerID: &userID})
	c := NewCategorizer(rules, nil, testCategorizerConfig())

	result := c.Categorize(context.Background(), userID, "coffee shop", decimal.NewFromInt(4), "en-US")

	require.NotNil(t, result.CategoryID)
	assert.Equal(t, int32(2), *result.CategoryID)
}

func TestCategorize_ExternalTier(t *testing.T) {
	foodID := int32(7)
	classifier := &testutil.StubClassifier{
		Suggestion: &domain.CategorySuggestion{CategoryID: &foodID, Confidence: 0.8},
	}
	c := NewCategorizer(testutil.NewMockCategoryRuleRepository(), classifier, testCategorizerConfig())

	result := c.Categorize(context.Background(), uuid.New(), "Uber Eats $23", decimal.NewFromInt(23), "en-US")

	require.NotNil(t, result.CategoryID)
	assert.Equal(t, foodID, *result.CategoryID)
	assert.Equal(t, domain.SourceExternal, result.Source)
	assert.InDelta(t, 0.8, result.Confidence, 1e-9)
}

func TestCategorize_ExternalErrorFallsToDefault(t *testing.T) {
	classifier := &testutil.StubClassifier{Err: errors.New("service down")}
	c := NewCategorizer(testutil.NewMockCategoryRuleRepository(), classifier, testCategorizerConfig())

	result := c.Categorize(context.Background(), uuid.New(), "mystery merchant", decimal.NewFromInt(10), "en-US")

	require.NotNil(t, result.CategoryID)
	assert.Equal(t, int32(99), *result.CategoryID)
	assert.Equal(t, domain.SourceDefault, result.Source)
	assert.Zero(t, result.Confidence)
}

func TestCategorize_ExternalTimeoutFallsToDefault(t *testing.T) {
	foodID := int32(7)
	classifier := &testutil.StubClassifier{
		Suggestion: &domain.CategorySuggestion{CategoryID: &foodID, Confidence: 0.9},
		Delay:      200 * time.Millisecond,
	}
	cfg := testCategorizerConfig()
	cfg.ExternalTimeout = 10 * time.Millisecond
	c := NewCategorizer(testutil.NewMockCategoryRuleRepository(), classifier, cfg)

	result := c.Categorize(context.Background(), uuid.New(), "slow merchant", decimal.NewFromInt(10), "en-US")

	assert.Equal(t, domain.SourceDefault, result.Source)
}

func TestCategorize_LowConfidenceSuggestionFallsToDefault(t *testing.T) {
	foodID := int32(7)
	classifier := &testutil.StubClassifier{
		Suggestion: &domain.CategorySuggestion{CategoryID: &foodID, Confidence: 0.2},
	}
	c := NewCategorizer(testutil.NewMockCategoryRuleRepository(), classifier, testCategorizerConfig())

	result := c.Categorize(context.Background(), uuid.New(), "mystery merchant", decimal.NewFromInt(10), "en-US")

	assert.Equal(t, domain.SourceDefault, result.Source)
}

func TestCategorize_IdempotentWhenExternalUnavailable(t *testing.T) {
	classifier := &testutil.StubClassifier{Err: errors.New("unavailable")}
	c := NewCategorizer(testutil.NewMockCategoryRuleRepository(), classifier, testCategorizerConfig())
	userID := uuid.New()

	first := c.Categorize(context.Background(), userID, "same input", decimal.NewFromInt(12), "en-US")
	second := c.Categorize(context.Background(), userID, "same input", decimal.NewFromInt(12), "en-US")

	assert.Equal(t, first, second)
	assert.Equal(t, domain.SourceDefault, first.Source)
}

func TestCategorize_RuleSourceErrorIsAbsorbed(t *testing.T) {
	rules := testutil.NewMockCategoryRuleRepository()
	rules.ActiveErr = errors.New("db down")
	c := NewCategorizer(rules, nil, testCategorizerConfig())

	result := c.Categorize(context.Background(), uuid.New(), "anything", decimal.NewFromInt(1), "en-US")

	assert.Equal(t, domain.SourceDefault, result.Source)
}

func TestCategorize_NoClassifierConfigured(t *testing.T) {
	c := NewCategorizer(testutil.NewMockCategoryRuleRepository(), nil, testCategorizerConfig())

	result := c.Categorize(context.Background(), uuid.New(), "anything", decimal.NewFromInt(1), "en-US")

	assert.Equal(t, domain.SourceDefault, result.Source)
	require.NotNil(t, result.CategoryID)
	assert.Equal(t, int32(99), *result.CategoryID)
}
