// Package rules assigns a subcategory to freshly parsed transactions.
package rules

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/paisa/internal/category"
	"github.com/MrJamesThe3rd/paisa/internal/parser"
)

var (
	ErrDuplicate    = errors.New("rule pattern already exists")
	ErrEmptyPattern = errors.New("pattern is required")
)

// Rule maps parsed fields to a "Category/Subcategory" path.
type Rule struct {
	Name        string
	Subcategory string
	Match       func(f parser.Fields) bool
}

// Mapping is a learned merchant pattern, stored and matched case-insensitively as a substring.
type Mapping struct {
	ID            uuid.UUID
	Pattern       string
	SubcategoryID uuid.UUID
	CreatedAt     time.Time
}

// MerchantContains matches when the merchant contains any keyword, ignoring case.
func MerchantContains(keywords ...string) func(f parser.Fields) bool {
	lowered := make([]string, 0, len(keywords))

	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lowered = append(lowered, k)
		}
	}

	return func(f parser.Fields) bool {
		merchant := strings.ToLower(f.Merchant)

		for _, k := range lowered {
			if strings.Contains(merchant, k) {
				return true
			}
		}

		return false
	}
}

// Builtin returns the rules that always run before file and learned rules.
func Builtin() []Rule {
	return []Rule{
		{
			Name:        "cred.cc.payment",
			Subcategory: "Credit Bill/Credit card",
			Match:       MerchantContains("cred.cc.payment"),
		},
	}
}

// MappingFinder returns the subcategory of the longest learned pattern contained in merchant,
// or nil when none matches.
type MappingFinder interface {
	FindMatch(ctx context.Context, merchant string) (*uuid.UUID, error)
}

type compiledRule struct {
	name  string
	subID uuid.UUID
	match func(f parser.Fields) bool
}

// Engine evaluates rules in order; the first match wins.
type Engine struct {
	rules    []compiledRule
	mappings MappingFinder
	taxonomy *category.Taxonomy
	logger   *zap.Logger
}

// NewEngine resolves every rule's subcategory path against the taxonomy.
// mappings may be nil.
func NewEngine(taxonomy *category.Taxonomy, rules []Rule, mappings MappingFinder, logger *zap.Logger) (*Engine, error) {
	compiled := make([]compiledRule, 0, len(rules))

	for _, r := range rules {
		if r.Match == nil {
			return nil, fmt.Errorf("rule %q has no predicate", r.Name)
		}

		sub, err := taxonomy.Lookup(r.Subcategory)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}

		compiled = append(compiled, compiledRule{name: r.Name, subID: sub.ID, match: r.Match})
	}

	return &Engine{rules: compiled, mappings: mappings, taxonomy: taxonomy, logger: logger}, nil
}

// Apply returns the subcategory for f, or nil when nothing matches and a human should decide.
func (e *Engine) Apply(ctx context.Context, f parser.Fields) (*uuid.UUID, error) {
	for _, r := range e.rules {
		if r.match(f) {
			e.logger.Debug("rule matched", zap.String("rule", r.name), zap.String("merchant", f.Merchant))
			return &r.subID, nil
		}
	}

	if e.mappings == nil || strings.TrimSpace(f.Merchant) == "" {
		return nil, nil
	}

	subID, err := e.mappings.FindMatch(ctx, f.Merchant)
	if err != nil {
		return nil, fmt.Errorf("finding learned rule: %w", err)
	}

	if subID == nil {
		return nil, nil
	}

	if _, ok := e.taxonomy.Subcategory(*subID); !ok {
		e.logger.Warn("learned rule points to unknown subcategory", zap.String("subcategory_id", subID.String()))
		return nil, nil
	}

	e.logger.Debug("learned rule matched", zap.String("merchant", f.Merchant))

	return subID, nil
}
