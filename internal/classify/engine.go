// Package classify applies ordered keyword rules to unclassified
// transactions. Classification is a one-way ratchet: once a record has a
// category, no rule will ever change it again, so the engine is safe to
// re-run at any time, including concurrently with ingestion.
package classify

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

// Store is the rule-engine view of the backing store.
type Store interface {
	// Rules returns the rules in insertion order.
	Rules() ([]model.Rule, error)
	// ApplyRule atomically classifies every still-Uncategorized record
	// whose name contains the rule keyword, returning the count changed.
	ApplyRule(rule model.Rule) (int, error)
}

// Engine runs one classification pass over the store.
type Engine struct {
	store Store
	log   zerolog.Logger
}

// NewEngine creates a rule engine over the given store.
func NewEngine(store Store, log zerolog.Logger) *Engine {
	return &Engine{store: store, log: log}
}

// Run applies every rule in order to the residual Uncategorized set and
// returns the total number of records classified. A record ingested
// mid-pass may be missed; re-running picks it up, since a pass over an
// exhausted Uncategorized set changes nothing.
func (e *Engine) Run() (int, error) {
	rules, err := e.store.Rules()
	if err != nil {
		return 0, fmt.Errorf("loading rules: %w", err)
	}

	total := 0
	for _, rule := range rules {
		changed, err := e.store.ApplyRule(rule)
		if err != nil {
			return total, fmt.Errorf("applying rule %q: %w", rule.Keyword, err)
		}
		total += changed
		e.log.Debug().
			Str("keyword", rule.Keyword).
			Str("category", rule.Category).
			Int("changed", changed).
			Msg("rule applied")
	}

	e.log.Info().Int("rules", len(rules)).Int("updated", total).Msg("classification pass complete")
	return total, nil
}
