// Package rules implements the ordered severity decision for an analysis
// run. Rules are evaluated in a fixed priority order and the first rule
// that matches supplies both the verdict and the recommendation list; there
// is no fallthrough.
package rules

import (
	"strings"

	"github.com/auditlab-io/tableaudit/pkg/anomaly"
	"github.com/auditlab-io/tableaudit/pkg/config"
	"github.com/auditlab-io/tableaudit/pkg/quality"
	"github.com/auditlab-io/tableaudit/pkg/report"
	"github.com/auditlab-io/tableaudit/pkg/trend"
)

// Evidence is everything a rule may consult. It is assembled once by the
// engine and shared read-only across the chain.
type Evidence struct {
	Config       config.Config
	QualityScore float64
	Issues       []quality.Issue
	Anomalies    []anomaly.Finding
	Trends       []trend.Finding
}

// Outcome is the decision of a matched rule.
type Outcome struct {
	Verdict         report.Verdict
	Recommendations []string
}

// Rule inspects the evidence and either claims the verdict or passes.
type Rule interface {
	Name() string
	Evaluate(ev Evidence) (Outcome, bool)
}

// RuleFunc adapts a plain function to the Rule interface.
type RuleFunc struct {
	name string
	fn   func(Evidence) (Outcome, bool)
}

// NewRuleFunc creates a function-backed rule. An empty name or nil function
// is a programmer error.
func NewRuleFunc(name string, fn func(Evidence) (Outcome, bool)) Rule {
	sanitized := strings.TrimSpace(name)
	if sanitized == "" {
		panic("rule name cannot be empty")
	}
	if fn == nil {
		panic("rule func cannot be nil")
	}
	return &RuleFunc{name: sanitized, fn: fn}
}

// Name returns the rule name.
func (r *RuleFunc) Name() string { return r.name }

// Evaluate runs the wrapped function.
func (r *RuleFunc) Evaluate(ev Evidence) (Outcome, bool) { return r.fn(ev) }

// Runner evaluates rules in registration order.
type Runner struct {
	rules []Rule
}

// NewRunner builds a runner over an explicit rule chain.
func NewRunner(rules ...Rule) *Runner {
	return &Runner{rules: append([]Rule(nil), rules...)}
}

// Default returns the standard chain: critical, warning, normal. The last
// rule matches unconditionally, so Run always produces a verdict.
func Default() *Runner {
	return NewRunner(criticalRule{}, warningRule{}, normalRule{})
}

// Rules returns a copy of the registered chain.
func (r *Runner) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Run returns the first matching rule's outcome. A chain without a terminal
// always-matching rule falls back to a bare normal verdict.
func (r *Runner) Run(ev Evidence) Outcome {
	for _, rule := range r.rules {
		if outcome, ok := rule.Evaluate(ev); ok {
			return outcome
		}
	}
	return Outcome{Verdict: report.VerdictNormal, Recommendations: []string{}}
}
