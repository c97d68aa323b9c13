// Package rubric defines the weighted criteria a call is scored against.
package rubric

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// MaxScore is the sum every rubric's scored weights must reach.
	MaxScore = 100
	// MaxWeight is the largest weight a single criterion may carry.
	MaxWeight = 20
)

// Fact names the extracted value an informational criterion displays.
type Fact string

const (
	FactNone          Fact = ""
	FactAgentName     Fact = "agent_name"
	FactCallType      Fact = "call_type"
	FactAccountNumber Fact = "account_number"
)

// Criterion is one weighted line item of the rubric.
type Criterion struct {
	Name string `yaml:"name" json:"name"`
	// Weight is the number of points the criterion is worth. Zero marks an
	// informational criterion that is displayed but never scored.
	Weight   int      `yaml:"weight" json:"weight"`
	Fact     Fact     `yaml:"fact,omitempty" json:"fact,omitempty"`
	Keywords []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	// Suggestion is the remediation offered when the criterion needs improvement.
	Suggestion string `yaml:"suggestion,omitempty" json:"suggestion,omitempty"`
}

// Informational reports whether the criterion is excluded from scoring.
func (c Criterion) Informational() bool {
	return c.Weight == 0
}

func (c Criterion) clone() Criterion {
	c.Keywords = slices.Clone(c.Keywords)
	return c
}

// Rubric is an immutable, ordered set of criteria. Iteration order is the
// order criteria appear on the scorecard and the order suggestions are offered.
type Rubric struct {
	name     string
	criteria []Criterion
	fillers  []string
}

// New validates criteria and returns a rubric holding private copies of them.
// When fillers is empty the generic filler suggestions are used.
func New(name string, criteria []Criterion, fillers []string) (*Rubric, error) {
	if err := Validate(criteria); err != nil {
		return nil, err
	}

	r := &Rubric{
		name:     name,
		criteria: make([]Criterion, 0, len(criteria)),
		fillers:  slices.Clone(fillers),
	}
	for _, c := range criteria {
		r.criteria = append(r.criteria, c.clone())
	}
	if len(r.fillers) == 0 {
		r.fillers = slices.Clone(genericSuggestions)
	}
	return r, nil
}

// Name returns the rubric's display name.
func (r *Rubric) Name() string { return r.name }

// Criteria returns a copy of the criteria in rubric order.
func (r *Rubric) Criteria() []Criterion {
	out := make([]Criterion, 0, len(r.criteria))
	for _, c := range r.criteria {
		out = append(out, c.clone())
	}
	return out
}

// Criterion looks up a criterion by name.
func (r *Rubric) Criterion(name string) (Criterion, bool) {
	for _, c := range r.criteria {
		if c.Name == name {
			return c.clone(), true
		}
	}
	return Criterion{}, false
}

// Suggestion returns the remediation text authored for the named criterion.
func (r *Rubric) Suggestion(name string) (string, bool) {
	c, ok := r.Criterion(name)
	if !ok || c.Suggestion == "" {
		return "", false
	}
	return c.Suggestion, true
}

// Fillers returns the generic suggestions used to pad a short improvement plan.
func (r *Rubric) Fillers() []string {
	return slices.Clone(r.fillers)
}

// TotalWeight sums the weights of all scored criteria.
func (r *Rubric) TotalWeight() int {
	return totalWeight(r.criteria)
}

func totalWeight(criteria []Criterion) int {
	total := 0
	for _, c := range criteria {
		total += c.Weight
	}
	return total
}

// Validate checks the structural invariants of a list of criteria: unique,
// non-empty names, weights within [0, MaxWeight], facts only on informational
// criteria, and scored weights summing to MaxScore.
func Validate(criteria []Criterion) error {
	if len(criteria) == 0 {
		return errors.New("rubric has no criteria")
	}

	var errs []error
	seen := make(map[string]bool, len(criteria))

	for i, c := range criteria {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("criterion %d: name is empty", i+1))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("criterion %q: duplicate name", name))
		}
		seen[name] = true

		if c.Weight < 0 || c.Weight > MaxWeight {
			errs = append(errs, fmt.Errorf("criterion %q: weight %d is outside [0, %d]", name, c.Weight, MaxWeight))
		}
		if c.Fact != FactNone && !c.Informational() {
			errs = append(errs, fmt.Errorf("criterion %q: only zero-weight criteria can display a fact", name))
		}
	}

	if total := totalWeight(criteria); total != MaxScore {
		errs = append(errs, fmt.Errorf("scored weights sum to %d, want %d", total, MaxScore))
	}

	return errors.Join(errs...)
}
