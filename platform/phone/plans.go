package phone

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed plans.yaml
var defaultPlans []byte

var defaultRegistry = MustLoadRegistry(defaultPlans)

// Default returns the registry built from the embedded plan table.
func Default() *Registry {
	return defaultRegistry
}

// NumberingPlan describes how numbers of one country code (or the domestic,
// code-less branch) are grouped for display.
type NumberingPlan struct {
	Name   string `yaml:"name" json:"name"`
	Region string `yaml:"region" json:"region"`
	// Code is the calling code without the marker; empty for the domestic plan.
	Code string `yaml:"code" json:"code,omitempty"`
	// TrunkPrefix is prepended to the national digits once the code is stripped.
	TrunkPrefix string `yaml:"trunkPrefix" json:"trunkPrefix,omitempty"`
	Separator   string `yaml:"separator" json:"separator"`
	// IncludeCode re-attaches "+code " in front of the grouped digits.
	IncludeCode bool          `yaml:"includeCode" json:"includeCode"`
	Groups      map[int][]int `yaml:"groups" json:"groups"`
}

// IsDomestic reports whether the plan is the code-less domestic plan.
func (p NumberingPlan) IsDomestic() bool {
	return p.Code == ""
}

// Template returns the grouping template for a national digit length.
func (p NumberingPlan) Template(length int) ([]int, bool) {
	groups, ok := p.Groups[length]
	if !ok {
		return nil, false
	}
	return append([]int(nil), groups...), true
}

// Lengths returns the groupable national lengths in ascending order.
func (p NumberingPlan) Lengths() []int {
	lengths := make([]int, 0, len(p.Groups))
	for length := range p.Groups {
		lengths = append(lengths, length)
	}
	sort.Ints(lengths)
	return lengths
}

// Label is a short identifier for logs and metrics.
func (p NumberingPlan) Label() string {
	if p.IsDomestic() {
		return "domestic"
	}
	return "+" + p.Code
}

func (p NumberingPlan) clone() NumberingPlan {
	groups := make(map[int][]int, len(p.Groups))
	for length, sizes := range p.Groups {
		groups[length] = append([]int(nil), sizes...)
	}
	p.Groups = groups
	return p
}

func (p NumberingPlan) validate() error {
	if !p.IsDomestic() {
		if len(p.Code) > 3 || strings.Trim(p.Code, "0123456789") != "" {
			return fmt.Errorf("plan %q: code %q must be 1-3 digits", p.Name, p.Code)
		}
	}
	if p.TrunkPrefix != "" && strings.Trim(p.TrunkPrefix, "0123456789") != "" {
		return fmt.Errorf("plan %q: trunk prefix %q must be digits", p.Name, p.TrunkPrefix)
	}
	if len(p.Groups) == 0 {
		return fmt.Errorf("plan %q: no grouping templates", p.Name)
	}
	for length, sizes := range p.Groups {
		sum := 0
		for _, size := range sizes {
			if size <= 0 {
				return fmt.Errorf("plan %q: length %d has a non-positive group", p.Name, length)
			}
			sum += size
		}
		if sum != length {
			return fmt.Errorf("plan %q: groups for length %d add up to %d", p.Name, length, sum)
		}
	}
	return nil
}

// Registry is an immutable set of numbering plans.
type Registry struct {
	domestic      NumberingPlan
	international []NumberingPlan
}

type registryDocument struct {
	Domestic      NumberingPlan   `yaml:"domestic"`
	International []NumberingPlan `yaml:"international"`
}

// NewRegistry validates the plans and builds a registry from them.
func NewRegistry(domestic NumberingPlan, international ...NumberingPlan) (*Registry, error) {
	if !domestic.IsDomestic() {
		return nil, fmt.Errorf("domestic plan %q must not have a calling code", domestic.Name)
	}
	if err := domestic.validate(); err != nil {
		return nil, err
	}

	r := &Registry{domestic: withDefaults(domestic)}
	seen := make(map[string]struct{}, len(international))
	for _, plan := range international {
		if plan.IsDomestic() {
			return nil, fmt.Errorf("international plan %q has no calling code", plan.Name)
		}
		if _, dup := seen[plan.Code]; dup {
			return nil, fmt.Errorf("calling code %q registered twice", plan.Code)
		}
		if err := plan.validate(); err != nil {
			return nil, err
		}
		seen[plan.Code] = struct{}{}
		r.international = append(r.international, withDefaults(plan))
	}

	return r, nil
}

// LoadRegistry parses a YAML plan table.
func LoadRegistry(data []byte) (*Registry, error) {
	var doc registryDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse plan table: %w", err)
	}
	return NewRegistry(doc.Domestic, doc.International...)
}

// LoadRegistryFile reads a plan table from disk. An empty path selects the
// embedded table.
func LoadRegistryFile(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan table: %w", err)
	}
	return LoadRegistry(data)
}

// MustLoadRegistry is LoadRegistry for tables known at compile time.
func MustLoadRegistry(data []byte) *Registry {
	r, err := LoadRegistry(data)
	if err != nil {
		panic("phone: " + err.Error())
	}
	return r
}

func withDefaults(p NumberingPlan) NumberingPlan {
	p = p.clone()
	if p.Separator == "" {
		p.Separator = " "
	}
	return p
}

// Domestic returns the code-less plan.
func (r *Registry) Domestic() NumberingPlan {
	return r.domestic.clone()
}

// Plans returns the international plans in table order.
func (r *Registry) Plans() []NumberingPlan {
	plans := make([]NumberingPlan, 0, len(r.international))
	for _, plan := range r.international {
		plans = append(plans, plan.clone())
	}
	return plans
}

// Lookup finds an international plan by its exact calling code.
func (r *Registry) Lookup(code string) (NumberingPlan, bool) {
	for _, plan := range r.international {
		if plan.Code == code {
			return plan.clone(), true
		}
	}
	return NumberingPlan{}, false
}
