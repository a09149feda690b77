package harness

import (
	"fmt"

	"github.com/gobwas/glob"
	"github.com/samber/lo"
)

// ScenarioFilter selects scenarios by name with glob patterns.
type ScenarioFilter struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewScenarioFilter compiles the include and exclude patterns.
func NewScenarioFilter(include, exclude []string) (*ScenarioFilter, error) {
	f := &ScenarioFilter{}

	for _, pattern := range include {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern '%s': %w", pattern, err)
		}
		f.include = append(f.include, g)
	}

	for _, pattern := range exclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
		f.exclude = append(f.exclude, g)
	}

	return f, nil
}

// Selects reports whether the scenario should run.
func (f *ScenarioFilter) Selects(s Scenario) bool {
	// Exclude patterns take precedence
	for _, pattern := range f.exclude {
		if pattern.Match(s.Name) {
			return false
		}
	}

	// With no include patterns every enabled scenario runs
	if len(f.include) == 0 {
		return !s.Disabled
	}

	for _, pattern := range f.include {
		if pattern.Match(s.Name) {
			return true
		}
	}

	return false
}

// Apply returns the selected scenarios in their original order.
func (f *ScenarioFilter) Apply(scenarios []Scenario) []Scenario {
	return lo.Filter(scenarios, func(s Scenario, _ int) bool {
		return f.Selects(s)
	})
}
