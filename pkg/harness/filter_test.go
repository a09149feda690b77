package harness

import (
	"testing"
)

func TestScenarioFilter_Selects(t *testing.T) {
	enabled := Scenario{Name: "invalid-word-rejected"}
	disabled := Scenario{Name: "verify-title", Disabled: true}

	tests := []struct {
		name     string
		include  []string
		exclude  []string
		scenario Scenario
		want     bool
	}{
		{
			name:     "no patterns - enabled runs",
			scenario: enabled,
			want:     true,
		},
		{
			name:     "no patterns - disabled stays off",
			scenario: disabled,
			want:     false,
		},
		{
			name:     "include by exact name enables disabled",
			include:  []string{"verify-title"},
			scenario: disabled,
			want:     true,
		},
		{
			name:     "include glob match",
			include:  []string{"*-word-*"},
			scenario: enabled,
			want:     true,
		},
		{
			name:     "include glob no match",
			include:  []string{"verify-*"},
			scenario: enabled,
			want:     false,
		},
		{
			name:     "exclude takes precedence",
			include:  []string{"*"},
			exclude:  []string{"invalid-*"},
			scenario: enabled,
			want:     false,
		},
		{
			name:     "exclude without include",
			exclude:  []string{"verify-board-exists"},
			scenario: enabled,
			want:     true,
		},
		{
			name:     "alternatives",
			include:  []string{"{read-how-to-play,invalid-word-rejected}"},
			scenario: enabled,
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewScenarioFilter(tt.include, tt.exclude)
			if err != nil {
				t.Fatalf("NewScenarioFilter() error = %v", err)
			}
			if got := f.Selects(tt.scenario); got != tt.want {
				t.Errorf("Selects(%q) = %v, want %v", tt.scenario.Name, got, tt.want)
			}
		})
	}
}

func TestScenarioFilter_ApplyKeepsOrder(t *testing.T) {
	f, err := NewScenarioFilter(nil, []string{"read-*"})
	if err != nil {
		t.Fatal(err)
	}

	got := f.Apply(DefaultScenarios())
	want := []string{ScenarioBoard, ScenarioInvalidWord, ScenarioValidWord}
	if len(got) != len(want) {
		t.Fatalf("Apply() returned %d scenarios, want %d", len(got), len(want))
	}
	for i, s := range got {
		if s.Name != want[i] {
			t.Errorf("Apply()[%d] = %s, want %s", i, s.Name, want[i])
		}
	}
}

func TestNewScenarioFilter_InvalidPatterns(t *testing.T) {
	if _, err := NewScenarioFilter([]string{"[invalid"}, nil); err == nil {
		t.Error("expected error for invalid include pattern")
	}
	if _, err := NewScenarioFilter(nil, []string{"[invalid"}); err == nil {
		t.Error("expected error for invalid exclude pattern")
	}
}
