package replica

import "testing"

func TestIsValidStrategy(t *testing.T) {
	tests := []struct {
		strategy Strategy
		want     bool
	}{
		{StrategyShallow, true},
		{StrategyClone, true},
		{StrategyFunc, true},
		{StrategyDeep, true},
		{StrategyDeepSlowly, true},
		{StrategyStructure, true},
		{StrategyCodec, true},
		{"unknown", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			if got := IsValidStrategy(tt.strategy); got != tt.want {
				t.Errorf("IsValidStrategy(%q) = %v, want %v", tt.strategy, got, tt.want)
			}
		})
	}
}

func TestStrategy_Isolating(t *testing.T) {
	if StrategyShallow.Isolating() {
		t.Error("shallow copies share referents")
	}
	for _, s := range []Strategy{StrategyClone, StrategyFunc, StrategyDeep, StrategyDeepSlowly, StrategyStructure, StrategyCodec} {
		if !s.Isolating() {
			t.Errorf("%s should isolate", s)
		}
	}
}
