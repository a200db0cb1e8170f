package replica

// Strategy names the duplication routine a Descriptor uses.
// Use these constants with WithStrategy: `replica.Register[T](replica.WithStrategy(replica.StrategyDeep))`
type Strategy string

const (
	// StrategyShallow copies the value's own representation by Go assignment.
	// Pointers, slices, maps and other references are shared with the original.
	StrategyShallow Strategy = "shallow"

	// StrategyClone calls the type's Clone method.
	StrategyClone Strategy = "clone"

	// StrategyFunc calls a function registered with RegisterFunc.
	StrategyFunc Strategy = "func"

	// StrategyDeep performs a reflective deep copy.
	StrategyDeep Strategy = "deep"

	// StrategyDeepSlowly performs a reflective deep copy that preserves
	// pointer cycles and shared referents.
	StrategyDeepSlowly Strategy = "deep-slowly"

	// StrategyStructure performs a reflective deep copy that fails on shapes
	// it cannot copy instead of sharing them.
	StrategyStructure Strategy = "structure"

	// StrategyCodec marshals the value and unmarshals it into the new storage.
	// Requires WithCodec. Unexported fields do not survive the round trip.
	StrategyCodec Strategy = "codec"
)

// validStrategies contains all strategies accepted by WithStrategy.
var validStrategies = map[Strategy]bool{
	StrategyShallow:    true,
	StrategyClone:      true,
	StrategyFunc:       true,
	StrategyDeep:       true,
	StrategyDeepSlowly: true,
	StrategyStructure:  true,
	StrategyCodec:      true,
}

// IsValidStrategy returns true if the strategy is a known duplication strategy.
func IsValidStrategy(s Strategy) bool {
	return validStrategies[s]
}

// Isolating reports whether a clone made with s shares no referents with
// its original. Clone and Func strategies are trusted to isolate.
func (s Strategy) Isolating() bool {
	return s != StrategyShallow
}
