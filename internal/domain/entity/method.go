package entity

// Strategy identifies how a classifier backend is invoked
type Strategy string

const (
	// StrategyBatch scores every text in a single call with an explicit top-k
	StrategyBatch Strategy = "batch"
	// StrategySequential scores one document per call with full label probabilities
	StrategySequential Strategy = "sequential"
)

// Sentiment class space: five ordinal classes, "1" (very negative) through "5" (very positive)
const NumClasses = 5

// ClassNames returns the declared class-name set in canonical ascending order
func ClassNames() []string {
	return []string{"1", "2", "3", "4", "5"}
}

// Method binds an explanation method identifier to its model artifact and
// invocation strategy. Methods are defined once at process start and never mutated.
type Method struct {
	Name         string
	ArtifactPath string
	Strategy     Strategy
}
