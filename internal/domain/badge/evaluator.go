package badge

import "math"

// State tags an evaluation result so callers never infer "new" from the
// behaviour of an insert.
type State string

const (
	StateNotQualified State = "not_qualified"
	StateNewlyEarned  State = "newly_earned"
	StateAlreadyHeld  State = "already_held"
)

type Result struct {
	Definition Definition
	State      State
	Current    int64
	Progress   int
}

// Progress is what the profile screen shows for one badge.
type Progress struct {
	Definition Definition
	Current    int64
	Percent    int
	Held       bool
}

// Qualifies compares current against the definition's threshold.
func Qualifies(def Definition, current int64) bool {
	if def.ConditionType.Inverted() {
		return current > 0 && current <= def.ConditionValue
	}
	return current >= def.ConditionValue
}

// ProgressPercent is min(100, round(100*current/target)) for ordinary
// counters. Inverted counters report 100 or 0: distance to a global
// sequence number is not meaningful.
func ProgressPercent(def Definition, current int64) int {
	if def.ConditionType.Inverted() {
		if Qualifies(def, current) {
			return 100
		}
		return 0
	}
	if def.ConditionValue <= 0 {
		return 100
	}
	if current <= 0 {
		return 0
	}
	pct := math.Round(100 * float64(current) / float64(def.ConditionValue))
	if pct > 100 {
		return 100
	}
	return int(pct)
}

// Evaluate checks every definition against the counters. held lists the
// badge ids already earned. Definitions with an unknown counter never
// qualify.
func Evaluate(counters Counters, definitions []Definition, held map[string]struct{}) []Result {
	results := make([]Result, 0, len(definitions))
	for _, def := range definitions {
		current, known := counters[def.ConditionType]
		result := Result{
			Definition: def,
			State:      StateNotQualified,
			Current:    current,
			Progress:   ProgressPercent(def, current),
		}
		_, alreadyHeld := held[def.ID]
		switch {
		case alreadyHeld:
			result.State = StateAlreadyHeld
			result.Progress = 100
		case known && Qualifies(def, current):
			result.State = StateNewlyEarned
		}
		results = append(results, result)
	}
	return results
}

// NewlyEarned filters results down to the definitions that just qualified.
func NewlyEarned(results []Result) []Definition {
	out := make([]Definition, 0)
	for _, r := range results {
		if r.State == StateNewlyEarned {
			out = append(out, r.Definition)
		}
	}
	return out
}
