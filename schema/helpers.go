package schema

import "math"

// ConvertLegacyToNew converts a legacy phase to its lifecycle state.
// Unknown phases map to backlogged, matching the historical behavior.
func ConvertLegacyToNew(phase LegacyPhase) NodeState {
	if state, ok := LegacyToState[phase]; ok {
		return state
	}
	return StateBacklogged
}

// ConvertNewToLegacy converts a lifecycle state to its legacy phase.
// Unknown states map to gray.
func ConvertNewToLegacy(state NodeState) LegacyPhase {
	if phase, ok := StateToLegacy[state]; ok {
		return phase
	}
	return PhaseGray
}

// DefaultProgress returns the default progress anchor for a state.
func DefaultProgress(state NodeState) int {
	if p, ok := StateProgress[state]; ok {
		return p
	}
	return 0
}

// NewStatus builds a StatusValue for a state with its default progress and
// a consistent legacy shadow.
func NewStatus(state NodeState) StatusValue {
	return NewStatusWithProgress(state, DefaultProgress(state))
}

// NewStatusWithProgress builds a StatusValue with an explicit progress,
// clamped to [0, 100], and a consistent legacy shadow.
func NewStatusWithProgress(state NodeState, progress int) StatusValue {
	progress = ClampProgress(progress)
	return StatusValue{
		State:    state,
		Progress: progress,
		Legacy: Legacy{
			Phase:        ConvertNewToLegacy(state),
			Completeness: float64(progress) / 100.0,
		},
	}
}

// ClampProgress bounds a progress value to the [0, 100] range.
func ClampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

// ProgressFromCompleteness converts a [0,1] completeness float to an
// integer progress percentage.
func ProgressFromCompleteness(completeness float64) int {
	return ClampProgress(int(math.Round(completeness * 100)))
}

// MeanQuality computes the average quality score over nodes that carry one.
// Nodes without a quality annotation do not contribute to the mean.
func MeanQuality(nodes []Node) float64 {
	var sum float64
	var count int
	for _, n := range nodes {
		if n.Status.Quality != nil {
			sum += n.Status.Quality.QualityScore
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// MeanProgress computes the average progress over all nodes.
func MeanProgress(nodes []Node) float64 {
	if len(nodes) == 0 {
		return 0
	}
	var sum int
	for _, n := range nodes {
		sum += n.Status.Progress
	}
	return float64(sum) / float64(len(nodes))
}

// CountStates tallies nodes per lifecycle state.
func CountStates(nodes []Node) map[NodeState]int {
	counts := make(map[NodeState]int, len(AllNodeStates))
	for _, state := range AllNodeStates {
		counts[state] = 0
	}
	for _, n := range nodes {
		counts[n.Status.State]++
	}
	return counts
}
