package qbf

import "math"

// RestartState tracks the Luby restart policy: how many conflicts have
// accumulated since the last restart, and the Luby-sequence threshold
// (scaled by Constant) after which a restart is triggered.
//
// Grounded on data_structures.rs's RestartData.
type RestartState struct {
	RestartCounter        int
	ConflictsUntilRestart int
	Constant              int
	CurrentConflicts      int
}

// NewRestartState returns an initialised restart policy scaled by the
// given Luby constant.
func NewRestartState(constant int) RestartState {
	return RestartState{
		RestartCounter:        1,
		ConflictsUntilRestart: constant,
		Constant:              constant,
	}
}

// UpdateConflictsUntilRestart recomputes ConflictsUntilRestart for the
// i-th restart using the standard Luby sequence: find k = ceil(log2(1+i)),
// and if 1+i is exactly 2^k set the threshold to Constant*2^(k-1);
// otherwise recurse on i - 2^(k-1) + 1.
func (r *RestartState) UpdateConflictsUntilRestart(i int) {
	fractionalK := math.Log2(1 + float64(i))
	k := int(math.Ceil(fractionalK))
	if fractionalK == math.Trunc(fractionalK) {
		r.ConflictsUntilRestart = r.Constant * (1 << uint(k-1))
		return
	}
	index := i - (1<<uint(k))/2 + 1
	r.UpdateConflictsUntilRestart(index)
}

// IncrementRestartCounter bumps the restart counter by one.
func (r *RestartState) IncrementRestartCounter() {
	r.RestartCounter++
}

// IncrementCurrentConflicts bumps the conflict counter for the current
// restart interval by one.
func (r *RestartState) IncrementCurrentConflicts() {
	r.CurrentConflicts++
}

// ResetCurrentConflicts resets the conflict counter after a restart.
func (r *RestartState) ResetCurrentConflicts() {
	r.CurrentConflicts = 0
}

// ShouldRestart reports whether the accumulated conflicts have reached
// the current Luby threshold.
func (r *RestartState) ShouldRestart() bool {
	return r.CurrentConflicts == r.ConflictsUntilRestart
}
