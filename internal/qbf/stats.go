package qbf

// Statistics accumulates solve-run counters used for reporting once a
// search terminates.
//
// Grounded on data_structures.rs's Statistics.
type Statistics struct {
	PropagationCount   int
	BacktrackCount     int
	LearnedClauseCount int
}

func (s *Statistics) IncrementPropagationCount() {
	s.PropagationCount++
}

func (s *Statistics) IncrementBacktrackCount() {
	s.BacktrackCount++
}

func (s *Statistics) IncrementLearnedClauseCount() {
	s.LearnedClauseCount++
}
