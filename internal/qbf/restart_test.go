package qbf

import "testing"

func TestLubySequence(t *testing.T) {
	want := []int{1, 1, 2, 1, 1, 2, 4, 1, 1, 2, 1, 1, 2, 4, 8}
	r := NewRestartState(1)
	for i, w := range want {
		r.UpdateConflictsUntilRestart(i + 1)
		if r.ConflictsUntilRestart != w {
			t.Errorf("i=%d: ConflictsUntilRestart = %d, want %d", i+1, r.ConflictsUntilRestart, w)
		}
	}
}

func TestRestartStateLifecycle(t *testing.T) {
	r := NewRestartState(100)
	if r.ShouldRestart() {
		t.Fatal("fresh restart state should not trigger immediately")
	}
	for i := 0; i < 100; i++ {
		r.IncrementCurrentConflicts()
	}
	if !r.ShouldRestart() {
		t.Fatal("expected restart after reaching threshold")
	}
	r.ResetCurrentConflicts()
	if r.ShouldRestart() {
		t.Fatal("restart state should reset")
	}
	r.IncrementRestartCounter()
	if r.RestartCounter != 2 {
		t.Errorf("RestartCounter = %d, want 2", r.RestartCounter)
	}
}
