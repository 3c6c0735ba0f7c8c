package race

import (
	"testing"
	"time"
)

func TestFastRunnerWinsAndKillsSlow(t *testing.T) {
	slowKilled := make(chan struct{}, 1)
	fast := New(KindKnuthBendix, func(stopped func() bool) {})
	slow := New(KindToddCoxeter, func(stopped func() bool) {
		for i := 0; i < 1000; i++ {
			if stopped() {
				select {
				case slowKilled <- struct{}{}:
				default:
				}
				return
			}
			time.Sleep(time.Millisecond)
		}
	})

	r := NewRace()
	r.Add(fast)
	r.Add(slow)
	r.Run()

	if r.Winner() != fast {
		t.Fatalf("winner = %v, want fast runner", r.Winner())
	}
	if !slow.Dead() {
		t.Fatalf("slow runner should have been killed")
	}
	select {
	case <-slowKilled:
	case <-time.After(2 * time.Second):
		t.Fatalf("slow runner never observed stopped() == true")
	}
}

func TestFindOfType(t *testing.T) {
	kb := New(KindKnuthBendix, func(stopped func() bool) {})
	tc := New(KindToddCoxeter, func(stopped func() bool) {})
	r := NewRace()
	r.Add(kb)
	r.Add(tc)

	if got := r.FindOfType(KindToddCoxeter); got != tc {
		t.Fatalf("FindOfType(ToddCoxeter) = %v, want %v", got, tc)
	}
	if got := r.FindOfType(KindCongruenceByPairs); got != nil {
		t.Fatalf("FindOfType(CongruenceByPairs) = %v, want nil", got)
	}
}

func TestStoppedDisjunction(t *testing.T) {
	task := New(KindOrbitEngine, func(stopped func() bool) {})
	if task.Stopped() {
		t.Fatalf("fresh task should not be stopped")
	}
	task.Kill()
	if !task.Stopped() || !task.Dead() {
		t.Fatalf("killed task should report Stopped() and Dead()")
	}
}

func TestRunForBoundsRuntime(t *testing.T) {
	task := New(KindKnuthBendix, func(stopped func() bool) {
		for !stopped() {
			time.Sleep(time.Millisecond)
		}
	})
	start := time.Now()
	task.RunFor(50 * time.Millisecond)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("RunFor(50ms) took %v", elapsed)
	}
	if task.Finished() {
		t.Fatalf("a timed-out runner must not report Finished")
	}
}

func TestRunUntilPredicate(t *testing.T) {
	calls := 0
	task := New(KindCongruenceByPairs, func(stopped func() bool) {
		for !stopped() {
			calls++
		}
	})
	task.RunUntil(func() bool { return calls >= 3 })
	if !task.StoppedByPredicate() {
		t.Fatalf("runner should record that the predicate stopped it")
	}
	if task.Finished() {
		t.Fatalf("a predicate-stopped runner must not report Finished")
	}
}

func TestSingleRunnerRunsSynchronously(t *testing.T) {
	ran := false
	task := New(KindKnuthBendix, func(stopped func() bool) { ran = true })
	r := NewRace()
	r.Add(task)
	r.Run()
	if !ran {
		t.Fatalf("single-runner race should execute the work")
	}
	if r.Winner() != task {
		t.Fatalf("single-runner race should declare its only runner the winner")
	}
}
