/*
Package race implements Runner (a cooperative, stoppable task contract)
and Race (parallel execution of several Runners, first to finish wins,
the rest cross-killed) per spec §4.6/§4.7. The Runner hierarchy is
recast, per spec §9's "dynamic dispatch" note, as a uniform Kind-tagged
facade rather than a closed class hierarchy: callers wrap a
knuthbendix.Core, a coset.ToddCoxeter, a congruence.ByPairs, or an
orbit.Engine's Run method inside a Task, tagging it with the Kind it
represents so FindOfType can still do the type-directed lookup the
source's dynamic_cast-based find_of_type performed.

Governed by a 3-Clause BSD license, in keeping with the rest of this
module.
*/
package race

import (
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return gtrace.CoreTracer
}

// Kind tags which of the closed set of task kinds a Runner wraps (spec
// §9, "the Runner hierarchy is a closed set of task kinds").
type Kind string

const (
	KindKnuthBendix       Kind = "KnuthBendix"
	KindToddCoxeter       Kind = "ToddCoxeter"
	KindCongruenceByPairs Kind = "CongruenceByPairs"
	KindOrbitEngine       Kind = "OrbitEngine"
)

// Work is the subclass algorithm a Task wraps: it must poll stopped
// periodically (at least once per outer-loop iteration, per spec §9's
// "suspension points") and return promptly once it reports true.
type Work func(stopped func() bool)

// Runner is the uniform run/stopped facade the Race drives (spec §4.6).
type Runner interface {
	Kind() Kind
	ID() uuid.UUID
	Run()
	RunFor(d time.Duration)
	RunUntil(predicate func() bool)
	Kill()
	TimedOut() bool
	Dead() bool
	Finished() bool
	StoppedByPredicate() bool
	Stopped() bool
	Report() bool
}

// Task is the sole concrete Runner implementation: a tagged Work closure
// plus the stoppable-task state spec §4.6 describes (started, finished,
// dead, stopped_by_predicate, deadline, report cadence).
type Task struct {
	mu sync.Mutex

	id   uuid.UUID
	kind Kind
	work Work

	started  bool
	finished bool
	dead     bool
	stoppedByPredicate bool

	hasDeadline bool
	deadline    time.Time

	predicate func() bool

	reportInterval time.Duration
	lastReport     time.Time
}

// New wraps work as a Runner of the given kind.
func New(kind Kind, work Work) *Task {
	return &Task{
		id:             uuid.New(),
		kind:           kind,
		work:           work,
		reportInterval: time.Second,
	}
}

func (t *Task) Kind() Kind      { return t.kind }
func (t *Task) ID() uuid.UUID   { return t.id }

func (t *Task) setFinished() {
	if t.Stopped() {
		return
	}
	t.mu.Lock()
	t.finished = true
	t.mu.Unlock()
}

// stopped is the predicate passed down into Work; it is the disjunction
// described in spec §4.6: timed_out() or finished() or dead() or
// stopped_by_predicate.
func (t *Task) stopped() bool {
	return t.Stopped()
}

// Run executes work synchronously on the calling goroutine, exactly as
// the single-runner fast path in Race.Run does.
func (t *Task) Run() {
	t.mu.Lock()
	t.started = true
	t.mu.Unlock()

	t.work(t.stopped)

	t.setFinished()
}

// RunFor sets a deadline, runs, then clears it.
func (t *Task) RunFor(d time.Duration) {
	t.mu.Lock()
	t.hasDeadline = true
	t.deadline = time.Now().Add(d)
	t.mu.Unlock()

	t.Run()

	t.mu.Lock()
	t.hasDeadline = false
	t.mu.Unlock()
}

// RunUntil installs predicate, runs, then clears it; Stopped records
// stoppedByPredicate the first time the predicate fires.
func (t *Task) RunUntil(predicate func() bool) {
	t.mu.Lock()
	t.predicate = predicate
	t.mu.Unlock()

	t.Run()

	t.mu.Lock()
	t.predicate = nil
	t.mu.Unlock()
}

// Kill atomically marks the runner dead; the runner may be left in an
// invalid state after Kill, per spec §4.6.
func (t *Task) Kill() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dead = true
}

func (t *Task) TimedOut() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hasDeadline && time.Now().After(t.deadline)
}

func (t *Task) Dead() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dead
}

func (t *Task) Finished() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.finished
}

func (t *Task) StoppedByPredicate() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stoppedByPredicate
}

// Stopped is the disjunction timed_out() || finished() || dead() ||
// stopped_by_predicate. The plain state is read under one lock snapshot;
// the installed predicate (arbitrary caller code, which may itself
// inspect this task) is invoked only after the lock is released.
func (t *Task) Stopped() bool {
	t.mu.Lock()
	timedOut := t.hasDeadline && time.Now().After(t.deadline)
	finished, dead, byPred := t.finished, t.dead, t.stoppedByPredicate
	pred := t.predicate
	t.mu.Unlock()
	if timedOut || finished || dead || byPred {
		return true
	}
	if pred != nil && pred() {
		t.mu.Lock()
		t.stoppedByPredicate = true
		t.mu.Unlock()
		return true
	}
	return false
}

// Report returns true at most once per reportInterval.
func (t *Task) Report() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	if now.Sub(t.lastReport) < t.reportInterval {
		return false
	}
	t.lastReport = now
	return true
}

// Race runs several Runners in parallel; the first to finish wins and
// cross-kills the rest (spec §4.7).
type Race struct {
	runners    []Runner
	maxThreads int
	winner     Runner
}

// NewRace creates an empty race with maxThreads defaulting to
// runtime.NumCPU (spec §4.7, "default: hardware concurrency").
func NewRace() *Race {
	return &Race{maxThreads: runtime.NumCPU()}
}

// WithMaxThreads overrides the default worker cap.
func (r *Race) WithMaxThreads(n int) *Race {
	r.maxThreads = n
	return r
}

// Add appends a runner to the race; must be called before Run.
func (r *Race) Add(runner Runner) {
	r.runners = append(r.runners, runner)
}

// Run starts one worker per runner (bounded by maxThreads), waits for
// the first to report Finished, then kills the rest. If only one runner
// is present, it runs synchronously on the calling goroutine.
func (r *Race) Run() {
	r.run(func(run Runner) { run.Run() })
}

// RunFor races all runners with a shared per-runner time budget.
func (r *Race) RunFor(d time.Duration) {
	r.run(func(run Runner) { run.RunFor(d) })
}

// RunUntil races all runners against a shared stop predicate.
func (r *Race) RunUntil(predicate func() bool) {
	r.run(func(run Runner) { run.RunUntil(predicate) })
}

func (r *Race) run(invoke func(Runner)) {
	if len(r.runners) == 0 {
		return
	}
	if len(r.runners) == 1 {
		invoke(r.runners[0])
		if r.runners[0].Finished() {
			r.winner = r.runners[0]
		}
		return
	}

	sem := make(chan struct{}, r.maxThreads)
	done := make(chan Runner, len(r.runners))
	var wg sync.WaitGroup

	for _, run := range r.runners {
		run := run
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			defer func() {
				if err := recover(); err != nil {
					tracer().Errorf("race: runner %s (%s) panicked: %v", run.ID(), run.Kind(), err)
				}
			}()
			invoke(run)
			if run.Finished() {
				done <- run
			}
		}()
	}

	go func() {
		wg.Wait()
		close(done)
	}()

	winner, ok := <-done
	if ok {
		r.winner = winner
		for _, run := range r.runners {
			if run != winner {
				run.Kill()
			}
		}
	}
	wg.Wait()
}

// Winner runs the race to completion (if not already run) and returns
// the surviving runner, or nil if every runner was killed without
// finishing.
func (r *Race) Winner() Runner {
	if r.winner == nil {
		r.Run()
	}
	return r.winner
}

// FindOfType returns the first added runner of the given kind, or nil.
func (r *Race) FindOfType(kind Kind) Runner {
	for _, run := range r.runners {
		if run.Kind() == kind {
			return run
		}
	}
	return nil
}
