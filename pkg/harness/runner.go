package harness

import (
	"runtime"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/oisee/sm83/pkg/cpu"
	"github.com/oisee/sm83/pkg/memory"
)

// Failure records one conformance case that did not reproduce its
// expected final state.
type Failure struct {
	Case    string
	Unknown bool // Step returned the unknown-opcode sentinel
	Cycles  int
	Got     cpu.Snapshot // current machine, sampled at the case's addresses
	Want    cpu.Snapshot
}

// Report accumulates results across a corpus run. Safe for concurrent
// use from the worker pool.
type Report struct {
	mu       sync.Mutex
	total    int
	failures []Failure
}

func (r *Report) add(f Failure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, f)
}

func (r *Report) pass() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total++
}

// Total returns the number of cases run.
func (r *Report) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// Failures returns the failed cases sorted by name.
func (r *Report) Failures() []Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Failure, len(r.failures))
	copy(out, r.failures)
	sort.Slice(out, func(i, j int) bool { return out[i].Case < out[j].Case })
	return out
}

// OK reports whether every case passed.
func (r *Report) OK() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.failures) == 0
}

// Runner drives conformance cases. Each case gets a fresh CPU over a
// fresh flat RAM, so cases are independent and can run in parallel.
type Runner struct {
	Workers int // 0 means one worker per CPU core
	Log     *logrus.Logger
}

// Run executes every case and returns the collected report.
func (rn *Runner) Run(cases []Case) *Report {
	workers := rn.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	report := &Report{}
	ch := make(chan Case, len(cases))
	for _, tc := range cases {
		ch <- tc
	}
	close(ch)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tc := range ch {
				rn.runCase(tc, report)
			}
		}()
	}
	wg.Wait()
	return report
}

func (rn *Runner) runCase(tc Case, report *Report) {
	c := cpu.New(memory.NewRAM())
	c.SetState(tc.Initial.Snapshot())

	want := tc.Final.Snapshot()
	cycles := c.Step()
	if cycles == cpu.UnknownOpcode {
		report.pass()
		report.add(Failure{Case: tc.Name, Unknown: true, Cycles: cycles, Want: want})
		if rn.Log != nil {
			rn.Log.WithField("case", tc.Name).Error("opcode not implemented")
		}
		return
	}
	report.pass()
	if !c.CompareState(want) {
		got := c.StateForDebug(want)
		report.add(Failure{Case: tc.Name, Cycles: cycles, Got: got, Want: want})
		if rn.Log != nil {
			rn.Log.WithFields(logrus.Fields{
				"case": tc.Name,
				"got":  got,
				"want": want,
			}).Error("state mismatch")
		}
	}
}
