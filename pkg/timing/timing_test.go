package timing

import (
	"math"
	"testing"

	"github.com/ccollicutt/outcheck/pkg/logging"
	"github.com/ccollicutt/outcheck/pkg/scanner"
)

func phase(t *testing.T, s *Summary, p Phase) PhaseTotal {
	t.Helper()
	pt, ok := s.Phase(p)
	if !ok {
		t.Fatalf("phase %q missing", p)
	}
	return pt
}

func TestAnalyze_TwoCycles(t *testing.T) {
	s := Analyze(Samples{
		AssemblyStart: []string{"10.00", "40.00"},
		SolveStart:    []string{"15.00", "50.00"},
		SolveEnd:      []string{"30.00", "70.00"},
		TotalTime:     "100.00",
		Iterations:    2,
	}, logging.Discard())

	tests := []struct {
		phase   Phase
		seconds float64
		percent float64
	}{
		{PhaseAssembly, 15, 15},
		{PhaseSolve, 35, 35},
		{PhaseRecovery, 40, 40},
		{PhaseElementLoops, 55, 55},
	}
	for _, tt := range tests {
		pt := phase(t, s, tt.phase)
		if pt.Seconds != tt.seconds {
			t.Errorf("%s seconds = %v, want %v", tt.phase, pt.Seconds, tt.seconds)
		}
		if pt.Percent != tt.percent {
			t.Errorf("%s percent = %v, want %v", tt.phase, pt.Percent, tt.percent)
		}
	}

	var pct float64
	for _, p := range []Phase{PhaseAssembly, PhaseSolve, PhaseRecovery} {
		pct += phase(t, s, p).Percent
	}
	if pct > 100 {
		t.Errorf("phase percentages sum to %v, want <= 100", pct)
	}

	if s.AverageIteration != 50 {
		t.Errorf("AverageIteration = %v, want 50", s.AverageIteration)
	}
	if len(s.Cycles) != 2 {
		t.Fatalf("Cycles = %d, want 2", len(s.Cycles))
	}
	if c := s.Cycles[1]; !c.Recovery.Valid || c.Recovery.Seconds != 30 {
		t.Errorf("last recovery = %+v, want 30s", c.Recovery)
	}
}

func TestAnalyze_NegativeDurationsExcluded(t *testing.T) {
	s := Analyze(Samples{
		AssemblyStart: []string{"10.00", "40.00"},
		SolveStart:    []string{"15.00", "35.00"},
		SolveEnd:      []string{"30.00"},
		Iterations:    2,
	}, logging.Discard())

	asm := phase(t, s, PhaseAssembly)
	if asm.Seconds != 5 || asm.Skipped != 1 {
		t.Errorf("assembly = %+v, want 5s with 1 skipped", asm)
	}
	if s.Cycles[1].Assembly.Valid {
		t.Error("negative assembly interval should not be valid")
	}
}

func TestAnalyze_ZeroIterations(t *testing.T) {
	s := Analyze(Samples{TotalTime: "12.5"}, logging.Discard())

	if math.IsInf(s.AverageIteration, 0) || math.IsNaN(s.AverageIteration) {
		t.Fatalf("AverageIteration = %v, want finite", s.AverageIteration)
	}
	if s.AverageIteration != 12.5 {
		t.Errorf("AverageIteration = %v, want 12.5", s.AverageIteration)
	}
}

func TestAnalyze_UnknownTotal(t *testing.T) {
	s := Analyze(Samples{
		AssemblyStart: []string{"10.00"},
		SolveStart:    []string{"15.00"},
		SolveEnd:      []string{"30.00"},
		Iterations:    1,
	}, nil)

	if s.TotalKnown {
		t.Error("TotalKnown = true, want false")
	}
	for _, pt := range s.Phases {
		if pt.Percent != 0 {
			t.Errorf("%s percent = %v, want 0 without a total", pt.Phase, pt.Percent)
		}
	}
	if rec := phase(t, s, PhaseRecovery); rec.Seconds != 0 {
		t.Errorf("recovery = %v, want 0 without a next assembly or total", rec.Seconds)
	}
}

func TestAnalyze_ParseFailureDisablesPhase(t *testing.T) {
	s := Analyze(Samples{
		AssemblyStart: []string{"10.00"},
		SolveStart:    []string{"15.00"},
		SolveEnd:      []string{"garbage"},
		TotalTime:     "40.00",
		Iterations:    1,
	}, logging.Discard())

	if _, ok := s.Phase(PhaseAssembly); !ok {
		t.Error("assembly should still be computed")
	}
	for _, p := range []Phase{PhaseSolve, PhaseRecovery, PhaseElementLoops} {
		if _, ok := s.Phase(p); ok {
			t.Errorf("phase %s should be omitted", p)
		}
	}
}

func TestSamplesFrom(t *testing.T) {
	agg := scanner.NewAggregator()
	agg.Record(scanner.AssemblyStart, "1.00")
	agg.Record(scanner.MatrixStart, "2.00")
	agg.Record(scanner.MatrixStart, "2.00")
	agg.Record(scanner.MatrixEnd, "3.00")
	agg.Finalize()

	s := SamplesFrom(&scanner.Result{Categories: agg, TotalTime: "9.00"})
	if len(s.SolveStart) != 2 {
		t.Errorf("SolveStart = %v, want raw values", s.SolveStart)
	}
	if s.Iterations != 2 {
		t.Errorf("Iterations = %d, want 2", s.Iterations)
	}
	if s.TotalTime != "9.00" {
		t.Errorf("TotalTime = %q", s.TotalTime)
	}
}
