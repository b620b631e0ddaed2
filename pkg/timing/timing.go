// Package timing derives wall-clock phase totals from the timing categories
// captured by the scanner.
package timing

import (
	"strconv"

	"github.com/ccollicutt/outcheck/pkg/logging"
	"github.com/ccollicutt/outcheck/pkg/scanner"
)

// Phase names a part of the solution cycle.
type Phase string

const (
	PhaseAssembly     Phase = "Assembly"
	PhaseSolve        Phase = "Matrix Solution"
	PhaseRecovery     Phase = "Stress Recovery"
	PhaseElementLoops Phase = "Element Loops"
)

// Samples holds the raw wall-time tokens of one run.
type Samples struct {
	AssemblyStart []string
	SolveStart    []string
	SolveEnd      []string
	Remeshes      []string

	// TotalTime is the "total time:" token, empty when the run did not finish.
	TotalTime string

	// Iterations is the number of matrix solutions started.
	Iterations int
}

// SamplesFrom collects the timing samples of a scan. Raw values are used so
// that repeated wall times stay paired with their cycle.
func SamplesFrom(res *scanner.Result) Samples {
	agg := res.Categories
	return Samples{
		AssemblyStart: agg.Raw(scanner.AssemblyStart),
		SolveStart:    agg.Raw(scanner.MatrixStart),
		SolveEnd:      agg.Raw(scanner.MatrixEnd),
		Remeshes:      agg.Raw(scanner.GlobalRemeshing),
		TotalTime:     res.TotalTime,
		Iterations:    res.Iterations(),
	}
}

// PhaseTotal is the accumulated time of one phase.
type PhaseTotal struct {
	Phase   Phase
	Seconds float64
	// Percent of the total run time, 0 when the total is unknown.
	Percent float64
	// Skipped counts negative intervals left out of Seconds.
	Skipped int
}

// Span is one measured interval. Valid is false when it could not be measured.
type Span struct {
	Seconds float64
	Valid   bool
}

// Cycle is the per-increment breakdown.
type Cycle struct {
	Number   int
	Assembly Span
	Solve    Span
	Recovery Span
}

// Summary is the timing breakdown of a run.
type Summary struct {
	Total      float64
	TotalKnown bool
	Iterations int
	// AverageIteration is Total divided by the number of iterations, at least one.
	AverageIteration float64
	// Phases lists the phases that could be computed, in cycle order.
	Phases   []PhaseTotal
	Cycles   []Cycle
	Remeshes int
}

// Phase returns the total of p and whether it was computed.
func (s *Summary) Phase(p Phase) (PhaseTotal, bool) {
	for _, pt := range s.Phases {
		if pt.Phase == p {
			return pt, true
		}
	}
	return PhaseTotal{}, false
}

// Analyze computes phase totals from the samples:
//
//	assembly[i] = solveStart[i] - assemblyStart[i]
//	solve[i]    = solveEnd[i] - solveStart[i]
//	recovery[i] = assemblyStart[i+1] - solveEnd[i]
//
// The last recovery runs to the total time when it is known. A sample that
// does not parse disables every phase that needs it. Negative intervals mean
// the run stopped mid-cycle; they are skipped and logged.
func Analyze(s Samples, logger logging.Logger) *Summary {
	if logger == nil {
		logger = logging.Discard()
	}

	sum := &Summary{
		Iterations: s.Iterations,
		Remeshes:   len(s.Remeshes),
	}
	if s.TotalTime != "" {
		if v, err := strconv.ParseFloat(s.TotalTime, 64); err == nil {
			sum.Total, sum.TotalKnown = v, true
		} else {
			logger.WithField("value", s.TotalTime).Warn("total time is not a number")
		}
	}
	sum.AverageIteration = sum.Total / float64(max(s.Iterations, 1))

	asm, asmOK := parseAll(logger, "assembly start", s.AssemblyStart)
	ss, ssOK := parseAll(logger, "solve start", s.SolveStart)
	se, seOK := parseAll(logger, "solve end", s.SolveEnd)

	n := max(len(asm), len(ss), len(se))
	sum.Cycles = make([]Cycle, n)
	for i := range sum.Cycles {
		sum.Cycles[i].Number = i + 1
	}

	var assembly, solve, recovery *PhaseTotal

	if asmOK && ssOK {
		assembly = &PhaseTotal{Phase: PhaseAssembly}
		for i := 0; i < min(len(asm), len(ss)); i++ {
			sum.Cycles[i].Assembly = accumulate(logger, assembly, ss[i]-asm[i], i)
		}
	}
	if ssOK && seOK {
		solve = &PhaseTotal{Phase: PhaseSolve}
		for i := 0; i < min(len(ss), len(se)); i++ {
			sum.Cycles[i].Solve = accumulate(logger, solve, se[i]-ss[i], i)
		}
	}
	if asmOK && seOK {
		recovery = &PhaseTotal{Phase: PhaseRecovery}
		for i := range se {
			switch {
			case i+1 < len(asm):
				sum.Cycles[i].Recovery = accumulate(logger, recovery, asm[i+1]-se[i], i)
			case i == len(se)-1 && sum.TotalKnown:
				sum.Cycles[i].Recovery = accumulate(logger, recovery, sum.Total-se[i], i)
			}
		}
	}

	for _, pt := range []*PhaseTotal{assembly, solve, recovery} {
		if pt != nil {
			sum.Phases = append(sum.Phases, *pt)
		}
	}
	if assembly != nil && recovery != nil {
		sum.Phases = append(sum.Phases, PhaseTotal{
			Phase:   PhaseElementLoops,
			Seconds: assembly.Seconds + recovery.Seconds,
			Skipped: assembly.Skipped + recovery.Skipped,
		})
	}

	for i := range sum.Phases {
		if sum.TotalKnown && sum.Total > 0 {
			sum.Phases[i].Percent = sum.Phases[i].Seconds * 100 / sum.Total
		}
	}
	return sum
}

func parseAll(logger logging.Logger, what string, tokens []string) ([]float64, bool) {
	out := make([]float64, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			logger.WithFields(logging.Fields{
				"sample": what,
				"value":  tok,
			}).Warn("wall time is not a number, phase omitted")
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func accumulate(logger logging.Logger, pt *PhaseTotal, d float64, i int) Span {
	if d < 0 {
		pt.Skipped++
		logger.WithFields(logging.Fields{
			"phase": string(pt.Phase),
			"cycle": i + 1,
		}).Warn("negative interval, run may be unfinished")
		return Span{}
	}
	pt.Seconds += d
	return Span{Seconds: d, Valid: true}
}
