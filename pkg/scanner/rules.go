package scanner

import (
	"strings"

	"github.com/ccollicutt/outcheck/pkg/parser"
)

// Cond is one guard condition evaluated against the scanner's position.
type Cond func(v View) bool

// Capture extracts the value recorded when a rule fires.
type Capture func(v View) (string, bool)

// Rule maps a fixed word pattern to a category.
type Rule struct {
	// Name identifies the rule in logs and listings.
	Name string

	// Category receives the captured value.
	Category Category

	// When lists the conditions that must all hold.
	When []Cond

	// Capture reads the recorded value.
	Capture Capture

	// Exclusive rules form a chain: for a given line only the first
	// matching exclusive rule fires.
	Exclusive bool
}

// Match reports whether all of the rule's conditions hold at v.
func (r *Rule) Match(v View) bool {
	for _, c := range r.When {
		if !c(v) {
			return false
		}
	}
	return true
}

// Is holds when word k of the current message equals w.
func Is(k int, w string) Cond {
	return func(v View) bool {
		got, ok := v.Word(k)
		return ok && got == w
	}
}

// Words holds when the current message has ws at consecutive offsets from start.
func Words(start int, ws ...string) Cond {
	return func(v View) bool {
		for i, w := range ws {
			got, ok := v.Word(start + i)
			if !ok || got != w {
				return false
			}
		}
		return true
	}
}

// Not holds when word k is absent or differs from w.
func Not(k int, w string) Cond {
	return func(v View) bool {
		got, ok := v.Word(k)
		return !ok || got != w
	}
}

// Absent holds when the current message has no word k.
func Absent(k int) Cond {
	return func(v View) bool {
		_, ok := v.Word(k)
		return !ok
	}
}

// Numeric holds when word k is all digits.
func Numeric(k int) Cond {
	return func(v View) bool {
		w, ok := v.Word(k)
		return ok && parser.IsDigits(w)
	}
}

// PrevNot holds when word k of the preceding line is absent or differs from w.
func PrevNot(k int, w string) Cond {
	return func(v View) bool {
		got, ok := v.Prev(k)
		return !ok || got != w
	}
}

// At captures word k of the current message.
func At(k int) Capture {
	return func(v View) (string, bool) { return v.Word(k) }
}

// FromPrev captures word k of the preceding line.
func FromPrev(k int) Capture {
	return func(v View) (string, bool) { return v.Prev(k) }
}

// FromStream captures the word k positions into the word stream.
func FromStream(k int) Capture {
	return func(v View) (string, bool) { return v.Stream(k) }
}

// normalizeID trims punctuation the solver sometimes glues to identifiers.
func normalizeID(s string) string {
	return strings.TrimRight(s, ",;:.")
}

// DefaultRules returns the rule table for Marc output logs, in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		// Polyline point    174075 is separating from body       9
		// (wrapped form: the node id ends the preceding line)
		{
			Name:     "separating-wrapped",
			Category: Separating,
			When:     []Cond{Words(0, "separating", "from"), PrevNot(-4, "Polyline")},
			Capture:  FromPrev(-2),
		},
		// node 149642 of body 2 is separating from body 9 separation force 1.35764E-03
		{
			Name:     "separating-of-body",
			Category: Separating,
			When:     []Cond{Is(0, "node"), Is(6, "separating"), Is(8, "body")},
			Capture:  At(1),
		},
		// node 149642 body 2 is separating from body 9 separation force 1.35764E-03
		{
			Name:     "separating-body",
			Category: Separating,
			When:     []Cond{Is(0, "node"), Is(2, "body"), Words(5, "separating", "from")},
			Capture:  At(1),
		},
		// node 219672 is separating from body 7 separation force 2.80726E+02
		{
			Name:     "separating",
			Category: Separating,
			When:     []Cond{Is(0, "node"), Words(2, "is", "separating", "from")},
			Capture:  At(1),
		},
		{
			Name:     "insert-not-converged",
			Category: Inserts,
			When:     []Cond{Words(0, "if", "node")},
			Capture:  At(6),
		},
		// node x is sliding along body 6 from segment y to segment z
		{
			Name:     "sliding-along",
			Category: Sliding,
			When:     []Cond{Is(0, "node"), Words(3, "sliding", "along")},
			Capture:  At(1),
		},
		// node x is sliding out of last segment of body y and will be released
		{
			Name:     "sliding-out",
			Category: Sliding,
			When:     []Cond{Is(0, "node"), Words(3, "sliding", "out")},
			Capture:  At(1),
		},
		// node x hits concave edge on body
		{
			Name:     "hits-concave-edge",
			Category: Sliding,
			When:     []Cond{Is(0, "node"), Is(2, "hits")},
			Capture:  At(1),
		},
		// Second guard on the same message. It double counts the node in the
		// raw list; the unique list is unaffected.
		{
			Name:     "hits-concave-edge-stream",
			Category: Sliding,
			When:     []Cond{Is(0, "node"), Is(2, "hits")},
			Capture:  FromStream(1),
		},
		{
			Name:     "belongs-to-bodies",
			Category: ContactBelonging,
			When:     []Cond{Is(0, "node"), Is(2, "belongs"), Is(4, "bodies")},
			Capture:  At(1),
		},
		// *** warning: node 23641 has a boundary condition which might
		{
			Name:     "glued-boundary-conflict",
			Category: DOFConflict,
			When:     []Cond{Is(0, "node"), Is(2, "has"), Is(4, "boundary")},
			Capture:  At(1),
		},
		// *** warning: contact constraints for node 30077
		{
			Name:     "contact-constraints",
			Category: DOFConflict,
			When:     []Cond{Words(0, "contact", "constraints", "for")},
			Capture:  At(4),
		},
		// *** warning - node 5628 degree of freedom 3 was already tied in tying equation 26700
		{
			Name:     "already-tied",
			Category: DOFConflict,
			When:     []Cond{Is(0, "node"), Is(2, "degree"), Is(8, "tied")},
			Capture:  At(1),
		},
		// inside out at element 657008 (wrapped message)
		{
			Name:     "inside-out-wrapped",
			Category: InsideOut,
			When:     []Cond{Words(0, "inside", "out")},
			Capture:  At(4),
		},
		// *** error - element inside out at element 102460 integration point 1
		{
			Name:     "inside-out",
			Category: InsideOut,
			When:     []Cond{Words(0, "element", "inside", "out")},
			Capture:  At(5),
		},
		// zero or negative principal stretch found in element 4415
		{
			Name:     "negative-principal-stretch",
			Category: InsideOut,
			When:     []Cond{Is(0, "zero"), Is(3, "principal")},
			Capture:  At(8),
		},
		// maximum displacement change at node 141 degree of freedom  2 is equal to 1.837E-01
		{
			Name:     "displacement-convergence",
			Category: DispConvergence,
			When:     []Cond{Words(0, "maximum", "displacement"), Is(6, "degree")},
			Capture:  At(5),
		},
		// maximum residual force at node   703 degree of freedom 1 is equal to 1.970E+04
		{
			Name:     "residual-convergence",
			Category: ResConvergence,
			When:     []Cond{Words(0, "maximum", "residual"), Is(6, "degree")},
			Capture:  At(5),
		},
		// node 1066 of body 1 is touching body 3 patch 1
		{
			Name:     "touching",
			Category: ContactingNodes,
			When:     []Cond{Is(0, "node"), Is(3, "body"), Is(6, "touching")},
			Capture:  At(1),
		},
		// *** error - element 4811 has bad cross section direction specification
		{
			Name:     "bad-cross-section",
			Category: BadBeams,
			When:     []Cond{Is(0, "element"), Words(3, "bad", "cross", "section")},
			Capture:  At(1),
		},
		// *** error - bad beam section number specified for element 341580
		{
			Name:     "bad-beam-section",
			Category: BadBeams,
			When:     []Cond{Words(0, "bad", "beam", "section")},
			Capture:  At(7),
		},
		// iteration during projection on quadratic segment did not converge
		{
			Name:     "quadratic-projection",
			Category: BadProjection,
			When:     []Cond{Words(0, "iteration", "during", "projection")},
			Capture:  FromStream(13),
		},
		// ddu multiplied by 2.8E-01 due to large displacement value of 4.39E+00 at node 67640 dof 1
		{
			Name:     "ddu-large-displacement",
			Category: IterativePenetrationDisp,
			When:     []Cond{Is(0, "ddu"), Is(7, "displacement")},
			Capture:  At(13),
		},
		// ddu multiplied by 2.4E-01 to avoid penetration of node 93811 into body 5 segment 112
		{
			Name:     "ddu-penetration",
			Category: IterativePenetrationPen,
			When:     []Cond{Is(0, "ddu"), Is(6, "penetration"), Is(8, "node")},
			Capture:  At(9),
		},
		// too many nodes joined to node 1234
		{
			Name:     "too-many-joined",
			Category: NodesJoined,
			When:     []Cond{Is(0, "too"), Is(3, "joined")},
			Capture:  At(6),
		},
		{
			Name:     "contact-projection-failed",
			Category: BadContactProjection,
			When:     []Cond{Is(0, "projection"), Is(2, "node")},
			Capture:  FromStream(3),
		},
		{
			Name:     "rigid-orientation",
			Category: BadRigidOrientation,
			When:     []Cond{Is(0, "contact"), Is(6, "indicates")},
			Capture:  FromStream(13),
		},
		{
			Name:     "separated-5-times",
			Category: Separated5Times,
			When:     []Cond{Is(0, "node"), Is(2, "separated")},
			Capture:  FromStream(1),
		},
		// incorrect degenerated hex element; the element number follows in
		// the "identical nodal coordinates" block
		{
			Name:     "degenerated-hex",
			Category: BadDegenerateHex,
			When:     []Cond{Words(0, "incorrect", "degenerated")},
			Capture:  FromStream(11),
		},
		// start of assembly   cycle number is 0
		// wall time = 4753.00
		{
			Name:     "assembly-start",
			Category: AssemblyStart,
			When:     []Cond{Is(0, "start"), Is(2, "assembly")},
			Capture:  FromStream(10),
		},
		// start of matrix solution
		// wall time = 5029.00
		{
			Name:     "matrix-start",
			Category: MatrixStart,
			When:     []Cond{Is(0, "start"), Is(2, "matrix")},
			Capture:  FromStream(7),
		},
		// end of matrix solution
		// wall time = 9277.00
		{
			Name:     "matrix-end",
			Category: MatrixEnd,
			When:     []Cond{Is(0, "end"), Is(2, "matrix")},
			Capture:  FromStream(7),
		},

		// wall time = 1019.00
		// remeshing body 1 due to increment number
		{
			Name:      "global-remeshing",
			Category:  GlobalRemeshing,
			When:      []Cond{Words(0, "remeshing", "body"), Is(5, "increment")},
			Capture:   FromStream(-1),
			Exclusive: true,
		},
		// axisymmetric element 51 has negative radius
		{
			Name:      "negative-radius",
			Category:  NegAxisymmetric,
			When:      []Cond{Words(0, "axisymmetric", "element"), Is(4, "negative")},
			Capture:   At(2),
			Exclusive: true,
		},
		// ddu multiplied by 1.00000E-06 to avoid penetration of node 93811 into body 5
		{
			Name:      "ddu-penetration-small",
			Category:  IPCSmall,
			When:      []Cond{Is(0, "ddu"), Is(3, "1.00000E-06"), Is(6, "penetration")},
			Capture:   At(9),
			Exclusive: true,
		},
		// zero length in element 2231
		{
			Name:      "zero-length",
			Category:  ZeroLength,
			When:      []Cond{Words(0, "zero", "length"), Is(3, "element")},
			Capture:   At(4),
			Exclusive: true,
		},
		{
			Name:      "tying-debug",
			Category:  TyingDebug,
			When:      []Cond{Words(0, "debug", "printout"), Is(3, "tying")},
			Capture:   FromStream(11),
			Exclusive: true,
		},
	}
}
