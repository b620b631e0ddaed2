package scanner

import "strings"

// SettingRule echoes one analysis parameter from the log into the report.
type SettingRule struct {
	Label string
	When  []Cond
	// Value captures the reported value. Nil means the setting is a flag
	// and is reported as "ON".
	Value Capture
}

func (r *SettingRule) match(v View) (string, bool) {
	for _, c := range r.When {
		if !c(v) {
			return "", false
		}
	}
	if r.Value == nil {
		return "ON", true
	}
	return r.Value(v)
}

// StreamNot holds when stream word k is absent or differs from w.
func StreamNot(k int, w string) Cond {
	return func(v View) bool {
		got, ok := v.Stream(k)
		return !ok || got != w
	}
}

// NotContains holds when word k is absent or does not contain sub.
func NotContains(k int, sub string) Cond {
	return func(v View) bool {
		got, ok := v.Word(k)
		return !ok || !strings.Contains(got, sub)
	}
}

// fixed reports a constant value.
func fixed(s string) Capture {
	return func(View) (string, bool) { return s, true }
}

// DefaultSettings returns the analysis parameters echoed for Marc logs.
func DefaultSettings() []SettingRule {
	sizing := []Cond{Is(0, "sizing"), Is(5, "elements")}
	biasFactor := Words(0, "contact", "bias", "factor")

	return []SettingRule{
		// version: Marc 2014.0.0, Build 282796 build date: Mon Jul 21 20:26:04 2014
		{Label: "Marc Version", When: []Cond{Words(0, "version:", "Marc")}, Value: At(2)},
		{Label: "Machine Type", When: []Cond{Words(0, "machine", "type:")}, Value: At(2)},
		{Label: "Number of Elements", When: sizing, Value: At(2)},
		{Label: "Number of Nodes", When: sizing, Value: At(3)},
		{Label: "Number of DOFs Constrained", When: sizing, Value: At(4)},
		{Label: "Element Type", When: []Cond{Words(0, "element", "type", "requested*************************")}, Value: At(3)},
		{Label: "Number of Elements", When: []Cond{Is(0, "number"), Is(2, "elements"), Is(4, "mesh*********************")}, Value: At(5)},
		{Label: "Number of Nodes", When: []Cond{Is(0, "number"), Is(2, "nodes"), Is(4, "mesh************************")}, Value: At(5)},
		{Label: "Material Name", When: []Cond{Words(0, "material", "name")}, Value: At(3)},
		{Label: "Youngs Modulus", When: []Cond{Words(0, "Youngs", "modulus"), Not(2, "-")}, Value: At(2)},
		{Label: "Poissons Ratio", When: []Cond{Words(0, "Poissons", "ratio"), Not(2, "-")}, Value: At(2)},
		{Label: "Density", When: []Cond{Words(0, "mass", "density"), Is(3, "heat"), Not(4, "-")}, Value: At(5)},
		{Label: "Thermal Expansion Coeff.", When: []Cond{Is(0, "Coefficient"), Is(2, "thermal"), Not(4, "-")}, Value: At(4)},
		{Label: "Yield Stress", When: []Cond{Words(0, "Yield", "stress"), Not(2, "-"), NotContains(2, "1.00000E+20")}, Value: At(2)},
		{Label: "Out of Core Element Storage Flag", When: []Cond{Is(0, "flag"), Words(2, "element", "storage")}, Value: At(5)},
		{Label: "Interlaminar Shear for Shells/Beams", When: []Cond{Words(0, "interlaminar", "shear", "for")}},
		{Label: "Number of Processors used", When: []Cond{Words(0, "number", "of", "processors")}, Value: At(5)},
		{Label: "Large Displacement", When: []Cond{Words(0, "large", "displacement", "analysis")}},
		{Label: "Updated Lagrange", When: []Cond{Words(0, "geometry", "updated")}},
		{Label: "Additive Plasticity", When: []Cond{Words(0, "plasticity", "3")}},
		{Label: "Dynamic", When: []Cond{Is(0, "dynamic"), Numeric(1)}},
		{Label: "Work Hardening", When: []Cond{Words(0, "work", "hard")}},
		{Label: "Tolerance for Iterative Solver", When: []Cond{Words(0, "mechanical", "convergence")}, Value: At(4)},
		{Label: "Transformations", When: []Cond{Is(0, "transformation"), Absent(1)}, Value: fixed("present")},
		{Label: "Number of Contact Bodies", When: []Cond{Words(0, "number", "of", "bodies")}, Value: At(4)},
		// body number     3 is a displacement controlled rigid surface
		{Label: "Displacement Controlled Rigid Body", When: []Cond{Words(0, "body", "number"), Is(7, "rigid")}, Value: At(2)},
		{Label: "Friction", When: []Cond{Words(0, "no", "friction", "selected")}, Value: fixed("OFF")},
		{Label: "Global Separation Threshold", When: []Cond{Words(0, "separation", "threshold", "=")}, Value: At(3)},
		{Label: "Global Bias Factor Reset to", When: []Cond{biasFactor, Is(5, "reset")}, Value: At(8)},
		{Label: "Global Bias Factor", When: []Cond{biasFactor, Not(5, "reset")}, Value: At(4)},
		{Label: "Analytic SPLINE", When: []Cond{Is(0, "spline"), Absent(1)}},
		{Label: "User Contact Distance Bias", When: []Cond{Is(0, "distance"), Is(6, "considered"), Is(10, "=")}, Value: At(11)},
		{Label: "Marc Contact Distance", When: []Cond{Is(0, "distance"), Is(6, "considered"), Is(10, "is")}, Value: At(11)},
		{Label: "RBE2 Constraints", When: []Cond{Words(0, "rbe2", "----------")}, Value: fixed("found")},
		{Label: "Convergence on Both Residual And Displacement", When: []Cond{Words(0, "convergence", "testing"), Is(4, "both")}},
		{Label: "Out of Core Solver", When: []Cond{Words(0, "out-of-core", "matrix"), StreamNot(-5, "estimated")}},
		// requested number of element threads************ 4
		{Label: "Element Threads", When: []Cond{Words(0, "requested", "number"), Is(3, "element")}, Value: At(5)},
		{Label: "Solver Threads", When: []Cond{Words(0, "requested", "number"), Is(3, "solver")}, Value: At(5)},
		{Label: "Integer*8 Version", When: []Cond{Words(0, "integer*8", "version")}},
		{Label: "Integer*4 Version", When: []Cond{Words(0, "integer*4", "version")}},
		{Label: "Heat Transfer Analysis", When: []Cond{Words(0, "heat", "transfer", "analysis")}},
		{Label: "Elastic Harmonic Analysis", When: []Cond{Words(0, "elastic", "harmonic")}},
		{Label: "Complex Damping Matrix", When: []Cond{Words(0, "complex", "damping")}},
		{Label: "New Style Input", When: []Cond{Is(0, "new"), Is(2, "input")}},
		{Label: "ElectroMagnetic Harmonic Analysis", When: []Cond{Words(0, "electro", "magnetic", "harmonic")}},
		{Label: "Marc Input Version", When: []Cond{Words(0, "Marc", "version")}, Value: At(4)},
		{Label: "Global Remeshing", When: []Cond{Words(0, "mesh", "rezoning"), Is(4, "switched")}},
	}
}
