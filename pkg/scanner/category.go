package scanner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownCategory is returned by ParseCategory for names and ids that do
// not resolve.
var ErrUnknownCategory = errors.New("unknown category")

// Category is one of the fixed diagnostic classes recognized in a solver log.
// The numeric values are part of the output contract: generated scripts and
// downstream tooling refer to categories by position.
type Category int

const (
	Separating Category = iota
	Inserts
	Sliding
	ContactBelonging
	DOFConflict
	InsideOut
	DispConvergence
	ResConvergence
	ContactingNodes
	BadBeams
	BadProjection
	IterativePenetrationDisp
	IterativePenetrationPen
	NodesJoined
	BadContactProjection
	BadRigidOrientation
	Separated5Times
	BadDegenerateHex
	AssemblyStart
	MatrixStart
	MatrixEnd
	GlobalRemeshing
	NegAxisymmetric
	IPCSmall
	ZeroLength
	TyingDebug

	// NumCategories is the number of categories.
	NumCategories
)

// Kind is the kind of entity a category's captured identifiers refer to.
type Kind int

const (
	KindNode Kind = iota
	KindElement
	KindFace
	// KindTiming categories capture timestamps and are never turned into selections.
	KindTiming
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindElement:
		return "element"
	case KindFace:
		return "face"
	case KindTiming:
		return "timing"
	default:
		return "unknown"
	}
}

type categoryInfo struct {
	label       string
	kind        Kind
	description string
}

var categories = [NumCategories]categoryInfo{
	Separating:               {"_separating", KindNode, "Separating Nodes"},
	Inserts:                  {"_inserts", KindNode, "INSERT Problem Nodes"},
	Sliding:                  {"_sliding", KindNode, "Nodes Sliding/Released Along Segments or Hitting Concave Edges"},
	ContactBelonging:         {"_contact_belonging", KindNode, "Contact Nodes Belonging To More Than 1 Body"},
	DOFConflict:              {"_dof_conflict", KindNode, "Nodes With Constraint Conflicts"},
	InsideOut:                {"_inside_out", KindElement, "Inside Out Elements"},
	DispConvergence:          {"_disp_convergence", KindNode, "Displacement Convergence Nodes"},
	ResConvergence:           {"_res_convergence", KindNode, "Residual Convergence Nodes"},
	ContactingNodes:          {"_contacting_nodes", KindNode, "Touching Nodes"},
	BadBeams:                 {"_bad_beams", KindElement, "Elements Having a Bad Beam Section"},
	BadProjection:            {"_bad_projection", KindNode, "Nodes with Bad Iterative Contact Projection"},
	IterativePenetrationDisp: {"_iterative_penetration_d", KindNode, "Iterative Penetration Checks (displacement)"},
	IterativePenetrationPen:  {"_iterative_penetration_p12", KindNode, "Iterative Penetration Checks (penetration)"},
	NodesJoined:              {"_nodes_joined_to_nodes", KindNode, "Nodes Joined to a Node Checks"},
	BadContactProjection:     {"_bad_contact_projection", KindNode, "Projection for Contact Node Failed Checks"},
	BadRigidOrientation:      {"_bad_rigid_orientation", KindFace, "Bad Rigid Body Orientation Checks"},
	Separated5Times:          {"_separated_5_times", KindNode, "Nodes Separating 5 times Checks"},
	BadDegenerateHex:         {"_bad_degenerate_hex", KindElement, "Incorrect Degenerated Hex Elements"},
	AssemblyStart:            {"_assembly_start", KindTiming, "Element Assemblies"},
	MatrixStart:              {"_matrix_start", KindTiming, "Matrix Solutions"},
	MatrixEnd:                {"_matrix_end", KindTiming, "Matrix Solution Ends"},
	GlobalRemeshing:          {"_global_remeshing", KindTiming, "Global Remeshes"},
	NegAxisymmetric:          {"_neg_axisymmetric_node", KindElement, "Axisymmetric Elements with Negative Radius"},
	IPCSmall:                 {"_IPC_small", KindNode, "Iterative Penetration Checks (penetration)(bad)"},
	ZeroLength:               {"_zero_length", KindElement, "Zero Length Element Checks"},
	TyingDebug:               {"_tying_debug", KindNode, "Inserted nodes"},
}

// Valid reports whether c is one of the defined categories.
func (c Category) Valid() bool {
	return c >= 0 && c < NumCategories
}

// Label returns the stable set/group name used in generated scripts.
func (c Category) Label() string {
	if !c.Valid() {
		return ""
	}
	return categories[c].label
}

// Kind returns the entity kind captured by the category.
func (c Category) Kind() Kind {
	if !c.Valid() {
		return KindTiming
	}
	return categories[c].kind
}

// Description returns the human-readable summary text.
func (c Category) Description() string {
	if !c.Valid() {
		return ""
	}
	return categories[c].description
}

// Emittable reports whether the category becomes a selection set in a script.
func (c Category) Emittable() bool {
	return c.Valid() && c.Kind() != KindTiming
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categories[c].label
}

// Categories returns all categories in id order.
func Categories() []Category {
	all := make([]Category, NumCategories)
	for i := range all {
		all[i] = Category(i)
	}
	return all
}

// ParseCategory resolves a category from its id ("5") or label ("_inside_out"
// or "inside_out").
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		c := Category(n)
		if !c.Valid() {
			return 0, fmt.Errorf("%w: id %d out of range (0-%d)", ErrUnknownCategory, n, NumCategories-1)
		}
		return c, nil
	}

	want := strings.ToLower(strings.TrimPrefix(s, "_"))
	for _, c := range Categories() {
		if strings.ToLower(strings.TrimPrefix(c.Label(), "_")) == want {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownCategory, s)
}
