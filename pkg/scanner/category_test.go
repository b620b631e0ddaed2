package scanner

import (
	"errors"
	"testing"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{in: "0", want: Separating},
		{in: "25", want: TyingDebug},
		{in: "_inside_out", want: InsideOut},
		{in: "inside_out", want: InsideOut},
		{in: "ipc_small", want: IPCSmall},
		{in: " 5 ", want: InsideOut},
		{in: "26", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "inside", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownCategory) {
					t.Errorf("ParseCategory(%q) error = %v, want ErrUnknownCategory", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCategory(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCategory_Kinds(t *testing.T) {
	tests := []struct {
		c    Category
		want Kind
	}{
		{Separating, KindNode},
		{InsideOut, KindElement},
		{BadDegenerateHex, KindElement},
		{BadRigidOrientation, KindFace},
		{NegAxisymmetric, KindElement},
		{ZeroLength, KindElement},
		{IPCSmall, KindNode},
		{TyingDebug, KindNode},
	}
	for _, tt := range tests {
		if got := tt.c.Kind(); got != tt.want {
			t.Errorf("%s.Kind() = %s, want %s", tt.c, got, tt.want)
		}
	}

	for _, c := range []Category{AssemblyStart, MatrixStart, MatrixEnd, GlobalRemeshing} {
		if c.Emittable() {
			t.Errorf("%s is emittable, want timing-only", c)
		}
	}
}

func TestCategories_LabelsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range Categories() {
		if c.Label() == "" || c.Description() == "" {
			t.Errorf("category %d has no label or description", int(c))
		}
		if seen[c.Label()] {
			t.Errorf("duplicate label %s", c.Label())
		}
		seen[c.Label()] = true
	}
	if len(seen) != int(NumCategories) {
		t.Errorf("got %d labels, want %d", len(seen), NumCategories)
	}
}
