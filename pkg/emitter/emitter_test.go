package emitter

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ccollicutt/outcheck/pkg/scanner"
)

func sampleAggregator() *scanner.Aggregator {
	agg := scanner.NewAggregator()
	agg.Record(scanner.Separating, "149642")
	agg.Record(scanner.Separating, "12")
	agg.Record(scanner.Separating, "149642")
	agg.Record(scanner.InsideOut, "102460")
	agg.Record(scanner.BadRigidOrientation, "77")
	agg.Record(scanner.AssemblyStart, "10.00")
	agg.Record(scanner.MatrixStart, "12.00")
	agg.Record(scanner.MatrixEnd, "20.00")
	agg.Record(scanner.GlobalRemeshing, "30.00")
	agg.Finalize()
	return agg
}

func TestNewDialect(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "mentat", want: "mentat"},
		{name: "1", want: "mentat"},
		{name: "Patran", want: "patran"},
		{name: "2", want: "patran"},
		{name: "3", wantErr: true},
		{name: "abaqus", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDialect(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownDialect) {
					t.Errorf("NewDialect(%q) error = %v, want ErrUnknownDialect", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewDialect(%q) error = %v", tt.name, err)
			}
			if d.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", d.Name(), tt.want)
			}
		})
	}
}

func TestEmit_Mentat(t *testing.T) {
	var buf bytes.Buffer
	sets, err := New(Mentat{}, nil).Emit(context.Background(), sampleAggregator(), &buf)
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if sets != 3 {
		t.Errorf("sets = %d, want 3", sets)
	}

	want := `*command_group_begin
*set_proc_echo off
*py_echo off
*remove_set_entries
_separating
all_existing
*select_clear
*select_elements_nodes
149642
12
# | End of List
*store_elements _separating
all_selected
*remove_set_entries
_inside_out
all_existing
*select_clear
*select_elements
102460
# | End of List
*store_elements _inside_out
all_selected
*remove_set_entries
_bad_rigid_orientation
all_existing
*select_clear
*select_faces
77
# | End of List
*store_faces _bad_rigid_orientation
all_selected
*command_group_end
`
	if got := buf.String(); got != want {
		t.Errorf("script mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestEmit_Patran(t *testing.T) {
	agg := scanner.NewAggregator()
	agg.Record(scanner.Separating, "5")
	agg.Record(scanner.ZeroLength, "9")
	agg.Finalize()

	var buf bytes.Buffer
	if _, err := New(Patran{}, nil).Emit(context.Background(), agg, &buf); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	want := `gu_fit_view(  )
sys_poll_option( 2 )
bv_group_clear("_separating" )
sys_poll_option( 0 )
STRING _elem_list[VIRTUAL]
list_create_elem_ass_node( 0, "Node 5 //@ 
", "lista", _elem_list )
sys_poll_option( 0 ) 
sys_poll_option( 2 )
ga_group_create( "_separating" )
ga_group_entity_add( "_separating", _elem_list) 
sys_poll_option( 2 )
bv_group_clear("_zero_length" )
sys_poll_option( 0 )
sys_poll_option( 2 )
ga_group_create( "_zero_length" )
ga_group_entity_add( "_zero_length", @
"Elm 9 //@ 
") 
sys_poll_option( 0 ) 
`
	if got := buf.String(); got != want {
		t.Errorf("script mismatch\ngot:\n%q\nwant:\n%q", got, want)
	}
}

func TestEmit_TimingCategoriesNeverEmitted(t *testing.T) {
	for _, d := range []Dialect{Mentat{}, Patran{}} {
		var buf bytes.Buffer
		if _, err := New(d, nil).Emit(context.Background(), sampleAggregator(), &buf); err != nil {
			t.Fatalf("%s: Emit() error = %v", d.Name(), err)
		}
		for _, c := range []scanner.Category{scanner.AssemblyStart, scanner.MatrixStart, scanner.MatrixEnd, scanner.GlobalRemeshing} {
			if strings.Contains(buf.String(), c.Label()) {
				t.Errorf("%s: script contains timing category %s", d.Name(), c.Label())
			}
		}
	}
}

func TestEmit_Deterministic(t *testing.T) {
	var a, b bytes.Buffer
	e := New(Mentat{}, nil)
	if _, err := e.Emit(context.Background(), sampleAggregator(), &a); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Emit(context.Background(), sampleAggregator(), &b); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Error("two runs over the same input produced different scripts")
	}
}

func TestEmit_Empty(t *testing.T) {
	agg := scanner.NewAggregator()
	agg.Finalize()

	var buf bytes.Buffer
	sets, err := New(Mentat{}, nil).Emit(context.Background(), agg, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if sets != 0 {
		t.Errorf("sets = %d, want 0", sets)
	}
	if buf.String() != "*command_group_begin\n*set_proc_echo off\n*py_echo off\n*command_group_end\n" {
		t.Errorf("unexpected empty script: %q", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestEmit_WriteError(t *testing.T) {
	_, err := New(Mentat{}, nil).Emit(context.Background(), sampleAggregator(), failingWriter{})
	if err == nil {
		t.Fatal("Emit() should fail when the writer fails")
	}
}

func TestEmitTying(t *testing.T) {
	var buf bytes.Buffer
	err := EmitTying(&buf, []scanner.TyingRecord{
		{Inserted: "501", Hosts: []string{"11", "12", "13", "14"}},
		{Inserted: "502"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "501 11 12 13 14\n502\n"; got != want {
		t.Errorf("EmitTying() = %q, want %q", got, want)
	}
}
