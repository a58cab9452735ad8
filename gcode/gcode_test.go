package gcode

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIsEditorFile(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"part.gcode", true},
		{"part.nc", true},
		{"notes.txt", true},
		{"PART.GCODE", true},
		{"part.NC", true},
		{"drawing.svg", false},
		{"drawing.dxf", false},
		{"image.png", false},
		{"gcode", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := IsEditorFile(tc.name); got != tc.want {
			t.Errorf("IsEditorFile(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsVectorFile(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"drawing.svg", true},
		{"box.dxf", true},
		{"Drawing.SVG", true},
		{"part.gcode", false},
		{"drawing.svg.bak", false},
	}

	for _, tc := range cases {
		if got := IsVectorFile(tc.name); got != tc.want {
			t.Errorf("IsVectorFile(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestVectorType(t *testing.T) {
	if got, err := VectorType("a.svg"); err != nil || got != "svg" {
		t.Errorf("VectorType(a.svg) = %q, %v", got, err)
	}
	if got, err := VectorType("b.DXF"); err != nil || got != "dxf" {
		t.Errorf("VectorType(b.DXF) = %q, %v", got, err)
	}
	if _, err := VectorType("c.png"); err == nil {
		t.Error("VectorType(c.png) should fail")
	}
}

func TestLineCount(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 1},
		{"G0 X0", 1},
		{"G0 X0\n", 2},
		{"G0 X0\nG1 X10", 2},
		{"a\nb\nc", 3},
		{"\n\n", 3},
	}

	for _, tc := range cases {
		if got := LineCount(tc.text); got != tc.want {
			t.Errorf("LineCount(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestIsBlank(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t \n"} {
		if !IsBlank(text) {
			t.Errorf("IsBlank(%q) = false, want true", text)
		}
	}
	if IsBlank(" G0 X0 ") {
		t.Error("IsBlank with a command should be false")
	}
}

func TestDeriveName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"drawing.svg", "drawing.gcode"},
		{"box.dxf", "box.gcode"},
		{"shapes/drawing.svg", "drawing.gcode"},
		{"noext", "noext.gcode"},
		{"two.dots.svg", "two.dots.gcode"},
	}

	for _, tc := range cases {
		if got := DeriveName(tc.in); got != tc.want {
			t.Errorf("DeriveName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPackageName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"part.gcode", "part.3mf"},
		{"PART.GCODE", "PART.3mf"},
		{"part.nc", "part.nc.3mf"},
		{"plot", "plot.3mf"},
	}

	for _, tc := range cases {
		if got := PackageName(tc.in); got != tc.want {
			t.Errorf("PackageName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAnalyze(t *testing.T) {
	text := "; header\nG0 X0 Y0\nG1 X10 Y10 F1200\n\nM5\n(done)"
	got := Analyze(text)
	want := Stats{Lines: 6, Commands: 3, Moves: 2, Comments: 2, Blank: 1}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Analyze mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	got := Analyze("")
	if got.Lines != 1 || got.Blank != 1 || got.Commands != 0 {
		t.Errorf("Analyze(\"\") = %+v", got)
	}
}

func TestStatsSummary(t *testing.T) {
	s := Stats{Lines: 1, Commands: 2, Moves: 1}
	want := "1 line, 2 commands, 1 move"
	if got := s.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}
