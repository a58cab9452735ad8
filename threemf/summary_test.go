package threemf

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func buildArchive(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestSummarize(t *testing.T) {
	model := `<?xml version="1.0" encoding="UTF-8"?>
<model unit="millimeter" xmlns="http://schemas.microsoft.com/3dmanufacturing/core/2015/02">
  <metadata name="Title">part</metadata>
  <resources/>
  <build/>
</model>`
	data := buildArchive(t, map[string]string{
		"[Content_Types].xml":    `<Types/>`,
		"3D/3dmodel.model":       model,
		"Metadata/plate_1.gcode": "G0 X0\nG1 X10\n",
	})

	summary, err := Summarize(data)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.Entries != 3 {
		t.Errorf("entries = %d", summary.Entries)
	}
	if summary.ModelUnit != "millimeter" {
		t.Errorf("unit = %q", summary.ModelUnit)
	}
	if summary.Title != "part" {
		t.Errorf("title = %q", summary.Title)
	}
	if len(summary.GCodeFiles) != 1 || summary.GCodeFiles[0] != "Metadata/plate_1.gcode" {
		t.Errorf("gcode files = %v", summary.GCodeFiles)
	}
	if summary.PayloadSize == 0 {
		t.Error("payload size should be non-zero")
	}
}

func TestSummarizeRejectsNonArchive(t *testing.T) {
	if _, err := Summarize([]byte(`{"success": false, "error": "oops"}`)); err == nil {
		t.Fatal("JSON bytes must not pass as a package")
	}
	if _, err := Summarize(nil); err == nil {
		t.Fatal("empty bytes must not pass as a package")
	}
}

func TestSummaryString(t *testing.T) {
	s := Summary{Entries: 2, PayloadSize: 512, GCodeFiles: []string{"Metadata/plate_1.gcode"}}
	got := s.String()
	for _, want := range []string{"2 entries", "512 B", "plate_1.gcode"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
}
