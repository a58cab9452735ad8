package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestReadTextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plot.gcode")
	if err := os.WriteFile(path, []byte("G0 X0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadTextFile(path)
	if err != nil {
		t.Fatalf("ReadTextFile: %v", err)
	}
	if got != "G0 X0\n" {
		t.Errorf("content = %q", got)
	}

	if _, err := ReadTextFile(filepath.Join(dir, "missing.gcode")); err == nil {
		t.Error("missing file should fail")
	}
	if _, err := ReadTextFile(dir); err == nil {
		t.Error("directory should fail")
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{250 * time.Millisecond, "250 ms"},
		{3 * time.Second, "3.0 sec"},
		{90 * time.Second, "1.5 min"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.in); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tc := range cases {
		if got := FormatFileSize(tc.in); got != tc.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(999); got != "999" {
		t.Errorf("FormatNumber(999) = %q", got)
	}
	if got := FormatNumber(12345); got != "12.3K" {
		t.Errorf("FormatNumber(12345) = %q", got)
	}
}

func TestSanitizeFilename(t *testing.T) {
	if got := SanitizeFilename(`bad<name>.gcode`); strings.ContainsAny(got, `<>`) {
		t.Errorf("SanitizeFilename left invalid chars: %q", got)
	}
	if got := SanitizeFilename("  "); got != "unnamed" {
		t.Errorf("blank name = %q", got)
	}
}

func TestCleanFilename(t *testing.T) {
	if got := CleanFilename(` "part.gcode" `); got != "part.gcode" {
		t.Errorf("CleanFilename = %q", got)
	}
	if got := CleanFilename(`'/work/cut files/star?.gcode'`); got != "/work/cut files/star_.gcode" {
		t.Errorf("path input = %q", got)
	}
	if got := CleanFilename("   "); got != "" {
		t.Errorf("blank input = %q, want empty", got)
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("abcdefgh", 6); got != "abc..." {
		t.Errorf("TruncateString = %q", got)
	}
	if got := TruncateString("abc", 6); got != "abc" {
		t.Errorf("TruncateString short = %q", got)
	}
}
