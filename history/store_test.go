package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"cutplot/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddJobAssignsIdentity(t *testing.T) {
	s := openTestStore(t)

	rec, err := s.AddJob(models.JobRecord{Action: models.ActionSendRaw, FileName: "a.gcode", LineCount: 3, OK: true})
	if err != nil {
		t.Fatalf("AddJob: %v", err)
	}
	if rec.ID == "" {
		t.Error("ID not assigned")
	}
	if rec.When.IsZero() {
		t.Error("timestamp not assigned")
	}
}

func TestJobsNewestFirst(t *testing.T) {
	s := openTestStore(t)

	for _, name := range []string{"one.gcode", "two.gcode", "three.gcode"} {
		if _, err := s.AddJob(models.JobRecord{Action: models.ActionConvert, FileName: name, OK: true}); err != nil {
			t.Fatalf("AddJob(%s): %v", name, err)
		}
	}

	jobs, err := s.Jobs(0)
	if err != nil {
		t.Fatalf("Jobs: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("len(jobs) = %d", len(jobs))
	}
	if jobs[0].FileName != "three.gcode" || jobs[2].FileName != "one.gcode" {
		t.Errorf("order = %s, %s, %s", jobs[0].FileName, jobs[1].FileName, jobs[2].FileName)
	}

	limited, err := s.Jobs(2)
	if err != nil {
		t.Fatalf("Jobs(2): %v", err)
	}
	if len(limited) != 2 || limited[0].FileName != "three.gcode" {
		t.Errorf("limited = %+v", limited)
	}
}

func TestExportYAML(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.AddJob(models.JobRecord{Action: models.ActionValidate, FileName: "plot.gcode", OK: false, Detail: "line 2: unknown word"}); err != nil {
		t.Fatalf("AddJob: %v", err)
	}

	out := filepath.Join(t.TempDir(), "jobs.yaml")
	if err := s.ExportYAML(out); err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var doc struct {
		Exported time.Time          `yaml:"exported"`
		Jobs     []models.JobRecord `yaml:"jobs"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if len(doc.Jobs) != 1 || doc.Jobs[0].Detail != "line 2: unknown word" {
		t.Errorf("export content = %+v", doc.Jobs)
	}
}

func TestRecentFilesPruneAndOrder(t *testing.T) {
	s := openTestStore(t)

	paths := []string{"a.gcode", "b.gcode", "c.gcode", "d.gcode"}
	for _, p := range paths {
		if err := s.TouchRecent(p, 3); err != nil {
			t.Fatalf("TouchRecent(%s): %v", p, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	entries, err := s.RecentFiles()
	if err != nil {
		t.Fatalf("RecentFiles: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3 after prune", len(entries))
	}
	if filepath.Base(entries[0].Path) != "d.gcode" {
		t.Errorf("newest = %s", entries[0].Path)
	}
	for _, e := range entries {
		if filepath.Base(e.Path) == "a.gcode" {
			t.Error("oldest entry should have been pruned")
		}
	}
}

func TestTouchRecentSamePathKeepsOneEntry(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < 3; i++ {
		if err := s.TouchRecent("same.gcode", 10); err != nil {
			t.Fatalf("TouchRecent: %v", err)
		}
	}

	entries, err := s.RecentFiles()
	if err != nil {
		t.Fatalf("RecentFiles: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("len = %d, want 1", len(entries))
	}
}
