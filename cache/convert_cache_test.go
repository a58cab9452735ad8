package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cutplot/models"
)

func TestPutGet(t *testing.T) {
	c := NewConvertCache(time.Minute, 10)
	defer c.Close()

	resp := models.ConvertResponse{Success: true, GCode: "G0 X0\n", LineCount: 2}
	c.Put("k1", resp)

	got, ok := c.Get("k1")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.GCode != resp.GCode || got.LineCount != 2 {
		t.Errorf("got %+v", got)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("unexpected hit for missing key")
	}
}

func TestExpiration(t *testing.T) {
	c := NewConvertCache(10*time.Millisecond, 10)
	defer c.Close()

	c.Put("k", models.ConvertResponse{Success: true})
	time.Sleep(25 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("entry should have expired")
	}
}

func TestEviction(t *testing.T) {
	c := NewConvertCache(time.Minute, 2)
	defer c.Close()

	c.Put("a", models.ConvertResponse{})
	c.Put("b", models.ConvertResponse{})
	c.Put("c", models.ConvertResponse{})

	if c.Size() > 2 {
		t.Errorf("size = %d, want <= 2", c.Size())
	}
}

func TestKeyTracksFileChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drawing.svg")
	if err := os.WriteFile(path, []byte("<svg/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	k1, err := Key(path)
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	k2, err := Key(path)
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	if k1 != k2 {
		t.Error("key should be stable for an untouched file")
	}

	time.Sleep(5 * time.Millisecond)
	if err := os.WriteFile(path, []byte("<svg></svg>"), 0o644); err != nil {
		t.Fatal(err)
	}
	k3, err := Key(path)
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	if k3 == k1 {
		t.Error("key should change when the file changes")
	}
}
