package etl

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestCSVSource(t *testing.T) {
	t.Run("reads header and rows", func(t *testing.T) {
		path := writeTempCSV(t, "votes.csv", "state,year,votes\nNY,2020,10\nCA,2020,7\n")
		src := NewCSVSource(path)
		got, err := Collect(src.Records())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []Record{
			{"state": "NY", "year": "2020", "votes": "10"},
			{"state": "CA", "year": "2020", "votes": "7"},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("restartable across runs", func(t *testing.T) {
		path := writeTempCSV(t, "votes.csv", "state\nNY\n")
		src := NewCSVSource(path)
		for i := 0; i < 2; i++ {
			got, err := Collect(src.Records())
			if err != nil {
				t.Fatalf("run %d: unexpected error: %v", i, err)
			}
			if len(got) != 1 || got[0]["state"] != "NY" {
				t.Errorf("run %d: got %v", i, got)
			}
		}
	})

	t.Run("custom delimiter", func(t *testing.T) {
		path := writeTempCSV(t, "votes.tsv", "state\tvotes\nNY\t10\n")
		src := NewCSVSource(path, WithComma('\t'))
		got, err := Collect(src.Records())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []Record{{"state": "NY", "votes": "10"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("missing file surfaces on first pull", func(t *testing.T) {
		src := NewCSVSource(filepath.Join(t.TempDir(), "absent.csv"))
		if _, err := Collect(src.Records()); err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("ragged row reports its line", func(t *testing.T) {
		path := writeTempCSV(t, "bad.csv", "a,b\n1\n")
		src := NewCSVSource(path)
		_, err := Collect(src.Records())
		if err == nil {
			t.Fatal("expected error for ragged row")
		}
		if !contains(err.Error(), "line 2") {
			t.Errorf("error %q does not name line 2", err)
		}
	})
}
