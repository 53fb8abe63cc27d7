package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	errs "github.com/matzehuels/spectools/pkg/errors"
	"github.com/matzehuels/spectools/pkg/molecule"
)

func TestOpenFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.json")

	db, err := Open(ctx, Options{Backend: BackendFile, Path: path}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := db.Catalog.AddEntry(ctx, Entry{Name: "hc3n", Frequency: 9098.3}, true); err != nil {
		t.Fatal(err)
	}
	if err := db.Molecules.Add(ctx, &molecule.Molecule{Name: "hc3n", Formula: "HC3N"}); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err = Open(ctx, Options{Path: path}, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got, _ := db.Catalog.SearchMolecule(ctx, "hc3n"); len(got) != 1 {
		t.Errorf("catalog entries after reopen = %d, want 1", len(got))
	}
	if got, _ := db.Molecules.GetFormula(ctx, "HC3N", false); len(got) != 1 {
		t.Errorf("molecules after reopen = %d, want 1", len(got))
	}
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		opts Options
	}{
		{"file without path", Options{Backend: BackendFile}},
		{"mongo without uri", Options{Backend: BackendMongo}},
		{"unknown backend", Options{Backend: "sqlite", Path: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Open(ctx, tt.opts, nil); !errs.Is(err, errs.ErrCodeInvalidConfig) {
				t.Errorf("Open error = %v, want %v", err, errs.ErrCodeInvalidConfig)
			}
		})
	}
}

// TestOpenMongo runs against a live server named by SPECTOOLS_TEST_MONGO.
func TestOpenMongo(t *testing.T) {
	uri := os.Getenv("SPECTOOLS_TEST_MONGO")
	if uri == "" {
		t.Skip("SPECTOOLS_TEST_MONGO not set")
	}
	ctx := context.Background()
	dbName := "spectools_test_" + uuid.NewString()[:8]

	db, err := Open(ctx, Options{Backend: BackendMongo, MongoURI: uri, Database: dbName}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		_ = db.client.Database(dbName).Drop(ctx)
		_ = db.Close(ctx)
	})

	for i, f := range []float64{100, 200, 300} {
		if _, err := db.Catalog.AddEntry(ctx, Entry{Name: "m", Frequency: f, Experiment: i%2 + 1}, false); err != nil {
			t.Fatal(err)
		}
	}
	got, err := db.Catalog.SearchFrequency(ctx, 200, 0.6, true)
	if err != nil || len(got) != 3 {
		t.Errorf("SearchFrequency = %d entries, %v; want 3", len(got), err)
	}
	n, err := db.Catalog.RemoveExperiment(ctx, 1)
	if err != nil || n != 2 {
		t.Errorf("RemoveExperiment = %d, %v; want 2", n, err)
	}

	if err := db.Molecules.Add(ctx, &molecule.Molecule{Name: "x", Constants: map[string]float64{"B": 5000}}); err != nil {
		t.Fatal(err)
	}
	ms, err := db.Molecules.MatchConstants(ctx, 0.01, true, map[string]float64{"B": 5010})
	if err != nil || len(ms) != 1 {
		t.Errorf("MatchConstants = %d, %v; want 1", len(ms), err)
	}
}
