package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evcraddock/house-market/internal/listing"
)

func TestSeed(t *testing.T) {
	path := testDB(t)

	out, err := executeCommand("seed", "--db", path)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !strings.Contains(out, "Imported 20 listings.") {
		t.Errorf("output = %q", out)
	}

	// Seeding again replaces by id rather than duplicating.
	if _, err := executeCommand("seed", "--db", path); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	out, err = executeCommand("search", "--local", "--db", path, "--format", "json")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if resp := decodeSearch(t, out); resp.Total != 20 {
		t.Errorf("total = %d, want 20", resp.Total)
	}
}

func TestImportFile(t *testing.T) {
	path := testDB(t)
	file := filepath.Join(t.TempDir(), "listings.json")
	data := `[
		{"id": "a1", "address": "1 First St", "city": "Austin", "price": 300000, "status": "for sale"},
		{"address": "2 Second St", "city": "Austin", "status": "pending"}
	]`
	if err := os.WriteFile(file, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand("import", file, "--db", path, "--format", "json")
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	var resp struct {
		Imported int          `json:"imported"`
		IDs      []listing.ID `json:"ids"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decoding output %q: %v", out, err)
	}
	if resp.Imported != 2 || len(resp.IDs) != 2 {
		t.Fatalf("response = %+v", resp)
	}
	if resp.IDs[0] != "a1" {
		t.Errorf("first id = %q, want a1", resp.IDs[0])
	}
	if resp.IDs[1] == "" {
		t.Error("listing without id should be assigned one")
	}

	out, err = executeCommand("show", string(resp.IDs[1]), "--local", "--db", path)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "2 Second St") {
		t.Errorf("show output = %q", out)
	}
}

func TestImportStdin(t *testing.T) {
	path := testDB(t)

	root := NewRootCmd()
	var out strings.Builder
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(`[{"id": "s1", "address": "9 Stdin Way"}]`))
	root.SetArgs([]string{"import", "-", "--db", path})

	if err := root.Execute(); err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out.String(), "Imported 1 listing.") {
		t.Errorf("output = %q", out.String())
	}
}

func TestImportErrors(t *testing.T) {
	path := testDB(t)
	dir := t.TempDir()

	invalid := filepath.Join(dir, "invalid.json")
	if err := os.WriteFile(invalid, []byte(`{"not": "an array"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	noAddress := filepath.Join(dir, "no-address.json")
	if err := os.WriteFile(noAddress, []byte(`[{"id": "x"}]`), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		file string
	}{
		{"missing file", filepath.Join(dir, "missing.json")},
		{"invalid json", invalid},
		{"no address", noAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := executeCommand("import", tt.file, "--db", path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRemove(t *testing.T) {
	path := seedDB(t)

	out, err := executeCommand("remove", "p7", "--db", path)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !strings.Contains(out, "Listing p7 removed.") {
		t.Errorf("output = %q", out)
	}

	_, err = executeCommand("show", "p7", "--local", "--db", path)
	if !errors.Is(err, listing.ErrNotFound) {
		t.Errorf("show after remove: err = %v, want ErrNotFound", err)
	}

	_, err = executeCommand("remove", "p7", "--db", path)
	if !errors.Is(err, listing.ErrNotFound) {
		t.Errorf("second remove: err = %v, want ErrNotFound", err)
	}
}
