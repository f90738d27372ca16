package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

// executeCommand runs a command with the given args and captures output.
func executeCommand(args ...string) (string, error) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// testDB returns a --db path in a fresh temp dir, with HOME isolated too.
func testDB(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	return filepath.Join(t.TempDir(), "listings.db")
}

// seedDB loads the sample listings into a fresh database and returns its path.
func seedDB(t *testing.T) string {
	t.Helper()
	path := testDB(t)
	if _, err := executeCommand("seed", "--db", path); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return path
}

func TestRootHelp(t *testing.T) {
	out, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{"search", "show", "import", "seed", "serve", "status"} {
		if !strings.Contains(out, name) {
			t.Errorf("help should list %q", name)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	root := NewRootCmd()

	formatFlag := root.PersistentFlags().Lookup("format")
	if formatFlag == nil {
		t.Fatal("expected --format flag to exist")
	}
	if formatFlag.DefValue != "text" {
		t.Errorf("expected --format default 'text', got %q", formatFlag.DefValue)
	}

	dbFlag := root.PersistentFlags().Lookup("db")
	if dbFlag == nil {
		t.Fatal("expected --db flag to exist")
	}
}

func TestVersion(t *testing.T) {
	out, err := executeCommand("version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != Version {
		t.Errorf("output = %q, want %q", out, Version)
	}
}

func TestDBPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_ = NewRootCmd()

	got, err := dbPath("/srv/hm.db")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/srv/hm.db" {
		t.Errorf("fallback = %q", got)
	}

	flagDB = "/tmp/flag.db"
	defer func() { flagDB = "" }()
	if got, _ := dbPath("/srv/hm.db"); got != "/tmp/flag.db" {
		t.Errorf("flag should win, got %q", got)
	}
}
