package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/roomforge/pkg/geometry"
)

func testCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return New(&bytes.Buffer{}, log.InfoLevel)
}

func TestRootCommandStructure(t *testing.T) {
	root := testCLI(t).RootCommand()

	want := []string{"solve", "validate", "catalog", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestSolveCommandEndToEnd(t *testing.T) {
	c := testCLI(t)

	dir := t.TempDir()
	roomPath := filepath.Join(dir, "room.json")
	plan := geometry.RectangularPlan(5, 4)
	plan.Doors = []geometry.PlanDoor{{ID: "d1", X: 2.5, Y: 0, WidthM: 0.9}}
	data, _ := json.Marshal(plan)
	if err := os.WriteFile(roomPath, data, 0o644); err != nil {
		t.Fatal(err)
	}

	outPath := filepath.Join(dir, "layouts.json")
	root := c.RootCommand()
	root.SetArgs([]string{"solve", roomPath, "-o", outPath, "--no-cache", "-n", "1", "--time-budget", "20"})
	root.SetOut(&bytes.Buffer{})

	if err := root.Execute(); err != nil {
		t.Fatalf("solve command error = %v", err)
	}

	raw, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	var out struct {
		Solutions []json.RawMessage `json:"solutions"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if len(out.Solutions) == 0 {
		t.Error("solve wrote no solutions")
	}
}

func TestCatalogListCommand(t *testing.T) {
	c := testCLI(t)
	root := c.RootCommand()
	root.SetArgs([]string{"catalog", "list"})
	root.SetOut(&bytes.Buffer{})

	if err := root.Execute(); err != nil {
		t.Fatalf("catalog list error = %v", err)
	}
}

func TestValidateCommandRequiresRoom(t *testing.T) {
	c := testCLI(t)
	root := c.RootCommand()
	root.SetArgs([]string{"validate", "layout.json"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "room") {
		t.Fatalf("expected missing --room error, got %v", err)
	}
}
