package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/devKoy/csv-version-compare/pkg/schema"
)

func newTestApp(t *testing.T, config *Config) *App {
	t.Helper()
	chdirTemp(t)
	logger := zerolog.Nop()
	a, err := New("1.0.0", "abc123", "2026-01-01", "test", WithConfig(config), WithLogger(&logger))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return a
}

func TestNew(t *testing.T) {
	a := newTestApp(t, &Config{Profile: "erp", BatchSize: 10, Format: "json"})

	if a.Version() != "1.0.0" || a.Commit() != "abc123" || a.Date() != "2026-01-01" || a.BuiltBy() != "test" {
		t.Error("version information not stored")
	}
	if a.OutputFormat() != "json" {
		t.Errorf("OutputFormat() = %q", a.OutputFormat())
	}
	d := a.Defaults()
	if d.Profile != "erp" || d.BatchSize != 10 {
		t.Errorf("Defaults() = %+v", d)
	}
}

func TestProfiles(t *testing.T) {
	a := newTestApp(t, &Config{})

	r1, err := a.Profiles()
	if err != nil {
		t.Fatalf("Profiles() failed: %v", err)
	}
	r2, _ := a.Profiles()
	if r1 != r2 {
		t.Error("Profiles() should return the same registry")
	}
	if _, err := r1.Get(schema.ProfileLegacy); err != nil {
		t.Errorf("built-in profile missing: %v", err)
	}
}

func TestProfilesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	content := `profiles:
  - name: warehouse
    aliases:
      PO Number: OrderNo
      Units: QtyOrdered
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	a := newTestApp(t, &Config{ProfilesFile: path})
	registry, err := a.Profiles()
	if err != nil {
		t.Fatalf("Profiles() failed: %v", err)
	}
	p, err := registry.Get("warehouse")
	if err != nil {
		t.Fatalf("loaded profile missing: %v", err)
	}
	if p.Canonical("units") != "QtyOrdered" {
		t.Errorf("Canonical(units) = %q", p.Canonical("units"))
	}

	broken := newTestApp(t, &Config{ProfilesFile: filepath.Join(dir, "missing.yaml")})
	if _, err := broken.Profiles(); err == nil {
		t.Error("expected error for missing profiles file")
	}
}

func TestExecuteVersion(t *testing.T) {
	a := newTestApp(t, &Config{})

	root := a.createRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out.String(), "csvcompare 1.0.0") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestExecuteRegistersCommands(t *testing.T) {
	a := newTestApp(t, &Config{})
	root := a.createRootCommand()

	for _, name := range []string{"compare", "aggregate", "plan", "profiles", "serve", "version", "completion"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestSetupCommandAppliesFlags(t *testing.T) {
	a := newTestApp(t, &Config{Format: "table"})

	root := a.createRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--format", "yaml", "--log-level", "error", "profiles"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("profiles failed: %v", err)
	}
	if a.OutputFormat() != "yaml" {
		t.Errorf("OutputFormat() = %q, want yaml", a.OutputFormat())
	}
	if a.Logger().GetLevel() != zerolog.ErrorLevel {
		t.Errorf("logger level = %s, want error", a.Logger().GetLevel())
	}
}

func TestShutdown(t *testing.T) {
	a := newTestApp(t, &Config{})
	if _, err := a.Profiles(); err != nil {
		t.Fatal(err)
	}
	if err := a.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() = %v", err)
	}
}
