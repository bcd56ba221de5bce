package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDocumentsCommandsAgainstSQLite(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	body := "storage:\n  driver: sqlite\nsqlite:\n  path: " + filepath.Join(dir, "docs.db") + "\nlog:\n  level: error\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	run := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
		if err := cmd.Execute(); err != nil {
			t.Fatalf("%v: %v\n%s", args, err, out.String())
		}
		return out.String()
	}

	id := strings.TrimSpace(run("documents", "create", "Spring launch"))
	if id == "" {
		t.Fatalf("expected created id")
	}
	listing := run("documents", "list")
	if !strings.Contains(listing, id) || !strings.Contains(listing, "Spring launch") {
		t.Fatalf("document missing from listing:\n%s", listing)
	}

	run("documents", "delete", id)
	if listing := run("documents", "list"); strings.Contains(listing, id) {
		t.Fatalf("document still listed after delete:\n%s", listing)
	}
}

func TestLoadConfigFallsBackWhenDefaultMissing(t *testing.T) {
	wd, _ := os.Getwd()
	t.Cleanup(func() { os.Chdir(wd) })
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver == "" {
		t.Fatalf("expected defaults")
	}
	if _, err := loadConfig("missing.yaml"); err == nil {
		t.Fatalf("explicit missing file should fail")
	}
}
