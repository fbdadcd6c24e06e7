package keybinds

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseConfig_JSONC(t *testing.T) {
	data := []byte(`{
  // confirm with y as well
  "version": "1.0",
  "default": {
    "Shutdown": "enter, y",
    "Close": "n,esc",
  },
}`)

	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Default["Shutdown"] != "enter, y" {
		t.Errorf("Shutdown = %q", cfg.Default["Shutdown"])
	}
}

func TestApplyConfig_ReplacesActionKeys(t *testing.T) {
	r := NewDefaultRegistry()
	cfg := &Config{Default: map[string]string{"Close": "n, esc"}}

	if err := ApplyConfig(r, cfg); err != nil {
		t.Fatalf("ApplyConfig() error = %v", err)
	}

	if r.HasBinding(ContextDefault, "c") {
		t.Error("default key c should be replaced")
	}
	for _, k := range []string{"n", "esc"} {
		if a, ok := r.Match(ContextDefault, k); !ok || a != ActionClose {
			t.Errorf("Match(%q) = (%q, %v), want Close", k, a, ok)
		}
	}
	if a, _ := r.Match(ContextDefault, "enter"); a != ActionShutdown {
		t.Error("untouched actions keep their defaults")
	}
}

func TestApplyConfig_CustomContext(t *testing.T) {
	r := NewDefaultRegistry()
	cfg := &Config{Custom: map[string]map[string]string{
		"kiosk": {"Shutdown": "p"},
	}}

	if err := ApplyConfig(r, cfg); err != nil {
		t.Fatalf("ApplyConfig() error = %v", err)
	}
	if a, ok := r.Match(Context("kiosk"), "p"); !ok || a != ActionShutdown {
		t.Errorf("Match(kiosk, p) = (%q, %v)", a, ok)
	}

	bad := &Config{Custom: map[string]map[string]string{"default": {"Close": "q"}}}
	if err := ApplyConfig(NewDefaultRegistry(), bad); err == nil {
		t.Error("custom section named default should be rejected")
	}
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	r, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault() without file error = %v", err)
	}
	if a, _ := r.Match(ContextDefault, "enter"); a != ActionShutdown {
		t.Error("missing file should give defaults")
	}

	if err := os.WriteFile(path, []byte(`{"default": {"Shutdown": "y"}}`), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	r, err = LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if r.HasBinding(ContextDefault, "enter") {
		t.Error("enter should no longer power off")
	}
	if a, _ := r.Match(ContextDefault, "y"); a != ActionShutdown {
		t.Error("y should power off")
	}

	if err := os.WriteFile(path, []byte(`{not json`), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := LoadOrDefault(path); err == nil {
		t.Error("malformed file should fail")
	}
}

func TestExportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := SaveConfig(ExportDefaults(), path); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	r, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	want := NewDefaultRegistry().ListBindings(ContextDefault)
	got := r.ListBindings(ContextDefault)
	if len(got) != len(want) {
		t.Fatalf("got %d bindings, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("binding %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSplitKeys(t *testing.T) {
	got := SplitKeys(" enter, ,y,")
	if len(got) != 2 || got[0] != "enter" || got[1] != "y" {
		t.Errorf("SplitKeys() = %v", got)
	}
}
