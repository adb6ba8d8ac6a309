package demo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/glpipe"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	src := `
demo = "translation"
width = 200
seed = 42
translation = [10.0, 20.5]
clear_color = "CornflowerBlue"
`
	cfg, err := LoadConfig(strings.NewReader(src))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	want := DefaultConfig()
	want.Demo = NameTranslation
	want.Width = 200
	want.Seed = 42
	want.Translation = [2]float32{10, 20.5}
	want.ClearColor = "CornflowerBlue"
	if cfg != want {
		t.Errorf("LoadConfig() = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown key", `colour = "red"`, "colour"},
		{"syntax", `demo = `, "demo: config"},
		{"unknown demo", `demo = "teapot"`, "unknown demo"},
		{"bad size", `width = 0`, "must be positive"},
		{"bad color", `clear_color = "blurple"`, "unknown color"},
		{"negative count", `count = -1`, "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("LoadConfig() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadConfig() error = %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.toml")
	if err := os.WriteFile(path, []byte("demo = \"random-rectangles\"\ncount = 5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}
	if cfg.Demo != NameRandomRectangles || cfg.Count != 5 {
		t.Errorf("LoadConfigFile() = %+v", cfg)
	}
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("LoadConfigFile(missing) succeeded")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want glpipe.RGBA
	}{
		{"", glpipe.Transparent},
		{"transparent", glpipe.Transparent},
		{"white", glpipe.RGB(1, 1, 1)},
		{" Black ", glpipe.RGB(0, 0, 0)},
		{"red", glpipe.RGB(1, 0, 0)},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseColor("not-a-color"); err == nil {
		t.Error("ParseColor(not-a-color) succeeded")
	}
}

func TestLookup(t *testing.T) {
	cfg := DefaultConfig()
	for _, name := range Names() {
		d, err := Lookup(name, cfg)
		if err != nil {
			t.Errorf("Lookup(%q) error = %v", name, err)
			continue
		}
		if d.Name != name {
			t.Errorf("Lookup(%q).Name = %q", name, d.Name)
		}
		if d.Draw == nil {
			t.Errorf("Lookup(%q).Draw is nil", name)
		}
	}
	if _, err := Lookup("teapot", cfg); !errors.Is(err, ErrUnknownDemo) {
		t.Errorf("Lookup(teapot) error = %v, want ErrUnknownDemo", err)
	}
}

func TestConfigRandReproducible(t *testing.T) {
	cfg := DefaultConfig()
	a, b := cfg.Rand(), cfg.Rand()
	for range 10 {
		if a.Uint64() != b.Uint64() {
			t.Fatal("Rand() streams differ for the same seed")
		}
	}
}
