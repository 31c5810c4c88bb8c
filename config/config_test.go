package config_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/pflag"

	"github.com/setanarut/traitgen"
	"github.com/setanarut/traitgen/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(nil, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Assets != "./assets" || cfg.Output != "./output" || cfg.Amount != 10 || cfg.Workers != 1 {
		t.Fatalf("defaults = %+v", cfg)
	}
	if len(cfg.Layers) != 0 || cfg.Strategy != "shuffle" || cfg.Log.Level != "info" {
		t.Fatalf("defaults = %+v", cfg)
	}
	opt := cfg.Options()
	if opt.Strategy != traitgen.StrategyShuffle || opt.PaletteSize != 0 {
		t.Fatalf("options = %+v", opt)
	}
}

func TestLoadFlags(t *testing.T) {
	cfg, err := config.Load([]string{
		"-n", "25",
		"--layers", "Background,Eyes,Top lid",
		"--name", "Foo",
		"--description", "Bar",
		"--base-uri", "https://x/",
		"--strategy", "rejection",
		"--seed", "99",
		"--workers", "3",
		"--palette-size", "4",
		"--palette-method", "kmeans",
		"--rarity-report",
	}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Amount != 25 || cfg.Seed != 99 || cfg.Workers != 3 || !cfg.Rarity.Report {
		t.Fatalf("cfg = %+v", cfg)
	}
	if want := []string{"Background", "Eyes", "Top lid"}; !slices.Equal(cfg.Layers, want) {
		t.Fatalf("layers = %q", cfg.Layers)
	}
	if cfg.Collection != (traitgen.Collection{Name: "Foo", Description: "Bar", BaseURI: "https://x/"}) {
		t.Fatalf("collection = %+v", cfg.Collection)
	}
	opt := cfg.Options()
	if opt.Strategy != traitgen.StrategyRejection || opt.Seed != 99 || opt.PaletteSize != 4 || opt.PaletteMethod.String() != "kmeans" {
		t.Fatalf("options = %+v", opt)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("TRAITGEN_AMOUNT", "7")
	t.Setenv("TRAITGEN_COLLECTION_BASE_URI", "ipfs://cid/")
	cfg, err := config.Load(nil, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Amount != 7 || cfg.Collection.BaseURI != "ipfs://cid/" {
		t.Fatalf("cfg = %+v", cfg)
	}

	// Flags win over the environment.
	cfg, err = config.Load([]string{"--amount", "3"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Amount != 3 {
		t.Fatalf("amount = %d, want 3", cfg.Amount)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traitgen.yaml")
	doc := `
amount: 4
layers: [A, B]
collection:
  name: Foo
  base_uri: https://x/
log:
  format: json
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load([]string{"--config", path}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Amount != 4 || !slices.Equal(cfg.Layers, []string{"A", "B"}) || cfg.Collection.Name != "Foo" || cfg.Log.Format != "json" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := [][]string{
		{"--amount", "0"},
		{"--strategy", "random"},
		{"--palette-method", "median"},
		{"--workers", "-1"},
	}
	for _, args := range tests {
		if _, err := config.Load(args, io.Discard); !errors.Is(err, config.ErrInvalid) {
			t.Errorf("Load(%q) err = %v, want ErrInvalid", args, err)
		}
	}
}

func TestLoadHelp(t *testing.T) {
	if _, err := config.Load([]string{"--help"}, io.Discard); !errors.Is(err, pflag.ErrHelp) {
		t.Fatalf("err = %v, want pflag.ErrHelp", err)
	}
}
