package traitgen_test

import (
	"math/rand/v2"
	"testing"

	"github.com/setanarut/traitgen"
)

func TestSamplerSample(t *testing.T) {
	cat := traitgen.NewCatalog(abAssets(t))
	s := traitgen.NewSampler(cat, rand.New(rand.NewPCG(1, 2)))

	seen := make(map[string]int)
	for range 200 {
		assets, err := s.Sample([]string{"B", "A"})
		if err != nil {
			t.Fatal(err)
		}
		if len(assets) != 2 || assets[0].TraitType != "B" || assets[1].TraitType != "A" {
			t.Fatalf("assets out of layer order: %+v", traitgen.AttributesOf(assets))
		}
		if assets[0].Image == nil || assets[1].Image == nil {
			t.Fatal("asset image not decoded")
		}
		seen[assets[0].Value+"/"+assets[1].Value]++
	}
	// Uniform draws over 4 combinations hit each of them in 200 tries.
	if len(seen) != 4 {
		t.Fatalf("combinations drawn: %v", seen)
	}
}

func TestSamplerPickMissingLayer(t *testing.T) {
	s := traitgen.NewSampler(traitgen.NewCatalog(t.TempDir()), rand.New(rand.NewPCG(1, 2)))
	if _, err := s.Pick([]string{"Nope"}); err == nil {
		t.Fatal("expected error")
	}
}
