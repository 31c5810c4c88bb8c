package traitgen_test

import (
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/setanarut/traitgen"
)

func set(values ...string) traitgen.AttributeSet {
	out := make(traitgen.AttributeSet, len(values))
	for i, v := range values {
		out[i] = traitgen.Attribute{TraitType: string(rune('A' + i)), Value: v}
	}
	return out
}

func TestRegistryAccept(t *testing.T) {
	r := traitgen.NewRegistry()
	if !r.Accept(set("red", "circle")) {
		t.Fatal("first accept returned false")
	}
	if r.Accept(set("red", "circle")) {
		t.Fatal("duplicate accepted")
	}
	if !r.Accept(set("circle", "red")) {
		t.Fatal("reordered values rejected")
	}
	if !r.Contains(set("red", "circle")) || r.Contains(set("blue", "circle")) {
		t.Fatal("Contains disagrees with Accept")
	}
	if r.Len() != 2 {
		t.Fatalf("len = %d, want 2", r.Len())
	}
}

func TestFingerprintIsDelimited(t *testing.T) {
	a := traitgen.FingerprintOf(set("a", "bc"))
	b := traitgen.FingerprintOf(set("ab", "c"))
	if a.String() == b.String() {
		t.Fatal("concatenation collision")
	}
	r := traitgen.NewRegistry()
	if !r.Accept(set("a", "bc")) || !r.Accept(set("ab", "c")) {
		t.Fatal("distinct sets collided in registry")
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	a := traitgen.FingerprintOf(set("red", "circle"))
	b := traitgen.FingerprintOf(set("red", "circle"))
	if a.String() != b.String() {
		t.Fatalf("%s != %s", a, b)
	}
	// CIDv1, raw codec, sha2-256, base32.
	if !strings.HasPrefix(a.String(), "bafkrei") {
		t.Fatalf("unexpected fingerprint encoding %s", a)
	}
	if traitgen.Fingerprint(nil).String() != "" {
		t.Fatal("empty fingerprint should render empty")
	}
}

// TestRegistryConcurrentAccept races many workers on the same sets; each
// set must be accepted exactly once.
func TestRegistryConcurrentAccept(t *testing.T) {
	r := traitgen.NewRegistry()
	sets := []traitgen.AttributeSet{
		set("red", "circle"), set("red", "square"),
		set("blue", "circle"), set("blue", "square"),
	}
	wins := make([]atomic.Int32, len(sets))

	workers := runtime.GOMAXPROCS(0) * 4
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for i := range 1000 {
				k := i % len(sets)
				if r.Accept(sets[k]) {
					wins[k].Add(1)
				}
			}
		}()
	}
	wg.Wait()

	for i := range wins {
		if n := wins[i].Load(); n != 1 {
			t.Errorf("set %v accepted %d times", sets[i].Values(), n)
		}
	}
	if r.Len() != len(sets) {
		t.Fatalf("len = %d, want %d", r.Len(), len(sets))
	}
}
