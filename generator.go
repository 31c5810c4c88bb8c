package traitgen

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/setanarut/traitgen/utils"
)

// Token is one generated unit. Its image has already been handed to the
// sink and is not retained.
type Token struct {
	ID          int
	Attributes  AttributeSet
	Fingerprint Fingerprint
	Metadata    Metadata
}

type plannedToken struct {
	id    int
	idx   []int
	attrs AttributeSet
	fp    Fingerprint
}

// Generator turns a catalog into a collection of unique tokens.
type Generator struct {
	cat  *Catalog
	sink Sink
	opt  Options
}

func NewGenerator(cat *Catalog, sink Sink, opt Options) *Generator {
	return &Generator{cat: cat, sink: sink, opt: opt.withDefaults()}
}

// Capacity returns the product of counts, saturating at math.MaxUint64.
func Capacity(counts []int) uint64 {
	if len(counts) == 0 {
		return 0
	}
	c := uint64(1)
	for _, n := range counts {
		if n <= 0 {
			return 0
		}
		if c > math.MaxUint64/uint64(n) {
			return math.MaxUint64
		}
		c *= uint64(n)
	}
	return c
}

// Generate produces amount tokens with pairwise distinct attribute sets.
//
// Feasibility is checked before anything is written: an amount above the
// combinatorial capacity of layers fails with an *InsufficientAssetsError.
// Combinations for every token are planned up front, then rendered and
// handed to the sink with ids 1..amount. The first render or sink error
// aborts the run; tokens already written are left in place.
func (g *Generator) Generate(ctx context.Context, amount int, layers []string, c Collection) ([]Token, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}
	if len(layers) == 0 {
		return nil, ErrNoLayers
	}
	seen := make(map[string]bool, len(layers))
	for _, l := range layers {
		if seen[l] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLayer, l)
		}
		seen[l] = true
	}

	capacity, err := g.cat.Capacity(layers)
	if err != nil {
		return nil, err
	}
	if uint64(amount) > capacity {
		return nil, &InsufficientAssetsError{Amount: amount, Capacity: capacity}
	}

	seed := g.opt.Seed
	if seed == 0 {
		s, err := utils.NewSeed()
		if err != nil {
			return nil, err
		}
		seed = s
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))

	strategy := g.opt.Strategy
	if strategy == StrategyShuffle && capacity == math.MaxUint64 {
		// The index space no longer fits in 64 bits; duplicates are
		// vanishingly rare there, so plain rejection is cheap.
		strategy = StrategyRejection
	}

	log := g.opt.Logger.With("run_id", uuid.NewString())
	log.Info("generation started",
		"amount", amount,
		"layers", len(layers),
		"capacity", capacity,
		"strategy", strategy.String(),
		"seed", seed,
		"workers", g.opt.Workers,
	)
	start := time.Now()

	reg := NewRegistry()
	var plan []plannedToken
	switch strategy {
	case StrategyRejection:
		plan, err = g.planRejection(rng, reg, layers, amount)
	default:
		plan, err = g.planShuffle(rng, reg, layers, capacity, amount)
	}
	if err != nil {
		return nil, err
	}

	tokens := make([]Token, len(plan))
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opt.Workers)
	for i := range plan {
		if egctx.Err() != nil {
			break
		}
		p := plan[i]
		eg.Go(func() error {
			t, err := g.render(egctx, layers, c, p)
			if err != nil {
				return err
			}
			tokens[i] = t
			if g.opt.Progress != nil {
				g.opt.Progress.Inc()
			}
			log.Debug("token written", "id", t.ID, "fingerprint", t.Fingerprint.String())
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		log.Error("generation aborted", "error", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Info("generation finished", "tokens", len(tokens), "elapsed", time.Since(start))
	return tokens, nil
}

// planShuffle takes the first amount positions of a Fisher-Yates shuffle
// of [0, capacity). Only displaced positions are stored, so memory is
// O(amount) regardless of capacity.
func (g *Generator) planShuffle(rng *rand.Rand, reg *Registry, layers []string, capacity uint64, amount int) ([]plannedToken, error) {
	counts := make([]int, len(layers))
	for i, l := range layers {
		n, err := g.cat.Count(l)
		if err != nil {
			return nil, err
		}
		counts[i] = n
	}
	displaced := make(map[uint64]uint64, amount)
	at := func(k uint64) uint64 {
		if v, ok := displaced[k]; ok {
			return v
		}
		return k
	}

	plan := make([]plannedToken, 0, amount)
	for i := range uint64(amount) {
		j := i + rng.Uint64N(capacity-i)
		pick := at(j)
		displaced[j] = at(i)

		idx := decodeIndex(pick, counts)
		attrs, err := g.cat.Attributes(layers, idx)
		if err != nil {
			return nil, err
		}
		fp, ok := reg.AcceptFingerprint(FingerprintOf(attrs))
		if !ok {
			// Unreachable while the catalog rejects duplicate stems.
			return nil, fmt.Errorf("traitgen: combination %v planned twice", attrs.Values())
		}
		plan = append(plan, plannedToken{id: int(i) + 1, idx: idx, attrs: attrs, fp: fp})
	}
	return plan, nil
}

func (g *Generator) planRejection(rng *rand.Rand, reg *Registry, layers []string, amount int) ([]plannedToken, error) {
	s := NewSampler(g.cat, rng)
	plan := make([]plannedToken, 0, amount)
	for id := 1; id <= amount; id++ {
		accepted := false
		for range g.opt.MaxAttempts {
			idx, err := s.Pick(layers)
			if err != nil {
				return nil, err
			}
			attrs, err := g.cat.Attributes(layers, idx)
			if err != nil {
				return nil, err
			}
			fp, ok := reg.AcceptFingerprint(FingerprintOf(attrs))
			if !ok {
				continue
			}
			plan = append(plan, plannedToken{id: id, idx: idx, attrs: attrs, fp: fp})
			accepted = true
			break
		}
		if !accepted {
			return nil, fmt.Errorf("%w: token %d after %d attempts", ErrSamplingExhausted, id, g.opt.MaxAttempts)
		}
	}
	return plan, nil
}

func (g *Generator) render(ctx context.Context, layers []string, c Collection, p plannedToken) (Token, error) {
	if err := ctx.Err(); err != nil {
		return Token{}, err
	}
	assets, err := g.cat.ResolveAll(layers, p.idx)
	if err != nil {
		return Token{}, err
	}
	img, err := CompositeAssets(assets)
	if err != nil {
		return Token{}, err
	}
	md := Synthesize(c, p.id, p.attrs)
	if g.opt.PaletteSize > 0 {
		palette := utils.ExtractPalette(img, g.opt.PaletteSize, g.opt.PaletteMethod)
		if len(palette) > 0 {
			utils.SortPaletteByBrightness(palette)
			md.BackgroundColor = utils.HexNoHash(palette[0])
		}
	}
	if err := g.sink.Put(ctx, p.id, img, md); err != nil {
		return Token{}, err
	}
	return Token{ID: p.id, Attributes: p.attrs, Fingerprint: p.fp, Metadata: md}, nil
}

// decodeIndex expands a combination index into per-layer variant indices.
// The last layer varies fastest.
func decodeIndex(k uint64, counts []int) []int {
	idx := make([]int, len(counts))
	for i := len(counts) - 1; i >= 0; i-- {
		n := uint64(counts[i])
		idx[i] = int(k % n)
		k /= n
	}
	return idx
}
