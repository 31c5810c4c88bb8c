package traitgen

import (
	"math/rand/v2"
)

// Sampler draws one variant per layer uniformly at random.
// A Sampler is not safe for concurrent use.
type Sampler struct {
	cat *Catalog
	rng *rand.Rand
}

func NewSampler(cat *Catalog, rng *rand.Rand) *Sampler {
	return &Sampler{cat: cat, rng: rng}
}

// Pick draws a variant index for every layer.
func (s *Sampler) Pick(layers []string) ([]int, error) {
	idx := make([]int, len(layers))
	for i, layer := range layers {
		n, err := s.cat.Count(layer)
		if err != nil {
			return nil, err
		}
		idx[i] = s.rng.IntN(n)
	}
	return idx, nil
}

// Sample draws and decodes one asset per layer, in layer order.
func (s *Sampler) Sample(layers []string) ([]Asset, error) {
	idx, err := s.Pick(layers)
	if err != nil {
		return nil, err
	}
	return s.cat.ResolveAll(layers, idx)
}

// Attributes projects per-layer indices to attributes without decoding.
func (c *Catalog) Attributes(layers []string, idx []int) (AttributeSet, error) {
	out := make(AttributeSet, len(layers))
	for i, layer := range layers {
		vs, err := c.listing(layer)
		if err != nil {
			return nil, err
		}
		out[i] = Attribute{TraitType: layer, Value: vs[idx[i]].value}
	}
	return out, nil
}

// ResolveAll decodes idx[i] of layers[i] for every layer.
func (c *Catalog) ResolveAll(layers []string, idx []int) ([]Asset, error) {
	assets := make([]Asset, len(layers))
	for i, layer := range layers {
		a, err := c.Resolve(layer, idx[i])
		if err != nil {
			return nil, err
		}
		assets[i] = a
	}
	return assets, nil
}

// AttributesOf strips the pixel data from assets.
func AttributesOf(assets []Asset) AttributeSet {
	out := make(AttributeSet, len(assets))
	for i, a := range assets {
		out[i] = a.Attribute()
	}
	return out
}
