package traitgen

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type ValueRarity struct {
	Value     string  `json:"value"`
	Count     int     `json:"count"`
	Frequency float64 `json:"frequency"`
}

type LayerRarity struct {
	Layer string `json:"layer"`
	// Entropy is the Shannon entropy (nats) of the layer's value distribution.
	Entropy float64       `json:"entropy"`
	Values  []ValueRarity `json:"values"`
}

type TokenRarity struct {
	ID    int     `json:"id"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// RarityReport describes how often each trait value occurs in a generated
// collection. It does not influence sampling.
type RarityReport struct {
	Tokens int           `json:"tokens"`
	Layers []LayerRarity `json:"layers"`
	// Ranking lists tokens from rarest (rank 1) to most common.
	Ranking []TokenRarity `json:"ranking"`
}

// BuildRarityReport counts value occurrences per layer and scores each
// token as the sum of 1/frequency over its attributes.
func BuildRarityReport(layers []string, tokens []Token) RarityReport {
	r := RarityReport{Tokens: len(tokens)}
	if len(tokens) == 0 {
		return r
	}
	n := float64(len(tokens))

	freq := make([]map[string]float64, len(layers))
	for li, layer := range layers {
		counts := make(map[string]int)
		for _, t := range tokens {
			counts[t.Attributes[li].Value]++
		}
		values := make([]ValueRarity, 0, len(counts))
		p := make([]float64, 0, len(counts))
		freq[li] = make(map[string]float64, len(counts))
		for v, c := range counts {
			f := float64(c) / n
			values = append(values, ValueRarity{Value: v, Count: c, Frequency: f})
			freq[li][v] = f
		}
		slices.SortFunc(values, func(a, b ValueRarity) int {
			if c := cmp.Compare(b.Count, a.Count); c != 0 {
				return c
			}
			return cmp.Compare(a.Value, b.Value)
		})
		for _, v := range values {
			p = append(p, v.Frequency)
		}
		r.Layers = append(r.Layers, LayerRarity{Layer: layer, Entropy: stat.Entropy(p), Values: values})
	}

	inv := make([]float64, len(layers))
	r.Ranking = make([]TokenRarity, len(tokens))
	for i, t := range tokens {
		for li := range layers {
			inv[li] = 1 / freq[li][t.Attributes[li].Value]
		}
		r.Ranking[i] = TokenRarity{ID: t.ID, Score: floats.Sum(inv)}
	}
	slices.SortStableFunc(r.Ranking, func(a, b TokenRarity) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	for i := range r.Ranking {
		r.Ranking[i].Rank = i + 1
	}
	return r
}
