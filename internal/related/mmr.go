// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package related

import "github.com/tomtom215/masterpiece/internal/models"

// maxRerankSize bounds the similarity matrix.
const maxRerankSize = 1000

// Scored is a candidate with its relevance to the source item.
type Scored struct {
	Item  models.Item `json:"item"`
	Score float64     `json:"score"`
}

// MMR re-ranks items with Maximal Marginal Relevance:
//
//	MMR = argmax[lambda * score(i) - (1-lambda) * max(sim(i, s)) for s in selected]
//
// lambda 1 keeps pure relevance order, 0 maximizes diversity. Ties keep
// input order, so the output is deterministic for a given input.
//
// Carbonell, J., & Goldstein, J. (1998). "The Use of MMR, Diversity-Based
// Reranking for Reordering Documents and Producing Summaries." SIGIR 1998.
func MMR(items []Scored, k int, lambda float64, sim func(a, b *models.Item) float64) []Scored {
	if len(items) == 0 || k <= 0 {
		return nil
	}
	lambda = min(max(lambda, 0), 1)
	k = min(k, len(items), maxRerankSize)
	if len(items) > maxRerankSize {
		items = items[:maxRerankSize]
	}
	if lambda >= 1 || sim == nil {
		return append([]Scored(nil), items[:k]...)
	}

	n := len(items)
	sims := make([][]float64, n)
	for i := range sims {
		sims[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			s := sim(&items[i].Item, &items[j].Item)
			sims[i][j] = s
			sims[j][i] = s
		}
	}

	selected := make([]Scored, 0, k)
	chosen := make([]int, 0, k)
	used := make([]bool, n)

	for len(selected) < k {
		bestIdx := -1
		bestMMR := 0.0
		for i := range items {
			if used[i] {
				continue
			}
			maxSim := 0.0
			for _, j := range chosen {
				if sims[i][j] > maxSim {
					maxSim = sims[i][j]
				}
			}
			score := lambda*items[i].Score - (1-lambda)*maxSim
			if bestIdx < 0 || score > bestMMR {
				bestIdx, bestMMR = i, score
			}
		}
		if bestIdx < 0 {
			break
		}
		used[bestIdx] = true
		chosen = append(chosen, bestIdx)
		selected = append(selected, items[bestIdx])
	}
	return selected
}
