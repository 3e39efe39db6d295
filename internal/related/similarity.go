// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

// Package related finds catalog items similar to a given one.
//
// Candidates from the same category are scored with a weighted content
// similarity:
//
//	score = w_sub * sameSubcategory + w_tags * jaccard(tags)
//	      + w_creator * sharedCreator + w_year * yearProximity
//
// and the best ones are re-ranked with Maximal Marginal Relevance so the
// list is not ten near-identical picks.
package related

import (
	"math"
	"strings"

	"github.com/tomtom215/masterpiece/internal/models"
)

// Weights are the similarity component weights. They are normalized to sum
// to one; all-zero weights fall back to the defaults.
type Weights struct {
	Subcategory float64
	Tags        float64
	Creator     float64
	Year        float64
}

// DefaultWeights favor shared tags and subcategory.
func DefaultWeights() Weights {
	return Weights{Subcategory: 0.3, Tags: 0.4, Creator: 0.2, Year: 0.1}
}

func (w Weights) normalized() Weights {
	total := w.Subcategory + w.Tags + w.Creator + w.Year
	if total <= 0 || math.IsNaN(total) {
		return DefaultWeights().normalized()
	}
	return Weights{
		Subcategory: w.Subcategory / total,
		Tags:        w.Tags / total,
		Creator:     w.Creator / total,
		Year:        w.Year / total,
	}
}

// Similarity scores two items in [0, 1]. maxYearDiff is the gap at which
// year proximity reaches zero.
func Similarity(a, b *models.Item, w Weights, maxYearDiff int) float64 {
	if maxYearDiff <= 0 {
		maxYearDiff = 25
	}
	var score float64
	if a.Subcategory != "" && a.Subcategory == b.Subcategory {
		score += w.Subcategory
	}
	score += w.Tags * jaccard(a.Tags, b.Tags)
	if sharesCreator(a, b) {
		score += w.Creator
	}
	if a.Year > 0 && b.Year > 0 {
		diff := math.Abs(float64(a.Year - b.Year))
		if prox := 1.0 - diff/float64(maxYearDiff); prox > 0 {
			score += w.Year * prox
		}
	}
	return score
}

// jaccard computes |A∩B| / |A∪B| over case-insensitive tag sets.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}

	intersection := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func sharesCreator(a, b *models.Item) bool {
	ca := a.Creators()
	if len(ca) == 0 {
		return false
	}
	for _, x := range ca {
		for _, y := range b.Creators() {
			if strings.EqualFold(strings.TrimSpace(x), strings.TrimSpace(y)) {
				return true
			}
		}
	}
	return false
}
