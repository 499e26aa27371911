package store

import (
	"time"

	"github.com/detalhesstore/detalhes-backend/pkg/db/models"
	"github.com/lib/pq"
)

// Derived tags. Authored tags are never touched by the derivation.
const (
	TagNew        = "Novidade"
	TagBestseller = "Mais Vendido"
)

const (
	newProductAge          = 7 * 24 * time.Hour
	bestsellerCartAddCount = 50
	bestsellerViewCount    = 500
)

// deriveTags strips the two derived tags from every product and recomputes
// them from age and counters. It reports whether any tag list actually
// changed so callers can skip persisting an unchanged catalog. Applying it
// twice yields the same result.
func deriveTags(products []models.Product, now time.Time) ([]models.Product, bool) {
	changed := false
	out := make([]models.Product, len(products))
	for i, p := range products {
		next := p.Clone()
		next.Tags = recomputeTags(next, now)
		if !sameTags(p.Tags, next.Tags) {
			changed = true
		}
		out[i] = next
	}
	return out, changed
}

func recomputeTags(p models.Product, now time.Time) pq.StringArray {
	tags := make(pq.StringArray, 0, len(p.Tags)+2)
	for _, tag := range p.Tags {
		if tag == TagNew || tag == TagBestseller {
			continue
		}
		tags = append(tags, tag)
	}
	if now.Sub(p.CreatedAt) < newProductAge {
		tags = append(tags, TagNew)
	}
	if p.CartAddCount > bestsellerCartAddCount || p.ViewCount > bestsellerViewCount {
		tags = append(tags, TagBestseller)
	}
	return tags
}

func sameTags(a, b pq.StringArray) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
