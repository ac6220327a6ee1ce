package services

import (
	"sort"
	"strings"

	"github.com/aniruddh-code-002/moodmart/pkg/models"
)

type rankedProduct struct {
	Product models.Product
	Score   float64
	Reason  string
}

type fusionEntry struct {
	product         models.Product
	emotionScore    float64
	semanticScore   float64
	popularityScore float64
	reasons         []string
}

// hybridRank fuses the three candidate streams into a single ranking. Each
// strategy contributes one weighted partial score per product; a product seen
// twice by the same strategy keeps the later score rather than accumulating.
// Ties preserve first-seen order, which follows emotion, then semantic, then
// popularity stream order.
func (e *RecommendationEngine) hybridRank(emotion, semantic, popularity []Candidate, profile *models.UserProfile, limit int) []rankedProduct {
	entries := make(map[string]*fusionEntry)
	var order []string

	upsert := func(candidate Candidate) *fusionEntry {
		entry, ok := entries[candidate.Product.ID]
		if !ok {
			entry = &fusionEntry{product: candidate.Product}
			entries[candidate.Product.ID] = entry
			order = append(order, candidate.Product.ID)
		}
		entry.reasons = append(entry.reasons, candidate.Reason)
		return entry
	}

	for _, candidate := range emotion {
		upsert(candidate).emotionScore = candidate.Score * e.cfg.EmotionWeight
	}
	for _, candidate := range semantic {
		upsert(candidate).semanticScore = candidate.Score * e.cfg.SemanticWeight
	}
	for _, candidate := range popularity {
		upsert(candidate).popularityScore = candidate.Score * e.cfg.PopularityWeight
	}

	ranked := make([]rankedProduct, 0, len(order))
	for _, productID := range order {
		entry := entries[productID]

		score := entry.emotionScore + entry.semanticScore + entry.popularityScore
		// The preference bonus applies at most once per product, whether it
		// matched on category, price, or both.
		if matchesPreferences(&entry.product, profile) {
			score *= e.cfg.PreferenceBonus
		}

		ranked = append(ranked, rankedProduct{
			Product: entry.product,
			Score:   score,
			Reason:  strings.Join(dedupeReasons(entry.reasons), "; "),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}

// matchesPreferences reports whether the product falls in one of the user's
// browsed categories or inside their preferred price band.
func matchesPreferences(product *models.Product, profile *models.UserProfile) bool {
	if product.Category != "" {
		if _, ok := profile.CategoryPreferences[product.Category]; ok {
			return true
		}
	}

	low, high := profile.PreferredPriceRange[0], profile.PreferredPriceRange[1]
	return product.Price >= low && product.Price <= high
}

func dedupeReasons(reasons []string) []string {
	var unique []string
	seen := make(map[string]bool)
	for _, reason := range reasons {
		if reason == "" || seen[reason] {
			continue
		}
		seen[reason] = true
		unique = append(unique, reason)
	}
	return unique
}
