package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/aniruddh-code-002/moodmart/pkg/models"
)

// Candidate is a strategy-scored product before fusion.
type Candidate struct {
	Product models.Product
	Score   float64
	Reason  string
}

// Scores below this threshold carry no emotional signal worth surfacing.
const emotionRelevanceThreshold = 0.3

func primaryEmotion(profile *models.UserProfile) string {
	if len(profile.RecentEmotions) > 0 {
		return profile.RecentEmotions[0]
	}
	return "neutral"
}

// emotionCandidates scores the catalog against the user's most recent
// emotion and keeps everything above the relevance threshold. Equal scores
// keep catalog order.
func (e *RecommendationEngine) emotionCandidates(profile *models.UserProfile, products []models.Product, limit int) []Candidate {
	emotion := primaryEmotion(profile)

	var candidates []Candidate
	for i := range products {
		product := products[i]
		appeal := e.matcher.ProductAppeal(&product)
		score := e.matcher.MatchScore(emotion, appeal.Emotions)

		if score > emotionRelevanceThreshold {
			candidates = append(candidates, Candidate{
				Product: product,
				Score:   score,
				Reason:  fmt.Sprintf("Emotionally matches your %s mood", emotion),
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates
}

// semanticCandidates ranks the catalog against a contextual query built from
// the user's mood, situation and category affinities.
func (e *RecommendationEngine) semanticCandidates(ctx context.Context, profile *models.UserProfile, reqContext map[string]string, products []models.Product, limit int) ([]Candidate, error) {
	qc := QueryContext{
		Mood:        primaryEmotion(profile),
		Situation:   reqContext["situation"],
		CurrentNeed: reqContext["current_need"],
		Categories:  profileCategories(profile),
	}

	results, err := e.index.ContextualSearch(ctx, qc, products, limit)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(results))
	for _, result := range results {
		candidates = append(candidates, Candidate{
			Product: result.Product,
			Score:   result.Similarity,
			Reason:  "Matches your interests and browsing patterns",
		})
	}

	return candidates, nil
}

// popularityCandidates returns the top-rated products with linearly decaying
// scores, so three products come out at 1.0, 0.9 and 0.8.
func (e *RecommendationEngine) popularityCandidates(products []models.Product, limit int) []Candidate {
	byRating := make([]models.Product, len(products))
	copy(byRating, products)

	sort.SliceStable(byRating, func(i, j int) bool {
		return byRating[i].Rating > byRating[j].Rating
	})

	if len(byRating) > limit {
		byRating = byRating[:limit]
	}

	candidates := make([]Candidate, 0, len(byRating))
	for i, product := range byRating {
		candidates = append(candidates, Candidate{
			Product: product,
			Score:   1.0 - float64(i)*0.1,
			Reason:  "Popular choice among other users",
		})
	}

	return candidates
}

// profileCategories merges the user's declared category preferences with the
// categories inferred from interactions, most-browsed first. Order is fixed
// so the contextual query text is reproducible for the same profile.
func profileCategories(profile *models.UserProfile) []string {
	var categories []string
	seen := make(map[string]bool)
	add := func(category string) {
		if category == "" || seen[category] {
			return
		}
		seen[category] = true
		categories = append(categories, category)
	}

	for _, category := range profile.Preferences.Categories {
		add(category)
	}

	inferred := make([]string, 0, len(profile.CategoryPreferences))
	for category := range profile.CategoryPreferences {
		inferred = append(inferred, category)
	}
	sort.Slice(inferred, func(i, j int) bool {
		ci, cj := profile.CategoryPreferences[inferred[i]], profile.CategoryPreferences[inferred[j]]
		if ci != cj {
			return ci > cj
		}
		return inferred[i] < inferred[j]
	})
	for _, category := range inferred {
		add(category)
	}

	return categories
}
