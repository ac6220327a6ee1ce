package models

import "time"

type Recommendation struct {
	Product         Product   `json:"product"`
	ConfidenceScore float64   `json:"confidence_score"`
	Reason          string    `json:"recommendation_reason"`
	Explanation     string    `json:"explanation"`
	GeneratedAt     time.Time `json:"timestamp"`
}

type RecommendationRequest struct {
	UserID  string            `json:"user_id"`
	Context map[string]string `json:"context,omitempty"`
	Limit   int               `json:"limit" validate:"omitempty,min=1,max=50"`
}

type RecommendationResponse struct {
	Success         bool              `json:"success"`
	UserID          string            `json:"user_id"`
	Recommendations []Recommendation  `json:"recommendations"`
	Context         map[string]string `json:"context,omitempty"`
}

type SearchRequest struct {
	Query          string `json:"query" validate:"required,min=1"`
	EmotionContext string `json:"emotion_context,omitempty"`
	Limit          int    `json:"limit" validate:"omitempty,min=1,max=50"`
}

type SearchResult struct {
	Product         Product `json:"product"`
	SimilarityScore float64 `json:"similarity_score"`
	Explanation     string  `json:"explanation,omitempty"`
}

type SearchResponse struct {
	Success bool           `json:"success"`
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

type SimilarProductsResponse struct {
	Success         bool           `json:"success"`
	TargetProduct   Product        `json:"target_product"`
	SimilarProducts []SearchResult `json:"similar_products"`
}

type SentimentRequest struct {
	Text string `json:"text" validate:"required,min=1"`
}

type SentimentAnalysis struct {
	PrimaryEmotion          string   `json:"primary_emotion"`
	EmotionIntensity        float64  `json:"emotion_intensity"`
	MoodCategory            string   `json:"mood_category"`
	ShoppingMotivation      string   `json:"shopping_motivation,omitempty"`
	RecommendedProductTypes []string `json:"recommended_product_types,omitempty"`
}

type SentimentResponse struct {
	Success   bool               `json:"success"`
	Sentiment *SentimentAnalysis `json:"sentiment,omitempty"`
}
