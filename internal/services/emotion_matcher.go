package services

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/aniruddh-code-002/moodmart/pkg/models"
)

// EmotionalAppeal summarizes the emotional profile of a product derived from
// its text, category and stored emotion tags.
type EmotionalAppeal struct {
	Emotions       []string `json:"emotions"`
	PrimaryEmotion string   `json:"primary_emotion"`
	Intensity      int      `json:"emotional_intensity"`
	AppealScore    float64  `json:"appeal_score"`
}

// EmotionMatcher scores how well products fit a user's emotional state.
// All scoring is table-driven and deterministic.
type EmotionMatcher struct {
	emotionKeywords    map[string][]string
	categoryEmotions   map[string][]string
	emotionComplements map[string][]string
}

func NewEmotionMatcher() *EmotionMatcher {
	return &EmotionMatcher{
		emotionKeywords: map[string][]string{
			"happy":       {"joy", "excited", "cheerful", "delighted", "upbeat", "positive"},
			"sad":         {"down", "blue", "melancholy", "depressed", "gloomy"},
			"energetic":   {"active", "dynamic", "vigorous", "enthusiastic", "motivated"},
			"calm":        {"peaceful", "serene", "relaxed", "tranquil", "zen"},
			"stressed":    {"anxious", "worried", "tense", "overwhelmed", "pressure"},
			"confident":   {"assured", "self-assured", "bold", "determined"},
			"romantic":    {"loving", "affectionate", "passionate", "intimate"},
			"adventurous": {"bold", "daring", "explorative", "brave"},
		},
		categoryEmotions: map[string][]string{
			"electronics": {"excited", "innovative", "tech-savvy"},
			"clothing":    {"confident", "stylish", "expressive"},
			"home":        {"comfortable", "cozy", "peaceful"},
			"sports":      {"energetic", "motivated", "adventurous"},
			"beauty":      {"confident", "glamorous", "self-care"},
		},
		emotionComplements: map[string][]string{
			"stressed": {"calm", "peaceful", "relaxed"},
			"sad":      {"happy", "uplifting", "cheerful"},
			"tired":    {"energetic", "refreshing"},
			"bored":    {"exciting", "adventurous"},
			"lonely":   {"social", "connecting"},
		},
	}
}

// MatchScore rates how well a product's emotions fit the user's current
// emotion. Products with no emotional signal score a neutral 0.5 so they are
// neither promoted nor buried.
func (m *EmotionMatcher) MatchScore(userEmotion string, productEmotions []string) float64 {
	if len(productEmotions) == 0 {
		return 0.5
	}

	userEmotion = normalizeTerm(userEmotion)

	for _, emotion := range productEmotions {
		if normalizeTerm(emotion) == userEmotion {
			return 1.0
		}
	}

	if complements, ok := m.emotionComplements[userEmotion]; ok {
		for _, emotion := range productEmotions {
			normalized := normalizeTerm(emotion)
			for _, complement := range complements {
				if normalized == complement {
					return 0.8
				}
			}
		}
	}

	return 0.3
}

// ProductAppeal derives the emotional profile of a product from keyword hits
// in its name and description, category associations and stored emotion tags.
// Emotion order follows first detection so the primary emotion is stable.
func (m *EmotionMatcher) ProductAppeal(product *models.Product) EmotionalAppeal {
	productText := normalizeTerm(product.Name + " " + product.Description)

	var detected []string
	seen := make(map[string]bool)
	add := func(emotion string) {
		emotion = normalizeTerm(emotion)
		if emotion == "" || seen[emotion] {
			return
		}
		seen[emotion] = true
		detected = append(detected, emotion)
	}

	for _, emotion := range m.keywordEmotionOrder() {
		for _, keyword := range m.emotionKeywords[emotion] {
			if strings.Contains(productText, keyword) {
				add(emotion)
				break
			}
		}
	}

	for _, emotion := range m.categoryEmotions[normalizeTerm(product.Category)] {
		add(emotion)
	}

	for _, emotion := range product.EmotionTags {
		add(emotion)
	}

	primary := "neutral"
	if len(detected) > 0 {
		primary = detected[0]
	}

	appealScore := float64(len(detected)) * 0.2
	if appealScore > 1.0 {
		appealScore = 1.0
	}

	return EmotionalAppeal{
		Emotions:       detected,
		PrimaryEmotion: primary,
		Intensity:      len(detected) * 2,
		AppealScore:    appealScore,
	}
}

// TextEmotion is the result of reading a user's free-text mood description.
type TextEmotion struct {
	PrimaryEmotion   string   `json:"primary_emotion"`
	DetectedEmotions []string `json:"detected_emotions"`
	Polarity         float64  `json:"polarity"`
	Intensity        float64  `json:"intensity"`
}

var positiveWords = []string{
	"love", "great", "amazing", "wonderful", "good", "awesome",
	"fantastic", "enjoy", "perfect", "best",
}

var negativeWords = []string{
	"hate", "terrible", "awful", "bad", "angry", "worst",
	"horrible", "miserable", "annoyed", "upset",
}

// AnalyzeTextEmotion reads an emotional state out of free text using the
// keyword table plus a small polarity lexicon. Detected keyword emotions
// override the polarity mapping for the primary emotion.
func (m *EmotionMatcher) AnalyzeTextEmotion(text string) TextEmotion {
	lowered := normalizeTerm(text)

	var detected []string
	for _, emotion := range m.keywordEmotionOrder() {
		keywords := append([]string{emotion}, m.emotionKeywords[emotion]...)
		for _, keyword := range keywords {
			if strings.Contains(lowered, keyword) {
				detected = append(detected, emotion)
				break
			}
		}
	}

	polarity := textPolarity(lowered)

	primary := "neutral"
	switch {
	case polarity > 0.3:
		primary = "happy"
	case polarity < -0.3:
		primary = "sad"
	case strings.Contains(lowered, "stress") || strings.Contains(lowered, "tired"):
		primary = "stressed"
	}
	if len(detected) > 0 {
		primary = detected[0]
	}

	intensity := polarity * 10
	if intensity < 0 {
		intensity = -intensity
	}

	return TextEmotion{
		PrimaryEmotion:   primary,
		DetectedEmotions: detected,
		Polarity:         polarity,
		Intensity:        intensity,
	}
}

// textPolarity counts positive and negative lexicon hits and maps them to
// the -1..1 range. Zero hits yield a neutral zero.
func textPolarity(lowered string) float64 {
	var positive, negative int
	for _, word := range positiveWords {
		if strings.Contains(lowered, word) {
			positive++
		}
	}
	for _, word := range negativeWords {
		if strings.Contains(lowered, word) {
			negative++
		}
	}

	total := positive + negative
	if total == 0 {
		return 0
	}
	return float64(positive-negative) / float64(total)
}

// keywordEmotionOrder fixes the iteration order over the keyword table so
// detected emotions come out in a stable sequence.
func (m *EmotionMatcher) keywordEmotionOrder() []string {
	return []string{"happy", "sad", "energetic", "calm", "stressed", "confident", "romantic", "adventurous"}
}

// normalizeTerm lowercases and unicode-normalizes free text so keyword and
// tag comparisons are insensitive to casing and composition form.
func normalizeTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(s)))
}
