package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/aniruddh-code-002/moodmart/internal/config"
	"github.com/aniruddh-code-002/moodmart/pkg/models"
)

// Client talks to the Gemini REST API for explanation generation, sentiment
// analysis and text embeddings. All calls are best-effort; callers are
// expected to hold a local fallback for every operation.
type Client struct {
	httpClient *http.Client
	cfg        *config.GeminiConfig
	logger     *logrus.Logger
}

func NewClient(cfg *config.GeminiConfig, logger *logrus.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cfg:    cfg,
		logger: logger,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type embedRequest struct {
	Content content `json:"content"`
}

type embedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

// GenerateExplanation asks the model for a short personalized explanation of
// why a product was recommended.
func (c *Client) GenerateExplanation(ctx context.Context, profile *models.UserProfile, product *models.Product, reason string) (string, error) {
	prompt := fmt.Sprintf(`Create a personalized, engaging explanation for why this product is perfect for this user.

User Profile:
- Preferred categories: %s
- Recent emotional state: %s

Product:
- Name: %s
- Description: %s
- Price: $%.2f
- Emotion Tags: %s

Recommendation Algorithm Reason: %s

Write a compelling 2-3 sentence explanation that connects to the user's
emotional state, highlights the most relevant product benefits and uses
persuasive but authentic language. Keep it conversational and personalized.`,
		strings.Join(profile.Preferences.Categories, ", "),
		strings.Join(profile.RecentEmotions, ", "),
		product.Name, product.Description, product.Price,
		strings.Join(product.EmotionTags, ", "), reason)

	text, err := c.generateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("explanation generation failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// AnalyzeSentiment extracts the user's emotional state from free text.
func (c *Client) AnalyzeSentiment(ctx context.Context, text string) (*models.SentimentAnalysis, error) {
	prompt := fmt.Sprintf(`Analyze the emotional sentiment and psychological state from this user text:

User Input: %q

Return JSON with:
1. primary_emotion: Main emotion detected
2. emotion_intensity: Scale 1-10
3. mood_category: happy/sad/excited/calm/stressed/energetic/tired
4. shopping_motivation: What might drive their purchase decisions now
5. recommended_product_types: What kinds of products might appeal

Format as valid JSON only.`, text)

	raw, err := c.generateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("sentiment analysis failed: %w", err)
	}

	var analysis models.SentimentAnalysis
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse sentiment response: %w", err)
	}

	return &analysis, nil
}

// EmbedText returns a fixed-length embedding vector for the given text.
// Determinism across calls is not guaranteed; callers own caching.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	url := fmt.Sprintf("%s/models/%s:embedContent?key=%s",
		c.cfg.BaseURL, c.cfg.EmbeddingModel, c.cfg.APIKey)

	body, err := json.Marshal(embedRequest{
		Content: content{Parts: []part{{Text: text}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embed request: %w", err)
	}

	respBody, err := c.post(ctx, url, body)
	if err != nil {
		return nil, err
	}

	var resp embedResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse embed response: %w", err)
	}

	if len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("empty embedding in response")
	}

	return resp.Embedding.Values, nil
}

func (c *Client) generateContent(ctx context.Context, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("gemini api key not configured")
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.cfg.BaseURL, c.cfg.GenerateModel, c.cfg.APIKey)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal generate request: %w", err)
	}

	respBody, err := c.post(ctx, url, body)
	if err != nil {
		return "", err
	}

	var resp generateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to parse generate response: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func (c *Client) post(ctx context.Context, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// stripCodeFence removes a surrounding markdown code fence the model
// sometimes wraps JSON payloads in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
