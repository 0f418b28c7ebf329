package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/princeprakhar/reviewhub-backend/internal/config"
	"github.com/princeprakhar/reviewhub-backend/internal/models"
	"github.com/sashabaranov/go-openai"
)

// Sentiment is the classifier verdict stored alongside a review.
type Sentiment struct {
	Score float64               `json:"score"`
	Label models.SentimentLabel `json:"label"`
}

func (s Sentiment) validate() error {
	if s.Score < 0 || s.Score > 1 {
		return fmt.Errorf("sentiment score %v out of range [0,1]", s.Score)
	}
	if !s.Label.Valid() {
		return fmt.Errorf("unknown sentiment label %q", s.Label)
	}
	return nil
}

// Classifier maps review text to a sentiment. Implementations must honour ctx.
type Classifier interface {
	Classify(ctx context.Context, text string) (Sentiment, error)
}

// NewClassifier builds the classifier selected by cfg.Provider.
func NewClassifier(cfg config.SentimentConfig) (Classifier, error) {
	switch cfg.Provider {
	case "", "lexicon":
		return NewLexiconClassifier(), nil
	case "http":
		if cfg.URL == "" {
			return nil, errors.New("SENTIMENT_URL is required for the http sentiment provider")
		}
		return NewHTTPClassifier(cfg.URL, cfg.APIKey, nil), nil
	case "openai":
		if cfg.APIKey == "" {
			return nil, errors.New("SENTIMENT_API_KEY is required for the openai sentiment provider")
		}
		return NewOpenAIClassifier(cfg.APIKey, cfg.URL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported sentiment provider: %s", cfg.Provider)
	}
}

func labelForScore(score float64) models.SentimentLabel {
	switch {
	case score >= 0.6:
		return models.SentimentPositive
	case score <= 0.4:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// LexiconClassifier scores text by counting words from small positive and
// negative word lists. A negator flips the polarity of the next scored word.
type LexiconClassifier struct {
	positive map[string]struct{}
	negative map[string]struct{}
	negators map[string]struct{}
}

func NewLexiconClassifier() *LexiconClassifier {
	return &LexiconClassifier{
		positive: wordSet("good", "great", "excellent", "amazing", "awesome", "love", "loved", "like",
			"nice", "perfect", "fantastic", "wonderful", "best", "happy", "recommend", "quality",
			"friendly", "fast", "helpful", "delicious", "beautiful", "enjoyed", "superb"),
		negative: wordSet("bad", "terrible", "awful", "poor", "worst", "hate", "hated", "slow",
			"broken", "rude", "disappointing", "disappointed", "horrible", "useless", "dirty",
			"expensive", "waste", "refund", "cold", "bland", "problem"),
		negators: wordSet("not", "no", "isn't", "wasn't", "don't", "didn't", "never", "hardly"),
	}
}

func (c *LexiconClassifier) Classify(ctx context.Context, text string) (Sentiment, error) {
	if err := ctx.Err(); err != nil {
		return Sentiment{}, err
	}

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})

	var pos, neg int
	negate := false
	for _, w := range words {
		if _, ok := c.negators[w]; ok {
			negate = true
			continue
		}
		_, isPos := c.positive[w]
		_, isNeg := c.negative[w]
		if (isPos && !negate) || (isNeg && negate) {
			pos++
		} else if isPos || isNeg {
			neg++
		}
		if isPos || isNeg {
			negate = false
		}
	}

	score := 0.5
	if total := pos + neg; total > 0 {
		score = 0.5 + 0.5*float64(pos-neg)/float64(total)
	}
	return Sentiment{Score: score, Label: labelForScore(score)}, nil
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// HTTPClassifier delegates to a sentiment sidecar service.
type HTTPClassifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPClassifier(baseURL, apiKey string, client *http.Client) *HTTPClassifier {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPClassifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

type sentimentRequest struct {
	Text string `json:"text"`
}

func (c *HTTPClassifier) Classify(ctx context.Context, text string) (Sentiment, error) {
	body, err := json.Marshal(sentimentRequest{Text: text})
	if err != nil {
		return Sentiment{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sentiment", bytes.NewReader(body))
	if err != nil {
		return Sentiment{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Internal-API-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Sentiment{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Sentiment{}, fmt.Errorf("sentiment service returned status: %d", resp.StatusCode)
	}

	var result Sentiment
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Sentiment{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return result, nil
}

const sentimentPrompt = `Classify the sentiment of the customer review below.
Reply with a JSON object only: {"score": <number between 0 and 1, 1 is most positive>, "label": "positive" | "neutral" | "negative"}.

Review:
%s`

// OpenAIClassifier asks a chat completion model for a JSON verdict.
type OpenAIClassifier struct {
	client *openai.Client
	model  string
}

func NewOpenAIClassifier(apiKey, baseURL, model string) *OpenAIClassifier {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIClassifier{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}
}

func (c *OpenAIClassifier) Classify(ctx context.Context, text string) (Sentiment, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(sentimentPrompt, text),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return Sentiment{}, fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Sentiment{}, errors.New("openai returned no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.Trim(content, "`\n ")

	var result Sentiment
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return Sentiment{}, fmt.Errorf("failed to parse sentiment reply: %w", err)
	}
	result.Label = models.SentimentLabel(strings.ToLower(string(result.Label)))
	return result, nil
}
