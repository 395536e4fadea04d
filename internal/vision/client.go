package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Models tried in order; the first that answers wins. Newer models go first,
// older ones absorb capacity errors and deprecations.
var defaultModels = []string{
	"gemini-2.5-flash-image",
	"gemini-2.0-flash",
	"gemini-2.5-flash",
	"gemini-2.0-flash-001",
}

const analysisPrompt = `Analyze this image of a meal. Identify the food items and estimate the total calories and macronutrients.%s
Return the result as a JSON object with the following structure:
{"foodItems":["item1","item2"],"totalCalories":number,"macros":{"protein":number,"carbs":number,"fat":number},"description":"A brief description of the meal"}
Do not include markdown formatting. Just return the raw JSON string.`

// Client calls a generative-vision REST API.
type Client struct {
	baseURL string
	apiKey  string
	models  []string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		models:  defaultModels,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger.With("component", "vision"),
	}
}

type generateRequest struct {
	Contents []struct {
		Parts []map[string]any `json:"parts"`
	} `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// AnalyzeMeal implements Analyzer with the model fallback list.
func (c *Client) AnalyzeMeal(ctx context.Context, image []byte, mimeType, note string) (*Analysis, error) {
	var lastErr error
	for _, model := range c.models {
		analysis, err := c.analyzeWith(ctx, model, image, mimeType, note)
		if err == nil {
			return analysis, nil
		}
		lastErr = err
		c.logger.WarnContext(ctx, "vision model failed, trying next", "model", model, "error", err)
	}
	return nil, fmt.Errorf("all vision models failed: %w", lastErr)
}

func (c *Client) analyzeWith(ctx context.Context, model string, image []byte, mimeType, note string) (*Analysis, error) {
	noteContext := ""
	if note != "" {
		noteContext = "\nUser notes: " + note + "\nPlease consider these details when estimating portions and nutritional values."
	}

	var req generateRequest
	req.Contents = make([]struct {
		Parts []map[string]any `json:"parts"`
	}, 1)
	req.Contents[0].Parts = []map[string]any{
		{"text": fmt.Sprintf(analysisPrompt, noteContext)},
		{"inline_data": map[string]string{
			"mime_type": mimeType,
			"data":      base64.StdEncoding.EncodeToString(image),
		}},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision api status %d", resp.StatusCode)
	}

	var gen generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(gen.Candidates) == 0 || len(gen.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from model %s", model)
	}

	return ParseAnalysis(gen.Candidates[0].Content.Parts[0].Text)
}

// ParseAnalysis decodes the model's JSON answer, tolerating the markdown
// fences some models emit despite instructions.
func ParseAnalysis(text string) (*Analysis, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var analysis Analysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return nil, fmt.Errorf("parse analysis: %w", err)
	}
	return &analysis, nil
}
