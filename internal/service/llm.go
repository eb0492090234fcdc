package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/foodlens/backend/internal/safety"
)

// LLMService handles interactions with the DeepSeek API. It is an
// opaque text-completion collaborator: every method degrades to an
// error the caller may ignore, never to partial product data.
type LLMService struct {
	apiKey string
	apiURL string
	client *http.Client
}

// NewLLMService reads the API key from DEEPSEEK_API_KEY or the file
// named by DEEPSEEK_API_KEY_FILE.
func NewLLMService() (*LLMService, error) {
	apiKey := os.Getenv("DEEPSEEK_API_KEY")
	if apiKey == "" {
		apiKeyFile := os.Getenv("DEEPSEEK_API_KEY_FILE")
		if apiKeyFile == "" {
			return nil, fmt.Errorf("DEEPSEEK_API_KEY or DEEPSEEK_API_KEY_FILE must be set")
		}

		apiKeyBytes, err := os.ReadFile(apiKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read API key file: %w", err)
		}

		apiKey = strings.TrimSpace(string(apiKeyBytes))
		if apiKey == "" {
			return nil, fmt.Errorf("API key file is empty")
		}
	}

	apiURL := os.Getenv("DEEPSEEK_API_URL")
	if apiURL == "" {
		apiURL = "https://api.deepseek.com/v1/chat/completions"
	}

	return &LLMService{
		apiKey: apiKey,
		apiURL: apiURL,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a request to the DeepSeek API
type Request struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
	Temperature    float64           `json:"temperature,omitempty"`
}

func (s *LLMService) complete(ctx context.Context, req Request) (string, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from API")
	}

	return result.Choices[0].Message.Content, nil
}

// DescribeProduct returns a short consumer-facing description of a
// packaged food based on its name and ingredient list.
func (s *LLMService) DescribeProduct(ctx context.Context, name, ingredients string) (string, error) {
	prompt := fmt.Sprintf("Describe the packaged food product %q in two or three plain sentences for a shopper.", name)
	if ingredients != "" {
		prompt += " Its ingredients are: " + ingredients
	}

	return s.complete(ctx, Request{
		Model: "deepseek-chat",
		Messages: []Message{
			{Role: "system", Content: "You are a food researcher. Be factual and concise; do not speculate about health effects."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.3,
	})
}

// HealthCommentary turns an evaluated warning list into a short
// readable note. Warnings are computed by the safety evaluator; the
// model only rephrases, it never decides.
func (s *LLMService) HealthCommentary(ctx context.Context, product *Product, warnings []safety.Warning) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Product: %s.\n", product.Name)
	if len(warnings) == 0 {
		sb.WriteString("No warnings were triggered for this household.\n")
	} else {
		sb.WriteString("Triggered warnings:\n")
		for _, w := range warnings {
			fmt.Fprintf(&sb, "- [%s] %s\n", w.Severity, w.Message)
		}
	}
	sb.WriteString("Write two sentences summarizing what this means for the household. Do not add warnings that are not listed.")

	return s.complete(ctx, Request{
		Model: "deepseek-chat",
		Messages: []Message{
			{Role: "system", Content: "You are a nutrition assistant summarizing precomputed safety warnings for a shopper."},
			{Role: "user", Content: sb.String()},
		},
		Temperature: 0.3,
	})
}

// SuggestSubstitutes asks for alternative products that avoid the
// listed problem ingredients, returned as a plain string list.
func (s *LLMService) SuggestSubstitutes(ctx context.Context, name string, avoid []string) ([]string, error) {
	prompt := fmt.Sprintf("Suggest up to five widely available substitutes for %q", name)
	if len(avoid) > 0 {
		prompt += " that avoid: " + strings.Join(avoid, ", ")
	}
	prompt += `. Respond as JSON: {"substitutes":["..."]}`

	content, err := s.complete(ctx, Request{
		Model: "deepseek-chat",
		Messages: []Message{
			{Role: "system", Content: "You are a nutrition expert. Respond only with JSON."},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Substitutes []string `json:"substitutes"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse substitutes: %w", err)
	}
	return parsed.Substitutes, nil
}
