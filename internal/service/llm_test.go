package service_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodlens/backend/internal/safety"
	"github.com/foodlens/backend/internal/service"
)

func setupLLM(t *testing.T, content string, lastBody *string) *service.LLMService {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if lastBody != nil {
			body, _ := io.ReadAll(r.Body)
			*lastBody = string(body)
		}
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	t.Setenv("DEEPSEEK_API_KEY", "test-key")
	t.Setenv("DEEPSEEK_API_URL", srv.URL)

	svc, err := service.NewLLMService()
	require.NoError(t, err)
	return svc
}

func TestNewLLMServiceRequiresKey(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "")
	t.Setenv("DEEPSEEK_API_KEY_FILE", "")

	_, err := service.NewLLMService()
	assert.Error(t, err)
}

func TestDescribeProduct(t *testing.T) {
	var body string
	svc := setupLLM(t, "A mild rice noodle kit with peanut sauce.", &body)

	desc, err := svc.DescribeProduct(context.Background(), "Rice Noodles", "rice, peanut sauce")
	require.NoError(t, err)
	assert.Equal(t, "A mild rice noodle kit with peanut sauce.", desc)
	assert.Contains(t, body, "Rice Noodles")
	assert.Contains(t, body, "peanut sauce")
}

func TestHealthCommentaryCarriesWarnings(t *testing.T) {
	var body string
	svc := setupLLM(t, "This product is high in sugar for Alice.", &body)

	warnings := []safety.Warning{
		{Message: "You (Alice): Type 2 Diabetes - High sugar content (18g/100g)", Severity: safety.SeverityHigh},
	}
	note, err := svc.HealthCommentary(context.Background(), &service.Product{Name: "Rice Noodles"}, warnings)
	require.NoError(t, err)
	assert.NotEmpty(t, note)
	assert.Contains(t, body, "High sugar content")
}

func TestSuggestSubstitutes(t *testing.T) {
	svc := setupLLM(t, `{"substitutes":["Sunflower seed butter","Tahini"]}`, nil)

	subs, err := svc.SuggestSubstitutes(context.Background(), "peanut butter", []string{"peanuts"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Sunflower seed butter", "Tahini"}, subs)
}

func TestSuggestSubstitutesBadJSON(t *testing.T) {
	svc := setupLLM(t, "not json", nil)

	_, err := svc.SuggestSubstitutes(context.Background(), "peanut butter", nil)
	assert.Error(t, err)
}
