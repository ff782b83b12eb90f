package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// recommendSystemPrompt keeps the model on-topic and forces a parseable
// shape. Groq's OpenAI-compatible endpoint honors the JSON response format.
const recommendSystemPrompt = `Kamu adalah asisten belanja untuk anak sekolah di Indonesia.
Berdasarkan budget yang diberikan, sarankan 4 produk yang cocok untuk pelajar.
Aturan:
- Produk harus realistis dan bisa dibeli dengan budget tersebut.
- Nama produk maksimal 20 karakter.
- Utamakan kebutuhan sekolah dan tabungan, bukan barang mewah.
- Jawab HANYA dengan JSON berbentuk {"produk": [{"nama": "..."}]}, tanpa teks lain.`

// ProductIdea is one suggestion from the recommender.
type ProductIdea struct {
	Nama string `json:"nama"`
}

type productList struct {
	Produk []ProductIdea `json:"produk"`
}

// RecommendService asks an OpenAI-compatible chat endpoint for product
// ideas that fit a student's budget.
type RecommendService struct {
	client *openai.Client
	model  string
}

func NewRecommendService(apiKey, baseURL, model string) *RecommendService {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &RecommendService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (s *RecommendService) Recommend(ctx context.Context, total int64) ([]ProductIdea, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: recommendSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Saya punya budget Rp%d. Berikan saya 4 rekomendasi produk.", total)},
		},
		Temperature: 0.7,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("requesting recommendations: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("recommendation response had no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	var list productList
	if err := json.Unmarshal([]byte(content), &list); err != nil {
		return nil, fmt.Errorf("parsing recommendations: %w", err)
	}
	if len(list.Produk) == 0 {
		return nil, fmt.Errorf("recommendation response was empty")
	}

	return list.Produk, nil
}
