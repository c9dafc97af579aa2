package services

import (
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// GeminiClient Gemini模型客户端（走OpenAI兼容接口，强制JSON输出）
type GeminiClient struct {
	Model llms.Model
}

func NewGeminiClient(apiKey, apiEndpoint, model string) (*GeminiClient, error) {
	m, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(apiEndpoint),
		openai.WithModel(model),
		openai.WithResponseFormat(&openai.ResponseFormat{
			Type: "json_object",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		Model: m,
	}, nil
}
