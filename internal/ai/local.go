package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// localConfig points at a self-hosted OpenAI-compatible server
// (llama.cpp, vllm, ollama).
type localConfig struct {
	BaseURL string `json:"base_url"`
	Token   string `json:"token"`
}

type localProvider struct {
	baseURL string
	token   string
}

func (p *localProvider) Name() string {
	return "local"
}

func (p *localProvider) Generate(ctx context.Context, model string, prompt string) (string, error) {
	llm, err := openai.New(
		openai.WithBaseURL(p.baseURL),
		openai.WithToken(p.token),
		openai.WithModel(model),
	)
	if err != nil {
		return "", fmt.Errorf("init local llm: %w", err)
	}
	out, err := llms.GenerateFromSinglePrompt(ctx, llm, prompt, llms.WithTemperature(0.0))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func createLocalFactory(args interface{}) (IProvider, error) {
	cfg := &localConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("local provider requires base_url")
	}
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		token = "none"
	}
	return &localProvider{baseURL: baseURL, token: token}, nil
}

func init() {
	Register("local", createLocalFactory)
}
