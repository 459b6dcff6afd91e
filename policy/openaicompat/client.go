// Package openaicompat samples the policy model through an OpenAI-compatible
// chat completion endpoint (vLLM, llama.cpp server, or the real thing).
package openaicompat

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/Gimmyalex/logicrl/core"
	"github.com/Gimmyalex/logicrl/policy"
)

// Config holds client settings.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32 // used when sampling stochastically
}

// Client implements core.Policy against a chat completion API.
type Client struct {
	cfg    Config
	client *openai.Client
}

func New(cfg Config) *Client {
	c := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 64
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	return &Client{cfg: cfg, client: openai.NewClientWithConfig(c)}
}

// Sample draws one action. Greedy (temperature 0) when stochastic is false.
// Stochastic samples carry an importance ratio of exactly 1.0: completion
// endpoints report the logprobs of the sampling-time weights only, and a
// real ratio needs the action re-scored against the current weights. Until
// a serving side exposes that, every sample is treated as on-policy, which
// matches the first update after a weight sync.
func (c *Client) Sample(ctx context.Context, task core.Task, stochastic bool) (core.Action, float64, error) {
	temperature := float32(0)
	if stochastic {
		temperature = c.cfg.Temperature
	}

	req := openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: policy.Prompt(task)},
		},
		Temperature: temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return core.Action{}, 0, fmt.Errorf("policy sample failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return core.Action{}, 0, fmt.Errorf("policy returned no choices")
	}
	action := policy.ParseAction(resp.Choices[0].Message.Content)

	if !stochastic {
		return action, 0, nil
	}
	return action, 1.0, nil
}
