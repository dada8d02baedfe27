package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type chatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClient implements LLMClient on the chat completions API.
type OpenAIClient struct {
	api   chatClient
	model string
}

// NewOpenAIClient builds a client from an API key. The key is not validated;
// a missing key surfaces as an auth error on the first call.
func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return newOpenAIClient(openai.NewClientWithConfig(cfg), model)
}

func newOpenAIClient(api chatClient, model string) *OpenAIClient {
	if api == nil {
		panic("llm: openai chat client cannot be nil")
	}
	if model == "" {
		model = "gpt-4"
	}
	return &OpenAIClient{api: api, model: model}
}

func (c *OpenAIClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	out := openai.ChatCompletionRequest{
		Model:            model,
		Messages:         messages,
		MaxTokens:        int(req.MaxTokens),
		TopP:             req.TopP,
		FrequencyPenalty: req.FrequencyPenalty,
		PresencePenalty:  req.PresencePenalty,
		Stop:             req.Stop,
	}
	switch {
	case req.Temperature > 0:
		out.Temperature = req.Temperature
	case req.Temperature == 0:
		// go-openai drops a zero temperature from the payload, which would
		// leave the API default of 1.
		out.Temperature = math.SmallestNonzeroFloat32
	}

	resp, err := c.api.CreateChatCompletion(ctx, out)
	if err != nil {
		return LLMResponse{}, openAIError(err)
	}
	if len(resp.Choices) == 0 {
		return LLMResponse{}, ErrNoChoices
	}

	return LLMResponse{
		Text:       strings.TrimSpace(resp.Choices[0].Message.Content),
		StopReason: string(resp.Choices[0].FinishReason),
		Usage: TokenUsage{
			InputTokens:  int32(resp.Usage.PromptTokens),
			OutputTokens: int32(resp.Usage.CompletionTokens),
			TotalTokens:  int32(resp.Usage.TotalTokens),
		},
	}, nil
}

// openAIError lifts structured API failures into UpstreamError.
func openAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		body := map[string]any{
			"message": apiErr.Message,
			"type":    apiErr.Type,
		}
		if apiErr.Code != nil {
			body["code"] = apiErr.Code
		}
		if apiErr.Param != nil {
			body["param"] = *apiErr.Param
		}
		return &UpstreamError{StatusCode: apiErr.HTTPStatusCode, Body: body, Err: err}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return &UpstreamError{
			StatusCode: reqErr.HTTPStatusCode,
			Body:       map[string]any{"message": reqErr.Error()},
			Err:        err,
		}
	}

	return fmt.Errorf("llm: openai completion failed: %w", err)
}
