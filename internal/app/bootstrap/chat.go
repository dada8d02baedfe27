package bootstrap

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/wolfman30/zentix-relay/internal/chat"
	appconfig "github.com/wolfman30/zentix-relay/internal/config"
	"github.com/wolfman30/zentix-relay/internal/llm"
	"github.com/wolfman30/zentix-relay/internal/observability/metrics"
	"github.com/wolfman30/zentix-relay/pkg/logging"
)

// AWSConfigLoader resolves AWS SDK config lazily; only Bedrock and SES need it.
type AWSConfigLoader func(ctx context.Context) (aws.Config, error)

// BuildLLMClient selects the completion provider from LLM_PROVIDER and wraps it
// in the retrying decorator. The returned cleanup is never nil.
func BuildLLMClient(ctx context.Context, cfg *appconfig.Config, loadAWS AWSConfigLoader, m *metrics.RelayMetrics, logger *logging.Logger) (llm.LLMClient, func(), error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	cleanup := func() {}

	var base llm.LLMClient
	switch cfg.LLMProvider {
	case "", "openai":
		base = llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
		logger.Info("using openai completion provider", "model", cfg.OpenAIModel)
	case "gemini":
		gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: gemini: %w", err)
		}
		cleanup = func() {
			if err := gemini.Close(); err != nil {
				logger.Warn("failed to close gemini client", "error", err)
			}
		}
		base = gemini
		logger.Info("using gemini completion provider", "model", cfg.GeminiModel)
	case "bedrock":
		if cfg.BedrockModelID == "" {
			return nil, nil, fmt.Errorf("bootstrap: BEDROCK_MODEL_ID is required for the bedrock provider")
		}
		if loadAWS == nil {
			return nil, nil, fmt.Errorf("bootstrap: aws config loader is required for the bedrock provider")
		}
		awsCfg, err := loadAWS(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: load aws config: %w", err)
		}
		base = llm.NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg), cfg.BedrockModelID)
		logger.Info("using bedrock completion provider", "model", cfg.BedrockModelID, "region", cfg.AWSRegion)
	default:
		return nil, nil, fmt.Errorf("bootstrap: unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}

	retrying := llm.NewRetryingClient(base, logger).
		WithMaxAttempts(cfg.CompletionMaxAttempts).
		WithBaseDelay(cfg.CompletionRetryBaseDelay)
	if m != nil {
		retrying = retrying.WithObserver(m)
	}
	return retrying, cleanup, nil
}

// BuildChatService assembles the persona, reply shaping and generation
// parameters from config around an already-built completion client.
func BuildChatService(cfg *appconfig.Config, client llm.LLMClient, m *metrics.RelayMetrics, logger *logging.Logger) *chat.Service {
	persona := chat.DefaultPersona(chat.PersonaConfig{
		ContactPhone:    cfg.ContactPhone,
		WebsiteURL:      cfg.WebsiteURL,
		LeadSignalToken: cfg.LeadSignalToken,
	})
	if cfg.PersonaPrompt != "" {
		persona.Prompt = cfg.PersonaPrompt
	}

	params := llm.DefaultParams()
	if cfg.OpenAIModel != "" {
		params.Model = cfg.OpenAIModel
	}
	if cfg.CompletionMaxTokens > 0 {
		params.MaxTokens = int32(cfg.CompletionMaxTokens)
	}
	params.Temperature = float32(cfg.CompletionTemperature)

	return chat.NewService(client, chat.NewPromptAssembler(persona), logger,
		chat.WithParams(params),
		chat.WithAugmenter(chat.NewReplyAugmenter(cfg.WhatsAppGreeting, chat.ParseLinkFormat(cfg.WhatsAppLinkFormat))),
		chat.WithLeadSignal(chat.LeadSignal{Token: cfg.LeadSignalToken, Phrases: cfg.LeadTriggerPhrases}),
		chat.WithHistoryLimit(cfg.ChatHistoryMaxTurns),
		chat.WithTimeout(cfg.CompletionTimeout),
		chat.WithMetrics(m),
	)
}
