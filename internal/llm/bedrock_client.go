package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

type bedrockConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockClient implements LLMClient on the Bedrock Converse API.
type BedrockClient struct {
	api     bedrockConverseAPI
	modelID string
}

func NewBedrockClient(api bedrockConverseAPI, modelID string) *BedrockClient {
	if api == nil {
		panic("llm: bedrock converse client cannot be nil")
	}
	return &BedrockClient{api: api, modelID: modelID}
}

func (c *BedrockClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	// The shared params carry an OpenAI model name; Bedrock always uses its own id.
	modelID := c.modelID
	if strings.TrimSpace(modelID) == "" {
		return LLMResponse{}, errors.New("llm: bedrock model id is required")
	}

	var systemBlocks []brtypes.SystemContentBlock
	messages := make([]brtypes.Message, 0, len(req.Messages))
	for _, msg := range req.Messages {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		switch msg.Role {
		case RoleSystem:
			systemBlocks = append(systemBlocks, &brtypes.SystemContentBlockMemberText{Value: content})
		case RoleUser:
			messages = append(messages, bedrockMessage(brtypes.ConversationRoleUser, content))
		case RoleAssistant:
			messages = append(messages, bedrockMessage(brtypes.ConversationRoleAssistant, content))
		default:
			return LLMResponse{}, fmt.Errorf("llm: unsupported role %q", msg.Role)
		}
	}

	inference := &brtypes.InferenceConfiguration{}
	if req.MaxTokens > 0 {
		inference.MaxTokens = aws.Int32(req.MaxTokens)
	}
	if req.Temperature >= 0 {
		inference.Temperature = aws.Float32(req.Temperature)
	}
	if req.TopP != 0 {
		inference.TopP = aws.Float32(req.TopP)
	}
	// Bedrock rejects whitespace-only stop sequences.
	for _, stop := range req.Stop {
		if strings.TrimSpace(stop) != "" {
			inference.StopSequences = append(inference.StopSequences, stop)
		}
	}

	out, err := c.api.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId:         aws.String(modelID),
		System:          systemBlocks,
		Messages:        messages,
		InferenceConfig: inference,
	})
	if err != nil {
		return LLMResponse{}, bedrockError(err)
	}

	text, err := bedrockOutputText(out)
	if err != nil {
		return LLMResponse{}, err
	}

	resp := LLMResponse{
		Text:       strings.TrimSpace(text),
		StopReason: string(out.StopReason),
	}
	if out.Usage != nil {
		resp.Usage = TokenUsage{
			InputTokens:  int32OrZero(out.Usage.InputTokens),
			OutputTokens: int32OrZero(out.Usage.OutputTokens),
			TotalTokens:  int32OrZero(out.Usage.TotalTokens),
		}
	}
	return resp, nil
}

func bedrockMessage(role brtypes.ConversationRole, content string) brtypes.Message {
	return brtypes.Message{
		Role:    role,
		Content: []brtypes.ContentBlock{&brtypes.ContentBlockMemberText{Value: content}},
	}
}

func bedrockOutputText(out *bedrockruntime.ConverseOutput) (string, error) {
	if out == nil {
		return "", ErrNoChoices
	}
	msgOut, ok := out.Output.(*brtypes.ConverseOutputMemberMessage)
	if !ok || len(msgOut.Value.Content) == 0 {
		return "", ErrNoChoices
	}

	var builder strings.Builder
	for _, block := range msgOut.Value.Content {
		if textBlock, ok := block.(*brtypes.ContentBlockMemberText); ok {
			builder.WriteString(textBlock.Value)
		}
	}
	if strings.TrimSpace(builder.String()) == "" {
		return "", ErrNoChoices
	}
	return builder.String(), nil
}

func bedrockError(err error) error {
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.Response != nil && respErr.HTTPStatusCode() > 0 {
		message := err.Error()
		if respErr.Err != nil {
			message = respErr.Err.Error()
		}
		return &UpstreamError{
			StatusCode: respErr.HTTPStatusCode(),
			Body:       map[string]any{"message": message, "request_id": respErr.RequestID},
			Err:        err,
		}
	}
	return fmt.Errorf("llm: bedrock completion failed: %w", err)
}

func int32OrZero(v *int32) int32 {
	if v == nil {
		return 0
	}
	return *v
}
