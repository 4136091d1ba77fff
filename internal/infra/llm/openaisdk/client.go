package openaisdk

import (
	"context"
	"errors"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/yanqian/cosmo-uplink/internal/infra/llm/chatgpt"
)

// Client adapts the official openai-go SDK to the chat completion types used
// by the report generator.
type Client struct {
	client openai.Client
}

// NewClient builds an SDK-backed client. A zero timeout leaves the call
// unbounded. The SDK's own retries are disabled.
func NewClient(apiKey, baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai api key cannot be empty")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	return &Client{client: openai.NewClient(opts...)}, nil
}

// CreateChatCompletion sends the request through the SDK.
func (c *Client) CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: toSDKMessages(req.Messages),
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(float64(req.Temperature))
	}
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return chatgpt.ChatCompletionResponse{}, err
	}

	out := chatgpt.ChatCompletionResponse{
		Model:   resp.Model,
		Choices: make([]chatgpt.Choice, 0, len(resp.Choices)),
	}
	for _, choice := range resp.Choices {
		out.Choices = append(out.Choices, chatgpt.Choice{
			Message:      chatgpt.Message{Role: "assistant", Content: choice.Message.Content},
			FinishReason: choice.FinishReason,
		})
	}
	if resp.Usage.TotalTokens > 0 {
		out.Usage = &chatgpt.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		}
	}
	return out, nil
}

func toSDKMessages(messages []chatgpt.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			out = append(out, openai.SystemMessage(m.Content))
		case "assistant":
			out = append(out, openai.ChatCompletionMessageParamOfAssistant(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
