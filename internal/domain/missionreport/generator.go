package missionreport

import (
	"context"
	"log/slog"
	"strings"

	"github.com/yanqian/cosmo-uplink/internal/infra/llm/chatgpt"
)

// Generator turns a report request into displayable text. It never fails:
// an empty answer or a failed call is replaced by a sentinel text.
type Generator interface {
	Generate(ctx context.Context, req ReportRequest) string
}

// ChatClient is the generative-text service the generator talks to.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

type generator struct {
	cfg    Config
	client ChatClient
	logger *slog.Logger
}

// NewGenerator wires the report generator to a chat client.
func NewGenerator(cfg Config, client ChatClient, logger *slog.Logger) Generator {
	return &generator{cfg: cfg, client: client, logger: logger.With("component", "missionreport.generator")}
}

func (g *generator) Generate(ctx context.Context, req ReportRequest) string {
	resp, err := g.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       g.cfg.Model,
		Messages:    g.buildMessages(req),
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		g.logger.Error("report generation failed", "zone", req.Zone, "model", g.cfg.Model, "error", err)
		return CommunicationErrorText
	}

	text := resp.Text()
	if text == "" {
		g.logger.Warn("report generation returned no text", "zone", req.Zone, "choices", len(resp.Choices))
		return LinkUnavailableText
	}
	if resp.Usage != nil {
		g.logger.Info("report generated", "zone", req.Zone, "prompt_tokens", resp.Usage.PromptTokens, "completion_tokens", resp.Usage.CompletionTokens)
	} else {
		g.logger.Info("report generated", "zone", req.Zone)
	}
	return text
}

func (g *generator) buildMessages(req ReportRequest) []chatgpt.Message {
	messages := make([]chatgpt.Message, 0, 2)
	if system := strings.TrimSpace(g.cfg.SystemPrompt); system != "" {
		messages = append(messages, chatgpt.Message{Role: "system", Content: system})
	}
	return append(messages, chatgpt.Message{Role: "user", Content: BuildPrompt(req)})
}
