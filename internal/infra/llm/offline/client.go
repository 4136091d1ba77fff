package offline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/yanqian/cosmo-uplink/internal/infra/llm/chatgpt"
)

// Client answers locally without calling any model. It is meant for demos
// and local development when no credential is available.
type Client struct {
	mu      sync.Mutex
	replies []string
	next    int
}

// NewClient builds a client cycling through replies. With no replies it
// echoes a canned report built from the prompt.
func NewClient(replies ...string) *Client {
	return &Client{replies: replies}
}

// CreateChatCompletion returns the next scripted reply.
func (c *Client) CreateChatCompletion(_ context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	text := c.nextReply(req)
	return chatgpt.ChatCompletionResponse{
		Model: req.Model,
		Choices: []chatgpt.Choice{{
			Message:      chatgpt.Message{Role: "assistant", Content: text},
			FinishReason: "stop",
		}},
	}, nil
}

func (c *Client) nextReply(req chatgpt.ChatCompletionRequest) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.replies) > 0 {
		reply := c.replies[c.next%len(c.replies)]
		c.next++
		return reply
	}
	return cannedReport(lastUserMessage(req.Messages))
}

func lastUserMessage(messages []chatgpt.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return ""
}

func cannedReport(prompt string) string {
	zone := "UNKNOWN SECTOR"
	for _, line := range strings.Split(prompt, "\n") {
		line = strings.TrimSpace(line)
		if _, rest, ok := strings.Cut(line, "field report for "); ok {
			zone = strings.TrimSuffix(strings.TrimSpace(rest), ".")
			break
		}
	}
	return fmt.Sprintf("COSMO here. Offline relay active for %s. Conditions logged; no anomalies flagged by the local model.", zone)
}
