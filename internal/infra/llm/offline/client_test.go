package offline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/cosmo-uplink/internal/domain/missionreport"
	"github.com/yanqian/cosmo-uplink/internal/infra/llm/chatgpt"
)

func TestScriptedRepliesCycle(t *testing.T) {
	c := NewClient("first", "second")
	for _, want := range []string{"first", "second", "first"} {
		resp, err := c.CreateChatCompletion(context.Background(), chatgpt.ChatCompletionRequest{Model: "offline"})
		require.NoError(t, err)
		require.Equal(t, want, resp.Text())
	}
}

func TestCannedReportMentionsZone(t *testing.T) {
	prompt := missionreport.BuildPrompt(missionreport.ReportRequest{Zone: "ARES / SECTOR 2", Minerals: []string{"Basalt"}})
	resp, err := NewClient().CreateChatCompletion(context.Background(), chatgpt.ChatCompletionRequest{
		Messages: []chatgpt.Message{{Role: "user", Content: prompt}},
	})
	require.NoError(t, err)
	require.Contains(t, resp.Text(), "ARES / SECTOR 2")
}

func TestEmptyScriptedReplyFlowsThrough(t *testing.T) {
	resp, err := NewClient("").CreateChatCompletion(context.Background(), chatgpt.ChatCompletionRequest{})
	require.NoError(t, err)
	require.Equal(t, "", resp.Text())
}
