package shopchat_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shopchat "github.com/shopchat-ai/shopchat"
	"github.com/shopchat-ai/shopchat/model"
)

func TestAssistantAsk(t *testing.T) {
	llm := model.NewMockModel("mock", "test")
	llm.AddResponse("USER_QUERY", "No relevant prior context.")
	llm.AddResponse("No relevant prior context", "Instruction for GeneralAssistant: greet the user")
	llm.AddResponse("greet the user", "Hello! What are you shopping for today?")

	assistant, err := shopchat.New(llm)
	require.NoError(t, err)

	resp := assistant.Ask(context.Background(), "hi there", "sess1")
	assert.Contains(t, resp, "Hello!")

	records, err := assistant.Memory().Recent(context.Background(), "sess1", 5)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "hi there", records[0].Query)

	require.NoError(t, assistant.ClearSession(context.Background(), "sess1"))
	records, err = assistant.Memory().Recent(context.Background(), "sess1", 5)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAssistantRequiresModel(t *testing.T) {
	_, err := shopchat.New(nil)
	require.Error(t, err)
}
