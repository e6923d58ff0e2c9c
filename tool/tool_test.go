package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/shopchat-ai/shopchat/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchArgs struct {
	Keyword string `json:"keyword" description:"Search keyword"`
	Limit   *int   `json:"limit" description:"Optional result cap"`
}

func TestCreateSchemaFromStruct(t *testing.T) {
	schema := util.CreateSchema(searchArgs{})
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "keyword")
	assert.Contains(t, props, "limit")

	req, _ := schema["required"].([]string)
	assert.ElementsMatch(t, []string{"keyword"}, req, "pointer fields are optional")
}

func TestValidateParameters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"keyword": map[string]any{"type": "string"},
			"limit":   map[string]any{"type": "integer"},
		},
		"required": []any{"keyword"},
	}

	assert.NoError(t, util.ValidateParameters(map[string]any{"keyword": "mouse", "limit": float64(3)}, schema))

	err := util.ValidateParameters(map[string]any{}, schema)
	require.Error(t, err)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "keyword", vErr.Field)

	err = util.ValidateParameters(map[string]any{"keyword": "mouse", "limit": "three"}, schema)
	require.Error(t, err)
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Message, "expected type integer")

	// required as []string (CreateSchema output shape)
	schema["required"] = []string{"keyword"}
	err = util.ValidateParameters(map[string]any{}, schema)
	assert.Error(t, err)
}

func TestFunctionToolCall(t *testing.T) {
	echo := NewFunctionToolFromStruct("echo_keyword", "Echo the keyword", searchArgs{},
		func(_ context.Context, args map[string]any) (any, error) {
			return args["keyword"], nil
		})

	res, err := echo.Call(context.Background(), map[string]any{"keyword": "mouse"})
	require.NoError(t, err)
	assert.Equal(t, "mouse", res)

	_, err = echo.Call(context.Background(), map[string]any{})
	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, CodeValidation, toolErr.Code)
}

func TestFunctionToolErrorNormalization(t *testing.T) {
	boom := NewFunctionTool("boom", "Always fails",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(context.Context, map[string]any) (any, error) {
			return nil, errors.New("backend unreachable")
		})

	_, err := boom.Call(context.Background(), map[string]any{})
	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, CodeExecution, toolErr.Code)
	assert.Equal(t, "backend unreachable", toolErr.Message)

	custom := NewFunctionTool("custom", "Returns ToolError",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(context.Context, map[string]any) (any, error) {
			return nil, NewToolError("custom", "nope", "RATE_LIMITED")
		})
	_, err = custom.Call(context.Background(), map[string]any{})
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "RATE_LIMITED", toolErr.Code, "custom codes pass through")
}

func TestRegistryCapabilities(t *testing.T) {
	a := NewFunctionTool("a", "", map[string]any{"type": "object", "properties": map[string]any{}}, func(context.Context, map[string]any) (any, error) { return nil, nil })
	b := NewFunctionTool("b", "", map[string]any{"type": "object", "properties": map[string]any{}}, func(context.Context, map[string]any) (any, error) { return nil, nil })

	reg, err := NewRegistry(a, b)
	require.NoError(t, err)

	_, err = NewRegistry(a, a)
	assert.Error(t, err, "duplicate names rejected")

	require.NoError(t, reg.Grant("EcommerceAssistant", "a", "b"))
	require.NoError(t, reg.Grant("LoggingAgent", "b"))
	assert.Error(t, reg.Grant("LoggingAgent", "missing"))

	assert.True(t, reg.Allowed("EcommerceAssistant", "a"))
	assert.False(t, reg.Allowed("LoggingAgent", "a"))
	assert.False(t, reg.Allowed("Stranger", "a"))

	tools := reg.ToolsFor("EcommerceAssistant")
	require.Len(t, tools, 2)
	assert.Equal(t, "a", tools[0].Name())
	assert.Equal(t, []string{"a", "b"}, reg.Names())
}
