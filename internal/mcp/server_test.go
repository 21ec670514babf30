package mcp_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"strconv"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/kotoba/internal/coherence"
	"github.com/ajitpratap0/kotoba/internal/corpus"
	"github.com/ajitpratap0/kotoba/internal/corpus/corpustest"
	"github.com/ajitpratap0/kotoba/internal/generator"
	kotobamcp "github.com/ajitpratap0/kotoba/internal/mcp"
	"github.com/ajitpratap0/kotoba/internal/models"
)

type generated struct {
	Seed uint64 `json:"seed"`
	models.Sentence
}

func newMCPServer(t *testing.T) *kotobamcp.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := generator.NewProvider(corpus.NewHolder(corpustest.New(t)), logger)
	return kotobamcp.NewServer(p, logger, 20)
}

// makeReq builds a CallToolRequest with the given string/number/bool arguments.
func makeReq(toolName string, args map[string]any) mcpgo.CallToolRequest {
	req := mcpgo.CallToolRequest{}
	req.Params.Name = toolName
	req.Params.Arguments = args
	return req
}

// textContent extracts the first TextContent string from a CallToolResult.
func textContent(t *testing.T, result *mcpgo.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content, "expected at least one content item")
	tc, ok := result.Content[0].(mcpgo.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return tc.Text
}

func generate(t *testing.T, srv *kotobamcp.Server, args map[string]any) generated {
	t.Helper()
	result, err := srv.HandleGenerate(context.Background(), makeReq("generate_sentence", args))
	require.NoError(t, err)
	require.False(t, result.IsError, "generate_sentence returned error: %s", textContent(t, result))
	var out generated
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &out))
	return out
}

func TestMCP_MCPServer(t *testing.T) {
	srv := newMCPServer(t)
	assert.NotNil(t, srv.MCPServer())
}

func TestMCP_GenerateSentence(t *testing.T) {
	srv := newMCPServer(t)

	out := generate(t, srv, map[string]any{"theme": "identity", "seed": "42"})
	assert.Equal(t, uint64(42), out.Seed)
	assert.Equal(t, "identity", out.Theme)
	assert.Equal(t, "A_wa_B_desu", out.Structure)
	assert.NotEmpty(t, out.Japanese)
	assert.NotEmpty(t, out.English)
	assert.Nil(t, out.Debug)

	again := generate(t, srv, map[string]any{"theme": "identity", "seed": "42"})
	assert.Equal(t, out.Japanese, again.Japanese)
	assert.Equal(t, out.English, again.English)
}

func TestMCP_GenerateSentence_RandomSeedAndTheme(t *testing.T) {
	srv := newMCPServer(t)

	out := generate(t, srv, map[string]any{})
	assert.NotZero(t, out.Seed)
	assert.Contains(t, []string{"identity", "possession", "action", "movement", "description"}, out.Theme)
}

func TestMCP_GenerateSentence_Debug(t *testing.T) {
	srv := newMCPServer(t)

	out := generate(t, srv, map[string]any{"theme": "action", "seed": "7", "debug": true})
	require.NotNil(t, out.Debug)
	assert.Contains(t, out.Debug.Slots, "A")
	assert.Contains(t, out.Debug.Slots, "V")
}

func TestMCP_GenerateSentence_CoherentOnly(t *testing.T) {
	srv := newMCPServer(t)

	for seed := 1; seed <= 5; seed++ {
		result, err := srv.HandleGenerate(context.Background(), makeReq("generate_sentence", map[string]any{
			"theme":         "identity",
			"seed":          strconv.Itoa(seed),
			"coherent_only": true,
		}))
		require.NoError(t, err)
		if result.IsError {
			assert.Contains(t, textContent(t, result), "no coherent sentence")
			continue
		}
		var out generated
		require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &out))
		assert.True(t, out.CoherencePassed)
		assert.Empty(t, out.CoherenceIssues)
	}
}

func TestMCP_GenerateSentence_Errors(t *testing.T) {
	srv := newMCPServer(t)
	ctx := context.Background()

	result, err := srv.HandleGenerate(ctx, makeReq("generate_sentence", map[string]any{"theme": "haiku"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	text := textContent(t, result)
	assert.Contains(t, text, "unknown theme")
	assert.Contains(t, text, "identity")

	for _, seed := range []any{"-1", "abc", "18446744073709551616", float64(-1), 1.5, float64(1 << 60), true} {
		result, err = srv.HandleGenerate(ctx, makeReq("generate_sentence", map[string]any{"seed": seed}))
		require.NoError(t, err)
		assert.True(t, result.IsError, "seed %v", seed)
	}
}

func TestMCP_GenerateSentence_Seed(t *testing.T) {
	srv := newMCPServer(t)

	out := generate(t, srv, map[string]any{"theme": "identity", "seed": "18446744073709551615"})
	assert.Equal(t, uint64(math.MaxUint64), out.Seed)
	again := generate(t, srv, map[string]any{"theme": "identity", "seed": "18446744073709551615"})
	assert.Equal(t, out.Japanese, again.Japanese)

	numeric := generate(t, srv, map[string]any{"theme": "identity", "seed": float64(42)})
	assert.Equal(t, uint64(42), numeric.Seed)
	assert.Equal(t, generate(t, srv, map[string]any{"theme": "identity", "seed": "42"}).Japanese, numeric.Japanese)

	random := generate(t, srv, map[string]any{"theme": "identity", "seed": ""})
	assert.NotZero(t, random.Seed)
}

func TestMCP_CheckCoherence(t *testing.T) {
	srv := newMCPServer(t)
	ctx := context.Background()

	thing := func(english string) models.Component {
		return models.VocabularyComponent(models.VocabularyEntry{English: english, Kana: "かな", Entity: models.EntityThing}, models.EntityThing)
	}
	s := models.Sentence{
		Japanese:     "本の車",
		English:      "book's car",
		Structure:    "A_no_B",
		Relationship: models.RelationshipOwnership,
		SlotOrder:    []string{"A", "B"},
		Components:   map[string]models.Component{"A": thing("book"), "B": thing("car")},
	}
	raw, err := json.Marshal(s)
	require.NoError(t, err)

	result, err := srv.HandleCheck(ctx, makeReq("check_coherence", map[string]any{"sentence": string(raw)}))
	require.NoError(t, err)
	require.False(t, result.IsError, textContent(t, result))

	var verdict coherence.Result
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &verdict))
	assert.False(t, verdict.Passed)
	assert.Contains(t, verdict.Issues, "ownership: things don't own other things")
}

func TestMCP_CheckCoherence_RoundTripsGenerated(t *testing.T) {
	srv := newMCPServer(t)
	ctx := context.Background()

	out := generate(t, srv, map[string]any{"theme": "movement", "seed": "3"})
	raw, err := json.Marshal(out.Sentence)
	require.NoError(t, err)

	result, err := srv.HandleCheck(ctx, makeReq("check_coherence", map[string]any{"sentence": string(raw)}))
	require.NoError(t, err)
	require.False(t, result.IsError, textContent(t, result))

	var verdict coherence.Result
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &verdict))
	assert.Equal(t, out.CoherencePassed, verdict.Passed)
	assert.ElementsMatch(t, out.CoherenceIssues, verdict.Issues)
}

func TestMCP_CheckCoherence_Invalid(t *testing.T) {
	srv := newMCPServer(t)
	ctx := context.Background()

	for _, raw := range []string{"", "   ", "{not json"} {
		result, err := srv.HandleCheck(ctx, makeReq("check_coherence", map[string]any{"sentence": raw}))
		require.NoError(t, err)
		assert.True(t, result.IsError, "input %q", raw)
	}
}

func TestMCP_ListThemes(t *testing.T) {
	srv := newMCPServer(t)

	result, err := srv.HandleThemes(context.Background(), makeReq("list_themes", nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var out struct {
		Themes []struct {
			Name         string                  `json:"name"`
			Structure    string                  `json:"structure"`
			Relationship models.RelationshipType `json:"relationship"`
		} `json:"themes"`
	}
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &out))
	require.Len(t, out.Themes, 5)
	assert.Equal(t, "action", out.Themes[0].Name)
	assert.Equal(t, "A_wa_B_wo_Verb", out.Themes[0].Structure)
	assert.Equal(t, models.RelationshipAction, out.Themes[0].Relationship)
}

func TestMCP_ScoreEntities(t *testing.T) {
	srv := newMCPServer(t)
	ctx := context.Background()

	result, err := srv.HandleScore(ctx, makeReq("score_entities", map[string]any{
		"a": "person", "b": "thing", "relationship": "OWNERSHIP",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, textContent(t, result))

	var score models.CompatibilityScore
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &score))
	assert.InDelta(t, 0.82, score.Overall, 1e-9)

	bad := []map[string]any{
		{"a": "robot", "b": "thing", "relationship": "action"},
		{"a": "person", "b": "", "relationship": "action"},
		{"a": "person", "b": "thing", "relationship": "friendship"},
	}
	for _, args := range bad {
		result, err := srv.HandleScore(ctx, makeReq("score_entities", args))
		require.NoError(t, err)
		assert.True(t, result.IsError, "args %v", args)
	}
}
