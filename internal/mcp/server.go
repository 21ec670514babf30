// Package mcp implements the Model Context Protocol server for kotoba.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ajitpratap0/kotoba/internal/generator"
	"github.com/ajitpratap0/kotoba/internal/models"
	"github.com/ajitpratap0/kotoba/internal/semantic"
)

// Server wraps an MCPServer with kotoba dependencies.
type Server struct {
	mcp         *mcpserver.MCPServer
	generators  *generator.Provider
	maxAttempts int
	logger      *slog.Logger
}

// NewServer creates a new MCP server. maxAttempts bounds coherent_only
// generation.
func NewServer(p *generator.Provider, logger *slog.Logger, maxAttempts int) *Server {
	s := &Server{
		generators:  p,
		maxAttempts: maxAttempts,
		logger:      logger,
	}

	mcpSrv := mcpserver.NewMCPServer(
		"kotoba",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
	)

	mcpSrv.AddTool(buildGenerateTool(), s.handleGenerate)
	mcpSrv.AddTool(buildCheckTool(), s.handleCheck)
	mcpSrv.AddTool(buildThemesTool(), s.handleThemes)
	mcpSrv.AddTool(buildScoreTool(), s.handleScore)

	s.mcp = mcpSrv
	return s
}

// MCPServer returns the underlying mcp-go MCPServer for use with ServeStdio.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

// HandleGenerate is the exported handler for the "generate_sentence" tool.
// It is exposed for direct testing without the mcp-go transport layer.
func (s *Server) HandleGenerate(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleGenerate(ctx, req)
}

// HandleCheck is the exported handler for the "check_coherence" tool.
func (s *Server) HandleCheck(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleCheck(ctx, req)
}

// HandleThemes is the exported handler for the "list_themes" tool.
func (s *Server) HandleThemes(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleThemes(ctx, req)
}

// HandleScore is the exported handler for the "score_entities" tool.
func (s *Server) HandleScore(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleScore(ctx, req)
}

// --- helpers ---

// toolResultJSON marshals v to JSON and returns it as a tool text result.
func toolResultJSON(v any) (*mcpgo.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mcp: marshaling result: %w", err)
	}
	return mcpgo.NewToolResultText(string(b)), nil
}

// --- tool definitions ---

func buildGenerateTool() mcpgo.Tool {
	return mcpgo.NewTool("generate_sentence",
		mcpgo.WithDescription("Generate a Japanese sentence with its English rendering and coherence verdict."),
		mcpgo.WithString("theme",
			mcpgo.Description("Theme (grammar rule) name; omit for a random theme"),
		),
		mcpgo.WithString("seed",
			mcpgo.Description("Unsigned 64-bit seed in decimal for reproducible output; omit or 0 for a random seed"),
		),
		mcpgo.WithBoolean("debug",
			mcpgo.Description("Attach per-slot scoring details (default: false)"),
		),
		mcpgo.WithBoolean("coherent_only",
			mcpgo.Description("Retry until the sentence passes the coherence check (default: false)"),
		),
	)
}

func buildCheckTool() mcpgo.Tool {
	return mcpgo.NewTool("check_coherence",
		mcpgo.WithDescription("Run the coherence checker on a sentence previously returned by generate_sentence."),
		mcpgo.WithString("sentence",
			mcpgo.Required(),
			mcpgo.Description("The sentence as JSON"),
		),
	)
}

func buildThemesTool() mcpgo.Tool {
	return mcpgo.NewTool("list_themes",
		mcpgo.WithDescription("List the available themes with their structure and relationship."),
	)
}

func buildScoreTool() mcpgo.Tool {
	return mcpgo.NewTool("score_entities",
		mcpgo.WithDescription("Score how well two entity types combine under a relationship."),
		mcpgo.WithString("a",
			mcpgo.Required(),
			mcpgo.Description("First entity type: person, animal, thing, place, concept, group, event, phenomenon"),
		),
		mcpgo.WithString("b",
			mcpgo.Required(),
			mcpgo.Description("Second entity type"),
		),
		mcpgo.WithString("relationship",
			mcpgo.Required(),
			mcpgo.Description("ownership, association, action, description, location, identity or attribution"),
		),
	)
}

// --- tool handlers ---

// handleGenerate generates one sentence.
func (s *Server) handleGenerate(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	theme := strings.TrimSpace(req.GetString("theme", ""))
	requested, err := seedArg(req)
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	seed := generator.SeedOrRandom(requested)
	opts := generator.Options{Debug: req.GetBool("debug", false)}

	g := s.generators.Get()
	rng := generator.NewRand(seed)

	var sentence models.Sentence
	if req.GetBool("coherent_only", false) {
		sentence, err = g.GenerateCoherent(theme, rng, opts, s.maxAttempts)
	} else {
		sentence, err = g.Generate(theme, rng, opts)
	}
	switch {
	case errors.Is(err, generator.ErrUnknownTheme):
		return mcpgo.NewToolResultErrorf("%s (available: %s)", err.Error(), strings.Join(g.Corpus().ThemeNames(), ", ")), nil
	case err != nil:
		return mcpgo.NewToolResultErrorf("generation failed: %s", err.Error()), nil
	}

	s.logger.Info("mcp: generated sentence", "theme", sentence.Theme, "seed", seed, "coherent", sentence.CoherencePassed)

	return toolResultJSON(struct {
		Seed uint64 `json:"seed"`
		models.Sentence
	}{Seed: seed, Sentence: sentence})
}

// seedArg reads the seed as a decimal string so the full uint64 range
// survives JSON. Integral numbers up to 2^53 are accepted as well.
func seedArg(req mcpgo.CallToolRequest) (uint64, error) {
	switch v := req.GetArguments()["seed"].(type) {
	case nil:
		return 0, nil
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return 0, nil
		}
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("seed must be an unsigned 64-bit integer, got %q", v)
		}
		return seed, nil
	case float64:
		if v < 0 || v > maxExactSeed || v != math.Trunc(v) {
			return 0, fmt.Errorf("seed must be a non-negative integer up to %d; pass larger seeds as a string", uint64(maxExactSeed))
		}
		return uint64(v), nil
	default:
		return 0, fmt.Errorf("seed must be a string, got %T", v)
	}
}

// maxExactSeed is the largest integer a JSON number carries without loss.
const maxExactSeed = 1 << 53

// handleCheck decodes a sentence and checks it.
func (s *Server) handleCheck(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	raw := req.GetString("sentence", "")
	if strings.TrimSpace(raw) == "" {
		return mcpgo.NewToolResultError("sentence is required and must not be empty"), nil
	}
	var sentence models.Sentence
	if err := json.Unmarshal([]byte(raw), &sentence); err != nil {
		return mcpgo.NewToolResultErrorf("invalid sentence JSON: %s", err.Error()), nil
	}
	return toolResultJSON(s.generators.Get().Checker().Check(sentence))
}

// handleThemes lists themes in name order.
func (s *Server) handleThemes(_ context.Context, _ mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	c := s.generators.Get().Corpus()
	type theme struct {
		Name         string                  `json:"name"`
		Structure    string                  `json:"structure"`
		Relationship models.RelationshipType `json:"relationship"`
		Description  string                  `json:"description,omitempty"`
	}
	names := c.ThemeNames()
	themes := make([]theme, 0, len(names))
	for _, name := range names {
		rule, _ := c.Rule(name)
		themes = append(themes, theme{
			Name:         name,
			Structure:    rule.Structure,
			Relationship: semantic.RelationshipForStructure(rule.Structure),
			Description:  rule.Description,
		})
	}
	return toolResultJSON(map[string]any{"themes": themes})
}

// handleScore scores an entity pair.
func (s *Server) handleScore(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	a := models.EntityType(req.GetString("a", ""))
	b := models.EntityType(req.GetString("b", ""))
	if !a.IsValid() {
		return mcpgo.NewToolResultErrorf("invalid entity type %q", a), nil
	}
	if !b.IsValid() {
		return mcpgo.NewToolResultErrorf("invalid entity type %q", b), nil
	}
	relArg := req.GetString("relationship", "")
	rel, ok := models.ParseRelationship(relArg)
	if !ok {
		return mcpgo.NewToolResultErrorf("invalid relationship %q", relArg), nil
	}
	return toolResultJSON(s.generators.Get().Model().Score(a, b, rel))
}
