package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	kotobamcp "github.com/ajitpratap0/kotoba/internal/mcp"
)

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP (Model Context Protocol) server over stdio",
		Long: `Starts an MCP JSON-RPC 2.0 server that reads from stdin and writes to stdout.
All diagnostic logs go to stderr so that stdout remains exclusively MCP protocol traffic.

Tools exposed:
  generate_sentence  generate a sentence for a theme (optionally seeded)
  check_coherence    run the coherence checker on a sentence
  list_themes        list the corpus themes
  score_entities     score two entity types under a relationship`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			p, err := newProvider(ctx, logger)
			if err != nil {
				return fmt.Errorf("mcp: %w", err)
			}

			srv := kotobamcp.NewServer(p, logger, cfg.Generation.MaxAttempts)

			// Use a standard log.Logger pointing at stderr for the mcp-go error logger.
			errLogger := log.New(os.Stderr, "mcp: ", log.LstdFlags)

			logger.Info("mcp: kotoba MCP server starting", "transport", "stdio", "corpus", cfg.Corpus.Dir)

			return mcpserver.ServeStdio(
				srv.MCPServer(),
				mcpserver.WithErrorLogger(errLogger),
			)
		},
	}

	return cmd
}
