package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/kotoba/internal/models"
)

// errIncoherent makes check exit non-zero for a failing sentence.
var errIncoherent = errors.New("sentence failed the coherence check")

func checkCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Check the coherence of a sentence produced by generate -o json",
		Long: `Reads a sentence as JSON (the output of "kotoba generate -o json") from the
given file, or from stdin when no file or "-" is given, and runs the
coherence checker on it. Exits non-zero when the sentence fails.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("check: %w", err)
				}
				defer func() { _ = f.Close() }()
				in = f
			}

			var s models.Sentence
			if err := json.NewDecoder(in).Decode(&s); err != nil {
				return fmt.Errorf("check: decoding sentence: %w", err)
			}

			logger := newLogger()
			g, err := newGenerator(logger)
			if err != nil {
				return fmt.Errorf("check: %w", err)
			}
			result := g.Checker().Check(s)

			if err := writeOutput(cmd.OutOrStdout(), output, result, func(w io.Writer) {
				printVerdict(w, result.Passed, result.Issues)
			}); err != nil {
				return err
			}
			if !result.Passed {
				return errIncoherent
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text|json|yaml)")
	return cmd
}
