package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/kotoba/internal/generator"
	"github.com/ajitpratap0/kotoba/internal/models"
)

type generatedSentence struct {
	Seed            uint64 `json:"seed" yaml:"seed"`
	models.Sentence `yaml:",inline"`
}

func generateCmd() *cobra.Command {
	var (
		theme    string
		seed     uint64
		count    int
		debug    bool
		coherent bool
		output   string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one or more sentences",
		Long: `Generate sentences from a theme (grammar rule). With no --theme a theme is
picked at random. The same --seed, theme and corpus always give the same
sentences; --seed 0 picks a random seed, which is printed so the run can be
repeated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			if count <= 0 || count > cfg.Generation.BatchLimit {
				return fmt.Errorf("generate: --count must be between 1 and %d", cfg.Generation.BatchLimit)
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Generation.Seed
			}
			if !cmd.Flags().Changed("debug") {
				debug = cfg.Generation.Debug
			}
			if !cmd.Flags().Changed("coherent") {
				coherent = cfg.Generation.CoherentOnly
			}

			logger := newLogger()
			g, err := newGenerator(logger)
			if err != nil {
				return fmt.Errorf("generate: %w", err)
			}

			seed = generator.SeedOrRandom(seed)
			opts := generator.Options{Debug: debug}

			var sentences []models.Sentence
			switch {
			case coherent:
				rng := generator.NewRand(seed)
				for range count {
					s, genErr := g.GenerateCoherent(theme, rng, opts, cfg.Generation.MaxAttempts)
					if genErr != nil {
						return themeError(g, genErr)
					}
					sentences = append(sentences, s)
				}
			case count == 1:
				s, genErr := g.Generate(theme, generator.NewRand(seed), opts)
				if genErr != nil {
					return themeError(g, genErr)
				}
				sentences = append(sentences, s)
			default:
				sentences, err = g.GenerateBatch(cmd.Context(), count, theme, seed, opts)
				if err != nil {
					return themeError(g, err)
				}
			}

			out := make([]generatedSentence, len(sentences))
			for i, s := range sentences {
				out[i] = generatedSentence{Seed: seed, Sentence: s}
			}

			w := cmd.OutOrStdout()
			var v any = out
			if len(out) == 1 {
				v = out[0]
			}
			return writeOutput(w, output, v, func(w2 io.Writer) {
				for i, s := range out {
					if i > 0 {
						fmt.Fprintln(w2)
					}
					printSentence(w2, s.Sentence, seed)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&theme, "theme", "t", "", "theme to generate (default: random)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for reproducible output (0 = random)")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of sentences")
	cmd.Flags().BoolVar(&debug, "debug", false, "include per-slot scoring details")
	cmd.Flags().BoolVar(&coherent, "coherent", false, "retry until each sentence passes the coherence check")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text|json|yaml)")
	return cmd
}

// themeError adds the available themes to an unknown-theme error.
func themeError(g *generator.Generator, err error) error {
	if errors.Is(err, generator.ErrUnknownTheme) {
		return fmt.Errorf("generate: %w (available: %s)", err, strings.Join(g.Corpus().ThemeNames(), ", "))
	}
	return fmt.Errorf("generate: %w", err)
}
