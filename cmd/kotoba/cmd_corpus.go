package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/kotoba/internal/corpus"
	"github.com/ajitpratap0/kotoba/internal/semantic"
)

func corpusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Inspect the corpus",
	}
	cmd.AddCommand(corpusStatsCmd(), corpusValidateCmd())
	return cmd
}

func corpusStatsCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show corpus entry counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			c, err := loadCorpus()
			if err != nil {
				return fmt.Errorf("corpus stats: %w", err)
			}
			stats := c.Stats()
			return writeOutput(cmd.OutOrStdout(), output, stats, func(w io.Writer) {
				printStats(w, stats)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text|json|yaml)")
	return cmd
}

func printStats(w io.Writer, s corpus.Stats) {
	fmt.Fprintf(w, "Vocabulary: %d (untyped %d)\n", s.Vocabulary, s.Untyped)
	fmt.Fprintf(w, "Verbs:      %d\n", s.Verbs)
	fmt.Fprintf(w, "Adjectives: %d\n", s.Adjectives)
	fmt.Fprintf(w, "Themes:     %d\n", s.Themes)
	fmt.Fprintf(w, "Modifiers:  %d\n", s.Modifiers)

	fmt.Fprintln(w, "\nBy entity type:")
	for _, et := range sortedKeys(s.ByEntity) {
		fmt.Fprintf(w, "  %-12s %d\n", et, s.ByEntity[et])
	}
	fmt.Fprintln(w, "\nBy verb semantic:")
	for _, tag := range sortedKeys(s.BySemantic) {
		fmt.Fprintf(w, "  %-14s %d\n", tag, s.BySemantic[tag])
	}
	fmt.Fprintln(w, "\nBy adjective tag:")
	for _, tag := range sortedKeys(s.ByAdjectiveTag) {
		fmt.Fprintf(w, "  %-14s %d\n", tag, s.ByAdjectiveTag[tag])
	}
}

func corpusValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the corpus and report problems",
		Long: `Loads and validates every corpus file. Fails on missing or malformed files.
Warns about themes with a structure the renderer does not know and entity
types with no vocabulary, which generate NOT FOUND placeholders.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCorpus()
			if err != nil {
				return fmt.Errorf("corpus validate: %w", err)
			}
			w := cmd.OutOrStdout()

			known := semantic.KnownStructures()
			for _, name := range c.ThemeNames() {
				rule, _ := c.Rule(name)
				if !slices.Contains(known, rule.Structure) {
					fmt.Fprintf(w, "warning: theme %q uses unknown structure %q\n", name, rule.Structure)
				}
			}
			for _, et := range c.Stats().EmptyEntityType {
				fmt.Fprintf(w, "warning: no vocabulary typed %q\n", et)
			}

			fmt.Fprintf(w, "corpus %s ok: %d themes\n", c.Dir(), len(c.ThemeNames()))
			return nil
		},
	}
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
