package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/kotoba/internal/models"
	"github.com/ajitpratap0/kotoba/internal/semantic"
)

func scoreCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "score <entity-a> <entity-b> <relationship>",
		Short: "Score how well two entity types combine under a relationship",
		Example: `  kotoba score person thing ownership
  kotoba score animal place location -o json`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			a, b := models.EntityType(args[0]), models.EntityType(args[1])
			for _, et := range []models.EntityType{a, b} {
				if !et.IsValid() {
					return fmt.Errorf("score: invalid entity type %q (valid: %v)", et, models.ValidEntityTypes)
				}
			}
			rel, ok := models.ParseRelationship(args[2])
			if !ok {
				return fmt.Errorf("score: invalid relationship %q (valid: %v)", args[2], models.ValidRelationshipTypes)
			}

			// Corpus entity overrides change domain scores.
			tables := semantic.DefaultTables()
			if c, err := loadCorpus(); err == nil {
				tables = tables.WithEntityConfig(c.Entities())
			} else {
				newLogger().Debug("score: using built-in tables", "error", err)
			}
			score := semantic.NewModel(tables).Score(a, b, rel)

			return writeOutput(cmd.OutOrStdout(), output, score, func(w io.Writer) {
				fmt.Fprintf(w, "%s / %s under %s\n", a, b, rel)
				fmt.Fprintf(w, "  semantic match             %.3f\n", score.SemanticMatch)
				fmt.Fprintf(w, "  contextual appropriateness %.3f\n", score.ContextualAppropriateness)
				fmt.Fprintf(w, "  relationship fit           %.3f\n", score.RelationshipFit)
				fmt.Fprintf(w, "  overall                    %.3f\n", score.Overall)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text|json|yaml)")
	return cmd
}
