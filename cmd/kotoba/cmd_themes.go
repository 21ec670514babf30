package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/kotoba/internal/models"
	"github.com/ajitpratap0/kotoba/internal/semantic"
)

type themeInfo struct {
	Name         string                  `json:"name" yaml:"name"`
	Structure    string                  `json:"structure" yaml:"structure"`
	Relationship models.RelationshipType `json:"relationship" yaml:"relationship"`
	Description  string                  `json:"description,omitempty" yaml:"description,omitempty"`
	Slots        []string                `json:"slots" yaml:"slots"`
}

func themesCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "themes",
		Short: "List the themes in the corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			c, err := loadCorpus()
			if err != nil {
				return fmt.Errorf("themes: %w", err)
			}

			var themes []themeInfo
			for _, name := range c.ThemeNames() {
				rule, _ := c.Rule(name)
				info := themeInfo{
					Name:         name,
					Structure:    rule.Structure,
					Relationship: semantic.RelationshipForStructure(rule.Structure),
					Description:  rule.Description,
				}
				for _, slot := range rule.Slots {
					info.Slots = append(info.Slots, slot.Name)
				}
				themes = append(themes, info)
			}

			return writeOutput(cmd.OutOrStdout(), output, themes, func(w io.Writer) {
				for _, t := range themes {
					fmt.Fprintf(w, "%-20s %-20s %-12s %s\n", t.Name, t.Structure, t.Relationship, t.Description)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text|json|yaml)")
	return cmd
}
