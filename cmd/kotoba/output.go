package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/kotoba/internal/models"
)

var outputFormats = []string{"text", "json", "yaml"}

func validateOutput(format string) error {
	if !slices.Contains(outputFormats, format) {
		return fmt.Errorf("output %q must be one of %s", format, strings.Join(outputFormats, ", "))
	}
	return nil
}

// writeOutput encodes v as JSON or YAML, or calls text for the text format.
func writeOutput(w io.Writer, format string, v any, text func(io.Writer)) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		text(w)
		return nil
	}
}

func printSentence(w io.Writer, s models.Sentence, seed uint64) {
	fmt.Fprintln(w, s.Japanese)
	fmt.Fprintln(w, s.English)
	fmt.Fprintf(w, "  theme: %s (%s, %s)  seed: %d\n", s.Theme, s.Structure, s.Relationship, seed)
	printVerdict(w, s.CoherencePassed, s.CoherenceIssues)

	if s.Debug == nil {
		return
	}
	for _, slot := range s.SlotOrder {
		d, ok := s.Debug.Slots[slot]
		if !ok {
			continue
		}
		comp := s.Components[slot]
		fmt.Fprintf(w, "  [%s] %s (%s) candidates=%d", slot, comp.Japanese(), comp.English(), d.Candidates)
		if d.ChosenType != "" {
			fmt.Fprintf(w, " type=%s", d.ChosenType)
		}
		if d.Score > 0 {
			fmt.Fprintf(w, " score=%.2f", d.Score)
		}
		fmt.Fprintln(w)
		types := make([]models.EntityType, 0, len(d.TypeScores))
		for et := range d.TypeScores {
			types = append(types, et)
		}
		slices.Sort(types)
		for _, et := range types {
			fmt.Fprintf(w, "      %-10s %.3f\n", et, d.TypeScores[et])
		}
	}
}

func printVerdict(w io.Writer, passed bool, issues []string) {
	if passed {
		fmt.Fprintln(w, "  coherence: passed")
		return
	}
	fmt.Fprintln(w, "  coherence: failed")
	for _, issue := range issues {
		fmt.Fprintf(w, "    - %s\n", issue)
	}
}
