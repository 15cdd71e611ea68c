package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"ava/internal/ingredient"
	"ava/internal/scan"
	"ava/internal/store"
)

type analyzeOptions struct {
	profile ingredient.Profile
	json    bool
}

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	aopts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze <text>",
		Short: "Match an ingredient list against the catalog and flag risks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return opts.withDB(cmd.Context(), func(database *gorm.DB) error {
				catalog := ingredient.NewCachedCatalog(store.NewCatalog(database), 0)
				result, err := scan.New(catalog, nil).Analyze(cmd.Context(), text, aopts.profile)
				if err != nil {
					return err
				}
				if aopts.json {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(result)
				}
				return printAnalysis(cmd.OutOrStdout(), result.Ingredients)
			})
		},
	}
	cmd.Flags().StringSliceVar(&aopts.profile.Allergies, "allergy", nil, "Allergy to check against (repeatable)")
	cmd.Flags().StringSliceVar(&aopts.profile.SkinConditions, "skin", nil, "Skin condition, e.g. \"Sensitive Skin\" or Eczema (repeatable)")
	cmd.Flags().StringSliceVar(&aopts.profile.DietaryPreferences, "diet", nil, "Dietary preference (repeatable)")
	cmd.Flags().BoolVar(&aopts.json, "json", false, "Print the result as JSON")
	return cmd
}

func printAnalysis(w io.Writer, analyzed []ingredient.Analyzed) error {
	if len(analyzed) == 0 {
		_, err := fmt.Fprintln(w, "No known ingredients found")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tRATING\tRISKY\tREASONS")
	for _, item := range analyzed {
		reasons := make([]string, 0, len(item.Findings))
		for _, finding := range item.Findings {
			reasons = append(reasons, finding.Detail)
		}
		fmt.Fprintf(tw, "%d\t%s\t%d/10\t%t\t%s\n", item.ID, item.CanonicalName, item.HealthRating, item.IsRisky, strings.Join(reasons, "; "))
	}
	return tw.Flush()
}
