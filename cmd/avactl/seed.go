package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"ava/internal/ingredient"
	"ava/internal/store"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Upsert the built-in reference catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDB(cmd.Context(), func(database *gorm.DB) error {
				created, err := store.NewCatalog(database).Seed(cmd.Context())
				if err != nil {
					return err
				}
				total := len(ingredient.SeedRecords())
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d ingredients (%d new, %d updated)\n", total, created, total-created)
				return nil
			})
		},
	}
}
