package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"ava/internal/ingredient"
	"ava/internal/store"
)

var (
	bracketPattern  = regexp.MustCompile(`\[[^\]]*\]`)
	numberPattern   = regexp.MustCompile(`[-+]?\d*\.?\d+`)
	cleanWhitespace = regexp.MustCompile(`\s+`)
)

// CSV columns read by the importer. Header names match case-insensitively.
const (
	columnName         = "name"
	columnAliases      = "aliases"
	columnCategory     = "category"
	columnHealthRating = "health rating"
	columnRiskFactors  = "risk factors"
	columnDescription  = "description"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <csv>",
		Short: "Upsert catalog rows from a CSV file",
		Long: "Upsert catalog rows from a CSV file with the columns Name, Aliases, Category, Health Rating, " +
			"Risk Factors and Description. Aliases and risk factors are separated by ';' or ','. Rows update the " +
			"ingredient with the same name, ignoring case, and their aliases are merged with the stored ones.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			csvPath := args[0]
			file, err := os.Open(csvPath)
			if err != nil {
				return fmt.Errorf("locate csv: %w", err)
			}
			defer file.Close()

			records, err := readCSV(file)
			if err != nil {
				return fmt.Errorf("read csv: %w", err)
			}

			return opts.withDB(cmd.Context(), func(database *gorm.DB) error {
				created, updated, err := importRecords(cmd.Context(), store.NewCatalog(database), records)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d ingredients from %s (%d new, %d updated)\n", created+updated, filepath.Base(csvPath), created, updated)
				return nil
			})
		},
	}
}

func importRecords(ctx context.Context, catalog *store.Catalog, rows []map[string]string) (int, int, error) {
	created, updated := 0, 0
	for idx, row := range rows {
		rec, err := buildRecord(row)
		if err != nil {
			return created, updated, fmt.Errorf("record %d: %w", idx+1, err)
		}
		_, isNew, err := catalog.Upsert(ctx, rec)
		if err != nil {
			return created, updated, fmt.Errorf("record %d (%s): %w", idx+1, rec.CanonicalName, err)
		}
		if isNew {
			created++
		} else {
			updated++
		}
	}
	return created, updated, nil
}

func readCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errors.New("csv is empty")
	}

	header := make([]string, len(rows[0]))
	for idx, key := range rows[0] {
		header[idx] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(key, "\ufeff")))
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}

		record := make(map[string]string, len(header))
		for idx, key := range header {
			if idx >= len(row) {
				continue
			}
			record[key] = strings.TrimSpace(row[idx])
		}
		records = append(records, record)
	}

	return records, nil
}

func buildRecord(row map[string]string) (ingredient.Record, error) {
	name := normalizeText(row[columnName])
	if name == "" {
		return ingredient.Record{}, errors.New("name is required")
	}
	rating, err := parseHealthRating(row[columnHealthRating])
	if err != nil {
		return ingredient.Record{}, fmt.Errorf("%s: %w", name, err)
	}
	return ingredient.Record{
		CanonicalName: name,
		Aliases:       splitList(row[columnAliases]),
		Category:      normalizeValue(row[columnCategory]),
		HealthRating:  rating,
		RiskFactors:   splitList(row[columnRiskFactors]),
		Description:   normalizeText(row[columnDescription]),
	}, nil
}

// parseHealthRating reads the first number of value, accepting "7", "7/10"
// or "7.0". Ratings run from 0 to 10.
func parseHealthRating(value string) (int, error) {
	value = normalizeValue(value)
	match := numberPattern.FindString(value)
	if match == "" {
		return 0, fmt.Errorf("health rating %q is not a number", value)
	}
	parsed, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, fmt.Errorf("health rating %q: %w", value, err)
	}
	rating := int(math.Round(parsed))
	if err := ingredient.CheckHealthRating(rating); err != nil {
		return 0, err
	}
	return rating, nil
}

func normalizeValue(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "N/A") {
		return ""
	}
	return value
}

func normalizeText(value string) string {
	value = normalizeValue(value)
	if value == "" {
		return value
	}
	value = cleanWhitespace.ReplaceAllString(value, " ")
	return strings.TrimSpace(value)
}

// splitList splits on ';' and ',' and drops footnote markers, blanks and
// case-insensitive duplicates.
func splitList(value string) []string {
	value = normalizeValue(value)
	if value == "" {
		return []string{}
	}

	parts := strings.Split(strings.ReplaceAll(value, ";", ","), ",")
	result := make([]string, 0, len(parts))
	seen := map[string]struct{}{}
	for _, part := range parts {
		clean := normalizeText(bracketPattern.ReplaceAllString(part, ""))
		if clean == "" {
			continue
		}
		key := strings.ToLower(clean)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, clean)
	}
	return result
}
