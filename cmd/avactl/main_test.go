package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ava/internal/scan"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func tempDatabase(t *testing.T) string {
	t.Helper()
	t.Setenv("DATABASE_USE_MOCK", "false")
	return "sqlite:" + filepath.Join(t.TempDir(), "ava.db")
}

func TestRootHelp(t *testing.T) {
	out, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("execute root help: %v", err)
	}
	for _, sub := range []string{"seed", "import", "analyze"} {
		if !strings.Contains(out, sub) {
			t.Fatalf("expected help to list %q, got %s", sub, out)
		}
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	dbURL := tempDatabase(t)

	out, err := execute(t, "--db", dbURL, "seed")
	if err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	if !strings.Contains(out, "Seeded 15 ingredients (15 new, 0 updated)") {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = execute(t, "--db", dbURL, "seed")
	if err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	if !strings.Contains(out, "(0 new, 15 updated)") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestImportMergesIntoCatalog(t *testing.T) {
	dbURL := tempDatabase(t)
	if _, err := execute(t, "--db", dbURL, "seed"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	csvPath := filepath.Join(t.TempDir(), "catalog.csv")
	content := "Name,Aliases,Category,Health Rating,Risk Factors,Description\n" +
		"fragrance,Perfume; Parfum,Fragrance,3/10,allergic reactions,Updated description.\n" +
		"Benzoyl Peroxide,BPO[1],Active,6,skin irritation; dryness,Acne treatment.\n"
	if err := os.WriteFile(csvPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	out, err := execute(t, "--db", dbURL, "import", csvPath)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out, "Imported 2 ingredients from catalog.csv (1 new, 1 updated)") {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = execute(t, "--db", dbURL, "analyze", "--json", "--skin", "Eczema", "Perfume, BPO")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	var result scan.Result
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode analyze output %q: %v", out, err)
	}
	if len(result.Ingredients) != 2 {
		t.Fatalf("expected 2 matches, got %+v", result.Ingredients)
	}
	fragrance, peroxide := result.Ingredients[0], result.Ingredients[1]
	if fragrance.CanonicalName != "Fragrance" || fragrance.HealthRating != 3 {
		t.Fatalf("expected updated Fragrance, got %+v", fragrance)
	}
	if strings.Join(fragrance.Aliases, ",") != "Parfum,Aroma,Perfume" {
		t.Fatalf("expected merged aliases, got %v", fragrance.Aliases)
	}
	if peroxide.CanonicalName != "Benzoyl Peroxide" || !peroxide.IsRisky {
		t.Fatalf("expected new ingredient flagged for eczema, got %+v", peroxide)
	}
}

func TestImportRejectsBadRows(t *testing.T) {
	dbURL := tempDatabase(t)
	csvPath := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(csvPath, []byte("Name,Health Rating\nMystery,eleven\n"), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	if _, err := execute(t, "--db", dbURL, "import", csvPath); err == nil || !strings.Contains(err.Error(), "record 1") {
		t.Fatalf("expected record error, got %v", err)
	}
	if _, err := execute(t, "--db", dbURL, "import", filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestAnalyzePrintsTable(t *testing.T) {
	dbURL := tempDatabase(t)
	if _, err := execute(t, "--db", dbURL, "seed"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	out, err := execute(t, "--db", dbURL, "analyze", "--allergy", "fragrance", "Aqua, Parfum, Unobtainium")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %q", out)
	}
	if !strings.Contains(lines[1], "Water") || !strings.Contains(lines[1], "false") {
		t.Fatalf("unexpected water row %q", lines[1])
	}
	if !strings.Contains(lines[2], "Fragrance") || !strings.Contains(lines[2], `matches your allergy to "fragrance"`) {
		t.Fatalf("unexpected fragrance row %q", lines[2])
	}

	out, err = execute(t, "--db", dbURL, "analyze", "Unobtainium")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if strings.TrimSpace(out) != "No known ingredients found" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestParseHealthRating(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"7", 7, false},
		{"7/10", 7, false},
		{" 8.6 ", 9, false},
		{"0", 0, false},
		{"0/10", 0, false},
		{"11", 0, true},
		{"-1", 0, true},
		{"N/A", 0, true},
	}
	for _, tc := range cases {
		got, err := parseHealthRating(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Fatalf("parseHealthRating(%q) = %d, %v", tc.in, got, err)
		}
	}
}

func TestBuildRecordAcceptsZeroRating(t *testing.T) {
	t.Parallel()

	rec, err := buildRecord(map[string]string{"name": "Formaldehyde", "health rating": "0"})
	if err != nil {
		t.Fatalf("buildRecord returned error: %v", err)
	}
	if rec.CanonicalName != "Formaldehyde" || rec.HealthRating != 0 {
		t.Fatalf("unexpected record %+v", rec)
	}

	if _, err := buildRecord(map[string]string{"name": "Mystery", "health rating": "11"}); err == nil || !strings.Contains(err.Error(), "Mystery") {
		t.Fatalf("expected out-of-range rating error naming the row, got %v", err)
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	got := splitList("Aqua; H2O[2], aqua ,, Water ")
	if strings.Join(got, "|") != "Aqua|H2O|Water" {
		t.Fatalf("splitList returned %v", got)
	}
	if got := splitList("N/A"); got == nil || len(got) != 0 {
		t.Fatalf("splitList(N/A) = %#v", got)
	}
}
