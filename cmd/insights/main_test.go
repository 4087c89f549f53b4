package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const catalogCSV = `show_id,type,title,director,cast,country,date_added,release_year,rating,duration,listed_in,description
s1,Movie,Alpha,Ann Lee,"Bob, Cat",United States,"January 5, 2019",2018,PG,90 min,"Dramas, Comedies",A heist story
s2,TV Show,Beta,,Cat,India,"April 1, 2020",2019,TV-MA,2 Seasons,Dramas,Another
s3,Movie,Gamma,Ann Lee,Dan,"India, United States","July 10, 2020",2020,PG,100 min,Comedies,A road trip
`

func run(t *testing.T, args ...string) string {
	t.Helper()
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "titles.csv")
	if err := os.WriteFile(csvPath, []byte(catalogCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DB_PATH", filepath.Join(dir, "insights.db"))
	t.Setenv("DATASET_URL", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--dataset", csvPath, "--log-level", "error"}, args...))
	defer func() { asJSON = false }()
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("insights %v: %v", args, err)
	}
	return out.String()
}

func TestTopCommand(t *testing.T) {
	out := run(t, "top", "country", "-n", "1")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header, top row and Others, got:\n%s", out)
	}
	if !strings.HasPrefix(lines[1], "India") && !strings.HasPrefix(lines[1], "United States") {
		t.Errorf("unexpected first row %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "Others") {
		t.Errorf("expected Others row, got %q", lines[2])
	}
}

func TestPageCommand_JSON(t *testing.T) {
	out := run(t, "page", "overview", "--json")
	var page struct {
		Name   string `json:"name"`
		Charts []struct {
			ID string `json:"id"`
		} `json:"charts"`
	}
	if err := json.Unmarshal([]byte(out), &page); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if page.Name != "overview" || len(page.Charts) == 0 {
		t.Errorf("unexpected page %+v", page)
	}
}

func TestPagesCommand(t *testing.T) {
	out := run(t, "pages")
	for _, name := range []string{"overview", "trends", "geography", "genres", "talent"} {
		if !strings.Contains(out, name) {
			t.Errorf("missing page %s in:\n%s", name, out)
		}
	}
}
