// mkfixture converts an encounter table (CSV or Parquet) into a small
// representative Parquet fixture. Rows are bucketed by trait so the fixture
// keeps incomplete demographics, JSON vitals and free-text notes.
// Usage: go run ./cmd/mkfixture --in testdata/encounters.csv --out testdata/encounters-small.parquet --rows 200
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gyeh/clinicprep/internal/model"
	"github.com/gyeh/clinicprep/internal/tableread"
)

func main() {
	in := flag.String("in", "testdata/encounters.csv", "input table (.csv or .parquet)")
	out := flag.String("out", "testdata/encounters-small.parquet", "output parquet")
	maxRows := flag.Int("rows", 200, "max rows to output")
	checkOnly := flag.Bool("check", false, "only print stats, don't write")
	flag.Parse()

	tbl, err := tableread.Load(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load input: %v\n", err)
		os.Exit(1)
	}
	if len(tbl.Missing) > 0 {
		fmt.Printf("Missing columns: %s\n", strings.Join(tbl.Missing, ", "))
	}

	if *checkOnly {
		printStats(len(tbl.Rows), tbl.Rows)
		return
	}

	type bucket struct {
		name  string
		match func(*model.RawRow) bool
		want  int
		rows  []model.RawRow
	}
	buckets := []*bucket{
		{name: "missing_demographics", match: missingDemographics, want: 30},
		{name: "json_vitals", match: jsonVitals, want: 30},
		{name: "clinician_note", match: hasNote, want: 40},
		{name: "gold_response", match: hasGold, want: 20},
	}

	var general []model.RawRow
	for i := range tbl.Rows {
		row := &tbl.Rows[i]
		placed := false
		for _, b := range buckets {
			if len(b.rows) < b.want && b.match(row) {
				b.rows = append(b.rows, *row)
				placed = true
				break
			}
		}
		if !placed && len(general) < *maxRows {
			general = append(general, *row)
		}
	}
	fmt.Printf("Scanned %d rows\n", len(tbl.Rows))

	// Buckets first, in priority order, then general rows.
	var selected []model.RawRow
	for _, b := range buckets {
		for _, row := range b.rows {
			if len(selected) >= *maxRows {
				break
			}
			selected = append(selected, row)
		}
	}
	for _, row := range general {
		if len(selected) >= *maxRows {
			break
		}
		selected = append(selected, row)
	}

	if err := tableread.WriteParquet(*out, selected); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d rows to %s\n", len(selected), *out)
	printStats(len(selected), selected)
}

func missingDemographics(r *model.RawRow) bool { return r.Age == "" || r.Sex == "" }

func jsonVitals(r *model.RawRow) bool {
	return strings.HasPrefix(strings.TrimSpace(r.Vitals), "{")
}

func hasNote(r *model.RawRow) bool { return strings.TrimSpace(r.ClinicianNote) != "" }

func hasGold(r *model.RawRow) bool { return strings.TrimSpace(r.GoldResponse) != "" }

func printStats(total int, rows []model.RawRow) {
	var missing, vitals, notes, gold int
	for i := range rows {
		r := &rows[i]
		if missingDemographics(r) {
			missing++
		}
		if jsonVitals(r) {
			vitals++
		}
		if hasNote(r) {
			notes++
		}
		if hasGold(r) {
			gold++
		}
	}
	fmt.Printf("Total: %d\n", total)
	fmt.Printf("  %-22s %d\n", "missing_demographics", missing)
	fmt.Printf("  %-22s %d\n", "json_vitals", vitals)
	fmt.Printf("  %-22s %d\n", "clinician_note", notes)
	fmt.Printf("  %-22s %d\n", "gold_response", gold)
}
