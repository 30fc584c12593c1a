// Command import-checklist runs a one-shot checklist import for a single
// release. It reads already-tabularized rows from a CSV file and the known
// parallel suffixes from a JSON file; with --dry-run the import runs against
// an in-memory store and only the report is printed.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/martinhensley/cardindex/internal/catalog"
	"github.com/martinhensley/cardindex/internal/database"
	"github.com/martinhensley/cardindex/internal/models"
	"github.com/martinhensley/cardindex/internal/services"
)

type cmdFlags struct {
	checklist    string
	parallels    string
	manufacturer string
	release      string
	year         string
	caseMode     string
	concurrency  int
	dryRun       bool
}

func initCmdFlags() *cmdFlags {
	var flags cmdFlags
	pflag.StringVarP(&flags.checklist, "checklist", "f", "", "Checklist CSV file: set_name,card_number,player_name,team,sequence")
	pflag.StringVarP(&flags.parallels, "parallels", "p", "", "JSON file with the known parallel suffix table")
	pflag.StringVarP(&flags.manufacturer, "manufacturer", "m", "", "Release manufacturer, e.g. Panini")
	pflag.StringVarP(&flags.release, "release", "r", "", "Release name, e.g. \"2016-17 Court Kings Basketball\"")
	pflag.StringVarP(&flags.year, "year", "y", "", "Release year, e.g. 2016-17")
	pflag.StringVarP(&flags.caseMode, "case", "", string(services.CaseModeExact), "Set-name grouping policy: exact or lowercase")
	pflag.IntVarP(&flags.concurrency, "concurrency", "c", 4, "Set families imported concurrently per pass")
	pflag.BoolVarP(&flags.dryRun, "dry-run", "n", false, "Run against an in-memory store and only print the report")
	pflag.Parse()
	return &flags
}

func main() {
	flags := initCmdFlags()
	if flags.checklist == "" || flags.manufacturer == "" || flags.release == "" || flags.year == "" {
		pflag.Usage()
		os.Exit(2)
	}

	// Load environment variables from .env file, if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatal(err)
	}

	rows, err := readChecklist(flags.checklist)
	if err != nil {
		log.Fatalf("Failed to read checklist: %v", err)
	}

	table, err := readParallelTable(flags.parallels)
	if err != nil {
		log.Fatalf("Failed to load parallel table: %v", err)
	}

	var store services.CatalogStore
	if flags.dryRun {
		store = services.NewMemoryStore()
	} else {
		dbPath := os.Getenv("DB_PATH")
		if dbPath == "" {
			dbPath = "./cardindex.db"
		}
		if err := database.Initialize(dbPath); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		store = database.NewStore(database.GetDB())
	}

	importer := services.NewChecklistImporter(store, services.ImporterConfig{
		Table:       table,
		CaseMode:    services.CaseMode(flags.caseMode),
		Concurrency: flags.concurrency,
	})

	release := models.Release{
		Manufacturer: flags.manufacturer,
		Name:         flags.release,
		Year:         flags.year,
	}

	report, err := importer.Run(context.Background(), release, rows)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	printReport(report, flags.dryRun)
}

// readChecklist parses the CSV into importer rows. Column order is fixed;
// a header row is detected by its first cell and skipped.
func readChecklist(path string) ([]services.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var rows []services.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) < 3 {
			continue
		}
		if len(rows) == 0 && record[0] == "set_name" {
			continue
		}
		row := services.Row{
			SetName:    record[0],
			CardNumber: record[1],
			PlayerName: record[2],
		}
		if len(record) > 3 {
			row.Team = record[3]
		}
		if len(record) > 4 {
			row.Sequence = record[4]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readParallelTable(path string) (*catalog.ParallelTable, error) {
	if path == "" {
		return catalog.NewParallelTable(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var patterns []catalog.ParallelPattern
	if err := json.Unmarshal(data, &patterns); err != nil {
		return nil, err
	}
	return catalog.NewParallelTable(patterns)
}

func printReport(report *services.ImportReport, dryRun bool) {
	if dryRun {
		fmt.Println("Dry run - nothing was persisted")
	}
	fmt.Printf("Sets:  %d created, %d updated\n", report.SetsCreated, report.SetsUpdated)
	fmt.Printf("Cards: %d created, %d updated, %d skipped\n", report.CardsCreated, report.CardsUpdated, report.CardsSkipped)
	if report.ParallelsFailed > 0 {
		fmt.Printf("Parallels failed: %d\n", report.ParallelsFailed)
	}
	for _, w := range report.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	for _, e := range report.Errors {
		fmt.Printf("error: %s %q: %s\n", e.Entity, e.Name, e.Reason)
	}
}
