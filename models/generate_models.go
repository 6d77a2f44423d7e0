package models

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

/*
Query generation and column drift report.

GENERATE_MODELS=true writes typed query helpers for every model into ./generated and prints the
drift report. GENERATE_COLUMN_REPORT=true prints only the report:

	=== COLUMN DRIFT REPORT ===
	--- Table: projects ---
	Columns in database but not in model:
	  - legacy_slug
	Columns in model but not in database:
	  (none)
*/

// All lists every persisted model. Migrations, the generator and the drift report share it.
func All() []any {
	return []any{&Project{}, &Certification{}, &Contact{}}
}

func GenerateModels(db *gorm.DB) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)

	if _, err := GenerateColumnReport(db); err != nil {
		return err
	}

	g.Execute()
	log.Info().Msg("model generation complete")
	return nil
}

// TableDrift lists the column differences for one table
type TableDrift struct {
	Table        string
	MissingModel []string // in the database, not in the model
	MissingTable []string // in the model, not in the database
}

// GenerateColumnReport compares each model's columns against the live schema and prints the result.
func GenerateColumnReport(db *gorm.DB) ([]TableDrift, error) {
	fmt.Println("=== COLUMN DRIFT REPORT ===")

	var report []TableDrift
	cache := &sync.Map{}
	for _, model := range All() {
		s, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("parse schema for %T: %w", model, err)
		}

		fmt.Printf("\n--- Table: %s ---\n", s.Table)
		if !db.Migrator().HasTable(s.Table) {
			fmt.Println("Table does not exist yet (will be created by migrations)")
			continue
		}

		columnTypes, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			return nil, fmt.Errorf("read columns for %s: %w", s.Table, err)
		}
		dbColumns := make([]string, 0, len(columnTypes))
		for _, ct := range columnTypes {
			dbColumns = append(dbColumns, ct.Name())
		}

		drift := TableDrift{
			Table:        s.Table,
			MissingModel: difference(dbColumns, s.DBNames),
			MissingTable: difference(s.DBNames, dbColumns),
		}
		report = append(report, drift)

		printColumns("Columns in database but not in model:", drift.MissingModel)
		printColumns("Columns in model but not in database:", drift.MissingTable)
	}

	return report, nil
}

func printColumns(header string, cols []string) {
	fmt.Println(header)
	if len(cols) == 0 {
		fmt.Println("  (none)")
		return
	}
	for _, c := range cols {
		fmt.Printf("  - %s\n", c)
	}
}

// difference returns the members of a that are not in b, sorted
func difference(a, b []string) []string {
	seen := make(map[string]struct{}, len(b))
	for _, v := range b {
		seen[v] = struct{}{}
	}
	var out []string
	for _, v := range a {
		if _, ok := seen[v]; !ok {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
