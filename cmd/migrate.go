package cmd

import (
	"context"
	"log"

	"github.com/frahmantamala/hr-payroll/internal/core/database"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run db migration files under db/migrations directory",
	}
	migrateRollback bool
	migrateAuto     bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.Flags().BoolVar(&migrateAuto, "auto", false, "create the schema from the models instead of sql files (sqlite/mysql local runs)")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "db/migrations", "sql migrations directory")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	if migrateAuto {
		db, err := database.Open(cfg.Database, nil)
		if err != nil {
			log.Fatalf("failed to open DB: %v\n", err)
		}
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("auto migrate: %v", err)
		}
		log.Println("schema created from models")
		return nil
	}

	// The sql files are written for postgres.
	db, err := goose.OpenDBWithDriver(sqlxDriverName(cfg.Database.Driver), cfg.Database.Source)
	if err != nil {
		log.Fatalf("goose: failed to open DB: %v\n", err)
	}
	defer db.Close()
	goose.SetTableName("schema_migrations")

	command := "up"
	if migrateRollback {
		command = "down"
	}
	if err := goose.RunContext(ctx, command, db, migrateDir); err != nil {
		log.Fatalf("goose %s: %v", command, err)
	}

	return nil
}
