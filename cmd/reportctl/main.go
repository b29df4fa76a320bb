// path: cmd/reportctl/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cidadeperfeita/database"
	"cidadeperfeita/flatlog"
	"cidadeperfeita/maintenance"
	"cidadeperfeita/storage"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reportctl",
		Short: "Operational tools for the report store",
		Long: `reportctl runs the offline batch jobs against the report database:
lifting legacy flat-log entries into it, and purging it.

Do not run two purges or two syncs against the same database at once.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(syncCmd())
	rootCmd.AddCommand(purgeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openAll wires the shared collaborators the jobs need.
func openAll() (*gorm.DB, *database.ReportStore, *storage.FileStore, *zap.SugaredLogger, error) {
	_ = godotenv.Load()

	zl, err := zap.NewDevelopment()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	zlog := zl.Sugar()

	db, err := database.Connect(zlog)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	store := database.NewReportStore(db, zlog)
	if err := store.EnsureSchema(context.Background()); err != nil {
		_ = database.Close(db)
		return nil, nil, nil, nil, err
	}
	files, err := storage.NewFileStore(getenv("UPLOAD_DIR", "uploads"), zlog)
	if err != nil {
		_ = database.Close(db)
		return nil, nil, nil, nil, err
	}
	return db, store, files, zlog, nil
}

func syncCmd() *cobra.Command {
	var logPath string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Migrate flat-log entries into the report database",
		Long: `One-way migration of the legacy reports.json file into the database.
Safe to run multiple times (idempotent): entries already present are skipped
by their original id, and entries whose photo is gone are never migrated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, store, files, zlog, err := openAll()
			if err != nil {
				return err
			}
			defer database.Close(db)

			syncer := &maintenance.Syncer{
				Log:   flatlog.New(logPath),
				Store: store,
				Files: files,
				Out:   zlog,
			}
			stats, err := syncer.Run(cmd.Context())
			if err != nil {
				return err
			}

			color.New(color.Bold).Println("Sync finished")
			fmt.Printf("  scanned:        %d\n", stats.Scanned)
			color.Green("  migrated:       %d", stats.Migrated)
			fmt.Printf("  already synced: %d\n", stats.SkippedExisting)
			fmt.Printf("  no id:          %d\n", stats.SkippedNoID)
			fmt.Printf("  photo missing:  %d\n", stats.SkippedMissingPhoto)
			if stats.Failed > 0 {
				color.Red("  failed:         %d", stats.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&logPath, "file", "reports.json", "flat log file to migrate")
	return cmd
}

func purgeCmd() *cobra.Command {
	var (
		dryRun      bool
		yes         bool
		archive     bool
		deleteFiles bool
		archiveDir  string
	)

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every report row, optionally archiving or deleting photos",
		Long: `Deletes all rows in one transaction. Photos are handled afterwards,
outside the transaction: left in place by default, moved with --archive, or
removed with --delete-files. Requires --yes to mutate anything.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if archive && deleteFiles {
				return fmt.Errorf("--archive and --delete-files are mutually exclusive")
			}

			db, store, files, zlog, err := openAll()
			if err != nil {
				return err
			}
			defer database.Close(db)

			opts := maintenance.PurgeOptions{
				DryRun:     dryRun,
				Confirm:    yes,
				ArchiveDir: archiveDir,
			}
			switch {
			case archive:
				opts.Mode = maintenance.ArchiveFiles
			case deleteFiles:
				opts.Mode = maintenance.DeleteFiles
			}

			stats, err := maintenance.Purge(cmd.Context(), store, files, opts, zlog)
			if errors.Is(err, maintenance.ErrNotConfirmed) {
				fmt.Printf("%d reports would be deleted. Re-run with --yes to proceed.\n", stats.TotalBefore)
				return nil
			}
			if err != nil {
				return err
			}

			if stats.DryRun {
				color.New(color.Bold).Println("DRY RUN — nothing was changed")
				fmt.Printf("  rows that would be deleted: %d\n", stats.TotalBefore)
				for _, p := range stats.Sample {
					fmt.Printf("  would affect: %s\n", p)
				}
				return nil
			}

			color.New(color.Bold).Println("Purge finished")
			color.Green("  rows deleted:   %d", stats.RowsDeleted)
			if archive {
				fmt.Printf("  files archived: %d -> %s\n", stats.Archived, archiveDir)
			}
			if deleteFiles {
				fmt.Printf("  files deleted:  %d\n", stats.FilesDeleted)
			}
			if stats.FileFailures > 0 {
				color.Red("  file failures:  %d (rows stay deleted)", stats.FileFailures)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be deleted, change nothing")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	cmd.Flags().BoolVar(&archive, "archive", false, "move photos into the archive directory")
	cmd.Flags().BoolVar(&deleteFiles, "delete-files", false, "remove photos from disk")
	cmd.Flags().StringVar(&archiveDir, "archive-dir", "uploads-archive", "destination for --archive")
	return cmd
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
