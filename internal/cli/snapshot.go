package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/LeJamon/goMarketd/internal/snapshot"
	"github.com/LeJamon/goMarketd/internal/storage/database"
	"github.com/LeJamon/goMarketd/internal/storage/database/backends"
	"github.com/spf13/cobra"
)

var snapshotDB string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Export or import a compressed copy of a database",
	Long: `Snapshots copy every key of one database (state or events) into a
compressed, checksummed stream. Stop the daemon first: the embedded
stores allow a single process at a time.`,
}

var snapshotExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write a snapshot of the configured database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db database.DB) error {
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			w := bufio.NewWriter(f)
			stats, err := snapshot.Export(cmd.Context(), db, w)
			if err == nil {
				err = w.Flush()
			}
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			printStats(cmd, "exported", stats)
			return nil
		})
	},
}

var snapshotImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load a snapshot into the configured database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db database.DB) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			stats, err := snapshot.Import(cmd.Context(), db, bufio.NewReader(f))
			if err != nil {
				return err
			}
			printStats(cmd, "imported", stats)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotExportCmd, snapshotImportCmd)
	snapshotCmd.PersistentFlags().StringVar(&snapshotDB, "db", "state", "database to copy: state or events")
}

// withDB opens the configured database named by --db for fn.
func withDB(fn func(db database.DB) error) error {
	if snapshotDB != "state" && snapshotDB != "events" {
		return fmt.Errorf("unknown database %q", snapshotDB)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.Backend == backends.Memory {
		return fmt.Errorf("the memory backend has nothing to snapshot")
	}
	mgr, err := backends.NewManager(cfg.Database.Backend, cfg.Database.Path, cfg.Database.CacheSize)
	if err != nil {
		return err
	}
	defer mgr.Close()

	db, err := mgr.OpenDB(snapshotDB)
	if err != nil {
		return err
	}
	return fn(db)
}

func printStats(cmd *cobra.Command, verb string, s snapshot.Stats) {
	ratio := 0.0
	if s.RawBytes > 0 {
		ratio = float64(s.StoredBytes) / float64(s.RawBytes)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d entries in %d blocks (%d -> %d bytes, %.2f)\n",
		verb, s.Entries, s.Blocks, s.RawBytes, s.StoredBytes, ratio)
}
