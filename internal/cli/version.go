package cli

import (
	"fmt"
	"runtime"

	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display version information for marketd including the Go version and supported transaction types.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "marketd version %s\n", Version)
		fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
		fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		fmt.Fprintf(out, "Transaction types: %d\n", len(tx.TypeNames()))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
