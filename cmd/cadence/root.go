package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cadence/adapters/store"
	"cadence/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	dbPath    string
	logLevel  string
	logFormat string
}

var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "Outbound prospecting decision pipeline",
	Long: "Cadence turns CRM records and cached research into scored, evidence-cited\n" +
		"outreach: research artifacts, priority tiers, message variants, quality\n" +
		"gating, and a feedback loop over the reply log.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logging.Init(logging.ParseLevel(rootFlags.logLevel), rootFlags.logFormat)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.dbPath, "db", store.DefaultDBPath, "Store DB path")
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(touchCmd)
	rootCmd.AddCommand(rescoreCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(replyCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(smokeCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
