package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vorteil/vorteil/pkg/elog"
)

var log elog.View

var (
	flagVerbose     bool
	flagDebug       bool
	flagConcurrency int
)

var rootCmd = &cobra.Command{
	Use:   "xfsrecover DEVICE",
	Short: "Recover deleted-but-unoverwritten files from an XFS filesystem",
	Long: `xfsrecover scans the allocation groups of an XFS filesystem image or raw
device, finds inodes that were deleted but whose extents are still marked
free and unoverwritten, and reports what it can recover. It performs no
journal replay and writes nothing back to the device.`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "enable debug output")
	rootCmd.Flags().IntVarP(&flagConcurrency, "concurrency", "c", 0, "number of allocation groups to scan in parallel (0 or 1 = sequential)")

	viper.SetEnvPrefix("xfsrecover")
	viper.AutomaticEnv()

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logger := &elog.CLI{}
		logrus.SetFormatter(logger)
		logrus.SetLevel(logrus.TraceLevel)

		if flagDebug {
			logger.IsDebug = true
			logger.IsVerbose = true
		} else if flagVerbose {
			logger.IsVerbose = true
		}

		log = logger
		return nil
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
