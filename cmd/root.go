/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/svgaudit/internal/ops"
	"github.com/fulmenhq/svgaudit/pkg/buildinfo"
	"github.com/fulmenhq/svgaudit/pkg/exitcode"
	"github.com/fulmenhq/svgaudit/pkg/logger"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "svgaudit",
		Short: "Audit an SVG asset catalog against its usage map",
		Long: `Svgaudit reconciles a folder of illustration assets with the JSON usage map
that places them on pages: which files are missing from the numbered sequence,
which are never referenced, and which are drawn at the wrong size.

Examples:
   svgaudit search leave approved   # Filter the usage map
   svgaudit usage bg12.svg          # Where is an asset used?
   svgaudit audit --fail-on missing # Report and fail on gaps
   svgaudit gallery --usage unused  # Browse assets with filters`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().Bool("no-op", false, "Run without writing any file")
	cmd.PersistentFlags().String("config", "", "Config file (default: svgaudit.yaml in ., $HOME or ~/.svgaudit/config)")
	cmd.PersistentFlags().String("images", "", "Image folder (default img/)")
	cmd.PersistentFlags().String("data", "", "Usage map JSON file (default data/image-data.json)")
	cmd.PersistentFlags().String("file-list", "", "Generated file list, relative to the image folder (default file-list.json)")

	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("svgaudit {{.Version}}\n")

	// Grouped help by command group (Browse → Audit → Support)
	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		if c != c.Root() {
			c.Println(c.UsageString())
			return
		}
		c.Println(c.Long)
		c.Println()
		for _, group := range ops.Groups {
			c.Println(group.Title() + ":")
			for _, sub := range c.Commands() {
				if ops.GroupOf(sub) == group {
					c.Printf("  %-12s %s\n", sub.Name(), sub.Short)
				}
			}
			c.Println()
		}
		c.Println("Flags:")
		c.Print(c.LocalFlags().FlagUsages())
	})

	return cmd
}

// subcommands lists the command factories in registration order.
var subcommands = []func() *cobra.Command{
	newSearchCommand,
	newTreeCommand,
	newUsageCommand,
	newSnippetCommand,
	newAuditCommand,
	newGalleryCommand,
	newEditCommand,
	newFilelistCommand,
	newVersionCommand,
}

// registerSubcommands adds fresh instances of all subcommands to cmd.
func registerSubcommands(cmd *cobra.Command) []*cobra.Command {
	added := make([]*cobra.Command, 0, len(subcommands))
	for _, build := range subcommands {
		sub := build()
		cmd.AddCommand(sub)
		added = append(added, sub)
	}
	return added
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute runs the root command and exits with the code carried by the error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command execution failed", logger.Err(err))
		os.Exit(exitcode.Of(err))
	}
}

func init() {
	for _, sub := range registerSubcommands(rootCmd) {
		if err := ops.Global().Add(sub); err != nil {
			panic(err)
		}
	}
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")
	noOp, _ := cmd.Flags().GetBool("no-op")

	logLevel, ok := logger.ParseLevel(logLevelStr)

	config := logger.Config{
		Level:     logLevel,
		UseColor:  !noColor && os.Getenv("NO_COLOR") == "",
		JSON:      jsonLogs,
		Component: "svgaudit",
		NoOp:      noOp,
	}
	if err := logger.Initialize(config); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		return
	}
	if !ok {
		logger.Warn("Unknown log level, using info", logger.String("level", logLevelStr))
	}
}
