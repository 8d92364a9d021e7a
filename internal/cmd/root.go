package cmd

import (
	"github.com/dendrascience/macosx-strip/picker"
	"github.com/dendrascience/macosx-strip/version"
	"github.com/spf13/cobra"
)

type options struct {
	source     string
	output     string
	pickerKind string
	dryRun     bool
	verbose    bool
}

// NewRootCmd creates and returns the root cobra command for the macstrip CLI.
// Run without flags it asks for both directories interactively.
func NewRootCmd() *cobra.Command {
	return newRootCmd(nil)
}

// newRootCmd builds the root command. A nil picker is resolved from the
// --picker flag when the command runs.
func newRootCmd(p picker.Picker) *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "macstrip",
		Short: "macstrip - move __MACOSX metadata out of ZIP archives",
		Long: `macstrip removes the __MACOSX folder that macOS adds to ZIP archives.

For every .zip file in the source directory, the __MACOSX entries are packed
into MACOSX-<name>.zip in the output directory and the original archive is
rewritten in place without them. Remaining entry names are made safe for
every filesystem: the characters <>:"|?* become underscores and reserved
device names such as CON or LPT1 get a _safe suffix.

Without --source and --output a folder chooser is shown for each directory.`,
		Version:      version.GetFullVersion(),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStrip(cmd, opts, p)
		},
	}

	rootCmd.Flags().StringVarP(&opts.source, "source", "s", "", "Directory containing the ZIP files (skips the folder chooser)")
	rootCmd.Flags().StringVarP(&opts.output, "output", "o", "", "Directory for the MACOSX-<name>.zip archives (skips the folder chooser)")
	rootCmd.Flags().StringVar(&opts.pickerKind, "picker", picker.KindAuto, "Folder chooser to use: auto, dialog or prompt")
	rootCmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show what would be moved without making changes")
	rootCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")

	groupArchives := "archives"
	groupUtilities := "utilities"

	rootCmd.AddGroup(&cobra.Group{
		ID:    groupArchives,
		Title: "Archive Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	checkCmd := NewCheckCmd()
	seedCmd := NewSeedCmd()
	versionCmd := NewVersionCmd()

	checkCmd.GroupID = groupArchives
	seedCmd.GroupID = groupUtilities
	versionCmd.GroupID = groupUtilities

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}
