package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dendrascience/macosx-strip/zipclean"
	"github.com/spf13/cobra"
)

// errArchivesNeedWork makes check exit non-zero when any archive still
// needs processing.
var errArchivesNeedWork = errors.New("archives still need processing")

// NewCheckCmd creates and returns the check subcommand for the macstrip CLI.
// It reports archives that still carry __MACOSX entries or unsafe names.
func NewCheckCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "check DIR",
		Short: "Check ZIP archives for leftover __MACOSX entries",
		Long: `Check every .zip file directly inside DIR without changing anything.

An archive needs processing when it still holds entries under __MACOSX/.
Entry names containing <>:"|?* or a reserved device name are listed too;
they are renamed only in archives that also carry metadata. The command
exits non-zero when any archive needs processing or cannot be read.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List offending entries")

	return cmd
}

func runCheck(cmd *cobra.Command, dir string, verbose bool) error {
	out := cmd.OutOrStdout()
	log := newLogger(cmd.ErrOrStderr(), verbose)

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", zipclean.ErrDirectoryNotFound, dir)
	}
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var checked, dirty int
	for _, d := range dirents {
		if !strings.HasSuffix(d.Name(), zipclean.ArchiveExt) {
			continue
		}
		checked++
		archive := filepath.Join(dir, d.Name())

		ins, err := zipclean.Inspect(archive)
		if err != nil {
			dirty++
			log.WithError(err).Errorf("Failed to inspect %s", archive)
			continue
		}
		if ins.Clean() {
			switch {
			case len(ins.Unsafe) > 0:
				fmt.Fprintf(out, "%s: no metadata, %d unsafe names left as is\n", archive, len(ins.Unsafe))
				printUnsafe(out, ins.Unsafe, verbose)
			case verbose:
				fmt.Fprintf(out, "%s is clean\n", archive)
			}
			continue
		}

		dirty++
		fmt.Fprintf(out, "%s: %d metadata entries, %d unsafe names\n", archive, len(ins.Metadata), len(ins.Unsafe))
		if verbose {
			for _, name := range ins.Metadata {
				fmt.Fprintf(out, "  - metadata: %s\n", name)
			}
		}
		printUnsafe(out, ins.Unsafe, verbose)
	}

	fmt.Fprintf(out, "\nCheck complete:\n")
	fmt.Fprintf(out, "  Archives checked: %d\n", checked)
	fmt.Fprintf(out, "  Need processing: %d\n", dirty)

	if dirty > 0 {
		return errArchivesNeedWork
	}
	return nil
}

func printUnsafe(w io.Writer, names []string, verbose bool) {
	if !verbose {
		return
	}
	for _, name := range names {
		fmt.Fprintf(w, "  - unsafe:   %s -> %s\n", name, zipclean.SanitizePath(name))
	}
}
