package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/dendrascience/macosx-strip/picker"
	"github.com/dendrascience/macosx-strip/zipclean"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	sourceTitle = "Select ZIP Files Directory"
	outputTitle = "Select Output Directory"
)

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		PadLevelText:     true,
	})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func runStrip(cmd *cobra.Command, opts options, p picker.Picker) error {
	out := cmd.OutOrStdout()
	log := newLogger(cmd.ErrOrStderr(), opts.verbose)
	rep := zipclean.NewLogReporter(log)

	if p == nil {
		var err error
		p, err = picker.New(opts.pickerKind, log)
		if err != nil {
			return err
		}
	}

	source := opts.source
	if source == "" {
		fmt.Fprintln(out, "Select the directory containing the ZIP files.")
		dir, err := p.PickDirectory(sourceTitle)
		if err != nil {
			return fmt.Errorf("failed to select source directory: %w", err)
		}
		source = dir
	}

	output := opts.output
	if output == "" {
		fmt.Fprintln(out, "Select the output directory for extracted files.")
		dir, err := p.PickDirectory(outputTitle)
		if err != nil {
			return fmt.Errorf("failed to select output directory: %w", err)
		}
		output = dir
	}

	if source == "" || output == "" {
		rep.Report("Operation cancelled.")
		return nil
	}

	log.WithFields(logrus.Fields{
		"source":  source,
		"output":  output,
		"dry_run": opts.dryRun,
	}).Debug("Processing directory")

	partitioner := zipclean.NewPartitioner(rep, log)
	partitioner.DryRun = opts.dryRun

	results, err := partitioner.ProcessDirectory(source, output)
	if errors.Is(err, zipclean.ErrDirectoryNotFound) {
		// already reported
		return nil
	}
	if err != nil {
		return err
	}

	return printSummary(out, results)
}
