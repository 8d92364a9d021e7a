package cmd

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/dendrascience/macosx-strip/zipclean"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewSeedCmd creates and returns the seed subcommand for the macstrip CLI.
// It generates sample archives shaped like the ones the macOS Finder produces.
func NewSeedCmd() *cobra.Command {
	var (
		outputPath   string
		archiveCount int
		fileCount    int
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate sample ZIP archives carrying __MACOSX metadata",
		Long: `Generate sample ZIP archives for trying out macstrip.

Files are laid out in a YYYY/MM/DD directory structure. Each file gets an
AppleDouble shadow under __MACOSX/, the way the macOS Finder compresses
folders. Every fourth archive is created without metadata, and the first
archive also holds entries whose names need sanitizing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cmd.ErrOrStderr(), verbose)
			if err := os.MkdirAll(outputPath, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			for i := range archiveCount {
				archive := filepath.Join(outputPath, fmt.Sprintf("archive-%03d.zip", i))
				entries := seedEntries(fileCount, i%4 != 3, i == 0)
				if err := writeSeedArchive(archive, entries); err != nil {
					return err
				}
				log.WithField("archive", archive).Debugf("Created archive with %d entries", len(entries))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d archives in %s\n", archiveCount, outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to output directory (required)")
	cmd.Flags().IntVarP(&archiveCount, "archives", "a", 4, "Number of archives to generate")
	cmd.Flags().IntVarP(&fileCount, "count", "c", 10, "Number of files per archive")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cmd.MarkFlagRequired("output")

	return cmd
}

// appleDoubleHeader returns the fixed part of an AppleDouble file with no entries.
func appleDoubleHeader() []byte {
	buf := make([]byte, 26)
	binary.BigEndian.PutUint32(buf[0:], 0x00051607) // magic
	binary.BigEndian.PutUint32(buf[4:], 0x00020000) // version
	copy(buf[8:24], "Mac OS X        ")
	return buf
}

// seedEntries builds the entry list of one sample archive. Directory
// markers precede their contents, and metadata follows the real files.
func seedEntries(fileCount int, withMetadata, withUnsafeNames bool) []zipclean.Entry {
	baseTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var files, metadata []zipclean.Entry
	fileDirs := make(map[string]bool)
	metadataDirs := make(map[string]bool)

	addDir := func(list *[]zipclean.Entry, seen map[string]bool, dir string, modified time.Time) {
		if seen[dir] {
			return
		}
		seen[dir] = true
		*list = append(*list, zipclean.Entry{Name: dir + "/", Modified: modified})
	}

	if withMetadata {
		addDir(&metadata, metadataDirs, zipclean.MetadataPrefix, baseTime)
	}

	for range fileCount {
		fileTime := baseTime.AddDate(0, 0, rand.IntN(365)).Add(time.Duration(rand.IntN(86400)) * time.Second)
		year := fmt.Sprintf("%04d", fileTime.Year())
		month := path.Join(year, fmt.Sprintf("%02d", fileTime.Month()))
		day := path.Join(month, fmt.Sprintf("%02d", fileTime.Day()))

		ext := ".json"
		if rand.IntN(2) == 1 {
			ext = ".txt"
		}
		name := path.Join(day, fmt.Sprintf("%08x%s", rand.Uint32(), ext))

		for _, dir := range []string{year, month, day} {
			addDir(&files, fileDirs, dir, fileTime)
		}
		files = append(files, zipclean.Entry{Name: name, Data: []byte(uuid.NewString() + "\n"), Modified: fileTime})

		if withMetadata {
			for _, dir := range []string{year, month, day} {
				addDir(&metadata, metadataDirs, path.Join(zipclean.MetadataPrefix, dir), fileTime)
			}
			shadow := path.Join(zipclean.MetadataPrefix, day, "._"+path.Base(name))
			metadata = append(metadata, zipclean.Entry{Name: shadow, Data: appleDoubleHeader(), Modified: fileTime})
		}
	}

	if withUnsafeNames {
		for _, name := range []string{"notes:draft.txt", "con", "what?.md"} {
			files = append(files, zipclean.Entry{Name: name, Data: []byte(uuid.NewString() + "\n"), Modified: baseTime})
		}
	}

	return append(files, metadata...)
}

func writeSeedArchive(archive string, entries []zipclean.Entry) error {
	f, err := os.Create(archive)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", archive, err)
	}
	if err := zipclean.WriteArchive(f, entries); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", archive, err)
	}
	return f.Close()
}
