package zipclean

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ArchiveExt is the (case-sensitive) suffix of the files ProcessDirectory picks up.
const ArchiveExt = ".zip"

// ProcessDirectory partitions every *.zip file directly inside sourceDir,
// one at a time, writing metadata archives to outputDir. A failing archive
// does not stop the walk; its outcome is in the returned results.
func (p *Partitioner) ProcessDirectory(sourceDir, outputDir string) ([]Result, error) {
	info, err := os.Stat(sourceDir)
	if err != nil || !info.IsDir() {
		reportf(p.reporter(), "Error: The directory %s does not exist.", sourceDir)
		return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, sourceDir)
	}

	dirents, err := os.ReadDir(sourceDir)
	if err != nil {
		reportf(p.reporter(), "Error: could not list %s: %v", sourceDir, err)
		return nil, fmt.Errorf("read directory %s: %w", sourceDir, err)
	}

	var archives []string
	for _, d := range dirents {
		if strings.HasSuffix(d.Name(), ArchiveExt) {
			archives = append(archives, filepath.Join(sourceDir, d.Name()))
		}
	}
	p.logger().WithField("source", sourceDir).Debugf("Found %d archives", len(archives))

	results := make([]Result, 0, len(archives))
	for _, archive := range archives {
		results = append(results, p.Partition(archive, outputDir))
	}
	return results, nil
}
