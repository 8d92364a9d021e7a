package zipclean

import (
	"fmt"
	"os"
)

// Inspection lists what Partition would change in an archive.
type Inspection struct {
	Archive string
	// Metadata holds the entries carrying the __MACOSX prefix.
	Metadata []string
	// Unsafe holds the remaining entries whose names SanitizePath changes.
	// They are only renamed when the archive also carries metadata.
	Unsafe []string
	Total  int
}

// Clean reports whether Partition would leave the archive untouched.
func (i Inspection) Clean() bool {
	return len(i.Metadata) == 0
}

// Inspect reads the entry list of archivePath without modifying anything.
func Inspect(archivePath string) (Inspection, error) {
	ins := Inspection{Archive: archivePath}
	info, err := os.Stat(archivePath)
	if err != nil || !info.Mode().IsRegular() {
		return ins, fmt.Errorf("%w: %s", ErrMissingFile, archivePath)
	}
	r, err := openArchive(archivePath)
	if err != nil {
		return ins, fmt.Errorf("%s: %w", archivePath, err)
	}
	defer r.Close()

	ins.Total = len(r.File)
	for _, f := range r.File {
		switch {
		case isMetadata(f.Name):
			ins.Metadata = append(ins.Metadata, f.Name)
		case SanitizePath(f.Name) != f.Name:
			ins.Unsafe = append(ins.Unsafe, f.Name)
		}
	}
	return ins, nil
}
