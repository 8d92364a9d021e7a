package zipclean

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// MetadataPrefix marks the macOS resource-fork shadow entries that are
	// moved out of each archive.
	MetadataPrefix = "__MACOSX"

	metadataArchivePrefix = "MACOSX-"
	tempDirPrefix         = "temp_"
)

// Operations recorded on an EntryFailure.
const (
	OpExtract = "extract"
	OpRead    = "read"
	OpPack    = "pack"
)

// Status is the outcome of partitioning a single archive.
type Status int

const (
	StatusProcessed Status = iota
	StatusNoMetadata
	StatusDryRun
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusProcessed:
		return "processed"
	case StatusNoMetadata:
		return "no metadata"
	case StatusDryRun:
		return "dry run"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// EntryFailure records an archive member that could not be handled.
// Processing of the rest of the archive continues past it.
type EntryFailure struct {
	Name string
	Op   string
	Err  error
}

func (f EntryFailure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Op, f.Name, f.Err)
}

func (f EntryFailure) Unwrap() error {
	return f.Err
}

// Result describes what Partition did to one archive.
type Result struct {
	Archive         string
	MetadataArchive string
	Status          Status
	// Moved lists the original names stored in the metadata archive.
	Moved []string
	// Kept lists the original names of the entries written back to Archive.
	Kept         []string
	Failures     []EntryFailure
	MetadataSize int64
	// Err is set when the archive as a whole was skipped or failed.
	Err error
}

// Partitioner moves __MACOSX entries out of ZIP archives.
type Partitioner struct {
	Reporter Reporter
	Logger   logrus.FieldLogger
	// DryRun reports what would be moved without writing anything.
	DryRun bool
}

// NewPartitioner returns a Partitioner that reports to r and logs to l.
// Nil arguments fall back to the standard logrus logger.
func NewPartitioner(r Reporter, l logrus.FieldLogger) *Partitioner {
	if l == nil {
		l = logrus.StandardLogger()
	}
	if r == nil {
		r = NewLogReporter(l)
	}
	return &Partitioner{Reporter: r, Logger: l}
}

func (p *Partitioner) reporter() Reporter {
	if p.Reporter == nil {
		return NewLogReporter(p.logger())
	}
	return p.Reporter
}

func (p *Partitioner) logger() logrus.FieldLogger {
	if p.Logger == nil {
		return logrus.StandardLogger()
	}
	return p.Logger
}

// Stem returns the archive file name without its extension.
func Stem(archivePath string) string {
	base := filepath.Base(archivePath)
	if stem := strings.TrimSuffix(base, filepath.Ext(base)); stem != "" {
		return stem
	}
	return base
}

// MetadataArchivePath is where the __MACOSX entries of archivePath are collected.
func MetadataArchivePath(archivePath, outputDir string) string {
	return filepath.Join(outputDir, metadataArchivePrefix+Stem(archivePath)+".zip")
}

// TempDirPath is the scratch directory used while archivePath is processed.
func TempDirPath(archivePath, outputDir string) string {
	return filepath.Join(outputDir, tempDirPrefix+Stem(archivePath))
}

func isMetadata(name string) bool {
	return strings.HasPrefix(name, MetadataPrefix)
}

type extracted struct {
	file *zip.File
	path string
}

// Partition moves every __MACOSX entry of archivePath into
// outputDir/MACOSX-<stem>.zip and rewrites archivePath in place with the
// remaining entries stored under sanitized names. Archives without any
// __MACOSX entry are left untouched.
//
// Partition never fails outright: archive level problems are described by
// Result.Err and Result.Status, entry level problems by Result.Failures.
func (p *Partitioner) Partition(archivePath, outputDir string) Result {
	rep := p.reporter()
	log := p.logger().WithField("archive", archivePath)
	res := Result{
		Archive:         archivePath,
		MetadataArchive: MetadataArchivePath(archivePath, outputDir),
	}

	info, err := os.Stat(archivePath)
	if err != nil || !info.Mode().IsRegular() {
		res.Status = StatusSkipped
		res.Err = fmt.Errorf("%w: %s", ErrMissingFile, archivePath)
		reportf(rep, "Error: The file %s does not exist.", archivePath)
		return res
	}

	r, err := openArchive(archivePath)
	if err != nil {
		res.Status = StatusSkipped
		res.Err = fmt.Errorf("%s: %w", archivePath, err)
		reportf(rep, "Error: The file %s is not a valid ZIP file.", archivePath)
		log.WithError(err).Debug("Failed to open archive")
		return res
	}
	closeArchive := sync.OnceFunc(func() { closeWithLog(log, r, "archive "+archivePath) })
	defer closeArchive()

	var metadata []*zip.File
	for _, f := range r.File {
		if isMetadata(f.Name) {
			metadata = append(metadata, f)
		}
	}
	if len(metadata) == 0 {
		if !p.DryRun {
			// a temp dir left behind by an interrupted run is still cleared
			_ = os.RemoveAll(TempDirPath(archivePath, outputDir))
		}
		res.Status = StatusNoMetadata
		reportf(rep, "No %s folder found in %s. Skipping extraction.", MetadataPrefix, archivePath)
		return res
	}

	if p.DryRun {
		for _, f := range metadata {
			if isDirName(f.Name) {
				continue
			}
			res.Moved = append(res.Moved, f.Name)
			reportf(rep, "Would move %s to %s", f.Name, res.MetadataArchive)
		}
		res.Status = StatusDryRun
		return res
	}

	tempDir := TempDirPath(archivePath, outputDir)
	defer func() {
		_ = os.RemoveAll(tempDir)
	}()
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		res.Status = StatusFailed
		res.Err = fmt.Errorf("create temp dir %s: %w", tempDir, err)
		reportf(rep, "Error: could not create %s: %v", tempDir, err)
		return res
	}

	files := p.extractMetadata(metadata, tempDir, &res)
	kept := p.collectKept(r.File, &res)
	closeArchive()

	size, err := p.packMetadata(res.MetadataArchive, files, &res)
	if err != nil {
		res.Status = StatusFailed
		res.Err = fmt.Errorf("write %s: %w", res.MetadataArchive, err)
		reportf(rep, "Error: could not write %s: %v", res.MetadataArchive, err)
		return res
	}
	res.MetadataSize = size

	if err := rewriteArchive(archivePath, info.Mode().Perm(), kept); err != nil {
		res.Status = StatusFailed
		res.Err = fmt.Errorf("rewrite %s: %w", archivePath, err)
		reportf(rep, "Error: could not rewrite %s: %v", archivePath, err)
		return res
	}

	res.Status = StatusProcessed
	log.WithFields(logrus.Fields{
		"moved":    len(res.Moved),
		"kept":     len(res.Kept),
		"failures": len(res.Failures),
		"size":     humanize.Bytes(uint64(size)),
	}).Debug("Archive partitioned")
	reportf(rep, "Processed %s: %s files moved to %s, original ZIP updated.", archivePath, MetadataPrefix, res.MetadataArchive)
	return res
}

// extractMetadata writes every non-directory metadata entry below tempDir
// under its sanitized path.
func (p *Partitioner) extractMetadata(entries []*zip.File, tempDir string, res *Result) []extracted {
	var out []extracted
	for _, f := range entries {
		if isDirName(f.Name) {
			continue
		}
		dest, err := extractEntry(f, tempDir)
		if err != nil {
			res.Failures = append(res.Failures, EntryFailure{Name: f.Name, Op: OpExtract, Err: err})
			reportf(p.reporter(), "Skipping problematic file: %s - %v", f.Name, err)
			continue
		}
		p.logger().WithFields(logrus.Fields{"entry": f.Name, "path": dest}).Debug("Extracted metadata entry")
		out = append(out, extracted{file: f, path: dest})
	}
	return out
}

func extractEntry(f *zip.File, tempDir string) (string, error) {
	dest, err := confine(tempDir, SanitizePath(f.Name))
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", err
	}
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	w, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(w, rc); err != nil {
		w.Close()
		return "", err
	}
	return dest, w.Close()
}

// confine joins name onto root and refuses results outside root.
func confine(root, name string) (string, error) {
	dest := filepath.Join(root, filepath.FromSlash(name))
	rel, err := filepath.Rel(root, dest)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return dest, nil
}

// collectKept reads every non-metadata entry into memory, keeping the
// archive order. A repeated name keeps its first position and last content.
func (p *Partitioner) collectKept(entries []*zip.File, res *Result) []Entry {
	var kept []Entry
	index := make(map[string]int)
	for _, f := range entries {
		if isMetadata(f.Name) {
			continue
		}
		var data []byte
		if !isDirName(f.Name) {
			var err error
			data, err = readEntry(f)
			if err != nil {
				res.Failures = append(res.Failures, EntryFailure{Name: f.Name, Op: OpRead, Err: err})
				reportf(p.reporter(), "Error reading %s from ZIP: %v", f.Name, err)
				continue
			}
		}
		e := Entry{Name: f.Name, Data: data, Modified: f.Modified}
		if i, ok := index[f.Name]; ok {
			kept[i] = e
			continue
		}
		index[f.Name] = len(kept)
		kept = append(kept, e)
	}
	for _, e := range kept {
		res.Kept = append(res.Kept, e.Name)
	}
	return kept
}

// packMetadata stores each extracted entry that is still present under its
// original archive name and returns the size of the written archive.
func (p *Partitioner) packMetadata(dest string, files []extracted, res *Result) (int64, error) {
	out, err := os.Create(dest)
	if err != nil {
		return 0, err
	}
	zw := newArchiveWriter(out)
	fail := func(err error) (int64, error) {
		_ = zw.Close()
		_ = out.Close()
		_ = os.Remove(dest)
		return 0, err
	}

	for _, x := range files {
		data, err := os.ReadFile(x.path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			res.Failures = append(res.Failures, EntryFailure{Name: x.file.Name, Op: OpPack, Err: err})
			reportf(p.reporter(), "Skipping problematic file: %s - %v", x.file.Name, err)
			continue
		}
		if err := addEntry(zw, x.file.Name, x.file.Modified, bytes.NewReader(data)); err != nil {
			return fail(err)
		}
		res.Moved = append(res.Moved, x.file.Name)
	}

	if err := zw.Close(); err != nil {
		return fail(err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dest)
		return 0, err
	}
	info, err := os.Stat(dest)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// rewriteArchive replaces archivePath with an archive holding kept under
// sanitized names. The new archive is written next to the original and
// renamed over it, so a failure leaves the original intact.
func rewriteArchive(archivePath string, perm os.FileMode, kept []Entry) error {
	tmp := fmt.Sprintf("%s.%s.tmp", archivePath, uuid.NewString())
	out, err := os.OpenFile(tmp, os.O_RDWR|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmp)
		}
	}()

	stored := make([]Entry, len(kept))
	for i, e := range kept {
		e.Name = SanitizePath(e.Name)
		stored[i] = e
	}
	if err := WriteArchive(out, stored); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp, archivePath); err != nil {
		return err
	}
	committed = true
	return nil
}
