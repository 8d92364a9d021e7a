package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/dendrascience/macosx-strip/picker"
	"github.com/dendrascience/macosx-strip/zipclean"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArchive(t *testing.T, path string, names ...string) {
	t.Helper()
	entries := make([]zipclean.Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, zipclean.Entry{Name: name, Data: []byte("content of " + name)})
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, zipclean.WriteArchive(f, entries))
	require.NoError(t, f.Close())
}

func execute(t *testing.T, p picker.Picker, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd(p)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRoot_CancelledSelection(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
	}{
		{name: "both cancelled", paths: nil},
		{name: "output cancelled", paths: []string{t.TempDir()}},
		{name: "source cancelled", paths: []string{"", t.TempDir()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &picker.Static{Paths: tt.paths}
			stdout, stderr, err := execute(t, p)

			require.NoError(t, err)
			assert.Contains(t, stdout, "Select the directory containing the ZIP files.")
			assert.Contains(t, stdout, "Select the output directory for extracted files.")
			assert.Equal(t, []string{sourceTitle, outputTitle}, p.Titles)
			assert.Contains(t, stderr, "Operation cancelled.")
		})
	}
}

func TestRoot_CancelledSelectionTouchesNothing(t *testing.T) {
	src := t.TempDir()
	archive := filepath.Join(src, "a.zip")
	writeArchive(t, archive, "__MACOSX/._a", "a")
	before, err := os.ReadFile(archive)
	require.NoError(t, err)

	_, _, err = execute(t, &picker.Static{Paths: []string{src}})
	require.NoError(t, err)

	after, err := os.ReadFile(archive)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	entries, err := os.ReadDir(src)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRoot_PickedDirectories(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeArchive(t, filepath.Join(src, "photos.zip"), "__MACOSX/._img.jpg", "img.jpg")

	p := &picker.Static{Paths: []string{src, out}}
	stdout, stderr, err := execute(t, p)

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "MACOSX-photos.zip"))
	assert.Contains(t, stderr, "Processed "+filepath.Join(src, "photos.zip"))
	assert.Contains(t, stdout, "photos.zip")
	assert.Contains(t, stdout, "1 archives: 1 processed, 0 without metadata, 0 skipped, 0 failed")
}

func TestRoot_FlagsSkipPicker(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeArchive(t, filepath.Join(src, "docs.zip"), "__MACOSX/._r.txt", "r.txt")

	p := &picker.Static{}
	stdout, _, err := execute(t, p, "--source", src, "--output", out)

	require.NoError(t, err)
	assert.Empty(t, p.Titles)
	assert.NotContains(t, stdout, "Select the")
	assert.FileExists(t, filepath.Join(out, "MACOSX-docs.zip"))
}

func TestRoot_OneFlagOnePick(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeArchive(t, filepath.Join(src, "docs.zip"), "__MACOSX/._r.txt", "r.txt")

	p := &picker.Static{Paths: []string{out}}
	_, _, err := execute(t, p, "-s", src)

	require.NoError(t, err)
	assert.Equal(t, []string{outputTitle}, p.Titles)
	assert.FileExists(t, filepath.Join(out, "MACOSX-docs.zip"))
}

func TestRoot_DryRun(t *testing.T) {
	src := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	archive := filepath.Join(src, "docs.zip")
	writeArchive(t, archive, "__MACOSX/._r.txt", "r.txt")
	before, err := os.ReadFile(archive)
	require.NoError(t, err)

	stdout, stderr, err := execute(t, &picker.Static{}, "-s", src, "-o", out, "--dry-run")

	require.NoError(t, err)
	assert.Contains(t, stderr, "Would move __MACOSX/._r.txt")
	assert.Contains(t, stdout, "dry run")
	assert.NoDirExists(t, out)
	after, err := os.ReadFile(archive)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRoot_MissingSourceDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	stdout, stderr, err := execute(t, &picker.Static{}, "-s", missing, "-o", t.TempDir())

	require.NoError(t, err)
	assert.Contains(t, stderr, "Error: The directory "+missing+" does not exist.")
	assert.NotContains(t, stdout, "archives:")
}

func TestRoot_NoArchives(t *testing.T) {
	stdout, _, err := execute(t, &picker.Static{}, "-s", t.TempDir(), "-o", t.TempDir())

	require.NoError(t, err)
	assert.Contains(t, stdout, "No ZIP files found.")
}

func TestRoot_UnknownPicker(t *testing.T) {
	_, _, err := execute(t, nil, "--picker", "gtk")
	assert.ErrorIs(t, err, picker.ErrUnknownKind)
}

func TestRoot_RejectsArguments(t *testing.T) {
	_, _, err := execute(t, &picker.Static{}, "some-dir")
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	stdout, _, err := execute(t, &picker.Static{}, "version")

	require.NoError(t, err)
	assert.Contains(t, stdout, "macstrip version ")
	assert.Contains(t, stdout, "Package: macosx-strip")
}
