package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/dendrascience/macosx-strip/zipclean"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintSummary(t *testing.T) {
	results := []zipclean.Result{
		{
			Archive:         "/in/a.zip",
			MetadataArchive: "/out/MACOSX-a.zip",
			Status:          zipclean.StatusProcessed,
			Moved:           []string{"__MACOSX/._x"},
			Kept:            []string{"x"},
			MetadataSize:    2048,
		},
		{Archive: "/in/b.zip", Status: zipclean.StatusNoMetadata, Kept: []string{"y"}},
		{Archive: "/in/c.zip", Status: zipclean.StatusSkipped, Err: zipclean.ErrInvalidArchive},
		{Archive: "/in/d.zip", Status: zipclean.StatusFailed, Err: errors.New("disk full")},
	}

	var buf bytes.Buffer
	require.NoError(t, printSummary(&buf, results))
	out := buf.String()

	assert.Contains(t, out, "ARCHIVE")
	assert.Contains(t, out, "MACOSX-a.zip (2.0 kB)")
	assert.Contains(t, out, "no metadata")
	assert.Contains(t, out, "skipped")
	assert.Contains(t, out, "failed")
	assert.NotContains(t, out, "/in/")
	assert.Contains(t, out, "4 archives: 1 processed, 1 without metadata, 1 skipped, 1 failed")
}

func TestPrintSummary_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printSummary(&buf, nil))
	assert.Equal(t, "No ZIP files found.\n", buf.String())
}
