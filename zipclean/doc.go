// Package zipclean strips macOS metadata out of ZIP archives.
//
// Archives created by the macOS Finder carry a "__MACOSX" tree of
// AppleDouble shadow files next to the real content. A Partitioner moves
// those entries into a sibling archive named MACOSX-<stem>.zip in an output
// directory and rewrites the source archive with only the remaining
// entries, stored under names that are safe on every filesystem (see
// Sanitize).
//
// Processing is strictly sequential. Each archive is read fully into memory,
// its metadata entries are staged in a temp_<stem> directory under the
// output directory, and that directory is removed before Partition returns.
// The source archive is replaced by writing a new file beside it and
// renaming it into place.
//
// Errors never escape a Partition call. Archive level problems (missing
// file, invalid container) are reported through Result.Err and wrap the
// sentinel errors in errors.go; entry level problems are collected in
// Result.Failures and processing continues with the next entry.
//
// Human-readable progress goes to a Reporter; LogReporter sends it to
// logrus and Recorder keeps it in memory.
package zipclean
