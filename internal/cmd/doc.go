// Package cmd provides the command-line interface implementation for macstrip.
//
// The root command is the interactive entry point: it asks for a source
// directory of ZIP archives and an output directory (through a folder
// chooser from the picker package unless --source/--output are given),
// runs the zipclean directory walker and prints a summary table.
//
// Subcommands:
//   - check: report archives that still carry __MACOSX entries or unsafe names
//   - seed: generate sample archives shaped like Finder-made ZIP files
//   - version: print build information
//
// Each command is implemented in its own file with a constructor returning a
// *cobra.Command. Console output goes through logrus, configured per command
// by newLogger.
package cmd
