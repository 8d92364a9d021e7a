// Package picker asks the user for directories.
//
// Dialog opens the platform's native folder chooser, Prompt reads a path on
// the terminal, and Auto uses the dialog when one can be shown and falls
// back to the prompt otherwise. A cancelled selection is reported as an
// empty path with a nil error.
package picker
