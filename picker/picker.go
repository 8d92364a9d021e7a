package picker

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/ncruces/zenity"
	"github.com/sirupsen/logrus"
)

// ErrUnknownKind is returned by New for an unsupported picker kind.
var ErrUnknownKind = errors.New("unknown picker kind")

// Picker kinds accepted by New.
const (
	KindAuto   = "auto"
	KindDialog = "dialog"
	KindPrompt = "prompt"
)

// Picker asks the user for a directory. An empty path with a nil error
// means the user cancelled.
type Picker interface {
	PickDirectory(title string) (string, error)
}

// New returns the picker for kind.
func New(kind string, log logrus.FieldLogger) (Picker, error) {
	switch kind {
	case KindAuto, "":
		return Auto{Logger: log}, nil
	case KindDialog:
		return Dialog{}, nil
	case KindPrompt:
		return Prompt{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// Dialog shows the native folder chooser.
type Dialog struct{}

func (Dialog) PickDirectory(title string) (string, error) {
	path, err := zenity.SelectFile(zenity.Title(title), zenity.Directory())
	if errors.Is(err, zenity.ErrCanceled) {
		return "", nil
	}
	return path, err
}

// IsAborted returns true if the error indicates the user left the prompt
// with Ctrl+C, Ctrl+D or end of input.
func IsAborted(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort)
}

// Prompt reads a directory path from the terminal.
type Prompt struct{}

func (Prompt) PickDirectory(title string) (string, error) {
	prompt := promptui.Prompt{
		Label:    title + " (empty to cancel)",
		Validate: validateDirectory,
	}

	result, err := prompt.Run()
	if IsAborted(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}

// validateDirectory accepts an empty answer, a missing path, or an
// existing directory.
func validateDirectory(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	info, err := os.Stat(input)
	if err != nil {
		return nil
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", input)
	}
	return nil
}

// Auto uses Dialog and falls back to Prompt when no dialog can be shown,
// e.g. on a headless machine.
type Auto struct {
	Dialog   Picker
	Fallback Picker
	Logger   logrus.FieldLogger
}

func (a Auto) PickDirectory(title string) (string, error) {
	dialog, fallback := a.Dialog, a.Fallback
	if dialog == nil {
		dialog = Dialog{}
	}
	if fallback == nil {
		fallback = Prompt{}
	}

	path, err := dialog.PickDirectory(title)
	if err == nil {
		return path, nil
	}
	if a.Logger != nil {
		a.Logger.WithError(err).Debug("Folder dialog unavailable, falling back to terminal prompt")
	}
	return fallback.PickDirectory(title)
}

// Static answers each call with the next entry of Paths, and with an
// empty path once they run out. Titles records every title asked for.
type Static struct {
	Paths  []string
	Titles []string
}

func (s *Static) PickDirectory(title string) (string, error) {
	s.Titles = append(s.Titles, title)
	if len(s.Paths) == 0 {
		return "", nil
	}
	path := s.Paths[0]
	s.Paths = s.Paths[1:]
	return path, nil
}
