package crepr

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/teranos/crepr/display"
	"github.com/teranos/crepr/errors"
	"github.com/teranos/crepr/logger"
	"github.com/teranos/crepr/patch"
)

// Mode selects how a plan is presented
type Mode int

const (
	// ModeChanges lists the proposed changes per class
	ModeChanges Mode = iota
	// ModeDiff prints a unified diff of the file
	ModeDiff
	// ModePrint prints the whole modified file
	ModePrint
	// ModeInline writes the modified file in place
	ModeInline
)

func (m Mode) String() string {
	switch m {
	case ModeDiff:
		return "diff"
	case ModePrint:
		return "print"
	case ModeInline:
		return "inline"
	default:
		return "changes"
	}
}

// Emitter presents plans in one mode
type Emitter struct {
	Out  io.Writer
	Mode Mode
}

// Emit presents plan. Empty plans produce no output.
func (e *Emitter) Emit(plan *Plan) error {
	if plan.Empty() {
		return nil
	}

	switch e.Mode {
	case ModeDiff:
		return e.diff(plan)
	case ModePrint:
		return e.print(plan)
	case ModeInline:
		return WriteInline(plan)
	default:
		return e.changes(plan)
	}
}

func (e *Emitter) changes(plan *Plan) error {
	for _, c := range plan.Changes {
		fmt.Fprintf(e.Out, "__repr__ %s for class: %s\n", plan.Action.verb(), c.ClassName)
		fmt.Fprintln(e.Out, strings.Join(c.Lines, "\n"))
		fmt.Fprintln(e.Out)
	}
	return nil
}

func (e *Emitter) diff(plan *Plan) error {
	before := plan.Module.Text.Lines
	after, err := plan.Apply(before)
	if err != nil {
		return err
	}

	out, err := patch.UnifiedDiff(plan.Module.Path, plan.Module.Path, before, after)
	if err != nil {
		return errors.Wrap(err, "failed to render diff")
	}
	for _, line := range strings.SplitAfter(out, "\n") {
		if line == "" {
			continue
		}
		fmt.Fprintln(e.Out, display.DiffLine(strings.TrimSuffix(line, "\n")))
	}
	return nil
}

func (e *Emitter) print(plan *Plan) error {
	after, err := plan.Apply(plan.Module.Text.Lines)
	if err != nil {
		return err
	}
	_, err = e.Out.Write(plan.Module.Text.WithLines(after).Bytes())
	return err
}

// WriteInline applies plan to the file on disk. The file is read again
// first: removals are checked line by line against the fresh text, and
// additions require the file to be unchanged since it was loaded. The new
// content replaces the file through a rename, so a failed write leaves the
// original in place.
func WriteInline(plan *Plan) error {
	path := plan.Module.Path
	fresh, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to re-read %s", path)
	}
	text := patch.Split(fresh)

	if plan.Action == ActionAdd && !text.Equal(plan.Module.Text) {
		return errors.WithHint(
			errors.Wrapf(errors.ErrSourceChanged, "%s", path),
			"run the command again to plan against the current file")
	}

	after, err := plan.Apply(text.Lines)
	if err != nil {
		return errors.Wrapf(err, "%s", path)
	}

	if err := writeFileAtomic(path, text.WithLines(after).Bytes()); err != nil {
		return err
	}
	logger.Named("crepr").Infow("Wrote file",
		logger.FieldFile, path,
		logger.FieldAction, string(plan.Action),
		logger.FieldChanges, len(plan.Changes))
	return nil
}

// writeFileAtomic writes data next to path and renames it over path
func writeFileAtomic(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return errors.Wrapf(err, "failed to write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "failed to replace %s", path)
	}
	return nil
}
