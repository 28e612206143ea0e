package crepr

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/teranos/crepr/display"
	"github.com/teranos/crepr/errors"
	"github.com/teranos/crepr/logger"
	"github.com/teranos/crepr/pysrc"
)

// ErrNoModules is returned when none of the requested files could be loaded
var ErrNoModules = errors.New("no file could be loaded")

// ErrFailedFiles is returned when at least one loaded file could not be patched
var ErrFailedFiles = errors.New("some files could not be processed")

// Runner processes a batch of files one after another. A file that fails
// to load is reported and skipped.
type Runner struct {
	Out     io.Writer
	Err     io.Writer
	Mode    Mode
	Options Options
}

// NewRunner returns a runner writing to stdout and stderr
func NewRunner(mode Mode, opts Options) *Runner {
	return &Runner{Out: os.Stdout, Err: os.Stderr, Mode: mode, Options: opts}
}

// Summary counts what a batch did
type Summary struct {
	Files  int `json:"files"`
	Loaded int `json:"loaded"`
	// Failed counts files that did not load
	Failed int `json:"failed"`
	// Rejected counts loaded files whose changes could not be applied
	Rejected int `json:"rejected"`
	Changes  int `json:"changes"`
}

// Add generates __repr__ methods for every file
func (r *Runner) Add(ctx context.Context, files []string) (Summary, error) {
	return r.run(ctx, files, func(mod *pysrc.Module) *Plan {
		return PlanAdd(mod, r.Options)
	})
}

// Remove deletes generated __repr__ methods from every file
func (r *Runner) Remove(ctx context.Context, files []string) (Summary, error) {
	return r.run(ctx, files, PlanRemove)
}

func (r *Runner) run(ctx context.Context, files []string, plan func(*pysrc.Module) *Plan) (Summary, error) {
	log := logger.Named("crepr")
	emitter := &Emitter{Out: r.Out, Mode: r.Mode}
	summary := Summary{Files: len(files)}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		start := time.Now()
		mod, err := pysrc.Load(ctx, path)
		if err != nil {
			if !errors.IsLoadError(err) {
				return summary, err
			}
			r.report(err)
			summary.Failed++
			continue
		}
		summary.Loaded++

		p := plan(mod)
		if err := emitter.Emit(p); err != nil {
			r.report(err)
			summary.Rejected++
			continue
		}
		summary.Changes += len(p.Changes)

		log.Infow("Processed file",
			logger.FieldFile, path,
			logger.FieldAction, string(p.Action),
			logger.FieldMode, r.Mode.String(),
			logger.FieldChanges, len(p.Changes),
			logger.FieldDuration, time.Since(start).Milliseconds())
	}

	if summary.Rejected > 0 {
		display.Warning(r.Err, "%d of %d files left unchanged", summary.Rejected, summary.Files)
	}
	return summary, summary.err()
}

// err maps a finished batch to the command's outcome
func (s Summary) err() error {
	switch {
	case s.Files > 0 && s.Loaded == 0:
		return errors.Wrapf(ErrNoModules, "%d of %d files", s.Failed, s.Files)
	case s.Rejected > 0:
		return errors.Wrapf(ErrFailedFiles, "%d of %d files", s.Rejected, s.Files)
	}
	return nil
}

// ReportMissing lists eligible classes without __repr__, as text lines
// ("file: Class") or as JSON.
func (r *Runner) ReportMissing(ctx context.Context, files []string, asJSON bool) ([]MissingClass, error) {
	missing := []MissingClass{}
	failed := 0

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return missing, err
		}
		found, err := r.missingIn(ctx, path)
		if err != nil {
			if !errors.IsLoadError(err) {
				return missing, err
			}
			r.report(err)
			failed++
			continue
		}
		missing = append(missing, found...)
	}

	if asJSON {
		if err := display.OutputJSON(r.Out, missing); err != nil {
			return missing, err
		}
	} else {
		for _, m := range missing {
			fmt.Fprintf(r.Out, "%s: %s\n", m.File, m.Class)
		}
	}

	if len(files) > 0 && failed == len(files) {
		return missing, errors.Wrapf(ErrNoModules, "%d of %d files", failed, len(files))
	}
	return missing, nil
}

func (r *Runner) missingIn(ctx context.Context, path string) ([]MissingClass, error) {
	mod, err := pysrc.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return Missing(mod), nil
}

// report prints a per-file failure in red, followed by its details and hints
func (r *Runner) report(err error) {
	display.Failure(r.Err, "%v", err)
	for _, detail := range errors.GetAllDetails(err) {
		for _, line := range strings.Split(detail, "\n") {
			fmt.Fprintf(r.Err, "  %s\n", line)
		}
	}
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(r.Err, "  hint: %s\n", hint)
	}
	logger.Named("crepr").Debugw("File failed", logger.FieldError, fmt.Sprintf("%+v", err))
}
