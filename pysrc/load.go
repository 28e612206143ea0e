package pysrc

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/teranos/crepr/errors"
	"github.com/teranos/crepr/logger"
)

// sourceSuffixes are the extensions Python can import a module from source
var sourceSuffixes = map[string]bool{
	".py":  true,
	".pyw": true,
}

// Load reads and parses the Python file at path.
//
// Failures are one of the load kinds in the errors package:
// ErrFileNotFound, ErrNotImportable or ErrSyntax.
func Load(ctx context.Context, path string) (*Module, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewLoadError(errors.ErrFileNotFound, path, err)
		}
		return nil, errors.NewLoadError(errors.ErrNotImportable, path, err)
	}
	if info.IsDir() {
		return nil, errors.WithHint(
			errors.NewLoadError(errors.ErrNotImportable, path, nil),
			"pass the .py files inside the directory instead")
	}
	if !sourceSuffixes[strings.ToLower(filepath.Ext(path))] {
		return nil, errors.WithHintf(
			errors.NewLoadError(errors.ErrNotImportable, path, nil),
			"%q is not a Python source extension", filepath.Ext(path))
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewLoadError(errors.ErrNotImportable, path, err)
	}
	return Parse(ctx, path, src)
}

// Parse parses src as the contents of path.
func Parse(ctx context.Context, path string, src []byte) (*Module, error) {
	log := logger.Named("pysrc")
	start := time.Now()

	if !utf8.Valid(src) {
		return nil, errors.WithHint(
			errors.NewLoadError(errors.ErrNotImportable, path, nil),
			"the file is not valid UTF-8")
	}

	mod, err := parse(ctx, path, src)
	if err != nil {
		return nil, err
	}

	log.Debugw("parsed module",
		logger.FieldFile, path,
		logger.FieldCount, len(mod.Classes),
		logger.FieldDuration, time.Since(start).Milliseconds())
	return mod, nil
}
