package versiontag

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/crepr/errors"
)

// ErrNoVersion indicates the file declares no version
var ErrNoVersion = errors.New("no version found")

var (
	// Version: 1.2.3 (PKG-INFO, METADATA)
	metadataLine = regexp.MustCompile(`^Version:\s*(\S+)\s*$`)
	// __version__ = "1.2.3", optionally annotated
	assignLine = regexp.MustCompile(`^__version__\s*(?::[^=]+)?=\s*(.+?)\s*(?:#.*)?$`)
)

// pyproject is the part of pyproject.toml that can carry a version
type pyproject struct {
	Project struct {
		Version string `toml:"version"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Version string `toml:"version"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// ReadVersion returns the version declared in path: a "Version:" metadata
// line, a module-level __version__ assignment, or the project version of a
// pyproject.toml.
func ReadVersion(path string) (string, error) {
	if filepath.Base(path) == "pyproject.toml" {
		return readPyproject(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if m := metadataLine.FindStringSubmatch(line); m != nil {
			return m[1], nil
		}
		if m := assignLine.FindStringSubmatch(line); m != nil {
			value := unquote(m[1])
			if value == m[1] {
				return "", errors.Newf("__version__ in %s is not a string", path)
			}
			return value, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}
	return "", errors.Wrapf(ErrNoVersion, "%s", path)
}

func readPyproject(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to open %s", path)
	}

	var doc pyproject
	if err := toml.Unmarshal(data, &doc); err != nil {
		return "", errors.Wrapf(err, "failed to parse %s", path)
	}
	switch {
	case doc.Project.Version != "":
		return doc.Project.Version, nil
	case doc.Tool.Poetry.Version != "":
		return doc.Tool.Poetry.Version, nil
	}
	return "", errors.WithHint(
		errors.Wrapf(ErrNoVersion, "%s", path),
		"versions declared as dynamic are not supported; pass the built PKG-INFO instead")
}

// DefaultFile returns PKG-INFO inside the single *.egg-info directory of dir
func DefaultFile(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.egg-info"))
	if err != nil {
		return "", errors.Wrap(err, "failed to scan for egg-info")
	}

	var dirs []string
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.IsDir() {
			dirs = append(dirs, m)
		}
	}
	sort.Strings(dirs)

	switch len(dirs) {
	case 0:
		return "", errors.WithHint(
			errors.Newf("no *.egg-info directory in %s", dir),
			"build the package first or pass the file that declares the version")
	case 1:
		return filepath.Join(dirs[0], "PKG-INFO"), nil
	default:
		return "", errors.WithHintf(
			errors.Newf("%d *.egg-info directories in %s", len(dirs), dir),
			"pass the file explicitly: %s", strings.Join(dirs, ", "))
	}
}
