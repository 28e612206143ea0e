// Package versiontag checks that a project's declared version matches a
// release tag and that both follow the PEP-386 version grammar.
package versiontag

import (
	"fmt"
	"regexp"
	"strings"
)

// pep386 is MAJOR.MINOR(.PATCH)*[(a|b|c|rc)N[.N]][.postN][.devN]
var pep386 = regexp.MustCompile(`^(?P<version>\d+\.\d+)(?P<extraversion>(?:\.\d+)*)` +
	`(?:(?P<prerel>[abc]|rc)\d+(?:\.\d+)?)?(?P<postdev>(\.post(?P<post>\d+))?` +
	`(\.dev(?P<dev>\d+))?)?$`)

// IsCompliant reports whether v follows the PEP-386 grammar
func IsCompliant(v string) bool {
	return pep386.MatchString(v)
}

// Parts splits a compliant version into its named components
func Parts(v string) (map[string]string, bool) {
	m := pep386.FindStringSubmatch(v)
	if m == nil {
		return nil, false
	}
	parts := make(map[string]string)
	for i, name := range pep386.SubexpNames() {
		if name != "" && m[i] != "" {
			parts[name] = m[i]
		}
	}
	return parts, true
}

// Result is the outcome of comparing a version with a tag.
// Every failed check adds one problem; an empty list means success.
type Result struct {
	Version string `json:"version"`
	Tag     string `json:"tag"`
	// Parts are the named components of a compliant version
	Parts    map[string]string `json:"parts,omitempty"`
	Problems []string          `json:"problems"`
}

// OK reports whether every check passed
func (r Result) OK() bool {
	return len(r.Problems) == 0
}

// Check compares version and tag textually and validates both against
// the grammar. The checks are independent; all failures are reported.
func Check(version, tag string) Result {
	r := Result{Version: version, Tag: tag, Problems: []string{}}
	if version != tag {
		r.Problems = append(r.Problems, fmt.Sprintf("Version %s does not match tag %s", version, tag))
	}
	if !IsCompliant(tag) {
		r.Problems = append(r.Problems, fmt.Sprintf("Tag name '%s' is not PEP-386 compliant", tag))
	}
	if parts, ok := Parts(version); ok {
		r.Parts = parts
	} else {
		r.Problems = append(r.Problems, fmt.Sprintf("Version %s is not PEP-386 compliant", version))
	}
	return r
}

// StripV removes a single leading "v" or "V" from a tag such as v1.2.3
func StripV(tag string) string {
	if len(tag) > 1 && (tag[0] == 'v' || tag[0] == 'V') && tag[1] >= '0' && tag[1] <= '9' {
		return tag[1:]
	}
	return tag
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
