// Package compat decides whether files written by a given producer need
// read-side workarounds for known encoder defects.
//
// Producers record a free-form "created by" string in file metadata. The
// parser in this package turns that string into a structured identifier, and
// the policy functions map the identifier (or its absence) to a workaround
// decision. Parsing and policy are total: malformed input never propagates
// as a failure, it resolves to the conservative decision instead.
package compat

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformedVersion is returned when a created-by string or a semantic
// version does not match the expected shape. Callers must treat it as
// "unknown producer", not as a failure.
var ErrMalformedVersion = errors.New("malformed version string")

// ParsedVersion identifies the producer that wrote a file.
type ParsedVersion struct {
	// Application is the producer name, e.g. "parquet-mr" or "impala".
	Application string
	// Version is the producer's version as written, e.g. "1.8.0-SNAPSHOT".
	// It may be empty when the producer did not record one.
	Version string
	// AppBuildHash is the opaque build tag, e.g. a git hash. May be empty.
	AppBuildHash string
}

func (v ParsedVersion) String() string {
	return fmt.Sprintf("%s version %s (build %s)", v.Application, v.Version, v.AppBuildHash)
}

// SemanticVersion returns the parsed form of the Version field.
func (v ParsedVersion) SemanticVersion() (SemanticVersion, error) {
	return ParseSemanticVersion(v.Version)
}

// Created-by strings have the shape:
//
//	<application> version <version> (build <hash>)
//
// where the version and build segments are optional in the wild. Version
// and hash contents are kept opaque here, SemanticVersion parsing is a
// separate step.
var createdByPattern = regexp.MustCompile(`^(.+?) version ?(.*?) ?\(build ?(.*?)\)$`)

// ParseVersion parses a created-by string into a structured identifier.
// It returns ErrMalformedVersion when the string does not match the
// expected shape; it never panics on any input.
func ParseVersion(createdBy string) (ParsedVersion, error) {
	m := createdByPattern.FindStringSubmatch(strings.TrimSpace(createdBy))
	if m == nil {
		return ParsedVersion{}, fmt.Errorf("%w: %q", ErrMalformedVersion, createdBy)
	}
	return ParsedVersion{
		Application:  strings.TrimSpace(m[1]),
		Version:      strings.TrimSpace(m[2]),
		AppBuildHash: strings.TrimSpace(m[3]),
	}, nil
}

// SemanticVersion is an ordered (major, minor, patch) triple with an
// optional pre-release tag. Ordering is lexicographic on the triple, with a
// pre-release of a version sorting strictly before the release of the same
// version. The contents of the pre-release tag beyond its presence do not
// participate in ordering.
type SemanticVersion struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease string
}

func (v SemanticVersion) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	return s
}

// Compare returns -1, 0, or +1 depending on whether v sorts before, equal
// to, or after other.
func (v SemanticVersion) Compare(other SemanticVersion) int {
	if c := cmpInt(v.Major, other.Major); c != 0 {
		return c
	}
	if c := cmpInt(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := cmpInt(v.Patch, other.Patch); c != 0 {
		return c
	}
	return cmpInt(boolToInt(v.Prerelease == ""), boolToInt(other.Prerelease == ""))
}

// ParseSemanticVersion parses strings of the shape
// "<major>.<minor>.<patch>[-<prerelease>]".
func ParseSemanticVersion(s string) (SemanticVersion, error) {
	version, prerelease, _ := strings.Cut(s, "-")
	parts := strings.Split(version, ".")
	if len(parts) != 3 {
		return SemanticVersion{}, fmt.Errorf("%w: %q", ErrMalformedVersion, s)
	}
	numbers := [3]int{}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return SemanticVersion{}, fmt.Errorf("%w: %q", ErrMalformedVersion, s)
		}
		numbers[i] = n
	}
	return SemanticVersion{
		Major:      numbers[0],
		Minor:      numbers[1],
		Patch:      numbers[2],
		Prerelease: prerelease,
	}, nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return +1
	default:
		return 0
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
