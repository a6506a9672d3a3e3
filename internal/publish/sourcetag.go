// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultSourcePrefix names the exporting host in the source tag.
	DefaultSourcePrefix = "solidworks"
	// UnknownVersion replaces the release year when the revision cannot be parsed.
	UnknownVersion = "unknown"

	// revisionYearOffset maps the host's major revision number to its release year
	// (revision 30 shipped as the 2022 release).
	revisionYearOffset = 1992
)

// SourceTag identifies the exporting host and release to the upload service,
// e.g. "solidworks-2022".
type SourceTag string

// String returns the tag text.
func (t SourceTag) String() string { return string(t) }

// ReleaseYear maps a host revision string such as "30.2.1" to its public release
// year. Only the token before the first '.' is considered.
func ReleaseYear(revision string) (int, error) {
	major, _, _ := strings.Cut(revision, ".")
	n, err := strconv.Atoi(strings.TrimSpace(major))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrVersionParseFailed, revision)
	}
	return n + revisionYearOffset, nil
}

// DeriveSourceTag builds the source tag for revision. When the revision cannot
// be parsed the tag ends in UnknownVersion and the parse error is returned
// alongside it; the tag is always usable.
func DeriveSourceTag(prefix, revision string) (SourceTag, error) {
	if prefix == "" {
		prefix = DefaultSourcePrefix
	}
	year, err := ReleaseYear(revision)
	if err != nil {
		return SourceTag(prefix + "-" + UnknownVersion), err
	}
	return SourceTag(prefix + "-" + strconv.Itoa(year)), nil
}
