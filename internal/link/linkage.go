// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package link implements the pairing core: computing the linkage state
// between a Zotero item and a Zenodo deposit, the transitions that
// create or repair a pair, the metadata projection from item to deposit,
// and the attachment push.
//
// Linkage is never stored. It is re-derived on every invocation from the
// two remote records: the item side stores the deposit's DOI inside the
// free-text extra field, the deposit side stores the item's select link
// as its related identifier. Both must agree for a consistent link.
package link

import (
	"errors"
	"regexp"
	"strings"
)

// Sentinel errors for precondition and linkage failures. Callers branch
// with errors.Is; the messages wrapped around them carry the detail.
var (
	// ErrUnlinked: the item carries no deposit DOI.
	ErrUnlinked = errors.New("item has no deposit DOI")

	// ErrLinkMismatch: the deposit's back-reference does not point at
	// the item.
	ErrLinkMismatch = errors.New("deposit back-reference does not match item")

	// ErrMissingTitle: the item has no title to project.
	ErrMissingTitle = errors.New("item has no title")

	// ErrMissingCreators: the item has no creators to project.
	ErrMissingCreators = errors.New("item has no creators")
)

// State is the computed relationship between an item and its deposit.
type State int

const (
	// Unlinked: no DOI token on the item side.
	Unlinked State = iota

	// LinkedConsistent: DOI present and the deposit points back at the
	// item's select link.
	LinkedConsistent

	// LinkedInconsistent: DOI present but the deposit's back-reference
	// is absent or points elsewhere.
	LinkedInconsistent
)

func (s State) String() string {
	switch s {
	case LinkedConsistent:
		return "linked"
	case LinkedInconsistent:
		return "inconsistent"
	default:
		return "unlinked"
	}
}

// doiPattern matches Zenodo DOIs embedded anywhere in the extra field.
var doiPattern = regexp.MustCompile(`10\.5281/zenodo\.[0-9]+`)

// ExtractDOI returns the first Zenodo DOI token found in the extra text,
// or "" when none is present. Surrounding text is arbitrary.
func ExtractDOI(extra string) string {
	return doiPattern.FindString(extra)
}

// AppendDOI records doi in the extra text as a "DOI: <doi>" line,
// preserving whatever is already there. Extra is never truncated by this
// system.
func AppendDOI(extra, doi string) string {
	line := "DOI: " + doi
	if strings.TrimSpace(extra) == "" {
		return line
	}
	return strings.TrimRight(extra, "\n") + "\n" + line
}

// Compute derives the linkage state. relatedIdentifier is the deposit's
// back-reference, selectLink the item's canonical select link; extra is
// the item's free-text field holding the DOI, if any.
func Compute(extra, relatedIdentifier, selectLink string) State {
	if ExtractDOI(extra) == "" {
		return Unlinked
	}
	if relatedIdentifier != "" && relatedIdentifier == selectLink {
		return LinkedConsistent
	}
	return LinkedInconsistent
}
