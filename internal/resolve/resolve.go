// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve parses user-supplied reference tokens into typed item
// references. Three surface forms are accepted, tried in order: a
// zotero://select deep link, a compound "groupID:itemKey" key, and a bare
// item key scoped to the personal library.
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/zotzen/pkg/types"
)

// ErrInvalidReference reports a malformed reference token. The user must
// retry with corrected input; nothing downstream runs.
var ErrInvalidReference = errors.New("invalid item reference")

const (
	// selectMarker identifies the deep-link form.
	selectMarker = "://select"

	selectPrefix = "zotero://select"
	apiPrefix    = "https://api.zotero.org"
)

// Parse resolves a reference token into an ItemReference.
//
// Deep links have the shape
// zotero://select/{users|groups}/{libraryID}/items/{itemKey}; split on
// "/" that is segments 3, 4 and 6, and anything shorter than 7 segments
// is rejected. Compound keys are "groupID:itemKey". A bare token is an
// item key in the personal library.
func Parse(token string) (types.ItemReference, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return types.ItemReference{}, fmt.Errorf("%w: empty token", ErrInvalidReference)
	}

	if strings.Contains(token, selectMarker) {
		return parseSelectLink(token)
	}

	if left, right, ok := strings.Cut(token, ":"); ok {
		if left == "" || right == "" {
			return types.ItemReference{}, fmt.Errorf("%w: compound key %q needs both group and item", ErrInvalidReference, token)
		}
		return types.ItemReference{
			Kind:      types.LibraryGroup,
			LibraryID: left,
			ItemKey:   right,
		}, nil
	}

	return types.ItemReference{
		Kind:    types.LibraryUser,
		ItemKey: token,
	}, nil
}

func parseSelectLink(token string) (types.ItemReference, error) {
	segments := strings.Split(token, "/")
	if len(segments) < 7 {
		return types.ItemReference{}, fmt.Errorf("%w: deep link %q has %d segments, need 7", ErrInvalidReference, token, len(segments))
	}

	ref := types.ItemReference{ItemKey: segments[6]}
	switch segments[3] {
	case "groups":
		ref.Kind = types.LibraryGroup
		ref.LibraryID = segments[4]
	case "users":
		ref.Kind = types.LibraryUser
		ref.LibraryID = segments[4]
	default:
		return types.ItemReference{}, fmt.Errorf("%w: deep link scope %q is neither users nor groups", ErrInvalidReference, segments[3])
	}

	if ref.ItemKey == "" {
		return types.ItemReference{}, fmt.Errorf("%w: deep link %q has no item key", ErrInvalidReference, token)
	}
	return ref, nil
}

// SelectLink builds the canonical zotero://select deep link for ref.
// The personal library without a known ID has no canonical form; those
// items get their select link derived from the API self link instead
// (see FromAPILink).
func SelectLink(ref types.ItemReference) string {
	scope := "users"
	if ref.Kind == types.LibraryGroup {
		scope = "groups"
	}
	return fmt.Sprintf("%s/%s/%s/items/%s", selectPrefix, scope, ref.LibraryID, ref.ItemKey)
}

// FromAPILink derives a select link from an item's API self href by
// swapping the API prefix for the zotero://select scheme.
func FromAPILink(href string) string {
	return strings.Replace(href, apiPrefix, selectPrefix, 1)
}
