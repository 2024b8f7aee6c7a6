// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package link

import (
	"fmt"
	"strings"

	"github.com/pdiddy/zotzen/pkg/types"
)

// DescriptionFallback substitutes for an absent or too-short abstract.
const DescriptionFallback = "No description available."

// minAbstractLen is the shortest abstract projected as-is; anything
// shorter gets the fallback.
const minAbstractLen = 3

// Project maps an item onto the deposit metadata schema. The title is
// required and at least one creator must exist; both are preconditions,
// not fixable here. The description falls back to a placeholder rather
// than failing, and gains an "Also see" line when the item carries a
// URL. The publication date is omitted from the payload entirely when
// the item has none.
func Project(item *types.Item) (types.DepositMetadata, error) {
	if strings.TrimSpace(item.Title) == "" {
		return types.DepositMetadata{}, fmt.Errorf("%w: cannot project item %s", ErrMissingTitle, item.Key)
	}
	if len(item.Creators) == 0 {
		return types.DepositMetadata{}, fmt.Errorf("%w: cannot project item %s", ErrMissingCreators, item.Key)
	}

	description := strings.TrimSpace(item.AbstractNote)
	if len(description) < minAbstractLen {
		description = DescriptionFallback
	}
	if item.URL != "" {
		description += "\nAlso see: " + item.URL
	}

	meta := types.DepositMetadata{
		Title:           item.Title,
		Description:     description,
		PublicationDate: item.Date,
	}
	for _, c := range item.Creators {
		meta.Creators = append(meta.Creators, types.DepositCreator{Name: creatorName(c)})
	}
	return meta, nil
}

// creatorName formats one creator: "Family, Given" when structured name
// parts exist, the free-text name otherwise.
func creatorName(c types.Creator) string {
	if c.LastName != "" || c.FirstName != "" {
		return fmt.Sprintf("%s, %s", c.LastName, c.FirstName)
	}
	return c.Name
}

// Matches reports whether projecting meta onto the deposit would change
// nothing. Every projected field must be confirmed by the deposit
// record: title, description, the full creator list in order, and the
// publication date. A report that omits any of them cannot prove a
// no-op, so the sync proceeds.
func Matches(meta types.DepositMetadata, deposit *types.Deposit) bool {
	if deposit.Title == "" || deposit.Title != meta.Title {
		return false
	}
	if deposit.Description == "" || deposit.Description != meta.Description {
		return false
	}
	if len(deposit.Creators) != len(meta.Creators) {
		return false
	}
	for i, c := range meta.Creators {
		if deposit.Creators[i] != c.Name {
			return false
		}
	}
	return deposit.PublicationDate == meta.PublicationDate
}
