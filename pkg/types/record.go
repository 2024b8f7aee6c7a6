// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the record and configuration types shared across
// the zotzen pipeline: the Zotero item as seen by the citation gateway,
// the Zenodo deposit as seen by the archive gateway, and the reference
// forms that identify an item.
package types

import "strings"

// LibraryKind distinguishes a personal Zotero library from a group library.
type LibraryKind int

const (
	LibraryUser LibraryKind = iota
	LibraryGroup
)

func (k LibraryKind) String() string {
	if k == LibraryGroup {
		return "group"
	}
	return "user"
}

// ItemReference identifies a Zotero item within a library scope. Exactly
// one scope applies: LibraryUser items carry no library ID (the default
// personal library), LibraryGroup items carry the numeric group ID.
type ItemReference struct {
	Kind      LibraryKind `json:"kind" yaml:"kind"`
	LibraryID string      `json:"library_id,omitempty" yaml:"library_id,omitempty"`
	ItemKey   string      `json:"item_key" yaml:"item_key"`
}

// Creator is one entry in an item's ordered creator list. Structured
// names carry FirstName/LastName; institutional or single-field names
// carry Name alone.
type Creator struct {
	CreatorType string `json:"creatorType,omitempty" yaml:"creator_type,omitempty"`
	FirstName   string `json:"firstName,omitempty" yaml:"first_name,omitempty"`
	LastName    string `json:"lastName,omitempty" yaml:"last_name,omitempty"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Item is a Zotero bibliographic record. Extra is an unstructured text
// field; it is the only place the paired deposit's DOI is stored.
// SelectLink is derived from the API self link at fetch time, never
// stored on the Zotero side.
type Item struct {
	Key          string    `json:"key" yaml:"key"`
	LibraryID    string    `json:"library_id" yaml:"library_id"`
	Title        string    `json:"title" yaml:"title"`
	AbstractNote string    `json:"abstractNote,omitempty" yaml:"abstract,omitempty"`
	Date         string    `json:"date,omitempty" yaml:"date,omitempty"`
	URL          string    `json:"url,omitempty" yaml:"url,omitempty"`
	Extra        string    `json:"extra,omitempty" yaml:"extra,omitempty"`
	Creators     []Creator `json:"creators,omitempty" yaml:"creators,omitempty"`
	SelfLink     string    `json:"self_link,omitempty" yaml:"self_link,omitempty"`
	SelectLink   string    `json:"select_link,omitempty" yaml:"select_link,omitempty"`
}

// ID returns the item's compound identifier ("libraryID:key"), the form
// Zotero tooling prints for group items.
func (i *Item) ID() string {
	if i.LibraryID == "" {
		return i.Key
	}
	return i.LibraryID + ":" + i.Key
}

// Attachment is a child attachment of an item, in the enumeration order
// returned by the citation gateway.
type Attachment struct {
	Key         string `json:"key" yaml:"key"`
	Filename    string `json:"filename" yaml:"filename"`
	ContentType string `json:"contentType,omitempty" yaml:"content_type,omitempty"`
}

// Extension returns the attachment's lowercased filename extension
// without the leading dot, or "" when the filename has none.
func (a Attachment) Extension() string {
	idx := strings.LastIndex(a.Filename, ".")
	if idx < 0 || idx == len(a.Filename)-1 {
		return ""
	}
	return strings.ToLower(a.Filename[idx+1:])
}

// Deposit is a Zenodo deposit record. RelatedIdentifier holds the
// back-reference to the paired item's select link; it is set once at
// creation and is the only linkage state stored on the Zenodo side.
type Deposit struct {
	RecordID          string   `json:"record_id" yaml:"record_id"`
	DOI               string   `json:"doi" yaml:"doi"`
	Title             string   `json:"title,omitempty" yaml:"title,omitempty"`
	Description       string   `json:"description,omitempty" yaml:"description,omitempty"`
	Creators          []string `json:"creators,omitempty" yaml:"creators,omitempty"`
	PublicationDate   string   `json:"publication_date,omitempty" yaml:"publication_date,omitempty"`
	State             string   `json:"state,omitempty" yaml:"state,omitempty"`
	Published         bool     `json:"published" yaml:"published"`
	URL               string   `json:"url,omitempty" yaml:"url,omitempty"`
	RelatedIdentifier string   `json:"related_identifier,omitempty" yaml:"related_identifier,omitempty"`
}

// Writable reports whether the deposit still accepts metadata and file
// writes. Published deposits are read-only.
func (d *Deposit) Writable() bool {
	return !d.Published
}

// DepositCreator is a creator entry in the Zenodo metadata schema, a
// single formatted name ("Family, Given" for structured names).
type DepositCreator struct {
	Name string `json:"name" yaml:"name"`
}

// DepositMetadata is the metadata payload projected from an Item onto a
// deposit. PublicationDate is omitted from the payload entirely when the
// item has no date.
type DepositMetadata struct {
	Title           string           `json:"title" yaml:"title"`
	Description     string           `json:"description" yaml:"description"`
	Creators        []DepositCreator `json:"creators" yaml:"creators"`
	PublicationDate string           `json:"publication_date,omitempty" yaml:"publication_date,omitempty"`
}
