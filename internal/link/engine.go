// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package link

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/zotzen/internal/zenodo"
	"github.com/pdiddy/zotzen/pkg/types"
)

// CitationGateway is the citation-side boundary the engine drives.
type CitationGateway interface {
	Item(ref types.ItemReference) (*types.Item, error)
	CreateFromTemplate(title, group string) (*types.Item, error)
	CreateFromFile(path, group string) (*types.Item, error)
	Update(ref types.ItemReference, fields map[string]any) error
	Attachments(ref types.ItemReference) ([]types.Attachment, error)
	AttachmentBytes(ref types.ItemReference, key string) ([]byte, error)
}

// ArchiveGateway is the archive-side boundary the engine drives.
type ArchiveGateway interface {
	Deposit(id string) (*types.Deposit, error)
	Create(template *zenodo.DepositTemplate) (*types.Deposit, error)
	UpdateMetadata(id string, meta types.DepositMetadata) error
	SetBackReference(id, selectLink string) error
	Publish(id string) error
	UploadFile(id, name string, data []byte) error
}

// Engine sequences linkage decisions over the two gateways. One logical
// thread per invocation, one outstanding request at a time, no retries:
// every operation re-derives the linkage from the two remote records
// before acting, so re-running a failed invocation is always safe.
type Engine struct {
	Citations    CitationGateway
	Archive      ArchiveGateway
	TemplatePath string

	// Out receives progress and report lines. In supplies operator
	// answers for the interactive confirmation.
	Out io.Writer
	In  io.Reader
}

// CreatePair creates a fresh item/deposit pair: a new Zotero item (from
// the helper's report template with title applied, or verbatim from
// jsonPath), a new deposit whose back-reference is set to the item's
// select link at creation time, and the deposit's DOI written back into
// the item's extra field. A non-empty group creates the item in that
// group library.
func (e *Engine) CreatePair(title, jsonPath, group string) (*types.Item, *types.Deposit, error) {
	var item *types.Item
	var err error
	if jsonPath != "" {
		item, err = e.Citations.CreateFromFile(jsonPath, group)
	} else {
		item, err = e.Citations.CreateFromTemplate(title, group)
	}
	if err != nil {
		return nil, nil, err
	}

	deposit, err := e.createDeposit(item)
	if err != nil {
		return item, nil, err
	}

	ref := types.ItemReference{Kind: types.LibraryUser, LibraryID: item.LibraryID, ItemKey: item.Key}
	if group != "" {
		ref.Kind = types.LibraryGroup
		if ref.LibraryID == "" {
			ref.LibraryID = group
		}
	}
	if err := e.Citations.Update(ref, map[string]any{"extra": AppendDOI(item.Extra, deposit.DOI)}); err != nil {
		return item, deposit, err
	}

	fmt.Fprintln(e.Out, "Item successfully created: ")
	fmt.Fprintf(e.Out, "Zotero ID: %s\n", item.ID())
	fmt.Fprintf(e.Out, "Zotero link: %s\n", item.SelfLink)
	fmt.Fprintf(e.Out, "Zotero select link: %s\n", item.SelectLink)
	fmt.Fprintf(e.Out, "Zenodo RecordId: %s\n", deposit.RecordID)
	fmt.Fprintf(e.Out, "Zenodo DOI: %s\n", deposit.DOI)
	fmt.Fprintf(e.Out, "Zenodo deposit link: %s\n", deposit.URL)

	return item, deposit, nil
}

// createDeposit instantiates the deposit template for item: title and
// description from the item (description falls back to the title, the
// original pairing convention) and the back-reference slot pointed at
// the item's select link.
func (e *Engine) createDeposit(item *types.Item) (*types.Deposit, error) {
	if strings.TrimSpace(item.Title) == "" {
		return nil, fmt.Errorf("%w: cannot create a deposit for item %s", ErrMissingTitle, item.Key)
	}

	template, err := zenodo.LoadTemplate(e.TemplatePath)
	if err != nil {
		return nil, err
	}
	template.Title = item.Title
	if template.Description == "" {
		template.Description = item.Title
	}
	template.SetBackReference(item.SelectLink)

	return e.Archive.Create(template)
}

// EnsureDOI is the obtain-or-create transition. An existing DOI on the
// item always wins: it is reported and nothing mutates. Otherwise a new
// deposit is created from the template and its DOI written into the
// item's extra field.
func (e *Engine) EnsureDOI(ref types.ItemReference, item *types.Item) (string, error) {
	if doi := ExtractDOI(item.Extra); doi != "" {
		fmt.Fprintf(e.Out, "Item already has a DOI: %s\n", doi)
		return doi, nil
	}

	deposit, err := e.createDeposit(item)
	if err != nil {
		return "", err
	}
	if err := e.Citations.Update(ref, map[string]any{"extra": AppendDOI(item.Extra, deposit.DOI)}); err != nil {
		return "", err
	}

	fmt.Fprintf(e.Out, "Zenodo RecordId: %s\n", deposit.RecordID)
	fmt.Fprintf(e.Out, "Zenodo DOI: %s\n", deposit.DOI)
	fmt.Fprintf(e.Out, "Zenodo deposit link: %s\n", deposit.URL)
	return deposit.DOI, nil
}

// LinkExplicit links the item to an operator-supplied deposit ID. The
// tie-break rule: an existing DOI on the item always wins and the
// candidate is ignored as informational. Without one, the candidate
// deposit must already point back at this item's select link; a
// mismatch aborts with no mutation. On a match the DOI is written onto
// the item and the back-reference re-asserted, completing the
// bidirectional link. Linking an already-consistent pair is a no-op.
func (e *Engine) LinkExplicit(ref types.ItemReference, item *types.Item, depositID string) error {
	if doi := ExtractDOI(item.Extra); doi != "" {
		fmt.Fprintf(e.Out, "Item already has a DOI: %s (ignoring deposit %s)\n", doi, depositID)
		return nil
	}

	deposit, err := e.Archive.Deposit(depositID)
	if err != nil {
		return err
	}
	if deposit.RelatedIdentifier != item.SelectLink {
		return fmt.Errorf("%w: deposit %s points at %q, item is %q",
			ErrLinkMismatch, depositID, deposit.RelatedIdentifier, item.SelectLink)
	}

	if err := e.Citations.Update(ref, map[string]any{"extra": AppendDOI(item.Extra, deposit.DOI)}); err != nil {
		return err
	}
	if err := e.Archive.SetBackReference(deposit.DOI, item.SelectLink); err != nil {
		return err
	}
	fmt.Fprintf(e.Out, "Linked item %s to deposit DOI %s\n", item.ID(), deposit.DOI)
	return nil
}

// RequireLinked gates the mutating operations (sync, push, publish). It
// fetches the deposit named by the item's DOI and verifies the
// back-reference; any other state aborts the requested sub-operation
// with an instruction to link explicitly first. No mutation happens
// here.
func (e *Engine) RequireLinked(item *types.Item) (*types.Deposit, error) {
	doi := ExtractDOI(item.Extra)
	if doi == "" {
		return nil, fmt.Errorf("%w: run --getdoi or --zen first", ErrUnlinked)
	}

	deposit, err := e.Archive.Deposit(doi)
	if err != nil {
		return nil, err
	}
	if deposit.RelatedIdentifier != item.SelectLink {
		return nil, fmt.Errorf("%w: deposit %s points at %q, item is %q; link explicitly with --zen first",
			ErrLinkMismatch, doi, deposit.RelatedIdentifier, item.SelectLink)
	}
	return deposit, nil
}

// Sync projects the item's fields onto the deposit metadata. Linkage
// must already be consistent. A projection identical to the deposit's
// current metadata performs no update.
func (e *Engine) Sync(item *types.Item) error {
	deposit, err := e.RequireLinked(item)
	if err != nil {
		return err
	}

	meta, err := Project(item)
	if err != nil {
		return err
	}
	if Matches(meta, deposit) {
		fmt.Fprintf(e.Out, "Deposit %s already up to date\n", deposit.DOI)
		return nil
	}

	if err := e.Archive.UpdateMetadata(deposit.DOI, meta); err != nil {
		return err
	}
	fmt.Fprintf(e.Out, "Synced metadata to deposit %s\n", deposit.DOI)
	return nil
}

// PublishDeposit publishes the paired deposit. Linkage must already be
// consistent.
func (e *Engine) PublishDeposit(item *types.Item) error {
	deposit, err := e.RequireLinked(item)
	if err != nil {
		return err
	}
	if deposit.Published {
		fmt.Fprintf(e.Out, "Deposit %s is already published\n", deposit.DOI)
		return nil
	}
	if err := e.Archive.Publish(deposit.DOI); err != nil {
		return err
	}
	fmt.Fprintf(e.Out, "Published deposit %s\n", deposit.DOI)
	return nil
}

// ConfirmLink is the interactive path: when the item carries a DOI whose
// deposit does not point back, ask the operator before repairing the
// back-reference. An empty answer means yes; anything not starting with
// "y" declines and nothing mutates.
func (e *Engine) ConfirmLink(item *types.Item) error {
	doi := ExtractDOI(item.Extra)
	if doi == "" {
		fmt.Fprintf(e.Out, "Item %s has no deposit DOI\n", item.ID())
		return nil
	}

	deposit, err := e.Archive.Deposit(doi)
	if err != nil {
		return err
	}
	if deposit.RelatedIdentifier == item.SelectLink {
		fmt.Fprintf(e.Out, "Item %s and deposit %s are linked\n", item.ID(), doi)
		return nil
	}

	fmt.Fprintf(e.Out, "Deposit %s does not point back at this item.\nLink the deposit back to this item? [Y/n] ", doi)
	if !e.confirm() {
		fmt.Fprintln(e.Out, "Leaving the deposit unchanged")
		return nil
	}
	if err := e.Archive.SetBackReference(deposit.DOI, item.SelectLink); err != nil {
		return err
	}
	fmt.Fprintf(e.Out, "Linked deposit %s back to item %s\n", doi, item.ID())
	return nil
}

// confirm reads one line from In. No input at all counts as the default
// answer, yes.
func (e *Engine) confirm() bool {
	scanner := bufio.NewScanner(e.In)
	if !scanner.Scan() {
		return true
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "" || strings.HasPrefix(answer, "y")
}

// Show prints the pair: the item's fields and, when a DOI is present,
// the deposit's record. Show never mutates and runs even when another
// sub-operation of the same invocation was aborted.
func (e *Engine) Show(item *types.Item) error {
	fmt.Fprintf(e.Out, "Zotero ID: %s\n", item.ID())
	fmt.Fprintf(e.Out, "Title: %s\n", item.Title)
	fmt.Fprintf(e.Out, "Select link: %s\n", item.SelectLink)
	for _, c := range item.Creators {
		fmt.Fprintf(e.Out, "Creator: %s\n", creatorName(c))
	}

	doi := ExtractDOI(item.Extra)
	if doi == "" {
		fmt.Fprintln(e.Out, "No deposit DOI")
		return nil
	}
	fmt.Fprintf(e.Out, "DOI: %s\n", doi)

	deposit, err := e.Archive.Deposit(doi)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.Out, "Zenodo RecordId: %s\n", deposit.RecordID)
	fmt.Fprintf(e.Out, "Zenodo state: %s\n", deposit.State)
	fmt.Fprintf(e.Out, "Zenodo deposit link: %s\n", deposit.URL)
	fmt.Fprintf(e.Out, "Linkage: %s\n", Compute(item.Extra, deposit.RelatedIdentifier, item.SelectLink))
	return nil
}
