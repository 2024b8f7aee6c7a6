// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package link

import (
	"fmt"
	"strings"

	"github.com/pdiddy/zotzen/pkg/types"
)

// DefaultAttachmentType is the extension filter applied when none is
// configured.
const DefaultAttachmentType = "pdf"

// PushAttachments transfers the item's file attachments into the paired
// deposit. Linkage must already be consistent and the deposit still
// writable. Attachments are filtered by filename extension
// (case-insensitive; "pdf" by default) and processed strictly in the
// citation gateway's enumeration order. The first per-file failure
// aborts the whole push; files uploaded earlier in the sequence stay in
// the deposit and nothing is retried.
func (e *Engine) PushAttachments(ref types.ItemReference, item *types.Item, extension string) (int, error) {
	deposit, err := e.RequireLinked(item)
	if err != nil {
		return 0, err
	}
	if !deposit.Writable() {
		return 0, fmt.Errorf("deposit %s is published; files are read-only", deposit.DOI)
	}

	if extension == "" {
		extension = DefaultAttachmentType
	}
	extension = strings.ToLower(strings.TrimPrefix(extension, "."))

	attachments, err := e.Citations.Attachments(ref)
	if err != nil {
		return 0, err
	}

	pushed := 0
	for _, a := range attachments {
		if a.Extension() != extension {
			continue
		}

		data, err := e.Citations.AttachmentBytes(ref, a.Key)
		if err != nil {
			return pushed, fmt.Errorf("push aborted at %s: %w", a.Filename, err)
		}
		if err := e.Archive.UploadFile(deposit.DOI, a.Filename, data); err != nil {
			return pushed, fmt.Errorf("push aborted at %s: %w", a.Filename, err)
		}
		pushed++
		fmt.Fprintf(e.Out, "Pushed %s (%d bytes) to deposit %s\n", a.Filename, len(data), deposit.DOI)
	}

	if pushed == 0 {
		fmt.Fprintf(e.Out, "No .%s attachments to push\n", extension)
	}
	return pushed, nil
}
