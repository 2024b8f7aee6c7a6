// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package zotero is the citation-side record gateway. It wraps the
// zotero-cli helper: every method is one synchronous helper invocation,
// JSON in and JSON out, decoded at this boundary into the typed records
// the rest of the pipeline operates on.
package zotero

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/zotzen/internal/resolve"
	"github.com/pdiddy/zotzen/internal/runner"
	"github.com/pdiddy/zotzen/pkg/types"
)

// commandRunner is the helper-invocation surface the client needs.
// runner.Runner satisfies it; tests substitute a fake.
type commandRunner interface {
	Run(args ...string) (string, error)
	RunWithInput(payload any, args ...string) (string, error)
}

// Client issues requests against the zotero-cli helper. It is stateless;
// every call re-reads truth from the remote library.
type Client struct {
	run commandRunner
}

// New wraps a helper runner.
func New(run *runner.Runner) *Client {
	return &Client{run: run}
}

// Wire shapes exchanged with zotero-cli. Fields are decoded once here;
// nothing downstream sees raw JSON.

type wireItem struct {
	Key     string       `json:"key"`
	Data    wireItemData `json:"data"`
	Library struct {
		Type string      `json:"type"`
		ID   json.Number `json:"id"`
	} `json:"library"`
	Links struct {
		Self struct {
			Href string `json:"href"`
		} `json:"self"`
	} `json:"links"`
}

type wireItemData struct {
	Key          string          `json:"key,omitempty"`
	ItemType     string          `json:"itemType,omitempty"`
	Title        string          `json:"title,omitempty"`
	AbstractNote string          `json:"abstractNote,omitempty"`
	Date         string          `json:"date,omitempty"`
	URL          string          `json:"url,omitempty"`
	Extra        string          `json:"extra,omitempty"`
	Creators     []types.Creator `json:"creators,omitempty"`
}

// wireCreateResult is the helper's create-item response: created items
// keyed by their batch index.
type wireCreateResult struct {
	Successful map[string]wireItem `json:"successful"`
}

func (w wireItem) toItem() *types.Item {
	item := &types.Item{
		Key:          w.Key,
		LibraryID:    w.Library.ID.String(),
		Title:        w.Data.Title,
		AbstractNote: w.Data.AbstractNote,
		Date:         w.Data.Date,
		URL:          w.Data.URL,
		Extra:        w.Data.Extra,
		Creators:     w.Data.Creators,
		SelfLink:     w.Links.Self.Href,
	}
	if item.Key == "" {
		item.Key = w.Data.Key
	}
	if item.LibraryID == "0" {
		item.LibraryID = ""
	}
	item.SelectLink = resolve.FromAPILink(item.SelfLink)
	if item.SelectLink == "" && item.LibraryID != "" {
		// Some helper responses omit the links block; build the deep
		// link from the library coordinates instead.
		kind := types.LibraryUser
		if w.Library.Type == "group" {
			kind = types.LibraryGroup
		}
		item.SelectLink = resolve.SelectLink(types.ItemReference{
			Kind:      kind,
			LibraryID: item.LibraryID,
			ItemKey:   item.Key,
		})
	}
	return item
}

// scopeArgs returns the helper flags selecting ref's library.
func scopeArgs(ref types.ItemReference) []string {
	if ref.Kind == types.LibraryGroup && ref.LibraryID != "" {
		return []string{"--group", ref.LibraryID}
	}
	return nil
}

// Item fetches the referenced item.
func (c *Client) Item(ref types.ItemReference) (*types.Item, error) {
	args := append([]string{"item", "--key", ref.ItemKey}, scopeArgs(ref)...)
	out, err := c.run.Run(args...)
	if err != nil {
		return nil, fmt.Errorf("fetching item %s: %w", ref.ItemKey, err)
	}

	var w wireItem
	if err := json.Unmarshal([]byte(out), &w); err != nil {
		return nil, fmt.Errorf("parsing item %s: %w", ref.ItemKey, err)
	}
	return w.toItem(), nil
}

// CreateFromTemplate creates a new item from the helper's report item
// template with the given title applied. A non-empty group places the
// item in that group library instead of the personal one.
func (c *Client) CreateFromTemplate(title, group string) (*types.Item, error) {
	out, err := c.run.Run("create-item", "--template", "report")
	if err != nil {
		return nil, fmt.Errorf("fetching item template: %w", err)
	}

	var template map[string]any
	if err := json.Unmarshal([]byte(out), &template); err != nil {
		return nil, fmt.Errorf("parsing item template: %w", err)
	}
	template["title"] = title

	return c.create(template, group)
}

// CreateFromFile creates a new item verbatim from a JSON file, bypassing
// the title template.
func (c *Client) CreateFromFile(path, group string) (*types.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading item file: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parsing item file %s: %w", path, err)
	}
	return c.create(payload, group)
}

func (c *Client) create(payload map[string]any, group string) (*types.Item, error) {
	args := []string{"create-item"}
	if group != "" {
		args = append(args, "--group", group)
	}
	out, err := c.run.RunWithInput(payload, args...)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	var result wireCreateResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		return nil, fmt.Errorf("parsing create response: %w", err)
	}
	w, ok := result.Successful["0"]
	if !ok {
		return nil, fmt.Errorf("creating item: helper reported no successful record")
	}
	return w.toItem(), nil
}

// Update writes a partial field update onto the referenced item. Fields
// absent from the map are left untouched by the helper.
func (c *Client) Update(ref types.ItemReference, fields map[string]any) error {
	args := append([]string{"update-item", "--key", ref.ItemKey}, scopeArgs(ref)...)
	if _, err := c.run.RunWithInput(fields, args...); err != nil {
		return fmt.Errorf("updating item %s: %w", ref.ItemKey, err)
	}
	return nil
}

// Attachments enumerates the item's child attachments in the order the
// helper returns them. Callers must not re-sort; push order follows this
// enumeration.
func (c *Client) Attachments(ref types.ItemReference) ([]types.Attachment, error) {
	args := append([]string{"attachments", "--key", ref.ItemKey}, scopeArgs(ref)...)
	out, err := c.run.Run(args...)
	if err != nil {
		return nil, fmt.Errorf("listing attachments of %s: %w", ref.ItemKey, err)
	}

	var attachments []types.Attachment
	if err := json.Unmarshal([]byte(out), &attachments); err != nil {
		return nil, fmt.Errorf("parsing attachments of %s: %w", ref.ItemKey, err)
	}
	return attachments, nil
}

// AttachmentBytes downloads one attachment's file content. The helper
// writes to a scratch file which is removed before returning.
func (c *Client) AttachmentBytes(ref types.ItemReference, key string) ([]byte, error) {
	scratch, err := os.CreateTemp("", "zotzen-attachment-*")
	if err != nil {
		return nil, fmt.Errorf("creating scratch file: %w", err)
	}
	path := scratch.Name()
	scratch.Close()
	defer os.Remove(path)

	args := append([]string{"attachment", "--key", key, "--out", path}, scopeArgs(ref)...)
	if _, err := c.run.Run(args...); err != nil {
		return nil, fmt.Errorf("downloading attachment %s: %w", key, err)
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading attachment %s: %w", key, err)
	}
	return data, nil
}
