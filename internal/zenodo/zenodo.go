// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package zenodo is the archive-side record gateway. It wraps the
// zenodo-cli helper: JSON payloads go out through the runner's slot
// file, and the helper's line-oriented report comes back and is scraped
// into a typed Deposit at this boundary.
package zenodo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/zotzen/internal/runner"
	"github.com/pdiddy/zotzen/pkg/types"
)

// RelatedIdentifier is one entry in a deposit's related-identifier list.
// The first entry holds the back-reference to the paired item.
type RelatedIdentifier struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Relation   string `json:"relation" yaml:"relation"`
}

// BackReferenceRelation is the relation recorded on the select-link
// back-reference.
const BackReferenceRelation = "isAlternateIdentifier"

// DepositTemplate is the creation payload for a new deposit. Templates
// load from YAML files; JSON templates parse too (a YAML subset).
type DepositTemplate struct {
	Title              string                 `json:"title" yaml:"title"`
	Description        string                 `json:"description" yaml:"description"`
	UploadType         string                 `json:"upload_type,omitempty" yaml:"upload_type,omitempty"`
	AccessRight        string                 `json:"access_right,omitempty" yaml:"access_right,omitempty"`
	Creators           []types.DepositCreator `json:"creators,omitempty" yaml:"creators,omitempty"`
	Communities        []map[string]string    `json:"communities,omitempty" yaml:"communities,omitempty"`
	RelatedIdentifiers []RelatedIdentifier    `json:"related_identifiers" yaml:"related_identifiers"`
}

// LoadTemplate reads a deposit template file.
func LoadTemplate(path string) (*DepositTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading deposit template: %w", err)
	}
	var t DepositTemplate
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing deposit template %s: %w", path, err)
	}
	return &t, nil
}

// SetBackReference points the template's first related identifier at
// selectLink, creating the slot when the template has none.
func (t *DepositTemplate) SetBackReference(selectLink string) {
	if len(t.RelatedIdentifiers) == 0 {
		t.RelatedIdentifiers = []RelatedIdentifier{{Relation: BackReferenceRelation}}
	}
	t.RelatedIdentifiers[0].Identifier = selectLink
}

// RecordID extracts the numeric record ID from a Zenodo DOI
// ("10.5281/zenodo.123456" -> "123456"). Returns the input unchanged
// when it is not a Zenodo DOI, so bare record IDs pass through.
func RecordID(doi string) string {
	if idx := strings.LastIndex(doi, "zenodo."); idx >= 0 {
		return doi[idx+len("zenodo."):]
	}
	return doi
}

// Client issues requests against the zenodo-cli helper.
type Client struct {
	run *runner.Runner
}

// New wraps a helper runner.
func New(run *runner.Runner) *Client {
	return &Client{run: run}
}

// depositFromReport scrapes the helper's report into a typed Deposit.
// Creators are a semicolon-separated list ("Doe, Jane; ACME Institute")
// since the names themselves carry commas.
func depositFromReport(r Report) *types.Deposit {
	published := r.Field("Published")
	state := r.Field("State")
	return &types.Deposit{
		RecordID:          r.Field("RecordId"),
		DOI:               r.Field("DOI"),
		Title:             r.Field("Title"),
		Description:       r.Field("Description"),
		Creators:          splitCreators(r.Field("Creators")),
		PublicationDate:   r.Field("PublicationDate"),
		State:             state,
		Published:         published == "yes" || published == "true" || state == "done",
		URL:               r.Field("URL"),
		RelatedIdentifier: r.Field("Related"),
	}
}

func splitCreators(field string) []string {
	if field == "" {
		return nil
	}
	var creators []string
	for _, name := range strings.Split(field, ";") {
		if name = strings.TrimSpace(name); name != "" {
			creators = append(creators, name)
		}
	}
	return creators
}

// Deposit fetches the deposit identified by a record ID or Zenodo DOI.
func (c *Client) Deposit(id string) (*types.Deposit, error) {
	out, err := c.run.Run("get", RecordID(id), "--show")
	if err != nil {
		return nil, fmt.Errorf("fetching deposit %s: %w", id, err)
	}
	d := depositFromReport(Report(out))
	if d.RecordID == "" && d.DOI == "" {
		return nil, fmt.Errorf("fetching deposit %s: report carries no RecordId or DOI", id)
	}
	return d, nil
}

// Create makes a new deposit from the template and returns its record.
func (c *Client) Create(template *DepositTemplate) (*types.Deposit, error) {
	out, err := c.run.RunWithInput(template, "create", "--show")
	if err != nil {
		return nil, fmt.Errorf("creating deposit: %w", err)
	}
	d := depositFromReport(Report(out))
	if d.DOI == "" {
		return nil, fmt.Errorf("creating deposit: report carries no DOI")
	}
	return d, nil
}

// UpdateMetadata writes the projected metadata onto the deposit.
func (c *Client) UpdateMetadata(id string, meta types.DepositMetadata) error {
	if _, err := c.run.RunWithInput(meta, "update", RecordID(id)); err != nil {
		return fmt.Errorf("updating deposit %s: %w", id, err)
	}
	return nil
}

// SetBackReference sets the deposit's related identifier to the item's
// select link. Safe to re-run; the helper overwrites in place.
func (c *Client) SetBackReference(id, selectLink string) error {
	payload := map[string]any{
		"related_identifiers": []RelatedIdentifier{{
			Identifier: selectLink,
			Relation:   BackReferenceRelation,
		}},
	}
	if _, err := c.run.RunWithInput(payload, "update", RecordID(id)); err != nil {
		return fmt.Errorf("linking deposit %s: %w", id, err)
	}
	return nil
}

// Publish publishes the deposit. Published deposits no longer accept
// file uploads.
func (c *Client) Publish(id string) error {
	if _, err := c.run.Run("publish", RecordID(id)); err != nil {
		return fmt.Errorf("publishing deposit %s: %w", id, err)
	}
	return nil
}

// UploadFile uploads data under name. The bytes are staged in a scratch
// directory so the helper sees the intended filename, then the staging
// is removed.
func (c *Client) UploadFile(id, name string, data []byte) error {
	dir, err := os.MkdirTemp("", "zotzen-upload-")
	if err != nil {
		return fmt.Errorf("staging upload %s: %w", name, err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("staging upload %s: %w", name, err)
	}

	if _, err := c.run.Run("upload", RecordID(id), path); err != nil {
		return fmt.Errorf("uploading %s to deposit %s: %w", name, id, err)
	}
	return nil
}
