// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package zotero

import (
	"encoding/json"
	"testing"

	"github.com/pdiddy/zotzen/pkg/types"
)

const sampleItemJSON = `{
  "key": "S8CV45BT",
  "library": {"id": 2259720},
  "links": {"self": {"href": "https://api.zotero.org/groups/2259720/items/S8CV45BT"}},
  "data": {
    "key": "S8CV45BT",
    "itemType": "report",
    "title": "A Study of Pairing",
    "abstractNote": "An abstract.",
    "date": "2020-01-15",
    "url": "https://example.org/paper",
    "extra": "DOI: 10.5281/zenodo.123456",
    "creators": [
      {"creatorType": "author", "firstName": "Jane", "lastName": "Doe"},
      {"creatorType": "author", "name": "ACME Institute"}
    ]
  }
}`

func TestWireItemDecoding(t *testing.T) {
	var w wireItem
	if err := json.Unmarshal([]byte(sampleItemJSON), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	item := w.toItem()

	if item.Key != "S8CV45BT" {
		t.Errorf("Key = %q", item.Key)
	}
	if item.LibraryID != "2259720" {
		t.Errorf("LibraryID = %q", item.LibraryID)
	}
	if item.ID() != "2259720:S8CV45BT" {
		t.Errorf("ID() = %q", item.ID())
	}
	if item.Title != "A Study of Pairing" {
		t.Errorf("Title = %q", item.Title)
	}
	if item.Extra != "DOI: 10.5281/zenodo.123456" {
		t.Errorf("Extra = %q", item.Extra)
	}
	if len(item.Creators) != 2 {
		t.Fatalf("Creators = %v", item.Creators)
	}
	if item.Creators[0].LastName != "Doe" || item.Creators[1].Name != "ACME Institute" {
		t.Errorf("Creators = %v", item.Creators)
	}

	// The select link is derived from the API self link, never stored.
	want := "zotero://select/groups/2259720/items/S8CV45BT"
	if item.SelectLink != want {
		t.Errorf("SelectLink = %q, want %q", item.SelectLink, want)
	}
}

func TestWireItemPersonalLibrary(t *testing.T) {
	// zotero-cli reports the personal library as id 0; the item then has
	// a bare key identity.
	var w wireItem
	raw := `{"key": "K1", "library": {"id": 0},
	 "links": {"self": {"href": "https://api.zotero.org/users/0/items/K1"}},
	 "data": {"title": "T"}}`
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	item := w.toItem()
	if item.LibraryID != "" {
		t.Errorf("LibraryID = %q, want empty", item.LibraryID)
	}
	if item.ID() != "K1" {
		t.Errorf("ID() = %q, want K1", item.ID())
	}
}

func TestWireCreateResult(t *testing.T) {
	raw := `{"successful": {"0": ` + sampleItemJSON + `}}`
	var result wireCreateResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	w, ok := result.Successful["0"]
	if !ok {
		t.Fatal("no successful[0] record")
	}
	if w.Key != "S8CV45BT" {
		t.Errorf("Key = %q", w.Key)
	}
}

// fakeRunner records helper invocations and plays back canned output.
type fakeRunner struct {
	calls   [][]string
	outputs []string
}

func (f *fakeRunner) Run(args ...string) (string, error) {
	return f.record(args)
}

func (f *fakeRunner) RunWithInput(payload any, args ...string) (string, error) {
	return f.record(args)
}

func (f *fakeRunner) record(args []string) (string, error) {
	f.calls = append(f.calls, args)
	out := f.outputs[0]
	f.outputs = f.outputs[1:]
	return out, nil
}

func TestCreateFromTemplateGroupScope(t *testing.T) {
	run := &fakeRunner{outputs: []string{
		`{"itemType": "report", "title": ""}`,
		`{"successful": {"0": ` + sampleItemJSON + `}}`,
	}}
	c := &Client{run: run}

	item, err := c.CreateFromTemplate("New Title", "2259720")
	if err != nil {
		t.Fatalf("CreateFromTemplate: %v", err)
	}
	if item.Key != "S8CV45BT" {
		t.Errorf("Key = %q", item.Key)
	}

	// The second call is the create; it must carry the group flag so the
	// item lands in the group library.
	if len(run.calls) != 2 {
		t.Fatalf("calls = %v", run.calls)
	}
	create := run.calls[1]
	want := []string{"create-item", "--group", "2259720"}
	if len(create) != len(want) {
		t.Fatalf("create args = %v, want %v", create, want)
	}
	for i := range want {
		if create[i] != want[i] {
			t.Fatalf("create args = %v, want %v", create, want)
		}
	}
}

func TestCreateWithoutGroup(t *testing.T) {
	run := &fakeRunner{outputs: []string{
		`{"successful": {"0": ` + sampleItemJSON + `}}`,
	}}
	c := &Client{run: run}

	if _, err := c.create(map[string]any{"title": "T"}, ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := run.calls[0]; len(got) != 1 || got[0] != "create-item" {
		t.Errorf("create args = %v, want [create-item]", got)
	}
}

func TestWireItemSelectLinkFallback(t *testing.T) {
	// Without a links block the deep link is built from the library
	// coordinates instead.
	raw := `{"key": "K2", "library": {"type": "group", "id": 777}, "data": {"title": "T"}}`
	var w wireItem
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	item := w.toItem()
	if want := "zotero://select/groups/777/items/K2"; item.SelectLink != want {
		t.Errorf("SelectLink = %q, want %q", item.SelectLink, want)
	}
}

func TestScopeArgs(t *testing.T) {
	group := types.ItemReference{Kind: types.LibraryGroup, LibraryID: "99", ItemKey: "K"}
	if got := scopeArgs(group); len(got) != 2 || got[0] != "--group" || got[1] != "99" {
		t.Errorf("scopeArgs(group) = %v", got)
	}

	user := types.ItemReference{Kind: types.LibraryUser, ItemKey: "K"}
	if got := scopeArgs(user); got != nil {
		t.Errorf("scopeArgs(user) = %v, want nil", got)
	}
}
