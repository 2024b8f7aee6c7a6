// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// HelperConfig describes one of the two external helper CLIs. Command is
// the full invocation prefix (e.g. "node bin/zotero-cli.js"), Dir the
// working directory the helper runs in, and TmpFile the single-slot file
// used to hand JSON payloads to the helper.
type HelperConfig struct {
	// Command is the helper invocation prefix, split on whitespace.
	Command string `json:"command" yaml:"command"`

	// Dir is the working directory for helper invocations.
	Dir string `json:"dir" yaml:"dir"`

	// TmpFile is the payload slot file, relative to Dir (default "tmp").
	TmpFile string `json:"tmp_file,omitempty" yaml:"tmp_file,omitempty"`
}

// Config groups all settings for one zotzen invocation. It is threaded
// explicitly through every component; nothing consults ambient process
// state.
type Config struct {
	// Zotero is the citation-side helper.
	Zotero HelperConfig `json:"zotero" yaml:"zotero"`

	// Zenodo is the archive-side helper.
	Zenodo HelperConfig `json:"zenodo" yaml:"zenodo"`

	// TemplatePath locates the deposit creation template (YAML or JSON).
	TemplatePath string `json:"template" yaml:"template"`

	// Group is the default group library ID for bare item keys, empty
	// for the personal library.
	Group string `json:"group,omitempty" yaml:"group,omitempty"`

	// AttachmentType is the file-extension filter for attachment pushes
	// (default "pdf").
	AttachmentType string `json:"attachment_type,omitempty" yaml:"attachment_type,omitempty"`

	// Debug dumps helper invocations and raw failures.
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty"`
}
