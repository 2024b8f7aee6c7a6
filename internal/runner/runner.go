// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runner executes the two external helper CLIs (zotero-cli and
// zenodo-cli). Each call is a synchronous point-to-point invocation;
// JSON payloads are handed over through a single-slot temp file created
// immediately before the call and removed immediately after. Nothing is
// retried.
package runner

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pdiddy/zotzen/pkg/types"
)

const defaultTmpFile = "tmp"

// executor abstracts command execution for testing.
type executor interface {
	Output(dir, name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) Output(dir, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	return cmd.Output()
}

// Runner invokes one helper CLI.
type Runner struct {
	name    string // helper name used in error messages ("zotero", "zenodo")
	prefix  []string
	dir     string
	tmpFile string
	debug   bool
	log     io.Writer
	exec    executor
}

// New builds a Runner for the helper described by cfg. Debug output, when
// enabled, goes to log.
func New(name string, cfg types.HelperConfig, debug bool, log io.Writer) *Runner {
	return newRunner(name, cfg, debug, log, defaultExec)
}

func newRunner(name string, cfg types.HelperConfig, debug bool, log io.Writer, exec executor) *Runner {
	tmp := cfg.TmpFile
	if tmp == "" {
		tmp = defaultTmpFile
	}
	return &Runner{
		name:    name,
		prefix:  strings.Fields(cfg.Command),
		dir:     cfg.Dir,
		tmpFile: tmp,
		debug:   debug,
		log:     log,
		exec:    exec,
	}
}

var defaultExec executor = &osExecutor{}

// Run invokes the helper with args appended to the configured command
// prefix and returns its stdout. A non-zero exit wraps the helper's
// stderr into the returned error.
func (r *Runner) Run(args ...string) (string, error) {
	if len(r.prefix) == 0 {
		return "", fmt.Errorf("%s helper command not configured", r.name)
	}
	full := append(append([]string{}, r.prefix[1:]...), args...)

	if r.debug {
		fmt.Fprintf(r.log, "[%s] %s %s\n", r.name, r.prefix[0], strings.Join(full, " "))
	}

	out, err := r.exec.Output(r.dir, r.prefix[0], full...)
	if err != nil {
		detail := helperStderr(err)
		if r.debug {
			fmt.Fprintf(r.log, "[%s] failed: %v\n%s", r.name, err, detail)
		}
		if detail != "" {
			return "", fmt.Errorf("%s helper: %s: %w", r.name, strings.TrimSpace(detail), err)
		}
		return "", fmt.Errorf("%s helper: %w", r.name, err)
	}
	return string(out), nil
}

// RunWithInput marshals payload into the helper's slot file, invokes the
// helper with the slot file name appended, and removes the slot file
// before returning. The slot file is transport, not state: it never
// outlives the call.
func (r *Runner) RunWithInput(payload any, args ...string) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding %s payload: %w", r.name, err)
	}

	slot := filepath.Join(r.dir, r.tmpFile)
	if err := os.WriteFile(slot, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s payload: %w", r.name, err)
	}
	defer os.Remove(slot)

	return r.Run(append(args, r.tmpFile)...)
}

// helperStderr extracts captured stderr from an exec failure.
func helperStderr(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return string(exitErr.Stderr)
	}
	return ""
}
