// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/zotzen/internal/install"
	"github.com/pdiddy/zotzen/internal/link"
	"github.com/pdiddy/zotzen/internal/resolve"
	"github.com/pdiddy/zotzen/internal/runner"
	"github.com/pdiddy/zotzen/internal/zenodo"
	"github.com/pdiddy/zotzen/internal/zotero"
	"github.com/pdiddy/zotzen/pkg/types"
)

// run dispatches the single-command surface. Sub-operations execute in a
// fixed order (link, sync, push, publish, show, open); a precondition
// failure in one records the error and the remaining independent
// sub-operations still run.
func run(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)

	if v, _ := cmd.Flags().GetBool("install"); v {
		return install.Run(os.Stdin, os.Stdout, cfg.Zotero.Dir, cfg.Zenodo.Dir)
	}

	engine := newEngine(cfg)

	if v, _ := cmd.Flags().GetBool("new"); v {
		return runNew(cmd, cfg, engine)
	}

	if len(args) == 0 {
		return fmt.Errorf("provide an item reference, or use --new or --install")
	}
	return runOps(cmd, cfg, engine, args[0])
}

func newEngine(cfg types.Config) *link.Engine {
	zot := zotero.New(runner.New("zotero", cfg.Zotero, cfg.Debug, os.Stderr))
	zen := zenodo.New(runner.New("zenodo", cfg.Zenodo, cfg.Debug, os.Stderr))
	return &link.Engine{
		Citations:    zot,
		Archive:      zen,
		TemplatePath: cfg.TemplatePath,
		Out:          os.Stdout,
		In:           os.Stdin,
	}
}

// runNew is the create-pair flow.
func runNew(cmd *cobra.Command, cfg types.Config, engine *link.Engine) error {
	title, _ := cmd.Flags().GetString("title")
	jsonPath, _ := cmd.Flags().GetString("json")
	if title == "" && jsonPath == "" {
		return fmt.Errorf("--new needs --title or --json")
	}

	item, deposit, err := engine.CreatePair(title, jsonPath, cfg.Group)
	if err != nil {
		return err
	}

	if v, _ := cmd.Flags().GetBool("show"); v {
		if err := engine.Show(item); err != nil {
			return err
		}
	}
	if v, _ := cmd.Flags().GetBool("open"); v {
		openURL(item.SelectLink, os.Stderr)
		openURL(deposit.URL, os.Stderr)
	}
	return nil
}

// runOps is the inspect/link/sync flow against an existing item.
func runOps(cmd *cobra.Command, cfg types.Config, engine *link.Engine, token string) error {
	ref, err := resolve.Parse(token)
	if err != nil {
		return err
	}
	// A bare key with a configured group scopes to that group library.
	if ref.Kind == types.LibraryUser && ref.LibraryID == "" && cfg.Group != "" {
		ref.Kind = types.LibraryGroup
		ref.LibraryID = cfg.Group
	}

	item, err := engine.Citations.Item(ref)
	if err != nil {
		return err
	}

	getdoi, _ := cmd.Flags().GetBool("getdoi")
	zenID, _ := cmd.Flags().GetString("zen")
	doSync, _ := cmd.Flags().GetBool("sync")
	doPush, _ := cmd.Flags().GetBool("push")
	doPublish, _ := cmd.Flags().GetBool("publish")
	doShow, _ := cmd.Flags().GetBool("show")
	doOpen, _ := cmd.Flags().GetBool("open")

	explicit := getdoi || zenID != "" || doSync || doPush || doPublish || doShow || doOpen

	var failures []error
	fail := func(err error) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		failures = append(failures, err)
	}
	// refresh re-reads the item after a linking mutation so later
	// sub-operations see the updated extra field.
	refresh := func() {
		if fresh, err := engine.Citations.Item(ref); err == nil {
			item = fresh
		}
	}

	if !explicit {
		// Interactive path: confirm the back-reference repair, then show.
		if err := engine.ConfirmLink(item); err != nil {
			fail(err)
		}
		if err := engine.Show(item); err != nil {
			fail(err)
		}
		return summarize(failures)
	}

	if getdoi {
		if _, err := engine.EnsureDOI(ref, item); err != nil {
			fail(err)
		}
		refresh()
	}
	if zenID != "" {
		if err := engine.LinkExplicit(ref, item, zenID); err != nil {
			fail(err)
		}
		refresh()
	}
	if doSync {
		if err := engine.Sync(item); err != nil {
			fail(err)
		}
	}
	if doPush {
		if _, err := engine.PushAttachments(ref, item, cfg.AttachmentType); err != nil {
			fail(err)
		}
	}
	if doPublish {
		if err := engine.PublishDeposit(item); err != nil {
			fail(err)
		}
	}
	if doShow {
		if err := engine.Show(item); err != nil {
			fail(err)
		}
	}
	if doOpen {
		openURL(item.SelectLink, os.Stderr)
		if doi := link.ExtractDOI(item.Extra); doi != "" {
			if deposit, err := engine.Archive.Deposit(doi); err == nil && deposit.URL != "" {
				openURL(deposit.URL, os.Stderr)
			}
		}
	}

	return summarize(failures)
}

// summarize folds recorded sub-operation failures into the exit status.
// Each failure was already printed; the process just needs to exit
// non-zero.
func summarize(failures []error) error {
	switch len(failures) {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("1 operation failed")
	default:
		return fmt.Errorf("%d operations failed", len(failures))
	}
}
