// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package install bootstraps the credential files for the two helper
// CLIs. It collects four values interactively and writes each helper's
// native config format: flat key="value" lines for zotero-cli, plain
// JSON for zenodo-cli. Defaults can be pre-seeded from a .env file.
package install

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	zoteroConfigFile = "zotero-cli.toml"
	zenodoConfigFile = "config.json"
)

// credential is one prompted value. EnvKey names the .env variable that
// pre-seeds the default.
type credential struct {
	Prompt string
	EnvKey string
}

var credentials = []credential{
	{"Zotero user ID", "ZOTERO_USER_ID"},
	{"Zotero API key", "ZOTERO_API_KEY"},
	{"Zenodo API endpoint", "ZENODO_ENDPOINT"},
	{"Zenodo access token", "ZENODO_ACCESS_TOKEN"},
}

// zenodoConfig is zenodo-cli's JSON credential file.
type zenodoConfig struct {
	Endpoint    string `json:"endpoint"`
	AccessToken string `json:"accessToken"`
}

// Run prompts for the four credentials on in/out and writes the two
// helper config files into zoteroDir and zenodoDir. An empty answer
// keeps the .env default; a .env file is optional and a missing one is
// not an error.
func Run(in io.Reader, out io.Writer, zoteroDir, zenodoDir string) error {
	seeds, err := godotenv.Read()
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("reading .env: %w", err)
		}
		seeds = map[string]string{}
	}

	values := make(map[string]string, len(credentials))
	reader := bufio.NewScanner(in)
	for _, c := range credentials {
		def := seeds[c.EnvKey]
		if def != "" {
			fmt.Fprintf(out, "%s [%s]: ", c.Prompt, def)
		} else {
			fmt.Fprintf(out, "%s: ", c.Prompt)
		}

		answer := ""
		if reader.Scan() {
			answer = strings.TrimSpace(reader.Text())
		}
		if answer == "" {
			answer = def
		}
		if answer == "" {
			return fmt.Errorf("no value for %s", c.Prompt)
		}
		values[c.EnvKey] = answer
	}

	if err := writeZoteroConfig(zoteroDir, values); err != nil {
		return err
	}
	if err := writeZenodoConfig(zenodoDir, values); err != nil {
		return err
	}

	fmt.Fprintln(out, "Credentials installed.")
	return nil
}

// writeZoteroConfig writes zotero-cli's flat key="value" config.
func writeZoteroConfig(dir string, values map[string]string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "user-id=%q\n", values["ZOTERO_USER_ID"])
	fmt.Fprintf(&b, "api-key=%q\n", values["ZOTERO_API_KEY"])

	path := filepath.Join(dir, zoteroConfigFile)
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// writeZenodoConfig writes zenodo-cli's JSON config.
func writeZenodoConfig(dir string, values map[string]string) error {
	cfg := zenodoConfig{
		Endpoint:    values["ZENODO_ENDPOINT"],
		AccessToken: values["ZENODO_ACCESS_TOKEN"],
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding zenodo config: %w", err)
	}

	path := filepath.Join(dir, zenodoConfigFile)
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
