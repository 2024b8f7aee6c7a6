// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the zotzen CLI, which pairs a
// Zotero item with a Zenodo deposit and keeps the pair synchronized.
// The operation is selected by flags on the single root command; the
// optional positional argument is the item reference (a zotero://select
// deep link, a "groupID:itemKey" compound key, or a bare item key).
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/zotzen/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the whole CLI surface: flags select the operation.
var rootCmd = &cobra.Command{
	Use:   "zotzen [reference]",
	Short: "Pair Zotero items with Zenodo deposits",
	Long: `zotzen links a bibliographic item in Zotero with an archival deposit in
Zenodo. The item stores the deposit's DOI in its extra field; the deposit
stores the item's select link as its related identifier. Every run
re-derives the pairing from the two remote records.

Create a pair with --new, obtain or report a DOI with --getdoi, link an
existing deposit with --zen, then --sync metadata, --push attachments,
and --publish the deposit.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./zotzen.yaml or ~/.config/zotzen/zotzen.yaml)")

	rootCmd.Flags().Bool("new", false, "create a new item/deposit pair")
	rootCmd.Flags().String("title", "", "title of the new item")
	rootCmd.Flags().String("json", "", "path of a JSON file describing the new item")
	rootCmd.Flags().String("group", "", "group library ID for bare item keys and new items")
	rootCmd.Flags().Bool("show", false, "show the item and its deposit")
	rootCmd.Flags().Bool("open", false, "open the item and deposit links")
	rootCmd.Flags().Bool("getdoi", false, "obtain a DOI, creating a deposit when the item has none")
	rootCmd.Flags().String("template", "", "deposit template path (overrides config)")
	rootCmd.Flags().String("zen", "", "link an existing deposit by record ID or DOI")
	rootCmd.Flags().Bool("sync", false, "sync item metadata onto the deposit")
	rootCmd.Flags().Bool("push", false, "push matching attachments into the deposit")
	rootCmd.Flags().String("type", "", "attachment extension filter for --push (default pdf)")
	rootCmd.Flags().Bool("publish", false, "publish the deposit")
	rootCmd.Flags().Bool("install", false, "collect credentials for the two helper CLIs")
	rootCmd.Flags().Bool("debug", false, "dump helper invocations and raw failures")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("zotzen")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "zotzen"))
		}
	}

	viper.SetDefault("zotero.cli", "node bin/zotero-cli.js")
	viper.SetDefault("zotero.dir", "zotero-cli")
	viper.SetDefault("zenodo.cli", "python zenodo-cli.py")
	viper.SetDefault("zenodo.dir", "zenodo-cli")
	viper.SetDefault("zenodo.template", filepath.Join("zenodo-cli", "template.json"))

	viper.SetEnvPrefix("ZOTZEN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the invocation config from viper and flags. The
// config value is threaded explicitly; nothing downstream reads viper or
// flags again.
func loadConfig(cmd *cobra.Command) types.Config {
	cfg := types.Config{
		Zotero: types.HelperConfig{
			Command: viper.GetString("zotero.cli"),
			Dir:     viper.GetString("zotero.dir"),
		},
		Zenodo: types.HelperConfig{
			Command: viper.GetString("zenodo.cli"),
			Dir:     viper.GetString("zenodo.dir"),
		},
		TemplatePath:   viper.GetString("zenodo.template"),
		Group:          viper.GetString("group"),
		AttachmentType: viper.GetString("type"),
	}

	if v, _ := cmd.Flags().GetString("template"); v != "" {
		cfg.TemplatePath = v
	}
	if v, _ := cmd.Flags().GetString("group"); v != "" {
		cfg.Group = v
	}
	if v, _ := cmd.Flags().GetString("type"); v != "" {
		cfg.AttachmentType = v
	}
	cfg.Debug, _ = cmd.Flags().GetBool("debug")

	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
