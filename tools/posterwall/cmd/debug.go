package cmd

import (
	"fmt"
	"sort"
	"strings"

	gallery "github.com/perpetuallyhorni/posterwall/internal"
	"github.com/spf13/cobra"
)

// documents maps the names accepted by 'debug doc' to document paths.
var documents = map[string]string{
	"categories": gallery.CategoryDocumentPath,
	"meta":       gallery.MetaDocumentPath,
	"images":     gallery.ImageCachePath,
}

func documentNames() []string {
	names := make([]string, 0, len(documents))
	for name := range documents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// debugCmd represents the base command for debugging tools.
var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Debugging tools for posterwall.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// debugDocCmd dumps one of the archive's documents.
var debugDocCmd = &cobra.Command{
	Use:   "doc NAME",
	Short: "Dump a raw archive document (categories, meta, images).",
	Long: `This command is for debugging. It fetches one of the archive's JSON
documents and prints it, indented, to stdout. Nothing is parsed beyond JSON
syntax, which makes it useful for inspecting what the archive publishes.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: documentNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, ok := documents[strings.ToLower(args[0])]
		if !ok {
			return fmt.Errorf("unknown document %q, want one of %s", args[0], strings.Join(documentNames(), ", "))
		}
		fetcher, err := gallery.NewFetcher(cfg.Site.SiteURL, nil)
		if err != nil {
			return err
		}
		console.Info("Fetching %s...", fetcher.URL(path))
		raw, err := fetcher.Raw(cmd.Context(), path)
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", path, err)
		}
		return renderer.Document(raw)
	},
}

// debugLinkCmd shows how a shared link is interpreted.
var debugLinkCmd = &cobra.Command{
	Use:   "link LINK",
	Short: "Show the page and parameters a shared link points to.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := gallery.ParseLink(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "page:     %s\ncategory: %s\nid:       %s\nlink:     %s\n",
			req.Kind, req.Category, req.ID, req.Link())
		return nil
	},
}

// init initializes the debug command and its subcommands.
func init() {
	debugCmd.AddCommand(debugDocCmd)
	debugCmd.AddCommand(debugLinkCmd)
}
