package cmd

import (
	gallery "github.com/perpetuallyhorni/posterwall/internal"
	"github.com/spf13/cobra"
)

// listCmd renders the category list.
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "index"},
	Short:   "List the archive's categories (default command).",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderRequest(cmd, gallery.ListRequest())
	},
}

// categoryCmd renders the gallery of one category.
var categoryCmd = &cobra.Command{
	Use:     "category NAME",
	Aliases: []string{"cat"},
	Short:   "Show the posters of a category.",
	Long: `Shows the posters of a category with their ids, titles, years and image links.
Posters without a category are listed under "Uncategorized".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderRequest(cmd, gallery.CategoryRequest(args[0]))
	},
}

// showCmd renders the detail view of one poster.
var showCmd = &cobra.Command{
	Use:     "show ID",
	Aliases: []string{"detail"},
	Short:   "Show the details of a poster.",
	Long: `Shows the details of the poster with the given id, its images and the
"view on Weibo" and "download original" links when they are available.
Ids are the numbers shown by 'posterwall category'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderRequest(cmd, gallery.Request{Kind: gallery.PageDetail, ID: args[0]})
	},
}

// openCmd renders the page a shared archive link points to.
var openCmd = &cobra.Command{
	Use:   "open LINK",
	Short: "Open a shared archive link.",
	Long: `Opens a link to an archive page, for example
  index.html
  category.html?category=NAME
  https://perpetuallyhorni.github.io/posterwall/detail.html?id=12`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := gallery.ParseLink(args[0])
		if err != nil {
			return err
		}
		return renderRequest(cmd, req)
	},
}
