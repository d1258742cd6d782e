package cli

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/wallcycle/internal/catalog"
	"github.com/jmylchreest/wallcycle/internal/config"
)

var (
	listRoot       string
	listConfigPath string
	listLong       bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List theme folders and their wallpapers",
	Long: `List the theme folders discovered under the catalog root.

Themes with no supported images are listed too, so missing assets are
visible. With --long, each wallpaper is shown with its pixel dimensions.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listRoot, "root", "", "catalog root holding theme folders (default from config)")
	listCmd.Flags().StringVar(&listConfigPath, "config", "", "config file (default ~/.config/wallcycle/config.toml)")
	listCmd.Flags().BoolVarP(&listLong, "long", "l", false, "show each wallpaper with its dimensions")
}

// runList executes the list command.
func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(listConfigPath)
	if err != nil {
		return err
	}

	root := listRoot
	if root == "" {
		root = cfg.WallpaperRoot
	}

	cat, err := catalog.Load(root)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	heading := color.New(color.FgCyan, color.Bold)
	warn := color.New(color.FgYellow)

	heading.Fprintf(out, "%d theme(s) under %s\n", cat.Len(), cat.Root)
	for i, theme := range cat.Themes {
		if theme.Count() == 0 {
			fmt.Fprintf(out, "%2d  %-24s ", i+1, theme.Name)
			warn.Fprintln(out, "no images")
			continue
		}
		fmt.Fprintf(out, "%2d  %-24s %d image(s)\n", i+1, theme.Name, theme.Count())

		if !listLong {
			continue
		}
		for _, img := range theme.Images {
			dims, err := catalog.ProbeImage(img.Path)
			if err != nil {
				fmt.Fprintf(out, "      %-32s (unreadable: %v)\n", filepath.Base(img.Path), err)
				continue
			}
			fmt.Fprintf(out, "      %-32s %dx%d\n", filepath.Base(img.Path), dims.Width, dims.Height)
		}
	}

	return nil
}
