// Wallcycle - a theme-based wallpaper rotator
//
// Wallcycle rotates desktop wallpapers organised into theme folders,
// avoids immediate repeats, mirrors the choice onto the lock screen, and
// triggers an external palette tool to rebuild the derived colour theme.
package main

import (
	"github.com/jmylchreest/wallcycle/internal/cli"
)

func main() {
	cli.Execute()
}
