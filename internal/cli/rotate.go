package cli

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	ps "github.com/mitchellh/go-ps"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/wallcycle/internal/config"
	"github.com/jmylchreest/wallcycle/internal/desktop"
	"github.com/jmylchreest/wallcycle/internal/lockscreen"
	"github.com/jmylchreest/wallcycle/internal/palette"
	"github.com/jmylchreest/wallcycle/internal/pipeline"
	"github.com/jmylchreest/wallcycle/internal/proc"
	"github.com/jmylchreest/wallcycle/internal/rotation"
)

var (
	rotateRoot           string
	rotateConfigPath     string
	rotateStateFile      string
	rotateThemeIndex     int
	rotateRandom         bool
	rotatePaletteCmd     string
	rotatePaletteTimeout time.Duration
	rotateSkipLockScreen bool
	rotateSkipPalette    bool
)

// rotateCmd represents the rotate command
var rotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Pick and apply a wallpaper from a theme folder",
	Long: `Rotate picks a wallpaper from a theme folder and applies it.

With no mode flag, an interactive menu lists the discovered themes and
accepts a theme number, R for a random theme, or Q to quit. The previous
wallpaper for the chosen theme is avoided when an alternative exists.

The chosen wallpaper is applied to the desktop, mirrored onto the lock
screen (best effort), recorded in the rotation state, and finally handed
to the external palette tool to regenerate the colour theme.

Examples:
  # Interactive menu
  wallcycle rotate

  # Third theme in sorted order, no prompting
  wallcycle rotate --theme 3

  # Random theme, custom catalog root
  wallcycle rotate --random --root ~/walls

  # Skip the external palette tool
  wallcycle rotate --random --skip-palette`,
	RunE: runRotate,
}

func init() {
	rotateCmd.Flags().StringVar(&rotateRoot, "root", "", "catalog root holding theme folders (default from config)")
	rotateCmd.Flags().StringVar(&rotateConfigPath, "config", "", "config file (default ~/.config/wallcycle/config.toml)")
	rotateCmd.Flags().StringVar(&rotateStateFile, "state-file", "", "rotation state file (default under user config dir)")
	rotateCmd.Flags().IntVar(&rotateThemeIndex, "theme", 0, "1-based theme index, skips the menu")
	rotateCmd.Flags().BoolVar(&rotateRandom, "random", false, "pick a random theme, skips the menu")
	rotateCmd.Flags().StringVar(&rotatePaletteCmd, "palette-cmd", "", "palette tool command (default from config)")
	rotateCmd.Flags().DurationVar(&rotatePaletteTimeout, "palette-timeout", 0, "palette tool timeout, 0 uses the config value")
	rotateCmd.Flags().BoolVar(&rotateSkipLockScreen, "skip-lockscreen", false, "do not touch the lock screen")
	rotateCmd.Flags().BoolVar(&rotateSkipPalette, "skip-palette", false, "do not run the palette tool")
	rotateCmd.MarkFlagsMutuallyExclusive("theme", "random")
}

// runRotate executes the rotate command.
func runRotate(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := config.Load(rotateConfigPath)
	if err != nil {
		return err
	}

	root := rotateRoot
	if root == "" {
		root = cfg.WallpaperRoot
	}

	statePath := rotateStateFile
	if statePath == "" {
		statePath = cfg.StateFile
	}
	if statePath == "" {
		statePath, err = rotation.DefaultStatePath()
		if err != nil {
			return err
		}
	}

	warnIfAnotherInstance(logger)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	picker := rotation.NewPicker(rng)
	store := rotation.NewStore(statePath, logger)
	runner := proc.NewExecRunner()

	paletteOpts := []palette.Option{}
	if tool := paletteCommand(cfg); tool != "" {
		paletteOpts = append(paletteOpts, palette.WithCommand(tool, cfg.PaletteArgs...))
	}
	timeout := cfg.PaletteTimeout
	if rotatePaletteTimeout > 0 {
		timeout = rotatePaletteTimeout
	}
	paletteOpts = append(paletteOpts, palette.WithTimeout(timeout))

	ctrlOpts := []pipeline.Option{}
	if rotateSkipLockScreen {
		ctrlOpts = append(ctrlOpts, pipeline.WithSkipLockScreen())
	}
	if rotateSkipPalette {
		ctrlOpts = append(ctrlOpts, pipeline.WithSkipPalette())
	}

	controller := pipeline.New(
		store,
		picker,
		desktop.New(runner, logger),
		lockscreen.New(runner, logger),
		palette.New(runner, logger, paletteOpts...),
		logger,
		ctrlOpts...,
	)

	selector, err := buildSelector(picker)
	if err != nil {
		return err
	}

	result, err := controller.Run(cmd.Context(), root, selector)
	if err != nil {
		return err
	}

	switch result.Stage {
	case pipeline.StageAborted:
		fmt.Fprintln(cmd.OutOrStdout(), "No changes made.")
	case pipeline.StageDone:
		success := color.New(color.FgGreen)
		success.Fprintf(cmd.OutOrStdout(), "Applied %s from theme %s.\n",
			filepath.Base(result.Wallpaper), result.Theme)
	}

	return nil
}

// buildSelector resolves the selection mode from the mode flags, falling
// back to the interactive menu on a terminal.
func buildSelector(picker *rotation.Picker) (pipeline.ThemeSelector, error) {
	switch {
	case rotateThemeIndex != 0:
		return indexSelector(rotateThemeIndex), nil
	case rotateRandom:
		return randomSelector(picker), nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, fmt.Errorf("stdin is not a terminal; use --theme or --random")
	}
	return interactiveSelector(os.Stdin, os.Stdout, picker), nil
}

// warnIfAnotherInstance logs when another wallcycle process is already
// running. The state file has no lock; concurrent runs race on it with
// last-write-wins, so surfacing the overlap is all we do.
func warnIfAnotherInstance(logger hclog.Logger) {
	processes, err := ps.Processes()
	if err != nil {
		return
	}

	self := os.Getpid()
	name := strings.TrimSuffix(filepath.Base(os.Args[0]), ".exe")
	for _, p := range processes {
		if p.Pid() == self {
			continue
		}
		if strings.TrimSuffix(p.Executable(), ".exe") == name {
			logger.Warn("another wallcycle process is running; rotation state uses last write wins",
				"pid", p.Pid())
			return
		}
	}
}

// paletteCommand resolves the palette command from flag then config.
func paletteCommand(cfg config.Config) string {
	if rotatePaletteCmd != "" {
		return rotatePaletteCmd
	}
	return cfg.PaletteCommand
}
