package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/jmylchreest/wallcycle/internal/catalog"
	"github.com/jmylchreest/wallcycle/internal/pipeline"
	"github.com/jmylchreest/wallcycle/internal/rotation"
)

// promptAction classifies one line of menu input.
type promptAction int

const (
	actionIndex promptAction = iota
	actionRandom
	actionQuit
)

// parsePromptInput interprets one line of menu input. Accepted forms: a
// 1-based theme index, R/random, or Q/quit/exit, all case-insensitive.
// Out-of-range indexes are rejected, never clamped.
func parsePromptInput(input string, themeCount int) (promptAction, int, error) {
	trimmed := strings.ToLower(strings.TrimSpace(input))
	switch trimmed {
	case "":
		return 0, 0, fmt.Errorf("no selection entered")
	case "r", "random":
		return actionRandom, 0, nil
	case "q", "quit", "exit":
		return actionQuit, 0, nil
	}

	index, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, 0, fmt.Errorf("not a theme number: %q", trimmed)
	}
	if index < 1 || index > themeCount {
		return 0, 0, fmt.Errorf("%w: %d (choose 1-%d)", rotation.ErrInvalidIndex, index, themeCount)
	}
	return actionIndex, index, nil
}

// printMenu renders the numbered theme list. Themes with no images are
// still listed so the user can see they carry no assets.
func printMenu(w io.Writer, cat catalog.Catalog) {
	heading := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)

	heading.Fprintf(w, "Themes in %s:\n", cat.Root)
	for i, theme := range cat.Themes {
		switch theme.Count() {
		case 0:
			fmt.Fprintf(w, "  %2d) %s ", i+1, theme.Name)
			dim.Fprintln(w, "(no images)")
		case 1:
			fmt.Fprintf(w, "  %2d) %s (1 image)\n", i+1, theme.Name)
		default:
			fmt.Fprintf(w, "  %2d) %s (%d images)\n", i+1, theme.Name, theme.Count())
		}
	}
	fmt.Fprintln(w, "  R) random theme")
	fmt.Fprintln(w, "  Q) quit")
}

// interactiveSelector returns a ThemeSelector that shows the menu on out
// and re-prompts on invalid input until a valid choice or quit arrives.
func interactiveSelector(in io.Reader, out io.Writer, picker *rotation.Picker) pipeline.ThemeSelector {
	return func(ctx context.Context, cat catalog.Catalog) (pipeline.Selection, error) {
		printMenu(out, cat)

		scanner := bufio.NewScanner(in)
		for {
			fmt.Fprint(out, "Select a theme: ")
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return pipeline.Selection{}, fmt.Errorf("failed to read selection: %w", err)
				}
				// Input closed; treat like an explicit quit.
				fmt.Fprintln(out)
				return pipeline.Selection{Abort: true}, nil
			}

			action, index, err := parsePromptInput(scanner.Text(), cat.Len())
			if err != nil {
				fmt.Fprintf(out, "Invalid selection: %v\n", err)
				continue
			}

			switch action {
			case actionQuit:
				return pipeline.Selection{Abort: true}, nil
			case actionRandom:
				theme, err := picker.RandomTheme(cat)
				if err != nil {
					return pipeline.Selection{}, err
				}
				return pipeline.Selection{Theme: theme}, nil
			default:
				theme, err := rotation.ThemeByIndex(cat, index)
				if err != nil {
					fmt.Fprintf(out, "Invalid selection: %v\n", err)
					continue
				}
				return pipeline.Selection{Theme: theme}, nil
			}
		}
	}
}

// indexSelector returns a non-interactive selector for a fixed 1-based
// index. Invalid indexes error out instead of re-prompting.
func indexSelector(index int) pipeline.ThemeSelector {
	return func(ctx context.Context, cat catalog.Catalog) (pipeline.Selection, error) {
		theme, err := rotation.ThemeByIndex(cat, index)
		if err != nil {
			return pipeline.Selection{}, err
		}
		return pipeline.Selection{Theme: theme}, nil
	}
}

// randomSelector returns a selector choosing uniformly among all themes.
func randomSelector(picker *rotation.Picker) pipeline.ThemeSelector {
	return func(ctx context.Context, cat catalog.Catalog) (pipeline.Selection, error) {
		theme, err := picker.RandomTheme(cat)
		if err != nil {
			return pipeline.Selection{}, err
		}
		return pipeline.Selection{Theme: theme}, nil
	}
}
