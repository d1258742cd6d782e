package cli

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/jmylchreest/wallcycle/internal/catalog"
	"github.com/jmylchreest/wallcycle/internal/rotation"
)

func TestParsePromptInput(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		themeCount int
		want       promptAction
		wantIndex  int
		wantErr    bool
	}{
		{name: "first index", input: "1", themeCount: 3, want: actionIndex, wantIndex: 1},
		{name: "last index", input: "3", themeCount: 3, want: actionIndex, wantIndex: 3},
		{name: "index with spaces", input: "  2  ", themeCount: 3, want: actionIndex, wantIndex: 2},
		{name: "random short", input: "r", themeCount: 3, want: actionRandom},
		{name: "random upper", input: "R", themeCount: 3, want: actionRandom},
		{name: "random word", input: "Random", themeCount: 3, want: actionRandom},
		{name: "quit short", input: "q", themeCount: 3, want: actionQuit},
		{name: "quit upper", input: "Q", themeCount: 3, want: actionQuit},
		{name: "quit word", input: "quit", themeCount: 3, want: actionQuit},
		{name: "exit word", input: "EXIT", themeCount: 3, want: actionQuit},
		{name: "zero index", input: "0", themeCount: 3, wantErr: true},
		{name: "negative index", input: "-1", themeCount: 3, wantErr: true},
		{name: "past end", input: "4", themeCount: 3, wantErr: true},
		{name: "non-numeric", input: "banana", themeCount: 3, wantErr: true},
		{name: "empty", input: "", themeCount: 3, wantErr: true},
		{name: "blank", input: "   ", themeCount: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, index, err := parsePromptInput(tt.input, tt.themeCount)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parsePromptInput(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePromptInput(%q): %v", tt.input, err)
			}
			if action != tt.want {
				t.Errorf("action = %v, want %v", action, tt.want)
			}
			if action == actionIndex && index != tt.wantIndex {
				t.Errorf("index = %d, want %d", index, tt.wantIndex)
			}
		})
	}
}

func TestParsePromptInputOutOfRangeIsInvalidIndex(t *testing.T) {
	_, _, err := parsePromptInput("7", 3)
	if !errors.Is(err, rotation.ErrInvalidIndex) {
		t.Errorf("error = %v, want ErrInvalidIndex", err)
	}
}

func promptCatalog() catalog.Catalog {
	return catalog.Catalog{
		Root: "/walls",
		Themes: []catalog.Theme{
			{Name: "autumn", Path: "/walls/autumn", Images: []catalog.Image{{Path: "/walls/autumn/a.jpg", Ext: ".jpg"}}},
			{Name: "forest", Path: "/walls/forest"},
			{Name: "ocean", Path: "/walls/ocean", Images: []catalog.Image{
				{Path: "/walls/ocean/o1.jpg", Ext: ".jpg"},
				{Path: "/walls/ocean/o2.jpg", Ext: ".jpg"},
			}},
		},
	}
}

func testRotationPicker() *rotation.Picker {
	return rotation.NewPicker(rand.New(rand.NewSource(1)))
}

func TestInteractiveSelectorIndex(t *testing.T) {
	var out bytes.Buffer
	selector := interactiveSelector(strings.NewReader("3\n"), &out, testRotationPicker())

	selection, err := selector(context.Background(), promptCatalog())
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	if selection.Abort {
		t.Fatal("unexpected abort")
	}
	if selection.Theme.Name != "ocean" {
		t.Errorf("theme = %s, want ocean", selection.Theme.Name)
	}
}

func TestInteractiveSelectorReprompts(t *testing.T) {
	var out bytes.Buffer
	// Two invalid entries, then a valid index.
	selector := interactiveSelector(strings.NewReader("9\nbanana\n1\n"), &out, testRotationPicker())

	selection, err := selector(context.Background(), promptCatalog())
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	if selection.Theme.Name != "autumn" {
		t.Errorf("theme = %s, want autumn", selection.Theme.Name)
	}
	if got := strings.Count(out.String(), "Invalid selection"); got != 2 {
		t.Errorf("saw %d re-prompts, want 2\noutput:\n%s", got, out.String())
	}
}

func TestInteractiveSelectorQuit(t *testing.T) {
	var out bytes.Buffer
	selector := interactiveSelector(strings.NewReader("q\n"), &out, testRotationPicker())

	selection, err := selector(context.Background(), promptCatalog())
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	if !selection.Abort {
		t.Error("quit did not abort")
	}
}

func TestInteractiveSelectorClosedInputAborts(t *testing.T) {
	var out bytes.Buffer
	selector := interactiveSelector(strings.NewReader(""), &out, testRotationPicker())

	selection, err := selector(context.Background(), promptCatalog())
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	if !selection.Abort {
		t.Error("closed stdin did not abort")
	}
}

func TestInteractiveSelectorRandom(t *testing.T) {
	var out bytes.Buffer
	selector := interactiveSelector(strings.NewReader("r\n"), &out, testRotationPicker())

	selection, err := selector(context.Background(), promptCatalog())
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	if selection.Abort || selection.Theme.Name == "" {
		t.Errorf("random selection = %+v, want a theme", selection)
	}
}

func TestPrintMenuListsEmptyThemes(t *testing.T) {
	var out bytes.Buffer
	printMenu(&out, promptCatalog())

	rendered := out.String()
	for _, want := range []string{"autumn", "forest", "ocean", "no images", "(2 images)", "random theme"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("menu output missing %q:\n%s", want, rendered)
		}
	}
}
