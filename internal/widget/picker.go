package widget

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jglaspey/givefeedback/internal/screenshot"
)

// imageItem is one attachable file in the upload picker.
type imageItem struct {
	name string
	path string
}

func (i imageItem) Title() string       { return i.name }
func (i imageItem) Description() string { return "" }
func (i imageItem) FilterValue() string { return i.name }

type imageItemDelegate struct{}

func (d imageItemDelegate) Height() int                             { return 1 }
func (d imageItemDelegate) Spacing() int                            { return 0 }
func (d imageItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d imageItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(imageItem)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = lipgloss.NewStyle().Foreground(colorFocus).Render("> ")
	}
	fmt.Fprintf(w, "%s%s", prefix, entry.name)
}

func newPickerList() list.Model {
	l := list.New([]list.Item{}, imageItemDelegate{}, 0, 0)
	l.Title = "Attach image"
	l.Styles.Title = titleStyle
	l.Styles.NoItems = lipgloss.NewStyle()
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.SetSize(50, 12)
	return l
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// loadImagesCmd scans dir for image files, non-recursively, sorted by name.
func loadImagesCmd(session int, dir string) tea.Cmd {
	return func() tea.Msg {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return filesLoadedMsg{session: session, err: err}
		}
		var items []list.Item
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if !imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
				continue
			}
			items = append(items, imageItem{name: entry.Name(), path: filepath.Join(dir, entry.Name())})
		}
		sort.Slice(items, func(a, b int) bool {
			return items[a].(imageItem).name < items[b].(imageItem).name
		})
		return filesLoadedMsg{session: session, items: items}
	}
}

// uploadCmd reads the picked file and encodes it for storage.
func uploadCmd(session int, path string) tea.Cmd {
	return func() tea.Msg {
		b64, err := screenshot.EncodeFile(path)
		return uploadDoneMsg{session: session, file: filepath.Base(path), image: b64, err: err}
	}
}
