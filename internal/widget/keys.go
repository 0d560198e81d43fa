package widget

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Open    key.Binding
	Close   key.Binding
	Submit  key.Binding
	Capture key.Binding
	Upload  key.Binding
	Remove  key.Binding
	Retry   key.Binding
	Next    key.Binding
	Prev    key.Binding
	Cycle   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Open:    key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "feedback")),
		Close:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Submit:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "send")),
		Capture: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "capture")),
		Upload:  key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "attach file")),
		Remove:  key.NewBinding(key.WithKeys("x", "backspace"), key.WithHelp("x", "remove")),
		Retry:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "try again")),
		Next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Cycle:   key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "change")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Cycle, k.Capture, k.Upload, k.Submit, k.Close}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Cycle},
		{k.Capture, k.Upload, k.Remove},
		{k.Submit, k.Close},
	}
}
