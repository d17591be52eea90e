package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Pause         key.Binding
	SeekBack      key.Binding
	SeekForward   key.Binding
	VolumeUp      key.Binding
	VolumeDown    key.Binding
	ThresholdUp   key.Binding
	ThresholdDown key.Binding
	Strict        key.Binding
	Visualizer    key.Binding
	Next          key.Binding
	Previous      key.Binding
	Shuffle       key.Binding
	Repeat        key.Binding
	Help          key.Binding
	Quit          key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Pause:         key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		SeekBack:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "-5s")),
		SeekForward:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "+5s")),
		VolumeUp:      key.NewBinding(key.WithKeys("+", "=", "up"), key.WithHelp("+", "volume up")),
		VolumeDown:    key.NewBinding(key.WithKeys("-", "down"), key.WithHelp("-", "volume down")),
		ThresholdUp:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "threshold +5 dB")),
		ThresholdDown: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "threshold -5 dB")),
		Strict:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "strict")),
		Visualizer:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "visualizer")),
		Next:          key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		Previous:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		Shuffle:       key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "shuffle")),
		Repeat:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repeat")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:          key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.ThresholdDown, k.ThresholdUp, k.Strict, k.Visualizer, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.SeekBack, k.SeekForward, k.VolumeUp, k.VolumeDown},
		{k.ThresholdDown, k.ThresholdUp, k.Strict, k.Visualizer},
		{k.Next, k.Previous, k.Shuffle, k.Repeat},
		{k.Help, k.Quit},
	}
}
