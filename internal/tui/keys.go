package tui

import (
	"charm.land/bubbles/v2/key"

	"github.com/thenoetrevino/tablero/internal/config"
)

// KeyMap is the board's key bindings, built from the configured mappings.
// Arrow keys always work alongside the configured navigation keys.
type KeyMap struct {
	AddTask    key.Binding
	EditTask   key.Binding
	DeleteTask key.Binding
	ToggleDone key.Binding
	ViewTask   key.Binding
	PickUp     key.Binding
	Cancel     key.Binding
	PrevLane   key.Binding
	NextLane   key.Binding
	PrevTask   key.Binding
	NextTask   key.Binding
	ToggleView key.Binding
	CycleSort  key.Binding
	Refresh    key.Binding
	ShowHelp   key.Binding
	Quit       key.Binding
	Confirm    key.Binding
	Deny       key.Binding
}

// NewKeyMap builds bindings from the configured key mappings
func NewKeyMap(km config.KeyMappings) KeyMap {
	return KeyMap{
		AddTask:    key.NewBinding(key.WithKeys(km.AddTask), key.WithHelp(km.AddTask, "add task")),
		EditTask:   key.NewBinding(key.WithKeys(km.EditTask), key.WithHelp(km.EditTask, "edit title")),
		DeleteTask: key.NewBinding(key.WithKeys(km.DeleteTask), key.WithHelp(km.DeleteTask, "delete task")),
		ToggleDone: key.NewBinding(key.WithKeys(km.ToggleDone), key.WithHelp(km.ToggleDone, "toggle done")),
		ViewTask:   key.NewBinding(key.WithKeys(km.ViewTask), key.WithHelp(km.ViewTask, "view task")),
		PickUp:     key.NewBinding(key.WithKeys(km.PickUp), key.WithHelp(km.PickUp, "pick up / drop")),
		Cancel:     key.NewBinding(key.WithKeys(km.Cancel), key.WithHelp(km.Cancel, "cancel")),
		PrevLane:   key.NewBinding(key.WithKeys(km.PrevLane, "left"), key.WithHelp(km.PrevLane+"/←", "previous lane")),
		NextLane:   key.NewBinding(key.WithKeys(km.NextLane, "right"), key.WithHelp(km.NextLane+"/→", "next lane")),
		PrevTask:   key.NewBinding(key.WithKeys(km.PrevTask, "up"), key.WithHelp(km.PrevTask+"/↑", "previous task")),
		NextTask:   key.NewBinding(key.WithKeys(km.NextTask, "down"), key.WithHelp(km.NextTask+"/↓", "next task")),
		ToggleView: key.NewBinding(key.WithKeys(km.ToggleView), key.WithHelp(km.ToggleView, "board / list")),
		CycleSort:  key.NewBinding(key.WithKeys(km.CycleSort), key.WithHelp(km.CycleSort, "cycle sort (list)")),
		Refresh:    key.NewBinding(key.WithKeys(km.Refresh), key.WithHelp(km.Refresh, "refresh / retry")),
		ShowHelp:   key.NewBinding(key.WithKeys(km.ShowHelp), key.WithHelp(km.ShowHelp, "help")),
		Quit:       key.NewBinding(key.WithKeys(km.Quit, "ctrl+c"), key.WithHelp(km.Quit, "quit")),
		Confirm:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
		Deny:       key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "cancel")),
	}
}

// SetReadOnly disables every binding that would change the board
func (k *KeyMap) SetReadOnly(readOnly bool) {
	for _, b := range k.mutations() {
		b.SetEnabled(!readOnly)
	}
}

func (k *KeyMap) mutations() []*key.Binding {
	return []*key.Binding{&k.AddTask, &k.EditTask, &k.DeleteTask, &k.ToggleDone, &k.PickUp}
}

// HelpGroups returns the bindings shown on the help overlay, grouped
func (k KeyMap) HelpGroups() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevLane, k.NextLane, k.PrevTask, k.NextTask, k.ViewTask},
		{k.AddTask, k.EditTask, k.DeleteTask, k.ToggleDone, k.PickUp, k.Cancel},
		{k.ToggleView, k.CycleSort, k.Refresh, k.ShowHelp, k.Quit},
	}
}
