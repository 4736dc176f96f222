package config

// KeyMappings defines all configurable key bindings
type KeyMappings struct {
	// Tasks
	AddTask    string `yaml:"add_task"`
	EditTask   string `yaml:"edit_task"`
	DeleteTask string `yaml:"delete_task"`
	ToggleDone string `yaml:"toggle_done"`
	ViewTask   string `yaml:"view_task"`

	// Drag
	PickUp string `yaml:"pick_up"`
	Cancel string `yaml:"cancel"`

	// Navigation
	PrevLane string `yaml:"prev_lane"`
	NextLane string `yaml:"next_lane"`
	PrevTask string `yaml:"prev_task"`
	NextTask string `yaml:"next_task"`

	// Views
	ToggleView string `yaml:"toggle_view"`
	CycleSort  string `yaml:"cycle_sort"`
	Refresh    string `yaml:"refresh"`

	// Other
	ShowHelp string `yaml:"show_help"`
	Quit     string `yaml:"quit"`
}

// DefaultKeyMappings returns the default key mappings
func DefaultKeyMappings() KeyMappings {
	return KeyMappings{
		AddTask:    "a",
		EditTask:   "e",
		DeleteTask: "d",
		ToggleDone: "x",
		ViewTask:   "enter",

		PickUp: "space",
		Cancel: "esc",

		PrevLane: "h",
		NextLane: "l",
		PrevTask: "k",
		NextTask: "j",

		ToggleView: "v",
		CycleSort:  "s",
		Refresh:    "r",

		ShowHelp: "?",
		Quit:     "q",
	}
}

// applyDefaults fills in any empty key mappings with defaults
func (km *KeyMappings) applyDefaults() {
	defaults := DefaultKeyMappings()
	pairs := []struct {
		dst *string
		def string
	}{
		{&km.AddTask, defaults.AddTask},
		{&km.EditTask, defaults.EditTask},
		{&km.DeleteTask, defaults.DeleteTask},
		{&km.ToggleDone, defaults.ToggleDone},
		{&km.ViewTask, defaults.ViewTask},
		{&km.PickUp, defaults.PickUp},
		{&km.Cancel, defaults.Cancel},
		{&km.PrevLane, defaults.PrevLane},
		{&km.NextLane, defaults.NextLane},
		{&km.PrevTask, defaults.PrevTask},
		{&km.NextTask, defaults.NextTask},
		{&km.ToggleView, defaults.ToggleView},
		{&km.CycleSort, defaults.CycleSort},
		{&km.Refresh, defaults.Refresh},
		{&km.ShowHelp, defaults.ShowHelp},
		{&km.Quit, defaults.Quit},
	}
	for _, p := range pairs {
		if *p.dst == "" {
			*p.dst = p.def
		}
	}
}
