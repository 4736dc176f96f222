package colors

// ColorScheme defines all configurable color values
type ColorScheme struct {
	// Preset name (e.g., "default", "monochrome", "wave")
	Preset string `yaml:"preset"`

	// Primary accent color (used for selections, titles, highlights)
	Accent string `yaml:"accent"`

	// Semantic colors
	Create string `yaml:"create"`
	Edit   string `yaml:"edit"`
	Delete string `yaml:"delete"`

	// Board elements
	LaneBorder     string `yaml:"lane_border"`
	CardBorder     string `yaml:"card_border"`
	SelectedBorder string `yaml:"selected_border"`
	SelectedBg     string `yaml:"selected_bg"`
	DropTarget     string `yaml:"drop_target"`
	Done           string `yaml:"done"`
	Overdue        string `yaml:"overdue"`

	// Text colors
	Title  string `yaml:"title"`
	Subtle string `yaml:"subtle"`
	Normal string `yaml:"normal"`

	// Notification colors (foreground/background pairs)
	InfoFg    string `yaml:"info_fg"`
	InfoBg    string `yaml:"info_bg"`
	WarningFg string `yaml:"warning_fg"`
	WarningBg string `yaml:"warning_bg"`
	ErrorFg   string `yaml:"error_fg"`
	ErrorBg   string `yaml:"error_bg"`

	StatusBarBg   string `yaml:"status_bar_bg"`
	StatusBarText string `yaml:"status_bar_text"`
}

// GetPreset returns a preset color scheme by name. Unknown names get Default.
func GetPreset(name string) *ColorScheme {
	switch name {
	case "monochrome":
		return Monochrome()
	case "wave":
		return Wave()
	default:
		return Default()
	}
}

// Presets lists the preset names GetPreset understands.
func Presets() []string {
	return []string{"default", "monochrome", "wave"}
}

// fields exposes every color slot so merge and default logic stay in one loop.
func (c *ColorScheme) fields() []*string {
	return []*string{
		&c.Accent, &c.Create, &c.Edit, &c.Delete,
		&c.LaneBorder, &c.CardBorder, &c.SelectedBorder, &c.SelectedBg, &c.DropTarget,
		&c.Done, &c.Overdue,
		&c.Title, &c.Subtle, &c.Normal,
		&c.InfoFg, &c.InfoBg, &c.WarningFg, &c.WarningBg, &c.ErrorFg, &c.ErrorBg,
		&c.StatusBarBg, &c.StatusBarText,
	}
}

// ApplyDefaults fills in missing color values using the preset as base
func (c *ColorScheme) ApplyDefaults() {
	preset := GetPreset(c.Preset).fields()
	for i, f := range c.fields() {
		if *f == "" {
			*f = *preset[i]
		}
	}
	if c.Preset == "" {
		c.Preset = "default"
	}
}

// MergeFrom overrides c with every non-empty value of other. A preset change
// rebases c on the new preset before applying other's explicit colors.
func (c *ColorScheme) MergeFrom(other ColorScheme) {
	if other.Preset != "" && other.Preset != c.Preset {
		*c = *GetPreset(other.Preset)
	}
	src := other.fields()
	for i, f := range c.fields() {
		if *src[i] != "" {
			*f = *src[i]
		}
	}
}
