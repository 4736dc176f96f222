package theme

import "github.com/thenoetrevino/tablero/internal/config"

// Colors holds the current theme colors, initialized by Init
var (
	Highlight      string
	Create         string
	Edit           string
	Delete         string
	LaneBorder     string
	CardBorder     string
	SelectedBorder string
	SelectedBg     string
	DropTarget     string
	Done           string
	Overdue        string
	Title          string
	Subtle         string
	Normal         string
	InfoFg         string
	InfoBg         string
	WarningFg      string
	WarningBg      string
	ErrorFg        string
	ErrorBg        string
	StatusBarBg    string
	StatusBarText  string
)

func init() {
	Init(config.Default().ColorScheme)
}

// Init initializes the theme colors from the given color scheme
func Init(colors config.ColorScheme) {
	Highlight = colors.Accent
	Create = colors.Create
	Edit = colors.Edit
	Delete = colors.Delete
	LaneBorder = colors.LaneBorder
	CardBorder = colors.CardBorder
	SelectedBorder = colors.SelectedBorder
	SelectedBg = colors.SelectedBg
	DropTarget = colors.DropTarget
	Done = colors.Done
	Overdue = colors.Overdue
	Title = colors.Title
	Subtle = colors.Subtle
	Normal = colors.Normal
	InfoFg = colors.InfoFg
	InfoBg = colors.InfoBg
	WarningFg = colors.WarningFg
	WarningBg = colors.WarningBg
	ErrorFg = colors.ErrorFg
	ErrorBg = colors.ErrorBg
	StatusBarBg = colors.StatusBarBg
	StatusBarText = colors.StatusBarText
}
