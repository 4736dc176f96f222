package colors

// Default returns the default color scheme (purple theme)
func Default() *ColorScheme {
	return &ColorScheme{
		Preset: "default",
		Accent: "#874BFD",

		Create: "#5FD75F",
		Edit:   "#5F87D7",
		Delete: "#FF0000",

		LaneBorder:     "#5F87D7",
		CardBorder:     "#585858",
		SelectedBorder: "#D75FD7",
		SelectedBg:     "#3A3A3A",
		DropTarget:     "#FFD700",
		Done:           "#5FD75F",
		Overdue:        "#FF5F5F",

		Title:  "#D75FD7",
		Subtle: "#585858",
		Normal: "#D0D0D0",

		InfoFg:    "#00AFFF",
		InfoBg:    "#00005F",
		WarningFg: "#FFD700",
		WarningBg: "#875F00",
		ErrorFg:   "#FF0000",
		ErrorBg:   "#5F0000",

		StatusBarBg:   "#874BFD",
		StatusBarText: "#D0D0D0",
	}
}

// Monochrome returns a black and white color scheme
func Monochrome() *ColorScheme {
	return &ColorScheme{
		Preset: "monochrome",
		Accent: "#FFFFFF",

		Create: "#FFFFFF",
		Edit:   "#FFFFFF",
		Delete: "#FFFFFF",

		LaneBorder:     "#FFFFFF",
		CardBorder:     "#585858",
		SelectedBorder: "#FFFFFF",
		SelectedBg:     "#3A3A3A",
		DropTarget:     "#D0D0D0",
		Done:           "#8A8A8A",
		Overdue:        "#FFFFFF",

		Title:  "#FFFFFF",
		Subtle: "#585858",
		Normal: "#D0D0D0",

		InfoFg:    "#FFFFFF",
		InfoBg:    "#1C1C1C",
		WarningFg: "#FFFFFF",
		WarningBg: "#3A3A3A",
		ErrorFg:   "#FFFFFF",
		ErrorBg:   "#585858",

		StatusBarBg:   "#3A3A3A",
		StatusBarText: "#FFFFFF",
	}
}

// Wave returns the Kanagawa Wave color scheme (dark theme with blue/purple accents)
func Wave() *ColorScheme {
	return &ColorScheme{
		Preset: "wave",
		Accent: "#957FB8",

		Create: "#98BB6C",
		Edit:   "#7E9CD8",
		Delete: "#FF5D62",

		LaneBorder:     "#54546D",
		CardBorder:     "#363646",
		SelectedBorder: "#7AA89F",
		SelectedBg:     "#223249",
		DropTarget:     "#FF9E3B",
		Done:           "#76946A",
		Overdue:        "#E82424",

		Title:  "#7E9CD8",
		Subtle: "#727169",
		Normal: "#DCD7BA",

		InfoFg:    "#658594",
		InfoBg:    "#252535",
		WarningFg: "#FF9E3B",
		WarningBg: "#49443C",
		ErrorFg:   "#E82424",
		ErrorBg:   "#43242B",

		StatusBarBg:   "#957FB8",
		StatusBarText: "#DCD7BA",
	}
}
