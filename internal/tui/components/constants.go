package components

const (
	CardHeight         = 4  // border + title line + metadata line
	MinColumnWidth     = 28 // narrowest column before the board scrolls sideways
	columnOverhead     = 4  // top border + header + bottom padding + bottom border
	columnSidePadding  = 4  // left/right border + padding
	indicatorLines     = 1  // "▲ more above" / "▼ more below"
	ellipsis           = "…"
	pendingMarker      = "⟳"
	dropIndicatorGlyph = "▸"
)
