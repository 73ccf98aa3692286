package highlight

// Edge widths and text opacities applied per class.
const (
	DefaultEdgeWidth   = 1
	ConnectedEdgeWidth = 3
	TracedEdgeWidth    = 5

	ActiveOpacity   = 1.0
	InactiveOpacity = 0.2
)

// Colors used outside the level palette.
const (
	TraceColor = "#ff5f56"
	DimColor   = "#3c3c3c"
)

var levelPalette = []string{
	"#f5a623", // roots
	"#7ed321",
	"#4a90e2",
	"#bd10e0",
	"#50e3c2",
	"#b8e986",
	"#9013fe",
}

// LevelColor returns the color for nodes and edges at a tree level. Levels
// past the end of the palette reuse its last color.
func LevelColor(level int) string {
	switch {
	case level < 0:
		return levelPalette[0]
	case level >= len(levelPalette):
		return levelPalette[len(levelPalette)-1]
	default:
		return levelPalette[level]
	}
}
