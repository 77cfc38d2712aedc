package parameter

import "time"

// Terminal viewer
const (
	ViewFrameInterval = 50 * time.Millisecond
	ViewStatusRows    = 2    // Rows reserved below the map
	ViewMapPadding    = 15.0 // World units around the fitted layout
	ViewCellAspect    = 2.0  // Terminal cells are about twice as tall as wide
)
