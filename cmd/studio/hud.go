package main

import (
	"fmt"
	"strings"

	"github.com/Faultbox/astramesh/internal/scene"
)

// Title renders the window title HUD for a scene.
func Title(m scene.Model, level, fps int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "AstraMesh | %s | res %d simplify %.1f | LOD%d",
		m.Tool, m.Mesh.Resolution, m.Mesh.Simplify, level)

	play := "paused"
	if m.Animation.Playing {
		play = "playing"
	}
	fmt.Fprintf(&b, " | %s %.2f/%.1fs", play, m.Animation.Time, m.Animation.Duration)

	if m.AI.Busy {
		fmt.Fprintf(&b, " | generating %d%%", m.AI.Progress)
	}
	if fps > 0 {
		fmt.Fprintf(&b, " | %d fps", fps)
	}
	return b.String()
}
