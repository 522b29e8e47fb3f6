package ui

import "charm.land/lipgloss/v2"

// Rosé Pine Moon palette
// https://rosepinetheme.com/palette/
var (
	ColorMuted  = lipgloss.Color("#6e6a86")
	ColorSubtle = lipgloss.Color("#908caa")
	ColorText   = lipgloss.Color("#e0def4")

	// Semantic colors
	ColorLove = lipgloss.Color("#eb6f92") // block
	ColorGold = lipgloss.Color("#f6c177") // soft allow, code change
	ColorFoam = lipgloss.Color("#9ccfd8") // allow, review
	ColorIris = lipgloss.Color("#c4a7e7") // user message
)
