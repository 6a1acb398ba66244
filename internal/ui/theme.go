// Package ui holds the shared palette, icons, and style helpers used by
// every interactive view.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ─── Palette ─────────────────────────────────────────────────────────────────

var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#a78bfa"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#0891b2", Dark: "#22d3ee"}
	ColorText      = lipgloss.AdaptiveColor{Light: "#1f2937", Dark: "#e5e7eb"}
	ColorTextDim   = lipgloss.AdaptiveColor{Light: "#4b5563", Dark: "#9ca3af"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "#6b7280"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#ca8a04", Dark: "#facc15"}
	ColorError     = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}

	// ColorSnake gives the pruner views their own accent.
	ColorSnake = lipgloss.AdaptiveColor{Light: "#15803d", Dark: "#34d399"}
)

// ─── Icons ───────────────────────────────────────────────────────────────────

const (
	IconBullet  = "·"
	IconBlock   = "▌"
	IconChevron = "›"
	IconPipe    = "│"
	IconFolder  = "🐍"
	IconCheck   = "✓"
	IconCross   = "✗"
	IconWarning = "⚠"
	IconError   = "✖"
	IconDiamond = "◆"
)

// ─── Style helpers ───────────────────────────────────────────────────────────

// HintBarStyle styles the keybinding hint footer.
func HintBarStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
}

// TagWarningStyle styles inline warning tags.
func TagWarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
}

// TagSuccessStyle styles inline success tags.
func TagSuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
}

// GradientBar renders a ████░░░░ bar whose fill color scales with pct
// (share of the largest value, 0–100).
func GradientBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}

	barColor := ColorSuccess
	switch {
	case pct >= 75:
		barColor = ColorError
	case pct >= 50:
		barColor = ColorWarning
	case pct >= 25:
		barColor = ColorSecondary
	}

	fStr := lipgloss.NewStyle().Foreground(barColor).Render(strings.Repeat("█", filled))
	eStr := lipgloss.NewStyle().Foreground(ColorMuted).Render(strings.Repeat("░", width-filled))
	return fStr + eStr
}
