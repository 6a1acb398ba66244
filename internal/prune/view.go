package prune

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/liamfpower/venvprune/internal/core"
	"github.com/liamfpower/venvprune/internal/ui"
	"github.com/liamfpower/venvprune/internal/venv"
)

// ─── Color tokens ────────────────────────────────────────────────────────────

var (
	clrDim    = ui.ColorMuted
	clrEnv    = ui.ColorSnake
	clrCursor = ui.ColorPrimary
)

// ─── Top-level view ──────────────────────────────────────────────────────────

func (m Model) renderView() string {
	if m.quitting {
		return ""
	}
	w := m.width
	if w < 46 {
		w = 46
	}

	var s strings.Builder
	s.WriteString(m.renderHeader(w))
	s.WriteString("\n")

	switch m.phase {
	case phaseScanning:
		s.WriteString(m.renderScanning())
	case phaseSelect:
		s.WriteString(m.renderList(w))
	case phaseConfirm:
		s.WriteString(m.renderList(w))
		s.WriteString("\n")
		s.WriteString(m.renderConfirm(w))
	case phaseDeleting:
		s.WriteString(m.renderDeleting(w))
	case phaseDone:
		s.WriteString(m.renderDone(w))
	}

	s.WriteString("\n")
	s.WriteString(m.renderFooter(w))
	return s.String()
}

// ─── Header ──────────────────────────────────────────────────────────────────

func (m Model) renderHeader(w int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorSnake).
		Render("  " + ui.IconFolder + " Venv Pruner")

	var info string
	switch m.phase {
	case phaseScanning:
		info = fmt.Sprintf("  scanning %d roots", len(m.opts.Roots))
	default:
		info = fmt.Sprintf("  %d environments  %s  found in %.2fs",
			len(m.candidates),
			core.FormatSize(totalSize(m.candidates)),
			m.elapsed.Seconds())
	}
	infoLine := lipgloss.NewStyle().
		Foreground(ui.ColorTextDim).
		Render(info)

	inner := lipgloss.JoinVertical(lipgloss.Left, title, infoLine)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorSnake).
		Width(w - 2).
		Render(inner)
}

// ─── Scanning ────────────────────────────────────────────────────────────────

func (m Model) renderScanning() string {
	return fmt.Sprintf("\n  %s Searching for virtual environments… %d directories visited",
		m.spinner.View(), m.scanner.ScannedCount())
}

// ─── Selection list ──────────────────────────────────────────────────────────

func (m Model) renderList(w int) string {
	if len(m.candidates) == 0 {
		return lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render("  No virtual environments found.")
	}

	vh := m.viewportHeight()
	barWidth := 16
	if w > 110 {
		barWidth = 24
	} else if w > 90 {
		barWidth = 20
	}

	largest := m.candidates[0].Size
	for _, c := range m.candidates {
		if c.Size > largest {
			largest = c.Size
		}
	}

	var lines []string
	for i := m.offset; i < len(m.candidates) && i < m.offset+vh; i++ {
		lines = append(lines, m.renderEntry(m.candidates[i], i, largest, barWidth))
	}

	if len(m.candidates) > vh {
		hint := lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render(fmt.Sprintf("  ── %d/%d entries ──",
				min(m.offset+vh, len(m.candidates)), len(m.candidates)))
		lines = append(lines, hint)
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderEntry(c venv.Candidate, i int, largest int64, barWidth int) string {
	var pct float64
	if largest > 0 {
		pct = float64(c.Size) / float64(largest) * 100
	}
	bar := ui.GradientBar(pct, barWidth)

	check := "[ ]"
	checkStyle := lipgloss.NewStyle().Foreground(clrDim)
	if m.selected[i] {
		check = "[" + ui.IconCheck + "]"
		checkStyle = lipgloss.NewStyle().Foreground(ui.ColorSnake).Bold(true)
	}

	name := c.Name
	maxName := 24
	if len(name) > maxName {
		name = name[:maxName-1] + "…"
	}
	nameStr := lipgloss.NewStyle().Foreground(clrEnv).Bold(true).Render(fmt.Sprintf("%-*s", maxName, name))

	version := c.PythonVersion
	if version == "" {
		version = "?"
	}
	tag := string(c.Kind) + " " + version
	tagStr := lipgloss.NewStyle().Foreground(ui.ColorSecondary).Render(fmt.Sprintf("%-14s", tag))

	sizeStr := fmt.Sprintf("%10s", core.FormatSize(c.Size))

	maxPath := m.width - barWidth - maxName - 40
	if maxPath < 16 {
		maxPath = 16
	}
	path := c.Path
	if len(path) > maxPath {
		path = "…" + path[len(path)-maxPath+1:]
	}
	pathStr := lipgloss.NewStyle().Foreground(clrDim).Render(path)

	line := fmt.Sprintf("  %s %s %s  %s  %s  %s",
		checkStyle.Render(check), bar, sizeStr, nameStr, tagStr, pathStr)

	if i == m.cursor && m.phase == phaseSelect {
		cursor := lipgloss.NewStyle().Foreground(clrCursor).Bold(true).Render(ui.IconBlock)
		line = " " + cursor + line[2:]
	}

	return line
}

// ─── Confirmation ────────────────────────────────────────────────────────────

func (m Model) renderConfirm(w int) string {
	count := m.selectedCount()
	size := core.FormatSize(m.selectedSize())

	msg := fmt.Sprintf("Delete %d environment(s), reclaiming %s?", count, size)
	if m.opts.DryRun {
		msg = fmt.Sprintf("Dry run: would delete %d environment(s), %s.", count, size)
	}

	body := lipgloss.NewStyle().
		Foreground(ui.ColorWarning).
		Bold(true).
		Render("  " + ui.IconWarning + " " + msg)

	hint := lipgloss.NewStyle().
		Foreground(ui.ColorTextDim).
		Render("  y confirm " + ui.IconPipe + " n cancel")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorWarning).
		Width(w - 2).
		Render(body + "\n" + hint)
}

// ─── Deletion progress ───────────────────────────────────────────────────────

func (m Model) renderDeleting(w int) string {
	total := len(m.deleteQueue)
	doneCount := m.deleteIdx
	frac := 0.0
	if total > 0 {
		frac = float64(doneCount) / float64(total)
	}

	var lines []string
	lines = append(lines, "")
	lines = append(lines, "  "+m.prog.ViewAs(frac))
	lines = append(lines, "")

	if m.deleteIdx < total {
		current := m.candidates[m.deleteQueue[m.deleteIdx]]
		lines = append(lines, lipgloss.NewStyle().
			Foreground(ui.ColorTextDim).
			Render(fmt.Sprintf("  Deleting %s", current.Path)))
	}

	lines = append(lines, m.renderOutcomes()...)
	return strings.Join(lines, "\n")
}

// renderOutcomes lists per-item results so far.
func (m Model) renderOutcomes() []string {
	var lines []string
	for _, idx := range m.deleteQueue[:m.deleteIdx] {
		c := m.candidates[idx]
		if err, ok := m.failed[idx]; ok {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(ui.ColorError).
				Render(fmt.Sprintf("  %s %s: %v", ui.IconCross, c.Name, err)))
			continue
		}
		lines = append(lines, lipgloss.NewStyle().
			Foreground(ui.ColorSuccess).
			Render(fmt.Sprintf("  %s %s  %s", ui.IconCheck, c.Name, core.FormatSize(c.Size))))
	}
	return lines
}

// ─── Done ────────────────────────────────────────────────────────────────────

func (m Model) renderDone(w int) string {
	var lines []string
	lines = append(lines, "")

	if len(m.candidates) == 0 && m.freed == 0 {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render("  No virtual environments found."))
	} else {
		lines = append(lines, m.renderOutcomes()...)
		lines = append(lines, "")

		verb := "Reclaimed"
		if m.opts.DryRun {
			verb = "Would reclaim"
		}
		lines = append(lines, ui.TagSuccessStyle().
			Render(fmt.Sprintf("  %s %s %s", ui.IconDiamond, verb, core.FormatSize(m.freed))))
	}

	for _, v := range m.volumes {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(ui.ColorTextDim).
			Render(fmt.Sprintf("  %s free of %s on %s",
				core.FormatSize(int64(v.Free)), core.FormatSize(int64(v.Total)), v.Mount)))
	}

	for _, re := range m.rootErrs {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(ui.ColorError).
			Render("  "+ui.IconError+" "+re.Error()))
	}

	return strings.Join(lines, "\n")
}

// ─── Footer ──────────────────────────────────────────────────────────────────

func (m Model) renderFooter(w int) string {
	var hints []string
	switch m.phase {
	case phaseScanning:
		hints = []string{"q quit"}
	case phaseSelect:
		hints = []string{"↑↓ nav", "space select", "a all", "Enter delete", "q quit"}
	case phaseConfirm:
		hints = []string{"y confirm", "n cancel"}
	case phaseDeleting:
		hints = []string{"deleting…"}
	case phaseDone:
		hints = []string{"r rescan", "q quit"}
	}

	var parts []string
	if m.opts.DryRun {
		parts = append(parts, "  "+ui.TagWarningStyle().Render(" dry run "))
	}
	parts = append(parts, ui.HintBarStyle().Render("  "+strings.Join(hints, " "+ui.IconPipe+" ")))
	return strings.Join(parts, "\n")
}

func totalSize(cands []venv.Candidate) int64 {
	var total int64
	for _, c := range cands {
		total += c.Size
	}
	return total
}
