package prune

import (
	"context"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/liamfpower/venvprune/internal/core"
	"github.com/liamfpower/venvprune/internal/diskinfo"
	"github.com/liamfpower/venvprune/internal/ui"
	"github.com/liamfpower/venvprune/internal/venv"
)

// ─── Phases ──────────────────────────────────────────────────────────────────

type phase int

const (
	phaseScanning phase = iota
	phaseSelect
	phaseConfirm
	phaseDeleting
	phaseDone
)

// ─── Messages ────────────────────────────────────────────────────────────────

type scanDoneMsg struct {
	result   *venv.ScanResult
	rootErrs []venv.RootError
	elapsed  time.Duration
}

type deleteResultMsg struct {
	index int
	freed int64
	err   error
}

// ─── Options ─────────────────────────────────────────────────────────────────

// Options configures one interactive pruning session.
type Options struct {
	Roots       []string
	Exclude     []string
	Concurrency int
	MaxDepth    int
	MinSize     int64
	DryRun      bool
}

// ─── Model ───────────────────────────────────────────────────────────────────

// Model is the bubbletea Model for the interactive pruner.
type Model struct {
	opts    Options
	scanner *venv.Scanner

	spinner spinner.Model
	prog    progress.Model

	phase  phase
	width  int
	height int
	cursor int
	offset int

	started time.Time
	elapsed time.Duration

	candidates []venv.Candidate
	rootErrs   []venv.RootError
	selected   map[int]bool
	volumes    []diskinfo.Volume

	deleteQueue []int // indices into candidates
	deleteIdx   int
	freed       int64
	deleted     map[int]bool
	failed      map[int]error

	quitting bool
}

// NewModel creates a Model ready to scan the configured roots.
func NewModel(opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ui.ColorSnake)

	pr := progress.New(progress.WithDefaultGradient())

	return Model{
		opts:     opts,
		scanner:  venv.NewScanner(opts.Concurrency, opts.MaxDepth, opts.Exclude),
		spinner:  sp,
		prog:     pr,
		phase:    phaseScanning,
		width:    80,
		height:   24,
		started:  time.Now(),
		selected: make(map[int]bool),
		deleted:  make(map[int]bool),
		failed:   make(map[int]error),
	}
}

// Freed returns the bytes reclaimed (or measured, in dry-run) so far.
func (m Model) Freed() int64 { return m.freed }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.scanCmd())
}

// scanCmd runs the blocking scan off the update loop.
func (m Model) scanCmd() tea.Cmd {
	scanner := m.scanner
	opts := m.opts
	started := time.Now()
	return func() tea.Msg {
		result, rootErrs := scanner.Scan(context.Background(), opts.Roots)
		return scanDoneMsg{
			result:   result,
			rootErrs: rootErrs,
			elapsed:  time.Since(started),
		}
	}
}

// deleteCmd removes one candidate and reports the outcome.
func (m Model) deleteCmd(idx int) tea.Cmd {
	path := m.candidates[idx].Path
	dryRun := m.opts.DryRun
	return func() tea.Msg {
		freed, err := core.SafeDelete(path, dryRun)
		return deleteResultMsg{index: idx, freed: freed, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prog.Width = m.width - 12
		if m.prog.Width > 60 {
			m.prog.Width = 60
		}
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseScanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case scanDoneMsg:
		m.elapsed = msg.elapsed
		m.rootErrs = msg.rootErrs
		m.candidates = Prepare(msg.result.Candidates, m.opts.MinSize)
		m.volumes = diskinfo.ForPaths(m.opts.Roots)
		if len(m.candidates) == 0 {
			m.phase = phaseDone
		} else {
			m.phase = phaseSelect
		}
		m.cursor = 0
		m.offset = 0
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case deleteResultMsg:
		if msg.err != nil {
			m.failed[msg.index] = msg.err
		} else {
			m.deleted[msg.index] = true
			m.freed += msg.freed
		}
		m.deleteIdx++
		if m.deleteIdx < len(m.deleteQueue) {
			return m, m.deleteCmd(m.deleteQueue[m.deleteIdx])
		}
		m.phase = phaseDone
		m.volumes = diskinfo.ForPaths(m.opts.Roots)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.phase {

	case phaseScanning:
		if key == "q" || key == "esc" {
			m.quitting = true
			return m, tea.Quit
		}

	case phaseSelect:
		switch key {
		case "q", "esc":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.ensureVisible()
			}
		case "down", "j":
			if m.cursor < len(m.candidates)-1 {
				m.cursor++
				m.ensureVisible()
			}
		case " ", "x":
			m.selected[m.cursor] = !m.selected[m.cursor]
		case "a":
			// Toggle all: select everything unless everything is selected.
			all := true
			for i := range m.candidates {
				if !m.selected[i] {
					all = false
					break
				}
			}
			for i := range m.candidates {
				m.selected[i] = !all
			}
		case "enter":
			if m.selectedCount() > 0 {
				m.phase = phaseConfirm
			}
		}

	case phaseConfirm:
		switch key {
		case "y", "enter":
			m.deleteQueue = m.deleteQueue[:0]
			for i := range m.candidates {
				if m.selected[i] {
					m.deleteQueue = append(m.deleteQueue, i)
				}
			}
			sort.Ints(m.deleteQueue)
			m.deleteIdx = 0
			m.phase = phaseDeleting
			return m, m.deleteCmd(m.deleteQueue[0])
		case "n", "esc", "q":
			m.phase = phaseSelect
		}

	case phaseDeleting:
		// Deletion is not interruptible mid-item; keys are ignored.

	case phaseDone:
		switch key {
		case "r":
			// Fresh round over whatever remains.
			next := NewModel(m.opts)
			next.width = m.width
			next.height = m.height
			next.freed = m.freed
			return next, next.Init()
		case "q", "esc", "enter":
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m Model) View() string {
	return m.renderView()
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// Prepare sorts candidates by size descending and applies the minimum
// size filter. Sorting is presentation policy, so it lives here rather
// than in the scanner.
func Prepare(cands []venv.Candidate, minSize int64) []venv.Candidate {
	var out []venv.Candidate
	for _, c := range cands {
		if minSize > 0 && c.Size < minSize {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Size > out[j].Size
	})
	return out
}

func (m Model) selectedCount() int {
	n := 0
	for i := range m.candidates {
		if m.selected[i] {
			n++
		}
	}
	return n
}

func (m Model) selectedSize() int64 {
	var total int64
	for i, c := range m.candidates {
		if m.selected[i] {
			total += c.Size
		}
	}
	return total
}

func (m *Model) ensureVisible() {
	vh := m.viewportHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+vh {
		m.offset = m.cursor - vh + 1
	}
}

func (m Model) viewportHeight() int {
	h := m.height - 9 // header (5) + footer (3) + padding
	if h < 1 {
		h = 1
	}
	return h
}
