// Package tui provides a Bubble Tea terminal user interface for pronounce-word.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pronounce-dev/pronounce-word/internal/audio"
	"github.com/pronounce-dev/pronounce-word/internal/config"
	"github.com/pronounce-dev/pronounce-word/internal/model"
	"github.com/pronounce-dev/pronounce-word/internal/progress"
	"github.com/pronounce-dev/pronounce-word/internal/pronounce"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateResolving
	StateReady
	StatePlaying
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   progress.Level
}

// eventLog collects progress events from worker goroutines. The TUI
// polls it on a tick, mirroring how Bubble Tea models pull rather than
// push external state.
type eventLog struct {
	mu      sync.Mutex
	entries []LogEntry
}

func (l *eventLog) add(e progress.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Message: e.Message, Level: e.Level})
	if len(l.entries) > 10 {
		l.entries = l.entries[len(l.entries)-10:]
	}
}

func (l *eventLog) snapshot() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	settings  *config.Settings
	logs      *eventLog
	err       error

	pronouncer *pronounce.Pronouncer
	word       string
	rec        *model.WordRecord
	selected   int

	verbose bool

	ctx    context.Context
	cancel context.CancelFunc

	width  int
	height int
}

// newModel creates a TUI model around an already set up Pronouncer.
func newModel(settings *config.Settings, p *pronounce.Pronouncer, logs *eventLog) Model {
	ti := textinput.New()
	ti.Placeholder = "pronunciation"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:      StateInput,
		textInput:  ti,
		spinner:    sp,
		settings:   settings,
		logs:       logs,
		pronouncer: p,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ResolveDoneMsg is sent when metadata resolution completes.
	ResolveDoneMsg struct {
		Word string
		Rec  *model.WordRecord
		Err  error
	}

	// PlayDoneMsg is sent when a playback operation finishes.
	PlayDoneMsg struct {
		Err error
	}

	// RefreshDoneMsg is sent when a metadata refresh finishes.
	RefreshDoneMsg struct {
		Rec *model.WordRecord
		Err error
	}

	// TickMsg is for periodic log updates while work is in flight.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateResolving || m.state == StatePlaying {
				m.cancel()
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			switch m.state {
			case StateInput:
				if m.textInput.Value() != "" {
					m.state = StateResolving
					return m, tea.Batch(m.resolveWord(m.textInput.Value()), m.spinner.Tick, m.tickLogs())
				}
			case StateReady:
				m.state = StatePlaying
				return m, tea.Batch(m.playSlot(m.selected), m.spinner.Tick, m.tickLogs())
			}

		case "up", "k":
			if m.state == StateReady && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == StateReady && m.rec != nil && m.selected < m.rec.NumPronunciations-1 {
				m.selected++
			}

		case "c":
			if m.state == StateReady {
				m.state = StatePlaying
				return m, tea.Batch(m.cycleWord(), m.spinner.Tick, m.tickLogs())
			}

		case "n":
			if m.state == StateReady {
				m.state = StatePlaying
				return m, tea.Batch(m.randomWord(), m.spinner.Tick, m.tickLogs())
			}

		case "o":
			if m.state == StateReady {
				m.state = StateResolving
				return m, tea.Batch(m.refreshWord(), m.spinner.Tick, m.tickLogs())
			}

		case "v":
			if m.state == StateReady {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateReady || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateReady || m.state == StateError {
				// Reset for a new word
				m.state = StateInput
				m.word = ""
				m.rec = nil
				m.selected = 0
				m.err = nil
				m.textInput.SetValue("")
				m.textInput.Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ResolveDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.word = msg.Word
			m.rec = msg.Rec
			m.selected = 0
			m.state = StateReady
		}

	case RefreshDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.rec = msg.Rec
			if m.selected >= m.rec.NumPronunciations {
				m.selected = 0
			}
			m.state = StateReady
		}

	case PlayDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.state = StateReady
		}

	case TickMsg:
		if m.state == StateResolving || m.state == StatePlaying {
			cmds = append(cmds, m.tickLogs())
		}
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// tickLogs returns a command to re-render pending log entries.
func (m Model) tickLogs() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("🔊 Pronounce Word"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Fetch and play word pronunciations"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateResolving:
		b.WriteString(m.viewResolving())
	case StateReady:
		b.WriteString(m.viewReady())
	case StatePlaying:
		b.WriteString(m.viewPlaying())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter a word:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	if words := m.pronouncer.CachedWords(); len(words) > 0 {
		b.WriteString(infoStyle.Render(fmt.Sprintf("%d word(s) cached", len(words))))
		b.WriteString("\n")
		shown := words
		if len(shown) > 8 {
			shown = shown[:8]
		}
		b.WriteString(dimStyle.Render("  " + strings.Join(shown, ", ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Cache: %s", m.settings.CacheDir)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewResolving() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Looking up pronunciations..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewReady() string {
	var b strings.Builder

	b.WriteString(successStyle.Render(fmt.Sprintf("%q has %d pronunciation(s):", m.word, m.rec.NumPronunciations)))
	b.WriteString("\n")

	for i := 0; i < m.rec.NumPronunciations; i++ {
		marker := "  "
		if i == m.selected {
			marker = "> "
		}
		cached := " "
		if i < len(m.rec.Downloaded) && m.rec.Downloaded[i] {
			cached = "✓"
		}
		cursor := " "
		if i == m.rec.CycleIndex {
			cursor = "•"
		}

		speaker := audio.SpeakerDescription(m.rec.SpeakerInfo[i])
		if speaker == "" {
			speaker = "unknown speaker"
		}
		line := fmt.Sprintf("%s%s %s %2d  %s", marker, cursor, cached, i, speaker)
		if i == m.selected {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(infoStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewPlaying() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Playing %q...", m.word)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs.snapshot() {
		if log.Level == progress.LevelVerbose && !m.verbose {
			continue
		}
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case progress.LevelError:
			style = errorStyle
			prefix = "✗"
		case progress.LevelWarning:
			style = warningStyle
			prefix = "!"
		case progress.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case progress.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: look up • esc: quit"
	case StateResolving, StatePlaying:
		return "esc: cancel"
	case StateReady:
		return "enter: play • c: cycle • n: random • o: refresh • v: verbose • r: new word • q: quit"
	case StateError:
		return "r: new word • q: quit"
	}
	return ""
}

// resolveWord fetches metadata for the entered word.
func (m *Model) resolveWord(word string) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		word = model.NormalizeWord(word)
		rec, err := m.pronouncer.Lookup(ctx, word)
		return ResolveDoneMsg{Word: word, Rec: rec, Err: err}
	}
}

// playSlot plays one explicit slot, downloading it first if needed.
func (m *Model) playSlot(index int) tea.Cmd {
	ctx, word := m.ctx, m.word
	return func() tea.Msg {
		return PlayDoneMsg{Err: m.pronouncer.Pronounce(ctx, word, index)}
	}
}

// cycleWord plays the next slot in the persistent cycle.
func (m *Model) cycleWord() tea.Cmd {
	ctx, word := m.ctx, m.word
	return func() tea.Msg {
		return PlayDoneMsg{Err: m.pronouncer.Cycle(ctx, word, 0)}
	}
}

// randomWord plays a random slot.
func (m *Model) randomWord() tea.Cmd {
	ctx, word := m.ctx, m.word
	return func() tea.Msg {
		return PlayDoneMsg{Err: m.pronouncer.Random(ctx, word)}
	}
}

// refreshWord discards cached metadata and resolves the word again.
func (m *Model) refreshWord() tea.Cmd {
	ctx, word := m.ctx, m.word
	return func() tea.Msg {
		if err := m.pronouncer.OverrideMetadata(ctx, word); err != nil {
			return RefreshDoneMsg{Err: err}
		}
		return RefreshDoneMsg{Rec: m.pronouncer.Record(word)}
	}
}

// Run starts the TUI application. It owns the Pronouncer lifecycle:
// the word mapping is persisted when the program exits.
func Run(settings *config.Settings) error {
	logs := &eventLog{}
	p := pronounce.New(settings, logs.add)
	if err := p.Setup(context.Background(), false, false, false); err != nil {
		return err
	}

	program := tea.NewProgram(newModel(settings, p, logs), tea.WithAltScreen())
	_, runErr := program.Run()
	if err := p.Teardown(); err != nil {
		return err
	}
	return runErr
}
