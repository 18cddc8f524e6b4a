// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type manages a persistent status bar, the live combination
// line (updated character by character during reveals), a notice line
// and an input prompt at the bottom of the terminal. All scrollback
// output is printed above the rendered area via Program.Println /
// Printf, so concurrent writes never garble the display.
package display

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/elodiecarel/reverie/internal/domain"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// BannerStyle — muted slate for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// Poem — warm parchment for combination text.
	poemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a")).
			Italic(true)

	// Header — soft mint for section headers.
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	// Primary text — light zinc.
	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	// Secondary text — dimmed zinc for hints and metadata.
	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	urgentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	userInputEchoStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a1a1aa"))

	noticeStyles = map[domain.NoticeKind]lipgloss.Style{
		domain.NoticeInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#bae6fd")),
		domain.NoticeSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#bbf7d0")),
		domain.NoticeWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#fde68a")),
		domain.NoticeError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#fca5a5")),
	}
)

// ── UI ───────────────────────────────────────────────────────────

// Status is the aggregate shown in the bottom bar.
type Status struct {
	SelectedWords int
	TotalWords    int
	CountLabel    string
	Phase         string
	Stats         domain.Statistics
}

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may safely
// call the Print and Show methods and read from [UI.InputChan] at any
// time after [UI.WaitReady] returns.
type UI struct {
	program *tea.Program
	inputCh chan string
	readyCh chan struct{}
	quitCh  chan struct{}
	done    atomic.Bool
}

// NewUI creates the display. Call Run() to start.
func NewUI() *UI {
	return &UI{
		inputCh: make(chan string, 16),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// Println prints a line above the prompt. Thread-safe. Falls back to
// fmt.Println before the program starts.
func (u *UI) Println(a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Printf prints formatted text above the prompt. Thread-safe.
func (u *UI) Printf(format string, a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format, a...)
	}
}

// InputChan returns completed user-input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// ── Styled print helpers ─────────────────────────────────────────

// PrintPoem prints a finished combination into the scrollback.
func (u *UI) PrintPoem(text string) {
	u.Println(poemStyle.Render("  " + text))
}

// PrintHeader prints a section header like "Historique (4)".
func (u *UI) PrintHeader(text string) {
	u.Println(headerStyle.Render("  " + text))
}

// PrintLine prints a primary content line.
func (u *UI) PrintLine(text string) {
	u.Println(primaryStyle.Render("  " + text))
}

// PrintHint prints a secondary/dimmed line.
func (u *UI) PrintHint(text string) {
	u.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints an error line.
func (u *UI) PrintUrgent(text string) {
	u.Println(urgentStyle.Render("  " + text))
}

// PrintUserInput echoes the user's typed command into the scrollback.
func (u *UI) PrintUserInput(text string) {
	u.Println(promptStyle.Render("réverie") + secondaryStyle.Render("> ") + userInputEchoStyle.Render(text))
}

// ── State pushed into the model ──────────────────────────────────

// ShowReveal updates the live combination line. Safe from any goroutine.
func (u *UI) ShowReveal(revealed string) {
	u.send(revealMsg(revealed))
}

// ShowNotice replaces the notice line. A nil message clears it.
func (u *UI) ShowNotice(message string, kind domain.NoticeKind) {
	u.send(noticeMsg{message: message, kind: kind})
}

// ClearNotice empties the notice line.
func (u *UI) ClearNotice() {
	u.send(noticeMsg{})
}

// SetStatus updates the bottom status bar.
func (u *UI) SetStatus(s Status) {
	u.send(statusMsg(s))
}

func (u *UI) send(msg tea.Msg) {
	if u.program != nil && !u.done.Load() {
		u.program.Send(msg)
	}
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	ti := textinput.New()
	// Plain-text prompt: lipgloss-styled prompts add invisible ANSI
	// bytes that break the textinput width math for long input.
	ti.Prompt = "réverie> "
	ti.PromptStyle = promptStyle
	ti.TextStyle = userInputEchoStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60 // updated on first WindowSizeMsg

	m := model{
		input:   ti,
		inputCh: u.inputCh,
		readyCh: u.readyCh,
		echoFn: func(v string) {
			u.PrintUserInput(v)
		},
	}

	u.program = tea.NewProgram(m)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	input   textinput.Model
	inputCh chan<- string
	readyCh chan struct{}
	echoFn  func(string) // prints user input into scrollback

	reveal     string
	notice     string
	noticeKind domain.NoticeKind
	status     Status
	width      int
}

// Messages.
type (
	revealMsg string
	noticeMsg struct {
		message string
		kind    domain.NoticeKind
	}
	statusMsg Status
)

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		signalReady(m.readyCh),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) != "" {
				m.inputCh <- v
				// Echo via a Cmd — it runs outside Update so it
				// won't deadlock on messages.
				echoFn := m.echoFn
				return m, func() tea.Msg {
					echoFn(v)
					return nil
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		const promptLen = 9 // "réverie> "
		if msg.Width > promptLen {
			m.input.Width = msg.Width - promptLen
		}
		return m, nil

	case revealMsg:
		m.reveal = string(msg)
		return m, nil

	case noticeMsg:
		m.notice = msg.message
		m.noticeKind = msg.kind
		return m, nil

	case statusMsg:
		m.status = Status(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder

	if m.reveal != "" {
		b.WriteString(poemStyle.Render("  " + m.reveal))
		b.WriteByte('\n')
	}
	if m.notice != "" {
		style, ok := noticeStyles[m.noticeKind]
		if !ok {
			style = primaryStyle
		}
		b.WriteString(style.Render("  " + m.notice))
		b.WriteByte('\n')
	}
	b.WriteString(m.renderBar())
	b.WriteByte('\n')

	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}

func (m model) renderBar() string {
	s := m.status
	parts := []string{
		fmt.Sprintf("mots %d/%d", s.SelectedWords, s.TotalWords),
	}
	if s.CountLabel != "" {
		parts = append(parts, "mode "+s.CountLabel)
	}
	if s.Phase != "" {
		parts = append(parts, s.Phase)
	}
	if s.Stats.Empty() {
		parts = append(parts, "aucune note")
	} else {
		parts = append(parts, fmt.Sprintf("notes %d (moy %s)", s.Stats.Count, s.Stats.AverageLabel()))
	}

	content := " " + strings.Join(parts, sepStyle.Render("  │  ")) + " "

	w := m.width
	if w <= 0 {
		w = 80
	}
	return barBg.Width(w).Render(content)
}
