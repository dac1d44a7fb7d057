// Package ui is the terminal stand-in for the editor: a quick panel that
// shows a filterable list and reports the chosen index, plus the opener,
// notifier and markdown rendering used by the CLI.
package ui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultWaitingText = "Search still in progress. Please wait..."
	defaultEmptyText   = "No results to display"
)

// Source loads the panel's items once the search is ready.
type Source func() (items []string, placeholder string, err error)

// PanelOptions configures a QuickPanel.
type PanelOptions struct {
	Placeholder string
	Items       []string

	// Ready and Load defer the items: the panel shows a spinner until Ready
	// returns true, then calls Load.
	Ready        func() bool
	Load         Source
	PollInterval time.Duration

	// OnHighlight is called with the original index whenever the cursor moves.
	OnHighlight func(index int)

	WaitingText string
	EmptyText   string
}

// Result is what the user did with the panel. Index and Highlighted are
// indexes into the original item list, -1 when nothing applies.
type Result struct {
	Chosen      bool
	Index       int
	Highlighted int
	Err         error
}

type entry struct {
	index int
	text  string
}

func (e entry) FilterValue() string { return e.text }
func (e entry) Title() string       { return e.text }
func (e entry) Description() string { return "" }

type readyCheckMsg struct{}

// QuickPanel is a Bubble Tea model around bubbles/list with its built-in filter.
type QuickPanel struct {
	list    list.Model
	spinner spinner.Model

	waiting     bool
	ready       func() bool
	load        Source
	poll        time.Duration
	onHighlight func(int)
	waitingText string
	emptyText   string

	highlighted int
	result      Result
}

// NewQuickPanel builds a panel.
func NewQuickPanel(opts PanelOptions) QuickPanel {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 80, 20)
	l.Title = opts.Placeholder
	l.Styles.Title = TitleStyle
	l.DisableQuitKeybindings()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = WaitingStyle

	m := QuickPanel{
		list:        l,
		spinner:     sp,
		ready:       opts.Ready,
		load:        opts.Load,
		poll:        opts.PollInterval,
		onHighlight: opts.OnHighlight,
		waitingText: opts.WaitingText,
		emptyText:   opts.EmptyText,
		highlighted: -1,
		result:      Result{Index: -1, Highlighted: -1},
	}
	if m.poll <= 0 {
		m.poll = 100 * time.Millisecond
	}
	if m.waitingText == "" {
		m.waitingText = defaultWaitingText
	}
	if m.emptyText == "" {
		m.emptyText = defaultEmptyText
	}

	m.setItems(opts.Items)
	if m.ready != nil && !m.ready() {
		m.waiting = true
	}
	return m
}

func (m *QuickPanel) setItems(items []string) tea.Cmd {
	entries := make([]list.Item, len(items))
	for i, text := range items {
		entries[i] = entry{index: i, text: text}
	}
	cmd := m.list.SetItems(entries)
	m.highlighted = -1
	if len(items) > 0 {
		m.highlighted = 0
	}
	return cmd
}

func (m QuickPanel) checkReady() tea.Cmd {
	return tea.Tick(m.poll, func(time.Time) tea.Msg { return readyCheckMsg{} })
}

func (m QuickPanel) Init() tea.Cmd {
	if m.waiting {
		return tea.Batch(m.spinner.Tick, m.checkReady())
	}
	return nil
}

func (m QuickPanel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil

	case readyCheckMsg:
		if !m.waiting {
			return m, nil
		}
		if !m.ready() {
			return m, m.checkReady()
		}
		m.waiting = false
		if m.load == nil {
			return m, nil
		}
		items, placeholder, err := m.load()
		if err != nil {
			m.result.Err = err
			return m, tea.Quit
		}
		m.list.Title = placeholder
		return m, m.setItems(items)

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.result.Highlighted = m.highlighted
			return m, tea.Quit
		case "esc":
			if m.waiting || m.list.FilterState() == list.Unfiltered {
				m.result.Highlighted = m.highlighted
				return m, tea.Quit
			}
		case "enter":
			if m.waiting {
				return m, nil
			}
			if m.list.FilterState() != list.Filtering {
				if e, ok := m.list.SelectedItem().(entry); ok {
					m.result = Result{Chosen: true, Index: e.index, Highlighted: e.index}
					return m, tea.Quit
				}
				return m, nil
			}
		}
		if m.waiting {
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, tea.Batch(cmd, m.trackHighlight())
}

// trackHighlight reports cursor moves to OnHighlight.
func (m *QuickPanel) trackHighlight() tea.Cmd {
	e, ok := m.list.SelectedItem().(entry)
	if !ok || e.index == m.highlighted {
		return nil
	}
	m.highlighted = e.index
	if m.onHighlight == nil {
		return nil
	}
	onHighlight, index := m.onHighlight, e.index
	return func() tea.Msg {
		onHighlight(index)
		return nil
	}
}

func (m QuickPanel) View() string {
	if m.waiting {
		return fmt.Sprintf("%s %s\n", m.spinner.View(), WaitingStyle.Render(m.waitingText))
	}
	if len(m.list.Items()) == 0 {
		return DimStyle.Render(m.emptyText) + "\n"
	}
	return m.list.View()
}

// Result returns the outcome once the program has quit.
func (m QuickPanel) Result() Result {
	return m.result
}

// Waiting reports whether the panel is still waiting for its items.
func (m QuickPanel) Waiting() bool {
	return m.waiting
}

// Pick runs the panel on the terminal until the user chooses or cancels.
// The panel draws on stderr so stdout stays free for the selection.
func Pick(ctx context.Context, panel QuickPanel, opts ...tea.ProgramOption) (Result, error) {
	options := append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithOutput(os.Stderr),
	}, opts...)

	final, err := tea.NewProgram(panel, options...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return Result{Index: -1, Highlighted: -1}, ctx.Err()
		}
		return Result{Index: -1, Highlighted: -1}, err
	}

	result := final.(QuickPanel).Result()
	return result, result.Err
}
