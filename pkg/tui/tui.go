// Package tui provides a terminal user interface for midi2chiptune
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/james-see/midi2chiptune/pkg/converter"
	"github.com/james-see/midi2chiptune/pkg/converter/chips"
	"github.com/james-see/midi2chiptune/pkg/wav"
)

// 8-bit console palette
var (
	pulseRed   = lipgloss.Color("#E40058")
	skyBlue    = lipgloss.Color("#3CBCFC")
	paperWhite = lipgloss.Color("#FCFCFC")
	darkGray   = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(paperWhite).
			Background(pulseRed).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(paperWhite).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(skyBlue).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(skyBlue).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(pulseRed).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(skyBlue).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(pulseRed).
			BorderBackground(darkGray).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateFilePicker
	StateConverting
	StateResult
)

// Action is what a menu item does when selected
type Action int

const (
	ActionRender Action = iota
	ActionDemo
	ActionExit
)

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
	Action      Action
}

var menuItems = []MenuItem{
	{Title: "MIDI → WAV", Description: "Render a MIDI file with the NES voice set", Action: ActionRender},
	{Title: "Demo", Description: "Write a three-voice demo chord to " + chips.DemoFilename, Action: ActionDemo},
	{Title: "Exit", Description: "Exit the application", Action: ActionExit},
}

// Model represents the TUI model
type Model struct {
	state        State
	menuIndex    int
	filePicker   filepicker.Model
	spinner      spinner.Model
	opts         converter.Options
	workers      int
	selectedFile string
	outputFile   string
	result       *converter.Result
	err          error
	width        int
	height       int
}

// conversionDoneMsg signals conversion completion
type conversionDoneMsg struct {
	outputFile string
	result     *converter.Result
	err        error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model rendering with opts
func New(opts converter.Options, workers int) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".mid", ".midi"}
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(skyBlue)

	return Model{
		state:      StateMenu,
		menuIndex:  0,
		filePicker: fp,
		spinner:    s,
		opts:       opts,
		workers:    workers,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The file picker needs to receive all messages while it is open
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = StateConverting
			return m, tea.Batch(m.spinner.Tick, m.performConversion())
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case conversionDoneMsg:
		m.state = StateResult
		m.outputFile = msg.outputFile
		m.result = msg.result
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		switch menuItems[m.menuIndex].Action {
		case ActionExit:
			return m, tea.Quit
		case ActionDemo:
			m.selectedFile = ""
			m.state = StateConverting
			return m, tea.Batch(m.spinner.Tick, m.performDemo())
		}
		m.state = StateFilePicker
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.result = nil
		m.selectedFile = ""
		m.outputFile = ""
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) performConversion() tea.Cmd {
	input := m.selectedFile
	conv := converter.New(chips.NewNES(m.workers), m.opts)
	return func() tea.Msg {
		output := converter.OutputPath(input)
		result, err := conv.ConvertFile(context.Background(), input, output)
		if err != nil {
			return conversionDoneMsg{err: err}
		}
		return conversionDoneMsg{outputFile: output, result: result}
	}
}

func (m Model) performDemo() tea.Cmd {
	rate := m.opts.SampleRate
	if rate <= 0 {
		rate = converter.DefaultSampleRate
	}
	return func() tea.Msg {
		if err := wav.WriteFile(chips.DemoFilename, chips.Demo(rate), rate); err != nil {
			return conversionDoneMsg{err: err}
		}
		return conversionDoneMsg{outputFile: chips.DemoFilename}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateConverting:
		s.WriteString(m.viewConverting())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT ACTION "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(skyBlue).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT MIDI FILE "))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewConverting() string {
	var s strings.Builder

	name := "demo chord"
	if m.selectedFile != "" {
		name = filepath.Base(m.selectedFile)
	}

	s.WriteString(titleStyle.Render(" RENDERING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Rendering %s...\n", m.spinner.View(), name))
	s.WriteString(statusStyle.Render(fmt.Sprintf("  %.0f BPM • %d Hz", m.opts.Tempo, m.opts.SampleRate)))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Rendering failed: %s", m.err.Error())))
	} else {
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Rendering complete!"))
		s.WriteString("\n\n")
		if m.selectedFile != "" {
			s.WriteString(fmt.Sprintf("Input:  %s\n", filepath.Base(m.selectedFile)))
		}
		s.WriteString(fmt.Sprintf("Output: %s", filepath.Base(m.outputFile)))
		if m.result != nil {
			s.WriteString(fmt.Sprintf("\nNotes:  %d\nLength: %.2fs", m.result.Notes, m.result.Duration))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
  __  __ ___ ___ ___ ___     ___ _    _      _____ _   _ _  _ ___ 
 |  \/  |_ _|   \_ _|_  )   / __| |_ (_)_ __|_   _| | | | \| | __|
 | |\/| || || |) | | / /   | (__| ' \| | '_ \ | | | |_| | .' | _| 
 |_|  |_|___|___/___/___|   \___|_||_|_| .__/ |_|  \___/|_|\_|___|
                                       |_|                        
`
	return lipgloss.NewStyle().Foreground(pulseRed).Render(logo)
}

// Run starts the TUI application
func Run(opts converter.Options, workers int) error {
	p := tea.NewProgram(New(opts, workers), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
