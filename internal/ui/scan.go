package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bdraco/unifi-discovery/internal/device"
)

// ErrAborted is returned when the user quits the live view before the scan
// finishes.
var ErrAborted = errors.New("scan aborted")

// deviceMsg reports one newly observed device to the live view.
type deviceMsg struct {
	dev *device.Device
}

// doneMsg carries the final scan outcome.
type doneMsg struct {
	devices []*device.Device
	err     error
}

// scanModel is the Bubble Tea model behind the live scan view. It shows a
// spinner and an incrementally growing device list while the scan runs.
type scanModel struct {
	spinner spinner.Model
	lines   []string
	count   int
	width   int

	done    bool
	aborted bool
	devices []*device.Device
	err     error
}

func newScanModel() scanModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(PrimaryColor)
	return scanModel{
		spinner: s,
		width:   GetTerminalWidth(),
	}
}

// Init implements tea.Model
func (m scanModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model
func (m scanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.aborted = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case deviceMsg:
		m.count++
		line := msg.dev.SourceIP
		if msg.dev.Hostname != "" {
			line += "  " + msg.dev.Hostname
		}
		m.lines = append(m.lines, line)
		return m, nil

	case doneMsg:
		m.done = true
		m.devices = msg.devices
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model
func (m scanModel) View() string {
	if m.done || m.aborted {
		// The final table is printed by the caller after the program exits.
		return ""
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s %s\n\n",
		m.spinner.View(),
		TitleStyle.Render("Scanning for devices"),
		CountStyle.Render(fmt.Sprintf("(%d found)", m.count))))

	for _, line := range m.lines {
		b.WriteString("  " + SuccessMarker + " " + CellStyle.Render(line) + "\n")
	}

	b.WriteString("\n" + HintStyle.Render("press q to stop") + "\n")
	return b.String()
}

// RunLiveScan drives a scan behind a live terminal view. The scan callback
// receives a report function to invoke for each newly observed device; it
// runs on its own goroutine while the view updates. Returns the scan's
// results, or ErrAborted when the user quits early.
func RunLiveScan(scan func(report func(*device.Device)) ([]*device.Device, error)) ([]*device.Device, error) {
	p := tea.NewProgram(newScanModel())

	go func() {
		devices, err := scan(func(d *device.Device) {
			p.Send(deviceMsg{dev: d})
		})
		p.Send(doneMsg{devices: devices, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, err
	}

	m := final.(scanModel)
	if m.aborted {
		return nil, ErrAborted
	}
	return m.devices, m.err
}
