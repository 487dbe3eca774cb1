package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/starsim/internal/config"
)

var sceneInfo = map[string]string{
	"earth-sun":      "one planet, one star",
	"solar-system":   "nine planets and a brown dwarf",
	"alpha-centauri": "triple star with two planets",
	"sandbox":        "add bodies from the catalog",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// param is one editable simulation setting on the config screen.
type param struct {
	name string
	get  func(*config.SimulationConfig) float64
	set  func(*config.SimulationConfig, float64)
}

var params = []param{
	{"time_step", func(s *config.SimulationConfig) float64 { return s.TimeStep }, func(s *config.SimulationConfig, v float64) { s.TimeStep = v }},
	{"scale_factor", func(s *config.SimulationConfig) float64 { return s.ScaleFactor }, func(s *config.SimulationConfig, v float64) { s.ScaleFactor = v }},
	{"gravity_n", func(s *config.SimulationConfig) float64 { return s.GravitationalN }, func(s *config.SimulationConfig, v float64) { s.GravitationalN = v }},
	{"max_trail", func(s *config.SimulationConfig) float64 { return float64(s.MaxTrailLength) }, func(s *config.SimulationConfig, v float64) { s.MaxTrailLength = int(v) }},
}

type app struct {
	state, cursor int
	scenes        []string
	scene         *config.Config
	paramCursor   int
	editing       bool
	editBuf       string
	err           error
	opts          Options
	width, height int
	live          *Model
}

func NewInteractiveApp(opts Options) *app {
	return &app{
		state:  stateMenu,
		scenes: config.ListScenes(),
		opts:   opts,
		width:  80,
		height: 24,
	}
}

func (m *app) Init() tea.Cmd { return nil }

func (m *app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.live != nil {
			m.live.resize(msg.Width, msg.Height)
		}
		return m, nil
	default:
		if m.state == stateSim {
			_, cmd := m.live.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *app) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m, m.menuKey(msg.String())
	case stateConfig:
		return m, m.configKey(msg.String())
	case stateSim:
		_, cmd := m.live.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *app) menuKey(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c":
		return tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.scenes)-1 {
			m.cursor++
		}
	case "enter", " ":
		scene, err := config.Scene(m.scenes[m.cursor])
		if err != nil {
			m.err = err
			return nil
		}
		m.scene, m.err = scene, nil
		m.state, m.paramCursor = stateConfig, 0
	}
	return nil
}

func (m *app) configKey(key string) tea.Cmd {
	sc := &m.scene.Simulation
	p := params[m.paramCursor]
	if m.editing {
		switch key {
		case "enter":
			if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				p.set(sc, v)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(key) == 1 {
				c := key[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == 'e' || c == '+' {
					m.editBuf += key
				}
			}
		}
		return nil
	}
	switch key {
	case "q", "esc":
		m.state, m.err = stateMenu, nil
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(params)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, strconv.FormatFloat(p.get(sc), 'g', -1, 64)
	case "left", "h":
		p.set(sc, p.get(sc)/editStep)
	case "right", "l":
		p.set(sc, p.get(sc)*editStep)
	case "s":
		return m.start()
	}
	return nil
}

func (m *app) start() tea.Cmd {
	ctrl, err := m.scene.NewController()
	if err != nil {
		m.err = err
		return nil
	}
	m.live = NewModel(ctrl, m.scene, m.opts)
	m.live.resize(m.width, m.height)
	m.state, m.err = stateSim, nil
	return m.live.Init()
}

func (m *app) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.live.View()
	}
	return ""
}

func (m *app) header(title, sub string) string {
	return "\n\n    " + titleStyle().Render(title) + "\n    " + subtle().Render(sub) + "\n    " + subtle().Render("─────────────────────────") + "\n\n"
}

func (m *app) viewMenu() string {
	var b strings.Builder
	b.WriteString(m.header("STARSIM", "n-body star system simulator"))
	for i, name := range m.scenes {
		desc := sceneInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", keyStyle().Render("▸"), valueStyle().Bold(true).Render(fmt.Sprintf("%-16s", name)), fg(CurrentTheme.Secondary).Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", subtle().Render(fmt.Sprintf("  %-16s", name)), subtle().Render(desc)))
		}
	}
	b.WriteString(m.footer())
	b.WriteString("\n    " + keyHints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m *app) viewConfig() string {
	var b strings.Builder
	b.WriteString(m.header(strings.ToUpper(m.scene.Scene), fmt.Sprintf("%s, %d bodies", sceneInfo[m.scene.Scene], len(m.scene.Bodies))))
	for i, p := range params {
		valStr := fmt.Sprintf("%12.4g", p.get(&m.scene.Simulation))
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%12s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", keyStyle().Render("▸"), valueStyle().Bold(true).Render(fmt.Sprintf("%-14s", p.name)), fg(CurrentTheme.Secondary).Bold(true).Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", subtle().Render(fmt.Sprintf("  %-14s", p.name)), subtle().Render(valStr)))
		}
	}
	b.WriteString(m.footer())
	b.WriteString("\n    " + keyHints("j/k", "select", "h/l", "adjust", "enter", "edit", "s", "start", "esc", "back") + "\n")
	return b.String()
}

func (m *app) footer() string {
	if m.err == nil {
		return ""
	}
	return "\n    " + fg(CurrentTheme.Error).Render(m.err.Error()) + "\n"
}

// RunInteractive starts the scene picker.
func RunInteractive(opts Options) error {
	_, err := tea.NewProgram(NewInteractiveApp(opts), tea.WithAltScreen()).Run()
	return err
}
