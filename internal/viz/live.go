package viz

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/starsim/internal/celestial"
	"github.com/san-kum/starsim/internal/config"
	"github.com/san-kum/starsim/internal/gravity"
	"github.com/san-kum/starsim/internal/metrics"
	"github.com/san-kum/starsim/internal/sim"
	"github.com/san-kum/starsim/internal/thermal"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600

	zoomStep     = 1.25
	rotateStep   = 0.1
	exponentStep = 0.25
	editStep     = 1.1
	velocityStep = 1.05
	trailStep    = 100
	surfaceStep  = 0.05
	radiusStep   = 1.25
	zoneSegments = 96
)

type TickMsg time.Time

// Options tune a live session.
type Options struct {
	// StepsPerFrame is the number of ticks per rendered frame.
	StepsPerFrame int
	FPS           int
	Seed          int64
}

func DefaultOptions() Options {
	return Options{StepsPerFrame: 1, FPS: 60, Seed: time.Now().UnixNano()}
}

// Model is the live view of one running scene.
type Model struct {
	ctrl    *sim.Controller
	scene   *config.Config
	opts    Options
	rng     *rand.Rand
	canvas  *Canvas
	camera  *Camera
	energy  *metrics.History
	speed   []float64
	catalog int

	width, height int
	frame         int
	warnings      int
	lastWarning   string
	message       string
	showHelp      bool
	showZones     bool
	quitting      bool
}

// NewModel wraps ctrl. scene supplies the catalog for the sandbox add key
// and may be nil.
func NewModel(ctrl *sim.Controller, scene *config.Config, opts Options) *Model {
	if opts.StepsPerFrame < 1 {
		opts.StepsPerFrame = 1
	}
	if opts.FPS < 1 {
		opts.FPS = 60
	}
	m := &Model{
		ctrl:   ctrl,
		scene:  scene,
		opts:   opts,
		rng:    rand.New(rand.NewSource(opts.Seed)),
		canvas: NewCanvas(width, height),
		camera: NewCamera(),
		energy: metrics.NewHistory("total_energy", historyCapacity, gravity.TotalEnergy),
		width:  width,
		height: height,
	}
	ctrl.AddMetric(m.energy)
	m.fit()
	return m
}

// Controller exposes the wrapped simulation, e.g. for saving after quit.
func (m *Model) Controller() *sim.Controller { return m.ctrl }

// fit scales the camera so the farthest body from the focus is visible.
func (m *Model) fit() {
	_, centre, _ := m.ctrl.Focus()
	span := 0.0
	for _, p := range m.ctrl.RenderPositions() {
		span = math.Max(span, r3.Norm(r3.Sub(p, centre)))
	}
	m.camera.Fit(span, m.canvas.SubWidth(), m.canvas.SubHeight())
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd := m.handleKey(msg.String()); cmd != nil {
			return m, cmd
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		m.advance()
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	cw := max(20, w-52)
	ch := max(8, h-4)
	if cw == m.width && ch == m.height {
		return
	}
	m.width, m.height = cw, ch
	m.canvas = NewCanvas(cw, ch)
	m.fit()
}

// advance runs the frame's ticks and collects warnings.
func (m *Model) advance() {
	m.frame++
	for i := 0; i < m.opts.StepsPerFrame; i++ {
		if !m.ctrl.Tick() {
			break
		}
	}
	for _, w := range m.ctrl.DrainWarnings() {
		m.warnings++
		m.lastWarning = fmt.Sprintf("tick %d: %s / %s", w.Tick, w.A, w.B)
	}
	if name, _, ok := m.ctrl.Focus(); ok && m.ctrl.State() == sim.Running {
		if b, found := m.ctrl.System().Get(name); found {
			m.speed = append(m.speed, r3.Norm(b.Velocity()))
			if len(m.speed) > historyCapacity {
				m.speed = m.speed[1:]
			}
		}
	}
}

func (m *Model) handleKey(key string) tea.Cmd {
	m.message = ""
	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		return tea.Quit
	case " ":
		m.message = "simulation " + m.ctrl.TogglePause().String()
	case "r":
		m.ctrl.Reset()
		m.speed = m.speed[:0]
		m.message = "reset to initial state"
	case "v":
		m.ctrl.ReverseTime()
		m.message = "time reversed"
	case "tab":
		m.ctrl.CycleFocus()
		m.speed = m.speed[:0]
	case "f":
		m.fit()
	case "+", "=":
		m.ctrl.Zoom(1 / zoomStep)
	case "-", "_":
		m.ctrl.Zoom(zoomStep)
	case "<":
		m.report(m.ctrl.SetTimeStep(m.ctrl.Config().TimeStep/2), "time step halved")
	case ">":
		m.report(m.ctrl.SetTimeStep(m.ctrl.Config().TimeStep*2), "time step doubled")
	case "[":
		m.adjustFocusedTrail(-trailStep)
	case "]":
		m.adjustFocusedTrail(trailStep)
	case "n":
		m.report(m.ctrl.SetGravitationalExponent(m.ctrl.Config().GravitationalN-exponentStep), "gravity exponent lowered")
	case "N":
		m.report(m.ctrl.SetGravitationalExponent(m.ctrl.Config().GravitationalN+exponentStep), "gravity exponent raised")
	case "a":
		b, err := m.ctrl.AddRandomPlanet(m.rng, "")
		if err == nil {
			m.message = "added " + b.Name()
		} else {
			m.report(err, "")
		}
	case "c":
		m.addFromCatalog()
	case "d":
		m.removeFocused()
	case "m", "M":
		m.editFocusedStar(key == "M", false)
	case "l", "L":
		m.editFocusedStar(key == "L", true)
	case "b", "B":
		m.editFocusedSurface(key == "B", false)
	case "e", "E":
		m.editFocusedSurface(key == "E", true)
	case "z":
		m.scaleRadii(1 / radiusStep)
	case "Z":
		m.scaleRadii(radiusStep)
	case "i":
		m.commitFocused()
	case "h":
		m.showZones = !m.showZones
		m.message = "habitable zones hidden"
		if m.showZones {
			m.message = "habitable zones shown"
		}
	case ",":
		m.scaleFocusedVelocity(1 / velocityStep)
	case ".":
		m.scaleFocusedVelocity(velocityStep)
	case "x":
		m.camera.RotateTilt(rotateStep)
	case "X":
		m.camera.RotateTilt(-rotateStep)
	case "y":
		m.camera.RotateYaw(rotateStep)
	case "Y":
		m.camera.RotateYaw(-rotateStep)
	case "0":
		m.camera.ResetView()
	case "t":
		m.message = "theme " + NextTheme().Name
	case "?":
		m.showHelp = !m.showHelp
	}
	return nil
}

func (m *Model) report(err error, ok string) {
	if err != nil {
		m.message = "error: " + err.Error()
		return
	}
	m.message = ok
}

// addFromCatalog adds the next catalog body not already in the system.
func (m *Model) addFromCatalog() {
	if m.scene == nil || len(m.scene.Catalog) == 0 {
		m.message = "no catalog for this scene"
		return
	}
	sys := m.ctrl.System()
	for i := 0; i < len(m.scene.Catalog); i++ {
		bc := m.scene.Catalog[(m.catalog+i)%len(m.scene.Catalog)]
		if _, exists := sys.Get(bc.Name); exists {
			continue
		}
		m.catalog = (m.catalog + i + 1) % len(m.scene.Catalog)
		b, err := bc.Build()
		if err == nil {
			err = m.ctrl.AddBody(b)
		}
		m.report(err, "added "+bc.Name)
		return
	}
	m.message = "every catalog body is present"
}

func (m *Model) focused() (*celestial.Body, bool) {
	name, _, ok := m.ctrl.Focus()
	if !ok {
		return nil, false
	}
	return m.ctrl.System().Get(name)
}

func (m *Model) removeFocused() {
	b, ok := m.focused()
	if !ok {
		return
	}
	h, err := m.ctrl.Handle(b.Name())
	if err == nil {
		err = h.Remove()
	}
	m.report(err, "removed "+b.Name())
}

func (m *Model) editFocusedStar(up, luminosity bool) {
	b, ok := m.focused()
	if !ok {
		return
	}
	if !b.IsLuminous() {
		m.message = b.Name() + " is not a star"
		return
	}
	f := 1 / editStep
	if up {
		f = editStep
	}
	if luminosity {
		m.report(m.ctrl.SetStarLuminosity(b.Name(), b.Luminosity()*f), fmt.Sprintf("%s luminosity %.3g W", b.Name(), b.Luminosity()*f))
		return
	}
	m.report(m.ctrl.SetStarMass(b.Name(), b.Mass()*f), fmt.Sprintf("%s mass %.3g kg", b.Name(), b.Mass()*f))
}

// editFocusedSurface steps the focused planet's albedo or emissivity.
func (m *Model) editFocusedSurface(up, emissivity bool) {
	b, ok := m.focused()
	if !ok {
		return
	}
	if !b.HasSurface() {
		m.message = b.Name() + " is not a planet"
		return
	}
	d := -surfaceStep
	if up {
		d = surfaceStep
	}
	if emissivity {
		v := b.Emissivity() + d
		m.report(m.ctrl.SetEmissivity(b.Name(), v), fmt.Sprintf("%s emissivity %.2f", b.Name(), v))
		return
	}
	v := b.Albedo() + d
	m.report(m.ctrl.SetAlbedo(b.Name(), v), fmt.Sprintf("%s albedo %.2f", b.Name(), v))
}

func (m *Model) scaleRadii(f float64) {
	sc := m.ctrl.Scale()
	v := sc.RadiusModifier() * f
	m.report(sc.SetRadiusModifier(v), fmt.Sprintf("body size x%.2f", v))
}

// commitFocused makes the focused body's current state its reset baseline
// and restarts the run from it.
func (m *Model) commitFocused() {
	b, ok := m.focused()
	if !ok {
		return
	}
	m.report(m.ctrl.SetInitialState(b.Name(), b.Position(), b.Velocity()), b.Name()+" baseline set")
	m.speed = m.speed[:0]
}

func (m *Model) adjustFocusedTrail(delta int) {
	b, ok := m.focused()
	if !ok {
		return
	}
	n := max(0, min(b.Trail().Max()+delta, m.ctrl.Config().MaxTrailLength))
	m.report(m.ctrl.SetTrailLength(b.Name(), n), fmt.Sprintf("%s trail %d", b.Name(), n))
}

func (m *Model) scaleFocusedVelocity(f float64) {
	b, ok := m.focused()
	if !ok {
		return
	}
	m.report(m.ctrl.ScaleVelocity(b.Name(), f), fmt.Sprintf("%s velocity x%.2f", b.Name(), f))
}

// draw paints trails and bodies centred on the focus.
func (m *Model) draw() {
	m.canvas.Clear()
	sw, sh := m.canvas.SubWidth(), m.canvas.SubHeight()
	_, centre, ok := m.ctrl.Focus()
	if !ok {
		return
	}

	temps := make(map[string]float64)
	if readings, _ := m.ctrl.Temperatures(); readings != nil {
		for _, r := range readings {
			temps[r.Body] = r.Kelvin
		}
	}

	sc := m.ctrl.Scale()
	if m.showZones {
		m.drawZones(centre)
	}
	bodies := m.ctrl.System().Bodies()
	sprites := make([]Sprite, 0, len(bodies))
	for _, b := range bodies {
		col := BodyColor(b, temps)
		points := b.Trail().Points()
		for j, p := range points {
			x, y, _, vis := m.camera.Project(r3.Sub(p, centre), sw, sh)
			if vis {
				m.canvas.SetColor(x, y, Fade(col, 0.7*(1-float64(j+1)/float64(len(points)))))
			}
		}
		x, y, depth, vis := m.camera.Project(r3.Sub(sc.ToRender(b.Position()), centre), sw, sh)
		if !vis {
			continue
		}
		r := int(math.Round(sc.RenderRadius(b) * m.camera.PixelsPerUnit))
		sprites = append(sprites, Sprite{X: x, Y: y, Radius: max(0, min(r, 6)), Depth: depth, Body: b.Name()})
	}

	painterOrder(sprites)
	for _, s := range sprites {
		b, _ := m.ctrl.System().Get(s.Body)
		m.canvas.Disc(s.X, s.Y, s.Radius, BodyColor(b, temps))
	}
}

// drawZones outlines each star's habitable band in its orbital plane.
// Radii are physical, so the rings follow the zoom like the bodies do.
func (m *Model) drawZones(centre r3.Vec) {
	zones, _ := thermal.HabitableZones(m.ctrl.System())
	sw, sh := m.canvas.SubWidth(), m.canvas.SubHeight()
	sc := m.ctrl.Scale()
	for _, z := range zones {
		s, ok := m.ctrl.System().Get(z.Star)
		if !ok {
			continue
		}
		for _, r := range []float64{z.Inner, z.Outer} {
			for k := 0; k < zoneSegments; k++ {
				a := 2 * math.Pi * float64(k) / zoneSegments
				p := r3.Add(s.Position(), r3.Vec{X: r * math.Cos(a), Z: r * math.Sin(a)})
				x, y, _, vis := m.camera.Project(r3.Sub(sc.ToRender(p), centre), sw, sh)
				if vis {
					m.canvas.SetColor(x, y, Fade(zoneGreen, 0.4))
				}
			}
		}
	}
}

// viewRadius is the physical distance from the focus to the canvas edge.
func (m *Model) viewRadius() float64 {
	half := float64(min(m.canvas.SubWidth(), m.canvas.SubHeight())) / 2 / m.camera.PixelsPerUnit
	return r3.Norm(m.ctrl.Scale().ToPhysical(r3.Vec{X: half}))
}

// View renders the TUI interface.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	scene := "custom"
	if m.scene != nil && m.scene.Scene != "" {
		scene = m.scene.Scene
	}
	s.WriteString(GradientText(strings.ToUpper(scene), CurrentTheme.Primary, CurrentTheme.Secondary) + "\n")

	running := m.ctrl.State() == sim.Running
	status := "PAUSED"
	if running {
		status = AnimatedSpinner(m.frame) + " RUNNING"
	}
	s.WriteString(statusStyle(running).Render(status) + "\n\n")

	cfg := m.ctrl.Config()
	row := func(label, value string) {
		s.WriteString(labelStyle().Render(label) + valueStyle().Render(value) + "\n")
	}
	row("Elapsed", formatDuration(m.ctrl.Elapsed()))
	row("Ticks", fmt.Sprintf("%d", m.ctrl.Ticks()))
	row("Time step", fmt.Sprintf("%g s", cfg.TimeStep))
	row("Gravity N", fmt.Sprintf("%g", cfg.GravitationalN))
	row("Scale", fmt.Sprintf("1:%.3g", m.ctrl.Scale().Factor()))
	row("View", fmt.Sprintf("±%.3g AU", m.viewRadius()/celestial.AU))
	row("Energy", fmt.Sprintf("%.4g J", m.energy.Value()))
	if m.warnings > 0 {
		row("Warnings", fg(CurrentTheme.Error).Render(fmt.Sprintf("%d", m.warnings)))
	}

	if values := m.energy.Values(); len(values) > 1 {
		chart := asciigraph.Plot(values, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Total energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString("\n" + Separator(40) + "\n")
	if b, ok := m.focused(); ok {
		s.WriteString(titleStyle().Render("FOCUS "+b.Name()) + " " + subtle().Render(b.Kind().String()) + "\n")
		row("Mass", fmt.Sprintf("%.4g kg", b.Mass()))
		row("Speed", fmt.Sprintf("%.4g m/s", r3.Norm(b.Velocity())))
		if b.IsLuminous() {
			row("Luminosity", fmt.Sprintf("%.4g W", b.Luminosity()))
		}
		if b.HasSurface() {
			row("Albedo", fmt.Sprintf("%.2f", b.Albedo()))
			row("Emissivity", fmt.Sprintf("%.2f", b.Emissivity()))
		}
		if tr := b.Trail(); tr.Max() > 0 {
			row("Trail", ProgressBar(float64(tr.Len())/float64(tr.Max()), 15))
		}
		if len(m.speed) > 1 {
			row("Speed hist", fg(CurrentTheme.Accent).Render(Sparkline(m.speed, 24)))
		}
	}

	if readings, _ := m.ctrl.Temperatures(); len(readings) > 0 {
		s.WriteString("\n" + titleStyle().Render("TEMPERATURES") + "\n")
		for _, r := range readings {
			row(truncate(r.Body, 11), fmt.Sprintf("%7.1f °C %7.1f °F", r.Celsius, r.Fahrenheit))
		}
	}

	if m.message != "" {
		s.WriteString("\n" + fg(CurrentTheme.Accent).Render(m.message) + "\n")
	} else if m.lastWarning != "" {
		s.WriteString("\n" + fg(CurrentTheme.Error).Render("too close: "+m.lastWarning) + "\n")
	}
	s.WriteString("\n" + hintStyle().Render("SP:Pause R:Reset V:Reverse Tab:Focus ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════════╗
║            KEYBOARD SHORTCUTS            ║
╠══════════════════════════════════════════╣
║  Space    - Pause/Resume simulation      ║
║  R        - Reset to initial state       ║
║  V        - Reverse time                 ║
║  < / >    - Halve / double time step     ║
║  [ / ]    - Shorter / longer trail       ║
║  n / N    - Lower / raise gravity exp.   ║
║  + / -    - Zoom in / out                ║
║  F        - Fit view to bodies           ║
║  Tab      - Focus next body              ║
║  A        - Add random planet            ║
║  C        - Add next catalog body        ║
║  D        - Remove focused body          ║
║  m / M    - Focused star mass -/+        ║
║  l / L    - Focused star luminosity -/+  ║
║  , / .    - Slow / speed focused body    ║
║  b / B    - Focused planet albedo -/+    ║
║  e / E    - Planet emissivity -/+        ║
║  z / Z    - Shrink / grow body sizes     ║
║  I        - Keep focused state on reset  ║
║  H        - Toggle habitable zones       ║
║  x y X Y  - Tilt / yaw camera, 0 resets  ║
║  T        - Cycle themes                 ║
║  ?        - Toggle this help             ║
║  Q        - Quit                         ║
╚══════════════════════════════════════════╝`

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// formatDuration prints simulated seconds in the largest sensible unit.
func formatDuration(sec float64) string {
	const (
		hour = 3600.0
		day  = 24 * hour
		year = 365.25 * day
	)
	abs := math.Abs(sec)
	switch {
	case abs >= year:
		return fmt.Sprintf("%.2f yr", sec/year)
	case abs >= day:
		return fmt.Sprintf("%.2f d", sec/day)
	case abs >= hour:
		return fmt.Sprintf("%.2f h", sec/hour)
	default:
		return fmt.Sprintf("%.0f s", sec)
	}
}

// Run starts a full-screen live session and returns the final model.
func Run(m *Model) (*Model, error) {
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return m, err
	}
	if fm, ok := final.(*Model); ok {
		return fm, nil
	}
	return m, nil
}
