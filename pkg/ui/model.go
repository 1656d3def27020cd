package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	bviewport "github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vanderheijden86/trendradar/internal/datasource"
	"github.com/vanderheijden86/trendradar/pkg/config"
	"github.com/vanderheijden86/trendradar/pkg/debug"
	"github.com/vanderheijden86/trendradar/pkg/export"
	"github.com/vanderheijden86/trendradar/pkg/filter"
	"github.com/vanderheijden86/trendradar/pkg/matrix"
	"github.com/vanderheijden86/trendradar/pkg/metrics"
	"github.com/vanderheijden86/trendradar/pkg/model"
	"github.com/vanderheijden86/trendradar/pkg/radar"
	"github.com/vanderheijden86/trendradar/pkg/rank"
	"github.com/vanderheijden86/trendradar/pkg/viewport"
	"github.com/vanderheijden86/trendradar/pkg/watcher"
)

// Layout thresholds
const (
	SplitViewThreshold = 100 // Detail pane only shown at or above this width
	DetailPaneWidth    = 42
	zoomStep           = 1.25
	panStepX           = 4.0
	panStepY           = 2.0
)

// View selects the main pane.
type View int

const (
	ViewRadar View = iota
	ViewMatrix
)

func (v View) String() string {
	if v == ViewMatrix {
		return "matrix"
	}
	return "radar"
}

// ParseView accepts "radar" or "matrix"; anything else is radar.
func ParseView(s string) View {
	if strings.EqualFold(strings.TrimSpace(s), "matrix") {
		return ViewMatrix
	}
	return ViewRadar
}

// FileChangedMsg is sent when the snapshot file changes on disk
type FileChangedMsg struct{}

// SnapshotLoadedMsg carries the result of a reload.
type SnapshotLoadedMsg struct {
	Snapshot model.Snapshot
	Err      error
}

// ExportDoneMsg reports the result of the export key.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// Loader reloads the snapshot after a file change.
type Loader func(ctx context.Context) (model.Snapshot, error)

// WatchFileCmd returns a command that waits for file changes and sends FileChangedMsg
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// ReloadCmd runs loader off the UI goroutine.
func ReloadCmd(loader Loader) tea.Cmd {
	return func() tea.Msg {
		snap, err := loader(context.Background())
		return SnapshotLoadedMsg{Snapshot: snap, Err: err}
	}
}

// Options configures NewModel. Zero values fall back to defaults.
type Options struct {
	Config    config.Config
	Source    string // shown in the footer
	Loader    Loader
	Watcher   *watcher.Watcher
	Bookmarks *config.Bookmarks
	Callbacks radar.Callbacks
	Store     *filter.Store
	Jitter    *matrix.JitterCache
}

// frame caches everything derived from snapshot + filter + view settings.
// It is shared by pointer so the filter store listener can mark it stale.
type frame struct {
	stale  bool
	active filter.ActiveSet
	layout radar.Layout
	points []matrix.Point
	order  []model.Technology // selection order: radar slot order
}

// Model is the trend explorer.
type Model struct {
	// Data
	snap     model.Snapshot
	clusters map[string]model.Cluster
	ranks    *rank.Index
	source   string
	loader   Loader
	watcher  *watcher.Watcher
	loadedAt time.Time

	// Filter state lives in the shared store; frame is derived from it.
	store       *filter.Store
	unsubscribe func()
	frame       *frame

	// View settings
	view         View
	axis         model.Axis
	mode         model.ClusteringMode
	xAxis        model.Axis
	yAxis        model.Axis
	vp           viewport.State
	geometry     radar.Geometry
	domainColors map[model.Domain]string
	jitter       *matrix.JitterCache

	// Selection
	selectedID string
	bookmarks  *config.Bookmarks
	callbacks  radar.Callbacks
	exportCfg  config.ExportConfig

	// UI Components
	theme      Theme
	md         *MarkdownRenderer
	detail     bviewport.Model
	help       help.Model
	showDetail bool

	// Status message (for temporary feedback)
	statusMsg     string
	statusIsError bool

	width  int
	height int
}

// NewModel builds the explorer over snap.
func NewModel(snap model.Snapshot, opts Options) Model {
	cfg := opts.Config
	def := config.DefaultConfig()
	if cfg.View == (config.ViewConfig{}) {
		cfg.View = def.View
	}
	if cfg.Geometry == (config.GeometryConfig{}) {
		cfg.Geometry = def.Geometry
	}
	if cfg.Matrix.JitterRange <= 0 {
		cfg.Matrix.JitterRange = def.Matrix.JitterRange
	}
	if cfg.Export.Format == "" {
		cfg.Export.Format = def.Export.Format
	}

	store := opts.Store
	if store == nil {
		store = filter.NewStore()
	}
	jitter := opts.Jitter
	if jitter == nil {
		if cfg.Matrix.JitterSeed != 0 {
			jitter = matrix.NewJitterCache(cfg.Matrix.JitterSeed, cfg.Matrix.JitterRange)
		} else {
			jitter = matrix.NewSessionJitterCache(cfg.Matrix.JitterRange)
		}
	}

	fr := &frame{stale: true}
	unsubscribe := store.Subscribe(func(filter.State) { fr.stale = true })

	domainColors := cfg.DomainColorMap()
	m := Model{
		source:       opts.Source,
		loader:       opts.Loader,
		watcher:      opts.Watcher,
		loadedAt:     time.Now(),
		store:        store,
		unsubscribe:  unsubscribe,
		frame:        fr,
		view:         ParseView(cfg.View.DefaultView),
		axis:         model.ParseAxis(string(cfg.View.Axis)),
		mode:         model.ParseClusteringMode(string(cfg.View.Mode)),
		xAxis:        model.ParseAxis(string(cfg.View.MatrixX)),
		yAxis:        model.ParseAxis(string(cfg.View.MatrixY)),
		vp:           viewport.New(),
		geometry:     cfg.RadarGeometry(),
		domainColors: domainColors,
		jitter:       jitter,
		bookmarks:    opts.Bookmarks,
		callbacks:    opts.Callbacks,
		exportCfg:    cfg.Export,
		theme:        DefaultTheme(lipgloss.DefaultRenderer()).WithDomainColors(domainColors),
		help:         help.New(),
		showDetail:   true,
		width:        80,
		height:       24,
	}
	if cfg.View.MatrixY == "" {
		m.yAxis = def.View.MatrixY
	}
	m.md = NewMarkdownRenderer(DetailPaneWidth - 4)
	m.detail = bviewport.New(DetailPaneWidth-2, m.height-4)
	m.setSnapshot(snap)
	return m
}

func (m *Model) setSnapshot(snap model.Snapshot) {
	m.snap = snap
	m.clusters = snap.ClusterByID()
	m.ranks = rank.Build(snap.Clusters, snap.Technologies, m.mode)
	m.frame.stale = true
	m.ensureFrame()
}

// ensureFrame recomputes the derived frame if anything changed and keeps
// the selection on a visible technology.
func (m *Model) ensureFrame() {
	if !m.frame.stale {
		return
	}
	fr := m.frame
	fr.active = filter.Apply(m.store.State(), m.snap.Clusters, m.snap.Technologies, m.mode)
	fr.layout = radar.ComputeLayout(fr.active.Clusters, fr.active.Technologies, m.axis, m.mode, m.geometry, radar.Options{
		Rank:         m.ranks.Rank,
		DomainColors: m.domainColors,
	})
	fr.points = matrix.ComputeLayout(fr.active.Technologies, m.xAxis, m.yAxis, m.jitter)
	fr.order = fr.order[:0]
	for _, g := range fr.layout.Groups {
		for _, t := range g.Technologies {
			fr.order = append(fr.order, t.Tech)
		}
	}
	fr.stale = false

	if m.selectedIndex() < 0 {
		m.selectedID = ""
		if len(fr.order) > 0 {
			m.selectedID = fr.order[0].ID
		}
	}
	m.updateDetail()
}

func (m Model) selectedIndex() int {
	for i, t := range m.frame.order {
		if t.ID == m.selectedID {
			return i
		}
	}
	return -1
}

// dispatch applies a filter action and fires OnClusterSelect when the
// focus changed as a side effect.
func (m *Model) dispatch(a filter.Action) bool {
	_, hadFocus := m.store.State().FocusedCluster()
	changed := m.store.Dispatch(a)
	if _, hasFocus := m.store.State().FocusedCluster(); hadFocus && !hasFocus {
		m.callbacks.SelectCluster(nil)
	}
	return changed
}

func (m Model) clusterFor(t model.Technology) (model.Cluster, bool) {
	if m.mode == model.ModeDomain {
		if !t.Domain.IsValid() {
			return model.Cluster{}, false
		}
		return model.DomainCluster(t.Domain, m.domainColors), true
	}
	c, ok := m.clusters[t.ClusterID(m.mode)]
	return c, ok
}

func (m Model) selectedTechnology() (model.Technology, bool) {
	if i := m.selectedIndex(); i >= 0 {
		return m.frame.order[i], true
	}
	return model.Technology{}, false
}

func (m *Model) updateDetail() {
	t, ok := m.selectedTechnology()
	if !ok {
		m.detail.SetContent(m.theme.MutedText.Render("No technology selected."))
		return
	}
	cluster, _ := m.clusterFor(t)
	md := export.TechnologyMarkdown(t, cluster, m.ranks.Rank(t))
	if m.bookmarks != nil && m.bookmarks.Has(t.ID) {
		md += "\n★ bookmarked\n"
	}
	m.detail.SetContent(m.md.Render(md))
	m.detail.GotoTop()
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusIsError = isErr
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return WatchFileCmd(m.watcher)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.detail.Width = DetailPaneWidth - 2
		m.detail.Height = max(m.height-4, 1)
		m.help.Width = msg.Width
		return m, nil

	case FileChangedMsg:
		if m.watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.watcher))
		}
		if m.loader != nil {
			debug.Log("ui: snapshot changed, reloading")
			cmds = append(cmds, ReloadCmd(m.loader))
		}
		return m, tea.Batch(cmds...)

	case SnapshotLoadedMsg:
		if msg.Err != nil {
			m.setStatus(fmt.Sprintf("Reload error: %v", msg.Err), true)
			return m, nil
		}
		diff := datasource.DetectChanges(m.snap, msg.Snapshot, "previous", "reloaded", datasource.DefaultDiffOptions())
		m.setSnapshot(msg.Snapshot)
		m.loadedAt = time.Now()
		m.setStatus("Reloaded "+diff.Short(), false)
		return m, nil

	case ExportDoneMsg:
		if msg.Err != nil {
			m.setStatus(fmt.Sprintf("Export failed: %v", msg.Err), true)
		} else {
			m.setStatus("Exported "+msg.Path, false)
		}
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKeys(msg)
		m.ensureFrame()
		return m, cmd
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		return m, tea.Quit

	case key.Matches(msg, keys.Technology):
		m.toggleDomain(model.DomainTechnology)
	case key.Matches(msg, keys.Industry):
		m.toggleDomain(model.DomainIndustry)
	case key.Matches(msg, keys.Society):
		m.toggleDomain(model.DomainSociety)

	case key.Matches(msg, keys.Axis):
		if m.view == ViewMatrix {
			m.xAxis = m.xAxis.Next()
			m.setStatus("Matrix x axis: "+m.xAxis.Title(), false)
		} else {
			m.axis = m.axis.Next()
			m.setStatus("Axis: "+m.axis.Title(), false)
		}
		m.frame.stale = true
	case key.Matches(msg, keys.YAxis):
		m.yAxis = m.yAxis.Next()
		m.setStatus("Matrix y axis: "+m.yAxis.Title(), false)
		m.frame.stale = true

	case key.Matches(msg, keys.Mode):
		m.mode = m.mode.Next()
		// A focused id from the previous mode means nothing in the new one.
		m.dispatch(filter.ClearFocusAction())
		m.ranks = rank.Build(m.snap.Clusters, m.snap.Technologies, m.mode)
		m.frame.stale = true
		m.setStatus(fmt.Sprintf("Clustering: %s", m.mode), false)

	case key.Matches(msg, keys.Focus):
		t, ok := m.selectedTechnology()
		if !ok {
			break
		}
		c, ok := m.clusterFor(t)
		if !ok {
			m.setStatus(fmt.Sprintf("%s has no cluster in %s mode", t.Name, m.mode), true)
			break
		}
		m.dispatch(filter.FocusAction(c))
		m.callbacks.SelectTechnology(t)
		m.callbacks.SelectCluster(&c)
		m.setStatus("Focused "+c.Name, false)

	case key.Matches(msg, keys.Clear):
		if _, ok := m.store.State().FocusedCluster(); ok {
			m.dispatch(filter.ClearFocusAction())
			m.setStatus("Focus cleared", false)
		}

	case key.Matches(msg, keys.Reset):
		m.dispatch(filter.ResetAction())
		m.vp = m.vp.Reset()
		m.setStatus("Reset filters and view", false)

	case key.Matches(msg, keys.ZoomIn):
		m.vp = m.vp.ZoomBy(zoomStep, r2.Vec{})
	case key.Matches(msg, keys.ZoomOut):
		m.vp = m.vp.ZoomBy(1/zoomStep, r2.Vec{})
	case key.Matches(msg, keys.PanUp):
		m.vp = m.vp.PanBy(r2.Vec{Y: panStepY})
	case key.Matches(msg, keys.PanDown):
		m.vp = m.vp.PanBy(r2.Vec{Y: -panStepY})
	case key.Matches(msg, keys.PanLeft):
		m.vp = m.vp.PanBy(r2.Vec{X: panStepX})
	case key.Matches(msg, keys.PanRight):
		m.vp = m.vp.PanBy(r2.Vec{X: -panStepX})

	case key.Matches(msg, keys.Next):
		m.moveSelection(1)
	case key.Matches(msg, keys.Prev):
		m.moveSelection(-1)

	case key.Matches(msg, keys.View):
		if m.view == ViewRadar {
			m.view = ViewMatrix
		} else {
			m.view = ViewRadar
		}
		m.vp = m.vp.Reset()
		m.setStatus("View: "+m.view.String(), false)

	case key.Matches(msg, keys.Bookmark):
		m.toggleBookmark()

	case key.Matches(msg, keys.Copy):
		if t, ok := m.selectedTechnology(); ok {
			if err := clipboard.WriteAll(t.ID); err != nil {
				m.setStatus(fmt.Sprintf("Clipboard error: %v", err), true)
			} else {
				m.setStatus(fmt.Sprintf("Copied %s to clipboard", t.ID), false)
			}
		}

	case key.Matches(msg, keys.Export):
		return m, m.exportCmd(time.Now())

	case key.Matches(msg, keys.Detail):
		m.showDetail = !m.showDetail

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) toggleDomain(d model.Domain) {
	st := m.store.State()
	if !m.dispatch(filter.ToggleDomainAction(d)) {
		if st.Enabled(d) && len(st.EnabledDomains()) == 1 {
			m.setStatus("At least one domain must stay enabled", true)
		}
		return
	}
	state := "off"
	if m.store.State().Enabled(d) {
		state = "on"
	}
	m.setStatus(fmt.Sprintf("%s %s", d, state), false)
}

func (m *Model) moveSelection(delta int) {
	n := len(m.frame.order)
	if n == 0 {
		return
	}
	i := m.selectedIndex()
	if i < 0 {
		i = 0
	} else {
		i = ((i+delta)%n + n) % n
	}
	t := m.frame.order[i]
	m.selectedID = t.ID
	m.callbacks.SelectTechnology(t)
	m.updateDetail()
}

func (m *Model) toggleBookmark() {
	t, ok := m.selectedTechnology()
	if !ok {
		return
	}
	if m.bookmarks == nil {
		m.setStatus("Bookmarks unavailable", true)
		return
	}
	on := m.bookmarks.Toggle(t.ID)
	if err := m.bookmarks.Save(); err != nil {
		m.setStatus(fmt.Sprintf("Bookmark save failed: %v", err), true)
		return
	}
	if on {
		m.setStatus("Bookmarked "+t.Name, false)
	} else {
		m.setStatus("Removed bookmark "+t.Name, false)
	}
	m.updateDetail()
}

// exportCmd renders the current frame to the export directory.
func (m Model) exportCmd(now time.Time) tea.Cmd {
	fr := m.frame
	view := m.view
	opts := export.SnapshotOptions{
		Path: filepath.Join(m.exportCfg.Dir, fmt.Sprintf("trendradar-%s-%s.%s",
			view, now.Format("20060102-150405"), strings.ToLower(m.exportCfg.Format))),
		Title:        m.exportCfg.Title,
		DomainColors: m.domainColors,
	}
	layout := fr.layout
	snap := export.MatrixSnapshot{
		Points:   append([]matrix.Point(nil), fr.points...),
		Clusters: m.snap.Clusters,
		XAxis:    m.xAxis,
		YAxis:    m.yAxis,
	}
	return func() tea.Msg {
		var err error
		if view == ViewMatrix {
			err = export.SaveMatrixSnapshot(snap, opts)
		} else {
			err = export.SaveRadarSnapshot(layout, opts)
		}
		return ExportDoneMsg{Path: opts.Path, Err: err}
	}
}

// --- rendering -------------------------------------------------------------

func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()

	header := m.renderHeader()
	footer := m.renderFooter()
	bodyH := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 3)

	detailW := 0
	if m.showDetail && m.width >= SplitViewThreshold {
		detailW = DetailPaneWidth
	}
	canvasW := max(m.width-detailW, 10)

	body := m.renderCanvas(canvasW, bodyH)
	if detailW > 0 {
		dv := m.detail
		dv.Height = max(bodyH-2, 1)
		panel := m.theme.Panel.Width(detailW - 2).Height(bodyH - 2).Render(dv.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, panel)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderCanvas(w, h int) string {
	c := NewCanvas(w, h)
	fr := m.frame
	bookmarked := func(id string) bool { return m.bookmarks != nil && m.bookmarks.Has(id) }

	switch {
	case fr.layout.Empty():
		msg := "Nothing to show. Press 1/2/3 to toggle domains or r to reset."
		c.Text(max((w-len(msg))/2, 0), h/2, truncate(msg, w), c.Style("muted", m.theme.MutedText), false)
	case m.view == ViewMatrix:
		renderMatrix(c, matrixScene{
			Points:     fr.points,
			XAxis:      m.xAxis,
			YAxis:      m.yAxis,
			Viewport:   m.vp,
			SelectedID: m.selectedID,
			ColorOf:    m.colorOf,
			Bookmarked: bookmarked,
			Theme:      m.theme,
		})
	default:
		renderRadar(c, radarScene{
			Layout:     fr.layout,
			Viewport:   m.vp,
			SelectedID: m.selectedID,
			Bookmarked: bookmarked,
			Theme:      m.theme,
		})
	}
	return c.Render()
}

// colorOf is the matrix point color: parent cluster color, else domain.
func (m Model) colorOf(t model.Technology) string {
	if c, ok := m.clusters[t.ParentID]; ok && c.Color != "" {
		return c.Color
	}
	return m.domainColors[t.Domain]
}

func (m Model) renderHeader() string {
	st := m.store.State()
	var parts []string
	parts = append(parts, m.theme.Header.Render("Trend Radar"))
	if m.view == ViewMatrix {
		parts = append(parts, fmt.Sprintf("matrix %s × %s", m.xAxis.Title(), m.yAxis.Title()))
	} else {
		parts = append(parts, fmt.Sprintf("radar %s", m.axis.Title()))
	}
	parts = append(parts, string(m.mode))

	var domains []string
	for i, d := range model.Domains {
		label := fmt.Sprintf("%d:%s", i+1, d)
		if st.Enabled(d) {
			domains = append(domains, m.theme.DomainStyle(d).Bold(true).Render(label))
		} else {
			domains = append(domains, m.theme.MutedText.Strikethrough(true).Render(label))
		}
	}
	parts = append(parts, strings.Join(domains, " "))

	if id, ok := st.FocusedCluster(); ok {
		name := id
		if c, found := m.clusters[id]; found && m.mode != model.ModeDomain {
			name = c.Name
		}
		parts = append(parts, m.theme.Selected.Render("focus: "+name))
	}
	return truncateStyled(strings.Join(parts, "  "), m.width)
}

func (m Model) renderFooter() string {
	var status string
	if m.statusMsg != "" {
		if m.statusIsError {
			status = m.theme.Error.Render(m.statusMsg)
		} else {
			status = m.theme.Status.Render(m.statusMsg)
		}
	} else {
		src := m.source
		if src == "" {
			src = "snapshot"
		}
		status = m.theme.Status.Render(fmt.Sprintf("%d/%d technologies  %s  %s loaded %s",
			len(m.frame.order), len(m.snap.Technologies), m.vp, src, FormatTimeRel(m.loadedAt)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, truncateStyled(status, m.width), m.help.View(keys))
}

// truncateStyled caps a styled line at width cells.
func truncateStyled(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}

// --- accessors -------------------------------------------------------------

// SelectedID returns the selected technology id, or "".
func (m Model) SelectedID() string { return m.selectedID }

// FilterState returns the current filter state.
func (m Model) FilterState() filter.State { return m.store.State() }

// CurrentView returns the active pane.
func (m Model) CurrentView() View { return m.view }

// Axis returns the radar axis.
func (m Model) Axis() model.Axis { return m.axis }

// MatrixAxes returns the matrix x and y axes.
func (m Model) MatrixAxes() (model.Axis, model.Axis) { return m.xAxis, m.yAxis }

// Mode returns the clustering mode.
func (m Model) Mode() model.ClusteringMode { return m.mode }

// Viewport returns the pan/zoom state.
func (m Model) Viewport() viewport.State { return m.vp }

// Layout returns the current radar frame.
func (m Model) Layout() radar.Layout { return m.frame.layout }

// Points returns the current matrix frame.
func (m Model) Points() []matrix.Point { return m.frame.points }

// Status returns the status line message and whether it is an error.
func (m Model) Status() (string, bool) { return m.statusMsg, m.statusIsError }

// Snapshot returns the loaded snapshot.
func (m Model) Snapshot() model.Snapshot { return m.snap }
