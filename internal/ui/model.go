package ui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/bantin/internal/app"
	"github.com/abelbrown/bantin/internal/curation"
	"github.com/abelbrown/bantin/internal/display"
	"github.com/abelbrown/bantin/internal/headlines"
	"github.com/abelbrown/bantin/internal/logging"
	"github.com/abelbrown/bantin/internal/newsmode"
	"github.com/abelbrown/bantin/internal/otel"
)

// frameInterval drives the marquee and the weather slide.
const frameInterval = time.Second / 30

// chromeLines is the ticker bar, the weather bar and the status bar.
const chromeLines = 3

type tab int

const (
	tabSyndicated tab = iota
	tabCustom
	tabBreaking
	tabThemes
	tabActivity
)

var tabNames = []string{"Tổng hợp", "Tùy chỉnh", "Tin khẩn AI", "Giao diện", "Nhật ký"}

type breakingField int

const (
	fieldTopic breakingField = iota
	fieldTag
	fieldAlert
)

// AppConfig wires the model to the rest of the program. The command
// factories run network work off the update loop; any of them may be nil.
type AppConfig struct {
	Controller *app.Controller

	// Generate returns a Cmd that yields HeadlinesGenerated for seq.
	Generate func(seq uint64, topic, tag string, count int) tea.Cmd
	// CheckSpelling returns a Cmd that yields SpellChecked for seq.
	CheckSpelling func(seq uint64, text string) tea.Cmd
	// Refetch asks for an immediate syndicated fetch.
	Refetch func() tea.Cmd

	// Events backs the activity tab. Optional.
	Events *otel.RingBuffer

	SpellDebounce  time.Duration
	CharsPerSecond int
	MaxHeadlines   int
	Location       *time.Location
}

// Model is the root Bubble Tea model.
// IMPORTANT: Model holds no network clients. All state changes go through
// the controller; async results arrive as messages.
type Model struct {
	cfg  AppConfig
	ctrl *app.Controller

	marquee *display.Marquee
	spring  harmonica.Spring
	slideX  float64
	slideV  float64

	spinner spinner.Model
	custom  textinput.Model
	topic   textinput.Model
	tag     textinput.Model
	alert   textinput.Model

	tab          tab
	field        breakingField
	customCursor int
	candCursor   int

	notice string
	err    string

	now       time.Time
	lastFrame time.Time
	width     int
	height    int
	ready     bool
}

// NewModel creates the root model.
func NewModel(cfg AppConfig) Model {
	if cfg.SpellDebounce <= 0 {
		cfg.SpellDebounce = 700 * time.Millisecond
	}
	if cfg.MaxHeadlines <= 0 {
		cfg.MaxHeadlines = headlines.MinHeadlines
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	newInput := func(placeholder string) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.Prompt = "› "
		ti.CharLimit = 500
		return ti
	}

	tag := newInput("Nhãn tin")
	tag.SetValue(cfg.Controller.DefaultTag())

	return Model{
		cfg:     cfg,
		ctrl:    cfg.Controller,
		marquee: display.NewMarquee(cfg.CharsPerSecond),
		spring:  harmonica.NewSpring(harmonica.FPS(30), 7.0, 0.9),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		custom:  newInput("Nhập nội dung tùy chỉnh"),
		topic:   newInput("Chủ đề, ví dụ: bão số 3"),
		tag:     tag,
		alert:   newInput("Nội dung tin khẩn nhập tay"),
		now:     time.Now().In(cfg.Location),
	}
}

// Init starts the frame and clock ticks.
func (m Model) Init() tea.Cmd {
	return tea.Batch(frameTick(), clockTick(), textinput.Blink)
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return FrameTick(t) })
}

func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return ClockTick(t) })
}

// Update handles messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		for _, ti := range []*textinput.Model{&m.custom, &m.topic, &m.tag, &m.alert} {
			ti.Width = max(msg.Width-8, 10)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case FrameTick:
		t := time.Time(msg)
		if !m.lastFrame.IsZero() {
			m.marquee.Advance(t.Sub(m.lastFrame))
		}
		m.lastFrame = t
		m.marquee.SetText(m.ctrl.Display())
		m.slideX, m.slideV = m.spring.Update(m.slideX, m.slideV, 0)
		return m, frameTick()

	case ClockTick:
		m.now = time.Time(msg).In(m.cfg.Location)
		return m, clockTick()

	case SyndicatedFetchStarted:
		m.ctrl.BeginSyndicatedFetch()
		return m, nil

	case SyndicatedLoaded:
		m.ctrl.CompleteSyndicatedFetch(msg.Titles, msg.Err)
		return m, nil

	case WeatherRotated:
		m.ctrl.RotateWeather(msg.Tick, msg.City)
		// slide the new city in from the right edge
		m.slideX = float64(m.width)
		m.slideV = 0
		return m, nil

	case WeatherLoaded:
		m.ctrl.WeatherLoaded(msg.Tick, msg.Data)
		return m, nil

	case HeadlinesGenerated:
		if m.ctrl.CompleteGeneration(msg.Seq, msg.Tag, msg.Result, msg.Err) {
			m.candCursor = 0
		}
		return m, nil

	case SpellTick:
		if m.cfg.CheckSpelling != nil && m.ctrl.SpellDue(msg.Seq) {
			return m, m.cfg.CheckSpelling(msg.Seq, m.ctrl.Topic())
		}
		return m, nil

	case SpellChecked:
		m.ctrl.ResolveSpelling(msg.Seq, msg.Text, msg.Suggestion, msg.OK)
		return m, nil

	case spinner.TickMsg:
		if !m.ctrl.State().Generating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// cursor blink and friends
	return m.updateFocused(msg)
}

// handleKeyMsg processes keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	m.err = ""
	m.notice = ""

	if m.ctrl.State().Pending != nil {
		return m.handleSelectionKey(msg)
	}

	switch msg.String() {
	case "tab":
		return m.setTab((m.tab + 1) % tab(len(tabNames)))
	case "shift+tab":
		return m.setTab((m.tab + tab(len(tabNames)) - 1) % tab(len(tabNames)))
	case "f1", "f2", "f3", "f4", "f5":
		return m.setTab(tab(msg.String()[1] - '1'))
	}

	switch m.tab {
	case tabSyndicated:
		return m.handleSyndicatedKey(msg)
	case tabCustom:
		return m.handleCustomKey(msg)
	case tabBreaking:
		return m.handleBreakingKey(msg)
	case tabThemes:
		return m.handleThemesKey(msg)
	case tabActivity:
		if msg.String() == "q" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) setTab(t tab) (tea.Model, tea.Cmd) {
	m.tab = t
	return m, m.focus()
}

// focus focuses the input that belongs to the current tab and field.
func (m *Model) focus() tea.Cmd {
	m.custom.Blur()
	m.topic.Blur()
	m.tag.Blur()
	m.alert.Blur()

	switch m.tab {
	case tabCustom:
		return m.custom.Focus()
	case tabBreaking:
		switch m.field {
		case fieldTag:
			return m.tag.Focus()
		case fieldAlert:
			return m.alert.Focus()
		default:
			return m.topic.Focus()
		}
	}
	return nil
}

func (m Model) handleSyndicatedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter", "s":
		if err := m.ctrl.SelectSyndicated(); err != nil {
			m.err = errText(err)
		}
	case "r":
		if m.cfg.Refetch != nil {
			return m, m.cfg.Refetch()
		}
	}
	return m, nil
}

func (m Model) handleThemesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "m":
		m.ctrl.ToggleMourning()
	case "t":
		m.ctrl.ToggleFestive()
	}
	return m, nil
}

func (m Model) handleCustomKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.ctrl.State().Custom)

	switch msg.String() {
	case "enter":
		if err := m.ctrl.AddCustom(m.custom.Value()); err != nil {
			m.err = errText(err)
			return m, nil
		}
		m.custom.SetValue("")
		m.customCursor = n
		return m, nil

	case "up":
		if m.customCursor > 0 {
			m.customCursor--
		}
		return m, nil

	case "down":
		if m.customCursor < n-1 {
			m.customCursor++
		}
		return m, nil

	case "ctrl+d":
		if err := m.ctrl.RemoveCustomAt(m.customCursor); err != nil {
			m.err = errText(err)
			return m, nil
		}
		if m.customCursor >= n-1 && m.customCursor > 0 {
			m.customCursor--
		}
		return m, nil

	case "ctrl+x":
		m.ctrl.ClearCustom()
		m.customCursor = 0
		return m, nil

	case "ctrl+s":
		if err := m.ctrl.SelectCustom(); err != nil {
			m.err = errText(err)
			return m, nil
		}
		m.notice = "Đang hiển thị nội dung tùy chỉnh."
		return m, nil
	}

	var cmd tea.Cmd
	m.custom, cmd = m.custom.Update(msg)
	return m, cmd
}

func (m Model) handleBreakingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up":
		if m.field > fieldTopic {
			m.field--
		}
		return m, m.focus()

	case "down":
		if m.field < fieldAlert {
			m.field++
		}
		return m, m.focus()

	case "enter":
		if m.field == fieldAlert {
			if err := m.ctrl.ActivateManualBreaking(m.tag.Value(), m.alert.Value()); err != nil {
				m.err = errText(err)
				return m, nil
			}
			m.alert.SetValue("")
			m.notice = "Đã phát tin khẩn."
			return m, nil
		}
		return m.generate()

	case "ctrl+y":
		if m.ctrl.AcceptSuggestion() {
			m.topic.SetValue(m.ctrl.Topic())
			m.topic.CursorEnd()
		}
		return m, nil

	case "ctrl+r":
		if err := m.ctrl.ResetBreaking(); err != nil {
			m.err = errText(err)
			return m, nil
		}
		m.tag.SetValue(m.ctrl.DefaultTag())
		m.notice = "Đã xóa tin khẩn."
		return m, nil

	case "esc":
		m.ctrl.CancelGeneration()
		m.ctrl.ClearSuggestion()
		return m, nil
	}

	var cmd tea.Cmd
	switch m.field {
	case fieldTag:
		m.tag, cmd = m.tag.Update(msg)
	case fieldAlert:
		m.alert, cmd = m.alert.Update(msg)
	default:
		before := m.topic.Value()
		m.topic, cmd = m.topic.Update(msg)
		if v := m.topic.Value(); v != before {
			seq := m.ctrl.EditTopic(v)
			cmd = tea.Batch(cmd, tea.Tick(m.cfg.SpellDebounce, func(time.Time) tea.Msg {
				return SpellTick{Seq: seq}
			}))
		}
	}
	return m, cmd
}

// generate starts a headline request for the current topic and tag.
func (m Model) generate() (tea.Model, tea.Cmd) {
	topic, tag := m.topic.Value(), m.tag.Value()
	seq, err := m.ctrl.BeginGeneration(topic, tag, m.cfg.MaxHeadlines)
	if err != nil {
		if errors.Is(err, app.ErrGenerating) {
			m.notice = "Đang tạo tin, vui lòng đợi."
		}
		return m, nil
	}
	if m.cfg.Generate == nil {
		logging.Warn("no generator configured")
		m.ctrl.CancelGeneration()
		return m, nil
	}
	return m, tea.Batch(m.cfg.Generate(seq, topic, tag, m.cfg.MaxHeadlines), m.spinner.Tick)
}

func (m Model) handleSelectionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.ctrl.State()
	n := len(s.Pending.Candidates)

	switch msg.String() {
	case "up", "k":
		if m.candCursor > 0 {
			m.candCursor--
		}
	case "down", "j":
		if m.candCursor < n-1 {
			m.candCursor++
		}
	case " ", "x":
		m.ctrl.ToggleCandidate(m.candCursor)
	case "a":
		m.ctrl.SelectAllCandidates()
	case "n":
		m.ctrl.SelectNoCandidates()
	case "enter":
		if err := m.ctrl.ConfirmSelection(); err != nil {
			m.err = errText(err)
			return m, nil
		}
		m.candCursor = 0
		m.notice = "Đã phát tin khẩn."
	case "esc":
		m.ctrl.CancelSelection()
		m.candCursor = 0
	}
	return m, nil
}

// updateFocused forwards msg to the focused input.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.custom.Focused():
		m.custom, cmd = m.custom.Update(msg)
	case m.topic.Focused():
		m.topic, cmd = m.topic.Update(msg)
	case m.tag.Focused():
		m.tag, cmd = m.tag.Update(msg)
	case m.alert.Focused():
		m.alert, cmd = m.alert.Update(msg)
	}
	return m, cmd
}

// errText turns an operation error into the line shown in the console.
func errText(err error) string {
	switch {
	case errors.Is(err, newsmode.ErrNoCustomEntries):
		return "Danh sách tùy chỉnh đang trống."
	case errors.Is(err, newsmode.ErrEmptyEntry):
		return "Vui lòng nhập nội dung."
	case errors.Is(err, newsmode.ErrEmptyTag):
		return "Vui lòng nhập nhãn tin."
	case errors.Is(err, newsmode.ErrNoBreakingItems):
		return "Vui lòng nhập nội dung tin khẩn."
	case errors.Is(err, newsmode.ErrIndexOutOfRange):
		return "Không có mục nào được chọn."
	case errors.Is(err, curation.ErrNothingSelected):
		return "Vui lòng chọn ít nhất một tin."
	case errors.Is(err, curation.ErrNoPending):
		return "Không có tin nào đang chờ duyệt."
	case errors.Is(err, newsmode.ErrPersist):
		return "Không thể lưu trạng thái: " + err.Error()
	default:
		return err.Error()
	}
}

// View renders the UI.
func (m Model) View() string {
	if !m.ready {
		return "Đang khởi động..."
	}

	s := m.ctrl.State()

	bodyHeight := m.height - chromeLines
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body := lipgloss.NewStyle().
		Width(m.width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(m.consoleView(s, bodyHeight))

	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		RenderWeather(s, int(m.slideX), m.width),
		RenderTicker(s, m.now, m.marquee.View, m.width),
		RenderStatusBar(s, m.hints(s), m.width),
	)
}

func (m Model) consoleView(s app.State, height int) string {
	var b strings.Builder
	b.WriteString(RenderTabs(m.tab))
	b.WriteString("\n\n")

	if s.Pending != nil {
		b.WriteString(Label.Render("Chọn tin để phát - " + s.Pending.Tag))
		b.WriteString("\n")
		list := height - 6 - len(s.Pending.Citations)
		b.WriteString(RenderCandidates(*s.Pending, s.IsSelected, m.candCursor, m.width, list))
		b.WriteString(RenderCitations(s.Pending.Citations, m.width))
	} else {
		switch m.tab {
		case tabSyndicated:
			b.WriteString(m.syndicatedView(s))
		case tabCustom:
			b.WriteString(m.customView(s))
		case tabBreaking:
			b.WriteString(m.breakingView(s))
		case tabThemes:
			b.WriteString(m.themesView(s))
		case tabActivity:
			b.WriteString(RenderActivity(m.cfg.Events, time.Now(), height-4))
		}
	}

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(m.err))
	}
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(Notice.Render(m.notice))
	}
	return b.String()
}

func (m Model) syndicatedView(s app.State) string {
	var b strings.Builder
	b.WriteString(Label.Render("Tin tổng hợp từ các nguồn RSS"))
	b.WriteString("\n")
	switch {
	case s.Fetching:
		b.WriteString(Muted.Render(display.LoadingPlaceholder))
	case s.SyndicatedError != "":
		b.WriteString(ErrorStyle.Render(s.SyndicatedError))
	default:
		b.WriteString(Muted.Render("Nhấn Enter để hiển thị, r để tải lại."))
	}
	return b.String()
}

func (m Model) customView(s app.State) string {
	var b strings.Builder
	b.WriteString(Label.Render("Nội dung tùy chỉnh"))
	b.WriteString("\n")
	b.WriteString(m.custom.View())
	b.WriteString("\n\n")
	if len(s.Custom) == 0 {
		b.WriteString(Muted.Render("Chưa có nội dung."))
		return b.String()
	}
	for i, entry := range s.Custom {
		if i == m.customCursor {
			b.WriteString(SelectedItem.MaxWidth(m.width).Render(entry))
		} else {
			b.WriteString(NormalItem.MaxWidth(m.width).Render(entry))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) breakingView(s app.State) string {
	var b strings.Builder

	b.WriteString(Label.Render("Chủ đề"))
	b.WriteString("\n")
	b.WriteString(m.topic.View())
	b.WriteString("\n")
	if s.Suggestion != "" {
		b.WriteString(Suggestion.Render("Có phải bạn muốn: " + s.Suggestion + " (ctrl+y)"))
		b.WriteString("\n")
	}

	b.WriteString(Label.Render("Nhãn tin"))
	b.WriteString("\n")
	b.WriteString(m.tag.View())
	b.WriteString("\n")

	b.WriteString(Label.Render("Tin khẩn nhập tay"))
	b.WriteString("\n")
	b.WriteString(m.alert.View())
	b.WriteString("\n\n")

	switch {
	case s.Generating:
		b.WriteString(m.spinner.View() + " Đang tạo tin...")
	case s.GenerationError != "":
		b.WriteString(ErrorStyle.Render(s.GenerationError))
	}
	return b.String()
}

func (m Model) themesView(s app.State) string {
	check := func(on bool) string {
		if on {
			return Checkmark.Render("[x]")
		}
		return "[ ]"
	}
	var b strings.Builder
	b.WriteString(Label.Render("Giao diện"))
	b.WriteString("\n")
	b.WriteString(check(s.Mourning) + " Quốc tang (m)\n")
	b.WriteString(check(s.Festive) + " Tết (t)\n")
	return b.String()
}

func (m Model) hints(s app.State) [][2]string {
	if s.Pending != nil {
		return [][2]string{{"space", "chọn"}, {"a", "tất cả"}, {"n", "bỏ chọn"}, {"enter", "phát"}, {"esc", "hủy"}}
	}
	switch m.tab {
	case tabCustom:
		return [][2]string{{"enter", "thêm"}, {"ctrl+d", "xóa"}, {"ctrl+x", "xóa hết"}, {"ctrl+s", "hiển thị"}, {"tab", "chuyển"}}
	case tabBreaking:
		return [][2]string{{"enter", "tạo/phát"}, {"↑↓", "ô nhập"}, {"ctrl+r", "xóa tin khẩn"}, {"esc", "hủy"}, {"tab", "chuyển"}}
	case tabThemes:
		return [][2]string{{"m", "quốc tang"}, {"t", "tết"}, {"tab", "chuyển"}, {"q", "thoát"}}
	case tabActivity:
		return [][2]string{{"tab", "chuyển"}, {"q", "thoát"}}
	default:
		return [][2]string{{"enter", "hiển thị"}, {"r", "tải lại"}, {"tab", "chuyển"}, {"q", "thoát"}}
	}
}

// Tab returns the active console tab (for testing).
func (m Model) Tab() int {
	return int(m.tab)
}

// Topic returns the topic input value (for testing).
func (m Model) Topic() string {
	return m.topic.Value()
}
