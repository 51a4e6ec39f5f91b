package ui

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ramanasai/liftlog/internal/db"
	"github.com/ramanasai/liftlog/internal/model"
	"github.com/ramanasai/liftlog/internal/ordering"
	"github.com/ramanasai/liftlog/internal/render"
	"github.com/ramanasai/liftlog/internal/version"
)

type mode int

const (
	modeList mode = iota
	modeDetail
	modeAddEntry
	modeCalendar
	modeTemplates
	modeHelp
)

const listLimit = 50

// Options configures the TUI.
type Options struct {
	DB         *sql.DB
	Location   *time.Location
	MaxItems   int
	WeightUnit string
}

type Model struct {
	// layout
	width, height int
	mode          mode
	prevMode      mode

	db       *sql.DB
	loc      *time.Location
	now      time.Time
	maxItems int
	unit     string
	th       Theme
	renderer *render.Renderer
	catalog  model.CatalogMap

	// workout list
	workouts []model.Workout
	total    int
	cursor   int

	// detail
	current     model.Workout
	entryCursor int

	// add entry form
	addExercise AutocompleteModel
	addSets     textinput.Model
	addReps     textinput.Model
	addField    int

	// calendar
	calMonth    time.Time
	calSelected time.Time
	calCounts   map[string]int
	calDay      []model.Workout
	calPreview  bool

	// templates
	templates []model.Template
	tplCursor int

	status string
	err    error
}

// New builds the TUI model. Data loads asynchronously from Init.
func New(opts Options) Model {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := time.Now().In(loc)

	sets := textinput.New()
	sets.Placeholder = "3"
	sets.CharLimit = 3
	sets.Width = 6
	reps := textinput.New()
	reps.Placeholder = "8-10"
	reps.CharLimit = 40
	reps.Width = 20

	m := Model{
		db:          opts.DB,
		loc:         loc,
		now:         now,
		maxItems:    opts.MaxItems,
		unit:        opts.WeightUnit,
		th:          DefaultTheme,
		catalog:     model.CatalogMap{},
		addExercise: NewAutocomplete(opts.DB, 6),
		addSets:     sets,
		addReps:     reps,
		calMonth:    time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc),
		calSelected: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc),
		calCounts:   map[string]int{},
	}
	m.renderer = render.NewRenderer(m.rendererConfig(), m.catalog)
	return m
}

// Run starts the TUI on the alternate screen.
func Run(opts Options) error {
	_, err := tea.NewProgram(New(opts), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickNow(), m.loadWorkoutsCmd(), m.loadTemplatesCmd())
}

// ---------- messages & commands ----------

type tickMsg struct{ now time.Time }

func tickNow() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg { return tickMsg{now: t} })
}

type workoutsLoadedMsg struct {
	workouts []model.Workout
	total    int
	catalog  model.CatalogMap
	err      error
}

type templatesLoadedMsg struct {
	templates []model.Template
	err       error
}

type calendarLoadedMsg struct {
	month  time.Time
	counts map[string]int
	err    error
}

type dayLoadedMsg struct {
	workouts []model.Workout
	err      error
}

// workoutSavedMsg reports a write that touched one workout.
type workoutSavedMsg struct {
	workout model.Workout
	status  string
	err     error
}

func (m Model) loadWorkoutsCmd() tea.Cmd {
	dbh := m.db
	return func() tea.Msg {
		workouts, total, err := db.ListWorkouts(dbh, db.WorkoutFilter{Limit: listLimit})
		if err != nil {
			return workoutsLoadedMsg{err: err}
		}
		catalog, err := db.Catalog(dbh)
		return workoutsLoadedMsg{workouts: workouts, total: total, catalog: catalog, err: err}
	}
}

func (m Model) loadTemplatesCmd() tea.Cmd {
	dbh := m.db
	return func() tea.Msg {
		templates, err := db.ListTemplates(dbh)
		return templatesLoadedMsg{templates: templates, err: err}
	}
}

func (m Model) loadCalendarCmd() tea.Cmd {
	dbh, month := m.db, m.calMonth
	return func() tea.Msg {
		first, last := db.MonthBounds(month)
		counts, err := db.GetWorkoutCountsByDate(dbh, first, last)
		return calendarLoadedMsg{month: month, counts: counts, err: err}
	}
}

func (m Model) loadDayCmd() tea.Cmd {
	dbh, day := m.db, m.calSelected
	return func() tea.Msg {
		workouts, err := db.GetWorkoutsByDate(dbh, day)
		return dayLoadedMsg{workouts: workouts, err: err}
	}
}

// editEntriesCmd applies edit to the current entry list of a workout and
// writes the result back.
func (m Model) editEntriesCmd(workoutID, status string, edit func([]ordering.Entry) ([]ordering.Entry, error)) tea.Cmd {
	dbh := m.db
	return func() tea.Msg {
		w, err := db.GetWorkout(dbh, workoutID)
		if err != nil {
			return workoutSavedMsg{err: err}
		}
		entries, err := edit(w.Entries)
		if err != nil {
			return workoutSavedMsg{err: err}
		}
		if _, err := db.ReplaceWorkoutEntries(dbh, workoutID, entries); err != nil {
			return workoutSavedMsg{err: err}
		}
		w, err = db.GetWorkout(dbh, workoutID)
		return workoutSavedMsg{workout: w, status: status, err: err}
	}
}

func (m Model) startTemplateCmd(t model.Template) tea.Cmd {
	dbh, day := m.db, m.now
	return func() tea.Msg {
		w, err := db.StartWorkoutFromTemplate(dbh, t.ID, "", day)
		return workoutSavedMsg{workout: w, status: "started " + t.Name, err: err}
	}
}

// ---------- update ----------

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.now = msg.now.In(m.loc)
		return m, tickNow()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case workoutsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.workouts, m.total = msg.workouts, msg.total
		m.catalog = msg.catalog
		m.renderer = render.NewRenderer(m.rendererConfig(), m.catalog)
		m.cursor = clamp(m.cursor, 0, len(m.workouts)-1)
		return m, nil

	case templatesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.templates = msg.templates
		m.tplCursor = clamp(m.tplCursor, 0, len(m.templates)-1)
		return m, nil

	case calendarLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if msg.month.Equal(m.calMonth) {
			m.calCounts = msg.counts
		}
		return m, nil

	case dayLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.calDay = msg.workouts
		return m, nil

	case workoutSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = msg.status
		m.current = msg.workout
		m.entryCursor = clamp(m.entryCursor, 0, len(m.current.Entries)-1)
		m.mode = modeDetail
		return m, tea.Batch(m.loadWorkoutsCmd(), m.loadTemplatesCmd())

	case AutocompleteMsg:
		var cmd tea.Cmd
		m.addExercise, cmd = m.addExercise.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAddEntry:
			return m.updateAddEntry(msg)
		case modeDetail:
			return m.updateDetail(msg.String())
		case modeCalendar:
			return m.updateCalendar(msg.String())
		case modeTemplates:
			return m.updateTemplates(msg.String())
		case modeHelp:
			m.mode = m.prevMode
			return m, nil
		default:
			return m.updateList(msg.String())
		}
	}
	return m, nil
}

func (m Model) rendererConfig() *render.Config {
	cfg := render.DefaultConfig()
	if m.unit != "" {
		cfg.WeightUnit = m.unit
	}
	return cfg
}

func (m Model) updateList(k string) (tea.Model, tea.Cmd) {
	switch k {
	case "q":
		return m, tea.Quit
	case "j", "down":
		m.cursor = clamp(m.cursor+1, 0, len(m.workouts)-1)
	case "k", "up":
		m.cursor = clamp(m.cursor-1, 0, len(m.workouts)-1)
	case "g":
		m.cursor = 0
	case "G":
		m.cursor = max(len(m.workouts)-1, 0)
	case "enter", "l":
		if len(m.workouts) > 0 {
			m.current = m.workouts[m.cursor]
			m.entryCursor = 0
			m.mode = modeDetail
		}
	case "c":
		m.mode = modeCalendar
		m.calPreview = false
		return m, m.loadCalendarCmd()
	case "t":
		m.mode = modeTemplates
		return m, m.loadTemplatesCmd()
	case "r":
		m.status = "reloaded"
		return m, tea.Batch(m.loadWorkoutsCmd(), m.loadTemplatesCmd())
	case "?":
		m.prevMode, m.mode = m.mode, modeHelp
	}
	return m, nil
}

func (m Model) updateDetail(k string) (tea.Model, tea.Cmd) {
	n := len(m.current.Entries)
	id := m.current.ID
	switch k {
	case "esc", "h", "q":
		m.mode = modeList
	case "j", "down":
		m.entryCursor = clamp(m.entryCursor+1, 0, n-1)
	case "k", "up":
		m.entryCursor = clamp(m.entryCursor-1, 0, n-1)
	case "J", "K":
		if n < 2 {
			return m, nil
		}
		from := m.entryCursor
		to := from + 1
		if k == "K" {
			to = from - 1
		}
		if to < 0 || to >= n {
			return m, nil
		}
		m.entryCursor = to
		return m, m.editEntriesCmd(id, "moved", func(entries []ordering.Entry) ([]ordering.Entry, error) {
			return ordering.Move(entries, from, to), nil
		})
	case "x", "d":
		if n == 0 {
			return m, nil
		}
		at := m.entryCursor
		return m, m.editEntriesCmd(id, "removed", func(entries []ordering.Entry) ([]ordering.Entry, error) {
			return ordering.RemoveAt(entries, at), nil
		})
	case "a":
		m.mode = modeAddEntry
		m.addField = 0
		m.addExercise.Reset()
		m.addSets.SetValue("3")
		m.addReps.SetValue("")
		m.addSets.Blur()
		m.addReps.Blur()
		m.err = nil
		return m, m.addExercise.Focus()
	case "?":
		m.prevMode, m.mode = m.mode, modeHelp
	}
	return m, nil
}

func (m Model) updateAddEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.String() {
	case "esc":
		if m.addField == 0 && m.addExercise.Showing() {
			m.addExercise, cmd = m.addExercise.Update(msg)
			return m, cmd
		}
		m.mode = modeDetail
		return m, nil
	case "tab", "shift+tab":
		if m.addField == 0 && m.addExercise.Showing() {
			m.addExercise, cmd = m.addExercise.Update(msg)
			return m, cmd
		}
		step := 1
		if msg.String() == "shift+tab" {
			step = 2
		}
		return m, m.focusAddField((m.addField + step) % 3)
	case "enter":
		if m.addField == 0 && m.addExercise.Showing() {
			m.addExercise, cmd = m.addExercise.Update(msg)
			return m, m.focusAddField(1)
		}
		if m.addField < 2 {
			return m, m.focusAddField(m.addField + 1)
		}
		return m.submitEntry()
	}

	switch m.addField {
	case 0:
		m.addExercise, cmd = m.addExercise.Update(msg)
	case 1:
		m.addSets, cmd = m.addSets.Update(msg)
	case 2:
		m.addReps, cmd = m.addReps.Update(msg)
	}
	return m, cmd
}

func (m *Model) focusAddField(field int) tea.Cmd {
	m.addField = field
	m.addExercise.Blur()
	m.addSets.Blur()
	m.addReps.Blur()
	switch field {
	case 1:
		return m.addSets.Focus()
	case 2:
		return m.addReps.Focus()
	}
	return m.addExercise.Focus()
}

// submitEntry inserts the form below the highlighted entry.
func (m Model) submitEntry() (tea.Model, tea.Cmd) {
	sets, err := strconv.Atoi(strings.TrimSpace(m.addSets.Value()))
	if err != nil {
		m.err = fmt.Errorf("sets must be a number")
		return m, nil
	}
	chosen, picked := m.addExercise.Chosen()
	name := m.addExercise.Value()
	draft := ordering.Draft{Sets: sets, Reps: m.addReps.Value()}
	at := len(m.current.Entries)
	if at > 0 {
		at = m.entryCursor + 1
	}
	dbh := m.db

	m.entryCursor = at
	return m, m.editEntriesCmd(m.current.ID, "added", func(entries []ordering.Entry) ([]ordering.Entry, error) {
		if !picked {
			ex, err := db.FindExercise(dbh, name)
			if err != nil {
				return nil, err
			}
			chosen = ex
		}
		d := draft
		d.ExerciseID = chosen.ID
		d, err := model.ValidateDraft(d, model.ForWorkout)
		if err != nil {
			return nil, err
		}
		if err := model.CheckDuplicate(entries, d.ExerciseID); err != nil {
			return nil, err
		}
		return ordering.InsertAt(entries, d, at), nil
	})
}

func (m Model) updateCalendar(k string) (tea.Model, tea.Cmd) {
	if m.calPreview {
		switch k {
		case "esc", "q":
			m.calPreview = false
		case "enter":
			if len(m.calDay) > 0 {
				m.current = m.calDay[0]
				m.entryCursor = 0
				m.mode = modeDetail
			}
		}
		return m, nil
	}

	switch k {
	case "esc", "q":
		m.mode = modeList
		return m, nil
	case "left", "h":
		return m.selectDay(m.calSelected.AddDate(0, 0, -1))
	case "right", "l":
		return m.selectDay(m.calSelected.AddDate(0, 0, 1))
	case "up", "k":
		return m.selectDay(m.calSelected.AddDate(0, 0, -7))
	case "down", "j":
		return m.selectDay(m.calSelected.AddDate(0, 0, 7))
	case "H", "pgup":
		return m.selectDay(m.calSelected.AddDate(0, -1, 0))
	case "L", "pgdown":
		return m.selectDay(m.calSelected.AddDate(0, 1, 0))
	case "t":
		return m.selectDay(time.Date(m.now.Year(), m.now.Month(), m.now.Day(), 0, 0, 0, 0, m.loc))
	case "enter":
		m.calPreview = true
		m.calDay = nil
		return m, m.loadDayCmd()
	}
	return m, nil
}

// selectDay moves the calendar selection, reloading counts when it
// crosses into another month.
func (m Model) selectDay(day time.Time) (tea.Model, tea.Cmd) {
	m.calSelected = day
	month := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, m.loc)
	if month.Equal(m.calMonth) {
		return m, nil
	}
	m.calMonth = month
	m.calCounts = map[string]int{}
	return m, m.loadCalendarCmd()
}

func (m Model) updateTemplates(k string) (tea.Model, tea.Cmd) {
	switch k {
	case "esc", "q":
		m.mode = modeList
	case "j", "down":
		m.tplCursor = clamp(m.tplCursor+1, 0, len(m.templates)-1)
	case "k", "up":
		m.tplCursor = clamp(m.tplCursor-1, 0, len(m.templates)-1)
	case "enter", "s":
		if len(m.templates) > 0 {
			return m, m.startTemplateCmd(m.templates[m.tplCursor])
		}
	}
	return m, nil
}

// ---------- view ----------

func (m Model) View() string {
	var body string
	switch m.mode {
	case modeDetail:
		body = m.renderDetail()
	case modeAddEntry:
		body = m.renderDetail() + "\n" + m.renderAddEntry()
	case modeCalendar:
		body = m.renderCalendar()
	case modeTemplates:
		body = m.renderTemplates()
	case modeHelp:
		body = helpView()
	default:
		body = m.renderList()
	}

	out := m.renderTopBar() + "\n\n" + body + "\n"
	if m.err != nil {
		out += m.th.Error.Render("error: "+m.err.Error()) + "\n"
	}
	return out + m.statusBar()
}

func (m Model) renderTopBar() string {
	title := m.th.Title.Render("liftlog")
	right := m.th.Label.Render(m.now.Format("Mon Jan 2") + "  " + version.GetShortVersion())
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return title + strings.Repeat(" ", gap) + right
}

func (m Model) statusBar() string {
	hints := map[mode]string{
		modeList:      "j/k move  enter open  c calendar  t templates  r reload  ? help  q quit",
		modeDetail:    "j/k select  J/K reorder  a add  x remove  esc back",
		modeAddEntry:  "tab next field  enter confirm  esc cancel",
		modeCalendar:  "h/j/k/l move  H/L month  t today  enter open day  esc back",
		modeTemplates: "j/k move  enter start workout  esc back",
		modeHelp:      "any key to close",
	}[m.mode]
	if m.status != "" {
		hints = m.status + "  │  " + hints
	}
	return m.th.Status.Render(hints)
}

func (m Model) renderList() string {
	if len(m.workouts) == 0 {
		return m.th.Hint.Render("No workouts yet. Log one with `liftlog workout new`.")
	}
	var b strings.Builder
	for i, w := range m.workouts {
		line := strings.TrimRight(m.renderer.WorkoutHeader(w), "\n")
		if i == m.cursor {
			line = m.th.Selected.Render("▶ ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	if m.total > len(m.workouts) {
		b.WriteString(m.th.Hint.Render(fmt.Sprintf("  showing %d of %d", len(m.workouts), m.total)) + "\n")
	}
	return b.String()
}

func (m Model) renderDetail() string {
	var b strings.Builder
	b.WriteString(m.renderer.WorkoutHeader(m.current) + "\n")

	dec := ordering.Decorate(m.current.Entries, 0)
	if len(dec.Entries) == 0 {
		b.WriteString(m.th.Hint.Render("  (no exercises)") + "\n")
	}
	for i, d := range dec.Entries {
		if d.ShowDivider {
			b.WriteString(m.th.Hint.Render("  "+strings.Repeat("┄", 24)) + "\n")
		}
		if d.ShowSectionHeader {
			b.WriteString(m.th.Title.Render("  "+d.SectionTitle) + "\n")
		}
		line := m.renderer.EntryLine(d)
		if i == m.entryCursor && m.mode == modeDetail {
			line = m.th.Selected.Render(">") + line[1:]
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) renderAddEntry() string {
	label := func(i int, s string) string {
		if i == m.addField {
			return m.th.Title.Render(s)
		}
		return m.th.Label.Render(s)
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.th.Title.Render("Add exercise"),
		label(0, "Exercise"),
		m.addExercise.View(),
		label(1, "Sets"),
		m.addSets.View(),
		label(2, "Reps (e.g. 10, 8-10, 12,10,8)"),
		m.addReps.View(),
	)
	return m.th.Border.Render(content)
}

func (m Model) renderCalendar() string {
	grid := m.renderer.Calendar(m.calMonth, m.calCounts, render.CalendarOptions{
		Today:    m.now,
		Selected: m.calSelected,
		Legend:   true,
	})
	if !m.calPreview {
		return m.th.Border.Render(strings.TrimRight(grid, "\n"))
	}

	var b strings.Builder
	b.WriteString(m.th.Title.Render(m.calSelected.Format("Monday, January 2, 2006")) + "\n\n")
	if len(m.calDay) == 0 {
		b.WriteString(m.th.Hint.Render("No workouts on this day.") + "\n")
	}
	for _, w := range m.calDay {
		b.WriteString(m.renderer.WorkoutHeader(w))
		b.WriteString(m.renderer.Entries(w.Entries, m.maxItems))
	}
	return m.th.Border.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderTemplates() string {
	if len(m.templates) == 0 {
		return m.th.Hint.Render("No templates. Create one with `liftlog template new`.")
	}
	var b strings.Builder
	for i, t := range m.templates {
		prefix := "  "
		if i == m.tplCursor {
			prefix = m.th.Selected.Render("▶ ")
		}
		meta := fmt.Sprintf("%d exercise%s, used %d×", len(t.Entries), plural(len(t.Entries)), t.UsageCount)
		b.WriteString(prefix + m.th.Value.Render(t.Name) + "  " + m.th.Label.Render(meta) + "\n")
	}
	if len(m.templates) > 0 {
		t := m.templates[m.tplCursor]
		b.WriteString("\n" + m.renderer.Entries(t.Entries, m.maxItems))
	}
	return b.String()
}

func helpView() string {
	rows := [][2]string{
		{"j / k", "move down / up"},
		{"enter", "open workout"},
		{"c", "calendar"},
		{"t", "templates"},
		{"a", "add exercise (workout view)"},
		{"J / K", "move exercise down / up"},
		{"x", "remove exercise"},
		{"r", "reload"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(DefaultTheme.Title.Render("Keys") + "\n\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %-8s %s\n", r[0], DefaultTheme.Hint.Render(r[1])))
	}
	return DefaultTheme.Border.Render(strings.TrimRight(b.String(), "\n"))
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
