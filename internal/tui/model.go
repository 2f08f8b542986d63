package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/idilsaglam/grocery/internal/clock"
	"github.com/idilsaglam/grocery/internal/items"
	"github.com/idilsaglam/grocery/internal/model"
	"github.com/idilsaglam/grocery/internal/render"
	"github.com/idilsaglam/grocery/internal/store"
	"github.com/idilsaglam/grocery/internal/toast"
	"github.com/idilsaglam/grocery/internal/ui"
)

const (
	msgInvalidDue = "Invalid due date"
	toastTick     = 100 * time.Millisecond
)

type keyMap struct {
	Toggle key.Binding
	Edit   key.Binding
	Delete key.Binding
	Add    key.Binding
	Close  key.Binding
	Quit   key.Binding

	Submit key.Binding
	Next   key.Binding
	Cancel key.Binding
}

var keys = keyMap{
	Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	Edit:   key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
	Delete: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
	Add:    key.NewBinding(key.WithKeys("a", "tab"), key.WithHelp("a", "add")),
	Close:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close toast")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),

	Submit: key.NewBinding(key.WithKeys("enter")),
	Next:   key.NewBinding(key.WithKeys("tab", "shift+tab")),
	Cancel: key.NewBinding(key.WithKeys("esc")),
}

func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Delete, k.Close}
}

// Messages arriving from timers and the file watcher. They only ever
// reach the model through Program.Send.
type (
	focusFormMsg  struct{}
	toastEventMsg struct{}
	toastTickMsg  struct{}
	reloadMsg     struct{}
)

// screen is the terminal render.Surface. It keeps the last tree and hands
// focus requests back to the event loop.
type screen struct {
	nodes []render.Node
	list  *listNode
	send  func(tea.Msg)
}

func (s *screen) Replace(nodes ...render.Node) {
	s.nodes = nodes
	s.list = nil
	for _, n := range nodes {
		if ln, ok := n.(*listNode); ok {
			s.list = ln
		}
	}
}

func (s *screen) Focus() { s.send(focusFormMsg{}) }

func (s *screen) View() string {
	parts := make([]string, 0, len(s.nodes))
	for _, n := range s.nodes {
		parts = append(parts, n.View())
	}
	return strings.Join(parts, "\n")
}

type deps struct {
	slot         store.Slot
	clock        clock.Clock
	send         func(tea.Msg)
	log          *zap.Logger
	toastOptions []toast.Option
	today        func() model.Date
	idFunc       func() string
}

type modelTUI struct {
	store  *items.Store
	toasts *toast.Center
	screen *screen
	form   *formState

	cursor *int
	width  *int
	height *int

	ticking bool
}

func newModel(d deps) modelTUI {
	if d.log == nil {
		d.log = zap.NewNop()
	}
	m := modelTUI{
		screen: &screen{send: d.send},
		form:   newFormState(),
		cursor: new(int),
		width:  new(int),
		height: new(int),
	}
	b := builders{form: m.form, cursor: m.cursor, width: m.width, height: m.height, today: d.today}
	orch := render.New(b, b, m.screen, d.clock)

	topts := append([]toast.Option{
		toast.WithClock(d.clock),
		toast.WithLogger(d.log),
		toast.WithObserver(func(toast.Event) { d.send(toastEventMsg{}) }),
	}, d.toastOptions...)
	m.toasts = toast.New(topts...)

	sopts := []items.Option{items.WithLogger(d.log)}
	if d.idFunc != nil {
		sopts = append(sopts, items.WithIDFunc(d.idFunc))
	}
	m.store = items.New(d.slot, orch, m.toasts, sopts...)
	return m
}

func (m modelTUI) Init() tea.Cmd { return nil }

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		*m.width, *m.height = msg.Width, msg.Height
		if m.screen.list != nil {
			m.screen.list.list.SetSize(listSize(msg.Width, msg.Height))
		}
		return m, nil
	case focusFormMsg:
		return m, m.form.focus()
	case toastEventMsg:
		return m.tick()
	case toastTickMsg:
		m.ticking = false
		return m.tick()
	case reloadMsg:
		m.store.Reload()
		return m, nil
	case tea.KeyMsg:
		if m.form.focused() {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}

	if m.form.focused() {
		return m, m.form.update(msg)
	}
	return m, nil
}

// tick keeps toast progress bars moving while any toast is live.
func (m modelTUI) tick() (tea.Model, tea.Cmd) {
	if m.ticking || len(m.toasts.Live()) == 0 {
		return m, nil
	}
	m.ticking = true
	return m, tea.Tick(toastTick, func(time.Time) tea.Msg { return toastTickMsg{} })
}

func (m modelTUI) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, keys.Submit):
		m.submit()
		return m, nil
	case key.Matches(msg, keys.Next):
		return m, m.form.switchField()
	case key.Matches(msg, keys.Cancel):
		if m.store.EditTarget() != "" {
			m.store.CancelEdit()
		} else {
			m.form.blur()
		}
		return m, nil
	}
	return m, m.form.update(msg)
}

// submit adds a new item, or renames the one under edit. Failures leave
// the form as typed; the store has already raised a toast for them.
func (m modelTUI) submit() {
	name, due, err := m.form.values()
	if err != nil {
		m.toasts.Show(msgInvalidDue, toast.Error, 0)
		return
	}
	if m.store.EditTarget() != "" {
		_ = m.store.Rename(name, due)
		return
	}
	_, _ = m.store.Add(name, due)
}

func (m modelTUI) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Close):
		if t, ok := m.toasts.Newest(); ok {
			m.toasts.Hide(t.ID)
		}
		return m, nil
	case key.Matches(msg, keys.Add):
		return m, m.form.focus()
	}

	sel, ok := m.selected()
	switch {
	case key.Matches(msg, keys.Toggle):
		if ok {
			_ = m.store.Toggle(sel.ID)
		}
		return m, nil
	case key.Matches(msg, keys.Edit):
		if ok {
			m.store.BeginEdit(sel.ID)
		}
		return m, nil
	case key.Matches(msg, keys.Delete):
		if ok {
			_ = m.store.Remove(sel.ID)
		}
		return m, nil
	}

	if m.screen.list == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.screen.list.list, cmd = m.screen.list.list.Update(msg)
	*m.cursor = m.screen.list.list.Index()
	return m, cmd
}

func (m modelTUI) selected() (listItem, bool) {
	if m.screen.list == nil {
		return listItem{}, false
	}
	return m.screen.list.selected()
}

func (m modelTUI) View() string {
	content := m.screen.View()
	if t := m.toastView(); t != "" {
		content += "\n" + t
	}
	return frameStyle.Render(content)
}

func (m modelTUI) toastView() string {
	live := m.toasts.Live()
	if len(live) == 0 {
		return ""
	}
	now := m.toasts.Now()
	boxes := make([]string, 0, len(live))
	for _, t := range live {
		left := t.Remaining(now)
		body := toastIconStyle(t.Kind).Render(t.Kind.Icon()) + " " + t.Message +
			"  " + mutedStyle.Render("x close") + "\n" +
			mutedStyle.Render(ui.ProgressBar(int(left.Milliseconds()), int(t.Duration.Milliseconds()), 20))
		boxes = append(boxes, toastStyle(t.Kind, t.Phase).Render(body))
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, boxes...)
	w, _ := listSize(*m.width, *m.height)
	return lipgloss.PlaceHorizontal(w, lipgloss.Right, stack)
}
