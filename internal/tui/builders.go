package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/grocery/internal/model"
	"github.com/idilsaglam/grocery/internal/render"
)

const (
	fieldName = iota
	fieldDue
)

// formState holds the live inputs. Every render resets them, the way a
// rebuilt form starts from the item under edit.
type formState struct {
	name    textinput.Model
	due     textinput.Model
	field   int
	editing bool
}

func newFormState() *formState {
	name := textinput.New()
	name.Prompt = "> "
	name.Placeholder = "e.g. eggs"
	name.CharLimit = 200

	due := textinput.New()
	due.Prompt = "due "
	due.Placeholder = "YYYY-MM-DD (optional)"
	due.CharLimit = 10
	due.Width = 22

	return &formState{name: name, due: due}
}

func (f *formState) reset(it *model.Item) {
	f.editing = it != nil
	f.field = fieldName
	f.name.Blur()
	f.due.Blur()
	f.name.SetValue("")
	f.due.SetValue("")
	if it != nil {
		f.name.SetValue(it.Name)
		if it.DueDate != nil {
			f.due.SetValue(it.DueDate.String())
		}
	}
}

func (f *formState) focused() bool { return f.name.Focused() || f.due.Focused() }

func (f *formState) focus() tea.Cmd {
	f.field = fieldName
	f.due.Blur()
	f.name.CursorEnd()
	return f.name.Focus()
}

func (f *formState) blur() {
	f.name.Blur()
	f.due.Blur()
}

func (f *formState) switchField() tea.Cmd {
	if f.field == fieldName {
		f.field = fieldDue
		f.name.Blur()
		f.due.CursorEnd()
		return f.due.Focus()
	}
	return f.focus()
}

func (f *formState) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.field == fieldDue {
		f.due, cmd = f.due.Update(msg)
	} else {
		f.name, cmd = f.name.Update(msg)
	}
	return cmd
}

// values returns the trimmed name and the parsed due date (nil when blank).
func (f *formState) values() (string, *model.Date, error) {
	name := strings.TrimSpace(f.name.Value())
	raw := strings.TrimSpace(f.due.Value())
	if raw == "" {
		return name, nil, nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return name, nil, err
	}
	return name, &d, nil
}

type formNode struct {
	f *formState
}

func (n formNode) View() string {
	title := "Add item"
	button := "enter: add"
	if n.f.editing {
		title = "Edit item"
		button = "enter: save · esc: cancel"
	}
	if !n.f.focused() {
		button = "a: type a new item"
		if n.f.editing {
			button = "tab: back to the form"
		}
	}
	bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	body := titleStyle.Render(title) + "\n" + n.f.name.View() + "\n" + n.f.due.View() + "\n" + helpStyle.Render(button)
	return bar.Render(body)
}

// listItem adapts model.Item to bubbles/list.Item
type listItem struct {
	ID      string
	Text    string
	Done    bool
	Due     *model.Date
	Overdue bool
}

func (i listItem) TitleText() string {
	box := boxUnchecked
	if i.Done {
		box = boxChecked
	}
	return fmt.Sprintf("%s %s", box, i.Text)
}

// Implement list.Item interface
func (i listItem) Title() string       { return i.TitleText() }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.Text }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)

	boxStyled := mutedStyle.Render(boxUnchecked)
	textStyled := it.Text
	if it.Done {
		boxStyled = successStyle.Render(boxChecked)
		textStyled = doneStyle.Render(it.Text)
	}

	line := fmt.Sprintf("%s %s", boxStyled, textStyled)
	if it.Due != nil {
		due := "due " + it.Due.String()
		if it.Overdue {
			line += "  " + overdueStyle.Render("! "+due)
		} else {
			line += "  " + mutedStyle.Render(due)
		}
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprint(w, prefix+line)
}

type listNode struct {
	list list.Model
}

func (n *listNode) View() string { return n.list.View() }

func (n *listNode) selected() (listItem, bool) {
	it, ok := n.list.SelectedItem().(listItem)
	return it, ok
}

// builders implements render.FormBuilder and render.ListBuilder for the
// terminal. cursor and size survive rebuilds; everything else is new.
type builders struct {
	form   *formState
	cursor *int
	width  *int
	height *int
	today  func() model.Date
}

func (b builders) BuildForm(editTarget string, it *model.Item) render.Node {
	b.form.reset(it)
	return formNode{f: b.form}
}

func (b builders) BuildList(items []model.Item) render.Node {
	today := model.DateOf(time.Now())
	if b.today != nil {
		today = b.today()
	}
	li := make([]list.Item, 0, len(items))
	for _, it := range items {
		li = append(li, listItem{
			ID:      it.ID,
			Text:    it.Name,
			Done:    it.Completed,
			Due:     it.DueDate,
			Overdue: it.Overdue(today),
		})
	}

	w, h := listSize(*b.width, *b.height)
	l := list.New(li, itemDelegate{}, w, h)

	dn, pn := stats(items)
	l.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Groceries"),
		successStyle.Render("✔"), dn,
		pendingStyle.Render("•"), pn,
		accentStyle.Render("Total"), len(items),
	)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.SetStatusBarItemName("item", "items")
	l.AdditionalShortHelpKeys = keys.listHelp
	l.AdditionalFullHelpKeys = keys.listHelp

	if n := len(items); n > 0 {
		c := *b.cursor
		if c >= n {
			c = n - 1
		}
		if c < 0 {
			c = 0
		}
		*b.cursor = c
		l.Select(c)
	}
	return &listNode{list: l}
}

// listSize leaves room for the frame and the form above the list.
func listSize(w, h int) (int, int) {
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	lh := h - 10
	if lh < 5 {
		lh = 5
	}
	return w - 4, lh
}

// small list stats used for the header
func stats(items []model.Item) (done, pending int) {
	for _, it := range items {
		if it.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}
