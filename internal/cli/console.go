package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/idilsaglam/grocery/internal/model"
	"github.com/idilsaglam/grocery/internal/render"
	"github.com/idilsaglam/grocery/internal/ui"
)

// -------------- console builders ----------------

type consoleForm struct{}

func (consoleForm) BuildForm(editTarget string, it *model.Item) render.Node {
	if it == nil {
		return render.Text("")
	}
	return render.Text(ui.C(ui.Current().Accent, "Editing: ") + it.Name)
}

type consoleList struct {
	group bool
	today func() model.Date
}

func (l consoleList) BuildList(items []model.Item) render.Node {
	d, p := stats(items)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(ui.Current().Title, "Groceries"),
		ui.C(ui.Current().Success, ui.Current().SymDone), d,
		ui.C(ui.Current().Pending, ui.Current().SymUnchecked), p,
		ui.C(ui.Current().Accent, "Total"), len(items),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(ui.Current().Muted, ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	today := l.todayDate()
	if l.group {
		lines = append(lines, groupLines(items, today)...)
	} else {
		lines = append(lines, flatLines(items, today)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(ui.Current().Muted, "Tip: add with `grocery add \"Milk\" --due 2026-10-20`"))
	return render.Text(ui.PanelString(lines))
}

func (l consoleList) todayDate() model.Date {
	if l.today != nil {
		return l.today()
	}
	return model.DateOf(time.Now())
}

// consoleSurface keeps the last rendered tree until the command prints it.
type consoleSurface struct {
	nodes []render.Node
}

func (s *consoleSurface) Replace(nodes ...render.Node) { s.nodes = nodes }

// Focus has no meaning outside the TUI.
func (s *consoleSurface) Focus() {}

func (s *consoleSurface) String() string {
	var parts []string
	for _, n := range s.nodes {
		if v := n.View(); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "\n")
}

// -------------- rendering helpers --------------

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

func flatLines(items []model.Item, today model.Date) []string {
	if len(items) == 0 {
		return []string{ui.C(ui.Current().Muted, "no items")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		out = append(out, itemLine(i+1, it, today))
	}
	return out
}

func itemLine(n int, it model.Item, today model.Date) string {
	idx := fmt.Sprintf("%2d.", n)
	box := ui.Current().BoxUnchecked
	color := ui.Current().Muted
	if it.Completed {
		box, color = ui.Current().BoxChecked, ui.Current().Success
	}
	name := it.Name
	if len([]rune(name)) > 60 {
		name = string([]rune(name)[:57]) + "..."
	}
	line := fmt.Sprintf("%s %s %s", ui.C(ui.Current().Muted, idx), ui.C(color, box), name)
	if it.DueDate != nil {
		due := "due " + it.DueDate.String()
		if it.Overdue(today) {
			line += "  " + ui.C(ui.Current().Error, ui.Current().SymOverdue+" "+due)
		} else {
			line += "  " + ui.C(ui.Current().Muted, due)
		}
	}
	return line
}

// groupLines keeps each item's position in the full list so the printed
// numbers still work with `done` and `rm`.
func groupLines(items []model.Item, today model.Date) []string {
	var pend, done []string
	for i, it := range items {
		if it.Completed {
			done = append(done, itemLine(i+1, it, today))
		} else {
			pend = append(pend, itemLine(i+1, it, today))
		}
	}
	var lines []string
	lines = append(lines, ui.C(ui.Current().Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "(none)"))
	} else {
		lines = append(lines, pend...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(ui.Current().Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "(none)"))
	} else {
		lines = append(lines, done...)
	}
	return lines
}
