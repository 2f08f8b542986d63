// Package render rebuilds the whole presentation tree from store state.
// There is no diffing: every Render throws the old tree away.
package render

import (
	"github.com/idilsaglam/grocery/internal/clock"
	"github.com/idilsaglam/grocery/internal/model"
)

// Node is one piece of the presentation tree.
type Node interface {
	View() string
}

// Text is a static Node.
type Text string

func (t Text) View() string { return string(t) }

type FormBuilder interface {
	// BuildForm gets the edit target id and the item it resolves to, or nil.
	BuildForm(editTarget string, item *model.Item) Node
}

type ListBuilder interface {
	BuildList(items []model.Item) Node
}

// Surface is where the built tree is attached.
type Surface interface {
	Replace(nodes ...Node)
	// Focus moves input focus to the form.
	Focus()
}

type Orchestrator struct {
	form    FormBuilder
	list    ListBuilder
	surface Surface
	clock   clock.Clock

	tree    []Node
	renders int
}

func New(form FormBuilder, list ListBuilder, surface Surface, clk clock.Clock) *Orchestrator {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Orchestrator{form: form, list: list, surface: surface, clock: clk}
}

// Render builds the form, then the list, and attaches them in that order.
func (o *Orchestrator) Render(v model.View) {
	form := o.form.BuildForm(v.EditTarget, v.Editing)
	list := o.list.BuildList(v.Items)
	o.tree = []Node{form, list}
	o.renders++
	o.surface.Replace(o.tree...)
}

// RequestFocus asks the surface to focus the form once the current render
// has been committed.
func (o *Orchestrator) RequestFocus() {
	o.clock.AfterFunc(0, o.surface.Focus)
}

// Tree returns the nodes attached by the last Render.
func (o *Orchestrator) Tree() []Node {
	return append([]Node(nil), o.tree...)
}

func (o *Orchestrator) Renders() int { return o.renders }
