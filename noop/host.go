package noop

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/delaneyj/fiberparty/element"
	"github.com/delaneyj/fiberparty/reconciler"
	"github.com/delaneyj/fiberparty/scheduler"
)

// Node is an *Instance or a *TextInstance.
type Node interface {
	NodeID() int
	Label() string
}

type parentNode interface {
	Label() string
	kids() *[]Node
}

// Container is the root of one host tree.
type Container struct {
	RootID   string
	Children []Node
}

func (c *Container) Label() string { return "root" }
func (c *Container) kids() *[]Node { return &c.Children }

type Instance struct {
	ID       int
	Type     string
	Props    element.Props
	Children []Node
	Hidden   bool

	parent parentNode
}

func (i *Instance) NodeID() int { return i.ID }
func (i *Instance) Label() string { return i.Type + "#" + strconv.Itoa(i.ID) }
func (i *Instance) kids() *[]Node { return &i.Children }

type TextInstance struct {
	ID     int
	Text   string
	Hidden bool

	parent parentNode
}

func (t *TextInstance) NodeID() int { return t.ID }
func (t *TextInstance) Label() string { return "text#" + strconv.Itoa(t.ID) }

// Host keeps its tree in memory and records every mutation of an attached
// tree as an Op. Appends into off-tree instances are not recorded.
type Host struct {
	sched  *scheduler.Scheduler
	nextID int
	ops    []Op
}

var _ reconciler.HostConfig = (*Host)(nil)

func NewHost(sched *scheduler.Scheduler) *Host {
	return &Host{sched: sched}
}

func (h *Host) record(op Op) { h.ops = append(h.ops, op) }

func (h *Host) Ops() []Op { return slices.Clone(h.ops) }

func (h *Host) ClearOps() { h.ops = h.ops[:0] }

func (h *Host) CreateInstance(typ string, props element.Props) any {
	h.nextID++
	inst := &Instance{ID: h.nextID, Type: typ, Props: props}
	h.record(Op{Kind: OpCreate, Node: inst.Label()})
	return inst
}

func (h *Host) CreateTextInstance(text string) any {
	h.nextID++
	t := &TextInstance{ID: h.nextID, Text: text}
	h.record(Op{Kind: OpCreate, Node: t.Label()})
	return t
}

func asParent(v any) (parentNode, error) {
	switch p := v.(type) {
	case *Container:
		return p, nil
	case *Instance:
		return p, nil
	}
	return nil, fmt.Errorf("%w: %T is not a parent", reconciler.ErrHostOperation, v)
}

func asNode(v any) (Node, error) {
	switch n := v.(type) {
	case *Instance:
		return n, nil
	case *TextInstance:
		return n, nil
	}
	return nil, fmt.Errorf("%w: %T is not a node", reconciler.ErrHostOperation, v)
}

func parentOf(n Node) parentNode {
	switch n := n.(type) {
	case *Instance:
		return n.parent
	case *TextInstance:
		return n.parent
	}
	return nil
}

func setParent(n Node, p parentNode) {
	switch n := n.(type) {
	case *Instance:
		n.parent = p
	case *TextInstance:
		n.parent = p
	}
}

// detach removes n from whatever parent it is in.
func detach(n Node) {
	p := parentOf(n)
	if p == nil {
		return
	}
	kids := p.kids()
	if i := slices.Index(*kids, n); i >= 0 {
		*kids = slices.Delete(*kids, i, i+1)
	}
	setParent(n, nil)
}

func (h *Host) resolve(parent, child any) (parentNode, Node, error) {
	p, err := asParent(parent)
	if err != nil {
		return nil, nil, err
	}
	n, err := asNode(child)
	if err != nil {
		return nil, nil, err
	}
	return p, n, nil
}

func (h *Host) AppendInitialChild(parent, child any) error {
	p, n, err := h.resolve(parent, child)
	if err != nil {
		return err
	}
	if prev := parentOf(n); prev != nil && prev != p {
		return fmt.Errorf("%w: %s is already mounted in %s", reconciler.ErrHostOperation, n.Label(), prev.Label())
	}
	detach(n)
	*p.kids() = append(*p.kids(), n)
	setParent(n, p)
	return nil
}

// AppendChild moves child to the end of parent.
func (h *Host) AppendChild(parent, child any) error {
	p, n, err := h.resolve(parent, child)
	if err != nil {
		return err
	}
	detach(n)
	*p.kids() = append(*p.kids(), n)
	setParent(n, p)
	h.record(Op{Kind: OpAppend, Node: n.Label(), Parent: p.Label()})
	return nil
}

// InsertBefore moves child in front of before, which must be a child of
// parent.
func (h *Host) InsertBefore(parent, child, before any) error {
	p, n, err := h.resolve(parent, child)
	if err != nil {
		return err
	}
	b, err := asNode(before)
	if err != nil {
		return err
	}
	if parentOf(b) != p {
		return fmt.Errorf("%w: %s is not a child of %s", reconciler.ErrHostOperation, b.Label(), p.Label())
	}
	detach(n)
	kids := p.kids()
	i := slices.Index(*kids, b)
	*kids = slices.Insert(*kids, i, n)
	setParent(n, p)
	h.record(Op{Kind: OpInsert, Node: n.Label(), Parent: p.Label(), Before: b.Label()})
	return nil
}

func (h *Host) RemoveChild(parent, child any) error {
	p, n, err := h.resolve(parent, child)
	if err != nil {
		return err
	}
	if parentOf(n) != p {
		return fmt.Errorf("%w: %s is not a child of %s", reconciler.ErrHostOperation, n.Label(), p.Label())
	}
	detach(n)
	h.record(Op{Kind: OpRemove, Node: n.Label(), Parent: p.Label()})
	return nil
}

func (h *Host) CommitTextUpdate(textInstance any, _, newText string) {
	t, ok := textInstance.(*TextInstance)
	if !ok {
		return
	}
	t.Text = newText
	h.record(Op{Kind: OpText, Node: t.Label()})
}

func (h *Host) CommitUpdate(instance any, _ string, _, newProps element.Props) {
	inst, ok := instance.(*Instance)
	if !ok {
		return
	}
	inst.Props = newProps
	h.record(Op{Kind: OpUpdate, Node: inst.Label()})
}

func (h *Host) HideInstance(instance any) {
	if inst, ok := instance.(*Instance); ok && !inst.Hidden {
		inst.Hidden = true
		h.record(Op{Kind: OpHide, Node: inst.Label()})
	}
}

func (h *Host) UnhideInstance(instance any, _ element.Props) {
	if inst, ok := instance.(*Instance); ok && inst.Hidden {
		inst.Hidden = false
		h.record(Op{Kind: OpUnhide, Node: inst.Label()})
	}
}

func (h *Host) HideTextInstance(textInstance any) {
	if t, ok := textInstance.(*TextInstance); ok && !t.Hidden {
		t.Hidden = true
		h.record(Op{Kind: OpHide, Node: t.Label()})
	}
}

func (h *Host) UnhideTextInstance(textInstance any, text string) {
	if t, ok := textInstance.(*TextInstance); ok && t.Hidden {
		t.Hidden = false
		t.Text = text
		h.record(Op{Kind: OpUnhide, Node: t.Label()})
	}
}

func (h *Host) ScheduleMicrotask(fn func()) {
	h.sched.QueueMicrotask(fn)
}
