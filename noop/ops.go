package noop

import "strings"

type OpKind string

const (
	OpCreate OpKind = "create"
	OpAppend OpKind = "append"
	OpInsert OpKind = "insert"
	OpRemove OpKind = "remove"
	OpUpdate OpKind = "update"
	OpText   OpKind = "text"
	OpHide   OpKind = "hide"
	OpUnhide OpKind = "unhide"
)

// Op is one recorded host mutation. Nodes are named by label, e.g. "li#3".
type Op struct {
	Kind   OpKind `json:"kind" yaml:"kind"`
	Node   string `json:"node" yaml:"node"`
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`
	Before string `json:"before,omitempty" yaml:"before,omitempty"`
}

func (o Op) String() string {
	var sb strings.Builder
	sb.WriteString(string(o.Kind))
	sb.WriteByte(' ')
	sb.WriteString(o.Node)
	if o.Parent != "" {
		if o.Kind == OpRemove {
			sb.WriteString(" from ")
		} else {
			sb.WriteString(" into ")
		}
		sb.WriteString(o.Parent)
	}
	if o.Before != "" {
		sb.WriteString(" before ")
		sb.WriteString(o.Before)
	}
	return sb.String()
}

// CountOps tallies ops by kind.
func CountOps(ops []Op) map[OpKind]int {
	counts := map[OpKind]int{}
	for _, op := range ops {
		counts[op.Kind]++
	}
	return counts
}
