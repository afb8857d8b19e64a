package noop

import (
	"maps"
	"strings"

	"github.com/delaneyj/fiberparty/element"
)

// ChildrenAsJSX reads the host tree back as elements. Several top-level
// nodes come back wrapped in a fragment, a run of only text nodes as one
// joined string. Hidden nodes are left out.
func (r *Root) ChildrenAsJSX() any {
	children := childrenToJSX(r.container.Children)
	if kids, ok := children.([]any); ok {
		return element.Frag("", kids...)
	}
	return children
}

func childrenToJSX(nodes []Node) any {
	visible := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if !isHidden(n) {
			visible = append(visible, n)
		}
	}

	switch len(visible) {
	case 0:
		return nil
	case 1:
		return nodeToJSX(visible[0])
	}

	out := make([]any, len(visible))
	allText := true
	for i, n := range visible {
		out[i] = nodeToJSX(n)
		if _, ok := out[i].(string); !ok {
			allText = false
		}
	}
	if allText {
		var sb strings.Builder
		for _, s := range out {
			sb.WriteString(s.(string))
		}
		return sb.String()
	}
	return out
}

func nodeToJSX(n Node) any {
	switch n := n.(type) {
	case *TextInstance:
		return n.Text
	case *Instance:
		props := maps.Clone(n.Props)
		if props == nil {
			props = element.Props{}
		}
		delete(props, "children")
		if children := childrenToJSX(n.Children); children != nil {
			props["children"] = children
		}
		return element.New(n.Type, "", nil, props)
	}
	return nil
}

func isHidden(n Node) bool {
	switch n := n.(type) {
	case *Instance:
		return n.Hidden
	case *TextInstance:
		return n.Hidden
	}
	return false
}
