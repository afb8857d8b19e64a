// Package element holds the immutable descriptors a reconciler consumes:
// what to render, not how. Elements are built once per render call and are
// never mutated afterwards.
package element

import (
	"fmt"
	"strings"
)

// Props is the input mapping of an element. The "children" entry, when
// present, holds a single child, a slice of children, or nil.
type Props map[string]any

// Children returns the children entry.
func (p Props) Children() any {
	if p == nil {
		return nil
	}
	return p["children"]
}

// Element describes one node of a UI tree.
//
// Type is one of: a host tag (string), a component function, a Marker, a
// *ProviderType, or a *MemoType.
type Element struct {
	Type  any
	Key   string // empty means no key
	Ref   Ref
	Props Props
}

// Marker types are the built-in structural element types.
type Marker uint8

const (
	Fragment Marker = iota + 1
	Suspense
	Offscreen
)

func (m Marker) String() string {
	switch m {
	case Fragment:
		return "Fragment"
	case Suspense:
		return "Suspense"
	case Offscreen:
		return "Offscreen"
	default:
		return fmt.Sprintf("Marker(%d)", uint8(m))
	}
}

// New is the element factory. A nil props map is replaced by an empty one.
func New(typ any, key string, ref Ref, props Props) *Element {
	if props == nil {
		props = Props{}
	}
	return &Element{
		Type:  typ,
		Key:   key,
		Ref:   ref,
		Props: props,
	}
}

// H builds an element the way JSX does: "key" and "ref" are lifted out of
// props, a single child is stored as is and several children as a []any.
func H(typ any, props Props, children ...any) *Element {
	next := make(Props, len(props)+1)
	var (
		key string
		ref Ref
	)
	for k, v := range props {
		switch k {
		case "key":
			key = fmt.Sprint(v)
		case "ref":
			ref, _ = v.(Ref)
		default:
			next[k] = v
		}
	}
	switch len(children) {
	case 0:
	case 1:
		next["children"] = children[0]
	default:
		next["children"] = children
	}
	return New(typ, key, ref, next)
}

// Frag builds a (optionally keyed) fragment element.
func Frag(key string, children ...any) *Element {
	var kids any = children
	if len(children) == 1 {
		kids = children[0]
	}
	return New(Fragment, key, nil, Props{"children": kids})
}

// SuspenseOf builds a suspense boundary rendering children, or fallback
// while a child is waiting on an unresolved dependency.
func SuspenseOf(fallback any, children ...any) *Element {
	var kids any = children
	if len(children) == 1 {
		kids = children[0]
	}
	return New(Suspense, "", nil, Props{"children": kids, "fallback": fallback})
}

func (e *Element) String() string {
	if e == nil {
		return "<nil>"
	}
	var sb strings.Builder
	sb.WriteString("<")
	sb.WriteString(TypeName(e.Type))
	if e.Key != "" {
		sb.WriteString(` key="`)
		sb.WriteString(e.Key)
		sb.WriteString(`"`)
	}
	sb.WriteString(">")
	return sb.String()
}
