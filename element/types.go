package element

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// Ref is a handle the commit phase attaches host instances to.
type Ref interface {
	Attach(instance any)
}

// RefObject is a mutable box; useRef hands out the same *RefObject on
// every render.
type RefObject struct {
	Current any
}

func (r *RefObject) Attach(instance any) { r.Current = instance }

// RefFunc is a callback ref. It receives the instance on attach and nil on
// detach.
type RefFunc func(instance any)

func (f RefFunc) Attach(instance any) { f(instance) }

// Context is a value that flows down the tree from the nearest provider.
// Components read it through the reconciler; Default is used when no
// provider is above the reader.
type Context struct {
	Name     string
	Default  any
	Provider *ProviderType
}

// ProviderType is the element type of <Context.Provider value=...>.
type ProviderType struct {
	Context *Context
}

func CreateContext(name string, defaultValue any) *Context {
	c := &Context{Name: name, Default: defaultValue}
	c.Provider = &ProviderType{Context: c}
	return c
}

// Provide builds a provider element.
func (c *Context) Provide(value any, children ...any) *Element {
	return H(c.Provider, Props{"value": value}, children...)
}

// CompareFunc reports whether two prop sets render the same output.
type CompareFunc func(prev, next Props) bool

// MemoType wraps a component so that it re-renders only when Compare (or
// ShallowEqual when nil) reports changed props.
type MemoType struct {
	Type    any
	Compare CompareFunc
}

func Memo(component any, compare CompareFunc) *MemoType {
	return &MemoType{Type: component, Compare: compare}
}

// TypeName gives a printable name for an element type.
func TypeName(t any) string {
	switch t := t.(type) {
	case nil:
		return "nil"
	case string:
		return t
	case Marker:
		return t.String()
	case *ProviderType:
		if t.Context != nil && t.Context.Name != "" {
			return t.Context.Name + ".Provider"
		}
		return "Context.Provider"
	case *MemoType:
		return "Memo(" + TypeName(t.Type) + ")"
	}
	v := reflect.ValueOf(t)
	if v.Kind() == reflect.Func {
		name := runtime.FuncForPC(v.Pointer()).Name()
		if i := strings.LastIndexByte(name, '.'); i >= 0 {
			name = name[i+1:]
		}
		return name
	}
	return fmt.Sprintf("%T", t)
}
