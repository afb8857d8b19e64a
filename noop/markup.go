package noop

import (
	"fmt"
	"io"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/fiberparty/element"
)

//go:generate qtc -file=markup.qtpl

type attribute struct {
	name  string
	value string
}

// attributes lists the printable props of an instance sorted by name.
// Children and function valued props are skipped.
func attributes(props element.Props) []attribute {
	attrs := make([]attribute, 0, len(props))
	for k, v := range props {
		if k == "children" || v == nil {
			continue
		}
		switch reflect.TypeOf(v).Kind() {
		case reflect.Func, reflect.Chan, reflect.UnsafePointer:
			continue
		}
		attrs = append(attrs, attribute{name: k, value: attrValue(v)})
	}
	slices.SortFunc(attrs, func(a, b attribute) int { return strings.Compare(a.name, b.name) })
	return attrs
}

func attrValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return fmt.Sprint(v)
}

// Markup renders the host tree as HTML-like text.
func (r *Root) Markup() string {
	return containerMarkup(r.container)
}

func (r *Root) WriteMarkup(w io.Writer) {
	writecontainerMarkup(w, r.container)
}

// Fingerprint hashes the markup of the host tree. Two trees with the same
// fingerprint print the same.
func (r *Root) Fingerprint() uint64 {
	d := xxhash.New()
	r.WriteMarkup(d)
	return d.Sum64()
}
