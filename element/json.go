package element

import (
	"encoding/json"
	"reflect"
)

type jsonElement struct {
	Type  string         `json:"type"`
	Key   *string        `json:"key"`
	Props map[string]any `json:"props"`
}

// MarshalJSON renders the element as {"type","key","props"}. Function
// valued props (handlers) are dropped.
func (e *Element) MarshalJSON() ([]byte, error) {
	out := jsonElement{
		Type:  TypeName(e.Type),
		Props: make(map[string]any, len(e.Props)),
	}
	if e.Key != "" {
		k := e.Key
		out.Key = &k
	}
	for k, v := range e.Props {
		if v == nil {
			out.Props[k] = nil
			continue
		}
		switch reflect.TypeOf(v).Kind() {
		case reflect.Func, reflect.Chan, reflect.UnsafePointer:
			continue
		}
		out.Props[k] = v
	}
	return json.Marshal(out)
}
