package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/delaneyj/fiberparty/element"
	"github.com/delaneyj/fiberparty/noop"
	"github.com/delaneyj/fiberparty/reconciler"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of renders against one noop root.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps"`
}

// Step either renders a tree or settles a named promise. Expect, when set,
// is compared against the host markup after the step.
type Step struct {
	Render  *Node   `yaml:"render,omitempty"`
	Resolve string  `yaml:"resolve,omitempty"`
	Reject  string  `yaml:"reject,omitempty"`
	Expect  *string `yaml:"expect,omitempty"`
}

// Node describes an element. A bare scalar is a text child.
//
//	type: ul
//	children:
//	  - {type: li, key: a, children: [a]}
//	  - plain text
//
// The types "fragment", "suspense" (with fallback) and "await" (with a
// promise name) are structural; anything else is a host tag.
type Node struct {
	Type     string         `yaml:"type,omitempty"`
	Key      string         `yaml:"key,omitempty"`
	Text     *string        `yaml:"-"`
	Props    map[string]any `yaml:"props,omitempty"`
	Children []*Node        `yaml:"children,omitempty"`
	Fallback *Node          `yaml:"fallback,omitempty"`
	Promise  string         `yaml:"promise,omitempty"`
}

func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		text := value.Value
		n.Text = &text
		return nil
	}
	type plain Node
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	if p.Type == "" {
		return fmt.Errorf("line %d: element without type", value.Line)
	}
	*n = Node(p)
	return nil
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario missing required field: name")
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", s.Name)
	}
	for i, st := range s.Steps {
		set := 0
		if st.Render != nil {
			set++
		}
		if st.Resolve != "" {
			set++
		}
		if st.Reject != "" {
			set++
		}
		if set != 1 {
			return nil, fmt.Errorf("scenario %q step %d: exactly one of render, resolve or reject is required", s.Name, i+1)
		}
	}
	return &s, nil
}

// StepResult is what one step did to the host tree.
type StepResult struct {
	Step   int
	Action string
	Ops    []noop.Op
	Markup string
	JSON   []byte
}

type runner struct {
	root     *noop.Root
	promises map[string]*reconciler.Promise[struct{}]
	errs     []error
}

func await(h *reconciler.Hooks, props element.Props) (any, error) {
	if _, err := reconciler.Use(h, props["promise"].(*reconciler.Promise[struct{}])); err != nil {
		return nil, err
	}
	return props.Children(), nil
}

func (r *runner) promise(name string) *reconciler.Promise[struct{}] {
	p, ok := r.promises[name]
	if !ok {
		p = reconciler.NewPromise[struct{}]()
		r.promises[name] = p
	}
	return p
}

func (r *runner) element(n *Node) any {
	if n == nil {
		return nil
	}
	if n.Text != nil {
		return *n.Text
	}
	kids := make([]any, len(n.Children))
	for i, c := range n.Children {
		kids[i] = r.element(c)
	}
	switch n.Type {
	case "fragment":
		return element.Frag(n.Key, kids...)
	case "suspense":
		el := element.SuspenseOf(r.element(n.Fallback), kids...)
		el.Key = n.Key
		return el
	case "await":
		props := element.Props{"promise": r.promise(n.Promise), "children": kids}
		return element.New(await, n.Key, nil, props)
	}
	props := element.Props{}
	for k, v := range n.Props {
		props[k] = v
	}
	if n.Key != "" {
		props["key"] = n.Key
	}
	return element.H(n.Type, props, kids...)
}

// Run plays s on a fresh root and reports each step.
func Run(s *Scenario, logger zerolog.Logger) ([]StepResult, error) {
	r := &runner{promises: map[string]*reconciler.Promise[struct{}]{}}
	r.root = noop.CreateRoot(
		noop.WithLogger(logger),
		noop.WithOnRenderError(func(_ *reconciler.FiberRoot, err error) { r.errs = append(r.errs, err) }),
	)

	results := make([]StepResult, 0, len(s.Steps))
	for i, st := range s.Steps {
		res := StepResult{Step: i + 1}
		r.root.ClearOps()
		switch {
		case st.Render != nil:
			res.Action = "render " + st.Render.Type
			el := r.element(st.Render)
			r.root.Act(func() { r.root.Render(el) })
		case st.Resolve != "":
			res.Action = "resolve " + st.Resolve
			p := r.promise(st.Resolve)
			r.root.Act(func() { p.Resolve(struct{}{}) })
		case st.Reject != "":
			res.Action = "reject " + st.Reject
			p := r.promise(st.Reject)
			r.root.Act(func() { p.Reject(fmt.Errorf("promise %s rejected", st.Reject)) })
		}
		if len(r.errs) > 0 {
			err := r.errs[0]
			r.errs = nil
			return results, fmt.Errorf("scenario %q step %d: %w", s.Name, i+1, err)
		}

		res.Ops = r.root.Ops()
		res.Markup = r.root.Markup()
		b, err := r.root.JSON()
		if err != nil {
			return results, fmt.Errorf("scenario %q step %d: encoding tree: %w", s.Name, i+1, err)
		}
		res.JSON = b
		results = append(results, res)

		if st.Expect != nil && *st.Expect != res.Markup {
			return results, fmt.Errorf("scenario %q step %d: markup %q, want %q", s.Name, i+1, res.Markup, *st.Expect)
		}
	}
	return results, nil
}
