package reconciler

import "github.com/delaneyj/fiberparty/element"

// HostConfig is what a renderer implements so the reconciler can build and
// mutate its tree. Parents passed to the structural methods are either the
// root container or an instance returned by CreateInstance.
//
// Structural methods return an error wrapping ErrHostOperation when the
// host tree does not match what the reconciler expects; the commit phase
// treats that as a bug and panics.
type HostConfig interface {
	CreateInstance(typ string, props element.Props) any
	CreateTextInstance(text string) any

	// AppendInitialChild builds an off-tree instance during render.
	AppendInitialChild(parent, child any) error
	AppendChild(parent, child any) error
	InsertBefore(parent, child, before any) error
	RemoveChild(parent, child any) error

	CommitTextUpdate(textInstance any, oldText, newText string)
	CommitUpdate(instance any, typ string, oldProps, newProps element.Props)

	HideInstance(instance any)
	UnhideInstance(instance any, props element.Props)
	HideTextInstance(textInstance any)
	UnhideTextInstance(textInstance any, text string)

	ScheduleMicrotask(fn func())
}
