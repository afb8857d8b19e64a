package reconciler

import "strings"

type Flags uint16

const (
	Placement Flags = 1 << iota
	Update
	ChildDeletion
	Ref
	PassiveEffect
	Visibility
	ShouldCapture
	DidCapture

	NoFlags Flags = 0

	MutationMask = Placement | Update | ChildDeletion | Ref | Visibility
	PassiveMask  = PassiveEffect | ChildDeletion
	LayoutMask   = Ref
)

var flagNames = []struct {
	f    Flags
	name string
}{
	{Placement, "Placement"},
	{Update, "Update"},
	{ChildDeletion, "ChildDeletion"},
	{Ref, "Ref"},
	{PassiveEffect, "PassiveEffect"},
	{Visibility, "Visibility"},
	{ShouldCapture, "ShouldCapture"},
	{DidCapture, "DidCapture"},
}

func (f Flags) String() string {
	if f == NoFlags {
		return "NoFlags"
	}
	var parts []string
	for _, fn := range flagNames {
		if f&fn.f != 0 {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}

// hookFlags tag effect records.
type hookFlags uint8

const (
	hookHasEffect hookFlags = 1 << iota
	hookPassive
)
