package reconciler

import "fmt"

type WorkTag uint8

const (
	FunctionComponent WorkTag = iota
	HostRoot
	HostComponent
	HostText
	FragmentTag
	ContextProvider
	SuspenseComponent
	OffscreenComponent
	MemoComponent
	// UnknownComponent marks elements whose type the reconciler does not
	// understand. They render nothing.
	UnknownComponent
)

func (t WorkTag) String() string {
	switch t {
	case FunctionComponent:
		return "FunctionComponent"
	case HostRoot:
		return "HostRoot"
	case HostComponent:
		return "HostComponent"
	case HostText:
		return "HostText"
	case FragmentTag:
		return "Fragment"
	case ContextProvider:
		return "ContextProvider"
	case SuspenseComponent:
		return "SuspenseComponent"
	case OffscreenComponent:
		return "OffscreenComponent"
	case MemoComponent:
		return "MemoComponent"
	case UnknownComponent:
		return "UnknownComponent"
	default:
		return fmt.Sprintf("WorkTag(%d)", uint8(t))
	}
}
