package scheduler

import (
	"fmt"
	"time"
)

// Priority orders scheduled callbacks. Lower values run first.
type Priority uint8

const (
	NoPriority Priority = iota
	ImmediatePriority
	UserBlockingPriority
	NormalPriority
	LowPriority
	IdlePriority
)

func (p Priority) String() string {
	switch p {
	case NoPriority:
		return "NoPriority"
	case ImmediatePriority:
		return "Immediate"
	case UserBlockingPriority:
		return "UserBlocking"
	case NormalPriority:
		return "Normal"
	case LowPriority:
		return "Low"
	case IdlePriority:
		return "Idle"
	default:
		return fmt.Sprintf("Priority(%d)", uint8(p))
	}
}

// maxTimeout stands in for "never expires" (about 12 days, as far as any
// idle work should be postponed).
const maxTimeout = 1<<30 - 1

// timeout is how long a task of this priority may be starved before it is
// run regardless of yielding.
func (p Priority) timeout() time.Duration {
	switch p {
	case ImmediatePriority:
		return -time.Millisecond
	case UserBlockingPriority:
		return 250 * time.Millisecond
	case LowPriority:
		return 10 * time.Second
	case IdlePriority:
		return maxTimeout * time.Millisecond
	default:
		return 5 * time.Second
	}
}
