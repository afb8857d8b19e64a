package reconciler

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/delaneyj/fiberparty/scheduler"
)

// Lanes is a set of update priorities, one bit per lane. A lower bit is a
// higher priority.
type Lanes uint32

// Lane is a Lanes value with exactly one bit set (or none).
type Lane = Lanes

const (
	NoLanes Lanes = 0
	NoLane  Lane  = 0

	SyncLane            Lane = 0b00001
	InputContinuousLane Lane = 0b00010
	DefaultLane         Lane = 0b00100
	TransitionLane      Lane = 0b01000
	IdleLane            Lane = 0b10000
)

var laneNames = [...]string{"Sync", "InputContinuous", "Default", "Transition", "Idle"}

func (l Lanes) String() string {
	if l == NoLanes {
		return "NoLanes"
	}
	var parts []string
	for rest := l; rest != 0; rest &= rest - 1 {
		i := bits.TrailingZeros32(uint32(rest))
		if i < len(laneNames) {
			parts = append(parts, laneNames[i])
		} else {
			parts = append(parts, fmt.Sprintf("Lane(%d)", i))
		}
	}
	return strings.Join(parts, "|")
}

func MergeLanes(a, b Lanes) Lanes { return a | b }

func RemoveLanes(set, subset Lanes) Lanes { return set &^ subset }

func IncludesSomeLane(a, b Lanes) bool { return a&b != NoLanes }

// IsSubsetOfLanes reports whether every lane of subset is in set.
func IsSubsetOfLanes(set, subset Lanes) bool { return set&subset == subset }

// GetHighestPriorityLane isolates the lowest set bit.
func GetHighestPriorityLane(l Lanes) Lane { return l & -l }

func getNextLane(root *FiberRoot) Lane {
	pending := root.pendingLanes
	if pending == NoLanes {
		return NoLane
	}
	if unsuspended := pending &^ root.suspendedLanes; unsuspended != NoLanes {
		return GetHighestPriorityLane(unsuspended)
	}
	if pinged := pending & root.pingedLanes; pinged != NoLanes {
		return GetHighestPriorityLane(pinged)
	}
	return NoLane
}

func markRootUpdated(root *FiberRoot, lane Lane) {
	root.pendingLanes |= lane
	root.suspendedLanes &^= lane
	root.pingedLanes &^= lane
}

func markRootSuspended(root *FiberRoot, lane Lane) {
	root.suspendedLanes |= lane
	root.pingedLanes &^= lane
}

func markRootPinged(root *FiberRoot, lane Lane) {
	root.pingedLanes |= root.suspendedLanes & lane
}

func markRootFinished(root *FiberRoot, lane Lane) {
	root.pendingLanes &^= lane
	root.suspendedLanes &^= lane
	root.pingedLanes &^= lane
}

func lanesToSchedulerPriority(l Lanes) scheduler.Priority {
	switch GetHighestPriorityLane(l) {
	case SyncLane:
		return scheduler.ImmediatePriority
	case InputContinuousLane:
		return scheduler.UserBlockingPriority
	case DefaultLane:
		return scheduler.NormalPriority
	case TransitionLane:
		return scheduler.LowPriority
	default:
		return scheduler.IdlePriority
	}
}

func schedulerPriorityToLane(p scheduler.Priority) Lane {
	switch p {
	case scheduler.ImmediatePriority:
		return SyncLane
	case scheduler.UserBlockingPriority:
		return InputContinuousLane
	case scheduler.LowPriority:
		return TransitionLane
	case scheduler.IdlePriority:
		return IdleLane
	default:
		return DefaultLane
	}
}
