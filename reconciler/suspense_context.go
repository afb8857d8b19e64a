package reconciler

// The suspense handler stack tracks the boundary that catches a suspension
// at the current point of the walk. A nil entry means none does.

func (r *Reconciler) pushSuspenseHandler(f *Fiber) {
	r.suspenseHandlers = append(r.suspenseHandlers, f)
}

func (r *Reconciler) popSuspenseHandler() {
	if n := len(r.suspenseHandlers); n > 0 {
		r.suspenseHandlers[n-1] = nil
		r.suspenseHandlers = r.suspenseHandlers[:n-1]
	}
}

func (r *Reconciler) getSuspenseHandler() *Fiber {
	if n := len(r.suspenseHandlers); n > 0 {
		return r.suspenseHandlers[n-1]
	}
	return nil
}
