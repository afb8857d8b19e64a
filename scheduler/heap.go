package scheduler

import "container/heap"

// taskQueue is a min-heap on (expirationTime, id).
type taskQueue []*Task

var _ heap.Interface = (*taskQueue)(nil)

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if !a.expirationTime.Equal(b.expirationTime) {
		return a.expirationTime.Before(b.expirationTime)
	}
	return a.id < b.id
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*Task)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}

func (q taskQueue) peek() *Task {
	if len(q) == 0 {
		return nil
	}
	return q[0]
}
