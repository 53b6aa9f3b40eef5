package scheduler

import "container/heap"

// jobHeap implements container/heap.Interface for *Job, sorted by FireAt
// (earliest first). Each job tracks its own index so a replaced or dropped
// job can be fixed or removed in O(log n).
type jobHeap []*Job

func (h jobHeap) Len() int { return len(h) }

func (h jobHeap) Less(i, j int) bool {
	if h[i].FireAt.Equal(h[j].FireAt) {
		return h[i].ID.Event < h[j].ID.Event
	}
	return h[i].FireAt.Before(h[j].FireAt)
}

func (h jobHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *jobHeap) Push(x any) {
	job := x.(*Job)
	job.index = len(*h)
	*h = append(*h, job)
}

func (h *jobHeap) Pop() any {
	old := *h
	n := len(old)
	job := old[n-1]
	old[n-1] = nil
	job.index = -1
	*h = old[:n-1]
	return job
}

// peek returns the job with the earliest FireAt without removing it.
func (h jobHeap) peek() (*Job, bool) {
	if len(h) == 0 {
		return nil, false
	}
	return h[0], true
}

func heapPush(h *jobHeap, job *Job) {
	heap.Push(h, job)
}

func heapPop(h *jobHeap) *Job {
	return heap.Pop(h).(*Job)
}

func heapRemove(h *jobHeap, job *Job) {
	if job.index >= 0 && job.index < h.Len() && (*h)[job.index] == job {
		heap.Remove(h, job.index)
	}
}

func heapFix(h *jobHeap, job *Job) {
	heap.Fix(h, job.index)
}
