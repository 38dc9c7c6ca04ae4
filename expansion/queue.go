package expansion

// workQueue is a slice-backed FIFO of point IDs. Popped slots are not
// reclaimed until reset, which the engine calls at the start of every
// episode, so the backing array is reused across clusters.
type workQueue struct {
	items []int
	head  int
}

func (q *workQueue) push(id int) {
	q.items = append(q.items, id)
}

func (q *workQueue) pop() int {
	id := q.items[q.head]
	q.head++
	return id
}

func (q *workQueue) len() int {
	return len(q.items) - q.head
}

func (q *workQueue) reset() {
	q.items = q.items[:0]
	q.head = 0
}
