// Package queue orders the tracks given on the command line.
package queue

import "math/rand/v2"

// Queue is an ordered list of file paths with a cursor. It is only used from
// the UI's update loop and is not safe for concurrent use.
type Queue struct {
	paths    []string
	order    []int // playback order as indices into paths
	pos      int
	shuffled bool
}

// New creates a Queue positioned on the first path.
func New(paths []string) *Queue {
	q := &Queue{paths: paths}
	q.resetOrder()
	return q
}

func (q *Queue) resetOrder() {
	q.order = make([]int, len(q.paths))
	for i := range q.order {
		q.order[i] = i
	}
}

// Len returns the number of tracks.
func (q *Queue) Len() int { return len(q.paths) }

// Position returns the zero-based position of the current track in playback
// order.
func (q *Queue) Position() int { return q.pos }

// Current returns the current path, or "" when the queue is empty.
func (q *Queue) Current() string {
	if q.pos >= len(q.order) {
		return ""
	}
	return q.paths[q.order[q.pos]]
}

// Advance moves to the next track. With wrap it continues from the start
// after the last track; otherwise it reports false at the end.
func (q *Queue) Advance(wrap bool) bool {
	if len(q.order) == 0 {
		return false
	}
	if q.pos+1 < len(q.order) {
		q.pos++
		return true
	}
	if !wrap {
		return false
	}
	q.pos = 0
	return true
}

// Previous moves back one track. It reports false at the start.
func (q *Queue) Previous() bool {
	if q.pos == 0 {
		return false
	}
	q.pos--
	return true
}

// Shuffled reports whether shuffle is on.
func (q *Queue) Shuffled() bool { return q.shuffled }

// ToggleShuffle switches between file order and a random order. The current
// track stays current in both directions.
func (q *Queue) ToggleShuffle() {
	if len(q.order) == 0 {
		return
	}
	current := q.order[q.pos]
	if q.shuffled {
		q.resetOrder()
		q.pos = current
		q.shuffled = false
		return
	}

	rest := make([]int, 0, len(q.paths)-1)
	for i := range q.paths {
		if i != current {
			rest = append(rest, i)
		}
	}
	rand.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
	q.order = append([]int{current}, rest...)
	q.pos = 0
	q.shuffled = true
}
