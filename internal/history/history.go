// Package history implements snapshot based linear undo/redo over the
// editable subset of the scene.
package history

import (
	"reflect"

	"github.com/Faultbox/astramesh/internal/scene"
)

// Stack is the raw undo state. Snapshots stored in it are never mutated.
type Stack struct {
	Past    []scene.Editable // oldest first
	Present *scene.Editable
	Future  []scene.Editable // next redo first
}

// Manager owns a Stack. It is not safe for concurrent use; the store
// serializes access.
type Manager struct {
	stack    Stack
	maxDepth int
}

// New creates a manager. maxDepth bounds the number of past entries;
// zero means unbounded.
func New(maxDepth int) *Manager {
	if maxDepth < 0 {
		maxDepth = 0
	}
	return &Manager{maxDepth: maxDepth}
}

// Snapshot records cur as the newest checkpoint and discards the redo branch.
func (m *Manager) Snapshot(cur scene.Editable) {
	snap := cur.Clone()
	m.stack.Past = append(m.stack.Past, snap)
	if m.maxDepth > 0 && len(m.stack.Past) > m.maxDepth {
		drop := len(m.stack.Past) - m.maxDepth
		m.stack.Past = append([]scene.Editable(nil), m.stack.Past[drop:]...)
	}
	present := snap.Clone()
	m.stack.Present = &present
	m.stack.Future = nil
}

// Undo returns the checkpoint to restore given the live state cur, or false
// when there is nothing to undo. A checkpoint identical to cur is skipped so
// that undo always changes the scene when an older checkpoint exists; job
// progress is ignored by that comparison. The live state becomes the first
// redo entry.
func (m *Manager) Undo(cur scene.Editable) (scene.Editable, bool) {
	if len(m.stack.Past) == 0 {
		return scene.Editable{}, false
	}
	n := len(m.stack.Past)
	if n > 1 && reflect.DeepEqual(m.stack.Past[n-1].WithoutJob(), cur.WithoutJob()) {
		m.stack.Past = m.stack.Past[:n-1]
		n--
	}
	target := m.stack.Past[n-1]
	m.stack.Past = m.stack.Past[:n-1]

	m.stack.Future = append([]scene.Editable{cur.Clone()}, m.stack.Future...)
	present := target.Clone()
	m.stack.Present = &present
	return target.Clone(), true
}

// Redo returns the next redo entry, or false when the redo branch is empty.
// The current checkpoint moves back onto the undo stack.
func (m *Manager) Redo() (scene.Editable, bool) {
	if len(m.stack.Future) == 0 {
		return scene.Editable{}, false
	}
	target := m.stack.Future[0]
	m.stack.Future = m.stack.Future[1:]
	if m.stack.Present != nil {
		m.stack.Past = append(m.stack.Past, *m.stack.Present)
	}
	present := target.Clone()
	m.stack.Present = &present
	return target.Clone(), true
}

// CanUndo reports whether Undo would change anything.
func (m *Manager) CanUndo() bool { return len(m.stack.Past) > 0 }

// CanRedo reports whether Redo would change anything.
func (m *Manager) CanRedo() bool { return len(m.stack.Future) > 0 }

// Depth returns the number of undo and redo entries.
func (m *Manager) Depth() (past, future int) {
	return len(m.stack.Past), len(m.stack.Future)
}

// Stack returns a deep copy of the undo state.
func (m *Manager) Stack() Stack {
	out := Stack{
		Past:   cloneAll(m.stack.Past),
		Future: cloneAll(m.stack.Future),
	}
	if m.stack.Present != nil {
		p := m.stack.Present.Clone()
		out.Present = &p
	}
	return out
}

// Reset clears all history.
func (m *Manager) Reset() {
	m.stack = Stack{}
}

func cloneAll(in []scene.Editable) []scene.Editable {
	if in == nil {
		return nil
	}
	out := make([]scene.Editable, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}
