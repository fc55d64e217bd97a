package uistate

import (
	"sync"

	"github.com/linkstash/linkstash/internal/domain"
)

// DrawerState is a snapshot of the edit drawer. Subject is non-nil exactly
// when Open is true; closing clears it.
type DrawerState struct {
	Open    bool
	Subject *domain.Bookmark
}

// EditDrawer holds which bookmark, if any, is open in the edit drawer.
// This is UI state, not server data: it lives outside the query cache and is
// never invalidated with it. Transitions are atomic from the consumer's
// perspective; there is no opening/closing intermediate state.
type EditDrawer struct {
	mu       sync.Mutex
	state    DrawerState
	watchers map[int]chan DrawerState
	nextID   int
}

func NewEditDrawer() *EditDrawer {
	return &EditDrawer{
		watchers: make(map[int]chan DrawerState),
	}
}

// Open shows the drawer for the given bookmark. Re-opening with a different
// subject replaces it regardless of prior state.
func (d *EditDrawer) Open(bookmark domain.Bookmark) {
	d.mu.Lock()
	defer d.mu.Unlock()
	subject := bookmark
	d.state = DrawerState{Open: true, Subject: &subject}
	d.notifyLocked()
}

// Close hides the drawer and clears the subject.
func (d *EditDrawer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = DrawerState{}
	d.notifyLocked()
}

// State returns the current snapshot.
func (d *EditDrawer) State() DrawerState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Watch subscribes to state changes. Each transition is delivered on the
// returned channel (latest-wins when the consumer lags). The cancel func
// ends the subscription and closes the channel.
func (d *EditDrawer) Watch() (<-chan DrawerState, func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextID
	d.nextID++
	ch := make(chan DrawerState, 1)
	d.watchers[id] = ch

	cancel := func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if ch, ok := d.watchers[id]; ok {
			delete(d.watchers, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (d *EditDrawer) notifyLocked() {
	for _, ch := range d.watchers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- d.state:
		default:
		}
	}
}
