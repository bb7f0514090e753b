package watcher

import "time"

// Op is the kind of filesystem change carried by an Event.
type Op int

const (
	OpCreate Op = iota
	OpWrite
	OpRemove
	OpRename
)

// Event is one batched filesystem change.
type Event struct {
	Path string
	Op   Op
}

// Debouncer batches filesystem events: a batch goes out once no new
// event has arrived for a full quiet interval. Repeated events for the
// same path inside one window collapse into a single event carrying the
// latest op, so an editor's save-rename-save dance triggers one
// re-search, not three.
//
// All state is owned by a single goroutine; there are no locks.
type Debouncer struct {
	interval time.Duration
	incoming chan Event
	output   chan []Event
}

// NewDebouncer creates a debouncer with the given quiet interval.
func NewDebouncer(interval time.Duration) *Debouncer {
	d := &Debouncer{
		interval: interval,
		incoming: make(chan Event, 64),
		output:   make(chan []Event, 16),
	}
	go d.run()
	return d
}

// Output returns the channel receiving batched events.
func (d *Debouncer) Output() <-chan []Event {
	return d.output
}

// Add records an event, restarting the quiet period.
func (d *Debouncer) Add(path string, op Op) {
	d.incoming <- Event{Path: path, Op: op}
}

// run owns the pending set and the quiet-period timer. The timer is
// armed only while events are pending; quiet is nil otherwise, which
// disables that select arm.
func (d *Debouncer) run() {
	pending := make(map[string]Op)
	timer := time.NewTimer(d.interval)
	if !timer.Stop() {
		<-timer.C
	}
	var quiet <-chan time.Time

	for {
		select {
		case event := <-d.incoming:
			pending[event.Path] = event.Op
			// Drain before Reset in case the timer fired while this
			// event was in flight.
			if quiet != nil && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(d.interval)
			quiet = timer.C

		case <-quiet:
			quiet = nil
			batch := make([]Event, 0, len(pending))
			for path, op := range pending {
				batch = append(batch, Event{Path: path, Op: op})
			}
			pending = make(map[string]Op)
			d.output <- batch
		}
	}
}
