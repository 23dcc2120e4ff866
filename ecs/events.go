package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// TriggerEventType tags events produced by the trigger system.
const TriggerEventType = "trigger"

// TriggerEventKind identifies trigger overlap transitions.
type TriggerEventKind string

const (
	TriggerEnter TriggerEventKind = "enter"
	TriggerExit  TriggerEventKind = "exit"
)

// TriggerEvent is emitted when a body starts or stops overlapping a trigger
// volume.
type TriggerEvent struct {
	Trigger Entity
	Body    Entity
	Kind    TriggerEventKind
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// DrainType removes and returns events of the given type, keeping the rest
// queued in order.
func (q *EventQueue) DrainType(typ string) []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	var out []Event
	kept := q.items[:0]
	for _, evt := range q.items {
		if evt.Type == typ {
			out = append(out, evt)
			continue
		}
		kept = append(kept, evt)
	}
	for i := len(kept); i < len(q.items); i++ {
		q.items[i] = Event{}
	}
	q.items = kept
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
