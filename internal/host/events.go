package host

type registration struct {
	id        ListenerID
	eventType EventType
	listener  Listener
}

// EventBus dispatches host events to listeners in registration order.
// Not safe for concurrent use; everything runs on the render loop.
type EventBus struct {
	nextID    ListenerID
	listeners []registration
}

func NewEventBus() *EventBus {
	return &EventBus{}
}

func (b *EventBus) AddListener(eventType EventType, listener Listener) ListenerID {
	b.nextID++
	b.listeners = append(b.listeners, registration{
		id:        b.nextID,
		eventType: eventType,
		listener:  listener,
	})
	return b.nextID
}

func (b *EventBus) RemoveListener(id ListenerID) {
	for i, reg := range b.listeners {
		if reg.id == id {
			// Copy so a dispatch loop holding the old slice is unaffected.
			next := make([]registration, 0, len(b.listeners)-1)
			next = append(next, b.listeners[:i]...)
			next = append(next, b.listeners[i+1:]...)
			b.listeners = next
			return
		}
	}
}

// Dispatch delivers event to every listener of its type registered at the
// time of the call. Listeners removed mid-dispatch are not invoked.
func (b *EventBus) Dispatch(event Event) {
	snapshot := b.listeners
	for _, reg := range snapshot {
		if reg.eventType != event.Type || !b.has(reg.id) {
			continue
		}
		reg.listener(event)
	}
}

func (b *EventBus) has(id ListenerID) bool {
	for _, reg := range b.listeners {
		if reg.id == id {
			return true
		}
	}
	return false
}

// Count returns the number of registered listeners.
func (b *EventBus) Count() int {
	return len(b.listeners)
}

// CountOf returns the number of listeners registered for eventType.
func (b *EventBus) CountOf(eventType EventType) int {
	n := 0
	for _, reg := range b.listeners {
		if reg.eventType == eventType {
			n++
		}
	}
	return n
}
