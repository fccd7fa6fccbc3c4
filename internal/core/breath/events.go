package breath

import "time"

// EventType defines the type of timer event.
type EventType string

const (
	EventPhaseChange       EventType = "phase_change"
	EventTick              EventType = "tick"
	EventCycleComplete     EventType = "cycle_complete"
	EventAllCyclesComplete EventType = "all_cycles_complete"
	EventReset             EventType = "reset"
)

// Event is the payload delivered to observers.
//
// Phase, PhaseLabel and SecondsRemaining are zero for cycle events.
// PhaseDuration is only set on phase change and reset events.
type Event struct {
	Type             EventType
	Phase            Phase
	PhaseLabel       string
	PhaseDuration    int
	SecondsRemaining int
	Cycle            int
	TotalCycles      int
	At               time.Time
}

// Observer receives timer notifications.
//
// Handlers may be called from the goroutine that calls Start or from the
// scheduler's goroutine, so implementations must be safe to call from either.
type Observer interface {
	OnPhaseChange(Event)
	OnTick(Event)
	OnCycleComplete(Event)
	OnAllCyclesComplete(Event)
	OnReset(Event)
}

// Callbacks adapts a set of optional functions to Observer.
// Nil fields are no-ops.
type Callbacks struct {
	PhaseChange       func(Event)
	Tick              func(Event)
	CycleComplete     func(Event)
	AllCyclesComplete func(Event)
	Reset             func(Event)
}

func (callbacks Callbacks) OnPhaseChange(event Event) {
	if callbacks.PhaseChange != nil {
		callbacks.PhaseChange(event)
	}
}

func (callbacks Callbacks) OnTick(event Event) {
	if callbacks.Tick != nil {
		callbacks.Tick(event)
	}
}

func (callbacks Callbacks) OnCycleComplete(event Event) {
	if callbacks.CycleComplete != nil {
		callbacks.CycleComplete(event)
	}
}

func (callbacks Callbacks) OnAllCyclesComplete(event Event) {
	if callbacks.AllCyclesComplete != nil {
		callbacks.AllCyclesComplete(event)
	}
}

func (callbacks Callbacks) OnReset(event Event) {
	if callbacks.Reset != nil {
		callbacks.Reset(event)
	}
}

// Dispatch routes an event to the matching Observer method.
func Dispatch(observer Observer, event Event) {
	switch event.Type {
	case EventPhaseChange:
		observer.OnPhaseChange(event)
	case EventTick:
		observer.OnTick(event)
	case EventCycleComplete:
		observer.OnCycleComplete(event)
	case EventAllCyclesComplete:
		observer.OnAllCyclesComplete(event)
	case EventReset:
		observer.OnReset(event)
	}
}

type multiObserver []Observer

// Observers fans every event out to each observer in order. Nil entries are skipped.
func Observers(observers ...Observer) Observer {
	list := make(multiObserver, 0, len(observers))
	for _, observer := range observers {
		if observer != nil {
			list = append(list, observer)
		}
	}
	return list
}

func (list multiObserver) OnPhaseChange(event Event)       { list.each(event) }
func (list multiObserver) OnTick(event Event)              { list.each(event) }
func (list multiObserver) OnCycleComplete(event Event)     { list.each(event) }
func (list multiObserver) OnAllCyclesComplete(event Event) { list.each(event) }
func (list multiObserver) OnReset(event Event)             { list.each(event) }

func (list multiObserver) each(event Event) {
	for _, observer := range list {
		Dispatch(observer, event)
	}
}

// ChannelObserver forwards events to a buffered channel.
// Sends never block: when the buffer is full the event is dropped.
type ChannelObserver struct {
	events chan Event
}

// NewChannelObserver creates a ChannelObserver with the given buffer size.
func NewChannelObserver(buffer int) *ChannelObserver {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelObserver{events: make(chan Event, buffer)}
}

// Events returns the receive side of the channel.
func (observer *ChannelObserver) Events() <-chan Event {
	return observer.events
}

func (observer *ChannelObserver) OnPhaseChange(event Event)       { observer.send(event) }
func (observer *ChannelObserver) OnTick(event Event)              { observer.send(event) }
func (observer *ChannelObserver) OnCycleComplete(event Event)     { observer.send(event) }
func (observer *ChannelObserver) OnAllCyclesComplete(event Event) { observer.send(event) }
func (observer *ChannelObserver) OnReset(event Event)             { observer.send(event) }

func (observer *ChannelObserver) send(event Event) {
	select {
	case observer.events <- event:
	default:
	}
}
