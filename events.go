package breach

import (
	"github.com/akmonengine/breach/actor"
	"github.com/akmonengine/breach/constraint"
)

const (
	CONTACT_ENTER EventType = iota
	CONTACT_STAY
	CONTACT_EXIT
	ON_REST
	ON_WAKE
)

// Relation names the two groups a contact list was gathered between
type Relation uint8

const (
	RelationPlayerWall Relation = iota
	RelationPlayerFloor
	RelationPlayerBounds
	RelationPlayerTarget
	RelationWallFloor
	RelationWallWall
)

func (r Relation) String() string {
	switch r {
	case RelationPlayerWall:
		return "player-wall"
	case RelationPlayerFloor:
		return "player-floor"
	case RelationPlayerBounds:
		return "player-bounds"
	case RelationPlayerTarget:
		return "player-target"
	case RelationWallFloor:
		return "wall-floor"
	case RelationWallWall:
		return "wall-wall"
	default:
		return "unknown"
	}
}

type pairKey struct {
	relation Relation
	a        int
	b        int
}

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Contact events, A and B are the indices of the contact in its relation
type ContactEnterEvent struct {
	Relation Relation
	A, B     int
}

func (e ContactEnterEvent) Type() EventType { return CONTACT_ENTER }

type ContactStayEvent struct {
	Relation Relation
	A, B     int
}

func (e ContactStayEvent) Type() EventType { return CONTACT_STAY }

type ContactExitEvent struct {
	Relation Relation
	A, B     int
}

func (e ContactExitEvent) Type() EventType { return CONTACT_EXIT }

// Rest/Wake events
type RestEvent struct {
	Body *actor.RigidBody
}

func (e RestEvent) Type() EventType { return ON_REST }

type WakeEvent struct {
	Body *actor.RigidBody
}

func (e WakeEvent) Type() EventType { return ON_WAKE }

// EventListener - callback for events
type EventListener func(event Event)

// Events turns the per frame contact lists into Enter/Stay/Exit transitions.
// The zero value is ready to use.
type Events struct {
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	previousActivePairs map[pairKey]bool
	currentActivePairs  map[pairKey]bool

	restStates map[*actor.RigidBody]bool
}

func NewEvents() Events {
	var e Events
	e.init()

	return e
}

func (e *Events) init() {
	if e.listeners != nil {
		return
	}
	e.listeners = make(map[EventType][]EventListener)
	e.buffer = make([]Event, 0, 64)
	e.previousActivePairs = make(map[pairKey]bool)
	e.currentActivePairs = make(map[pairKey]bool)
	e.restStates = make(map[*actor.RigidBody]bool)
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.init()
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordContacts marks every pair of the list as active for this frame
func (e *Events) recordContacts(relation Relation, contacts []constraint.Contact[int]) {
	e.init()
	for _, c := range contacts {
		e.currentActivePairs[pairKey{relation: relation, a: c.A, b: c.B}] = true
	}
}

// forget drops the tracked pairs of a relation, when its indices stop
// referring to the same bodies (a new wall is generated)
func (e *Events) forget(relation Relation) {
	e.init()
	for pair := range e.previousActivePairs {
		if pair.relation == relation {
			delete(e.previousActivePairs, pair)
		}
	}
}

// processContactEvents compares current and previous pairs to detect Enter/Stay/Exit
func (e *Events) processContactEvents() {
	for pair := range e.currentActivePairs {
		if e.previousActivePairs[pair] {
			e.buffer = append(e.buffer, ContactStayEvent{Relation: pair.relation, A: pair.a, B: pair.b})
		} else {
			e.buffer = append(e.buffer, ContactEnterEvent{Relation: pair.relation, A: pair.a, B: pair.b})
		}
	}

	for pair := range e.previousActivePairs {
		if !e.currentActivePairs[pair] {
			e.buffer = append(e.buffer, ContactExitEvent{Relation: pair.relation, A: pair.a, B: pair.b})
		}
	}

	// Swap for next frame and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	clear(e.currentActivePairs)
}

func (e *Events) processRestEvents(bodies ...*actor.RigidBody) {
	e.init()
	for _, body := range bodies {
		trackedState, exists := e.restStates[body]
		if !exists {
			e.restStates[body] = body.IsResting
			continue
		}

		if !trackedState && body.IsResting {
			e.buffer = append(e.buffer, RestEvent{Body: body})
			e.restStates[body] = true
		} else if trackedState && !body.IsResting {
			e.buffer = append(e.buffer, WakeEvent{Body: body})
			e.restStates[body] = false
		}
	}
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.init()
	e.processContactEvents()

	for _, event := range e.buffer {
		for _, listener := range e.listeners[event.Type()] {
			listener(event)
		}
	}
	e.buffer = e.buffer[:0]
}
