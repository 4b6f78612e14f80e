// Package events implements the observable-mutation hooks that let a
// host record undo logs without the core managing an undo stack itself.
package events

// Event carries one mutation: the operation name, the receiver it was
// performed on, the arguments it was performed with, and a Revert thunk
// that performs the exact inverse. Revert is built by the mutator before
// it commits, so it always captures the prior state correctly regardless
// of when a subscriber later calls it.
type Event struct {
	Op       string
	Receiver any
	Args     []any
	Revert   func()
}

// Observer receives an Event before the mutation it describes commits.
type Observer func(Event)

// Subscriber receives an Event after the mutation it describes commits,
// with its Revert thunk populated, suitable for building an undo log.
type Subscriber func(Event)

// Token identifies a registered Observer or Subscriber for later
// removal.
type Token int

// Bus is an EventBus owned by a single Canvas: two registries, observers
// (pre-commit) and subscribers (post-commit), with lifetime tied to the
// owning Canvas rather than the process. The core never clears these
// registries itself; the host adds and removes its own observers and
// subscribers as it creates and discards canvases.
type Bus struct {
	observers   map[Token]Observer
	subscribers map[Token]Subscriber
	nextToken   Token
}

// NewBus returns an empty event bus.
func NewBus() *Bus {
	return &Bus{
		observers:   make(map[Token]Observer),
		subscribers: make(map[Token]Subscriber),
	}
}

// AddObserver registers an Observer to be called before every mutation
// and returns a Token that can later be passed to RemoveObserver.
func (b *Bus) AddObserver(o Observer) Token {
	b.nextToken++
	tok := b.nextToken
	b.observers[tok] = o
	return tok
}

// RemoveObserver unregisters the Observer identified by tok. It is a
// no-op if tok is not currently registered.
func (b *Bus) RemoveObserver(tok Token) {
	delete(b.observers, tok)
}

// AddSubscriber registers a Subscriber to be called after every mutation
// commits, receiving the same Event (including its Revert thunk), and
// returns a Token for RemoveSubscriber.
func (b *Bus) AddSubscriber(s Subscriber) Token {
	b.nextToken++
	tok := b.nextToken
	b.subscribers[tok] = s
	return tok
}

// RemoveSubscriber unregisters the Subscriber identified by tok.
func (b *Bus) RemoveSubscriber(tok Token) {
	delete(b.subscribers, tok)
}

// Emit notifies every observer with ev, then commits by invoking commit,
// then notifies every subscriber with the same ev. Panics from an
// individual observer or subscriber are recovered so one misbehaving
// callback cannot prevent others from running or the mutation from
// completing.
func (b *Bus) Emit(ev Event, commit func()) {
	for _, o := range b.observers {
		notify(func() { o(ev) })
	}
	commit()
	for _, s := range b.subscribers {
		notify(func() { s(ev) })
	}
}

func notify(f func()) {
	defer func() { recover() }()
	f()
}
