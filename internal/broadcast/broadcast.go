package broadcast

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Event is one server-sent event: its name and a JSON payload.
type Event struct {
	Name string
	Data string
}

// Write renders the event in text/event-stream framing.
func (e Event) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "event: %s\n", e.Name); err != nil {
		return err
	}
	for _, line := range strings.Split(e.Data, "\n") {
		if _, err := fmt.Fprintf(w, "data: %s\n", line); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func (e Event) String() string {
	var sb strings.Builder
	e.Write(&sb)
	return sb.String()
}

type Broadcaster struct {
	Mu      sync.Mutex
	Clients map[chan Event]bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		Clients: make(map[chan Event]bool),
	}
}

func (b *Broadcaster) Subscribe() chan Event {
	ch := make(chan Event, 16)
	b.Mu.Lock()
	b.Clients[ch] = true
	b.Mu.Unlock()
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan Event) {
	b.Mu.Lock()
	_, ok := b.Clients[ch]
	delete(b.Clients, ch)
	b.Mu.Unlock()
	if ok {
		close(ch)
	}
}

func (b *Broadcaster) Count() int {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	return len(b.Clients)
}

func (b *Broadcaster) Broadcast(name string, data string) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		select {
		case ch <- Event{Name: name, Data: data}:
		default:
			// skip clients with full data channels
		}
	}
}

// CloseAll disconnects every subscriber. Events already buffered are still
// readable; receivers see a closed channel after them.
func (b *Broadcaster) CloseAll() {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		close(ch)
		delete(b.Clients, ch)
	}
}
