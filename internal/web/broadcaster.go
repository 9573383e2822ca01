package web

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// Event kinds sent on the status stream.
const (
	KindLog   = "log"   // free-form debug output
	KindSpin  = "spin"  // the disk spin changed
	KindRoute = "route" // a pointer was routed
)

// StatusEvent is one message on the SSE stream.
type StatusEvent struct {
	Time  string   `json:"t"`
	Kind  string   `json:"k"`
	Level string   `json:"l,omitempty"`
	Msg   string   `json:"msg,omitempty"`
	Spin  *float64 `json:"spin,omitempty"`
	Item  string   `json:"item,omitempty"`
}

// StatusBroadcaster fans disk events out to every connected SSE client.
type StatusBroadcaster struct {
	mu      sync.RWMutex
	clients map[chan string]struct{}
}

func NewStatusBroadcaster() *StatusBroadcaster {
	return &StatusBroadcaster{
		clients: make(map[chan string]struct{}),
	}
}

// Subscribe returns a channel that receives broadcast messages and a cleanup function.
// The caller must call the returned cleanup when done (e.g. on client disconnect).
func (b *StatusBroadcaster) Subscribe() (<-chan string, func()) {
	ch := make(chan string, 64)
	b.mu.Lock()
	b.clients[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.clients, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, unsub
}

// Clients returns the number of subscribers.
func (b *StatusBroadcaster) Clients() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Publish stamps evt and sends it as JSON to every subscriber.
// Slow clients miss messages rather than block the disk.
func (b *StatusBroadcaster) Publish(evt StatusEvent) {
	evt.Time = time.Now().Format(time.RFC3339Nano)
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	payload := string(data)

	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.clients {
		select {
		case ch <- payload:
		default:
		}
	}
}

// Broadcast sends a log line with the given level.
func (b *StatusBroadcaster) Broadcast(level, msg string) {
	b.Publish(StatusEvent{Kind: KindLog, Level: level, Msg: msg})
}

// BroadcastSpin announces a new spin value.
func (b *StatusBroadcaster) BroadcastSpin(spin float64) {
	b.Publish(StatusEvent{Kind: KindSpin, Spin: &spin})
}

// BroadcastRoute announces where a pointer was routed; item is empty for
// the container.
func (b *StatusBroadcaster) BroadcastRoute(item string) {
	b.Publish(StatusEvent{Kind: KindRoute, Item: item})
}

// BroadcastWriter adapts the broadcaster to io.Writer so debug output can be
// mirrored to the stream.
func BroadcastWriter(b *StatusBroadcaster) *broadcastWriter {
	return &broadcastWriter{b: b}
}

type broadcastWriter struct {
	b *StatusBroadcaster
}

func (w *broadcastWriter) Write(p []byte) (n int, err error) {
	msg := strings.TrimSpace(string(p))
	if msg != "" {
		w.b.Broadcast("info", msg)
	}
	return len(p), nil
}
