package server

import (
	"encoding/json"
	"sync"

	"github.com/crumspuzzlehunt/huntd/internal/hunt"
)

// GuessEvent is the payload published to a team's subscribers after one of
// its members submits a guess. Release gating stays pull-based; these events
// only mirror the team's own ledger activity.
type GuessEvent struct {
	Type             string           `json:"type"`
	PuzzleKey        string           `json:"puzzleKey"`
	PuzzleName       string           `json:"puzzleName"`
	Correctness      hunt.Correctness `json:"correctness"`
	GuessesRemaining int              `json:"guessesRemaining"`
}

// Broker is an in-process pub/sub for SSE events, keyed by team ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[int64]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[int64]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the
// given team.
func (b *Broker) Subscribe(teamID int64) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[teamID] == nil {
		b.subs[teamID] = make(map[chan []byte]struct{})
	}
	b.subs[teamID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the team's subscribers.
func (b *Broker) Unsubscribe(teamID int64, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[teamID], ch)
	if len(b.subs[teamID]) == 0 {
		delete(b.subs, teamID)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given team.
func (b *Broker) Publish(teamID int64, event GuessEvent) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[teamID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
