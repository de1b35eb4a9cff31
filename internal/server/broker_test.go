package server

import (
	"encoding/json"
	"testing"

	"github.com/crumspuzzlehunt/huntd/internal/hunt"
)

func TestBrokerPublishToSubscribers(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe(7)
	defer b.Unsubscribe(7, ch)

	b.Publish(7, GuessEvent{
		Type:        "guess_judged",
		PuzzleKey:   "locks",
		Correctness: hunt.Right,
	})

	select {
	case data := <-ch:
		var ev GuessEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("decoding event: %v", err)
		}
		if ev.PuzzleKey != "locks" || ev.Correctness != hunt.Right {
			t.Errorf("unexpected event: %+v", ev)
		}
	default:
		t.Fatal("expected a buffered event")
	}
}

func TestBrokerIsolatesTeams(t *testing.T) {
	b := NewBroker()
	mine := b.Subscribe(1)
	theirs := b.Subscribe(2)
	defer b.Unsubscribe(1, mine)
	defer b.Unsubscribe(2, theirs)

	b.Publish(1, GuessEvent{Type: "guess_judged"})

	if len(theirs) != 0 {
		t.Error("event leaked to another team's subscriber")
	}
	if len(mine) != 1 {
		t.Errorf("expected 1 event, got %d", len(mine))
	}
}

func TestBrokerDropsWhenSlow(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe(3)
	defer b.Unsubscribe(3, ch)

	// Overfill the buffer; Publish must not block.
	for i := 0; i < 40; i++ {
		b.Publish(3, GuessEvent{Type: "guess_judged"})
	}
	if len(ch) != cap(ch) {
		t.Errorf("expected full buffer of %d, got %d", cap(ch), len(ch))
	}
}
