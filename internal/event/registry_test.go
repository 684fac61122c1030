package event

import (
	"context"
	"testing"

	"github.com/dshills/cutroom/internal/event/topic"
)

func newSub(id string, pattern string, priority int, seq uint64) *subscription {
	return &subscription{
		id:      id,
		pattern: topic.Topic(pattern),
		handler: HandlerFunc(func(ctx context.Context, env Envelope) error { return nil }),
		config:  subscribeConfig{priority: priority},
		seq:     seq,
	}
}

func TestRegistry_PriorityInsertion(t *testing.T) {
	r := newRegistry()

	r.add(newSub("a", "t.x", 0, 1))
	r.add(newSub("b", "t.x", 10, 2))
	r.add(newSub("c", "t.x", 10, 3))
	r.add(newSub("d", "t.x", 5, 4))

	got := r.match("t.x")
	want := []string{"b", "c", "d", "a"}
	if len(got) != len(want) {
		t.Fatalf("match returned %d subs, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].id != id {
			t.Errorf("match[%d] = %s, want %s", i, got[i].id, id)
		}
	}
}

func TestRegistry_MatchAcrossPatterns(t *testing.T) {
	r := newRegistry()

	r.add(newSub("exact", "timeline.clip.added", 0, 1))
	r.add(newSub("wild", "timeline.**", 5, 2))
	r.add(newSub("other", "playback.started", 0, 3))

	got := r.match("timeline.clip.added")
	if len(got) != 2 {
		t.Fatalf("match returned %d subs, want 2", len(got))
	}
	if got[0].id != "wild" || got[1].id != "exact" {
		t.Errorf("match order = [%s %s], want [wild exact]", got[0].id, got[1].id)
	}
}

func TestRegistry_RemoveFreesPattern(t *testing.T) {
	r := newRegistry()

	r.add(newSub("a", "t.x", 0, 1))
	if !r.remove("a") {
		t.Fatal("remove returned false")
	}
	if r.remove("a") {
		t.Error("second remove returned true")
	}
	if len(r.subs) != 0 {
		t.Errorf("pattern list not freed: %d patterns remain", len(r.subs))
	}
	if got := r.match("t.x"); got != nil {
		t.Errorf("match after remove = %v, want nil", got)
	}
}
