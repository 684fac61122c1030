package event

import (
	"sort"
	"sync"

	"github.com/dshills/cutroom/internal/event/topic"
)

// registry holds subscriptions organized by topic pattern.
// It is safe for concurrent use.
type registry struct {
	mu   sync.RWMutex
	subs map[topic.Topic][]*subscription
	byID map[string]*subscription
}

func newRegistry() *registry {
	return &registry{
		subs: make(map[topic.Topic][]*subscription),
		byID: make(map[string]*subscription),
	}
}

// add inserts a subscription into its pattern's list, keeping the list in
// descending priority order. Among equal priorities the new subscription
// goes after existing ones, so delivery order among equals is subscribe
// order.
func (r *registry) add(sub *subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.subs[sub.pattern]
	pos := len(list)
	for pos > 0 && list[pos-1].config.priority < sub.config.priority {
		pos--
	}
	list = append(list, nil)
	copy(list[pos+1:], list[pos:])
	list[pos] = sub
	r.subs[sub.pattern] = list

	r.byID[sub.id] = sub
}

// remove deletes a subscription by ID. Removing the last subscription for
// a pattern frees the pattern's list.
func (r *registry) remove(subID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.byID[subID]
	if !ok {
		return false
	}

	list := r.subs[sub.pattern]
	for i, s := range list {
		if s.id == subID {
			r.subs[sub.pattern] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(r.subs[sub.pattern]) == 0 {
		delete(r.subs, sub.pattern)
	}

	delete(r.byID, subID)
	return true
}

// match returns the subscriptions whose pattern matches the event topic,
// ordered by descending priority and, among equals, subscribe order.
// The returned slice is a copy.
func (r *registry) match(eventType topic.Topic) []*subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*subscription
	for pattern, list := range r.subs {
		if eventType.Matches(pattern) {
			all = append(all, list...)
		}
	}
	if len(all) == 0 {
		return nil
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].config.priority != all[j].config.priority {
			return all[i].config.priority > all[j].config.priority
		}
		return all[i].seq < all[j].seq
	})
	return all
}

// count returns the number of active subscriptions.
func (r *registry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, sub := range r.byID {
		if sub.IsActive() {
			n++
		}
	}
	return n
}

// clear removes all subscriptions.
func (r *registry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subs = make(map[topic.Topic][]*subscription)
	r.byID = make(map[string]*subscription)
}
