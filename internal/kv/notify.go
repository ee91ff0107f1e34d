package kv

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Write operations reported to observers.
const (
	OpSet    = "set"
	OpDelete = "delete"
)

// WriteEvent describes a successful write to a tracked key.
type WriteEvent struct {
	Key   string `json:"key"`
	Op    string `json:"op"`
	Bytes int    `json:"bytes"`
	TS    int64  `json:"ts"`
}

// Observer receives write events. Implementations must not block for
// long; a failing observer is logged and skipped, never propagated to
// the writer.
type Observer interface {
	ObserveWrite(ev WriteEvent) error
}

// trackedSubstrings selects which keys emit events, by substring
// match, matching the diagnostic hook of the storage layer.
var trackedSubstrings = []string{"cart", "order", "delivery", "discount"}

func tracked(key string) bool {
	for _, s := range trackedSubstrings {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}

// NotifyingStore wraps a Store and publishes write events for tracked
// keys to registered observers. It replaces any notion of a
// process-wide interception of the primitive: the hook is an explicit
// dependency, installed once where the store is constructed.
type NotifyingStore struct {
	Store
	observers []Observer
	log       zerolog.Logger
	now       func() time.Time
}

func NewNotifyingStore(inner Store, log zerolog.Logger, obs ...Observer) *NotifyingStore {
	return &NotifyingStore{
		Store:     inner,
		observers: obs,
		log:       log,
		now:       time.Now,
	}
}

// Subscribe registers an additional observer.
func (n *NotifyingStore) Subscribe(o Observer) {
	n.observers = append(n.observers, o)
}

func (n *NotifyingStore) Set(key string, value []byte) error {
	if err := n.Store.Set(key, value); err != nil {
		return err
	}
	n.notify(WriteEvent{Key: key, Op: OpSet, Bytes: len(value), TS: n.now().Unix()})
	return nil
}

func (n *NotifyingStore) Delete(key string) error {
	if err := n.Store.Delete(key); err != nil {
		return err
	}
	n.notify(WriteEvent{Key: key, Op: OpDelete, TS: n.now().Unix()})
	return nil
}

func (n *NotifyingStore) notify(ev WriteEvent) {
	if !tracked(ev.Key) {
		return
	}
	for _, o := range n.observers {
		if err := o.ObserveWrite(ev); err != nil {
			n.log.Warn().Err(err).Str("key", ev.Key).Msg("store observer failed")
		}
	}
}
