package kv

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type recordingObserver struct {
	events []WriteEvent
	err    error
}

func (r *recordingObserver) ObserveWrite(ev WriteEvent) error {
	r.events = append(r.events, ev)
	return r.err
}

func TestNotifyingStore_TrackedKeysOnly(t *testing.T) {
	obs := &recordingObserver{}
	s := NewNotifyingStore(NewMemoryStore(), zerolog.Nop(), obs)

	if err := s.Set("cart", []byte("[]")); err != nil {
		t.Fatalf("set cart: %v", err)
	}
	if err := s.Set("gallery", []byte("[]")); err != nil {
		t.Fatalf("set gallery: %v", err)
	}
	if err := s.Set("orderHistory", []byte("[]")); err != nil {
		t.Fatalf("set orderHistory: %v", err)
	}
	if err := s.Delete("deliveryData"); err != nil {
		t.Fatalf("delete deliveryData: %v", err)
	}
	if err := s.Set("discountCoupon", []byte("none")); err != nil {
		t.Fatalf("set discountCoupon: %v", err)
	}

	want := []struct {
		key string
		op  string
	}{
		{"cart", OpSet},
		{"orderHistory", OpSet},
		{"deliveryData", OpDelete},
		{"discountCoupon", OpSet},
	}
	if len(obs.events) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(obs.events), len(want), obs.events)
	}
	for i, w := range want {
		if obs.events[i].Key != w.key || obs.events[i].Op != w.op {
			t.Fatalf("event %d = %+v, want %s/%s", i, obs.events[i], w.key, w.op)
		}
	}
}

func TestNotifyingStore_ObserverFailureDoesNotPropagate(t *testing.T) {
	obs := &recordingObserver{err: errors.New("sink down")}
	s := NewNotifyingStore(NewMemoryStore(), zerolog.Nop(), obs)

	if err := s.Set("cart", []byte("[]")); err != nil {
		t.Fatalf("observer error leaked: %v", err)
	}
	v, ok, _ := s.Get("cart")
	if !ok || string(v) != "[]" {
		t.Fatalf("write lost: ok=%v v=%q", ok, v)
	}
}

func TestNotifyingStore_NoEventOnFailedWrite(t *testing.T) {
	obs := &recordingObserver{}
	s := NewNotifyingStore(failingStore{}, zerolog.Nop(), obs)

	if err := s.Set("cart", []byte("[]")); err == nil {
		t.Fatalf("expected inner store error")
	}
	if len(obs.events) != 0 {
		t.Fatalf("event emitted for failed write: %+v", obs.events)
	}
}

type failingStore struct{}

func (failingStore) Get(string) ([]byte, bool, error) { return nil, false, nil }
func (failingStore) Set(string, []byte) error         { return errors.New("disk full") }
func (failingStore) Delete(string) error              { return errors.New("disk full") }
func (failingStore) Close() error                     { return nil }
