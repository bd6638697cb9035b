package server

import (
	"encoding/json"
	"sync"
)

// QuestEvent is the payload published to a device's event stream.
type QuestEvent struct {
	Type         string `json:"type"`
	QuestID      string `json:"questId,omitempty"`
	CheckpointID string `json:"checkpointId,omitempty"`
	VoucherCode  string `json:"voucherCode,omitempty"`
}

// Broker is an in-process pub/sub for SSE events, keyed by device ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for
// the given device.
func (b *Broker) Subscribe(deviceID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[deviceID] == nil {
		b.subs[deviceID] = make(map[chan []byte]struct{})
	}
	b.subs[deviceID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the device's subscribers.
func (b *Broker) Unsubscribe(deviceID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[deviceID], ch)
	if len(b.subs[deviceID]) == 0 {
		delete(b.subs, deviceID)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given device.
func (b *Broker) Publish(deviceID string, event QuestEvent) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[deviceID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
