// Package pubsub fans pipeline results out to live subscribers.
package pubsub

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Topic represents a subscription topic.
type Topic string

const (
	TopicLookGenerated        Topic = "LOOK_GENERATED"
	TopicCueSequenceGenerated Topic = "CUE_SEQUENCE_GENERATED"
	TopicScriptAnalyzed       Topic = "SCRIPT_ANALYZED"
	TopicLookOptimized        Topic = "LOOK_OPTIMIZED"
)

// Topics lists every topic clients may subscribe to.
func Topics() []Topic {
	return []Topic{TopicLookGenerated, TopicCueSequenceGenerated, TopicScriptAnalyzed, TopicLookOptimized}
}

// ParseTopic resolves a topic name case-insensitively.
func ParseTopic(name string) (Topic, bool) {
	for _, t := range Topics() {
		if strings.EqualFold(string(t), strings.TrimSpace(name)) {
			return t, true
		}
	}
	return "", false
}

// Event is a message delivered to subscribers.
type Event struct {
	Topic     Topic       `json:"topic"`
	ProjectID string      `json:"projectId,omitempty"`
	Payload   interface{} `json:"payload"`
}

// Subscriber represents a subscription channel.
type Subscriber struct {
	ID      string
	Topic   Topic
	Filter  string // Optional project id; empty receives every project
	Channel chan Event
}

// PubSub manages subscriptions and message distribution.
type PubSub struct {
	mu          sync.RWMutex
	subscribers map[Topic][]*Subscriber
}

// New creates a new PubSub instance.
func New() *PubSub {
	return &PubSub{
		subscribers: make(map[Topic][]*Subscriber),
	}
}

// Subscribe creates a new subscription for a topic.
func (ps *PubSub) Subscribe(topic Topic, filter string, bufferSize int) *Subscriber {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	sub := &Subscriber{
		ID:      uuid.NewString(),
		Topic:   topic,
		Filter:  filter,
		Channel: make(chan Event, bufferSize),
	}

	ps.subscribers[topic] = append(ps.subscribers[topic], sub)
	return sub
}

// Unsubscribe removes a subscription and closes its channel. It is safe to
// call more than once.
func (ps *PubSub) Unsubscribe(sub *Subscriber) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	subs := ps.subscribers[sub.Topic]
	for i, s := range subs {
		if s.ID == sub.ID {
			close(s.Channel)
			ps.subscribers[sub.Topic] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribers of a topic.
// If projectID is non-empty, only subscribers with a matching or empty filter receive it.
// Delivery never blocks: a full subscriber misses the event.
func (ps *PubSub) Publish(topic Topic, projectID string, payload interface{}) {
	ev := Event{Topic: topic, ProjectID: projectID, Payload: payload}

	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for _, sub := range ps.subscribers[topic] {
		if sub.Filter == "" || projectID == "" || sub.Filter == projectID {
			select {
			case sub.Channel <- ev:
			default:
			}
		}
	}
}

// SubscriberCount returns the number of subscribers for a topic.
func (ps *PubSub) SubscriberCount(topic Topic) int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.subscribers[topic])
}
