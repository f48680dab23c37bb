package pubsub

import (
	"sync"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	ps := New()
	if ps == nil {
		t.Fatal("New() returned nil")
	}
	if ps.subscribers == nil {
		t.Error("subscribers map should be initialized")
	}
}

func TestSubscribe(t *testing.T) {
	ps := New()

	sub := ps.Subscribe(TopicLookGenerated, "project-1", 10)
	if sub == nil {
		t.Fatal("Subscribe returned nil")
	}
	if sub.ID == "" {
		t.Error("Subscriber ID should not be empty")
	}
	if sub.Topic != TopicLookGenerated {
		t.Errorf("Expected topic %s, got %s", TopicLookGenerated, sub.Topic)
	}
	if sub.Filter != "project-1" {
		t.Errorf("Expected filter 'project-1', got '%s'", sub.Filter)
	}
	if cap(sub.Channel) != 10 {
		t.Errorf("Expected channel buffer 10, got %d", cap(sub.Channel))
	}
}

func TestSubscribe_UniqueIDs(t *testing.T) {
	ps := New()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		sub := ps.Subscribe(TopicScriptAnalyzed, "", 1)
		if seen[sub.ID] {
			t.Fatalf("Duplicate subscriber ID: %s", sub.ID)
		}
		seen[sub.ID] = true
	}
}

func TestUnsubscribe(t *testing.T) {
	ps := New()

	sub := ps.Subscribe(TopicLookGenerated, "", 10)
	ps.Unsubscribe(sub)

	if count := ps.SubscriberCount(TopicLookGenerated); count != 0 {
		t.Errorf("Expected 0 subscribers after unsubscribe, got %d", count)
	}

	// Channel should be closed
	select {
	case _, ok := <-sub.Channel:
		if ok {
			t.Error("Channel should be closed after unsubscribe")
		}
	default:
		t.Error("Channel should be closed and readable")
	}
}

func TestUnsubscribe_Twice(t *testing.T) {
	ps := New()

	sub := ps.Subscribe(TopicLookGenerated, "", 1)
	ps.Unsubscribe(sub)

	// Should not panic on a closed channel
	ps.Unsubscribe(sub)
}

func TestUnsubscribe_NonExistent(t *testing.T) {
	ps := New()

	fakeSub := &Subscriber{
		ID:      "fake-id",
		Topic:   TopicLookGenerated,
		Channel: make(chan Event, 1),
	}

	// Should not panic
	ps.Unsubscribe(fakeSub)
}

func TestPublish(t *testing.T) {
	ps := New()

	sub := ps.Subscribe(TopicLookGenerated, "", 10)
	ps.Publish(TopicLookGenerated, "project-1", "look payload")

	select {
	case ev := <-sub.Channel:
		if ev.Topic != TopicLookGenerated {
			t.Errorf("Expected topic %s, got %s", TopicLookGenerated, ev.Topic)
		}
		if ev.ProjectID != "project-1" {
			t.Errorf("Expected project 'project-1', got '%s'", ev.ProjectID)
		}
		if ev.Payload != "look payload" {
			t.Errorf("Expected 'look payload', got '%v'", ev.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("Timed out waiting for event")
	}
}

func TestPublish_OtherTopic(t *testing.T) {
	ps := New()

	sub := ps.Subscribe(TopicLookOptimized, "", 10)
	ps.Publish(TopicLookGenerated, "", "not for you")

	select {
	case <-sub.Channel:
		t.Error("Subscriber should not receive events for other topics")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublish_WithFilter(t *testing.T) {
	ps := New()

	subWithFilter := ps.Subscribe(TopicCueSequenceGenerated, "project-1", 10)
	subOtherFilter := ps.Subscribe(TopicCueSequenceGenerated, "project-2", 10)
	subNoFilter := ps.Subscribe(TopicCueSequenceGenerated, "", 10)

	ps.Publish(TopicCueSequenceGenerated, "project-1", "msg for project-1")

	select {
	case ev := <-subWithFilter.Channel:
		if ev.Payload != "msg for project-1" {
			t.Errorf("Expected 'msg for project-1', got '%v'", ev.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("subWithFilter should have received the event")
	}

	select {
	case <-subOtherFilter.Channel:
		t.Error("subOtherFilter should not have received the event")
	case <-time.After(50 * time.Millisecond):
	}

	select {
	case ev := <-subNoFilter.Channel:
		if ev.Payload != "msg for project-1" {
			t.Errorf("Expected 'msg for project-1', got '%v'", ev.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("subNoFilter should have received the event")
	}
}

func TestPublish_NoProject(t *testing.T) {
	ps := New()

	subWithFilter := ps.Subscribe(TopicScriptAnalyzed, "project-1", 10)

	// Script analysis is not tied to a project and reaches every subscriber
	ps.Publish(TopicScriptAnalyzed, "", "analysis")

	select {
	case ev := <-subWithFilter.Channel:
		if ev.Payload != "analysis" {
			t.Errorf("Expected 'analysis', got '%v'", ev.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("Should have received event published without a project")
	}
}

func TestPublish_ChannelFull(t *testing.T) {
	ps := New()

	sub := ps.Subscribe(TopicLookGenerated, "", 1)
	ps.Publish(TopicLookGenerated, "", "msg1")

	done := make(chan bool, 1)
	go func() {
		ps.Publish(TopicLookGenerated, "", "msg2") // dropped
		done <- true
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Error("Publish blocked on full channel")
	}

	ev := <-sub.Channel
	if ev.Payload != "msg1" {
		t.Errorf("Expected 'msg1', got '%v'", ev.Payload)
	}
}

func TestSubscriberCount(t *testing.T) {
	ps := New()

	if count := ps.SubscriberCount(TopicLookGenerated); count != 0 {
		t.Errorf("Expected 0 subscribers initially, got %d", count)
	}

	sub1 := ps.Subscribe(TopicLookGenerated, "", 10)
	sub2 := ps.Subscribe(TopicLookGenerated, "", 10)

	if count := ps.SubscriberCount(TopicLookGenerated); count != 2 {
		t.Errorf("Expected 2 subscribers, got %d", count)
	}

	ps.Unsubscribe(sub1)
	if count := ps.SubscriberCount(TopicLookGenerated); count != 1 {
		t.Errorf("Expected 1 subscriber after unsubscribe, got %d", count)
	}

	ps.Unsubscribe(sub2)
	if count := ps.SubscriberCount(TopicLookGenerated); count != 0 {
		t.Errorf("Expected 0 subscribers after all unsubscribed, got %d", count)
	}
}

func TestConcurrentPublishAndUnsubscribe(t *testing.T) {
	ps := New()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := ps.Subscribe(TopicLookOptimized, "", 1)
			time.Sleep(time.Millisecond)
			ps.Unsubscribe(sub)
		}()
	}

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ps.Publish(TopicLookOptimized, "", i)
		}(i)
	}

	wg.Wait()
}

func TestParseTopic(t *testing.T) {
	tests := []struct {
		in   string
		want Topic
		ok   bool
	}{
		{"LOOK_GENERATED", TopicLookGenerated, true},
		{"look_optimized", TopicLookOptimized, true},
		{" SCRIPT_ANALYZED ", TopicScriptAnalyzed, true},
		{"CUE_SEQUENCE_GENERATED", TopicCueSequenceGenerated, true},
		{"DMX_OUTPUT_CHANGED", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseTopic(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseTopic(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTopicConstants(t *testing.T) {
	seen := make(map[Topic]bool)
	for _, topic := range Topics() {
		if seen[topic] {
			t.Errorf("Duplicate topic: %s", topic)
		}
		seen[topic] = true
	}
	if len(seen) != 4 {
		t.Errorf("Expected 4 topics, got %d", len(seen))
	}
}
