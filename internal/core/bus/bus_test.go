package bus

import (
	"context"
	"testing"
)

func TestBus_PublishIsSynchronousAndOrdered(t *testing.T) {
	b := New()
	var got []string

	b.Subscribe(TopicSession, func(_ context.Context, _ Event) { got = append(got, "first") })
	b.Subscribe(TopicSession, func(_ context.Context, _ Event) { got = append(got, "second") })
	b.Subscribe(TopicEntitlement, func(_ context.Context, _ Event) { got = append(got, "other") })

	b.Publish(context.Background(), Event{Topic: TopicSession})

	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Fatalf("expected [first second] delivered before return, got %v", got)
	}
}

func TestBus_UnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	calls := 0
	sub := b.Subscribe(TopicEntitlement, func(_ context.Context, _ Event) { calls++ })

	b.Publish(context.Background(), Event{Topic: TopicEntitlement})
	sub.Unsubscribe()
	sub.Unsubscribe()
	b.Publish(context.Background(), Event{Topic: TopicEntitlement})

	if calls != 1 {
		t.Fatalf("expected 1 delivery, got %d", calls)
	}
	if n := b.Subscribers(TopicEntitlement); n != 0 {
		t.Fatalf("expected no subscribers left, got %d", n)
	}
}

func TestBus_UnsubscribeDuringDelivery(t *testing.T) {
	b := New()
	var second *Subscription
	secondCalls := 0

	b.Subscribe(TopicSession, func(_ context.Context, _ Event) { second.Unsubscribe() })
	second = b.Subscribe(TopicSession, func(_ context.Context, _ Event) { secondCalls++ })

	// Snapshot semantics: subscribers at call time still receive this event.
	b.Publish(context.Background(), Event{Topic: TopicSession})
	b.Publish(context.Background(), Event{Topic: TopicSession})

	if secondCalls != 1 {
		t.Fatalf("expected second handler called once, got %d", secondCalls)
	}
}

func TestBus_OnDeliverReportsFanout(t *testing.T) {
	b := New()
	b.Subscribe(TopicSession, func(context.Context, Event) {})
	b.Subscribe(TopicSession, func(context.Context, Event) {})

	var topic Topic
	delivered := -1
	b.OnDeliver(func(tp Topic, n int) { topic, delivered = tp, n })

	b.Publish(context.Background(), Event{Topic: TopicSession, Origin: "tab-2"})

	if topic != TopicSession || delivered != 2 {
		t.Fatalf("unexpected hook values: %s %d", topic, delivered)
	}
}
