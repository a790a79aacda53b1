package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type fakeClient struct {
	partitions []int32
	oldest     int64
	newest     int64
}

func (f *fakeClient) GetOffset(_ string, _ int32, at int64) (int64, error) {
	if at == sarama.OffsetOldest {
		return f.oldest, nil
	}
	return f.newest, nil
}

func (f *fakeClient) Partitions(_ string) ([]int32, error) {
	return f.partitions, nil
}

func (f *fakeClient) Close() error { return nil }

type fakePartitionConsumer struct {
	messages chan *sarama.ConsumerMessage
	errors   chan *sarama.ConsumerError
}

func (f *fakePartitionConsumer) Messages() <-chan *sarama.ConsumerMessage { return f.messages }

func (f *fakePartitionConsumer) Errors() <-chan *sarama.ConsumerError { return f.errors }

func (f *fakePartitionConsumer) Close() error { return nil }

type fakeConsumerSource struct {
	consumer *fakePartitionConsumer
}

func (f *fakeConsumerSource) ConsumePartition(_ string, _ int32, _ int64) (partitionConsumer, error) {
	return f.consumer, nil
}

func (f *fakeConsumerSource) Close() error { return nil }

type fakeRequeuer struct {
	enqueued []domain.OutboxMessage
}

func (f *fakeRequeuer) Enqueue(msg domain.OutboxMessage) (domain.OutboxMessage, error) {
	f.enqueued = append(f.enqueued, msg)
	return msg, nil
}

func dlqMessage(t *testing.T, offset int64) *sarama.ConsumerMessage {
	t.Helper()

	value, err := json.Marshal(map[string]any{
		"outbox_id": "msg-1",
		"kind":      "order.accepted",
		"order_id":  "order-1",
		"to":        "ana@example.com",
		"payload":   json.RawMessage(`{"customerName":"Ана"}`),
	})
	if err != nil {
		t.Fatalf("marshal dlq record: %v", err)
	}
	return &sarama.ConsumerMessage{Topic: "shop.dlq", Offset: offset, Value: value}
}

func newSource(messages ...*sarama.ConsumerMessage) *fakeConsumerSource {
	ch := make(chan *sarama.ConsumerMessage, len(messages))
	for _, msg := range messages {
		ch <- msg
	}
	return &fakeConsumerSource{
		consumer: &fakePartitionConsumer{
			messages: ch,
			errors:   make(chan *sarama.ConsumerError),
		},
	}
}

func testConfig(execute bool) config {
	return config{
		brokers:     []string{"broker:9092"},
		sourceTopic: "shop.dlq",
		limit:       10,
		execute:     execute,
		idleTimeout: 50 * time.Millisecond,
	}
}

func TestRunReplay_DryRunDoesNotEnqueue(t *testing.T) {
	client := &fakeClient{partitions: []int32{0}, oldest: 0, newest: 2}
	source := newSource(dlqMessage(t, 0), dlqMessage(t, 1))
	repo := &fakeRequeuer{}

	if err := runReplay(context.Background(), testConfig(false), client, source, repo); err != nil {
		t.Fatalf("dry-run failed: %v", err)
	}
	if len(repo.enqueued) != 0 {
		t.Fatalf("dry-run must not enqueue, got %d", len(repo.enqueued))
	}
}

func TestRunReplay_ExecuteRequeues(t *testing.T) {
	client := &fakeClient{partitions: []int32{0}, oldest: 0, newest: 2}
	source := newSource(dlqMessage(t, 0), dlqMessage(t, 1))
	repo := &fakeRequeuer{}

	if err := runReplay(context.Background(), testConfig(true), client, source, repo); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if len(repo.enqueued) != 2 {
		t.Fatalf("expected 2 requeued notifications, got %d", len(repo.enqueued))
	}
	if repo.enqueued[0].Kind != domain.NotificationOrderAccepted {
		t.Fatalf("unexpected kind %s", repo.enqueued[0].Kind)
	}
	if repo.enqueued[0].ID != "" {
		t.Fatalf("expected empty id so the outbox assigns a new one, got %s", repo.enqueued[0].ID)
	}
}

func TestRunReplay_SkipsGarbage(t *testing.T) {
	garbage := &sarama.ConsumerMessage{Topic: "shop.dlq", Offset: 0, Value: []byte("not json")}
	client := &fakeClient{partitions: []int32{0}, oldest: 0, newest: 2}
	source := newSource(garbage, dlqMessage(t, 1))
	repo := &fakeRequeuer{}

	if err := runReplay(context.Background(), testConfig(true), client, source, repo); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if len(repo.enqueued) != 1 {
		t.Fatalf("expected 1 requeued notification, got %d", len(repo.enqueued))
	}
}

func TestRunReplay_ExecuteRequiresRepo(t *testing.T) {
	client := &fakeClient{partitions: []int32{0}, oldest: 0, newest: 1}
	source := newSource(dlqMessage(t, 0))

	if err := runReplay(context.Background(), testConfig(true), client, source, nil); err == nil {
		t.Fatal("expected error when execute mode has no outbox repository")
	}
}

func TestExtractNotification(t *testing.T) {
	msg := dlqMessage(t, 0)
	notification, ok, err := extractNotification(msg)
	if err != nil || !ok {
		t.Fatalf("expected extraction to succeed, ok=%v err=%v", ok, err)
	}
	if notification.To != "ana@example.com" || notification.OrderID != "order-1" {
		t.Fatalf("unexpected notification %+v", notification)
	}

	_, ok, err = extractNotification(&sarama.ConsumerMessage{Value: []byte(`{"kind":"order.accepted","to":"ana@example.com"}`)})
	if err == nil || ok {
		t.Fatal("expected error for record without payload")
	}

	_, ok, err = extractNotification(&sarama.ConsumerMessage{Value: []byte(`{"foo":"bar"}`)})
	if err != nil || ok {
		t.Fatalf("expected silent skip for unrelated json, ok=%v err=%v", ok, err)
	}
}

func TestParseBrokers(t *testing.T) {
	brokers := parseBrokers(" broker-1:9092, ,broker-2:9092 ")
	if len(brokers) != 2 || brokers[0] != "broker-1:9092" || brokers[1] != "broker-2:9092" {
		t.Fatalf("unexpected brokers %v", brokers)
	}
}
