package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	tasksdomain "family-chores-go/internal/domain/tasks"
	"family-chores-go/pkg/logger"
	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	messages []kafka.Message
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	return nil
}

func TestPublishEncodesEvent(t *testing.T) {
	writer := &fakeWriter{}
	publisher := &TaskPublisher{writer: writer, topic: "task-events"}

	event := tasksdomain.Event{
		Action:     tasksdomain.ActionCreated,
		TaskID:     "t1",
		UserID:     "u1",
		OccurredAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Task:       &tasksdomain.Task{ID: "t1", Title: "Buy milk", Status: tasksdomain.StatusPending},
	}
	if err := publisher.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(writer.messages) != 1 {
		t.Fatalf("expected one message, got %d", len(writer.messages))
	}
	msg := writer.messages[0]
	if string(msg.Key) != "t1" {
		t.Fatalf("expected task id key, got %q", msg.Key)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != "created" {
		t.Fatalf("expected action header, got %+v", msg.Headers)
	}

	var decoded tasksdomain.Event
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Task == nil || decoded.Task.Title != "Buy milk" || decoded.UserID != "u1" {
		t.Fatalf("unexpected payload %s", msg.Value)
	}
}

func TestCompletionLogsFailedWrites(t *testing.T) {
	var buf bytes.Buffer
	publisher := &TaskPublisher{topic: "task-events", log: logger.New(&buf, slog.LevelDebug, "json")}

	publisher.completed([]kafka.Message{{Key: []byte("t1")}}, nil)
	if buf.Len() != 0 {
		t.Fatalf("expected nothing logged on success, got %s", buf.String())
	}

	publisher.completed([]kafka.Message{{Key: []byte("t1")}, {Key: []byte("t2")}}, errors.New("broker down"))
	output := buf.String()
	if strings.Count(output, "kafka: publish task event failed") != 2 {
		t.Fatalf("expected one log line per failed message, got %s", output)
	}
	if !strings.Contains(output, "broker down") || !strings.Contains(output, `"task_id":"t2"`) {
		t.Fatalf("expected error and task id logged, got %s", output)
	}
}
