// Package queue publishes task events to Kafka.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	tasksdomain "family-chores-go/internal/domain/tasks"
	"family-chores-go/pkg/logger"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// TaskPublisher writes one message per task event, keyed by task id so
// events for a task stay ordered within a partition.
type TaskPublisher struct {
	writer messageWriter
	topic  string
	log    logger.Logger
}

// NewTaskPublisher writes asynchronously, so broker failures surface only
// through the writer's completion callback and are logged there.
func NewTaskPublisher(brokers []string, topic string, log logger.Logger) *TaskPublisher {
	log = logger.OrNop(log).With("component", "kafka", "topic", topic)
	publisher := &TaskPublisher{topic: topic, log: log}
	publisher.writer = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: 0,
		Async:        true,
		RequiredAcks: kafka.RequireOne,
		Completion:   publisher.completed,
	}
	log.Info("kafka: task publisher initialized", "brokers", brokers)
	return publisher
}

func (p *TaskPublisher) completed(messages []kafka.Message, err error) {
	if err == nil {
		return
	}
	for _, msg := range messages {
		p.log.InternalError("kafka: publish task event failed", err, "task_id", string(msg.Key))
	}
}

func (p *TaskPublisher) Publish(ctx context.Context, event tasksdomain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode task event: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.TaskID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "action", Value: []byte(event.Action)},
		},
	})
}

func (p *TaskPublisher) Topic() string {
	return p.topic
}

func (p *TaskPublisher) Close() error {
	return p.writer.Close()
}

// EnsureTopic creates the topic when the broker allows it. Failures are
// logged and ignored; the publisher still works against an existing topic.
func EnsureTopic(ctx context.Context, brokers []string, topic string, partitions int, log logger.Logger) {
	log = logger.OrNop(log)
	if len(brokers) == 0 {
		return
	}
	if partitions <= 0 {
		partitions = 1
	}

	dialer := &kafka.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		log.Debug("kafka: dial for topic creation failed", "err", err)
		return
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		log.Debug("kafka: controller lookup failed", "err", err)
		return
	}
	ctrlConn, err := dialer.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	if err != nil {
		log.Debug("kafka: controller dial failed", "err", err)
		return
	}
	defer ctrlConn.Close()

	err = ctrlConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
	})
	if err != nil {
		log.Debug("kafka: create topic failed (topic may already exist)", "err", err)
		return
	}
	log.Info("kafka: topic ensured", "topic", topic, "partitions", partitions)
}
