package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"habithero-service/internal/config"
	"habithero-service/internal/domain/entity"
	"habithero-service/internal/domain/service"
)

// Producer publishes habit events to Kafka
type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg *config.KafkaConfig) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    10,
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
	}

	return &Producer{writer: writer}
}

// habitCompletedEvent is the wire payload for a habit reaching its daily target
type habitCompletedEvent struct {
	EventType  string    `json:"event_type"`
	HabitID    string    `json:"habit_id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Streak     int32     `json:"streak"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PublishHabitCompleted publishes a habit-completed event
func (p *Producer) PublishHabitCompleted(ctx context.Context, habit *entity.Habit) error {
	event := habitCompletedEvent{
		EventType:  "habit.completed",
		HabitID:    habit.ID.String(),
		UserID:     habit.UserID.String(),
		Title:      habit.Title,
		Streak:     habit.Streak,
		OccurredAt: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(habit.UserID.String()),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to publish habit completed event: %w", err)
	}

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

var _ service.EventPublisher = (*Producer)(nil)
