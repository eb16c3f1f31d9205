package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"

	"fbpitch/internal/config"
	"fbpitch/internal/model"
)

// Producer ставит задачи уведомлений в топик Kafka.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer создает продюсер задач уведомлений.
func NewProducer(cfg config.KafkaConfig) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{writer: writer}
}

// EnqueueOrder ставит задачу уведомлений о новом заказе.
// Ключ - id заказа, чтобы повторы одного заказа попадали в одну партицию.
func (p *Producer) EnqueueOrder(ctx context.Context, order *model.Order) error {
	return p.enqueue(ctx, order.OrderID, &Task{Kind: TaskOrder, Order: order})
}

// EnqueueContact ставит задачу уведомления о сообщении обратной связи.
func (p *Producer) EnqueueContact(ctx context.Context, msg *model.ContactMessage) error {
	return p.enqueue(ctx, fmt.Sprintf("contact-%d", msg.ID), &Task{Kind: TaskContact, Contact: msg})
}

func (p *Producer) enqueue(ctx context.Context, key string, task *Task) error {
	value, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("ошибка сериализации задачи: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

// Close закрывает продюсер.
func (p *Producer) Close() {
	if err := p.writer.Close(); err != nil {
		log.Printf("Ошибка закрытия Kafka writer: %v", err)
	}
}
