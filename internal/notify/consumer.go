package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"fbpitch/internal/config"
	"fbpitch/internal/metrics"
	"fbpitch/internal/model"
	"fbpitch/internal/validator"
)

//go:generate mockgen -source=consumer.go -destination=./mocks/consumer_mock.go -package=mocks EmailSender,SheetAppender

// EmailSender отправляет письма оператору.
type EmailSender interface {
	SendOrderEmail(order *model.Order) error
	SendContactEmail(msg *model.ContactMessage) error
}

// SheetAppender дописывает заказ в таблицу оператора.
type SheetAppender interface {
	AppendOrder(ctx context.Context, order *model.Order) error
}

// reader - читаемая часть kafka.Reader, выделена для тестов.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer читает задачи уведомлений и выполняет их.
type Consumer struct {
	reader     reader
	dlqWriter  *kafka.Writer // Продюсер для отправки "битых" задач в DLQ
	mailer     EmailSender
	sheets     SheetAppender
	tracer     trace.Tracer
	maxRetries int // Количество попыток для временных ошибок почты и Sheets
}

// NewConsumer создает консюмер задач уведомлений.
func NewConsumer(cfg config.KafkaConfig, mailer EmailSender, sheets SheetAppender) *Consumer {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
		// Коммиты выполняются вручную после успешной обработки.
	})

	dlqWriter := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    cfg.DLQTopic,
		Balancer: &kafka.LeastBytes{},
	}

	return &Consumer{
		reader:     kafkaReader,
		dlqWriter:  dlqWriter,
		mailer:     mailer,
		sheets:     sheets,
		tracer:     otel.Tracer("notify-consumer"),
		maxRetries: 3,
	}
}

// Run запускает цикл чтения задач из Kafka.
func (c *Consumer) Run(ctx context.Context) {
	log.Println("Консюмер уведомлений запущен...")
	defer func() {
		if err := c.reader.Close(); err != nil {
			log.Printf("Ошибка закрытия Kafka-ридера: %v", err)
		}
		if err := c.dlqWriter.Close(); err != nil {
			log.Printf("Ошибка закрытия Kafka (DLQ) writer: %v", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Println("Консюмер уведомлений останавливается.")
			return
		default:
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				log.Printf("Ошибка чтения задачи из Kafka: %v", err)
				continue
			}

			procErr := c.processMessage(ctx, msg)

			if procErr != nil {
				// Ошибка = нужна повторная доставка. Не коммитим,
				// Kafka пришлет задачу снова.
				log.Printf("Ошибка обработки задачи (ключ: %s): %v. Не коммитим, ждем retry.", string(msg.Key), procErr)
			} else {
				// nil = обработка успешна (в т.ч. уход в DLQ).
				if err := c.reader.CommitMessages(ctx, msg); err != nil {
					log.Printf("Ошибка коммита задачи: %v", err)
				}
			}
		}
	}
}

// processMessage выполняет одну задачу уведомлений.
// Возвращает nil, если задача выполнена или ушла в DLQ (ретраить нечего).
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) error {
	ctx, span := c.tracer.Start(ctx, "Consumer.processMessage")
	defer span.End()

	var task Task
	if err := json.Unmarshal(msg.Value, &task); err != nil {
		log.Printf("Невалидная JSON-задача, отправка в DLQ: %v", err)
		c.sendToDLQ(ctx, msg, "json_unmarshal_error", err)
		metrics.NotificationsProcessed.WithLabelValues("dlq_validation").Inc()
		return nil // Коммитим (не ретраим "битый" JSON)
	}

	if err := validator.ValidateStruct(&task); err != nil ||
		(task.Kind == TaskOrder && task.Order == nil) ||
		(task.Kind == TaskContact && task.Contact == nil) {
		log.Printf("Невалидная задача (ключ: %s), отправка в DLQ: %v", string(msg.Key), err)
		c.sendToDLQ(ctx, msg, "validation_error", err)
		metrics.NotificationsProcessed.WithLabelValues("dlq_validation").Inc()
		return nil
	}

	switch task.Kind {
	case TaskOrder:
		return c.processOrder(ctx, msg, task.Order)
	case TaskContact:
		return c.processContact(ctx, msg, task.Contact)
	}
	return nil
}

// processOrder отправляет письмо и дописывает заказ в таблицу.
// Каждый шаг ретраится отдельно; исчерпание попыток уводит задачу в DLQ.
func (c *Consumer) processOrder(ctx context.Context, msg kafka.Message, order *model.Order) error {
	if err := c.withRetries(func() error { return c.mailer.SendOrderEmail(order) }); err != nil {
		log.Printf("Не удалось отправить письмо о заказе %s после %d попыток, отправка в DLQ.", order.OrderID, c.maxRetries)
		c.sendToDLQ(ctx, msg, "email_send_error", err)
		metrics.NotificationsProcessed.WithLabelValues("email_failed").Inc()
		return nil
	}

	if err := c.withRetries(func() error { return c.sheets.AppendOrder(ctx, order) }); err != nil {
		log.Printf("Не удалось дописать заказ %s в таблицу после %d попыток, отправка в DLQ.", order.OrderID, c.maxRetries)
		c.sendToDLQ(ctx, msg, "sheet_append_error", err)
		metrics.NotificationsProcessed.WithLabelValues("sheet_failed").Inc()
		return nil
	}

	log.Printf("Уведомления по заказу %s доставлены.", order.OrderID)
	metrics.NotificationsProcessed.WithLabelValues("success").Inc()
	return nil
}

// processContact пересылает сообщение обратной связи оператору.
func (c *Consumer) processContact(ctx context.Context, msg kafka.Message, contact *model.ContactMessage) error {
	if err := c.withRetries(func() error { return c.mailer.SendContactEmail(contact) }); err != nil {
		log.Printf("Не удалось переслать сообщение %d после %d попыток, отправка в DLQ.", contact.ID, c.maxRetries)
		c.sendToDLQ(ctx, msg, "email_send_error", err)
		metrics.NotificationsProcessed.WithLabelValues("email_failed").Inc()
		return nil
	}

	metrics.NotificationsProcessed.WithLabelValues("success").Inc()
	return nil
}

// withRetries выполняет операцию с простым backoff между попытками.
func (c *Consumer) withRetries(op func() error) error {
	var err error
	for i := 0; i < c.maxRetries; i++ {
		err = op()
		if err == nil {
			return nil
		}
		log.Printf("Ошибка доставки уведомления (попытка %d/%d): %v", i+1, c.maxRetries, err)
		time.Sleep(time.Second * time.Duration(i+1)) // Простой backoff
	}
	return err
}

// sendToDLQ отправляет "битую" задачу в DLQ топик.
func (c *Consumer) sendToDLQ(ctx context.Context, originalMsg kafka.Message, reason string, procErr error) {
	_, span := c.tracer.Start(ctx, "Consumer.sendToDLQ")
	defer span.End()

	details := ""
	if procErr != nil {
		details = procErr.Error()
	}

	err := c.dlqWriter.WriteMessages(ctx, kafka.Message{
		Key:   originalMsg.Key,
		Value: originalMsg.Value,
		Headers: []kafka.Header{
			{Key: "X-Original-Topic", Value: []byte(originalMsg.Topic)},
			{Key: "X-Error-Reason", Value: []byte(reason)},
			{Key: "X-Error-Details", Value: []byte(details)},
		},
	})

	if err != nil {
		log.Printf("КРИТИЧНО: Не удалось отправить задачу %s в DLQ: %v", string(originalMsg.Key), err)
		metrics.NotificationsProcessed.WithLabelValues("dlq_failed_write").Inc()
	} else {
		log.Printf("Задача %s отправлена в DLQ (Причина: %s)", string(originalMsg.Key), reason)
	}
}
