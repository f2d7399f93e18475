package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dhoini/course-platform/internal/domain"
	"github.com/Dhoini/course-platform/pkg/logger"

	"github.com/IBM/sarama"
)

// PaymentProducer публикует события жизненного цикла платежей.
// Отдельный канал для интеграций (аналитика, бухгалтерия); к очереди
// задач уведомлений отношения не имеет.
type PaymentProducer interface {
	PublishPaymentCreated(payment domain.Payment) error
	PublishPaymentUpdated(payment domain.Payment) error
	Close() error
}

// saramaPaymentProducer реализует PaymentProducer через sarama SyncProducer
type saramaPaymentProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewSaramaConfig возвращает конфигурацию sarama для синхронного продюсера
func NewSaramaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true
	return cfg
}

// NewPaymentProducer создает продюсер событий платежей
func NewPaymentProducer(brokers []string, topic string, log *logger.Logger) (PaymentProducer, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("kafka: failed to create payment producer: %w", err)
	}

	log.Infow("Kafka payment producer initialized", "brokers", brokers, "topic", topic)

	return &saramaPaymentProducer{
		producer: producer,
		topic:    topic,
		log:      log,
	}, nil
}

// PublishPaymentCreated публикует событие о создании платежа
func (p *saramaPaymentProducer) PublishPaymentCreated(payment domain.Payment) error {
	return p.publish("payment.created", payment)
}

// PublishPaymentUpdated публикует событие об изменении статуса платежа
func (p *saramaPaymentProducer) PublishPaymentUpdated(payment domain.Payment) error {
	return p.publish("payment.updated", payment)
}

// publish сериализует событие и отправляет в топик
func (p *saramaPaymentProducer) publish(eventType string, payment domain.Payment) error {
	event := domain.PaymentEvent{
		ID:        payment.ID.String(),
		UserID:    payment.UserID.String(),
		Amount:    payment.Amount,
		Method:    payment.Method,
		Status:    payment.Status,
		Timestamp: time.Now(),
	}

	messageValue, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal payment event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(payment.ID.String()),
		Value: sarama.ByteEncoder(messageValue),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte("event_type"),
				Value: []byte(eventType),
			},
		},
		Timestamp: time.Now(),
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to publish payment event: %w", err)
	}

	p.log.Debugw("Published payment event",
		"eventType", eventType,
		"paymentID", payment.ID,
		"partition", partition,
		"offset", offset,
	)

	return nil
}

// Close закрывает продюсер
func (p *saramaPaymentProducer) Close() error {
	return p.producer.Close()
}
