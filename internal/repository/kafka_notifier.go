package repository

import (
	"context"
	"time"

	"CoinSentry/internal/domain/models"
	domrepo "CoinSentry/internal/domain/repository"
	pkgkafka "CoinSentry/pkg/kafka"
)

// KafkaNotifier publishes critical alerts to the notification topic.
// Fire-and-forget from the pipeline's point of view: the caller logs and
// absorbs any error returned here.
type KafkaNotifier struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaNotifier(producer *pkgkafka.Producer, topic string) domrepo.Notifier {
	return &KafkaNotifier{producer: producer, topic: topic}
}

type criticalAlertEvent struct {
	Symbol    string         `json:"symbol"`
	Alerts    []models.Alert `json:"alerts"`
	Timestamp int64          `json:"timestamp"`
}

func (n *KafkaNotifier) NotifyCritical(ctx context.Context, symbol string, alerts []models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	return n.producer.Publish(ctx, n.topic, []byte(symbol), criticalAlertEvent{
		Symbol:    symbol,
		Alerts:    alerts,
		Timestamp: time.Now().Unix(),
	})
}

func (n *KafkaNotifier) Close() error {
	if n.producer != nil {
		return n.producer.Close()
	}
	return nil
}
