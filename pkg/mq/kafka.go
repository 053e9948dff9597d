package mq

import (
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// KafkaProducer publishes broadcast events so every instance's consumer
// can deliver them to its local WebSocket clients.
type KafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *zap.Logger
}

func NewKafkaProducer(brokers []string, topic string, log *zap.Logger) (*KafkaProducer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to start sarama producer: %w", err)
	}

	return &KafkaProducer{producer: producer, topic: topic, log: log}, nil
}

// Publish serializes the event and sends it keyed so events sharing a
// key land in the same partition, in order.
func (k *KafkaProducer) Publish(key string, event any) error {
	bytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(bytes),
	}

	partition, offset, err := k.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send event to kafka: %w", err)
	}

	k.log.Debug("event published",
		zap.String("topic", k.topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

func (k *KafkaProducer) Close() error {
	return k.producer.Close()
}
