package consumer

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/japhet-mokoumbou/chat-platform/pkg/ws"
)

// EventConsumer drains broadcast events from Kafka and feeds them to
// the local hub. Messages are already persisted by the time they reach
// the topic, so a consume failure never loses data, only a push.
type EventConsumer struct {
	hub *ws.Hub
	log *zap.Logger
}

func NewEventConsumer(hub *ws.Hub, log *zap.Logger) *EventConsumer {
	return &EventConsumer{hub: hub, log: log}
}

// Setup is run at the beginning of a new session, before ConsumeClaim.
func (c *EventConsumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (c *EventConsumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim must start a consumer loop of ConsumerGroupClaim's Messages().
func (c *EventConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var event ws.Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			c.log.Warn("dropping malformed kafka event", zap.Error(err))
			session.MarkMessage(message, "")
			continue
		}

		c.hub.Broadcast(&event)
		session.MarkMessage(message, "")
	}
	return nil
}

// Start runs the consumer group loop in the background until the
// context is cancelled.
func Start(ctx context.Context, brokers []string, groupID, topic string, consumer *EventConsumer) error {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	config.Consumer.Offsets.Initial = sarama.OffsetNewest

	client, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return err
	}

	go func() {
		defer client.Close()
		for {
			if err := client.Consume(ctx, []string{topic}, consumer); err != nil {
				consumer.log.Error("consumer group error", zap.Error(err))
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
	return nil
}
