// Copyright 2026 The swarm-genesis Authors
// This file is part of the swarm-genesis library.
//
// The swarm-genesis library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The swarm-genesis library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the swarm-genesis library. If not, see <http://www.gnu.org/licenses/>.

package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Shopify/sarama"
	"github.com/hashicorp/go-uuid"
	"github.com/pkg/errors"

	"github.com/SudoSuOps/swarm-genesis/log"
	"github.com/SudoSuOps/swarm-genesis/transport"
)

var logger = log.NewModuleLogger(log.TransportKafka)

// Broker multiplexes the pool's subscriptions into a single bounded receive
// queue and publishes outbound announcements. It satisfies transport.Broker.
type Broker struct {
	producer sarama.AsyncProducer
	admin    sarama.ClusterAdmin
	consumer sarama.ConsumerGroup
	config   *BrokerConfig

	queue  chan *transport.Message
	cancel context.CancelFunc
}

func New(config *BrokerConfig) (*Broker, error) {
	producer, err := sarama.NewAsyncProducer(config.Brokers, config.SaramaConfig)
	if err != nil {
		return nil, errors.Wrap(err, "new producer")
	}
	admin, err := sarama.NewClusterAdmin(config.Brokers, config.SaramaConfig)
	if err != nil {
		return nil, errors.Wrap(err, "new cluster admin")
	}

	id, _ := uuid.GenerateUUID()
	consumerConfig := *config.SaramaConfig
	consumerConfig.ClientID = fmt.Sprintf("%s-%s", config.GroupID, id)
	consumer, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, &consumerConfig)
	if err != nil {
		return nil, errors.Wrap(err, "new consumer group")
	}

	b := &Broker{
		producer: producer,
		admin:    admin,
		consumer: consumer,
		config:   config,
		queue:    make(chan *transport.Message, config.QueueSize),
	}
	go b.drainProducerErrors()
	return b, nil
}

// Subscribe joins the given topics and starts feeding the receive queue.
// Per-topic arrival order is preserved by the single queue.
func (b *Broker) Subscribe(topics ...string) error {
	for _, topic := range topics {
		b.createTopic(topic)
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	go func() {
		handler := &queueFeeder{queue: b.queue}
		for {
			if err := b.consumer.Consume(ctx, topics, handler); err != nil {
				logger.Error("consumer session ended", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
	return nil
}

// GetMessage pops the next inbound message, waiting at most timeout.
func (b *Broker) GetMessage(timeout time.Duration) (*transport.Message, error) {
	select {
	case msg := <-b.queue:
		return msg, nil
	case <-time.After(timeout):
		return nil, transport.ErrReceiveTimeout
	}
}

// Publish JSON-marshals payload onto topic. Delivery is asynchronous;
// broker-side failures surface on the error drain, not here.
func (b *Broker) Publish(topic string, payload interface{}) error {
	b.createTopic(topic)
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal payload")
	}
	b.producer.Input() <- &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(topic),
		Value: sarama.ByteEncoder(data),
	}
	return nil
}

func (b *Broker) Close() {
	if b.cancel != nil {
		b.cancel()
	}
	b.consumer.Close()
	b.producer.AsyncClose()
	b.admin.Close()
}

func (b *Broker) createTopic(topic string) {
	err := b.admin.CreateTopic(topic, &sarama.TopicDetail{
		NumPartitions:     b.config.Partitions,
		ReplicationFactor: b.config.Replicas,
	}, false)
	if err != nil {
		// Already-existing topics land here too; nothing to do either way.
		logger.Debug("create topic", "topic", topic, "err", err)
	}
}

func (b *Broker) drainProducerErrors() {
	for err := range b.producer.Errors() {
		logger.Error("async publish failed", "topic", err.Msg.Topic, "err", err.Err)
	}
}
