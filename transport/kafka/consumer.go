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
	"github.com/Shopify/sarama"

	"github.com/SudoSuOps/swarm-genesis/transport"
)

// queueFeeder forwards every consumed record into the broker's receive
// queue. The blocking send is the backpressure: when the daemon falls
// behind, consumption stalls instead of dropping.
type queueFeeder struct {
	queue chan *transport.Message
}

func (f *queueFeeder) Setup(sess sarama.ConsumerGroupSession) error {
	logger.Info("consumer session started", "member", sess.MemberID())
	return nil
}

func (f *queueFeeder) Cleanup(sess sarama.ConsumerGroupSession) error {
	logger.Info("consumer session cleaned up", "member", sess.MemberID())
	return nil
}

func (f *queueFeeder) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		f.queue <- &transport.Message{Topic: message.Topic, Data: message.Value}
		sess.MarkMessage(message, "")
	}
	return nil
}
