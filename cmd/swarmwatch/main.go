// Copyright 2026 The swarm-genesis Authors
// This file is part of swarm-genesis.
//
// swarm-genesis is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// swarm-genesis is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with swarm-genesis. If not, see <http://www.gnu.org/licenses/>.

// swarmwatch tails a pool's transport topics and pretty-prints every
// message. Operator diagnostics only; it never publishes.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Shopify/sarama"

	"github.com/SudoSuOps/swarm-genesis/transport"
	"github.com/SudoSuOps/swarm-genesis/transport/kafka"
)

func main() {
	pool := flag.String("pool", "", "pool ENS identity (topic namespace)")
	brokers := flag.String("brokers", "127.0.0.1:9092", "comma separated kafka broker URLs")
	groupID := flag.String("groupid", "swarmwatch", "consumer group id")
	outbound := flag.Bool("outbound", false, "also tail the daemon's outbound announcement topics")
	flag.Parse()

	if *pool == "" {
		log.Fatal("enter a pool identity with --pool")
	}

	config := kafka.GetDefaultBrokerConfig()
	config.Brokers = strings.Split(*brokers, ",")
	config.GroupID = *groupID
	config.SaramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest

	broker, err := kafka.New(config)
	if err != nil {
		log.Fatal("failed to connect to kafka: ", err)
	}
	defer broker.Close()

	topics := []string{
		*pool + "/jobs",
		*pool + "/claims",
		*pool + "/proofs",
		*pool + "/miners",
		*pool + "/heartbeats",
	}
	if *outbound {
		topics = append(topics,
			*pool+"/jobs/new",
			*pool+"/claims/accepted",
			*pool+"/claims/timeout",
			*pool+"/proofs/accepted",
			*pool+"/miners/joined",
			*pool+"/state",
			*pool+"/epochs/opened",
			*pool+"/epochs/sealed",
		)
	}
	if err := broker.Subscribe(topics...); err != nil {
		log.Fatal("subscribe failed: ", err)
	}
	log.Println("watching", len(topics), "topics under", *pool)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigc:
			return
		default:
		}
		msg, err := broker.GetMessage(time.Second)
		if err == transport.ErrReceiveTimeout {
			continue
		}
		if err != nil {
			log.Println("receive failed:", err)
			time.Sleep(time.Second)
			continue
		}
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, msg.Data, "", "  "); err != nil {
			fmt.Printf("[%s] %s\n", msg.Topic, msg.Data)
			continue
		}
		fmt.Printf("[%s] %s\n", msg.Topic, pretty.String())
	}
}
