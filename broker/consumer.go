package broker

import (
	"log"

	"github.com/nats-io/nats.go"
)

// Consumer wraps a set of NATS queue subscriptions feeding one channel
type Consumer struct {
	conn        *nats.Conn
	subs        []*nats.Subscription
	messageChan chan *nats.Msg
}

// InitConsumer subscribes to the given subjects as part of a queue group and
// delivers every message on a single buffered channel.
func InitConsumer(natsURL string, subjects []string, groupID string) (*Consumer, error) {
	conn, err := nats.Connect(natsURL,
		nats.Name("tasktrail-consumer-"+groupID),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}

	messageChan := make(chan *nats.Msg, 256)
	consumer := &Consumer{conn: conn, messageChan: messageChan}

	for _, subject := range subjects {
		sub, err := conn.ChanQueueSubscribe(subject, groupID, messageChan)
		if err != nil {
			consumer.Close()
			return nil, err
		}
		consumer.subs = append(consumer.subs, sub)
	}

	log.Printf("NATS consumer started, listening to subjects: %v", subjects)
	return consumer, nil
}

func (c *Consumer) GetMessageChannel() chan *nats.Msg {
	return c.messageChan
}

func (c *Consumer) Close() {
	for _, sub := range c.subs {
		if err := sub.Unsubscribe(); err != nil {
			log.Printf("Failed to unsubscribe from %s: %v", sub.Subject, err)
		}
	}
	if c.conn != nil {
		c.conn.Close()
	}
}
