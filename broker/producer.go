package broker

import (
	"log"

	"github.com/nats-io/nats.go"
)

// ProducerInterface lets services publish without knowing about NATS
type ProducerInterface interface {
	PublishMessage(subject string, key string, value string) error
	Close()
}

type Producer struct {
	conn *nats.Conn
}

// DefaultProducer is set by InitProducer; a noopProducer stands in until then
// so publishing never panics when the broker is unavailable.
var DefaultProducer ProducerInterface = &noopProducer{}

func InitProducer(natsURL string) error {
	conn, err := nats.Connect(natsURL,
		nats.Name("tasktrail-producer"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return err
	}

	DefaultProducer = &Producer{conn: conn}
	log.Println("NATS producer initialized")
	return nil
}

func (p *Producer) PublishMessage(subject string, key string, value string) error {
	msg := nats.NewMsg(subject)
	msg.Header.Set("key", key)
	msg.Data = []byte(value)

	if err := p.conn.PublishMsg(msg); err != nil {
		log.Printf("Failed to publish message to %s: %v", subject, err)
		return err
	}
	return nil
}

func (p *Producer) Close() {
	if p.conn != nil {
		p.conn.Drain()
	}
}

func CloseProducer() {
	DefaultProducer.Close()
}

type noopProducer struct{}

func (n *noopProducer) PublishMessage(subject string, key string, value string) error {
	log.Printf("NATS producer not initialized, dropping message for %s", subject)
	return nil
}

func (n *noopProducer) Close() {}
