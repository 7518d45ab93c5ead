package broker

import (
	"log"

	"tasktrail/tasktrail/config"
	"tasktrail/tasktrail/models"

	"gopkg.in/gomail.v2"
)

// MailSender delivers a formatted notification; failures are logged by the
// consumer and never reach the request that triggered them.
type MailSender interface {
	Send(recipient, subject, body string) error
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg config.Config) MailSender {
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.SMTPFrom,
	}
}

func (s *smtpSender) Send(recipient, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}

// MailConsumer reads notification events off the broker and delivers them
type MailConsumer struct {
	consumer *Consumer
	sender   MailSender
	stopChan chan struct{}
}

func StartMailConsumer(cfg config.Config, sender MailSender) (*MailConsumer, error) {
	consumer, err := InitConsumer(cfg.NatsURL, []string{NotificationSubject}, "notification-mailer")
	if err != nil {
		return nil, err
	}

	mc := &MailConsumer{
		consumer: consumer,
		sender:   sender,
		stopChan: make(chan struct{}),
	}
	go mc.run()
	log.Println("Notification mail consumer started")
	return mc, nil
}

func (mc *MailConsumer) run() {
	messageChan := mc.consumer.GetMessageChannel()
	for {
		select {
		case msg := <-messageChan:
			var event models.NotificationEvent
			if err := event.FromJSON(msg.Data); err != nil {
				log.Printf("Failed to unmarshal notification event: %v", err)
				continue
			}
			mc.deliver(event)
		case <-mc.stopChan:
			return
		}
	}
}

func (mc *MailConsumer) deliver(event models.NotificationEvent) {
	if event.Recipient == "" {
		log.Printf("Notification for user %s has no recipient, skipping", event.UserID)
		return
	}
	if err := mc.sender.Send(event.Recipient, event.Subject, event.Message); err != nil {
		log.Printf("Failed to send notification mail to %s: %v", event.Recipient, err)
		return
	}
	log.Printf("Notification mail sent to %s: %s", event.Recipient, event.Subject)
}

func (mc *MailConsumer) Stop() {
	close(mc.stopChan)
	mc.consumer.Close()
}
