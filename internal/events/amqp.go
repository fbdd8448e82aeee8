// Package events реализует публикацию аналитических событий в RabbitMQ.
// События о выборе cookie-преференций публикуются best-effort: сбой
// публикации логируется вызывающей стороной и не влияет на само согласие.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

const (
	// ExchangeName — exchange для аналитических событий.
	ExchangeName = "analytics"
	// ConsentQueue — очередь событий о согласии на cookie.
	ConsentQueue = "analytics.consent"
	// ConsentRoutingKey — ключ маршрутизации событий согласия.
	ConsentRoutingKey = "consent"
)

// Connect подключается к RabbitMQ с повторными попытками.
func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "events.Connect"
	var conn *amqp.Connection
	var err error

	for range retries {
		conn, err = amqp.Dial(connection)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("%s: %w", op, err)
}

// SetupChannel открывает канал и объявляет exchange и очередь аналитики.
func SetupChannel(conn *amqp.Connection) (*amqp.Channel, error) {
	const op = "events.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		ExchangeName,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = ch.QueueDeclare(
		ConsentQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = ch.QueueBind(ConsentQueue, ConsentRoutingKey, ExchangeName, false, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ch, nil
}

// ConsentEvent — событие об изменении cookie-преференций.
type ConsentEvent struct {
	Analytics   bool      `json:"analytics"`
	Marketing   bool      `json:"marketing"`
	ConsentedAt time.Time `json:"consented_at"`
}

// Channel описывает часть amqp.Channel, нужную публикатору.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher публикует аналитические события в заданный канал.
type Publisher struct {
	ch Channel
}

// NewPublisher создаёт публикатор поверх открытого канала.
func NewPublisher(ch Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PublishConsentChanged публикует событие об изменении согласия.
func (p *Publisher) PublishConsentChanged(event ConsentEvent) error {
	const op = "events.PublishConsentChanged"
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		ExchangeName,
		ConsentRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
