package infra

import (
	"context"
	"encoding/json"
	"time"

	multierror "github.com/hashicorp/go-multierror"
	amqp "github.com/rabbitmq/amqp091-go"

	"prime-gen/primesearch/domain"
)

// AMQPPublisher é o subconjunto de *amqp.Channel usado pelo sink.
type AMQPPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// PrimeMessage é o corpo JSON publicado para cada primo.
type PrimeMessage struct {
	SearchID string `json:"search_id"`
	Index    int    `json:"index"`
	Bits     int    `json:"bits"`
	Value    string `json:"value"`
}

// AMQPSink publica cada primo em um exchange, com delivery persistente.
type AMQPSink struct {
	ch         AMQPPublisher
	exchange   string
	routingKey string
	searchID   string
	bits       domain.BitLength
	now        func() time.Time
}

func NewAMQPSink(ch AMQPPublisher, exchange, routingKey, searchID string, bits domain.BitLength) *AMQPSink {
	return &AMQPSink{
		ch:         ch,
		exchange:   exchange,
		routingKey: routingKey,
		searchID:   searchID,
		bits:       bits,
		now:        time.Now,
	}
}

func (s *AMQPSink) Emit(ctx context.Context, p domain.FoundPrime) error {
	body, err := json.Marshal(PrimeMessage{
		SearchID: s.searchID,
		Index:    p.Index,
		Bits:     int(s.bits),
		Value:    p.Value.String(),
	})
	if err != nil {
		return err
	}

	return s.ch.PublishWithContext(
		ctx,
		s.exchange,
		s.routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			Headers:      amqp.Table{"search-id": s.searchID},
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    s.now(),
			AppId:        "prime-gen",
			Body:         body,
		},
	)
}

// DialAMQP abre conexão + channel e declara o exchange (durável).
// Devolve o channel e uma função que fecha os dois.
func DialAMQP(uri, exchange, exchangeType string) (*amqp.Channel, func() error, error) {
	config := amqp.Config{Properties: amqp.NewConnectionProperties()}
	config.Properties.SetClientConnectionName("prime-gen")

	conn, err := amqp.DialConfig(uri, config)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	if err := ch.ExchangeDeclare(
		exchange,     // name
		exchangeType, // type
		true,         // durable
		false,        // auto-delete
		false,        // internal
		false,        // noWait
		nil,          // arguments
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, err
	}

	closeFn := func() error {
		var result error
		if err := ch.Close(); err != nil {
			result = multierror.Append(result, err)
		}
		if err := conn.Close(); err != nil {
			result = multierror.Append(result, err)
		}
		return result
	}
	return ch, closeFn, nil
}
