package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	err = c.channel.QueueBind(
		c.queueName,    // queue name
		c.queueName,    // routing key (same as queue name for direct exchange)
		c.exchangeName, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishTransactionSync enqueues a sync event for one transaction.
func (c *Client) PublishTransactionSync(ctx context.Context, id string) error {
	body, err := encodeEnvelope(KindTransactionSync, TransactionSyncMessage{ID: id})
	if err != nil {
		return err
	}
	if err := c.publish(ctx, body); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Published transaction sync message",
		"id", id,
		"exchange", c.exchangeName,
		"queue", c.queueName)
	return nil
}

// PublishTransactionDelete enqueues a delete event for one transaction.
func (c *Client) PublishTransactionDelete(ctx context.Context, msg TransactionDeleteMessage) error {
	body, err := encodeEnvelope(KindTransactionDelete, msg)
	if err != nil {
		return err
	}
	if err := c.publish(ctx, body); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Published transaction delete message",
		"id", msg.ID,
		"exchange", c.exchangeName,
		"queue", c.queueName)
	return nil
}

func (c *Client) publish(ctx context.Context, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// ConsumeMessages reads queue deliveries until the context ends, dispatching
// each envelope to the handler for its kind. Handler failures nack with
// requeue; undecodable messages are dropped.
func (c *Client) ConsumeMessages(
	ctx context.Context,
	onSync func(context.Context, *TransactionSyncMessage) error,
	onDelete func(context.Context, *TransactionDeleteMessage) error,
) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (we want manual ack)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming ledger messages", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			env, err := DecodeEnvelope(delivery.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to decode message envelope", "error", err)
				delivery.Nack(false, false) // reject and don't requeue
				continue
			}

			if err := c.dispatch(ctx, env, onSync, onDelete); err != nil {
				slog.ErrorContext(ctx, "Failed to handle message",
					"error", err,
					"kind", env.Kind)
				delivery.Nack(false, true) // reject and requeue
				continue
			}

			delivery.Ack(false)
		}
	}
}

func (c *Client) dispatch(
	ctx context.Context,
	env Envelope,
	onSync func(context.Context, *TransactionSyncMessage) error,
	onDelete func(context.Context, *TransactionDeleteMessage) error,
) error {
	switch env.Kind {
	case KindTransactionSync:
		var msg TransactionSyncMessage
		if err := json.Unmarshal(env.Payload, &msg); err != nil {
			return fmt.Errorf("unmarshal sync payload: %w", err)
		}
		return onSync(ctx, &msg)
	case KindTransactionDelete:
		var msg TransactionDeleteMessage
		if err := json.Unmarshal(env.Payload, &msg); err != nil {
			return fmt.Errorf("unmarshal delete payload: %w", err)
		}
		return onDelete(ctx, &msg)
	default:
		return fmt.Errorf("unknown message kind: %s", env.Kind)
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
