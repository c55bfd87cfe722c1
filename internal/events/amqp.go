package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

type session struct {
	conn io.Closer
	ch   amqpChannel
}

var errBrokerUnavailable = errors.New("broker unavailable")

// AMQPPublisher publishes persistent JSON messages to a durable queue through the
// default exchange. A channel closed by the broker is replaced on the next Publish,
// and failed redials back off with nextBackoff.
type AMQPPublisher struct {
	mu      sync.Mutex
	dial    func() (*session, error)
	sess    *session
	queue   string
	backoff time.Duration
	retryAt time.Time
	now     func() time.Time
}

func NewAMQPPublisher(url, queue string) (*AMQPPublisher, error) {
	p := newAMQPPublisher(queue, func() (*session, error) { return dialSession(url, queue) })
	sess, err := p.dial()
	if err != nil {
		return nil, err
	}
	p.sess = sess
	return p, nil
}

func newAMQPPublisher(queue string, dial func() (*session, error)) *AMQPPublisher {
	return &AMQPPublisher{dial: dial, queue: queue, now: time.Now}
}

func dialSession(url, queue string) (*session, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	return &session{conn: conn, ch: ch}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(ev.Type),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}
	err = ch.PublishWithContext(ctx, "", p.queue, false, false, msg)
	if !errors.Is(err, amqp.ErrClosed) {
		return err
	}

	// Closed between the check and the send.
	p.drop()
	if ch, err = p.channel(); err != nil {
		return err
	}
	return ch.PublishWithContext(ctx, "", p.queue, false, false, msg)
}

// channel returns the open channel, redialing when the broker closed the last one.
// Callers hold p.mu.
func (p *AMQPPublisher) channel() (amqpChannel, error) {
	if p.sess != nil && !p.sess.ch.IsClosed() {
		return p.sess.ch, nil
	}
	p.drop()

	if t := p.now(); t.Before(p.retryAt) {
		return nil, fmt.Errorf("%w: next redial in %v", errBrokerUnavailable, p.retryAt.Sub(t))
	}
	sess, err := p.dial()
	if err != nil {
		p.backoff = nextBackoff(p.backoff)
		p.retryAt = p.now().Add(p.backoff)
		return nil, err
	}
	p.sess = sess
	p.backoff = 0
	p.retryAt = time.Time{}
	return sess.ch, nil
}

func (p *AMQPPublisher) drop() {
	if p.sess == nil {
		return
	}
	_ = p.sess.ch.Close()
	_ = p.sess.conn.Close()
	p.sess = nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sess == nil {
		return nil
	}
	err := errors.Join(p.sess.ch.Close(), p.sess.conn.Close())
	p.sess = nil
	return err
}

const maxBackoff = 30 * time.Second

func nextBackoff(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Second
	}
	if d*2 > maxBackoff {
		return maxBackoff
	}
	return d * 2
}

// Handler processes one decoded event. An error rejects the message without requeue.
type Handler func(ctx context.Context, ev Event) error

// Consume reads the queue until ctx is cancelled, reconnecting with exponential
// backoff whenever the broker connection drops.
func Consume(ctx context.Context, url, queue string, handle Handler, log *zap.Logger) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn("dial broker failed", zap.Error(err), zap.Duration("retry_in", backoff))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff = nextBackoff(backoff)
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, queue, handle, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("consume loop ended, reconnecting", zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, queue string, handle Handler, log *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("set qos failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := dispatch(ctx, d.Body, handle); err != nil {
				log.Error("handle message failed", zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func dispatch(ctx context.Context, body []byte, handle Handler) error {
	ev, err := Decode(body)
	if err != nil {
		return err
	}
	return handle(ctx, ev)
}
