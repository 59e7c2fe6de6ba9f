package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sweeney/clock-thermo/internal/logic"
)

// bufferCapacity bounds how many messages are kept while disconnected.
const bufferCapacity = 256

// RealPublisher publishes to an actual MQTT broker. Messages published while
// the connection is down are buffered and replayed on reconnect.
type RealPublisher struct {
	client paho.Client
	topic  string

	mu  sync.Mutex
	buf *ringBuffer
}

// NewRealPublisher creates a publisher connected to the given broker. If the
// broker does not answer within 10s the publisher is still returned and
// connects in the background. A SHUTDOWN message with reason
// MQTT_DISCONNECT is registered as the last will.
func NewRealPublisher(broker string) (*RealPublisher, error) {
	p := &RealPublisher{
		topic: Topic,
		buf:   newRingBuffer(bufferCapacity),
	}

	will, err := willPayload(time.Now())
	if err != nil {
		return nil, err
	}
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("clock-thermo").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetBinaryWill(TopicSystem, will, 1, true).
		SetOnConnectHandler(func(paho.Client) { p.replay() }).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		})

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		// paho keeps retrying in the background; publishes buffer until then.
		log.Printf("mqtt: broker %s not reachable yet, buffering", broker)
		return p, nil
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return p, nil
}

// willPayload is the SHUTDOWN message the broker publishes if the
// connection drops without a clean disconnect.
func willPayload(now time.Time) ([]byte, error) {
	will, err := FormatSystemPayload(SystemEvent{Timestamp: now, Event: "SHUTDOWN", Reason: "MQTT_DISCONNECT", Retained: true})
	if err != nil {
		return nil, fmt.Errorf("format will payload: %w", err)
	}
	return will, nil
}

// Publish sends an appliance event to the MQTT broker.
func (p *RealPublisher) Publish(event logic.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 0 (at-most-once), not retained
	return p.send(bufferedMsg{topic: p.topic, payload: payload, qos: 0})
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events - we want to ensure delivery
	return p.send(bufferedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
}

func (p *RealPublisher) send(msg bufferedMsg) error {
	if !p.client.IsConnectionOpen() {
		p.mu.Lock()
		p.buf.push(msg)
		p.mu.Unlock()
		return nil
	}

	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish to %s timeout", msg.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", msg.topic, err)
	}
	return nil
}

// replay sends everything buffered while disconnected. Runs on paho's
// connect handler goroutine.
func (p *RealPublisher) replay() {
	p.mu.Lock()
	msgs := p.buf.drainAll()
	p.mu.Unlock()

	if len(msgs) > 0 {
		log.Printf("mqtt: replaying %d buffered messages", len(msgs))
	}
	for _, m := range msgs {
		// Don't wait on tokens here; the handler must return promptly.
		p.client.Publish(m.topic, m.qos, m.retained, m.payload)
	}
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
