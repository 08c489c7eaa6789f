// Package sensors ingests bin fill readings published over MQTT.
package sensors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"wastewise-backend/internal/logger"
	"wastewise-backend/internal/models"
)

// Recorder stores a fill reading for a bin.
type Recorder interface {
	RecordReading(binID string, fill int) (models.Bin, error)
}

// Client is the subset of the paho client the subscriber uses.
type Client interface {
	IsConnected() bool
	Disconnect(quiesce uint)
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
}

// Options configures the broker connection.
type Options struct {
	Broker   string
	ClientID string
	Topic    string
	QoS      byte
}

// Subscriber forwards readings from topics shaped like bins/<binId>/fill.
type Subscriber struct {
	client   Client
	recorder Recorder
	topic    string
	qos      byte
	log      logger.Logger
}

// Connect dials the broker and subscribes to the reading topic. The
// subscription is renewed on every reconnect.
func Connect(opts Options, rec Recorder, log logger.Logger) (*Subscriber, error) {
	if log == nil {
		log = logger.NopLogger{}
	}
	s := &Subscriber{recorder: rec, topic: opts.Topic, qos: opts.QoS, log: log}

	clientOpts := mqtt.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(func(c mqtt.Client) {
			if err := s.subscribe(c); err != nil {
				log.Errorf("subscribe %s: %v", s.topic, err)
			}
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warnf("mqtt connection lost: %v", err)
		})

	client := mqtt.NewClient(clientOpts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	s.client = client
	log.Infof("listening for readings on %s at %s", opts.Topic, opts.Broker)
	return s, nil
}

// NewSubscriber wraps an already connected client and subscribes to topic.
func NewSubscriber(client Client, topic string, qos byte, rec Recorder, log logger.Logger) (*Subscriber, error) {
	if log == nil {
		log = logger.NopLogger{}
	}
	s := &Subscriber{client: client, recorder: rec, topic: topic, qos: qos, log: log}
	if err := s.subscribe(client); err != nil {
		return nil, err
	}
	return s, nil
}

type subscriber interface {
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
}

func (s *Subscriber) subscribe(c subscriber) error {
	token := c.Subscribe(s.topic, s.qos, s.Handle)
	token.Wait()
	return token.Error()
}

// Handle is the MQTT message callback.
func (s *Subscriber) Handle(_ mqtt.Client, msg mqtt.Message) {
	binID, err := BinIDFromTopic(msg.Topic())
	if err != nil {
		s.log.Warnf("ignoring reading: %v", err)
		return
	}
	fill, err := ParseFill(msg.Payload())
	if err != nil {
		s.log.Warnf("ignoring reading for %s: %v", binID, err)
		return
	}
	bin, err := s.recorder.RecordReading(binID, fill)
	if err != nil {
		s.log.Warnf("reading for %s rejected: %v", binID, err)
		return
	}
	s.log.Debugf("bin %s now %d%%", bin.ID, bin.Fill)
}

// Close disconnects from the broker.
func (s *Subscriber) Close() {
	if s.client != nil && s.client.IsConnected() {
		s.client.Disconnect(250)
	}
}

// BinIDFromTopic extracts the bin id from bins/<binId>/fill.
func BinIDFromTopic(topic string) (string, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != "bins" || parts[2] != "fill" || parts[1] == "" {
		return "", fmt.Errorf("unexpected topic %q", topic)
	}
	return parts[1], nil
}

type fillPayload struct {
	Fill *int `json:"fill"`
}

// ParseFill accepts either {"fill": n} or a bare integer between 0 and 100.
func ParseFill(payload []byte) (int, error) {
	fill, err := parseFill(payload)
	if err != nil {
		return 0, err
	}
	if fill < 0 || fill > 100 {
		return 0, fmt.Errorf("fill %d out of range 0-100", fill)
	}
	return fill, nil
}

func parseFill(payload []byte) (int, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return 0, fmt.Errorf("empty payload")
	}
	if payload[0] == '{' {
		var p fillPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return 0, fmt.Errorf("decode payload: %w", err)
		}
		if p.Fill == nil {
			return 0, fmt.Errorf("payload has no fill")
		}
		return *p.Fill, nil
	}
	n, err := strconv.Atoi(string(payload))
	if err != nil {
		return 0, fmt.Errorf("parse fill %q: %w", payload, err)
	}
	return n, nil
}
