package glyph

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// StrokeMessage is the JSON payload carried on stroke and learn topics:
// one finalized point sequence from a capture device.
type StrokeMessage struct {
	Source string  `json:"source,omitempty"`
	Points []Point `json:"points"`
}

// StrokeHandler is called when a finalized stroke arrives for
// classification. source is the last topic segment.
type StrokeHandler func(source string, points []Point)

// LearnHandler is called when a labeled stroke arrives for storage.
// name is the last topic segment.
type LearnHandler func(name string, points []Point)

// MQTTClient manages the MQTT connection and the stroke/learn topic
// subscriptions for a classification service.
type MQTTClient struct {
	client        mqtt.Client
	config        *Config
	strokeHandler StrokeHandler
	learnHandler  LearnHandler
	isConnected   bool
	mu            sync.RWMutex
}

var (
	globalClient *MQTTClient
	clientMu     sync.Mutex
)

// InitMQTT initializes the global MQTT client with the provided
// configuration. If neither the MQTT_BROKER env var nor the config define
// a broker, MQTT is disabled and this returns nil.
func InitMQTT(config *Config, strokes StrokeHandler, learns LearnHandler) (*MQTTClient, error) {
	clientMu.Lock()
	defer clientMu.Unlock()

	broker := os.Getenv("MQTT_BROKER")
	if broker == "" && config != nil && config.MQTT.Broker != "" {
		broker = config.MQTT.Broker
	}

	if broker == "" {
		log.Println("MQTT disabled: MQTT_BROKER not set")
		return nil, nil
	}

	if config == nil {
		return nil, fmt.Errorf("MQTT enabled but no configuration provided")
	}

	client := &MQTTClient{
		config:        config,
		strokeHandler: strokes,
		learnHandler:  learns,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)

	clientID := os.Getenv("MQTT_CLIENT_ID")
	if clientID == "" && config.MQTT.ClientID != "" {
		clientID = config.MQTT.ClientID
	}
	if clientID == "" {
		clientID = "inkmesh"
	}
	opts.SetClientID(clientID)

	username := os.Getenv("MQTT_USERNAME")
	if username == "" && config.MQTT.Username != "" {
		username = config.MQTT.Username
	}
	if username != "" {
		opts.SetUsername(username)
		password := os.Getenv("MQTT_PASSWORD")
		if password == "" && config.MQTT.Password != "" {
			password = config.MQTT.Password
		}
		opts.SetPassword(password)
	}

	// Connection settings
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetCleanSession(false) // Preserve subscriptions on reconnect
	opts.SetOrderMatters(false)

	opts.SetOnConnectHandler(client.onConnect)
	opts.SetConnectionLostHandler(client.onConnectionLost)
	opts.SetReconnectingHandler(client.onReconnecting)

	client.client = mqtt.NewClient(opts)

	// Connect asynchronously with retry
	go client.connectWithRetry()

	globalClient = client
	return client, nil
}

// GetMQTTClient returns the global MQTT client instance
func GetMQTTClient() *MQTTClient {
	clientMu.Lock()
	defer clientMu.Unlock()
	return globalClient
}

// connectWithRetry attempts to connect to the MQTT broker with exponential backoff
func (c *MQTTClient) connectWithRetry() {
	retryDelay := 1 * time.Second
	maxRetryDelay := 60 * time.Second

	for {
		log.Println("Connecting to MQTT broker...")

		token := c.client.Connect()
		if token.WaitTimeout(10 * time.Second) {
			if token.Error() == nil {
				log.Println("Successfully connected to MQTT broker")
				c.setConnected(true)
				return
			}
			log.Printf("MQTT connection failed: %v", token.Error())
		} else {
			log.Println("MQTT connection timeout")
		}

		log.Printf("Retrying MQTT connection in %v...", retryDelay)
		time.Sleep(retryDelay)
		retryDelay *= 2
		if retryDelay > maxRetryDelay {
			retryDelay = maxRetryDelay
		}
	}
}

// topicPrefix returns the subscription prefix from env or config.
func (c *MQTTClient) topicPrefix() string {
	prefix := os.Getenv("MQTT_TOPIC_PREFIX")
	if prefix == "" && c.config.MQTT.TopicPrefix != "" {
		prefix = c.config.MQTT.TopicPrefix
	}
	if prefix == "" {
		prefix = "inkmesh"
	}
	return prefix
}

// onConnect is called when the MQTT connection is established
func (c *MQTTClient) onConnect(client mqtt.Client) {
	log.Println("MQTT connected, subscribing to stroke topics...")
	c.setConnected(true)

	prefix := c.topicPrefix()

	strokeTopic := prefix + "/strokes/+"
	log.Printf("Subscribing to %s", strokeTopic)
	token := client.Subscribe(strokeTopic, 0, c.handleStrokeMessage)
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		log.Printf("Error subscribing to %s: %v", strokeTopic, token.Error())
	} else {
		log.Printf("Successfully subscribed to %s", strokeTopic)
	}

	learnTopic := prefix + "/learn/+"
	log.Printf("Subscribing to %s", learnTopic)
	learnToken := client.Subscribe(learnTopic, 0, c.handleLearnMessage)
	if learnToken.WaitTimeout(5*time.Second) && learnToken.Error() != nil {
		log.Printf("Error subscribing to %s: %v", learnTopic, learnToken.Error())
	} else {
		log.Printf("Successfully subscribed to %s", learnTopic)
	}
}

// onConnectionLost is called when the MQTT connection is lost
// Auto-reconnect is enabled, so this is typically a transient event
func (c *MQTTClient) onConnectionLost(client mqtt.Client, err error) {
	log.Printf("MQTT connection interrupted (%v), auto-reconnect will retry", err)
	c.setConnected(false)
}

// onReconnecting is called when the client attempts to reconnect
func (c *MQTTClient) onReconnecting(client mqtt.Client, opts *mqtt.ClientOptions) {
	log.Println("MQTT reconnecting...")
}

// handleStrokeMessage decodes a stroke payload and forwards it to the
// stroke handler. The source is the last topic segment, overridable by
// the payload's own source field.
func (c *MQTTClient) handleStrokeMessage(client mqtt.Client, msg mqtt.Message) {
	payload := msg.Payload()
	source := lastTopicSegment(msg.Topic())
	log.Printf("Received stroke from %s (topic: %s, size: %d bytes)",
		source, msg.Topic(), len(payload))

	sm, err := DecodeStrokeMessage(payload)
	if err != nil {
		log.Printf("Error decoding stroke from %s: %v", source, err)
		return
	}
	if sm.Source != "" {
		source = sm.Source
	}

	if c.strokeHandler != nil {
		c.strokeHandler(source, sm.Points)
	}
}

// handleLearnMessage decodes a labeled stroke payload and forwards it to
// the learn handler. The label is the last topic segment.
func (c *MQTTClient) handleLearnMessage(client mqtt.Client, msg mqtt.Message) {
	payload := msg.Payload()
	name := lastTopicSegment(msg.Topic())
	log.Printf("Received labeled stroke %q (topic: %s, size: %d bytes)",
		name, msg.Topic(), len(payload))

	sm, err := DecodeStrokeMessage(payload)
	if err != nil {
		log.Printf("Error decoding labeled stroke %q: %v", name, err)
		return
	}

	if c.learnHandler != nil {
		c.learnHandler(name, sm.Points)
	}
}

// DecodeStrokeMessage parses a stroke payload. Both the full envelope
// {"source":..., "points":[...]} and a bare point array are accepted.
func DecodeStrokeMessage(payload []byte) (*StrokeMessage, error) {
	var sm StrokeMessage
	if err := json.Unmarshal(payload, &sm); err == nil && sm.Points != nil {
		return &sm, nil
	}

	var points []Point
	if err := json.Unmarshal(payload, &points); err != nil {
		return nil, fmt.Errorf("parsing stroke payload: %w", err)
	}
	return &StrokeMessage{Points: points}, nil
}

func lastTopicSegment(topic string) string {
	parts := strings.Split(topic, "/")
	return parts[len(parts)-1]
}

// IsConnected returns the connection state in a thread-safe manner
func (c *MQTTClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isConnected
}

func (c *MQTTClient) setConnected(connected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isConnected = connected
}

// Disconnect cleanly disconnects from the MQTT broker
func (c *MQTTClient) Disconnect() {
	if c.client != nil && c.client.IsConnected() {
		c.client.Disconnect(250)
	}
	c.setConnected(false)
}

// GetClient exposes the underlying paho client, mainly for the Publisher.
func (c *MQTTClient) GetClient() mqtt.Client {
	if c == nil {
		return nil
	}
	return c.client
}

// newMQTTClientWithMock wires a pre-built (mock) paho client for tests.
func newMQTTClientWithMock(client mqtt.Client, config *Config, strokes StrokeHandler, learns LearnHandler) *MQTTClient {
	return &MQTTClient{
		client:        client,
		config:        config,
		strokeHandler: strokes,
		learnHandler:  learns,
	}
}
