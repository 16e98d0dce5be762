package mqtt

import (
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	connectTimeout   = 10 * time.Second
	subscribeTimeout = 10 * time.Second
	publishTimeout   = 5 * time.Second
)

// DefaultBrokerURL is used when no broker is configured.
const DefaultBrokerURL = "tcp://localhost:1883"

// conn is the part of paho.Client the wrapper uses.
type conn interface {
	Connect() paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
	IsConnected() bool
}

// Client wraps the Paho MQTT client for the cutscene player.
type Client struct {
	conn conn
	url  string
	mu   sync.Mutex

	hooksMu sync.Mutex
	hooks   []func()
}

// NewClient creates a new MQTT client but does not connect. Paho keeps
// retrying in the background after a failed first attempt; hooks added
// with OnConnect run after every successful (re)connect.
func NewClient(url, clientID string) *Client {
	if url == "" {
		url = DefaultBrokerURL
	}
	c := &Client{url: url}

	opts := paho.NewClientOptions().
		AddBroker(url).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetKeepAlive(30 * time.Second).
		SetOnConnectHandler(func(paho.Client) { c.connected() }).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection to %s lost: %v", url, err)
		})

	c.conn = paho.NewClient(opts)
	return c
}

// URL returns the broker address.
func (c *Client) URL() string { return c.url }

// OnConnect registers fn to run after each successful connect.
func (c *Client) OnConnect(fn func()) {
	c.hooksMu.Lock()
	c.hooks = append(c.hooks, fn)
	c.hooksMu.Unlock()
}

func (c *Client) connected() {
	log.Printf("mqtt: connected to %s", c.url)
	c.hooksMu.Lock()
	hooks := append([]func(){}, c.hooks...)
	c.hooksMu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

// Connect attempts to connect to the broker.
// Returns an error if connection fails, but does not block indefinitely.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	token := c.conn.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return &ConnectTimeoutError{}
	}
	return token.Error()
}

// Subscribe subscribes to a topic with the given handler.
func (c *Client) Subscribe(topic string, handler paho.MessageHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	token := c.conn.Subscribe(topic, 1, handler)
	if !token.WaitTimeout(subscribeTimeout) {
		return &SubscribeTimeoutError{Topic: topic}
	}
	return token.Error()
}

// Publish sends payload at QoS 0 without waiting for delivery. Delivery
// failures are logged.
func (c *Client) Publish(topic string, payload []byte) error {
	if !c.conn.IsConnected() {
		return &NotConnectedError{Topic: topic}
	}
	token := c.conn.Publish(topic, 0, false, payload)
	go func() {
		if token.WaitTimeout(publishTimeout) && token.Error() != nil {
			log.Printf("mqtt: publish to %s failed: %v", topic, token.Error())
		}
	}()
	return nil
}

// Disconnect cleanly disconnects from the broker.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.Disconnect(1000)
}

// IsConnected returns true if the client is connected.
func (c *Client) IsConnected() bool {
	return c.conn.IsConnected()
}

// ConnectTimeoutError indicates connection timed out.
type ConnectTimeoutError struct{}

func (e *ConnectTimeoutError) Error() string {
	return "mqtt connect timeout"
}

// SubscribeTimeoutError indicates subscription timed out.
type SubscribeTimeoutError struct {
	Topic string
}

func (e *SubscribeTimeoutError) Error() string {
	return "mqtt subscribe timeout: " + e.Topic
}

// NotConnectedError is returned by Publish while the broker is unreachable.
type NotConnectedError struct {
	Topic string
}

func (e *NotConnectedError) Error() string {
	return "mqtt not connected, dropped publish to " + e.Topic
}

// Start makes the first connection attempt, logging instead of failing.
// Returns true if connected, false if paho is still retrying.
func (c *Client) Start() bool {
	if err := c.Connect(); err != nil {
		log.Printf("mqtt: failed to connect to %s: %v (retrying in background)", c.url, err)
		return false
	}
	return true
}
