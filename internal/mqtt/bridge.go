package mqtt

import (
	"sync"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/AaronLay10/SentientCutscene/internal/events"
	"github.com/AaronLay10/SentientCutscene/internal/player"
)

// Submitter accepts player commands. *player.Player implements it.
type Submitter interface {
	Submit(cmd player.Command) error
}

type subscriber interface {
	Subscribe(topic string, handler paho.MessageHandler) error
}

// Bridge turns inbound MQTT messages into player commands and device
// heartbeats. Subscription is idempotent and is re-run after reconnects.
type Bridge struct {
	mu         sync.RWMutex
	client     subscriber
	topics     Topics
	target     Submitter
	monitor    *Monitor
	subscribed map[string]bool // topic -> subscribed
}

// NewBridge creates a bridge. monitor may be nil to ignore heartbeats.
func NewBridge(client subscriber, topics Topics, target Submitter, monitor *Monitor) *Bridge {
	return &Bridge{
		client:     client,
		topics:     topics,
		target:     target,
		monitor:    monitor,
		subscribed: make(map[string]bool),
	}
}

// SubscribeAll subscribes to every bridge topic not yet subscribed. A
// failing topic is reported and the rest are still attempted.
func (b *Bridge) SubscribeAll() {
	for _, topic := range b.topics.Subscriptions() {
		if b.IsSubscribed(topic) {
			continue
		}
		if err := b.client.Subscribe(topic, b.handle); err != nil {
			events.Emit("error", "system.error", "failed to subscribe to mqtt topic", map[string]interface{}{
				"topic": topic,
				"error": err.Error(),
			})
			continue
		}
		b.mu.Lock()
		b.subscribed[topic] = true
		b.mu.Unlock()
	}
}

// Resubscribe forgets tracked subscriptions and subscribes again. The
// broker drops them with a clean session, so it runs on every connect.
func (b *Bridge) Resubscribe() {
	b.ClearSubscriptions()
	b.SubscribeAll()
}

func (b *Bridge) handle(_ paho.Client, msg paho.Message) {
	topic := msg.Topic()

	if id, ok := b.topics.HeartbeatDevice(topic); ok {
		if b.monitor != nil {
			if err := b.monitor.HandleHeartbeat(id, msg.Payload()); err != nil {
				events.Emit("warn", "operator.rejected", "malformed heartbeat", map[string]interface{}{
					"topic": topic,
					"error": err.Error(),
				})
			}
		}
		return
	}

	cmd, ok := b.topics.Command(topic, msg.Payload())
	if !ok {
		events.Emit("warn", "operator.rejected", "unrecognised topic", map[string]interface{}{"topic": topic})
		return
	}
	if err := b.target.Submit(cmd); err != nil {
		events.Emit("warn", "operator.rejected", err.Error(), map[string]interface{}{
			"topic": topic,
			"kind":  string(cmd.Kind),
		})
	}
}

// IsSubscribed returns true if the topic is already subscribed.
func (b *Bridge) IsSubscribed(topic string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.subscribed[topic]
}

// SubscribedTopics returns a list of all subscribed topics.
func (b *Bridge) SubscribedTopics() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	topics := make([]string, 0, len(b.subscribed))
	for topic := range b.subscribed {
		topics = append(topics, topic)
	}
	return topics
}

// ClearSubscriptions clears the subscription tracking.
func (b *Bridge) ClearSubscriptions() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribed = make(map[string]bool)
}
