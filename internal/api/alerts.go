package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/AaronLay10/SentientCutscene/internal/config"
)

// Alert severity levels
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
)

// Alert event types
const (
	AlertMQTTDisconnected = "mqtt_disconnected"
	AlertStoreUnavailable = "store_unavailable"
)

// AlertPayload is the JSON structure sent to the webhook.
type AlertPayload struct {
	RoomName  string                 `json:"room_name"`
	Event     string                 `json:"event"`
	Timestamp string                 `json:"timestamp"`
	Severity  string                 `json:"severity"`
	Message   string                 `json:"message,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// AlertConfig holds alert configuration.
type AlertConfig struct {
	WebhookURL string        `env:"SENTIENT_ALERT_WEBHOOK_URL"`
	MQTTDelay  time.Duration `env:"SENTIENT_MQTT_ALERT_DELAY" envDefault:"30s"`
	StoreDelay time.Duration `env:"SENTIENT_STORE_ALERT_DELAY" envDefault:"5s"`
}

// outage debounces one dependency: it alerts once after the dependency
// has been down for delay, and once more when it recovers.
type outage struct {
	event    string
	severity string
	message  string
	delay    time.Duration

	since time.Time
	sent  bool
}

// observe returns the alert to send, if any.
func (o *outage) observe(up bool, now time.Time) *AlertPayload {
	if up {
		recovered := o.sent
		o.since = time.Time{}
		o.sent = false
		if recovered {
			return &AlertPayload{Event: o.event, Severity: SeverityInfo, Message: o.message + " restored",
				Details: map[string]interface{}{"recovered_at": now.UTC().Format(time.RFC3339)}}
		}
		return nil
	}

	if o.since.IsZero() {
		o.since = now
	}
	down := now.Sub(o.since)
	if o.sent || down < o.delay {
		return nil
	}
	o.sent = true
	return &AlertPayload{Event: o.event, Severity: o.severity, Message: o.message + " unavailable",
		Details: map[string]interface{}{
			"disconnected_since":   o.since.UTC().Format(time.RFC3339),
			"disconnected_seconds": int(down.Seconds()),
		}}
}

var (
	alertMu    sync.Mutex
	webhookURL string
	mqttOutage *outage
	storeOut   *outage
)

// InitAlerts reads the alert environment. Without a webhook URL alerts are
// only logged.
func InitAlerts() error {
	var cfg AlertConfig
	if err := config.ParseEnv(&cfg); err != nil {
		return err
	}

	alertMu.Lock()
	defer alertMu.Unlock()
	webhookURL = cfg.WebhookURL
	mqttOutage = &outage{event: AlertMQTTDisconnected, severity: SeverityWarning, message: "MQTT broker", delay: cfg.MQTTDelay}
	storeOut = &outage{event: AlertStoreUnavailable, severity: SeverityCritical, message: "event store", delay: cfg.StoreDelay}

	if webhookURL != "" {
		log.Printf("alerts enabled (mqtt_delay=%s, store_delay=%s)", cfg.MQTTDelay, cfg.StoreDelay)
	}
	return nil
}

// CheckAlerts feeds current dependency state to the outage trackers and
// sends whatever alerts result.
func CheckAlerts(now time.Time) {
	readiness.mu.RLock()
	deps := readiness.dependencies
	readiness.mu.RUnlock()

	alertMu.Lock()
	if mqttOutage == nil {
		alertMu.Unlock()
		return
	}
	var pending []*AlertPayload
	if !deps.mqttOptional {
		if a := mqttOutage.observe(deps.mqttConnected, now); a != nil {
			pending = append(pending, a)
		}
	}
	if !deps.storeOptional {
		if a := storeOut.observe(deps.storeConnected, now); a != nil {
			pending = append(pending, a)
		}
	}
	alertMu.Unlock()

	for _, a := range pending {
		SendAlert(*a)
	}
}

// SendAlert posts payload to the webhook in the background, or logs it
// when no webhook is configured.
func SendAlert(payload AlertPayload) {
	alertMu.Lock()
	url := webhookURL
	alertMu.Unlock()

	if url == "" {
		log.Printf("[ALERT] %s severity=%s msg=%q details=%v", payload.Event, payload.Severity, payload.Message, payload.Details)
		return
	}

	payload.RoomName = GetRoomName()
	if payload.RoomName == "" {
		payload.RoomName = "unknown"
	}
	payload.Timestamp = time.Now().UTC().Format(time.RFC3339)
	go sendWebhook(url, payload)
}

func sendWebhook(url string, payload AlertPayload) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("alert: failed to marshal payload: %v", err)
		return
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("alert: webhook POST failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("alert: webhook returned status %d", resp.StatusCode)
	}
}

// RunAlertMonitor checks dependencies every interval until ctx ends.
func RunAlertMonitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			CheckAlerts(now)
		}
	}
}
