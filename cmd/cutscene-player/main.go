package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AaronLay10/SentientCutscene/internal/api"
	"github.com/AaronLay10/SentientCutscene/internal/config"
	"github.com/AaronLay10/SentientCutscene/internal/events"
	"github.com/AaronLay10/SentientCutscene/internal/mqtt"
	"github.com/AaronLay10/SentientCutscene/internal/orchestrator"
	"github.com/AaronLay10/SentientCutscene/internal/player"
	"github.com/AaronLay10/SentientCutscene/internal/storage"
	"github.com/AaronLay10/SentientCutscene/internal/storage/postgres"
	"github.com/AaronLay10/SentientCutscene/internal/storage/sqlite"
	"github.com/AaronLay10/SentientCutscene/internal/version"
)

const (
	alertInterval   = 5 * time.Second
	mqttPollPeriod  = time.Second
	heartbeatFactor = 2.0
)

func main() {
	configPath := flag.String("config", "", "path to engine.yaml (defaults and environment only when empty)")
	flag.Parse()

	cfg, err := config.LoadEngineConfig(*configPath)
	if err != nil {
		config.Exitf("failed to load engine config: %v", err)
	}

	hostname, _ := os.Hostname()
	events.Emit("info", "system.startup", "cutscene player starting", map[string]interface{}{
		"service":  "cutscene-player",
		"hostname": hostname,
		"pid":      os.Getpid(),
		"version":  version.Version,
		"room_id":  cfg.Session.RoomID,
	})

	store := openStore(cfg)
	if store != nil {
		events.SetStore(store)
		api.SetEventStore(store)
		defer func() {
			events.SetStore(nil)
			store.Close()
		}()
	}
	api.SetStoreState(store != nil, cfg.Storage.Driver == config.StorageNone)

	var resolver orchestrator.CutsceneResolver
	if cfg.Cutscene.Library != "" {
		resolver = player.NewLibrary(cfg.Cutscene.Library)
	}

	timings := orchestrator.DefaultRevealTimings()
	timings.DefaultMs = cfg.Engine.Reveal.DefaultMs
	for r, ms := range cfg.RevealPauses() {
		timings.Pauses[r] = ms
	}
	opts := []orchestrator.Option{orchestrator.WithRevealTimings(timings)}
	if resolver != nil {
		opts = append(opts, orchestrator.WithResolver(resolver))
	}

	var (
		client  *mqtt.Client
		monitor *mqtt.Monitor
		topics  = mqtt.Topics{Prefix: cfg.MQTT.TopicPrefix}
	)
	if cfg.MQTT.URL != "" {
		client = mqtt.NewClient(cfg.MQTT.URL, cfg.MQTT.ClientID)
		opts = append(opts, orchestrator.WithAudioSink(mqtt.NewAudioSink(client, topics)))
	}

	p := player.New(player.Options{
		TickInterval: time.Duration(cfg.TickInterval()) * time.Millisecond,
		Orchestrator: opts,
	})

	if cfg.Cutscene.Path != "" {
		if err := p.Load(cfg.Cutscene.Path); err != nil {
			config.Exitf("failed to load cutscene %s: %v", cfg.Cutscene.Path, err)
		}
	}
	if store != nil {
		resume(p, store, resolver)
	}

	if client != nil {
		monitor = mqtt.NewMonitor(heartbeatFactor)
		bridge := mqtt.NewBridge(client, topics, p, monitor)
		client.OnConnect(bridge.Resubscribe)
		if client.Start() {
			bridge.SubscribeAll()
		}
		monitor.Start(time.Second)
		defer monitor.Stop()
		defer client.Disconnect()
	}
	api.SetMQTTState(client != nil && client.IsConnected(), client == nil)

	api.InitAuth()
	if err := api.InitTLS(); err != nil {
		config.Exitf("invalid TLS configuration: %v", err)
	}
	if err := api.InitAlerts(); err != nil {
		config.Exitf("invalid alert configuration: %v", err)
	}
	api.InitMetrics()
	api.SetRoomName(cfg.Session.RoomID)
	api.SetSkipKey(cfg.Engine.SkipKey)
	api.SetController(p)
	api.SetPlayerReady(true)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.Run(ctx) })
	g.Go(func() error { return api.ListenAndServe(ctx, cfg.Network.APIPort) })
	g.Go(func() error { return api.RunAlertMonitor(ctx, alertInterval) })
	if client != nil {
		g.Go(func() error { return watchMQTT(ctx, client) })
	}

	err = g.Wait()
	api.SetPlayerReady(false)

	fields := map[string]interface{}{"service": "cutscene-player"}
	if err != nil {
		fields["error"] = err.Error()
	}
	events.Emit("info", "system.shutdown", "cutscene player stopping", fields)
	events.CloseAllSubscribers()
	if err != nil {
		log.Printf("cutscene player stopped: %v", err)
	}
}

// openStore returns nil when persistence is disabled. A configured store
// that cannot be reached is fatal.
func openStore(cfg *config.EngineConfig) storage.Store {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pgCfg, err := postgres.ConfigFromEnv(config.MustResolveSecret("PGPASSWORD"))
		if err != nil {
			config.Exitf("invalid postgres configuration: %v", err)
		}
		client, err := postgres.New(pgCfg, cfg.Session.RoomID)
		if err != nil {
			config.Exitf("failed to connect to postgres: %v", err)
		}
		return client
	case config.StorageSQLite:
		s, err := sqlite.Open(cfg.Storage.Path, cfg.Session.RoomID)
		if err != nil {
			config.Exitf("failed to open sqlite store %s: %v", cfg.Storage.Path, err)
		}
		return s
	}
	return nil
}

func resume(p *player.Player, store storage.Store, resolver orchestrator.CutsceneResolver) {
	r, n, err := player.RestoreFromEvents(store, player.DefaultRestoreLimit)
	if err != nil {
		log.Printf("restore skipped: %v", err)
		return
	}
	if r == nil || r.BeatID == "" {
		log.Printf("restore: nothing to resume (%d events scanned)", n)
		return
	}
	if err := p.Resume(r, resolver); err != nil {
		log.Printf("restore of %s/%s failed: %v", r.CutsceneID, r.BeatID, err)
		return
	}
	log.Printf("resumed %s at beat %s (session %s)", r.CutsceneID, r.BeatID, r.SessionID)
}

func watchMQTT(ctx context.Context, client *mqtt.Client) error {
	t := time.NewTicker(mqttPollPeriod)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			api.SetMQTTState(client.IsConnected(), false)
		}
	}
}
