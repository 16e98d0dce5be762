package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AaronLay10/SentientCutscene/internal/authoring"
	"github.com/AaronLay10/SentientCutscene/internal/cutscene"
	"github.com/AaronLay10/SentientCutscene/internal/events"
	"github.com/AaronLay10/SentientCutscene/internal/orchestrator"
	"github.com/AaronLay10/SentientCutscene/internal/player"
	"github.com/AaronLay10/SentientCutscene/internal/storage"
)

// commandTimeout bounds how long a handler waits for the player loop.
const commandTimeout = 2 * time.Second

// maxDocumentBytes caps documents posted to /validate.
const maxDocumentBytes = 4 << 20

// Controller is the player as seen by the API.
type Controller interface {
	Do(ctx context.Context, cmd player.Command) error
	State() orchestrator.Snapshot
}

var (
	controller Controller
	eventStore storage.Store
)

// SetController sets the player the command and state endpoints use.
func SetController(c Controller) {
	controller = c
}

// SetEventStore enables /events?source=store.
func SetEventStore(s storage.Store) {
	eventStore = s
}

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Hostname  string `json:"hostname"`
	Timestamp string `json:"ts"`
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	host, _ := os.Hostname()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   "cutscene-player",
		Hostname:  host,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// eventsHandler serves the in-memory ring buffer, or with source=store the
// persisted log, newest first.
func eventsHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("source") != "store" {
		writeJSON(w, http.StatusOK, events.Snapshot())
		return
	}
	if eventStore == nil {
		writeJSON(w, http.StatusNotFound, CommandResponse{Error: "no event store configured"})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := eventStore.Query(storage.ClampLimit(limit))
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, CommandResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func stateHandler(w http.ResponseWriter, r *http.Request) {
	if controller == nil {
		writeJSON(w, http.StatusServiceUnavailable, CommandResponse{Error: "player not ready"})
		return
	}
	writeJSON(w, http.StatusOK, controller.State())
}

// CommandRequest is the body of keyed commands. Only the field matching
// the command is read.
type CommandRequest struct {
	Key      string `json:"key,omitempty"`
	ChoiceID string `json:"choice_id,omitempty"`
	BeatID   string `json:"beat_id,omitempty"`
	Bus      string `json:"bus,omitempty"`
	Path     string `json:"path,omitempty"`
}

func (req CommandRequest) keyFor(kind player.CommandKind) string {
	switch kind {
	case player.CmdChoose:
		return req.ChoiceID
	case player.CmdGoto:
		return req.BeatID
	case player.CmdSoundFinished:
		return req.Bus
	case player.CmdLoad:
		return req.Path
	}
	return req.Key
}

type CommandResponse struct {
	OK    bool                   `json:"ok"`
	Error string                 `json:"error,omitempty"`
	State *orchestrator.Snapshot `json:"state,omitempty"`
}

// commandHandler forwards one command kind to the player and waits for it
// to be applied.
func commandHandler(kind player.CommandKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, CommandResponse{Error: "method not allowed"})
			return
		}
		if controller == nil {
			writeJSON(w, http.StatusServiceUnavailable, CommandResponse{Error: "player not ready"})
			return
		}

		var req CommandRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
				writeJSON(w, http.StatusBadRequest, CommandResponse{Error: "invalid JSON"})
				return
			}
		}

		cmd := player.Command{Kind: kind, Key: req.keyFor(kind), Source: "api"}
		if err := cmd.Check(); err != nil {
			writeJSON(w, http.StatusBadRequest, CommandResponse{Error: err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), commandTimeout)
		defer cancel()

		if err := controller.Do(ctx, cmd); err != nil {
			writeJSON(w, commandStatus(err), CommandResponse{Error: err.Error()})
			return
		}
		s := controller.State()
		writeJSON(w, http.StatusOK, CommandResponse{OK: true, State: &s})
	}
}

func commandStatus(err error) int {
	var aerr *authoring.Error
	switch {
	case errors.Is(err, player.ErrQueueFull), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.Is(err, orchestrator.ErrUnknownBeat), errors.Is(err, orchestrator.ErrUnknownChoice):
		return http.StatusNotFound
	case errors.As(err, &aerr):
		return http.StatusUnprocessableEntity
	case player.IsRejection(err):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// validateHandler runs the authoring validator over a posted document.
// YAML is accepted when the content type or ?format= says so.
func validateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, CommandResponse{Error: "method not allowed"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, CommandResponse{
				Error: fmt.Sprintf("document exceeds %d bytes", tooLarge.Limit),
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, CommandResponse{Error: "failed to read body"})
		return
	}

	format := cutscene.FormatJSON
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") || r.URL.Query().Get("format") == "yaml" {
		format = cutscene.FormatYAML
	}
	doc, err := cutscene.Decode(body, format)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, CommandResponse{Error: err.Error()})
		return
	}

	source := r.URL.Query().Get("source")
	if source == "" {
		source = "request"
	}
	report := authoring.NewReport(source, authoring.Validate(doc))

	w.Header().Set("Content-Type", "application/json")
	_ = authoring.WriteJSON(w, []authoring.Report{report})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// NewMux registers every endpoint. Operators may drive playback; loading
// documents and stopping a session need the admin role.
func NewMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/ready", readyHandler)
	mux.HandleFunc("/metrics", metricsHandler)

	mux.HandleFunc("/events", RequireAnyRole(eventsHandler))
	mux.HandleFunc("/state", RequireAnyRole(stateHandler))
	mux.HandleFunc("/ws/events", RequireAnyRole(wsEventsHandler))
	mux.HandleFunc("/ws/state", RequireAnyRole(wsStateHandler))
	mux.HandleFunc("/ui", RequireAnyRole(uiHandler))

	for path, kind := range map[string]player.CommandKind{
		"/cutscene/advance":        player.CmdAdvance,
		"/cutscene/signal":         player.CmdSignal,
		"/cutscene/choose":         player.CmdChoose,
		"/cutscene/goto":           player.CmdGoto,
		"/cutscene/skip":           player.CmdSkip,
		"/cutscene/pause":          player.CmdPause,
		"/cutscene/resume":         player.CmdResume,
		"/cutscene/sound-finished": player.CmdSoundFinished,
	} {
		mux.HandleFunc(path, RequireAnyRole(commandHandler(kind)))
	}
	mux.HandleFunc("/cutscene/stop", RequireAdmin(commandHandler(player.CmdStop)))
	mux.HandleFunc("/cutscene/load", RequireAdmin(commandHandler(player.CmdLoad)))
	mux.HandleFunc("/validate", RequireAnyRole(validateHandler))
	return mux
}

// ListenAndServe serves the API on port until ctx is cancelled, using TLS
// when InitTLS found a certificate.
func ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           NewMux(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	var err error
	if tlsCfg := LoadTLSConfig(); tlsCfg != nil {
		srv.TLSConfig = tlsCfg
		log.Printf("API listening on %s (TLS)", srv.Addr)
		err = srv.ListenAndServeTLS("", "")
	} else {
		log.Printf("API listening on %s", srv.Addr)
		err = srv.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
