// Package server is the upload front door: it receives storage event
// notifications, deduplicates redeliveries, and hands archives to the
// pipeline.
package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"brandpulse/internal"
	"brandpulse/internal/config"
	"brandpulse/internal/notify"
	"brandpulse/internal/pipeline"
	"brandpulse/internal/util"
)

// uploadEvent is the storage notification body. EventType is informational;
// the bucket and object name drive the pipeline.
type uploadEvent struct {
	Bucket    string `json:"bucket"`
	Name      string `json:"name"`
	EventType string `json:"eventType"`
}

type Handler struct {
	processor *pipeline.Processor
	notifier  *notify.SlackNotifier
	cfg       config.Config
	log       *util.Logger

	mu     sync.Mutex
	recent map[string]time.Time
	now    func() time.Time
}

func NewHandler(processor *pipeline.Processor, notifier *notify.SlackNotifier, cfg config.Config, log *util.Logger) *Handler {
	return &Handler{
		processor: processor,
		notifier:  notifier,
		cfg:       cfg,
		log:       log,
		recent:    map[string]time.Time{},
		now:       time.Now,
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/health", h.Health)
	r.Post("/", h.HandleUpload)
	r.Post("/test", h.HandleTest)
	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	var event uploadEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if event.Bucket == "" || event.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bucket and name are required"})
		return
	}

	if h.seenRecently(event.Bucket + "/" + event.Name) {
		h.log.Info("duplicate event within dedup window, ignoring: %s/%s", event.Bucket, event.Name)
		writeJSON(w, http.StatusOK, internal.ArchiveSummary{
			Status: internal.StatusSkipped,
			Reason: "duplicate_event",
		})
		return
	}

	start := h.now()
	result, err := h.processor.ProcessUpload(r.Context(), event.Bucket, event.Name)
	elapsed := h.now().Sub(start)

	if err != nil {
		h.log.Error("processing %s/%s failed: %v", event.Bucket, event.Name, err)
		go h.notifier.NotifyFailure(event.Name, err.Error(), result.Summary.SurveyType, elapsed)
		writeJSON(w, http.StatusInternalServerError, internal.ArchiveSummary{
			Status: internal.StatusError,
			Reason: err.Error(),
		})
		return
	}

	switch result.Summary.Status {
	case internal.StatusSkipped:
		go h.notifier.NotifySkipped(event.Name, result.Summary.Reason)
	default:
		go h.notifier.NotifySuccess(event.Name, result.Summary, elapsed)
	}
	writeJSON(w, http.StatusOK, result.Summary)
}

// HandleTest runs a named object through the pipeline outside the event
// flow. It bypasses the dedup window, so an operator can force a rerun of
// an archive the front door recently saw.
func (h *Handler) HandleTest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Bucket string `json:"bucket"`
		File   string `json:"file"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if req.Bucket == "" || req.File == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bucket and file are required"})
		return
	}

	result, err := h.processor.ProcessUpload(r.Context(), req.Bucket, req.File)
	if err != nil {
		h.log.Error("manual processing of %s/%s failed: %v", req.Bucket, req.File, err)
		writeJSON(w, http.StatusInternalServerError, internal.ArchiveSummary{
			Status: internal.StatusError,
			Reason: err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, result.Summary)
}

// seenRecently records the key and reports whether it was already seen
// inside the dedup window. Expired entries are pruned on the way through.
func (h *Handler) seenRecently(key string) bool {
	window := time.Duration(h.cfg.EventDedupWindowSec) * time.Second
	now := h.now()

	h.mu.Lock()
	defer h.mu.Unlock()

	for k, seen := range h.recent {
		if now.Sub(seen) > window {
			delete(h.recent, k)
		}
	}
	if seen, ok := h.recent[key]; ok && now.Sub(seen) <= window {
		return true
	}
	h.recent[key] = now
	return false
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
