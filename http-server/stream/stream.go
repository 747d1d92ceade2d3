// Package stream serves live queries as server-sent events. Each connection
// holds one subscription; a new filter means a new connection.
package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"production-tracker/internal/live"
	"production-tracker/internal/middleware/auth"
	"production-tracker/internal/service/aggregate"
	"production-tracker/internal/storage"
)

const heartbeat = 25 * time.Second

// Gate re-checks the caller while a stream is open.
type Gate interface {
	Check(r *http.Request, rule auth.Rule) auth.Decision
}

type RecordsPayload struct {
	Filter  live.Filter      `json:"filter"`
	Total   int              `json:"total"`
	Records []storage.Record `json:"records"`
}

// Records streams the filtered record list, re-sent after every change.
// The stream ends as soon as rule no longer admits the caller.
func Records(log *slog.Logger, hub live.Subscriber, gate Gate, rule auth.Rule) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.stream.Records"

		filter, err := live.ParseFilter(r.URL.Query().Get("period"), r.URL.Query().Get("operator"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		serve(w, r, log.With(slog.String("op", op)), hub, access{gate, rule}, filter, func(s live.Snapshot) any {
			records := s.Records
			if records == nil {
				records = []storage.Record{}
			}
			return RecordsPayload{Filter: filter, Total: len(records), Records: records}
		})
	}
}

// Dashboard streams the dashboard cards computed over all records.
// Query: ?part= narrows the shift and daily charts, ?days= sets the series length.
func Dashboard(log *slog.Logger, hub live.Subscriber, gate Gate, rule auth.Rule) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.stream.Dashboard"

		q := r.URL.Query()
		opts, err := aggregate.ParseOptions(q.Get("part"), q.Get("days"), q.Get("latest"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		filter := live.Filter{Period: live.PeriodAll, Operator: live.AllOperators}
		serve(w, r, log.With(slog.String("op", op)), hub, access{gate, rule}, filter, func(s live.Snapshot) any {
			return aggregate.Summarize(s.Records, s.At, opts)
		})
	}
}

type access struct {
	gate Gate
	rule auth.Rule
}

func serve(w http.ResponseWriter, r *http.Request, log *slog.Logger, hub live.Subscriber, acc access, filter live.Filter, payload func(live.Snapshot) any) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("SSE not supported")
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// only the newest snapshot matters to a client that fell behind
	latest := make(chan live.Snapshot, 1)
	holder := live.NewHolder(hub, func(s live.Snapshot) {
		select {
		case <-latest:
		default:
		}
		latest <- s
	})
	holder.Set(r.Context(), filter)
	defer holder.Close()

	// admitted reports whether the caller may still see the stream and
	// closes it with a denied event otherwise
	admitted := func() bool {
		decision := acc.gate.Check(r, acc.rule)
		if decision == auth.Authorized {
			return true
		}
		log.Info("Stream closed", slog.String("decision", decision.String()))
		if err := writeDenied(w, decision); err == nil {
			flusher.Flush()
		}
		return false
	}

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if !admitted() {
				return
			}
			if _, err := io.WriteString(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case snap := <-latest:
			if !admitted() {
				return
			}
			if err := writeEvent(w, snap, payload); err != nil {
				log.Warn("Failed to write event", slog.String("error", err.Error()))
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w io.Writer, snap live.Snapshot, payload func(live.Snapshot) any) error {
	event := "snapshot"
	var body any
	if snap.Err != nil {
		event = "error"
		body = map[string]string{"error": "Failed to load records"}
	} else {
		body = payload(snap)
	}

	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}

func writeDenied(w io.Writer, decision auth.Decision) error {
	data, err := json.Marshal(map[string]string{"error": decision.String()})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: denied\ndata: %s\n\n", data)
	return err
}
