package internal

import (
	"chat-hub/repositories"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
)

//go:embed inspect.html
var templatesFS embed.FS

const defaultInspectLimit = 500

type StatsProvider func() any

type PageData struct {
	Prefix string
	Items  []repositories.InspectRow
	Stats  any
}

// NewDebugServer builds the operator-only HTTP server:
//
//	GET /inspect?prefix=chat:&limit=100  html listing of the Badger keys
//	GET /stats                           json process and session stats
func NewDebugServer(log *slog.Logger, db *badger.DB, port int, statsProvider StatsProvider) *http.Server {
	mux := http.NewServeMux()
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	mux.HandleFunc("GET /inspect", func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "chat:"
		}
		limit := defaultInspectLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil {
				limit = parsed
			}
		}

		items, err := repositories.ScanPrefix(db, prefix, limit)
		if err != nil {
			log.Error("Debug inspection failed", "prefix", prefix, "error", err)
			http.Error(w, "inspection failed", http.StatusInternalServerError)
			return
		}
		data := PageData{Prefix: prefix, Items: items}
		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err = tmpl.Execute(w, data); err != nil {
			log.Debug("Cannot render inspection page", "error", err)
		}
	})

	mux.HandleFunc("GET /stats", func(w http.ResponseWriter, r *http.Request) {
		var stats any = map[string]any{}
		if statsProvider != nil {
			stats = statsProvider()
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stats)
	})

	return &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
