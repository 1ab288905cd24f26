package internal

import (
	"chat-relay/infrastructure/storage"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	DefaultInspectPrefix = "conversation:"
	maxInspectRows       = 500
)

var inspectTemplate = template.Must(template.New("inspect").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>chat-relay inspector</title>
<style>
body { font-family: monospace; margin: 1.5em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
th { background: #eee; }
.stats td { border: none; padding: 2px 12px 2px 0; }
</style>
</head>
<body>
<form method="get"><input name="prefix" value="{{.Prefix}}" size="40"> <button>Inspect</button></form>
{{if .Stats}}<table class="stats">{{range $k, $v := .Stats}}<tr><td>{{$k}}</td><td>{{$v}}</td></tr>{{end}}</table>{{end}}
<p>{{len .Items}} records</p>
<table>
<tr><th>Kind</th><th>Entity</th><th>Timestamp</th><th>Detail</th><th>Key</th></tr>
{{range .Items}}<tr><td>{{.Kind}}</td><td>{{.EntityID}}</td><td>{{.Timestamp}}</td><td>{{.Detail}}</td><td>{{.Key}}</td></tr>
{{end}}</table>
</body>
</html>
`))

type RowMapper func(key string, val []byte) storage.RecordView
type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []storage.RecordView
	Stats  map[string]any
}

// StartDebugServer serves a read-only HTML view of the badger keyspace at endpoint,
// with live relay counters from statsProvider on top. The caller shuts it down.
func StartDebugServer(log *slog.Logger, db *badger.DB, port int, endpoint string, mapper RowMapper, statsProvider StatsProvider) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc(endpoint, InspectHandler(log, db, mapper, statsProvider))

	server := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Debug inspector stopped", "error", err)
		}
	}()
	return server
}

// InspectHandler renders the records under the "prefix" query parameter.
func InspectHandler(log *slog.Logger, db *badger.DB, mapper RowMapper, statsProvider StatsProvider) http.HandlerFunc {
	if mapper == nil {
		mapper = storage.Describe
	}
	return func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = DefaultInspectPrefix
		}

		data := PageData{
			Prefix: prefix,
			Stats:  make(map[string]any),
		}
		if statsProvider != nil {
			data.Stats = statsProvider()
		}
		data.Items = ScanPrefix(db, prefix, maxInspectRows, mapper)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := inspectTemplate.Execute(w, data); err != nil {
			log.Debug("Inspector render failed", "error", err)
		}
	}
}

// ScanPrefix maps at most limit records under prefix. A limit <= 0 means no limit.
func ScanPrefix(db *badger.DB, prefix string, limit int, mapper RowMapper) []storage.RecordView {
	var rows []storage.RecordView
	_ = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			if limit > 0 && len(rows) == limit {
				break
			}
			item := it.Item()
			_ = item.Value(func(val []byte) error {
				rows = append(rows, mapper(string(item.Key()), val))
				return nil
			})
		}
		return nil
	})
	return rows
}

// StopDebugServer gives in-flight requests a second to complete.
func StopDebugServer(server *http.Server) {
	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = server.Shutdown(ctx)
}
