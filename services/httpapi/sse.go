package httpapi

import (
	"net/http"

	"dueboard/services/deadlines"
)

// Events handles GET /api/events: an SSE stream that emits a
// `data-changed` event whenever the engine commits a write. Payloads
// carry no body; clients refetch /api/data on receipt.
func Events(engine *deadlines.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		id, ch := engine.Subscribe()
		defer engine.Unsubscribe(id)

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ch:
				_, err := w.Write([]byte("event: data-changed\ndata: {}\n\n"))
				if err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}
