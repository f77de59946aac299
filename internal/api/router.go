package api

import "net/http"

// NewRouter registers the alerting routes and wraps them with CORS and request metrics.
func NewRouter(rm *RunManager) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", HandleHealth)
	mux.Handle("/metrics", MetricsHandler())
	mux.HandleFunc("/api/v1/asteroid-alerting/alert", HandleTrigger(rm))
	mux.HandleFunc("/api/v1/asteroid-alerting/runs", HandleListRuns(rm))
	mux.HandleFunc("/api/v1/asteroid-alerting/runs/status", HandleGetRun(rm))

	return MetricsMiddleware(corsMiddleware(mux))
}

// corsMiddleware adds CORS headers to allow requests from a browser UI.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
