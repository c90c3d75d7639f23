package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/deusflow/newspulse/internal/app"
	"github.com/deusflow/newspulse/internal/metrics"
)

const defaultMonitoringPort = "8080"

func main() {
	if os.Getenv("ENABLE_HTTP_MONITORING") == "true" {
		go serveMonitoring()
	}

	app.Run()
}

// serveMonitoring exposes the process metrics as JSON for health checks and
// scraping. It runs beside the refresh cycle, not instead of it.
func serveMonitoring() {
	port := os.Getenv("MONITORING_PORT")
	if port == "" {
		port = defaultMonitoringPort
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/metrics", handleMetrics)

	log.Printf("monitoring endpoints listening on :%s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Printf("monitoring server stopped: %v", err)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	w.Header().Set("Content-Type", "application/json")
	if !stats["is_healthy"].(bool) {
		status = "error"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	})
}

func handleMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(metrics.Global.GetStats())
}
