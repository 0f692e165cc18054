package journeyplanner

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
)

var (
	server      *http.Server
	cleanupDone chan struct{}
)

// StartServer exposes the planner over HTTP for the UI layer and starts the
// daily disk-cache cleanup loop.
func StartServer(p *Planner, port int) {
	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
	}))

	r.Get("/api/health", handleHealth(p))
	r.Get("/api/stops/search", handleSearchStops(p))
	r.Get("/api/stops/nearest", handleNearestStops(p))
	r.Get("/api/journeys", handleJourneys(p))
	r.Get("/api/cache/stats", handleCacheStats(p))

	cleanupDone = make(chan struct{})
	go cleanupLoop(p, cleanupDone)

	addr := fmt.Sprintf(":%d", port)
	server = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("server listening on %s", addr)
}

// requestLogger tags each request with a correlation id and logs it.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s (%s)", id[:8], r.Method, r.URL.RequestURI(), time.Since(start))
	})
}

func cleanupLoop(p *Planner, done <-chan struct{}) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			removed, err := p.CleanupExpiredCache()
			if err != nil {
				log.Printf("cache cleanup error: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("cache cleanup: %d expired entries removed", removed)
			}
		}
	}
}

func HandleGracefulShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Printf("shutdown signal received")
	if cleanupDone != nil {
		close(cleanupDone)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if server != nil {
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("server shutdown error: %v", err)
		} else {
			log.Printf("server shut down successfully")
		}
	}
}
