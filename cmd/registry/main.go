// Command registry runs the rendezvous registry: a minimal HTTP service
// that server and worker processes use to discover each other's
// addresses at startup, since cluster membership is otherwise static for
// the life of a run.
//
// Configuration:
//   - REGISTRY_LISTEN: listen address (default: ":9100")
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dreamware/paramserver/internal/cluster"
)

func main() {
	listen := getenv("REGISTRY_LISTEN", ":9100")

	reg := cluster.NewRegistry()
	mux := http.NewServeMux()
	mux.HandleFunc("/register", reg.HandleRegister)
	mux.HandleFunc("/nodes", reg.HandleList)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s := &http.Server{Addr: listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Printf("registry: listening on %s", listen)
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("registry: listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		log.Printf("registry: shutdown error: %v", err)
	}
	log.Println("registry: stopped")
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
