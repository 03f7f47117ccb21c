package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"seoulholic-bot/internal/bootstrap"
	httptransport "seoulholic-bot/internal/transport/http"
)

func main() {
	ctx := context.Background()

	app, err := bootstrap.New(ctx)
	if err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("close resources failed: %v", err)
		}
	}()

	logStartupSummary(app)

	router := httptransport.NewRouter(app)
	server := &http.Server{
		Addr:              app.Config.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	waitForShutdown(server)
}

// logStartupSummary reports which parts of the clinic bot are live so a
// misconfigured deployment is obvious from the first screen of logs.
func logStartupSummary(app *bootstrap.App) {
	log.Printf("knowledge base: %d documents", app.Knowledge.Count())
	log.Printf("response cache: %s backend", app.Cache.Stats().Backend)

	if app.LineClient.Configured() {
		log.Printf("line webhook: enabled")
	} else {
		log.Printf("line webhook: disabled (channel secret or access token missing), demo API only")
	}
	if app.Config.Line.NotifyToken == "" {
		log.Printf("staff intent notifications: disabled")
	}
	if app.MySQL == nil {
		log.Printf("mysql not configured: auth and admin API disabled, transcripts not persisted")
	}
	if app.MQConn == nil {
		log.Printf("rabbitmq not configured: transcript audit log disabled")
	}
	if base := app.Config.App.PublicBaseURL; base != "" && !strings.HasPrefix(base, "https://") {
		// LINE refuses non-HTTPS image URLs.
		log.Printf("public_base_url %q is not https, promo images will be dropped from replies", base)
	}
}

func waitForShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown failed: %v", err)
	}
}
