package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/zlnvch/webboard/api"
	"github.com/zlnvch/webboard/config"
	"github.com/zlnvch/webboard/mq"
	"github.com/zlnvch/webboard/mq/sqsmq"
	"github.com/zlnvch/webboard/pubsub"
	"github.com/zlnvch/webboard/pubsub/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	var relay pubsub.PubSub
	if cfg.RedisEndpoint != "" {
		redisRelay, err := redis.NewRedisPubSub(ctx, cfg.DevMode, cfg.RedisEndpoint)
		if err != nil {
			log.Fatalf("Failed to create redis relay: %v", err)
		}
		defer redisRelay.Close()
		relay = redisRelay
	}

	var transcriptQueue mq.MessageQueue
	if cfg.TranscriptQueue != "" {
		queue, err := sqsmq.NewSQSMessageQueue(ctx, cfg.DevMode, cfg.SQSEndpoint, cfg.TranscriptQueue)
		if err != nil {
			log.Fatalf("Failed to create transcript queue: %v", err)
		}
		log.Printf("Exporting chat transcript to queue %s", queue.Name())
		transcriptQueue = queue
	}

	var controlQueue mq.MessageQueue
	if cfg.ControlQueue != "" {
		queue, err := sqsmq.NewSQSMessageQueue(ctx, cfg.DevMode, cfg.SQSEndpoint, cfg.ControlQueue)
		if err != nil {
			log.Fatalf("Failed to create control queue: %v", err)
		}
		log.Printf("Consuming control commands from queue %s", queue.Name())
		controlQueue = queue
	}

	shutdownCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	webboardAPI, err := api.NewWebboardAPI(cfg, relay, transcriptQueue, controlQueue, shutdownCtx)
	if err != nil {
		log.Fatalf("Failed to create webboard api: %v", err)
	}

	mux := http.NewServeMux()
	webboardAPI.RegisterRoutes(mux, cfg.Origins())

	server := &http.Server{
		Addr:    ":" + cfg.HostPort,
		Handler: mux,
	}

	go func() {
		log.Printf("Starting server on port: %s\n", cfg.HostPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownCtx.Done()
	log.Printf("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	// Websocket connections are hijacked and not tracked by Shutdown
	workersDone := make(chan struct{})
	go func() {
		webboardAPI.Wait()
		close(workersDone)
	}()
	select {
	case <-workersDone:
		log.Printf("Background workers stopped")
	case <-ctx.Done():
		log.Printf("Timed out waiting for background workers")
	}
}
