package api

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/zlnvch/webboard/api/rest"
	"github.com/zlnvch/webboard/api/ws"
	"github.com/zlnvch/webboard/config"
	"github.com/zlnvch/webboard/mq"
	"github.com/zlnvch/webboard/pubsub"
	"github.com/zlnvch/webboard/service"
	"github.com/zlnvch/webboard/worker"
)

type WebboardAPI struct {
	Service     *service.Service
	restHandler *rest.Handler
	wsHandler   *ws.Handler
	shutdownCtx context.Context
	workers     *sync.WaitGroup
}

// NewWebboardAPI starts the hub and the optional background workers. relay,
// transcriptQueue and controlQueue may be nil to run without them.
func NewWebboardAPI(
	cfg config.Config,
	relay pubsub.PubSub,
	transcriptQueue mq.MessageQueue,
	controlQueue mq.MessageQueue,
	shutdownCtx context.Context,
) (*WebboardAPI, error) {
	metrics := service.NewMetrics()
	wsHub := ws.NewHub(metrics)
	workers := &sync.WaitGroup{}

	var transcriptBatcher *worker.TranscriptBatcher
	if transcriptQueue != nil {
		transcriptBatcher = worker.NewTranscriptBatcher(transcriptQueue, int(cfg.TranscriptFlushInterval.Milliseconds()))
		workers.Go(func() { transcriptBatcher.Run(shutdownCtx) })
	}

	svc, err := service.NewService(wsHub, relay, transcriptBatcher, metrics, service.Options{
		CanvasBackground: cfg.CanvasBackground,
		HistoryLimit:     cfg.HistoryLimit,
	})
	if err != nil {
		log.Printf("Failed to create service: %v", err)
		return nil, err
	}

	if relay != nil {
		if err := wsHub.InitSubscriptions(shutdownCtx, relay); err != nil {
			log.Printf("Failed to start WS Hub relay subscription: %v", err)
			return nil, err
		}
		workers.Go(func() { svc.RunRelay(shutdownCtx) })
	}

	workers.Go(func() { wsHub.Run(shutdownCtx, svc) })

	if controlQueue != nil {
		controlConsumer := worker.NewControlConsumer(controlQueue, wsHub.SubmitClear)
		workers.Go(func() { controlConsumer.Run(shutdownCtx) })
	}

	return &WebboardAPI{
		Service:     svc,
		restHandler: rest.NewHandler(svc),
		wsHandler: ws.NewHandler(wsHub, ws.RateLimit{
			MessagesPerSecond: cfg.MessagesPerSecond,
			Burst:             cfg.BurstLimit,
		}),
		shutdownCtx: shutdownCtx,
		workers:     workers,
	}, nil
}

// Wait blocks until the hub and every background worker have returned after
// shutdownCtx is done, including the final transcript flush.
func (webboardAPI *WebboardAPI) Wait() {
	webboardAPI.workers.Wait()
}

func (webboardAPI *WebboardAPI) RegisterRoutes(mux *http.ServeMux, allowedOrigins []string) {
	mux.HandleFunc("/health", webboardAPI.restHandler.HandleHealth)
	mux.HandleFunc("/metrics", webboardAPI.restHandler.HandleMetrics)
	mux.HandleFunc("/participants", webboardAPI.restHandler.HandleParticipants)

	wsUpgrader := webboardAPI.wsHandler.NewWsUpgrader(allowedOrigins)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		webboardAPI.wsHandler.ServeWS(wsUpgrader, w, r, webboardAPI.shutdownCtx)
	})
}
