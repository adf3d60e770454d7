// Command betdaqstream runs both the market-data and order-stream
// sessions side by side: it loads configuration from the environment,
// starts each stack's driver in its own goroutine, exposes Prometheus
// metrics, and shuts both drivers down cleanly on SIGINT/SIGTERM.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vayesy/betdaq/internal/config"
	"github.com/vayesy/betdaq/internal/lwps/envelope"
	lwpsclient "github.com/vayesy/betdaq/internal/lwps/client"
	mdsclient "github.com/vayesy/betdaq/internal/mds/client"
)

// metricsAddr is where /metrics is served; not yet surfaced as its own
// environment variable since nothing in this repo needs to change it.
const metricsAddr = ":9090"

func main() {
	cclog.Init("info", true)

	cfg, err := config.Load()
	if err != nil {
		cclog.Fatalf("betdaqstream: failed to load configuration: %s", err.Error())
	}

	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		md := mdsclient.New(cfg.MarketData)
		if err := md.Run(ctx); err != nil && ctx.Err() == nil {
			cclog.Errorf("betdaqstream: market-data session stopped: %s", err.Error())
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		lw, err := lwpsclient.New(cfg.OrderStream, onOrderStreamEnvelope)
		if err != nil {
			cclog.Errorf("betdaqstream: order-stream client misconfigured: %s", err.Error())
			return
		}
		if err := lw.Run(ctx); err != nil && ctx.Err() == nil {
			cclog.Errorf("betdaqstream: order-stream session stopped: %s", err.Error())
		}
	}()

	metricsServer := &http.Server{
		Addr:         metricsAddr,
		Handler:      promhttp.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		cclog.Infof("betdaqstream: metrics listening on %s", metricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			cclog.Errorf("betdaqstream: metrics server failed: %s", err.Error())
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	cclog.Info("betdaqstream: shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	metricsServer.Shutdown(shutdownCtx)

	wg.Wait()
	cclog.Info("betdaqstream: shutdown complete")
}

// onOrderStreamEnvelope logs every push from the order stream; a real
// downstream consumer would instead forward these to whatever owns
// position/order state, which is out of scope here.
func onOrderStreamEnvelope(env *envelope.Envelope) {
	switch msg := env.Message.(type) {
	case *envelope.LightweightPriceSummary:
		cclog.Debugf("lwps: price summary, %d prices", len(msg.Prices))
	case *envelope.LWPChangeNotification:
		cclog.Debugf("lwps: change notification, %d prices", len(msg.Prices))
	case *envelope.PingResponse:
		cclog.Debugf("lwps: ping response")
	case *envelope.ResetOccurred:
		cclog.Warnf("lwps: reset occurred, all lightweight prices cancelled")
	default:
		cclog.Debugf("lwps: unhandled message type %s", env.MessageHeader.Type)
	}
}
