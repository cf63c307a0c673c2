package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/iotaledger/hive.go/app"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"github.com/covenantlabs/covenant/covenant"
	"github.com/covenantlabs/covenant/daemon"
)

func init() {
	Component = &app.Component{
		Name:     "Prometheus",
		DepsFunc: func(cDeps dependencies) { deps = cDeps },
		Params:   params,
		IsEnabled: func(_ *dig.Container) bool {
			return ParamsPrometheus.Enabled
		},
		Configure: configure,
		Run:       run,
	}
}

var (
	Component *app.Component
	deps      dependencies

	registry = prometheus.NewRegistry()
	collects []func()
)

type dependencies struct {
	dig.In

	Metrics *covenant.EngineMetrics
}

func addCollect(collect func()) {
	collects = append(collects, collect)
}

func configure() error {
	configureEngine()
	return nil
}

func run() error {
	return Component.Daemon().BackgroundWorker("Prometheus exporter", func(ctx context.Context) {
		Component.LogInfof("starting prometheus exporter on %s", ParamsPrometheus.BindAddress)

		mux := http.NewServeMux()
		mux.Handle("/metrics", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, collect := range collects {
				collect()
			}
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
		}))

		server := &http.Server{
			Addr:              ParamsPrometheus.BindAddress,
			Handler:           mux,
			ReadHeaderTimeout: 3 * time.Second,
		}

		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				Component.LogErrorf("prometheus exporter stopped: %v", err)
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			Component.LogWarnf("prometheus exporter shutdown: %v", err)
		}
	}, daemon.PriorityPrometheus)
}
