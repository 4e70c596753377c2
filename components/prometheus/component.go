package prometheus

// prometheus is the component instance responsible for the collection of prometheus metrics.
// All metrics should be defined in metrics_namespace.go files with a different namespace for each collection.
// Metrics naming should follow the guidelines from: https://prometheus.io/docs/practices/naming/
// In short:
// 	all metrics should be in base units, do not mix units,
// 	add suffix describing the unit,
// 	use 'total' suffix for accumulating counter

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"github.com/iotaledger/collection-pricing/components/prometheus/collector"
	"github.com/iotaledger/collection-pricing/pkg/daemon"
	"github.com/iotaledger/collection-pricing/pkg/engine"
	"github.com/iotaledger/collection-pricing/pkg/metrics"
	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/storage"
	"github.com/iotaledger/hive.go/app"
	"github.com/iotaledger/hive.go/ierrors"
)

func init() {
	Component = &app.Component{
		Name:     "Prometheus",
		DepsFunc: func(cDeps dependencies) { deps = cDeps },
		Params:   params,
		Run:      run,
		IsEnabled: func(container *dig.Container) bool {
			if err := container.Provide(createCollector); err != nil {
				panic(ierrors.Wrap(err, "failed to provide collector"))
			}

			return ParamsPrometheus.Enabled
		},
	}
}

var (
	Component *app.Component
	deps      dependencies

	server *http.Server
)

type dependencies struct {
	dig.In

	AppInfo       *app.Info
	NodeID        model.Identity `name:"nodeID"`
	Engine        *engine.Engine
	Storage       *storage.Storage
	ServerMetrics *metrics.ServerMetrics `optional:"true"`

	Collector *collector.Collector
}

func run() error {
	Component.LogInfo("Starting Prometheus exporter ...")

	if ParamsPrometheus.GoMetrics {
		deps.Collector.Registry.MustRegister(collectors.NewGoCollector())
	}
	if ParamsPrometheus.ProcessMetrics {
		deps.Collector.Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	if err := registerMetrics(); err != nil {
		return err
	}

	return Component.Daemon().BackgroundWorker("Prometheus exporter", func(ctx context.Context) {
		Component.LogInfo("Starting Prometheus exporter ... done")

		e := echo.New()
		e.HideBanner = true
		e.Use(middleware.Recover())

		e.GET("/metrics", func(c echo.Context) error {
			if err := deps.Collector.Collect(); err != nil {
				Component.LogWarnf("failed to collect metrics: %s", err)
			}

			handler := promhttp.HandlerFor(
				deps.Collector.Registry,
				promhttp.HandlerOpts{
					EnableOpenMetrics: true,
				},
			)
			if ParamsPrometheus.PromhttpMetrics {
				handler = promhttp.InstrumentMetricHandler(deps.Collector.Registry, handler)
			}
			handler.ServeHTTP(c.Response().Writer, c.Request())

			return nil
		})

		bindAddr := ParamsPrometheus.BindAddress
		server = &http.Server{Addr: bindAddr, Handler: e, ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}

		go func() {
			Component.LogInfof("You can now access the Prometheus exporter using: http://%s/metrics", bindAddr)
			if err := server.ListenAndServe(); err != nil && !ierrors.Is(err, http.ErrServerClosed) {
				Component.LogErrorf("Stopping Prometheus exporter due to an error (%s) ... done", err)
			}
		}()

		<-ctx.Done()
		Component.LogInfo("Stopping Prometheus exporter ...")

		if server != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := server.Shutdown(shutdownCtx); err != nil {
				Component.LogError(err.Error())
			}
			cancel()
		}
		Component.LogInfo("Stopping Prometheus exporter ... done")
	}, daemon.PriorityMetrics)
}

func createCollector() *collector.Collector {
	return collector.New()
}

func registerMetrics() error {
	collections := []*collector.Collection{
		InfoMetrics,
		EngineMetrics,
		DBMetrics,
	}

	if ParamsPrometheus.RestAPIMetrics && deps.ServerMetrics != nil {
		collections = append(collections, RestAPIMetrics)
	}

	for _, collection := range collections {
		if err := deps.Collector.RegisterCollection(collection); err != nil {
			return ierrors.Wrapf(err, "failed to register metrics of %s", collection.CollectionName)
		}
	}

	return nil
}
