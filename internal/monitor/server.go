package monitor

import (
	"context"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"net/http"
)

// MetricsServer 通过HTTP暴露采样的Prometheus指标
type MetricsServer struct {
	server *http.Server
	logger *zap.Logger
}

func NewMetricsServer(addr string, gatherer prometheus.Gatherer, logger *zap.Logger) *MetricsServer {
	return &MetricsServer{
		server: &http.Server{
			Addr:    addr,
			Handler: buildHandler(gatherer),
		},
		logger: logger.Named("metrics"),
	}
}

func buildHandler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte("OK"))
	})
	return mux
}

// Start 在后台启动服务器。服务器结束后，返回的channel会收到结束原因，正常关闭时为nil
func (s *MetricsServer) Start() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("指标服务器启动", zap.String("addr", s.server.Addr))
		if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- errors.Wrap(err, "指标服务器出错")
			return
		}
		s.logger.Info("指标服务器结束")
		errCh <- nil
	}()
	return errCh
}

func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return errors.Wrap(s.server.Shutdown(ctx), "关闭指标服务器失败")
}
