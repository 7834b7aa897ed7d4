package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/danielpatrickdp/study-productivity/internal/api"
	"github.com/danielpatrickdp/study-productivity/internal/config"
	"github.com/danielpatrickdp/study-productivity/internal/logging"
	"github.com/danielpatrickdp/study-productivity/internal/productivity"
	"github.com/danielpatrickdp/study-productivity/internal/rpc"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		logrus.Fatalf("logging: %v", err)
	}
	gin.SetMode(cfg.Server.GinMode)
	logrus.Infof("starting with %s", cfg)

	// #region store
	st, err := cfg.Database.OpenStore()
	if err != nil {
		logrus.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()
	logrus.Infof("store ready (%s)", st.Driver())

	var traceDB *sql.DB
	if cfg.Engine.TraceEnabled {
		traceDB = st.DB()
	}
	engine := productivity.NewEngine(cfg.ProductivityConfig())
	// #endregion store

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// #region http
	h := api.NewHandler(engine, st, api.HandlerConfig{TraceDB: traceDB, HistoryLimit: cfg.Server.HistoryLimit})
	router := api.NewRouter(h, api.RouterConfig{CORSOrigins: cfg.Server.CORSOrigins})
	httpServer := &http.Server{Addr: cfg.Server.HTTPAddr, Handler: router}

	errCh := make(chan error, 2)
	go func() {
		logrus.Infof("http listening on %s", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	// #endregion http

	// #region grpc
	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logrus.Fatalf("failed to listen on %s: %v", cfg.Server.GRPCAddr, err)
	}
	grpcServer := rpc.NewGRPCServer(rpc.NewServer(engine, traceDB))
	go func() {
		logrus.Infof("grpc listening on %s", cfg.Server.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()
	// #endregion grpc

	select {
	case <-ctx.Done():
		logrus.Info("shutting down")
	case err := <-errCh:
		logrus.Errorf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logrus.Warnf("http shutdown: %v", err)
	}

	done := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		grpcServer.Stop()
	}
	logrus.Info("stopped")
}
