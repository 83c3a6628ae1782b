// Command motd-server serves the message of the day over HTTP and gRPC.
package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/and161185/motd/internal/config"
	motdcreds "github.com/and161185/motd/internal/credentials"
	pkgcrypto "github.com/and161185/motd/internal/crypto"
	"github.com/and161185/motd/internal/selector"
	grpcserver "github.com/and161185/motd/internal/server/grpc"
	httpserver "github.com/and161185/motd/internal/server/http"
	"github.com/and161185/motd/internal/service"
	"github.com/and161185/motd/internal/storage"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Dev {
		zc = zap.NewDevelopmentConfig()
	}
	lvl, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

// main loads configuration, opens the store, and runs both transports until SIGINT/SIGTERM.
func main() {
	cfgPath := flag.String("config", "", "config file (yaml, json, toml or .env)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		_, _ = os.Stderr.WriteString("log level: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("store", cfg.Store),
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	creds, err := motdcreds.Parse(cfg.Users)
	if err != nil {
		return err
	}
	logger.Info("writers configured", zap.Strings("users", creds.UserIDs()))

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}()

	// Services
	authSvc, err := service.NewAuthService(creds, pkgcrypto.NewTOTP(), logger.Named("auth"))
	if err != nil {
		return err
	}
	motdSvc := service.NewMotdService(authSvc, service.NewMessageStore(repo), selector.New(nil), nil)

	g, gctx := errgroup.WithContext(ctx)

	if cfg.GRPCAddr != "" {
		gs, err := newGRPCServer(cfg, logger, motdSvc)
		if err != nil {
			return err
		}
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return err
		}
		g.Go(func() error {
			logger.Info("grpc listening", zap.String("addr", cfg.GRPCAddr), zap.Bool("tls", cfg.TLSCert != ""))
			return gs.Serve(lis)
		})
		g.Go(func() error {
			<-gctx.Done()
			// graceful shutdown
			done := make(chan struct{})
			go func() {
				gs.GracefulStop()
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(cfg.ShutdownTimeout):
				gs.Stop()
			}
			return nil
		})
	}

	if cfg.HTTPAddr != "" {
		hs := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           httpserver.New(motdSvc, logger.Named("http")).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			logger.Info("http listening", zap.String("addr", cfg.HTTPAddr))
			if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			return hs.Shutdown(sctx)
		})
	}

	return g.Wait()
}

func newGRPCServer(cfg *config.Config, logger *zap.Logger, motd service.MotdService) (*grpc.Server, error) {
	glog := logger.Named("grpc")
	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			grpcserver.RecoverUnary(glog),
			grpcserver.RequestIDUnary(),
			grpcserver.LoggingUnary(glog),
		),
	}
	if cfg.TLSCert != "" {
		tc, err := credentials.NewServerTLSFromFile(cfg.TLSCert, cfg.TLSKey)
		if err != nil {
			return nil, err
		}
		opts = append(opts, grpc.Creds(tc))
	}
	s := grpc.NewServer(opts...)

	grpcserver.RegisterMotdServer(s, grpcserver.New(motd, glog))

	// Health & reflection (dev)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	hs.SetServingStatus(grpcserver.ServiceName, healthpb.HealthCheckResponse_SERVING)
	if cfg.Dev {
		reflection.Register(s)
	}
	return s, nil
}
