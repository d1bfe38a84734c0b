package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"portfolio_tracker/internal/adapter"
	"portfolio_tracker/internal/client"
	"portfolio_tracker/internal/config"
	"portfolio_tracker/internal/infrastructure/chainregistry"
	"portfolio_tracker/internal/infrastructure/restapi"
	"portfolio_tracker/internal/infrastructure/rpcclient"
	"portfolio_tracker/internal/pkg/metrics"
	"portfolio_tracker/internal/pkg/utils"
	"portfolio_tracker/internal/pricing"
	"portfolio_tracker/internal/service"
	"portfolio_tracker/internal/tokenlist"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

func main() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize zap logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync() //nolint:errcheck

	// Route slog users through the same zap core.
	slogHandler := zapslog.NewHandler(zapLogger.Core())
	slog.SetDefault(slog.New(slogHandler))

	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		zapLogger.Fatal("Failed to load configuration", zap.String("path", cfgPath), zap.Error(err))
	}
	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	metrics.MustRegisterMetrics()

	registry := chainregistry.NewRegistry(zapLogger)
	rpcProvider := rpcclient.NewProvider(cfg, zapLogger)

	coinGeckoClient := client.NewCoinGeckoClient(
		cfg.CoinGecko.BaseURL,
		time.Duration(cfg.CoinGecko.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)
	blockscoutClient := client.NewBlockscoutClient(
		time.Duration(cfg.Blockscout.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)
	alchemyClient := client.NewAlchemyClient(
		cfg.Alchemy.APIKey,
		time.Duration(cfg.Alchemy.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)

	tokenListProvider := tokenlist.NewProvider(
		cfg.TokenList.URL,
		time.Duration(cfg.TokenList.RequestTimeoutMillis)*time.Millisecond,
		time.Duration(cfg.TokenList.FailureTTLSeconds)*time.Second,
		zapLogger,
	)

	priceResolver := pricing.NewResolver(cfg.Pipeline.ScamSymbols)
	priceService := pricing.NewService(
		priceResolver,
		coinGeckoClient,
		time.Duration(cfg.CoinGecko.CacheTTLSeconds)*time.Second,
		zapLogger,
	)

	indexerSource := adapter.NewAlchemySource(alchemyClient, cfg.Alchemy, zapLogger)
	explorerSource := adapter.NewBlockscoutSource(blockscoutClient, zapLogger)
	directSource := adapter.NewContractSource(rpcProvider, tokenListProvider, zapLogger)

	portfolioSvc := service.NewPortfolioService(
		registry,
		rpcProvider,
		indexerSource,
		explorerSource,
		directSource,
		priceService,
		cfg,
		zapLogger,
	)
	zapLogger.Info("PortfolioService initialized")

	portfolioHandler := restapi.NewPortfolioHandler(portfolioSvc)
	proxyHandler := restapi.NewProxyHandler(
		coinGeckoClient,
		blockscoutClient,
		tokenListProvider.(restapi.TokenListFetcher),
		registry,
		time.Duration(cfg.CoinGecko.CacheTTLSeconds)*time.Second,
		time.Duration(cfg.Blockscout.CacheTTLSeconds)*time.Second,
		time.Duration(cfg.TokenList.CacheTTLSeconds)*time.Second,
		zapLogger,
	)

	router := restapi.SetupRouter(portfolioHandler, proxyHandler, zapLogger)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	zapLogger.Info("Prometheus metrics endpoint enabled", zap.String("path", "/metrics"))

	pprofRouter := router.Group("/debug/pprof")
	{
		pprofRouter.GET("/", gin.WrapF(pprof.Index))
		pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
		pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
		pprofRouter.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
		pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
		pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	}
	zapLogger.Info("Pprof endpoints enabled under /debug/pprof")

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exiting")
}
