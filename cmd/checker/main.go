package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"portfolio_tracker/internal/adapter"
	"portfolio_tracker/internal/client"
	"portfolio_tracker/internal/config"
	"portfolio_tracker/internal/infrastructure/chainregistry"
	"portfolio_tracker/internal/infrastructure/rpcclient"
	"portfolio_tracker/internal/pkg/metrics"
	"portfolio_tracker/internal/pricing"
	"portfolio_tracker/internal/service"
	"portfolio_tracker/internal/tokenlist"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// checker is the one-shot CLI: aggregate the given wallets once and print the
// portfolio to stdout as JSON.
func main() {
	addressesFlag := flag.String("addresses", "", "comma-separated wallet addresses")
	configFlag := flag.String("config", "config/config.yaml", "path to the YAML config file")
	timeoutFlag := flag.Duration("timeout", 2*time.Minute, "overall run timeout")
	flag.Parse()

	if *addressesFlag == "" {
		fmt.Fprintln(os.Stderr, "usage: checker -addresses 0x...,0x... [-config config/config.yaml]")
		os.Exit(2)
	}

	var addresses []string
	for _, a := range strings.Split(*addressesFlag, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addresses = append(addresses, a)
		}
	}

	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize zap logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync() //nolint:errcheck

	cfg, err := config.LoadConfig(*configFlag)
	if err != nil {
		zapLogger.Fatal("Failed to load configuration", zap.String("path", *configFlag), zap.Error(err))
	}

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

	priceService := pricing.NewService(
		pricing.NewResolver(cfg.Pipeline.ScamSymbols),
		coinGeckoClient,
		time.Duration(cfg.CoinGecko.CacheTTLSeconds)*time.Second,
		zapLogger,
	)

	portfolioSvc := service.NewPortfolioService(
		registry,
		rpcProvider,
		adapter.NewAlchemySource(alchemyClient, cfg.Alchemy, zapLogger),
		adapter.NewBlockscoutSource(blockscoutClient, zapLogger),
		adapter.NewContractSource(rpcProvider, tokenListProvider, zapLogger),
		priceService,
		cfg,
		zapLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	portfolio := portfolioSvc.Aggregate(ctx, addresses)

	out, err := json.MarshalIndent(portfolio, "", "  ")
	if err != nil {
		zapLogger.Fatal("Failed to marshal portfolio", zap.Error(err))
	}
	fmt.Println(string(out))
}
