package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zatekoja/Emergencybeddiscovery/internal/adapters/cache"
	"github.com/zatekoja/Emergencybeddiscovery/internal/adapters/providers/bedfeed"
	"github.com/zatekoja/Emergencybeddiscovery/internal/adapters/providers/placesearch"
	"github.com/zatekoja/Emergencybeddiscovery/internal/adapters/providers/routing"
	"github.com/zatekoja/Emergencybeddiscovery/internal/api/handlers"
	"github.com/zatekoja/Emergencybeddiscovery/internal/api/routes"
	"github.com/zatekoja/Emergencybeddiscovery/internal/application/services"
	redisclient "github.com/zatekoja/Emergencybeddiscovery/internal/infrastructure/clients/redis"
	"github.com/zatekoja/Emergencybeddiscovery/internal/infrastructure/observability"
	"github.com/zatekoja/Emergencybeddiscovery/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger("emergency-bed-discovery", cfg.Server.Environment)
	logger := observability.GetLogger()

	redisClient, err := redisclient.NewClient(&cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()

	cacheProvider := cache.NewRedisAdapter(redisClient)

	feedProvider := bedfeed.NewHTTPProvider(cfg.BedFeed)
	searchProvider := placesearch.NewKakaoProvider(cfg.PlaceSearch)
	routingProvider := routing.NewKakaoProvider(cfg.Routing)

	resolver := services.NewCoordinateResolverService(searchProvider, cfg.PlaceSearch, cfg.Pipeline)
	enricher := services.NewRouteEnrichmentService(routingProvider, cfg.Routing)
	ranker := services.NewRankingService()
	snapshots := services.NewSnapshotService(cacheProvider, cfg.Pipeline)

	discovery := services.NewDiscoveryService(feedProvider, resolver, enricher, ranker, snapshots, cfg.Pipeline)

	router := routes.NewRouter(handlers.NewDiscoveryHandler(discovery))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("starting api server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
