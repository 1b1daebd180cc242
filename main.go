package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"ironbid/internal/cachewarm"
	"ironbid/internal/config"
	"ironbid/internal/http/auctionhandler"
	"ironbid/internal/http/http_server"
	"ironbid/internal/http/offerhandler"
	"ironbid/internal/redis/cache"
	"ironbid/internal/redis/redis_client"
	"ironbid/internal/remoteapi"
	"ironbid/internal/services/auction"
	"ironbid/internal/services/catalog"
	"ironbid/internal/services/commission"
	"ironbid/internal/services/listing"
	"ironbid/internal/services/offer"
	"ironbid/internal/ws"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer func() { _ = Log.Sync() }()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully",
		zap.String("remote_api", cfg.RemoteAPIBaseURL),
		zap.Uint16("port", cfg.HttpServerPort),
	)

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Redis: lookup cache + offer events
	redisClient, err := redis_client.NewRedisClient(cfg.RedisHost, int(cfg.RedisPort), cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		Log.Fatal("Failed to create Redis client", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()
	Log.Debug("Redis client created successfully")
	lookupCache := cache.New(redisClient, cfg.CacheTTL)

	// 4. Remote marketplace API
	remote := remoteapi.New(cfg.RemoteAPIBaseURL, cfg.RemoteAPITimeout)

	// 5. Services
	catalogService := catalog.NewCatalogService(remote, lookupCache)
	commissionService := commission.NewCommissionService(remote, lookupCache)
	listingService := listing.NewListingService(remote, cfg.PageSize)
	offerService := offer.NewOfferService(remote, redisClient)
	auctionService := auction.NewAuctionService(remote, catalogService, commissionService)

	// 6. Background: keep catalog and commission warm
	cachewarm.Run(ctx, cfg.CacheWarmInterval, lookupCache, catalogService, commissionService)

	// 7. WebSockets hub + live views
	hub := ws.NewHub()
	wsSrv := ws.NewWsServer(hub, redisClient, listingService, offerService, cfg.SearchDebounce, cfg.CORSOrigins)

	// 8. HTTP + WS server
	httpServer := http_server.NewHttpServer(ctx, cfg.HttpServerPort, cfg.JWTSecret, cfg.CORSOrigins, wsSrv,
		auctionhandler.New(listingService, auctionService, catalogService, commissionService, offerService),
		offerhandler.New(offerService),
	)

	go func() {
		<-ctx.Done()
		_ = httpServer.Dispose()
	}()

	if err := httpServer.Start(); err != nil {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
	Log.Info("shutdown complete")
}
