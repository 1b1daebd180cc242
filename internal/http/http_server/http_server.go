package http_server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abrar71/swaggerfilesv2" // swagger embed files

	"ironbid/internal/http/auctionhandler"
	"ironbid/internal/http/middleware"
	"ironbid/internal/http/offerhandler"
	"ironbid/internal/ws"
)

// @title						Ironbid marketplace API
// @version					1.0
// @description				Presentation backend for the heavy-machinery auction marketplace.
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization

type httpServer struct {
	listenPort     uint16
	srv            http.Server
	ln             net.Listener
	jwtSecret      string
	corsOrigins    []string
	auctionHandler *auctionhandler.Handler
	offerHandler   *offerhandler.Handler
	wsSrv          *ws.WsServer
	ctx            context.Context
}

func NewHttpServer(
	ctx context.Context,
	listenPort uint16,
	jwtSecret string,
	corsOrigins []string,
	wsSrv *ws.WsServer,
	auctionHandler *auctionhandler.Handler,
	offerHandler *offerhandler.Handler,
) *httpServer {
	return &httpServer{
		listenPort:     listenPort,
		jwtSecret:      jwtSecret,
		corsOrigins:    corsOrigins,
		wsSrv:          wsSrv,
		auctionHandler: auctionHandler,
		offerHandler:   offerHandler,
		ctx:            ctx,
	}
}

// Engine builds the gin router with every route mounted.
func (h *httpServer) Engine() *gin.Engine {
	routerEngine := gin.New()

	// Swagger UI and API specs
	routerEngine.StaticFS("/swagger-apis", http.FS(swaggerfilesv2.FS))
	routerEngine.Static("/api-specs", "api_specs")

	routerEngine.Use(ginzap.Ginzap(zap.L(), time.RFC3339, true))
	routerEngine.Use(ginzap.RecoveryWithZap(zap.L(), true))
	routerEngine.Use(cors.New(h.corsConfig()))
	routerEngine.Use(middleware.RequestID(), middleware.Session(h.jwtSecret))

	// websocket endpoint
	routerEngine.GET("/ws", h.wsSrv.Handle)

	// REST API
	api := routerEngine.Group("/api")
	h.auctionHandler.Register(api)
	h.offerHandler.Register(api.Group("/broker"))

	return routerEngine
}

func (h *httpServer) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	if len(h.corsOrigins) == 0 || slices.Contains(h.corsOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = h.corsOrigins
		cfg.AllowCredentials = true
	}
	cfg.AddAllowHeaders("Authorization", middleware.RequestIDHeader)
	cfg.AddExposeHeaders(middleware.RequestIDHeader)
	return cfg
}

func (h *httpServer) Start() error {
	var err error
	listenAddr := fmt.Sprintf(":%d", h.listenPort)
	h.ln, err = net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	h.srv = http.Server{
		Handler:           h.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	zap.L().Info("http_listen", zap.String("addr", listenAddr))

	err = h.srv.Serve(h.ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Dispose gracefully shuts the HTTP server down.
// It waits up to 10 s for in-flight requests to finish.
func (h *httpServer) Dispose() error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(h.ctx), 10*time.Second)
	defer cancel()

	if err := h.srv.Shutdown(ctx); err != nil {
		zap.L().Error("http_dispose", zap.Error(err))
		return err // e.g. active conns didn't finish in time
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		zap.L().Error("http_dispose", zap.Error(errors.New("shutdown timed out")))
	}
	return nil
}
