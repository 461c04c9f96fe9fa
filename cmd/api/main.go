package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lv-paperdesk/internal/auth"
	"lv-paperdesk/internal/config"
	"lv-paperdesk/internal/executor"
	"lv-paperdesk/internal/health"
	"lv-paperdesk/internal/httpserver"
	"lv-paperdesk/internal/marketdata"
	"lv-paperdesk/internal/paper"
	"lv-paperdesk/internal/portfolio"
	"lv-paperdesk/internal/repository"
	"lv-paperdesk/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.UIDist != "" {
		if _, err := os.Stat(cfg.UIDist); err != nil {
			log.Fatal(err)
		}
	}
	startedAt := time.Now().UTC()

	repo, err := repository.Open(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer repo.Close()

	bus := marketdata.NewBus()
	board := marketdata.NewQuoteBoard()
	feed := marketdata.NewFeed(bus, board, cfg.FeedSymbols, cfg.FeedInterval)

	snaps := store.NewSnapshotStore(cfg.SnapshotDir)
	paperSvc := paper.NewService(snaps, board, cfg.InitialBalance)
	portfolioSvc := portfolio.NewService(repo, board)
	authSvc := auth.NewService(repo, cfg.JWTIssuer, []byte(cfg.JWTSecret), cfg.JWTTTL)

	authHandler := auth.NewHandler(authSvc)
	paperHandler := paper.NewHandler(paperSvc, board)
	portfolioHandler := portfolio.NewHandler(portfolioSvc)
	quoteWS := marketdata.NewQuoteWS(cfg.WebSocketOrigin, board, cfg.FeedInterval)
	marketHandler := marketdata.NewHandler(board, quoteWS)
	healthHandler := health.NewHandler(repo, startedAt, cfg.HTTPAddr, cfg.SnapshotDir)
	wsHandler := httpserver.NewWSHandler(bus, cfg.WebSocketOrigin)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandler:      authHandler,
		PaperHandler:     paperHandler,
		PortfolioHandler: portfolioHandler,
		MarketHandler:    marketHandler,
		HealthHandler:    healthHandler,
		AuthService:      authSvc,
		InternalToken:    cfg.InternalToken,
		WSHandler:        wsHandler,
		UIDist:           cfg.UIDist,
	})
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	feed.Start()
	defer feed.Stop()

	exec := executor.New(bus, paperSvc)
	exec.Start()
	defer exec.Stop()

	log.Printf("server listening on %s", cfg.HTTPAddr)
	log.Printf("health endpoint: http://localhost%s/health", cfg.HTTPAddr)
	if cfg.UIDist != "" {
		log.Printf("ui dist: %s", cfg.UIDist)
	}
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
