package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paddleball/server"
)

// 入口：加载配置，启动 HTTP + WebSocket 服务，并初始化房间注册表
func main() {
	var cfgFile string
	flag.StringVar(&cfgFile, "config", "", "optional config file (yaml/json/toml)")
	flag.Parse()

	cfg, err := server.LoadConfig(cfgFile)
	if err != nil {
		panic(err)
	}
	log, err := server.NewLogger(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer server.SyncLogger(log)

	rooms := server.NewRoomManager(log)
	sessions := server.NewSessionManager(rooms, log)
	gateway := server.NewGateway(sessions, log)
	admin := server.NewAdmin(rooms)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go rooms.RunReaper(ctx, time.Minute, cfg.RoomIdleTimeout)

	mux := http.NewServeMux()
	mux.Handle("/ws", gateway)
	mux.Handle("/", server.StaticHandler(cfg.StaticDir))
	mux.HandleFunc("/rooms", admin.HandleRooms)
	mux.HandleFunc("/metrics", admin.HandleMetrics)
	mux.HandleFunc("/healthz", admin.HandleHealth)

	srv := &http.Server{Addr: cfg.Addr(), Handler: mux}

	go func() {
		log.Infof("paddleball listening on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnf("http shutdown: %v", err)
	}
	cancel()
	rooms.Shutdown()
}
