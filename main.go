package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lauvAri/soa-lab1/internal/borrow"
	"github.com/lauvAri/soa-lab1/internal/gateway"
	"github.com/lauvAri/soa-lab1/internal/platform/config"
	"github.com/lauvAri/soa-lab1/internal/platform/db"
	"github.com/lauvAri/soa-lab1/internal/platform/middleware"
)

const (
	serviceName    = "borrow-service"
	serviceVersion = "1.0.0"
)

func main() {
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		panic(err)
	}

	log.Printf("[INFO] debug:%v", cfg.Debug)

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	store := borrow.NewStore(conn)
	if err := store.EnsureSchema(context.Background()); err != nil {
		panic(err)
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())
	_ = r.SetTrustedProxies(nil)

	if cfg.Debug {
		// CORS (only needed during development)
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	// Liveness + service metadata
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"code":    http.StatusOK,
			"message": "Borrow Service is running",
			"service": serviceName,
			"version": serviceVersion,
			"port":    cfg.Port,
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": serviceName,
		})
	})

	users := gateway.NewUserGateway(cfg.UserServiceBaseURL)
	materials := gateway.NewMaterialGateway(cfg.MaterialServiceBaseURL)
	svc := borrow.NewService(store, users, materials, borrow.PageLimits{
		Default: cfg.DefaultPageSize,
		Max:     cfg.MaxPageSize,
	})
	borrow.RegisterRoutes(r, svc)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: r,
	}

	go func() {
		log.Printf("[INFO] listening on http://%s", srv.Addr)
		log.Printf("[INFO] user service: %s", cfg.UserServiceBaseURL)
		log.Printf("[INFO] material service: %s", cfg.MaterialServiceBaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("[INFO] shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
