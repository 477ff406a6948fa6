package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salonflow/salon-queue/internal/config"
	dbpkg "github.com/salonflow/salon-queue/internal/db"
	"github.com/salonflow/salon-queue/internal/middleware"
	"github.com/salonflow/salon-queue/internal/realtime"
	"github.com/salonflow/salon-queue/internal/routes"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)
	bus := realtime.NewRedisBus(cfg.RedisAddr)
	defer bus.Close()

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, bus, cfg)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
