package main

import (
	"log"

	_ "github.com/johnobriendev/tremendoServer/docs"
	"github.com/johnobriendev/tremendoServer/internal/config"
	"github.com/johnobriendev/tremendoServer/internal/server"
)

// @title           Tremendo API
// @version         1.0
// @description     REST backend for collaborative kanban boards.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
