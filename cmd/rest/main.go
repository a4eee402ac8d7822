package main

import (
	"context"
	"log"

	"mallfinder-be/internal/bootstrap"
	"mallfinder-be/internal/config"
	"mallfinder-be/internal/server"
	"mallfinder-be/internal/tracer"
	"mallfinder-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		gormDB = db
	} else {
		log.Println("DB_CONNECTION_STRING not set, running without Postgres")
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	go func() {
		log.Println("Background: Starting Activity Consumer...")
		if err := container.ActivityService.Consume(context.Background()); err != nil {
			log.Printf("Background Activity Consumer Error: %v", err)
		}
	}()

	srv := server.New(cfg, container)

	log.Fatal(srv.Run())
}
