package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/eashaop2023/admineashaop/internal/admins"
	"github.com/eashaop2023/admineashaop/internal/config"
	"github.com/eashaop2023/admineashaop/internal/db"
	"github.com/eashaop2023/admineashaop/internal/validation"
)

// seed creates or refreshes the bootstrap admin from ADMIN_* variables.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	req := admins.RegisterRequest{
		Username: envOr("ADMIN_USERNAME", "admin"),
		MobileNo: strings.TrimSpace(os.Getenv("ADMIN_MOBILE")),
		Email:    strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		Password: os.Getenv("ADMIN_PASSWORD"),
	}
	if err := validation.New().Struct(req); err != nil {
		log.Fatalf("invalid ADMIN_* settings: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	service := admins.NewService(admins.NewRepository(cols.Admins), nil, nil)
	created, err := service.Ensure(ctx, req)
	if err != nil {
		log.Fatal(err)
	}
	if created {
		log.Printf("admin %s created", strings.ToLower(req.Email))
	} else {
		log.Printf("admin %s updated", strings.ToLower(req.Email))
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
