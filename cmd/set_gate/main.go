package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"recpay/pkg/ledger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: go run ./cmd/set_gate <active|paused>")
		os.Exit(2)
	}
	value := strings.ToLower(strings.TrimSpace(os.Args[1]))

	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	store := ledger.NewStore(db)
	if err := store.SetGateStatus(value); err != nil {
		log.Fatalf("failed to set gate: %v", err)
	}
	fmt.Printf("payment gate set to %s\n", value)
}
