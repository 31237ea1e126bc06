package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"recpay/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Dumps all payment rows (active and trashed) as CSV on stdout.
// usage: DB_DSN=... go run ./scripts/export_payments > payments.csv
func main() {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set in env")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	var rows []models.Payment
	if err := gdb.Order("id").Find(&rows).Error; err != nil {
		log.Fatalf("fetch payments failed: %v", err)
	}

	w := csv.NewWriter(os.Stdout)
	_ = w.Write([]string{"id", "transaction_id", "name", "phone", "address", "amount_rupees", "status", "trashed", "created_at"})
	for _, r := range rows {
		rec := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.TransactionID,
			r.Name,
			r.Phone,
			r.Address,
			fmt.Sprintf("%.2f", float64(r.Amount)/100),
			r.Status,
			strconv.FormatBool(r.Trashed),
			r.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(rec); err != nil {
			log.Fatalf("write csv: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("flush csv: %v", err)
	}
	log.Printf("exported %d payments", len(rows))
}
