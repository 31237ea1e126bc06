package main

import (
	"log"
	"os"
	"strings"

	"recpay/models"
	"recpay/pkg/ledger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB
var store *ledger.Store
var lifecycle *ledger.Controller

func initDB() {
	var err error
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true). Any permission errors will be logged and ignored.
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	if shouldMigrate {
		// Migrate models individually so a failure on one doesn't block others
		if err := db.AutoMigrate(&models.Setting{}); err != nil {
			log.Printf("migration warning (settings): %v", err)
		}
		if err := db.AutoMigrate(&models.Payment{}); err != nil {
			log.Printf("migration warning (payments): %v", err)
		}
		if err := db.AutoMigrate(&models.Receipt{}); err != nil {
			log.Printf("migration warning (receipts): %v", err)
		}
	}

	store = ledger.NewStore(db)
	lifecycle = &ledger.Controller{Records: store, Gate: store, Payees: payees}
	seedDB()
}

func seedDB() {
	// Ensure the payment gate setting exists; a fresh install starts active.
	var cnt int64
	db.Model(&models.Setting{}).Where("key = ?", ledger.GateSettingKey).Count(&cnt)
	if cnt == 0 {
		if err := db.Create(&models.Setting{Key: ledger.GateSettingKey, Value: ledger.GateActive}).Error; err != nil {
			log.Printf("failed to seed payment gate setting: %v", err)
		} else {
			log.Println("Seeded payment gate setting: active")
		}
	}
	// Ensure receipt upload directory exists
	ensureReceiptBase()
}

// ensureReceiptBase creates the base directory for uploaded receipts.
func ensureReceiptBase() {
	base := receiptBaseDir()
	if err := os.MkdirAll(base, 0755); err != nil {
		log.Printf("failed to create receipt base dir %s: %v", base, err)
	}
}

// receiptBaseDir returns the base directory for receipt uploads (configurable via RECEIPT_BASE env)
func receiptBaseDir() string {
	if v := os.Getenv("RECEIPT_BASE"); v != "" {
		return v
	}
	return "receipts"
}
