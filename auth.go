package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Single static admin identity, configured through the environment. The
// plaintext password is bcrypt-hashed at startup and discarded. Repeated
// login failures are not rate-limited; that gap is accepted, not a feature.
var (
	adminUsername     string
	adminPasswordHash []byte
)

func loadAdminCredentials() {
	adminUsername = os.Getenv("ADMIN_USERNAME")
	if adminUsername == "" {
		adminUsername = "admin"
	}
	pw := os.Getenv("ADMIN_PASSWORD")
	if pw == "" {
		pw = "admin123" // development fallback
		log.Println("ADMIN_PASSWORD not set; using development default admin123")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}
	adminPasswordHash = h
}

// Authenticate validates the admin credentials against the static identity.
func Authenticate(username, password string) error {
	if strings.TrimSpace(username) != adminUsername {
		// keep timing uniform across unknown usernames
		_ = bcrypt.CompareHashAndPassword(adminPasswordHash, []byte(password))
		return fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(adminPasswordHash, []byte(password)); err != nil {
		return fmt.Errorf("invalid credentials")
	}
	return nil
}

// issueAdminToken creates the session token handed back after a successful
// login. The server itself keeps no session state; the token is the only
// thing that readmits the admin.
func issueAdminToken() (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": adminUsername,
		"role":     "administrator",
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	})
	return token.SignedString(jwtSecret)
}
