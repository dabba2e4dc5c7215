// Command seed bootstraps admin accounts from the environment. It is meant
// to run once at deploy time, not as an HTTP surface.
//
// SEED_ADMINS holds comma-separated email:password pairs. Existing emails
// are skipped, so re-running is safe.
package main

import (
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"runners_api/internal/config"
	"runners_api/internal/models"
)

func main() {
	seed := os.Getenv("SEED_ADMINS")
	if seed == "" {
		log.Fatal("SEED_ADMINS must be set (comma-separated email:password pairs)")
	}

	config.InitDB()
	db := config.GetDB()

	created, skipped := 0, 0
	for _, pair := range strings.Split(seed, ",") {
		email, password, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || email == "" || password == "" {
			log.Fatalf("malformed SEED_ADMINS entry %q", pair)
		}
		email = strings.ToLower(email)

		var existing models.User
		err := db.Where("email = ?", email).First(&existing).Error
		if err == nil {
			skipped++
			continue
		}
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("lookup failed for %s: %v", email, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("could not hash password for %s: %v", email, err)
		}

		admin := models.User{
			Email:     email,
			Password:  string(hash),
			FirstName: "Admin",
			LastName:  strings.Split(email, "@")[0],
			Role:      "admin",
			IsActive:  true,
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("could not create %s: %v", email, err)
		}
		created++
	}

	log.Printf("seed complete: %d created, %d skipped", created, skipped)
}
