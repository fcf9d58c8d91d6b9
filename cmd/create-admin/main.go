// Command create-admin provisions an administrator account.  Admins are
// never created through the public registration endpoint, which only
// issues voter accounts gated by the eligibility roster.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/univote/campus-election-api/internal/config"
	"github.com/univote/campus-election-api/internal/database"
	"github.com/univote/campus-election-api/internal/model"
	"github.com/univote/campus-election-api/internal/repository"
	"github.com/univote/campus-election-api/internal/utils"
)

func main() {
	email := flag.String("email", "", "admin email address")
	name := flag.String("name", "", "admin display name")
	matric := flag.String("matric", "", "admin matric or staff number")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if *email == "" || *name == "" || *matric == "" || *password == "" {
		log.Fatal("usage: create-admin -email ... -name ... -matric ... -password ...")
	}

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	users := repository.NewUserRepo(db)
	uid, err := users.Create(ctx,
		utils.NormalizeEmail(*email), *name, utils.NormalizeMatric(*matric),
		*password, model.RoleAdmin, cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrAlreadyRegistered {
			log.Fatal("an account with that email or matric number already exists")
		}
		log.Fatalf("create admin: %v", err)
	}

	log.Printf("admin account created (id=%d, email=%s)", uid, *email)
}
