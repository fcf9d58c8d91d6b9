package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/univote/campus-election-api/internal/config"
	"github.com/univote/campus-election-api/internal/database"
	"github.com/univote/campus-election-api/internal/handler"
	"github.com/univote/campus-election-api/internal/middleware"
	"github.com/univote/campus-election-api/internal/queue"
	"github.com/univote/campus-election-api/internal/repository"
	"github.com/univote/campus-election-api/internal/router"
)

func main() {
	// .env is optional; real deployments set variables in the environment.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	migCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(migCtx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	roster := repository.NewEligibleVoterRepo(db)
	elections := repository.NewElectionRepo(db)
	posts := repository.NewPostRepo(db)
	candidates := repository.NewCandidateRepo(db)
	votes := repository.NewVoteRepo(db)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, roster, tokens)
	electionH := handler.NewElectionHandler(elections, posts)
	postH := handler.NewPostHandler(posts, candidates)
	candidateH := handler.NewCandidateHandler(candidates)
	voterH := handler.NewEligibleVoterHandler(roster)
	userH := handler.NewUserHandler(users)
	voteH := handler.NewVoteHandler(votes, posts, candidates)

	// Background consumer writes the vote audit log; it reconnects on
	// broker failures and never takes the API down.
	go func() {
		if err := queue.StartVoteConsumer(); err != nil {
			log.Printf("vote consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, electionH, postH, candidateH, voteH, cache)
	router.RegisterVoting(e, voteH, cfg.JWTSecret)
	router.RegisterAdmin(e, electionH, postH, candidateH, voterH, userH, voteH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
