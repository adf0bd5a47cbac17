package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"github.com/vulnbank/bankshell/internal/api"
	"github.com/vulnbank/bankshell/internal/config"
	"github.com/vulnbank/bankshell/internal/logging"
	"github.com/vulnbank/bankshell/internal/navigation"
	"github.com/vulnbank/bankshell/internal/screens"
	"github.com/vulnbank/bankshell/internal/session"
	"github.com/vulnbank/bankshell/internal/shell"
	"github.com/vulnbank/bankshell/internal/tokenstore"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogsPath,
		LogToStdout:   cfg.LogToStdout,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: false,
		Environment:   cfg.Environment,
		SentryEnabled: cfg.SentryEnabled,
		SentryDSN:     sentryDSN,
	})

	log.Debugf("using banking api: %s", cfg.APIBaseURL)
	log.Debugf("using logs path: [%s]", cfg.LogsPath)

	redisPassword := os.Getenv("BANKSHELL_REDIS_PASS")

	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: redisPassword,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		// the client still works, the session just won't survive restarts
		log.Warnf("redis ping failed, session resume unavailable: %s", err)
	}

	apiClient := api.NewClient(cfg.APIBaseURL, &http.Client{
		Timeout: 30 * time.Second,
	})

	sh := shell.New(os.Stdin, os.Stdout, apiClient)
	sessions := session.NewManager(tokenstore.NewRedisStore(rdb), apiClient, sh)
	nav := navigation.NewNavigator(sessions)
	sessions.AttachNavigator(nav)
	fetcher := screens.NewFetcher(apiClient, sessions, sh)
	nav.SetListener(fetcher.ScreenEntered)
	sh.Bind(sessions, nav, fetcher)

	// try to pick up where we left off
	sessions.Resume(ctx)

	if err := sh.Run(ctx); err != nil {
		log.Errorf("shell stopped: %s", err)
	}
	fmt.Println("bye")
}
