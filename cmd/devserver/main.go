package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vulnbank/bankshell/internal/devserver"
	"github.com/vulnbank/bankshell/internal/logging"
)

// devserver runs a local fake of the Vuln Bank backend, so bankshell can
// be developed without the real thing. Seeded credentials are printed on
// startup.
func main() {
	port := flag.Int("port", 5000, "port to listen on")
	logLevel := flag.String("log-level", "trace", "log level [trace|debug|info|warn|error]")
	flag.Parse()

	logging.Setup(logging.LoggerSetupParams{
		LogToStdout: true,
		LogLevel:    *logLevel,
		Environment: "development",
	})

	srv, err := devserver.New()
	if err != nil {
		log.Fatalf("create dev server: %s", err)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      srv,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("dev bank api listening on :%d", *port)
		log.Infof("seeded users: %s/%s (admin, account %s), %s/%s (account %s)",
			devserver.SeedAdminUsername, devserver.SeedAdminPassword, devserver.SeedAdminAccount,
			devserver.SeedUserUsername, devserver.SeedUserPassword, devserver.SeedUserAccount,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen and serve: %s", err)
		}
	}()

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)
	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, shutting down ...", receivedSig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Errorf("shutdown: %s", err)
	}
}
