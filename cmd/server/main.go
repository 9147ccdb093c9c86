package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/quartz"
	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"shipcaptaincrew-server/internal/config"
	"shipcaptaincrew-server/internal/mux"
	"shipcaptaincrew-server/pkg/db"
	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew"
	"shipcaptaincrew-server/pkg/room"
	"shipcaptaincrew-server/pkg/table"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10
const shutdownTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", ":5000", "the listen address")

func main() {
	flag.Parse()
	setupLogger()

	// run the db migrations
	if err := db.Migrate(); err != nil {
		logrus.WithError(err).Fatal("could not run migrations")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	pitBoss := room.NewPitBoss()
	pitBoss.StartShift()
	defer pitBoss.EndShift()

	clock := quartz.NewReal()
	for _, tc := range config.Instance().Tables {
		writer, err := openTable(ctx, pitBoss, tc, clock)
		if err != nil {
			logrus.WithError(err).WithField("uuid", tc.UUID).Fatal("could not open table")
		}

		g.Go(func() error {
			return writer.Run(ctx)
		})
	}

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "ShipCaptainCrew-PlayerID"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      loggingHandler(c.Handler(mux.NewMux(Version, pitBoss))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	g.Go(func() error {
		logrus.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logrus.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}

// openTable restores a table from the database and seats its computer players
func openTable(ctx context.Context, pitBoss *room.PitBoss, tc config.Table, clock quartz.Clock) (*room.LedgerWriter, error) {
	name := tc.Name
	if name == "" {
		name = tc.UUID
	}

	tbl, err := table.EnsureTable(ctx, tc.UUID, name)
	if err != nil {
		return nil, err
	}

	restore, err := tbl.LoadRestore(ctx)
	if err != nil {
		return nil, err
	}

	logger := logrus.StandardLogger()
	writer := room.NewLedgerWriter(logger.WithField("uuid", tbl.UUID), tbl, clock)
	game, err := shipcaptaincrew.NewGame(logger, shipcaptaincrew.Config{
		TableUUID: tbl.UUID,
		Options:   tc.Options,
		Clock:     clock,
		Ledger:    writer,
		Restore:   restore,
	})
	if err != nil {
		return nil, err
	}

	for _, bot := range tc.Bots {
		buyIn := bot.BuyIn
		if buyIn == 0 {
			buyIn = tc.Options.MinBuyIn
		}

		if _, err := game.AddBot(bot.Personality, buyIn); err != nil {
			return nil, err
		}
	}

	pitBoss.OpenTable(room.NewDealer(logger, tbl.UUID, tbl.Name, game, clock))
	logrus.WithFields(logrus.Fields{
		"uuid":  tbl.UUID,
		"name":  tbl.Name,
		"chest": game.ChestBalance(),
		"bots":  len(tc.Bots),
	}).Info("table open")

	return writer, nil
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
