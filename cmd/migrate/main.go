package main

import (
	"time"

	"github.com/sirupsen/logrus"

	"shipcaptaincrew-server/pkg/db"
)

func main() {
	waitForDB()
	if err := db.Migrate(); err != nil {
		logrus.WithError(err).Fatal("could not run migrations")
	}

	logrus.Info("migrations complete")
}

func waitForDB() {
	timeout := time.NewTimer(time.Second * 10)
	defer timeout.Stop()

	for {
		err := db.LoadInstance()
		if err == nil {
			return
		}

		logrus.WithError(err).Debug("waiting for database")
		select {
		case <-timeout.C:
			logrus.WithError(err).Fatal("could not connect to database")
		case <-time.After(time.Millisecond * 500):
		}
	}
}
