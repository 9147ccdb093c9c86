package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"shipcaptaincrew-server/internal/config"
)

func main() {
	cfg := config.Starter()
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("starter config is invalid")
	}

	if err := yaml.NewEncoder(os.Stdout).Encode(cfg); err != nil {
		logrus.WithError(err).Fatal("could not encode config")
	}
}
