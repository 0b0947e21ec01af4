package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/Septrum101/route53ddns/common/logger"
	"github.com/Septrum101/route53ddns/config"
	"github.com/Septrum101/route53ddns/controller"
	"github.com/Septrum101/route53ddns/helper"
)

func main() {
	configFile := flag.StringP("config", "c", "", "path to config file")
	printVersion := flag.BoolP("version", "v", false, "show version")
	flag.String("log-level", "", "log level, overrides LogLevel")
	flag.Parse()

	config.ShowVersion()
	if *printVersion {
		return
	}

	// init config
	v, err := config.New(*configFile, flag.CommandLine)
	if err != nil {
		log.Fatal(err)
	}
	c, err := config.Load(v)
	if err != nil {
		log.Fatal(err)
	}

	l, closer, err := logger.New(c.LogLevel, c.LogPath)
	if err != nil {
		log.Fatal(err)
	}
	defer closer.Close()

	if err := run(c, l); err != nil {
		l.Errorf("Fatal error: %v", err)
		closer.Close()
		os.Exit(1)
	}
}

func run(c *config.Config, l *log.Logger) error {
	unlock, err := helper.Lock(helper.LockPath(c.IPFilePath))
	if err != nil {
		if errors.Is(err, helper.ErrLocked) {
			l.Warnf("Skipping pass: %v", err)
			return nil
		}
		return err
	}
	defer unlock()

	s, err := controller.New(c, l)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := s.Run(ctx)
	l.Debugf("Pass finished: changed=%t succeeded=%d failed=%d", r.Changed, r.Succeeded(), r.Failed())

	return nil
}
