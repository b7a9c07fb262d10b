package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/anyproto/any-sync/metric"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/chatwire/push-relay/api"
	"github.com/chatwire/push-relay/config"
	"github.com/chatwire/push-relay/db"
	"github.com/chatwire/push-relay/relay"
	"github.com/chatwire/push-relay/repo/profilerepo"
	"github.com/chatwire/push-relay/sender"
	"github.com/chatwire/push-relay/sender/provider/fcm"
)

var log = logger.NewNamed("main")

// populated by govvv at build time
var (
	GitCommit  string
	GitSummary string
	BuildDate  string
)

var (
	flagConfigFile = flag.String("c", "etc/config.yml", "path to config file")
	flagVersion    = flag.Bool("v", false, "show version and exit")
)

func main() {
	flag.Parse()
	if *flagVersion {
		fmt.Printf("version: %s (%s)\nbuild date: %s\n", GitSummary, GitCommit, BuildDate)
		return
	}
	_ = godotenv.Load()

	var (
		conf *config.Config
		err  error
	)
	if _, statErr := os.Stat(*flagConfigFile); statErr == nil {
		if conf, err = config.NewFromFile(*flagConfigFile); err != nil {
			log.Fatal("can't parse config", zap.Error(err))
		}
	} else {
		conf = config.NewFromEnv()
	}

	a := new(app.App)
	Bootstrap(a, conf)

	ctx := context.Background()
	if err = a.Start(ctx); err != nil {
		log.Fatal("can't start app", zap.Error(err))
	}
	log.Info("app started", zap.String("version", GitSummary))

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGABRT, syscall.SIGTERM, syscall.SIGQUIT)
	sig := <-exit
	log.Info("received exit signal, stop app...", zap.String("signal", fmt.Sprint(sig)))

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err = a.Close(ctx); err != nil {
		log.Fatal("close error", zap.Error(err))
	}
	log.Info("goodbye!")
}

func Bootstrap(a *app.App, conf *config.Config) {
	a.Register(conf).
		Register(metric.New()).
		Register(db.New()).
		Register(profilerepo.New()).
		Register(sender.New()).
		Register(fcm.New()).
		Register(api.New()).
		Register(relay.New())
}
