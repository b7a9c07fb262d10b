package db

import (
	"context"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const CName = "db"

var log = logger.NewNamed(CName)

type Mongo struct {
	Connect  string `yaml:"connect"`
	Database string `yaml:"database"`
}

type configSource interface {
	GetMongo() Mongo
}

func New() Database {
	return new(database)
}

// Database provides the mongo handle for the repo packages. When no connect
// string is configured the component stays registered but disabled, which puts
// the service into degraded mode instead of failing at startup.
type Database interface {
	Db() *mongo.Database
	Enabled() bool
	app.ComponentRunnable
}

type database struct {
	conf   Mongo
	client *mongo.Client
	db     *mongo.Database
}

func (d *database) Init(a *app.App) (err error) {
	d.conf = a.MustComponent("config").(configSource).GetMongo()
	if d.conf.Connect == "" {
		log.Warn("mongo is not configured, profile store disabled")
		return
	}
	if d.client, err = mongo.Connect(context.Background(), options.Client().ApplyURI(d.conf.Connect)); err != nil {
		return
	}
	d.db = d.client.Database(d.conf.Database)
	return
}

func (d *database) Name() (name string) {
	return CName
}

func (d *database) Run(ctx context.Context) (err error) {
	if d.client == nil {
		return
	}
	pingCtx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()
	if err = d.client.Ping(pingCtx, nil); err != nil {
		log.Warn("mongo ping failed", zap.Error(err))
		return nil
	}
	return
}

func (d *database) Db() *mongo.Database {
	return d.db
}

func (d *database) Enabled() bool {
	return d.db != nil
}

func (d *database) Close(ctx context.Context) (err error) {
	if d.client != nil {
		return d.client.Disconnect(ctx)
	}
	return
}
