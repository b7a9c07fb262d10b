package config

import (
	"os"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/metric"
	"gopkg.in/yaml.v3"

	"github.com/chatwire/push-relay/api"
	"github.com/chatwire/push-relay/db"
	"github.com/chatwire/push-relay/sender/provider/fcm"
)

const CName = "config"

func NewFromFile(path string) (c *Config, err error) {
	c = &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	c.applyEnv()
	return
}

// NewFromEnv builds a config without a yaml file, for env-only deployments.
func NewFromEnv() (c *Config) {
	c = &Config{}
	c.applyEnv()
	return
}

type Config struct {
	Api    api.Config    `yaml:"api"`
	Mongo  db.Mongo      `yaml:"mongo"`
	Metric metric.Config `yaml:"metric"`
	FCM    fcm.Config    `yaml:"fcm"`
}

// applyEnv fills any field the yaml left empty. Missing mongo or fcm settings
// are valid and select degraded mode.
func (c *Config) applyEnv() {
	if c.Api.ListenAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			c.Api.ListenAddr = ":" + port
		} else {
			c.Api.ListenAddr = ":8080"
		}
	}
	if c.Mongo.Connect == "" {
		c.Mongo.Connect = os.Getenv("MONGO_CONNECT")
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = os.Getenv("MONGO_DATABASE")
		if c.Mongo.Database == "" {
			c.Mongo.Database = "pushrelay"
		}
	}
	if c.FCM.CredentialsFile == "" {
		c.FCM.CredentialsFile = os.Getenv("FCM_CREDENTIALS_FILE")
	}
	if c.Metric.Addr == "" {
		c.Metric.Addr = os.Getenv("METRIC_ADDR")
	}
}

func (c *Config) Init(a *app.App) (err error) {
	return nil
}

func (c *Config) Name() (name string) {
	return CName
}

func (c *Config) GetApi() api.Config {
	return c.Api
}

func (c *Config) GetMongo() db.Mongo {
	return c.Mongo
}

func (c *Config) GetMetric() metric.Config {
	return c.Metric
}

func (c *Config) GetFCM() fcm.Config {
	return c.FCM
}
