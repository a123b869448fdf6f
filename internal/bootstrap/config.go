package bootstrap

import (
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort    string `mapstructure:"SERVER_PORT"`
	MongoUri      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`
	RedisUrl      string `mapstructure:"REDIS_URL"`
	EnginePath    string `mapstructure:"ENGINE_PATH"`
	EngineDepth   int    `mapstructure:"ENGINE_DEPTH"`
	EngineHashMB  int    `mapstructure:"ENGINE_HASH_MB"`
	Workers       int    `mapstructure:"WORKERS"`
	IsLocalCors   bool   `mapstructure:"LOCAL_CORS"`
}

func Setup(cfgPath string) (*Config, error) {
	viper.SetConfigFile(cfgPath)

	viper.SetDefault("MONGO_DATABASE", "puzzler")
	viper.SetDefault("ENGINE_PATH", "stockfish")
	viper.SetDefault("ENGINE_DEPTH", 30)
	viper.SetDefault("ENGINE_HASH_MB", 256)
	viper.SetDefault("WORKERS", 4)

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
