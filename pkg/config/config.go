package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	DB       DBConfig       `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Chain    ChainConfig    `mapstructure:"chain"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Signer   SignerConfig   `mapstructure:"signer"`
	Payment  PaymentConfig  `mapstructure:"payment"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	HttpPort string `mapstructure:"http_port"`
	GrpcPort string `mapstructure:"grpc_port"`
}

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	MQType   string `mapstructure:"mq_type"` // "redis" or "kafka"
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
}

type ChainConfig struct {
	RpcUrl       string `mapstructure:"rpc_url"`
	TokenAddress string `mapstructure:"token_address"` // ERC-20 contract for the stablecoin
	TokenSymbol  string `mapstructure:"token_symbol"`
	TokenDecimals int32 `mapstructure:"token_decimals"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	Enabled  bool   `mapstructure:"enabled"`
}

type SignerConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout_seconds"`
}

type PaymentConfig struct {
	// PendingTTLMinutes is how long a transaction may stay pending before
	// the reconciliation job fails it.
	PendingTTLMinutes int `mapstructure:"pending_ttl_minutes"`
}

var Global Config

func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Warning: Config file not found, using defaults and environment variables")
		} else {
			log.Fatalf("Fatal error config file: %s \n", err)
		}
	}

	if err := viper.Unmarshal(&Global); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	log.Printf("Configuration loaded successfully. Env: %s", Global.App.Env)
}

func setDefaults() {
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.http_port", "8080")
	viper.SetDefault("app.grpc_port", "50051")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.user", "paygram_user")
	viper.SetDefault("db.password", "paygram_password")
	viper.SetDefault("db.name", "paygram_db")

	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.mq_type", "redis")

	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})

	// Avalanche Fuji testnet and its USDC deployment.
	viper.SetDefault("chain.rpc_url", "https://api.avax-test.network/ext/bc/C/rpc")
	viper.SetDefault("chain.token_address", "0x5425890298aed601595a70AB815c96711a31Bc65")
	viper.SetDefault("chain.token_symbol", "USDC")
	viper.SetDefault("chain.token_decimals", 6)

	viper.SetDefault("telegram.enabled", false)

	viper.SetDefault("signer.base_url", "http://localhost:4100")
	viper.SetDefault("signer.timeout_seconds", 15)

	viper.SetDefault("payment.pending_ttl_minutes", 30)
}
