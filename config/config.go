package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server      Server
	Database    Database
	Gemini      Gemini
	Generation  Generation
	Redis       Redis
	Recommender Recommender
	Log         Log
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string `json:"-"`
	Name     string
}

// Enabled reports whether a document store is configured.
func (d Database) Enabled() bool {
	return d.Host != ""
}

type Gemini struct {
	APIKey            string `json:"-"`
	Model             string
	EnrichmentTimeout time.Duration
}

type Generation struct {
	BatchSize   int
	MaxInFlight int
	Timeout     time.Duration
	CacheTTL    time.Duration
}

type Redis struct {
	URL string `json:"-"`
}

type Recommender struct {
	DatasetPath string
	Neighbors   int
}

type Log struct {
	Level  string
	Pretty bool
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("MODEL_NAME", "gemini-2.5-flash")
	viper.SetDefault("ENRICHMENT_TIMEOUT", "45s")
	viper.SetDefault("GENERATION_BATCH_SIZE", 5)
	viper.SetDefault("GENERATION_MAX_IN_FLIGHT", 4)
	viper.SetDefault("GENERATION_TIMEOUT", "60s")
	viper.SetDefault("GENERATION_CACHE_TTL", "10m")
	viper.SetDefault("RECOMMENDER_DATASET", "model/students.csv")
	viper.SetDefault("RECOMMENDER_NEIGHBORS", 3)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", true)
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Gemini.APIKey = viper.GetString("GEMINI_API_KEY")
	config.Gemini.Model = viper.GetString("MODEL_NAME")
	config.Gemini.EnrichmentTimeout = viper.GetDuration("ENRICHMENT_TIMEOUT")

	config.Generation.BatchSize = viper.GetInt("GENERATION_BATCH_SIZE")
	config.Generation.MaxInFlight = viper.GetInt("GENERATION_MAX_IN_FLIGHT")
	config.Generation.Timeout = viper.GetDuration("GENERATION_TIMEOUT")
	config.Generation.CacheTTL = viper.GetDuration("GENERATION_CACHE_TTL")

	config.Redis.URL = viper.GetString("REDIS_URL")

	config.Recommender.DatasetPath = viper.GetString("RECOMMENDER_DATASET")
	config.Recommender.Neighbors = viper.GetInt("RECOMMENDER_NEIGHBORS")

	config.Log.Level = viper.GetString("LOG_LEVEL")
	config.Log.Pretty = viper.GetBool("LOG_PRETTY")

	if config.Generation.BatchSize <= 0 {
		log.Warn().Int("batchSize", config.Generation.BatchSize).Msg("GENERATION_BATCH_SIZE must be positive, using 5")
		config.Generation.BatchSize = 5
	}
	if config.Generation.MaxInFlight <= 0 {
		config.Generation.MaxInFlight = 1
	}
	if config.Recommender.Neighbors <= 0 {
		config.Recommender.Neighbors = 3
	}

	// Secrets are tagged json:"-" and never reach this line.
	log.Info().Interface("config", config).Msg("Config loaded")
	return &config, nil

}
