package cmd

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/hh-matcher/internal/headhunter"
	"github.com/spigell/hh-matcher/internal/tracing"
)

const (
	app       = "hh-matcher"
	envPrefix = "HH_MATCHER"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Index      IndexConfig      `mapstructure:"index"`
	AI         AIConfig         `mapstructure:"ai"`
	Matching   MatchingConfig   `mapstructure:"matching"`
	Tracing    tracing.Config   `mapstructure:"tracing"`
	Headhunter HeadhunterConfig `mapstructure:"headhunter"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read-timeout"`
	WriteTimeout time.Duration `mapstructure:"write-timeout"`
}

type IndexConfig struct {
	Backend   string          `mapstructure:"backend"`
	Qdrant    QdrantConfig    `mapstructure:"qdrant"`
	Bolt      BoltConfig      `mapstructure:"bolt"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
}

type QdrantConfig struct {
	Host             string `mapstructure:"host"`
	Port             int    `mapstructure:"port"`
	APIKey           string `mapstructure:"api-key"`
	APIKeyFile       string `mapstructure:"api-key-file"`
	TLS              bool   `mapstructure:"tls"`
	CollectionPrefix string `mapstructure:"collection-prefix"`
}

type BoltConfig struct {
	Path string `mapstructure:"path"`
}

type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider"`
	Model      string `mapstructure:"model"`
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Dimension  int    `mapstructure:"dimension"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   GeminiConfig  `mapstructure:"gemini"`
	Reasons  ReasonsConfig `mapstructure:"reasons"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type ReasonsConfig struct {
	Max               int `mapstructure:"max"`
	Concurrency       int `mapstructure:"concurrency"`
	RequestsPerMinute int `mapstructure:"requests-per-minute"`
}

type MatchingConfig struct {
	DefaultTopK int `mapstructure:"default-top-k"`
}

type HeadhunterConfig struct {
	TokenFile string                   `mapstructure:"token-file"`
	UserAgent string                   `mapstructure:"user-agent"`
	Search    *headhunter.SearchParams `mapstructure:"search"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "hh-matcher matches job seekers and job postings by semantic similarity",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("headhunter.token-file", "HH_TOKEN_FILE"); err != nil {
		log.Fatalf("binding HH_TOKEN_FILE environment variable: %v", err)
	}

	setDefaults()
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hh-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.read-timeout", 15*time.Second)
	viper.SetDefault("server.write-timeout", 60*time.Second)

	viper.SetDefault("index.backend", backendQdrant)
	viper.SetDefault("index.qdrant.host", "localhost")
	viper.SetDefault("index.qdrant.port", 6334)
	viper.SetDefault("index.qdrant.api-key", "")
	viper.SetDefault("index.qdrant.api-key-file", "")
	viper.SetDefault("index.qdrant.tls", false)
	viper.SetDefault("index.qdrant.collection-prefix", app)
	viper.SetDefault("index.bolt.path", app+".db")
	viper.SetDefault("index.embedding.provider", embeddingGemini)
	viper.SetDefault("index.embedding.model", "")
	viper.SetDefault("index.embedding.api-key", "")
	viper.SetDefault("index.embedding.api-key-file", "")
	viper.SetDefault("index.embedding.dimension", 256)

	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.gemini.api-key", "")
	viper.SetDefault("ai.gemini.api-key-file", "")
	viper.SetDefault("ai.gemini.model", "")
	viper.SetDefault("ai.gemini.max-log-length", 200)
	viper.SetDefault("ai.reasons.max", 3)
	viper.SetDefault("ai.reasons.concurrency", 1)
	viper.SetDefault("ai.reasons.requests-per-minute", 0)

	viper.SetDefault("matching.default-top-k", 5)

	viper.SetDefault("tracing.endpoint", "")
	viper.SetDefault("tracing.sample-rate", 1.0)
	viper.SetDefault("tracing.insecure", true)

	viper.SetDefault("headhunter.user-agent", "")
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	// We can't proceed if the config file parsed with error.
	// A missing default config is fine: everything has a default or an env override.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
