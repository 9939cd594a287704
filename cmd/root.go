package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "voluntree"

	defaultPort      = 8080
	defaultStateFile = "voluntree.db"
)

type Config struct {
	Server  *ServerConfig  `mapstructure:"server"`
	Catalog *CatalogConfig `mapstructure:"catalog"`
	State   *StateConfig   `mapstructure:"state"`
	AI      *AIConfig      `mapstructure:"ai"`
	Quiz    *QuizConfig    `mapstructure:"quiz"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type CatalogConfig struct {
	// File points to a JSON catalog replacing the embedded seed data.
	File string `mapstructure:"file"`
}

type StateConfig struct {
	File string `mapstructure:"file"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	OpenAI   *OpenAIConfig `mapstructure:"openai"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type OpenAIConfig struct {
	BaseURL        string  `mapstructure:"base-url"`
	APIKey         string  `mapstructure:"api-key"`
	APIKeyFile     string  `mapstructure:"api-key-file"`
	Model          string  `mapstructure:"model"`
	MaxTokens      int     `mapstructure:"max-tokens"`
	Temperature    float64 `mapstructure:"temperature"`
	MaxRetries     int     `mapstructure:"max-retries"`
	TimeoutSeconds int     `mapstructure:"timeout-seconds"`
	MaxLogLength   int     `mapstructure:"max-log-length"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type QuizConfig struct {
	URL            string `mapstructure:"url"`
	TimeoutSeconds int    `mapstructure:"timeout-seconds"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "voluntree is a volunteer opportunity finder with AI-assisted recommendations",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.openai.api-key", "OPENAI_API_KEY"); err != nil {
		log.Fatalf("binding OPENAI_API_KEY environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is voluntree.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config matters only for the serve and profile commands.
	if serveCmd.CalledAs() == "" && profileCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Every setting has a default, so a missing config file is fine.
		// A present but unparseable one is not.
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound && cfgFile == "" {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaultPort
	}
	if config.State == nil {
		config.State = &StateConfig{}
	}
	if config.State.File == "" {
		config.State.File = defaultStateFile
	}

	return config, nil
}
