package main

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLMProvider     string `yaml:"llm_provider"`
	LLMModel        string `yaml:"llm_model"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`

	Language     string `yaml:"language"`
	ProfilesPath string `yaml:"profiles_path"`

	DBPath       string `yaml:"db_path"`
	RegistryPath string `yaml:"registry_path"`
	OutputPath   string `yaml:"output_path"`

	ImportDir      string `yaml:"import_dir"`
	ImportSchedule string `yaml:"import_schedule"`

	SlackBotToken   string `yaml:"slack_bot_token"`
	NotifyChannelID string `yaml:"notify_channel_id"`
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.LLMProvider, "LLM_PROVIDER")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	envOverride(&cfg.Language, "LANGUAGE")
	envOverride(&cfg.ProfilesPath, "PROFILES_PATH")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.RegistryPath, "REGISTRY_PATH")
	envOverride(&cfg.OutputPath, "OUTPUT_PATH")
	envOverride(&cfg.ImportDir, "IMPORT_DIR")
	envOverride(&cfg.ImportSchedule, "IMPORT_SCHEDULE")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.NotifyChannelID, "NOTIFY_CHANNEL_ID")

	// Defaults
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = "anthropic"
	}
	if cfg.Language == "" {
		cfg.Language = "German"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./ankigen.db"
	}
	if cfg.RegistryPath == "" {
		cfg.RegistryPath = "./deck_registry.json"
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = "./deck_package.json"
	}
	if cfg.ImportDir == "" {
		cfg.ImportDir = "./import"
	}

	switch cfg.LLMProvider {
	case "anthropic", "openai":
	default:
		log.Fatalf("llm_provider must be 'anthropic' or 'openai', got '%s'", cfg.LLMProvider)
	}

	return cfg
}

// RequireProviderKey validates the API key for the configured provider.
// Called only by the PDF pipeline; import and watch modes never touch the
// model service and run without a key.
func (c Config) RequireProviderKey() {
	switch c.LLMProvider {
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			log.Fatalf("anthropic_api_key is required when llm_provider=anthropic")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			log.Fatalf("openai_api_key is required when llm_provider=openai")
		}
	}
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
