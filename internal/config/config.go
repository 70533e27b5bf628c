package config

import (
	"log"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	AI       AIConfig
	Pipeline PipelineConfig
	History  HistoryConfig
}

type AppConfig struct {
	Port               string `validate:"required"`
	Environment        string `validate:"required,oneof=development production"`
	LogFilePath        string `validate:"required"`
	CorsAllowedOrigins string
}

type AIConfig struct {
	BaseURL        string `validate:"required,url"`
	APIKey         string
	Organization   string
	DescModel      string `validate:"required"`
	SummaryModel   string `validate:"required"`
	SentenceModel  string `validate:"required"`
	FAQModel       string `validate:"required"`
	TimeoutSeconds int    `validate:"gte=1"`
	RatePerSecond  float64
	RateBurst      int
	CacheTTLHours  int
}

type PipelineConfig struct {
	InputPath        string `validate:"required"`
	TemplatePath     string
	FAQTemplatePath  string
	OutputDir        string `validate:"required"`
	PromptLogPath    string
	MaxRecords       int
	MaxWorkers       int `validate:"gte=1"`
	FAQWorkers       int `validate:"gte=1"`
	MaxRetries       int `validate:"gte=0"`
	BaseDelayMillis  int `validate:"gte=1"`
	MaxFAQs          int
	DescTokens       int
	SummaryTokens    int
	SentenceTokens   int
	FAQAnswerTokens  int
	DryRun           bool
	GenerateFAQs     bool
	GenerateContent  bool
	WritePreviewHTML bool
}

type HistoryConfig struct {
	DatabasePath string `validate:"required"`
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/pipeline.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		AI: AIConfig{
			BaseURL:        getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			Organization:   getEnv("OPENAI_ORGANIZATION", ""),
			DescModel:      getEnv("OPENAI_DESCRIPTION_MODEL", "gpt-4o"),
			SummaryModel:   getEnv("OPENAI_SUMMARY_MODEL", "gpt-4o-mini"),
			SentenceModel:  getEnv("OPENAI_SENTENCE_MODEL", "gpt-4o-mini"),
			FAQModel:       getEnv("OPENAI_FAQ_MODEL", "gpt-4o-mini"),
			TimeoutSeconds: getEnvAsInt("OPENAI_TIMEOUT_SECONDS", 30),
			RatePerSecond:  getEnvAsFloat("OPENAI_RATE_PER_SECOND", 2),
			RateBurst:      getEnvAsInt("OPENAI_RATE_BURST", 4),
			CacheTTLHours:  getEnvAsInt("COMPLETION_CACHE_TTL_HOURS", 24),
		},
		Pipeline: PipelineConfig{
			InputPath:        getEnv("PIPELINE_INPUT_PATH", "data/database.json"),
			TemplatePath:     getEnv("PIPELINE_TEMPLATE_PATH", ""),
			FAQTemplatePath:  getEnv("PIPELINE_FAQ_TEMPLATE_PATH", ""),
			OutputDir:        getEnv("PIPELINE_OUTPUT_DIR", "outputs"),
			PromptLogPath:    getEnv("PIPELINE_PROMPT_LOG_PATH", ""),
			MaxRecords:       getEnvAsInt("PIPELINE_MAX_RECORDS", 0),
			MaxWorkers:       getEnvAsInt("PIPELINE_MAX_WORKERS", 4),
			FAQWorkers:       getEnvAsInt("PIPELINE_FAQ_WORKERS", 8),
			MaxRetries:       getEnvAsInt("PIPELINE_MAX_RETRIES", 3),
			BaseDelayMillis:  getEnvAsInt("PIPELINE_RETRY_BASE_DELAY_MS", 500),
			MaxFAQs:          getEnvAsInt("PIPELINE_MAX_FAQS", 0),
			DescTokens:       getEnvAsInt("PIPELINE_DESCRIPTION_TOKENS", 900),
			SummaryTokens:    getEnvAsInt("PIPELINE_SUMMARY_TOKENS", 300),
			SentenceTokens:   getEnvAsInt("PIPELINE_SENTENCE_TOKENS", 120),
			FAQAnswerTokens:  getEnvAsInt("PIPELINE_FAQ_ANSWER_TOKENS", 300),
			DryRun:           getEnvAsBool("PIPELINE_DRY_RUN", false),
			GenerateFAQs:     getEnvAsBool("PIPELINE_GENERATE_FAQS", true),
			GenerateContent:  getEnvAsBool("PIPELINE_GENERATE_CONTENT", true),
			WritePreviewHTML: getEnvAsBool("PIPELINE_WRITE_PREVIEW", true),
		},
		History: HistoryConfig{
			DatabasePath: getEnv("HISTORY_DB_PATH", "data/history.db"),
		},
	}
}

// Validate checks the loaded configuration against its struct tags.
func (c *Config) Validate() error {
	v := validator.New()
	for _, section := range []any{c.App, c.AI, c.Pipeline, c.History} {
		if err := v.Struct(section); err != nil {
			return err
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
