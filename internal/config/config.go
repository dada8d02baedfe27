package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// Completion provider
	LLMProvider              string
	OpenAIAPIKey             string
	OpenAIBaseURL            string
	OpenAIModel              string
	GeminiAPIKey             string
	GeminiModel              string
	BedrockModelID           string
	CompletionMaxTokens      int
	CompletionTemperature    float64
	CompletionMaxAttempts    int
	CompletionRetryBaseDelay time.Duration
	CompletionTimeout        time.Duration
	ChatHistoryMaxTurns      int

	// Persona and reply shaping
	PersonaPrompt      string
	ContactPhone       string
	WebsiteURL         string
	WhatsAppGreeting   string
	WhatsAppLinkFormat string
	LeadTriggerPhrases []string
	LeadSignalToken    string

	// Lead forwarding
	LeadsWebhookURL     string
	LeadsWebhookTimeout time.Duration
	LeadNotifyProvider  string
	LeadNotifyTo        string

	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int
	RedisAddr      string
	RedisPassword  string
	RedisTLS       bool

	// AWS (Bedrock, SES)
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// SendGrid Email Configuration
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
}

const defaultLeadsWebhookURL = "https://script.google.com/macros/s/AKfycbzJzjMUfhTLQ5JakBmRq3j8SwgTrMFnCWdd1N4q03ihoZ6AgGHCIOjA00oAhwYnYYX5/exec"

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first when present; real environment values win.
func Load() *Config {
	// .env is optional; godotenv never overrides variables already set.
	_ = godotenv.Load()

	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		LLMProvider:              strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", "openai"))),
		OpenAIAPIKey:             getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:            getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:              getEnv("OPENAI_MODEL", "gpt-4"),
		GeminiAPIKey:             getEnv("GEMINI_API_KEY", ""),
		GeminiModel:              getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		BedrockModelID:           getEnv("BEDROCK_MODEL_ID", ""),
		CompletionMaxTokens:      getEnvAsInt("COMPLETION_MAX_TOKENS", 200),
		CompletionTemperature:    getEnvAsFloat("COMPLETION_TEMPERATURE", 0.7),
		CompletionMaxAttempts:    getEnvAsInt("COMPLETION_MAX_ATTEMPTS", 3),
		CompletionRetryBaseDelay: getEnvAsDuration("COMPLETION_RETRY_BASE_DELAY", time.Second),
		CompletionTimeout:        getEnvAsDuration("COMPLETION_TIMEOUT", 30*time.Second),
		ChatHistoryMaxTurns:      getEnvAsInt("CHAT_HISTORY_MAX_TURNS", 20),

		PersonaPrompt:      getEnv("PERSONA_PROMPT", ""),
		ContactPhone:       getEnv("CONTACT_PHONE", "+52 55 28 50 37 66"),
		WebsiteURL:         getEnv("WEBSITE_URL", "https://minitienda.online"),
		WhatsAppGreeting:   getEnv("WHATSAPP_GREETING", "Hola, me gustaría obtener más información sobre sus productos."),
		WhatsAppLinkFormat: strings.ToLower(getEnv("WHATSAPP_LINK_FORMAT", "url")),
		LeadTriggerPhrases: getEnvAsList("LEAD_TRIGGER_PHRASES", []string{"para ayudarte mejor", "necesitamos algunos datos"}),
		LeadSignalToken:    getEnv("LEAD_SIGNAL_TOKEN", "[[LEAD]]"),

		LeadsWebhookURL:     getEnv("LEADS_WEBHOOK_URL", defaultLeadsWebhookURL),
		LeadsWebhookTimeout: getEnvAsDuration("LEADS_WEBHOOK_TIMEOUT", 15*time.Second),
		LeadNotifyProvider:  strings.ToLower(getEnv("LEAD_NOTIFY_PROVIDER", "")),
		LeadNotifyTo:        getEnv("LEAD_NOTIFY_TO", ""),

		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 1),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 10),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisTLS:       getEnvAsBool("REDIS_TLS", false),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Zentix"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if strings.TrimSpace(valueStr) == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
