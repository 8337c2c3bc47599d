package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Catalog CatalogConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	catalog, err := loadCatalogConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Catalog: catalog}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// Provider 选择对话 Agent 的后端。
type Provider string

const (
	ProviderArk    Provider = "ark"
	ProviderGemini Provider = "gemini"
	ProviderMock   Provider = "mock"
)

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	Provider     Provider
	APIKey       string
	AccessKey    string
	SecretKey    string
	Model        string
	BaseURL      string
	Region       string
	Temperature  *float64
	TopP         *float64
	MaxTokens    *int
	HistoryLimit int

	GeminiAPIKey string
	GeminiModel  string
	GCPProject   string
	GCPLocation  string
}

// CatalogConfig 描述菜谱目录的存储后端。
type CatalogConfig struct {
	Backend    string
	Project    string
	Collection string
	// Seed 为内存后端预置示例菜谱。
	Seed bool
	// SeedFile 指定 TOML 格式的种子文件，优先于内置示例。
	SeedFile string
}

// GeminiEnabled 表示是否可以连接 Gemini API 或 Vertex AI。
func (c AIConfig) GeminiEnabled() bool {
	return c.GeminiAPIKey != "" || (c.GCPProject != "" && c.GCPLocation != "")
}

// Enabled 表示是否提供了必需的 Ark 密钥。
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("Ark 凭证或模型配置缺失，至少提供 ARK_API_KEY + Model 或 AK/SK 组合")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	var maxTokens *int
	if c.MaxTokens != nil {
		val := *c.MaxTokens
		maxTokens = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	historyLimit := 20
	if historyOverride, err := parseOptionalIntEnv("AGENT_HISTORY_LIMIT"); err != nil {
		return AIConfig{}, err
	} else if historyOverride != nil {
		if *historyOverride < 1 {
			historyLimit = 1
		} else {
			historyLimit = *historyOverride
		}
	}

	cfg := AIConfig{
		APIKey:       strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:    strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:    strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:        strings.TrimSpace(os.Getenv("Model")),
		BaseURL:      getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:       getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature:  temperature,
		TopP:         topP,
		MaxTokens:    maxTokens,
		HistoryLimit: historyLimit,
		GeminiAPIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:  getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		GCPProject:   strings.TrimSpace(os.Getenv("GOOGLE_CLOUD_PROJECT")),
		GCPLocation:  strings.TrimSpace(os.Getenv("GOOGLE_CLOUD_LOCATION")),
	}

	provider, err := parseProvider(os.Getenv("AGENT_PROVIDER"), cfg)
	if err != nil {
		return AIConfig{}, err
	}
	cfg.Provider = provider
	return cfg, nil
}

// parseProvider 未显式指定时按可用凭证推断：Ark 优先，其次 Gemini，最后 mock。
func parseProvider(raw string, cfg AIConfig) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(raw))); p {
	case ProviderArk, ProviderGemini, ProviderMock:
		return p, nil
	case "":
		switch {
		case cfg.Enabled():
			return ProviderArk, nil
		case cfg.GeminiEnabled():
			return ProviderGemini, nil
		default:
			return ProviderMock, nil
		}
	default:
		return "", fmt.Errorf("invalid AGENT_PROVIDER value %q", raw)
	}
}

func loadCatalogConfig() (CatalogConfig, error) {
	backend := strings.ToLower(getEnvOrDefault("CATALOG_BACKEND", "memory"))
	project := getEnvOrDefault("FIRESTORE_PROJECT", strings.TrimSpace(os.Getenv("GOOGLE_CLOUD_PROJECT")))

	switch backend {
	case "memory":
	case "firestore":
		if project == "" {
			return CatalogConfig{}, fmt.Errorf("CATALOG_BACKEND=firestore 需要 FIRESTORE_PROJECT 或 GOOGLE_CLOUD_PROJECT")
		}
	default:
		return CatalogConfig{}, fmt.Errorf("invalid CATALOG_BACKEND value %q", backend)
	}

	seed, err := parseBoolEnv("CATALOG_SEED", true)
	if err != nil {
		return CatalogConfig{}, err
	}

	return CatalogConfig{
		Backend:    backend,
		Project:    project,
		Collection: getEnvOrDefault("CATALOG_COLLECTION", "recipes"),
		Seed:       seed,
		SeedFile:   strings.TrimSpace(os.Getenv("CATALOG_SEED_FILE")),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
