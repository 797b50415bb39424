package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	jsonschema "github.com/reoring/jsonschema"
	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration.
type Config struct {
	App      AppConfig      `json:"app"`
	Database DatabaseConfig `json:"database"`
	Redis    RedisConfig    `json:"redis"`
	Logging  LoggingConfig  `json:"logging"`
	Features FeaturesConfig `json:"features"`
}

type AppConfig struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Environment string            `json:"environment"`
	Port        int               `json:"port"`
	Host        string            `json:"host"`
	TLS         TLSConfig         `json:"tls"`
	Cors        CorsConfig        `json:"cors"`
	Metadata    map[string]string `json:"metadata"`
}

type TLSConfig struct {
	Enabled  bool   `json:"enabled"`
	CertFile string `json:"certFile"`
	KeyFile  string `json:"keyFile"`
}

type CorsConfig struct {
	Enabled bool     `json:"enabled"`
	Origins []string `json:"origins"`
}

type DatabaseConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	Database     string `json:"database"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	MaxConns     int    `json:"maxConns"`
	MaxIdleConns int    `json:"maxIdleConns"`
	SSLMode      string `json:"sslMode"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database int    `json:"database"`
	Password string `json:"password"`
	PoolSize int    `json:"poolSize"`
}

type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
	Output string `json:"output"`
}

type FeaturesConfig struct {
	Analytics bool `json:"analytics"`
	Debugging bool `json:"debugging"`
}

// configSchemaDoc describes the Config shape above as a JSON Schema
// document. Unlike the original typed-DSL version, defaulting is not part
// of validation here: zero values for omitted fields come from Go's normal
// zero-value semantics once the YAML is unmarshaled into Config, and
// applyDefaults below fills in the handful of defaults the original schema
// carried.
var configSchemaDoc = map[string]any{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type":    "object",
	"properties": map[string]any{
		"app": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":        map[string]any{"type": "string"},
				"version":     map[string]any{"type": "string"},
				"environment": map[string]any{"type": "string"},
				"port":        map[string]any{"type": "integer", "minimum": 1, "maximum": 65535},
				"host":        map[string]any{"type": "string"},
				"tls": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"enabled":  map[string]any{"type": "boolean"},
						"certFile": map[string]any{"type": "string"},
						"keyFile":  map[string]any{"type": "string"},
					},
					"additionalProperties": false,
				},
				"cors": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"enabled": map[string]any{"type": "boolean"},
						"origins": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					},
					"additionalProperties": false,
				},
				"metadata": map[string]any{
					"type":                 "object",
					"additionalProperties": map[string]any{"type": "string"},
				},
			},
			"required":             []any{"name", "version"},
			"additionalProperties": false,
		},
		"database": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"host":         map[string]any{"type": "string"},
				"port":         map[string]any{"type": "integer"},
				"database":     map[string]any{"type": "string"},
				"username":     map[string]any{"type": "string"},
				"password":     map[string]any{"type": "string"},
				"maxConns":     map[string]any{"type": "integer"},
				"maxIdleConns": map[string]any{"type": "integer"},
				"sslMode":      map[string]any{"type": "string"},
			},
			"required":             []any{"host", "database", "username"},
			"additionalProperties": false,
		},
		"redis": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"host":     map[string]any{"type": "string"},
				"port":     map[string]any{"type": "integer"},
				"database": map[string]any{"type": "integer"},
				"password": map[string]any{"type": "string"},
				"poolSize": map[string]any{"type": "integer"},
			},
			"additionalProperties": false,
		},
		"logging": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"level":  map[string]any{"type": "string", "enum": []any{"debug", "info", "warn", "error"}},
				"format": map[string]any{"type": "string"},
				"output": map[string]any{"type": "string"},
			},
			"additionalProperties": false,
		},
		"features": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"analytics": map[string]any{"type": "boolean"},
				"debugging": map[string]any{"type": "boolean"},
			},
			"additionalProperties": false,
		},
	},
	"required":             []any{"app", "database", "redis", "logging", "features"},
	"additionalProperties": false,
}

// ConfigManager handles configuration loading and validation.
type ConfigManager struct {
	schema *jsonschema.CompiledSchema
}

func NewConfigManager() *ConfigManager {
	cs, err := jsonschema.CompileSchema(configSchemaDoc)
	if err != nil {
		log.Fatalf("compile config schema: %v", err)
	}
	return &ConfigManager{schema: cs}
}

func (cm *ConfigManager) LoadConfig(env string) (Config, error) {
	baseData, err := cm.loadFile("base.yaml")
	if err != nil {
		return Config{}, fmt.Errorf("failed to load base config: %w", err)
	}
	baseData = cm.expandEnvVars(baseData)
	baseConfig, err := cm.parseAndValidate(baseData)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse base config: %w", err)
	}

	envFile := fmt.Sprintf("%s.yaml", env)
	if cm.fileExists(envFile) {
		envData, err := cm.loadFile(envFile)
		if err != nil {
			return Config{}, fmt.Errorf("failed to load %s config: %w", env, err)
		}
		envData = cm.expandEnvVars(envData)
		envConfig, err := cm.parseAndValidate(envData)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse %s config: %w", env, err)
		}
		return cm.mergeConfigs(baseConfig, envConfig), nil
	}

	return baseConfig, nil
}

// parseAndValidate decodes YAML into the generic instance shape the
// compiled schema expects, validates it, then unmarshals the same bytes
// into a Config via encoding/json (YAML is a superset of JSON structurally,
// so a YAML->JSON-compatible map round-trips cleanly through json.Marshal).
func (cm *ConfigManager) parseAndValidate(data []byte) (Config, error) {
	var instance any
	if err := yaml.Unmarshal(data, &instance); err != nil {
		return Config{}, fmt.Errorf("invalid YAML: %w", err)
	}
	instance = normalizeYAML(instance)

	issues, err := cm.schema.Validate(instance)
	if err != nil {
		return Config{}, err
	}
	if len(issues) > 0 {
		return Config{}, issues
	}

	jsonData, err := json.Marshal(instance)
	if err != nil {
		return Config{}, fmt.Errorf("failed to convert to JSON: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode into Config: %w", err)
	}
	applyDefaults(&cfg)
	return cfg, nil
}

// applyDefaults fills in the defaults the original typed schema declared
// via .Default(...), for fields the schema itself leaves optional.
func applyDefaults(cfg *Config) {
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.App.Port == 0 {
		cfg.App.Port = 8080
	}
	if cfg.App.Host == "" {
		cfg.App.Host = "0.0.0.0"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "prefer"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalizeYAML(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = normalizeYAML(t[i])
		}
		return out
	default:
		return v
	}
}

func (cm *ConfigManager) ValidateConfig(env string) error {
	config, err := cm.LoadConfig(env)
	if err != nil {
		return err
	}

	if config.App.TLS.Enabled && (config.App.TLS.CertFile == "" || config.App.TLS.KeyFile == "") {
		return fmt.Errorf("TLS enabled but cert/key files not specified")
	}

	fmt.Printf("Configuration for environment '%s' is valid!\n", env)
	return nil
}

func (cm *ConfigManager) ShowConfig(env string, maskSecrets bool) error {
	config, err := cm.LoadConfig(env)
	if err != nil {
		return err
	}

	if maskSecrets {
		config = cm.maskSecrets(config)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	fmt.Printf("Configuration for environment: %s\n", env)
	fmt.Println(strings.Repeat("=", len(env)+25))
	fmt.Print(string(data))

	return nil
}

func (cm *ConfigManager) GenerateTemplate() error {
	templates := map[string]string{
		"base.yaml": `app:
  name: "MyWebApp"
  version: "1.0.0"
  host: "0.0.0.0"
  port: 8080
  tls:
    enabled: false
  cors:
    enabled: true
    origins: ["*"]
  metadata:
    author: "Your Name"
    description: "Web application"

database:
  host: "localhost"
  port: 5432
  database: "myapp"
  username: "postgres"
  maxConns: 10
  maxIdleConns: 5
  sslMode: "prefer"

redis:
  host: "localhost"
  port: 6379
  database: 0
  poolSize: 10

logging:
  level: "info"
  format: "json"
  output: "stdout"

features:
  analytics: true
  debugging: false
`,
		"development.yaml": `app:
  environment: "development"
  port: 3000

database:
  password: "${DB_PASSWORD:-dev_password}"
  sslMode: "disable"

redis:
  password: "${REDIS_PASSWORD:-}"

logging:
  level: "debug"

features:
  debugging: true
`,
	}

	for filename, content := range templates {
		if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", filename, err)
		}
		fmt.Printf("Generated %s\n", filename)
	}

	fmt.Println("Template configuration files generated!")
	return nil
}

func (cm *ConfigManager) loadFile(filename string) ([]byte, error) {
	if !cm.fileExists(filename) {
		return nil, fmt.Errorf("file %s does not exist", filename)
	}
	return os.ReadFile(filename)
}

func (cm *ConfigManager) fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

func (cm *ConfigManager) expandEnvVars(data []byte) []byte {
	content := string(data)

	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	result := re.ReplaceAllStringFunc(content, func(match string) string {
		varExpr := match[2 : len(match)-1]

		if strings.Contains(varExpr, ":-") {
			parts := strings.SplitN(varExpr, ":-", 2)
			varName := parts[0]
			defaultValue := parts[1]

			if value := os.Getenv(varName); value != "" {
				return value
			}
			return defaultValue
		}

		return os.Getenv(varExpr)
	})

	return []byte(result)
}

func (cm *ConfigManager) mergeConfigs(base, override Config) Config {
	result := base

	if override.App.Environment != "" {
		result.App.Environment = override.App.Environment
	}
	if override.App.Port != 0 {
		result.App.Port = override.App.Port
	}
	if override.App.TLS.Enabled {
		result.App.TLS = override.App.TLS
	}
	if len(override.App.Cors.Origins) > 0 {
		result.App.Cors = override.App.Cors
	}
	if override.Database.Host != "" {
		result.Database.Host = override.Database.Host
	}
	if override.Database.Password != "" {
		result.Database.Password = override.Database.Password
	}
	if override.Database.SSLMode != "" {
		result.Database.SSLMode = override.Database.SSLMode
	}
	if override.Database.MaxConns != 0 {
		result.Database.MaxConns = override.Database.MaxConns
	}
	if override.Database.MaxIdleConns != 0 {
		result.Database.MaxIdleConns = override.Database.MaxIdleConns
	}
	if override.Redis.Host != "" {
		result.Redis.Host = override.Redis.Host
	}
	if override.Redis.Password != "" {
		result.Redis.Password = override.Redis.Password
	}
	if override.Logging.Level != "" {
		result.Logging.Level = override.Logging.Level
	}
	if override.Logging.Output != "" {
		result.Logging.Output = override.Logging.Output
	}
	if override.Features.Debugging {
		result.Features.Debugging = override.Features.Debugging
	}

	return result
}

func (cm *ConfigManager) maskSecrets(config Config) Config {
	masked := config

	if masked.Database.Password != "" {
		masked.Database.Password = "***masked***"
	}
	if masked.Redis.Password != "" {
		masked.Redis.Password = "***masked***"
	}
	if masked.App.TLS.KeyFile != "" {
		masked.App.TLS.KeyFile = "***masked***"
	}

	return masked
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cm := NewConfigManager()
	command := os.Args[1]

	switch command {
	case "validate":
		env := getEnvFlag()
		if err := cm.ValidateConfig(env); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			os.Exit(1)
		}

	case "show":
		env := getEnvFlag()
		maskSecrets := !getBoolFlag("--no-mask")
		if err := cm.ShowConfig(env, maskSecrets); err != nil {
			fmt.Fprintf(os.Stderr, "Show failed: %v\n", err)
			os.Exit(1)
		}

	case "generate":
		if getBoolFlag("--template") {
			if err := cm.GenerateTemplate(); err != nil {
				fmt.Fprintf(os.Stderr, "Generate failed: %v\n", err)
				os.Exit(1)
			}
		} else {
			fmt.Fprintf(os.Stderr, "Use --template flag to generate template files\n")
			os.Exit(1)
		}

	case "schema":
		data, err := yaml.Marshal(configSchemaDoc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Schema marshal failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Configuration JSON Schema:")
		fmt.Print(string(data))

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`Config Manager Sample

Usage: %s <command> [flags...]

Commands:
  validate [--env=<env>]                Validate configuration for environment
  show [--env=<env>] [--no-mask]        Show configuration (default: mask secrets)
  generate --template                   Generate template configuration files
  schema                                Show JSON Schema for configuration

Flags:
  --env=<environment>      Environment (default: development)
  --no-mask                Don't mask sensitive information
  --template                Generate template files

Environment Files:
  base.yaml               Base configuration (required)
  <environment>.yaml      Environment-specific overrides (optional)

`, os.Args[0])
}

func getEnvFlag() string {
	for _, arg := range os.Args {
		if strings.HasPrefix(arg, "--env=") {
			return strings.TrimPrefix(arg, "--env=")
		}
	}
	return "development"
}

func getBoolFlag(flag string) bool {
	for _, arg := range os.Args {
		if arg == flag {
			return true
		}
	}
	return false
}

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
