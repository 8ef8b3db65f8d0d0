package resource

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	"todo-api/configs"
)

var (
	mu         sync.RWMutex
	properties = viper.New()
	envPattern = regexp.MustCompile(`\$\{([^:}]+)(?::([^}]*))?}`)
)

// init loads application properties from the embedded YAML, merged with PROPERTIES_FILE_PATH when set
func init() {
	if err := Load(); err != nil {
		log.Fatalf("Fail to read properties: %v", err)
	}
}

// Load (re)reads the properties. Placeholders of the form ${ENV} or ${ENV:default} are
// resolved against the process environment at load time.
func Load() error {
	raw := viper.New()
	raw.SetConfigType("yml")
	if err := raw.ReadConfig(bytes.NewReader(configs.ApplicationYAML)); err != nil {
		return fmt.Errorf("embedded application.yml: %w", err)
	}

	if path, ok := os.LookupEnv("PROPERTIES_FILE_PATH"); ok && path != "" {
		raw.SetConfigFile(path)
		if err := raw.MergeInConfig(); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	resolved := make(map[string]any)
	parsePropertiesMap("", raw.AllSettings(), resolved)

	next := viper.New()
	for key, value := range resolved {
		next.Set(key, value)
	}

	mu.Lock()
	properties = next
	mu.Unlock()
	return nil
}

// parsePropertiesMap reads recursively the YAML tree into flat dotted keys
func parsePropertiesMap(prefix string, data map[string]any, result map[string]any) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = resolveEnvVariables(v)
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
			result[fullKey] = v
		case map[string]any:
			parsePropertiesMap(fullKey, v, result)
		case []any:
			result[fullKey] = v
		default:
			log.Printf("Ignoring key '%s' with unsupported type.", fullKey)
		}
	}
}

// resolveEnvVariables replaces every ${NAME:default} occurrence in value
func resolveEnvVariables(value string) string {
	return envPattern.ReplaceAllStringFunc(value, func(placeholder string) string {
		matches := envPattern.FindStringSubmatch(placeholder)
		if envValue, exists := os.LookupEnv(matches[1]); exists {
			return envValue
		}
		return matches[2]
	})
}

func current() *viper.Viper {
	mu.RLock()
	defer mu.RUnlock()
	return properties
}

// Set overrides a property for the lifetime of the process, or until the next Load.
func Set(key string, value any) {
	mu.Lock()
	defer mu.Unlock()
	properties.Set(key, value)
}

func Get(key string) any {
	return current().Get(key)
}

func GetString(key string) string {
	return current().GetString(key)
}

func GetBool(key string) bool {
	return current().GetBool(key)
}

func GetDuration(key string) time.Duration {
	return current().GetDuration(key)
}

func GetInt(key string) int {
	return current().GetInt(key)
}

func GetInt64(key string) int64 {
	return current().GetInt64(key)
}

// GetStringSlice splits comma separated strings, since placeholders always resolve to a string
func GetStringSlice(key string) []string {
	config := current()
	value, ok := config.Get(key).(string)
	if !ok {
		return config.GetStringSlice(key)
	}

	values := make([]string, 0)
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}
