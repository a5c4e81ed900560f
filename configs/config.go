package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"refund-relay/internal/pkg/validation"

	"github.com/joho/godotenv"
)

// GetEnv loads .env (when present) and reflects the environment into Config.
// A variable without an envDefault tag is mandatory.
func GetEnv() (config *Config, er error) {
	err := godotenv.Load()
	if err != nil {
		_ = godotenv.Load("../../.env")
	}

	return Parse(os.LookupEnv)
}

// Parse fills Config from lookup; tests pass a map-backed lookup.
func Parse(lookup func(string) (string, bool)) (config *Config, er error) {
	config = &Config{}
	v := reflect.ValueOf(config).Elem()
	t := v.Type()

	for i := range make([]struct{}, v.NumField()) {
		field := t.Field(i)
		envTag := field.Tag.Get("env")
		if envTag == "" {
			continue
		}

		value, exists := lookup(envTag)
		value = strings.TrimSpace(value)
		if !exists || value == "" {
			def, hasDefault := field.Tag.Lookup("envDefault")
			if !hasDefault {
				return nil, fmt.Errorf("environment variable %s not set", envTag)
			}
			value = def
		}

		switch field.Type.Kind() {
		case reflect.String:
			v.Field(i).SetString(value)
		case reflect.Int:
			if value == "" {
				continue
			}
			intValue, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid value for %s: %v", envTag, err)
			}
			v.Field(i).SetInt(int64(intValue))
		case reflect.Bool:
			if value == "" {
				continue
			}
			boolValue, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("invalid boolean value for %s: %v", envTag, err)
			}
			v.Field(i).SetBool(boolValue)
		default:
			panic("unhandled default case")
		}
	}

	if err := validation.Validate(config); err != nil {
		return nil, err
	}

	config.Targets = LoadTargets(lookup, config.TelegramMaxTargets)

	return config, nil
}
