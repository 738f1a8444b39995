/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"platform-ledger-go/internal/models"

	"go.uber.org/zap"
)

// Load reads configuration from the environment with sensible defaults for
// local development. A .env file is honored via the godotenv autoload in
// the common package.
func Load() models.Config {
	return models.Config{
		Database: models.DatabaseConfig{
			Path:            getEnvString("DATABASE_PATH", "ledger.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			PingTimeout:     getEnvDuration("DB_PING_TIMEOUT", 5*time.Second),
		},
		Notify: models.NotifyConfig{
			Enabled:   getEnvBool("KAFKA_ENABLED", false),
			Brokers:   getEnvStringSlice("KAFKA_BROKERS", nil),
			Topic:     getEnvString("KAFKA_TOPIC", "large-transfers"),
			Threshold: getEnvString("KAFKA_TRANSFER_THRESHOLD", "1000"),
		},
		Service: models.ServiceConfig{
			PlatformsFile: getEnvString("PLATFORMS_FILE", ""),
			Debug:         getEnvBool("DEBUG", false),
		},
	}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Invalid integer in environment, using default",
			zap.String("key", key),
			zap.String("value", value),
			zap.Int("default", defaultValue))
		return defaultValue
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		zap.L().Warn("Invalid boolean in environment, using default",
			zap.String("key", key),
			zap.String("value", value),
			zap.Bool("default", defaultValue))
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Invalid duration in environment, using default",
			zap.String("key", key),
			zap.String("value", value),
			zap.Duration("default", defaultValue))
		return defaultValue
	}
	return parsed
}
