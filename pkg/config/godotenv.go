package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultFileName         = "/.env"
	defaultOverrideFileName = "/.local.env"
)

type EnvLoader struct {
	logger logger
}

type logger interface {
	Warnf(format string, a ...any)
	Infof(format string, a ...any)
	Debugf(format string, a ...any)
	Fatalf(format string, a ...any)
}

// NewEnvFile loads .env, .local.env and .<APP_ENV>.env from configFolder into the process
// environment. Variables already set in the environment always win over file values.
func NewEnvFile(configFolder string, logger logger) Config {
	conf := &EnvLoader{logger: logger}
	conf.read(configFolder)

	return conf
}

func (e *EnvLoader) read(folder string) {
	initialEnv := e.captureInitialEnv()

	// APP_ENV has to be read before the files are applied, it selects the override file.
	appEnv := os.Getenv("APP_ENV")

	envMap := e.loadEnvironmentFiles(folder, appEnv)

	e.applyEnvironmentVariables(envMap, initialEnv)
}

func (*EnvLoader) captureInitialEnv() map[string]bool {
	initialEnv := make(map[string]bool)

	for _, envVar := range os.Environ() {
		key, _, _ := strings.Cut(envVar, "=")
		initialEnv[key] = true
	}

	return initialEnv
}

// loadEnvironmentFiles loads all environment files, later files overriding earlier ones.
func (e *EnvLoader) loadEnvironmentFiles(folder, appEnv string) map[string]string {
	envMap := make(map[string]string)

	e.loadBaseEnvFile(folder, envMap)
	e.loadLocalOverrideFile(folder, envMap)
	e.loadEnvSpecificFile(folder, envMap, appEnv)

	return envMap
}

func (e *EnvLoader) loadBaseEnvFile(folder string, envMap map[string]string) {
	defaultFile := folder + defaultFileName

	if content, err := godotenv.Read(defaultFile); err == nil {
		for k, v := range content {
			envMap[k] = v
		}

		e.logger.Infof("Loaded config from file: %v", defaultFile)
	} else if !errors.Is(err, fs.ErrNotExist) {
		e.logger.Fatalf("Failed to load config from file: %v, Err: %v", defaultFile, err)
	}
}

func (e *EnvLoader) loadLocalOverrideFile(folder string, envMap map[string]string) {
	localOverridePath := folder + defaultOverrideFileName

	if content, err := godotenv.Read(localOverridePath); err == nil {
		for k, v := range content {
			envMap[k] = v
		}

		e.logger.Debugf("Applied override config: %v", localOverridePath)
	}
}

func (e *EnvLoader) loadEnvSpecificFile(folder string, envMap map[string]string, appEnv string) {
	if appEnv == "" {
		return
	}

	envSpecificFile := fmt.Sprintf("%s/.%s.env", folder, appEnv)

	if content, err := godotenv.Read(envSpecificFile); err == nil {
		for k, v := range content {
			envMap[k] = v
		}

		e.logger.Debugf("Applied app-env override config: %v", envSpecificFile)
	} else if !errors.Is(err, fs.ErrNotExist) {
		e.logger.Fatalf("Failed to load config from file: %v, Err: %v", envSpecificFile, err)
	}
}

func (*EnvLoader) applyEnvironmentVariables(envMap map[string]string, initialEnv map[string]bool) {
	for key, value := range envMap {
		if !initialEnv[key] {
			os.Setenv(key, value)
		}
	}
}

func (*EnvLoader) Get(key string) string {
	return os.Getenv(key)
}

func (*EnvLoader) GetOrDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultValue
}
