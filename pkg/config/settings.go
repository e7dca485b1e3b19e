package config

import (
	"fmt"
	"strings"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	ModeAzure = "azure"
	ModeDemo  = "demo"

	AuthBrowser          = "browser"
	AuthDefault          = "default"
	AuthSharedKey        = "key"
	AuthConnectionString = "connection-string"

	DefaultContainer   = "30-projects"
	DefaultHTTPPort    = "5000"
	DefaultMastersFile = "configs/masters.yaml"
	DefaultDownloadDir = "downloads"

	// DefaultSchemaExclude keeps the test area out of schema validation.
	DefaultSchemaExclude = "0000_test_parquet/"

	devSessionSecret = "dev-secret-key-change-in-production"
)

// Settings is the typed view of the environment used by both binaries.
type Settings struct {
	AccountName      string
	Container        string
	ConnectionString string
	AccountKey       string
	AuthMode         string

	TenantID     string
	ClientID     string
	ClientSecret string

	SessionSecret string
	Environment   string
	Mode          string
	HTTPPort      string
	LogLevel      string
	MastersFile   string
	DownloadDir   string
	ExtraPolicy   string
	SchemaExclude []string
}

// Load reads Settings from c. It does not validate; see Validate and ValidateWeb.
func Load(c Config) *Settings {
	s := &Settings{
		AccountName:      c.Get("AZURE_STORAGE_ACCOUNT_NAME"),
		Container:        c.GetOrDefault("AZURE_STORAGE_CONTAINER", DefaultContainer),
		ConnectionString: c.Get("AZURE_STORAGE_CONNECTION_STRING"),
		AccountKey:       c.Get("AZURE_STORAGE_ACCOUNT_KEY"),
		AuthMode:         strings.ToLower(c.Get("AZURE_AUTH_MODE")),
		TenantID:         c.Get("AZURE_TENANT_ID"),
		ClientID:         c.Get("AZURE_CLIENT_ID"),
		ClientSecret:     c.Get("AZURE_CLIENT_SECRET"),
		SessionSecret:    c.GetOrDefault("SESSION_SECRET_KEY", devSessionSecret),
		Environment:      strings.ToLower(c.GetOrDefault("APP_ENV", EnvDevelopment)),
		Mode:             strings.ToLower(c.GetOrDefault("APP_MODE", ModeAzure)),
		HTTPPort:         c.GetOrDefault("HTTP_PORT", DefaultHTTPPort),
		LogLevel:         c.GetOrDefault("LOG_LEVEL", "INFO"),
		MastersFile:      c.GetOrDefault("MASTERS_FILE", DefaultMastersFile),
		DownloadDir:      c.GetOrDefault("DOWNLOAD_DIR", DefaultDownloadDir),
		ExtraPolicy:      strings.ToLower(c.GetOrDefault("EXTRA_POLICY", "fail")),
		SchemaExclude:    SplitList(c.GetOrDefault("SCHEMA_EXCLUDE", DefaultSchemaExclude)),
	}

	if s.AuthMode == "" {
		s.AuthMode = s.defaultAuthMode()
	}

	return s
}

// SplitList splits a comma separated value, dropping blanks.
func SplitList(v string) []string {
	var out []string

	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	return out
}

func (s *Settings) defaultAuthMode() string {
	switch {
	case s.ConnectionString != "":
		return AuthConnectionString
	case s.AccountKey != "":
		return AuthSharedKey
	default:
		return AuthBrowser
	}
}

// AccountURL is the blob service endpoint of the storage account.
func (s *Settings) AccountURL() string {
	return fmt.Sprintf("https://%s.blob.core.windows.net/", s.AccountName)
}

func (s *Settings) IsProduction() bool {
	return s.Environment == EnvProduction
}

func (s *Settings) IsDemo() bool {
	return s.Mode == ModeDemo
}

// Validate checks what the CLI needs to reach the storage account.
func (s *Settings) Validate() error {
	var missing []string

	if s.IsDemo() {
		return nil
	}

	switch s.AuthMode {
	case AuthConnectionString:
		if s.ConnectionString == "" {
			missing = append(missing, "AZURE_STORAGE_CONNECTION_STRING")
		}
	case AuthSharedKey:
		missing = appendIfEmpty(missing, "AZURE_STORAGE_ACCOUNT_NAME", s.AccountName)
		missing = appendIfEmpty(missing, "AZURE_STORAGE_ACCOUNT_KEY", s.AccountKey)
	case AuthBrowser, AuthDefault:
		missing = appendIfEmpty(missing, "AZURE_STORAGE_ACCOUNT_NAME", s.AccountName)
	default:
		return &MissingError{Problems: []string{fmt.Sprintf("AZURE_AUTH_MODE %q is not supported", s.AuthMode)}}
	}

	if len(missing) > 0 {
		return newMissingError(missing)
	}

	return nil
}

// ValidateWeb checks the OAuth and session settings on top of Validate.
func (s *Settings) ValidateWeb() error {
	if s.IsDemo() {
		return nil
	}

	var (
		missing  []string
		problems []string
	)

	missing = appendIfEmpty(missing, "AZURE_CLIENT_ID", s.ClientID)
	missing = appendIfEmpty(missing, "AZURE_CLIENT_SECRET", s.ClientSecret)
	missing = appendIfEmpty(missing, "AZURE_TENANT_ID", s.TenantID)
	missing = appendIfEmpty(missing, "AZURE_STORAGE_ACCOUNT_NAME", s.AccountName)

	if s.IsProduction() && s.SessionSecret == devSessionSecret {
		problems = append(problems, "SESSION_SECRET_KEY must be set to a random value in production")
	}

	if len(missing) == 0 && len(problems) == 0 {
		return nil
	}

	err := newMissingError(missing)
	err.Problems = append(err.Problems, problems...)

	return err
}

func appendIfEmpty(missing []string, key, value string) []string {
	if value == "" {
		return append(missing, key)
	}

	return missing
}
