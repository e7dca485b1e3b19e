package azure

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
)

var (
	errContainerEmpty = errors.New("container name cannot be empty")
	errNoCredential   = errors.New("no connection string, account key or token credential configured")
)

// Config selects how the container client authenticates. The first populated source wins, in
// field order: connection string, shared key, token credential.
type Config struct {
	ConnectionString string
	AccountName      string
	AccountKey       string
	AccountURL       string
	Container        string
	Credential       azcore.TokenCredential
}

// ClientOptions disables the SDK retry policy. A failure surfaces immediately and the user
// re-runs the operation.
func ClientOptions() *container.ClientOptions {
	return &container.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{MaxRetries: -1},
		},
	}
}

// NewContainerClient builds the azblob container client for cfg.
func NewContainerClient(cfg *Config) (*container.Client, error) {
	name := strings.TrimSpace(cfg.Container)
	if name == "" {
		return nil, errContainerEmpty
	}

	opts := ClientOptions()

	switch {
	case cfg.ConnectionString != "":
		c, err := container.NewClientFromConnectionString(cfg.ConnectionString, name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to create client from connection string: %w", err)
		}

		return c, nil
	case cfg.AccountKey != "":
		cred, err := container.NewSharedKeyCredential(cfg.AccountName, cfg.AccountKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}

		c, err := container.NewClientWithSharedKeyCredential(containerURL(cfg, name), cred, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to create client with shared key: %w", err)
		}

		return c, nil
	case cfg.Credential != nil:
		c, err := container.NewClient(containerURL(cfg, name), cfg.Credential, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to create client: %w", err)
		}

		return c, nil
	default:
		return nil, errNoCredential
	}
}

func containerURL(cfg *Config, name string) string {
	base := cfg.AccountURL
	if base == "" {
		base = fmt.Sprintf("https://%s.blob.core.windows.net", cfg.AccountName)
	}

	return strings.TrimRight(base, "/") + "/" + name
}
