// Package auth resolves how the tools authenticate against Azure: SDK credentials for the CLI
// and the Microsoft sign-in flow for the web app.
package auth

import (
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"blobaudit.dev/pkg/blobstore/azure"
	"blobaudit.dev/pkg/config"
)

// StoreConfig turns settings into the container client configuration for the CLI. The
// connection-string and key modes authenticate with the storage account itself; browser and
// default obtain an Entra ID token through azidentity.
func StoreConfig(s *config.Settings) (*azure.Config, error) {
	cfg := &azure.Config{
		AccountName: s.AccountName,
		AccountURL:  s.AccountURL(),
		Container:   s.Container,
	}

	switch s.AuthMode {
	case config.AuthConnectionString:
		cfg.ConnectionString = s.ConnectionString
	case config.AuthSharedKey:
		cfg.AccountKey = s.AccountKey
	case config.AuthBrowser, config.AuthDefault:
		cred, err := Credential(s)
		if err != nil {
			return nil, err
		}

		cfg.Credential = cred
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", s.AuthMode)
	}

	return cfg, nil
}

// Credential builds the azidentity credential for the browser and default modes.
func Credential(s *config.Settings) (azcore.TokenCredential, error) {
	switch s.AuthMode {
	case config.AuthBrowser:
		cred, err := azidentity.NewInteractiveBrowserCredential(&azidentity.InteractiveBrowserCredentialOptions{
			TenantID: s.TenantID,
			ClientID: s.ClientID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create interactive browser credential: %w", err)
		}

		return cred, nil
	case config.AuthDefault:
		cred, err := azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
			TenantID: s.TenantID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", err)
		}

		return cred, nil
	default:
		return nil, fmt.Errorf("auth mode %q does not use a token credential", s.AuthMode)
	}
}
