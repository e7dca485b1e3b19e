package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	s := Load(NewMockConfig(map[string]string{"AZURE_STORAGE_ACCOUNT_NAME": "acct"}))

	assert.Equal(t, DefaultContainer, s.Container)
	assert.Equal(t, AuthBrowser, s.AuthMode)
	assert.Equal(t, EnvDevelopment, s.Environment)
	assert.Equal(t, DefaultHTTPPort, s.HTTPPort)
	assert.Equal(t, "https://acct.blob.core.windows.net/", s.AccountURL())
	assert.False(t, s.IsProduction())
	assert.False(t, s.IsDemo())
	assert.Equal(t, []string{DefaultSchemaExclude}, s.SchemaExclude)
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a/, b/", []string{"a/", "b/"}},
		{" , ", nil},
		{"", nil},
	}

	for i, tc := range tests {
		assert.Equal(t, tc.want, SplitList(tc.in), "TEST[%d], Failed.\n%s", i, tc.in)
	}
}

func TestLoad_AuthModeInferred(t *testing.T) {
	tests := []struct {
		desc     string
		conf     map[string]string
		expected string
	}{
		{"connection string", map[string]string{"AZURE_STORAGE_CONNECTION_STRING": "UseDevelopmentStorage=true"}, AuthConnectionString},
		{"account key", map[string]string{"AZURE_STORAGE_ACCOUNT_KEY": "a2V5"}, AuthSharedKey},
		{"explicit wins", map[string]string{"AZURE_STORAGE_ACCOUNT_KEY": "a2V5", "AZURE_AUTH_MODE": "Default"}, AuthDefault},
	}

	for i, tc := range tests {
		s := Load(NewMockConfig(tc.conf))

		assert.Equal(t, tc.expected, s.AuthMode, "TEST[%d], Failed.\n%s", i, tc.desc)
	}
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		desc    string
		conf    map[string]string
		missing []string
	}{
		{"browser without account", map[string]string{}, []string{"AZURE_STORAGE_ACCOUNT_NAME"}},
		{"browser ok", map[string]string{"AZURE_STORAGE_ACCOUNT_NAME": "acct"}, nil},
		{"key without name", map[string]string{"AZURE_AUTH_MODE": "key", "AZURE_STORAGE_ACCOUNT_KEY": "k"},
			[]string{"AZURE_STORAGE_ACCOUNT_NAME"}},
		{"demo needs nothing", map[string]string{"APP_MODE": "demo"}, nil},
	}

	for i, tc := range tests {
		err := Load(NewMockConfig(tc.conf)).Validate()

		if tc.missing == nil {
			assert.NoError(t, err, "TEST[%d], Failed.\n%s", i, tc.desc)
			continue
		}

		var me *MissingError
		require.True(t, errors.As(err, &me), "TEST[%d], Failed.\n%s", i, tc.desc)

		for _, key := range tc.missing {
			assert.Contains(t, err.Error(), key, "TEST[%d], Failed.\n%s", i, tc.desc)
		}
	}
}

func TestSettings_ValidateUnknownAuthMode(t *testing.T) {
	err := Load(NewMockConfig(map[string]string{"AZURE_AUTH_MODE": "magic"})).Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "magic")
}

func TestSettings_ValidateWeb(t *testing.T) {
	s := Load(NewMockConfig(map[string]string{"APP_ENV": "production"}))

	err := s.ValidateWeb()

	var me *MissingError
	require.ErrorAs(t, err, &me)
	assert.Len(t, me.Problems, 5)
	assert.Contains(t, err.Error(), "SESSION_SECRET_KEY")

	s = Load(NewMockConfig(map[string]string{
		"AZURE_CLIENT_ID":            "id",
		"AZURE_CLIENT_SECRET":        "secret",
		"AZURE_TENANT_ID":            "tenant",
		"AZURE_STORAGE_ACCOUNT_NAME": "acct",
	}))

	assert.NoError(t, s.ValidateWeb())
}
