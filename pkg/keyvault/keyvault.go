// Package keyvault fills unset secret environment variables from Azure Key Vault.
package keyvault

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"go.uber.org/zap"
)

// Reasons a mapping was skipped.
const (
	ReasonAlreadySet  = "already_set"
	ReasonEmptyValue  = "empty_secret_value"
	ReasonUnavailable = "not_found_or_no_access"
)

// Mapping binds an environment variable to a vault secret. The secret name can be
// overridden at runtime through the SecretNameEnv variable.
type Mapping struct {
	EnvName           string
	SecretNameEnv     string
	DefaultSecretName string
}

// DefaultMappings covers the AI provider keys and SMTP credentials.
func DefaultMappings() []Mapping {
	return []Mapping{
		{EnvName: "AZURE_OPENAI_API_KEY", SecretNameEnv: "KV_SECRET_AZURE_OPENAI_API_KEY", DefaultSecretName: "azure-openai-api-key"},
		{EnvName: "OPENAI_API_KEY", SecretNameEnv: "KV_SECRET_OPENAI_API_KEY", DefaultSecretName: "openai-api-key"},
		{EnvName: "ANTHROPIC_API_KEY", SecretNameEnv: "KV_SECRET_ANTHROPIC_API_KEY", DefaultSecretName: "anthropic-api-key"},
		{EnvName: "SMTP_PASS", SecretNameEnv: "KV_SECRET_SMTP_PASS", DefaultSecretName: "smtp-pass"},
		{EnvName: "SMTP_USER", SecretNameEnv: "KV_SECRET_SMTP_USER", DefaultSecretName: "smtp-user"},
	}
}

// LoadedSecret records a variable that was filled from the vault.
type LoadedSecret struct {
	EnvName    string `json:"envName"`
	SecretName string `json:"secretName"`
}

// SkippedSecret records a variable that was left alone and why.
type SkippedSecret struct {
	EnvName    string `json:"envName"`
	Reason     string `json:"reason"`
	SecretName string `json:"secretName,omitempty"`
}

// Status is the outcome of a hydration pass.
type Status struct {
	Enabled bool            `json:"enabled"`
	Loaded  []LoadedSecret  `json:"loadedSecrets"`
	Skipped []SkippedSecret `json:"skippedSecrets"`
}

// Summary is the count-only view exposed by the health endpoint.
type Summary struct {
	Enabled            bool `json:"enabled"`
	LoadedSecretCount  int  `json:"loadedSecretCount"`
	SkippedSecretCount int  `json:"skippedSecretCount"`
}

// Summary returns counts only; secret names stay out of HTTP responses.
func (s *Status) Summary() Summary {
	if s == nil {
		return Summary{}
	}
	return Summary{
		Enabled:            s.Enabled,
		LoadedSecretCount:  len(s.Loaded),
		SkippedSecretCount: len(s.Skipped),
	}
}

// SecretGetter reads the latest value of a named secret.
type SecretGetter interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// Env reads and writes environment variables.
type Env interface {
	Lookup(key string) (string, bool)
	Set(key, value string) error
}

// OSEnv is the process environment.
type OSEnv struct{}

func (OSEnv) Lookup(key string) (string, bool) { return os.LookupEnv(key) }
func (OSEnv) Set(key, value string) error      { return os.Setenv(key, value) }

type azureSecretGetter struct {
	client *azsecrets.Client
}

// NewAzureSecretGetter authenticates with DefaultAzureCredential (managed identity,
// workload identity, Azure CLI, environment) against the vault at uri.
func NewAzureSecretGetter(uri string) (SecretGetter, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure credential: %w", err)
	}
	client, err := azsecrets.NewClient(strings.TrimSpace(uri), cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create key vault client: %w", err)
	}
	return &azureSecretGetter{client: client}, nil
}

func (g *azureSecretGetter) GetSecret(ctx context.Context, name string) (string, error) {
	resp, err := g.client.GetSecret(ctx, name, "", nil)
	if err != nil {
		return "", err
	}
	if resp.Value == nil {
		return "", nil
	}
	return *resp.Value, nil
}

// Hydrate fills unset variables in env from the vault at uri. An empty uri disables
// hydration and returns a Status with Enabled=false.
func Hydrate(ctx context.Context, uri string, mappings []Mapping, env Env, logger *zap.Logger) (*Status, error) {
	if strings.TrimSpace(uri) == "" {
		return &Status{}, nil
	}

	getter, err := NewAzureSecretGetter(uri)
	if err != nil {
		return nil, err
	}
	return HydrateFrom(ctx, getter, mappings, env, logger), nil
}

// HydrateFrom is Hydrate against an arbitrary secret source. Unreadable secrets are
// skipped, never fatal.
func HydrateFrom(ctx context.Context, getter SecretGetter, mappings []Mapping, env Env, logger *zap.Logger) *Status {
	logger = logger.Named("keyvault")
	status := &Status{Enabled: true, Loaded: []LoadedSecret{}, Skipped: []SkippedSecret{}}

	for _, m := range mappings {
		if hasValue(env, m.EnvName) {
			status.Skipped = append(status.Skipped, SkippedSecret{EnvName: m.EnvName, Reason: ReasonAlreadySet})
			continue
		}

		secretName := m.DefaultSecretName
		if override, ok := env.Lookup(m.SecretNameEnv); ok && strings.TrimSpace(override) != "" {
			secretName = strings.TrimSpace(override)
		}

		value, err := getter.GetSecret(ctx, secretName)
		if err != nil {
			logger.Debug("Secret unavailable",
				zap.String("env", m.EnvName),
				zap.String("secret", secretName),
				zap.Error(err))
			status.Skipped = append(status.Skipped, SkippedSecret{EnvName: m.EnvName, Reason: ReasonUnavailable, SecretName: secretName})
			continue
		}
		if strings.TrimSpace(value) == "" {
			status.Skipped = append(status.Skipped, SkippedSecret{EnvName: m.EnvName, Reason: ReasonEmptyValue, SecretName: secretName})
			continue
		}

		if err := env.Set(m.EnvName, value); err != nil {
			logger.Warn("Failed to set environment variable", zap.String("env", m.EnvName), zap.Error(err))
			status.Skipped = append(status.Skipped, SkippedSecret{EnvName: m.EnvName, Reason: ReasonUnavailable, SecretName: secretName})
			continue
		}
		status.Loaded = append(status.Loaded, LoadedSecret{EnvName: m.EnvName, SecretName: secretName})
	}

	logger.Info("Key Vault hydration complete",
		zap.Int("loaded", len(status.Loaded)),
		zap.Int("skipped", len(status.Skipped)))
	return status
}

func hasValue(env Env, key string) bool {
	v, ok := env.Lookup(key)
	return ok && strings.TrimSpace(v) != ""
}
