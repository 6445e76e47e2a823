// Package secrets supplies the optional process-level default credential
// used when a tool call carries none.
package secrets

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-secretsmanager-caching-go/v2/secretcache"

	"github.com/opendata-at/datagvat-mcp/internal/domain/endpoint"
)

// Provider returns the default credential. A zero value means none.
type Provider interface {
	Credentials(ctx context.Context) (endpoint.Credentials, error)
}

// None never supplies a credential.
type None struct{}

func (None) Credentials(context.Context) (endpoint.Credentials, error) {
	return endpoint.Credentials{}, nil
}

// SecretStringGetter is the subset of secretcache.Cache used here.
type SecretStringGetter interface {
	GetSecretStringWithContext(ctx context.Context, secretID string) (string, error)
}

// SecretsManagerProvider reads the credential from a cached Secrets Manager secret.
type SecretsManagerProvider struct {
	cache    SecretStringGetter
	secretID string
}

// NewSecretsManagerProvider creates a provider backed by a secret cache.
func NewSecretsManagerProvider(cache SecretStringGetter, secretID string) *SecretsManagerProvider {
	return &SecretsManagerProvider{cache: cache, secretID: secretID}
}

func (p *SecretsManagerProvider) Credentials(ctx context.Context) (endpoint.Credentials, error) {
	secret, err := p.cache.GetSecretStringWithContext(ctx, p.secretID)
	if err != nil {
		return endpoint.Credentials{}, fmt.Errorf("failed to get secret %s: %w", p.secretID, err)
	}
	return parseCredentials(secret)
}

// Decrypter is the subset of the KMS client used here.
type Decrypter interface {
	Decrypt(ctx context.Context, params *kms.DecryptInput, optFns ...func(*kms.Options)) (*kms.DecryptOutput, error)
}

// KMSProvider decrypts a ciphertext once and keeps the plaintext in memory.
type KMSProvider struct {
	client     Decrypter
	ciphertext []byte

	mu    sync.Mutex
	creds *endpoint.Credentials
}

// NewKMSProvider creates a provider for a base64 encoded KMS ciphertext.
func NewKMSProvider(client Decrypter, ciphertextB64 string) (*KMSProvider, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(strings.TrimSpace(ciphertextB64))
	if err != nil {
		return nil, fmt.Errorf("failed to decode KMS ciphertext: %w", err)
	}
	return &KMSProvider{client: client, ciphertext: ciphertext}, nil
}

func (p *KMSProvider) Credentials(ctx context.Context) (endpoint.Credentials, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.creds != nil {
		return *p.creds, nil
	}

	out, err := p.client.Decrypt(ctx, &kms.DecryptInput{CiphertextBlob: p.ciphertext})
	if err != nil {
		return endpoint.Credentials{}, fmt.Errorf("failed to decrypt default credential: %w", err)
	}
	creds, err := parseCredentials(string(out.Plaintext))
	if err != nil {
		return endpoint.Credentials{}, err
	}
	p.creds = &creds
	return creds, nil
}

// parseCredentials accepts either a JSON object with api_key / bearer_token
// or a bare string, which is taken as an API key.
func parseCredentials(secret string) (endpoint.Credentials, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return endpoint.Credentials{}, fmt.Errorf("default credential is empty")
	}
	if !strings.HasPrefix(secret, "{") {
		return endpoint.Credentials{APIKey: secret}, nil
	}

	var data struct {
		APIKey      string `json:"api_key"`
		BearerToken string `json:"bearer_token"`
	}
	if err := json.Unmarshal([]byte(secret), &data); err != nil {
		return endpoint.Credentials{}, fmt.Errorf("failed to parse default credential: %w", err)
	}
	creds := endpoint.Credentials{APIKey: data.APIKey, BearerToken: data.BearerToken}
	if creds.IsZero() {
		return endpoint.Credentials{}, fmt.Errorf("default credential has neither api_key nor bearer_token")
	}
	return creds, nil
}

// Config selects the default credential source. SecretID wins over KMSCiphertext.
type Config struct {
	SecretID      string
	KMSCiphertext string
}

// Enabled reports whether any source is configured.
func (c Config) Enabled() bool {
	return c.SecretID != "" || c.KMSCiphertext != ""
}

// NewProvider builds the provider for cfg from a loaded AWS config.
func NewProvider(awsCfg aws.Config, cfg Config) (Provider, error) {
	switch {
	case cfg.SecretID != "":
		secretsClient := secretsmanager.NewFromConfig(awsCfg)
		cache, err := secretcache.New(func(c *secretcache.Cache) {
			c.Client = secretsClient
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize secret cache: %w", err)
		}
		return NewSecretsManagerProvider(cache, cfg.SecretID), nil
	case cfg.KMSCiphertext != "":
		return NewKMSProvider(kms.NewFromConfig(awsCfg), cfg.KMSCiphertext)
	default:
		return None{}, nil
	}
}
