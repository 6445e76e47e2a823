package secrets

import (
	"context"
	"encoding/base64"
	stderrors "errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendata-at/datagvat-mcp/internal/domain/endpoint"
)

type mockSecretCache struct {
	GetSecretStringFn func(ctx context.Context, secretID string) (string, error)
}

func (m *mockSecretCache) GetSecretStringWithContext(ctx context.Context, secretID string) (string, error) {
	return m.GetSecretStringFn(ctx, secretID)
}

type mockDecrypter struct {
	calls     int
	plaintext []byte
	err       error
}

func (m *mockDecrypter) Decrypt(ctx context.Context, params *kms.DecryptInput, optFns ...func(*kms.Options)) (*kms.DecryptOutput, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &kms.DecryptOutput{Plaintext: m.plaintext}, nil
}

func TestParseCredentials(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		want    endpoint.Credentials
		wantErr bool
	}{
		{name: "bare key", secret: " key-123\n", want: endpoint.Credentials{APIKey: "key-123"}},
		{name: "json key", secret: `{"api_key":"k"}`, want: endpoint.Credentials{APIKey: "k"}},
		{name: "json bearer", secret: `{"bearer_token":"t"}`, want: endpoint.Credentials{BearerToken: "t"}},
		{name: "empty", secret: "  ", wantErr: true},
		{name: "empty json", secret: `{}`, wantErr: true},
		{name: "broken json", secret: `{"api_key":`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCredentials(tt.secret)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSecretsManagerProvider(t *testing.T) {
	cache := &mockSecretCache{
		GetSecretStringFn: func(ctx context.Context, secretID string) (string, error) {
			assert.Equal(t, "datagvat/api-key", secretID)
			return `{"api_key":"from-secret"}`, nil
		},
	}
	p := NewSecretsManagerProvider(cache, "datagvat/api-key")

	creds, err := p.Credentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-secret", creds.APIKey)

	cache.GetSecretStringFn = func(ctx context.Context, secretID string) (string, error) {
		return "", stderrors.New("access denied")
	}
	_, err = p.Credentials(context.Background())
	assert.ErrorContains(t, err, "access denied")
}

func TestKMSProvider(t *testing.T) {
	decrypter := &mockDecrypter{plaintext: []byte("kms-key")}
	p, err := NewKMSProvider(decrypter, base64.StdEncoding.EncodeToString([]byte("ciphertext")))
	require.NoError(t, err)
	assert.Equal(t, []byte("ciphertext"), p.ciphertext)

	for i := 0; i < 3; i++ {
		creds, err := p.Credentials(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "kms-key", creds.APIKey)
	}
	assert.Equal(t, 1, decrypter.calls)

	_, err = NewKMSProvider(decrypter, "%%%")
	assert.Error(t, err)

	failing := &mockDecrypter{err: stderrors.New("kms down")}
	p, err = NewKMSProvider(failing, base64.StdEncoding.EncodeToString([]byte("x")))
	require.NoError(t, err)
	_, err = p.Credentials(context.Background())
	assert.ErrorContains(t, err, "kms down")
}

func TestNone(t *testing.T) {
	creds, err := None{}.Credentials(context.Background())
	require.NoError(t, err)
	assert.True(t, creds.IsZero())
	assert.False(t, Config{}.Enabled())
	assert.True(t, Config{SecretID: "x"}.Enabled())
}
