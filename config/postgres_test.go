package config

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeParameters struct {
	values  map[string]string
	err     error
	calls   int
	decrypt bool
}

func (f *fakeParameters) GetParameters(_ context.Context, in *ssm.GetParametersInput, _ ...func(*ssm.Options)) (*ssm.GetParametersOutput, error) {
	f.calls++
	if in.WithDecryption != nil {
		f.decrypt = *in.WithDecryption
	}
	if f.err != nil {
		return nil, f.err
	}

	out := &ssm.GetParametersOutput{}
	for _, name := range in.Names {
		v, ok := f.values[name]
		if !ok {
			out.InvalidParameters = append(out.InvalidParameters, name)
			continue
		}
		out.Parameters = append(out.Parameters, ssmtypes.Parameter{Name: ptr(name), Value: ptr(v)})
	}
	return out, nil
}

func ptr(s string) *string { return &s }

func prodConfig() PostgresConfig {
	return PostgresConfig{
		Host:      "localhost",
		Port:      5432,
		User:      "postgres",
		DBName:    "stockdash",
		SSLMode:   "require",
		SSMPrefix: "/stockdash/db",
	}
}

// go test -v --run ^TestResolveFromSSM$
func TestResolveFromSSM(t *testing.T) {
	api := &fakeParameters{values: map[string]string{
		"/stockdash/db/host":     "db.prod",
		"/stockdash/db/user":     "app",
		"/stockdash/db/password": "secret",
	}}

	cfg, err := prodConfig().resolveFrom(context.Background(), api)
	require.NoError(t, err)

	// one round trip for all three values
	assert.Equal(t, 1, api.calls)
	assert.True(t, api.decrypt)
	assert.Equal(t,
		"host=db.prod port=5432 user=app password=secret dbname=stockdash sslmode=require",
		cfg.DSN())
	assert.Equal(t,
		"host=db.prod port=5432 user=app password=secret dbname=postgres sslmode=require",
		cfg.AdminDSN())
}

// go test -v --run ^TestResolveFromSSMFailures$
func TestResolveFromSSMFailures(t *testing.T) {
	tests := []struct {
		name string
		api  *fakeParameters
		want string
	}{
		{"api error", &fakeParameters{err: errors.New("AccessDenied")}, "AccessDenied"},
		{"missing parameter", &fakeParameters{values: map[string]string{
			"/stockdash/db/host": "db.prod",
			"/stockdash/db/user": "app",
		}}, "/stockdash/db/password"},
		{"empty value", &fakeParameters{values: map[string]string{
			"/stockdash/db/host":     "",
			"/stockdash/db/user":     "app",
			"/stockdash/db/password": "secret",
		}}, "/stockdash/db/host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := prodConfig().resolveFrom(context.Background(), tt.api)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
