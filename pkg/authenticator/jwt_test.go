package authenticator_test

import (
	"testing"
	"time"

	"github.com/asolution/raffle/config"
	"github.com/asolution/raffle/pkg/authenticator"
	"github.com/stretchr/testify/require"
)

type token struct {
	Name string `json:"name"`
}

func TestJWT(t *testing.T) {
	engine := authenticator.NewTokenEngine[token](config.AuthConfigs{
		TokenSecret:     "secret",
		TokenExpiration: time.Minute,
	})
	signed, err := engine.Generate("admin", token{Name: "admin"})
	require.NoError(t, err)

	obj, err := engine.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, "admin", obj.Name)

	other := authenticator.NewTokenEngine[token](config.AuthConfigs{
		TokenSecret:     "another",
		TokenExpiration: time.Minute,
	})
	_, err = other.Verify(signed)
	require.Error(t, err)
}

func TestJWTExpiration(t *testing.T) {
	engine := authenticator.NewTokenEngine[token](config.AuthConfigs{
		TokenSecret:     "secret",
		TokenExpiration: -time.Minute,
	})
	signed, err := engine.Generate("admin", token{Name: "admin"})
	require.NoError(t, err)

	_, err = engine.Verify(signed)
	require.Error(t, err)
}

func TestJWTNoSecret(t *testing.T) {
	engine := authenticator.NewTokenEngine[token](config.AuthConfigs{TokenExpiration: time.Minute})
	_, err := engine.Generate("admin", token{Name: "admin"})
	require.Error(t, err)
}
