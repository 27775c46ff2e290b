package providers

import (
	"github.com/samber/do/v2"

	"github.com/spinlist/spinlist-server/internal/auth"
	"github.com/spinlist/spinlist-server/internal/config"
	"github.com/spinlist/spinlist-server/internal/logger"
)

// AuthKey is the hex-encoded session token key.
type AuthKey string

// ProvideAuthKey loads or generates the authentication key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Data.BasePath)
	if err != nil {
		return "", err
	}

	cfg.Auth.SessionKey = key

	log.Info("Authentication key loaded",
		"session_duration", cfg.Auth.SessionDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService(string(authKey), cfg.Auth.SessionDuration)
}
