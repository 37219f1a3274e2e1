package commands

import (
	"fmt"
	"sync"
	"time"

	"github.com/fivetwenty-io/opsapi/internal/constants"
)

// ConfigPersister implements the opsclient.TokenStore interface on top of the
// CLI configuration file.
type ConfigPersister struct {
	mutex sync.Mutex
}

// NewConfigPersister creates a new config persister.
func NewConfigPersister() *ConfigPersister {
	return &ConfigPersister{}
}

// UpdateAPIToken stores a freshly obtained token for api.
func (p *ConfigPersister) UpdateAPIToken(api, token string, expiresAt time.Time) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config := loadConfig()

	apiConfig := config.API(api)
	if apiConfig == nil {
		return fmt.Errorf("%w: %s", constants.ErrNoEndpointForAPI, api)
	}

	apiConfig.Token = token
	apiConfig.TokenExpiresAt = nil

	if !expiresAt.IsZero() {
		apiConfig.TokenExpiresAt = &expiresAt
	}

	return saveConfigStruct(config)
}
