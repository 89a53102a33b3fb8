package ports

import "go.trai.ch/hoist/internal/core/domain"

// ConfigLoader resolves the effective settings.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load returns the settings after applying the file, .env and environment layers.
	Load(cwd string) (domain.Settings, error)
}
