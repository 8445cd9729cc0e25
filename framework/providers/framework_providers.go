package providers

import (
	"github.com/sirupsen/logrus"

	"github.com/km-arc/laravel-di/framework/config"
	"github.com/km-arc/laravel-di/framework/container"
	"github.com/km-arc/laravel-di/framework/routing"
)

// Type names the framework services are bound under.
const (
	ConfigType = "config"
	LoggerType = "logger"
	RouterType = "router"
)

// FrameworkInstances names the InstanceProvider holding the framework services.
const FrameworkInstances = "framework"

// Framework returns the discovery that binds the framework services so any
// application type can declare them as constructor parameters.
//
// Bound types:
//   - "config"  → *config.Config
//   - "logger"  → *logrus.Logger
//   - "router"  → *routing.Router
//
// Laravel equivalent:
//
//	// Illuminate\Foundation\Bootstrap\LoadConfiguration
//	$app->instance('config', $config);
func Framework(cfg *config.Config, logger *logrus.Logger, router *routing.Router) container.Discovery {
	return container.DiscoveryFunc(func() []container.Provider {
		instances := NewInstances(FrameworkInstances).
			Set(ConfigType, cfg).
			Set(LoggerType, logger).
			Set(RouterType, router)
		return []container.Provider{instances}
	})
}
