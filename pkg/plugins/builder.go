package plugins

import (
	"fmt"

	"thinktap/pkg/config"
	"thinktap/pkg/llm"
	"thinktap/pkg/monitor"

	jsoniter "github.com/json-iterator/go"
)

// HostBuilder provides a fluent builder pattern interface for constructing
// and initializing a plugin Host with all its necessary dependencies.
type HostBuilder struct {
	host          *Host
	monitor       monitor.Monitor
	pluginConfigs map[string]jsoniter.RawMessage
}

// NewHostBuilder creates a fresh HostBuilder instance and allocates
// an internal Host to be configured.
func NewHostBuilder() *HostBuilder {
	return &HostBuilder{
		host: &Host{},
	}
}

// WithProvider injects the LLM provider plugins will operate on.
func (b *HostBuilder) WithProvider(p llm.Provider) *HostBuilder {
	b.host.provider = p
	return b
}

// WithMonitor injects a monitoring implementation into the builder.
// This monitor will be started automatically during the Build() process.
func (b *HostBuilder) WithMonitor(m monitor.Monitor) *HostBuilder {
	b.monitor = m
	return b
}

// WithSystemConfig provides engine-level technical parameters to the builder.
func (b *HostBuilder) WithSystemConfig(cfg *config.SystemConfig) *HostBuilder {
	b.host.systemConfig = cfg
	return b
}

// WithPluginConfigs provides the raw plugin configuration payloads to be
// loaded during Build().
func (b *HostBuilder) WithPluginConfigs(configs map[string]jsoniter.RawMessage) *HostBuilder {
	b.pluginConfigs = configs
	return b
}

// Build finalizes the configuration, starts the monitor, and loads all
// configured plugins. Returns the fully operational Host or an error if
// a mandatory stage fails. Plugin failures are not fatal: they are
// logged and the affected plugin stays disabled.
func (b *HostBuilder) Build() (*Host, error) {
	if b.host.provider == nil {
		return nil, fmt.Errorf("host requires an LLM provider")
	}

	if b.monitor != nil {
		b.host.monitor = b.monitor
		if err := b.monitor.Start(); err != nil {
			return nil, fmt.Errorf("failed to start monitor: %w", err)
		}
	}

	if b.pluginConfigs != nil {
		b.host.LoadPlugins(b.pluginConfigs)
	}

	return b.host, nil
}
