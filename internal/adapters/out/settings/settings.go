// Package settings exposes the deployment configuration the order number
// generator reads.
package settings

import "strings"

// Settings implements ports.Configuration with fixed values.
type Settings struct {
	orderNumberPrefix string
	deploymentLabel   string
}

// NewSettings trims both values. An empty prefix lets the generator fall back
// to its default.
func NewSettings(orderNumberPrefix, deploymentLabel string) Settings {
	return Settings{
		orderNumberPrefix: strings.TrimSpace(orderNumberPrefix),
		deploymentLabel:   strings.TrimSpace(deploymentLabel),
	}
}

// OrderNumberPrefix returns the configured prefix, possibly empty.
func (s Settings) OrderNumberPrefix() string { return s.orderNumberPrefix }
// DeploymentLabel returns the label prepended to order numbers, possibly empty.
func (s Settings) DeploymentLabel() string   { return s.deploymentLabel }
