package commands

import "go.indexbridge.dev/core/internal/core/domain"

// configurationFromFlag maps the --configuration flag value to a
// domain.Configuration, leaving it unset (and so effectively debug, per
// BuildSetupConfig.EffectiveConfiguration) for anything but "release" or
// "debug".
func configurationFromFlag(value string) domain.Configuration {
	switch value {
	case "release":
		return domain.ConfigurationRelease
	case "debug":
		return domain.ConfigurationDebug
	default:
		return domain.ConfigurationUnset
	}
}
