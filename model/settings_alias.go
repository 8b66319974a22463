package model

import "mediaimport/settings"

// Settings is re-exported from the settings package so that Source and
// Import can reference it without every caller importing both
// packages. The settings tree itself (sections/categories/groups,
// XML (de)serialization) lives in package settings per §4.A/§6.3.
type Settings = settings.Settings

// NewSettings constructs a settings tree with the default sync.* leaves
// required on every Import.
func NewSettings() *Settings {
	return settings.NewSettings()
}
