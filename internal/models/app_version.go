package models

import (
	"fmt"
	"time"
)

// Platform is the closed set of app distribution targets.
type Platform string

const (
	PlatformIOS      Platform = "ios"
	PlatformAndroid  Platform = "android"
	PlatformCodepush Platform = "codepush"
	PlatformWeb      Platform = "web"
)

func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case PlatformIOS, PlatformAndroid, PlatformCodepush, PlatformWeb:
		return Platform(s), nil
	}
	return "", fmt.Errorf("unrecognized platform %q", s)
}

// AppVersion is a per-platform release row the admin panel manages
// directly.
type AppVersion struct {
	ID                  string    `json:"id"`
	Platform            Platform  `json:"platform"`
	LatestVersion       string    `json:"latest_version"`
	MinSupportedVersion string    `json:"min_supported_version"`
	ForceUpdate         bool      `json:"force_update"`
	StoreURL            string    `json:"store_url"`
	Notes               *string   `json:"notes,omitempty"`
	MinNativeSupported  string    `json:"min_native_supported"`
	UpdatedAt           time.Time `json:"updated_at"`
}
