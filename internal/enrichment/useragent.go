package enrichment

import (
	"github.com/mssola/user_agent"
)

type UAInfo struct {
	Browser        string
	BrowserVersion string
	OS             string
	DeviceType     string
}

// ParseUserAgent classifies a User-Agent header. An empty header yields
// "unknown" rather than a guess.
func ParseUserAgent(uaString string) *UAInfo {
	if uaString == "" {
		return &UAInfo{Browser: "unknown", OS: "unknown", DeviceType: "unknown"}
	}

	ua := user_agent.New(uaString)
	browser, version := ua.Browser()

	deviceType := "desktop"
	switch {
	case ua.Bot():
		deviceType = "bot"
	case ua.Mobile():
		deviceType = "mobile"
	}

	os := ua.OS()
	if os == "" {
		os = "unknown"
	}

	return &UAInfo{
		Browser:        browser,
		BrowserVersion: version,
		OS:             os,
		DeviceType:     deviceType,
	}
}
