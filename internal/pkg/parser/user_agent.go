package parser

import "strings"

// ClientInfo is the coarse client classification stored with a click event.
type ClientInfo struct {
	DeviceType string
	OS         string
	Browser    string
}

func Parse(ua string) ClientInfo {
	os, browser := ParseUserAgent(ua)
	return ClientInfo{
		DeviceType: ParseDeviceType(ua),
		OS:         os,
		Browser:    browser,
	}
}

// ParseUserAgent extracts the OS and browser family. Mobile platforms are
// checked first since their agents also mention Linux or Mac OS.
func ParseUserAgent(ua string) (os, browser string) {
	uaLower := strings.ToLower(ua)

	switch {
	case strings.Contains(uaLower, "android"):
		os = "Android"
	case strings.Contains(uaLower, "iphone"), strings.Contains(uaLower, "ipad"), strings.Contains(uaLower, "ipod"):
		os = "iOS"
	case strings.Contains(uaLower, "windows"):
		os = "Windows"
	case strings.Contains(uaLower, "mac os"), strings.Contains(uaLower, "macintosh"):
		os = "macOS"
	case strings.Contains(uaLower, "cros"):
		os = "ChromeOS"
	case strings.Contains(uaLower, "linux"):
		os = "Linux"
	default:
		os = "Unknown"
	}

	switch {
	case strings.Contains(uaLower, "edg"):
		browser = "Edge"
	case strings.Contains(uaLower, "opr/"), strings.Contains(uaLower, "opera"):
		browser = "Opera"
	case strings.Contains(uaLower, "firefox"), strings.Contains(uaLower, "fxios"):
		browser = "Firefox"
	case strings.Contains(uaLower, "chrome"), strings.Contains(uaLower, "crios"):
		browser = "Chrome"
	case strings.Contains(uaLower, "safari"):
		browser = "Safari"
	default:
		browser = "Unknown"
	}

	return os, browser
}

func ParseDeviceType(ua string) string {
	ua = strings.ToLower(ua)
	switch {
	case strings.Contains(ua, "ipad"), strings.Contains(ua, "tablet"):
		return "tablet"
	case strings.Contains(ua, "mobile"), strings.Contains(ua, "android"), strings.Contains(ua, "iphone"):
		return "mobile"
	case strings.Contains(ua, "bot"), strings.Contains(ua, "crawler"), strings.Contains(ua, "spider"):
		return "bot"
	default:
		return "desktop"
	}
}
