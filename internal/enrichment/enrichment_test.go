package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUserAgent(t *testing.T) {
	tests := []struct {
		name        string
		ua          string
		wantDevice  string
		wantBrowser string
	}{
		{
			name:        "desktop chrome",
			ua:          "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			wantDevice:  "desktop",
			wantBrowser: "Chrome",
		},
		{
			name:        "iphone safari",
			ua:          "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			wantDevice:  "mobile",
			wantBrowser: "Safari",
		},
		{
			name:        "googlebot",
			ua:          "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
			wantDevice:  "bot",
			wantBrowser: "Googlebot",
		},
		{
			name:        "empty",
			ua:          "",
			wantDevice:  "unknown",
			wantBrowser: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseUserAgent(tt.ua)
			assert.Equal(t, tt.wantDevice, info.DeviceType)
			assert.Equal(t, tt.wantBrowser, info.Browser)
		})
	}
}

func TestClassifyIP(t *testing.T) {
	assert.Equal(t, NetworkLocal, ClassifyIP("127.0.0.1"))
	assert.Equal(t, NetworkLocal, ClassifyIP("10.1.2.3"))
	assert.Equal(t, NetworkLocal, ClassifyIP("::1"))
	assert.Equal(t, NetworkPublic, ClassifyIP("8.8.8.8"))
	assert.Equal(t, NetworkUnknown, ClassifyIP("not-an-ip"))
	assert.Equal(t, NetworkUnknown, ClassifyIP(""))
}
