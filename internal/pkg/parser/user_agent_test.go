package parser

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want ClientInfo
	}{
		{
			name: "iphone safari",
			ua:   "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			want: ClientInfo{DeviceType: "mobile", OS: "iOS", Browser: "Safari"},
		},
		{
			name: "android chrome",
			ua:   "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
			want: ClientInfo{DeviceType: "mobile", OS: "Android", Browser: "Chrome"},
		},
		{
			name: "ipad",
			ua:   "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1",
			want: ClientInfo{DeviceType: "tablet", OS: "iOS", Browser: "Safari"},
		},
		{
			name: "windows edge",
			ua:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
			want: ClientInfo{DeviceType: "desktop", OS: "Windows", Browser: "Edge"},
		},
		{
			name: "mac firefox",
			ua:   "Mozilla/5.0 (Macintosh; Intel Mac OS X 14.1; rv:121.0) Gecko/20100101 Firefox/121.0",
			want: ClientInfo{DeviceType: "desktop", OS: "macOS", Browser: "Firefox"},
		},
		{
			name: "linux chrome",
			ua:   "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			want: ClientInfo{DeviceType: "desktop", OS: "Linux", Browser: "Chrome"},
		},
		{
			name: "crawler",
			ua:   "Googlebot/2.1 (+http://www.google.com/bot.html)",
			want: ClientInfo{DeviceType: "bot", OS: "Unknown", Browser: "Unknown"},
		},
		{
			name: "empty",
			ua:   "",
			want: ClientInfo{DeviceType: "desktop", OS: "Unknown", Browser: "Unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.ua); got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
