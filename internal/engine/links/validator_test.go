package links

import "testing"

func TestNormalizeTargetURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com/a", "https://example.com/a"},
		{"HTTP://Example.com", "HTTP://Example.com"},
		{"  example.com/menu ", "https://example.com/menu"},
		{"   ", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeTargetURL(tt.in); got != tt.want {
			t.Errorf("NormalizeTargetURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateTargetURL(t *testing.T) {
	if err := ValidateTargetURL("example.com"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := ValidateTargetURL(" "); err == nil {
		t.Error("Expected error for blank target")
	}
	if err := ValidateTargetURL("https://"); err == nil {
		t.Error("Expected error for target without host")
	}
}
