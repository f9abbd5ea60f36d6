package version

import (
	"strings"
	"testing"
)

func TestInfoContainsVersion(t *testing.T) {
	if !strings.Contains(Info(), Version) {
		t.Errorf("Info() = %q, missing version %q", Info(), Version)
	}
	if !strings.Contains(Info(), "softether-exporter") {
		t.Errorf("Info() = %q, missing binary name", Info())
	}
}

func TestShort(t *testing.T) {
	if Short() != Version {
		t.Errorf("Short() = %q, want %q", Short(), Version)
	}
}
