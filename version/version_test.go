package version

import "testing"

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"dev", Info{Version: "dev"}, "dev"},
		{"short commit", Info{Version: "1.0.0", GitCommit: "abc1234"}, "1.0.0-abc1234"},
		{"long commit is cut", Info{Version: "1.0.0", GitCommit: "abc1234def5678"}, "1.0.0-abc1234"},
		{"dirty", Info{Version: "1.0.0", GitCommit: "abc1234", Dirty: true}, "1.0.0-abc1234-dirty"},
		{"build time", Info{Version: "1.0.0", BuildTime: "2026-01-15T10:30:00Z"}, "1.0.0 (built 2026-01-15T10:30:00Z)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestInfoRelease(t *testing.T) {
	tests := []struct {
		info Info
		want bool
	}{
		{Info{Version: "dev"}, false},
		{Info{Version: "1.0.0"}, true},
		{Info{Version: "1.0.0", Dirty: true}, false},
		{Info{Version: "1.0.0-dirty"}, false},
	}
	for _, tt := range tests {
		if got := tt.info.Release(); got != tt.want {
			t.Errorf("%+v: expected %v, got %v", tt.info, tt.want, got)
		}
	}
}

func TestGetUsesLinkerValues(t *testing.T) {
	origVersion, origCommit, origBuildTime := Version, GitCommit, BuildTime
	defer func() { Version, GitCommit, BuildTime = origVersion, origCommit, origBuildTime }()

	Version, GitCommit, BuildTime = "2.0.0", "feedbee", "2026-02-01T00:00:00Z"
	info := Get()
	if info.Version != "2.0.0" || info.GitCommit != "feedbee" || info.BuildTime != "2026-02-01T00:00:00Z" {
		t.Errorf("linker values not preferred: %+v", info)
	}
}
