package config

import (
	"testing"
)

func TestLoadRateLimitConfig(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want RateLimitConfig
	}{
		{
			name: "defaults",
			want: RateLimitConfig{Enabled: true, PerSecond: 1, Burst: 10},
		},
		{
			name: "custom values",
			env: map[string]string{
				"RATELIMIT_ENABLED":           "false",
				"RATELIMIT_WRITES_PER_MINUTE": "120",
				"RATELIMIT_WRITE_BURST":       "3",
			},
			want: RateLimitConfig{Enabled: false, PerSecond: 2, Burst: 3},
		},
		{
			name: "non positive values fall back",
			env: map[string]string{
				"RATELIMIT_WRITES_PER_MINUTE": "0",
				"RATELIMIT_WRITE_BURST":       "-4",
			},
			want: RateLimitConfig{Enabled: true, PerSecond: 1, Burst: 10},
		},
		{
			name: "unparsable values fall back",
			env: map[string]string{
				"RATELIMIT_WRITES_PER_MINUTE": "lots",
			},
			want: RateLimitConfig{Enabled: true, PerSecond: 1, Burst: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"RATELIMIT_ENABLED", "RATELIMIT_WRITES_PER_MINUTE", "RATELIMIT_WRITE_BURST"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got := LoadRateLimitConfig()
			if got != tt.want {
				t.Errorf("LoadRateLimitConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
