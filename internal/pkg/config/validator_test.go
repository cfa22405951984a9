package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateCronSchedule(t *testing.T) {
	tests := []struct {
		schedule string
		wantErr  bool
	}{
		{"0 4 * * *", false},
		{"*/15 * * * *", false},
		{"0 9-17 * * 1-5", false},
		{"", true},
		{"every day", true},
		{"60 * * * *", true},
		{"0 0 0 * * *", true}, // seconds field not accepted
	}
	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			err := ValidateCronSchedule(tt.schedule)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTimezone(t *testing.T) {
	assert.NoError(t, ValidateTimezone("UTC"))
	assert.NoError(t, ValidateTimezone("Asia/Tokyo"))
	assert.ErrorContains(t, ValidateTimezone(""), "cannot be empty")
	assert.ErrorContains(t, ValidateTimezone("Mars/Olympus"), `"Mars/Olympus"`)
}

func TestInRange(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr string
	}{
		{"int inside", InRange(5, 1, 10), ""},
		{"int at min", InRange(1, 1, 10), ""},
		{"int at max", InRange(10, 1, 10), ""},
		{"int below", InRange(0, 1, 10), "below minimum"},
		{"int above", InRange(11, 1, 10), "exceeds maximum"},
		{"inverted range", InRange(5, 10, 1), "invalid range"},
		{"duration inside", InRange(time.Hour, time.Minute, 4*time.Hour), ""},
		{"duration above", InRange(5*time.Hour, time.Minute, 4*time.Hour), "exceeds maximum 4h0m0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr == "" {
				assert.NoError(t, tt.err)
			} else {
				assert.ErrorContains(t, tt.err, tt.wantErr)
			}
		})
	}
}

func TestBetween(t *testing.T) {
	v := Between(1024, 65535)
	assert.NoError(t, v(9091))
	assert.Error(t, v(80))
}
