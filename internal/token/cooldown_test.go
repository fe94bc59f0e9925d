package token

import (
	"testing"
	"time"
)

func TestRemainingCooldown(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cooldown := 60 * time.Second

	tests := []struct {
		name     string
		issuedAt time.Time
		want     int64
	}{
		{"just issued", now, 60},
		{"one second before expiry", now.Add(-59 * time.Second), 1},
		{"exactly at expiry", now.Add(-60 * time.Second), 0},
		{"past expiry stays negative", now.Add(-65 * time.Second), -5},
		{"sub-second remainder truncates toward zero", now.Add(-59*time.Second - 500*time.Millisecond), 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := remainingCooldownAt(tt.issuedAt, cooldown, now); got != tt.want {
				t.Errorf("remainingCooldownAt = %d, want %d", got, tt.want)
			}
		})
	}
}
