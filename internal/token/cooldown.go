package token

import "time"

// RemainingCooldown returns (issuedAt + cooldown) - now in whole seconds.
// A positive result is the time the caller still has to wait; zero or
// negative means the action is permitted. Values are not clamped.
func RemainingCooldown(issuedAt time.Time, cooldown time.Duration) int64 {
	return remainingCooldownAt(issuedAt, cooldown, time.Now())
}

func remainingCooldownAt(issuedAt time.Time, cooldown time.Duration, now time.Time) int64 {
	return int64(issuedAt.Add(cooldown).Sub(now) / time.Second)
}
