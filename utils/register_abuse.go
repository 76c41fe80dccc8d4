package utils

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stackit/stackit/config"
)

func regKey(parts ...string) string {
	return "reg:" + strings.Join(parts, ":")
}

// RegistrationCooldownTry enforces a short cooldown between attempts per IP.
// Fails open when Redis is unavailable.
func RegistrationCooldownTry(ip string) bool {
	cfg := config.Get()
	sec := cfg.RegisterAttemptCooldownSec
	if sec <= 0 {
		return true
	}
	cli := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	ok, err := cli.SetNX(ctx, regKey("cooldown", ip), "1", time.Duration(sec)*time.Second).Result()
	if err != nil {
		return true
	}
	return ok
}

// RegistrationDailyLimitCheck allows up to N successful registrations per day per IP.
func RegistrationDailyLimitCheck(ip string) bool {
	cfg := config.Get()
	limit := cfg.RegisterMaxPerIPPerDay
	if limit <= 0 {
		return true
	}
	cli := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	key := regKey("succday", ip, time.Now().Format("20060102"))
	n, err := cli.Get(ctx, key).Int()
	if err == redis.Nil {
		n = 0
	} else if err != nil {
		return true
	}
	return n < limit
}

// RegistrationDailyIncrement increments the success counter for today.
func RegistrationDailyIncrement(ip string) {
	cli := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	key := regKey("succday", ip, time.Now().Format("20060102"))
	if err := cli.Incr(ctx, key).Err(); err == nil {
		ttl := time.Until(time.Now().Truncate(24 * time.Hour).Add(24 * time.Hour))
		_ = cli.Expire(ctx, key, ttl).Err()
	}
}
