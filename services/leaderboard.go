// services/leaderboard.go
package services

import (
	"context"
	"encoding/json"
	"time"

	"edu-progression-system/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	leaderboardKey     = "leaderboard:xp"
	leaderboardMembers = "leaderboard:members"
	leaderboardSize    = 100
	leaderboardTTL     = 10 * time.Minute
)

// LeaderboardEntry is one row of the XP leaderboard.
type LeaderboardEntry struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	XP          int64  `json:"xp"`
	Level       int    `json:"level"`
	Rank        int    `json:"rank"`
}

// LeaderboardService caches the top-XP learners in a Redis sorted set,
// rebuilt periodically by the worker. It is a cache, not a real-time
// ranking; reads fall back to the database when Redis is absent or cold.
type LeaderboardService struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewLeaderboardService(db *gorm.DB, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{DB: db, Redis: rdb}
}

func (s *LeaderboardService) topFromDB(limit int) ([]LeaderboardEntry, error) {
	var users []models.User
	if err := s.DB.Order("xp DESC").Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, LeaderboardEntry{
			UserID:      u.ID,
			DisplayName: u.DisplayName,
			XP:          u.XP,
			Level:       u.Level,
			Rank:        i + 1,
		})
	}
	return entries, nil
}

// Rebuild refreshes the cached sorted set from the database.
func (s *LeaderboardService) Rebuild(ctx context.Context) error {
	if s.Redis == nil {
		return nil
	}

	entries, err := s.topFromDB(leaderboardSize)
	if err != nil {
		return err
	}

	pipe := s.Redis.TxPipeline()
	pipe.Del(ctx, leaderboardKey, leaderboardMembers)
	for _, e := range entries {
		pipe.ZAdd(ctx, leaderboardKey, redis.Z{Score: float64(e.XP), Member: e.UserID})
		payload, err := json.Marshal(e)
		if err != nil {
			return err
		}
		pipe.HSet(ctx, leaderboardMembers, e.UserID, payload)
	}
	pipe.Expire(ctx, leaderboardKey, leaderboardTTL)
	pipe.Expire(ctx, leaderboardMembers, leaderboardTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// Top returns the first n leaderboard entries, preferring the cache.
func (s *LeaderboardService) Top(ctx context.Context, n int) ([]LeaderboardEntry, error) {
	if n <= 0 || n > leaderboardSize {
		n = leaderboardSize
	}
	if s.Redis == nil {
		return s.topFromDB(n)
	}

	ids, err := s.Redis.ZRevRange(ctx, leaderboardKey, 0, int64(n-1)).Result()
	if err != nil || len(ids) == 0 {
		// Cold or unavailable cache: serve from the database.
		return s.topFromDB(n)
	}

	entries := make([]LeaderboardEntry, 0, len(ids))
	for i, id := range ids {
		raw, err := s.Redis.HGet(ctx, leaderboardMembers, id).Result()
		if err != nil {
			return s.topFromDB(n)
		}
		var e LeaderboardEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return s.topFromDB(n)
		}
		e.Rank = i + 1
		entries = append(entries, e)
	}
	return entries, nil
}
