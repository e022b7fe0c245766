package workers

import (
	"context"
	"log"
	"time"

	"edu-progression-system/services"
)

// RunLeaderboardRebuild periodically refreshes the Redis leaderboard cache
// from the database. Failures are logged and retried next tick; the cache
// simply stays stale in between.
func RunLeaderboardRebuild(ctx context.Context, svc *services.LeaderboardService, interval time.Duration) {
	log.Println("Starting leaderboard rebuild worker...")

	// Prime the cache immediately so the first request after boot is warm.
	if err := svc.Rebuild(ctx); err != nil {
		log.Printf("❌ Initial leaderboard rebuild failed: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Leaderboard rebuild worker stopped.")
			return
		case <-ticker.C:
			if err := svc.Rebuild(ctx); err != nil {
				log.Printf("❌ Leaderboard rebuild failed: %v", err)
				continue
			}
			log.Println("✅ Leaderboard cache rebuilt")
		}
	}
}
