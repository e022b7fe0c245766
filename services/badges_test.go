package services

import (
	"sync"
	"testing"

	"edu-progression-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgeAwardIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)
	user := createTestUser(t, db, 0)

	res, err := svc.Award(user.ID, "first-steps")
	require.NoError(t, err)
	assert.Equal(t, Awarded, res)

	res, err = svc.Award(user.ID, "first-steps")
	require.NoError(t, err)
	assert.Equal(t, AlreadyAwarded, res)

	var count int64
	require.NoError(t, db.Model(&models.UserBadge{}).
		Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestBadgeAwardUnknownSlug(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)
	user := createTestUser(t, db, 0)

	_, err := svc.Award(user.ID, "no-such-badge")
	assert.ErrorIs(t, err, ErrNotFound)
}

// The award is an insert-if-absent against the unique index, so 100
// invocations racing on the same (user, badge) pair still leave one row.
func TestBadgeAwardConcurrentSamePair(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)
	user := createTestUser(t, db, 0)

	var wg sync.WaitGroup
	awardedCount := make(chan AwardResult, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Award(user.ID, "flawless")
			assert.NoError(t, err)
			awardedCount <- res
		}()
	}
	wg.Wait()
	close(awardedCount)

	awarded := 0
	for res := range awardedCount {
		if res == Awarded {
			awarded++
		}
	}
	assert.Equal(t, 1, awarded)

	var count int64
	require.NoError(t, db.Model(&models.UserBadge{}).
		Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSeedBadgeCatalogIsRepeatable(t *testing.T) {
	db := newTestDB(t)

	// Seeding again (as every boot does) must not duplicate rows.
	require.NoError(t, SeedBadgeCatalog(db))

	var count int64
	require.NoError(t, db.Model(&models.Badge{}).Count(&count).Error)
	assert.Equal(t, int64(len(models.BadgeCatalog)), count)
}

func TestListUserBadges(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)
	user := createTestUser(t, db, 0)

	_, err := svc.Award(user.ID, "first-steps")
	require.NoError(t, err)
	_, err = svc.Award(user.ID, "flawless")
	require.NoError(t, err)

	badges, err := svc.ListUserBadges(user.ID)
	require.NoError(t, err)
	require.Len(t, badges, 2)
	slugs := []string{badges[0]["slug"].(string), badges[1]["slug"].(string)}
	assert.ElementsMatch(t, []string{"first-steps", "flawless"}, slugs)
}
