package services

import (
	"fmt"
	"testing"
	"time"

	"edu-progression-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory SQLite database with the full
// schema and seeded catalogs. MaxOpenConns(1) serializes concurrent
// goroutines at the pool level so SQLite never sees competing writers.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.LearningModule{},
		&models.ModuleProgress{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.ProcessedEvent{},
	))
	require.NoError(t, SeedBadgeCatalog(db))
	require.NoError(t, SeedAchievementCatalog(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, xp int64) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()),
		PasswordHash: "x",
		DisplayName:  "Test Learner",
		XP:           xp,
		Level:        LevelOf(xp),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestModule(t *testing.T, db *gorm.DB, slug string, xpReward int64) *models.LearningModule {
	t.Helper()
	module := &models.LearningModule{
		ID:       uuid.NewString(),
		Slug:     slug,
		Title:    slug,
		XPReward: xpReward,
		Status:   models.ModuleStatusPublished,
	}
	require.NoError(t, db.Create(module).Error)
	return module
}

func daysAgo(n int) *time.Time {
	d := DateOnly(time.Now().AddDate(0, 0, -n))
	return &d
}
