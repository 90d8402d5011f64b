package bootstrap

import (
	"github.com/google/uuid"

	"github.com/alumnihub/pointsledger/internal/entity"
	"github.com/alumnihub/pointsledger/internal/event"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.ActivityDefinition{},
		&entity.CompletionRecord{},
		&entity.Member{},
		&entity.Message{},
		&entity.Reaction{},
		&entity.ProfileEntry{},
	)
}

// SeedActivityDefinitions inserts a default catalog entry per activity type if
// none exists yet. Catalog administration owns these rows afterwards; the
// seed only keeps a fresh development database usable.
func SeedActivityDefinitions(db *gorm.DB) error {
	defaults := []entity.ActivityDefinition{
		{ActivityType: string(event.TypeAttendEvent), PointValue: 10, Period: entity.PeriodNone},
		{ActivityType: string(event.TypeReactToMessage), PointValue: 1, Period: entity.PeriodNone},
		{ActivityType: string(event.TypeReplyToThread), PointValue: 2, Period: entity.PeriodNone},
		{ActivityType: string(event.TypeRespondToSurvey), PointValue: 15, Period: entity.PeriodNone},
		{ActivityType: string(event.TypeUpdateEducationHistory), PointValue: 5, Period: entity.PeriodQuarterly},
		{ActivityType: string(event.TypeUpdateWorkHistory), PointValue: 5, Period: entity.PeriodQuarterly},
		{ActivityType: string(event.TypeJoinDirectory), PointValue: 20, Period: entity.PeriodNone},
		{ActivityType: string(event.TypeRenewMembership), PointValue: 25, Period: entity.PeriodNone},
	}

	for _, def := range defaults {
		var count int64
		if err := db.Model(&entity.ActivityDefinition{}).
			Where("activity_type = ?", def.ActivityType).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			def.ID = uuid.New()
			if err := db.Create(&def).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
