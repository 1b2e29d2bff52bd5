package data

import (
	"time"

	"HireAll/internal/biz"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID             string    `gorm:"primaryKey;column:id;type:varchar(64)"`
	Email          string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex"`
	IsAdmin        bool      `gorm:"column:is_admin;not null;default:false"`
	Plan           string    `gorm:"column:plan;type:varchar(32)"`
	SubscriptionID *string   `gorm:"column:subscription_id;type:varchar(64)"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) toBiz() *biz.User {
	u := &biz.User{
		ID:      m.ID,
		Email:   m.Email,
		IsAdmin: m.IsAdmin,
		Plan:    biz.PlanName(m.Plan),
	}
	if m.SubscriptionID != nil {
		u.SubscriptionID = *m.SubscriptionID
	}
	return u
}

// SubscriptionModel is the GORM model for the subscriptions table.
type SubscriptionModel struct {
	ID               string     `gorm:"primaryKey;column:id;type:varchar(64)"`
	UserID           string     `gorm:"column:user_id;type:varchar(64);not null;index"`
	Plan             string     `gorm:"column:plan;type:varchar(32);not null"`
	Status           string     `gorm:"column:status;type:varchar(32);not null"`
	CurrentPeriodEnd *time.Time `gorm:"column:current_period_end"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

func (m *SubscriptionModel) toBiz() *biz.Subscription {
	return &biz.Subscription{
		ID:               m.ID,
		UserID:           m.UserID,
		Plan:             biz.PlanName(m.Plan),
		Status:           m.Status,
		CurrentPeriodEnd: m.CurrentPeriodEnd,
	}
}

// GenerationModel is the shared shape of the cv_analyses and ai_generations
// tables. The table is chosen per record kind.
type GenerationModel struct {
	ID        int64     `gorm:"primaryKey;column:id;autoIncrement"`
	UserID    string    `gorm:"column:user_id;type:varchar(64);not null;index:idx_user_created,priority:1"`
	Prompt    string    `gorm:"column:prompt;type:text"`
	Output    string    `gorm:"column:output;type:mediumtext"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_user_created,priority:2"`
}

// recordTables maps each counted record kind to its table. The
// applications table is written by the applications subsystem.
var recordTables = map[biz.RecordKind]string{
	biz.RecordApplications:  "applications",
	biz.RecordCVAnalyses:    "cv_analyses",
	biz.RecordAIGenerations: "ai_generations",
}
