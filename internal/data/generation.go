package data

import (
	"context"
	"fmt"

	"HireAll/internal/biz"
	pkgerrors "HireAll/pkg/errors"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

// GenerationRepo implements biz.GenerationRepo.
type GenerationRepo struct {
	db     *gorm.DB
	logger *log.Helper
}

// NewGenerationRepo creates a new generation repository.
func NewGenerationRepo(data *Data, logger log.Logger) *GenerationRepo {
	return &GenerationRepo{
		db:     data.db,
		logger: log.NewHelper(logger),
	}
}

// SaveRecord inserts rec into the table for its kind and sets rec.ID.
func (r *GenerationRepo) SaveRecord(ctx context.Context, rec *biz.GenerationRecord) error {
	if rec.Kind != biz.RecordCVAnalyses && rec.Kind != biz.RecordAIGenerations {
		return fmt.Errorf("cannot save record of kind %q", rec.Kind)
	}

	m := &GenerationModel{
		UserID:    rec.UserID,
		Prompt:    rec.Prompt,
		Output:    rec.Output,
		CreatedAt: rec.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Table(recordTables[rec.Kind]).Create(m).Error; err != nil {
		return pkgerrors.ClassifyDBError(err)
	}

	rec.ID = m.ID
	r.logger.Debugw("generation record saved", "kind", string(rec.Kind), "user_id", rec.UserID, "id", m.ID)
	return nil
}
