package interview

import (
	"context"

	"github.com/JoeYatesss/educonnect-api/internal/common"
)

type Repository interface {
	Create(ctx context.Context, s Selection) (*Selection, error)
	GetByID(ctx context.Context, id common.UUID) (*Selection, error)
	FindByAccountAndTeacher(ctx context.Context, accountID, teacherID common.UUID, jobID *common.UUID) (*Selection, error)
	ListBySchoolAccount(ctx context.Context, accountID common.UUID) ([]Selection, error)
	ListByTeacher(ctx context.Context, teacherID common.UUID) ([]Selection, error)
	UpdateStatus(ctx context.Context, id common.UUID, status Status, notes string) (*Selection, error)
}
