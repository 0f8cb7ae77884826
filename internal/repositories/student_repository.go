package repositories

import (
	"context"

	"scholarsync/internal/models"
)

// StudentRepository defines the interface for student data access.
type StudentRepository interface {
	List(ctx context.Context, q models.StudentQuery) ([]models.Student, int64, error)
	GetByID(ctx context.Context, id string) (*models.Student, error)
	// ExistsByStudentID and ExistsByEmail ignore the record with excludeID,
	// so an update can keep its own values. Pass "" to check every record.
	ExistsByStudentID(ctx context.Context, studentID, excludeID string) (bool, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	Stats(ctx context.Context) (*models.StudentStats, error)
}
