package repositories

import (
	"context"
	"fmt"
	"strings"

	"scholarsync/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMStudentRepository is a GORM implementation of StudentRepository.
type GORMStudentRepository struct {
	db *gorm.DB
}

// NewGORMStudentRepository creates a new instance of GORMStudentRepository.
func NewGORMStudentRepository(db *gorm.DB) *GORMStudentRepository {
	return &GORMStudentRepository{
		db: db,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List returns one page of students matching q and the total match count.
func (r *GORMStudentRepository) List(ctx context.Context, q models.StudentQuery) ([]models.Student, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Student{})

	if q.Filter.Grade != "" {
		query = query.Where("grade = ?", q.Filter.Grade)
	}
	if q.Filter.Department != "" {
		query = query.Where("department = ?", q.Filter.Department)
	}
	if q.Filter.Status != "" {
		query = query.Where("status = ?", q.Filter.Status)
	}
	if q.Filter.Search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(q.Filter.Search)) + "%"
		query = query.Where(
			`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\' OR LOWER(student_id) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		)
	}
	// Count and Find below both start from the filtered statement.
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count students: %w", err)
	}

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	students := make([]models.Student, 0, q.Limit)
	err := query.
		Preload("CreatedBy").
		Order(clause.OrderByColumn{Column: clause.Column{Name: sortBy}, Desc: q.Desc}).
		Order("id").
		Limit(q.Limit).
		Offset((q.Page - 1) * q.Limit).
		Find(&students).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list students: %w", err)
	}
	return students, total, nil
}

// GetByID retrieves a single student with its creator by ID.
func (r *GORMStudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Preload("CreatedBy").First(&student, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get student by ID %s: %w", id, translate(err))
	}
	return &student, nil
}

// ExistsByStudentID reports whether another student already uses studentID.
func (r *GORMStudentRepository) ExistsByStudentID(ctx context.Context, studentID, excludeID string) (bool, error) {
	return r.exists(ctx, "student_id = ?", studentID, excludeID)
}

// ExistsByEmail reports whether another student already uses email.
func (r *GORMStudentRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return r.exists(ctx, "email = ?", email, excludeID)
}

func (r *GORMStudentRepository) exists(ctx context.Context, cond string, value, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Student{}).Where(cond, value)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check student uniqueness: %w", err)
	}
	return count > 0, nil
}

// Create creates a new student in the database.
func (r *GORMStudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Omit("CreatedBy").Create(student).Error; err != nil {
		return fmt.Errorf("failed to create student: %w", translate(err))
	}
	return nil
}

// Update writes the given columns of an existing student.
func (r *GORMStudentRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Student{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update student: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("student with ID %s not found for update: %w", id, ErrNotFound)
	}
	return nil
}

// Delete deletes a student by its ID from the database.
func (r *GORMStudentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Student{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete student: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("student with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteMany deletes every student whose ID is in ids and returns how many
// were removed. Unknown IDs are skipped.
func (r *GORMStudentRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Student{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete students: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Stats aggregates the dashboard figures over active students.
func (r *GORMStudentRepository) Stats(ctx context.Context) (*models.StudentStats, error) {
	active := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Student{}).Where("status = ?", models.StatusActive)
	}

	stats := &models.StudentStats{}
	if err := active().Count(&stats.TotalStudents).Error; err != nil {
		return nil, fmt.Errorf("failed to count active students: %w", err)
	}

	var err error
	if stats.GradeDistribution, err = distribution(active(), "grade", "id ASC"); err != nil {
		return nil, err
	}
	if stats.DepartmentDistribution, err = distribution(active(), "department", "count DESC, id ASC"); err != nil {
		return nil, err
	}
	if stats.AttendanceStatusDistribution, err = distribution(active(), "attendance_status", ""); err != nil {
		return nil, err
	}

	err = active().
		Select("COALESCE(AVG(gpa), 0) AS avg_gpa, COALESCE(MAX(gpa), 0) AS max_gpa, COALESCE(MIN(gpa), 0) AS min_gpa").
		Scan(&stats.GPAStats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate gpa: %w", err)
	}

	err = active().
		Select("COALESCE(AVG(attendance_percentage), 0) AS avg_attendance").
		Scan(&stats.AttendanceStats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate attendance: %w", err)
	}

	return stats, nil
}

func distribution(query *gorm.DB, column, order string) ([]models.Bucket, error) {
	query = query.Select(column + " AS id, COUNT(*) AS count").Group(column)
	if order != "" {
		query = query.Order(order)
	}

	buckets := make([]models.Bucket, 0)
	if err := query.Scan(&buckets).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate %s distribution: %w", column, err)
	}
	if buckets == nil {
		buckets = []models.Bucket{}
	}
	return buckets, nil
}
