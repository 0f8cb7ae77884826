package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"scholarsync/internal/apperrors"
	"scholarsync/internal/models"
	"scholarsync/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// Listing limits.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
	MaxPage          = 1000000
)

// Routing keys of published student events.
const (
	EventStudentCreated     = "student.created"
	EventStudentUpdated     = "student.updated"
	EventStudentDeleted     = "student.deleted"
	EventStudentBulkDeleted = "student.bulk_deleted"
)

// StudentEventPublisher receives a notification after each successful write.
type StudentEventPublisher interface {
	PublishStudentEvent(event string, payload interface{}) error
}

// sortColumns maps the JSON names clients sort by onto columns.
var sortColumns = map[string]string{
	"name":                 "name",
	"studentId":            "student_id",
	"email":                "email",
	"phone":                "phone",
	"dateOfBirth":          "date_of_birth",
	"gender":               "gender",
	"grade":                "grade",
	"department":           "department",
	"enrollmentYear":       "enrollment_year",
	"gpa":                  "gpa",
	"attendanceStatus":     "attendance_status",
	"attendancePercentage": "attendance_percentage",
	"guardianName":         "guardian_name",
	"status":               "status",
	"createdAt":            "created_at",
	"updatedAt":            "updated_at",
}

// AddressInput is the address part of a create payload.
type AddressInput struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

// CreateStudentInput is the payload accepted by Create. Pointer fields
// distinguish an absent value from an explicit zero.
type CreateStudentInput struct {
	Name                 string       `json:"name" validate:"required"`
	StudentID            string       `json:"studentId" validate:"required"`
	Email                string       `json:"email" validate:"required,email"`
	Phone                string       `json:"phone"`
	DateOfBirth          string       `json:"dateOfBirth"`
	Gender               string       `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	Grade                string       `json:"grade" validate:"required,oneof=10th 11th 12th"`
	Department           string       `json:"department" validate:"required"`
	EnrollmentYear       int          `json:"enrollmentYear" validate:"required,gte=1900,lte=2100"`
	GPA                  *float64     `json:"gpa" validate:"omitnil,gte=0,lte=4"`
	AttendanceStatus     string       `json:"attendanceStatus" validate:"omitempty,oneof=Present Absent Late"`
	AttendancePercentage *float64     `json:"attendancePercentage" validate:"omitnil,gte=0,lte=100"`
	GuardianName         string       `json:"guardianName"`
	GuardianPhone        string       `json:"guardianPhone"`
	GuardianEmail        string       `json:"guardianEmail" validate:"omitempty,email"`
	Address              AddressInput `json:"address"`
	Notes                string       `json:"notes"`
	Status               string       `json:"status" validate:"omitempty,oneof=Active Inactive Graduated"`
}

// AddressUpdate is the address part of an update payload.
type AddressUpdate struct {
	Street  *string `json:"street"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	ZipCode *string `json:"zipCode"`
}

// UpdateStudentInput is the payload accepted by Update. Nil fields are left
// untouched. An empty dateOfBirth clears the stored date.
type UpdateStudentInput struct {
	Name                 *string        `json:"name" validate:"omitnil,min=1"`
	StudentID            *string        `json:"studentId" validate:"omitnil,min=1"`
	Email                *string        `json:"email" validate:"omitnil,email"`
	Phone                *string        `json:"phone"`
	DateOfBirth          *string        `json:"dateOfBirth"`
	Gender               *string        `json:"gender" validate:"omitnil,oneof=Male Female Other"`
	Grade                *string        `json:"grade" validate:"omitnil,oneof=10th 11th 12th"`
	Department           *string        `json:"department" validate:"omitnil,min=1"`
	EnrollmentYear       *int           `json:"enrollmentYear" validate:"omitnil,gte=1900,lte=2100"`
	GPA                  *float64       `json:"gpa" validate:"omitnil,gte=0,lte=4"`
	AttendanceStatus     *string        `json:"attendanceStatus" validate:"omitnil,oneof=Present Absent Late"`
	AttendancePercentage *float64       `json:"attendancePercentage" validate:"omitnil,gte=0,lte=100"`
	GuardianName         *string        `json:"guardianName"`
	GuardianPhone        *string        `json:"guardianPhone"`
	GuardianEmail        *string        `json:"guardianEmail" validate:"omitempty,email"`
	Address              *AddressUpdate `json:"address"`
	Notes                *string        `json:"notes"`
	Status               *string        `json:"status" validate:"omitnil,oneof=Active Inactive Graduated"`
}

// normalize trims every supplied string and lower-cases the emails so that
// validation sees the values that will be stored.
func (in *UpdateStudentInput) normalize() {
	for _, field := range []*string{
		in.Name, in.StudentID, in.Phone, in.Gender, in.Grade, in.Department,
		in.AttendanceStatus, in.GuardianName, in.GuardianPhone, in.Status,
	} {
		trim(field)
	}
	if in.Email != nil {
		*in.Email = normalizeEmail(*in.Email)
	}
	if in.GuardianEmail != nil {
		*in.GuardianEmail = normalizeEmail(*in.GuardianEmail)
	}
	if in.Address != nil {
		trim(in.Address.Street)
		trim(in.Address.City)
		trim(in.Address.State)
		trim(in.Address.ZipCode)
	}
}

func trim(value *string) {
	if value != nil {
		*value = strings.TrimSpace(*value)
	}
}

// ListStudentsParams holds the raw listing query. Zero values select the
// defaults.
type ListStudentsParams struct {
	Grade      string
	Department string
	Status     string
	Search     string
	SortBy     string
	Order      string
	Page       int
	Limit      int
}

// StudentService handles business logic for student records.
type StudentService struct {
	repo      repositories.StudentRepository
	publisher StudentEventPublisher
	validate  *validator.Validate
}

// NewStudentService creates a new StudentService. publisher may be nil.
func NewStudentService(repo repositories.StudentRepository, publisher StudentEventPublisher) *StudentService {
	return &StudentService{
		repo:      repo,
		publisher: publisher,
		validate:  newValidator(),
	}
}

// List returns one page of students matching p.
func (s *StudentService) List(ctx context.Context, p ListStudentsParams) (*models.StudentPage, error) {
	q := models.StudentQuery{
		Filter: models.StudentFilter{
			Grade:      strings.TrimSpace(p.Grade),
			Department: strings.TrimSpace(p.Department),
			Status:     strings.TrimSpace(p.Status),
			Search:     strings.TrimSpace(p.Search),
		},
		SortBy: "created_at",
		Desc:   !strings.EqualFold(p.Order, "asc"),
		Page:   p.Page,
		Limit:  p.Limit,
	}
	if column, ok := sortColumns[p.SortBy]; ok {
		q.SortBy = column
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}

	students, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}

	limit := int64(q.Limit)
	return &models.StudentPage{
		Students: students,
		Pagination: models.Pagination{
			Total: total,
			Page:  q.Page,
			Pages: int((total + limit - 1) / limit),
			Limit: q.Limit,
		},
	}, nil
}

// Get returns the student with id.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return student, nil
}

// Create stores a new student created by creatorID.
func (s *StudentService) Create(ctx context.Context, in CreateStudentInput, creatorID string) (*models.Student, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.StudentID = strings.TrimSpace(in.StudentID)
	in.Email = normalizeEmail(in.Email)
	in.GuardianEmail = normalizeEmail(in.GuardianEmail)
	in.Department = strings.TrimSpace(in.Department)
	if err := validateStruct(s.validate, in, "Please provide all required fields"); err != nil {
		return nil, err
	}

	dob, err := parseDate(in.DateOfBirth)
	if err != nil {
		return nil, err
	}

	if err := s.checkUnique(ctx, in.StudentID, in.Email, ""); err != nil {
		return nil, err
	}

	student := &models.Student{
		Name:                 in.Name,
		StudentID:            in.StudentID,
		Email:                in.Email,
		Phone:                strings.TrimSpace(in.Phone),
		DateOfBirth:          dob,
		Gender:               in.Gender,
		Grade:                in.Grade,
		Department:           in.Department,
		EnrollmentYear:       in.EnrollmentYear,
		GPA:                  0,
		AttendanceStatus:     models.AttendancePresent,
		AttendancePercentage: 100,
		GuardianName:         strings.TrimSpace(in.GuardianName),
		GuardianPhone:        strings.TrimSpace(in.GuardianPhone),
		GuardianEmail:        in.GuardianEmail,
		Address: models.Address{
			Street:  strings.TrimSpace(in.Address.Street),
			City:    strings.TrimSpace(in.Address.City),
			State:   strings.TrimSpace(in.Address.State),
			ZipCode: strings.TrimSpace(in.Address.ZipCode),
		},
		Notes:  in.Notes,
		Status: models.StatusActive,
	}
	if in.GPA != nil {
		student.GPA = *in.GPA
	}
	if in.AttendanceStatus != "" {
		student.AttendanceStatus = in.AttendanceStatus
	}
	if in.AttendancePercentage != nil {
		student.AttendancePercentage = *in.AttendancePercentage
	}
	if in.Status != "" {
		student.Status = in.Status
	}
	if creatorID != "" {
		student.CreatedByID = &creatorID
	}

	if err := s.repo.Create(ctx, student); err != nil {
		return nil, conflict(err)
	}

	created, err := s.repo.GetByID(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	s.publish(EventStudentCreated, created)
	return created, nil
}

// Update writes the supplied fields of the student with id.
func (s *StudentService) Update(ctx context.Context, id string, in UpdateStudentInput) (*models.Student, error) {
	in.normalize()
	if err := validateStruct(s.validate, in, "Validation failed"); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	updates := map[string]interface{}{}
	var studentID, email string
	if in.StudentID != nil {
		if v := *in.StudentID; v != existing.StudentID {
			studentID = v
			updates["student_id"] = v
		}
	}
	if in.Email != nil {
		if v := *in.Email; v != existing.Email {
			email = v
			updates["email"] = v
		}
	}
	if err := s.checkUnique(ctx, studentID, email, id); err != nil {
		return nil, err
	}

	if in.DateOfBirth != nil {
		dob, err := parseDate(*in.DateOfBirth)
		if err != nil {
			return nil, err
		}
		updates["date_of_birth"] = dob
	}
	if in.GuardianEmail != nil {
		updates["guardian_email"] = *in.GuardianEmail
	}
	setString(updates, "name", in.Name)
	setString(updates, "phone", in.Phone)
	setString(updates, "gender", in.Gender)
	setString(updates, "grade", in.Grade)
	setString(updates, "department", in.Department)
	setString(updates, "attendance_status", in.AttendanceStatus)
	setString(updates, "guardian_name", in.GuardianName)
	setString(updates, "guardian_phone", in.GuardianPhone)
	setString(updates, "status", in.Status)
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	if in.EnrollmentYear != nil {
		updates["enrollment_year"] = *in.EnrollmentYear
	}
	if in.GPA != nil {
		updates["gpa"] = *in.GPA
	}
	if in.AttendancePercentage != nil {
		updates["attendance_percentage"] = *in.AttendancePercentage
	}
	if in.Address != nil {
		setString(updates, "address_street", in.Address.Street)
		setString(updates, "address_city", in.Address.City)
		setString(updates, "address_state", in.Address.State)
		setString(updates, "address_zip_code", in.Address.ZipCode)
	}
	updates["updated_at"] = time.Now()

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, notFound(conflict(err))
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	s.publish(EventStudentUpdated, updated)
	return updated, nil
}

// Delete removes the student with id.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	s.publish(EventStudentDeleted, map[string]string{"id": id})
	return nil
}

// BulkDelete removes every student in ids and returns how many existed.
func (s *StudentService) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			cleaned = append(cleaned, id)
		}
	}
	if len(cleaned) == 0 {
		return 0, apperrors.NewValidationError("Please provide student IDs to delete", nil)
	}

	deleted, err := s.repo.DeleteMany(ctx, cleaned)
	if err != nil {
		return 0, err
	}
	s.publish(EventStudentBulkDeleted, map[string]interface{}{"ids": cleaned, "deletedCount": deleted})
	return deleted, nil
}

// Stats aggregates the dashboard figures over active students.
func (s *StudentService) Stats(ctx context.Context) (*models.StudentStats, error) {
	return s.repo.Stats(ctx)
}

// checkUnique fails with a Conflict when a non-empty studentID or email is
// used by a student other than excludeID.
func (s *StudentService) checkUnique(ctx context.Context, studentID, email, excludeID string) error {
	if studentID != "" {
		exists, err := s.repo.ExistsByStudentID(ctx, studentID, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.NewConflictError("Student ID already exists")
		}
	}
	if email != "" {
		exists, err := s.repo.ExistsByEmail(ctx, email, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.NewConflictError("Email already exists")
		}
	}
	return nil
}

func (s *StudentService) publish(event string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishStudentEvent(event, payload); err != nil {
		log.Warn().Err(err).Str("event", event).Msg("failed to publish student event")
	}
}

func setString(updates map[string]interface{}, column string, value *string) {
	if value != nil {
		updates[column] = *value
	}
}

func notFound(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NewNotFoundError("Student not found")
	}
	return err
}

func conflict(err error) error {
	if errors.Is(err, repositories.ErrDuplicateKey) {
		return apperrors.NewConflictError("Student ID or email already exists")
	}
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to save student: %w", err)
	}
	return err
}
