package models

import "time"

// Student grades.
const (
	Grade10 = "10th"
	Grade11 = "11th"
	Grade12 = "12th"
)

// Student statuses. Any status may be set from any other.
const (
	StatusActive    = "Active"
	StatusInactive  = "Inactive"
	StatusGraduated = "Graduated"
)

// Attendance statuses.
const (
	AttendancePresent = "Present"
	AttendanceAbsent  = "Absent"
	AttendanceLate    = "Late"
)

// Address is stored inline on the students table with an address_ prefix.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

// Creator is the read-only view of the user who created a student.
type Creator struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TableName maps Creator onto the users table.
func (Creator) TableName() string {
	return "users"
}

// Student represents a student record.
type Student struct {
	ID                   string     `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name                 string     `json:"name" gorm:"type:varchar(255);not null"`
	StudentID            string     `json:"studentId" gorm:"uniqueIndex;type:varchar(64);not null"`
	Email                string     `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Phone                string     `json:"phone"`
	DateOfBirth          *time.Time `json:"dateOfBirth,omitempty"`
	Gender               string     `json:"gender,omitempty" gorm:"type:varchar(16)"`
	Grade                string     `json:"grade" gorm:"index;type:varchar(8);not null"`
	Department           string     `json:"department" gorm:"index;type:varchar(255);not null"`
	EnrollmentYear       int        `json:"enrollmentYear" gorm:"not null"`
	GPA                  float64    `json:"gpa" gorm:"column:gpa;not null"`
	AttendanceStatus     string     `json:"attendanceStatus" gorm:"type:varchar(16);not null"`
	AttendancePercentage float64    `json:"attendancePercentage" gorm:"not null"`
	GuardianName         string     `json:"guardianName"`
	GuardianPhone        string     `json:"guardianPhone"`
	GuardianEmail        string     `json:"guardianEmail"`
	Address              Address    `json:"address" gorm:"embedded;embeddedPrefix:address_"`
	Notes                string     `json:"notes" gorm:"type:text"`
	Status               string     `json:"status" gorm:"index;type:varchar(16);not null"`
	CreatedByID          *string    `json:"-" gorm:"type:varchar(36);index"`
	CreatedBy            *Creator   `json:"createdBy,omitempty" gorm:"foreignKey:CreatedByID;references:ID;-:migration"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// StudentFilter narrows a student listing. Empty fields are ignored.
type StudentFilter struct {
	Grade      string
	Department string
	Status     string
	Search     string
}

// StudentQuery is a filtered, sorted page request.
type StudentQuery struct {
	Filter StudentFilter
	SortBy string // column name, already allow-listed
	Desc   bool
	Page   int // 1-based
	Limit  int
}

// Pagination describes one page of a listing.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
	Limit int   `json:"limit"`
}

// StudentPage is the result of a listing.
type StudentPage struct {
	Students   []Student  `json:"students"`
	Pagination Pagination `json:"pagination"`
}
