package models

// Bucket is one group of a distribution.
type Bucket struct {
	ID    string `json:"_id" gorm:"column:id"`
	Count int64  `json:"count" gorm:"column:count"`
}

// GPAStats aggregates GPA over active students.
type GPAStats struct {
	AvgGPA float64 `json:"avgGPA" gorm:"column:avg_gpa"`
	MaxGPA float64 `json:"maxGPA" gorm:"column:max_gpa"`
	MinGPA float64 `json:"minGPA" gorm:"column:min_gpa"`
}

// AttendanceStats aggregates attendance over active students.
type AttendanceStats struct {
	AvgAttendance float64 `json:"avgAttendance" gorm:"column:avg_attendance"`
}

// StudentStats is the dashboard overview. Every figure covers Active students only.
type StudentStats struct {
	TotalStudents                int64           `json:"totalStudents"`
	GradeDistribution            []Bucket        `json:"gradeDistribution"`
	DepartmentDistribution       []Bucket        `json:"departmentDistribution"`
	GPAStats                     GPAStats        `json:"gpaStats"`
	AttendanceStats              AttendanceStats `json:"attendanceStats"`
	AttendanceStatusDistribution []Bucket        `json:"attendanceStatusDistribution"`
}
