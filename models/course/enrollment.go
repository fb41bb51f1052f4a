package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment links a student to a course. A whole-course purchase lists every
// module of the course; module purchases extend the list one id at a time.
type Enrollment struct {
	gorm.Model
	StudentID  uint               `json:"student_id" gorm:"not null;uniqueIndex:idx_enrollment_student_course"`
	CourseID   uint               `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_student_course"`
	FullCourse bool               `json:"full_course" gorm:"default:false"`
	Status     string             `json:"status" gorm:"default:'ENROLLED'"` // ENROLLED, COMPLETED
	Modules    []EnrollmentModule `json:"modules,omitempty" gorm:"foreignKey:EnrollmentID"`
}

// ModuleIDs returns the module ids the enrollment grants access to.
func (e Enrollment) ModuleIDs() []uint {
	ids := make([]uint, 0, len(e.Modules))
	for _, m := range e.Modules {
		ids = append(ids, m.ModuleID)
	}
	return ids
}

// EnrollmentModule is one module id inside an enrollment's module set.
type EnrollmentModule struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	EnrollmentID uint      `json:"enrollment_id" gorm:"not null;uniqueIndex:idx_enrollment_module"`
	ModuleID     uint      `json:"module_id" gorm:"not null;uniqueIndex:idx_enrollment_module"`
	CreatedAt    time.Time `json:"created_at"`
}
