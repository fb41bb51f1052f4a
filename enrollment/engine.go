// Package enrollment runs course and module purchases. Each purchase debits
// the student, credits the teacher, grants access and bumps sales counters in
// a single database transaction.
package enrollment

import (
	"context"
	"eduverse/apperrors"
	"eduverse/catalog"
	"eduverse/ledger"
	"eduverse/models"
	"eduverse/models/course"
	"eduverse/notify"
	"eduverse/utils"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Purchase is the outcome of a committed purchase.
type Purchase struct {
	Enrollment     course.Enrollment `json:"enrollment"`
	StudentPoints  decimal.Decimal   `json:"student_points"`
	TeacherBalance decimal.Decimal   `json:"teacher_balance"`
}

type Engine struct {
	db       *gorm.DB
	notifier notify.Notifier
	now      func() time.Time
}

func NewEngine(db *gorm.DB, notifier notify.Notifier) *Engine {
	return newEngineWithClock(db, notifier, time.Now)
}

func newEngineWithClock(db *gorm.DB, notifier notify.Notifier, now func() time.Time) *Engine {
	return &Engine{db: db, notifier: notifier, now: now}
}

// PurchaseCourse buys every module of a course at the course sell price.
// The teacher is credited the course base price.
func (e *Engine) PurchaseCourse(ctx context.Context, studentID, courseID uint) (*Purchase, error) {
	var (
		result  Purchase
		student *models.User
		c       *course.Course
	)

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if student, err = loadStudent(tx, studentID); err != nil {
			return err
		}
		if c, err = loadCourse(tx, courseID); err != nil {
			return err
		}

		var modules []course.Module
		if err := tx.Where("course_id = ? AND is_deleted = ?", courseID, false).
			Order("order_index ASC, id ASC").
			Find(&modules).Error; err != nil {
			return apperrors.TransactionFailed("load course modules", err)
		}
		if len(modules) == 0 {
			return apperrors.InvalidInput("Course has no modules to enroll in!")
		}

		var existing int64
		if err := tx.Model(&course.Enrollment{}).
			Where("student_id = ? AND course_id = ?", studentID, courseID).
			Count(&existing).Error; err != nil {
			return apperrors.TransactionFailed("check enrollment", err)
		}
		if existing > 0 {
			return apperrors.AlreadyEnrolled("Already enrolled in this course!")
		}

		result.StudentPoints, err = ledger.DebitPoints(tx, studentID, c.SellPrice, ledger.Entry{
			Reason:        fmt.Sprintf("Purchased course %q", c.Title),
			ReferenceType: models.ReferenceCourse,
			ReferenceID:   c.ID,
		})
		if err != nil {
			return err
		}

		enrollment := course.Enrollment{
			StudentID:  studentID,
			CourseID:   courseID,
			FullCourse: true,
			Status:     "ENROLLED",
		}
		for _, m := range modules {
			enrollment.Modules = append(enrollment.Modules, course.EnrollmentModule{ModuleID: m.ID})
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.AlreadyEnrolled("Already enrolled in this course!")
			}
			return apperrors.TransactionFailed("create enrollment", err)
		}
		result.Enrollment = enrollment

		soldAt := e.now()
		if err := catalog.RecordSale(tx, catalog.Sale{
			ItemType:     course.ItemCourse,
			ItemID:       c.ID,
			EnrollmentID: enrollment.ID,
			StudentID:    studentID,
			SellPrice:    c.SellPrice,
			SoldAt:       soldAt,
		}); err != nil {
			return err
		}
		for _, m := range modules {
			if err := catalog.RecordSale(tx, catalog.Sale{
				ItemType:     course.ItemModule,
				ItemID:       m.ID,
				EnrollmentID: enrollment.ID,
				StudentID:    studentID,
				SellPrice:    m.SellPrice,
				SoldAt:       soldAt,
			}); err != nil {
				return err
			}
		}

		result.TeacherBalance, err = ledger.CreditBalance(tx, c.TeacherID, c.Price, ledger.Entry{
			Reason:        fmt.Sprintf("Sale of course %q to student #%d", c.Title, studentID),
			ReferenceType: models.ReferenceCourse,
			ReferenceID:   c.ID,
		})
		return err
	})
	if err != nil {
		return nil, apperrors.Wrap("purchase course", err)
	}

	utils.LogPurchase("student %d bought course %d for %s points", studentID, courseID, c.SellPrice)
	notify.Dispatch(e.notifier, notify.EnrollmentEmail(student.Email, student.Name, c.Title, c.SellPrice.String(), result.StudentPoints.String()))
	return &result, nil
}

// PurchaseModule buys a single module. It opens an enrollment for the course
// or adds the module to the student's existing one.
func (e *Engine) PurchaseModule(ctx context.Context, studentID, courseID, moduleID uint) (*Purchase, error) {
	var (
		result  Purchase
		student *models.User
		c       *course.Course
		module  course.Module
	)

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if student, err = loadStudent(tx, studentID); err != nil {
			return err
		}
		if c, err = loadCourse(tx, courseID); err != nil {
			return err
		}

		err = tx.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Module")
		}
		if err != nil {
			return apperrors.TransactionFailed("load module", err)
		}
		if module.CourseID != courseID {
			return apperrors.InvalidInput("Module does not belong to this course!")
		}

		var enrollment course.Enrollment
		found := true
		err = tx.Preload("Modules").
			Where("student_id = ? AND course_id = ?", studentID, courseID).
			First(&enrollment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			found = false
		} else if err != nil {
			return apperrors.TransactionFailed("load enrollment", err)
		}
		if found && containsModule(enrollment, moduleID) {
			return apperrors.AlreadyEnrolled("Module already purchased!")
		}

		result.StudentPoints, err = ledger.DebitPoints(tx, studentID, module.SellPrice, ledger.Entry{
			Reason:        fmt.Sprintf("Purchased module %q", module.Title),
			ReferenceType: models.ReferenceModule,
			ReferenceID:   module.ID,
		})
		if err != nil {
			return err
		}

		if !found {
			enrollment = course.Enrollment{
				StudentID: studentID,
				CourseID:  courseID,
				Status:    "ENROLLED",
				Modules:   []course.EnrollmentModule{{ModuleID: moduleID}},
			}
			if err := tx.Create(&enrollment).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apperrors.AlreadyEnrolled("Enrollment changed while purchasing, please retry!")
				}
				return apperrors.TransactionFailed("create enrollment", err)
			}
		} else {
			em := course.EnrollmentModule{EnrollmentID: enrollment.ID, ModuleID: moduleID}
			if err := tx.Create(&em).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apperrors.AlreadyEnrolled("Module already purchased!")
				}
				return apperrors.TransactionFailed("add module to enrollment", err)
			}
			enrollment.Modules = append(enrollment.Modules, em)
		}
		result.Enrollment = enrollment

		if err := catalog.RecordSale(tx, catalog.Sale{
			ItemType:     course.ItemModule,
			ItemID:       module.ID,
			EnrollmentID: enrollment.ID,
			StudentID:    studentID,
			SellPrice:    module.SellPrice,
			SoldAt:       e.now(),
		}); err != nil {
			return err
		}

		result.TeacherBalance, err = ledger.CreditBalance(tx, c.TeacherID, module.Price, ledger.Entry{
			Reason:        fmt.Sprintf("Sale of module %q of course %q to student #%d", module.Title, c.Title, studentID),
			ReferenceType: models.ReferenceModule,
			ReferenceID:   module.ID,
		})
		return err
	})
	if err != nil {
		return nil, apperrors.Wrap("purchase module", err)
	}

	utils.LogPurchase("student %d bought module %d of course %d for %s points", studentID, moduleID, courseID, module.SellPrice)
	notify.Dispatch(e.notifier, notify.EnrollmentEmail(student.Email, student.Name, c.Title+" / "+module.Title, module.SellPrice.String(), result.StudentPoints.String()))
	return &result, nil
}

// Enrollments lists a student's enrollments with their module ids.
func (e *Engine) Enrollments(ctx context.Context, studentID uint) ([]course.Enrollment, error) {
	var enrollments []course.Enrollment
	if err := e.db.WithContext(ctx).
		Preload("Modules").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&enrollments).Error; err != nil {
		return nil, apperrors.TransactionFailed("list enrollments", err)
	}
	return enrollments, nil
}

// HasModuleAccess reports whether the student bought the module, alone or as
// part of the whole course.
func (e *Engine) HasModuleAccess(ctx context.Context, studentID, courseID, moduleID uint) (bool, error) {
	var count int64
	err := e.db.WithContext(ctx).
		Model(&course.EnrollmentModule{}).
		Joins("JOIN enrollments ON enrollments.id = enrollment_modules.enrollment_id").
		Where("enrollments.student_id = ? AND enrollments.course_id = ? AND enrollment_modules.module_id = ?", studentID, courseID, moduleID).
		Where("enrollments.deleted_at IS NULL").
		Count(&count).Error
	if err != nil {
		return false, apperrors.TransactionFailed("check module access", err)
	}
	return count > 0, nil
}

func loadStudent(tx *gorm.DB, studentID uint) (*models.User, error) {
	var student models.User
	err := tx.Where("id = ? AND is_deleted = ?", studentID, false).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Student")
	}
	if err != nil {
		return nil, apperrors.TransactionFailed("load student", err)
	}
	if !student.IsStudent() {
		return nil, apperrors.Unauthorized("Only students can purchase courses!")
	}
	if !student.IsActive {
		return nil, apperrors.Unauthorized("Account is inactive!")
	}
	return &student, nil
}

func loadCourse(tx *gorm.DB, courseID uint) (*course.Course, error) {
	var c course.Course
	err := tx.Where("id = ? AND is_deleted = ?", courseID, false).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Course")
	}
	if err != nil {
		return nil, apperrors.TransactionFailed("load course", err)
	}
	if !c.IsPurchasable() {
		return nil, apperrors.NotFound("Course")
	}
	return &c, nil
}

func containsModule(e course.Enrollment, moduleID uint) bool {
	for _, id := range e.ModuleIDs() {
		if id == moduleID {
			return true
		}
	}
	return false
}
