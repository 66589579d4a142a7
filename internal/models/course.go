// ABOUTME: Course, lesson, and enrollment models for the course progress API
// ABOUTME: Optional response fields are pointers so presence is explicit

package models

// LessonType is the kind of material a lesson carries
type LessonType string

const (
	LessonPDF      LessonType = "PDF"
	LessonVideo    LessonType = "VIDEO"
	LessonPPT      LessonType = "PPT"
	LessonDocument LessonType = "DOCUMENT"
	LessonOther    LessonType = "OTHER"
)

// LessonTypes lists every lesson type in display order
var LessonTypes = []LessonType{LessonPDF, LessonVideo, LessonPPT, LessonDocument, LessonOther}

// EnrollmentStatus is the three-state enrollment lifecycle
type EnrollmentStatus string

const (
	EnrollmentPending  EnrollmentStatus = "PENDING"
	EnrollmentApproved EnrollmentStatus = "APPROVED"
	EnrollmentRejected EnrollmentStatus = "REJECTED"
)

// Course is a mentor-owned course
type Course struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	MentorID    string    `json:"mentor_id"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
}

// CourseCreate is the POST /courses body
type CourseCreate struct {
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"required,notblank"`
}

// CourseUpdate is the PUT /courses/{id} body; nil fields are left unchanged
type CourseUpdate struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty"`
}

// Lesson belongs to exactly one course
type Lesson struct {
	ID          string     `json:"_id"`
	CourseID    string     `json:"course_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        LessonType `json:"type"`
	Order       int        `json:"order"`
	Duration    *int       `json:"duration,omitempty"` // minutes
	CreatedAt   Timestamp  `json:"created_at"`
}

// LessonCreate is the POST /courses/{id}/lessons body
type LessonCreate struct {
	Title       string     `json:"title" validate:"required,notblank,max=200"`
	Description string     `json:"description"`
	Type        LessonType `json:"type" validate:"required,oneof=PDF VIDEO PPT DOCUMENT OTHER"`
	Order       int        `json:"order" validate:"gte=0"`
	Duration    *int       `json:"duration,omitempty" validate:"omitempty,gte=0"`
}

// LessonUpdate is the PUT /lessons/{id} body; nil fields are left unchanged
type LessonUpdate struct {
	Title       *string     `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string     `json:"description,omitempty"`
	Type        *LessonType `json:"type,omitempty" validate:"omitempty,oneof=PDF VIDEO PPT DOCUMENT OTHER"`
	Order       *int        `json:"order,omitempty" validate:"omitempty,gte=0"`
	Duration    *int        `json:"duration,omitempty" validate:"omitempty,gte=0"`
}

// Enrollment is a student's request to join a course
type Enrollment struct {
	ID          string           `json:"_id"`
	StudentID   string           `json:"student_id"`
	CourseID    string           `json:"course_id"`
	Status      EnrollmentStatus `json:"status"`
	RequestedAt Timestamp        `json:"requested_at"`
	ApprovedAt  *Timestamp       `json:"approved_at,omitempty"`
	ApprovedBy  *string          `json:"approved_by,omitempty"`
}

// EnrollmentCreate is the POST /enrollments body
type EnrollmentCreate struct {
	CourseID string `json:"course_id"`
}

// CourseWithProgress is a course plus the caller's enrollment and progress
type CourseWithProgress struct {
	Course
	Progress   *CourseProgress `json:"progress,omitempty"`
	Enrollment *Enrollment     `json:"enrollment,omitempty"`
}

// Approved reports whether the attached enrollment is approved
func (c CourseWithProgress) Approved() bool {
	return c.Enrollment != nil && c.Enrollment.Status == EnrollmentApproved
}

// CompletionPercentage returns the attached progress or 0 when absent
func (c CourseWithProgress) CompletionPercentage() float64 {
	if c.Progress == nil {
		return 0
	}
	return c.Progress.CompletionPercentage
}
