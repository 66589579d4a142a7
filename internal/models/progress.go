// ABOUTME: Lesson progress and student statistics models
// ABOUTME: Mirrors the progress and student-stats API resources

package models

// Progress records one student's completion of one lesson
type Progress struct {
	ID          string     `json:"_id"`
	StudentID   string     `json:"student_id"`
	LessonID    string     `json:"lesson_id"`
	CourseID    string     `json:"course_id"`
	Completed   bool       `json:"completed"`
	CompletedAt *Timestamp `json:"completed_at,omitempty"`
}

// CourseProgress summarizes a student's progress through a course
type CourseProgress struct {
	CourseID             string  `json:"course_id"`
	TotalLessons         int     `json:"total_lessons"`
	CompletedLessons     int     `json:"completed_lessons"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// StudentStats aggregates a student's progress across all courses
type StudentStats struct {
	ID                        string    `json:"_id"`
	StudentID                 string    `json:"student_id"`
	TotalEnrolledCourses      int       `json:"total_enrolled_courses"`
	TotalApprovedCourses      int       `json:"total_approved_courses"`
	TotalCompletedLessons     int       `json:"total_completed_lessons"`
	TotalAvailableLessons     int       `json:"total_available_lessons"`
	OverallProgressPercentage float64   `json:"overall_progress_percentage"`
	LastUpdated               Timestamp `json:"last_updated"`
}

// ServiceDetails is returned by GET /api/services/progress
type ServiceDetails map[string]any
