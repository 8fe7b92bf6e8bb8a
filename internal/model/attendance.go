package model

import "time"

// AttendanceStatus is the outcome recorded for a student on a school day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// AttendanceRecord is one student's attendance on one date.
type AttendanceRecord struct {
	ID           int              `json:"-"`
	AttendanceID string           `json:"attendance_id"`
	StudentRef   int              `json:"-"`
	Date         time.Time        `json:"date"`
	Status       AttendanceStatus `json:"status"`
}
