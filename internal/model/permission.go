package model

// Permission represents a string code for a specific action a role may perform.
type Permission string

const (
	// Admin permissions.
	PermissionViewAllStudents   Permission = "view_all_students"
	PermissionViewAllTeachers   Permission = "view_all_teachers"
	PermissionViewAllClasses    Permission = "view_all_classes"
	PermissionViewAllAttendance Permission = "view_all_attendance"
	PermissionViewAllExams      Permission = "view_all_exams"
	PermissionManageUsers       Permission = "manage_users"
	PermissionManageClasses     Permission = "manage_classes"
	PermissionManageSubjects    Permission = "manage_subjects"
	PermissionGenerateReports   Permission = "generate_reports"
	PermissionViewAnalytics     Permission = "view_analytics"

	// Teacher permissions.
	PermissionViewOwnClasses         Permission = "view_own_classes"
	PermissionViewClassStudents      Permission = "view_class_students"
	PermissionMarkAttendance         Permission = "mark_attendance"
	PermissionEnterGrades            Permission = "enter_grades"
	PermissionViewStudentPerformance Permission = "view_student_performance"
	PermissionGenerateClassReports   Permission = "generate_class_reports"

	// Student permissions.
	PermissionViewOwnData        Permission = "view_own_data"
	PermissionViewOwnAttendance  Permission = "view_own_attendance"
	PermissionViewOwnGrades      Permission = "view_own_grades"
	PermissionViewOwnPerformance Permission = "view_own_performance"

	// Parent permissions.
	PermissionViewChildData        Permission = "view_child_data"
	PermissionViewChildAttendance  Permission = "view_child_attendance"
	PermissionViewChildGrades      Permission = "view_child_grades"
	PermissionViewChildPerformance Permission = "view_child_performance"
)

// AllPermissions is a slice of all available permissions.
var AllPermissions = []Permission{
	PermissionViewAllStudents,
	PermissionViewAllTeachers,
	PermissionViewAllClasses,
	PermissionViewAllAttendance,
	PermissionViewAllExams,
	PermissionManageUsers,
	PermissionManageClasses,
	PermissionManageSubjects,
	PermissionGenerateReports,
	PermissionViewAnalytics,
	PermissionViewOwnClasses,
	PermissionViewClassStudents,
	PermissionMarkAttendance,
	PermissionEnterGrades,
	PermissionViewStudentPerformance,
	PermissionGenerateClassReports,
	PermissionViewOwnData,
	PermissionViewOwnAttendance,
	PermissionViewOwnGrades,
	PermissionViewOwnPerformance,
	PermissionViewChildData,
	PermissionViewChildAttendance,
	PermissionViewChildGrades,
	PermissionViewChildPerformance,
}
