package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/schoolbot-backend/internal/gateway"
	"github.com/stemsi/schoolbot-backend/internal/model"
	"github.com/stemsi/schoolbot-backend/internal/validator"
)

// Tool names offered to the reasoning loop.
const (
	ToolStudentInfo         = "get_student_info"
	ToolAttendance          = "get_attendance"
	ToolExamResults         = "get_exam_results"
	ToolPerformanceAnalysis = "get_performance_analysis"
	ToolClassPerformance    = "get_class_performance"
)

// SchoolData is the gateway surface the tools call.
type SchoolData interface {
	StudentInfo(ctx context.Context, id *model.Identity, studentID string) (*gateway.StudentInfo, error)
	AttendanceReport(ctx context.Context, id *model.Identity, p gateway.AttendanceParams) (*gateway.AttendanceReport, error)
	ExamResults(ctx context.Context, id *model.Identity, p gateway.ExamResultParams) (*gateway.ExamResultsReport, error)
	PerformanceAnalysis(ctx context.Context, id *model.Identity, studentID string) (*gateway.PerformanceAnalysis, error)
	ClassPerformance(ctx context.Context, id *model.Identity, classID string) (*gateway.ClassPerformance, error)
}

type studentInput struct {
	StudentID string `json:"student_id"`
}

type attendanceInput struct {
	StudentID string `json:"student_id"`
	StartDate string `json:"start_date" binding:"omitempty,isodate"`
	EndDate   string `json:"end_date" binding:"omitempty,isodate"`
}

type examInput struct {
	StudentID   string `json:"student_id"`
	SubjectName string `json:"subject_name"`
	ExamType    string `json:"exam_type" binding:"omitempty,oneof=midterm final quiz assignment project"`
}

type classInput struct {
	ClassID string `json:"class_id"`
}

const dateFormat = `^\d{4}-\d{2}-\d{2}$`

var studentIDProperty = Property{
	Type:        "string",
	Description: "Student ID. Optional for students, who always get their own data.",
}

// NewSchoolRegistry registers the five school data tools backed by data.
func NewSchoolRegistry(data SchoolData, log zerolog.Logger) (*Registry, error) {
	examTypes := make([]string, 0, len(model.AllExamTypes))
	for _, et := range model.AllExamTypes {
		examTypes = append(examTypes, string(et))
	}

	builders := []*Builder{
		NewBuilder(ToolStudentInfo).
			WithDescription("Get profile information about a student: name, class, roll number, admission date and parent contact.").
			WithInputSchema(ObjectSchema(map[string]Property{
				"student_id": studentIDProperty,
			})).
			WithHandler(func(ctx context.Context, id *model.Identity, raw json.RawMessage) (Result, error) {
				var in studentInput
				if res, ok := decode(raw, &in); !ok {
					return res, nil
				}
				info, err := data.StudentInfo(ctx, id, in.StudentID)
				if err != nil {
					return fromError(err, "Student not found.")
				}
				return Success(info), nil
			}),

		NewBuilder(ToolAttendance).
			WithDescription("Get a student's attendance report with present, absent, late and excused counts, attendance percentage and recent absences. Dates are inclusive.").
			WithInputSchema(ObjectSchema(map[string]Property{
				"student_id": studentIDProperty,
				"start_date": {Type: "string", Format: "date", Pattern: dateFormat, Description: "Start date (YYYY-MM-DD)."},
				"end_date":   {Type: "string", Format: "date", Pattern: dateFormat, Description: "End date (YYYY-MM-DD)."},
			})).
			WithHandler(func(ctx context.Context, id *model.Identity, raw json.RawMessage) (Result, error) {
				var in attendanceInput
				if res, ok := decode(raw, &in); !ok {
					return res, nil
				}
				report, err := data.AttendanceReport(ctx, id, gateway.AttendanceParams{
					StudentID: in.StudentID,
					StartDate: in.StartDate,
					EndDate:   in.EndDate,
				})
				if err != nil {
					return fromError(err, "Student not found.")
				}
				return Success(report), nil
			}),

		NewBuilder(ToolExamResults).
			WithDescription("Get a student's exam results, newest first, optionally filtered by subject name and exam type.").
			WithInputSchema(ObjectSchema(map[string]Property{
				"student_id":   studentIDProperty,
				"subject_name": {Type: "string", Description: "Subject name to filter by, for example Mathematics."},
				"exam_type":    {Type: "string", Enum: examTypes, Description: "Exam type to filter by."},
			})).
			WithHandler(func(ctx context.Context, id *model.Identity, raw json.RawMessage) (Result, error) {
				var in examInput
				if res, ok := decode(raw, &in); !ok {
					return res, nil
				}
				report, err := data.ExamResults(ctx, id, gateway.ExamResultParams{
					StudentID: in.StudentID,
					Subject:   in.SubjectName,
					ExamType:  in.ExamType,
				})
				if err != nil {
					return fromError(err, "Student not found.")
				}
				return Success(report), nil
			}),

		NewBuilder(ToolPerformanceAnalysis).
			WithDescription("Get a comprehensive performance analysis of a student with subject averages, grade distribution, insights and recommendations.").
			WithInputSchema(ObjectSchema(map[string]Property{
				"student_id": studentIDProperty,
			})).
			WithHandler(func(ctx context.Context, id *model.Identity, raw json.RawMessage) (Result, error) {
				var in studentInput
				if res, ok := decode(raw, &in); !ok {
					return res, nil
				}
				analysis, err := data.PerformanceAnalysis(ctx, id, in.StudentID)
				if err != nil {
					return fromError(err, "Student not found.")
				}
				return Success(analysis), nil
			}),

		NewBuilder(ToolClassPerformance).
			WithDescription("Get class-wide performance statistics. Only available to admins and teachers.").
			WithInputSchema(ObjectSchema(map[string]Property{
				"class_id": {Type: "string", Description: "Class ID."},
			}, "class_id")).
			WithHandler(func(ctx context.Context, id *model.Identity, raw json.RawMessage) (Result, error) {
				var in classInput
				if res, ok := decode(raw, &in); !ok {
					return res, nil
				}
				perf, err := data.ClassPerformance(ctx, id, in.ClassID)
				if err != nil {
					return fromError(err, "Class not found.")
				}
				return Success(perf), nil
			}),
	}

	reg := NewRegistry(log)
	for _, b := range builders {
		t, err := b.Build()
		if err != nil {
			return nil, err
		}
		if err := reg.Register(t); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// decode unmarshals raw into dst and validates it. Empty input is an empty object.
func decode(raw json.RawMessage, dst any) (Result, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, dst); err != nil {
			return Failure(KindInvalidParameter, "Tool input must be a JSON object with string fields."), false
		}
	}
	if fields := validator.Struct(dst); fields != nil {
		msgs := make([]string, 0, len(fields))
		for _, msg := range fields {
			msgs = append(msgs, msg)
		}
		slices.Sort(msgs)
		return Failure(KindInvalidParameter, "Invalid parameter: "+strings.Join(msgs, "; ")), false
	}
	return Result{}, true
}
