package services

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/UDLA-2025/assignment-service/internal/models"
	"github.com/UDLA-2025/assignment-service/internal/repositories"
	"github.com/UDLA-2025/assignment-service/internal/validator"
)

// stubSubmissionService returns canned list items so the export test does not
// need the full repository stack.
type stubSubmissionService struct {
	items []SubmissionListItem
	err   error
}

func (s *stubSubmissionService) Submit(ctx context.Context, assignmentID, userID uint, req *validator.SubmitRequest) (*SubmitResponse, error) {
	return nil, nil
}

func (s *stubSubmissionService) Grade(ctx context.Context, submissionID, userID uint, req *validator.GradeRequest) error {
	return nil
}

func (s *stubSubmissionService) ListForTeacher(ctx context.Context, userID uint, filters repositories.SubmissionFilters) ([]SubmissionListItem, error) {
	return s.items, s.err
}

func (s *stubSubmissionService) GetDetail(ctx context.Context, submissionID uint) (*SubmissionDetail, error) {
	return nil, nil
}

func (s *stubSubmissionService) ListGradesForStudent(ctx context.Context, userID uint) (*StudentGrades, error) {
	return nil, nil
}

func (s *stubSubmissionService) GetGradeForStudent(ctx context.Context, submissionID, userID uint) (*StudentGradeDetail, error) {
	return nil, nil
}

func TestExportService_ExportTeacherSubmissions(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	ctx := context.Background()

	finalScore := 92.5
	stub := &stubSubmissionService{
		items: []SubmissionListItem{
			{
				ID:              7,
				AssignmentTitle: "Ensayo final",
				AssignmentType:  models.AssignmentTask,
				StudentName:     "alumna",
				SubmissionDate:  time.Date(2025, 5, 10, 14, 30, 0, 0, time.UTC),
				Status:          models.SubmissionGraded,
				FinalScore:      &finalScore,
			},
			{
				ID:              8,
				AssignmentTitle: "Quiz de redes",
				AssignmentType:  models.AssignmentQuiz,
				StudentName:     "otro",
				SubmissionDate:  time.Date(2025, 5, 11, 9, 0, 0, 0, time.UTC),
				Status:          models.SubmissionPending,
			},
		},
	}

	service := NewExportService(newMemoryRepository(), logger, stub)

	data, filename, err := service.ExportTeacherSubmissions(ctx, 1)
	if err != nil {
		t.Fatalf("ExportTeacherSubmissions failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected workbook bytes")
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("expected .xlsx filename, got %q", filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Submissions")
	if err != nil {
		t.Fatalf("failed to read sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Submission ID" || rows[0][1] != "Assignment" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
	if rows[1][1] != "Ensayo final" {
		t.Errorf("expected first data row to carry the assignment title, got %v", rows[1])
	}
	if rows[2][5] != string(models.SubmissionPending) {
		t.Errorf("expected pending status in second row, got %v", rows[2])
	}
}
