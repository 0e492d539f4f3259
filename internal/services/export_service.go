package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/UDLA-2025/assignment-service/internal/repositories"
)

type exportService struct {
	repo              repositories.Repository
	logger            *slog.Logger
	submissionService SubmissionService
}

func NewExportService(repo repositories.Repository, logger *slog.Logger, submissionService SubmissionService) ExportService {
	return &exportService{
		repo:              repo,
		logger:            logger,
		submissionService: submissionService,
	}
}

var exportHeaders = []string{"Submission ID", "Assignment", "Type", "Student", "Submitted At", "Status", "AI Score", "Final Score"}

func (s *exportService) ExportTeacherSubmissions(ctx context.Context, userID uint) ([]byte, string, error) {
	submissions, err := s.submissionService.ListForTeacher(ctx, userID, repositories.SubmissionFilters{})
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Submissions"
	f.SetSheetName("Sheet1", sheet)

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, "", fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, sub := range submissions {
		values := []interface{}{
			sub.ID,
			sub.AssignmentTitle,
			string(sub.AssignmentType),
			sub.StudentName,
			sub.SubmissionDate.Format(time.RFC3339),
			string(sub.Status),
			scoreCell(sub.AIScore),
			scoreCell(sub.FinalScore),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, "", fmt.Errorf("failed to build cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, "", fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to render workbook: %w", err)
	}

	filename := fmt.Sprintf("submissions_%s.xlsx", time.Now().Format("2006-01-02"))

	s.logger.Info("Submissions exported",
		"user_id", userID,
		"rows", len(submissions),
		"filename", filename)

	return buf.Bytes(), filename, nil
}

func scoreCell(score *float64) interface{} {
	if score == nil {
		return ""
	}
	return *score
}
