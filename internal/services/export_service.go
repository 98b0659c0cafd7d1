package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/folio-hub/portfolio-service/internal/models"
	"github.com/folio-hub/portfolio-service/internal/repositories"
)

const reviewSheet = "Review queue"

var reviewColumns = []interface{}{"User ID", "Username", "Full name", "Job position", "Status"}

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportReviewQueue(ctx context.Context, w io.Writer) (int, error) {
	items, err := s.repo.User().ReviewQueue(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to load review queue: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", reviewSheet); err != nil {
		return 0, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(reviewSheet, "A1", &reviewColumns); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(reviewSheet, "A1", "E1", style)
	}

	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		row := []interface{}{item.UserID, item.Username, deref(item.FullName), deref(item.JobPosition), StatusLabel(item.Status())}
		if err := f.SetSheetRow(reviewSheet, cell, &row); err != nil {
			return 0, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(reviewSheet, "B", "D", 24); err != nil {
		return 0, fmt.Errorf("failed to size columns: %w", err)
	}

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.InfoContext(ctx, "Review queue exported", "rows", len(items))
	return len(items), nil
}

// StatusLabel is the wording shown to reviewers for a profile state
func StatusLabel(status models.ProfileStatus) string {
	switch status {
	case models.ProfileStatusPublished:
		return "Published"
	case models.ProfileStatusPending:
		return "Pending review"
	default:
		return "No profile"
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
