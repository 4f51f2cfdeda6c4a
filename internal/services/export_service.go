package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Kwanddwo/conflow-service/internal/models"
	"github.com/Kwanddwo/conflow-service/internal/repositories"
)

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

// ExportSubmissions produces an xlsx workbook of a conference's submissions
// for the organizers. Returns the file bytes and a suggested filename.
func (s *exportService) ExportSubmissions(ctx context.Context, conferenceID, userID string) ([]byte, string, error) {
	s.logger.Info("Exporting submissions", "conference_id", conferenceID, "user_id", userID)

	if err := requireAdminOrMainChair(ctx, s.repo, userID, conferenceID); err != nil {
		return nil, "", err
	}

	conference, err := s.repo.Conference().GetByID(ctx, nil, conferenceID)
	if err != nil {
		return nil, "", notFoundOr(err, ErrConferenceNotFound)
	}

	submissions, _, err := s.repo.Submission().GetByConference(ctx, nil, conferenceID, repositories.SubmissionFilters{
		SortBy:    "created_at",
		SortOrder: "asc",
	})
	if err != nil {
		return nil, "", WrapServiceError(ErrCodeInternal, "submission listing failed", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Submissions"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Title", "Primary Area", "Secondary Area", "Keywords", "Status", "Authors", "Corresponding", "Submitted At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, submission := range submissions {
		values := []interface{}{
			submission.ID,
			submission.Title,
			submission.PrimaryArea,
			submission.SecondaryArea,
			strings.Join(submission.Keywords, ", "),
			string(submission.Status),
			joinAuthors(submission.Authors, false),
			joinAuthors(submission.Authors, true),
			submission.CreatedAt.Format(time.RFC3339),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", WrapServiceError(ErrCodeInternal, "workbook serialization failed", err)
	}

	filename := fmt.Sprintf("%s-submissions-%s.xlsx", sanitizeFilename(conference.Acronym), time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func joinAuthors(authors []models.SubmissionAuthor, correspondingOnly bool) string {
	names := make([]string, 0, len(authors))
	for _, author := range authors {
		if correspondingOnly && !author.IsCorresponding {
			continue
		}
		names = append(names, author.Name)
	}
	return strings.Join(names, "; ")
}

func sanitizeFilename(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, s)
	if cleaned == "" {
		cleaned = "conference"
	}
	return strings.ToLower(cleaned)
}
