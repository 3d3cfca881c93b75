// Package seed imports user profiles and push tokens from CSV exports.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ArowuTest/surespace-functions/internal/models"
	"github.com/ArowuTest/surespace-functions/internal/repositories"
	"go.uber.org/zap"
)

// ErrUserIDColumnMissing is returned when no header names the user id column
var ErrUserIDColumnMissing = errors.New("user id column not found in CSV")

// ImportResult summarizes one import run
type ImportResult struct {
	TotalRows int      `json:"totalRows"`
	Upserted  int      `json:"upserted"`
	Errors    []string `json:"errors"`
}

// ProfileImporter upserts user profiles read from CSV
type ProfileImporter struct {
	profiles repositories.UserProfileRepository
	logger   *zap.Logger
}

// NewProfileImporter creates a new ProfileImporter
func NewProfileImporter(profiles repositories.UserProfileRepository, logger *zap.Logger) *ProfileImporter {
	return &ProfileImporter{
		profiles: profiles,
		logger:   logger,
	}
}

// Import reads a header row followed by one profile per row. Rows without a user id
// are reported in the result and skipped.
func (i *ProfileImporter) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// Read the header row
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Map column indices
	userIdx := findColumnIndex(header, []string{"userId", "User ID", "uid"})
	nameIdx := findColumnIndex(header, []string{"fullName", "Full Name", "Name"})
	picIdx := findColumnIndex(header, []string{"profilePic", "Profile Pic", "Avatar"})
	tokenIdx := findColumnIndex(header, []string{"pushToken", "Push Token", "Expo Token"})

	if userIdx == -1 {
		return nil, ErrUserIDColumnMissing
	}

	result := &ImportResult{Errors: []string{}}

	// Process each row
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Error reading row: %v", err))
			continue
		}
		result.TotalRows++

		profile := &models.UserProfile{
			UserID:     column(row, userIdx),
			FullName:   column(row, nameIdx),
			ProfilePic: column(row, picIdx),
			PushToken:  column(row, tokenIdx),
		}
		if profile.UserID == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: No user id found", result.TotalRows))
			continue
		}

		if err := i.profiles.Upsert(ctx, profile); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", result.TotalRows, err))
			continue
		}
		result.Upserted++
	}

	i.logger.Info("Imported user profiles",
		zap.Int("total_rows", result.TotalRows),
		zap.Int("upserted", result.Upserted),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// findColumnIndex finds the index of a column by any of its accepted names
func findColumnIndex(header []string, possibleNames []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, name := range possibleNames {
			if strings.ToLower(name) == h {
				return i
			}
		}
	}
	return -1
}

func column(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
