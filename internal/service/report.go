package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodlens/backend/config"
	"github.com/foodlens/backend/internal/models"
)

// ReportService records missing-food reports and stores their package
// photos in S3.
type ReportService struct {
	db       *gorm.DB
	s3Config *config.S3Config
}

// NewReportService creates a report service. s3Config may be nil, in
// which case reports are accepted without photos.
func NewReportService(db *gorm.DB, s3Config *config.S3Config) *ReportService {
	return &ReportService{db: db, s3Config: s3Config}
}

// ReportInput is the submitted report payload.
type ReportInput struct {
	Barcode     string `json:"barcode"`
	ProductName string `json:"product_name" binding:"required"`
	Notes       string `json:"notes"`
}

// CreateReport persists a report; photo may be nil.
func (s *ReportService) CreateReport(ctx context.Context, userID uuid.UUID, input *ReportInput, photo io.Reader, photoName string) (*models.MissingFoodReport, error) {
	report := models.MissingFoodReport{
		ID:          uuid.New(),
		UserID:      userID,
		Barcode:     strings.TrimSpace(input.Barcode),
		ProductName: strings.TrimSpace(input.ProductName),
		Notes:       input.Notes,
		Status:      "open",
	}

	if photo != nil && s.s3Config != nil {
		key, err := s.uploadPhoto(ctx, report.ID, photo, photoName)
		if err != nil {
			return nil, err
		}
		report.PhotoKey = key
	}

	if err := s.db.WithContext(ctx).Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}
	s.presignPhoto(ctx, &report)
	return &report, nil
}

func (s *ReportService) uploadPhoto(ctx context.Context, reportID uuid.UUID, photo io.Reader, photoName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(photoName))
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("reports/%s%s", reportID, ext)

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(key),
		Body:   photo,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	return key, nil
}

// presignPhoto fills PhotoURL with a temporary link to the stored
// photo. The bucket stays private; only the key is persisted.
func (s *ReportService) presignPhoto(ctx context.Context, report *models.MissingFoodReport) {
	if report.PhotoKey == "" || s.s3Config == nil {
		return
	}
	url, err := s.s3Config.GeneratePresignedURL(ctx, report.PhotoKey, time.Hour)
	if err != nil {
		log.Printf("failed to presign photo for report %s: %v", report.ID, err)
		return
	}
	report.PhotoURL = url
}

// ListReports returns the user's reports, newest first.
func (s *ReportService) ListReports(ctx context.Context, userID uuid.UUID) ([]models.MissingFoodReport, error) {
	var reports []models.MissingFoodReport
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	for i := range reports {
		s.presignPhoto(ctx, &reports[i])
	}
	return reports, nil
}
