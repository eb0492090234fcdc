package api

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodlens/backend/internal/models"
	"github.com/foodlens/backend/internal/service"
)

// ReportService is the missing-food report surface the handler needs.
type ReportService interface {
	CreateReport(ctx context.Context, userID uuid.UUID, input *service.ReportInput, photo io.Reader, photoName string) (*models.MissingFoodReport, error)
	ListReports(ctx context.Context, userID uuid.UUID) ([]models.MissingFoodReport, error)
}

type ReportHandler struct {
	reportService ReportService
}

func NewReportHandler(reportService ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	{
		reports.POST("", h.CreateReport)
		reports.GET("", h.ListReports)
	}
}

// CreateReport accepts multipart form submissions so a package photo
// can ride along with the report fields.
func (h *ReportHandler) CreateReport(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	input := service.ReportInput{
		Barcode:     c.PostForm("barcode"),
		ProductName: c.PostForm("product_name"),
		Notes:       c.PostForm("notes"),
	}
	if input.ProductName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_name is required"})
		return
	}

	var photo io.Reader
	var photoName string
	if file, err := c.FormFile("photo"); err == nil {
		opened, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read photo"})
			return
		}
		defer opened.Close()
		photo = opened
		photoName = file.Filename
	}

	report, err := h.reportService.CreateReport(c.Request.Context(), userID, &input, photo, photoName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create report"})
		return
	}

	c.JSON(http.StatusCreated, report)
}

func (h *ReportHandler) ListReports(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	reports, err := h.reportService.ListReports(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}
