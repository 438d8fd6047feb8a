package api

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/novelenchant/enchant/pkg/models"
)

const fileFieldName = "file"

// submitWorkHandler handles POST /api/v1/works (§6 Ingest API): accepts a
// multipart upload, detects chapter structure, persists the Work and its
// Chapters, and schedules chapter 1 for processing.
func (s *Server) submitWorkHandler(c *gin.Context) {
	fileHeader, err := c.FormFile(fileFieldName)
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	if fileHeader.Size > s.cfg.Env.MaxUploadSizeBytes {
		badRequest(c, fmt.Sprintf("file exceeds maximum upload size of %d bytes", s.cfg.Env.MaxUploadSizeBytes))
		return
	}

	var req SubmitWorkRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, fmt.Sprintf("invalid form fields: %v", err))
		return
	}

	filename := req.Filename
	if filename == "" {
		filename = fileHeader.Filename
	}
	if !strings.EqualFold(filepath.Ext(filename), ".txt") {
		badRequest(c, "only .txt uploads are supported")
		return
	}

	stylePreset := req.StylePreset
	customStyle := req.CustomStyle
	if stylePreset == "" && customStyle == "" {
		badRequest(c, "style_preset or custom_style is required")
		return
	}
	if stylePreset != "" {
		if _, err := s.cfg.GetStylePreset(stylePreset); err != nil {
			badRequest(c, err.Error())
			return
		}
	}

	f, err := fileHeader.Open()
	if err != nil {
		respondError(c, fmt.Errorf("api: open upload: %w", err))
		return
	}
	defer f.Close()

	blob, err := io.ReadAll(f)
	if err != nil {
		respondError(c, fmt.Errorf("api: read upload: %w", err))
		return
	}

	result, err := s.parser.Parse(blob)
	if err != nil {
		respondError(c, fmt.Errorf("api: parse upload: %w", err))
		return
	}
	if len(result.Chapters) == 0 {
		badRequest(c, "no chapters could be detected in the upload")
		return
	}

	contentType := models.ContentTypeSingle
	if len(result.Chapters) > 1 {
		contentType = models.ContentTypeMulti
	}

	work := models.Work{
		ID:            uuid.NewString(),
		Title:         result.Title,
		StylePreset:   stylePreset,
		CustomStyle:   customStyle,
		ContentType:   contentType,
		Detection:     result.Detection,
		TotalChapters: len(result.Chapters),
		Status:        models.WorkStatusPending,
	}

	savedWork, chapters, err := s.scheduler.Ingest(c.Request.Context(), work, result.Chapters)
	if err != nil {
		respondError(c, err)
		return
	}

	chapterIDs := make([]string, len(chapters))
	for i, ch := range chapters {
		chapterIDs[i] = ch.ID
	}

	c.JSON(http.StatusAccepted, ok(IngestResponse{
		WorkID:          savedWork.ID,
		ChapterIDs:      chapterIDs,
		SchedulerStatus: string(savedWork.Status),
	}))
}

// workStatusHandler handles GET /api/v1/works/:id/status: the per-chapter
// status projection the scheduler maintains.
func (s *Server) workStatusHandler(c *gin.Context) {
	workID := c.Param("id")

	work, jobs, err := s.scheduler.Status(c.Request.Context(), workID)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]ChapterStatusView, len(jobs))
	for i, job := range jobs {
		views[i] = ChapterStatusView{
			Ordinal:     job.ChapterOrdinal,
			Status:      string(job.Status),
			StartedAt:   job.StartedAt,
			CompletedAt: job.CompletedAt,
			Error:       job.LastError,
		}
	}

	c.JSON(http.StatusOK, ok(WorkStatusResponse{
		WorkID:   work.ID,
		Status:   string(work.Status),
		Chapters: views,
	}))
}

