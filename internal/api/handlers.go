package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reddrive/reddrive/internal/drive"
	"github.com/reddrive/reddrive/internal/logctx"
	"github.com/reddrive/reddrive/internal/scrape"
)

// scrapeRequest is the wire shape of a run request. The three booleans are
// pointers because they are required fields: an absent flag is a validation
// error, not a default.
type scrapeRequest struct {
	RedditURL       string `json:"reddit_url"`
	MinimumUpvotes  int    `json:"minimum_upvotes"`
	Keywords        string `json:"keywords"`
	DriveFolderLink string `json:"drive_folder_link"`
	ScrapeImages    *bool  `json:"scrape_images"`
	ScrapeVideos    *bool  `json:"scrape_videos"`
	CreateFolders   *bool  `json:"create_folders"`
}

func (s *Server) handleScrape(c echo.Context) error {
	var body scrapeRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	if body.ScrapeImages == nil || body.ScrapeVideos == nil || body.CreateFolders == nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"error": "scrape_images, scrape_videos and create_folders are required",
		})
	}

	req := scrape.Request{
		RedditURL:       body.RedditURL,
		MinimumUpvotes:  body.MinimumUpvotes,
		Keywords:        scrape.ParseKeywords(body.Keywords),
		DriveFolderLink: body.DriveFolderLink,
		ScrapeImages:    *body.ScrapeImages,
		ScrapeVideos:    *body.ScrapeVideos,
		CreateFolders:   *body.CreateFolders,
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Client disconnects cancel the run between items via the request context.
	ctx := logctx.With(c.Request().Context(), s.logger)

	summary, err := s.runner.Run(ctx, req)
	if err != nil {
		if errors.Is(err, drive.ErrInvalidFolderLink) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
				"error": err.Error(),
			})
		}
		s.logger.Error("scrape run failed", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": err.Error(),
		})
	}

	if summary.Status == scrape.StatusNoContent {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"message": "No content found matching the criteria.",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":         "Scraping and uploading completed successfully!",
		"uploaded_files":  summary.UploadedFiles,
		"total_file_size": summary.TotalFileSize,
	})
}
