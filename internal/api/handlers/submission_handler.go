package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arkadelo/profilehub/internal/flow"
	"github.com/arkadelo/profilehub/internal/services"
	"github.com/arkadelo/profilehub/internal/utils"
)

type SubmissionHandler struct {
	svc  services.SubmissionService
	flow *flow.Flow
}

func NewSubmissionHandler(svc services.SubmissionService, f *flow.Flow) *SubmissionHandler {
	return &SubmissionHandler{svc: svc, flow: f}
}

// Submit runs the profile submission flow from a multipart form. A
// submission_id field selects the update path; a photo file part is
// optional and validated before any upload.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	in := flow.Input{
		SubmissionID: c.PostForm("submission_id"),
		Name:         c.PostForm("name"),
		Email:        c.PostForm("email"),
		Description:  c.PostForm("description"),
		Phone:        c.PostForm("phone"),
		Location:     c.PostForm("location"),
	}
	if existing := c.PostForm("photo_url"); existing != "" {
		in.ExistingPhotoURL = &existing
	}

	if fh, err := c.FormFile("photo"); err == nil && fh != nil {
		file, err := fh.Open()
		if err != nil {
			writeError(c, utils.E(utils.CodeInternal, "SubmissionHandler.Submit", "failed to open upload", err))
			return
		}
		defer file.Close()

		in.Image = &flow.Image{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Data:        file,
		}
	}

	res, err := h.flow.Submit(c.Request.Context(), userID, in)
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusCreated
	if res.Updated {
		status = http.StatusOK
	}
	c.JSON(status, res)
}

func (h *SubmissionHandler) Mine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	subs, err := h.svc.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

// Latest returns the owner's most recent submission, or a null body
// when none exists.
func (h *SubmissionHandler) Latest(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	latest, err := h.svc.LatestByOwner(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, latest)
}

// PrefillLocation resolves lat/lon to a place name for the editing
// step. Always 200: failures fall back to coordinate text.
func (h *SubmissionHandler) PrefillLocation(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "SubmissionHandler.PrefillLocation", "lat and lon are required", nil))
		return
	}

	c.JSON(http.StatusOK, gin.H{"location": h.flow.PrefillLocation(c.Request.Context(), lat, lon)})
}
