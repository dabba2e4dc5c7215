package controllers

import (
	"encoding/binary"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"runners_api/internal/config"
	"runners_api/internal/models"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

type createCaseInput struct {
	RunnerID    uint   `json:"runnerId" binding:"required"`
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description" binding:"max=5000"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	IsPublic    bool   `json:"isPublic"`

	LastSeenLocation string   `json:"lastSeenLocation" binding:"max=500"`
	LastSeenLat      *float64 `json:"lastSeenLat"`
	LastSeenLng      *float64 `json:"lastSeenLng"`
	LastSeenAt       *string  `json:"lastSeenAt"` // RFC 3339
}

type updateCaseInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	IsPublic    *bool   `json:"isPublic"`
	IsApproved  *bool   `json:"isApproved"`
	IsVerified  *bool   `json:"isVerified"`

	LastSeenLocation *string  `json:"lastSeenLocation"`
	LastSeenLat      *float64 `json:"lastSeenLat"`
	LastSeenLng      *float64 `json:"lastSeenLng"`
	LastSeenAt       *string  `json:"lastSeenAt"`
}

// caseResponse mirrors models.Case with the last-seen point rendered as a
// GeoJSON string instead of raw WKB.
func caseResponse(cs models.Case) gin.H {
	geoJSON, _ := wkbToGeoJSON(cs.LastSeenGeom)
	return gin.H{
		"case":          cs,
		"last_seen_geo": geoJSON,
	}
}

// caseResponses keeps list rows in the same shape as single-case responses,
// so the stored point is visible in both.
func caseResponses(cases []models.Case) []gin.H {
	items := make([]gin.H, 0, len(cases))
	for _, cs := range cases {
		items = append(items, caseResponse(cs))
	}
	return items
}

// pointToWKB encodes a lat/lng pair as a WKB point (SRID 4326).
func pointToWKB(lat, lng float64) ([]byte, error) {
	p := geom.NewPointFlat(geom.XY, []float64{lng, lat})
	p.SetSRID(4326)
	return wkb.Marshal(p, binary.LittleEndian)
}

// wkbToGeoJSON converts WKB bytes into a GeoJSON string
func wkbToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CreateCase opens a report against an existing runner. The runner must be
// owned by the caller unless the caller is privileged.
func CreateCase(c *gin.Context) {
	var input createCaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := "Missing"
	if input.Status != "" {
		normalized, err := validateEnum("status", input.Status, caseStatuses)
		if err != nil {
			c.JSON(http.StatusBadRequest, enumError("status", caseStatuses))
			return
		}
		status = normalized
	}
	priority := "Medium"
	if input.Priority != "" {
		normalized, err := validateEnum("priority", input.Priority, casePriorities)
		if err != nil {
			c.JSON(http.StatusBadRequest, enumError("priority", casePriorities))
			return
		}
		priority = normalized
	}

	var runner models.Runner
	if err := config.DB.First(&runner, input.RunnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "runner not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		}
		return
	}
	if !isPrivileged(currentRole(c)) && runner.UserID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to report for this runner"})
		return
	}

	lastSeenAt, err := parseTimestamp(input.LastSeenAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lastSeenAt must be RFC 3339"})
		return
	}

	cs := models.Case{
		RunnerID:         input.RunnerID,
		ReportedByID:     currentUserID(c),
		Title:            input.Title,
		Description:      input.Description,
		Status:           status,
		Priority:         priority,
		IsPublic:         input.IsPublic,
		LastSeenLocation: input.LastSeenLocation,
		LastSeenAt:       lastSeenAt,
	}
	if input.LastSeenLat != nil && input.LastSeenLng != nil {
		wkbBytes, err := pointToWKB(*input.LastSeenLat, *input.LastSeenLng)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid last-seen coordinates"})
			return
		}
		cs.LastSeenGeom = wkbBytes
	}

	if err := config.DB.Create(&cs).Error; err != nil {
		logrus.WithError(err).Error("CreateCase: create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create case"})
		return
	}

	c.JSON(http.StatusCreated, caseResponse(cs))
}

// ListCases paginates with status/priority/runner filters; non-privileged
// callers only see reports they filed.
func ListCases(c *gin.Context) {
	page, pageSize := pagination(c)

	query := config.DB.Model(&models.Case{})
	if !isPrivileged(currentRole(c)) {
		query = query.Where("reported_by_id = ?", currentUserID(c))
	}
	if status := c.Query("status"); status != "" {
		normalized, err := validateEnum("status", status, caseStatuses)
		if err != nil {
			c.JSON(http.StatusBadRequest, enumError("status", caseStatuses))
			return
		}
		query = query.Where("status = ?", normalized)
	}
	if priority := c.Query("priority"); priority != "" {
		normalized, err := validateEnum("priority", priority, casePriorities)
		if err != nil {
			c.JSON(http.StatusBadRequest, enumError("priority", casePriorities))
			return
		}
		query = query.Where("priority = ?", normalized)
	}
	if runnerID := c.Query("runnerId"); runnerID != "" {
		query = query.Where("runner_id = ?", runnerID)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error counting cases"})
		return
	}

	var cases []models.Case
	if err := query.Order("id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&cases).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error listing cases"})
		return
	}

	c.JSON(http.StatusOK, pagedResponse(caseResponses(cases), page, pageSize, total))
}

// ListPublicCases serves approved public cases with no auth.
func ListPublicCases(c *gin.Context) {
	page, pageSize := pagination(c)

	query := config.DB.Model(&models.Case{}).
		Where("is_public = ? AND is_approved = ?", true, true)
	if status := c.Query("status"); status != "" {
		normalized, err := validateEnum("status", status, caseStatuses)
		if err != nil {
			c.JSON(http.StatusBadRequest, enumError("status", caseStatuses))
			return
		}
		query = query.Where("status = ?", normalized)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error counting cases"})
		return
	}

	var cases []models.Case
	if err := query.Order("id").Offset((page - 1) * pageSize).Limit(pageSize).Preload("Runner").Find(&cases).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error listing cases"})
		return
	}

	c.JSON(http.StatusOK, pagedResponse(caseResponses(cases), page, pageSize, total))
}

// GetCase returns one case; reporter, runner owner, or privileged roles.
func GetCase(c *gin.Context) {
	cs, ok := loadOwnedCase(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, caseResponse(cs))
}

// UpdateCase applies a partial update; status transitions stay inside the
// allow-list and resolution stamps resolved-at.
func UpdateCase(c *gin.Context) {
	cs, ok := loadOwnedCase(c)
	if !ok {
		return
	}

	var input updateCaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Status != nil {
		normalized, err := validateEnum("status", *input.Status, caseStatuses)
		if err != nil {
			c.JSON(http.StatusBadRequest, enumError("status", caseStatuses))
			return
		}
		cs.Status = normalized
		if normalized == "Resolved" || normalized == "Closed" {
			if cs.ResolvedAt == nil {
				now := time.Now()
				cs.ResolvedAt = &now
			}
		} else {
			cs.ResolvedAt = nil
		}
	}
	if input.Priority != nil {
		normalized, err := validateEnum("priority", *input.Priority, casePriorities)
		if err != nil {
			c.JSON(http.StatusBadRequest, enumError("priority", casePriorities))
			return
		}
		cs.Priority = normalized
	}

	// Approval and verification flags are moderator decisions.
	if input.IsApproved != nil || input.IsVerified != nil {
		if !isPrivileged(currentRole(c)) {
			c.JSON(http.StatusForbidden, gin.H{"error": "only staff may approve or verify cases"})
			return
		}
		if input.IsApproved != nil {
			cs.IsApproved = *input.IsApproved
		}
		if input.IsVerified != nil {
			cs.IsVerified = *input.IsVerified
		}
	}

	if input.Title != nil {
		cs.Title = *input.Title
	}
	if input.Description != nil {
		cs.Description = *input.Description
	}
	if input.IsPublic != nil {
		cs.IsPublic = *input.IsPublic
	}
	if input.LastSeenLocation != nil {
		cs.LastSeenLocation = *input.LastSeenLocation
	}
	if input.LastSeenAt != nil {
		ts, err := parseTimestamp(input.LastSeenAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lastSeenAt must be RFC 3339"})
			return
		}
		cs.LastSeenAt = ts
	}
	if input.LastSeenLat != nil && input.LastSeenLng != nil {
		wkbBytes, err := pointToWKB(*input.LastSeenLat, *input.LastSeenLng)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid last-seen coordinates"})
			return
		}
		cs.LastSeenGeom = wkbBytes
	}

	if err := config.DB.Save(&cs).Error; err != nil {
		logrus.WithError(err).Error("UpdateCase: save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update case"})
		return
	}

	c.JSON(http.StatusOK, caseResponse(cs))
}

// DeleteCase hard-deletes; admin only (enforced at the route group).
func DeleteCase(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var cs models.Case
	if err := config.DB.First(&cs, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "case not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		}
		return
	}

	if err := config.DB.Unscoped().Delete(&cs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete case"})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// BumpCaseCounter increments one of the public engagement counters
// (view/share/tip) on a case.
func BumpCaseCounter(counter string) gin.HandlerFunc {
	column := map[string]string{
		"view":  "view_count",
		"share": "share_count",
		"tip":   "tip_count",
	}[counter]

	return func(c *gin.Context) {
		id, err := parseIDParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result := config.DB.Model(&models.Case{}).
			Where("id = ?", id).
			UpdateColumn(column, gorm.Expr(column+" + 1"))
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update counter"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "case not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": counter + " recorded"})
	}
}

// loadOwnedCase fetches :id and enforces access: the reporter, the runner's
// owner, or a privileged role.
func loadOwnedCase(c *gin.Context) (models.Case, bool) {
	var cs models.Case

	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return cs, false
	}

	if err := config.DB.Preload("Runner").First(&cs, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "case not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		}
		return cs, false
	}

	if !isPrivileged(currentRole(c)) {
		callerID := currentUserID(c)
		ownsRunner := cs.Runner != nil && cs.Runner.UserID == callerID
		if cs.ReportedByID != callerID && !ownsRunner {
			c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to access this case"})
			return cs, false
		}
	}

	return cs, true
}

func parseTimestamp(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
