package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"runners_api/internal/config"
	"runners_api/internal/models"
)

// photoReminderInterval is how long an uploaded runner photo stays current
// before the owner is nudged for a fresh one.
const photoReminderInterval = 6 * 30 * 24 * time.Hour

const runnerPhotoMaxSize = 10 << 20 // 10MB for the dedicated photo endpoint

type createRunnerInput struct {
	FirstName   string  `json:"firstName" binding:"required,max=100"`
	LastName    string  `json:"lastName" binding:"required,max=100"`
	DateOfBirth *string `json:"dateOfBirth"` // YYYY-MM-DD
	Gender      string  `json:"gender" binding:"max=50"`

	Height           string `json:"height" binding:"max=50"`
	Weight           string `json:"weight" binding:"max=50"`
	HairColor        string `json:"hairColor" binding:"max=50"`
	EyeColor         string `json:"eyeColor" binding:"max=50"`
	IdentifyingMarks string `json:"identifyingMarks" binding:"max=1000"`

	MedicalConditions string `json:"medicalConditions" binding:"max=1000"`
	Medications       string `json:"medications" binding:"max=1000"`
	Allergies         string `json:"allergies" binding:"max=1000"`
}

type updateRunnerInput struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	DateOfBirth *string `json:"dateOfBirth"`
	Gender      *string `json:"gender"`

	Height           *string `json:"height"`
	Weight           *string `json:"weight"`
	HairColor        *string `json:"hairColor"`
	EyeColor         *string `json:"eyeColor"`
	IdentifyingMarks *string `json:"identifyingMarks"`

	MedicalConditions *string `json:"medicalConditions"`
	Medications       *string `json:"medications"`
	Allergies         *string `json:"allergies"`
}

// CreateRunner creates a runner profile and its companion case in one
// transaction; neither row exists unless both commit.
func CreateRunner(c *gin.Context) {
	var input createRunnerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dob, err := parseDate(input.DateOfBirth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dateOfBirth must be YYYY-MM-DD"})
		return
	}

	userID := currentUserID(c)
	runner := models.Runner{
		UserID:            userID,
		FirstName:         input.FirstName,
		LastName:          input.LastName,
		DateOfBirth:       dob,
		Gender:            input.Gender,
		Height:            input.Height,
		Weight:            input.Weight,
		HairColor:         input.HairColor,
		EyeColor:          input.EyeColor,
		IdentifyingMarks:  input.IdentifyingMarks,
		MedicalConditions: input.MedicalConditions,
		Medications:       input.Medications,
		Allergies:         input.Allergies,
		IsActive:          true,
	}

	var companion models.Case
	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&runner).Error; err != nil {
			return err
		}
		companion = models.Case{
			RunnerID:     runner.ID,
			ReportedByID: userID,
			Title:        fmt.Sprintf("%s %s - Missing Person Case", runner.FirstName, runner.LastName),
			Status:       "Missing",
			Priority:     "Medium",
		}
		return tx.Create(&companion).Error
	})
	if txErr != nil {
		logrus.WithError(txErr).Error("CreateRunner: transaction failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create runner"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"runner": runner, "case": companion})
}

// ListRunners paginates with search/verified/active filters. Non-privileged
// callers only ever see their own runners.
func ListRunners(c *gin.Context) {
	page, pageSize := pagination(c)

	query := config.DB.Model(&models.Runner{})
	if !isPrivileged(currentRole(c)) {
		query = query.Where("user_id = ?", currentUserID(c))
	} else if c.Query("mine") == "true" {
		query = query.Where("user_id = ?", currentUserID(c))
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ?", like, like)
	}
	if verified := c.Query("verified"); verified == "true" {
		query = query.Where("is_verified = ?", true)
	} else if verified == "false" {
		query = query.Where("is_verified = ?", false)
	}
	if active := c.Query("active"); active == "true" {
		query = query.Where("is_active = ?", true)
	} else if active == "false" {
		query = query.Where("is_active = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error counting runners"})
		return
	}

	var runners []models.Runner
	if err := query.Order("id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&runners).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error listing runners"})
		return
	}

	c.JSON(http.StatusOK, pagedResponse(runners, page, pageSize, total))
}

// GetRunner returns one profile, 404 before ownership so ids are not probed.
func GetRunner(c *gin.Context) {
	runner, ok := loadOwnedRunner(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"runner": runner})
}

// UpdateRunner applies a partial update; owner or admin/staff.
func UpdateRunner(c *gin.Context) {
	runner, ok := loadOwnedRunner(c)
	if !ok {
		return
	}

	var input updateRunnerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.DateOfBirth != nil {
		dob, err := parseDate(input.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dateOfBirth must be YYYY-MM-DD"})
			return
		}
		runner.DateOfBirth = dob
	}
	if input.FirstName != nil {
		runner.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		runner.LastName = *input.LastName
	}
	if input.Gender != nil {
		runner.Gender = *input.Gender
	}
	if input.Height != nil {
		runner.Height = *input.Height
	}
	if input.Weight != nil {
		runner.Weight = *input.Weight
	}
	if input.HairColor != nil {
		runner.HairColor = *input.HairColor
	}
	if input.EyeColor != nil {
		runner.EyeColor = *input.EyeColor
	}
	if input.IdentifyingMarks != nil {
		runner.IdentifyingMarks = *input.IdentifyingMarks
	}
	if input.MedicalConditions != nil {
		runner.MedicalConditions = *input.MedicalConditions
	}
	if input.Medications != nil {
		runner.Medications = *input.Medications
	}
	if input.Allergies != nil {
		runner.Allergies = *input.Allergies
	}

	if err := config.DB.Save(&runner).Error; err != nil {
		logrus.WithError(err).Error("UpdateRunner: save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update runner"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runner": runner})
}

// DeleteRunner refuses while cases still reference the runner.
func DeleteRunner(c *gin.Context) {
	runner, ok := loadOwnedRunner(c)
	if !ok {
		return
	}

	var caseCount int64
	if err := config.DB.Model(&models.Case{}).Where("runner_id = ?", runner.ID).Count(&caseCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if caseCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "runner has existing cases and cannot be deleted"})
		return
	}

	if err := config.DB.Unscoped().Delete(&runner).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete runner"})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// VerifyRunner lets admin/staff mark a profile verified, stamping who and
// when.
func VerifyRunner(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body struct {
		IsVerified *bool `json:"isVerified" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var runner models.Runner
	if err := config.DB.First(&runner, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "runner not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		}
		return
	}

	runner.IsVerified = *body.IsVerified
	if runner.IsVerified {
		now := time.Now()
		runner.VerifiedAt = &now
		runner.VerifiedBy = currentEmail(c)
	} else {
		runner.VerifiedAt = nil
		runner.VerifiedBy = ""
	}

	if err := config.DB.Save(&runner).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update verification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runner": runner})
}

// UploadRunnerPhoto validates and stores a profile photo, then resets the
// six-month reminder window and clears the sent flag.
func UploadRunnerPhoto(c *gin.Context) {
	runner, ok := loadOwnedRunner(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	if fileHeader.Size > runnerPhotoMaxSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo exceeds the 10MB limit"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read uploaded file"})
		return
	}

	ext, err := validateImageFile(fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if Blob == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "blob storage is not configured"})
		return
	}
	blobName := uuid.New().String() + ext
	url, err := Blob.Upload(c.Request.Context(), blobName, data)
	if err != nil {
		logrus.WithError(err).Error("UploadRunnerPhoto: blob upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store photo"})
		return
	}

	next := time.Now().Add(photoReminderInterval)
	runner.PhotoURL = url
	runner.NextPhotoReminder = &next
	runner.ReminderSent = false

	if err := config.DB.Save(&runner).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update runner"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runner": runner, "url": url})
}

// ListDueReminders returns active runners whose photo reminder window has
// lapsed and who have not been nudged yet. Admin/staff only.
func ListDueReminders(c *gin.Context) {
	page, pageSize := pagination(c)

	query := config.DB.Model(&models.Runner{}).
		Where("is_active = ?", true).
		Where("reminder_sent = ?", false).
		Where("next_photo_reminder IS NOT NULL AND next_photo_reminder <= ?", time.Now())

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error counting reminders"})
		return
	}

	var runners []models.Runner
	if err := query.Order("next_photo_reminder").Offset((page - 1) * pageSize).Limit(pageSize).Find(&runners).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error listing reminders"})
		return
	}

	c.JSON(http.StatusOK, pagedResponse(runners, page, pageSize, total))
}

// MarkReminderSent records that a photo-refresh nudge went out for a runner.
// Admin/staff only.
func MarkReminderSent(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var runner models.Runner
	if err := config.DB.First(&runner, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "runner not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		}
		return
	}

	runner.ReminderSent = true
	runner.ReminderCount++
	if err := config.DB.Save(&runner).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update runner"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runner": runner})
}

// loadOwnedRunner fetches the :id runner and enforces the ownership rule,
// writing the error response itself when the check fails.
func loadOwnedRunner(c *gin.Context) (models.Runner, bool) {
	var runner models.Runner

	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return runner, false
	}

	if err := config.DB.First(&runner, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "runner not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		}
		return runner, false
	}

	if !isPrivileged(currentRole(c)) && runner.UserID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to access this runner"})
		return runner, false
	}

	return runner, true
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
