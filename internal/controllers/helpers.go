package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var (
	userRoles      = []string{"user", "staff", "admin"}
	caseStatuses   = []string{"Missing", "Active", "Resolved", "Closed"}
	casePriorities = []string{"Low", "Medium", "High", "Critical"}
	platforms      = []string{"ios", "android"}
)

// currentUserID pulls the authenticated user's id out of the JWT claims.
func currentUserID(c *gin.Context) uint {
	return uint(c.MustGet("user_id").(float64))
}

func currentRole(c *gin.Context) string {
	role, _ := c.MustGet("role").(string)
	return role
}

func currentEmail(c *gin.Context) string {
	email, _ := c.MustGet("email").(string)
	return email
}

// isPrivileged reports whether the role bypasses per-resource ownership
// checks.
func isPrivileged(role string) bool {
	return role == "admin" || role == "staff"
}

// pagination parses page/pageSize query params with sane bounds.
func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// pagedResponse is the canonical list envelope.
func pagedResponse(data interface{}, page, pageSize int, total int64) gin.H {
	return gin.H{
		"data":     data,
		"page":     page,
		"pageSize": pageSize,
		"total":    total,
	}
}

// validateEnum checks value against an allow-list, case-insensitively, and
// returns the canonical spelling.
func validateEnum(field, value string, allowed []string) (string, error) {
	for _, a := range allowed {
		if strings.EqualFold(a, value) {
			return a, nil
		}
	}
	return "", errors.New("invalid " + field)
}

// enumError is the structured 400 body for a bad enum value.
func enumError(field string, allowed []string) gin.H {
	return gin.H{
		"error":   "invalid value for " + field,
		"field":   field,
		"allowed": allowed,
	}
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, errors.New("invalid " + name + " format")
	}
	return uint(id), nil
}
