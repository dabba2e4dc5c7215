package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"runners_api/internal/metrics"
)

// Monitoring intake is logging only: clients post structured payloads and we
// record them; there is no delivery pipeline behind this.

// ReportError accepts an arbitrary structured error payload from a client.
func ReportError(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	source, _ := payload["source"].(string)
	if source == "" {
		source = "unknown"
	}
	logrus.WithFields(logrus.Fields{
		"source":  source,
		"payload": payload,
	}).Error("client error report")
	metrics.ClientErrorsReported.WithLabelValues(source).Inc()

	c.JSON(http.StatusAccepted, gin.H{"message": "recorded"})
}

// ReportMetric accepts an arbitrary structured metric payload from a client.
func ReportMetric(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	source, _ := payload["source"].(string)
	if source == "" {
		source = "unknown"
	}
	logrus.WithFields(logrus.Fields{
		"source":  source,
		"payload": payload,
	}).Info("client metric report")
	metrics.ClientMetricsReported.WithLabelValues(source).Inc()

	c.JSON(http.StatusAccepted, gin.H{"message": "recorded"})
}
