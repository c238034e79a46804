package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/returnly/internal/audit/domain"
	settingsdomain "github.com/smallbiznis/returnly/internal/settings/domain"
)

// @Summary      Get Return Settings
// @Description  Get the current return policy settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  settingsdomain.ReturnSettings
// @Router       /admin/settings [get]
func (s *Server) GetSettings(c *gin.Context) {
	resp, err := s.settingsSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateSettingsRequest struct {
	MaxDays            int      `json:"max_days"`
	ExcludedCategories []string `json:"excluded_categories"`
	TermsURL           string   `json:"terms_url"`
}

// @Summary      Update Return Settings
// @Description  Replace the return policy settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body updateSettingsRequest true "Update Settings Request"
// @Success      200  {object}  settingsdomain.ReturnSettings
// @Router       /admin/settings [put]
func (s *Server) UpdateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	exclusions := make([]settingsdomain.ExcludedCategory, 0, len(req.ExcludedCategories))
	for _, id := range req.ExcludedCategories {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		exclusions = append(exclusions, settingsdomain.ExcludedCategory{ID: id})
	}

	resp, err := s.settingsSvc.Update(c.Request.Context(), settingsdomain.UpdateSettingsRequest{
		MaxDays:            req.MaxDays,
		ExcludedCategories: exclusions,
		TermsURL:           strings.TrimSpace(req.TermsURL),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), auditdomain.ActorTypeAdmin, nil, "settings.update", "return_settings", nil, map[string]any{
			"max_days":            resp.MaxDays,
			"excluded_categories": len(exclusions),
			"terms_url":           resp.TermsURL,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
