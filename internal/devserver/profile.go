package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/semanticallynull/campusride/profile"
)

func (s *Server) profileHandler(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var p profile.Profile
	err := s.accounts.update(id, func(a *account) error {
		p = a.profile()
		return nil
	})
	if !s.accountResult(c, err, "failed to get profile") {
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) settingsHandler(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var settings profile.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid settings"})
		return
	}

	var p profile.Profile
	err := s.accounts.update(id, func(a *account) error {
		a.settings = settings
		p = a.profile()
		return nil
	})
	if !s.accountResult(c, err, "failed to update settings") {
		return
	}
	c.JSON(http.StatusOK, p)
}
