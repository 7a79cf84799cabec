package devserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/semanticallynull/campusride/internal/middleware"
	"github.com/semanticallynull/campusride/scooter"
)

func (s *Server) scootersHandler(c *gin.Context) {
	scooters, err := s.inventory.Scooters(c)
	if err != nil {
		internalError(c, "failed to list scooters", err)
		return
	}
	c.JSON(http.StatusOK, scooters)
}

// bookHandler is the only arbiter of double booking: the inventory refuses a
// scooter that is no longer Available.
func (s *Server) bookHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	id, ok := userID(c)
	if !ok {
		return
	}
	scooterID := c.Param("id")

	booked, ride, err := s.inventory.Book(c, scooterID, id)
	switch {
	case errors.Is(err, scooter.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Scooter not found"})
		return
	case errors.Is(err, scooter.ErrNotAvailable):
		logger.InfoContext(c, "booking refused", "scooterId", scooterID, "userId", id)
		c.JSON(http.StatusConflict, gin.H{"message": "Scooter is not available"})
		return
	case err != nil:
		internalError(c, "failed to book scooter", err)
		return
	}

	logger.InfoContext(c, "scooter booked", "scooterId", scooterID, "userId", id, "rideId", ride.ID)
	c.JSON(http.StatusOK, scooter.Booking{
		Message: "Scooter booked successfully",
		Scooter: &booked,
	})
}
