package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lotterysystem/lottery-backend/internal/services"
)

// DrawHandler handles draw administration HTTP requests
type DrawHandler struct {
	drawService services.DrawService
}

// NewDrawHandler creates a new DrawHandler
func NewDrawHandler(drawService services.DrawService) *DrawHandler {
	return &DrawHandler{
		drawService: drawService,
	}
}

// SetWinnerRequest is the payload for POST /set-winner
type SetWinnerRequest struct {
	Number int `json:"number" binding:"required"`
}

// SetWinner handles POST /set-winner (admin)
func (h *DrawHandler) SetWinner(c *gin.Context) {
	var request SetWinnerRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBadRequest(c, err)
		return
	}

	draw, err := h.drawService.SetWinningNumber(c.Request.Context(), request.Number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Winning number set",
		"winningNumber": draw.WinningNumber,
	})
}

// AnnounceResults handles POST /announce-results (admin)
func (h *DrawHandler) AnnounceResults(c *gin.Context) {
	settled, err := h.drawService.AnnounceResults(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Results announced",
		"settled": settled,
	})
}
