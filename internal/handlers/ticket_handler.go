package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lotterysystem/lottery-backend/internal/middleware"
	"github.com/lotterysystem/lottery-backend/internal/services"
)

// TicketHandler handles ticket-related HTTP requests
type TicketHandler struct {
	ticketService services.TicketService
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(ticketService services.TicketService) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
	}
}

// BuyTicket handles POST /buy-ticket
func (h *TicketHandler) BuyTicket(c *gin.Context) {
	username := c.GetString(middleware.ContextUsername)

	ticket, balance, err := h.ticketService.BuyTicket(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Ticket purchased successfully",
		"ticket": gin.H{
			"id":      ticket.ID,
			"numbers": ticket.Numbers,
		},
		"numbers": ticket.Numbers,
		"balance": balance,
	})
}

// CheckResults handles POST /check-results
func (h *TicketHandler) CheckResults(c *gin.Context) {
	username := c.GetString(middleware.ContextUsername)

	tickets, err := h.ticketService.CheckResults(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]gin.H, 0, len(tickets))
	for _, ticket := range tickets {
		results = append(results, gin.H{
			"id":      ticket.ID,
			"numbers": ticket.Numbers,
			"settled": ticket.Settled,
			"won":     ticket.Won,
			"prize":   ticket.Prize,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tickets": results})
}

// GetBalance handles GET /balance
func (h *TicketHandler) GetBalance(c *gin.Context) {
	username := c.GetString(middleware.ContextUsername)

	balance, err := h.ticketService.GetBalance(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "balance": balance})
}

// ViewTickets handles GET /view-tickets (admin)
func (h *TicketHandler) ViewTickets(c *gin.Context) {
	tickets, err := h.ticketService.ViewAllTickets(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]gin.H, 0, len(tickets))
	for _, ticket := range tickets {
		results = append(results, gin.H{
			"id":           ticket.ID,
			"username":     ticket.Username,
			"numbers":      ticket.Numbers,
			"purchaseTime": ticket.PurchaseTime,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tickets": results})
}
