package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kien-ship-it/event-matcher-sub000/models"
	"github.com/kien-ship-it/event-matcher-sub000/services/ingest"
	"github.com/kien-ship-it/event-matcher-sub000/services/slot"
	"github.com/kien-ship-it/event-matcher-sub000/utils"
)

// SlotHandler exposes the availability-slot editing workflow.
type SlotHandler struct {
	Service slot.SlotService
	Logger  *zap.Logger
}

// NewSlotHandler constructs a SlotHandler.
func NewSlotHandler(service slot.SlotService, logger *zap.Logger) *SlotHandler {
	return &SlotHandler{Service: service, Logger: logger}
}

// SlotRequest is the wire form of an availability slot. The recurrence comes
// in as a WireRule so legacy and pattern clients share one endpoint.
type SlotRequest struct {
	ParticipantID string          `json:"participantId" binding:"required"`
	Start         time.Time       `json:"start" binding:"required"`
	End           time.Time       `json:"end" binding:"required"`
	Rule          ingest.WireRule `json:"rule"`
}

func (h *SlotHandler) buildSlot(c *gin.Context, req SlotRequest, id string) (*models.AvailabilitySlot, bool) {
	rule, err := ingest.NormalizeRule(req.Rule)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid recurrence rule", err.Error())
		return nil, false
	}
	return &models.AvailabilitySlot{
		TimeSlot: models.TimeSlot{
			ID:    id,
			Start: req.Start,
			End:   req.End,
			Rule:  rule,
		},
		ParticipantID: req.ParticipantID,
	}, true
}

// CreateSlotHandler validates and persists a new availability slot,
// rejecting conflicts with 409 and echoing the colliding slot.
func (h *SlotHandler) CreateSlotHandler(c *gin.Context) {
	var req SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	sl, ok := h.buildSlot(c, req, "")
	if !ok {
		return
	}

	created, err := h.Service.Create(c.Request.Context(), *sl)
	if err != nil {
		h.respondSlotError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateSlotHandler replaces an existing slot after re-running validation
// and conflict checks.
func (h *SlotHandler) UpdateSlotHandler(c *gin.Context) {
	var req SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	sl, ok := h.buildSlot(c, req, c.Param("id"))
	if !ok {
		return
	}

	updated, err := h.Service.Update(c.Request.Context(), *sl)
	if err != nil {
		h.respondSlotError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteSlotHandler removes a slot owned by the given participant.
func (h *SlotHandler) DeleteSlotHandler(c *gin.Context) {
	participantID := c.Query("participantId")
	if participantID == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "participantId query parameter is required")
		return
	}
	if err := h.Service.Delete(c.Request.Context(), participantID, c.Param("id")); err != nil {
		h.respondSlotError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSlotsHandler returns a participant's availability slots.
func (h *SlotHandler) ListSlotsHandler(c *gin.Context) {
	participantID := c.Param("participantId")
	slots, err := h.Service.ListByParticipant(c.Request.Context(), participantID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list slots", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

func (h *SlotHandler) respondSlotError(c *gin.Context, err error) {
	var vErr *slot.ValidationError
	if errors.As(err, &vErr) {
		utils.JSONError(c, http.StatusUnprocessableEntity, "slot rejected", vErr.Message)
		return
	}
	var cErr *slot.ConflictError
	if errors.As(err, &cErr) {
		h.Logger.Info("slot conflict rejected",
			zap.String("conflictingSlotID", cErr.Conflicting.ID))
		c.JSON(http.StatusConflict, gin.H{
			"error":       "slot overlaps an existing slot",
			"conflicting": cErr.Conflicting,
		})
		return
	}
	utils.JSONError(c, http.StatusInternalServerError, "slot operation failed", err.Error())
}
