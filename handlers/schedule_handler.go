package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/kien-ship-it/event-matcher-sub000/config"
	slotRepo "github.com/kien-ship-it/event-matcher-sub000/database/repository/slot"
	"github.com/kien-ship-it/event-matcher-sub000/models"
	"github.com/kien-ship-it/event-matcher-sub000/services/export"
	"github.com/kien-ship-it/event-matcher-sub000/services/schedule"
	"github.com/kien-ship-it/event-matcher-sub000/utils"
)

// ScheduleHandler exposes instance expansion, the availability heat map,
// and exports. The engine itself stays pure; this handler owns all I/O
// around it.
type ScheduleHandler struct {
	Repo   slotRepo.SlotRepository
	Engine schedule.RecurrenceEngine
	Cache  *redis.Client
	Logger *zap.Logger
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(repo slotRepo.SlotRepository, engine schedule.RecurrenceEngine, cache *redis.Client, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{Repo: repo, Engine: engine, Cache: cache, Logger: logger}
}

func parseWindow(c *gin.Context) (time.Time, time.Time, bool) {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid window", "from must be RFC3339")
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid window", "to must be RFC3339")
		return time.Time{}, time.Time{}, false
	}
	if from.After(to) {
		utils.JSONError(c, http.StatusBadRequest, "invalid window", "from must not be after to")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func splitIDs(raw string) []string {
	var out []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// expandForParticipants loads and expands the given participants' slots.
func (h *ScheduleHandler) expandForParticipants(ctx context.Context, participantIDs []string, from, to time.Time) (schedule.ExpandResult, error) {
	slots, err := h.Repo.ListAvailabilityForParticipants(ctx, participantIDs)
	if err != nil {
		return schedule.ExpandResult{}, err
	}
	timeSlots := make([]models.TimeSlot, 0, len(slots))
	for _, s := range slots {
		timeSlots = append(timeSlots, s.TimeSlot)
	}
	return h.Engine.ExpandAll(timeSlots, from, to)
}

// GetInstancesHandler expands the participants' slots into flat instances
// for display and conflict listing.
func (h *ScheduleHandler) GetInstancesHandler(c *gin.Context) {
	from, to, ok := parseWindow(c)
	if !ok {
		return
	}
	participantIDs := splitIDs(c.Query("participants"))
	if len(participantIDs) == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "participants query parameter is required")
		return
	}

	res, err := h.expandForParticipants(c.Request.Context(), participantIDs, from, to)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to expand schedule", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"instances": res.Instances, "warnings": res.Warnings})
}

// HeatmapRequest selects participants and a window for aggregation.
type HeatmapRequest struct {
	ParticipantIDs []string  `json:"participantIds" binding:"required"`
	Highlighted    []string  `json:"highlighted"`
	From           time.Time `json:"from" binding:"required"`
	To             time.Time `json:"to" binding:"required"`
}

// HeatmapHandler builds the bucketed multi-participant availability view.
// Responses are cached briefly in Redis keyed by a digest of the request.
func (h *ScheduleHandler) HeatmapHandler(c *gin.Context) {
	var req HeatmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if req.From.After(req.To) {
		utils.JSONError(c, http.StatusBadRequest, "invalid window", "from must not be after to")
		return
	}

	ctx := c.Request.Context()
	cacheKey := heatmapCacheKey(req)
	if h.Cache != nil {
		if cached, err := h.Cache.Get(ctx, cacheKey).Bytes(); err == nil {
			c.Data(http.StatusOK, "application/json", cached)
			return
		}
	}

	result, err := h.buildHeatmap(ctx, req)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to aggregate availability", err.Error())
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to encode aggregation", err.Error())
		return
	}
	if h.Cache != nil {
		ttl := time.Duration(config.AppConfig.HeatmapCacheTTL) * time.Second
		if err := h.Cache.Set(ctx, cacheKey, payload, ttl).Err(); err != nil {
			h.Logger.Warn("failed to cache heatmap", zap.Error(err))
		}
	}
	c.Data(http.StatusOK, "application/json", payload)
}

func (h *ScheduleHandler) buildHeatmap(ctx context.Context, req HeatmapRequest) (models.AggregationResult, error) {
	slots, err := h.Repo.ListAvailabilityForParticipants(ctx, req.ParticipantIDs)
	if err != nil {
		return models.AggregationResult{}, err
	}
	busy, err := h.Repo.ListBusyForParticipants(ctx, req.ParticipantIDs)
	if err != nil {
		return models.AggregationResult{}, err
	}

	highlighted := make(map[string]bool, len(req.Highlighted))
	for _, id := range req.Highlighted {
		highlighted[id] = true
	}

	byParticipant := make(map[string][]models.AvailabilitySlot)
	for _, s := range slots {
		byParticipant[s.ParticipantID] = append(byParticipant[s.ParticipantID], s)
	}

	participants := make([]models.ParticipantAvailability, 0, len(req.ParticipantIDs))
	for _, id := range req.ParticipantIDs {
		participants = append(participants, models.ParticipantAvailability{
			ID:           id,
			Availability: byParticipant[id],
			Highlighted:  highlighted[id],
		})
	}

	return h.Engine.Aggregate(participants, busy, req.From, req.To)
}

// heatmapCacheKey digests the request into a stable cache key.
func heatmapCacheKey(req HeatmapRequest) string {
	ids := append([]string(nil), req.ParticipantIDs...)
	sort.Strings(ids)
	highlighted := append([]string(nil), req.Highlighted...)
	sort.Strings(highlighted)

	sum := sha256.Sum256([]byte(strings.Join(ids, ",") + "|" + strings.Join(highlighted, ",") + "|" +
		req.From.UTC().Format(time.RFC3339) + "|" + req.To.UTC().Format(time.RFC3339)))
	return "heatmap:" + hex.EncodeToString(sum[:16])
}

// ExportCSVHandler streams the expanded window as CSV.
func (h *ScheduleHandler) ExportCSVHandler(c *gin.Context) {
	h.exportWindow(c, "csv")
}

// ExportICSHandler streams the expanded window as an iCalendar document.
func (h *ScheduleHandler) ExportICSHandler(c *gin.Context) {
	h.exportWindow(c, "ics")
}

func (h *ScheduleHandler) exportWindow(c *gin.Context, format string) {
	from, to, ok := parseWindow(c)
	if !ok {
		return
	}
	participantIDs := splitIDs(c.Query("participants"))
	if len(participantIDs) == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "participants query parameter is required")
		return
	}

	res, err := h.expandForParticipants(c.Request.Context(), participantIDs, from, to)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to expand schedule", err.Error())
		return
	}

	switch format {
	case "csv":
		c.Header("Content-Disposition", `attachment; filename="schedule.csv"`)
		c.Header("Content-Type", "text/csv")
		if err := export.WriteCSV(c.Writer, res.Instances); err != nil {
			h.Logger.Error("csv export failed", zap.Error(err))
		}
	case "ics":
		c.Header("Content-Disposition", `attachment; filename="schedule.ics"`)
		c.Header("Content-Type", "text/calendar")
		if err := export.NewICSWriter("Availability").Write(c.Writer, res.Instances); err != nil {
			h.Logger.Error("ics export failed", zap.Error(err))
		}
	}
}
