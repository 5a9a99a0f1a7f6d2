package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	transferapp "github.com/tustockya/transfers/internal/application/transfer"
	"github.com/tustockya/transfers/internal/domain/transfer"
	"github.com/tustockya/transfers/internal/interfaces/http/dto"
)

// Waker requests an immediate snapshot refresh
type Waker interface {
	Wake()
}

// TransferHandler exposes the transfer engine over the local HTTP API
type TransferHandler struct {
	BaseHandler
	engine *transferapp.Engine
	waker  Waker
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(engine *transferapp.Engine, waker Waker) *TransferHandler {
	return &TransferHandler{
		engine: engine,
		waker:  waker,
	}
}

// RegisterRoutes registers transfer routes
func (h *TransferHandler) RegisterRoutes(rg *gin.RouterGroup) {
	view := rg.Group("/view")
	{
		view.GET("", h.GetView)
		view.GET("/pending/grouped", h.GetGroupedPending)
		view.GET("/incoming/grouped", h.GetGroupedIncoming)
		view.GET("/units/:id/progress", h.GetUnitProgress)
	}

	rg.POST("/sync", h.TriggerSync)

	rg.GET("/notifications", h.ListNotifications)
	rg.DELETE("/notifications/:id", h.DismissNotification)
	rg.GET("/failures", h.ListFailures)
	rg.DELETE("/failures/:id", h.DismissFailure)

	transfers := rg.Group("/transfers")
	{
		transfers.POST("", h.CreateTransfer)
		transfers.POST("/single-foot", h.CreateSingleFoot)
		transfers.GET("/availability", h.CheckAvailability)
		transfers.POST("/:id/cancel", h.CancelTransfer)
		transfers.POST("/:id/confirm-reception", h.ConfirmReception)
		transfers.POST("/:id/sell", h.SellFromTransfer)
	}

	returns := rg.Group("/returns")
	{
		returns.POST("", h.CreateReturn)
		returns.POST("/:id/deliver", h.DeliverReturn)
		returns.POST("/:id/confirm-reception", h.ConfirmReturnReception)
	}

	warehouse := rg.Group("/warehouse")
	{
		warehouse.POST("/requests/:id/accept", h.AcceptIncoming)
		warehouse.POST("/requests/:id/dispatch", h.DispatchIncoming)
	}

	courier := rg.Group("/courier")
	{
		courier.POST("/transports/:id/accept", h.AcceptTransport)
		courier.POST("/transports/:id/confirm-pickup", h.ConfirmPickup)
		courier.POST("/transports/:id/confirm-delivery", h.ConfirmDelivery)
	}
}

// ViewResponse is the full local view of the transfer workflow
type ViewResponse struct {
	Version             int64                      `json:"version"`
	TakenAt             string                     `json:"taken_at"`
	Pending             []transferapp.UnitView     `json:"pending"`
	Completed           []transferapp.UnitView     `json:"completed"`
	HistoryToday        []transferapp.UnitView     `json:"history_today"`
	Incoming            []transferapp.UnitView     `json:"incoming"`
	AvailableTransports []transferapp.UnitView     `json:"available_transports"`
	AssignedTransports  []transferapp.UnitView     `json:"assigned_transports"`
	Dashboard           *transfer.DashboardSummary `json:"dashboard,omitempty"`
}

func toUnitViews(units []transfer.TransferUnit) []transferapp.UnitView {
	views := make([]transferapp.UnitView, 0, len(units))
	for _, u := range units {
		views = append(views, transferapp.NewUnitView(u))
	}
	return views
}

// GetView returns the current snapshot with per-unit projections
func (h *TransferHandler) GetView(c *gin.Context) {
	snap := h.engine.Snapshot()
	h.Success(c, ViewResponse{
		Version:             snap.Version,
		TakenAt:             snap.TakenAt.Format("2006-01-02T15:04:05Z07:00"),
		Pending:             toUnitViews(snap.Pending),
		Completed:           toUnitViews(snap.Completed),
		HistoryToday:        toUnitViews(snap.HistoryToday),
		Incoming:            toUnitViews(snap.Incoming),
		AvailableTransports: toUnitViews(snap.AvailableTransports),
		AssignedTransports:  toUnitViews(snap.AssignedTransports),
		Dashboard:           snap.Dashboard,
	})
}

// GetGroupedPending returns pending requests grouped by reference code
func (h *TransferHandler) GetGroupedPending(c *gin.Context) {
	h.Success(c, h.engine.GroupedPending())
}

// GetGroupedIncoming returns incoming requests grouped by reference code
func (h *TransferHandler) GetGroupedIncoming(c *gin.Context) {
	h.Success(c, h.engine.GroupedIncoming())
}

// GetUnitProgress returns the progress projection for one unit
func (h *TransferHandler) GetUnitProgress(c *gin.Context) {
	id, ok := h.unitID(c)
	if !ok {
		return
	}

	view, err := h.engine.ProgressFor(id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// TriggerSync requests an immediate background refresh
func (h *TransferHandler) TriggerSync(c *gin.Context) {
	h.waker.Wake()
	c.Status(http.StatusAccepted)
}

// ListNotifications returns current notifications, newest first
func (h *TransferHandler) ListNotifications(c *gin.Context) {
	h.Success(c, h.engine.Notifications())
}

// DismissNotification removes one notification
func (h *TransferHandler) DismissNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid notification id")
		return
	}
	if !h.engine.DismissNotification(id) {
		h.NotFound(c, "notification not found")
		return
	}
	h.NoContent(c)
}

// ListFailures returns retained action failures
func (h *TransferHandler) ListFailures(c *gin.Context) {
	h.Success(c, h.engine.Failures())
}

// DismissFailure removes one retained failure
func (h *TransferHandler) DismissFailure(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid failure id")
		return
	}
	if !h.engine.DismissFailure(id) {
		h.NotFound(c, "failure not found")
		return
	}
	h.NoContent(c)
}

// CreateTransfer submits a full-unit transfer request
func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	var in transferapp.CreateTransferInput
	if !h.bind(c, &in) {
		return
	}

	id, err := h.engine.CreateTransferRequest(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.CreatedData{ID: id})
}

// CreateSingleFoot submits a single-foot or pair-formation request
func (h *TransferHandler) CreateSingleFoot(c *gin.Context) {
	var in transferapp.CreateSingleFootInput
	if !h.bind(c, &in) {
		return
	}

	id, err := h.engine.CreateSingleFootRequest(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.CreatedData{ID: id})
}

// CheckAvailability looks up source stock for a reference and size
func (h *TransferHandler) CheckAvailability(c *gin.Context) {
	referenceCode := c.Query("reference_code")
	size := c.Query("size")
	if referenceCode == "" || size == "" {
		h.BadRequest(c, "reference_code and size are required")
		return
	}

	view, err := h.engine.CheckAvailability(c.Request.Context(), referenceCode, size)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// CancelTransfer cancels a pending transfer
func (h *TransferHandler) CancelTransfer(c *gin.Context) {
	id, ok := h.unitID(c)
	if !ok {
		return
	}

	var in transferapp.CancelTransferInput
	if !h.bind(c, &in) {
		return
	}

	if err := h.engine.CancelTransfer(c.Request.Context(), id, in); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ConfirmReception confirms a delivered transfer
func (h *TransferHandler) ConfirmReception(c *gin.Context) {
	id, ok := h.unitID(c)
	if !ok {
		return
	}

	var in transferapp.ConfirmReceptionInput
	if !h.bind(c, &in) {
		return
	}

	if err := h.engine.ConfirmReception(c.Request.Context(), id, in); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SellFromTransfer records a sale from a completed transfer
func (h *TransferHandler) SellFromTransfer(c *gin.Context) {
	id, ok := h.unitID(c)
	if !ok {
		return
	}

	var in transferapp.SellFromTransferInput
	if !h.bind(c, &in) {
		return
	}

	if err := h.engine.SellFromCompletedTransfer(c.Request.Context(), id, in); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateReturn requests a reversal of a completed transfer
func (h *TransferHandler) CreateReturn(c *gin.Context) {
	var in transferapp.CreateReturnInput
	if !h.bind(c, &in) {
		return
	}

	id, err := h.engine.CreateReturnRequest(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.CreatedData{ID: id})
}

// NotesInput carries optional free-form notes for an action
type NotesInput struct {
	Notes string `json:"notes"`
}

// DeliverReturn marks return goods as handed back to the source
func (h *TransferHandler) DeliverReturn(c *gin.Context) {
	id, ok := h.unitID(c)
	if !ok {
		return
	}

	var in NotesInput
	if !h.bindOptional(c, &in) {
		return
	}

	if err := h.engine.DeliverReturnToWarehouse(c.Request.Context(), id, in.Notes); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ConfirmReturnReception confirms received return goods
func (h *TransferHandler) ConfirmReturnReception(c *gin.Context) {
	id, ok := h.unitID(c)
	if !ok {
		return
	}

	var in transferapp.ConfirmReturnReceptionInput
	if !h.bind(c, &in) {
		return
	}

	if err := h.engine.ConfirmReturnReception(c.Request.Context(), id, in); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AcceptIncoming accepts an incoming request with a preparation estimate
func (h *TransferHandler) AcceptIncoming(c *gin.Context) {
	id, ok := h.unitID(c)
	if !ok {
		return
	}

	var in transferapp.AcceptIncomingInput
	if !h.bind(c, &in) {
		return
	}

	if err := h.engine.AcceptIncomingTransfer(c.Request.Context(), id, in); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// DispatchIncoming hands an accepted request over for transport
func (h *TransferHandler) DispatchIncoming(c *gin.Context) {
	id, ok := h.unitID(c)
	if !ok {
		return
	}

	var in transferapp.DispatchIncomingInput
	if !h.bind(c, &in) {
		return
	}

	if err := h.engine.DispatchIncomingTransfer(c.Request.Context(), id, in); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AcceptTransport claims an available transport leg
func (h *TransferHandler) AcceptTransport(c *gin.Context) {
	id, ok := h.unitID(c)
	if !ok {
		return
	}

	var in transferapp.AcceptTransportInput
	if !h.bind(c, &in) {
		return
	}

	if err := h.engine.AcceptTransport(c.Request.Context(), id, in); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ConfirmPickup confirms physical pickup at the source
func (h *TransferHandler) ConfirmPickup(c *gin.Context) {
	id, ok := h.unitID(c)
	if !ok {
		return
	}

	var in NotesInput
	if !h.bindOptional(c, &in) {
		return
	}

	if err := h.engine.ConfirmPickup(c.Request.Context(), id, in.Notes); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ConfirmDelivery confirms the courier's delivery outcome
func (h *TransferHandler) ConfirmDelivery(c *gin.Context) {
	id, ok := h.unitID(c)
	if !ok {
		return
	}

	var in transferapp.CourierDeliveryInput
	if !h.bind(c, &in) {
		return
	}

	if err := h.engine.ConfirmCourierDelivery(c.Request.Context(), id, in); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// unitID parses the :id path parameter
func (h *TransferHandler) unitID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.BadRequest(c, "invalid transfer id")
		return 0, false
	}
	return id, true
}

// bind decodes the JSON body, responding with 400 on malformed input
func (h *TransferHandler) bind(c *gin.Context, target any) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "invalid request body")
		return false
	}
	return true
}

// bindOptional decodes the JSON body but treats an absent body as empty
// input
func (h *TransferHandler) bindOptional(c *gin.Context, target any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return h.bind(c, target)
}
