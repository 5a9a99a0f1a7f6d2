package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tustockya/transfers/internal/domain/transfer"
	"github.com/tustockya/transfers/internal/infrastructure/telemetry"
)

// maxResponseSize limits the response body size to prevent memory
// exhaustion
const maxResponseSize = 10 * 1024 * 1024 // 10MB max response

// TokenSource provides the bearer token attached to every request
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client implements the transfer.Service port against the workflow
// service's HTTP API
type Client struct {
	config     *Config
	httpClient *http.Client
	tokens     TokenSource
}

// NewClient creates a workflow service client
func NewClient(config *Config, tokens TokenSource) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		tokens: tokens,
	}, nil
}

// ---------------------------------------------------------------------------
// Requester Operations
// ---------------------------------------------------------------------------

// CreateTransferRequest submits a full-unit request
func (c *Client) CreateTransferRequest(ctx context.Context, spec transfer.TransferRequestSpec) (int64, error) {
	body := createTransferRequestDTO{
		ReferenceCode:       spec.ReferenceCode,
		Brand:               spec.Brand,
		Model:               spec.Model,
		Size:                spec.Size,
		Quantity:            spec.Quantity,
		Purpose:             spec.Purpose.String(),
		PickupType:          spec.PickupType.String(),
		SourceLocation:      spec.SourceLocation,
		DestinationLocation: spec.DestinationLocation,
		Notes:               spec.Notes,
	}
	return c.postForID(ctx, "create_transfer_request", "/api/v1/transfers/request", body)
}

// CreateSingleFootRequest submits a pair-formation leg
func (c *Client) CreateSingleFootRequest(ctx context.Context, spec transfer.SingleFootRequestSpec) (int64, error) {
	body := createSingleFootRequestDTO{
		ReferenceCode:       spec.ReferenceCode,
		Brand:               spec.Brand,
		Model:               spec.Model,
		Size:                spec.Size,
		FootSide:            string(spec.FootSide),
		Purpose:             transfer.PurposePairFormation.String(),
		Quantity:            1,
		PickupType:          spec.PickupType.String(),
		SourceLocation:      spec.SourceLocation,
		DestinationLocation: spec.DestinationLocation,
		Notes:               spec.Notes,
	}
	return c.postForID(ctx, "create_single_foot_request", "/api/v1/transfers/single-foot", body)
}

// CancelTransfer cancels a pending transfer
func (c *Client) CancelTransfer(ctx context.Context, id int64, reason string) error {
	path := fmt.Sprintf("/api/v1/transfers/%d/cancel", id)
	return c.post(ctx, "cancel_transfer", path, cancelRequestDTO{Reason: reason})
}

// ConfirmReception confirms final reception of a delivered transfer
func (c *Client) ConfirmReception(ctx context.Context, id int64, conf transfer.ReceptionConfirmation) error {
	path := fmt.Sprintf("/api/v1/vendor/confirm-reception/%d", id)
	return c.post(ctx, "confirm_reception", path, confirmReceptionDTO{
		Quantity: conf.Quantity,
		Accepted: conf.Accepted,
		Notes:    conf.Notes,
	})
}

// CreateReturnRequest submits a return request
func (c *Client) CreateReturnRequest(ctx context.Context, spec transfer.ReturnRequestSpec) (int64, error) {
	body := createReturnRequestDTO{
		OriginalTransferID: spec.OriginalTransferID,
		Reason:             spec.Reason.String(),
		QuantityToReturn:   spec.QuantityToReturn,
		ProductCondition:   spec.ProductCondition.String(),
		PickupType:         spec.PickupType.String(),
		Notes:              spec.Notes,
	}
	return c.postForID(ctx, "create_return_request", "/api/v1/returns/request", body)
}

// DeliverReturnToWarehouse marks return goods as handed back
func (c *Client) DeliverReturnToWarehouse(ctx context.Context, id int64, notes string) error {
	path := fmt.Sprintf("/api/v1/returns/%d/deliver", id)
	return c.post(ctx, "deliver_return", path, courierNotesDTO{Notes: notes})
}

// ConfirmReturnReception confirms received return goods
func (c *Client) ConfirmReturnReception(ctx context.Context, id int64, conf transfer.ReturnReceptionConfirmation) error {
	path := fmt.Sprintf("/api/v1/returns/%d/confirm-reception", id)
	return c.post(ctx, "confirm_return_reception", path, confirmReturnReceptionDTO{
		Quantity:  conf.Quantity,
		Condition: conf.Condition.String(),
		Notes:     conf.Notes,
	})
}

// SellFromCompletedTransfer records a sale from received stock
func (c *Client) SellFromCompletedTransfer(ctx context.Context, id int64, sale transfer.SaleData) error {
	path := fmt.Sprintf("/api/v1/transfers/%d/sell", id)
	return c.post(ctx, "sell_from_transfer", path, sellFromTransferDTO{
		Price:         sale.Price,
		PaymentMethod: sale.PaymentMethod,
		Notes:         sale.Notes,
	})
}

// LookupSourceStock fetches availability counts for one reference/size
func (c *Client) LookupSourceStock(ctx context.Context, referenceCode, size string) (transfer.SourceStock, error) {
	query := url.Values{}
	query.Set("reference_code", referenceCode)
	query.Set("size", size)
	path := "/api/v1/inventory/availability?" + query.Encode()

	respBody, err := c.doRequest(ctx, "lookup_source_stock", http.MethodGet, path, nil)
	if err != nil {
		return transfer.SourceStock{}, err
	}

	var dto sourceStockDTO
	if err := json.Unmarshal(respBody, &dto); err != nil {
		return transfer.SourceStock{}, fmt.Errorf("workflow: failed to parse response: %w", err)
	}
	return transfer.SourceStock{
		PairsQuantity:     dto.PairsQuantity,
		LeftFeetQuantity:  dto.LeftFeetQuantity,
		RightFeetQuantity: dto.RightFeetQuantity,
	}, nil
}

// ---------------------------------------------------------------------------
// Read Collections
// ---------------------------------------------------------------------------

// ListPendingTransfers lists the session's outstanding requests
func (c *Client) ListPendingTransfers(ctx context.Context) ([]transfer.TransferUnit, error) {
	return c.listUnits(ctx, "list_pending", "/api/v1/transfers/my-requests")
}

// ListCompletedTransfers lists completed transfers received here
func (c *Client) ListCompletedTransfers(ctx context.Context) ([]transfer.TransferUnit, error) {
	return c.listUnits(ctx, "list_completed", "/api/v1/transfers/completed")
}

// ListHistoryToday lists today's terminal units
func (c *Client) ListHistoryToday(ctx context.Context) ([]transfer.TransferUnit, error) {
	return c.listUnits(ctx, "list_history_today", "/api/v1/transfers/history/today")
}

// ListIncomingRequests lists requests sourced from this location
func (c *Client) ListIncomingRequests(ctx context.Context) ([]transfer.TransferUnit, error) {
	return c.listUnits(ctx, "list_incoming", "/api/v1/warehouse/pending-requests")
}

// ---------------------------------------------------------------------------
// Peer-as-source Operations
// ---------------------------------------------------------------------------

// AcceptIncomingTransfer accepts an incoming request with a preparation
// estimate
func (c *Client) AcceptIncomingTransfer(ctx context.Context, id int64, estimatedMinutes int) error {
	return c.post(ctx, "accept_incoming", "/api/v1/warehouse/accept-request", acceptRequestDTO{
		TransferRequestID: id,
		EstimatedMinutes:  estimatedMinutes,
	})
}

// DispatchIncomingTransfer hands an accepted request over for transport
func (c *Client) DispatchIncomingTransfer(ctx context.Context, id int64, deliveryNotes string) error {
	return c.post(ctx, "dispatch_incoming", "/api/v1/warehouse/deliver-to-courier", dispatchRequestDTO{
		TransferRequestID: id,
		DeliveryNotes:     deliveryNotes,
	})
}

// ---------------------------------------------------------------------------
// Courier Operations
// ---------------------------------------------------------------------------

// ListAvailableTransports lists unclaimed transport legs
func (c *Client) ListAvailableTransports(ctx context.Context) ([]transfer.TransferUnit, error) {
	return c.listUnits(ctx, "list_available_transports", "/api/v1/courier/available-requests")
}

// AcceptTransport claims a transport leg
func (c *Client) AcceptTransport(ctx context.Context, id int64, estimatedPickupMinutes int, notes string) error {
	path := fmt.Sprintf("/api/v1/courier/accept-request/%d", id)
	return c.post(ctx, "accept_transport", path, acceptTransportDTO{
		EstimatedPickupMinutes: estimatedPickupMinutes,
		Notes:                  notes,
	})
}

// ConfirmPickup confirms physical pickup at the source
func (c *Client) ConfirmPickup(ctx context.Context, id int64, notes string) error {
	path := fmt.Sprintf("/api/v1/courier/confirm-pickup/%d", id)
	return c.post(ctx, "confirm_pickup", path, courierNotesDTO{Notes: notes})
}

// ConfirmCourierDelivery confirms the delivery outcome
func (c *Client) ConfirmCourierDelivery(ctx context.Context, id int64, successful bool, notes string) error {
	path := fmt.Sprintf("/api/v1/courier/confirm-delivery/%d", id)
	return c.post(ctx, "courier_delivery", path, courierDeliveryDTO{
		Successful: successful,
		Notes:      notes,
	})
}

// ListAssignedTransports lists this courier's claimed legs
func (c *Client) ListAssignedTransports(ctx context.Context) ([]transfer.TransferUnit, error) {
	return c.listUnits(ctx, "list_assigned_transports", "/api/v1/courier/my-assigned-transports")
}

// VendorDashboard fetches the daily activity rollup
func (c *Client) VendorDashboard(ctx context.Context) (*transfer.DashboardSummary, error) {
	respBody, err := c.doRequest(ctx, "vendor_dashboard", http.MethodGet, "/api/v1/vendor/dashboard", nil)
	if err != nil {
		return nil, err
	}

	var dto dashboardDTO
	if err := json.Unmarshal(respBody, &dto); err != nil {
		return nil, fmt.Errorf("workflow: failed to parse response: %w", err)
	}
	return &transfer.DashboardSummary{
		TodaySales:        dto.TodaySales,
		TodayExpenses:     dto.TodayExpenses,
		SalesCount:        dto.SalesCount,
		PendingReceptions: dto.PendingReceptions,
		PendingRequests:   dto.PendingRequests,
	}, nil
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

func (c *Client) listUnits(ctx context.Context, operation, path string) ([]transfer.TransferUnit, error) {
	respBody, err := c.doRequest(ctx, operation, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var dtos []transferUnitDTO
	if err := json.Unmarshal(respBody, &dtos); err != nil {
		return nil, fmt.Errorf("workflow: failed to parse response: %w", err)
	}
	return toDomainUnits(dtos), nil
}

func (c *Client) post(ctx context.Context, operation, path string, body any) error {
	_, err := c.doRequest(ctx, operation, http.MethodPost, path, body)
	return err
}

func (c *Client) postForID(ctx context.Context, operation, path string, body any) (int64, error) {
	respBody, err := c.doRequest(ctx, operation, http.MethodPost, path, body)
	if err != nil {
		return 0, err
	}

	var created createdResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		return 0, fmt.Errorf("workflow: failed to parse response: %w", err)
	}
	return created.ID, nil
}

// doRequest performs one round trip against the workflow service. A
// transport failure maps to NetworkError; a non-2xx response maps to
// ServiceError carrying the structured detail field when present.
func (c *Client) doRequest(ctx context.Context, operation, method, path string, body any) ([]byte, error) {
	tracer := otel.Tracer("workflow-client")
	ctx, span := tracer.Start(ctx, "workflow."+operation)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	)

	start := time.Now()

	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("workflow: failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("workflow: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			span.SetStatus(codes.Error, "token unavailable")
			return nil, fmt.Errorf("workflow: token unavailable: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, "transport failure")
		telemetry.ObserveWorkflowRequest(operation, "network_error", time.Since(start))
		return nil, &transfer.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		span.SetStatus(codes.Error, "read failure")
		telemetry.ObserveWorkflowRequest(operation, "network_error", time.Since(start))
		return nil, &transfer.NetworkError{Err: err}
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= 400 {
		var errResp errorResponse
		_ = json.Unmarshal(respBody, &errResp)
		span.SetStatus(codes.Error, "service error")
		telemetry.ObserveWorkflowRequest(operation, "service_error", time.Since(start))
		return nil, &transfer.ServiceError{StatusCode: resp.StatusCode, Detail: errResp.Detail}
	}

	telemetry.ObserveWorkflowRequest(operation, "ok", time.Since(start))
	return respBody, nil
}

// Ensure Client implements the service port
var _ transfer.Service = (*Client)(nil)
