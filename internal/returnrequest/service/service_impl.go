package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/returnly/internal/events"
	"github.com/smallbiznis/returnly/internal/iban"
	"github.com/smallbiznis/returnly/internal/observability/metrics"
	"github.com/smallbiznis/returnly/internal/returnrequest/domain"
	"github.com/smallbiznis/returnly/pkg/db/option"
	"github.com/smallbiznis/returnly/pkg/db/pagination"
	"github.com/smallbiznis/returnly/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultPageSize int32 = 50

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type ServiceParam struct {
	fx.In

	Log        *zap.Logger
	GenID      *snowflake.Node
	Requests   repository.Repository[domain.ReturnRequest]
	Items      repository.Repository[domain.ReturnRequestItem]
	History    repository.Repository[domain.StatusHistoryEntry]
	Outbox  *events.Outbox
	IBAN    iban.Validator
	Metrics *metrics.ReturnsMetrics `optional:"true"`
}

type returnService struct {
	log      *zap.Logger
	genID    *snowflake.Node
	requests repository.Repository[domain.ReturnRequest]
	items    repository.Repository[domain.ReturnRequestItem]
	history  repository.Repository[domain.StatusHistoryEntry]
	outbox   *events.Outbox
	iban     iban.Validator
	metrics  *metrics.ReturnsMetrics
}

func NewService(p ServiceParam) domain.Service {
	return &returnService{
		log:      p.Log.Named("returnrequest.service"),
		genID:    p.GenID,
		requests: p.Requests,
		items:    p.Items,
		history:  p.History,
		outbox:   p.Outbox,
		iban:     p.IBAN,
		metrics:  p.Metrics,
	}
}

// Submit validates the draft, then persists the request header, its product
// lines and the initial status entry as separate writes. A failed line or
// history write after a committed header is surfaced as ErrPartialWrite with
// the committed id so the caller can point support at the record; the header
// is deliberately not rolled back.
func (s *returnService) Submit(ctx context.Context, draft domain.Draft) (*domain.SubmitResponse, error) {
	result := domain.ValidateDraft(draft)
	if result.Internal {
		s.log.Error("draft rejected before persistence",
			zap.String("order_id", draft.OrderID),
			zap.String("user_id", draft.UserID),
			zap.Error(domain.ErrDraftInternal),
		)
		s.observeSubmission("error")
		return nil, domain.ErrDraftInternal
	}
	if len(result.Errors) > 0 {
		s.observeSubmission("rejected")
		return nil, &domain.ValidationError{Categories: result.Errors}
	}

	validated := result.ValidatedFields
	if !emailPattern.MatchString(strings.TrimSpace(validated.CustomerProfileData.Email)) {
		s.observeSubmission("rejected")
		return nil, domain.ErrInvalidEmail
	}
	refund := validated.RefundPaymentData
	if refund.RefundPaymentMethod == domain.PaymentMethodBank && !s.iban.Valid(refund.IBAN) {
		s.observeSubmission("rejected")
		return nil, domain.ErrInvalidIBAN
	}

	now := time.Now().UTC()
	request := s.buildRequest(validated, now)
	if err := s.requests.Create(ctx, request); err != nil {
		s.observeSubmission("error")
		return nil, fmt.Errorf("create return request: %w", err)
	}

	resp := &domain.SubmitResponse{RequestID: request.ID, Status: request.Status}

	lines := s.buildItems(validated, request, now)
	if err := s.items.CreateAll(ctx, lines); err != nil {
		s.log.Error("request committed without product lines",
			zap.String("request_id", request.ID.String()),
			zap.Error(err),
		)
		s.observeSubmission("partial")
		return resp, fmt.Errorf("%w: %v", domain.ErrPartialWrite, err)
	}

	entry := &domain.StatusHistoryEntry{
		ID:          s.genID.Generate(),
		RequestID:   request.ID,
		Status:      domain.StatusNew,
		SubmittedBy: request.Name,
		CreatedAt:   now,
	}
	if err := s.history.Create(ctx, entry); err != nil {
		s.log.Error("request committed without status history",
			zap.String("request_id", request.ID.String()),
			zap.Error(err),
		)
		s.observeSubmission("partial")
		return resp, fmt.Errorf("%w: %v", domain.ErrPartialWrite, err)
	}

	s.publishCreated(ctx, request, len(lines))

	s.log.Info("return request submitted",
		zap.String("request_id", request.ID.String()),
		zap.String("order_id", request.OrderID),
		zap.Int("items", len(lines)),
		zap.Int64("total_price", request.TotalPrice),
	)
	s.observeSubmission("ok")
	return resp, nil
}

func (s *returnService) buildRequest(draft *domain.Draft, now time.Time) *domain.ReturnRequest {
	var totalPrice int64
	for _, item := range draft.Items {
		totalPrice += int64(item.SelectedQuantity) * item.UnitPrice
	}

	request := &domain.ReturnRequest{
		ID:      s.genID.Generate(),
		UserID:  draft.UserID,
		OrderID: draft.OrderID,

		Name:  draft.CustomerProfileData.Name,
		Email: strings.TrimSpace(draft.CustomerProfileData.Email),
		Phone: draft.CustomerProfileData.Phone,

		Country:     draft.PickupReturnData.Country,
		Locality:    draft.PickupReturnData.Locality,
		Address:     draft.PickupReturnData.Address,
		AddressType: draft.PickupReturnData.AddressType,

		PaymentMethod: draft.RefundPaymentData.RefundPaymentMethod,

		TotalPrice: totalPrice,
		Status:     domain.StatusNew,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if request.PaymentMethod == domain.PaymentMethodBank {
		request.IBAN = strings.ReplaceAll(strings.TrimSpace(draft.RefundPaymentData.IBAN), " ", "")
		request.AccountHolder = draft.RefundPaymentData.AccountHolderName
	}
	return request
}

func (s *returnService) buildItems(draft *domain.Draft, request *domain.ReturnRequest, now time.Time) []*domain.ReturnRequestItem {
	lines := make([]*domain.ReturnRequestItem, 0, len(draft.Items))
	for _, item := range draft.Items {
		lines = append(lines, &domain.ReturnRequestItem{
			ID:        s.genID.Generate(),
			RequestID: request.ID,
			UserID:    request.UserID,
			OrderID:   request.OrderID,
			SkuID:     item.SkuID,

			SkuName:    item.Name,
			ImageURL:   item.ImageURL,
			Condition:  item.Condition,
			ReasonCode: item.ReasonCode,
			Reason:     item.ReasonText,

			UnitPrice:  item.UnitPrice,
			Quantity:   item.SelectedQuantity,
			TotalPrice: int64(item.SelectedQuantity) * item.UnitPrice,

			Status:    domain.StatusNew,
			CreatedAt: now,
		})
	}
	return lines
}

func (s *returnService) publishCreated(ctx context.Context, request *domain.ReturnRequest, itemCount int) {
	payload := events.ReturnRequestCreatedPayload{
		RequestID:  request.ID.String(),
		OrderID:    request.OrderID,
		UserID:     request.UserID,
		Email:      request.Email,
		Status:     request.Status,
		TotalPrice: request.TotalPrice,
		ItemCount:  itemCount,
	}
	err := s.outbox.Publish(ctx, events.Event{
		UserID:    request.UserID,
		Type:      events.EventReturnRequestCreated,
		Payload:   payload.ToMap(),
		DedupeKey: "created:" + request.ID.String(),
	})
	if err != nil {
		s.log.Warn("outbox publish failed",
			zap.String("request_id", request.ID.String()),
			zap.Error(err),
		)
	}
}

// UpdateStatus applies an operator transition, appends the history entry, and
// records the change in the outbox. A failed history write after the status
// commit is surfaced as ErrPartialWrite, matching Submit.
func (s *returnService) UpdateStatus(ctx context.Context, req domain.UpdateStatusRequest) (*domain.ReturnRequest, error) {
	requestID, err := snowflake.ParseString(req.ID)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	record, err := s.requests.FindOne(ctx, &domain.ReturnRequest{ID: requestID})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !domain.CanTransition(record.Status, req.NewStatus) {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidStatusTransition, record.Status, req.NewStatus)
	}

	fromStatus := record.Status
	now := time.Now().UTC()
	record.Status = req.NewStatus
	record.UpdatedAt = now
	if err := s.requests.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("update return request status: %w", err)
	}

	entry := &domain.StatusHistoryEntry{
		ID:          s.genID.Generate(),
		RequestID:   requestID,
		Status:      req.NewStatus,
		SubmittedBy: req.Actor,
		CreatedAt:   now,
	}
	if err := s.history.Create(ctx, entry); err != nil {
		s.log.Error("status updated without history entry",
			zap.String("request_id", req.ID),
			zap.Error(err),
		)
		return record, fmt.Errorf("%w: %v", domain.ErrPartialWrite, err)
	}

	s.publishStatusChanged(ctx, record, fromStatus)

	s.log.Info("return request status updated",
		zap.String("request_id", req.ID),
		zap.String("from", fromStatus),
		zap.String("to", req.NewStatus),
		zap.String("actor", req.Actor),
	)
	return record, nil
}

func (s *returnService) publishStatusChanged(ctx context.Context, request *domain.ReturnRequest, fromStatus string) {
	payload := events.ReturnStatusChangedPayload{
		RequestID:  request.ID.String(),
		OrderID:    request.OrderID,
		UserID:     request.UserID,
		Email:      request.Email,
		FromStatus: fromStatus,
		ToStatus:   request.Status,
	}
	err := s.outbox.Publish(ctx, events.Event{
		UserID:    request.UserID,
		Type:      events.EventReturnStatusChanged,
		Payload:   payload.ToMap(),
		DedupeKey: "status:" + request.ID.String() + ":" + request.Status,
	})
	if err != nil {
		s.log.Warn("outbox publish failed",
			zap.String("request_id", request.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *returnService) Get(ctx context.Context, id, email string) (*domain.RequestDetail, error) {
	requestID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	request, err := s.requests.FindOne(ctx, &domain.ReturnRequest{ID: requestID, Email: email})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	lines, err := s.items.Find(ctx, &domain.ReturnRequestItem{RequestID: requestID})
	if err != nil {
		return nil, err
	}
	history, err := s.history.Find(ctx, &domain.StatusHistoryEntry{RequestID: requestID})
	if err != nil {
		return nil, err
	}

	detail := &domain.RequestDetail{Request: *request}
	for _, line := range lines {
		detail.Items = append(detail.Items, *line)
	}
	for _, entry := range history {
		detail.History = append(detail.History, *entry)
	}
	return detail, nil
}

func (s *returnService) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	records, err := s.requests.Find(ctx, &domain.ReturnRequest{Email: req.Email},
		option.ApplyPagination(pagination.Pagination{
			PageToken: req.PageToken,
			PageSize:  int(pageSize),
		}),
		option.WithSortBy(option.QuerySortBy{
			Field: "created_at",
			Desc:  true,
			Allow: map[string]bool{"created_at": true},
		}),
	)
	if err != nil {
		return domain.ListResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(records, pageSize, func(r *domain.ReturnRequest) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        r.ID.String(),
			CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})

	if len(records) > int(pageSize) {
		records = records[:pageSize]
	}

	resp := domain.ListResponse{PageInfo: *pageInfo}
	resp.Requests = make([]domain.ReturnRequest, 0, len(records))
	for _, record := range records {
		resp.Requests = append(resp.Requests, *record)
	}
	return resp, nil
}

func (s *returnService) observeSubmission(result string) {
	if s.metrics != nil {
		s.metrics.ObserveSubmission(result)
	}
}
