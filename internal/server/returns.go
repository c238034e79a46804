package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/returnly/internal/audit/domain"
	eligibilitydomain "github.com/smallbiznis/returnly/internal/eligibility/domain"
	obscontext "github.com/smallbiznis/returnly/internal/observability/context"
	returndomain "github.com/smallbiznis/returnly/internal/returnrequest/domain"
	"github.com/smallbiznis/returnly/pkg/db/pagination"
	"go.uber.org/zap"
)

// @Summary      List Eligible Orders
// @Description  List the caller's orders that still have returnable items
// @Tags         returns
// @Produce      json
// @Success      200  {object}  eligibilitydomain.AggregationResult
// @Router       /returns/eligible-orders [get]
func (s *Server) EligibleOrders(c *gin.Context) {
	_, email := obscontext.CustomerFromGin(c)
	if !s.limiter.Allow(email) {
		AbortWithError(c, ErrRateLimited)
		return
	}

	resp, err := s.eligibilitySvc.Aggregate(c.Request.Context(), email)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type returnItemSelection struct {
	SkuID      string `json:"sku_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required"`
	Condition  string `json:"condition"`
	ReasonCode string `json:"reason_code"`
	ReasonText string `json:"reason_text"`
}

type customerProfilePayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type pickupReturnPayload struct {
	Country  string `json:"country"`
	Locality string `json:"locality"`
	Address  string `json:"address"`
}

type refundPaymentPayload struct {
	RefundPaymentMethod string `json:"refund_payment_method"`
	IBAN                string `json:"iban" binding:"omitempty,iban"`
	AccountHolderName   string `json:"account_holder_name"`
}

type createReturnRequest struct {
	OrderID             string                  `json:"order_id" binding:"required"`
	Items               []returnItemSelection   `json:"items" binding:"required"`
	CustomerProfileData *customerProfilePayload `json:"customer_profile_data"`
	PickupReturnData    *pickupReturnPayload    `json:"pickup_return_data"`
	RefundPaymentData   *refundPaymentPayload   `json:"refund_payment_data"`
}

// @Summary      Create Return Request
// @Description  Submit a return request for an eligible order
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        request body createReturnRequest true "Create Return Request"
// @Success      201  {object}  returndomain.SubmitResponse
// @Router       /returns [post]
func (s *Server) CreateReturn(c *gin.Context) {
	var req createReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	_, email := obscontext.CustomerFromGin(c)

	// Eligibility is recomputed at submission time so a stale storefront
	// session cannot claim quantities another request already consumed.
	aggregate, err := s.eligibilitySvc.Aggregate(c.Request.Context(), email)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	order := findEligibleOrder(aggregate, strings.TrimSpace(req.OrderID))
	if order == nil {
		AbortWithError(c, newValidationError("order_id", "order_not_eligible", "order has no returnable items"))
		return
	}

	draft := s.buildDraft(order, req)
	resp, err := s.returnSvc.Submit(c.Request.Context(), draft)
	if err != nil {
		if errors.Is(err, returndomain.ErrPartialWrite) && resp != nil {
			s.log.Error("return request partially persisted",
				zap.String("request_id", resp.RequestID.String()),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": gin.H{
				"code":       "partial_write",
				"message":    "request was recorded but some details failed to save",
				"request_id": resp.RequestID.String(),
			}})
			return
		}
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.RequestID.String()
		actorID, _ := obscontext.CustomerFromGin(c)
		var actor *string
		if actorID != "" {
			actor = &actorID
		}
		_ = s.auditSvc.AuditLog(c.Request.Context(), auditdomain.ActorTypeCustomer, actor, "return_request.create", "return_request", &targetID, map[string]any{
			"order_id": order.Order.OrderID,
			"status":   resp.Status,
		})
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

// buildDraft assembles the draft from the freshly computed eligible order,
// prefilling contact and pickup sections from the order snapshot wherever the
// payload leaves them blank. The address type always comes from the order
// pipeline, never from the client.
func (s *Server) buildDraft(order *eligibilitydomain.EligibleOrder, req createReturnRequest) returndomain.Draft {
	draft := returndomain.Draft{
		UserID:  order.Order.UserID,
		OrderID: order.Order.OrderID,
		Items:   append([]eligibilitydomain.EligibleItem(nil), order.Items...),
		CustomerProfileData: returndomain.CustomerProfileData{
			Name:  order.Order.ClientName,
			Email: order.Order.ClientEmail,
			Phone: order.Order.ClientPhone,
		},
		PickupReturnData: returndomain.PickupReturnData{
			Country:  order.Order.ShippingCountry,
			Locality: order.Order.ShippingCity,
			Address:  order.Order.PickupAddress(),
		},
	}
	if order.Order.ShippingAddressType != nil {
		draft.PickupReturnData.AddressType = strings.TrimSpace(*order.Order.ShippingAddressType)
	}

	if profile := req.CustomerProfileData; profile != nil {
		overrideField(&draft.CustomerProfileData.Name, profile.Name)
		overrideField(&draft.CustomerProfileData.Email, profile.Email)
		overrideField(&draft.CustomerProfileData.Phone, profile.Phone)
	}
	if pickup := req.PickupReturnData; pickup != nil {
		overrideField(&draft.PickupReturnData.Country, pickup.Country)
		overrideField(&draft.PickupReturnData.Locality, pickup.Locality)
		overrideField(&draft.PickupReturnData.Address, pickup.Address)
	}
	if refund := req.RefundPaymentData; refund != nil {
		draft.RefundPaymentData = &returndomain.RefundPaymentData{
			RefundPaymentMethod: strings.TrimSpace(refund.RefundPaymentMethod),
			IBAN:                strings.TrimSpace(refund.IBAN),
			AccountHolderName:   strings.TrimSpace(refund.AccountHolderName),
		}
	}

	for _, selection := range req.Items {
		draft.SetQuantity(selection.SkuID, selection.Quantity)
		draft.SetCondition(selection.SkuID, strings.TrimSpace(selection.Condition))
		draft.SetReasonCode(selection.SkuID, strings.TrimSpace(selection.ReasonCode))
		draft.SetReasonText(selection.SkuID, strings.TrimSpace(selection.ReasonText))
	}
	return draft
}

func overrideField(target *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*target = trimmed
	}
}

func findEligibleOrder(aggregate *eligibilitydomain.AggregationResult, orderID string) *eligibilitydomain.EligibleOrder {
	for idx := range aggregate.Orders {
		if aggregate.Orders[idx].Order.OrderID == orderID {
			return &aggregate.Orders[idx]
		}
	}
	return nil
}

// @Summary      List Return Requests
// @Description  List the caller's submitted return requests, newest first
// @Tags         returns
// @Produce      json
// @Param        page_token  query  string  false  "Page Token"
// @Param        page_size   query  int     false  "Page Size"
// @Success      200  {object}  returndomain.ListResponse
// @Router       /returns [get]
func (s *Server) ListReturns(c *gin.Context) {
	var query pagination.Pagination
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	_, email := obscontext.CustomerFromGin(c)
	resp, err := s.returnSvc.List(c.Request.Context(), returndomain.ListRequest{
		Email:     email,
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Return Request
// @Description  Get one of the caller's return requests with lines and history
// @Tags         returns
// @Produce      json
// @Param        id   path      string  true  "Return Request ID"
// @Success      200  {object}  returndomain.RequestDetail
// @Router       /returns/{id} [get]
func (s *Server) GetReturn(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	_, email := obscontext.CustomerFromGin(c)

	resp, err := s.returnSvc.Get(c.Request.Context(), id, email)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateReturnStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=processing approved denied refunded"`
	Actor  string `json:"actor"`
}

// @Summary      Update Return Status
// @Description  Move a return request through its lifecycle
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        id       path  string                     true  "Return Request ID"
// @Param        request  body  updateReturnStatusRequest  true  "Update Status Request"
// @Success      200  {object}  returndomain.ReturnRequest
// @Router       /admin/returns/{id}/status [put]
func (s *Server) UpdateReturnStatus(c *gin.Context) {
	var req updateReturnStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	actor := strings.TrimSpace(req.Actor)
	if actor == "" {
		actor = "operator"
	}

	resp, err := s.returnSvc.UpdateStatus(c.Request.Context(), returndomain.UpdateStatusRequest{
		ID:        id,
		NewStatus: req.Status,
		Actor:     actor,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), auditdomain.ActorTypeAdmin, nil, "return_request.update_status", "return_request", &id, map[string]any{
			"status": resp.Status,
			"actor":  actor,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
