package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-backend/internal/application/command"
	"github.com/sangkips/pos-backend/internal/application/service"
	"github.com/sangkips/pos-backend/internal/domain/repository"
	"github.com/sangkips/pos-backend/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-backend/internal/presentation/http/dto/response"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	dispatcher *command.Dispatcher
	methods    repository.PaymentMethodRepository
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(dispatcher *command.Dispatcher, methods repository.PaymentMethodRepository) *PaymentHandler {
	return &PaymentHandler{dispatcher: dispatcher, methods: methods}
}

// Get handles getting a single payment
func (h *PaymentHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "payment")
	if !ok {
		return
	}

	payment, err := command.Execute(c.Request.Context(), h.dispatcher, userID, command.GetPayment{PaymentID: id})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment retrieved successfully", payment)
}

// Update changes a completed payment, re-checking the order balance
func (h *PaymentHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "payment")
	if !ok {
		return
	}

	var req request.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	payment, err := command.Execute(c.Request.Context(), h.dispatcher, userID, command.UpdatePayment{Input: service.UpdatePaymentInput{
		PaymentID:       id,
		PaymentMethodID: req.PaymentMethodID,
		PaymentDate:     req.PaymentDate,
		Amount:          req.Amount,
		ReferenceNo:     req.ReferenceNo,
		Notes:           req.Notes,
	}})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment updated successfully", payment)
}

// Void voids a completed payment
func (h *PaymentHandler) Void(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "payment")
	if !ok {
		return
	}

	payment, err := command.Execute(c.Request.Context(), h.dispatcher, userID, command.VoidPayment{PaymentID: id})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment voided successfully", payment)
}

// ListMethods lists the payment methods a till can offer
func (h *PaymentHandler) ListMethods(c *gin.Context) {
	methods, err := h.methods.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment methods retrieved successfully", methods)
}
