package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/application/command"
	"github.com/sangkips/pos-backend/internal/application/service"
	"github.com/sangkips/pos-backend/internal/domain/enum"
	"github.com/sangkips/pos-backend/internal/domain/repository"
	"github.com/sangkips/pos-backend/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-backend/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-backend/pkg/pagination"
)

const dateLayout = "2006-01-02"

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	dispatcher *command.Dispatcher
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(dispatcher *command.Dispatcher) *OrderHandler {
	return &OrderHandler{dispatcher: dispatcher}
}

// List handles listing orders, newest first
func (h *OrderHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := repository.SalesOrderFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search: c.Query("search"),
	}

	if stateStr := c.Query("state"); stateStr != "" {
		state, err := enum.ParseOrderState(stateStr)
		if err != nil {
			response.BadRequest(c, "Invalid state filter")
			return
		}
		params.State = &state
	}

	if customerIDStr := c.Query("customer_id"); customerIDStr != "" {
		if customerID, err := uuid.Parse(customerIDStr); err == nil {
			params.CustomerID = &customerID
		}
	}

	if startDateStr := c.Query("start_date"); startDateStr != "" {
		if startDate, err := time.Parse(dateLayout, startDateStr); err == nil {
			params.StartDate = &startDate
		}
	}

	// end_date covers the whole day
	if endDateStr := c.Query("end_date"); endDateStr != "" {
		if endDate, err := time.Parse(dateLayout, endDateStr); err == nil {
			endDate = endDate.Add(24*time.Hour - time.Nanosecond)
			params.EndDate = &endDate
		}
	}

	result, err := command.Execute(c.Request.Context(), h.dispatcher, userID, command.ListOrders{Filter: params})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Orders retrieved successfully", result)
}

// Create handles checkout: the order with its items and charges is stored in
// one transaction.
func (h *OrderHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := command.Execute(c.Request.Context(), h.dispatcher, userID, command.CreateOrder{Input: req.ToInput()})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created successfully", order)
}

// Get handles getting a single order with its lines and payments
func (h *OrderHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "order")
	if !ok {
		return
	}

	order, err := command.Execute(c.Request.Context(), h.dispatcher, userID, command.GetOrder{OrderID: id})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// Void voids an order together with its completed payments
func (h *OrderHandler) Void(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "order")
	if !ok {
		return
	}

	order, err := command.Execute(c.Request.Context(), h.dispatcher, userID, command.VoidOrder{OrderID: id})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order voided successfully", order)
}

// ListPayments lists every payment of an order, voided ones included
func (h *OrderHandler) ListPayments(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "order")
	if !ok {
		return
	}

	payments, err := command.Execute(c.Request.Context(), h.dispatcher, userID, command.ListPayments{OrderID: id})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payments retrieved successfully", payments)
}

// CreatePayment records a payment against the order's balance
func (h *OrderHandler) CreatePayment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "order")
	if !ok {
		return
	}

	var req request.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	payment, err := command.Execute(c.Request.Context(), h.dispatcher, userID, command.CreatePayment{Input: service.CreatePaymentInput{
		OrderID:         id,
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

	response.Created(c, "Payment recorded successfully", payment)
}
