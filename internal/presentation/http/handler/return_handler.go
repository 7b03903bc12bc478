package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/renovia/pos-ledger-api/internal/application/service"
	"github.com/renovia/pos-ledger-api/internal/domain/enum"
	"github.com/renovia/pos-ledger-api/internal/domain/repository"
	"github.com/renovia/pos-ledger-api/internal/presentation/http/dto/request"
	"github.com/renovia/pos-ledger-api/internal/presentation/http/dto/response"
	"github.com/renovia/pos-ledger-api/pkg/pagination"
)

// ReturnHandler handles return-related HTTP requests
type ReturnHandler struct {
	returnService *service.ReturnService
}

// NewReturnHandler creates a new return handler
func NewReturnHandler(returnService *service.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

// Create handles recording a pending return
func (h *ReturnHandler) Create(c *gin.Context) {
	var req request.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if !enum.ValidReturnResolution(req.Resolution) {
		response.BadRequest(c, "Resolution must be refund, exchange or credit")
		return
	}
	var resolution enum.ReturnResolution
	_ = resolution.UnmarshalJSON([]byte(`"` + req.Resolution + `"`))

	items := make([]service.ReturnItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.ReturnItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Reason:    item.Reason,
		}
	}

	ret, err := h.returnService.CreateReturn(c.Request.Context(), &service.CreateReturnInput{
		SaleID:        req.SaleID,
		Resolution:    resolution,
		Items:         items,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Return created successfully", ret)
}

// List handles listing returns
func (h *ReturnHandler) List(c *gin.Context) {
	var filter request.ReturnFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ReturnFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:    filter.Search,
		StartDate: parseDate(filter.StartDate),
		EndDate:   parseDate(filter.EndDate),
	}

	if filter.Status != "" {
		var status enum.ReturnStatus
		if err := status.UnmarshalJSON([]byte(`"` + filter.Status + `"`)); err == nil {
			params.Status = &status
		}
	}
	if filter.Resolution != "" && enum.ValidReturnResolution(filter.Resolution) {
		var resolution enum.ReturnResolution
		_ = resolution.UnmarshalJSON([]byte(`"` + filter.Resolution + `"`))
		params.Resolution = &resolution
	}

	returns, total, err := h.returnService.ListReturns(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Returns retrieved successfully",
		paginate(returns, params.Pagination, total))
}

// Get handles retrieving a single return with its items
func (h *ReturnHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid return ID")
		return
	}

	ret, err := h.returnService.GetReturn(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Return retrieved successfully", ret)
}

// Approve handles approving a pending return
func (h *ReturnHandler) Approve(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid return ID")
		return
	}

	ret, err := h.returnService.ApproveReturn(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Return approved successfully", ret)
}

// Reject handles rejecting a pending return
func (h *ReturnHandler) Reject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid return ID")
		return
	}

	ret, err := h.returnService.RejectReturn(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Return rejected successfully", ret)
}

// Complete handles closing an approved return
func (h *ReturnHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid return ID")
		return
	}

	ret, err := h.returnService.CompleteReturn(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Return completed successfully", ret)
}
