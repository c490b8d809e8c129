package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/wmarfa/production-db/internal/mes/repository"
	"github.com/wmarfa/production-db/internal/mes/service"
)

// ProductHandler 产品主数据接口
type ProductHandler struct {
	svc *service.ProductService
}

func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// Create POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Error(c, 40001, "invalid request body: "+err.Error())
		return
	}
	p, err := h.svc.Create(c.Request.Context(), &input)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, p)
}

// Get GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, p)
}

// List GET /products
func (h *ProductHandler) List(c *gin.Context) {
	params := repository.ProductListParams{
		Keyword: c.Query("keyword"),
		Page:    queryInt(c, "page", 1),
		Size:    queryInt(c, "size", 20),
	}
	products, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, ListResponse{
		Items: products,
		Pagination: &Pagination{
			Page:       params.Page,
			PageSize:   params.Size,
			Total:      int(total),
			TotalPages: totalPages(total, params.Size),
		},
	})
}

// Update PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Error(c, 40001, "invalid request body: "+err.Error())
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, p)
}

// Delete DELETE /products/:id（被产出行引用时返回409）
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}
