package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/altibbe/transparency-api/internal/repository"
	"github.com/altibbe/transparency-api/internal/service"
	"github.com/altibbe/transparency-api/internal/utils"
)

// ProductHandler handles product submission endpoints.
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ListProducts returns the caller's products, newest first.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.productService.List(callerID(c))
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to fetch products")
		return
	}

	utils.Success(c, 200, "Products retrieved successfully", products)
}

// GetProduct returns a single product.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.Get(c.Param("id"), callerID(c))
	if err != nil {
		if errors.Is(err, utils.ErrProductNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to fetch product")
		return
	}

	utils.Success(c, 200, "Product retrieved successfully", product)
}

// CreateProduct creates a new draft product. Any status supplied by the
// client is ignored.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Name and category are required")
		return
	}

	product, err := h.productService.Create(callerID(c), &req)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create product")
		return
	}

	utils.Success(c, 201, "Product created successfully", product)
}

// UpdateProduct applies a partial update and returns the merged record.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var upd repository.ProductUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid update payload")
		return
	}

	product, err := h.productService.Update(c.Param("id"), callerID(c), &upd)
	if err != nil {
		if errors.Is(err, utils.ErrProductNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update product")
		return
	}

	utils.Success(c, 200, "Product updated successfully", product)
}

// DeleteProduct removes a product along with its questions and reports.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.productService.Delete(c.Param("id"), callerID(c)); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete product")
		return
	}

	utils.Success(c, 200, "Product deleted successfully", nil)
}
