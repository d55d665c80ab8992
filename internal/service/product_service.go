package service

import (
	"database/sql"

	"github.com/altibbe/transparency-api/internal/models"
	"github.com/altibbe/transparency-api/internal/repository"
	"github.com/altibbe/transparency-api/internal/utils"
)

// ProductService handles product submission CRUD.
type ProductService struct {
	productRepo *repository.ProductRepository
}

// NewProductService constructs a ProductService.
func NewProductService(productRepo *repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductRequest represents the request to create a new product.
// Status is not accepted from the caller; new products always start as draft.
type CreateProductRequest struct {
	Name           string         `json:"name" binding:"required"`
	Category       string         `json:"category" binding:"required"`
	Audience       *string        `json:"audience"`
	Description    *string        `json:"description"`
	Location       *string        `json:"location"`
	Certifications models.BoolMap `json:"certifications"`
	BasicInfo      models.JSONMap `json:"basicInfo"`
}

// Create creates a new draft product owned by the caller.
func (s *ProductService) Create(userID string, req *CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		UserID:         &userID,
		Name:           req.Name,
		Category:       req.Category,
		Audience:       req.Audience,
		Description:    req.Description,
		Location:       req.Location,
		Certifications: req.Certifications,
		BasicInfo:      req.BasicInfo,
		Status:         models.StatusDraft,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Get retrieves one product owned by the caller.
func (s *ProductService) Get(id, userID string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// List returns the caller's products, newest first.
func (s *ProductService) List(userID string) ([]models.Product, error) {
	return s.productRepo.ListByUser(userID)
}

// Update applies a partial update to a product.
func (s *ProductService) Update(id, userID string, upd *repository.ProductUpdate) (*models.Product, error) {
	product, err := s.productRepo.UpdatePartial(id, userID, upd)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// Delete removes a product along with its questions and reports.
func (s *ProductService) Delete(id, userID string) error {
	return s.productRepo.Delete(id, userID)
}
