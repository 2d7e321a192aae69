package controllers

import (
	"errors"
	"net/http"
	"salonbook-backend/models"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProductController struct {
	DB  *gorm.DB
	Log *zap.Logger
}

type ProductInput struct {
	Name       *string          `json:"name" binding:"omitempty,max=255"`
	SKU        *string          `json:"sku" binding:"omitempty,max=100"`
	StockLevel *int             `json:"stock_level" binding:"omitempty,min=0"`
	Price      *decimal.Decimal `json:"price"`
	Cost       *decimal.Decimal `json:"cost"`
}

func (in ProductInput) apply(p *models.Product) map[string]string {
	fields := map[string]string{}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.SKU != nil {
		p.SKU = *in.SKU
	}
	if in.StockLevel != nil {
		p.StockLevel = *in.StockLevel
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			fields["price"] = "must not be negative"
		}
		p.Price = utils.ToMinor(*in.Price)
	}
	if in.Cost != nil {
		if in.Cost.IsNegative() {
			fields["cost"] = "must not be negative"
		}
		p.Cost = utils.ToMinor(*in.Cost)
	}
	if p.Name == "" {
		fields["name"] = "is required"
	}
	return fields
}

func (pc *ProductController) CreateProduct(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}

	var input ProductInput
	if !bindJSON(c, &input) {
		return
	}

	product := models.Product{SalonID: actor.SalonID}
	if fields := input.apply(&product); len(fields) > 0 {
		utils.RespondWithFieldErrors(c, http.StatusBadRequest, "Invalid input", fields)
		return
	}

	if err := pc.DB.Create(&product).Error; err != nil {
		pc.Log.Error("create product failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, newProductView(&product))
}

func (pc *ProductController) GetProducts(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}

	var products []models.Product
	if err := pc.DB.Where("salon_id = ?", actor.SalonID).Order("name").Find(&products).Error; err != nil {
		pc.Log.Error("list products failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	views := make([]productView, 0, len(products))
	for i := range products {
		views = append(views, newProductView(&products[i]))
	}
	c.JSON(http.StatusOK, views)
}

func (pc *ProductController) findProduct(c *gin.Context, salonID uuid.UUID) (*models.Product, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	var product models.Product
	if err := pc.DB.Where("salon_id = ? AND id = ?", salonID, id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			pc.Log.Error("product lookup failed", zap.Error(err))
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}
	return &product, true
}

func (pc *ProductController) GetProduct(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}
	product, ok := pc.findProduct(c, actor.SalonID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newProductView(product))
}

func (pc *ProductController) UpdateProduct(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}

	var input ProductInput
	if !bindJSON(c, &input) {
		return
	}

	product, ok := pc.findProduct(c, actor.SalonID)
	if !ok {
		return
	}
	if fields := input.apply(product); len(fields) > 0 {
		utils.RespondWithFieldErrors(c, http.StatusBadRequest, "Invalid input", fields)
		return
	}

	if err := pc.DB.Save(product).Error; err != nil {
		pc.Log.Error("update product failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, newProductView(product))
}

func (pc *ProductController) DeleteProduct(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}
	product, ok := pc.findProduct(c, actor.SalonID)
	if !ok {
		return
	}

	if err := pc.DB.Delete(product).Error; err != nil {
		pc.Log.Error("delete product failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
