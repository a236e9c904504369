// controllers/pos.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"salonpos-backend/billing"
	"salonpos-backend/config"
	"salonpos-backend/models"
	"salonpos-backend/services"
	"salonpos-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// POSController serves the live billing surface: one in-memory bill per
// authenticated user, backed by the billing package.
type POSController struct {
	Sessions *services.SessionStore
	Receipts *services.ReceiptService
}

type selectClientInput struct {
	CustomerID uuid.UUID `json:"customerId" binding:"required"`
}

type addItemInput struct {
	ItemID uuid.UUID `json:"itemId" binding:"required"`
	Kind   string    `json:"kind" binding:"required,oneof=service product"`
}

type scanItemInput struct {
	Code string `json:"code" binding:"required"`
}

type quantityInput struct {
	Delta int `json:"delta" binding:"required"`
}

type assignStaffInput struct {
	StaffID uuid.UUID `json:"staffId" binding:"required"`
}

type manualDiscountInput struct {
	Type  string          `json:"type" binding:"required,oneof=fixed percentage"`
	Value decimal.Decimal `json:"value" binding:"required"`
}

type promotionInput struct {
	PromotionID uuid.UUID `json:"promotionId" binding:"required"`
}

type voucherInput struct {
	Code string `json:"code" binding:"required"`
}

// redemptionInput with a nil amount means "toggle": all-or-nothing.
type redemptionInput struct {
	Amount *decimal.Decimal `json:"amount"`
}

type paymentUpdateInput struct {
	Method *string          `json:"method" binding:"omitempty,oneof=cash card online wallet"`
	Amount *decimal.Decimal `json:"amount"`
}

type checkoutInput struct {
	Notes string `json:"notes"`
}

// identity pulls the authenticated user and salon out of the context.
func identity(c *gin.Context) (userUUID, salonUUID uuid.UUID, ok bool) {
	salonID, exists := c.Get(utils.ContextSalonID)
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Salon ID not found in context")
		return
	}
	userID, exists := c.Get(utils.ContextUserID)
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var err error
	salonUUID, err = uuid.Parse(salonID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid salon ID format")
		return
	}
	userUUID, err = uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return
	}
	return userUUID, salonUUID, true
}

// errInsufficientPackageSessions rejects a checkout whose package-redeemed
// lines outrun the sessions actually left, either in the bill snapshot or,
// concurrently, in the database.
var errInsufficientPackageSessions = errors.New("not enough package sessions left")

// respondBillingError maps billing validation failures onto HTTP statuses.
func respondBillingError(c *gin.Context, err error) {
	var mismatch *billing.PaymentMismatchError
	switch {
	case errors.As(err, &mismatch):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     mismatch.Error(),
			"remaining": mismatch.Difference(),
		})
	case errors.Is(err, billing.ErrInvalidVoucherCode):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, billing.ErrCheckoutInProgress),
		errors.Is(err, errInsufficientPackageSessions):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, billing.ErrNoClientSelected),
		errors.Is(err, billing.ErrEmptyCart),
		errors.Is(err, billing.ErrInvalidRedemptionAmount),
		errors.Is(err, billing.ErrLineOutOfRange),
		errors.Is(err, billing.ErrLastPaymentEntry):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Checkout failed")
	}
}

func billView(b *billing.Bill) gin.H {
	return gin.H{
		"client":     b.Client(),
		"lineItems":  b.Lines(),
		"discounts":  b.Discounts(),
		"redemption": b.Redemption(),
		"payments":   b.Payments(),
		"taxPercent": b.TaxPercent(),
		"totals":     b.Totals(),
		"state":      b.State(),
	}
}

func lineIndex(c *gin.Context) (int, bool) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid line index")
		return 0, false
	}
	return idx, true
}

// GetBill returns the live bill with its totals
func (pc *POSController) GetBill(c *gin.Context) {
	userUUID, salonUUID, ok := identity(c)
	if !ok {
		return
	}

	session := pc.Sessions.Get(userUUID, salonUUID)
	session.Do(func(b *billing.Bill) error {
		c.JSON(http.StatusOK, billView(b))
		return nil
	})
}

// SelectClient attaches a customer to the bill
func (pc *POSController) SelectClient(c *gin.Context) {
	userUUID, salonUUID, ok := identity(c)
	if !ok {
		return
	}

	var input selectClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.Preload("Packages").
		Where("salon_id = ? AND id = ?", salonUUID, input.CustomerID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	client := billing.Client{
		ID:            customer.ID,
		Name:          customer.Name,
		Phone:         customer.Phone,
		LoyaltyPoints: customer.LoyaltyPoints,
		WalletBalance: customer.WalletBalance,
	}
	for _, pkg := range customer.Packages {
		client.Packages = append(client.Packages, billing.ClientPackage{
			Name:         pkg.Name,
			SessionsLeft: pkg.SessionsLeft,
		})
	}

	session := pc.Sessions.Get(userUUID, salonUUID)
	session.Do(func(b *billing.Bill) error {
		b.SelectClient(client)
		c.JSON(http.StatusOK, billView(b))
		return nil
	})
}

// AddItem adds a catalog service or product to the cart
func (pc *POSController) AddItem(c *gin.Context) {
	userUUID, salonUUID, ok := identity(c)
	if !ok {
		return
	}

	var input addItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var item billing.CatalogItem
	kind := billing.ItemKind(input.Kind)

	switch kind {
	case billing.KindService:
		var service models.Service
		if err := config.DB.Where("salon_id = ? AND id = ? AND is_active = true", salonUUID, input.ItemID).
			First(&service).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusNotFound, "Service not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		item = billing.CatalogItem{ID: service.ID, Name: service.Name, Price: service.Price}
	case billing.KindProduct:
		var product models.Product
		if err := config.DB.Where("salon_id = ? AND id = ? AND is_active = true", salonUUID, input.ItemID).
			First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusNotFound, "Product not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		item = billing.CatalogItem{ID: product.ID, Name: product.Name, Price: product.Price}
	}

	session := pc.Sessions.Get(userUUID, salonUUID)
	session.Do(func(b *billing.Bill) error {
		b.AddItem(item, kind)
		c.JSON(http.StatusOK, billView(b))
		return nil
	})
}

// ScanItem adds a product by SKU or barcode
func (pc *POSController) ScanItem(c *gin.Context) {
	userUUID, salonUUID, ok := identity(c)
	if !ok {
		return
	}

	var input scanItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	catalog := services.NewProductCatalog(config.DB, salonUUID)
	item, kind, err := catalog.FindByCode(input.Code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "No item matches that code")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	session := pc.Sessions.Get(userUUID, salonUUID)
	session.Do(func(b *billing.Bill) error {
		b.AddItem(*item, kind)
		c.JSON(http.StatusOK, billView(b))
		return nil
	})
}

// UpdateQuantity applies a +/- delta to a line's quantity
func (pc *POSController) UpdateQuantity(c *gin.Context) {
	userUUID, salonUUID, ok := identity(c)
	if !ok {
		return
	}
	idx, ok := lineIndex(c)
	if !ok {
		return
	}

	var input quantityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	session := pc.Sessions.Get(userUUID, salonUUID)
	session.Do(func(b *billing.Bill) error {
		if err := b.UpdateQuantity(idx, input.Delta); err != nil {
			respondBillingError(c, err)
			return err
		}
		c.JSON(http.StatusOK, billView(b))
		return nil
	})
}

// RemoveItem deletes a cart line
func (pc *POSController) RemoveItem(c *gin.Context) {
	userUUID, salonUUID, ok := identity(c)
	if !ok {
		return
	}
	idx, ok := lineIndex(c)
	if !ok {
		return
	}

	session := pc.Sessions.Get(userUUID, salonUUID)
	session.Do(func(b *billing.Bill) error {
		if err := b.RemoveItem(idx); err != nil {
			respondBillingError(c, err)
			return err
		}
		c.JSON(http.StatusOK, billView(b))
		return nil
	})
}

// AssignStaff credits a staff member for a line
func (pc *POSController) AssignStaff(c *gin.Context) {
	userUUID, salonUUID, ok := identity(c)
	if !ok {
		return
	}
	idx, ok := lineIndex(c)
	if !ok {
		return
	}

	var input assignStaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	session := pc.Sessions.Get(userUUID, salonUUID)
	session.Do(func(b *billing.Bill) error {
		if err := b.AssignStaff(idx, input.StaffID); err != nil {
			respondBillingError(c, err)
			return err
		}
		c.JSON(http.StatusOK, billView(b))
		return nil
	})
}

// TogglePackageRedemption flips a line between paid and package-redeemed.
// Turning redemption on requires the client to hold a matching package.
func (pc *POSController) TogglePackageRedemption(c *gin.Context) {
	userUUID, salonUUID, ok := identity(c)
	if !ok {
		return
	}
	idx, ok := lineIndex(c)
	if !ok {
		return
	}

	session := pc.Sessions.Get(userUUID, salonUUID)
	session.Do(func(b *billing.Bill) error {
		line, err := b.Line(idx)
		if err != nil {
			respondBillingError(c, err)
			return err
		}
		if !line.PackageRedemption {
			client := b.Client()
			if client == nil {
				respondBillingError(c, billing.ErrNoClientSelected)
				return billing.ErrNoClientSelected
			}
			if !client.HasPackageFor(line.Name) {
				utils.RespondWithError(c, http.StatusBadRequest, "Client has no active package for this service")
				return errors.New("no matching package")
			}
		}
		if err := b.TogglePackageRedemption(idx); err != nil {
			respondBillingError(c, err)
			return err
		}
		c.JSON(http.StatusOK, billView(b))
		return nil
	})
}

// SetManualDiscount sets the ad-hoc discount
func (pc *POSController) SetManualDiscount(c *gin.Context) {
	userUUID, salonUUID, ok := identity(c)
	if !ok {
		return
	}

	var input manualDiscountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Value.IsNegative() {
		utils.RespondWithError(c, http.StatusBadRequest, "Discount value must not be negative")
		return
	}

	session := pc.Sessions.Get(userUUID, salonUUID)
	session.Do(func(b *billing.Bill) error {
		b.SetManualDiscount(billing.ManualDiscount{
			Type:  billing.DiscountType(input.Type),
			Value: input.Value,
		})
		c.JSON(http.StatusOK, billView(b))
		return nil
	})
}

// ClearManualDiscount removes the ad-hoc discount
func (pc *POSController) ClearManualDiscount(c *gin.Context) {
	userUUID, salonUUID, ok := identity(c)
	if !ok {
		return
	}

	session := pc.Sessions.Get(userUUID, salonUUID)
	session.Do(func(b *billing.Bill) error {
		b.ClearManualDiscount()
		c.JSON(http.StatusOK, billView(b))
		return nil
	})
}

// ApplyPromotion toggles a catalog promotion on the bill
func (pc *POSController) ApplyPromotion(c *gin.Context) {
	userUUID, salonUUID, ok := identity(c)
	if !ok {
		return
	}

	var input promotionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var promo models.Promotion
	if err := config.DB.Where("salon_id = ? AND id = ? AND is_active = true", salonUUID, input.PromotionID).
		First(&promo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Promotion not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	session := pc.Sessions.Get(userUUID, salonUUID)
	session.Do(func(b *billing.Bill) error {
		b.ApplyPromotion(billing.Promotion{
			ID:    promo.ID,
			Name:  promo.Name,
			Type:  billing.DiscountType(promo.DiscountType),
			Value: promo.DiscountValue,
		})
		c.JSON(http.StatusOK, billView(b))
		return nil
	})
}

// ApplyVoucher attaches a voucher by code
func (pc *POSController) ApplyVoucher(c *gin.Context) {
	userUUID, salonUUID, ok := identity(c)
	if !ok {
		return
	}

	var input voucherInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	session := pc.Sessions.Get(userUUID, salonUUID)
	session.Do(func(b *billing.Bill) error {
		if err := b.ApplyVoucherCode(input.Code); err != nil {
			respondBillingError(c, err)
			return err
		}
		c.JSON(http.StatusOK, billView(b))
		return nil
	})
}

// ClearVoucher detaches the active voucher
func (pc *POSController) ClearVoucher(c *gin.Context) {
	userUUID, salonUUID, ok := identity(c)
	if !ok {
		return
	}

	session := pc.Sessions.Get(userUUID, salonUUID)
	session.Do(func(b *billing.Bill) error {
		b.ClearVoucher()
		c.JSON(http.StatusOK, billView(b))
		return nil
	})
}

// RedeemPoints sets or toggles loyalty point redemption. A body without an
// amount toggles between zero and the maximum permitted.
func (pc *POSController) RedeemPoints(c *gin.Context) {
	userUUID, salonUUID, ok := identity(c)
	if !ok {
		return
	}

	var input redemptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	session := pc.Sessions.Get(userUUID, salonUUID)
	session.Do(func(b *billing.Bill) error {
		var err error
		if input.Amount != nil {
			err = b.SetPointsRedemption(*input.Amount)
		} else {
			err = b.ToggleRedeemPoints()
		}
		if err != nil {
			respondBillingError(c, err)
			return err
		}
		c.JSON(http.StatusOK, billView(b))
		return nil
	})
}

// RedeemWallet sets or toggles wallet redemption
func (pc *POSController) RedeemWallet(c *gin.Context) {
	userUUID, salonUUID, ok := identity(c)
	if !ok {
		return
	}

	var input redemptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	session := pc.Sessions.Get(userUUID, salonUUID)
	session.Do(func(b *billing.Bill) error {
		var err error
		if input.Amount != nil {
			err = b.SetWalletRedemption(*input.Amount)
		} else {
			err = b.ToggleRedeemWallet()
		}
		if err != nil {
			respondBillingError(c, err)
			return err
		}
		c.JSON(http.StatusOK, billView(b))
		return nil
	})
}

// AddPaymentMethod appends a split payment entry
func (pc *POSController) AddPaymentMethod(c *gin.Context) {
	userUUID, salonUUID, ok := identity(c)
	if !ok {
		return
	}

	session := pc.Sessions.Get(userUUID, salonUUID)
	session.Do(func(b *billing.Bill) error {
		b.AddPaymentMethod()
		c.JSON(http.StatusOK, billView(b))
		return nil
	})
}

// UpdatePayment sets a payment entry's method and/or amount
func (pc *POSController) UpdatePayment(c *gin.Context) {
	userUUID, salonUUID, ok := identity(c)
	if !ok {
		return
	}
	idx, ok := lineIndex(c)
	if !ok {
		return
	}

	var input paymentUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	session := pc.Sessions.Get(userUUID, salonUUID)
	session.Do(func(b *billing.Bill) error {
		if input.Method != nil {
			if err := b.SetPaymentMethod(idx, billing.PaymentMethod(*input.Method)); err != nil {
				respondBillingError(c, err)
				return err
			}
		}
		if input.Amount != nil {
			if err := b.SetPaymentAmount(idx, *input.Amount); err != nil {
				respondBillingError(c, err)
				return err
			}
		}
		c.JSON(http.StatusOK, billView(b))
		return nil
	})
}

// RemovePayment deletes a split payment entry
func (pc *POSController) RemovePayment(c *gin.Context) {
	userUUID, salonUUID, ok := identity(c)
	if !ok {
		return
	}
	idx, ok := lineIndex(c)
	if !ok {
		return
	}

	session := pc.Sessions.Get(userUUID, salonUUID)
	session.Do(func(b *billing.Bill) error {
		if err := b.RemovePayment(idx); err != nil {
			respondBillingError(c, err)
			return err
		}
		c.JSON(http.StatusOK, billView(b))
		return nil
	})
}

// ImportPendingOrder pulls an app-originated order into the cart
func (pc *POSController) ImportPendingOrder(c *gin.Context) {
	userUUID, salonUUID, ok := identity(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var order models.PendingOrder
	if err := config.DB.Preload("Items").
		Where("salon_id = ? AND id = ? AND status = ?", salonUUID, orderUUID, models.PendingOrderOpen).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Pending order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var lines []billing.LineItem
	for _, item := range order.Items {
		lines = append(lines, billing.LineItem{
			ItemID:    item.ItemID,
			Kind:      billing.ItemKind(item.Kind),
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	session := pc.Sessions.Get(userUUID, salonUUID)
	session.Do(func(b *billing.Bill) error {
		err := importOrderIntoBill(b, lines, func() error {
			// Conditional flip claims the order; zero rows means it was
			// already imported or dismissed in the meantime.
			res := config.DB.Model(&models.PendingOrder{}).
				Where("id = ? AND status = ?", order.ID, models.PendingOrderOpen).
				Update("status", models.PendingOrderImported)
			if res.Error != nil {
				utils.RespondWithError(c, http.StatusInternalServerError, "Failed to mark order imported")
				return res.Error
			}
			if res.RowsAffected == 0 {
				utils.RespondWithError(c, http.StatusConflict, "Pending order is no longer open")
				return errors.New("pending order already claimed")
			}
			return nil
		})
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, billView(b))
		return nil
	})
}

// importOrderIntoBill claims the order first and only then merges its lines.
// A failed claim leaves the cart untouched, so a retry after a failure
// cannot double-merge quantities.
func importOrderIntoBill(b *billing.Bill, lines []billing.LineItem, claim func() error) error {
	if err := claim(); err != nil {
		return err
	}
	b.ImportPendingOrder(lines)
	return nil
}

// Checkout validates the bill, persists the invoice and resets the session
func (pc *POSController) Checkout(c *gin.Context) {
	userUUID, salonUUID, ok := identity(c)
	if !ok {
		return
	}

	var input checkoutInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}
	}

	session := pc.Sessions.Get(userUUID, salonUUID)
	session.Do(func(b *billing.Bill) error {
		invoice, err := b.Checkout(func(inv *billing.Invoice) error {
			return persistInvoice(inv, salonUUID, userUUID, input.Notes)
		})
		if err != nil {
			respondBillingError(c, err)
			return err
		}

		if pc.Receipts != nil {
			var salon models.Salon
			salonName := ""
			if err := config.DB.First(&salon, "id = ?", salonUUID).Error; err == nil {
				salonName = salon.Name
			}
			go pc.Receipts.SendReceipt(salonName, invoice)
		}

		b.ResetBill()
		c.JSON(http.StatusCreated, invoice)
		return nil
	})
}

// ResetBill abandons the in-progress bill
func (pc *POSController) ResetBill(c *gin.Context) {
	userUUID, salonUUID, ok := identity(c)
	if !ok {
		return
	}

	session := pc.Sessions.Get(userUUID, salonUUID)
	session.Do(func(b *billing.Bill) error {
		b.ResetBill()
		c.JSON(http.StatusOK, billView(b))
		return nil
	})
}

// persistInvoice writes the invoice snapshot and settles the client's
// balances in one transaction: stats, loyalty (earn minus redeem), wallet
// debit, and package session decrements for package-redeemed lines.
func persistInvoice(inv *billing.Invoice, salonID, userID uuid.UUID, notes string) error {
	if err := validatePackageSessions(inv); err != nil {
		return err
	}

	invoice := models.Invoice{
		ID:              uuid.New(),
		SalonID:         salonID,
		CreatedByUserID: userID,
		InvoiceNumber:   inv.Number,
		CustomerID:      inv.Client.ID,
		InvoiceDate:     inv.Timestamp,
		Subtotal:        inv.Totals.Subtotal,
		DiscountTotal:   inv.Totals.DiscountTotal,
		PointsRedeemed:  inv.Totals.PointsRedeemed,
		WalletRedeemed:  inv.Totals.WalletRedeemed,
		TaxableBase:     inv.Totals.TaxableBase,
		TaxPercent:      inv.TaxPercent,
		Tax:             inv.Totals.Tax,
		GrandTotal:      inv.Totals.GrandTotal,
		LoyaltyEarned:   inv.LoyaltyEarned,
		Notes:           notes,
	}

	for _, line := range inv.Lines {
		invoice.Items = append(invoice.Items, models.InvoiceItem{
			ID:                uuid.New(),
			ItemID:            line.ItemID,
			Kind:              string(line.Kind),
			Name:              line.Name,
			Quantity:          line.Quantity,
			UnitPrice:         line.UnitPrice,
			PackageRedemption: line.PackageRedemption,
			AssignedStaffID:   line.AssignedStaffID,
			TotalPrice:        line.Total(),
		})
	}

	for _, payment := range inv.Payments {
		invoice.Payments = append(invoice.Payments, models.InvoicePayment{
			ID:     uuid.New(),
			Method: string(payment.Method),
			Amount: payment.Amount,
		})
	}

	for _, applied := range inv.Discounts.Breakdown(inv.Totals.Subtotal) {
		invoice.Discounts = append(invoice.Discounts, models.InvoiceDiscount{
			ID:     uuid.New(),
			Source: applied.Source,
			Type:   string(applied.Type),
			Value:  applied.Value,
			Amount: applied.Amount,
			Label:  applied.Label,
		})
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&invoice).Error; err != nil {
		tx.Rollback()
		return err
	}

	// Update customer stats and settle balances
	loyaltyDelta := decimal.NewFromInt(inv.LoyaltyEarned).Sub(inv.Totals.PointsRedeemed)
	if err := tx.Model(&models.Customer{}).Where("id = ?", inv.Client.ID).
		Updates(map[string]interface{}{
			"total_visits":   gorm.Expr("total_visits + ?", 1),
			"total_spent":    gorm.Expr("total_spent + ?", inv.Totals.GrandTotal),
			"last_visit":     inv.Timestamp,
			"loyalty_points": gorm.Expr("loyalty_points + ?", loyaltyDelta),
			"wallet_balance": gorm.Expr("wallet_balance - ?", inv.Totals.WalletRedeemed),
		}).Error; err != nil {
		tx.Rollback()
		return err
	}

	// Consume one package session per package-redeemed line unit. The
	// sessions_left guard makes the update conditional; zero rows affected
	// means another checkout consumed the sessions first, and the whole
	// transaction rolls back rather than billing the line at zero for free.
	for _, line := range inv.Lines {
		if !line.PackageRedemption {
			continue
		}
		res := tx.Model(&models.CustomerPackage{}).
			Where("customer_id = ? AND name = ? AND sessions_left >= ?", inv.Client.ID, line.Name, line.Quantity).
			Update("sessions_left", gorm.Expr("sessions_left - ?", line.Quantity))
		if res.Error != nil {
			tx.Rollback()
			return res.Error
		}
		if res.RowsAffected == 0 {
			tx.Rollback()
			return fmt.Errorf("%w for %s", errInsufficientPackageSessions, line.Name)
		}
	}

	return tx.Commit().Error
}

// validatePackageSessions checks the bill snapshot before anything is
// written: every package-redeemed line needs a client package with enough
// sessions for its quantity. The conditional UPDATE above remains the
// backstop against sessions consumed concurrently after the snapshot.
func validatePackageSessions(inv *billing.Invoice) error {
	remaining := make(map[string]int)
	for _, pkg := range inv.Client.Packages {
		remaining[pkg.Name] += pkg.SessionsLeft
	}
	for _, line := range inv.Lines {
		if !line.PackageRedemption {
			continue
		}
		if remaining[line.Name] < line.Quantity {
			return fmt.Errorf("%w for %s", errInsufficientPackageSessions, line.Name)
		}
		remaining[line.Name] -= line.Quantity
	}
	return nil
}
