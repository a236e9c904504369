// controllers/report.go
package controllers

import (
	"net/http"
	"time"

	"salonpos-backend/config"
	"salonpos-backend/models"
	"salonpos-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportController handles sales reporting over finalized invoices
type ReportController struct{}

// SalesSummary aggregates invoice totals for a date range
type SalesSummary struct {
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	InvoiceCount   int64           `json:"invoiceCount"`
	GrossSales     decimal.Decimal `json:"grossSales"`
	DiscountsGiven decimal.Decimal `json:"discountsGiven"`
	PointsRedeemed decimal.Decimal `json:"pointsRedeemed"`
	WalletRedeemed decimal.Decimal `json:"walletRedeemed"`
	TaxCollected   decimal.Decimal `json:"taxCollected"`
	NetCollected   decimal.Decimal `json:"netCollected"`
	ByMethod       []MethodSummary `json:"byMethod"`
	TopItems       []ItemSummary   `json:"topItems"`
}

type MethodSummary struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

type ItemSummary struct {
	Name    string          `json:"name"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// GetSalesSummary returns the sales breakdown for the salon over a range
// (defaults to the current month)
func (rc *ReportController) GetSalesSummary(c *gin.Context) {
	salonID, exists := c.Get(utils.ContextSalonID)
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Salon ID not found in context")
		return
	}

	salonUUID, err := uuid.Parse(salonID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid salon ID format")
		return
	}

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := now

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid 'from' date, expected YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid 'to' date, expected YYYY-MM-DD")
			return
		}
		to = parsed.AddDate(0, 0, 1) // inclusive end day
	}

	var invoices []models.Invoice
	if err := config.DB.Preload("Items").Preload("Payments").
		Where("salon_id = ? AND invoice_date >= ? AND invoice_date < ?", salonUUID, from, to).
		Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	summary := SalesSummary{
		From:           from,
		To:             to,
		GrossSales:     decimal.Zero,
		DiscountsGiven: decimal.Zero,
		PointsRedeemed: decimal.Zero,
		WalletRedeemed: decimal.Zero,
		TaxCollected:   decimal.Zero,
		NetCollected:   decimal.Zero,
	}

	byMethod := make(map[string]decimal.Decimal)
	type itemAgg struct {
		count   int
		revenue decimal.Decimal
	}
	byItem := make(map[string]*itemAgg)

	for _, invoice := range invoices {
		summary.InvoiceCount++
		summary.GrossSales = summary.GrossSales.Add(invoice.Subtotal)
		summary.DiscountsGiven = summary.DiscountsGiven.Add(invoice.DiscountTotal)
		summary.PointsRedeemed = summary.PointsRedeemed.Add(invoice.PointsRedeemed)
		summary.WalletRedeemed = summary.WalletRedeemed.Add(invoice.WalletRedeemed)
		summary.TaxCollected = summary.TaxCollected.Add(invoice.Tax)
		summary.NetCollected = summary.NetCollected.Add(invoice.GrandTotal)

		for _, payment := range invoice.Payments {
			byMethod[payment.Method] = byMethod[payment.Method].Add(payment.Amount)
		}
		for _, item := range invoice.Items {
			agg, ok := byItem[item.Name]
			if !ok {
				agg = &itemAgg{revenue: decimal.Zero}
				byItem[item.Name] = agg
			}
			agg.count += item.Quantity
			agg.revenue = agg.revenue.Add(item.TotalPrice)
		}
	}

	for method, amount := range byMethod {
		summary.ByMethod = append(summary.ByMethod, MethodSummary{Method: method, Amount: amount})
	}
	for name, agg := range byItem {
		summary.TopItems = append(summary.TopItems, ItemSummary{
			Name:    name,
			Count:   agg.count,
			Revenue: agg.revenue,
		})
	}

	c.JSON(http.StatusOK, summary)
}
