package sales

import (
	"context"
	"time"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/models"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/settings"
)

// ReceiptLine is one priced line on a receipt.
type ReceiptLine struct {
	Drug      string  `json:"drug"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// Receipt is the printable rendering of a sale.
type Receipt struct {
	ClinicName string        `json:"clinic_name"`
	SaleID     int           `json:"sale_id"`
	SaleDate   time.Time     `json:"sale_date"`
	ServedBy   string        `json:"served_by"`
	Lines      []ReceiptLine `json:"lines"`
	Total      float64       `json:"total"`
	Footer     string        `json:"footer"`
}

// BuildReceipt renders a sale as a receipt using the configured clinic name
// and footer.
func (s *Service) BuildReceipt(ctx context.Context, settingsService *settings.Service, id int) (*Receipt, error) {
	sale, err := s.Retrieve(ctx, id)
	if err != nil {
		return nil, err
	}

	clinicName, err := settingsService.Get(ctx, models.ConfigKeyClinicName)
	if err != nil {
		return nil, err
	}
	footer, err := settingsService.Get(ctx, models.ConfigKeyReceiptFooter)
	if err != nil {
		return nil, err
	}

	receipt := &Receipt{
		ClinicName: clinicName,
		SaleID:     sale.ID,
		SaleDate:   sale.SaleDate,
		Total:      sale.TotalAmount,
		Footer:     footer,
	}
	if sale.User != nil {
		receipt.ServedBy = sale.User.FullName
	}

	for _, item := range sale.Items {
		line := ReceiptLine{
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.UnitPrice * float64(item.Quantity),
		}
		if item.Drug != nil {
			line.Drug = item.Drug.Name
		}
		receipt.Lines = append(receipt.Lines, line)
	}

	return receipt, nil
}
