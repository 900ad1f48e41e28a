package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"kiosk-service/internal/entity"
)

const (
	reportWeeks       = 12
	popularProductCap = 5
)

type ReportService struct {
	reportRepo ReportStore
	txRepo     TransactionStore
	now        func() time.Time
}

func NewReportService(reportRepo ReportStore, txRepo TransactionStore) *ReportService {
	return &ReportService{reportRepo: reportRepo, txRepo: txRepo, now: time.Now}
}

// Summary builds the dashboard figures: open-cart volume, weekly sales, their average and the top sellers.
func (s *ReportService) Summary(ctx context.Context) (*entity.ReportSummary, error) {
	inCarts, err := s.reportRepo.CountProductsInOpenCarts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error counting products in carts")
		return nil, err
	}

	weeks := lastWeeks(s.now().UTC(), reportWeeks)
	sales, err := s.reportRepo.SalesSince(ctx, weeks[0].start)
	if err != nil {
		logger.Error().Err(err).Msg("Error loading sales")
		return nil, err
	}

	totals := make(map[string]decimal.Decimal, len(weeks))
	for _, sale := range sales {
		label := weekLabel(sale.Date.UTC())
		totals[label] = totals[label].Add(sale.Amount)
	}

	weekly := make([]entity.WeeklySales, 0, len(weeks))
	sum := decimal.Zero
	for _, w := range weeks {
		total := totals[w.label]
		sum = sum.Add(total)
		weekly = append(weekly, entity.WeeklySales{Week: w.label, Total: total})
	}

	popular, err := s.reportRepo.MostPopularProducts(ctx, popularProductCap)
	if err != nil {
		logger.Error().Err(err).Msg("Error loading popular products")
		return nil, err
	}

	return &entity.ReportSummary{
		TotalProductsInCarts: inCarts,
		AverageSalesPerWeek:  sum.Div(decimal.NewFromInt(reportWeeks)).Round(2),
		WeeklySales:          weekly,
		MostPopularProducts:  popular,
	}, nil
}

// ExportTransactions writes every transaction to w as an xlsx workbook.
func (s *ReportService) ExportTransactions(ctx context.Context, w io.Writer) error {
	transactions, err := s.txRepo.ListTransactions(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing transactions for export")
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transactions")
	if err != nil {
		return err
	}

	// Header row
	headers := []string{"ID", "Date", "User ID", "First Name", "Last Name", "Cart ID", "Order Type", "Total"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}

	// Data rows
	for _, t := range transactions {
		row := sheet.AddRow()
		row.AddCell().SetValue(t.ID)
		row.AddCell().SetValue(t.TransactionDate.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(t.UserID)
		row.AddCell().SetValue(t.FirstName)
		row.AddCell().SetValue(t.LastName)
		row.AddCell().SetValue(t.CartID)
		row.AddCell().SetValue(string(t.OrderType))
		row.AddCell().SetFloat(t.TotalAmount.InexactFloat64())
	}

	return file.Write(w)
}

type week struct {
	label string
	start time.Time
}

// lastWeeks returns n ISO weeks ending with the week containing now, oldest first.
func lastWeeks(now time.Time, n int) []week {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // days since Monday
	monday := day.AddDate(0, 0, -offset)

	weeks := make([]week, n)
	for i := 0; i < n; i++ {
		start := monday.AddDate(0, 0, -7*(n-1-i))
		weeks[i] = week{label: weekLabel(start), start: start}
	}
	return weeks
}

func weekLabel(t time.Time) string {
	year, wk := t.ISOWeek()
	return fmt.Sprintf("%d-%02d", year, wk)
}
