package clean

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/brightlake/brightlake/pkg/models"
)

// Stats is the drop-count telemetry of one cleaned table. OrphanCount is
// tracked separately from basic drops and only ever set on purchases.
type Stats struct {
	RowsBefore  int `json:"rows_before"`
	RowsAfter   int `json:"rows_after"`
	RowsDropped int `json:"rows_dropped"`
	OrphanCount int `json:"orphan_count"`
}

var titleCaser = cases.Title(language.Und)

// Accepted input date layouts. The canonical internal representation is
// time.Time in UTC.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("missing column %q", name)
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Customers cleans the raw customer table: duplicate identifiers keep their
// first occurrence, unparseable dates drop the row (never the run), country
// names are title-cased, emails lower-cased, and rows missing a required
// field are dropped.
func Customers(logger *zap.Logger, header []string, rows [][]string) ([]models.Customer, Stats, error) {
	idIdx, err := columnIndex(header, "customer_id")
	if err != nil {
		return nil, Stats{}, err
	}
	nameIdx, err := columnIndex(header, "name")
	if err != nil {
		return nil, Stats{}, err
	}
	emailIdx, err := columnIndex(header, "email")
	if err != nil {
		return nil, Stats{}, err
	}
	signupIdx, err := columnIndex(header, "signup_date")
	if err != nil {
		return nil, Stats{}, err
	}
	countryIdx, err := columnIndex(header, "country")
	if err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{RowsBefore: len(rows)}
	seen := make(map[int64]struct{}, len(rows))
	out := make([]models.Customer, 0, len(rows))

	for _, row := range rows {
		id, err := strconv.ParseInt(cell(row, idIdx), 10, 64)
		if err != nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		signup, err := parseDate(cell(row, signupIdx))
		if err != nil {
			continue
		}

		c := models.Customer{
			ID:         id,
			Name:       cell(row, nameIdx),
			Email:      strings.ToLower(cell(row, emailIdx)),
			SignupDate: signup,
			Country:    titleCaser.String(strings.ToLower(cell(row, countryIdx))),
		}
		if c.Name == "" || c.Email == "" || c.Country == "" {
			continue
		}
		out = append(out, c)
	}

	stats.RowsAfter = len(out)
	stats.RowsDropped = stats.RowsBefore - stats.RowsAfter
	logger.Info("Cleaned customers",
		zap.Int("rows_before", stats.RowsBefore),
		zap.Int("rows_after", stats.RowsAfter),
		zap.Int("rows_dropped", stats.RowsDropped))
	return out, stats, nil
}

// Purchases cleans the raw purchase table. The referential pass against the
// cleaned customer set is separate (see DropOrphans) because the valid-id
// set must come from cleaned, not raw, customers.
func Purchases(logger *zap.Logger, header []string, rows [][]string) ([]models.Purchase, Stats, error) {
	idIdx, err := columnIndex(header, "purchase_id")
	if err != nil {
		return nil, Stats{}, err
	}
	customerIdx, err := columnIndex(header, "customer_id")
	if err != nil {
		return nil, Stats{}, err
	}
	dateIdx, err := columnIndex(header, "purchase_date")
	if err != nil {
		return nil, Stats{}, err
	}
	amountIdx, err := columnIndex(header, "amount")
	if err != nil {
		return nil, Stats{}, err
	}
	productIdx, err := columnIndex(header, "product")
	if err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{RowsBefore: len(rows)}
	seen := make(map[int64]struct{}, len(rows))
	out := make([]models.Purchase, 0, len(rows))

	for _, row := range rows {
		id, err := strconv.ParseInt(cell(row, idIdx), 10, 64)
		if err != nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		customerID, err := strconv.ParseInt(cell(row, customerIdx), 10, 64)
		if err != nil {
			continue
		}

		purchaseDate, err := parseDate(cell(row, dateIdx))
		if err != nil {
			continue
		}

		amount, err := strconv.ParseFloat(cell(row, amountIdx), 64)
		if err != nil || amount <= 0 {
			continue
		}

		p := models.Purchase{
			ID:         id,
			CustomerID: customerID,
			Date:       purchaseDate,
			Amount:     amount,
			Product:    titleCaser.String(strings.ToLower(cell(row, productIdx))),
		}
		if p.Product == "" {
			continue
		}
		out = append(out, p)
	}

	stats.RowsAfter = len(out)
	stats.RowsDropped = stats.RowsBefore - stats.RowsAfter
	logger.Info("Cleaned purchases",
		zap.Int("rows_before", stats.RowsBefore),
		zap.Int("rows_after", stats.RowsAfter),
		zap.Int("rows_dropped", stats.RowsDropped))
	return out, stats, nil
}

// DropOrphans removes purchases whose customer is absent from the cleaned
// customer set. It must run after customer cleaning completes.
func DropOrphans(logger *zap.Logger, purchases []models.Purchase, customers []models.Customer) ([]models.Purchase, int) {
	valid := make(map[int64]struct{}, len(customers))
	for _, c := range customers {
		valid[c.ID] = struct{}{}
	}

	out := make([]models.Purchase, 0, len(purchases))
	for _, p := range purchases {
		if _, ok := valid[p.CustomerID]; ok {
			out = append(out, p)
		}
	}

	orphans := len(purchases) - len(out)
	if orphans > 0 {
		logger.Info("Dropped orphan purchases", zap.Int("orphan_count", orphans))
	}
	return out, orphans
}
