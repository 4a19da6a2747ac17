// Package sheetstore persists bookings to a Google Sheets tab that acts
// as the business's CRM log.
package sheetstore

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"google.golang.org/api/sheets/v4"

	"github.com/cartercar/booking-service/internal/booking"
	"github.com/cartercar/booking-service/pkg/logging"
)

// headerColumns is the fixed header written when the log tab is created.
// The trailing Follow-up Date, Notes and Calendar Event ID columns are
// left blank on append and maintained by hand in the sheet.
var headerColumns = []string{
	"Timestamp", "Booking ID", "Lead Score", "Status", "Customer Name", "Phone", "Email",
	"Vehicle", "Service Type", "Location", "Details", "Preferred Date", "Preferred Time",
	"Emergency?", "Fleet?", "Follow-up Date", "Notes", "Calendar Event ID",
}

// Store appends booking rows to a named tab of one spreadsheet.
type Store struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
	logger        *logging.Logger
	now           func() time.Time
}

// New creates a sheet-backed booking store.
func New(svc *sheets.Service, spreadsheetID, sheetName string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		logger:        logger,
		now:           time.Now,
	}
}

// Append ensures the log tab exists, writes one row for the booking and
// highlights it according to priority. It returns the generated booking
// identifier. Any Sheets API failure is fatal to the request and comes
// back as a *booking.StoreError.
func (s *Store) Append(ctx context.Context, req *booking.Request) (string, error) {
	sheetID, err := s.ensureSheet(ctx)
	if err != nil {
		return "", &booking.StoreError{Err: err}
	}

	bookingID := booking.NewBookingID(s.now())
	row := rowValues(req, bookingID)

	resp, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, s.sheetName+"!A1", &sheets.ValueRange{Values: [][]any{row}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", &booking.StoreError{Err: fmt.Errorf("sheetstore: append row: %w", err)}
	}
	if resp.Updates == nil {
		return "", &booking.StoreError{Err: fmt.Errorf("sheetstore: append row: response carries no update info")}
	}

	rowIndex, err := rowIndexFromRange(resp.Updates.UpdatedRange)
	if err != nil {
		return "", &booking.StoreError{Err: err}
	}

	if err := s.highlightRow(ctx, sheetID, rowIndex, req.Classify()); err != nil {
		return "", &booking.StoreError{Err: err}
	}

	s.logger.Info("booking appended to sheet",
		"booking_id", bookingID,
		"sheet", s.sheetName,
		"row", rowIndex,
	)
	return bookingID, nil
}

// ensureSheet returns the sheet id of the log tab, creating the tab with
// a styled header row on first use.
func (s *Store) ensureSheet(ctx context.Context) (int64, error) {
	ss, err := s.svc.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("sheetstore: get spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == s.sheetName {
			return sh.Properties.SheetId, nil
		}
	}
	return s.createSheet(ctx)
}

func (s *Store) createSheet(ctx context.Context) (int64, error) {
	resp, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: s.sheetName},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("sheetstore: create sheet %q: %w", s.sheetName, err)
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil || resp.Replies[0].AddSheet.Properties == nil {
		return 0, fmt.Errorf("sheetstore: create sheet %q: empty reply", s.sheetName)
	}
	sheetID := resp.Replies[0].AddSheet.Properties.SheetId

	header := make([]any, len(headerColumns))
	for i, c := range headerColumns {
		header[i] = c
	}
	_, err = s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, s.sheetName+"!A1", &sheets.ValueRange{Values: [][]any{header}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("sheetstore: write header: %w", err)
	}

	// Header styling: orange background, white bold text.
	_, err = s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   int64(len(headerColumns)),
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						BackgroundColor: &sheets.Color{Red: 1, Green: 0.42, Blue: 0},
						TextFormat: &sheets.TextFormat{
							Bold:            true,
							ForegroundColor: &sheets.Color{Red: 1, Green: 1, Blue: 1},
						},
					},
				},
				Fields: "userEnteredFormat(backgroundColor,textFormat)",
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("sheetstore: format header: %w", err)
	}

	s.logger.Info("created booking log sheet", "sheet", s.sheetName, "sheet_id", sheetID)
	return sheetID, nil
}

// highlightRow colors a data row by priority. Rows without a priority
// class keep the default background.
func (s *Store) highlightRow(ctx context.Context, sheetID int64, rowIndex int64, p booking.Priority) error {
	color := highlightColor(p)
	if color == nil {
		return nil
	}
	_, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    rowIndex - 1,
					EndRowIndex:      rowIndex,
					StartColumnIndex: 0,
					EndColumnIndex:   int64(len(headerColumns)),
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{BackgroundColor: color},
				},
				Fields: "userEnteredFormat.backgroundColor",
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheetstore: highlight row %d: %w", rowIndex, err)
	}
	return nil
}

// highlightColor maps a priority class to its row background.
func highlightColor(p booking.Priority) *sheets.Color {
	switch p {
	case booking.PriorityEmergency:
		return &sheets.Color{Red: 1, Green: 0.8, Blue: 0.8}
	case booking.PriorityHighValue:
		return &sheets.Color{Red: 1, Green: 1, Blue: 0.8}
	case booking.PriorityFleet:
		return &sheets.Color{Red: 0.8, Green: 1, Blue: 0.8}
	default:
		return nil
	}
}

// rowValues lays out one booking in the column order of headerColumns.
func rowValues(req *booking.Request, bookingID string) []any {
	status := "New"
	if req.IsEmergency {
		status = "URGENT"
	}
	return []any{
		req.Timestamp, bookingID, req.LeadScore, status,
		req.Name, req.Phone, req.Email, req.Vehicle, req.Service, req.Location,
		req.Details, req.PreferredDate, req.PreferredTime,
		booking.YesNo(req.IsEmergency), booking.YesNo(req.IsFleet),
		"", "", "",
	}
}

var rowRefPattern = regexp.MustCompile(`![A-Z]+(\d+)`)

// rowIndexFromRange extracts the 1-based row index from an updated range
// reference such as "Carter Car CRM!A7:R7".
func rowIndexFromRange(updatedRange string) (int64, error) {
	m := rowRefPattern.FindStringSubmatch(updatedRange)
	if m == nil {
		return 0, fmt.Errorf("sheetstore: cannot parse updated range %q", updatedRange)
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("sheetstore: cannot parse updated range %q: %w", updatedRange, err)
	}
	return n, nil
}
