package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/riseresearch/rise-api/internal/dto"
	"github.com/riseresearch/rise-api/internal/models"
	"github.com/riseresearch/rise-api/internal/repository"
	appErrors "github.com/riseresearch/rise-api/pkg/errors"
	"github.com/riseresearch/rise-api/pkg/export"
	"github.com/riseresearch/rise-api/pkg/jobs"
)

const (
	noProgram       = "No Program"
	defaultCurrency = "USD"
	invoiceCutoff   = 27
	missedRateShare = 0.5
)

var ratePattern = regexp.MustCompile(`(?i)^([\d.]+)\s*([A-Z]{3})$`)

type rateLookup interface {
	FindRate(ctx context.Context, table, email string) (string, bool, error)
}

type classStore interface {
	ListPending(ctx context.Context, q repository.PendingClassQuery) ([]models.Class, error)
	Confirm(ctx context.Context, id string) error
	RaiseIssue(ctx context.Context, id, issues string) error
}

type invoiceWriter interface {
	Create(ctx context.Context, inv models.Invoice) (models.Invoice, error)
}

// InvoicingServiceConfig names the rate tables and the clock.
type InvoicingServiceConfig struct {
	// RateTables are searched in order for the mentor's Rate.
	RateTables []string
	Now        func() time.Time
}

// InvoicingService prepares mentor invoices from pending classes.
type InvoicingService struct {
	rates     rateLookup
	classes   classStore
	invoices  invoiceWriter
	pool      *jobs.Pool
	cfg       InvoicingServiceConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInvoicingService builds the service.
func NewInvoicingService(rates rateLookup, classes classStore, invoices invoiceWriter, pool *jobs.Pool, cfg InvoicingServiceConfig, validate *validator.Validate, logger *zap.Logger) *InvoicingService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if pool == nil {
		pool = jobs.NewPool("class-updates", jobs.PoolConfig{Workers: 5, Logger: logger})
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &InvoicingService{
		rates:     rates,
		classes:   classes,
		invoices:  invoices,
		pool:      pool,
		cfg:       cfg,
		validator: validate,
		logger:    logger,
	}
}

// ParseRate reads strings such as "50 GBP". Anything else yields 0 USD.
func ParseRate(raw string) models.Rate {
	rate := models.Rate{Currency: defaultCurrency, Raw: raw}
	m := ratePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return rate
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return rate
	}
	rate.Amount = amount
	rate.Currency = strings.ToUpper(m[2])
	return rate
}

// InvoiceWindow returns the exclusive start and inclusive end of the billing
// period containing now: the 27th of the previous month to the 27th of the
// current month, in UTC.
func InvoiceWindow(now time.Time) (after, through time.Time) {
	now = now.UTC()
	through = time.Date(now.Year(), now.Month(), invoiceCutoff, 0, 0, 0, 0, time.UTC)
	after = time.Date(now.Year(), now.Month()-1, invoiceCutoff, 0, 0, 0, 0, time.UTC)
	return after, through
}

func formatAmount(amount float64, currency string) string {
	return fmt.Sprintf("%.2f %s", amount, currency)
}

// PendingClasses groups the mentor's unpaid classes of the current window by
// program and prices them at the mentor's rate.
func (s *InvoicingService) PendingClasses(ctx context.Context, email string) (*models.PendingClasses, error) {
	email = strings.TrimSpace(email)
	if err := s.validator.Var(email, "required,email"); err != nil {
		return nil, validationError(err, "Email parameter is required")
	}

	rate, err := s.lookupRate(ctx, email)
	if err != nil {
		return nil, err
	}

	after, through := InvoiceWindow(s.cfg.Now())
	classes, err := s.classes.ListPending(ctx, repository.PendingClassQuery{HostEmail: email, After: after, Through: through})
	if err != nil {
		return nil, err
	}

	grouped := make(map[string]*models.ProgramClasses)
	for _, class := range classes {
		id := class.ProgramID
		if id == "" {
			id = noProgram
			class.ProgramID = noProgram
		}
		group, ok := grouped[id]
		if !ok {
			group = &models.ProgramClasses{Classes: []models.Class{}, Currency: rate.Currency}
			grouped[id] = group
		}
		switch class.MeetingStatus {
		case models.MeetingStatusCompleted:
			group.CompletedCount++
		case models.MeetingStatusMissed:
			group.MissedCount++
		}
		if class.MentorConfirmation == models.ConfirmationIssue {
			group.HasIssues = true
		}
		group.Classes = append(group.Classes, class)
	}

	for _, group := range grouped {
		group.TotalAmount = float64(group.CompletedCount)*rate.Amount + float64(group.MissedCount)*rate.Amount*missedRateShare
		group.FormattedAmount = formatAmount(group.TotalAmount, rate.Currency)
		sort.SliceStable(group.Classes, func(i, j int) bool {
			return classDate(group.Classes[i]).Before(classDate(group.Classes[j]))
		})
	}

	s.logger.Info("pending classes loaded",
		zap.String("mentor", email),
		zap.Int("classes", len(classes)),
		zap.Int("programs", len(grouped)))
	return &models.PendingClasses{
		TotalClasses: len(classes),
		ProgramCount: len(grouped),
		GroupedData:  grouped,
		DateRange: models.DateRange{
			Start: after.Format("2006-01-02"),
			End:   through.Format("2006-01-02"),
		},
		RateInfo: rate,
	}, nil
}

func classDate(c models.Class) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, c.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (s *InvoicingService) lookupRate(ctx context.Context, email string) (models.Rate, error) {
	for _, table := range s.cfg.RateTables {
		raw, found, err := s.rates.FindRate(ctx, table, email)
		if err != nil {
			return models.Rate{}, err
		}
		if found {
			return ParseRate(raw), nil
		}
	}
	s.logger.Warn("no rate found for mentor", zap.String("mentor", email))
	return ParseRate(""), nil
}

// ExportPendingClasses renders the pending classes as a downloadable statement.
func (s *InvoicingService) ExportPendingClasses(ctx context.Context, email, rawFormat string) (filename, contentType string, body []byte, err error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return "", "", nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv or pdf")
	}
	pending, err := s.PendingClasses(ctx, email)
	if err != nil {
		return "", "", nil, err
	}

	body, err = export.RendererFor(format).Render(pendingStatement(email, pending))
	if err != nil {
		return "", "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render statement")
	}
	filename = fmt.Sprintf("pending-classes-%s.%s", pending.DateRange.End, format)
	return filename, format.ContentType(), body, nil
}

func pendingStatement(email string, p *models.PendingClasses) export.Statement {
	ids := make([]string, 0, len(p.GroupedData))
	for id := range p.GroupedData {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	st := export.Statement{
		Title: "Pending classes",
		Notes: []string{
			"Mentor: " + email,
			fmt.Sprintf("Period: %s to %s", p.DateRange.Start, p.DateRange.End),
			"Rate: " + formatAmount(p.RateInfo.Amount, p.RateInfo.Currency),
		},
		Columns: []string{"Program", "Date", "Meeting", "Status", "Minutes", "Confirmation", "Amount"},
	}
	var total float64
	for _, id := range ids {
		for _, c := range p.GroupedData[id].Classes {
			amount := p.RateInfo.Amount
			if c.MeetingStatus == models.MeetingStatusMissed {
				amount *= missedRateShare
			}
			total += amount
			st.Rows = append(st.Rows, []string{
				id,
				c.Date,
				c.MeetingNumber,
				string(c.MeetingStatus),
				strconv.FormatFloat(c.Duration, 'f', -1, 64),
				string(c.MentorConfirmation),
				fmt.Sprintf("%.2f", amount),
			})
		}
	}
	st.Totals = []string{"Total", "", "", "", "", "", formatAmount(total, p.RateInfo.Currency)}
	return st
}

// ValidateClasses confirms the classes and raises the mentor's invoice. An
// invoice failure is reported in the response rather than as an error.
func (s *InvoicingService) ValidateClasses(ctx context.Context, req dto.ValidateClassesRequest) (*dto.ValidateClassesResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Program ID, class IDs, mentor email and name are required")
	}

	errs := jobs.Run(ctx, s.pool, req.ClassIDs, func(ctx context.Context, _ int, id string) error {
		return s.classes.Confirm(ctx, id)
	})
	if err := allFailedWith(errs, appErrors.ErrConfiguration); err != nil {
		return nil, err
	}
	failed := failedIDs(req.ClassIDs, errs)
	validated := len(req.ClassIDs) - len(failed)
	s.logger.Info("classes validated",
		zap.String("programId", req.ProgramID),
		zap.Int("validated", validated),
		zap.Int("requested", len(req.ClassIDs)))

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = defaultCurrency
	}
	invoice := models.Invoice{
		Name:             req.MentorName,
		Email:            req.MentorEmail,
		Month:            s.cfg.Now().UTC().Month().String(),
		ClassesThisMonth: float64(req.CompletedCount) + float64(req.MissedCount)*missedRateShare,
		TotalAmount:      strconv.FormatFloat(req.TotalAmount, 'f', -1, 64) + " " + currency,
	}

	resp := &dto.ValidateClassesResponse{
		Success:        true,
		ProgramID:      req.ProgramID,
		ValidatedCount: validated,
		FailedClassIDs: failed,
	}
	created, err := s.invoices.Create(ctx, invoice)
	if err != nil {
		s.logger.Error("invoice creation failed", zap.String("mentor", req.MentorEmail), zap.Error(err))
		resp.Message = fmt.Sprintf("Validated %d class(es) but failed to create invoice.", validated)
		resp.InvoiceError = err.Error()
		return resp, nil
	}
	resp.Message = fmt.Sprintf("Successfully validated %d class(es) and created invoice for %s.", validated, req.MentorName)
	resp.InvoiceCreated = true
	resp.InvoiceID = created.ID
	resp.InvoiceDetails = &created
	return resp, nil
}

// RaiseDiscrepancy records issues against the classes.
func (s *InvoicingService) RaiseDiscrepancy(ctx context.Context, req dto.RaiseDiscrepancyRequest) (*dto.RaiseDiscrepancyResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Program ID, class IDs array, and issues are required")
	}
	errs := jobs.Run(ctx, s.pool, req.ClassIDs, func(ctx context.Context, _ int, id string) error {
		return s.classes.RaiseIssue(ctx, id, req.Issues)
	})
	if err := allFailedWith(errs, appErrors.ErrConfiguration); err != nil {
		return nil, err
	}
	updated := len(req.ClassIDs) - jobs.Failed(errs)
	s.logger.Info("discrepancy raised",
		zap.String("programId", req.ProgramID),
		zap.Int("updated", updated),
		zap.Int("requested", len(req.ClassIDs)))
	return &dto.RaiseDiscrepancyResponse{
		Success:      true,
		Message:      fmt.Sprintf("Discrepancy has been recorded for Program %s.", req.ProgramID),
		ProgramID:    req.ProgramID,
		UpdatedCount: updated,
		TotalClasses: len(req.ClassIDs),
	}, nil
}

// allFailedWith returns the first error when every item failed with target.
func allFailedWith(errs []error, target error) error {
	if len(errs) == 0 || jobs.Failed(errs) != len(errs) {
		return nil
	}
	if errors.Is(errs[0], target) {
		return errs[0]
	}
	return nil
}

func failedIDs(ids []string, errs []error) []string {
	var out []string
	for i, err := range errs {
		if err != nil {
			out = append(out, ids[i])
		}
	}
	return out
}
