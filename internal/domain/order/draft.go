package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/buildmart/storefront/internal/domain/catalog"
	"github.com/buildmart/storefront/internal/domain/shared"
)

// State represents the lifecycle state of an order draft.
type State string

const (
	StateIdle       State = "idle"
	StateEditing    State = "editing"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSubmitted  State = "submitted"
)

// SourceWebsite tags drafts originated through the gateway's web surface.
const SourceWebsite = "website"

// DefaultQuantity is the quantity a freshly opened draft starts with.
var DefaultQuantity = decimal.NewFromInt(1)

// Draft is the mutable, in-progress order being composed by one user for one
// product. It owns the submission state machine: while Submitting, the draft
// is non-cancelable and rejects further submit attempts so at most one
// upstream request is ever in flight per draft.
type Draft struct {
	ID      uuid.UUID
	Product *catalog.Product

	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	QuantitySqm   decimal.Decimal
	Message       string
	Source        string

	state           State
	fieldErrors     FieldErrors
	submissionError bool
	totalPrice      decimal.Decimal

	OpenedAt time.Time
}

// OpenDraft creates a draft in the Editing state for the given product.
// The product's unit price is pinned at open, so totals stay stable while
// the user edits even if the catalog changes underneath.
func OpenDraft(id uuid.UUID, product *catalog.Product, source string) (*Draft, error) {
	if product == nil {
		return nil, shared.ErrNoProductSelected
	}
	if !product.IsAvailable {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available for ordering")
	}
	if source == "" {
		source = SourceWebsite
	}

	d := &Draft{
		ID:          id,
		Product:     product,
		QuantitySqm: DefaultQuantity,
		Source:      source,
		state:       StateEditing,
		OpenedAt:    time.Now(),
	}
	d.reprice()

	return d, nil
}

// State returns the current lifecycle state.
func (d *Draft) State() State {
	return d.state
}

// TotalPrice returns quantity x unit price at full precision.
func (d *Draft) TotalPrice() decimal.Decimal {
	return d.totalPrice
}

// FieldErrors returns the field errors recorded by the last failed
// validation pass, or nil.
func (d *Draft) FieldErrors() FieldErrors {
	return d.fieldErrors
}

// HasSubmissionError reports whether the last submission attempt failed
// after passing validation.
func (d *Draft) HasSubmissionError() bool {
	return d.submissionError
}

// SetCustomer updates the customer identity fields.
func (d *Draft) SetCustomer(name, email, phone string) error {
	if err := d.ensureEditable(); err != nil {
		return err
	}
	d.CustomerName = name
	d.CustomerEmail = email
	d.CustomerPhone = phone
	return nil
}

// SetMessage updates the optional free-text message.
func (d *Draft) SetMessage(message string) error {
	if err := d.ensureEditable(); err != nil {
		return err
	}
	d.Message = message
	return nil
}

// SetQuantity updates the ordered area and recomputes the total. Values that
// fall below the minimum are still stored; validation reports them at submit
// time so the user sees the field error alongside any others.
func (d *Draft) SetQuantity(quantity decimal.Decimal) error {
	if err := d.ensureEditable(); err != nil {
		return err
	}
	d.QuantitySqm = quantity
	d.reprice()
	return nil
}

// BeginSubmit validates the draft and, if it passes, moves it to Submitting
// and returns the payload for exactly one upstream create-order request.
//
// A draft already in Submitting returns shared.ErrSubmitInFlight without
// producing a payload; FieldErrors is returned (and retained on the draft)
// when validation fails, with the draft back in Editing.
func (d *Draft) BeginSubmit() (*Submission, error) {
	switch d.state {
	case StateSubmitting:
		return nil, shared.ErrSubmitInFlight
	case StateEditing:
		// proceed
	default:
		return nil, shared.ErrInvalidState
	}
	if d.Product == nil {
		return nil, shared.ErrNoProductSelected
	}

	d.state = StateValidating
	if errs := validateDraftFields(d); len(errs) > 0 {
		d.fieldErrors = errs
		d.state = StateEditing
		return nil, errs
	}

	d.fieldErrors = nil
	d.submissionError = false
	d.state = StateSubmitting

	return &Submission{
		CustomerName:  strings.TrimSpace(d.CustomerName),
		CustomerEmail: strings.TrimSpace(d.CustomerEmail),
		CustomerPhone: strings.TrimSpace(d.CustomerPhone),
		ProductID:     d.Product.ID,
		QuantitySqm:   d.QuantitySqm,
		Message:       d.Message,
		Source:        d.Source,
	}, nil
}

// CompleteSubmit records a successful upstream response. The draft is
// cleared and the workflow is done; the session owning it returns to Idle.
func (d *Draft) CompleteSubmit() error {
	if d.state != StateSubmitting {
		return shared.ErrInvalidState
	}
	d.state = StateSubmitted
	d.clearFields()
	return nil
}

// FailSubmit records a failed upstream response. All entered fields are
// retained so the user can retry without re-entering data.
func (d *Draft) FailSubmit() error {
	if d.state != StateSubmitting {
		return shared.ErrInvalidState
	}
	d.state = StateEditing
	d.submissionError = true
	return nil
}

// Cancel discards the draft. Canceling while a submission is in flight is
// not allowed; the outstanding request must resolve first.
func (d *Draft) Cancel() error {
	if d.state == StateSubmitting {
		return shared.ErrInvalidState
	}
	d.state = StateIdle
	d.clearFields()
	return nil
}

func (d *Draft) ensureEditable() error {
	if d.state != StateEditing {
		return shared.ErrInvalidState
	}
	return nil
}

func (d *Draft) reprice() {
	if d.Product == nil {
		d.totalPrice = decimal.Zero
		return
	}
	d.totalPrice = d.QuantitySqm.Mul(d.Product.UnitPrice())
}

func (d *Draft) clearFields() {
	d.CustomerName = ""
	d.CustomerEmail = ""
	d.CustomerPhone = ""
	d.Message = ""
	d.QuantitySqm = DefaultQuantity
	d.fieldErrors = nil
	d.submissionError = false
	d.reprice()
}
