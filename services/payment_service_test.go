package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ventura-backend/models"
	"ventura-backend/utils"

	"gorm.io/gorm"
)

type fakeProvider struct {
	createErr     error
	orderID       string
	approveURL    string
	captureErr    error
	captureStatus string
	captureID     string

	createCalls  int
	captureCalls int
}

func (f *fakeProvider) CreateOrder(amount, currency, referenceID string) (*ProviderOrder, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &ProviderOrder{OrderID: f.orderID, ApproveURL: f.approveURL}, nil
}

func (f *fakeProvider) CaptureOrder(orderID string) (*ProviderCapture, error) {
	f.captureCalls++
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	raw, _ := json.Marshal(map[string]string{"status": f.captureStatus})
	return &ProviderCapture{CaptureID: f.captureID, Status: f.captureStatus, Raw: raw}, nil
}

type paymentFixture struct {
	db       *gorm.DB
	svc      *PaymentService
	provider *fakeProvider
	res      *models.Reservation
	owner    *models.User
}

func newPaymentFixture(t *testing.T, provider *fakeProvider) *paymentFixture {
	t.Helper()
	db := newTestDB(t)
	room := createRoom(t, db, "101", 55)
	owner := createUser(t, db, "guest@example.com", models.RoleCustomer)

	reservations := NewReservationService(db)
	start := day(2030, time.June, 10)
	res, err := reservations.Create(owner.ID, room.ID, start, start.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("Create reservation: %v", err)
	}

	files := utils.NewFileStore(t.TempDir())
	documents := NewDocumentService(db, files, "Hotel Ventura")
	return &paymentFixture{
		db:       db,
		svc:      NewPaymentService(db, provider, documents, "USD"),
		provider: provider,
		res:      res,
		owner:    owner,
	}
}

func (f *paymentFixture) reload(t *testing.T) *models.Reservation {
	t.Helper()
	var res models.Reservation
	if err := f.db.First(&res, f.res.ID).Error; err != nil {
		t.Fatalf("reload reservation: %v", err)
	}
	return &res
}

func TestBeginPayment(t *testing.T) {
	provider := &fakeProvider{orderID: "ORD-1", approveURL: "https://paypal.test/approve"}
	f := newPaymentFixture(t, provider)

	res, approveURL, err := f.svc.BeginPayment(f.res.ID, f.owner.ID, models.RoleCustomer)
	if err != nil {
		t.Fatalf("BeginPayment: %v", err)
	}
	if approveURL != "https://paypal.test/approve" {
		t.Errorf("approve url = %q", approveURL)
	}
	if res.PaymentOrderID == nil || *res.PaymentOrderID != "ORD-1" {
		t.Errorf("payment_order_id = %v, want ORD-1", res.PaymentOrderID)
	}
	if stored := f.reload(t); stored.Status != models.ReservationPending {
		t.Errorf("status = %q, want pending", stored.Status)
	}
}

func TestBeginPaymentProviderFailureCancels(t *testing.T) {
	provider := &fakeProvider{createErr: fmt.Errorf("%w: connection refused", ErrPaymentProvider)}
	f := newPaymentFixture(t, provider)

	_, _, err := f.svc.BeginPayment(f.res.ID, f.owner.ID, models.RoleCustomer)
	if !errors.Is(err, ErrPaymentProvider) {
		t.Fatalf("err = %v, want ErrPaymentProvider", err)
	}
	if stored := f.reload(t); stored.Status != models.ReservationCancelled {
		t.Errorf("status = %q, want cancelled", stored.Status)
	}

	// The cancelled reservation is dead: capture reports the state
	// problem, not a provider problem.
	_, err = f.svc.CompletePayment(f.res.ID, f.owner.ID, models.RoleCustomer)
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("capture after cancel: err = %v, want ErrInvalidState", err)
	}
	if f.provider.captureCalls != 0 {
		t.Errorf("capture calls = %d, want 0", f.provider.captureCalls)
	}
}

func TestBeginPaymentGates(t *testing.T) {
	provider := &fakeProvider{orderID: "ORD-1"}
	f := newPaymentFixture(t, provider)

	stranger := createUser(t, f.db, "other@example.com", models.RoleCustomer)
	if _, _, err := f.svc.BeginPayment(f.res.ID, stranger.ID, models.RoleCustomer); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger: err = %v, want ErrForbidden", err)
	}

	if _, _, err := f.svc.BeginPayment(f.res.ID, f.owner.ID, models.RoleCustomer); err != nil {
		t.Fatalf("BeginPayment: %v", err)
	}
	// Second begin on the same reservation is rejected.
	if _, _, err := f.svc.BeginPayment(f.res.ID, f.owner.ID, models.RoleCustomer); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second begin: err = %v, want ErrInvalidState", err)
	}

	if _, _, err := f.svc.BeginPayment(9999, f.owner.ID, models.RoleCustomer); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing: err = %v, want ErrNotFound", err)
	}
}

func TestCompletePayment(t *testing.T) {
	provider := &fakeProvider{orderID: "ORD-1", captureStatus: "COMPLETED", captureID: "CAP-1"}
	f := newPaymentFixture(t, provider)

	if _, _, err := f.svc.BeginPayment(f.res.ID, f.owner.ID, models.RoleCustomer); err != nil {
		t.Fatalf("BeginPayment: %v", err)
	}

	res, err := f.svc.CompletePayment(f.res.ID, f.owner.ID, models.RoleCustomer)
	if err != nil {
		t.Fatalf("CompletePayment: %v", err)
	}
	if res.Status != models.ReservationPaid {
		t.Errorf("status = %q, want paid", res.Status)
	}
	if res.PaymentCaptureID == nil || *res.PaymentCaptureID != "CAP-1" {
		t.Errorf("payment_capture_id = %v, want CAP-1", res.PaymentCaptureID)
	}

	stored := f.reload(t)
	if stored.Status != models.ReservationPaid {
		t.Errorf("stored status = %q, want paid", stored.Status)
	}
	if len(stored.PaymentMeta) == 0 {
		t.Error("payment_meta not recorded")
	}
	// Receipt is generated and its path persisted.
	if stored.ReportPath == nil {
		t.Fatal("report_path not set after successful capture")
	}
	abs := f.svc.Documents.Files.Abs(*stored.ReportPath)
	if _, err := os.Stat(abs); err != nil {
		t.Errorf("receipt file missing: %v", err)
	}
}

func TestCompletePaymentIdempotencyGate(t *testing.T) {
	provider := &fakeProvider{orderID: "ORD-1", captureStatus: "COMPLETED", captureID: "CAP-1"}
	f := newPaymentFixture(t, provider)

	if _, _, err := f.svc.BeginPayment(f.res.ID, f.owner.ID, models.RoleCustomer); err != nil {
		t.Fatalf("BeginPayment: %v", err)
	}
	if _, err := f.svc.CompletePayment(f.res.ID, f.owner.ID, models.RoleCustomer); err != nil {
		t.Fatalf("first capture: %v", err)
	}

	// Second capture fails fast on the pending gate: no provider call,
	// stored capture id unchanged.
	_, err := f.svc.CompletePayment(f.res.ID, f.owner.ID, models.RoleCustomer)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second capture: err = %v, want ErrInvalidState", err)
	}
	if f.provider.captureCalls != 1 {
		t.Errorf("capture calls = %d, want 1", f.provider.captureCalls)
	}
	if stored := f.reload(t); stored.PaymentCaptureID == nil || *stored.PaymentCaptureID != "CAP-1" {
		t.Errorf("payment_capture_id changed: %v", stored.PaymentCaptureID)
	}
}

func TestCompletePaymentProviderFailureLeavesPending(t *testing.T) {
	provider := &fakeProvider{orderID: "ORD-1", captureStatus: "COMPLETED", captureID: "CAP-1"}
	f := newPaymentFixture(t, provider)

	if _, _, err := f.svc.BeginPayment(f.res.ID, f.owner.ID, models.RoleCustomer); err != nil {
		t.Fatalf("BeginPayment: %v", err)
	}

	provider.captureErr = fmt.Errorf("%w: timeout", ErrPaymentProvider)
	if _, err := f.svc.CompletePayment(f.res.ID, f.owner.ID, models.RoleCustomer); !errors.Is(err, ErrPaymentProvider) {
		t.Fatalf("err = %v, want ErrPaymentProvider", err)
	}
	stored := f.reload(t)
	if stored.Status != models.ReservationPending {
		t.Errorf("status = %q, want pending (retriable)", stored.Status)
	}
	if stored.PaymentOrderID == nil {
		t.Error("payment_order_id lost")
	}

	// The caller may retry and succeed.
	provider.captureErr = nil
	if _, err := f.svc.CompletePayment(f.res.ID, f.owner.ID, models.RoleCustomer); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if stored := f.reload(t); stored.Status != models.ReservationPaid {
		t.Errorf("status after retry = %q, want paid", stored.Status)
	}
}

func TestCompletePaymentNotCompletedStatus(t *testing.T) {
	provider := &fakeProvider{orderID: "ORD-1", captureStatus: "PENDING", captureID: "CAP-1"}
	f := newPaymentFixture(t, provider)

	if _, _, err := f.svc.BeginPayment(f.res.ID, f.owner.ID, models.RoleCustomer); err != nil {
		t.Fatalf("BeginPayment: %v", err)
	}
	if _, err := f.svc.CompletePayment(f.res.ID, f.owner.ID, models.RoleCustomer); !errors.Is(err, ErrPaymentNotCompleted) {
		t.Fatalf("err = %v, want ErrPaymentNotCompleted", err)
	}
	if stored := f.reload(t); stored.Status != models.ReservationPending {
		t.Errorf("status = %q, want pending", stored.Status)
	}
}

func TestCompletePaymentAuthorization(t *testing.T) {
	provider := &fakeProvider{orderID: "ORD-1", captureStatus: "COMPLETED", captureID: "CAP-1"}
	f := newPaymentFixture(t, provider)

	if _, _, err := f.svc.BeginPayment(f.res.ID, f.owner.ID, models.RoleCustomer); err != nil {
		t.Fatalf("BeginPayment: %v", err)
	}

	stranger := createUser(t, f.db, "other@example.com", models.RoleCustomer)
	if _, err := f.svc.CompletePayment(f.res.ID, stranger.ID, models.RoleCustomer); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger: err = %v, want ErrForbidden", err)
	}

	// An admin may capture on behalf of the owner.
	admin := createUser(t, f.db, "admin@example.com", models.RoleAdmin)
	if _, err := f.svc.CompletePayment(f.res.ID, admin.ID, models.RoleAdmin); err != nil {
		t.Errorf("admin: err = %v, want nil", err)
	}
}

func TestCompletePaymentReceiptFailureDoesNotRollBack(t *testing.T) {
	provider := &fakeProvider{orderID: "ORD-1", captureStatus: "COMPLETED", captureID: "CAP-1"}
	f := newPaymentFixture(t, provider)

	// Point the file store at a root whose parent is a regular file so
	// every write fails.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	f.svc.Documents.Files = utils.NewFileStore(filepath.Join(blocker, "storage"))

	if _, _, err := f.svc.BeginPayment(f.res.ID, f.owner.ID, models.RoleCustomer); err != nil {
		t.Fatalf("BeginPayment: %v", err)
	}
	if _, err := f.svc.CompletePayment(f.res.ID, f.owner.ID, models.RoleCustomer); err != nil {
		t.Fatalf("CompletePayment: %v", err)
	}
	stored := f.reload(t)
	if stored.Status != models.ReservationPaid {
		t.Errorf("status = %q, want paid despite receipt failure", stored.Status)
	}
	if stored.ReportPath != nil {
		t.Errorf("report_path = %v, want nil", *stored.ReportPath)
	}
}
