package trips

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"voltride/internal/identity"
	"voltride/internal/models"
	"voltride/internal/pricing"
	"voltride/internal/session"
)

// RentalAPI is the remote surface the lifecycle operations call. Satisfied by
// *api.Client; faked in tests.
type RentalAPI interface {
	Login(ctx context.Context, email, password string) (*models.Identity, error)
	Register(ctx context.Context, name, email, password string) error
	GetProfile(ctx context.Context, userID int64) (*models.Identity, error)
	UpdateProfile(ctx context.Context, userID int64, name, password string) error
	AddWalletFunds(ctx context.Context, userID int64, amount float64) error
	BookTrip(ctx context.Context, userID, vehicleID, startStationID int64, durationHours int) (*models.Trip, error)
	EndTrip(ctx context.Context, tripID, endStationID int64) (*models.Trip, error)
	CancelTrip(ctx context.Context, tripID int64) error
	AddReview(ctx context.Context, tripID int64, rating int, comment string) error
	PurchaseMembership(ctx context.Context, userID, planID int64) error
	ReportVehicleIssue(ctx context.Context, vehicleID int64, issue string, userID int64, userRole string) error
}

// Service runs the trip lifecycle operations. Every operation is: local
// precondition check, one remote call, then identity and session refreshes on
// success. On failure the remote message is returned verbatim and no state
// changes.
type Service struct {
	api        RentalAPI
	store      *identity.Store
	controller *session.Controller
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewService builds the service.
func NewService(rental RentalAPI, store *identity.Store, controller *session.Controller, logger *zap.Logger) *Service {
	return &Service{
		api:        rental,
		store:      store,
		controller: controller,
		validate:   validator.New(),
		logger:     logger,
	}
}

// Login authenticates, installs the identity, and discovers any ongoing trip.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Identity, error) {
	if email == "" || password == "" {
		return nil, validationErr("email and password are required")
	}

	profile, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.store.Login(ctx, *profile)
	s.controller.Reset()
	if err := s.controller.RefreshActiveTrip(ctx); err != nil {
		s.logger.Warn("active trip discovery after login failed", zap.Error(err))
	}
	return profile, nil
}

// Logout ends the session. The epoch advance inside the store is the first
// effect, before any pending response can resolve.
func (s *Service) Logout(ctx context.Context) {
	s.store.Logout(ctx)
	s.controller.Reset()
}

// Register creates an account; the user still logs in afterwards.
func (s *Service) Register(ctx context.Context, name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return validationErr("name, email and password are required")
	}
	return s.api.Register(ctx, name, email, password)
}

// BookingInput is what the booking screen selected.
type BookingInput struct {
	VehicleID      int64   `validate:"required"`
	StartStationID int64   `validate:"required"`
	DurationHours  int
	RatePerHour    float64 `validate:"gte=0"`
}

// Book reserves a vehicle after checking the wallet can cover the discounted
// cost. Both checks fail locally before any network round-trip; the service
// remains the final arbiter and may still reject on its own snapshot of the
// balance.
func (s *Service) Book(ctx context.Context, input BookingInput) error {
	ident, ok := s.store.Current()
	if !ok {
		return ErrNotLoggedIn
	}
	if err := s.validate.Struct(input); err != nil {
		return validationErr("a station and vehicle must be selected")
	}

	hours := pricing.ClampDuration(input.DurationHours)
	cost := pricing.Cost(input.RatePerHour, hours, ident.PlanDiscount)
	if !pricing.CanAfford(ident.WalletBalance, cost) {
		return validationErr(fmt.Sprintf(
			"insufficient wallet balance: need %.2f, have %.2f",
			pricing.Round2(cost), pricing.Round2(ident.WalletBalance),
		))
	}

	if _, err := s.api.BookTrip(ctx, ident.ID, input.VehicleID, input.StartStationID, hours); err != nil {
		return err
	}

	s.logger.Info("ride booked",
		zap.Int64("vehicle_id", input.VehicleID),
		zap.Int64("station_id", input.StartStationID),
		zap.Int("duration_hours", hours),
	)
	s.reconcile(ctx)
	return nil
}

// End completes the active trip at the given station. The tracked trip is
// cleared optimistically and a refresh reconciles with the server record,
// which owns the final cost.
func (s *Service) End(ctx context.Context, endStationID int64) error {
	active, ok := s.controller.Active()
	if !ok {
		return ErrNoActiveTrip
	}
	if endStationID == 0 {
		return validationErr("an end station must be selected")
	}

	prov := s.store.CurrentProvenance()
	if _, err := s.api.EndTrip(ctx, active.TripID, endStationID); err != nil {
		return err
	}

	s.controller.ClearIfCurrent(prov)
	s.logger.Info("ride ended", zap.Int64("trip_id", active.TripID), zap.Int64("end_station_id", endStationID))
	s.reconcile(ctx)
	return nil
}

// Cancel aborts the active trip with a full refund.
func (s *Service) Cancel(ctx context.Context) error {
	active, ok := s.controller.Active()
	if !ok {
		return ErrNoActiveTrip
	}

	prov := s.store.CurrentProvenance()
	if err := s.api.CancelTrip(ctx, active.TripID); err != nil {
		return err
	}

	s.controller.ClearIfCurrent(prov)
	s.logger.Info("ride cancelled", zap.Int64("trip_id", active.TripID))
	s.reconcile(ctx)
	return nil
}

// ReviewInput is a rating for a completed trip.
type ReviewInput struct {
	Rating  int    `validate:"required,min=1,max=5"`
	Comment string
}

// Review attaches a rating to a completed trip. Resubmission is allowed here;
// the service owns uniqueness.
func (s *Service) Review(ctx context.Context, trip models.Trip, input ReviewInput) error {
	if trip.Status != models.TripStatusCompleted {
		return validationErr("only completed trips can be reviewed")
	}
	if err := s.validate.Struct(input); err != nil {
		return validationErr("rating must be between 1 and 5")
	}
	return s.api.AddReview(ctx, trip.TripID, input.Rating, input.Comment)
}

// TopUpWallet adds funds and refreshes the identity to pick up the balance.
func (s *Service) TopUpWallet(ctx context.Context, amount float64) error {
	ident, ok := s.store.Current()
	if !ok {
		return ErrNotLoggedIn
	}
	if amount <= 0 {
		return validationErr("amount must be positive")
	}
	if err := s.api.AddWalletFunds(ctx, ident.ID, amount); err != nil {
		return err
	}
	s.refreshIdentity(ctx)
	return nil
}

// PurchaseMembership buys a plan, with the same local affordability check as
// booking.
func (s *Service) PurchaseMembership(ctx context.Context, plan models.MembershipPlan) error {
	ident, ok := s.store.Current()
	if !ok {
		return ErrNotLoggedIn
	}
	if !pricing.CanAfford(ident.WalletBalance, plan.Cost) {
		return validationErr(fmt.Sprintf(
			"insufficient wallet balance: need %.2f, have %.2f",
			pricing.Round2(plan.Cost), pricing.Round2(ident.WalletBalance),
		))
	}
	if err := s.api.PurchaseMembership(ctx, ident.ID, plan.PlanID); err != nil {
		return err
	}
	s.refreshIdentity(ctx)
	return nil
}

// UpdateProfile changes name and/or password, then refreshes the identity.
func (s *Service) UpdateProfile(ctx context.Context, name, password string) error {
	ident, ok := s.store.Current()
	if !ok {
		return ErrNotLoggedIn
	}
	if name == "" && password == "" {
		return validationErr("nothing to update")
	}
	if err := s.api.UpdateProfile(ctx, ident.ID, name, password); err != nil {
		return err
	}
	s.refreshIdentity(ctx)
	return nil
}

// ReportIssue files a vehicle issue under the current identity.
func (s *Service) ReportIssue(ctx context.Context, vehicleID int64, issue string) error {
	ident, ok := s.store.Current()
	if !ok {
		return ErrNotLoggedIn
	}
	if issue == "" {
		return validationErr("an issue description is required")
	}
	return s.api.ReportVehicleIssue(ctx, vehicleID, issue, ident.ID, ident.Role)
}

// reconcile refreshes both state cells after a money-moving operation. Each
// refresh carries its own provenance, so a logout in between simply turns
// these into silent discards.
func (s *Service) reconcile(ctx context.Context) {
	s.refreshIdentity(ctx)
	if err := s.controller.RefreshActiveTrip(ctx); err != nil {
		s.logger.Warn("active trip refresh failed", zap.Error(err))
	}
}

func (s *Service) refreshIdentity(ctx context.Context) {
	ident, ok := s.store.Current()
	if !ok {
		return
	}
	profile, err := s.api.GetProfile(ctx, ident.ID)
	if err != nil {
		s.logger.Warn("identity refresh failed", zap.Error(err))
		return
	}
	s.store.ApplyUpdate(ctx, *profile)
}
