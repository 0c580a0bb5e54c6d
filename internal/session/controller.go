package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"voltride/internal/identity"
	"voltride/internal/models"
)

// State of the controller with respect to the current identity session.
type State string

const (
	StateIdle        State = "idle"        // no identity
	StateDiscovering State = "discovering" // refresh in flight
	StateTracking    State = "tracking"    // ongoing trip found
	StateNone        State = "none"        // no ongoing trip
)

// TripLister queries the rental service for a user's trips.
type TripLister interface {
	ListTripsFor(ctx context.Context, userID int64, status string) ([]models.Trip, error)
}

// ProvenanceSource exposes the identity store's current (epoch, identity id).
type ProvenanceSource interface {
	CurrentProvenance() identity.Provenance
}

// Controller is the single writer for the tracked active trip. Every refresh
// captures provenance before issuing the query and compares it under the lock
// before applying, so no discovery result lands after the session that
// requested it ended or switched identity. Concurrent refreshes are each
// checked independently; the last result to arrive that still matches wins.
type Controller struct {
	mu       sync.RWMutex
	active   *models.Trip
	inflight int

	source ProvenanceSource
	trips  TripLister
	logger *zap.Logger
}

// NewController builds the controller.
func NewController(source ProvenanceSource, trips TripLister, logger *zap.Logger) *Controller {
	return &Controller{
		source: source,
		trips:  trips,
		logger: logger,
	}
}

// Active returns a copy of the tracked active trip, if any.
func (c *Controller) Active() (models.Trip, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.active == nil {
		return models.Trip{}, false
	}
	return *c.active, true
}

// State reports where the controller stands for the current identity.
func (c *Controller) State() State {
	prov := c.source.CurrentProvenance()

	c.mu.RLock()
	defer c.mu.RUnlock()
	switch {
	case prov.IdentityID == 0:
		return StateIdle
	case c.inflight > 0:
		return StateDiscovering
	case c.active != nil:
		return StateTracking
	default:
		return StateNone
	}
}

// RefreshActiveTrip queries the user's trips and tracks the one with status
// Ongoing, if any. The result is discarded without touching state when the
// provenance captured at call time no longer matches at completion time; a
// superseded refresh is the expected outcome of logout or identity switch,
// not a fault, so no error is returned for it.
func (c *Controller) RefreshActiveTrip(ctx context.Context) error {
	prov := c.source.CurrentProvenance()
	if prov.IdentityID == 0 {
		return nil
	}

	c.beginDiscovery()
	defer c.endDiscovery()

	trips, err := c.trips.ListTripsFor(ctx, prov.IdentityID, models.TripStatusOngoing)
	if err != nil {
		return err
	}

	var ongoing *models.Trip
	for i := range trips {
		if trips[i].IsOngoing() {
			ongoing = &trips[i]
			break
		}
	}

	c.apply(prov, ongoing)
	return nil
}

// apply is the compare-and-apply step: the single correctness guarantee of
// the component.
func (c *Controller) apply(issued identity.Provenance, trip *models.Trip) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.source.CurrentProvenance()
	if current != issued {
		c.logger.Debug("discarding superseded trip refresh",
			zap.Uint64("issued_epoch", issued.Epoch),
			zap.Int64("issued_user_id", issued.IdentityID),
			zap.Uint64("current_epoch", current.Epoch),
		)
		return
	}

	if trip == nil {
		c.active = nil
		return
	}
	stored := *trip
	c.active = &stored
	c.logger.Info("tracking active trip",
		zap.Int64("trip_id", stored.TripID),
		zap.Int64("user_id", stored.UserID),
	)
}

// ClearIfCurrent drops the tracked trip optimistically after an end or a
// cancel, but only while the provenance captured before the remote call still
// matches; a logout in between wins.
func (c *Controller) ClearIfCurrent(issued identity.Provenance) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.source.CurrentProvenance() != issued {
		return
	}
	c.active = nil
}

// Reset drops all tracked state. Called on logout and before discovering for
// a freshly logged-in identity.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = nil
}

func (c *Controller) beginDiscovery() {
	c.mu.Lock()
	c.inflight++
	c.mu.Unlock()
}

func (c *Controller) endDiscovery() {
	c.mu.Lock()
	c.inflight--
	c.mu.Unlock()
}
