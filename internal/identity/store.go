package identity

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"voltride/internal/api"
	"voltride/internal/models"
	"voltride/internal/storage"
)

// Provenance identifies the session a fetch was issued under. Asynchronous
// results are applied only while the current provenance still equals the one
// captured at issue time.
type Provenance struct {
	Epoch      uint64
	IdentityID int64
}

// ProfileChecker is the remote lookup used by startup validation.
type ProfileChecker interface {
	GetProfile(ctx context.Context, userID int64) (*models.Identity, error)
}

// Store is the single writer for the authenticated identity and the session
// epoch. The epoch advances exactly once per logout; every in-flight fetch
// compares its captured provenance against the store before applying.
//
// Snapshot writes are serialized through persistMu and re-check the epoch
// before touching the backend, so a save still in flight when logout clears
// the snapshot cannot re-write it afterwards.
type Store struct {
	mu        sync.RWMutex
	persistMu sync.Mutex
	identity  *models.Identity
	epoch     uint64
	snapshots storage.SnapshotStore
	sealer    *Sealer
	logger    *zap.Logger
}

// NewStore builds the store around a snapshot backend.
func NewStore(snapshots storage.SnapshotStore, sealer *Sealer, logger *zap.Logger) *Store {
	return &Store{
		snapshots: snapshots,
		sealer:    sealer,
		logger:    logger,
	}
}

// Current returns a copy of the identity, if one is present.
func (s *Store) Current() (models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return models.Identity{}, false
	}
	return *s.identity, true
}

// CurrentProvenance captures the epoch and identity id to stamp a fetch with.
// IdentityID is zero when nobody is logged in.
func (s *Store) CurrentProvenance() Provenance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := Provenance{Epoch: s.epoch}
	if s.identity != nil {
		p.IdentityID = s.identity.ID
	}
	return p
}

// Login replaces the identity unconditionally and persists the snapshot. The
// epoch does not advance; only logout does that.
func (s *Store) Login(ctx context.Context, identity models.Identity) {
	s.mu.Lock()
	stored := identity
	s.identity = &stored
	epoch := s.epoch
	s.mu.Unlock()

	s.persist(ctx, identity, epoch)
	s.logger.Info("identity logged in", zap.Int64("user_id", identity.ID))
}

// Logout advances the epoch and drops the identity before anything else can
// run, so any response still in flight fails its provenance check. The
// snapshot is cleared afterwards.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.epoch++
	s.identity = nil
	epoch := s.epoch
	s.mu.Unlock()

	s.clearSnapshot(ctx)
	s.logger.Info("identity logged out", zap.Uint64("epoch", epoch))
}

// ApplyUpdate replaces the identity with a refreshed profile. The update is
// silently dropped when nobody is logged in or the ids differ: both mean the
// session that requested it has already ended.
func (s *Store) ApplyUpdate(ctx context.Context, updated models.Identity) {
	s.mu.Lock()
	if s.identity == nil || s.identity.ID != updated.ID {
		s.mu.Unlock()
		s.logger.Debug("identity update dropped", zap.Int64("user_id", updated.ID))
		return
	}
	stored := updated
	s.identity = &stored
	epoch := s.epoch
	s.mu.Unlock()

	s.persist(ctx, updated, epoch)
}

// Rehydrate loads the persisted snapshot at process start. An unreadable or
// tampered snapshot is discarded. Returns whether an identity was restored.
func (s *Store) Rehydrate(ctx context.Context) bool {
	data, err := s.snapshots.Load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNoSnapshot) {
			s.logger.Warn("failed to load identity snapshot", zap.Error(err))
		}
		return false
	}

	identity, err := s.sealer.Unseal(data)
	if err != nil {
		s.logger.Warn("discarding unreadable identity snapshot", zap.Error(err))
		s.clearSnapshot(ctx)
		return false
	}

	s.mu.Lock()
	s.identity = identity
	s.mu.Unlock()

	s.logger.Info("identity restored from snapshot", zap.Int64("user_id", identity.ID))
	return true
}

// ValidateOnStartup checks the rehydrated identity against the remote
// profile. A definitive "gone" evicts the session; a transport failure keeps
// the optimistic state for the next successful check; a fresh profile
// replaces the cached one.
func (s *Store) ValidateOnStartup(ctx context.Context, checker ProfileChecker) {
	current, ok := s.Current()
	if !ok {
		return
	}

	profile, err := checker.GetProfile(ctx, current.ID)
	if err != nil {
		if api.IsNotFound(err) {
			s.logger.Info("remote reports identity gone, clearing session", zap.Int64("user_id", current.ID))
			s.evict(ctx)
			return
		}
		s.logger.Warn("startup identity check unavailable, keeping snapshot", zap.Error(err))
		return
	}

	s.ApplyUpdate(ctx, *profile)
}

// evict drops the identity and snapshot without advancing the epoch: the
// epoch counts logouts, and nothing is in flight yet at startup.
func (s *Store) evict(ctx context.Context) {
	s.mu.Lock()
	s.identity = nil
	s.mu.Unlock()

	s.clearSnapshot(ctx)
}

// persist writes the sealed snapshot. Holding persistMu across the epoch
// re-check and the Save keeps writes ordered against clearSnapshot: a save
// that raced past a logout either observes the new epoch and skips, or
// finishes before the clear runs.
func (s *Store) persist(ctx context.Context, identity models.Identity, epoch uint64) {
	data, err := s.sealer.Seal(identity)
	if err != nil {
		s.logger.Warn("failed to seal identity snapshot", zap.Error(err))
		return
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.RLock()
	current := s.epoch
	s.mu.RUnlock()
	if current != epoch {
		s.logger.Debug("skipping snapshot write for ended session", zap.Int64("user_id", identity.ID))
		return
	}

	if err := s.snapshots.Save(ctx, data); err != nil {
		s.logger.Warn("failed to save identity snapshot", zap.Error(err))
	}
}

func (s *Store) clearSnapshot(ctx context.Context) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if err := s.snapshots.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear identity snapshot", zap.Error(err))
	}
}
