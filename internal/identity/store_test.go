package identity

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"runtime"
	"sync"
	"testing"

	"go.uber.org/zap"

	"voltride/internal/api"
	"voltride/internal/models"
	"voltride/internal/storage"
)

type memSnapshots struct {
	mu   sync.Mutex
	data []byte
}

func (m *memSnapshots) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *memSnapshots) Load(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, storage.ErrNoSnapshot
	}
	return append([]byte(nil), m.data...), nil
}

func (m *memSnapshots) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}

// gatedSnapshots blocks one Save between entered and release, to hold a
// snapshot write in flight while other store operations run.
type gatedSnapshots struct {
	memSnapshots
	gateMu  sync.Mutex
	entered chan struct{}
	release chan struct{}
}

func (g *gatedSnapshots) arm() {
	g.gateMu.Lock()
	defer g.gateMu.Unlock()
	g.entered = make(chan struct{})
	g.release = make(chan struct{})
}

func (g *gatedSnapshots) Save(ctx context.Context, data []byte) error {
	g.gateMu.Lock()
	entered, release := g.entered, g.release
	g.entered, g.release = nil, nil
	g.gateMu.Unlock()

	if entered != nil {
		close(entered)
		<-release
	}
	return g.memSnapshots.Save(ctx, data)
}

type profileCheckerFunc func(ctx context.Context, userID int64) (*models.Identity, error)

func (f profileCheckerFunc) GetProfile(ctx context.Context, userID int64) (*models.Identity, error) {
	return f(ctx, userID)
}

func testIdentity(id int64) models.Identity {
	planID := int64(2)
	planName := "Premium Plan"
	return models.Identity{
		ID:            id,
		Name:          "Rider",
		Email:         "rider@example.com",
		WalletBalance: 100,
		Role:          models.RoleUser,
		PlanID:        &planID,
		PlanName:      &planName,
		PlanDiscount:  0.10,
	}
}

func newTestStore() (*Store, *memSnapshots) {
	snaps := &memSnapshots{}
	return NewStore(snaps, NewSealer("test-secret"), zap.NewNop()), snaps
}

func TestLoginDoesNotAdvanceEpoch(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	before := store.CurrentProvenance().Epoch
	store.Login(ctx, testIdentity(1))
	store.Login(ctx, testIdentity(2))

	prov := store.CurrentProvenance()
	if prov.Epoch != before {
		t.Errorf("epoch advanced on login: %d -> %d", before, prov.Epoch)
	}
	if prov.IdentityID != 2 {
		t.Errorf("provenance identity = %d, want 2", prov.IdentityID)
	}
}

func TestLogoutAdvancesEpochAndClears(t *testing.T) {
	store, snaps := newTestStore()
	ctx := context.Background()

	store.Login(ctx, testIdentity(1))
	before := store.CurrentProvenance().Epoch

	store.Logout(ctx)

	if _, ok := store.Current(); ok {
		t.Error("identity still present after logout")
	}
	if got := store.CurrentProvenance().Epoch; got != before+1 {
		t.Errorf("epoch = %d, want %d", got, before+1)
	}
	if _, err := snaps.Load(ctx); !errors.Is(err, storage.ErrNoSnapshot) {
		t.Error("snapshot not cleared on logout")
	}
}

func TestLateSnapshotWriteDoesNotSurviveLogout(t *testing.T) {
	snaps := &gatedSnapshots{}
	store := NewStore(snaps, NewSealer("test-secret"), zap.NewNop())
	ctx := context.Background()

	store.Login(ctx, testIdentity(1))

	// Hold the refreshed profile's snapshot write in flight while logout runs.
	snaps.arm()
	updated := testIdentity(1)
	updated.WalletBalance = 80
	entered, release := snaps.entered, snaps.release

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		store.ApplyUpdate(ctx, updated)
	}()
	<-entered

	before := store.CurrentProvenance().Epoch
	go func() {
		defer wg.Done()
		store.Logout(ctx)
	}()
	// Release the held write only once the session has ended.
	for store.CurrentProvenance().Epoch == before {
		runtime.Gosched()
	}
	close(release)
	wg.Wait()

	if _, err := snaps.Load(ctx); !errors.Is(err, storage.ErrNoSnapshot) {
		t.Fatal("snapshot present after logout despite in-flight write")
	}
	second := NewStore(snaps, NewSealer("test-secret"), zap.NewNop())
	if second.Rehydrate(ctx) {
		current, _ := second.Current()
		t.Errorf("logged-out session rehydrated on restart: identity %d", current.ID)
	}
}

func TestApplyUpdateDroppedWithoutIdentity(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	store.ApplyUpdate(ctx, testIdentity(1))

	if _, ok := store.Current(); ok {
		t.Error("update applied with no identity present")
	}
}

func TestApplyUpdateDroppedOnIDMismatch(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	store.Login(ctx, testIdentity(1))
	stale := testIdentity(2)
	stale.WalletBalance = 1
	store.ApplyUpdate(ctx, stale)

	current, ok := store.Current()
	if !ok || current.ID != 1 || current.WalletBalance != 100 {
		t.Errorf("current = %+v, want untouched identity 1", current)
	}
}

func TestApplyUpdateReplacesMatchingIdentity(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	store.Login(ctx, testIdentity(1))
	updated := testIdentity(1)
	updated.WalletBalance = 80
	store.ApplyUpdate(ctx, updated)

	current, _ := store.Current()
	if current.WalletBalance != 80 {
		t.Errorf("wallet = %v, want 80", current.WalletBalance)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	sealer := NewSealer("test-secret")
	original := testIdentity(7)

	sealed, err := sealer.Seal(original)
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	restored, err := sealer.Unseal(sealed)
	if err != nil {
		t.Fatalf("unseal: %v", err)
	}
	if !reflect.DeepEqual(*restored, original) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *restored, original)
	}
}

func TestUnsealRejectsTamperedSnapshot(t *testing.T) {
	sealer := NewSealer("test-secret")
	sealed, err := sealer.Seal(testIdentity(7))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	sealed[len(sealed)-1] ^= 0x01
	if _, err := sealer.Unseal(sealed); err == nil {
		t.Error("tampered snapshot unsealed without error")
	}

	other := NewSealer("different-secret")
	good, _ := sealer.Seal(testIdentity(7))
	if _, err := other.Unseal(good); err == nil {
		t.Error("snapshot sealed with another secret unsealed without error")
	}
}

func TestRehydrateRestoresPersistedIdentity(t *testing.T) {
	snaps := &memSnapshots{}
	ctx := context.Background()

	first := NewStore(snaps, NewSealer("test-secret"), zap.NewNop())
	first.Login(ctx, testIdentity(3))

	second := NewStore(snaps, NewSealer("test-secret"), zap.NewNop())
	if !second.Rehydrate(ctx) {
		t.Fatal("rehydrate found no snapshot")
	}
	current, ok := second.Current()
	if !ok || current.ID != 3 {
		t.Errorf("rehydrated identity = %+v, want id 3", current)
	}
}

func TestValidateOnStartupEvictsGoneIdentity(t *testing.T) {
	store, snaps := newTestStore()
	ctx := context.Background()
	store.Login(ctx, testIdentity(1))

	checker := profileCheckerFunc(func(context.Context, int64) (*models.Identity, error) {
		return nil, &api.RemoteError{StatusCode: http.StatusNotFound, Message: "User not found"}
	})
	store.ValidateOnStartup(ctx, checker)

	if _, ok := store.Current(); ok {
		t.Error("identity kept although remote reports it gone")
	}
	if _, err := snaps.Load(ctx); !errors.Is(err, storage.ErrNoSnapshot) {
		t.Error("snapshot kept although remote reports identity gone")
	}
}

func TestValidateOnStartupKeepsIdentityOnTransportFailure(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()
	store.Login(ctx, testIdentity(1))

	checker := profileCheckerFunc(func(context.Context, int64) (*models.Identity, error) {
		return nil, errors.New("dial tcp: connection refused")
	})
	store.ValidateOnStartup(ctx, checker)

	if _, ok := store.Current(); !ok {
		t.Error("optimistic identity evicted on transport failure")
	}
}

func TestValidateOnStartupAppliesFreshProfile(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()
	store.Login(ctx, testIdentity(1))

	checker := profileCheckerFunc(func(context.Context, int64) (*models.Identity, error) {
		fresh := testIdentity(1)
		fresh.WalletBalance = 42
		return &fresh, nil
	})
	store.ValidateOnStartup(ctx, checker)

	current, _ := store.Current()
	if current.WalletBalance != 42 {
		t.Errorf("wallet = %v, want refreshed 42", current.WalletBalance)
	}
}
