package service_test

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/tripbook/internal/domain"
	"github.com/pkordes/tripbook/internal/repo"
	"github.com/pkordes/tripbook/internal/service"
	"github.com/pkordes/tripbook/internal/storage"
)

// ---- mock repos ------------------------------------------------------------

// mockTripRepo is a hand-written test double for repo.TripRepo.
type mockTripRepo struct {
	create        func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID       func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	update        func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete        func(ctx context.Context, id uuid.UUID) error
	mostRecentFor func(ctx context.Context, userID uuid.UUID) (domain.Trip, error)
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockTripRepo) MostRecentFor(ctx context.Context, userID uuid.UUID) (domain.Trip, error) {
	return m.mostRecentFor(ctx, userID)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

// mockShareRepo is a hand-written test double for repo.ShareRepo.
// getRole defaults to "no grant" so owner-path tests need no setup.
type mockShareRepo struct {
	upsert     func(ctx context.Context, tripID, userID uuid.UUID, role domain.Role) (domain.TripShare, error)
	delete     func(ctx context.Context, tripID, userID uuid.UUID) error
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.TripShare, error)
	getRole    func(ctx context.Context, tripID, userID uuid.UUID) (domain.Role, error)
}

func (m *mockShareRepo) Upsert(ctx context.Context, tripID, userID uuid.UUID, role domain.Role) (domain.TripShare, error) {
	return m.upsert(ctx, tripID, userID, role)
}
func (m *mockShareRepo) Delete(ctx context.Context, tripID, userID uuid.UUID) error {
	return m.delete(ctx, tripID, userID)
}
func (m *mockShareRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripShare, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockShareRepo) GetRole(ctx context.Context, tripID, userID uuid.UUID) (domain.Role, error) {
	if m.getRole != nil {
		return m.getRole(ctx, tripID, userID)
	}
	return domain.RoleNone, domain.ErrNotFound
}

var _ repo.ShareRepo = (*mockShareRepo)(nil)

// mockDayRepo is a hand-written test double for repo.DayRepo.
type mockDayRepo struct {
	upsert    func(ctx context.Context, tripID uuid.UUID, date time.Time, fields repo.DayFields) (domain.Day, error)
	ensure    func(ctx context.Context, tripID uuid.UUID, date time.Time) (domain.Day, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Day, error)
	listRange func(ctx context.Context, tripID uuid.UUID, from, to time.Time) ([]domain.Day, error)
}

func (m *mockDayRepo) Upsert(ctx context.Context, tripID uuid.UUID, date time.Time, fields repo.DayFields) (domain.Day, error) {
	return m.upsert(ctx, tripID, date, fields)
}
func (m *mockDayRepo) Ensure(ctx context.Context, tripID uuid.UUID, date time.Time) (domain.Day, error) {
	return m.ensure(ctx, tripID, date)
}
func (m *mockDayRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Day, error) {
	return m.getByID(ctx, id)
}
func (m *mockDayRepo) ListRange(ctx context.Context, tripID uuid.UUID, from, to time.Time) ([]domain.Day, error) {
	return m.listRange(ctx, tripID, from, to)
}
func (m *mockDayRepo) WithTx(pgx.Tx) repo.DayRepo { return m }

var _ repo.DayRepo = (*mockDayRepo)(nil)

// mockItemRepo is a hand-written test double for repo.ItemRepo.
type mockItemRepo struct {
	create    func(ctx context.Context, item domain.Item) (domain.Item, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Item, error)
	update    func(ctx context.Context, item domain.Item) (domain.Item, error)
	delete    func(ctx context.Context, id uuid.UUID) (domain.Item, error)
	listByDay func(ctx context.Context, dayID uuid.UUID) ([]domain.Item, error)
}

func (m *mockItemRepo) Create(ctx context.Context, item domain.Item) (domain.Item, error) {
	return m.create(ctx, item)
}
func (m *mockItemRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Item, error) {
	return m.getByID(ctx, id)
}
func (m *mockItemRepo) Update(ctx context.Context, item domain.Item) (domain.Item, error) {
	return m.update(ctx, item)
}
func (m *mockItemRepo) Delete(ctx context.Context, id uuid.UUID) (domain.Item, error) {
	return m.delete(ctx, id)
}
func (m *mockItemRepo) ListByDay(ctx context.Context, dayID uuid.UUID) ([]domain.Item, error) {
	return m.listByDay(ctx, dayID)
}
func (m *mockItemRepo) WithTx(pgx.Tx) repo.ItemRepo { return m }

var _ repo.ItemRepo = (*mockItemRepo)(nil)

// mockAttachmentRepo is a hand-written test double for repo.AttachmentRepo.
// listByDay defaults to "no attachments".
type mockAttachmentRepo struct {
	create    func(ctx context.Context, a domain.Attachment) (domain.Attachment, error)
	listByDay func(ctx context.Context, dayID uuid.UUID) ([]domain.Attachment, error)
}

func (m *mockAttachmentRepo) Create(ctx context.Context, a domain.Attachment) (domain.Attachment, error) {
	return m.create(ctx, a)
}
func (m *mockAttachmentRepo) ListByDay(ctx context.Context, dayID uuid.UUID) ([]domain.Attachment, error) {
	if m.listByDay != nil {
		return m.listByDay(ctx, dayID)
	}
	return nil, nil
}
func (m *mockAttachmentRepo) WithTx(pgx.Tx) repo.AttachmentRepo { return m }

var _ repo.AttachmentRepo = (*mockAttachmentRepo)(nil)

// mockTxRunner runs the function immediately with no real transaction;
// the mock repos above ignore the tx handle anyway.
type mockTxRunner struct{}

func (mockTxRunner) InTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

var _ repo.TxRunner = mockTxRunner{}

// mockUserRepo is a hand-written test double for repo.UserRepo.
type mockUserRepo struct {
	getByEmail func(ctx context.Context, email string) (domain.User, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.User, error)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

// mockBlobStore is a hand-written test double for storage.BlobStore.
type mockBlobStore struct {
	put func(ctx context.Context, key, contentType string, r io.Reader) (int64, error)
}

func (m *mockBlobStore) Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	return m.put(ctx, key, contentType, r)
}

var _ storage.BlobStore = (*mockBlobStore)(nil)

// ---- helpers ---------------------------------------------------------------

// validTrip builds a trip owned by ownerID running 2025-06-01..2025-06-05.
func validTrip(ownerID uuid.UUID) domain.Trip {
	return domain.Trip{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      "Tuscany by Rail",
		StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
	}
}

// tripStore returns a trip repo that serves exactly the given trips.
func tripStore(trips ...domain.Trip) *mockTripRepo {
	return &mockTripRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			for _, t := range trips {
				if t.ID == id {
					return t, nil
				}
			}
			return domain.Trip{}, domain.ErrNotFound
		},
	}
}

// newAccess wires an AccessService to the given mocks.
func newAccess(trips repo.TripRepo, shares repo.ShareRepo) *service.AccessService {
	if shares == nil {
		shares = &mockShareRepo{}
	}
	return service.NewAccessService(trips, shares)
}

// str returns a pointer to s, for optional request fields.
func str(s string) *string { return &s }
