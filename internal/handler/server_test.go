package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripbook/internal/domain"
	"github.com/pkordes/tripbook/internal/handler"
	"github.com/pkordes/tripbook/internal/middleware"
	"github.com/pkordes/tripbook/internal/repo"
)

const testSecret = "handler-test-secret"

// ---- mock servicers --------------------------------------------------------
// Set only the method fields your test needs.

type mockTripServicer struct {
	save   func(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	get    func(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)
	delete func(ctx context.Context, userID, tripID uuid.UUID) error
}

func (m *mockTripServicer) Save(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	return m.save(ctx, userID, trip)
}
func (m *mockTripServicer) Get(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	return m.get(ctx, userID, tripID)
}
func (m *mockTripServicer) Delete(ctx context.Context, userID, tripID uuid.UUID) error {
	return m.delete(ctx, userID, tripID)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

type mockActiveTripResolver struct {
	resolve func(ctx context.Context, userID uuid.UUID, pointer *uuid.UUID) (domain.Trip, domain.Role, error)
	set     func(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)
}

func (m *mockActiveTripResolver) Resolve(ctx context.Context, userID uuid.UUID, pointer *uuid.UUID) (domain.Trip, domain.Role, error) {
	return m.resolve(ctx, userID, pointer)
}
func (m *mockActiveTripResolver) Set(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	return m.set(ctx, userID, tripID)
}

var _ handler.ActiveTripResolver = (*mockActiveTripResolver)(nil)

type mockShareServicer struct {
	share   func(ctx context.Context, callerID, tripID uuid.UUID, email string, role domain.Role) (domain.TripShare, error)
	unshare func(ctx context.Context, callerID, tripID, userID uuid.UUID) error
	list    func(ctx context.Context, callerID, tripID uuid.UUID) (domain.Trip, []domain.TripShare, error)
}

func (m *mockShareServicer) Share(ctx context.Context, callerID, tripID uuid.UUID, email string, role domain.Role) (domain.TripShare, error) {
	return m.share(ctx, callerID, tripID, email, role)
}
func (m *mockShareServicer) Unshare(ctx context.Context, callerID, tripID, userID uuid.UUID) error {
	return m.unshare(ctx, callerID, tripID, userID)
}
func (m *mockShareServicer) List(ctx context.Context, callerID, tripID uuid.UUID) (domain.Trip, []domain.TripShare, error) {
	return m.list(ctx, callerID, tripID)
}

var _ handler.ShareServicer = (*mockShareServicer)(nil)

type mockDayServicer struct {
	upsert    func(ctx context.Context, userID, tripID uuid.UUID, date string, fields repo.DayFields) (domain.Day, error)
	listRange func(ctx context.Context, userID, tripID uuid.UUID, from, to string) (domain.Trip, []domain.Day, error)
}

func (m *mockDayServicer) Upsert(ctx context.Context, userID, tripID uuid.UUID, date string, fields repo.DayFields) (domain.Day, error) {
	return m.upsert(ctx, userID, tripID, date, fields)
}
func (m *mockDayServicer) ListRange(ctx context.Context, userID, tripID uuid.UUID, from, to string) (domain.Trip, []domain.Day, error) {
	return m.listRange(ctx, userID, tripID, from, to)
}

var _ handler.DayServicer = (*mockDayServicer)(nil)

type mockItemServicer struct {
	create func(ctx context.Context, userID, tripID uuid.UUID, date, block, itemType, title, description string) (domain.Item, error)
	update func(ctx context.Context, userID, itemID uuid.UUID, patch domain.ItemPatch) (domain.Item, error)
	delete func(ctx context.Context, userID, itemID uuid.UUID) (domain.Item, error)
}

func (m *mockItemServicer) Create(ctx context.Context, userID, tripID uuid.UUID, date, block, itemType, title, description string) (domain.Item, error) {
	return m.create(ctx, userID, tripID, date, block, itemType, title, description)
}
func (m *mockItemServicer) Update(ctx context.Context, userID, itemID uuid.UUID, patch domain.ItemPatch) (domain.Item, error) {
	return m.update(ctx, userID, itemID, patch)
}
func (m *mockItemServicer) Delete(ctx context.Context, userID, itemID uuid.UUID) (domain.Item, error) {
	return m.delete(ctx, userID, itemID)
}

var _ handler.ItemServicer = (*mockItemServicer)(nil)

type mockAttachmentServicer struct {
	create func(ctx context.Context, userID, tripID uuid.UUID, date, fileName, mimeType string, file io.Reader) (domain.Attachment, error)
}

func (m *mockAttachmentServicer) Create(ctx context.Context, userID, tripID uuid.UUID, date, fileName, mimeType string, file io.Reader) (domain.Attachment, error) {
	return m.create(ctx, userID, tripID, date, fileName, mimeType, file)
}

var _ handler.AttachmentServicer = (*mockAttachmentServicer)(nil)

type mockExportServicer struct {
	export func(ctx context.Context, userID, tripID uuid.UUID) ([]domain.BookRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context, userID, tripID uuid.UUID) ([]domain.BookRow, error) {
	return m.export(ctx, userID, tripID)
}

var _ handler.ExportServicer = (*mockExportServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// deps bundles the servicer mocks a test cares about; nil fields stay nil.
type deps struct {
	trips       handler.TripServicer
	active      handler.ActiveTripResolver
	shares      handler.ShareServicer
	days        handler.DayServicer
	items       handler.ItemServicer
	attachments handler.AttachmentServicer
	export      handler.ExportServicer
}

// newRouter wires a Server into a chi router behind the real auth
// middleware, mirroring how main wires it in production.
func newRouter(d deps) http.Handler {
	srv := handler.NewServer(d.trips, d.active, d.shares, d.days, d.items, d.attachments, d.export)
	r := chi.NewRouter()
	r.Use(middleware.NewAuthHandler(testSecret))
	srv.Routes(r)
	return r
}

// authed attaches a bearer token for userID to the request.
func authed(t *testing.T, req *http.Request, userID uuid.UUID) *http.Request {
	t.Helper()
	token, err := middleware.GenerateToken(userID, "user@example.com", testSecret, time.Hour)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// decodeJSON parses the recorded response body into v.
func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

// tripFixture returns a trip for handler responses.
func tripFixture(ownerID uuid.UUID) domain.Trip {
	return domain.Trip{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      "Tuscany by Rail",
		StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

// activeFor returns a resolver that always lands on trip with the role.
func activeFor(trip domain.Trip, role domain.Role) *mockActiveTripResolver {
	return &mockActiveTripResolver{
		resolve: func(_ context.Context, _ uuid.UUID, _ *uuid.UUID) (domain.Trip, domain.Role, error) {
			return trip, role, nil
		},
	}
}

// cookieValue returns the value of the named Set-Cookie entry, or "".
func cookieValue(rec *httptest.ResponseRecorder, name string) (string, bool) {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}
