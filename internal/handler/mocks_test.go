package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kalaniocean/restaurant-reservation/internal/model"
	"github.com/kalaniocean/restaurant-reservation/internal/queue"
	"github.com/kalaniocean/restaurant-reservation/internal/repository"
)

// ── Mock stores ──

type mockReservationStore struct {
	reservations map[uint64]*model.Reservation
	nextID       uint64
	listResult   []model.Reservation
	searchResult []model.Reservation
	failWith     error
}

func newMockReservationStore() *mockReservationStore {
	return &mockReservationStore{reservations: map[uint64]*model.Reservation{}, nextID: 1}
}

func (m *mockReservationStore) add(res model.Reservation) uint64 {
	if res.ID == 0 {
		res.ID = m.nextID
	}
	if res.ID >= m.nextID {
		m.nextID = res.ID + 1
	}
	m.reservations[res.ID] = &res
	return res.ID
}

func (m *mockReservationStore) Create(_ context.Context, res *model.Reservation) error {
	if m.failWith != nil {
		return m.failWith
	}
	res.ID = m.nextID
	m.nextID++
	res.CreatedAt = time.Now()
	res.UpdatedAt = res.CreatedAt
	clone := *res
	m.reservations[res.ID] = &clone
	return nil
}

func (m *mockReservationStore) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	res, ok := m.reservations[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	clone := *res
	return &clone, nil
}

func (m *mockReservationStore) ListByDate(_ context.Context, _ string) ([]model.Reservation, error) {
	return m.listResult, m.failWith
}

func (m *mockReservationStore) SearchByPhone(_ context.Context, _ string) ([]model.Reservation, error) {
	return m.searchResult, m.failWith
}

func (m *mockReservationStore) Update(_ context.Context, res *model.Reservation) error {
	if _, ok := m.reservations[res.ID]; !ok {
		return repository.ErrReservationNotFound
	}
	clone := *res
	m.reservations[res.ID] = &clone
	return nil
}

func (m *mockReservationStore) UpdateStatus(_ context.Context, id uint64, status string) (*model.Reservation, error) {
	res, ok := m.reservations[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	res.Status = status
	clone := *res
	return &clone, nil
}

// mockTableStore mimics the transactional Assign/Release semantics: the
// linked reservation's status flips together with the table.
type mockTableStore struct {
	tables       map[uint64]*model.Table
	nextID       uint64
	reservations *mockReservationStore
	failWith     error
}

func newMockTableStore(reservations *mockReservationStore) *mockTableStore {
	return &mockTableStore{tables: map[uint64]*model.Table{}, nextID: 1, reservations: reservations}
}

func (m *mockTableStore) add(tbl model.Table) uint64 {
	if tbl.ID == 0 {
		tbl.ID = m.nextID
	}
	if tbl.ID >= m.nextID {
		m.nextID = tbl.ID + 1
	}
	m.tables[tbl.ID] = &tbl
	return tbl.ID
}

func (m *mockTableStore) Create(_ context.Context, tbl *model.Table) error {
	if m.failWith != nil {
		return m.failWith
	}
	tbl.ID = m.nextID
	m.nextID++
	tbl.CreatedAt = time.Now()
	tbl.UpdatedAt = tbl.CreatedAt
	clone := *tbl
	m.tables[tbl.ID] = &clone
	return nil
}

func (m *mockTableStore) GetByID(_ context.Context, id uint64) (*model.Table, error) {
	tbl, ok := m.tables[id]
	if !ok {
		return nil, repository.ErrTableNotFound
	}
	clone := *tbl
	return &clone, nil
}

func (m *mockTableStore) List(_ context.Context) ([]model.Table, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	tables := make([]model.Table, 0, len(m.tables))
	for _, tbl := range m.tables {
		tables = append(tables, *tbl)
	}
	return tables, nil
}

func (m *mockTableStore) Assign(_ context.Context, tableID, reservationID uint64) (*model.Table, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	tbl, ok := m.tables[tableID]
	if !ok {
		return nil, repository.ErrTableNotFound
	}
	if tbl.Occupied {
		return nil, repository.ErrTableOccupied
	}
	tbl.Occupied = true
	tbl.ReservationID = &reservationID
	if res, ok := m.reservations.reservations[reservationID]; ok {
		res.Status = model.StatusSeated
	}
	clone := *tbl
	return &clone, nil
}

func (m *mockTableStore) Release(_ context.Context, tableID uint64) (*model.Table, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	tbl, ok := m.tables[tableID]
	if !ok {
		return nil, repository.ErrTableNotFound
	}
	if !tbl.Occupied {
		return nil, repository.ErrTableNotOccupied
	}
	if tbl.ReservationID != nil {
		if res, ok := m.reservations.reservations[*tbl.ReservationID]; ok {
			res.Status = model.StatusFinished
		}
	}
	tbl.Occupied = false
	tbl.ReservationID = nil
	clone := *tbl
	return &clone, nil
}

// ── Mock publisher ──

type mockPublisher struct {
	events []queue.ReservationEvent
}

func (m *mockPublisher) Publish(_ context.Context, ev queue.ReservationEvent) error {
	m.events = append(m.events, ev)
	return nil
}

func (m *mockPublisher) lastType(t *testing.T) string {
	t.Helper()
	if len(m.events) == 0 {
		t.Fatal("no events published")
	}
	return m.events[len(m.events)-1].Type
}

// ── Request helpers ──

type apiResponse struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// invoke runs one handler against a synthetic request and returns the
// recorder.  pathParams populates Echo's :id style parameters.
func invoke(t *testing.T, h echo.HandlerFunc, method, target, body string, pathParams map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	names := make([]string, 0, len(pathParams))
	values := make([]string, 0, len(pathParams))
	for name, value := range pathParams {
		names = append(names, name)
		values = append(values, value)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return resp
}

// nextOpenDate returns the first date at least daysAhead days out that is
// not a Tuesday, as YYYY-MM-DD.
func nextOpenDate(daysAhead int) string {
	d := time.Now().AddDate(0, 0, daysAhead)
	for d.Weekday() == time.Tuesday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}

// nextTuesday returns the next upcoming Tuesday as YYYY-MM-DD.
func nextTuesday() string {
	d := time.Now().AddDate(0, 0, 1)
	for d.Weekday() != time.Tuesday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}
