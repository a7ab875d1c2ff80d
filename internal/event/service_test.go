package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/ihost-app/ihost-backend/internal/auth"
	"github.com/ihost-app/ihost-backend/internal/discovery"
	"github.com/ihost-app/ihost-backend/internal/notification"
)

type fakeRepo struct {
	events map[uint]*Event
	nextID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{events: map[uint]*Event{}, nextID: 1}
}

func (f *fakeRepo) Create(ctx context.Context, e *Event) error {
	e.ID = f.nextID
	f.nextID++
	f.events[e.ID] = e
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uint) (*Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (f *fakeRepo) ListAll(ctx context.Context) ([]Event, error) {
	var out []Event
	for _, e := range f.events {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeRepo) ListByHostEmail(ctx context.Context, email string) ([]Event, error) {
	var out []Event
	for _, e := range f.events {
		if e.HostEmail == email {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListRegisteredByEmail(ctx context.Context, email string) ([]Event, error) {
	var out []Event
	for _, e := range f.events {
		for _, r := range e.Registrations {
			if r.Email == email {
				out = append(out, *e)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := f.events[id]; !ok {
		return ErrNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeRepo) RegisterForDate(ctx context.Context, eventID, userID uint, email, date string) error {
	e, ok := f.events[eventID]
	if !ok {
		return ErrNotFound
	}
	taken := 0
	for _, r := range e.Registrations {
		if r.Date != date {
			continue
		}
		if r.Email == email {
			return ErrAlreadyRegistered
		}
		taken++
	}
	if e.Occupancy > 0 && taken >= e.Occupancy {
		return ErrEventFull
	}
	e.Registrations = append(e.Registrations, Registration{EventID: eventID, UserID: userID, Email: email, Date: date})
	return nil
}

func (f *fakeRepo) CountRegistrations(ctx context.Context, eventID uint, date string) (int64, error) {
	e, ok := f.events[eventID]
	if !ok {
		return 0, ErrNotFound
	}
	var count int64
	for _, r := range e.Registrations {
		if r.Date == date {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) ToggleLike(ctx context.Context, eventID, userID uint) (bool, int, error) {
	e, ok := f.events[eventID]
	if !ok {
		return false, 0, ErrNotFound
	}
	for i, l := range e.Likes {
		if l.UserID == userID {
			e.Likes = append(e.Likes[:i], e.Likes[i+1:]...)
			e.LikesCount = len(e.Likes)
			return false, e.LikesCount, nil
		}
	}
	e.Likes = append(e.Likes, Like{EventID: eventID, UserID: userID})
	e.LikesCount = len(e.Likes)
	return true, e.LikesCount, nil
}

type fakePublisher struct {
	published []notification.ActivityMessage
}

func (f *fakePublisher) PublishActivity(ctx context.Context, msg notification.ActivityMessage) error {
	f.published = append(f.published, msg)
	return nil
}

var testClock = time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

func testService(repo Repository, pub notification.Publisher) *Service {
	svc := NewService(repo, pub)
	svc.now = func() time.Time { return testClock }
	return svc
}

func mustSchedules(t *testing.T, schedules []discovery.Schedule) datatypes.JSON {
	t.Helper()
	raw, err := json.Marshal(schedules)
	if err != nil {
		t.Fatalf("marshal schedules: %v", err)
	}
	return datatypes.JSON(raw)
}

func floatPtr(v float64) *float64 { return &v }

func hostUser() *auth.User {
	return &auth.User{ID: 1, Name: "Host", Email: "host@example.com", EventRadius: 10}
}

func guestUser() *auth.User {
	return &auth.User{ID: 2, Name: "Guest", Email: "guest@example.com", EventRadius: 10}
}

func validCreateRequest() *CreateEventRequest {
	return &CreateEventRequest{
		Name:        "Yoga in the Park",
		Description: "Morning yoga, all levels welcome",
		Latitude:    floatPtr(43.238949),
		Longitude:   floatPtr(76.889709),
		Address:     "Central Park",
		Schedules:   []discovery.Schedule{{Date: "2025-06-02", StartTime: "9:00 AM", EndTime: "11:00 AM"}},
		Occupancy:   20,
		Category:    discovery.CategoryFree,
	}
}

func TestCreateValidation(t *testing.T) {
	svc := testService(newFakeRepo(), nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*CreateEventRequest)
		wantErr error
	}{
		{"unknown category", func(r *CreateEventRequest) { r.Category = "mystery" }, ErrInvalidCategory},
		{"free with price", func(r *CreateEventRequest) { r.Price = 5 }, ErrPriceMismatch},
		{"paid without price", func(r *CreateEventRequest) { r.Category = discovery.CategoryPaid; r.Price = 0 }, ErrPriceMismatch},
		{"negative price", func(r *CreateEventRequest) { r.Category = discovery.CategoryPaid; r.Price = -1 }, ErrPriceMismatch},
		{"dated without schedules", func(r *CreateEventRequest) { r.Schedules = nil }, ErrMissingSchedules},
		{"malformed schedule", func(r *CreateEventRequest) {
			r.Schedules = []discovery.Schedule{{Date: "bad-date", StartTime: "9:00 AM", EndTime: "11:00 AM"}}
		}, ErrInvalidSchedule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(req)
			if _, err := svc.Create(ctx, req, hostUser()); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateSetsHost(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(repo, nil)

	e, err := svc.Create(context.Background(), validCreateRequest(), hostUser())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.HostID != 1 || e.HostEmail != "host@example.com" || e.HostName != "Host" {
		t.Fatalf("host fields not set: %+v", e)
	}
	if e.ID == 0 {
		t.Fatalf("expected the repo to assign an id")
	}
}

func TestCreateServicesAllowsAnyPrice(t *testing.T) {
	svc := testService(newFakeRepo(), nil)

	for _, price := range []float64{0, 15} {
		req := validCreateRequest()
		req.Category = discovery.CategoryServices
		req.Price = price
		if _, err := svc.Create(context.Background(), req, hostUser()); err != nil {
			t.Fatalf("services event with price %v: %v", price, err)
		}
	}
}

func seedEvent(t *testing.T, repo *fakeRepo, mutate func(*Event)) *Event {
	t.Helper()
	e := &Event{
		Name:      "Yoga in the Park",
		Latitude:  floatPtr(43.238949),
		Longitude: floatPtr(76.889709),
		Schedules: mustSchedules(t, []discovery.Schedule{
			{Date: "2025-06-02", StartTime: "9:00 AM", EndTime: "11:00 AM"},
		}),
		Occupancy: 2,
		Category:  discovery.CategoryFree,
		HostID:    1,
		HostEmail: "host@example.com",
		HostName:  "Host",
	}
	if mutate != nil {
		mutate(e)
	}
	if err := repo.Create(context.Background(), e); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return e
}

func TestRegisterHappyPath(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	svc := testService(repo, pub)
	e := seedEvent(t, repo, nil)

	if err := svc.Register(context.Background(), e.ID, guestUser(), "2025-06-02"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(e.Registrations) != 1 {
		t.Fatalf("expected one registration, got %d", len(e.Registrations))
	}
	if len(pub.published) != 1 || pub.published[0].Type != notification.ActivityRegistration {
		t.Fatalf("expected a registration activity, got %+v", pub.published)
	}
	if pub.published[0].HostID != e.HostID {
		t.Fatalf("activity must target the host")
	}
}

func TestRegisterRejectsHost(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(repo, nil)
	e := seedEvent(t, repo, nil)

	if err := svc.Register(context.Background(), e.ID, hostUser(), "2025-06-02"); !errors.Is(err, ErrHostRegistration) {
		t.Fatalf("expected ErrHostRegistration, got %v", err)
	}
}

func TestRegisterRejectsOffScheduleDate(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(repo, nil)
	e := seedEvent(t, repo, nil)

	if err := svc.Register(context.Background(), e.ID, guestUser(), "2025-07-01"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestRegisterDuplicateAndCapacity(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(repo, nil)
	e := seedEvent(t, repo, nil) // occupancy 2

	guest := guestUser()
	if err := svc.Register(context.Background(), e.ID, guest, "2025-06-02"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := svc.Register(context.Background(), e.ID, guest, "2025-06-02"); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}

	third := &auth.User{ID: 3, Name: "Third", Email: "third@example.com"}
	if err := svc.Register(context.Background(), e.ID, third, "2025-06-02"); err != nil {
		t.Fatalf("second guest Register: %v", err)
	}

	fourth := &auth.User{ID: 4, Name: "Fourth", Email: "fourth@example.com"}
	if err := svc.Register(context.Background(), e.ID, fourth, "2025-06-02"); !errors.Is(err, ErrEventFull) {
		t.Fatalf("expected ErrEventFull, got %v", err)
	}
}

func TestRegisterOpenEndedIgnoresDate(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(repo, nil)
	e := seedEvent(t, repo, func(e *Event) {
		e.IsOpenEnded = true
		e.Schedules = nil
		e.Occupancy = 0
	})

	if err := svc.Register(context.Background(), e.ID, guestUser(), "whatever"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if e.Registrations[0].Date != "" {
		t.Fatalf("open-ended registrations store an empty date, got %q", e.Registrations[0].Date)
	}
}

func TestNearbyRequiresLocation(t *testing.T) {
	svc := testService(newFakeRepo(), nil)

	_, err := svc.Nearby(context.Background(), guestUser(), nil)
	if !errors.Is(err, discovery.ErrLocationUnavailable) {
		t.Fatalf("expected ErrLocationUnavailable, got %v", err)
	}
}

func TestNearbyFiltersAndSections(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(repo, nil)

	near := seedEvent(t, repo, nil)
	// Same city but ~111 km north, outside the 10 km default radius.
	seedEvent(t, repo, func(e *Event) {
		e.Name = "Far Away"
		e.Latitude = floatPtr(44.238949)
	})

	viewer := &discovery.Coordinate{Latitude: 43.238949, Longitude: 76.889709}
	feed, err := svc.Nearby(context.Background(), guestUser(), viewer)
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}

	free := feed.Sections[discovery.SectionFree]
	if len(free) != 1 || free[0].ID != near.ID {
		t.Fatalf("expected only the nearby event in Free Events, got %+v", free)
	}
	if len(feed.SectionOrder) == 0 {
		t.Fatalf("section order must be populated")
	}
	if feed.RadiusKm != 10 {
		t.Fatalf("radius = %v, want the viewer's 10 km preference", feed.RadiusKm)
	}
}

func TestHostedSplitsUpcomingAndPast(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(repo, nil)

	upcoming := seedEvent(t, repo, nil) // 2025-06-02, after the test clock
	past := seedEvent(t, repo, func(e *Event) {
		e.Name = "Last Month"
		e.Schedules = mustSchedules(t, []discovery.Schedule{
			{Date: "2025-05-01", StartTime: "9:00 AM", EndTime: "11:00 AM"},
		})
	})

	up, pa, err := svc.HostedBy(context.Background(), "host@example.com")
	if err != nil {
		t.Fatalf("HostedBy: %v", err)
	}
	if len(up) != 1 || up[0].ID != upcoming.ID {
		t.Fatalf("upcoming = %+v", up)
	}
	if len(pa) != 1 || pa[0].ID != past.ID {
		t.Fatalf("past = %+v", pa)
	}
}

func TestDeleteHostOnly(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(repo, nil)
	e := seedEvent(t, repo, nil)

	if err := svc.Delete(context.Background(), e.ID, guestUser()); !errors.Is(err, ErrNotHost) {
		t.Fatalf("expected ErrNotHost, got %v", err)
	}
	if err := svc.Delete(context.Background(), e.ID, hostUser()); err != nil {
		t.Fatalf("Delete by host: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), e.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("event should be gone, got %v", err)
	}
}

func TestToggleLikePublishesOnce(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	svc := testService(repo, pub)
	e := seedEvent(t, repo, nil)

	liked, count, err := svc.ToggleLike(context.Background(), e.ID, guestUser())
	if err != nil || !liked || count != 1 {
		t.Fatalf("first toggle: liked=%v count=%d err=%v", liked, count, err)
	}
	if len(pub.published) != 1 || pub.published[0].Type != notification.ActivityLike {
		t.Fatalf("expected a like activity, got %+v", pub.published)
	}

	liked, count, err = svc.ToggleLike(context.Background(), e.ID, guestUser())
	if err != nil || liked || count != 0 {
		t.Fatalf("second toggle: liked=%v count=%d err=%v", liked, count, err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("unlike must not publish, got %+v", pub.published)
	}
}
