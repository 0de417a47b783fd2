package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"eventify/internal/domain"
)

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.Event
	nextID int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[string]*domain.Event), nextID: 1}
}

func (f *fakeEventRepo) add(e *domain.Event) *domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.ID == "" {
		e.ID = fmt.Sprintf("ev-%d", f.nextID)
		f.nextID++
	}
	f.byID[e.ID] = e
	return e
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.add(e)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.byID[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Event, 0)
	for _, e := range f.byID {
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		copied := *e
		out = append(out, &copied)
	}
	return out, len(out), nil
}

func (f *fakeEventRepo) ListByOrganizerID(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Event, 0)
	for _, e := range f.byID {
		if e.OrganizerID == organizerID {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.byID[e.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if current.RegisteredCount > e.Capacity {
		return nil, domain.ErrCapacityTooSmall
	}
	e.RegisteredCount = current.RegisteredCount
	e.Status = current.Status
	f.byID[e.ID] = e
	copied := *e
	return &copied, nil
}

func (f *fakeEventRepo) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.Status = status
	copied := *e
	return &copied, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	if e.RegisteredCount > 0 {
		return domain.ErrEventHasRegistrations
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) Count(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID), nil
}

func (f *fakeEventRepo) CountActive(ctx context.Context, now time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, e := range f.byID {
		if e.Status == domain.EventStatusPublished && !e.EndDate.Before(now) {
			count++
		}
	}
	return count, nil
}

func (f *fakeEventRepo) AverageOccupancy(ctx context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.byID) == 0 {
		return 0, nil
	}
	sum := 0.0
	for _, e := range f.byID {
		sum += float64(e.RegisteredCount) / float64(e.Capacity) * 100
	}
	return sum / float64(len(f.byID)), nil
}

func (f *fakeEventRepo) CountByCategory(ctx context.Context) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int)
	for _, e := range f.byID {
		counts[e.CategoryID]++
	}
	return counts, nil
}

func (f *fakeEventRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int)
	for _, e := range f.byID {
		counts[string(e.Status)]++
	}
	return counts, nil
}

// fakeRegistrationRepo is an in-memory RegistrationRepository. It shares the
// event map with a fakeEventRepo and mirrors the database's atomic seat
// accounting: the capacity check and the count mutation happen under one lock.
type fakeRegistrationRepo struct {
	mu     sync.Mutex
	events *fakeEventRepo
	byID   map[string]*domain.Registration
	nextID int
}

func newFakeRegistrationRepo(events *fakeEventRepo) *fakeRegistrationRepo {
	return &fakeRegistrationRepo{events: events, byID: make(map[string]*domain.Registration), nextID: 1}
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events.mu.Lock()
	defer f.events.mu.Unlock()

	event, ok := f.events.byID[reg.EventID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, existing := range f.byID {
		if existing.EventID == reg.EventID && existing.UserID == reg.UserID {
			return domain.ErrAlreadyRegistered
		}
	}
	if event.RegisteredCount >= event.Capacity {
		return domain.ErrEventFull
	}
	event.RegisteredCount++
	reg.ID = fmt.Sprintf("reg-%d", f.nextID)
	f.nextID++
	copied := *reg
	f.byID[reg.ID] = &copied
	return nil
}

func (f *fakeRegistrationRepo) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if reg, ok := f.byID[id]; ok {
		copied := *reg
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationRepo) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, reg := range f.byID {
		if reg.EventID == eventID && reg.UserID == userID {
			copied := *reg
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Registration, 0)
	for _, reg := range f.byID {
		if reg.UserID == userID {
			copied := *reg
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Registration, 0)
	for _, reg := range f.byID {
		if reg.EventID == eventID {
			copied := *reg
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) Cancel(ctx context.Context, id, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events.mu.Lock()
	defer f.events.mu.Unlock()

	reg, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	reg.Status = domain.RegistrationStatusCancelled
	if event, ok := f.events.byID[eventID]; ok && event.RegisteredCount > 0 {
		event.RegisteredCount--
	}
	return nil
}

func (f *fakeRegistrationRepo) UpdateStatus(ctx context.Context, id, eventID string, status domain.RegistrationStatus, countDelta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events.mu.Lock()
	defer f.events.mu.Unlock()

	reg, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	event, ok := f.events.byID[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	switch {
	case countDelta > 0:
		if event.RegisteredCount >= event.Capacity {
			return domain.ErrEventFull
		}
		event.RegisteredCount++
	case countDelta < 0:
		if event.RegisteredCount > 0 {
			event.RegisteredCount--
		}
	}
	reg.Status = status
	return nil
}

func (f *fakeRegistrationRepo) Count(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID), nil
}

func (f *fakeRegistrationRepo) CountByMonth(ctx context.Context, since time.Time) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int)
	for _, reg := range f.byID {
		if !reg.RegistrationDate.Before(since) {
			counts[reg.RegistrationDate.Format("2006-01")]++
		}
	}
	return counts, nil
}

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byID   map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*domain.User), nextID: 1}
}

func (f *fakeUserRepo) add(u *domain.User) *domain.User {
	if u.ID == "" {
		u.ID = fmt.Sprintf("user-%d", f.nextID)
		f.nextID++
	}
	f.byID[u.ID] = u
	return u
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	f.add(u)
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) List(ctx context.Context, search string, params domain.PaginationParams) ([]*domain.User, int, error) {
	out := make([]*domain.User, 0)
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u *domain.User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id, passwordHash, salt string) error {
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.Salt = salt
	return nil
}

func (f *fakeUserRepo) SetRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Role = role
	return u, nil
}

func (f *fakeUserRepo) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.IsActive = active
	return u, nil
}

// fakeLocationRepo is an in-memory LocationRepository for tests.
type fakeLocationRepo struct {
	byID        map[string]*domain.Location
	eventCounts map[string]int
	nextID      int
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{byID: make(map[string]*domain.Location), eventCounts: make(map[string]int), nextID: 1}
}

func (f *fakeLocationRepo) add(loc *domain.Location) *domain.Location {
	if loc.ID == "" {
		loc.ID = fmt.Sprintf("loc-%d", f.nextID)
		f.nextID++
	}
	f.byID[loc.ID] = loc
	return loc
}

func (f *fakeLocationRepo) Create(ctx context.Context, loc *domain.Location) error {
	f.add(loc)
	return nil
}

func (f *fakeLocationRepo) GetByID(ctx context.Context, id string) (*domain.Location, error) {
	if loc, ok := f.byID[id]; ok {
		return loc, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeLocationRepo) List(ctx context.Context, search string, isActive *bool, params domain.PaginationParams) ([]*domain.Location, int, error) {
	out := make([]*domain.Location, 0)
	for _, loc := range f.byID {
		if isActive != nil && loc.IsActive != *isActive {
			continue
		}
		out = append(out, loc)
	}
	return out, len(out), nil
}

func (f *fakeLocationRepo) ListActive(ctx context.Context) ([]*domain.Location, error) {
	out := make([]*domain.Location, 0)
	for _, loc := range f.byID {
		if loc.IsActive {
			out = append(out, loc)
		}
	}
	return out, nil
}

func (f *fakeLocationRepo) Update(ctx context.Context, loc *domain.Location) error {
	if _, ok := f.byID[loc.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[loc.ID] = loc
	return nil
}

func (f *fakeLocationRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeLocationRepo) CountEvents(ctx context.Context, id string) (int, error) {
	return f.eventCounts[id], nil
}

// fakeCategoryRepo is an in-memory CategoryRepository for tests.
type fakeCategoryRepo struct {
	byID map[string]*domain.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{byID: make(map[string]*domain.Category)}
}

func (f *fakeCategoryRepo) add(c *domain.Category) *domain.Category {
	f.byID[c.ID] = c
	return c
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0)
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

// fakeEmailService records sent emails instead of delivering them.
type fakeEmailService struct {
	mu            sync.Mutex
	welcomes      []*domain.WelcomeEmailData
	confirmations []*domain.RegistrationConfirmedEmailData
	err           error
}

func (f *fakeEmailService) SendWelcome(ctx context.Context, data *domain.WelcomeEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.welcomes = append(f.welcomes, data)
	return nil
}

func (f *fakeEmailService) SendRegistrationConfirmed(ctx context.Context, data *domain.RegistrationConfirmedEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.confirmations = append(f.confirmations, data)
	return nil
}

// fakeHasher is a transparent PasswordHasher for tests.
type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }

func (fakeHasher) Hash(salt, password string) (string, error) {
	return salt + ":" + password, nil
}

func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != salt+":"+password {
		return fmt.Errorf("password mismatch")
	}
	return nil
}

// fakeTokenIssuer issues predictable tokens for tests.
type fakeTokenIssuer struct {
	err error
}

func (f *fakeTokenIssuer) Issue(userID, email string, role domain.Role, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + userID, nil
}
