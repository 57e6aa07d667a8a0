package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"eventhub/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

type memToken struct {
	accountID string
	expiresAt time.Time
	consumed  bool
}

// memStore is an in-memory store implementing every repository plus domain.TxManager.
// WithinTx serializes transactions and restores a snapshot when fn fails.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	seq         int
	accounts    map[string]*domain.Account
	tokens      map[string]*memToken
	roles       map[domain.RoleName]*domain.Role
	memberships map[string]map[string]bool
	profiles    []*domain.LegacyProfile
	categories  map[string]*domain.Category
	events      map[string]*domain.Event
	rsvps       []*domain.RSVP

	// fail injects an error into the named operation, e.g. "profiles.CreateIfAbsent".
	fail map[string]error
}

func newMemStore() *memStore {
	s := &memStore{
		accounts:    map[string]*domain.Account{},
		tokens:      map[string]*memToken{},
		roles:       map[domain.RoleName]*domain.Role{},
		memberships: map[string]map[string]bool{},
		categories:  map[string]*domain.Category{},
		events:      map[string]*domain.Event{},
		fail:        map[string]error{},
	}
	for _, name := range domain.AssignableRoles {
		s.roles[name] = &domain.Role{ID: "role-" + strings.ToLower(string(name)), Name: name}
	}
	return s
}

func (s *memStore) Repositories() domain.Repositories {
	return domain.Repositories{
		Accounts:         memAccounts{s},
		ActivationTokens: memTokens{s},
		Roles:            memRoles{s},
		Profiles:         memProfiles{s},
		Categories:       memCategories{s},
		Events:           memEvents{s},
		RSVPs:            memRSVPs{s},
	}
}

func (s *memStore) WithinTx(ctx context.Context, fn func(repos domain.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(s.Repositories()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type memSnapshot struct {
	seq         int
	accounts    map[string]domain.Account
	tokens      map[string]memToken
	memberships map[string]map[string]bool
	profiles    []domain.LegacyProfile
	categories  map[string]domain.Category
	events      map[string]domain.Event
	rsvps       []domain.RSVP
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := memSnapshot{
		seq:         s.seq,
		accounts:    map[string]domain.Account{},
		tokens:      map[string]memToken{},
		memberships: map[string]map[string]bool{},
		categories:  map[string]domain.Category{},
		events:      map[string]domain.Event{},
	}
	for k, v := range s.accounts {
		snap.accounts[k] = *v
	}
	for k, v := range s.tokens {
		snap.tokens[k] = *v
	}
	for k, v := range s.memberships {
		m := map[string]bool{}
		for r := range v {
			m[r] = true
		}
		snap.memberships[k] = m
	}
	for _, p := range s.profiles {
		snap.profiles = append(snap.profiles, *p)
	}
	for k, v := range s.categories {
		snap.categories[k] = *v
	}
	for k, v := range s.events {
		snap.events[k] = *v
	}
	for _, r := range s.rsvps {
		snap.rsvps = append(snap.rsvps, *r)
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = snap.seq
	s.accounts = map[string]*domain.Account{}
	for k, v := range snap.accounts {
		v := v
		s.accounts[k] = &v
	}
	s.tokens = map[string]*memToken{}
	for k, v := range snap.tokens {
		v := v
		s.tokens[k] = &v
	}
	s.memberships = snap.memberships
	s.profiles = nil
	for _, p := range snap.profiles {
		p := p
		s.profiles = append(s.profiles, &p)
	}
	s.categories = map[string]*domain.Category{}
	for k, v := range snap.categories {
		v := v
		s.categories[k] = &v
	}
	s.events = map[string]*domain.Event{}
	for k, v := range snap.events {
		v := v
		s.events[k] = &v
	}
	s.rsvps = nil
	for _, r := range snap.rsvps {
		r := r
		s.rsvps = append(s.rsvps, &r)
	}
}

// nextID must be called with mu held.
func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

// injected must be called with mu held.
func (s *memStore) injected(op string) error {
	return s.fail[op]
}

func (s *memStore) failOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[op] = err
}

func (s *memStore) membershipCount(accountID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.memberships[accountID])
}

func (s *memStore) linkedProfiles(accountID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.profiles {
		if p.AccountID != nil && *p.AccountID == accountID {
			n++
		}
	}
	return n
}

func (s *memStore) addProfile(p domain.LegacyProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID("prof")
	s.profiles = append(s.profiles, &p)
}

// seedAccount inserts an account directly, bypassing services.
func (s *memStore) seedAccount(username string, superuser bool) *domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	a := domain.NewAccount(username, username+"@x.com", "", "", now, now)
	a.ID = s.nextID("acc")
	a.IsSuperuser = superuser
	cp := *a
	s.accounts[a.ID] = &cp
	return a
}

func (s *memStore) seedCategory(name string) *domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	c := domain.NewCategory(name, "", now, now)
	c.ID = s.nextID("cat")
	cp := *c
	s.categories[c.ID] = &cp
	return c
}

func (s *memStore) seedEvent(name, categoryID string, date time.Time, clock string) *domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	e := &domain.Event{Name: name, Date: date, Time: clock, CategoryID: categoryID, CreatedAt: now, UpdatedAt: now}
	e.ID = s.nextID("ev")
	cp := *e
	s.events[e.ID] = &cp
	return e
}

// ---- accounts ----

type memAccounts struct{ s *memStore }

func (r memAccounts) Create(ctx context.Context, a *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("accounts.Create"); err != nil {
		return err
	}
	for _, other := range r.s.accounts {
		if other.Email == a.Email {
			return fmt.Errorf("%w: email already in use", domain.ErrConflict)
		}
		if other.Username == a.Username {
			return fmt.Errorf("%w: username already in use", domain.ErrConflict)
		}
	}
	a.ID = r.s.nextID("acc")
	cp := *a
	r.s.accounts[a.ID] = &cp
	return nil
}

func (r memAccounts) find(match func(*domain.Account) bool) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.accounts {
		if match(a) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memAccounts) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.find(func(a *domain.Account) bool { return a.ID == id })
}

func (r memAccounts) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.find(func(a *domain.Account) bool { return a.Email == email })
}

func (r memAccounts) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.find(func(a *domain.Account) bool { return a.Username == username })
}

func (r memAccounts) LockByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.GetByID(ctx, id)
}

func (r memAccounts) Activate(ctx context.Context, id string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok || a.IsActive {
		return false, nil
	}
	a.IsActive = true
	a.UpdatedAt = at
	return true, nil
}

func (r memAccounts) UpdateNames(ctx context.Context, a *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.accounts[a.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.FirstName, stored.LastName, stored.UpdatedAt = a.FirstName, a.LastName, a.UpdatedAt
	return nil
}

func (r memAccounts) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Account, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]*domain.Account, 0, len(r.s.accounts))
	for _, a := range r.s.accounts {
		cp := *a
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, params), len(all), nil
}

func (r memAccounts) ListByIDs(ctx context.Context, ids []string) ([]*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		if a, ok := r.s.accounts[id]; ok {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memAccounts) Count(ctx context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.accounts), nil
}

func paginate[T any](items []T, params domain.PaginationParams) []T {
	if params.PageSize <= 0 {
		return items
	}
	start := params.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + params.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// ---- activation tokens ----

type memTokens struct{ s *memStore }

func (r memTokens) Create(ctx context.Context, accountID, tokenHash string, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("tokens.Create"); err != nil {
		return err
	}
	r.s.tokens[tokenHash] = &memToken{accountID: accountID, expiresAt: expiresAt}
	return nil
}

func (r memTokens) Consume(ctx context.Context, tokenHash string, now time.Time) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tokens[tokenHash]
	if !ok || t.consumed || !t.expiresAt.After(now) {
		return "", domain.ErrInvalidToken
	}
	t.consumed = true
	return t.accountID, nil
}

// ---- roles ----

type memRoles struct{ s *memStore }

func (r memRoles) GetByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	role, ok := r.s.roles[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *role
	return &cp, nil
}

func (r memRoles) ListByAccountID(ctx context.Context, accountID string) ([]*domain.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*domain.Role{}
	for _, role := range r.s.roles {
		if r.s.memberships[accountID][role.ID] {
			cp := *role
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memRoles) AddMembership(ctx context.Context, accountID, roleID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("roles.AddMembership"); err != nil {
		return err
	}
	if _, ok := r.s.accounts[accountID]; !ok {
		return domain.ErrNotFound
	}
	if r.s.memberships[accountID] == nil {
		r.s.memberships[accountID] = map[string]bool{}
	}
	r.s.memberships[accountID][roleID] = true
	return nil
}

func (r memRoles) ClearMemberships(ctx context.Context, accountID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.memberships, accountID)
	return nil
}

func (r memRoles) CountMembers(ctx context.Context) (map[domain.RoleName]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[domain.RoleName]int{}
	for _, role := range r.s.roles {
		counts[role.Name] = 0
		for _, held := range r.s.memberships {
			if held[role.ID] {
				counts[role.Name]++
			}
		}
	}
	return counts, nil
}

// ---- legacy profiles ----

type memProfiles struct{ s *memStore }

func (r memProfiles) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.profiles {
		if strings.EqualFold(p.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r memProfiles) CreateIfAbsent(ctx context.Context, profile *domain.LegacyProfile) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("profiles.CreateIfAbsent"); err != nil {
		return false, err
	}
	for _, p := range r.s.profiles {
		if strings.EqualFold(p.Email, profile.Email) {
			return false, nil
		}
		if p.Linked() && profile.Linked() && *p.AccountID == *profile.AccountID {
			return false, nil
		}
	}
	profile.ID = r.s.nextID("prof")
	cp := *profile
	r.s.profiles = append(r.s.profiles, &cp)
	return true, nil
}

func (r memProfiles) GetByAccountID(ctx context.Context, accountID string) (*domain.LegacyProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.profiles {
		if p.AccountID != nil && *p.AccountID == accountID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ---- categories ----

type memCategories struct{ s *memStore }

func (r memCategories) Create(ctx context.Context, c *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.nextID("cat")
	cp := *c
	r.s.categories[c.ID] = &cp
	return nil
}

func (r memCategories) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r memCategories) List(ctx context.Context) ([]*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memCategories) Update(ctx context.Context, c *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.s.categories[c.ID] = &cp
	return nil
}

func (r memCategories) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.categories, id)
	for eid, e := range r.s.events {
		if e.CategoryID == id {
			r.s.deleteEventLocked(eid)
		}
	}
	return nil
}

func (r memCategories) Count(ctx context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.categories), nil
}

// ---- events ----

type memEvents struct{ s *memStore }

// eventLocked returns a copy of the event with category name and live attendee count.
func (s *memStore) eventLocked(e *domain.Event) *domain.Event {
	cp := *e
	if c, ok := s.categories[e.CategoryID]; ok {
		cp.CategoryName = c.Name
	}
	cp.AttendeeCount = 0
	for _, r := range s.rsvps {
		if r.EventID == e.ID {
			cp.AttendeeCount++
		}
	}
	return &cp
}

func (s *memStore) deleteEventLocked(id string) {
	delete(s.events, id)
	kept := s.rsvps[:0]
	for _, r := range s.rsvps {
		if r.EventID != id {
			kept = append(kept, r)
		}
	}
	s.rsvps = kept
}

func (r memEvents) Create(ctx context.Context, e *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[e.CategoryID]; !ok {
		return fmt.Errorf("category: %w", domain.ErrNotFound)
	}
	e.ID = r.s.nextID("ev")
	cp := *e
	r.s.events[e.ID] = &cp
	return nil
}

func (r memEvents) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.s.eventLocked(e), nil
}

func (r memEvents) Update(ctx context.Context, id string, in domain.EventInput) (*domain.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		e.Name = *in.Name
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	if in.Date != nil {
		e.Date = *in.Date
	}
	if in.Time != nil {
		e.Time = *in.Time
	}
	if in.Location != nil {
		e.Location = *in.Location
	}
	if in.CategoryID != nil {
		e.CategoryID = *in.CategoryID
	}
	if in.ImageURL != nil {
		e.ImageURL = *in.ImageURL
	}
	return r.s.eventLocked(e), nil
}

func (r memEvents) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[id]; !ok {
		return domain.ErrNotFound
	}
	r.s.deleteEventLocked(id)
	return nil
}

func (r memEvents) all(match func(*domain.Event) bool) []*domain.Event {
	out := []*domain.Event{}
	for _, e := range r.s.events {
		if match(e) {
			out = append(out, r.s.eventLocked(e))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Time > out[j].Time
	})
	return out
}

func (r memEvents) List(ctx context.Context, f domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := r.all(func(e *domain.Event) bool {
		if search != "" && !strings.Contains(strings.ToLower(e.Name), search) && !strings.Contains(strings.ToLower(e.Location), search) {
			return false
		}
		if f.CategoryID != "" && e.CategoryID != f.CategoryID {
			return false
		}
		switch f.Scope {
		case domain.ScopeToday:
			return e.Date.Equal(f.Today)
		case domain.ScopeUpcoming:
			return !e.Date.Before(f.Today)
		case domain.ScopePast:
			return e.Date.Before(f.Today)
		}
		return true
	})
	if f.Scope == domain.ScopeToday || f.Scope == domain.ScopeUpcoming {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return paginate(out, params), len(out), nil
}

func (r memEvents) ListByCategoryID(ctx context.Context, categoryID string) ([]*domain.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.all(func(e *domain.Event) bool { return e.CategoryID == categoryID }), nil
}

func (r memEvents) ListPopular(ctx context.Context, limit int) ([]*domain.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.all(func(*domain.Event) bool { return true })
	sort.SliceStable(out, func(i, j int) bool { return out[i].AttendeeCount > out[j].AttendeeCount })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memEvents) Count(ctx context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.events), nil
}

func (r memEvents) CountUpcomingAndPast(ctx context.Context, today time.Time) (int, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var upcoming, past int
	for _, e := range r.s.events {
		if e.Date.Before(today) {
			past++
		} else {
			upcoming++
		}
	}
	return upcoming, past, nil
}

// ---- rsvps ----

type memRSVPs struct{ s *memStore }

func (r memRSVPs) Create(ctx context.Context, rsvp *domain.RSVP) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("rsvps.Create"); err != nil {
		return err
	}
	if _, ok := r.s.accounts[rsvp.AccountID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.s.events[rsvp.EventID]; !ok {
		return domain.ErrNotFound
	}
	for _, existing := range r.s.rsvps {
		if existing.AccountID == rsvp.AccountID && existing.EventID == rsvp.EventID {
			return domain.ErrDuplicateRSVP
		}
	}
	rsvp.ID = r.s.nextID("rsvp")
	cp := *rsvp
	r.s.rsvps = append(r.s.rsvps, &cp)
	return nil
}

func (r memRSVPs) GetByAccountAndEvent(ctx context.Context, accountID, eventID string) (*domain.RSVP, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.rsvps {
		if existing.AccountID == accountID && existing.EventID == eventID {
			cp := *existing
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memRSVPs) Delete(ctx context.Context, accountID, eventID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, existing := range r.s.rsvps {
		if existing.AccountID == accountID && existing.EventID == eventID {
			r.s.rsvps = append(r.s.rsvps[:i], r.s.rsvps[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r memRSVPs) CountByEventID(ctx context.Context, eventID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, existing := range r.s.rsvps {
		if existing.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (r memRSVPs) ListByAccountID(ctx context.Context, accountID string) ([]*domain.RSVPWithEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*domain.RSVPWithEvent{}
	for _, existing := range r.s.rsvps {
		if existing.AccountID == accountID {
			cp := *existing
			out = append(out, &domain.RSVPWithEvent{RSVP: &cp, Event: r.s.eventLocked(r.s.events[existing.EventID])})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Event.Date.After(out[j].Event.Date) })
	return out, nil
}

func (r memRSVPs) ListAttendees(ctx context.Context, eventID string) ([]*domain.Attendee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*domain.Attendee{}
	for _, existing := range r.s.rsvps {
		if existing.EventID == eventID {
			a := *r.s.accounts[existing.AccountID]
			out = append(out, &domain.Attendee{Account: &a, RespondedAt: existing.RespondedAt})
		}
	}
	return out, nil
}

func (r memRSVPs) Count(ctx context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.rsvps), nil
}

// ---- auth and notification fakes ----

type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }
func (fakeHasher) Hash(salt, password string) (string, error) {
	return "hash:" + salt + ":" + password, nil
}
func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != "hash:"+salt+":"+password {
		return fmt.Errorf("mismatch")
	}
	return nil
}

type issuedToken struct {
	accountID string
	role      domain.RoleName
}

type fakeIssuer struct {
	mu     sync.Mutex
	issued []issuedToken
}

func (f *fakeIssuer) Issue(accountID, email string, role domain.RoleName, expiry time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued = append(f.issued, issuedToken{accountID: accountID, role: role})
	return "jwt-" + accountID, nil
}

type accountNotice struct {
	account *domain.Account
	token   string
}

type rsvpNotice struct {
	accountID string
	eventID   string
	count     int
}

// fakeNotifier records notices. Calls are safe from multiple goroutines.
type fakeNotifier struct {
	mu       sync.Mutex
	accounts []accountNotice
	rsvps    []rsvpNotice
}

func (f *fakeNotifier) NotifyAccountCreated(ctx context.Context, account *domain.Account, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts = append(f.accounts, accountNotice{account: account, token: token})
}

func (f *fakeNotifier) NotifyRSVPConfirmed(ctx context.Context, account *domain.Account, event *domain.Event, count int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rsvps = append(f.rsvps, rsvpNotice{accountID: account.ID, eventID: event.ID, count: count})
}

func (f *fakeNotifier) rsvpNotices() []rsvpNotice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]rsvpNotice(nil), f.rsvps...)
}

var (
	_ domain.TxManager = (*memStore)(nil)
	_ domain.Notifier  = (*fakeNotifier)(nil)
)
