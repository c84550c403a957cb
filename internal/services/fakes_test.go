package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"eventrsvp/internal/domain"
)

// memDB is the backing state shared by the in-memory repositories. It mirrors
// the constraints the real schema enforces (unique phones, partial unique
// guest indexes) so service tests exercise the same failure paths.
type memDB struct {
	mu sync.Mutex

	seq int

	users       map[string]*domain.User
	phoneStatus map[string]*phoneRow
	events      map[string]*domain.Event
	coHosts     map[string]map[string]bool
	groups      map[string]*domain.GuestGroup
	members     map[string][]*memberRow
	eventGroups []eventGroupRow
	inviteLinks []*domain.InviteLink
	guests      map[string]*domain.GuestRecord
	invites     map[string]*domain.Invite
	subEvents   map[string]*domain.SubEvent
	subGuests   []subGuestRow
}

type subGuestRow struct {
	subEventID string
	guestID    string
}

type phoneRow struct {
	verifiedAt time.Time
	consumedAt *time.Time
}

type memberRow struct {
	userID  string
	addedBy string
}

type eventGroupRow struct {
	eventID string
	groupID string
}

func newMemDB() *memDB {
	return &memDB{
		users:       map[string]*domain.User{},
		phoneStatus: map[string]*phoneRow{},
		events:      map[string]*domain.Event{},
		coHosts:     map[string]map[string]bool{},
		groups:      map[string]*domain.GuestGroup{},
		members:     map[string][]*memberRow{},
		guests:      map[string]*domain.GuestRecord{},
		invites:     map[string]*domain.Invite{},
		subEvents:   map[string]*domain.SubEvent{},
	}
}

func (db *memDB) nextID() string {
	db.seq++
	return fmt.Sprintf("id-%d", db.seq)
}

// fakeStore satisfies domain.Store over a memDB. RunTx runs the function
// against the same store; tests assert outcomes, not rollback mechanics.
type fakeStore struct {
	db *memDB
}

func newFakeStore() *fakeStore {
	return &fakeStore{db: newMemDB()}
}

func (s *fakeStore) Users() domain.UserRepository                  { return &fakeUserRepo{db: s.db} }
func (s *fakeStore) VerifiedPhones() domain.VerifiedPhoneRepository { return &fakePhoneRepo{db: s.db} }
func (s *fakeStore) Events() domain.EventRepository                { return &fakeEventRepo{db: s.db} }
func (s *fakeStore) Groups() domain.GuestGroupRepository           { return &fakeGroupRepo{db: s.db} }
func (s *fakeStore) Guests() domain.GuestRepository                { return &fakeGuestRepo{db: s.db} }
func (s *fakeStore) Invites() domain.InviteRepository              { return &fakeInviteRepo{db: s.db} }
func (s *fakeStore) SubEvents() domain.SubEventRepository          { return &fakeSubEventRepo{db: s.db} }

func (s *fakeStore) RunTx(ctx context.Context, fn func(ctx context.Context, st domain.Store) error) error {
	return fn(ctx, s)
}

// Seeding helpers keep test setup short.

func (s *fakeStore) seedUser(phone, name string, status domain.VerificationStatus) *domain.User {
	u := domain.NewUser(phone, name, "", status, time.Now(), time.Now())
	if err := s.Users().Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func (s *fakeStore) seedEvent(title, hostID string, startsAt time.Time) *domain.Event {
	e := domain.NewEvent(title, hostID, "", startsAt, time.Now(), time.Now())
	if err := s.Events().Create(context.Background(), e); err != nil {
		panic(err)
	}
	return e
}

func (s *fakeStore) seedGroup(name, createdBy, eventID string) *domain.GuestGroup {
	g := domain.NewGuestGroup(name, createdBy, time.Now(), time.Now())
	if err := s.Groups().Create(context.Background(), g); err != nil {
		panic(err)
	}
	if eventID != "" {
		if err := s.Groups().AttachEvent(context.Background(), eventID, g.ID); err != nil {
			panic(err)
		}
	}
	return g
}

type fakeUserRepo struct{ db *memDB }

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Phone == user.Phone {
			return domain.ErrAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = r.db.nextID()
	}
	cp := *user
	r.db.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *user
	r.db.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) SetVerificationStatus(_ context.Context, userID string, status domain.VerificationStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.VerificationStatus = status
	return nil
}

type fakePhoneRepo struct{ db *memDB }

func (r *fakePhoneRepo) Record(_ context.Context, phone string, verifiedAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.phoneStatus[phone] = &phoneRow{verifiedAt: verifiedAt}
	return nil
}

func (r *fakePhoneRepo) IsVerified(_ context.Context, phone string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	row, ok := r.db.phoneStatus[phone]
	return ok && row.consumedAt == nil, nil
}

func (r *fakePhoneRepo) Consume(_ context.Context, phone string, consumedAt time.Time) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	row, ok := r.db.phoneStatus[phone]
	if !ok || row.consumedAt != nil {
		return false, nil
	}
	row.consumedAt = &consumedAt
	return true, nil
}

type fakeEventRepo struct{ db *memDB }

func (r *fakeEventRepo) Create(_ context.Context, event *domain.Event) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if event.ID == "" {
		event.ID = r.db.nextID()
	}
	cp := *event
	r.db.events[event.ID] = &cp
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e, ok := r.db.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *domain.Event) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.events[event.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *event
	r.db.events[event.ID] = &cp
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.db.events, id)
	return nil
}

func (r *fakeEventRepo) AddCoHost(_ context.Context, eventID, userID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.coHosts[eventID] == nil {
		r.db.coHosts[eventID] = map[string]bool{}
	}
	if r.db.coHosts[eventID][userID] {
		return domain.ErrAlreadyExists
	}
	r.db.coHosts[eventID][userID] = true
	return nil
}

func (r *fakeEventRepo) RemoveCoHost(_ context.Context, eventID, userID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if !r.db.coHosts[eventID][userID] {
		return domain.ErrNotFound
	}
	delete(r.db.coHosts[eventID], userID)
	return nil
}

func (r *fakeEventRepo) ListByHost(_ context.Context, hostID string) ([]*domain.Event, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*domain.Event
	for _, e := range r.db.events {
		if e.HostID == hostID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sortEvents(out)
	return out, nil
}

func (r *fakeEventRepo) ListByCoHost(_ context.Context, userID string) ([]*domain.Event, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*domain.Event
	for eventID, users := range r.db.coHosts {
		if users[userID] {
			if e, ok := r.db.events[eventID]; ok {
				cp := *e
				out = append(out, &cp)
			}
		}
	}
	sortEvents(out)
	return out, nil
}

func (r *fakeEventRepo) ListByGuest(_ context.Context, userID string) ([]*domain.Event, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	seen := map[string]bool{}
	var out []*domain.Event
	for _, g := range r.db.guests {
		if g.Identity.Linked() && g.Identity.UserID == userID && !seen[g.EventID] {
			if e, ok := r.db.events[g.EventID]; ok {
				seen[g.EventID] = true
				cp := *e
				out = append(out, &cp)
			}
		}
	}
	sortEvents(out)
	return out, nil
}

func sortEvents(events []*domain.Event) {
	sort.Slice(events, func(i, j int) bool { return events[i].StartsAt.Before(events[j].StartsAt) })
}

func (r *fakeEventRepo) IsHostOrCoHost(_ context.Context, eventID, userID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if e, ok := r.db.events[eventID]; ok && e.HostID == userID {
		return true, nil
	}
	return r.db.coHosts[eventID][userID], nil
}

type fakeGroupRepo struct{ db *memDB }

func (r *fakeGroupRepo) Create(_ context.Context, g *domain.GuestGroup) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if g.ID == "" {
		g.ID = r.db.nextID()
	}
	cp := *g
	r.db.groups[g.ID] = &cp
	return nil
}

func (r *fakeGroupRepo) GetByID(_ context.Context, id string) (*domain.GuestGroup, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	g, ok := r.db.groups[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *fakeGroupRepo) Update(_ context.Context, g *domain.GuestGroup) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.groups[g.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *g
	r.db.groups[g.ID] = &cp
	return nil
}

func (r *fakeGroupRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.groups[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.db.groups, id)
	return nil
}

func (r *fakeGroupRepo) ListByEvent(_ context.Context, eventID string) ([]*domain.GuestGroup, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*domain.GuestGroup
	for _, eg := range r.db.eventGroups {
		if eg.eventID == eventID {
			if g, ok := r.db.groups[eg.groupID]; ok {
				cp := *g
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (r *fakeGroupRepo) AddMember(_ context.Context, groupID, userID, addedBy string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, m := range r.db.members[groupID] {
		if m.userID == userID {
			return domain.ErrAlreadyMember
		}
	}
	r.db.members[groupID] = append(r.db.members[groupID], &memberRow{userID: userID, addedBy: addedBy})
	return nil
}

func (r *fakeGroupRepo) RemoveMember(_ context.Context, groupID, userID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	rows := r.db.members[groupID]
	for i, m := range rows {
		if m.userID == userID {
			r.db.members[groupID] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeGroupRepo) ListMembers(_ context.Context, groupID string) ([]*domain.GroupMember, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*domain.GroupMember
	for _, m := range r.db.members[groupID] {
		u, ok := r.db.users[m.userID]
		if !ok {
			continue
		}
		out = append(out, &domain.GroupMember{
			GroupID:            groupID,
			UserID:             m.userID,
			AddedBy:            m.addedBy,
			Name:               u.Name,
			Phone:              u.Phone,
			Email:              u.Email,
			VerificationStatus: u.VerificationStatus,
		})
	}
	return out, nil
}

func (r *fakeGroupRepo) DeleteMembers(_ context.Context, groupID string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n := int64(len(r.db.members[groupID]))
	delete(r.db.members, groupID)
	return n, nil
}

func (r *fakeGroupRepo) AttachEvent(_ context.Context, eventID, groupID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, eg := range r.db.eventGroups {
		if eg.eventID == eventID && eg.groupID == groupID {
			return nil
		}
	}
	r.db.eventGroups = append(r.db.eventGroups, eventGroupRow{eventID: eventID, groupID: groupID})
	return nil
}

func (r *fakeGroupRepo) DetachEvents(_ context.Context, groupID string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var kept []eventGroupRow
	var n int64
	for _, eg := range r.db.eventGroups {
		if eg.groupID == groupID {
			n++
			continue
		}
		kept = append(kept, eg)
	}
	r.db.eventGroups = kept
	return n, nil
}

func (r *fakeGroupRepo) ListEventIDs(_ context.Context, groupID string) ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []string
	for _, eg := range r.db.eventGroups {
		if eg.groupID == groupID {
			out = append(out, eg.eventID)
		}
	}
	return out, nil
}

func (r *fakeGroupRepo) FirstEventID(_ context.Context, groupID string) (string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, eg := range r.db.eventGroups {
		if eg.groupID == groupID {
			return eg.eventID, nil
		}
	}
	return "", domain.ErrNotFound
}

func (r *fakeGroupRepo) CreateInviteLink(_ context.Context, l *domain.InviteLink) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if l.ID == "" {
		l.ID = r.db.nextID()
	}
	cp := *l
	r.db.inviteLinks = append(r.db.inviteLinks, &cp)
	return nil
}

func (r *fakeGroupRepo) GetInviteLinkByToken(_ context.Context, token string) (*domain.InviteLink, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, l := range r.db.inviteLinks {
		if l.Token == token {
			cp := *l
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeGroupRepo) DeleteInviteLinks(_ context.Context, groupID string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var kept []*domain.InviteLink
	var n int64
	for _, l := range r.db.inviteLinks {
		if l.GroupID == groupID {
			n++
			continue
		}
		kept = append(kept, l)
	}
	r.db.inviteLinks = kept
	return n, nil
}

type fakeGuestRepo struct{ db *memDB }

func (r *fakeGuestRepo) conflicts(g *domain.GuestRecord) bool {
	for _, other := range r.db.guests {
		if other.ID == g.ID || other.EventID != g.EventID {
			continue
		}
		if g.Identity.Linked() && other.Identity.UserID == g.Identity.UserID && other.Identity.Linked() {
			return true
		}
		if !g.Identity.Linked() && !other.Identity.Linked() &&
			other.GroupID == g.GroupID && other.Identity.Phone == g.Identity.Phone {
			return true
		}
	}
	return false
}

func (r *fakeGuestRepo) Create(_ context.Context, g *domain.GuestRecord) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.conflicts(g) {
		return domain.ErrConflict
	}
	if g.ID == "" {
		g.ID = r.db.nextID()
	}
	cp := *g
	r.db.guests[g.ID] = &cp
	return nil
}

func (r *fakeGuestRepo) CreateLinkedIfAbsent(_ context.Context, g *domain.GuestRecord) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, other := range r.db.guests {
		if other.EventID == g.EventID && other.Identity.Linked() && other.Identity.UserID == g.Identity.UserID {
			return false, nil
		}
	}
	if g.ID == "" {
		g.ID = r.db.nextID()
	}
	cp := *g
	r.db.guests[g.ID] = &cp
	return true, nil
}

func (r *fakeGuestRepo) GetByID(_ context.Context, id string) (*domain.GuestRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	g, ok := r.db.guests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *fakeGuestRepo) GetByEventAndUser(_ context.Context, eventID, userID string) (*domain.GuestRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, g := range r.db.guests {
		if g.EventID == eventID && g.Identity.UserID == userID && g.Identity.Linked() {
			cp := *g
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeGuestRepo) GetUnlinked(_ context.Context, eventID, groupID, phone string) (*domain.GuestRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, g := range r.db.guests {
		if g.EventID == eventID && g.GroupID == groupID && !g.Identity.Linked() && g.Identity.Phone == phone {
			cp := *g
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeGuestRepo) ListUnlinkedByPhone(_ context.Context, phone string) ([]*domain.GuestRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*domain.GuestRecord
	for _, g := range r.db.guests {
		if !g.Identity.Linked() && g.Identity.Phone == phone {
			cp := *g
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeGuestRepo) Link(_ context.Context, guestID, userID string, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	g, ok := r.db.guests[guestID]
	if !ok || g.Identity.Linked() {
		return domain.ErrNotFound
	}
	for _, other := range r.db.guests {
		if other.ID != guestID && other.EventID == g.EventID && other.Identity.Linked() && other.Identity.UserID == userID {
			return domain.ErrConflict
		}
	}
	g.Identity = domain.LinkedIdentity(userID)
	g.UpdatedAt = at
	return nil
}

func (r *fakeGuestRepo) Update(_ context.Context, g *domain.GuestRecord) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.guests[g.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *g
	r.db.guests[g.ID] = &cp
	return nil
}

func (r *fakeGuestRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.guests[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.db.guests, id)
	return nil
}

func (r *fakeGuestRepo) ClearGroup(_ context.Context, groupID string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, g := range r.db.guests {
		if g.GroupID == groupID {
			g.GroupID = ""
			n++
		}
	}
	return n, nil
}

func (r *fakeGuestRepo) ClearGroupForUser(_ context.Context, groupID, userID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, g := range r.db.guests {
		if g.GroupID == groupID && g.Identity.UserID == userID {
			g.GroupID = ""
		}
	}
	return nil
}

func (r *fakeGuestRepo) ListByEvent(_ context.Context, eventID string, f domain.GuestListFilters) ([]*domain.GuestRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*domain.GuestRecord
	for _, g := range r.db.guests {
		if g.EventID != eventID {
			continue
		}
		if f.RSVP != "" && g.RSVP != f.RSVP {
			continue
		}
		if f.Food != "" && g.Food != f.Food {
			continue
		}
		if f.Alcohol != "" && g.Alcohol != f.Alcohol {
			continue
		}
		if f.Accommodation != "" && g.Accommodation != f.Accommodation {
			continue
		}
		if f.GroupID != "" && g.GroupID != f.GroupID {
			continue
		}
		if f.Linked != nil && g.Identity.Linked() != *f.Linked {
			continue
		}
		cp := *g
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeGuestRepo) ListByUser(_ context.Context, userID string) ([]*domain.GuestRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*domain.GuestRecord
	for _, g := range r.db.guests {
		if g.Identity.UserID == userID && g.Identity.Linked() {
			cp := *g
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeGuestRepo) SummaryByEvent(_ context.Context, eventID string) ([]*domain.RSVPSummaryRow, *domain.RSVPTotals, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	buckets := map[string]*domain.RSVPSummaryRow{}
	totals := &domain.RSVPTotals{}
	for _, g := range r.db.guests {
		if g.EventID != eventID {
			continue
		}
		key := fmt.Sprintf("%s|%s|%s|%s", g.RSVP, g.Food, g.Alcohol, g.Accommodation)
		row, ok := buckets[key]
		if !ok {
			row = &domain.RSVPSummaryRow{RSVP: g.RSVP, Food: g.Food, Alcohol: g.Alcohol, Accommodation: g.Accommodation}
			buckets[key] = row
		}
		row.Guests++
		row.Seats += g.Count
		totals.TotalInvited++
		if g.RSVP == domain.RSVPAccepted {
			totals.TotalConfirmed += g.Count
		}
	}
	var rows []*domain.RSVPSummaryRow
	for _, row := range buckets {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].RSVP < rows[j].RSVP })
	return rows, totals, nil
}

type fakeInviteRepo struct{ db *memDB }

func (r *fakeInviteRepo) Create(_ context.Context, inv *domain.Invite) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, other := range r.db.invites {
		if other.EventID == inv.EventID && other.Phone == inv.Phone {
			return domain.ErrAlreadyExists
		}
	}
	if inv.ID == "" {
		inv.ID = r.db.nextID()
	}
	cp := *inv
	r.db.invites[inv.ID] = &cp
	return nil
}

func (r *fakeInviteRepo) ListByEvent(_ context.Context, eventID string) ([]*domain.Invite, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*domain.Invite
	for _, inv := range r.db.invites {
		if inv.EventID == eventID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeInviteRepo) DeleteByGroup(_ context.Context, groupID string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for id, inv := range r.db.invites {
		if inv.GroupID == groupID {
			delete(r.db.invites, id)
			n++
		}
	}
	return n, nil
}

type fakeSubEventRepo struct{ db *memDB }

func (r *fakeSubEventRepo) Create(_ context.Context, s *domain.SubEvent) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if s.ID == "" {
		s.ID = r.db.nextID()
	}
	cp := *s
	r.db.subEvents[s.ID] = &cp
	return nil
}

func (r *fakeSubEventRepo) GetByID(_ context.Context, id string) (*domain.SubEvent, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.subEvents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSubEventRepo) ListByEvent(_ context.Context, eventID string) ([]*domain.SubEvent, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*domain.SubEvent
	for _, s := range r.db.subEvents {
		if s.EventID == eventID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (r *fakeSubEventRepo) Update(_ context.Context, s *domain.SubEvent) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.subEvents[s.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *s
	r.db.subEvents[s.ID] = &cp
	return nil
}

func (r *fakeSubEventRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.subEvents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.db.subEvents, id)
	var kept []subGuestRow
	for _, sg := range r.db.subGuests {
		if sg.subEventID != id {
			kept = append(kept, sg)
		}
	}
	r.db.subGuests = kept
	return nil
}

func (r *fakeSubEventRepo) AddGuest(_ context.Context, subEventID, guestID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, sg := range r.db.subGuests {
		if sg.subEventID == subEventID && sg.guestID == guestID {
			return domain.ErrAlreadyExists
		}
	}
	r.db.subGuests = append(r.db.subGuests, subGuestRow{subEventID: subEventID, guestID: guestID})
	return nil
}

func (r *fakeSubEventRepo) RemoveGuest(_ context.Context, subEventID, guestID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, sg := range r.db.subGuests {
		if sg.subEventID == subEventID && sg.guestID == guestID {
			r.db.subGuests = append(r.db.subGuests[:i], r.db.subGuests[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeSubEventRepo) ListGuests(_ context.Context, subEventID string) ([]*domain.GuestRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*domain.GuestRecord
	for _, sg := range r.db.subGuests {
		if sg.subEventID != subEventID {
			continue
		}
		if g, ok := r.db.guests[sg.guestID]; ok {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakeOTP records sends and answers Verify from canned fields.
type fakeOTP struct {
	sentTo    []string
	sendErr   error
	approved  bool
	verifyErr error
}

func (f *fakeOTP) Send(_ context.Context, phone string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sentTo = append(f.sentTo, phone)
	return nil
}

func (f *fakeOTP) Verify(_ context.Context, phone, code string) (bool, error) {
	if f.verifyErr != nil {
		return false, f.verifyErr
	}
	return f.approved, nil
}

type fakeTokens struct{}

func (fakeTokens) Issue(userID string, _ time.Duration) (string, error) {
	return "token-for-" + userID, nil
}

// fakeStorage records uploads and returns a deterministic URL per key.
type fakeStorage struct {
	uploads map[string][]byte
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: map[string][]byte{}}
}

func (f *fakeStorage) Upload(_ context.Context, data []byte, key, _ string) (string, error) {
	f.uploads[key] = data
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}
