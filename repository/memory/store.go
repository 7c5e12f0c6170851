// Package memory provides in-memory repository implementations backing the
// use case test suites. Semantics mirror the postgres repositories, including
// atomic claim and close transitions.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/motivatchi/backend/domain"
	"github.com/motivatchi/backend/repository"
)

// Store holds every collection behind one mutex so cross-repo invariants
// (e.g. usernames on completion counts) stay consistent.
type Store struct {
	mu             sync.Mutex
	accounts       map[string]*domain.Account
	follows        map[string]map[string]bool
	pets           map[string]*domain.Pet
	tasks          map[string]*domain.Task
	challenges     map[string]*domain.WeeklyChallenge
	participations map[string]*domain.ChallengeParticipation
	events         map[string]*domain.Event
	results        map[string]repository.EventResult
	notifications  []*domain.Notification
	sessions       map[string]*domain.Session
}

func NewStore() *Store {
	return &Store{
		accounts:       make(map[string]*domain.Account),
		follows:        make(map[string]map[string]bool),
		pets:           make(map[string]*domain.Pet),
		tasks:          make(map[string]*domain.Task),
		challenges:     make(map[string]*domain.WeeklyChallenge),
		participations: make(map[string]*domain.ChallengeParticipation),
		events:         make(map[string]*domain.Event),
		results:        make(map[string]repository.EventResult),
		sessions:       make(map[string]*domain.Session),
	}
}

func (s *Store) Accounts() repository.AccountRepository           { return accountRepo{s} }
func (s *Store) Follows() repository.FollowRepository             { return followRepo{s} }
func (s *Store) Pets() repository.PetRepository                   { return petRepo{s} }
func (s *Store) Tasks() repository.TaskRepository                 { return taskRepo{s} }
func (s *Store) Challenges() repository.ChallengeRepository       { return challengeRepo{s} }
func (s *Store) Events() repository.EventRepository               { return eventRepo{s} }
func (s *Store) Notifications() repository.NotificationRepository { return notificationRepo{s} }
func (s *Store) Sessions() repository.SessionRepository           { return sessionRepo{s} }

type accountRepo struct{ s *Store }

func (r accountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	account, ok := r.s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

func (r accountRepo) GetByUsername(_ context.Context, username string) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, account := range r.s.accounts {
		if account.Username == username {
			copied := *account
			return &copied, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r accountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.accounts {
		if existing.Username == account.Username {
			return nil, domain.ErrUsernameTaken
		}
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	copied := *account
	r.s.accounts[account.ID] = &copied
	return account, nil
}

func (r accountRepo) AdjustCoins(_ context.Context, id string, delta int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	account, ok := r.s.accounts[id]
	if !ok {
		return 0, domain.ErrAccountNotFound
	}
	account.Coins += delta
	if account.Coins < 0 {
		account.Coins = 0
	}
	return account.Coins, nil
}

func (r accountRepo) SpendCoins(_ context.Context, id string, amount int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	account, ok := r.s.accounts[id]
	if !ok {
		return 0, domain.ErrAccountNotFound
	}
	if account.Coins < amount {
		return 0, domain.ErrNotEnoughCoins
	}
	account.Coins -= amount
	return account.Coins, nil
}

type followRepo struct{ s *Store }

func (r followRepo) Follow(_ context.Context, follower, followee string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.follows[follower] == nil {
		r.s.follows[follower] = make(map[string]bool)
	}
	if r.s.follows[follower][followee] {
		return false, nil
	}
	r.s.follows[follower][followee] = true
	return true, nil
}

func (r followRepo) Unfollow(_ context.Context, follower, followee string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.follows[follower][followee] {
		return false, nil
	}
	delete(r.s.follows[follower], followee)
	return true, nil
}

func (r followRepo) IsFollowing(_ context.Context, follower, followee string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.follows[follower][followee], nil
}

func (r followRepo) Following(_ context.Context, username string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]string, 0, len(r.s.follows[username]))
	for followee := range r.s.follows[username] {
		out = append(out, followee)
	}
	sort.Strings(out)
	return out, nil
}

func (r followRepo) Followers(_ context.Context, username string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []string
	for follower, followees := range r.s.follows {
		if followees[username] {
			out = append(out, follower)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r followRepo) Mutuals(_ context.Context, username string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []string
	for followee := range r.s.follows[username] {
		if r.s.follows[followee][username] {
			out = append(out, followee)
		}
	}
	sort.Strings(out)
	return out, nil
}

type petRepo struct{ s *Store }

func (r petRepo) GetByAccount(_ context.Context, accountID string) (*domain.Pet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	pet, ok := r.s.pets[accountID]
	if !ok {
		return nil, domain.ErrPetNotFound
	}
	copied := *pet
	copied.UnlockedOutfits = append([]int(nil), pet.UnlockedOutfits...)
	return &copied, nil
}

func (r petRepo) Create(_ context.Context, pet *domain.Pet) (*domain.Pet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if pet.ID == "" {
		pet.ID = uuid.NewString()
	}
	pet.CreatedAt = time.Now()
	pet.UpdatedAt = pet.CreatedAt
	copied := *pet
	copied.UnlockedOutfits = append([]int(nil), pet.UnlockedOutfits...)
	r.s.pets[pet.AccountID] = &copied
	return pet, nil
}

func (r petRepo) Update(_ context.Context, pet *domain.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.pets[pet.AccountID]
	if !ok || stored.ID != pet.ID {
		return domain.ErrPetNotFound
	}
	copied := *pet
	copied.UnlockedOutfits = append([]int(nil), pet.UnlockedOutfits...)
	copied.UpdatedAt = time.Now()
	r.s.pets[pet.AccountID] = &copied
	return nil
}

type taskRepo struct{ s *Store }

func (r taskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	task, ok := r.s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (r taskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Task
	for _, task := range r.s.tasks {
		if matchesFilter(task, filter) {
			out = append(out, *task)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func matchesFilter(task *domain.Task, filter repository.TaskFilter) bool {
	if filter.AccountID != "" && task.AccountID != filter.AccountID {
		return false
	}
	if filter.Status != "" && task.Status != filter.Status {
		return false
	}
	if len(filter.Statuses) > 0 {
		found := false
		for _, status := range filter.Statuses {
			if task.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.CompletedAfter != nil && (task.CompletedAt == nil || task.CompletedAt.Before(*filter.CompletedAfter)) {
		return false
	}
	if filter.CompletedBefore != nil && (task.CompletedAt == nil || task.CompletedAt.After(*filter.CompletedBefore)) {
		return false
	}
	if filter.DeadlineAfter != nil && (task.Deadline == nil || task.Deadline.Before(*filter.DeadlineAfter)) {
		return false
	}
	if filter.DeadlineBefore != nil && (task.Deadline == nil || task.Deadline.After(*filter.DeadlineBefore)) {
		return false
	}
	return true
}

func (r taskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	copied := *task
	r.s.tasks[task.ID] = &copied
	return task, nil
}

func (r taskRepo) Update(_ context.Context, task *domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	copied := *task
	copied.UpdatedAt = time.Now()
	r.s.tasks[task.ID] = &copied
	return nil
}

func (r taskRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

func (r taskRepo) CountCompleted(_ context.Context, accountIDs []string, priority string, from, to time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make(map[string]bool, len(accountIDs))
	for _, id := range accountIDs {
		ids[id] = true
	}
	count := 0
	for _, task := range r.s.tasks {
		if task.Status != domain.TaskCompleted || task.CompletedAt == nil {
			continue
		}
		if !ids[task.AccountID] {
			continue
		}
		if !strings.EqualFold(task.Priority, priority) {
			continue
		}
		if task.CompletedAt.Before(from) || task.CompletedAt.After(to) {
			continue
		}
		count++
	}
	return count, nil
}

func (r taskRepo) CompletionCounts(_ context.Context, from, to time.Time) ([]repository.CompletionCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := make(map[string]int)
	for _, task := range r.s.tasks {
		if task.Status != domain.TaskCompleted || task.CompletedAt == nil {
			continue
		}
		if task.CompletedAt.Before(from) || task.CompletedAt.After(to) {
			continue
		}
		counts[task.AccountID]++
	}
	out := make([]repository.CompletionCount, 0, len(counts))
	for accountID, count := range counts {
		entry := repository.CompletionCount{AccountID: accountID, Count: count}
		if account, ok := r.s.accounts[accountID]; ok {
			entry.Username = account.Username
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].AccountID < out[j].AccountID
	})
	return out, nil
}

type challengeRepo struct{ s *Store }

func (r challengeRepo) GetOrCreate(_ context.Context, candidate *domain.WeeklyChallenge) (*domain.WeeklyChallenge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.challenges {
		if existing.WeekStart.Equal(candidate.WeekStart) {
			copied := *existing
			return &copied, nil
		}
	}
	if candidate.ID == "" {
		candidate.ID = uuid.NewString()
	}
	candidate.CreatedAt = time.Now()
	copied := *candidate
	r.s.challenges[candidate.ID] = &copied
	return candidate, nil
}

func participationKey(challengeID, accountID string) string {
	return challengeID + "|" + accountID
}

func (r challengeRepo) Join(_ context.Context, challengeID, accountID string) (*domain.ChallengeParticipation, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.challenges[challengeID]; !ok {
		return nil, false, domain.ErrChallengeNotFound
	}
	key := participationKey(challengeID, accountID)
	if existing, ok := r.s.participations[key]; ok {
		copied := *existing
		return &copied, false, nil
	}
	participation := &domain.ChallengeParticipation{
		ID:          uuid.NewString(),
		ChallengeID: challengeID,
		AccountID:   accountID,
		JoinedAt:    time.Now(),
	}
	r.s.participations[key] = participation
	copied := *participation
	return &copied, true, nil
}

func (r challengeRepo) GetParticipation(_ context.Context, challengeID, accountID string) (*domain.ChallengeParticipation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	participation, ok := r.s.participations[participationKey(challengeID, accountID)]
	if !ok {
		return nil, domain.ErrChallengeNotFound
	}
	copied := *participation
	return &copied, nil
}

func (r challengeRepo) Participants(_ context.Context, challengeID string) ([]repository.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []repository.Participant
	for _, participation := range r.s.participations {
		if participation.ChallengeID != challengeID {
			continue
		}
		entry := repository.Participant{AccountID: participation.AccountID}
		if account, ok := r.s.accounts[participation.AccountID]; ok {
			entry.Username = account.Username
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out, nil
}

func (r challengeRepo) ClaimReward(_ context.Context, challengeID, accountID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	participation, ok := r.s.participations[participationKey(challengeID, accountID)]
	if !ok {
		return false, domain.ErrChallengeNotFound
	}
	if participation.RewardClaimed {
		return false, nil
	}
	participation.RewardClaimed = true
	return true, nil
}

type eventRepo struct{ s *Store }

func (r eventRepo) Current(_ context.Context, now time.Time) (*domain.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var latest *domain.Event
	for _, event := range r.s.events {
		if now.Before(event.StartsAt) {
			continue
		}
		if latest == nil || event.StartsAt.After(latest.StartsAt) {
			latest = event
		}
	}
	if latest == nil {
		return nil, domain.ErrEventNotFound
	}
	copied := *latest
	return &copied, nil
}

func (r eventRepo) Due(_ context.Context, now time.Time) ([]domain.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Event
	for _, event := range r.s.events {
		if event.IsActive && !now.Before(event.EndsAt) {
			out = append(out, *event)
		}
	}
	return out, nil
}

func (r eventRepo) Close(_ context.Context, id string, result repository.EventResult) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	event, ok := r.s.events[id]
	if !ok {
		return false, domain.ErrEventNotFound
	}
	if !event.IsActive {
		return false, nil
	}
	event.IsActive = false
	r.s.results[id] = result
	return true, nil
}

func (r eventRepo) Result(_ context.Context, id string) (*repository.EventResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result, ok := r.s.results[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	copied := result
	return &copied, nil
}

func (r eventRepo) Create(_ context.Context, event *domain.Event) (*domain.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.CreatedAt = time.Now()
	copied := *event
	r.s.events[event.ID] = &copied
	return event, nil
}

type notificationRepo struct{ s *Store }

func (r notificationRepo) Create(_ context.Context, notification *domain.Notification) (*domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	copied := *notification
	r.s.notifications = append(r.s.notifications, &copied)
	return notification, nil
}

func (r notificationRepo) ListByAccount(_ context.Context, accountID string) ([]domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Notification
	for i := len(r.s.notifications) - 1; i >= 0; i-- {
		if r.s.notifications[i].AccountID == accountID {
			out = append(out, *r.s.notifications[i])
		}
	}
	return out, nil
}

func (r notificationRepo) MarkRead(_ context.Context, id, accountID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, notification := range r.s.notifications {
		if notification.ID == id && notification.AccountID == accountID {
			notification.IsRead = true
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

type sessionRepo struct{ s *Store }

func (r sessionRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session, ok := r.s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (r sessionRepo) Save(_ context.Context, session *domain.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	copied := *session
	r.s.sessions[session.ID] = &copied
	return nil
}

func (r sessionRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sessions, id)
	return nil
}

func (r sessionRepo) Extend(_ context.Context, id string, ttlSeconds int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session, ok := r.s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.ExpiresAt = session.ExpiresAt.Add(time.Duration(ttlSeconds) * time.Second)
	return nil
}
