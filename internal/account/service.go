// Package account implements CRUD over the grouped account document.
package account

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pysugar/account-tabs/internal/db/models"
	"github.com/pysugar/account-tabs/internal/logging"
	"github.com/pysugar/account-tabs/internal/parser"
	"github.com/pysugar/account-tabs/internal/store"
	"go.uber.org/zap"
)

var (
	ErrNotFound             = errors.New("account not found")
	ErrNoValidRecords       = errors.New("no valid accounts found")
	ErrUnknownGroup         = errors.New("unknown group")
	ErrIncompleteRecord     = errors.New("username, password and fullName are required")
	ErrInvalidAccountStatus = errors.New("invalid account status")
)

// Service applies account operations to a Store. Each mutating call is one
// read-modify-write of the whole document, serialized within the process.
type Service struct {
	store  store.Store
	logger *zap.Logger
	mu     sync.Mutex
}

// NewService returns a Service over s.
func NewService(s store.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: s, logger: logger}
}

// List returns the accounts of g sorted by createdAt, newest first.
func (s *Service) List(ctx context.Context, g models.Group) ([]models.Account, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	src := doc.Accounts(g)
	list := make([]models.Account, len(src))
	copy(list, src)
	SortByCreatedAt(list)
	return list, nil
}

// Search returns accounts of g whose username, full name or password contains
// query, case-insensitively. An empty query behaves like List.
func (s *Service) Search(ctx context.Context, g models.Group, query string) ([]models.Account, error) {
	list, err := s.List(ctx, g)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return list, nil
	}
	out := make([]models.Account, 0, len(list))
	for _, a := range list {
		if strings.Contains(strings.ToLower(a.Username), q) ||
			strings.Contains(strings.ToLower(a.FullName), q) ||
			strings.Contains(strings.ToLower(a.Password), q) {
			out = append(out, a)
		}
	}
	return out, nil
}

// BulkCreate appends every complete record to g with consecutive ids after the
// group's current maximum, using creation defaults.
func (s *Service) BulkCreate(ctx context.Context, g models.Group, records []parser.RawRecord) ([]models.Account, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, g)
	}

	valid := make([]parser.RawRecord, 0, len(records))
	for _, r := range records {
		if r.Complete() {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return nil, ErrNoValidRecords
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	list := doc.Accounts(g)
	nextID := maxID(list) + 1
	created := make([]models.Account, 0, len(valid))
	for _, r := range valid {
		a := r.Account()
		a.ID = nextID
		nextID++
		applyCreationDefaults(&a)
		created = append(created, a)
	}
	doc[g] = append(list, created...)

	if err := s.write(ctx, doc); err != nil {
		return nil, err
	}
	s.logger.Info("imported accounts",
		zap.String("group", string(g)),
		zap.Int("count", len(created)),
		zap.Int("first_id", created[0].ID),
		zap.String("request_id", logging.GetRequestID(ctx)))
	return created, nil
}

// Create adds a single account to g with the next id. The account keeps its
// provided fields; an empty accountStatus becomes idle.
func (s *Service) Create(ctx context.Context, g models.Group, a models.Account) (models.Account, error) {
	if !g.Valid() {
		return models.Account{}, fmt.Errorf("%w: %q", ErrUnknownGroup, g)
	}
	if !a.Complete() {
		return models.Account{}, ErrIncompleteRecord
	}
	if a.AccountStatus == "" {
		a.AccountStatus = models.StatusIdle
	} else if st, ok := models.ParseAccountStatus(string(a.AccountStatus)); ok {
		a.AccountStatus = st
	} else {
		return models.Account{}, fmt.Errorf("%w: %q", ErrInvalidAccountStatus, a.AccountStatus)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Read(ctx)
	if err != nil {
		return models.Account{}, fmt.Errorf("read document: %w", err)
	}
	list := doc.Accounts(g)
	a.ID = maxID(list) + 1
	doc[g] = append(list, a)

	if err := s.write(ctx, doc); err != nil {
		return models.Account{}, err
	}
	return a, nil
}

// Update merges patch into account id of g and returns the merged account.
func (s *Service) Update(ctx context.Context, g models.Group, id int, patch models.Patch) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Read(ctx)
	if err != nil {
		return models.Account{}, fmt.Errorf("read document: %w", err)
	}
	list := doc.Accounts(g)
	idx := indexOf(list, id)
	if idx < 0 {
		return models.Account{}, fmt.Errorf("%w: id %d in %s", ErrNotFound, id, g)
	}

	merged := list[idx].Clone()
	if err := patch.ApplyTo(&merged); err != nil {
		return models.Account{}, err
	}
	if _, ok := patch["accountStatus"]; ok && !patch.IsNull("accountStatus") {
		st, valid := models.ParseAccountStatus(string(merged.AccountStatus))
		if !valid {
			return models.Account{}, fmt.Errorf("%w: %q", ErrInvalidAccountStatus, merged.AccountStatus)
		}
		merged.AccountStatus = st
	}
	list[idx] = merged
	doc[g] = list

	if err := s.write(ctx, doc); err != nil {
		return models.Account{}, err
	}
	return merged, nil
}

// Delete removes account id from g, keeping the order of the rest.
func (s *Service) Delete(ctx context.Context, g models.Group, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Read(ctx)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	list := doc.Accounts(g)
	idx := indexOf(list, id)
	if idx < 0 {
		return fmt.Errorf("%w: id %d in %s", ErrNotFound, id, g)
	}
	doc[g] = append(list[:idx:idx], list[idx+1:]...)

	return s.write(ctx, doc)
}

// Clear removes every account of g and returns how many were removed.
func (s *Service) Clear(ctx context.Context, g models.Group) (int, error) {
	if !g.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownGroup, g)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Read(ctx)
	if err != nil {
		return 0, fmt.Errorf("read document: %w", err)
	}
	n := len(doc.Accounts(g))
	doc[g] = []models.Account{}

	if err := s.write(ctx, doc); err != nil {
		return 0, err
	}
	s.logger.Info("cleared accounts",
		zap.String("group", string(g)),
		zap.Int("count", n),
		zap.String("request_id", logging.GetRequestID(ctx)))
	return n, nil
}

// ClearAll empties every group and returns how many accounts were removed.
func (s *Service) ClearAll(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Read(ctx)
	if err != nil {
		return 0, fmt.Errorf("read document: %w", err)
	}
	n := 0
	for _, g := range models.Groups {
		n += len(doc.Accounts(g))
	}

	if err := s.write(ctx, models.NewDocument()); err != nil {
		return 0, err
	}
	s.logger.Info("cleared all accounts",
		zap.Int("count", n),
		zap.String("request_id", logging.GetRequestID(ctx)))
	return n, nil
}

// Counts returns the number of accounts in each fixed group.
func (s *Service) Counts(ctx context.Context) (map[models.Group]int, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	counts := make(map[models.Group]int, len(models.Groups))
	for _, g := range models.Groups {
		counts[g] = len(doc.Accounts(g))
	}
	return counts, nil
}

func (s *Service) write(ctx context.Context, doc models.Document) error {
	if err := s.store.Write(ctx, doc); err != nil {
		s.logger.Error("error writing document",
			zap.Error(err),
			zap.String("request_id", logging.GetRequestID(ctx)))
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

func applyCreationDefaults(a *models.Account) {
	a.BankName = nil
	a.Balance = 0
	a.AccountStatus = models.StatusIdle
}

func maxID(list []models.Account) int {
	m := 0
	for _, a := range list {
		if a.ID > m {
			m = a.ID
		}
	}
	return m
}

func indexOf(list []models.Account, id int) int {
	for i, a := range list {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// SortByCreatedAt orders accounts newest first. Accounts whose createdAt is
// missing or unparseable go after all dated ones; ties keep their order.
func SortByCreatedAt(list []models.Account) {
	type key struct {
		ok bool
		at int64
	}
	keys := make([]key, len(list))
	for i := range list {
		t, ok := ParseCreatedAt(list[i].CreatedAt)
		k := key{ok: ok}
		if ok {
			k.at = t.UnixNano()
		}
		keys[i] = k
	}

	idx := make([]int, len(list))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := keys[idx[i]], keys[idx[j]]
		if a.ok != b.ok {
			return a.ok
		}
		return a.at > b.at
	})

	sorted := make([]models.Account, len(list))
	for i, k := range idx {
		sorted[i] = list[k]
	}
	copy(list, sorted)
}
