package usecase

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phenrril/tiendaropa/internal/adapters/repo/postgres"
	"github.com/phenrril/tiendaropa/internal/domain"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	retryBackoff = time.Millisecond
	os.Exit(m.Run())
}

type env struct {
	db        *gorm.DB
	products  *postgres.ProductRepo
	orders    *postgres.OrderRepo
	storage   *memStorage
	events    *recordingPublisher
	keys      *memKeys
	productUC *ProductUC
	orderUC   *OrderUC
	reportUC  *ReportUC
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, postgres.AutoMigrate(db))

	e := &env{
		db:       db,
		products: postgres.NewProductRepo(db),
		orders:   postgres.NewOrderRepo(db),
		storage:  newMemStorage(),
		events:   &recordingPublisher{},
		keys:     &memKeys{used: map[string]bool{}},
	}
	e.productUC = &ProductUC{Products: e.products, Storage: e.storage}
	e.orderUC = &OrderUC{
		Products:    e.products,
		Orders:      e.orders,
		Events:      e.events,
		Idempotency: e.keys,
		Now:         func() time.Time { return time.Date(2025, 5, 12, 14, 0, 0, 0, time.UTC) },
	}
	e.reportUC = &ReportUC{Orders: e.orders, Products: e.products, LowStockThreshold: DefaultLowStockThreshold}
	return e
}

func (e *env) createProduct(t *testing.T, name, price string, c domain.StockCounts) *domain.Product {
	t.Helper()
	p, err := e.productUC.Create(context.Background(), ProductInput{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: c,
	}, nil)
	require.NoError(t, err)
	return p
}

type memStorage struct {
	mu         sync.Mutex
	files      map[string][]byte
	trash      map[string][]byte
	failSave   bool
	failDelete bool
}

func newMemStorage() *memStorage {
	return &memStorage{files: map[string][]byte{}, trash: map[string][]byte{}}
}

func (s *memStorage) SaveImage(_ context.Context, filename string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return "", errors.New("disk full")
	}
	p := "/uploads/" + uuid.NewString() + "_" + filename
	s.files[p] = data
	return p, nil
}

func (s *memStorage) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDelete {
		return errors.New("permission denied")
	}
	delete(s.files, path)
	return nil
}

func (s *memStorage) Trash(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDelete {
		return errors.New("permission denied")
	}
	if data, ok := s.files[path]; ok {
		s.trash[path] = data
		delete(s.files, path)
	}
	return nil
}

func (s *memStorage) Restore(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if data, ok := s.trash[path]; ok {
		s.files[path] = data
		delete(s.trash, path)
	}
	return nil
}

func (s *memStorage) Purge(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.trash, path)
	return nil
}

func (s *memStorage) trashed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.trash)
}

func (s *memStorage) has(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[path]
	return ok
}

func (s *memStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.OrderPlaced
	err    error
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, e domain.OrderPlaced) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

type memKeys struct {
	mu   sync.Mutex
	used map[string]bool
}

func (k *memKeys) Reserve(_ context.Context, key string) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.used[key] {
		return false, nil
	}
	k.used[key] = true
	return true, nil
}

func (k *memKeys) Release(_ context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.used, key)
	return nil
}

// conflictingRepo devuelve ErrConcurrencyConflict las primeras n veces.
type conflictingRepo struct {
	domain.ProductRepo
	n     int
	calls int
}

func (r *conflictingRepo) PlaceOrder(ctx context.Context, id uint, fn func(*domain.Product) (*domain.Order, error)) (*domain.Order, error) {
	r.calls++
	if r.calls <= r.n {
		return nil, domain.ErrConcurrencyConflict
	}
	return r.ProductRepo.PlaceOrder(ctx, id, fn)
}

func (r *conflictingRepo) Update(ctx context.Context, id uint, fn func(*domain.Product) error) (*domain.Product, error) {
	r.calls++
	if r.calls <= r.n {
		return nil, domain.ErrConcurrencyConflict
	}
	return r.ProductRepo.Update(ctx, id, fn)
}

// commitFailingRepo corre fn como la transacción real pero devuelve un error
// de commit sin borrar nada.
type commitFailingRepo struct {
	domain.ProductRepo
}

func (r *commitFailingRepo) Delete(ctx context.Context, id uint, fn func(*domain.Product) error) error {
	p, err := r.ProductRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(p); err != nil {
		return err
	}
	return errors.New("commit failed: connection reset")
}
