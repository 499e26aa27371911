package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/detalhesstore/detalhes-backend/internal/backend"
	"github.com/detalhesstore/detalhes-backend/internal/localcache"
	"github.com/detalhesstore/detalhes-backend/pkg/config"
	"github.com/detalhesstore/detalhes-backend/pkg/db/models"
	"github.com/detalhesstore/detalhes-backend/pkg/logger"
	"github.com/detalhesstore/detalhes-backend/pkg/security"
	"github.com/detalhesstore/detalhes-backend/pkg/types"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type stubRemote struct {
	mu          sync.Mutex
	settingsRaw json.RawMessage
	products    []models.Product
	admins      []models.AdminUser
	analytics   *models.Analytics
	content     backend.ContentTables
	fail        bool

	savedSettings  []types.StoreSettings
	savedProducts  [][]models.Product
	savedAdmins    [][]models.AdminUser
	savedAnalytics []models.Analytics
	contentSyncs   int
}

var errRemoteDown = errors.New("remote unavailable")

func (r *stubRemote) LoadSettings(ctx context.Context) (json.RawMessage, error) {
	if r.fail {
		return nil, errRemoteDown
	}
	return r.settingsRaw, nil
}

func (r *stubRemote) SaveSettings(ctx context.Context, settings types.StoreSettings) error {
	if r.fail {
		return errRemoteDown
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.savedSettings = append(r.savedSettings, settings)
	return nil
}

func (r *stubRemote) SyncContentTables(ctx context.Context, settings types.StoreSettings) error {
	if r.fail {
		return errRemoteDown
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contentSyncs++
	return nil
}

func (r *stubRemote) LoadProducts(ctx context.Context) ([]models.Product, error) {
	if r.fail {
		return nil, errRemoteDown
	}
	return r.products, nil
}

func (r *stubRemote) SaveProducts(ctx context.Context, products []models.Product) error {
	if r.fail {
		return errRemoteDown
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.savedProducts = append(r.savedProducts, products)
	return nil
}

func (r *stubRemote) LoadAdmins(ctx context.Context) ([]models.AdminUser, error) {
	if r.fail {
		return nil, errRemoteDown
	}
	return r.admins, nil
}

func (r *stubRemote) SaveAdmins(ctx context.Context, admins []models.AdminUser) error {
	if r.fail {
		return errRemoteDown
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.savedAdmins = append(r.savedAdmins, admins)
	return nil
}

func (r *stubRemote) LoadAnalytics(ctx context.Context) (*models.Analytics, error) {
	if r.fail {
		return nil, errRemoteDown
	}
	return r.analytics, nil
}

func (r *stubRemote) SaveAnalytics(ctx context.Context, analytics models.Analytics) error {
	if r.fail {
		return errRemoteDown
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.savedAnalytics = append(r.savedAnalytics, analytics)
	return nil
}

func (r *stubRemote) LoadContentTables(ctx context.Context) (backend.ContentTables, error) {
	if r.fail {
		return backend.ContentTables{}, errRemoteDown
	}
	return r.content, nil
}

type stubSessions struct {
	mu      sync.Mutex
	saved   map[string]models.AdminUser
	revoked []string
}

func newStubSessions() *stubSessions {
	return &stubSessions{saved: map[string]models.AdminUser{}}
}

func (s *stubSessions) Save(ctx context.Context, tokenID string, admin models.AdminUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[tokenID] = admin
	return nil
}

func (s *stubSessions) Revoke(ctx context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.saved, tokenID)
	s.revoked = append(s.revoked, tokenID)
	return nil
}

type stubVisits struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newStubVisits() *stubVisits {
	return &stubVisits{seen: map[string]bool{}}
}

func (v *stubVisits) MarkVisited(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.seen[sessionID] {
		return false, nil
	}
	v.seen[sessionID] = true
	return true, nil
}

type testEnv struct {
	store    *Store
	remote   *stubRemote
	cache    *localcache.Store
	sessions *stubSessions
	visits   *stubVisits
}

func newTestEnv(t *testing.T, remote *stubRemote) *testEnv {
	t.Helper()

	cache, err := localcache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })

	sessions := newStubSessions()
	visits := newStubVisits()

	deps := Deps{
		Config: config.StoreConfig{
			NotificationTTL: time.Second,
			VisitSessionTTL: 30 * time.Minute,
		},
		JWT: config.JWTConfig{
			Secret:            "test-secret",
			Issuer:            "detalhes-api",
			ExpirationMinutes: 30,
		},
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Cache:    cache,
		Sessions: sessions,
		Visits:   visits,
	}
	if remote != nil {
		deps.Remote = remote
	}

	st := New(deps)
	t.Cleanup(st.Flush)

	return &testEnv{
		store:    st,
		remote:   remote,
		cache:    cache,
		sessions: sessions,
		visits:   visits,
	}
}

func TestAddToCartAccumulates(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := env.store.AddToCart(ctx, "1"); err != nil {
			t.Fatalf("add to cart: %v", err)
		}
	}

	cart := env.store.Cart()
	if len(cart) != 1 {
		t.Fatalf("expected one cart entry, got %d", len(cart))
	}
	if cart[0].ProductID != "1" || cart[0].Quantity != 3 {
		t.Fatalf("expected product 1 with quantity 3, got %+v", cart[0])
	}

	if got := env.store.Analytics().AddedToCart; got != 3 {
		t.Fatalf("expected addedToCart counter 3, got %d", got)
	}
}

func TestAddToCartUnknownProduct(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	if err := env.store.AddToCart(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown product")
	}
	if len(env.store.Cart()) != 0 {
		t.Fatal("expected cart unchanged after refused add")
	}
}

func TestUpdateCartQuantityFloor(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	ctx := context.Background()

	for _, qty := range []int{0, -5} {
		if err := env.store.AddToCart(ctx, "1"); err != nil {
			t.Fatalf("add to cart: %v", err)
		}
		env.store.UpdateCartQuantity(ctx, "1", qty)
		if got := env.store.Cart(); len(got) != 0 {
			t.Fatalf("quantity %d: expected empty cart, got %+v", qty, got)
		}
	}

	if err := env.store.AddToCart(ctx, "1"); err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	env.store.UpdateCartQuantity(ctx, "1", 5)
	cart := env.store.Cart()
	if len(cart) != 1 || cart[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %+v", cart)
	}
}

func TestCartSummaryFreeShippingBoundary(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	ctx := context.Background()

	settings := env.store.Settings()
	settings.FreeShippingThreshold = decimal.NewFromInt(100)
	env.store.SetSettings(ctx, settings)

	product, err := env.store.AddProduct(ctx, models.Product{
		Name:   "Brinco Ponto de Luz",
		Price:  decimal.NewFromInt(50),
		Images: pq.StringArray{"https://example.com/brinco.jpg"},
	})
	if err != nil {
		t.Fatalf("add product: %v", err)
	}

	if err := env.store.AddToCart(ctx, product.ID); err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	env.store.UpdateCartQuantity(ctx, product.ID, 2)

	summary := env.store.CartSummary()
	if !summary.Subtotal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected subtotal 100, got %s", summary.Subtotal)
	}
	if !summary.FreeShipping {
		t.Fatal("expected free shipping at exactly the threshold")
	}

	env.store.UpdateCartQuantity(ctx, product.ID, 1)
	if env.store.CartSummary().FreeShipping {
		t.Fatal("expected no free shipping below the threshold")
	}
}

func TestRecordEventCounters(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	ctx := context.Background()

	before, err := env.store.Product("1")
	if err != nil {
		t.Fatalf("lookup seed product: %v", err)
	}

	if err := env.store.RecordEvent(ctx, EventView, "1"); err != nil {
		t.Fatalf("record event: %v", err)
	}

	analytics := env.store.Analytics()
	if analytics.ProductViews != 1 {
		t.Fatalf("expected productViews 1, got %d", analytics.ProductViews)
	}
	if analytics.AddedToCart != 0 || analytics.WhatsAppCheckouts != 0 {
		t.Fatalf("expected other counters untouched, got %+v", analytics)
	}

	after, err := env.store.Product("1")
	if err != nil {
		t.Fatalf("lookup product after event: %v", err)
	}
	if after.ViewCount != before.ViewCount+1 {
		t.Fatalf("expected viewCount %d, got %d", before.ViewCount+1, after.ViewCount)
	}

	if err := env.store.RecordEvent(ctx, "invalid", ""); err == nil {
		t.Fatal("expected validation error for unknown event type")
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	ctx := context.Background()

	token, admin, err := env.store.Login(ctx, "admin", "admin")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" || admin == nil {
		t.Fatal("expected token and admin on valid credentials")
	}
	if admin.ID != models.DefaultAdminID {
		t.Fatalf("expected default admin, got %s", admin.ID)
	}
	if len(env.sessions.saved) != 1 {
		t.Fatalf("expected one registered session, got %d", len(env.sessions.saved))
	}

	// Case-differing username still matches.
	if _, admin, err := env.store.Login(ctx, "Admin", "admin"); err != nil || admin == nil {
		t.Fatalf("expected case-insensitive username match, admin=%v err=%v", admin, err)
	}

	if err := env.store.Logout(ctx, ""); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if env.store.Admin() != nil {
		t.Fatal("expected admin cleared after logout")
	}

	token, admin, err = env.store.Login(ctx, "admin", "wrong")
	if err != nil {
		t.Fatalf("login with bad password: %v", err)
	}
	if token != "" || admin != nil {
		t.Fatal("expected rejected credentials to yield no session")
	}
	if env.store.Admin() != nil {
		t.Fatal("expected active admin unset after failed login")
	}
}

func TestDeleteAdminUserGuards(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	ctx := context.Background()

	if err := env.store.DeleteAdminUser(ctx, models.DefaultAdminID, ""); err == nil {
		t.Fatal("expected refusal deleting the default admin")
	}
	if got := len(env.store.AdminUsers()); got != 1 {
		t.Fatalf("expected admin list unchanged, got %d entries", got)
	}
	if !hasNotification(env.store, "Operação não permitida.") {
		t.Fatal("expected refusal notification")
	}

	created, err := env.store.CreateAdminUser(ctx, "Vendedora", "segredo", models.RoleEditor)
	if err != nil {
		t.Fatalf("create admin user: %v", err)
	}
	if created.Username != "vendedora" {
		t.Fatalf("expected normalized username, got %q", created.Username)
	}

	if err := env.store.DeleteAdminUser(ctx, created.ID, created.ID); err == nil {
		t.Fatal("expected refusal deleting one's own account")
	}

	if err := env.store.DeleteAdminUser(ctx, created.ID, models.DefaultAdminID); err != nil {
		t.Fatalf("delete admin user: %v", err)
	}
	if got := len(env.store.AdminUsers()); got != 1 {
		t.Fatalf("expected only the default admin left, got %d", got)
	}
	if !hasNotification(env.store, "Administrador removido.") {
		t.Fatal("expected deletion notification")
	}
}

func TestDeleteAdminUserSelfGuardFollowsCaller(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	ctx := context.Background()

	first, err := env.store.CreateAdminUser(ctx, "aline", "segredo", models.RoleEditor)
	if err != nil {
		t.Fatalf("create first admin: %v", err)
	}
	second, err := env.store.CreateAdminUser(ctx, "bruna", "segredo", models.RoleEditor)
	if err != nil {
		t.Fatalf("create second admin: %v", err)
	}

	// Two live sessions: the second login is the store-global one, but the
	// guard must hold for whichever admin issues the request.
	if _, admin, err := env.store.Login(ctx, "aline", "segredo"); err != nil || admin == nil {
		t.Fatalf("first login failed: admin=%v err=%v", admin, err)
	}
	if _, admin, err := env.store.Login(ctx, "bruna", "segredo"); err != nil || admin == nil {
		t.Fatalf("second login failed: admin=%v err=%v", admin, err)
	}

	if err := env.store.DeleteAdminUser(ctx, first.ID, first.ID); err == nil {
		t.Fatal("expected refusal when an admin deletes their own account")
	}
	if got := len(env.store.AdminUsers()); got != 3 {
		t.Fatalf("expected admin list unchanged, got %d entries", got)
	}

	if err := env.store.DeleteAdminUser(ctx, first.ID, second.ID); err != nil {
		t.Fatalf("delete by another admin failed: %v", err)
	}
}

func hasNotification(s *Store, message string) bool {
	for _, n := range s.Notifications() {
		if n.Message == message {
			return true
		}
	}
	return false
}

func TestUpdateAdminUserRehashesOnlyWithNewPassword(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	ctx := context.Background()

	created, err := env.store.CreateAdminUser(ctx, "ana", "senha123", models.RoleEditor)
	if err != nil {
		t.Fatalf("create admin user: %v", err)
	}

	renamed, err := env.store.UpdateAdminUser(ctx, created.ID, "ana.maria", "")
	if err != nil {
		t.Fatalf("update admin user: %v", err)
	}
	if renamed.PasswordHash != created.PasswordHash {
		t.Fatal("expected password hash untouched without a new password")
	}

	changed, err := env.store.UpdateAdminUser(ctx, created.ID, "ana.maria", "novaSenha")
	if err != nil {
		t.Fatalf("update admin user with password: %v", err)
	}
	if changed.PasswordHash == created.PasswordHash {
		t.Fatal("expected password hash to change")
	}

	if _, admin, err := env.store.Login(ctx, "ANA.MARIA", "novaSenha"); err != nil || admin == nil {
		t.Fatalf("login after rename failed: admin=%v err=%v", admin, err)
	}
}

func TestRecordVisitOncePerSession(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	ctx := context.Background()

	first, err := env.store.RecordVisit(ctx, "sess-1")
	if err != nil {
		t.Fatalf("record visit: %v", err)
	}
	if !first {
		t.Fatal("expected first visit to count")
	}

	second, err := env.store.RecordVisit(ctx, "sess-1")
	if err != nil {
		t.Fatalf("repeat visit: %v", err)
	}
	if second {
		t.Fatal("expected repeat visit to be ignored")
	}

	if got := env.store.Analytics().Visitors; got != 1 {
		t.Fatalf("expected 1 visitor, got %d", got)
	}
}

func TestHydrateSeedsEmptyRemote(t *testing.T) {
	t.Parallel()

	remote := &stubRemote{}
	env := newTestEnv(t, remote)

	env.store.Hydrate(context.Background())
	env.store.Flush()

	if env.store.Status() != StatusConnected {
		t.Fatalf("expected connected status, got %s", env.store.Status())
	}
	if env.store.Loading() {
		t.Fatal("expected loading flag cleared")
	}

	remote.mu.Lock()
	defer remote.mu.Unlock()
	if len(remote.savedSettings) == 0 {
		t.Fatal("expected default settings seeded to the remote")
	}
	if len(remote.savedProducts) == 0 {
		t.Fatal("expected default catalog seeded to the remote")
	}
	if len(remote.savedAdmins) == 0 {
		t.Fatal("expected default admin seeded to the remote")
	}
	if len(remote.savedAnalytics) == 0 {
		t.Fatal("expected analytics row seeded to the remote")
	}
	if remote.contentSyncs == 0 {
		t.Fatal("expected content tables synced while seeding settings")
	}
}

func TestHydrateRemoteFailureFallsBack(t *testing.T) {
	t.Parallel()

	remote := &stubRemote{fail: true}
	env := newTestEnv(t, remote)

	env.store.Hydrate(context.Background())
	env.store.Flush()

	if env.store.Status() != StatusError {
		t.Fatalf("expected error status, got %s", env.store.Status())
	}
	if got := env.store.Settings().LogoText; got != "DETALHES" {
		t.Fatalf("expected default settings retained, got logo %q", got)
	}
	if len(env.store.Products()) == 0 {
		t.Fatal("expected default catalog retained")
	}
}

func TestHydrateRepairsDefaultAdmin(t *testing.T) {
	t.Parallel()

	remote := &stubRemote{
		admins: []models.AdminUser{
			{ID: "other", Username: "outra", PasswordHash: "hash", Role: models.RoleEditor},
		},
	}
	env := newTestEnv(t, remote)

	env.store.Hydrate(context.Background())
	env.store.Flush()

	users := env.store.AdminUsers()
	if len(users) != 2 {
		t.Fatalf("expected repaired list with 2 users, got %d", len(users))
	}
	if users[0].ID != models.DefaultAdminID {
		t.Fatalf("expected default admin re-inserted first, got %s", users[0].ID)
	}

	remote.mu.Lock()
	defer remote.mu.Unlock()
	if len(remote.savedAdmins) == 0 {
		t.Fatal("expected repaired admin list mirrored to the remote")
	}
}

func TestHydrateKeepsRotatedDefaultAdminCredentials(t *testing.T) {
	t.Parallel()

	rotated := security.HashPassword("nova-senha")
	remote := &stubRemote{
		admins: []models.AdminUser{
			{ID: models.DefaultAdminID, Username: "admin", PasswordHash: rotated, Role: models.RoleSuperadmin},
		},
	}
	env := newTestEnv(t, remote)

	env.store.Hydrate(context.Background())
	env.store.Flush()

	users := env.store.AdminUsers()
	if len(users) != 1 {
		t.Fatalf("expected 1 admin, got %d", len(users))
	}
	if users[0].PasswordHash != rotated {
		t.Fatalf("rotated digest was overwritten: %q", users[0].PasswordHash)
	}

	ctx := context.Background()
	if _, admin, err := env.store.Login(ctx, "admin", "admin"); err != nil || admin != nil {
		t.Fatalf("factory password must stay rejected after rotation: admin=%v err=%v", admin, err)
	}
	if _, admin, err := env.store.Login(ctx, "admin", "nova-senha"); err != nil || admin == nil {
		t.Fatalf("rotated password login failed: admin=%v err=%v", admin, err)
	}

	remote.mu.Lock()
	defer remote.mu.Unlock()
	if len(remote.savedAdmins) != 0 {
		t.Fatalf("hydration must not mirror an untouched admin list, got %d writes", len(remote.savedAdmins))
	}
}

func TestHydrateContentTablesOverrideSettings(t *testing.T) {
	t.Parallel()

	remote := &stubRemote{
		settingsRaw: json.RawMessage(`{"logoText":"DETALHES"}`),
		content: backend.ContentTables{
			FAQs:       []models.FAQ{{ID: "f1", Question: "Pergunta?", Answer: "Resposta.", Enabled: true}},
			Categories: []string{"Anéis"},
		},
	}
	env := newTestEnv(t, remote)

	env.store.Hydrate(context.Background())
	env.store.Flush()

	settings := env.store.Settings()
	if len(settings.FAQs) != 1 || settings.FAQs[0].ID != "f1" {
		t.Fatalf("expected faq table to win, got %+v", settings.FAQs)
	}
	if len(settings.Categories) != 1 || settings.Categories[0] != "Anéis" {
		t.Fatalf("expected category table to win, got %v", settings.Categories)
	}
	// Tables without rows leave the blob/defaults in place.
	if len(settings.Testimonials) == 0 {
		t.Fatal("expected default testimonials retained")
	}
}

func TestHydrateOfflineUsesCacheSnapshots(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	ctx := context.Background()

	snapshot := []models.Product{{
		ID:       "cached",
		Name:     "Produto do cache",
		Price:    decimal.NewFromInt(10),
		Images:   pq.StringArray{"https://example.com/c.jpg"},
		Category: "Colares",
	}}
	if err := env.cache.Put(ctx, localcache.KeyProducts, snapshot); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	if err := env.cache.Put(ctx, localcache.KeySettings, json.RawMessage(`{"logoText":"CACHEADA"}`)); err != nil {
		t.Fatalf("seed settings cache: %v", err)
	}

	env.store.Hydrate(ctx)
	env.store.Flush()

	if env.store.Status() != StatusOffline {
		t.Fatalf("expected offline status, got %s", env.store.Status())
	}
	products := env.store.Products()
	if len(products) != 1 || products[0].ID != "cached" {
		t.Fatalf("expected cached catalog, got %+v", products)
	}
	if got := env.store.Settings().LogoText; got != "CACHEADA" {
		t.Fatalf("expected cached settings merged, got %q", got)
	}
}

func TestProductValidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	ctx := context.Background()

	cases := []models.Product{
		{Name: "", Price: decimal.NewFromInt(10), Images: pq.StringArray{"x"}},
		{Name: "Sem imagem", Price: decimal.NewFromInt(10)},
		{Name: "Preço negativo", Price: decimal.NewFromInt(-1), Images: pq.StringArray{"x"}},
	}
	before := len(env.store.Products())
	for _, p := range cases {
		if _, err := env.store.AddProduct(ctx, p); err == nil {
			t.Fatalf("expected validation error for %+v", p)
		}
	}
	if got := len(env.store.Products()); got != before {
		t.Fatalf("expected catalog unchanged after rejected products, got %d", got)
	}
}
