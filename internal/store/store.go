// Package store is the global state container of the storefront: settings,
// catalog, cart, admin users, session, analytics counters and transient
// notifications. It is the single authority for all of them during a session;
// the persistence layers (remote Postgres, local SQLite snapshots, Redis) are
// passive mirrors hydrated once at startup and written fire-and-forget after
// every mutation.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/detalhesstore/detalhes-backend/internal/backend"
	"github.com/detalhesstore/detalhes-backend/internal/localcache"
	"github.com/detalhesstore/detalhes-backend/pkg/auth"
	"github.com/detalhesstore/detalhes-backend/pkg/config"
	"github.com/detalhesstore/detalhes-backend/pkg/db/models"
	apperrors "github.com/detalhesstore/detalhes-backend/pkg/errors"
	"github.com/detalhesstore/detalhes-backend/pkg/logger"
	"github.com/detalhesstore/detalhes-backend/pkg/metrics"
	"github.com/detalhesstore/detalhes-backend/pkg/security"
	"github.com/detalhesstore/detalhes-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Backend status values surfaced to the admin UI.
const (
	StatusConnected = "connected"
	StatusOffline   = "offline"
	StatusError     = "error"
)

// Analytics event types accepted by RecordEvent.
const (
	EventView     = "view"
	EventCart     = "cart"
	EventCheckout = "checkout"
)

// Notification is an ephemeral operator-facing message. Never persisted; it
// removes itself after the configured TTL.
type Notification struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// SessionRegistry persists the logged-in admin record keyed by token id.
type SessionRegistry interface {
	Save(ctx context.Context, tokenID string, admin models.AdminUser) error
	Revoke(ctx context.Context, tokenID string) error
}

// VisitTracker guards the once-per-session visitor counter.
type VisitTracker interface {
	MarkVisited(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)
}

// Deps wires the store's collaborators. Remote is nil when no backend is
// configured; the store then runs offline against Cache alone.
type Deps struct {
	Config   config.StoreConfig
	JWT      config.JWTConfig
	Logger   *logger.Logger
	Metrics  *metrics.PersistenceMetrics
	Remote   backend.Repository
	Cache    *localcache.Store
	Sessions SessionRegistry
	Visits   VisitTracker
}

// Store holds all mutable application state behind one mutex. In-memory
// state is authoritative; mirror writes never block or fail a mutation.
type Store struct {
	cfg      config.StoreConfig
	jwtCfg   config.JWTConfig
	logg     *logger.Logger
	metrics  *metrics.PersistenceMetrics
	remote   backend.Repository
	cache    *localcache.Store
	sessions SessionRegistry
	visits   VisitTracker

	now func() time.Time

	mu            sync.RWMutex
	settings      types.StoreSettings
	products      []models.Product
	cart          []types.CartItem
	admin         *models.AdminUser
	adminTokenID  string
	adminUsers    []models.AdminUser
	analytics     models.Analytics
	notifications []Notification
	loading       bool
	status        string

	mirrors sync.WaitGroup
}

// New constructs the container pre-populated with the hardcoded defaults.
// Call Hydrate before serving traffic.
func New(deps Deps) *Store {
	now := time.Now
	return &Store{
		cfg:        deps.Config,
		jwtCfg:     deps.JWT,
		logg:       deps.Logger,
		metrics:    deps.Metrics,
		remote:     deps.Remote,
		cache:      deps.Cache,
		sessions:   deps.Sessions,
		visits:     deps.Visits,
		now:        now,
		settings:   DefaultSettings(),
		products:   DefaultProducts(now().UTC()),
		cart:       []types.CartItem{},
		adminUsers: []models.AdminUser{DefaultAdmin()},
		loading:    true,
		status:     StatusOffline,
	}
}

// Hydrate populates in-memory state from the persistence layers: cart from
// the local snapshot, then settings/products/admins/analytics from the remote
// backend in parallel (with seed-on-empty), falling back to local snapshots
// when the remote is unconfigured or unreachable. The loading flag stays up
// until the whole sequence finishes.
func (s *Store) Hydrate(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	var cart []types.CartItem
	if err := s.cache.Get(ctx, localcache.KeyCart, &cart); err == nil {
		s.mu.Lock()
		s.cart = cart
		s.mu.Unlock()
	} else if !errors.Is(err, localcache.ErrMiss) {
		s.logg.Warn(ctx, "discarding unreadable cart snapshot")
	}

	if s.remote == nil {
		s.hydrateFromCache(ctx)
		s.setStatus(StatusOffline)
		s.rederiveTags(false)
		return
	}

	snap, err := s.loadRemote(ctx)
	if err != nil {
		s.logg.Error(ctx, "remote hydration failed, falling back to local snapshots", err)
		s.hydrateFromCache(ctx)
		s.setStatus(StatusError)
		s.rederiveTags(false)
		return
	}

	s.applyRemote(ctx, snap)
	s.setStatus(StatusConnected)
	s.rederiveTags(true)
}

type remoteSnapshot struct {
	settingsRaw json.RawMessage
	products    []models.Product
	admins      []models.AdminUser
	analytics   *models.Analytics
	content     backend.ContentTables
}

func (s *Store) loadRemote(ctx context.Context) (remoteSnapshot, error) {
	var (
		snap remoteSnapshot
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	run := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}

	run(func() (err error) { snap.settingsRaw, err = s.remote.LoadSettings(ctx); return })
	run(func() (err error) { snap.products, err = s.remote.LoadProducts(ctx); return })
	run(func() (err error) { snap.admins, err = s.remote.LoadAdmins(ctx); return })
	run(func() (err error) { snap.analytics, err = s.remote.LoadAnalytics(ctx); return })
	run(func() (err error) { snap.content, err = s.remote.LoadContentTables(ctx); return })
	wg.Wait()

	if len(errs) > 0 {
		return remoteSnapshot{}, errors.Join(errs...)
	}
	return snap, nil
}

func (s *Store) applyRemote(ctx context.Context, snap remoteSnapshot) {
	settings := MergeSettingsWithDefaults(snap.settingsRaw)

	// Row-oriented content tables win over the blob when populated.
	if len(snap.content.FAQs) > 0 {
		settings.FAQs = faqItemsFromRows(snap.content.FAQs)
	}
	if len(snap.content.Testimonials) > 0 {
		settings.Testimonials = testimonialsFromRows(snap.content.Testimonials)
	}
	if len(snap.content.Categories) > 0 {
		settings.Categories = snap.content.Categories
	}
	if len(snap.content.Collections) > 0 {
		settings.Tags = snap.content.Collections
	}

	admins, adminsRepaired := ensureDefaultAdmin(snap.admins)

	s.mu.Lock()
	s.settings = settings
	if len(snap.products) > 0 {
		s.products = snap.products
	}
	s.adminUsers = admins
	if snap.analytics != nil {
		s.analytics = *snap.analytics
	}
	s.mu.Unlock()

	// Seed-on-empty: whatever the backend never had gets written back.
	if snap.settingsRaw == nil {
		s.persistSettings(settings)
	}
	if len(snap.products) == 0 {
		s.persistProducts(s.Products())
	}
	if len(snap.admins) == 0 || adminsRepaired {
		s.persistAdmins(admins)
	}
	if snap.analytics == nil {
		s.persistAnalytics(s.Analytics())
	}
}

func (s *Store) hydrateFromCache(ctx context.Context) {
	var raw json.RawMessage
	if err := s.cache.Get(ctx, localcache.KeySettings, &raw); err == nil {
		settings := MergeSettingsWithDefaults(raw)
		s.mu.Lock()
		s.settings = settings
		s.mu.Unlock()
	}

	var products []models.Product
	if err := s.cache.Get(ctx, localcache.KeyProducts, &products); err == nil && len(products) > 0 {
		s.mu.Lock()
		s.products = products
		s.mu.Unlock()
	}

	var admins []models.AdminUser
	if err := s.cache.Get(ctx, localcache.KeyAdminUsers, &admins); err == nil && len(admins) > 0 {
		repaired, _ := ensureDefaultAdmin(admins)
		s.mu.Lock()
		s.adminUsers = repaired
		s.mu.Unlock()
	}

	var analytics models.Analytics
	if err := s.cache.Get(ctx, localcache.KeyAnalytics, &analytics); err == nil {
		s.mu.Lock()
		s.analytics = analytics
		s.mu.Unlock()
	}
}

// rederiveTags recomputes the derived tags after hydration and mirrors the
// catalog only when something actually changed.
func (s *Store) rederiveTags(persist bool) {
	s.mu.Lock()
	derived, changed := deriveTags(s.products, s.now().UTC())
	s.products = derived
	snapshot := cloneProducts(derived)
	s.mu.Unlock()

	if changed && persist {
		s.persistProducts(snapshot)
	}
}

// ensureDefaultAdmin guarantees the distinguished default admin record is
// present, re-inserting it when a persisted list lost it. An existing row is
// left untouched: its credentials may have been rotated on purpose.
func ensureDefaultAdmin(admins []models.AdminUser) ([]models.AdminUser, bool) {
	for _, a := range admins {
		if a.ID == models.DefaultAdminID {
			return admins, false
		}
	}
	def := DefaultAdmin()
	if len(admins) == 0 {
		return []models.AdminUser{def}, true
	}
	return append([]models.AdminUser{def}, admins...), true
}

// --- settings ---

// Settings returns the current merged settings.
func (s *Store) Settings() types.StoreSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetSettings replaces the settings singleton and mirrors it, re-syncing the
// row-oriented content tables on the remote.
func (s *Store) SetSettings(ctx context.Context, settings types.StoreSettings) {
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	s.persistSettings(settings)
}

// --- products ---

// Products returns a deep copy of the catalog.
func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProducts(s.products)
}

// Product returns a single catalog entry by id.
func (s *Store) Product(id string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return models.Product{}, apperrors.New(apperrors.CodeNotFound, "product not found")
}

// AddProduct validates and appends a product, then rederives tags and mirrors
// the catalog. A missing id or creation time is filled in.
func (s *Store) AddProduct(ctx context.Context, p models.Product) (models.Product, error) {
	if err := validateProduct(p); err != nil {
		return models.Product{}, err
	}

	now := s.now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}

	s.mu.Lock()
	s.products = append(s.products, p.Clone())
	s.products, _ = deriveTags(s.products, now)
	stored := s.products[len(s.products)-1].Clone()
	snapshot := cloneProducts(s.products)
	s.mu.Unlock()

	s.persistProducts(snapshot)
	return stored, nil
}

// UpdateProduct replaces the product with the same id.
func (s *Store) UpdateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	if err := validateProduct(p); err != nil {
		return models.Product{}, err
	}

	now := s.now().UTC()
	s.mu.Lock()
	idx := -1
	for i := range s.products {
		if s.products[i].ID == p.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return models.Product{}, apperrors.New(apperrors.CodeNotFound, "product not found")
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.products[idx].CreatedAt
	}
	s.products[idx] = p.Clone()
	s.products, _ = deriveTags(s.products, now)
	stored := s.products[idx].Clone()
	snapshot := cloneProducts(s.products)
	s.mu.Unlock()

	s.persistProducts(snapshot)
	return stored, nil
}

// DeleteProduct removes a product from the catalog.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	kept := s.products[:0]
	found := false
	for _, p := range s.products {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		s.mu.Unlock()
		return apperrors.New(apperrors.CodeNotFound, "product not found")
	}
	s.products = kept
	snapshot := cloneProducts(s.products)
	s.mu.Unlock()

	s.persistProducts(snapshot)
	return nil
}

func validateProduct(p models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperrors.New(apperrors.CodeValidation, "product name is required")
	}
	if len(p.Images) == 0 {
		return apperrors.New(apperrors.CodeValidation, "product needs at least one image")
	}
	if p.Price.IsNegative() {
		return apperrors.New(apperrors.CodeValidation, "product price must not be negative")
	}
	return nil
}

// --- cart ---

// Cart returns a copy of the cart contents.
func (s *Store) Cart() []types.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.CartItem(nil), s.cart...)
}

// AddToCart increments the quantity for the product (inserting at quantity 1),
// records a cart analytics event and raises the storefront notification.
func (s *Store) AddToCart(ctx context.Context, productID string) error {
	s.mu.Lock()
	var productName string
	for _, p := range s.products {
		if p.ID == productID {
			productName = p.Name
			break
		}
	}
	if productName == "" {
		s.mu.Unlock()
		return apperrors.New(apperrors.CodeNotFound, "product not found")
	}

	updated := false
	for i := range s.cart {
		if s.cart[i].ProductID == productID {
			s.cart[i].Quantity++
			updated = true
			break
		}
	}
	if !updated {
		s.cart = append(s.cart, types.CartItem{ProductID: productID, Quantity: 1})
	}
	snapshot := append([]types.CartItem(nil), s.cart...)
	s.mu.Unlock()

	s.persistCart(snapshot)
	s.RecordEvent(ctx, EventCart, productID)
	s.ShowNotification(productName + " adicionado à sacola ✨")
	return nil
}

// RemoveFromCart deletes the cart entry entirely. Removing an absent product
// is a no-op.
func (s *Store) RemoveFromCart(ctx context.Context, productID string) {
	s.mu.Lock()
	kept := s.cart[:0]
	for _, item := range s.cart {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	s.cart = kept
	snapshot := append([]types.CartItem(nil), s.cart...)
	s.mu.Unlock()

	s.persistCart(snapshot)
}

// UpdateCartQuantity sets the quantity for a cart entry. Anything below 1
// delegates to removal.
func (s *Store) UpdateCartQuantity(ctx context.Context, productID string, qty int) {
	if qty < 1 {
		s.RemoveFromCart(ctx, productID)
		return
	}

	s.mu.Lock()
	for i := range s.cart {
		if s.cart[i].ProductID == productID {
			s.cart[i].Quantity = qty
			break
		}
	}
	snapshot := append([]types.CartItem(nil), s.cart...)
	s.mu.Unlock()

	s.persistCart(snapshot)
}

// ClearCart empties the cart.
func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	s.cart = []types.CartItem{}
	s.mu.Unlock()

	s.persistCart([]types.CartItem{})
}

// CartSummary computes the subtotal over the cart and whether it qualifies
// for free shipping. The threshold comparison is inclusive.
func (s *Store) CartSummary() types.CartSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prices := make(map[string]decimal.Decimal, len(s.products))
	for _, p := range s.products {
		prices[p.ID] = p.Price
	}

	summary := types.CartSummary{Subtotal: decimal.Zero}
	for _, item := range s.cart {
		summary.ItemCount += item.Quantity
		if price, ok := prices[item.ProductID]; ok {
			summary.Subtotal = summary.Subtotal.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}
	summary.FreeShipping = summary.Subtotal.GreaterThanOrEqual(s.settings.FreeShippingThreshold)
	return summary
}

// --- admin session ---

// Login verifies the credentials against the in-memory admin list. The
// username match is case-insensitive; the password is compared by digest. On
// success it mints an access token, registers the session and returns the
// token with the matched admin. A credential mismatch returns a nil admin and
// no error.
func (s *Store) Login(ctx context.Context, username, password string) (string, *models.AdminUser, error) {
	normalized := strings.ToLower(strings.TrimSpace(username))

	s.mu.RLock()
	var matched *models.AdminUser
	for i := range s.adminUsers {
		u := s.adminUsers[i]
		if strings.ToLower(strings.TrimSpace(u.Username)) == normalized && security.VerifyPassword(password, u.PasswordHash) {
			copied := u
			matched = &copied
			break
		}
	}
	s.mu.RUnlock()

	if matched == nil {
		return "", nil, nil
	}

	jti := uuid.NewString()
	token, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		AdminID:  matched.ID,
		Username: matched.Username,
		Role:     matched.Role,
		JTI:      jti,
	})
	if err != nil {
		return "", nil, apperrors.Wrap(apperrors.CodeInternal, err, "minting access token")
	}
	if err := s.sessions.Save(ctx, jti, *matched); err != nil {
		return "", nil, apperrors.Wrap(apperrors.CodeDependency, err, "registering session")
	}

	s.mu.Lock()
	s.admin = matched
	s.adminTokenID = jti
	s.mu.Unlock()

	return token, matched, nil
}

// Logout revokes the session behind tokenID (falling back to the current
// one) and clears the active admin when it matches.
func (s *Store) Logout(ctx context.Context, tokenID string) error {
	s.mu.Lock()
	if tokenID == "" {
		tokenID = s.adminTokenID
	}
	if tokenID == s.adminTokenID {
		s.admin = nil
		s.adminTokenID = ""
	}
	s.mu.Unlock()

	if tokenID == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, tokenID); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "revoking session")
	}
	return nil
}

// Admin returns the currently authenticated admin, nil when logged out.
func (s *Store) Admin() *models.AdminUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.admin == nil {
		return nil
	}
	copied := *s.admin
	return &copied
}

// --- admin users ---

// AdminUsers returns a copy of the back-office account list.
func (s *Store) AdminUsers() []models.AdminUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.AdminUser(nil), s.adminUsers...)
}

// CreateAdminUser adds a back-office account. The password is hashed here;
// usernames are stored trimmed and lowercased.
func (s *Store) CreateAdminUser(ctx context.Context, username, password, role string) (models.AdminUser, error) {
	normalized := strings.ToLower(strings.TrimSpace(username))
	if normalized == "" {
		return models.AdminUser{}, apperrors.New(apperrors.CodeValidation, "username is required")
	}
	if strings.TrimSpace(password) == "" {
		return models.AdminUser{}, apperrors.New(apperrors.CodeValidation, "password is required")
	}
	if role != models.RoleSuperadmin && role != models.RoleEditor {
		return models.AdminUser{}, apperrors.New(apperrors.CodeValidation, "role must be superadmin or editor")
	}

	user := models.AdminUser{
		ID:           uuid.NewString(),
		Username:     normalized,
		PasswordHash: security.HashPassword(password),
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}

	s.mu.Lock()
	for _, existing := range s.adminUsers {
		if strings.EqualFold(existing.Username, normalized) {
			s.mu.Unlock()
			return models.AdminUser{}, apperrors.New(apperrors.CodeConflict, "username already taken")
		}
	}
	s.adminUsers = append(s.adminUsers, user)
	snapshot := append([]models.AdminUser(nil), s.adminUsers...)
	s.mu.Unlock()

	s.persistAdmins(snapshot)
	return user, nil
}

// UpdateAdminUser renames an account and rehashes the password only when a
// new one is supplied. Updating the active admin refreshes its session record.
func (s *Store) UpdateAdminUser(ctx context.Context, id, username, newPassword string) (models.AdminUser, error) {
	normalized := strings.ToLower(strings.TrimSpace(username))
	if normalized == "" {
		return models.AdminUser{}, apperrors.New(apperrors.CodeValidation, "username is required")
	}

	s.mu.Lock()
	idx := -1
	for i := range s.adminUsers {
		if s.adminUsers[i].ID == id {
			idx = i
			continue
		}
		if strings.EqualFold(s.adminUsers[i].Username, normalized) {
			s.mu.Unlock()
			return models.AdminUser{}, apperrors.New(apperrors.CodeConflict, "username already taken")
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return models.AdminUser{}, apperrors.New(apperrors.CodeNotFound, "admin user not found")
	}

	s.adminUsers[idx].Username = normalized
	if strings.TrimSpace(newPassword) != "" {
		s.adminUsers[idx].PasswordHash = security.HashPassword(newPassword)
	}
	updated := s.adminUsers[idx]

	var activeToken string
	if s.admin != nil && s.admin.ID == id {
		copied := updated
		s.admin = &copied
		activeToken = s.adminTokenID
	}
	snapshot := append([]models.AdminUser(nil), s.adminUsers...)
	s.mu.Unlock()

	if activeToken != "" {
		if err := s.sessions.Save(ctx, activeToken, updated); err != nil {
			s.logg.Error(ctx, "refreshing admin session failed", err)
		}
	}

	s.persistAdmins(snapshot)
	return updated, nil
}

// DeleteAdminUser removes an account. The default admin and the caller's own
// account are protected; the refusal raises a notification and leaves the
// list untouched. callerID is the authenticated admin performing the request,
// empty for unauthenticated maintenance paths.
func (s *Store) DeleteAdminUser(ctx context.Context, id, callerID string) error {
	s.mu.Lock()
	if id == models.DefaultAdminID || (callerID != "" && callerID == id) {
		s.mu.Unlock()
		s.ShowNotification("Operação não permitida.")
		return apperrors.New(apperrors.CodeForbidden, "admin user cannot be deleted")
	}

	kept := s.adminUsers[:0]
	found := false
	for _, u := range s.adminUsers {
		if u.ID == id {
			found = true
			continue
		}
		kept = append(kept, u)
	}
	if !found {
		s.mu.Unlock()
		return apperrors.New(apperrors.CodeNotFound, "admin user not found")
	}
	s.adminUsers = kept
	snapshot := append([]models.AdminUser(nil), s.adminUsers...)
	s.mu.Unlock()

	s.persistAdmins(snapshot)
	s.ShowNotification("Administrador removido.")
	return nil
}

// --- analytics ---

// Analytics returns a copy of the global counters.
func (s *Store) Analytics() models.Analytics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analytics
}

// RecordEvent increments the matching global counter and, when a product id
// is supplied, that product's own counter. Touched products get their derived
// tags recomputed.
func (s *Store) RecordEvent(ctx context.Context, eventType, productID string) error {
	switch eventType {
	case EventView, EventCart, EventCheckout:
	default:
		return apperrors.New(apperrors.CodeValidation, "event type must be view, cart or checkout")
	}

	now := s.now().UTC()
	s.mu.Lock()
	switch eventType {
	case EventView:
		s.analytics.ProductViews++
	case EventCart:
		s.analytics.AddedToCart++
	case EventCheckout:
		s.analytics.WhatsAppCheckouts++
	}
	analyticsSnapshot := s.analytics

	productTouched := false
	if productID != "" {
		for i := range s.products {
			if s.products[i].ID != productID {
				continue
			}
			switch eventType {
			case EventView:
				s.products[i].ViewCount++
				productTouched = true
			case EventCart:
				s.products[i].CartAddCount++
				productTouched = true
			}
			break
		}
	}
	var productsSnapshot []models.Product
	if productTouched {
		s.products, _ = deriveTags(s.products, now)
		productsSnapshot = cloneProducts(s.products)
	}
	s.mu.Unlock()

	s.persistAnalytics(analyticsSnapshot)
	if productTouched {
		s.persistProducts(productsSnapshot)
	}
	return nil
}

// RecordVisit counts a visitor at most once per session, guarded by the
// Redis sentinel. Returns whether this call was the first for the session.
func (s *Store) RecordVisit(ctx context.Context, sessionID string) (bool, error) {
	if strings.TrimSpace(sessionID) == "" {
		return false, apperrors.New(apperrors.CodeValidation, "session id is required")
	}

	first, err := s.visits.MarkVisited(ctx, sessionID, s.cfg.VisitSessionTTL)
	if err != nil {
		return false, apperrors.Wrap(apperrors.CodeDependency, err, "marking visit")
	}
	if !first {
		return false, nil
	}

	s.mu.Lock()
	s.analytics.Visitors++
	snapshot := s.analytics
	s.mu.Unlock()

	s.persistAnalytics(snapshot)
	return true, nil
}

// --- notifications ---

// ShowNotification appends a transient message and schedules its removal.
func (s *Store) ShowNotification(message string) {
	s.mu.Lock()
	id := s.now().UnixMilli()
	for _, n := range s.notifications {
		if n.ID >= id {
			id = n.ID + 1
		}
	}
	s.notifications = append(s.notifications, Notification{ID: id, Message: message})
	s.mu.Unlock()

	time.AfterFunc(s.notificationTTL(), func() {
		s.mu.Lock()
		kept := s.notifications[:0]
		for _, n := range s.notifications {
			if n.ID != id {
				kept = append(kept, n)
			}
		}
		s.notifications = kept
		s.mu.Unlock()
	})
}

// Notifications returns the currently visible transient messages.
func (s *Store) Notifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Notification(nil), s.notifications...)
}

func (s *Store) notificationTTL() time.Duration {
	if s.cfg.NotificationTTL > 0 {
		return s.cfg.NotificationTTL
	}
	return 3 * time.Second
}

// --- flags ---

// Loading reports whether hydration is still in progress.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Status reports the outcome of the last backend interaction.
func (s *Store) Status() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Store) setLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
}

func (s *Store) setStatus(status string) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// Flush waits for all in-flight mirror writes. Used on shutdown and by tests.
func (s *Store) Flush() {
	s.mirrors.Wait()
}

// --- persistence mirrors ---

func (s *Store) persistSettings(settings types.StoreSettings) {
	s.spawnMirror("settings", func(ctx context.Context) error {
		if err := s.cache.Put(ctx, localcache.KeySettings, settings); err != nil {
			return err
		}
		if s.remote == nil {
			return nil
		}
		if err := s.remote.SaveSettings(ctx, settings); err != nil {
			return err
		}
		return s.remote.SyncContentTables(ctx, settings)
	})
}

func (s *Store) persistProducts(products []models.Product) {
	s.spawnMirror("product", func(ctx context.Context) error {
		if err := s.cache.Put(ctx, localcache.KeyProducts, products); err != nil {
			return err
		}
		if s.remote == nil {
			return nil
		}
		return s.remote.SaveProducts(ctx, products)
	})
}

func (s *Store) persistAdmins(admins []models.AdminUser) {
	s.spawnMirror("admin_user", func(ctx context.Context) error {
		if err := s.cache.Put(ctx, localcache.KeyAdminUsers, admins); err != nil {
			return err
		}
		if s.remote == nil {
			return nil
		}
		return s.remote.SaveAdmins(ctx, admins)
	})
}

func (s *Store) persistAnalytics(analytics models.Analytics) {
	s.spawnMirror("analytics", func(ctx context.Context) error {
		if err := s.cache.Put(ctx, localcache.KeyAnalytics, analytics); err != nil {
			return err
		}
		if s.remote == nil {
			return nil
		}
		return s.remote.SaveAnalytics(ctx, analytics)
	})
}

// persistCart mirrors the cart to the local snapshot only; the cart is
// device-local state and never syncs to the remote backend.
func (s *Store) persistCart(cart []types.CartItem) {
	s.spawnMirror("cart", func(ctx context.Context) error {
		return s.cache.Put(ctx, localcache.KeyCart, cart)
	})
}

// spawnMirror runs one fire-and-forget mirror write. Failures are logged,
// counted and folded into the status flag; they never reach the caller.
func (s *Store) spawnMirror(entity string, fn func(ctx context.Context) error) {
	s.mirrors.Add(1)
	go func() {
		defer s.mirrors.Done()
		ctx := s.logg.WithEntity(context.Background(), entity)

		start := time.Now()
		err := fn(ctx)
		s.metrics.ObserveDuration(entity, time.Since(start))

		if err != nil {
			s.metrics.IncFailure(entity)
			s.logg.Error(ctx, "mirror write failed", err)
			s.setStatus(StatusError)
			return
		}
		s.metrics.IncSuccess(entity)
		if s.remote != nil {
			s.setStatus(StatusConnected)
		}
	}()
}

func cloneProducts(products []models.Product) []models.Product {
	out := make([]models.Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}
