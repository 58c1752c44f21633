package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/catalog"
	"github.com/AtRiskMedia/fanhub-go/internal/domain/content"
	"github.com/AtRiskMedia/fanhub-go/internal/domain/user"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/media"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	catalogrepo "github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/catalog"
	communityrepo "github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/community"
	contentrepo "github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/content"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/testdb"
	userrepo "github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/user"
	"github.com/stretchr/testify/require"
)

type stubMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *stubMailer) SendWelcomeEmail(to, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return m.err
}

type stubVendor struct {
	mu      sync.Mutex
	details map[string]*catalog.VendorDetails
	err     error
	calls   int
}

func (v *stubVendor) GetProductDetails(ctx context.Context, shopID, productID string) (*catalog.VendorDetails, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls++
	if v.err != nil {
		return nil, v.err
	}
	d, ok := v.details[productID]
	if !ok {
		return nil, errors.New("no such product")
	}
	return d, nil
}

type stubImages struct {
	deleted   []string
	err       error
	deleteErr error
}

func (s *stubImages) ProcessPostImage(data, ownerID string) (*media.StoredImage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &media.StoredImage{URL: "/media/images/posts/" + ownerID + ".png"}, nil
}

func (s *stubImages) DeletePostImage(url string) error {
	s.deleted = append(s.deleted, url)
	return s.deleteErr
}

func (s *stubImages) ProcessAvatar(data, userID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "/media/avatars/" + userID + ".webp", nil
}

type stubPublisher struct {
	mu     sync.Mutex
	events []messaging.FeedEvent
}

func (p *stubPublisher) Publish(e messaging.FeedEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *stubPublisher) ClientCount() int { return 0 }

func (p *stubPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// teeDetails is a two-size, one-colour shirt.
func teeDetails() *catalog.VendorDetails {
	return &catalog.VendorDetails{
		ID: "vp-tee",
		Options: []catalog.Option{
			{Name: "Size", Values: []catalog.OptionValue{{ID: 1, Title: "S"}, {ID: 2, Title: "M"}}},
			{Name: "Color", Values: []catalog.OptionValue{{ID: 10, Title: "Black"}}},
		},
		Variants: []catalog.Variant{
			{ID: 100, Title: "S / Black", PriceCents: 2500, OptionIDs: []int64{1, 10}},
			{ID: 101, Title: "M / Black", PriceCents: 2700, OptionIDs: []int64{10, 2}},
		},
		Images: []catalog.Image{
			{Src: "https://img/s.png", VariantIDs: []int64{100}},
			{Src: "https://img/m.png", VariantIDs: []int64{101}, IsDefault: true},
		},
	}
}

type fixture struct {
	t         *testing.T
	db        *database.DB
	profiles  *userrepo.SQLProfileRepository
	items     *contentrepo.ContentRepository
	products  *catalogrepo.SQLProductRepository
	mailer    *stubMailer
	vendor    *stubVendor
	images    *stubImages
	publisher *stubPublisher

	auth      *AuthService
	profile   *ProfileService
	content   *ContentService
	community *CommunityService
	catalog   *CatalogService
	cart      *CartService
	home      *HomeService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.New(t)
	logger := logging.NewDiscardLogger()

	f := &fixture{
		t:         t,
		db:        db,
		profiles:  userrepo.NewSQLProfileRepository(db, logger),
		items:     contentrepo.NewContentRepository(db, logger),
		products:  catalogrepo.NewSQLProductRepository(db, logger),
		mailer:    &stubMailer{},
		vendor:    &stubVendor{details: map[string]*catalog.VendorDetails{"vp-tee": teeDetails()}},
		images:    &stubImages{},
		publisher: &stubPublisher{},
	}

	f.auth = NewAuthService(f.profiles, userrepo.NewSQLSessionRepository(db, logger), f.mailer,
		AuthConfig{JWTSecret: "test-secret", SessionTTL: time.Hour, DefaultAvatar: "/avatar.png"}, logger)
	f.profile = NewProfileService(f.profiles, userrepo.NewSQLActivityRepository(db, logger), f.images, logger)
	f.content = NewContentService(f.items, logger)
	f.community = NewCommunityService(
		communityrepo.NewSQLPostRepository(db, logger),
		communityrepo.NewSQLCommentRepository(db, logger),
		f.items, f.images, f.publisher, logger)
	f.catalog = NewCatalogService(f.products, f.vendor, logger)
	f.cart = NewCartService(stores.NewCartStore(time.Hour, logger), f.catalog, logger)
	f.home = NewHomeService(f.content, f.community, f.catalog)
	return f
}

// member signs up a fresh member and returns the profile.
func (f *fixture) member(email string) *user.Profile {
	f.t.Helper()
	res, err := f.auth.SignUp(context.Background(), email, "secret1", "secret1")
	require.NoError(f.t, err)
	return res.Profile
}

// admin promotes a new member to admin.
func (f *fixture) admin(email string) *user.Profile {
	f.t.Helper()
	p := f.member(email)
	_, err := f.db.ExecContext(context.Background(), `UPDATE user_profiles SET role = 'admin' WHERE id = ?`, p.ID)
	require.NoError(f.t, err)
	p.Role = user.RoleAdmin
	return p
}

func (f *fixture) addContent(id string, typ content.MediaType, created time.Time, tags ...string) {
	f.t.Helper()
	require.NoError(f.t, f.items.Upsert(context.Background(), &content.Item{
		ID: id, Title: "Item " + id, Type: typ, FileURL: "/f/" + id, Tags: tags, IsActive: true, CreatedAt: created,
	}))
}

func (f *fixture) addProduct(p catalog.Product) {
	f.t.Helper()
	p.IsActive = true
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	require.NoError(f.t, f.products.Upsert(context.Background(), &p))
}
