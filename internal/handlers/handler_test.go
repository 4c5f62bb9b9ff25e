// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL or Valkey are
// unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"invitepress/internal/builder"
	"invitepress/internal/cache"
	"invitepress/internal/database"
	"invitepress/internal/middleware"
	"invitepress/internal/models"
	"invitepress/internal/renderer"
	"invitepress/internal/session"
	"invitepress/internal/store"
)

// testPageDesign is a minimal valid block document used across handler
// tests: a hero with a placeholder headline, an RSVP section, a footer.
const testPageDesign = `{
	"blocks": [
		{"id": "blk-hero", "type": "hero", "order": 0,
		 "content": {"title": "{{eventName}}", "subtitle": "Join us"},
		 "settings": {"backgroundType": "solid", "backgroundColor": "#ffffff"}},
		{"id": "blk-rsvp", "type": "rsvp", "order": 1,
		 "content": {"heading": "Will you come?"},
		 "settings": {}},
		{"id": "blk-footer", "type": "footer", "order": 2,
		 "content": {"text": "See you there"},
		 "settings": {}}
	],
	"theme": {
		"colors": {"primary": "#1f2937", "accent": "#b45309"},
		"fonts": {"heading": "Georgia, serif", "body": "Arial, sans-serif"},
		"borderRadius": "8px"
	},
	"globalSettings": {}
}`

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "invitepress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "invitepress")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		// Clean up test session and page cache keys.
		for _, pattern := range []string{"session:*", "inv:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB              *sql.DB
	Valkey          *redis.Client
	Sessions        *session.Store
	Users           *store.UserStore
	Categories      *store.CategoryStore
	Templates       *store.TemplateStore
	Invitations     *store.InvitationStore
	RSVPs           *store.RSVPStore
	PaymentStore    *store.PaymentStore
	PageCache       *cache.PageCache
	BuilderSessions *builder.Sessions

	Auth           *Auth
	Public         *Public
	Catalog        *Catalog
	InvitationsAPI *Invitations
	BuilderAPI     *Builder
	AdminAPI       *Admin
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk, false)
	users := store.NewUserStore(db)
	categories := store.NewCategoryStore(db)
	templates := store.NewTemplateStore(db)
	invitations := store.NewInvitationStore(db)
	rsvps := store.NewRSVPStore(db)
	paymentStore := store.NewPaymentStore(db)
	pageCache := cache.NewPageCache(vk, 1*time.Minute)
	builderSessions := builder.NewSessions()
	rend := renderer.New()

	return &testEnv{
		DB:              db,
		Valkey:          vk,
		Sessions:        sessions,
		Users:           users,
		Categories:      categories,
		Templates:       templates,
		Invitations:     invitations,
		RSVPs:           rsvps,
		PaymentStore:    paymentStore,
		PageCache:       pageCache,
		BuilderSessions: builderSessions,

		Auth:           NewAuth(sessions, users),
		Public:         NewPublic(invitations, templates, rsvps, rend, pageCache, "http://localhost:8080"),
		Catalog:        NewCatalog(templates, categories),
		InvitationsAPI: NewInvitations(invitations, templates, rsvps, pageCache),
		BuilderAPI:     NewBuilder(builderSessions, invitations, templates, rend, pageCache),
		AdminAPI:       NewAdmin(templates, categories, users, paymentStore, pageCache),
	}
}

// createCustomer makes a customer account and returns it. The row (and
// all invitations cascading from it) is removed on cleanup.
func (env *testEnv) createCustomer(t *testing.T, email string) *models.User {
	t.Helper()
	env.DB.Exec("DELETE FROM users WHERE email = $1", email)
	user, err := env.Users.Create(email, "password123", "Test Customer", models.RoleCustomer)
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM users WHERE email = $1", email) })
	return user
}

// createAdmin makes an admin account and returns it.
func (env *testEnv) createAdmin(t *testing.T, email string) *models.User {
	t.Helper()
	env.DB.Exec("DELETE FROM users WHERE email = $1", email)
	user, err := env.Users.Create(email, "password123", "Test Admin", models.RoleAdmin)
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM users WHERE email = $1", email) })
	return user
}

// cleanTemplates removes test templates by name.
func cleanTemplates(t *testing.T, db *sql.DB, names ...string) {
	t.Helper()
	for _, n := range names {
		db.Exec("DELETE FROM templates WHERE name = $1", n)
	}
}

// cleanCategories removes test categories by slug.
func cleanCategories(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM categories WHERE slug = $1", s)
	}
}

// testSession creates a session.Data for testing.
func testSession(user *models.User) *session.Data {
	return &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		TwoFADone:   !user.IsAdmin(),
	}
}

// withSession attaches session data to a request context.
func withSession(r *http.Request, sess *session.Data) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.SessionKey, sess))
}

// withChiURLParams attaches chi URL parameters (and optionally a
// session) to a request.
func withChiURLParams(r *http.Request, sess *session.Data, pairs ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(pairs); i += 2 {
		rctx.URLParams.Add(pairs[i], pairs[i+1])
	}
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	if sess != nil {
		ctx = context.WithValue(ctx, middleware.SessionKey, sess)
	}
	return r.WithContext(ctx)
}

// scratchInvitation creates a paid, published from-scratch invitation
// owned by the user, for public page tests.
func (env *testEnv) scratchInvitation(t *testing.T, userID uuid.UUID, slug string, publish, paid bool) *models.Invitation {
	t.Helper()
	env.DB.Exec("DELETE FROM invitations WHERE slug = $1", slug)
	inv, err := env.Invitations.Create(&models.Invitation{
		UserID:  userID,
		Design:  []byte(testPageDesign),
		Content: []byte(`{"eventName":"Ana & Luca's Wedding"}`),
		Slug:    slug,
		Plan:    "scratch",
	})
	if err != nil {
		t.Fatalf("create invitation: %v", err)
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM invitations WHERE slug = $1", slug) })

	if publish {
		if err := env.Invitations.SetStatus(inv.ID, models.InvitationStatusPublished); err != nil {
			t.Fatalf("publish invitation: %v", err)
		}
	}
	if paid {
		if err := env.Invitations.MarkPaid(inv.ID); err != nil {
			t.Fatalf("mark paid: %v", err)
		}
	}

	got, err := env.Invitations.FindByID(inv.ID)
	if err != nil || got == nil {
		t.Fatalf("reload invitation: %v", err)
	}
	return got
}
