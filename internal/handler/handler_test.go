package handler_test

// Shared in-memory fakes for the handler tests. Handlers are exercised
// through a real chi router with real services on top of these fakes, so
// URL params, middleware-free status mapping, and response shapes are all
// tested the way production wires them.

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/MichelleAaa/nucampsiteserver/internal/apperror"
	"github.com/MichelleAaa/nucampsiteserver/internal/auth"
	"github.com/MichelleAaa/nucampsiteserver/internal/handler"
	"github.com/MichelleAaa/nucampsiteserver/internal/model"
	"github.com/MichelleAaa/nucampsiteserver/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// ----------------------------------------------------------------------
// fakeUserRepo
// ----------------------------------------------------------------------

type fakeUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Username == user.Username {
			return apperror.Conflict("user", user.Username)
		}
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (f *fakeUserRepo) GetByFacebookID(_ context.Context, facebookID string) (*model.User, error) {
	for _, u := range f.users {
		if u.FacebookID == facebookID {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", facebookID)
}

func (f *fakeUserRepo) ListUsers(_ context.Context) ([]model.User, error) {
	result := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		result = append(result, *u)
	}
	return result, nil
}

// ----------------------------------------------------------------------
// fakeCampsiteRepo
// ----------------------------------------------------------------------

type fakeCampsiteRepo struct {
	campsites map[string]*model.Campsite
	comments  map[string][]model.Comment
	nextID    int
}

func newFakeCampsiteRepo() *fakeCampsiteRepo {
	return &fakeCampsiteRepo{
		campsites: make(map[string]*model.Campsite),
		comments:  make(map[string][]model.Comment),
	}
}

func (f *fakeCampsiteRepo) Create(_ context.Context, campsite *model.Campsite) error {
	f.nextID++
	campsite.ID = fmt.Sprintf("site-%d", f.nextID)
	campsite.Comments = []model.Comment{}
	stored := *campsite
	f.campsites[campsite.ID] = &stored
	return nil
}

func (f *fakeCampsiteRepo) GetByID(_ context.Context, id string) (*model.Campsite, error) {
	c, ok := f.campsites[id]
	if !ok {
		return nil, apperror.NotFound("campsite", id)
	}
	result := *c
	result.Comments = append([]model.Comment{}, f.comments[id]...)
	return &result, nil
}

func (f *fakeCampsiteRepo) List(_ context.Context) ([]model.Campsite, error) {
	result := make([]model.Campsite, 0, len(f.campsites))
	for id, c := range f.campsites {
		copied := *c
		copied.Comments = append([]model.Comment{}, f.comments[id]...)
		result = append(result, copied)
	}
	return result, nil
}

func (f *fakeCampsiteRepo) Update(_ context.Context, campsite *model.Campsite) error {
	if _, ok := f.campsites[campsite.ID]; !ok {
		return apperror.NotFound("campsite", campsite.ID)
	}
	stored := *campsite
	f.campsites[campsite.ID] = &stored
	return nil
}

func (f *fakeCampsiteRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.campsites[id]; !ok {
		return apperror.NotFound("campsite", id)
	}
	delete(f.campsites, id)
	delete(f.comments, id)
	return nil
}

func (f *fakeCampsiteRepo) DeleteAll(_ context.Context) error {
	f.campsites = make(map[string]*model.Campsite)
	f.comments = make(map[string][]model.Comment)
	return nil
}

func (f *fakeCampsiteRepo) AddComment(_ context.Context, campsiteID string, comment *model.Comment) error {
	if _, ok := f.campsites[campsiteID]; !ok {
		return apperror.NotFound("campsite", campsiteID)
	}
	f.nextID++
	comment.ID = fmt.Sprintf("comment-%d", f.nextID)
	f.comments[campsiteID] = append(f.comments[campsiteID], *comment)
	return nil
}

func (f *fakeCampsiteRepo) GetComment(_ context.Context, campsiteID, commentID string) (*model.Comment, error) {
	for _, c := range f.comments[campsiteID] {
		if c.ID == commentID {
			result := c
			return &result, nil
		}
	}
	return nil, apperror.NotFound("comment", commentID)
}

func (f *fakeCampsiteRepo) UpdateComment(_ context.Context, campsiteID string, comment *model.Comment) error {
	for i, c := range f.comments[campsiteID] {
		if c.ID == comment.ID {
			f.comments[campsiteID][i] = *comment
			return nil
		}
	}
	return apperror.NotFound("comment", comment.ID)
}

func (f *fakeCampsiteRepo) DeleteComment(_ context.Context, campsiteID, commentID string) error {
	thread := f.comments[campsiteID]
	for i, c := range thread {
		if c.ID == commentID {
			f.comments[campsiteID] = append(thread[:i], thread[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("comment", commentID)
}

func (f *fakeCampsiteRepo) DeleteComments(_ context.Context, campsiteID string) error {
	if _, ok := f.campsites[campsiteID]; !ok {
		return apperror.NotFound("campsite", campsiteID)
	}
	f.comments[campsiteID] = nil
	return nil
}

// ----------------------------------------------------------------------
// fakeFavoriteRepo
// ----------------------------------------------------------------------

type fakeFavoriteRepo struct {
	campsites *fakeCampsiteRepo // existence checks + resolution
	sets      map[string]map[string]bool
}

func newFakeFavoriteRepo(campsites *fakeCampsiteRepo) *fakeFavoriteRepo {
	return &fakeFavoriteRepo{campsites: campsites, sets: make(map[string]map[string]bool)}
}

func (f *fakeFavoriteRepo) Get(ctx context.Context, userID string) (*model.Favorite, error) {
	fav := &model.Favorite{UserID: userID, Campsites: []model.Campsite{}}
	for id := range f.sets[userID] {
		c, err := f.campsites.GetByID(ctx, id)
		if err != nil {
			continue
		}
		fav.Campsites = append(fav.Campsites, *c)
	}
	return fav, nil
}

func (f *fakeFavoriteRepo) Add(ctx context.Context, userID, campsiteID string) (bool, error) {
	if _, err := f.campsites.GetByID(ctx, campsiteID); err != nil {
		return false, err
	}
	if f.sets[userID] == nil {
		f.sets[userID] = make(map[string]bool)
	}
	if f.sets[userID][campsiteID] {
		return false, nil
	}
	f.sets[userID][campsiteID] = true
	return true, nil
}

func (f *fakeFavoriteRepo) Remove(_ context.Context, userID, campsiteID string) error {
	if !f.sets[userID][campsiteID] {
		return apperror.NotFound("favorite", campsiteID)
	}
	delete(f.sets[userID], campsiteID)
	return nil
}

func (f *fakeFavoriteRepo) Clear(_ context.Context, userID string) (bool, error) {
	existed := len(f.sets[userID]) > 0
	delete(f.sets, userID)
	return existed, nil
}

// ----------------------------------------------------------------------
// wiring helpers
// ----------------------------------------------------------------------

// testEnv bundles everything a handler test needs: the fakes, the services
// on top of them, and a router to send requests through.
type testEnv struct {
	users     *fakeUserRepo
	campsites *fakeCampsiteRepo
	favorites *fakeFavoriteRepo
	auth      *service.AuthService
	campSvc   *service.CampsiteService
	favSvc    *service.FavoriteService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := newFakeUserRepo()
	campsites := newFakeCampsiteRepo()
	favorites := newFakeFavoriteRepo(campsites)

	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	ps := auth.NewPasswordServiceWithCost(4)
	logger := testLogger()

	return &testEnv{
		users:     users,
		campsites: campsites,
		favorites: favorites,
		auth:      service.NewAuthService(users, ts, ps, nil, logger),
		campSvc:   service.NewCampsiteService(campsites, logger),
		favSvc:    service.NewFavoriteService(favorites, logger),
	}
}

// withUser injects a user into the request context the way the bearer gate
// does, so gated handlers can be tested without minting tokens.
func withUser(r *http.Request, user *model.User) *http.Request {
	return r.WithContext(auth.ContextWithUser(r.Context(), user))
}

// newCampsiteRouter mounts the campsite handler on the production paths.
func newCampsiteRouter(h *handler.CampsiteHandler) chi.Router {
	r := chi.NewRouter()
	r.Get("/campsites", h.HandleList)
	r.Post("/campsites", h.HandleCreate)
	r.Get("/campsites/{campsiteId}", h.HandleGet)
	r.Put("/campsites/{campsiteId}", h.HandleUpdate)
	r.Delete("/campsites/{campsiteId}", h.HandleDelete)
	r.Get("/campsites/{campsiteId}/comments", h.HandleListComments)
	r.Post("/campsites/{campsiteId}/comments", h.HandleAddComment)
	r.Get("/campsites/{campsiteId}/comments/{commentId}", h.HandleGetComment)
	r.Put("/campsites/{campsiteId}/comments/{commentId}", h.HandleUpdateComment)
	r.Delete("/campsites/{campsiteId}/comments/{commentId}", h.HandleDeleteComment)
	return r
}

// do runs one request through a router and returns the recorder.
func do(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}
