// Command sample demonstrates the httpbind library with a small user API.
//
// Run:
//
//	go run ./cmd/sample
//
// Then explore:
//
//	GET    http://localhost:8080/v1/users              — list users
//	POST   http://localhost:8080/v1/users              — create user (201)
//	GET    http://localhost:8080/v1/users/{id}         — get user by UUID
//	DELETE http://localhost:8080/v1/users/{id}         — delete user (204)
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"

	"github.com/floxay/httpbind"
)

type config struct {
	Addr  string     `env:"SAMPLE_ADDR" envDefault:":8080"`
	Level slog.Level `env:"SAMPLE_LOG_LEVEL" envDefault:"info"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level}))
	slog.SetDefault(logger)

	r := newRouter(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("listening", "addr", cfg.Addr)
	if err := r.ListenAndServe(ctx, cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server", "err", err)
		os.Exit(1)
	}
}

type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type store struct {
	mu    sync.RWMutex
	users map[uuid.UUID]User
}

func newRouter(logger *slog.Logger) *httpbind.Router {
	s := &store{users: make(map[uuid.UUID]User)}

	r := httpbind.New()
	r.Use(httpbind.RequestID(), httpbind.Logger(logger), httpbind.Recovery())

	v1 := r.Group("/v1", httpbind.WithGroupMiddleware(httpbind.BodyLimit(1<<20)))

	httpbind.Get(v1, "/users", s.list)
	httpbind.Post(v1, "/users", s.create, httpbind.WithStatus(http.StatusCreated))
	httpbind.Get(v1, "/users/{id}", s.get)
	httpbind.Delete(v1, "/users/{id}", s.remove)

	return r
}

type listReq struct {
	Limit  int    `query:"limit" default:"20" minimum:"1" maximum:"100"`
	Prefix string `query:"prefix" required:"false"`
}

func (s *store) list(_ context.Context, req *listReq) (*[]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]User, 0, len(s.users))
	for _, u := range s.users {
		if req.Prefix != "" && !strings.HasPrefix(u.Name, req.Prefix) {
			continue
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })

	if len(users) > req.Limit {
		users = users[:req.Limit]
	}
	return &users, nil
}

type createReq struct {
	Body struct {
		Name  string `json:"name" required:"true" minLength:"1" maxLength:"80"`
		Email string `json:"email" required:"true" pattern:"^[^@\\s]+@[^@\\s]+$"`
	}
}

func (s *store) create(_ context.Context, req *createReq) (*User, error) {
	u := User{ID: uuid.New(), Name: req.Body.Name, Email: req.Body.Email}

	s.mu.Lock()
	s.users[u.ID] = u
	s.mu.Unlock()

	return &u, nil
}

type getReq struct {
	ID uuid.UUID `path:"id"`
}

func (s *store) get(_ context.Context, req *getReq) (*User, error) {
	s.mu.RLock()
	u, ok := s.users[req.ID]
	s.mu.RUnlock()

	if !ok {
		return nil, httpbind.Error(http.StatusNotFound, "user not found")
	}
	return &u, nil
}

func (s *store) remove(_ context.Context, req *getReq) (*httpbind.Void, error) {
	s.mu.Lock()
	delete(s.users, req.ID)
	s.mu.Unlock()

	return &httpbind.Void{}, nil
}
