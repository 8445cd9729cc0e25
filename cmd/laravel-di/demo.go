package main

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/km-arc/laravel-di/framework/app"
	"github.com/km-arc/laravel-di/framework/container"
	"github.com/km-arc/laravel-di/framework/providers"
	"github.com/km-arc/laravel-di/framework/routing"
)

// Demo type names.
const (
	userRepositoryType = "App\\UserRepository"
	mailerType         = "App\\Mailer"
	userServiceType    = "App\\UserService"
	userControllerType = "App\\UserController"
)

type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserRepository struct {
	mu    sync.RWMutex
	users map[int]User
}

func NewUserRepository(seed int) *UserRepository {
	repo := &UserRepository{users: make(map[int]User)}
	for i := 1; i <= seed; i++ {
		repo.users[i] = User{ID: i, Name: "user" + strconv.Itoa(i), Email: "user" + strconv.Itoa(i) + "@example.com"}
	}
	return repo
}

func (r *UserRepository) Find(id int) (User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	return u, ok
}

type Mailer struct {
	From   string
	logger logrus.FieldLogger
}

func NewMailer(from string, logger *logrus.Logger) *Mailer {
	return &Mailer{From: from, logger: logger.WithField("component", "mailer")}
}

func (m *Mailer) Send(to, subject string) {
	m.logger.WithFields(logrus.Fields{"to": to, "from": m.From}).Info(subject)
}

type UserService struct {
	Users  *UserRepository
	Mailer *Mailer
}

func NewUserService(users *UserRepository, mailer *Mailer) *UserService {
	return &UserService{Users: users, Mailer: mailer}
}

type UserController struct {
	service *UserService
}

func NewUserController(service *UserService) *UserController {
	return &UserController{service: service}
}

func (c *UserController) Show(w http.ResponseWriter, r *http.Request, id string) (any, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return nil, nil
	}
	u, ok := c.service.Users.Find(n)
	if !ok {
		http.NotFound(w, r)
		return nil, nil
	}
	return u, nil
}

func (c *UserController) Welcome(_ http.ResponseWriter, _ *http.Request, id string) (any, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return nil, err
	}
	u, ok := c.service.Users.Find(n)
	if !ok {
		return nil, nil
	}
	c.service.Mailer.Send(u.Email, "Welcome, "+u.Name)
	return map[string]any{"sent": u.Email}, nil
}

// registerDemo defines the demo graph and its routes on application.
func registerDemo(application *app.Application) {
	types := application.Types

	types.Define(userRepositoryType, NewUserRepository,
		container.Scalar("seed", "int").WithDefault(3))
	types.Define(mailerType, NewMailer,
		container.Scalar("from", "string").WithDefault("noreply@example.com"),
		container.Object("logger", providers.LoggerType))
	types.Define(userServiceType, NewUserService,
		container.Object("users", userRepositoryType),
		container.Object("mailer", mailerType))

	actionParams := []container.Parameter{
		container.Scalar(routing.ParamWriter, "http.ResponseWriter"),
		container.Scalar(routing.ParamRequest, "*http.Request"),
		container.Scalar("id", "string"),
	}
	types.Define(userControllerType, NewUserController,
		container.Object("service", userServiceType)).
		Method("show", (*UserController).Show, actionParams...).
		Method("welcome", (*UserController).Welcome, actionParams...)

	// The repository holds state, so every request shares one.
	application.Register(providers.NewShared(types, userRepositoryType))

	application.Router.Controller(http.MethodGet, "/users/{id}", userControllerType, "show")
	application.Router.Controller(http.MethodPost, "/users/{id}/welcome", userControllerType, "welcome")
}
