package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"irrigation_console/internal/client"
	"irrigation_console/internal/models"
	"irrigation_console/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	mu       sync.Mutex
	session  models.Session
	loginErr error
	pwErr    error

	loginCalls  int
	lastAdmin   bool
	logoutCalls int
	lastPw      service.PasswordChange
}

func (m *mockAuth) Login(ctx context.Context, username, password string, admin bool) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loginCalls++
	m.lastAdmin = admin
	if m.loginErr != nil {
		return models.Session{}, m.loginErr
	}
	m.session = models.Session{Token: "t", User: &models.User{ID: 3, Username: username, Role: models.RoleUser}, DeviceID: "esp32s3-9"}
	if admin {
		m.session.User.Role = models.RoleAdmin
	}
	return m.session, nil
}
func (m *mockAuth) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logoutCalls++
	m.session = models.Session{}
}
func (m *mockAuth) ChangePassword(ctx context.Context, p service.PasswordChange) error {
	m.lastPw = p
	return m.pwErr
}
func (m *mockAuth) CurrentSession() models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

type mockSync struct {
	dashboard service.Dashboard
	logs      service.LogView
	pages     []int
}

func (m *mockSync) Start(ctx context.Context) {}
func (m *mockSync) Cancel() {}
func (m *mockSync) Running() bool { return true }
func (m *mockSync) Dashboard() service.Dashboard { return m.dashboard }
func (m *mockSync) Logs() service.LogView { return m.logs }
func (m *mockSync) SetLogPage(ctx context.Context, page int) service.LogView {
	m.pages = append(m.pages, page)
	m.logs.Page = page
	return m.logs
}

type mockForecast struct {
	days  []models.WeatherForecast
	calls int
}

func (m *mockForecast) Refresh(ctx context.Context, coords *client.Coordinates) []models.WeatherForecast {
	m.calls++
	return m.days
}

type mockLocation struct {
	cfg     models.LocationConfig
	saveErr error
	saved   [][2]float64
}

func (m *mockLocation) Get(ctx context.Context) models.LocationConfig { return m.cfg }
func (m *mockLocation) Save(ctx context.Context, lat, lon float64) (models.LocationConfig, error) {
	m.saved = append(m.saved, [2]float64{lat, lon})
	if m.saveErr != nil {
		return models.LocationConfig{}, m.saveErr
	}
	return models.LocationConfig{Latitude: lat, Longitude: lon, HasRealLocation: true}, nil
}

type mockControl struct {
	irrigateErr  error
	volumes      []float64
	recomputeErr error
}

func (m *mockControl) Irrigate(ctx context.Context, volumeL float64) error {
	m.volumes = append(m.volumes, volumeL)
	return m.irrigateErr
}
func (m *mockControl) RecomputePlan(ctx context.Context) error { return m.recomputeErr }

type mockAdmin struct {
	users   []models.ManagedUser
	created []models.NewUserParams
	deleted []int64
}

func (m *mockAdmin) ListUsers(ctx context.Context) ([]models.ManagedUser, error) {
	return m.users, nil
}
func (m *mockAdmin) CreateUser(ctx context.Context, p models.NewUserParams) (models.ManagedUser, error) {
	m.created = append(m.created, p)
	return models.ManagedUser{ID: 9, Username: p.Username, Role: models.RoleUser, DeviceID: p.DeviceID}, nil
}
func (m *mockAdmin) DeleteUser(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

// ---- Shared Test Helpers ----

type mocks struct {
	auth     *mockAuth
	sync     *mockSync
	forecast *mockForecast
	location *mockLocation
	control  *mockControl
	admin    *mockAdmin
}

func newMocks(session models.Session) *mocks {
	return &mocks{
		auth:     &mockAuth{session: session},
		sync:     &mockSync{},
		forecast: &mockForecast{},
		location: &mockLocation{},
		control:  &mockControl{},
		admin:    &mockAdmin{},
	}
}

func (m *mocks) service() *service.Service {
	return &service.Service{
		Authorization: m.auth,
		Sync:          m.sync,
		Forecast:      m.forecast,
		Location:      m.location,
		Control:       m.control,
		Admin:         m.admin,
	}
}

func userSession() models.Session {
	return models.Session{Token: "t", User: &models.User{ID: 3, Username: "farmer", Role: models.RoleUser}, DeviceID: "esp32s3-9"}
}

func adminSession() models.Session {
	return models.Session{Token: "t", User: &models.User{ID: 1, Username: "root", Role: models.RoleAdmin}}
}

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, time.Second)
	return h.InitRoutes()
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
