package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	alertsvc "github.com/kinderkitchen/kinderkitchen-backend/internal/alerts"
	ingredientsvc "github.com/kinderkitchen/kinderkitchen-backend/internal/ingredients"
	mealsvc "github.com/kinderkitchen/kinderkitchen-backend/internal/meals"
	reportsvc "github.com/kinderkitchen/kinderkitchen-backend/internal/reports"
	servingsvc "github.com/kinderkitchen/kinderkitchen-backend/internal/serving"
	usersvc "github.com/kinderkitchen/kinderkitchen-backend/internal/users"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/config"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db/models"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/enums"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type routerFixture struct {
	server *httptest.Server
	conn   *gorm.DB
	admin  *models.User
	cook   *models.User
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	dsn := "file:routes_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = conn.AutoMigrate(
		&models.Ingredient{},
		&models.Meal{},
		&models.MealIngredient{},
		&models.ServingRecord{},
		&models.Alert{},
		&models.User{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	client := db.NewWithConn(conn)

	userService, err := usersvc.NewService(usersvc.NewRepository(conn))
	if err != nil {
		t.Fatalf("user service: %v", err)
	}
	ingredientRepo := ingredientsvc.NewRepository(conn)
	ingredientService, err := ingredientsvc.NewService(ingredientRepo)
	if err != nil {
		t.Fatalf("ingredient service: %v", err)
	}
	mealRepo := mealsvc.NewRepository(conn)
	mealService, err := mealsvc.NewService(mealRepo, ingredientRepo)
	if err != nil {
		t.Fatalf("meal service: %v", err)
	}
	alertService, err := alertsvc.NewService(alertsvc.NewRepository(conn))
	if err != nil {
		t.Fatalf("alert service: %v", err)
	}
	servingRepo := servingsvc.NewRepository(conn)
	servingService, err := servingsvc.NewService(
		client,
		servingRepo,
		mealRepo,
		ingredientRepo,
		alertService,
		usersvc.NewRepository(conn),
		nil,
	)
	if err != nil {
		t.Fatalf("serving service: %v", err)
	}
	reportService, err := reportsvc.NewService(servingRepo, mealRepo, ingredientRepo)
	if err != nil {
		t.Fatalf("report service: %v", err)
	}

	cfg := &config.Config{App: config.AppConfig{Env: "test", Port: "0"}}

	handler := NewRouter(
		cfg,
		nil,
		stubPinger{},
		stubPinger{},
		userService,
		ingredientService,
		mealService,
		servingService,
		alertService,
		reportService,
	)

	admin := &models.User{ID: uuid.New(), Name: "Greta", Role: enums.UserRoleAdmin}
	cook := &models.User{ID: uuid.New(), Name: "Oskar", Role: enums.UserRoleCook}
	for _, user := range []*models.User{admin, cook} {
		if err := conn.Create(user).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &routerFixture{server: server, conn: conn, admin: admin, cook: cook}
}

func (f *routerFixture) do(t *testing.T, method, path string, asUser *models.User, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, f.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if asUser != nil {
		req.Header.Set("X-User-Id", asUser.ID.String())
	}

	resp, err := f.server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeData(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return envelope.Data
}

func TestHealthEndpoints(t *testing.T) {
	f := newRouterFixture(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		resp := f.do(t, http.MethodGet, path, nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s returned %d", path, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestUserListIsPublic(t *testing.T) {
	f := newRouterFixture(t)

	resp := f.do(t, http.MethodGet, "/api/v1/users", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 but got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestIdentityRequiredForInventory(t *testing.T) {
	f := newRouterFixture(t)

	resp := f.do(t, http.MethodGet, "/api/v1/ingredients", nil, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 but got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestCookCannotMutateInventory(t *testing.T) {
	f := newRouterFixture(t)

	resp := f.do(t, http.MethodPost, "/api/v1/ingredients", f.cook, map[string]any{
		"name":     "Flour",
		"quantity": "1000",
		"unit":     "g",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 but got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestServeFlowOverHTTP(t *testing.T) {
	f := newRouterFixture(t)

	resp := f.do(t, http.MethodPost, "/api/v1/ingredients", f.admin, map[string]any{
		"name":             "Flour",
		"quantity":         "1000",
		"unit":             "g",
		"minimum_quantity": "200",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create ingredient returned %d", resp.StatusCode)
	}
	ingredient := decodeData(t, resp)
	ingredientID, _ := ingredient["id"].(string)
	if ingredientID == "" {
		t.Fatalf("missing ingredient id in %v", ingredient)
	}

	resp = f.do(t, http.MethodPost, "/api/v1/meals", f.admin, map[string]any{
		"name": "Pancakes",
		"ingredients": []map[string]any{
			{"ingredient_id": ingredientID, "quantity": "100"},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create meal returned %d", resp.StatusCode)
	}
	meal := decodeData(t, resp)
	mealID, _ := meal["id"].(string)
	if possible, _ := meal["possible_portions"].(float64); possible != 10 {
		t.Fatalf("expected 10 possible portions, got %v", meal["possible_portions"])
	}

	// A second meal drawing on the same flour.
	resp = f.do(t, http.MethodPost, "/api/v1/meals", f.admin, map[string]any{
		"name": "Flatbread",
		"ingredients": []map[string]any{
			{"ingredient_id": ingredientID, "quantity": "250"},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create second meal returned %d", resp.StatusCode)
	}
	flatbread := decodeData(t, resp)
	flatbreadID, _ := flatbread["id"].(string)
	if possible, _ := flatbread["possible_portions"].(float64); possible != 4 {
		t.Fatalf("expected 4 possible portions, got %v", flatbread["possible_portions"])
	}

	resp = f.do(t, http.MethodPost, "/api/v1/servings", f.cook, map[string]any{
		"meal_id":  mealID,
		"portions": 4,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("serve returned %d", resp.StatusCode)
	}
	serve := decodeData(t, resp)
	if success, _ := serve["success"].(bool); !success {
		t.Fatalf("expected successful serve, got %v", serve)
	}
	if msg, _ := serve["message"].(string); msg != "Successfully served 4 portions of Pancakes" {
		t.Fatalf("unexpected message %q", msg)
	}

	// The shared flour deduction shrinks what the other meal can serve.
	resp = f.do(t, http.MethodGet, "/api/v1/meals/"+flatbreadID, f.cook, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get second meal returned %d", resp.StatusCode)
	}
	flatbread = decodeData(t, resp)
	if possible, _ := flatbread["possible_portions"].(float64); possible != 2 {
		t.Fatalf("expected 2 possible portions after serving, got %v", flatbread["possible_portions"])
	}

	resp = f.do(t, http.MethodPost, "/api/v1/servings", f.cook, map[string]any{
		"meal_id":  mealID,
		"portions": 50,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for infeasible serve, got %d", resp.StatusCode)
	}
	rejected := decodeData(t, resp)
	if success, _ := rejected["success"].(bool); success {
		t.Fatalf("expected rejection, got %v", rejected)
	}

	resp = f.do(t, http.MethodGet, "/api/v1/alerts?unreadOnly=true", f.cook, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("alert list returned %d", resp.StatusCode)
	}
	alerts := decodeData(t, resp)
	items, _ := alerts["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected exactly one alert, got %d", len(items))
	}
}

func TestMonthlyReportRequiresManagement(t *testing.T) {
	f := newRouterFixture(t)

	resp := f.do(t, http.MethodGet, "/api/v1/reports/monthly", f.cook, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 but got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = f.do(t, http.MethodGet, "/api/v1/reports/monthly", f.admin, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 but got %d", resp.StatusCode)
	}
	report := decodeData(t, resp)
	if _, ok := report["is_misuse"]; !ok {
		t.Fatalf("report payload missing is_misuse: %v", report)
	}
}

func TestUnknownUserIsRejected(t *testing.T) {
	f := newRouterFixture(t)

	ghost := &models.User{ID: uuid.New()}
	resp := f.do(t, http.MethodGet, "/api/v1/ingredients", ghost, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 but got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestNotFoundMealMessage(t *testing.T) {
	f := newRouterFixture(t)

	resp := f.do(t, http.MethodPost, "/api/v1/servings", f.cook, map[string]any{
		"meal_id":  uuid.NewString(),
		"portions": 1,
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 but got %d", resp.StatusCode)
	}
	defer resp.Body.Close()

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Message != "Meal not found" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
	if got := envelope.Error.Code; got != "NOT_FOUND" {
		t.Fatalf("unexpected code %s", got)
	}
}
