package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/carhive/carhive/internal/config"
	"github.com/carhive/carhive/internal/logging"
	"github.com/carhive/carhive/internal/token"
)

// fakeBackends simulates the car, booking and payment services.
type fakeBackends struct {
	mu             sync.Mutex
	available      bool
	bookingOwner   string // owner returned by GET /api/bookings/{id}; defaults to the last created booking's user
	bookingCreates int
	paymentCreates int

	cars     *httptest.Server
	bookings *httptest.Server
	payments *httptest.Server
}

func newFakeBackends(t *testing.T) *fakeBackends {
	t.Helper()
	f := &fakeBackends{available: true}

	f.cars = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/availability") {
			json.NewEncoder(w).Encode(map[string]bool{"available": f.available})
			return
		}
		io.WriteString(w, `[{"id":"car-1","location":"douala"}]`)
	}))
	t.Cleanup(f.cars.Close)

	f.bookings = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			var in map[string]string
			json.NewDecoder(r.Body).Decode(&in)
			f.bookingCreates++
			if f.bookingOwner == "" {
				f.bookingOwner = in["userId"]
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{
				"id": "bk-1", "userId": in["userId"], "carId": in["carId"],
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "bk-1", "userId": f.bookingOwner})
	}))
	t.Cleanup(f.bookings.Close)

	f.payments = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.paymentCreates++
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(f.payments.Close)

	return f
}

func newTestApp(t *testing.T, f *fakeBackends) *fiber.App {
	t.Helper()
	app := fiber.New()
	cfg := config.Config{
		JWTSecret:         "test-secret",
		TokenTTL:          time.Hour,
		CarServiceURL:     f.cars.URL,
		BookingServiceURL: f.bookings.URL,
		PaymentServiceURL: f.payments.URL,
		DownstreamTimeout: 5 * time.Second,
	}
	if err := Setup(app, Deps{Cfg: cfg, Logger: logging.Discard()}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, bearer string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = strings.NewReader(string(encoded))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test %s %s: %v", method, path, err)
	}
	return resp
}

func register(t *testing.T, app *fiber.App, name, email, password string) *http.Response {
	return doJSON(t, app, fiber.MethodPost, "/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
}

func login(t *testing.T, app *fiber.App, email, password string) (string, *http.Response) {
	resp := doJSON(t, app, fiber.MethodPost, "/login", "", map[string]string{
		"email": email, "password": password,
	})
	if resp.StatusCode != fiber.StatusOK {
		return "", resp
	}
	var out struct {
		Token string `json:"token"`
	}
	json.NewDecoder(resp.Body).Decode(&out)
	resp.Body.Close()
	return out.Token, resp
}

func TestRegisterThenDuplicate(t *testing.T) {
	app := newTestApp(t, newFakeBackends(t))

	if resp := register(t, app, "A", "a@x.com", "pw"); resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("first register: expected 201, got %d", resp.StatusCode)
	}
	if resp := register(t, app, "A", "a@x.com", "pw"); resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("second register: expected 409, got %d", resp.StatusCode)
	}
}

func TestLoginIssuesTokenAndIsEnumerationSafe(t *testing.T) {
	app := newTestApp(t, newFakeBackends(t))
	register(t, app, "A", "a@x.com", "pw")

	tok, resp := login(t, app, "a@x.com", "pw")
	if resp.StatusCode != fiber.StatusOK || tok == "" {
		t.Fatalf("expected 200 with token, got %d %q", resp.StatusCode, tok)
	}
	if _, err := token.NewService("test-secret", time.Hour).Verify(tok); err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}

	_, wrongPass := login(t, app, "a@x.com", "wrong")
	_, unknown := login(t, app, "nobody@x.com", "pw")
	if wrongPass.StatusCode != fiber.StatusUnauthorized || unknown.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPass.StatusCode, unknown.StatusCode)
	}
	wrongBody, _ := io.ReadAll(wrongPass.Body)
	unknownBody, _ := io.ReadAll(unknown.Body)
	if string(wrongBody) != string(unknownBody) {
		t.Fatalf("login failure bodies must match: %q vs %q", wrongBody, unknownBody)
	}
}

func TestCarSearchRelaysDownstreamBody(t *testing.T) {
	app := newTestApp(t, newFakeBackends(t))
	register(t, app, "A", "a@x.com", "pw")
	tok, _ := login(t, app, "a@x.com", "pw")

	resp := doJSON(t, app, fiber.MethodGet, "/cars?location=douala", tok, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != `[{"id":"car-1","location":"douala"}]` {
		t.Fatalf("body not relayed verbatim: %s", body)
	}
}

func TestCarSearchDownstreamFailureIs500(t *testing.T) {
	backends := newFakeBackends(t)
	app := newTestApp(t, backends)
	backends.cars.Close() // car service down

	resp := doJSON(t, app, fiber.MethodGet, "/cars?location=douala", "tok", nil)
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}

func TestBookFlow(t *testing.T) {
	backends := newFakeBackends(t)
	app := newTestApp(t, backends)
	register(t, app, "A", "a@x.com", "pw")
	tok, _ := login(t, app, "a@x.com", "pw")

	resp := doJSON(t, app, fiber.MethodPost, "/book", tok, map[string]string{
		"car_id": "car-1", "start_date": "2024-06-01", "end_date": "2024-06-03",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var booking map[string]string
	json.NewDecoder(resp.Body).Decode(&booking)
	if booking["id"] != "bk-1" {
		t.Fatalf("unexpected booking payload: %v", booking)
	}
}

func TestBookUnavailableIs409AndNeverCreates(t *testing.T) {
	backends := newFakeBackends(t)
	backends.available = false
	app := newTestApp(t, backends)
	register(t, app, "A", "a@x.com", "pw")
	tok, _ := login(t, app, "a@x.com", "pw")

	resp := doJSON(t, app, fiber.MethodPost, "/book", tok, map[string]string{
		"car_id": "car-1", "start_date": "2024-06-01", "end_date": "2024-06-03",
	})
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	if backends.bookingCreates != 0 {
		t.Fatalf("booking create must not be invoked, got %d calls", backends.bookingCreates)
	}
}

func TestBookInvalidTokenIs401(t *testing.T) {
	app := newTestApp(t, newFakeBackends(t))

	resp := doJSON(t, app, fiber.MethodPost, "/book", "bogus", map[string]string{
		"car_id": "car-1", "start_date": "2024-06-01", "end_date": "2024-06-03",
	})
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestPayOwnBooking(t *testing.T) {
	backends := newFakeBackends(t)
	app := newTestApp(t, backends)
	register(t, app, "A", "a@x.com", "pw")
	tok, _ := login(t, app, "a@x.com", "pw")

	// Book first so the fake booking service knows the owner.
	doJSON(t, app, fiber.MethodPost, "/book", tok, map[string]string{
		"car_id": "car-1", "start_date": "2024-06-01", "end_date": "2024-06-03",
	})

	resp := doJSON(t, app, fiber.MethodPost, "/payments", tok, map[string]any{
		"booking_id": "bk-1", "amount": 5000,
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if backends.paymentCreates != 1 {
		t.Fatalf("expected one payment create, got %d", backends.paymentCreates)
	}
}

func TestPayForeignBookingIs403AndNeverCharges(t *testing.T) {
	backends := newFakeBackends(t)
	backends.bookingOwner = "someone-else"
	app := newTestApp(t, backends)
	register(t, app, "A", "a@x.com", "pw")
	tok, _ := login(t, app, "a@x.com", "pw")

	resp := doJSON(t, app, fiber.MethodPost, "/payments", tok, map[string]any{
		"booking_id": "bk-1", "amount": 5000,
	})
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if backends.paymentCreates != 0 {
		t.Fatalf("payment create must not be invoked, got %d calls", backends.paymentCreates)
	}
}
