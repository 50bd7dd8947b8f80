package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/n4u77i/reminderApp/internal/database"
	"github.com/n4u77i/reminderApp/internal/dto"
	"github.com/n4u77i/reminderApp/internal/service"
	"github.com/n4u77i/reminderApp/pkg/idgen"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := service.NewReminderService(database.NewMemoryStore(), idgen.New())
	ctrl := NewReminderController(svc)

	r := gin.New()
	r.POST("/reminders", ctrl.CreateReminder)
	r.GET("/reminders/:userId", ctrl.GetReminders)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateAndListReminders(t *testing.T) {
	r := newTestRouter()

	w := postJSON(r, "/reminders", `{"phoneNumber":"+15551234567","reminder":"Call mom","reminderDate":1700000000000}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	var created dto.CreateReminderOutput
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" {
		t.Error("expected an id in the create response")
	}

	w = postJSON(r, "/reminders", `{"phoneNumber":"+15551234567","reminder":"Buy milk","reminderDate":1700000600000}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	list := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reminders/+15551234567", nil)
	r.ServeHTTP(list, req)
	if list.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", list.Code, list.Body.String())
	}

	var payload struct {
		Data []dto.Reminder `json:"data"`
	}
	if err := json.Unmarshal(list.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if len(payload.Data) != 2 {
		t.Fatalf("expected two reminders, got %d", len(payload.Data))
	}
	if payload.Data[0].Message != "Call mom" || payload.Data[1].Message != "Buy milk" {
		t.Errorf("expected ascending due-time order, got %#v", payload.Data)
	}
}

func TestCreateReminderValidation(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"missing contact", `{"reminder":"hi","reminderDate":1700000000000}`, "contact required"},
		{"missing message", `{"email":"a@example.com","reminderDate":1700000000000}`, "message required"},
		{"missing due time", `{"email":"a@example.com","reminder":"hi"}`, "due time required"},
		{"mistyped email", `{"email":123,"reminder":"hi","reminderDate":1700000000000}`, "email must be a string"},
		{"mistyped message", `{"email":"a@example.com","reminder":true,"reminderDate":1700000000000}`, "reminder must be a string"},
		{"mistyped due time", `{"email":"a@example.com","reminder":"hi","reminderDate":"tomorrow"}`, "reminderDate must be a number"},
		{"fractional due time", `{"email":"a@example.com","reminder":"hi","reminderDate":1700000000000.5}`, "reminderDate must be a whole number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter()

			w := postJSON(r, "/reminders", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d body=%s", w.Code, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tt.expected) {
				t.Errorf("expected message %q, got %s", tt.expected, w.Body.String())
			}
		})
	}
}

func TestCreateReminderRejectsNonObjectBody(t *testing.T) {
	r := newTestRouter()

	w := postJSON(r, "/reminders", `"just a string"`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestGetRemindersOrderParam(t *testing.T) {
	r := newTestRouter()

	postJSON(r, "/reminders", `{"email":"alice@example.com","reminder":"sooner","reminderDate":1700000000000}`)
	postJSON(r, "/reminders", `{"email":"alice@example.com","reminder":"later","reminderDate":1700000600000}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reminders/alice@example.com?order=desc", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	var payload struct {
		Data []dto.Reminder `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if len(payload.Data) != 2 || payload.Data[0].Message != "later" {
		t.Errorf("expected descending order, got %#v", payload.Data)
	}

	bad := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/reminders/alice@example.com?order=sideways", nil)
	r.ServeHTTP(bad, req)
	if bad.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid order, got %d", bad.Code)
	}
}
