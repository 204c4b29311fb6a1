package validator_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pkgvalidator "github.com/ghuser/mrpcapacity/pkg/validator"
)

type productReq struct {
	Name        string `json:"name"         validate:"required,max=10"`
	ProductType string `json:"product_type" validate:"required,len=3"`
	Capacity    int    `json:"capacity"     validate:"required,gt=0"`
}

type itemReq struct {
	ProductNumber string    `json:"item_product_number" validate:"required,uuid"`
	BatchID       int64     `json:"batch_id"`
	RequiredAt    time.Time `json:"required_at"         validate:"required"`
}

func TestFormatValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want map[string]string
	}{
		{
			name: "missing fields use json names",
			in:   &productReq{},
			want: map[string]string{
				"name":         "This field is required",
				"product_type": "This field is required",
				"capacity":     "This field is required",
			},
		},
		{
			name: "shape rules",
			in:   &productReq{Name: "A very long name", ProductType: "MTSX", Capacity: -5},
			want: map[string]string{
				"name":         "Maximum length is 10",
				"product_type": "Length must be exactly 3",
				"capacity":     "Must be greater than 0",
			},
		},
		{
			name: "uuid",
			in:   &itemReq{ProductNumber: "abc", RequiredAt: time.Now()},
			want: map[string]string{"item_product_number": "Must be a valid UUID"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pkgvalidator.FormatValidationErrors(pkgvalidator.Validate(tt.in))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for field, msg := range tt.want {
				if got[field] != msg {
					t.Errorf("%s: got %q, want %q", field, got[field], msg)
				}
			}
		})
	}
}

func TestFormatValidationErrors_otherError(t *testing.T) {
	if got := pkgvalidator.FormatValidationErrors(http.ErrBodyNotAllowed); len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}

func TestValidateRequest(t *testing.T) {
	const valid = `{"item_product_number":"550e8400-e29b-41d4-a716-446655440000","batch_id":2,"required_at":"2024-01-01T00:00:00Z"}`

	tests := []struct {
		name     string
		body     string
		wantOK   bool
		wantCode int
		wantMsg  string
	}{
		{"valid", valid, true, 0, ""},
		{"empty body", ``, false, http.StatusBadRequest, "Request body is required"},
		{"malformed", `{"batch_id":`, false, http.StatusBadRequest, "Invalid JSON"},
		{"unknown field", `{"quantity":5}`, false, http.StatusBadRequest, `Unknown field "quantity"`},
		{"mistyped field", `{"batch_id":"two"}`, false, http.StatusBadRequest, "Field 'batch_id' must be of type int64"},
		{"bad timestamp", `{"required_at":"01/01/2024"}`, false, http.StatusBadRequest, "Invalid JSON"},
		{"missing fields", `{"batch_id":2}`, false, http.StatusUnprocessableEntity, "Validation failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, ok := pkgvalidator.ValidateRequest[itemReq](w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)))
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v (%s)", ok, tt.wantOK, w.Body.String())
			}
			if ok {
				if req.BatchID != 2 {
					t.Errorf("unexpected request %+v", req)
				}
				return
			}
			if w.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", w.Code, tt.wantCode)
			}
			var body map[string]any
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != tt.wantMsg {
				t.Errorf("error: got %q, want %q", body["error"], tt.wantMsg)
			}
		})
	}
}

func TestValidateRequest_BodyTooLarge(t *testing.T) {
	h := pkgvalidatorHandler()
	w := httptest.NewRecorder()
	body := `{"item_product_number":"` + strings.Repeat("a", 256) + `"}`
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", w.Code)
	}
}

func pkgvalidatorHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 64)
		if _, ok := pkgvalidator.ValidateRequest[itemReq](w, r); ok {
			w.WriteHeader(http.StatusOK)
		}
	})
}
