package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"gatekeeper/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

type bindTarget struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func bindRouter() *gin.Engine {
	r := gin.New()
	r.POST("/bind", func(c *gin.Context) {
		var req bindTarget
		if !handlers.BindJSON(c, &req) {
			return
		}
		c.Status(http.StatusOK)
	})
	return r
}

func TestBindJSON_Valid(t *testing.T) {
	w, _ := doRequest(bindRouter(), http.MethodPost, "/bind", `{"email":"a@x.com","password":"pw"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", w.Code, w.Body.String())
	}
}

func TestBindJSON_ValidationErrorsNameJSONFields(t *testing.T) {
	w, _ := doRequest(bindRouter(), http.MethodPost, "/bind", `{"email":"nope"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp struct {
		Error struct {
			Details struct {
				Fields []handlers.FieldError `json:"fields"`
			} `json:"details"`
		} `json:"error"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v, body=%s", err, w.Body.String())
	}

	got := map[string]string{}
	for _, fe := range resp.Error.Details.Fields {
		got[fe.Field] = fe.Rule
	}

	if got["email"] != "email" {
		t.Errorf("expected email rule failure on field \"email\", got %v", got)
	}
	if got["password"] != "required" {
		t.Errorf("expected required failure on field \"password\", got %v", got)
	}
}

func TestBindJSON_SyntaxError(t *testing.T) {
	w, _ := doRequest(bindRouter(), http.MethodPost, "/bind", `{"email":`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestBindJSON_TypeMismatch(t *testing.T) {
	w, _ := doRequest(bindRouter(), http.MethodPost, "/bind", `{"email":123,"password":"pw"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
