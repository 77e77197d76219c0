package controller_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"webochat/internal/pkg/chat/persistence/repository/adapter"
	httpHandler "webochat/internal/pkg/chat/presentation/http"

	"github.com/gin-gonic/gin"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	repo := adapter.NewMemChatRepository()
	r := gin.New()
	v1 := r.Group("/api/v1")
	httpHandler.RegisterUserRoutes(v1, repo)
	httpHandler.RegisterChatRoutes(v1, repo, nil, nil)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func register(t *testing.T, r *gin.Engine, identity, name, email string) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/user", gin.H{
		"identity_id":  identity,
		"display_name": name,
		"email":        email,
		"avatar_url":   "https://example.com/" + identity + ".png",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", email, w.Code, w.Body.String())
	}
}

func TestRegisterUserValidation(t *testing.T) {
	r := setupRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/user", gin.H{
		"identity_id":  "u1",
		"display_name": "Alice",
		"email":        "not-an-email",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed email, got %d", w.Code)
	}

	register(t, r, "u1", "Alice", "alice@x.com")

	w = doJSON(t, r, http.MethodPost, "/api/v1/user", gin.H{
		"identity_id":  "u1",
		"display_name": "Alice",
		"email":        "alice2@x.com",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for duplicate identity, got %d", w.Code)
	}
}

func TestConversationLifecycle(t *testing.T) {
	r := setupRouter()
	register(t, r, "u1", "Alice", "alice@x.com")
	register(t, r, "u2", "Bob", "bob@x.com")

	// Alice adds Bob.
	w := doJSON(t, r, http.MethodPost, "/api/v1/chat", gin.H{
		"sender_email":   "alice@x.com",
		"receiver_email": "bob@x.com",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create: status %d body %s", w.Code, w.Body.String())
	}
	var created map[string]any
	decode(t, w, &created)
	if msgs, ok := created["messages"].([]any); !ok || len(msgs) != 0 {
		t.Errorf("new conversation must start empty, got %v", created["messages"])
	}

	// The reversed pair is a conflict.
	w = doJSON(t, r, http.MethodPost, "/api/v1/chat", gin.H{
		"sender_email":   "bob@x.com",
		"receiver_email": "alice@x.com",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 for reversed duplicate, got %d", w.Code)
	}

	// Unknown emails are not found.
	w = doJSON(t, r, http.MethodPost, "/api/v1/chat", gin.H{
		"sender_email":   "alice@x.com",
		"receiver_email": "nobody@x.com",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown email, got %d", w.Code)
	}

	// Alice sends a message over the HTTP path.
	w = doJSON(t, r, http.MethodPost, "/api/v1/chat/send-message", gin.H{
		"sender_email":   "alice@x.com",
		"receiver_email": "bob@x.com",
		"message":        "hi",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("send: status %d body %s", w.Code, w.Body.String())
	}
	var sent map[string]any
	decode(t, w, &sent)
	if sent["last_message"] != "hi" {
		t.Errorf("expected last_message hi, got %v", sent["last_message"])
	}

	// Both participants see the conversation.
	for _, email := range []string{"alice@x.com", "bob@x.com"} {
		w = doJSON(t, r, http.MethodGet, "/api/v1/chat/"+email, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("list %s: status %d", email, w.Code)
		}
		var list []map[string]any
		decode(t, w, &list)
		if len(list) != 1 {
			t.Fatalf("expected one conversation for %s, got %d", email, len(list))
		}
	}

	// Bob hides it.
	w = doJSON(t, r, http.MethodDelete, "/api/v1/chat", gin.H{
		"user_email":  "bob@x.com",
		"other_email": "alice@x.com",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("hide: status %d body %s", w.Code, w.Body.String())
	}
	var hideResp map[string]any
	decode(t, w, &hideResp)
	if hideResp["modified_count"] != float64(1) {
		t.Errorf("expected modified_count 1, got %v", hideResp["modified_count"])
	}

	// Hidden for Bob, still visible for Alice.
	w = doJSON(t, r, http.MethodGet, "/api/v1/chat/bob@x.com", nil)
	var bobList []map[string]any
	decode(t, w, &bobList)
	if len(bobList) != 0 {
		t.Errorf("expected empty list for bob after hide, got %d", len(bobList))
	}
	w = doJSON(t, r, http.MethodGet, "/api/v1/chat/alice@x.com", nil)
	var aliceList []map[string]any
	decode(t, w, &aliceList)
	if len(aliceList) != 1 {
		t.Errorf("hide must not affect alice, got %d", len(aliceList))
	}

	// Bob's hidden list surfaces the other participant.
	w = doJSON(t, r, http.MethodGet, "/api/v1/hidden/u2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("hidden list: status %d", w.Code)
	}
	var hiddenList []map[string]any
	decode(t, w, &hiddenList)
	if len(hiddenList) != 1 {
		t.Fatalf("expected one hidden conversation, got %d", len(hiddenList))
	}
	hiddenWith, _ := hiddenList[0]["hidden_with"].(map[string]any)
	if hiddenWith["email"] != "alice@x.com" {
		t.Errorf("hidden_with must be alice, got %v", hiddenWith)
	}

	// Bob unhides; messages intact.
	w = doJSON(t, r, http.MethodPost, "/api/v1/chat/unhide", gin.H{
		"user_email":  "bob@x.com",
		"other_email": "alice@x.com",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("unhide: status %d body %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodGet, "/api/v1/chat/bob@x.com", nil)
	decode(t, w, &bobList)
	if len(bobList) != 1 {
		t.Fatalf("expected conversation back for bob, got %d", len(bobList))
	}
	if msgs, _ := bobList[0]["messages"].([]any); len(msgs) != 1 {
		t.Errorf("messages must survive hide/unhide, got %v", bobList[0]["messages"])
	}

	// A second unhide has nothing to do.
	w = doJSON(t, r, http.MethodPost, "/api/v1/chat/unhide", gin.H{
		"user_email":  "bob@x.com",
		"other_email": "alice@x.com",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for nothing to unhide, got %d", w.Code)
	}
}

func TestSendMessageValidation(t *testing.T) {
	r := setupRouter()
	register(t, r, "u1", "Alice", "alice@x.com")
	register(t, r, "u2", "Bob", "bob@x.com")

	w := doJSON(t, r, http.MethodPost, "/api/v1/chat/send-message", gin.H{
		"sender_email": "alice@x.com",
		"message":      "hi",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing receiver, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/chat/send-message", gin.H{
		"sender_email":   "alice@x.com",
		"receiver_email": "bob@x.com",
		"message":        "   ",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for blank message, got %d", w.Code)
	}
}
