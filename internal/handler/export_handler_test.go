package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bayraktare/pmt/internal/model"
	"github.com/bayraktare/pmt/internal/service/project"
	"github.com/bayraktare/pmt/internal/store"
)

func TestImport_RejectsOversizedBody(t *testing.T) {
	st := store.New()
	st.Seed(store.Data{
		Tasks: []model.Task{{ID: "task_1", Title: "kept"}},
		Users: []model.User{{Username: "admin", PasswordHash: "x", Role: model.RoleAdmin}},
	})
	h := NewExportHandler(project.NewService(st, nil, "Alpha", zap.NewNop()), zap.NewNop())
	h.maxBytes = 64

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"users": [], "tasks": [], "padding": "` + strings.Repeat("x", 128) + `"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/api/import", strings.NewReader(body))

	h.Import(c)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413 (%s)", w.Code, w.Body.String())
	}
	if got := st.Snapshot().Tasks; len(got) != 1 || got[0].ID != "task_1" {
		t.Errorf("store changed after rejected import: %+v", got)
	}
}
