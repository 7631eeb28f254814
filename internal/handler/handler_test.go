package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/bayraktare/pmt/internal/model"
	"github.com/bayraktare/pmt/pkg/rbac"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&model.ValidationError{Field: "title", Reason: "must not be empty"}, http.StatusBadRequest},
		{fmt.Errorf("edit task_9: %w", model.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("verify: %w", model.ErrAuthFailure), http.StatusUnauthorized},
		{rbac.CheckPermission(rbac.RolePartner, rbac.PermissionExportData), http.StatusForbidden},
		{rbac.CheckOwnership(rbac.RolePartner, "Beta", "Alpha"), http.StatusForbidden},
		{model.ErrForbidden, http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got, _ := statusFor(tc.err); got != tc.want {
			t.Errorf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestStatusFor_HidesInternalErrors(t *testing.T) {
	_, msg := statusFor(errors.New("pq: password authentication failed"))
	if msg != "internal error" {
		t.Errorf("message = %q", msg)
	}
}

func TestQueryList(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/tasks?status=Completed,Delayed&status=+Cancelled+&status=", nil)

	got := queryList(c, "status")
	want := []string{"Completed", "Delayed", "Cancelled"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("queryList = %v, want %v", got, want)
	}
	if got := queryList(c, "category"); got != nil {
		t.Errorf("missing key = %v, want nil", got)
	}
}

func TestCurrentUser(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if _, ok := CurrentUser(c); ok {
		t.Fatal("expected no user on a fresh context")
	}

	u := model.User{Username: "beta", Role: model.RolePartner, Organization: "Beta"}
	SetSession(c, u, nil)
	got, ok := CurrentUser(c)
	if !ok || got.Organization != "Beta" {
		t.Errorf("CurrentUser = %+v, %v", got, ok)
	}
}
