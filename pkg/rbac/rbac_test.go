package rbac

import (
	"errors"
	"testing"
)

func TestHasPermission(t *testing.T) {
	cases := []struct {
		role, perm string
		want       bool
	}{
		{RoleAdmin, PermissionDeleteTask, true},
		{RoleAdmin, PermissionExportData, true},
		{RolePartner, PermissionReadTask, true},
		{RolePartner, PermissionCommentTask, true},
		{RolePartner, PermissionDeleteTask, false},
		{RolePartner, PermissionUpdateTask, false},
		{RolePartner, PermissionExportData, false},
		{"guest", PermissionReadTask, false},
	}
	for _, c := range cases {
		if got := HasPermission(c.role, c.perm); got != c.want {
			t.Errorf("HasPermission(%q, %q) = %v, want %v", c.role, c.perm, got, c.want)
		}
	}
}

func TestCheckPermission_ReturnsTypedError(t *testing.T) {
	err := CheckPermission(RolePartner, PermissionDeleteReport)
	var denied *PermissionDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected PermissionDeniedError, got %v", err)
	}
	if denied.Permission != PermissionDeleteReport {
		t.Errorf("Permission = %q", denied.Permission)
	}
	if err := CheckPermission(RoleAdmin, PermissionDeleteReport); err != nil {
		t.Errorf("admin should be allowed: %v", err)
	}
}

func TestCheckOwnership(t *testing.T) {
	if err := CheckOwnership(RoleAdmin, "Lead", "Alpha"); err != nil {
		t.Errorf("admin should bypass ownership: %v", err)
	}
	if err := CheckOwnership(RolePartner, "Alpha", "Alpha"); err != nil {
		t.Errorf("same organization should pass: %v", err)
	}
	var mismatch *OrganizationMismatchError
	if err := CheckOwnership(RolePartner, "Alpha", "Beta"); !errors.As(err, &mismatch) {
		t.Errorf("expected OrganizationMismatchError, got %v", err)
	}
}
