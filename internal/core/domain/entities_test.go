package domain_test

import (
	"testing"

	"campus-visitpass/internal/core/domain"
)

func TestRolePermissions(t *testing.T) {
	cases := []struct {
		role domain.Role
		perm domain.Permission
		want bool
	}{
		{domain.RoleStudent, domain.PermSubmitRequest, true},
		{domain.RoleStudent, domain.PermViewOwnRequests, true},
		{domain.RoleStudent, domain.PermReviewRequests, false},
		{domain.RoleStudent, domain.PermVerifyEntry, false},
		{domain.RoleAdmin, domain.PermReviewRequests, true},
		{domain.RoleAdmin, domain.PermManageUsers, true},
		{domain.RoleAdmin, domain.PermSubmitRequest, false},
		{domain.RoleSecurity, domain.PermVerifyEntry, true},
		{domain.RoleSecurity, domain.PermReviewRequests, false},
		{domain.RoleStaff, domain.PermVerifyEntry, true},
		{domain.Role("superuser"), domain.PermManageUsers, false},
	}

	for _, tc := range cases {
		if got := tc.role.Can(tc.perm); got != tc.want {
			t.Errorf("%s.Can(%s) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestRoleValid(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleStudent, domain.RoleAdmin, domain.RoleStaff, domain.RoleSecurity} {
		if !role.Valid() {
			t.Errorf("%s should be valid", role)
		}
	}
	if domain.Role("superuser").Valid() {
		t.Error("unknown role accepted")
	}
}

func TestRequestStatusTerminal(t *testing.T) {
	if domain.StatusPendingReview.Terminal() {
		t.Error("PENDING_REVIEW must not be terminal")
	}
	for _, status := range []domain.RequestStatus{domain.StatusApproved, domain.StatusRejected} {
		if !status.Terminal() {
			t.Errorf("%s must be terminal", status)
		}
	}
}
