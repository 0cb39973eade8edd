package domain

import "testing"

func TestRoleCovers(t *testing.T) {
	t.Parallel()

	cases := []struct {
		r, other Role
		want     bool
	}{
		{RoleStaff, RoleStaff, true},
		{RoleStaff, RoleDeveloper, true},
		{RoleStaff, RolePlayer, true},
		{RoleDeveloper, RolePlayer, true},
		{RoleDeveloper, RoleStaff, false},
		{RolePlayer, RoleDeveloper, false},
		{RolePlayer, RolePlayer, true},
		{Role("ghost"), RolePlayer, false},
		{RoleStaff, Role("ghost"), false},
	}

	for _, tc := range cases {
		if got := tc.r.Covers(tc.other); got != tc.want {
			t.Fatalf("%s.Covers(%s) = %v, want %v", tc.r, tc.other, got, tc.want)
		}
	}
}

func TestRoleValid(t *testing.T) {
	t.Parallel()

	for _, r := range []Role{RolePlayer, RoleDeveloper, RoleStaff} {
		if !r.Valid() {
			t.Fatalf("%s should be valid", r)
		}
	}
	if Role("admin").Valid() {
		t.Fatal("unknown role should not be valid")
	}
}
