package domain

import "testing"

func TestDeriveTestStudentIdentity(t *testing.T) {
	cases := []struct {
		staff    StaffIdentity
		username string
		email    string
		lastname string
	}{
		{
			staff:    StaffIdentity{Username: "jdoe", Firstname: "Jane", Lastname: "Doe"},
			username: "jdoe-urstudent",
			email:    "jdoe+urstudent@uregina.ca",
			lastname: "Doe (urstudent)",
		},
		{
			staff:    StaffIdentity{Username: "smith2k", Firstname: "Sam", Lastname: "Smith"},
			username: "smith2k-urstudent",
			email:    "smith2k+urstudent@uregina.ca",
			lastname: "Smith (urstudent)",
		},
	}

	for _, tc := range cases {
		identity := DeriveTestStudentIdentity(&tc.staff)
		if identity.Username != tc.username {
			t.Fatalf("expected username %s, got %s", tc.username, identity.Username)
		}
		if identity.Email != tc.email {
			t.Fatalf("expected email %s, got %s", tc.email, identity.Email)
		}
		if identity.Firstname != tc.staff.Firstname {
			t.Fatalf("expected firstname %s, got %s", tc.staff.Firstname, identity.Firstname)
		}
		if identity.Lastname != tc.lastname {
			t.Fatalf("expected lastname %q, got %q", tc.lastname, identity.Lastname)
		}
	}
}

func TestDeriveTestStudentIdentityDeterministic(t *testing.T) {
	staff := &StaffIdentity{Username: "jdoe", Firstname: "Jane", Lastname: "Doe"}
	first := DeriveTestStudentIdentity(staff)
	second := DeriveTestStudentIdentity(staff)
	if first != second {
		t.Fatalf("expected identical derivations, got %+v and %+v", first, second)
	}
}

func TestAuthMethodSupportsPassword(t *testing.T) {
	if !AuthMethodManual.SupportsPassword() {
		t.Fatalf("expected manual auth to support passwords")
	}
	for _, method := range []AuthMethod{AuthMethodSAML, AuthMethodLDAP} {
		if method.SupportsPassword() {
			t.Fatalf("expected %s auth to reject passwords", method)
		}
	}
}
