package catalog

import "testing"

func TestResolve(t *testing.T) {
	r := NewResolver(nil)
	cases := []struct {
		token string
		want  string
		ok    bool
	}{
		{"haircut", "f9160450-0b51-4ddc-bcc7-ac150103d5c0", true},
		{"  HairCut ", "f9160450-0b51-4ddc-bcc7-ac150103d5c0", true},
		{"skin fade", "14000cb7-a5bb-4a26-9f23-b0f3016cc009", true},
		{"skin_fade", "14000cb7-a5bb-4a26-9f23-b0f3016cc009", true},
		{"Long Locks", "721e907d-fdae-41a5-bec4-ac150104229b", true},
		{"beard_trim", "65ee2a0d-e995-4d8d-a286-ac150106994b", true},
		{"6F9619FF-8B86-D011-B42D-00C04FC964FF", "6f9619ff-8b86-d011-b42d-00c04fc964ff", true},
		{"{6F9619FF-8B86-D011-B42D-00C04FC964FF}", "6f9619ff-8b86-d011-b42d-00c04fc964ff", true},
		{"urn:uuid:6f9619ff-8b86-d011-b42d-00c04fc964ff", "6f9619ff-8b86-d011-b42d-00c04fc964ff", true},
		{"6f9619ff8b86d011b42d00c04fc964ff", "6f9619ff-8b86-d011-b42d-00c04fc964ff", true},
		{"haircutz", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := r.Resolve(tc.token)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("%q: expected (%q,%v), got (%q,%v)", tc.token, tc.want, tc.ok, got, ok)
		}
	}
}

func TestResolveAllReportsUnknown(t *testing.T) {
	r := NewResolver(nil)
	ids, unknown := r.ResolveAll([]string{"fade", "haircutz", "wash"})
	if len(ids) != 2 {
		t.Fatalf("expected 2 resolved ids, got %d", len(ids))
	}
	if len(unknown) != 1 || unknown[0] != "haircutz" {
		t.Fatalf("expected haircutz to be unknown, got %v", unknown)
	}
}

func TestName(t *testing.T) {
	r := NewResolver(nil)
	if got := r.Name("721E907D-FDAE-41A5-BEC4-AC150104229B"); got != "Long Locks" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := r.Name("unknown"); got != "" {
		t.Fatalf("expected empty name, got %q", got)
	}
}
