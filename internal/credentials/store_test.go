package credentials

import (
	"errors"
	"testing"

	"github.com/and161185/motd/internal/errs"
)

func TestParse_OK(t *testing.T) {
	t.Parallel()

	s, err := Parse([]string{"sister:ii2210_sister", " hakim:punya:hakim ", ""})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if secret, ok := s.Lookup("sister"); !ok || secret != "ii2210_sister" {
		t.Fatalf("lookup sister: %q %v", secret, ok)
	}
	if secret, ok := s.Lookup("hakim"); !ok || secret != "punya:hakim" {
		t.Fatalf("secret must keep colons after the first: %q", secret)
	}
	if _, ok := s.Lookup("mallory"); ok {
		t.Fatalf("unknown user found")
	}

	ids := s.UserIDs()
	if len(ids) != 2 || ids[0] != "hakim" || ids[1] != "sister" {
		t.Fatalf("UserIDs: %v", ids)
	}
	users := s.Users()
	if len(users) != 2 || users[1].ID != "sister" || users[1].SharedSecret != "ii2210_sister" {
		t.Fatalf("Users: %+v", users)
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	cases := map[string][]string{
		"no users":     nil,
		"no colon":     {"alice"},
		"empty secret": {"alice:"},
		"empty id":     {":secret"},
		"duplicate":    {"alice:a", "alice:b"},
	}
	for name, in := range cases {
		if _, err := Parse(in); !errors.Is(err, errs.ErrInvalidConfig) {
			t.Fatalf("%s: want ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestNew_CopiesInput(t *testing.T) {
	t.Parallel()

	in := map[string]string{"alice": "s1"}
	s, err := New(in)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	in["alice"] = "changed"
	in["bob"] = "s2"

	if secret, _ := s.Lookup("alice"); secret != "s1" {
		t.Fatalf("store mutated through caller map: %q", secret)
	}
	if _, ok := s.Lookup("bob"); ok {
		t.Fatalf("store grew through caller map")
	}
}

func TestNew_RejectsColonInUserID(t *testing.T) {
	t.Parallel()

	if _, err := New(map[string]string{"a:b": "s"}); !errors.Is(err, errs.ErrInvalidConfig) {
		t.Fatalf("want ErrInvalidConfig, got %v", err)
	}
}
