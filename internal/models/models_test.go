package models

import "testing"

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "৳0.00"},
		{5, "৳5.00"},
		{150, "৳150.00"},
		{29.999, "৳30.00"},
		{1234.5, "৳1,234.50"},
	}
	for _, c := range cases {
		if got := FormatMoney(c.in); got != c.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParsePage(t *testing.T) {
	for _, p := range Pages {
		got, ok := ParsePage(string(p))
		if !ok || got != p {
			t.Errorf("ParsePage(%q) = %q, %v", p, got, ok)
		}
	}
	if _, ok := ParsePage("settings"); ok {
		t.Error("ParsePage accepted unknown page")
	}
}

func TestSnapshotClone(t *testing.T) {
	var nilSnap *UserSnapshot
	if nilSnap.Clone() != nil {
		t.Fatal("Clone of nil should be nil")
	}
	s := &UserSnapshot{User: UserProfile{Balance: 10}}
	c := s.Clone()
	c.User.Balance = 20
	if s.User.Balance != 10 {
		t.Errorf("clone shares state: balance = %v", s.User.Balance)
	}
}
