package discovery

import "testing"

func TestCanRegister(t *testing.T) {
	e := EventRecord{
		ID:        1,
		Occupancy: 2,
		Registered: []Registration{
			{Email: "a@example.com", Date: "2025-06-01"},
			{Email: "b@example.com", Date: "2025-06-01"},
		},
	}

	cases := []struct {
		name       string
		email      string
		date       string
		wantAllow  bool
		wantReason RegisterReason
	}{
		{"full date rejects a third participant", "c@example.com", "2025-06-01", false, ReasonFull},
		{"same event different date is fine", "c@example.com", "2025-06-02", true, ""},
		{"duplicate registration", "a@example.com", "2025-06-01", false, ReasonAlreadyRegistered},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := CanRegister(e, tc.email, tc.date)
			if d.Allowed != tc.wantAllow {
				t.Fatalf("allowed = %v, want %v", d.Allowed, tc.wantAllow)
			}
			if d.Reason != tc.wantReason {
				t.Fatalf("reason = %q, want %q", d.Reason, tc.wantReason)
			}
		})
	}
}

func TestCanRegisterUnlimitedOccupancy(t *testing.T) {
	e := EventRecord{ID: 2, Occupancy: 0}
	for i := 0; i < 50; i++ {
		e.Registered = append(e.Registered, Registration{Email: "x@example.com", Date: "2025-06-01"})
	}

	d := CanRegister(e, "new@example.com", "2025-06-01")
	if !d.Allowed {
		t.Fatalf("occupancy 0 means unlimited, registration must be allowed")
	}
}

func TestSpotsLeft(t *testing.T) {
	e := EventRecord{
		Occupancy: 3,
		Registered: []Registration{
			{Email: "a@example.com", Date: "2025-06-01"},
			{Email: "b@example.com", Date: "2025-06-01"},
			{Email: "a@example.com", Date: "2025-06-02"},
		},
	}

	left, unlimited := SpotsLeft(e, "2025-06-01")
	if unlimited {
		t.Fatalf("occupancy 3 is not unlimited")
	}
	if left != 1 {
		t.Fatalf("expected 1 spot left, got %d", left)
	}

	left, _ = SpotsLeft(e, "2025-06-02")
	if left != 2 {
		t.Fatalf("expected 2 spots left on the second date, got %d", left)
	}

	_, unlimited = SpotsLeft(EventRecord{Occupancy: 0}, "2025-06-01")
	if !unlimited {
		t.Fatalf("occupancy 0 must report unlimited")
	}
}
