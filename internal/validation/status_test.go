package validation

import "testing"

func TestStatusTransition(t *testing.T) {
	cases := []struct {
		name      string
		current   string
		requested string
		message   string // empty means allowed
	}{
		{"booked to seated", "booked", "seated", ""},
		{"booked to cancelled", "booked", "cancelled", ""},
		{"seated to finished", "seated", "finished", ""},
		{"seated to cancelled", "seated", "cancelled", ""},
		{"seated back to booked", "seated", "booked", ""},
		{"finished to booked", "finished", "booked", "a finished reservation cannot be updated"},
		{"finished to seated", "finished", "seated", "a finished reservation cannot be updated"},
		{"finished to finished", "finished", "finished", "a finished reservation cannot be updated"},
		{"finished to cancelled", "finished", "cancelled", "a finished reservation cannot be updated"},
		{"unknown status", "booked", "waiting", "unknown status"},
		{"empty status", "booked", "", "unknown status"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := StatusTransition(tc.current, tc.requested)
			if tc.message == "" {
				if err != nil {
					t.Fatalf("expected transition to be allowed, got %q", err.Message)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected %q, got allowed", tc.message)
			}
			if err.Status != 400 || err.Message != tc.message {
				t.Fatalf("got status=%d message=%q, want 400 %q", err.Status, err.Message, tc.message)
			}
		})
	}
}
