package model

import "testing"

func TestTripStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to TripStatus
		allowed  bool
	}{
		{TripDraft, TripSubmitted, true},
		{TripDraft, TripApproved, false},
		{TripDraft, TripUnderReview, false},
		{TripSubmitted, TripUnderReview, true},
		{TripSubmitted, TripApproved, true},
		{TripSubmitted, TripRejected, true},
		{TripSubmitted, TripDraft, false},
		{TripUnderReview, TripApproved, true},
		{TripUnderReview, TripRejected, true},
		{TripUnderReview, TripSubmitted, false},
		{TripApproved, TripRejected, false},
		{TripApproved, TripDraft, false},
		{TripRejected, TripSubmitted, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestTripStatusIsValid(t *testing.T) {
	for _, s := range []TripStatus{TripDraft, TripSubmitted, TripUnderReview, TripApproved, TripRejected} {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if TripStatus("archived").IsValid() {
		t.Error("unknown status should be invalid")
	}
}
