package domain

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusNew, StatusProcessing, true},
		{StatusNew, StatusApproved, true},
		{StatusNew, StatusDenied, true},
		{StatusNew, StatusRefunded, false},
		{StatusProcessing, StatusApproved, true},
		{StatusProcessing, StatusNew, false},
		{StatusApproved, StatusRefunded, true},
		{StatusApproved, StatusDenied, false},
		{StatusDenied, StatusApproved, false},
		{StatusRefunded, StatusApproved, false},
		{"unknown", StatusApproved, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
