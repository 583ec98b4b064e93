package football

import "testing"

func TestMapStatus(t *testing.T) {
	tests := []struct {
		in   string
		want MatchStatus
	}{
		{in: "NS", want: StatusUpcoming},
		{in: "TBD", want: StatusUpcoming},
		{in: "1H", want: StatusLive},
		{in: "2H", want: StatusLive},
		{in: "ET", want: StatusLive},
		{in: "P", want: StatusLive},
		{in: "LIVE", want: StatusLive},
		{in: "HT", want: StatusHalftime},
		{in: "FT", want: StatusFinished},
		{in: "AET", want: StatusFinished},
		{in: "PEN", want: StatusFinished},
		{in: "ft", want: StatusFinished},
		{in: "PST", want: StatusUpcoming},
		{in: "XYZ", want: StatusUpcoming},
		{in: "", want: StatusUpcoming},
	}

	for _, tt := range tests {
		if got := MapStatus(tt.in); got != tt.want {
			t.Fatalf("MapStatus(%q)=%q want=%q", tt.in, got, tt.want)
		}
	}
}

func TestMatchStatus_IsLive(t *testing.T) {
	if !StatusLive.IsLive() || !StatusHalftime.IsLive() {
		t.Fatalf("expected live and halftime to be live")
	}
	if StatusUpcoming.IsLive() || StatusFinished.IsLive() {
		t.Fatalf("expected upcoming and finished not to be live")
	}
}
