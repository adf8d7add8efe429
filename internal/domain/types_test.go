package domain

import "testing"

func TestMakeContractKey(t *testing.T) {
	cases := []struct {
		ticker, exp string
		strike      float64
		optType     string
		want        string
	}{
		{"AAPL", "2026-09-18", 190, "C", "AAPL|2026-09-18|190|C"},
		{"aapl", "2026-09-18T00:00:00Z", 190.5, "call", "AAPL|2026-09-18|190.5|C"},
		{" spy ", "2026-10-16 00:00:00", 500, "Puts", "SPY|2026-10-16|500|P"},
		{"TSLA", "2026-09-18", 400, "", "TSLA|2026-09-18|400|C"},
	}
	for _, c := range cases {
		got := MakeContractKey(c.ticker, c.exp, c.strike, c.optType)
		if got != c.want {
			t.Errorf("MakeContractKey(%q,%q,%v,%q) = %q, want %q",
				c.ticker, c.exp, c.strike, c.optType, got, c.want)
		}
	}
}

func TestNormalizeOptType(t *testing.T) {
	cases := []struct{ in, want string }{
		{"C", "C"}, {"call", "C"}, {"CALLS", "C"},
		{"P", "P"}, {"put", "P"}, {" Puts ", "P"},
		{"X", "X"}, {"", ""},
	}
	for _, c := range cases {
		if got := NormalizeOptType(c.in); got != c.want {
			t.Errorf("NormalizeOptType(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTagList(t *testing.T) {
	a := AlertItem{Tags: "SWEEP, ,REPEAT,,OTM"}
	got := a.TagList()
	want := []string{"SWEEP", "REPEAT", "OTM"}
	if len(got) != len(want) {
		t.Fatalf("TagList() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("TagList()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if (AlertItem{}).TagList() != nil {
		t.Error("TagList() on empty tags should be nil")
	}
	if (AlertItem{Tags: " , "}).TagList() != nil {
		t.Error("TagList() on blank entries should be nil")
	}
}

func TestSortModeCycle(t *testing.T) {
	s := SortNone
	order := []SortMode{SortDesc, SortAsc, SortNone}
	for i, want := range order {
		s = s.Next()
		if s != want {
			t.Fatalf("cycle step %d = %v, want %v", i, s, want)
		}
	}
	if SortDesc.Param() != "desc" || SortAsc.Param() != "asc" || SortNone.Param() != "" {
		t.Error("SortMode.Param() values are wrong")
	}
}

func TestTypeFilterCycle(t *testing.T) {
	f := FilterAll
	order := []TypeFilter{FilterCalls, FilterPuts, FilterAll}
	for i, want := range order {
		f = f.Next()
		if f != want {
			t.Fatalf("cycle step %d = %v, want %v", i, f, want)
		}
	}
	if FilterCalls.Param() != "C" || FilterPuts.Param() != "P" || FilterAll.Param() != "" {
		t.Error("TypeFilter.Param() values are wrong")
	}
}
