package handlers

import (
	"encoding/json"
	"testing"
)

func TestFlexInt(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{`3`, 3, false},
		{`"4"`, 4, false},
		{`" 2 "`, 2, false},
		{`""`, 0, false},
		{`null`, 0, false},
		{`"two"`, 0, true},
		{`true`, 0, true},
	}
	for _, tc := range cases {
		var got struct {
			Year flexInt `json:"year"`
		}
		err := json.Unmarshal([]byte(`{"year":`+tc.in+`}`), &got)
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s: err = %v", tc.in, err)
		}
		if !tc.wantErr && int(got.Year) != tc.want {
			t.Fatalf("%s: got %d want %d", tc.in, got.Year, tc.want)
		}
	}
}

func TestFlexIntPointerDistinguishesAbsent(t *testing.T) {
	var req struct {
		Year     *flexInt `json:"year"`
		Semester *flexInt `json:"semester"`
	}
	if err := json.Unmarshal([]byte(`{"semester":"5"}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if req.Year.ptr() != nil {
		t.Fatalf("absent year should stay nil")
	}
	if p := req.Semester.ptr(); p == nil || *p != 5 {
		t.Fatalf("semester: got %v", p)
	}
}
