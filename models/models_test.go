package models

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
	"time"
)

func TestProgress(t *testing.T) {
	tests := []struct {
		name         string
		raised, goal float64
		want         float64
	}{
		{"zero goal", 500, 0, 0},
		{"negative goal", 500, -10, 0},
		{"nothing raised", 0, 1000, 0},
		{"partial", 400, 1000, 40},
		{"exact", 1000, 1000, 100},
		{"over-funded is capped", 1100, 1000, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Progress(tt.raised, tt.goal)
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if got < 0 || got > 100 {
				t.Fatalf("progress %v out of range", got)
			}
		})
	}
}

func TestCampaignDaysLeft(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var c Campaign
	if c.DaysLeft(now) != nil {
		t.Fatal("expected nil days left without end date")
	}

	end := now.Add(72*time.Hour + time.Hour)
	c.EndDate = &end
	if got := *c.DaysLeft(now); got != 3 {
		t.Fatalf("expected 3 days, got %d", got)
	}

	past := now.Add(-49 * time.Hour)
	c.EndDate = &past
	if got := *c.DaysLeft(now); got != 0 {
		t.Fatalf("expected 0 days for ended campaign, got %d", got)
	}
}

func TestCanAcceptStudent(t *testing.T) {
	tests := []struct {
		name string
		m    Mentor
		want bool
	}{
		{"free slot", Mentor{IsAvailable: true, MaxStudents: 3, CurrentStudents: 2}, true},
		{"full", Mentor{IsAvailable: true, MaxStudents: 3, CurrentStudents: 3}, false},
		{"unavailable", Mentor{IsAvailable: false, MaxStudents: 3, CurrentStudents: 0}, false},
		{"zero capacity", Mentor{IsAvailable: true}, false},
	}
	for _, tt := range tests {
		if got := tt.m.CanAcceptStudent(); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestExpertiseAreas(t *testing.T) {
	mentors := []Mentor{
		{Expertise: "Go, Distributed Systems ,  "},
		{Expertise: "Go,Machine Learning"},
		{Expertise: ""},
	}
	got := ExpertiseAreas(mentors)
	want := []string{"Distributed Systems", "Go", "Machine Learning"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if got := ExpertiseAreas(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestMentorshipTransitions(t *testing.T) {
	allowed := map[MentorshipStatus][]MentorshipStatus{
		MentorshipPending: {MentorshipActive, MentorshipRejected},
		MentorshipActive:  {MentorshipCompleted, MentorshipCancelled},
	}
	all := []MentorshipStatus{MentorshipPending, MentorshipActive, MentorshipRejected, MentorshipCompleted, MentorshipCancelled}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, ok := range allowed[from] {
				if ok == to {
					want = true
				}
			}
			if got := from.CanTransition(to); got != want {
				t.Errorf("%s -> %s: expected %v, got %v", from, to, want, got)
			}
		}
		if from.Terminal() == (len(allowed[from]) > 0) {
			t.Errorf("%s: terminal flag disagrees with transitions", from)
		}
	}
}

func TestNewPage(t *testing.T) {
	req := NewPageRequest(2, 10, 20)
	page := NewPage([]int{1, 2, 3}, 23, req)
	if page.Pages != 3 || page.CurrentPage != 2 || page.Total != 23 {
		t.Fatalf("unexpected page %+v", page)
	}
	if req.Skip() != 10 {
		t.Fatalf("expected skip 10, got %d", req.Skip())
	}

	empty := NewPage[int](nil, 0, NewPageRequest(0, 0, 10))
	if empty.Items == nil || empty.Pages != 0 || empty.CurrentPage != 1 {
		t.Fatalf("unexpected empty page %+v", empty)
	}

	if got := NewPageRequest(1, 5000, 10).Size; got != MaxPageSize {
		t.Fatalf("expected size capped at %d, got %d", MaxPageSize, got)
	}

	huge := NewPageRequest(922337203685477581, 20, 10)
	if huge.Page != MaxPage {
		t.Fatalf("expected page capped at %d, got %d", MaxPage, huge.Page)
	}
	if want := int64(MaxPage-1) * 20; huge.Skip() != want {
		t.Fatalf("expected skip %d, got %d", want, huge.Skip())
	}
	if got := (PageRequest{Page: 922337203685477581, Size: 20}).Skip(); got != math.MaxInt64 {
		t.Fatalf("expected saturated skip, got %d", got)
	}
}

func TestDonationViewDonorName(t *testing.T) {
	donor := &User{FirstName: "Ada", LastName: "Lovelace"}
	campaign := &Campaign{Title: "Books"}

	view := NewDonationView(Donation{}, donor, campaign)
	if view.DonorName != "Ada Lovelace" || view.CampaignTitle == nil || *view.CampaignTitle != "Books" {
		t.Fatalf("unexpected view %+v", view)
	}

	anon := NewDonationView(Donation{IsAnonymous: true}, donor, nil)
	if anon.DonorName != "Anonymous" || anon.CampaignTitle != nil {
		t.Fatalf("unexpected anonymous view %+v", anon)
	}

	if got := NewDonationView(Donation{}, nil, nil).DonorName; got != "Unknown" {
		t.Fatalf("expected Unknown, got %q", got)
	}
}

func TestCampaignViewJSONFlattens(t *testing.T) {
	end := time.Now().Add(48 * time.Hour)
	view := NewCampaignView(Campaign{Title: "Lab", GoalAmount: 200, RaisedAmount: 50, EndDate: &end}, &NGO{Name: "Tech Foundation"}, time.Now())

	raw, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["title"] != "Lab" || out["ngo_name"] != "Tech Foundation" || out["progress_percentage"] != 25.0 {
		t.Fatalf("unexpected json %s", raw)
	}
}
