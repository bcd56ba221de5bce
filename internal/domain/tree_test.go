package domain_test

import (
	"testing"
	"time"

	"quiz-builder/internal/domain"
)

func treeQuiz() domain.Quiz {
	q := domain.NewQuiz("q", "Quiz", seqIDs(), time.Now())
	second := domain.NewScreen("s2", "Second", q.Theme)
	second.Sections.Body.Elements = []domain.Element{{ID: "other", Type: domain.ElementText}}
	q.Screens = append(q.Screens, second)
	q.Screens[0].Sections.Header.Elements = []domain.Element{{ID: "h", Type: domain.ElementText}}
	q.Screens[0].Sections.Body.Elements = []domain.Element{{
		ID: "g", Type: domain.ElementGroup, IsGroup: true,
		Children: []domain.Element{
			{ID: "c1", Type: domain.ElementText},
			{ID: "g2", Type: domain.ElementGroup, IsGroup: true, Children: []domain.Element{{ID: "c2", Type: domain.ElementText}}},
		},
	}}
	domain.Migrate(&q, seqIDs())
	return q
}

func TestWalkOrder(t *testing.T) {
	q := treeQuiz()
	q.CurrentScreenIndex = 1
	var got []string
	q.Walk(func(loc domain.Location) bool {
		got = append(got, loc.Element().ID)
		return true
	})
	want := []string{"other", "h", "g", "c1", "g2", "c2"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestLocateNested(t *testing.T) {
	q := treeQuiz()
	loc, ok := q.Locate("c2")
	if !ok {
		t.Fatalf("c2 not found")
	}
	if loc.ParentID() != "g2" || loc.Depth != 2 || loc.Section != domain.SectionBody {
		t.Fatalf("unexpected location %+v", loc)
	}
	if _, ok := q.LocateInScreen(1, "c2"); ok {
		t.Fatalf("c2 must not be found on the second screen")
	}
	if _, ok := q.Locate("missing"); ok {
		t.Fatalf("missing element found")
	}
}

func TestFindReturnsCopy(t *testing.T) {
	q := treeQuiz()
	el, ok := q.Find("g")
	if !ok {
		t.Fatalf("g not found")
	}
	el.Children[0].Content = "changed"
	orig, _ := q.Find("c1")
	if orig.Content == "changed" {
		t.Fatalf("Find must return a copy")
	}
	if !el.Contains("c2") || el.Contains("h") {
		t.Fatalf("unexpected Contains result")
	}
}

func TestRegenerateIDsRewiresChildren(t *testing.T) {
	q := treeQuiz()
	el, _ := q.Find("g")
	el.RegenerateIDs(seqIDs())
	if el.ID == "g" || el.Children[0].GroupID != el.ID || el.Children[1].Children[0].GroupID != el.Children[1].ID {
		t.Fatalf("ids not rewired: %+v", el)
	}
}

func TestEnsureUniqueIDs(t *testing.T) {
	q := treeQuiz()
	q.Screens[1].Sections.Body.Elements[0].ID = "c1"
	if n := domain.EnsureUniqueIDs(&q, seqIDs()); n != 1 {
		t.Fatalf("expected 1 replacement, got %d", n)
	}
	if _, ok := q.LocateInScreen(0, "c1"); !ok {
		t.Fatalf("element on current screen must keep its id")
	}
}
