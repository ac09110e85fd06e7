package order

import "testing"

func TestStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPlaced, StatusAccepted},
		{StatusPlaced, StatusRejected},
		{StatusAccepted, StatusPreparing},
		{StatusPreparing, StatusFinished},
	}
	for _, tr := range allowed {
		if !CanTransition(tr.from, tr.to) {
			t.Fatalf("%s -> %s should be allowed", tr.from, tr.to)
		}
	}

	denied := []struct{ from, to Status }{
		{StatusPlaced, StatusPreparing},
		{StatusPlaced, StatusFinished},
		{StatusAccepted, StatusRejected},
		{StatusPreparing, StatusAccepted},
		{StatusRejected, StatusAccepted},
		{StatusFinished, StatusPlaced},
		{StatusPlaced, StatusPlaced},
	}
	for _, tr := range denied {
		if CanTransition(tr.from, tr.to) {
			t.Fatalf("%s -> %s should be denied", tr.from, tr.to)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, s := range []Status{StatusRejected, StatusFinished} {
		if !s.Terminal() {
			t.Fatalf("%s should be terminal", s)
		}
	}
	for _, s := range []Status{StatusPlaced, StatusAccepted, StatusPreparing} {
		if s.Terminal() {
			t.Fatalf("%s should not be terminal", s)
		}
	}
}

func TestStatusDisplayFallback(t *testing.T) {
	if StatusPreparing.Label() != "Preparing" || StatusPreparing.Color() != "yellow" {
		t.Fatalf("preparing display wrong: %s/%s", StatusPreparing.Label(), StatusPreparing.Color())
	}
	unknown := Status("mystery")
	if unknown.Label() != "mystery" {
		t.Fatalf("unknown label should echo the raw value, got %q", unknown.Label())
	}
	if unknown.Color() != "gray" {
		t.Fatalf("unknown color should fall back to gray, got %q", unknown.Color())
	}
	if unknown.Progress() != 0 {
		t.Fatalf("unknown progress should be 0, got %d", unknown.Progress())
	}
	if unknown.Known() {
		t.Fatal("mystery should not be a known status")
	}
}

func TestStatusProgress(t *testing.T) {
	want := map[Status]int{
		StatusPlaced:    20,
		StatusAccepted:  40,
		StatusPreparing: 60,
		StatusFinished:  100,
		StatusRejected:  0,
	}
	for s, p := range want {
		if s.Progress() != p {
			t.Fatalf("%s progress = %d, want %d", s, s.Progress(), p)
		}
	}
}

func TestAllStatuses(t *testing.T) {
	statuses := AllStatuses()
	if len(statuses) != 5 {
		t.Fatalf("expected 5 statuses, got %v", statuses)
	}
	if statuses[0] != "placed" || statuses[4] != "finished" {
		t.Fatalf("unexpected ordering: %v", statuses)
	}
}
