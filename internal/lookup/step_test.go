package lookup

import "testing"

func TestStep_EmptyReturnsDefault(t *testing.T) {
	if got := Step("2026-05", nil, 7.5); got != 7.5 {
		t.Errorf("expected 7.5, got %f", got)
	}
	if got := Step("2026-05", map[string]float64{}, 7.5); got != 7.5 {
		t.Errorf("expected 7.5, got %f", got)
	}
}

func TestStep_ExactMatch(t *testing.T) {
	points := map[string]float64{
		"2026-01": 1.0,
		"2026-06": 2.0,
	}
	if got := Step("2026-06", points, 0); got != 2.0 {
		t.Errorf("expected 2.0, got %f", got)
	}
}

func TestStep_MostRecentAtOrBefore(t *testing.T) {
	points := map[string]float64{
		"2026-01": 1.0,
		"2026-06": 2.0,
		"2027-01": 3.0,
	}
	if got := Step("2026-09", points, 0); got != 2.0 {
		t.Errorf("expected 2.0, got %f", got)
	}
	if got := Step("2030-01", points, 0); got != 3.0 {
		t.Errorf("expected 3.0, got %f", got)
	}
}

func TestStep_BeforeFirstReturnsDefault(t *testing.T) {
	points := map[string]float64{"2026-06": 2.0}
	if got := Step("2026-01", points, 9.0); got != 9.0 {
		t.Errorf("expected 9.0, got %f", got)
	}
}

func TestRamp_DefaultsToOne(t *testing.T) {
	if got := Ramp("2026-01", nil); got != 1.0 {
		t.Errorf("expected 1.0, got %f", got)
	}
	points := map[string]float64{"2026-06": 0.5}
	if got := Ramp("2026-01", points); got != 1.0 {
		t.Errorf("expected 1.0 before first point, got %f", got)
	}
	if got := Ramp("2026-08", points); got != 0.5 {
		t.Errorf("expected 0.5, got %f", got)
	}
}

func TestAmount_DefaultsToZero(t *testing.T) {
	if got := Amount("2026-01", nil); got != 0.0 {
		t.Errorf("expected 0.0, got %f", got)
	}
}
