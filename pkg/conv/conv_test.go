package conv

import "testing"

func TestConfigGetters(t *testing.T) {
	m := map[string]any{
		"name":  "x",
		"pool":  50,
		"limit": 7.0,
		"th":    1,
		"bad":   "nope",
	}
	if got := ConfigGet(m, "name", ""); got != "x" {
		t.Errorf("ConfigGet(name) = %q", got)
	}
	if got := ConfigGet(m, "pool", ""); got != "" {
		t.Errorf("ConfigGet(pool) with wrong type = %q, want default", got)
	}
	if got := ConfigGetInt(m, "pool", 0); got != 50 {
		t.Errorf("ConfigGetInt(pool) = %d", got)
	}
	if got := ConfigGetInt(m, "limit", 0); got != 7 {
		t.Errorf("ConfigGetInt(limit) = %d", got)
	}
	if got := ConfigGetInt(m, "bad", 3); got != 3 {
		t.Errorf("ConfigGetInt(bad) = %d, want 3", got)
	}
	if got := ConfigGetFloat64(m, "th", 0.5); got != 1 {
		t.Errorf("ConfigGetFloat64(th) = %v", got)
	}
	if got := ConfigGetFloat64(nil, "th", 0.5); got != 0.5 {
		t.Errorf("ConfigGetFloat64(nil) = %v", got)
	}
}

func TestMapToFloat64(t *testing.T) {
	got := MapToFloat64(map[string]any{"a": 1, "b": 0.5, "c": "x"})
	if len(got) != 2 || got["a"] != 1 || got["b"] != 0.5 {
		t.Errorf("MapToFloat64() = %v", got)
	}
}

func TestSliceOfMaps(t *testing.T) {
	got := SliceOfMaps([]any{map[string]any{"type": "rule"}, "skip", map[string]any{}})
	if len(got) != 2 || got[0]["type"] != "rule" {
		t.Errorf("SliceOfMaps() = %v", got)
	}
	if SliceOfMaps("nope") != nil {
		t.Error("SliceOfMaps(non-slice) should be nil")
	}
}
