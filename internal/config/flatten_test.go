package config

import "testing"

func TestFlatten_Nested(t *testing.T) {
	m := map[string]any{
		"user": "alice",
		"backend": map[string]any{
			"base_url": "http://x/v1",
			"api_key":  "k",
		},
	}
	flat := Flatten(m)
	if flat["user"] != "alice" {
		t.Errorf("expected top-level key preserved, got %v", flat["user"])
	}
	if flat["backend.base_url"] != "http://x/v1" {
		t.Errorf("expected nested key flattened, got %v", flat["backend.base_url"])
	}
	if len(flat) != 3 {
		t.Errorf("expected 3 flat keys, got %d", len(flat))
	}
}

func TestUnflatten_Nested(t *testing.T) {
	flat := map[string]any{
		"backend.base_url": "http://x/v1",
		"user":             "alice",
	}
	nested := Unflatten(flat)
	backend, ok := nested["backend"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested backend map, got %T", nested["backend"])
	}
	if backend["base_url"] != "http://x/v1" {
		t.Errorf("expected nested value, got %v", backend["base_url"])
	}
}

func TestRoundTrip_FlattenUnflatten(t *testing.T) {
	m := map[string]any{
		"a": "1",
		"b": map[string]any{
			"c": "2",
			"d": map[string]any{"e": "3"},
		},
	}
	got := Flatten(Unflatten(Flatten(m)))
	want := Flatten(m)
	if len(got) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(got))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("key %s: expected %v, got %v", k, v, got[k])
		}
	}
}

func TestMaskSecrets(t *testing.T) {
	tests := []struct {
		name string
		key  string
		in   any
		want any
	}{
		{"long secret", "backend.api_key", "abcdef1234", "***1234"},
		{"short secret", "telegram.token", "ab", "***ab"},
		{"empty secret", "backend.api_key", "", ""},
		{"non-secret", "backend.base_url", "http://x", "http://x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := MaskSecrets(map[string]any{tt.key: tt.in})
			if out[tt.key] != tt.want {
				t.Errorf("expected %v, got %v", tt.want, out[tt.key])
			}
		})
	}
}

func TestIsSecretKey(t *testing.T) {
	if !IsSecretKey("backend.api_key") {
		t.Error("backend.api_key should be secret")
	}
	if IsSecretKey("backend.base_url") {
		t.Error("backend.base_url should not be secret")
	}
}
