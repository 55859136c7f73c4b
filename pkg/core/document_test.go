package core

import "testing"

func TestDocument_CloneIndependence(t *testing.T) {
	doc := Document{
		"name": "Demo1",
		"meta": map[string]any{"level": 1},
		"tags": []any{"a"},
	}

	clone := doc.Clone()
	clone["name"] = "changed"
	clone["meta"].(map[string]any)["level"] = 99
	clone["tags"].([]any)[0] = "z"

	if doc["name"] != "Demo1" {
		t.Error("top-level mutation leaked into the source")
	}
	if doc["meta"].(map[string]any)["level"] != 1 {
		t.Error("nested map mutation leaked into the source")
	}
	if doc["tags"].([]any)[0] != "a" {
		t.Error("slice mutation leaked into the source")
	}
}

func TestDocument_EqualByValue(t *testing.T) {
	a := Document{"name": "x", "meta": map[string]any{"n": 1}}
	b := Document{"name": "x", "meta": map[string]any{"n": 1}}
	if !a.Equal(b) {
		t.Error("expected deep value equality")
	}

	b["meta"].(map[string]any)["n"] = 2
	if a.Equal(b) {
		t.Error("expected inequality after nested mutation")
	}

	var empty Document
	if !empty.Equal(Document{}) {
		t.Error("nil and empty documents should compare equal")
	}
}

func TestMatches(t *testing.T) {
	doc := Document{
		"_id":  "abc",
		"name": "Demo1",
		"meta": map[string]any{"level": 3},
	}

	cases := []struct {
		name  string
		conds Conditions
		want  bool
	}{
		{"by id", Conditions{"_id": "abc"}, true},
		{"wrong id", Conditions{"_id": "xyz"}, false},
		{"dotted path", Conditions{"meta.level": 3}, true},
		{"dotted miss", Conditions{"meta.level": 4}, false},
		{"missing field", Conditions{"ghost": 1}, false},
		{"multi field", Conditions{"_id": "abc", "name": "Demo1"}, true},
		{"empty matches all", Conditions{}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Matches(doc, tc.conds); got != tc.want {
				t.Errorf("Matches(%v) = %v, want %v", tc.conds, got, tc.want)
			}
		})
	}
}

func TestConditions_KeyStable(t *testing.T) {
	a := Conditions{"_id": "abc", "name": "x"}
	b := Conditions{"name": "x", "_id": "abc"}
	if a.Key() != b.Key() {
		t.Errorf("expected stable canonical key, got %q vs %q", a.Key(), b.Key())
	}
	if a.Key() == "" {
		t.Error("expected non-empty key")
	}
}
