package cargo

import (
	"reflect"
	"testing"
)

func TestAggregateDeduplicates(t *testing.T) {
	a := &Manifest{Path: "/p/a/Cargo.toml", Specs: []Spec{
		{Name: "serde", Origin: OriginSimple, Version: "1.0"},
		{Name: "anyhow", Origin: OriginSimple, Version: "1.0.75"},
	}}
	b := &Manifest{Path: "/p/b/Cargo.toml", Specs: []Spec{
		{Name: "serde", Origin: OriginSimple, Version: "1.0"},
		{Name: "tokio", Origin: OriginDetailed, Version: "1.32"},
	}}

	c := Aggregate([]*Manifest{a, b})
	if c.Len() != 3 {
		t.Fatalf("expected 3 unique names, got %d", c.Len())
	}
	want := []string{"serde", "anyhow", "tokio"}
	if got := c.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("names = %v, want %v", got, want)
	}
	if !c.Contains("serde") || c.Contains("missing") {
		t.Error("Contains misreports membership")
	}
}

func TestAggregateDetailedWins(t *testing.T) {
	simpleFirst := []*Manifest{
		{Path: "a", Specs: []Spec{{Name: "serde", Origin: OriginSimple, Version: "1.0"}}},
		{Path: "b", Specs: []Spec{{Name: "serde", Origin: OriginDetailed, Version: "1.0.190"}}},
	}
	c := Aggregate(simpleFirst)
	if got, _ := c.VersionLiteral("serde"); got != "1.0.190" {
		t.Errorf("later detailed should upgrade earlier simple, got %q", got)
	}

	detailedFirst := []*Manifest{
		{Path: "a", Specs: []Spec{{Name: "serde", Origin: OriginDetailed, Version: "1.0.190"}}},
		{Path: "b", Specs: []Spec{{Name: "serde", Origin: OriginDetailed, Version: "2.0"}}},
	}
	c = Aggregate(detailedFirst)
	if got, _ := c.VersionLiteral("serde"); got != "1.0.190" {
		t.Errorf("first detailed should win, got %q", got)
	}
}

func TestAggregateDeterministic(t *testing.T) {
	manifests := []*Manifest{
		{Path: "a", Specs: []Spec{
			{Name: "z", Origin: OriginSimple, Version: "1"},
			{Name: "a", Origin: OriginSimple, Version: "2"},
		}},
		{Path: "b", Specs: []Spec{{Name: "m", Origin: OriginSimple, Version: "3"}}},
	}

	first := Aggregate(manifests).Names()
	for i := 0; i < 10; i++ {
		if got := Aggregate(manifests).Names(); !reflect.DeepEqual(got, first) {
			t.Fatalf("aggregation not deterministic: %v vs %v", got, first)
		}
	}
	if want := []string{"z", "a", "m"}; !reflect.DeepEqual(first, want) {
		t.Errorf("names = %v, want insertion order %v", first, want)
	}
}

func TestCollectionGroupedView(t *testing.T) {
	manifests := []*Manifest{
		{Path: "/p/a/Cargo.toml", Specs: []Spec{
			{Name: "serde", Origin: OriginSimple, Version: "1.0"},
			{Name: "anyhow", Origin: OriginSimple, Version: "1.0"},
		}},
		{Path: "/p/b/Cargo.toml", Specs: []Spec{
			{Name: "serde", Origin: OriginSimple, Version: "1.0"},
		}},
	}

	c := Aggregate(manifests)
	files := c.Files()
	if want := []string{"/p/a/Cargo.toml", "/p/b/Cargo.toml"}; !reflect.DeepEqual(files, want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	if got := c.SpecsFor("/p/a/Cargo.toml"); len(got) != 2 {
		t.Errorf("expected 2 specs for first manifest, got %d", len(got))
	}
	if got := c.SpecsFor("/p/b/Cargo.toml"); len(got) != 1 {
		t.Errorf("expected 1 spec for second manifest, got %d", len(got))
	}
}
