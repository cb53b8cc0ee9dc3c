package main

import (
	"testing"

	"github.com/slhn-import/internal/address"
)

func TestStreetNames(t *testing.T) {
	r := address.NewStreetRegistry()
	r.Register("Ulica talcev", "ulica_talcev")
	r.Register("Glavna cesta", "glavna_cesta")
	r.Register("Glavna  cesta", "glavna_cesta")

	got := streetNames(r)
	want := []string{"Ulica talcev", "Glavna cesta"}
	if len(got) != len(want) {
		t.Fatalf("streetNames = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("streetNames[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if got := streetNames(address.NewStreetRegistry()); len(got) != 0 {
		t.Errorf("empty registry = %v, want none", got)
	}
}
