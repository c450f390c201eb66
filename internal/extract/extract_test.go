package extract

import (
	"reflect"
	"testing"
)

func TestFlatten(t *testing.T) {
	pages := []Page{
		{{"a", "b"}, {"c", "d"}},
		nil,
		{{"e", "f"}},
	}

	got := Flatten(pages)
	want := [][]string{{"a", "b"}, {"c", "d"}, {"e", "f"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Flatten() = %v, want %v", got, want)
	}
}

func TestFlatten_Empty(t *testing.T) {
	if got := Flatten(nil); len(got) != 0 {
		t.Fatalf("Flatten(nil) = %v, want empty", got)
	}
	if got := Flatten([]Page{nil, nil}); len(got) != 0 {
		t.Fatalf("Flatten(all nil) = %v, want empty", got)
	}
}
