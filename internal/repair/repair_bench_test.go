package repair

import (
	"fmt"
	"strings"
	"testing"
)

// brokenDocument builds a JavaScript-style object literal with n members.
func brokenDocument(n int) string {
	var b strings.Builder
	b.WriteString("{\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "  field_%d: 'value %d', // note %d\n", i, i, i)
		fmt.Fprintf(&b, "  list_%d: [%d, %d, %d,],\n", i, i, i+1, i+2)
	}
	b.WriteString("}")
	return b.String()
}

func TestBrokenDocument_Repairs(t *testing.T) {
	out, err := Repair(brokenDocument(50))
	if err != nil {
		t.Fatalf("Repair() error = %v", err)
	}
	if !strings.Contains(out, `"field_49": "value 49"`) {
		t.Errorf("Repair() output missing last member: %s", out[len(out)-80:])
	}
}

func BenchmarkRepair_Broken(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		doc := brokenDocument(n)
		b.Run(fmt.Sprintf("members=%d", n), func(b *testing.B) {
			b.SetBytes(int64(len(doc)))
			for i := 0; i < b.N; i++ {
				if _, err := Repair(doc); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkRepair_ValidFastPath(b *testing.B) {
	out, err := Repair(brokenDocument(1000))
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(out)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Repair(out); err != nil {
			b.Fatal(err)
		}
	}
}
