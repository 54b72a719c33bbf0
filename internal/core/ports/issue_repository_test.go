package ports

import (
	"math"
	"testing"
)

func TestPageRequest_Offset(t *testing.T) {
	tests := []struct {
		name string
		page PageRequest
		want int
	}{
		{"first page", PageRequest{Page: 1, Limit: 20}, 0},
		{"third page", PageRequest{Page: 3, Limit: 20}, 40},
		{"zero page", PageRequest{Page: 0, Limit: 20}, 0},
		{"no limit", PageRequest{Page: 5, Limit: 0}, 0},
		{"huge page saturates", PageRequest{Page: 1 << 62, Limit: 100}, math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.page.Offset(); got != tt.want {
				t.Errorf("Offset() = %d, want %d", got, tt.want)
			}
		})
	}
}
