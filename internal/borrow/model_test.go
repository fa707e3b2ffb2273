package borrow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Valid(t *testing.T) {
	assert.True(t, StatusBorrowed.Valid())
	assert.True(t, StatusReturned.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, Status(3).Valid())
	assert.False(t, Status(-1).Valid())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "borrowed", StatusBorrowed.String())
	assert.Equal(t, "returned", StatusReturned.String())
	assert.Equal(t, "cancelled", StatusCancelled.String())
	assert.Equal(t, "unknown", Status(7).String())
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"borrowed to returned", StatusBorrowed, StatusReturned, true},
		{"borrowed to cancelled", StatusBorrowed, StatusCancelled, true},
		{"borrowed to borrowed", StatusBorrowed, StatusBorrowed, false},
		{"returned is terminal", StatusReturned, StatusBorrowed, false},
		{"returned to cancelled", StatusReturned, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusReturned, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestPage_Clamp(t *testing.T) {
	tests := []struct {
		name     string
		in       Page
		wantPage int
		wantSize int
	}{
		{"in range", Page{Page: 2, Size: 25}, 2, 25},
		{"page below one", Page{Page: 0, Size: 25}, 1, 25},
		{"negative page", Page{Page: -3, Size: 25}, 1, 25},
		{"size zero", Page{Page: 1, Size: 0}, 1, 10},
		{"size over max", Page{Page: 1, Size: 101}, 1, 10},
		{"size at max", Page{Page: 1, Size: 100}, 1, 100},
		{"size at one", Page{Page: 1, Size: 1}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Clamp(10, 100)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantSize, got.Size)
		})
	}
}

func TestPage_Offset(t *testing.T) {
	assert.Equal(t, 0, Page{Page: 1, Size: 10}.Offset())
	assert.Equal(t, 30, Page{Page: 4, Size: 10}.Offset())
}

func TestParseInclude(t *testing.T) {
	assert.Equal(t, Include{}, ParseInclude(""))
	assert.Equal(t, Include{User: true}, ParseInclude("user"))
	assert.Equal(t, Include{User: true, Material: true}, ParseInclude("user,material"))
	assert.Equal(t, Include{User: true, Material: true}, ParseInclude("MATERIAL,User"))
	assert.Equal(t, Include{Material: true}, ParseInclude("material"))
}
