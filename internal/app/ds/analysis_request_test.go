package ds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		// линейная цепочка
		{StatusPending, StatusReceived, true},
		{StatusReceived, StatusAnalysis, true},
		{StatusAnalysis, StatusValidation, true},
		{StatusValidation, StatusCompleted, true},
		{StatusCompleted, StatusProcessed, true},
		{StatusProcessed, StatusBilled, true},
		// перескок через статус запрещен
		{StatusPending, StatusAnalysis, false},
		{StatusReceived, StatusCompleted, false},
		// назад по цепочке нельзя, кроме возврата в pending
		{StatusAnalysis, StatusReceived, false},
		// restore в pending из любого статуса кроме billed
		{StatusReceived, StatusPending, true},
		{StatusProcessed, StatusPending, true},
		{StatusBilled, StatusPending, false},
		{StatusPending, StatusPending, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestBillableStatus(t *testing.T) {
	assert.True(t, BillableStatus(StatusProcessed))
	assert.True(t, BillableStatus(StatusCompleted))
	assert.False(t, BillableStatus(StatusPending))
	assert.False(t, BillableStatus(StatusBilled))
}
