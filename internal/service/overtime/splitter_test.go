package overtime

import (
	"testing"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/overtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func worked(minutes int) overtime.WorkWindow {
	return overtime.WorkWindow{TotalWorkedMinutes: minutes}
}

func TestSplitOvertime(t *testing.T) {
	tests := []struct {
		name        string
		worked      int
		baseHours   float64
		alreadyPaid int
		want        overtime.Split
	}{
		{
			name: "fully paid", worked: 600, baseHours: 8, alreadyPaid: 0,
			want: overtime.Split{BaseMinutes: 480, OvertimeMinutes: 120, PaidMinutes: 120, UnpaidMinutes: 0, RemainingPaidMinutes: 4320},
		},
		{
			name: "split across the cap", worked: 520, baseHours: 8, alreadyPaid: 4300,
			want: overtime.Split{BaseMinutes: 480, OvertimeMinutes: 40, PaidMinutes: 20, UnpaidMinutes: 20, RemainingPaidMinutes: 20},
		},
		{
			name: "cap already reached", worked: 540, baseHours: 8, alreadyPaid: 4320,
			want: overtime.Split{BaseMinutes: 480, OvertimeMinutes: 60, PaidMinutes: 0, UnpaidMinutes: 60, RemainingPaidMinutes: 0},
		},
		{
			name: "baseline above cap clamps to zero", worked: 540, baseHours: 8, alreadyPaid: 5000,
			want: overtime.Split{BaseMinutes: 480, OvertimeMinutes: 60, PaidMinutes: 0, UnpaidMinutes: 60, RemainingPaidMinutes: 0},
		},
		{
			name: "fractional base hours", worked: 500, baseHours: 7.5, alreadyPaid: 0,
			want: overtime.Split{BaseMinutes: 450, OvertimeMinutes: 50, PaidMinutes: 50, UnpaidMinutes: 0, RemainingPaidMinutes: 4320},
		},
		{
			name: "missing base hours uses default", worked: 540, baseHours: 0, alreadyPaid: 0,
			want: overtime.Split{BaseMinutes: 480, OvertimeMinutes: 60, PaidMinutes: 60, UnpaidMinutes: 0, RemainingPaidMinutes: 4320},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitOvertime(worked(tt.worked), tt.baseHours, tt.alreadyPaid)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.OvertimeMinutes, got.PaidMinutes+got.UnpaidMinutes)
		})
	}
}

func TestSplitOvertime_NoOvertime(t *testing.T) {
	window := overtime.WorkWindow{TotalWorkedMinutes: 420, LunchDeductedMinutes: 60}

	_, err := SplitOvertime(window, 8, 0)
	require.ErrorIs(t, err, overtime.ErrNoOvertimeToRecord)

	var noOT *overtime.NoOvertimeError
	require.ErrorAs(t, err, &noOT)
	assert.Equal(t, 420, noOT.TotalWorkedMinutes)
	assert.Equal(t, 480, noOT.BaseMinutes)
	assert.Equal(t, 8.0, noOT.BaseHoursPerDay)
	assert.Equal(t, 60, noOT.LunchDeductedMinutes)
	assert.Contains(t, noOT.Error(), "7h 0m")
}

func TestSplitOvertime_ExactlyBase(t *testing.T) {
	_, err := SplitOvertime(worked(480), 8, 0)
	assert.ErrorIs(t, err, overtime.ErrNoOvertimeToRecord)
}
