package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleDurations() Durations {
	return Durations{
		TCCBS2Ms: 100, TCCNR2Ms: 200,
		TCCBS5Ms: 300, TCCBS6Ms: 400, TCCNR5Ms: 500, TCCNR6Ms: 600,
		TCCBS3Ms:    700,
		QSIGCCBST2Ms: 800, QSIGCCNRT2Ms: 900, QSIGCCT3Ms: 1000,
	}
}

func TestSupervisionDurationPTMP(t *testing.T) {
	d := sampleDurations()
	assert.Equal(t, 100, SupervisionDuration(d, DialectPTMP, false, false))
	assert.Equal(t, 200, SupervisionDuration(d, DialectPTMP, true, false))
}

func TestSupervisionDurationPTPByRole(t *testing.T) {
	d := sampleDurations()
	assert.Equal(t, 400, SupervisionDuration(d, DialectPTP, false, false))
	assert.Equal(t, 300, SupervisionDuration(d, DialectPTP, false, true))
	assert.Equal(t, 600, SupervisionDuration(d, DialectPTP, true, false))
	assert.Equal(t, 500, SupervisionDuration(d, DialectPTP, true, true))
}

func TestSupervisionDurationQSIG(t *testing.T) {
	d := sampleDurations()
	assert.Equal(t, 800, SupervisionDuration(d, DialectQSIG, false, false))
	assert.Equal(t, 900, SupervisionDuration(d, DialectQSIG, true, false))
}

func TestRecallDuration(t *testing.T) {
	d := sampleDurations()
	assert.Equal(t, 700, RecallDuration(d, DialectPTMP))
	assert.Equal(t, 700, RecallDuration(d, DialectPTP))
	assert.Equal(t, 1000, RecallDuration(d, DialectQSIG))
}

func TestNameString(t *testing.T) {
	assert.Equal(t, "T_RETENTION", TRetention.String())
	assert.Equal(t, "EXTENDED_T_CCBS1", ExtendedTCCBS1.String())
	assert.Equal(t, "T_UNKNOWN", Name(99).String())
}
