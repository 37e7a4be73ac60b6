package config

import (
	"fmt"

	"github.com/tormodfh/pricc/internal/cc"
	"github.com/tormodfh/pricc/internal/cc/record"
	"github.com/tormodfh/pricc/internal/cc/rose"
	"github.com/tormodfh/pricc/internal/cc/timer"
)

// Durations converts the YAML-friendly TimerConfig into the millisecond
// table the timer package selects from.
func (t TimerConfig) Durations() timer.Durations {
	return timer.Durations{
		TRetentionMs: int(t.TRetention.Milliseconds()),
		TCCBS2Ms:     int(t.TCCBS2.Milliseconds()),
		TCCNR2Ms:     int(t.TCCNR2.Milliseconds()),
		TCCBS5Ms:     int(t.TCCBS5.Milliseconds()),
		TCCBS6Ms:     int(t.TCCBS6.Milliseconds()),
		TCCNR5Ms:     int(t.TCCNR5.Milliseconds()),
		TCCNR6Ms:     int(t.TCCNR6.Milliseconds()),
		TCCBS3Ms:     int(t.TCCBS3.Milliseconds()),
		QSIGCCBST2Ms: int(t.QSIGCCBST2.Milliseconds()),
		QSIGCCNRT2Ms: int(t.QSIGCCNRT2.Milliseconds()),
		QSIGCCT1Ms:   int(t.QSIGCCT1.Milliseconds()),
		QSIGCCT3Ms:   int(t.QSIGCCT3.Milliseconds()),
		TResponseMs:  int(t.TResponse.Milliseconds()),
	}
}

// dialectFromLocalType maps the local-type string to the controller's
// Dialect enum. BRI point-to-multipoint only exists on a BRI local type;
// everything else (PRI and Q.SIG peer links) runs point-to-point or
// Q.SIG framing depending on SwitchType.
func dialectFromLocalType(switchType, localType string) (record.Dialect, error) {
	if switchType == "qsig" {
		return record.DialectQSIG, nil
	}
	switch localType {
	case "bri_cpe", "bri_network":
		return record.DialectPTMP, nil
	case "pri_cpe", "pri_network":
		return record.DialectPTP, nil
	default:
		return 0, fmt.Errorf("config: unrecognized localtype %q", localType)
	}
}

func recallMode(s string) rose.RecallMode {
	if s == "specific" {
		return rose.RecallModeSpecific
	}
	return rose.RecallModeGlobal
}

func signalingRetention(s string) cc.SignalingRetention {
	switch s {
	case "demand_retain":
		return cc.RetentionDemandRetain
	case "dont_care":
		return cc.RetentionDontCare
	default:
		return cc.RetentionReleaseWanted
	}
}

// ControllerConfig resolves one ChannelConfig, paired with the shared
// timer table, into the internal/cc.Config the Controller constructor
// expects.
func (c ChannelConfig) ControllerConfig(timers TimerConfig) (cc.Config, error) {
	dialect, err := dialectFromLocalType(c.SwitchType, c.LocalType)
	if err != nil {
		return cc.Config{}, err
	}
	return cc.Config{
		ChannelID:             c.ID,
		Dialect:               dialect,
		IsNT:                  c.IsNT,
		CCSupport:             c.CCSupport,
		RecallMode:            recallMode(c.RecallMode),
		SignalingRetentionReq: signalingRetention(c.SignalingRetentionReq),
		SignalingRetentionRsp: signalingRetention(c.SignalingRetentionRsp),
		Durations:             timers.Durations(),
		DeflectionSupport:     c.DeflectionSupport,
		TransferSupport:       c.TransferSupport,
		MCIDSupport:           c.MCIDSupport,
		IncludeCalledPartyIE:  c.IncludeCalledPartyIE,
	}, nil
}
