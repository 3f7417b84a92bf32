package netctl

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModeValidate(t *testing.T) {
	cases := []struct {
		name    string
		mode    Mode
		wantErr error
	}{
		{"station", Mode{Type: ModeStation}, nil},
		{"station ignores stray config", Mode{Type: ModeStation, SSID: "x", Channel: 6}, nil},
		{"ap", Mode{Type: ModeAccessPoint, SSID: "lab", Channel: 11}, nil},
		{"ap 5ghz channel", Mode{Type: ModeAccessPoint, SSID: "lab", Channel: 149}, nil},
		{"ap empty ssid", Mode{Type: ModeAccessPoint, Channel: 6}, ErrInvalidMode},
		{"ap ssid too long", Mode{Type: ModeAccessPoint, SSID: "123456789012345678901234567890123", Channel: 6}, ErrInvalidMode},
		{"ap channel zero", Mode{Type: ModeAccessPoint, SSID: "lab"}, ErrInvalidMode},
		{"ap channel out of range", Mode{Type: ModeAccessPoint, SSID: "lab", Channel: 500}, ErrInvalidMode},
		{"unknown type", Mode{Type: "Monitor"}, ErrInvalidMode},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.mode.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestModeJSONShape(t *testing.T) {
	// Station serializes as a bare tag.
	data, err := json.Marshal(Mode{Type: ModeStation})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"type":"Station"}`, string(data))

	// AccessPoint carries its config inline.
	data, err = json.Marshal(Mode{Type: ModeAccessPoint, SSID: "lab", Channel: 6})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"type":"AccessPoint","ssid":"lab","channel":6}`, string(data))

	var m Mode
	err = json.Unmarshal([]byte(`{"type":"AccessPoint","ssid":"lab","channel":36}`), &m)
	assert.NoError(t, err)
	assert.Equal(t, ModeAccessPoint, m.Type)
	assert.Equal(t, "lab", m.SSID)
	assert.Equal(t, 36, m.Channel)
}

func TestLinkStateValid(t *testing.T) {
	assert.True(t, LinkUp.Valid())
	assert.True(t, LinkDown.Valid())
	assert.False(t, LinkState("up").Valid())
	assert.False(t, LinkState("").Valid())
}
