package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpdateEnvelopeRoundTrip(t *testing.T) {
	env := NewUpdateEnvelope(2, Update{
		UpdateType:   UpdatePlayFromHand,
		PlayerNumber: Int(1),
		Cards:        Str("D7,H7"),
	})
	body, err := json.Marshal(env)
	require.NoError(t, err)

	decoded, err := DecodeEnvelope(body)
	require.NoError(t, err)
	require.Equal(t, EnvelopeUpdate, decoded.Type)
	require.Equal(t, 2, decoded.Recipient)
	require.Equal(t, UpdatePlayFromHand, decoded.Update.UpdateType)
	require.Equal(t, 1, *decoded.Update.PlayerNumber)
	require.Equal(t, "D7,H7", *decoded.Update.Cards)
}

func TestRequestEnvelopeRoundTrip(t *testing.T) {
	body, err := json.Marshal(NewRequestEnvelope(0, RequestPlay))
	require.NoError(t, err)

	decoded, err := DecodeEnvelope(body)
	require.NoError(t, err)
	require.Equal(t, EnvelopeRequest, decoded.Type)
	require.Equal(t, RequestPlay, decoded.RequestType)
}

func TestDecodeEnvelopeRejectsBadFrames(t *testing.T) {
	for _, body := range []string{
		"not json",
		`{"type":"update","recipient":0}`,
		`{"type":"request","recipient":0,"request_type":"DANCE"}`,
		`{"type":"telegram","recipient":0}`,
	} {
		_, err := DecodeEnvelope([]byte(body))
		require.ErrorIs(t, err, ErrProtocol, "body %q", body)
	}
}

func TestDecodeResponse(t *testing.T) {
	resp, err := DecodeResponse([]byte(`{"action":"PLAY_KNOWN_CARDS","cards":"D7"}`))
	require.NoError(t, err)
	require.Equal(t, ActionPlayKnownCards, resp.Action)
	require.Equal(t, "D7", *resp.Cards)

	resp, err = DecodeResponse([]byte(`{"action":"PICK_UP_DISCARD_PILE"}`))
	require.NoError(t, err)
	require.Equal(t, ActionPickUpDiscardPile, resp.Action)
	require.Nil(t, resp.Cards)
}

func TestDecodeResponseRejectsBadActions(t *testing.T) {
	for _, body := range []string{"{}", `{"action":"SHRUG"}`, "nope"} {
		_, err := DecodeResponse([]byte(body))
		require.ErrorIs(t, err, ErrProtocol, "body %q", body)
	}
}

func TestUpdateOmitsAbsentFields(t *testing.T) {
	body, err := json.Marshal(Update{UpdateType: UpdateBurnDiscardPile})
	require.NoError(t, err)
	require.JSONEq(t, `{"update_type":"BURN_DISCARD_PILE"}`, string(body))
}
